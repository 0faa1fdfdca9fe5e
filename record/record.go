// CLAUDE:SUMMARY Record entity: the engine's output unit with enums, event-date map and provenance.
// Package record defines the procurement Record entity and assembles it from
// the extraction stages.
//
// A Record is only emitted when it carries an identifier, or a buyer entity
// together with a title. Confidence is a bounded coverage heuristic over the
// recovered fields — a triage score, never an emission gate.
package record

import (
	"time"

	"github.com/hazyhaar/gaceta/issue"
)

// ProcedureType is the contracting procedure of a notice.
type ProcedureType string

const (
	ProcedurePublicTender         ProcedureType = "PUBLIC_TENDER"
	ProcedureRestrictedInvitation ProcedureType = "RESTRICTED_INVITATION"
	ProcedureDirectAward          ProcedureType = "DIRECT_AWARD"
)

// Category is what is being procured.
type Category string

const (
	CategoryWorks       Category = "WORKS"
	CategoryServices    Category = "SERVICES"
	CategoryGoods       Category = "GOODS"
	CategoryUnspecified Category = "UNSPECIFIED"
)

// Character is the national/international scope of a procedure.
type Character string

const (
	CharacterNational      Character = "NATIONAL"
	CharacterInternational Character = "INTERNATIONAL"
)

// EventName keys the fixed set of procurement calendar events.
type EventName string

const (
	EventPublication   EventName = "publication"
	EventClarification EventName = "clarification-meeting"
	EventSiteVisit     EventName = "site-visit"
	EventBidOpening    EventName = "bid-opening"
	EventAward         EventName = "award"
)

// EventNames returns the calendar events in their fixed order.
func EventNames() []EventName {
	return []EventName{EventPublication, EventClarification, EventSiteVisit, EventBidOpening, EventAward}
}

// EventDate is one normalized calendar entry. The zero value is null: the
// notice never mentioned the event. Canonical may also be the explicit
// NOT_APPLICABLE literal, or empty with Raw set when the text resisted
// parsing.
type EventDate struct {
	Canonical string `json:"canonical,omitempty"`
	Raw       string `json:"raw,omitempty"`
}

// Provenance ties a record back to the text span it came from.
type Provenance struct {
	Issue       issue.Issue `json:"issue"`
	PageNumber  int         `json:"page_number"`
	SourceName  string      `json:"source_name"`
	RawExcerpt  string      `json:"raw_text_excerpt"`
	ProcessedAt time.Time   `json:"processed_at"`
}

// Record is the engine's output unit for one procurement notice.
type Record struct {
	Identifier          string                  `json:"identifier,omitempty"`
	Title               string                  `json:"title,omitempty"`
	Description         string                  `json:"description,omitempty"`
	BuyerEntity         string                  `json:"buyer_entity,omitempty"`
	BuyerSubunit        string                  `json:"buyer_subunit,omitempty"`
	ProcedureType       ProcedureType           `json:"procedure_type"`
	Category            Category                `json:"procurement_category"`
	Character           Character               `json:"character"`
	Region              string                  `json:"region,omitempty"`
	Municipality        string                  `json:"municipality,omitempty"`
	Locality            string                  `json:"locality,omitempty"`
	Address             string                  `json:"address,omitempty"`
	EventDates          map[EventName]EventDate `json:"event_dates"`
	ReferenceCode       string                  `json:"reference_code,omitempty"`
	ReducedDeadlines    bool                    `json:"reduced_deadlines,omitempty"`
	ReductionAuthorizer string                  `json:"reduction_authorizer,omitempty"`
	Confidence          float64                 `json:"confidence"`
	FieldsRecovered     int                     `json:"fields_recovered"`
	Provenance          Provenance              `json:"provenance"`
}
