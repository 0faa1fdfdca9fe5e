// CLAUDE:SUMMARY Record assembler: merges field dict, normalized dates and geography; applies the emission invariant.
package record

import (
	"time"

	"github.com/hazyhaar/gaceta/blocks"
	"github.com/hazyhaar/gaceta/dates"
	"github.com/hazyhaar/gaceta/fields"
	"github.com/hazyhaar/gaceta/geo"
	"github.com/hazyhaar/gaceta/issue"
)

// excerptRunes is how much of the originating block rides along as audit
// excerpt.
const excerptRunes = 1000

// eventFieldKeys maps calendar events to their raw field-dictionary keys.
var eventFieldKeys = map[EventName]string{
	EventPublication:   fields.KeyDatePublication,
	EventClarification: fields.KeyDateClarify,
	EventSiteVisit:     fields.KeyDateSiteVisit,
	EventBidOpening:    fields.KeyDateBidOpening,
	EventAward:         fields.KeyDateAward,
}

// NormalizeEvents runs the date normalizer over every raw date field,
// producing the full event map. Events the notice never mentioned stay at the
// zero EventDate (null).
func NormalizeEvents(f fields.Fields) map[EventName]EventDate {
	out := make(map[EventName]EventDate, len(eventFieldKeys))
	for _, name := range EventNames() {
		raw, ok := f[eventFieldKeys[name]]
		if !ok {
			out[name] = EventDate{}
			continue
		}
		n := dates.Normalize(raw)
		out[name] = EventDate{Canonical: n.Canonical, Raw: n.Raw}
	}
	return out
}

// Input carries everything the assembler merges into one Record.
type Input struct {
	Issue       issue.Issue
	Block       blocks.Block
	Fields      fields.Fields
	Events      map[EventName]EventDate
	Place       geo.Place
	ProcessedAt time.Time
}

// Assemble merges the extraction outputs into a Record, attaches provenance
// and the confidence score, and applies the emission invariant: a record must
// carry an identifier, or both a buyer entity and a title. Rejected blocks
// return ok=false and are counted by the caller, never raised.
func Assemble(in Input) (Record, bool) {
	f := in.Fields
	r := Record{
		Identifier:          f[fields.KeyIdentifier],
		Title:               f[fields.KeyTitle],
		Description:         f[fields.KeyDescription],
		BuyerEntity:         f[fields.KeyBuyerEntity],
		BuyerSubunit:        f[fields.KeyBuyerSubunit],
		ProcedureType:       procedureOrDefault(f[fields.KeyProcedureType]),
		Category:            categoryOrDefault(f[fields.KeyCategory]),
		Character:           characterOrDefault(f[fields.KeyCharacter]),
		Region:              in.Place.Region,
		Municipality:        in.Place.Municipality,
		Locality:            in.Place.Locality,
		Address:             in.Place.Address,
		EventDates:          in.Events,
		ReferenceCode:       f[fields.KeyReferenceCode],
		ReducedDeadlines:    f[fields.KeyReducedDeadlines] == "true",
		ReductionAuthorizer: f[fields.KeyReductionAuth],
		Provenance: Provenance{
			Issue:       in.Issue,
			PageNumber:  in.Block.Page,
			SourceName:  in.Issue.SourceName,
			RawExcerpt:  excerpt(in.Block.Text),
			ProcessedAt: in.ProcessedAt,
		},
	}
	if r.EventDates == nil {
		r.EventDates = NormalizeEvents(f)
	}

	if r.Identifier == "" && (r.BuyerEntity == "" || r.Title == "") {
		return Record{}, false
	}

	r.Confidence, r.FieldsRecovered = Score(&r)
	return r, true
}

func excerpt(s string) string {
	r := []rune(s)
	if len(r) <= excerptRunes {
		return s
	}
	return string(r[:excerptRunes])
}

func procedureOrDefault(v string) ProcedureType {
	switch ProcedureType(v) {
	case ProcedureRestrictedInvitation, ProcedureDirectAward:
		return ProcedureType(v)
	default:
		return ProcedurePublicTender
	}
}

func categoryOrDefault(v string) Category {
	switch Category(v) {
	case CategoryWorks, CategoryServices, CategoryGoods:
		return Category(v)
	default:
		return CategoryUnspecified
	}
}

func characterOrDefault(v string) Character {
	if Character(v) == CharacterInternational {
		return CharacterInternational
	}
	return CharacterNational
}
