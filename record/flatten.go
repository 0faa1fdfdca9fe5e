// CLAUDE:SUMMARY Flat-schema serialization of a Record for the persistence collaborator, with content hash and JSON Schema validation.
package record

import (
	"bytes"
	"crypto/sha256"
	_ "embed"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schema.json
var flatSchemaJSON []byte

var flatSchema = mustCompileSchema()

func mustCompileSchema() *jsonschema.Schema {
	c := jsonschema.NewCompiler()
	if err := c.AddResource("record.schema.json", bytes.NewReader(flatSchemaJSON)); err != nil {
		panic(fmt.Sprintf("record: add schema: %v", err))
	}
	return c.MustCompile("record.schema.json")
}

// Flatten serializes a Record into the flat column schema the persistence
// collaborator consumes: nullable scalar columns, a nested event_dates map, a
// nested diagnostics map, and a free-form extras map for fields not modeled
// as first-class columns.
func (r Record) Flatten() map[string]any {
	events := make(map[string]any, len(r.EventDates))
	for _, name := range EventNames() {
		ev := r.EventDates[name]
		if ev == (EventDate{}) {
			events[string(name)] = nil
			continue
		}
		events[string(name)] = map[string]any{
			"canonical": nullable(ev.Canonical),
			"raw":       nullable(ev.Raw),
		}
	}

	extras := map[string]any{}
	if r.ReducedDeadlines {
		extras["reduced_deadlines"] = true
	}
	if r.ReductionAuthorizer != "" {
		extras["reduction_authorizer"] = r.ReductionAuthorizer
	}

	return map[string]any{
		"identifier":           nullable(r.Identifier),
		"title":                nullable(r.Title),
		"description":          nullable(r.Description),
		"buyer_entity":         nullable(r.BuyerEntity),
		"buyer_subunit":        nullable(r.BuyerSubunit),
		"procedure_type":       string(r.ProcedureType),
		"procurement_category": string(r.Category),
		"character":            string(r.Character),
		"region":               nullable(r.Region),
		"municipality":         nullable(r.Municipality),
		"locality":             nullable(r.Locality),
		"address":              nullable(r.Address),
		"reference_code":       nullable(r.ReferenceCode),
		"content_hash":         r.ContentHash(),
		"event_dates":          events,
		"diagnostics": map[string]any{
			"confidence":       r.Confidence,
			"fields_recovered": r.FieldsRecovered,
			"provenance": map[string]any{
				"issue_date":       r.Provenance.Issue.Date.Format("2006-01-02"),
				"edition":          string(r.Provenance.Issue.Edition),
				"page_number":      r.Provenance.PageNumber,
				"source_name":      r.Provenance.SourceName,
				"raw_text_excerpt": nullable(r.Provenance.RawExcerpt),
				"processed_at":     nullable(r.Provenance.ProcessedAt.Format(time.RFC3339)),
			},
		},
		"extras": extras,
	}
}

// ContentHash is the dedup key the persistence collaborator hashes upserts
// by: identifier + buyer entity + source name.
func (r Record) ContentHash() string {
	h := sha256.New()
	h.Write([]byte(r.Identifier))
	h.Write([]byte{0x1f})
	h.Write([]byte(r.BuyerEntity))
	h.Write([]byte{0x1f})
	h.Write([]byte(r.Provenance.SourceName))
	return hex.EncodeToString(h.Sum(nil))
}

// ValidateFlat checks a flattened record against the embedded output-contract
// schema. The rule-based path and any alternative extractor must both pass.
func ValidateFlat(flat map[string]any) error {
	b, err := json.Marshal(flat)
	if err != nil {
		return fmt.Errorf("marshal flat record: %w", err)
	}
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return fmt.Errorf("unmarshal flat record: %w", err)
	}
	if err := flatSchema.Validate(v); err != nil {
		return fmt.Errorf("flat record does not match contract: %w", err)
	}
	return nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
