// CLAUDE:SUMMARY Confidence scorer: 0.2 per critical field, 0.04 per supplementary field capped at 10, rounded to 2 decimals.
package record

import "math"

const (
	criticalWeight      = 0.2
	supplementaryWeight = 0.04
	supplementaryCap    = 10
)

// Score computes the coverage score and recovered-field count of a record.
// Critical fields are identifier, buyer entity and region; every other
// recovered optional field is supplementary. The function is monotone in the
// set of non-null fields and deliberately order-independent — it is a triage
// heuristic, not a probability. Enumerated fields carry defaults and are
// never null, so they do not participate.
func Score(r *Record) (confidence float64, recovered int) {
	critical := 0
	for _, v := range []string{r.Identifier, r.BuyerEntity, r.Region} {
		if v != "" {
			critical++
		}
	}

	supplementary := 0
	for _, v := range []string{
		r.Title, r.Description, r.BuyerSubunit,
		r.Municipality, r.Locality, r.Address,
		r.ReferenceCode, r.ReductionAuthorizer,
	} {
		if v != "" {
			supplementary++
		}
	}
	for _, ev := range r.EventDates {
		if ev.Canonical != "" {
			supplementary++
		}
	}

	capped := supplementary
	if capped > supplementaryCap {
		capped = supplementaryCap
	}
	confidence = float64(critical)*criticalWeight + float64(capped)*supplementaryWeight
	confidence = math.Min(1.0, math.Round(confidence*100)/100)
	return confidence, critical + supplementary
}
