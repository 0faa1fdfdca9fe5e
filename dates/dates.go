// CLAUDE:SUMMARY Date normalizer: four textual Spanish date shapes → canonical ISO timestamp, NOT_APPLICABLE or null.
// Package dates converts gazette date text to canonical timestamps.
//
// Normalize never fails: unparsable text yields KindUnparsed with the raw
// text preserved for audit, and the explicit "no habrá visita"/"no aplica"
// literals yield the distinct NOT_APPLICABLE value (stated as not happening,
// as opposed to unparsed). Four textual shapes are tried in order; month
// names resolve through the embedded Spanish month table.
package dates

import (
	_ "embed"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// NotApplicable is the canonical value for dates the notice explicitly
// declares as not happening. Distinct from the empty canonical of an
// unparsed date.
const NotApplicable = "NOT_APPLICABLE"

// canonicalLayout is the ISO timestamp shape of every parsed date.
const canonicalLayout = "2006-01-02T15:04:05"

// Kind classifies a normalization outcome.
type Kind int

const (
	// KindUnparsed means no shape matched or the calendar value was
	// impossible; Canonical is empty and Raw carries the original text.
	KindUnparsed Kind = iota
	// KindParsed means Canonical holds an ISO timestamp.
	KindParsed
	// KindNotApplicable means the text explicitly states the event will not
	// take place.
	KindNotApplicable
)

// Normalized is the outcome of normalizing one date-like field.
type Normalized struct {
	Canonical string `json:"canonical,omitempty"`
	Raw       string `json:"raw,omitempty"`
	Kind      Kind   `json:"-"`
}

//go:embed months.yaml
var monthsYAML []byte

type monthTable struct {
	Months []struct {
		Number int      `yaml:"number"`
		Name   string   `yaml:"name"`
		Abbr   []string `yaml:"abbr"`
	} `yaml:"months"`
}

// monthByName maps every lower-case month spelling to its number.
var monthByName = mustLoadMonths()

// monthAlt is the alternation of all month spellings, longest first so
// abbreviations never shadow full names.
var monthAlt string

func mustLoadMonths() map[string]time.Month {
	var t monthTable
	if err := yaml.Unmarshal(monthsYAML, &t); err != nil {
		panic(fmt.Sprintf("dates: decode months.yaml: %v", err))
	}
	byName := make(map[string]time.Month)
	var spellings []string
	for _, m := range t.Months {
		byName[m.Name] = time.Month(m.Number)
		spellings = append(spellings, m.Name)
		for _, a := range m.Abbr {
			byName[a] = time.Month(m.Number)
			spellings = append(spellings, a)
		}
	}
	sort.Slice(spellings, func(i, j int) bool { return len(spellings[i]) > len(spellings[j]) })
	monthAlt = strings.Join(spellings, "|")
	return byName
}

// The four supported shapes, tried in order.
var (
	notApplicableRe = regexp.MustCompile(`(?i)no\s+habr[aá]|no\s+aplica|no\s+se\s+realizar[aá]|\bn\s*/\s*a\b`)

	timeSuffix = `(?:\s*,?\s*a\s+las?\s+(\d{1,2}):(\d{2})(?:\s*(?:horas|hrs\.?))?)?`

	shapeNumeric   = regexp.MustCompile(`(?i)\b(\d{1,2})[/-](\d{1,2})[/-](\d{4})` + timeSuffix)
	shapeTimeFirst *regexp.Regexp
	shapeDeDeDe    *regexp.Regexp
	shapeBare      *regexp.Regexp
)

func init() {
	shapeTimeFirst = regexp.MustCompile(`(?i)\b(\d{1,2}):(\d{2})\s*(?:horas|hrs\.?|h)?\s*,?\s*(?:del?\s+)?(\d{1,2})\s+(?:de\s+)?(` + monthAlt + `)\.?\s+(?:de\s+)?(\d{4})`)
	shapeDeDeDe = regexp.MustCompile(`(?i)\b(\d{1,2})\s+de\s+(` + monthAlt + `)\s+de\s+(\d{4})` + timeSuffix)
	shapeBare = regexp.MustCompile(`(?i)\b(\d{1,2})\s+(` + monthAlt + `)\.?\s+(\d{4})`)
}

// Normalize converts raw date text to its canonical form. Never errors; see
// Kind for the outcome.
func Normalize(raw string) Normalized {
	out := Normalized{Raw: strings.TrimSpace(raw)}
	if out.Raw == "" {
		return out
	}

	if notApplicableRe.MatchString(out.Raw) {
		out.Canonical = NotApplicable
		out.Kind = KindNotApplicable
		return out
	}

	if m := shapeNumeric.FindStringSubmatch(out.Raw); m != nil {
		return build(out, m[3], atoiMonth(m[2]), m[1], m[4], m[5])
	}
	if m := shapeTimeFirst.FindStringSubmatch(out.Raw); m != nil {
		return build(out, m[5], monthByName[fold(m[4])], m[3], m[1], m[2])
	}
	if m := shapeDeDeDe.FindStringSubmatch(out.Raw); m != nil {
		return build(out, m[3], monthByName[fold(m[2])], m[1], m[4], m[5])
	}
	if m := shapeBare.FindStringSubmatch(out.Raw); m != nil {
		return build(out, m[3], monthByName[fold(m[2])], m[1], "", "")
	}
	return out
}

func atoiMonth(s string) time.Month {
	n, _ := strconv.Atoi(s)
	return time.Month(n)
}

func fold(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// build validates the calendar value by round-tripping through time.Date;
// anything time.Date would silently normalize (day 31 in a 30-day month,
// hour 25) is rejected as unparsed instead.
func build(out Normalized, yearS string, month time.Month, dayS, hourS, minS string) Normalized {
	year, _ := strconv.Atoi(yearS)
	day, _ := strconv.Atoi(dayS)
	hour, minute := 0, 0
	if hourS != "" {
		hour, _ = strconv.Atoi(hourS)
		minute, _ = strconv.Atoi(minS)
	}

	if month < time.January || month > time.December || hour > 23 || minute > 59 {
		return out
	}
	t := time.Date(year, month, day, hour, minute, 0, 0, time.UTC)
	if t.Day() != day || t.Month() != month || t.Year() != year {
		return out
	}

	out.Canonical = t.Format(canonicalLayout)
	out.Kind = KindParsed
	return out
}
