// CLAUDE:SUMMARY Geographic resolver: canonical region via folded alias table, plus municipality/locality/address capture.
// Package geo resolves free gazette text to canonical geography.
//
// Region resolution goes through a fixed alias table (embedded YAML) covering
// the 32 federal entities with and without diacritics, abbreviated and full.
// Exactly one canonical spelling per entity is ever returned. Municipality,
// locality and address are phrase captures; absence of any field is normal.
package geo

import (
	_ "embed"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"
)

// Place is the resolved geography of one record block. All fields optional.
type Place struct {
	Region       string `json:"region,omitempty"`
	Municipality string `json:"municipality,omitempty"`
	Locality     string `json:"locality,omitempty"`
	Address      string `json:"address,omitempty"`
}

//go:embed aliases.yaml
var aliasesYAML []byte

type aliasTable struct {
	Regions []struct {
		Canonical string   `yaml:"canonical"`
		Aliases   []string `yaml:"aliases"`
	} `yaml:"regions"`
}

// aliasEntry pairs one folded alias with its canonical region. The slice
// preserves YAML sequence order, which fixes match precedence.
type aliasEntry struct {
	alias     string
	canonical string
}

var aliasEntries = mustLoadAliases()

func mustLoadAliases() []aliasEntry {
	var t aliasTable
	if err := yaml.Unmarshal(aliasesYAML, &t); err != nil {
		panic(fmt.Sprintf("geo: decode aliases.yaml: %v", err))
	}
	var entries []aliasEntry
	for _, r := range t.Regions {
		for _, a := range r.Aliases {
			entries = append(entries, aliasEntry{alias: fold(a), canonical: r.Canonical})
		}
	}
	return entries
}

var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// fold lower-cases and strips diacritics so "Yucatán" and "YUCATAN" compare
// equal.
func fold(s string) string {
	out, _, err := transform.String(foldTransformer, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(out)
}

var (
	estadoDeRe = regexp.MustCompile(`(?i)estado\s+de\s+[a-záéíóúñü][a-záéíóúñü.\s]{2,35}`)

	municipalityRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)municipio\s+de\s+([^,.;()\n]{2,60})`),
		regexp.MustCompile(`(?i)alcald[ií]a\s+(?:de\s+)?([^,.;()\n]{2,60})`),
		regexp.MustCompile(`(?i)delegaci[oó]n\s+([^,.;()\n]{2,60})`),
	}
	localityRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)localidad\s+de\s+([^,.;()\n]{2,60})`),
		regexp.MustCompile(`(?i)poblado\s+de\s+([^,.;()\n]{2,60})`),
		regexp.MustCompile(`(?i)comunidad\s+de\s+([^,.;()\n]{2,60})`),
	}
	addressRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)ubicad[oa]s?\s+en\s+([^\n]{1,400})`),
		regexp.MustCompile(`(?i)con\s+domicilio\s+en\s+([^\n]{1,400})`),
		regexp.MustCompile(`(?i)domicilio\s*[:.]\s*([^\n]{1,400})`),
	}
)

const (
	addressMinLen = 10
	addressMaxLen = 300
)

// CanonicalRegion returns the canonical federal-entity name mentioned in
// text, or "" when none is recognized. The explicit "Estado de <X>" phrasing
// is honored first; otherwise the full text is scanned in alias-table order,
// first match wins.
func CanonicalRegion(text string) string {
	folded := fold(text)

	for _, m := range estadoDeRe.FindAllString(text, -1) {
		if c := scanAliases(fold(m)); c != "" {
			return c
		}
	}
	return scanAliases(folded)
}

// scanAliases finds the first alias-table entry present in folded text with
// non-letter boundaries on both sides.
func scanAliases(folded string) string {
	for _, e := range aliasEntries {
		if containsWord(folded, e.alias) {
			return e.canonical
		}
	}
	return ""
}

// containsWord reports whether sub occurs in s delimited by non-letter,
// non-digit runes. Plain substring search would turn "Colima" up inside
// "Tecoliman".
func containsWord(s, sub string) bool {
	for from := 0; ; {
		i := strings.Index(s[from:], sub)
		if i < 0 {
			return false
		}
		i += from
		before := rune(0)
		if i > 0 {
			before, _ = lastRune(s[:i])
		}
		after := rune(0)
		if i+len(sub) < len(s) {
			after, _ = firstRune(s[i+len(sub):])
		}
		if !isWordRune(before) && !isWordRune(after) {
			return true
		}
		from = i + 1
	}
}

func isWordRune(r rune) bool { return unicode.IsLetter(r) || unicode.IsDigit(r) }

func firstRune(s string) (rune, bool) {
	for _, r := range s {
		return r, true
	}
	return 0, false
}

func lastRune(s string) (rune, bool) {
	var out rune
	found := false
	for _, r := range s {
		out, found = r, true
	}
	return out, found
}

// Resolve extracts the full Place from a record block. When no region is
// found in the body, the captured address is scanned as a secondary source.
func Resolve(block string) Place {
	p := Place{Region: CanonicalRegion(block)}

	if v := firstCapture(municipalityRes, block); v != "" {
		p.Municipality = titleCase(v)
	}
	if v := firstCapture(localityRes, block); v != "" {
		p.Locality = titleCase(v)
	}
	if v := firstCapture(addressRes, block); v != "" {
		n := len([]rune(v))
		if n >= addressMinLen && n <= addressMaxLen {
			p.Address = v
			if p.Region == "" {
				p.Region = CanonicalRegion(v)
			}
		}
	}
	return p
}

func firstCapture(res []*regexp.Regexp, text string) string {
	for _, re := range res {
		if m := re.FindStringSubmatch(text); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}

// titleCase canonicalizes captured names. A fresh caser per call: cases.Caser
// carries internal state and the resolver must stay safe for concurrent use.
func titleCase(s string) string {
	return cases.Title(language.Spanish).String(strings.ToLower(s))
}
