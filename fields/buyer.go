// CLAUDE:SUMMARY Buyer entity/subunit detection: institutional header scan over the leading lines of a block.
package fields

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// foldUpper strips diacritics and upper-cases, so SECRETARÍA and SECRETARIA
// compare equal against the prefix table.
func foldUpper(s string) string {
	out, _, err := transform.String(foldTransformer, s)
	if err != nil {
		out = s
	}
	return strings.ToUpper(out)
}

// IsInstitutionLine reports whether line is an all-caps institutional header
// (starts with one of the known buyer prefixes). The block segmenter uses it
// as its last-resort delimiter.
func IsInstitutionLine(line string) bool {
	line = strings.TrimSpace(line)
	if !isAllCaps(line) {
		return false
	}
	folded := foldUpper(line)
	for _, prefix := range rules.headerPrefixes {
		if strings.HasPrefix(folded, prefix) {
			return true
		}
	}
	return false
}

// isAllCaps reports whether s contains letters and none of them lower-case.
func isAllCaps(s string) bool {
	letters := 0
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsLetter(r) {
			letters++
		}
	}
	return letters >= 3
}

// scanBuyerHeader looks through the first maxLines lines for an institutional
// header. The next all-caps line of sufficient length that is not itself a
// header is the subunit.
func scanBuyerHeader(block string, maxLines int) (entity, subunit string) {
	lines := strings.Split(block, "\n")
	if len(lines) > maxLines {
		lines = lines[:maxLines]
	}
	for i, line := range lines {
		line = strings.TrimSpace(line)
		if !IsInstitutionLine(line) {
			continue
		}
		entity = line
		for _, next := range lines[i+1:] {
			next = strings.TrimSpace(next)
			if next == "" {
				continue
			}
			if len([]rune(next)) >= 6 && isAllCaps(next) && !IsInstitutionLine(next) {
				subunit = next
			}
			break
		}
		return entity, subunit
	}
	return "", ""
}
