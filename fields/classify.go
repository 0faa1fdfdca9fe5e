// CLAUDE:SUMMARY Keyword-scored procurement-category classifier with identifier-prefix tiebreak.
package fields

import "strings"

// Procurement categories. Plain strings so the record layer can map them
// without an import cycle.
const (
	CategoryWorks       = "WORKS"
	CategoryServices    = "SERVICES"
	CategoryGoods       = "GOODS"
	CategoryUnspecified = "UNSPECIFIED"
)

// categoryOrder fixes tie inspection order so classification is
// deterministic regardless of map iteration.
var categoryOrder = []string{CategoryWorks, CategoryServices, CategoryGoods}

// classifyCategory counts category keyword hits in the folded block text and
// returns the highest-scoring category. Ties and zero totals fall back to the
// identifier's procedure prefix, else UNSPECIFIED.
func classifyCategory(block, identifier string) string {
	folded := strings.ToLower(foldUpper(block))

	best, bestScore, tied := "", 0, false
	for _, cat := range categoryOrder {
		score := 0
		for _, kw := range rules.categoryKeywords[cat] {
			score += strings.Count(folded, kw)
		}
		switch {
		case score > bestScore:
			best, bestScore, tied = cat, score, false
		case score == bestScore && score > 0:
			tied = true
		}
	}
	if bestScore > 0 && !tied {
		return best
	}
	if cat := categoryFromIdentifier(identifier); cat != "" {
		return cat
	}
	return CategoryUnspecified
}

// categoryFromIdentifier maps the second letter of the CompraNet procedure
// prefix (LA/LO/IA/IO/AA/AO...) to a category.
func categoryFromIdentifier(id string) string {
	if len(id) < 2 {
		return ""
	}
	switch id[1] {
	case 'A':
		return CategoryGoods
	case 'O':
		return CategoryWorks
	case 'S':
		return CategoryServices
	}
	return ""
}
