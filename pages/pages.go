// CLAUDE:SUMMARY Splits raw gazette text into an ordered page map using [PAGE n] markers.
// Package pages segments page-tagged gazette text and locates the
// procurement-notices section inside an issue.
//
// Input is the single text blob produced by the upstream text-extraction
// collaborator, with pages delimited by [PAGE <n>] markers. Split never
// fails: an input without markers becomes a one-page book.
package pages

import (
	"regexp"
	"strconv"
)

var markerRe = regexp.MustCompile(`\[PAGE\s+(\d+)\]`)

// Book is the ordered mapping page number → page text for one issue.
type Book struct {
	order []int
	text  map[int]string
}

// Split builds a Book from a marker-delimited blob. Each page spans from just
// after its marker to just before the next one. Zero markers means the whole
// input is page 1. Malformed markers are not an error; whatever integer
// parses out of the marker is the page number.
func Split(raw string) *Book {
	b := &Book{text: make(map[int]string)}

	locs := markerRe.FindAllStringSubmatchIndex(raw, -1)
	if len(locs) == 0 {
		b.order = []int{1}
		b.text[1] = raw
		return b
	}

	for i, loc := range locs {
		n, _ := strconv.Atoi(raw[loc[2]:loc[3]])
		start := loc[1]
		end := len(raw)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		if _, seen := b.text[n]; !seen {
			b.order = append(b.order, n)
		}
		b.text[n] = raw[start:end]
	}
	return b
}

// Page is one (page_number, page_text) input pair, for callers whose
// upstream collaborator already splits pages.
type Page struct {
	Number int    `json:"page_number"`
	Text   string `json:"page_text"`
}

// FromPairs builds a Book directly from ordered page pairs.
func FromPairs(pp []Page) *Book {
	b := &Book{text: make(map[int]string)}
	for _, p := range pp {
		if _, seen := b.text[p.Number]; !seen {
			b.order = append(b.order, p.Number)
		}
		b.text[p.Number] = p.Text
	}
	return b
}

// Text returns the text of page n.
func (b *Book) Text(n int) (string, bool) {
	s, ok := b.text[n]
	return s, ok
}

// Numbers returns the page numbers in marker order.
func (b *Book) Numbers() []int {
	out := make([]int, len(b.order))
	copy(out, b.order)
	return out
}

// Len is the number of distinct pages.
func (b *Book) Len() int { return len(b.order) }

// MaxNumber returns the highest page number present, or 0 for an empty book.
func (b *Book) MaxNumber() int {
	max := 0
	for _, n := range b.order {
		if n > max {
			max = n
		}
	}
	return max
}
