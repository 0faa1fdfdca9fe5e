// CLAUDE:SUMMARY Finds the procurement-notices page range via the issue index, with body-scan fallback and defensive clamps.
package pages

import (
	"log/slog"
	"regexp"
	"strconv"
	"strings"
)

// Range is an inclusive page interval. The zero Range means the section was
// not found and downstream stages process zero pages.
type Range struct {
	First int `json:"first_page"`
	Last  int `json:"last_page"`
}

// Empty reports whether the range selects no pages.
func (r Range) Empty() bool { return r.First == 0 }

// Span is the number of pages the range covers.
func (r Range) Span() int {
	if r.Empty() {
		return 0
	}
	return r.Last - r.First + 1
}

// Pages returns the page numbers of b that fall inside the range, in book
// order. Numbers the book does not carry are skipped.
func (r Range) Pages(b *Book) []int {
	if r.Empty() {
		return nil
	}
	var out []int
	for _, n := range b.Numbers() {
		if n >= r.First && n <= r.Last {
			out = append(out, n)
		}
	}
	return out
}

// LocatorConfig tunes the section search. The defaults reproduce the bounds
// observed across years of issues; they are configurable because the generous
// fallback knowingly over-selects and callers may want it tighter.
type LocatorConfig struct {
	// IndexPages is how many leading pages are treated as the issue's own
	// table of contents (default 10).
	IndexPages int `json:"index_pages" yaml:"index_pages"`

	// GenerousSpan is added to first_page when the next section cannot be
	// located (default 99). Over-selection is acceptable: non-procurement
	// pages yield blocks that fail minimal-field extraction and are dropped.
	GenerousSpan int `json:"generous_span" yaml:"generous_span"`

	// MaxSpan is the widest range accepted from the index before the clamp
	// kicks in (default 150).
	MaxSpan int `json:"max_span" yaml:"max_span"`

	// ClampSpan is the width the range is cut to when it exceeds MaxSpan
	// (default 100).
	ClampSpan int `json:"clamp_span" yaml:"clamp_span"`

	Logger *slog.Logger `json:"-" yaml:"-"`
}

func (c *LocatorConfig) defaults() {
	if c.IndexPages <= 0 {
		c.IndexPages = 10
	}
	if c.GenerousSpan <= 0 {
		c.GenerousSpan = 99
	}
	if c.MaxSpan <= 0 {
		c.MaxSpan = 150
	}
	if c.ClampSpan <= 0 {
		c.ClampSpan = 100
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Index entries read "CONVOCATORIAS PARA CONCURSOS ... <page>" with dot
// leaders between phrase and number. The phrase prefix alone identifies the
// section; the full heading varies slightly between years.
var (
	startIndexRe = regexp.MustCompile(`(?i)CONVOCATORIAS\s+PARA\s+CONCURSOS[^\n\d]{0,160}?[\s.](\d{1,4})\b`)
	nextIndexRe  = regexp.MustCompile(`(?i)AVISOS\s+JUDICIALES[^\n\d]{0,160}?[\s.](\d{1,4})\b`)

	startBodyRe = regexp.MustCompile(`(?i)CONVOCATORIAS\s+PARA\s+CONCURSOS`)
	nextBodyRe  = regexp.MustCompile(`(?i)AVISOS\s+JUDICIALES\s+Y\s+GENERALES`)
)

// LocateSection finds the procurement-notices range of a book. It reads the
// issue's own index first, falls back to scanning page bodies, and returns
// the zero Range when the section cannot be found anywhere.
func LocateSection(b *Book, cfg LocatorConfig) Range {
	cfg.defaults()

	first, last := locateFromIndex(b, cfg.IndexPages)
	if first == 0 {
		first, last = locateFromBodies(b)
	}
	if first == 0 {
		cfg.Logger.Warn("procurement section not found", "pages", b.Len())
		return Range{}
	}

	if last < first {
		last = first + cfg.GenerousSpan
		if max := b.MaxNumber(); last > max {
			last = max
		}
		cfg.Logger.Debug("section end undetermined, using generous span",
			"first_page", first, "last_page", last)
	}

	r := Range{First: first, Last: last}
	if r.Span() > cfg.MaxSpan {
		r.Last = r.First + cfg.ClampSpan - 1
		cfg.Logger.Warn("section range clamped", "span", last-first+1, "clamp", cfg.ClampSpan)
	}
	return r
}

// locateFromIndex scans the concatenated first pages for index entries.
// Returns (0, 0) when the start entry is absent, (first, 0) when only the
// start entry parsed.
func locateFromIndex(b *Book, indexPages int) (first, last int) {
	var sb strings.Builder
	for i, n := range b.Numbers() {
		if i >= indexPages {
			break
		}
		t, _ := b.Text(n)
		sb.WriteString(t)
		sb.WriteByte('\n')
	}
	index := sb.String()

	if m := startIndexRe.FindStringSubmatch(index); m != nil {
		first, _ = strconv.Atoi(m[1])
	}
	if first == 0 {
		return 0, 0
	}
	if m := nextIndexRe.FindStringSubmatch(index); m != nil {
		n, _ := strconv.Atoi(m[1])
		if n > first {
			last = n - 1
		}
	}
	return first, last
}

// locateFromBodies scans full page bodies in book order: the first page
// containing the start phrase opens the range, the first later page
// containing the next-section phrase closes it.
func locateFromBodies(b *Book) (first, last int) {
	for _, n := range b.Numbers() {
		t, _ := b.Text(n)
		if first == 0 {
			if startBodyRe.MatchString(t) {
				first = n
			}
			continue
		}
		if nextBodyRe.MatchString(t) {
			last = n - 1
			break
		}
	}
	return first, last
}
