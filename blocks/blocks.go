// CLAUDE:SUMMARY Splits a gazette page into candidate record blocks via ref-code, record-header, and buyer-line delimiters.
// Package blocks segments a gazette page into candidate record blocks.
//
// Three delimiter strategies are tried in order, each only when the previous
// one failed to produce more than two pieces: the trailing "(R.- <n>)"
// reference marker, the "RESUMEN DE CONVOCATORIA" record header, and finally
// line boundaries before all-caps institutional buyer headers. Blocks below
// the minimum length are discarded so page headers and footers never reach
// the field extractor.
package blocks

import (
	"regexp"
	"strings"

	"github.com/hazyhaar/gaceta/fields"
)

// Block is one candidate procurement notice with its page of origin.
// Created here, consumed immediately by the field extractor, never persisted.
type Block struct {
	Text string
	Page int
}

// Config tunes block segmentation.
type Config struct {
	// MinBlockLen discards blocks shorter than this many runes (default 120).
	MinBlockLen int `json:"min_block_len" yaml:"min_block_len"`
}

func (c *Config) defaults() {
	if c.MinBlockLen <= 0 {
		c.MinBlockLen = 120
	}
}

var (
	refMarkerRe    = regexp.MustCompile(`\(R\.-\s*[0-9]+\)`)
	recordHeaderRe = regexp.MustCompile(`(?i)RESUMEN\s+DE\s+CONVOCATORIA`)
)

// Split segments one page into blocks. A page without usable delimiters
// yields at most one block (the whole page), which the minimum-length filter
// and downstream field misses then dispose of naturally.
func Split(pageText string, pageNum int, cfg Config) []Block {
	cfg.defaults()

	pieces := splitAfter(pageText, refMarkerRe)
	if len(pieces) <= 2 {
		pieces = splitBefore(pageText, recordHeaderRe.FindAllStringIndex(pageText, -1))
	}
	if len(pieces) <= 2 {
		pieces = splitBefore(pageText, buyerLineStarts(pageText))
	}

	var out []Block
	for _, p := range pieces {
		p = strings.TrimSpace(p)
		if len([]rune(p)) < cfg.MinBlockLen {
			continue
		}
		out = append(out, Block{Text: p, Page: pageNum})
	}
	return out
}

// splitAfter cuts text after every match of re, keeping the marker with the
// preceding piece (the reference code trails its record).
func splitAfter(text string, re *regexp.Regexp) []string {
	locs := re.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return []string{text}
	}
	var pieces []string
	prev := 0
	for _, loc := range locs {
		pieces = append(pieces, text[prev:loc[1]])
		prev = loc[1]
	}
	if prev < len(text) {
		pieces = append(pieces, text[prev:])
	}
	return pieces
}

// splitBefore cuts text at the start offset of every match, keeping the
// marker with the following piece (headers lead their record).
func splitBefore(text string, locs [][]int) []string {
	if len(locs) == 0 {
		return []string{text}
	}
	var pieces []string
	prev := 0
	for _, loc := range locs {
		if loc[0] > prev {
			pieces = append(pieces, text[prev:loc[0]])
		}
		prev = loc[0]
	}
	pieces = append(pieces, text[prev:])
	return pieces
}

// buyerLineStarts returns pseudo-match offsets at the beginning of every
// all-caps institutional header line, skipping the first line so a page that
// opens with a header is not split into an empty leading piece.
func buyerLineStarts(text string) [][]int {
	var locs [][]int
	offset := 0
	for i, line := range strings.Split(text, "\n") {
		if i > 0 && fields.IsInstitutionLine(line) {
			locs = append(locs, []int{offset, offset + len(line)})
		}
		offset += len(line) + 1
	}
	return locs
}
