// CLAUDE:SUMMARY Title/description split: "objeto de la licitación" capture up to a terminator, sentence-split past 200 runes.
package fields

import "strings"

// splitObject locates the tender-object phrase, captures text up to the first
// terminator, and splits long captures into title + description at the first
// sentence boundary inside the first maxLen runes (hard cut when no boundary
// exists there).
func splitObject(block string, maxLen int) (title, description string) {
	var body string
	for _, marker := range rules.objectMarkers {
		loc := marker.FindStringIndex(block)
		if loc == nil {
			continue
		}
		body = block[loc[1]:]
		break
	}
	if body == "" {
		return "", ""
	}

	end := len(body)
	for _, term := range rules.objectTerminators {
		if loc := term.FindStringIndex(body); loc != nil && loc[0] < end {
			end = loc[0]
		}
	}
	captured := strings.TrimSpace(strings.Trim(strings.TrimSpace(body[:end]), "|"))
	if captured == "" {
		return "", ""
	}

	r := []rune(captured)
	if len(r) <= maxLen {
		return captured, ""
	}

	head := string(r[:maxLen])
	if cut := sentenceBoundary(head); cut >= 0 {
		title = strings.TrimSpace(captured[:cut+1])
		description = strings.TrimSpace(captured[cut+1:])
		return title, description
	}
	return strings.TrimSpace(string(r[:maxLen])), strings.TrimSpace(string(r[maxLen:]))
}

// sentenceBoundary returns the byte offset of the first period followed by a
// space or newline, or -1. Line wrapping makes ".\n" as common as ". ".
func sentenceBoundary(s string) int {
	for i := strings.IndexByte(s, '.'); i >= 0 && i+1 < len(s); {
		switch s[i+1] {
		case ' ', '\n':
			return i
		}
		next := strings.IndexByte(s[i+1:], '.')
		if next < 0 {
			return -1
		}
		i += 1 + next
	}
	return -1
}
