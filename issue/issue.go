// CLAUDE:SUMMARY Derives issue date and edition (MAT/VES) from the gazette source filename convention.
// Package issue identifies a gazette issue from its source document name.
//
// The official gazette publishes up to two editions per day; archived
// documents follow the DDMMYYYY-<MAT|VES> naming convention (separator may be
// a hyphen or underscore, any file extension). Every record extracted from a
// document carries the Issue derived here.
//
// Usage:
//
//	iss, err := issue.FromSource("21082025-MAT.txt")
//	fmt.Println(iss.Date, iss.Edition)
package issue

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Edition distinguishes the morning and evening editions of an issue.
type Edition string

const (
	// EditionMorning is the matutina (MAT) edition.
	EditionMorning Edition = "MAT"
	// EditionEvening is the vespertina (VES) edition.
	EditionEvening Edition = "VES"
)

// Issue is the immutable identity of one published gazette edition.
type Issue struct {
	Date       time.Time `json:"issue_date"`
	Edition    Edition   `json:"edition"`
	SourceName string    `json:"source_name"`
}

// ErrBadSourceName is returned when a source name does not follow the
// DDMMYYYY-<MAT|VES> convention or encodes an impossible calendar date.
var ErrBadSourceName = errors.New("issue: source name does not match DDMMYYYY-<MAT|VES> convention")

var sourceNameRe = regexp.MustCompile(`(?i)\b(\d{2})(\d{2})(\d{4})[-_](MAT|VES)\b`)

// FromSource parses an Issue from a source document name. Directory prefixes
// and file extensions are ignored; the date/edition token may sit anywhere in
// the base name. Unknown edition codes are rejected rather than guessed.
func FromSource(name string) (Issue, error) {
	base := filepath.Base(name)
	m := sourceNameRe.FindStringSubmatch(base)
	if m == nil {
		return Issue{}, fmt.Errorf("%w: %q", ErrBadSourceName, name)
	}

	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])

	date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if date.Day() != day || int(date.Month()) != month || date.Year() != year {
		return Issue{}, fmt.Errorf("%w: impossible date in %q", ErrBadSourceName, name)
	}

	edition := EditionMorning
	if strings.EqualFold(m[4], string(EditionEvening)) {
		edition = EditionEvening
	}

	return Issue{
		Date:       date,
		Edition:    edition,
		SourceName: base,
	}, nil
}
