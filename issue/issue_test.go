package issue

import (
	"errors"
	"testing"
	"time"
)

func TestFromSource_Morning(t *testing.T) {
	// WHAT: Canonical DDMMYYYY-MAT name parses into date + morning edition.
	// WHY: Every downstream record inherits this identity.
	iss, err := FromSource("21082025-MAT.txt")
	if err != nil {
		t.Fatalf("FromSource: %v", err)
	}
	want := time.Date(2025, time.August, 21, 0, 0, 0, 0, time.UTC)
	if !iss.Date.Equal(want) {
		t.Errorf("date = %v, want %v", iss.Date, want)
	}
	if iss.Edition != EditionMorning {
		t.Errorf("edition = %q, want MAT", iss.Edition)
	}
	if iss.SourceName != "21082025-MAT.txt" {
		t.Errorf("source name = %q", iss.SourceName)
	}
}

func TestFromSource_EveningUnderscoreLowercase(t *testing.T) {
	// WHAT: Underscore separator and lowercase edition code are accepted.
	// WHY: Archive mirrors are inconsistent about separator and casing.
	iss, err := FromSource("/data/dof/01012024_ves.txt")
	if err != nil {
		t.Fatalf("FromSource: %v", err)
	}
	if iss.Edition != EditionEvening {
		t.Errorf("edition = %q, want VES", iss.Edition)
	}
	if iss.SourceName != "01012024_ves.txt" {
		t.Errorf("source name should drop directories, got %q", iss.SourceName)
	}
}

func TestFromSource_Rejects(t *testing.T) {
	// WHAT: Missing token, unknown edition code, and impossible dates fail.
	// WHY: Guessing an issue identity would mislabel every record in the run.
	for _, name := range []string{
		"notes.txt",
		"21082025-EXT.txt", // extraordinaria editions are not modeled
		"31022025-MAT.txt", // Feb 31
		"00032025-VES.txt", // day zero
	} {
		if _, err := FromSource(name); !errors.Is(err, ErrBadSourceName) {
			t.Errorf("FromSource(%q) err = %v, want ErrBadSourceName", name, err)
		}
	}
}
