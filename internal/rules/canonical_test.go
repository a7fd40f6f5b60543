package rules

import (
	"errors"
	"testing"
)

func TestCanonicalClassLabel(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		// Already canonical.
		{"10A", "10A"},
		{"10a", "10A"},
		{"1B", "1B"},
		{"12Z", "12Z"},

		// Hyphenated.
		{"11-A", "11A"},
		{"11 - a", "11A"},
		{"5-b", "5B"},

		// "Class N - Section X" with and without the dash.
		{"Class 11 - Section A", "11A"},
		{"Class 11 Section A", "11A"},
		{"class 9 section b", "9B"},
		{"CLASS 12-SECTION C", "12C"},

		// Ordinals default the section to A.
		{"1st", "1A"},
		{"2nd", "2A"},
		{"3rd", "3A"},
		{"7th", "7A"},
		{"12th", "12A"},
		{"3RD", "3A"},

		// Bare "Class N" defaults the section to A.
		{"Class 7", "7A"},
		{"class 12", "12A"},

		// Whitespace trimming.
		{"  10A  ", "10A"},
		{"", ""},
		{"   ", ""},

		// Unrecognized input is uppercased unchanged.
		{"Blue House", "BLUE HOUSE"},
		{"13A", "13A"},
		{"0B", "0B"},
	}

	for _, tc := range cases {
		if got := CanonicalClassLabel(tc.in); got != tc.want {
			t.Errorf("CanonicalClassLabel(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestCanonicalClassLabelEquivalence(t *testing.T) {
	inputs := []string{"11-A", "11A", "11a", "Class 11 - Section A", "Class 11 Section A"}
	for _, in := range inputs {
		if got := CanonicalClassLabel(in); got != "11A" {
			t.Errorf("CanonicalClassLabel(%q) = %q, want 11A", in, got)
		}
	}
}

func TestCanonicalClassLabelIdempotent(t *testing.T) {
	inputs := []string{
		"10A", "10a", "11-A", "Class 11 - Section A", "3rd", "Class 7",
		"Blue House", "13A", "", "  9 - c ", "random label", "12th",
	}
	for _, in := range inputs {
		once := CanonicalClassLabel(in)
		twice := CanonicalClassLabel(once)
		if once != twice {
			t.Errorf("not idempotent for %q: first %q, second %q", in, once, twice)
		}
	}
}

func TestCheckClassLabel(t *testing.T) {
	if _, err := CheckClassLabel("  "); err == nil {
		t.Error("blank label accepted")
	}

	label, err := CheckClassLabel("Class 11 - Section A")
	if err != nil {
		t.Fatalf("canonical input: %v", err)
	}
	if label != "11A" {
		t.Errorf("label = %q, want 11A", label)
	}

	// Free-form labels pass only up to the storage width.
	if _, err := CheckClassLabel("Blue House"); err != nil {
		t.Errorf("10-char free-form label rejected: %v", err)
	}
	_, err = CheckClassLabel("Senior Blue House")
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("overlong label: err = %v, want ValidationError", err)
	}
	if ve.Field != "class_label" {
		t.Errorf("field = %q, want class_label", ve.Field)
	}
}

func TestIsCanonicalClassLabel(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"10A", true},
		{"1A", true},
		{"12Z", true},
		{"10a", false},
		{"13A", false},
		{"0A", false},
		{"10", false},
		{"10AB", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := IsCanonicalClassLabel(tc.in); got != tc.want {
			t.Errorf("IsCanonicalClassLabel(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
