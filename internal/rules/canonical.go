package rules

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Class labels are stored and compared in one canonical form: grade digits
// (1-12) followed by a single uppercase section letter, e.g. "10A". Every
// path that accepts a class label (student registration, attendance, fees,
// exams, class assignment) must go through CanonicalClassLabel before
// storing or comparing — locally re-implemented variants of these rules are
// exactly the bug this package exists to remove.
var (
	reCanonicalLabel = regexp.MustCompile(`^(1[0-2]|[1-9])([A-Za-z])$`)
	reHyphenated     = regexp.MustCompile(`^(1[0-2]|[1-9])\s*-\s*([A-Za-z])$`)
	reClassSection   = regexp.MustCompile(`(?i)^class\s*(1[0-2]|[1-9])\s*(?:-\s*)?section\s*([A-Za-z])$`)
	reBareClass      = regexp.MustCompile(`(?i)^class\s*(1[0-2]|[1-9])$`)
	reOrdinal        = regexp.MustCompile(`(?i)^(1[0-2]|[1-9])\s*(?:st|nd|rd|th)$`)
)

// CanonicalClassLabel maps any accepted free-text class label onto the
// canonical form. Recognized inputs, first match wins (case-insensitive):
//
//	"10a"                    -> "10A"
//	"11-A", "11 - a"         -> "11A"
//	"Class 11 - Section A"   -> "11A"
//	"Class 11 Section A"     -> "11A"
//	"3rd", "3 rd"            -> "3A"  (section defaults to A)
//	"Class 7"                -> "7A"  (section defaults to A)
//
// Unrecognized input is uppercased and returned as-is; the caller decides
// whether free-form labels are acceptable. Empty input stays empty.
// The function is idempotent: applying it to its own output is a no-op.
func CanonicalClassLabel(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}

	if m := reCanonicalLabel.FindStringSubmatch(s); m != nil {
		return m[1] + strings.ToUpper(m[2])
	}
	if m := reHyphenated.FindStringSubmatch(s); m != nil {
		return m[1] + strings.ToUpper(m[2])
	}
	if m := reClassSection.FindStringSubmatch(s); m != nil {
		return m[1] + strings.ToUpper(m[2])
	}
	if m := reBareClass.FindStringSubmatch(s); m != nil {
		return m[1] + "A"
	}
	if m := reOrdinal.FindStringSubmatch(s); m != nil {
		return m[1] + "A"
	}

	return strings.ToUpper(s)
}

// MaxClassLabelLength bounds stored class labels. Free-form labels that
// match none of the canonical patterns are accepted, but only up to the
// width of the storage column.
const MaxClassLabelLength = 10

// CheckClassLabel canonicalizes raw and validates the result for storage.
// Write paths use this instead of calling CanonicalClassLabel directly so
// an over-long free-form label fails as a field error, not a database one.
func CheckClassLabel(raw string) (string, error) {
	label := CanonicalClassLabel(raw)
	if label == "" {
		return "", NewValidationError("class_label", "class label is required")
	}
	if utf8.RuneCountInString(label) > MaxClassLabelLength {
		return "", NewValidationError("class_label",
			fmt.Sprintf("class label must be at most %d characters", MaxClassLabelLength))
	}
	return label, nil
}

// IsCanonicalClassLabel reports whether label is already in canonical form
// (grade 1-12 plus one uppercase section letter).
func IsCanonicalClassLabel(label string) bool {
	if m := reCanonicalLabel.FindStringSubmatch(label); m != nil {
		return m[2] == strings.ToUpper(m[2])
	}
	return false
}
