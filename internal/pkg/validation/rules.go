package validation

import (
	"regexp"
	"strings"
	"time"
)

// Validation rule patterns
var (
	// Student number and medical record number share the same shape
	StudentNumberPattern   = `^[A-Za-z0-9-]{3,50}$`
	MedicalRecordNumLength = [2]int{3, 50}

	// Person names: letters, spaces, hyphens, apostrophes
	NamePattern   = `^[A-Za-z \-']+$`
	NameMinLength = 1
	NameMaxLength = 100

	// Dates are exchanged as YYYY-MM-DD
	DateLayout = "2006-01-02"

	// Earliest plausible birth year (exclusive)
	MinBirthYear = 1900
)

// CompiledPatterns caches compiled regex patterns
var CompiledPatterns = struct {
	StudentNumber *regexp.Regexp
	Name          *regexp.Regexp
}{
	StudentNumber: regexp.MustCompile(StudentNumberPattern),
	Name:          regexp.MustCompile(NamePattern),
}

// isBlank reports whether s is empty or whitespace-only. Required fields
// treat blank as not provided; optional fields treat it as absent.
func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// parseDate parses a YYYY-MM-DD value. Returns the zero time and false
// when the value does not parse.
func parseDate(s string) (time.Time, bool) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// StringRule validates a single string value against length and pattern
// constraints.
type StringRule struct {
	Value    string
	MinLen   int
	MaxLen   int
	Required bool
	Pattern  *regexp.Regexp
}

// Ok performs the check. Optional blank values pass; required blank values
// fail; everything else is checked against length and pattern.
func (v StringRule) Ok() bool {
	if isBlank(v.Value) {
		return !v.Required
	}
	if v.MinLen > 0 && len(v.Value) < v.MinLen {
		return false
	}
	if v.MaxLen > 0 && len(v.Value) > v.MaxLen {
		return false
	}
	if v.Pattern != nil && !v.Pattern.MatchString(v.Value) {
		return false
	}
	return true
}
