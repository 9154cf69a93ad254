package core

import (
	"regexp"
	"strings"
	"unicode"
)

// PlaceholderInstructor is displayed when a section has no named instructor.
const PlaceholderInstructor = "TBA"

// NoPrerequisites is displayed when a course has no prerequisite notes.
const NoPrerequisites = "No prerequisites"

var markupTag = regexp.MustCompile(`<[^>]*>`)

// NormalizeCode returns the canonical lookup form of a course code:
// colons removed and surrounding whitespace trimmed.
func NormalizeCode(code string) string {
	return strings.TrimSpace(strings.ReplaceAll(code, ":", ""))
}

// StripMarkup removes inline HTML tags and emphasis characters and
// collapses runs of whitespace.
func StripMarkup(text string) string {
	text = markupTag.ReplaceAllString(text, " ")
	text = strings.ReplaceAll(text, "*", "")
	return strings.Join(strings.Fields(text), " ")
}

// IsPlaceholderName reports whether an instructor name carries no identity.
func IsPlaceholderName(name string) bool {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "", "UNKNOWN", "TBA", "STAFF":
		return true
	}
	return false
}

// FormatInstructorName converts a dataset instructor name into display form.
//
//	"SMITH, JOHN" -> "John Smith"
//	"SMITH"       -> "Smith"
//	"", "UNKNOWN" -> "TBA"
func FormatInstructorName(name string) string {
	if IsPlaceholderName(name) {
		return PlaceholderInstructor
	}

	last, first, hasComma := strings.Cut(name, ",")
	last = strings.TrimSpace(last)
	first = strings.TrimSpace(first)
	if !hasComma || first == "" {
		return titleCase(strings.Join(strings.Fields(last), " "))
	}
	if last == "" {
		return titleCase(strings.Join(strings.Fields(first), " "))
	}
	return titleCase(strings.Join(strings.Fields(first+" "+last), " "))
}

// titleCase upper-cases the first letter of every run of letters and
// lower-cases the rest, so "O'BRIEN-SMITH" becomes "O'Brien-Smith".
func titleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inWord := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if inWord {
				b.WriteRune(unicode.ToLower(r))
			} else {
				b.WriteRune(unicode.ToUpper(r))
			}
			inWord = true
			continue
		}
		inWord = false
		b.WriteRune(r)
	}
	return b.String()
}

// Prerequisites returns the display form of the prerequisite notes.
func (c *Course) Prerequisites() string {
	notes := StripMarkup(c.PreReqNotes)
	if notes == "" {
		return NoPrerequisites
	}
	return notes
}

// SubjectCode returns the SUBJECT segment of the course string.
func (c *Course) SubjectCode() string {
	parts := strings.Split(c.CourseString, ":")
	if len(parts) != 3 {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// NumberCode returns the NUMBER segment of the course string.
func (c *Course) NumberCode() string {
	parts := strings.Split(c.CourseString, ":")
	if len(parts) != 3 {
		return ""
	}
	return strings.TrimSpace(parts[2])
}
