package core

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

var dayNames = map[string]string{
	"M":  "Monday",
	"T":  "Tuesday",
	"W":  "Wednesday",
	"TH": "Thursday",
	"H":  "Thursday",
	"F":  "Friday",
	"S":  "Saturday",
	"SU": "Sunday",
	"U":  "Sunday",
}

// Document renders the full text description of a course. The same text is
// embedded into the vector index and handed to the question answering model
// as retrieval context.
func (c *Course) Document() string {
	parts := []string{
		"Course Title: " + orDefault(c.Title, "N/A"),
		"Course Code: " + orDefault(c.CourseString, "N/A"),
		"Course Number: " + orDefault(c.CourseNumber, "N/A"),
	}

	expanded := strings.TrimSpace(c.ExpandedTitle)
	if expanded != "" && expanded != c.Title {
		parts = append(parts, "Extended Title: "+expanded)
	}

	parts = append(parts,
		"Description: "+orDefault(StripMarkup(c.Description), "No description available"),
		"Prerequisites: "+c.Prerequisites(),
		"School: "+orDefault(c.School.Description, "N/A"),
		"Subject: "+orDefault(c.Subject, "N/A"),
		"Credits: "+orDefault(c.Credits.Description, "N/A"),
		"Level: "+levelName(c.Level),
		"Main Campus: "+orDefault(c.MainCampus, "N/A"),
		"Campus Locations: "+joinDescriptors(c.CampusLocations),
		"Core Requirements: "+orDefault(c.coreRequirements(), "No core requirements"),
		"Instructors: "+orDefault(strings.Join(c.instructorNames(), ", "), "No instructors listed"),
	)

	optional := []struct {
		label string
		value string
	}{
		{"Subject Notes", c.SubjectNotes},
		{"Subject Group Notes", c.SubjectGroupNotes},
		{"Unit Notes", c.UnitNotes},
		{"Course Notes", c.CourseNotes},
		{"Section Notes", strings.Join(c.sectionNotes(), ". ")},
		{"Meeting Information", strings.Join(c.meetingDetails(), ". ")},
	}
	for _, o := range optional {
		if v := strings.TrimSpace(o.value); v != "" {
			parts = append(parts, o.label+": "+v)
		}
	}

	return strings.Join(parts, "\n")
}

func (c *Course) coreRequirements() string {
	descriptions := make([]string, 0, len(c.CoreCodes))
	for _, code := range c.CoreCodes {
		if code.Description != "" {
			descriptions = append(descriptions, code.Description)
		}
	}
	return strings.Join(descriptions, ", ")
}

// instructorNames returns the distinct raw instructor names in section order.
func (c *Course) instructorNames() []string {
	var names []string
	for _, section := range c.Sections {
		for _, instructor := range section.Instructors {
			if instructor.Name != "" && !slices.Contains(names, instructor.Name) {
				names = append(names, instructor.Name)
			}
		}
	}
	return names
}

func (c *Course) sectionNotes() []string {
	var notes []string
	for _, section := range c.Sections {
		note := strings.TrimSpace(section.Notes)
		if note != "" && !slices.Contains(notes, note) {
			notes = append(notes, note)
		}
	}
	return notes
}

func (c *Course) meetingDetails() []string {
	var details []string
	for _, section := range c.Sections {
		for _, m := range section.MeetingTimes {
			detail := m.Describe()
			if !slices.Contains(details, detail) {
				details = append(details, detail)
			}
		}
	}
	return details
}

// Describe renders a meeting as "Lecture: Monday, 10:20 AM - 11:40 AM at Busch".
// Incomplete meetings fall back to the raw fields.
func (m MeetingTime) Describe() string {
	label := orDefault(m.Mode, "Meeting")
	day := DayName(m.Day)
	start := FormatClock(m.StartTime)
	end := FormatClock(m.EndTime)
	if day != "" && start != "" && end != "" && m.CampusName != "" {
		return fmt.Sprintf("%s: %s, %s - %s at %s", label, day, start, end, m.CampusName)
	}
	return strings.TrimSpace(fmt.Sprintf("%s: %s %s-%s at %s", label, m.Day, m.StartTime, m.EndTime, m.CampusName))
}

// DayName expands a meeting day code. Unknown codes are returned unchanged.
func DayName(code string) string {
	if name, ok := dayNames[strings.ToUpper(strings.TrimSpace(code))]; ok {
		return name
	}
	return code
}

// FormatClock converts a 24-hour HHMM time to 12-hour form ("1340" -> "1:40 PM").
// Values that are not four digits are returned unchanged.
func FormatClock(t string) string {
	if len(t) != 4 || strings.IndexFunc(t, func(r rune) bool { return r < '0' || r > '9' }) >= 0 {
		return t
	}
	value, err := strconv.Atoi(t)
	if err != nil {
		return t
	}
	hour, minute := value/100, value%100
	suffix := "AM"
	if hour >= 12 {
		suffix = "PM"
	}
	switch {
	case hour == 0:
		hour = 12
	case hour > 12:
		hour -= 12
	}
	return fmt.Sprintf("%d:%02d %s", hour, minute, suffix)
}

func levelName(level string) string {
	switch level {
	case "U":
		return "Undergraduate"
	case "G":
		return "Graduate"
	case "":
		return "N/A"
	}
	return level
}

func joinDescriptors(ds []Descriptor) string {
	values := make([]string, 0, len(ds))
	for _, d := range ds {
		if d.Description != "" {
			values = append(values, d.Description)
		}
	}
	return strings.Join(values, ", ")
}

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
