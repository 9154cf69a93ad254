package core

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/go-crypt/x/blake2b"
)

// ContentHash returns a deterministic 64-bit BLAKE2b digest of text.
// Identical documents always hash to the same value.
func ContentHash(text string) uint64 {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return binary.LittleEndian.Uint64(sum)
}

// Course is one catalog offering as it appears in the course dataset.
// Courses are immutable once loaded.
type Course struct {
	CourseString      string       `json:"courseString"` // SCHOOL:SUBJECT:NUMBER, e.g. 01:198:112
	CourseNumber      string       `json:"courseNumber"`
	Title             string       `json:"title"`
	ExpandedTitle     string       `json:"expandedTitle"`
	Description       string       `json:"courseDescription"`
	PreReqNotes       string       `json:"preReqNotes"` // may contain inline markup
	School            Descriptor   `json:"school"`
	Subject           string       `json:"subjectDescription"`
	SubjectNotes      string       `json:"subjectNotes"`
	SubjectGroupNotes string       `json:"subjectGroupNotes"`
	UnitNotes         string       `json:"unitNotes"`
	CourseNotes       string       `json:"courseNotes"`
	Credits           Descriptor   `json:"creditsObject"`
	Level             string       `json:"level"` // U or G
	MainCampus        string       `json:"mainCampus"`
	CampusLocations   []Descriptor `json:"campusLocations"`
	CoreCodes         []CoreCode   `json:"coreCodes"`
	Sections          []Section    `json:"sections"`
	SynopsisURL       string       `json:"synopsisUrl"`
}

// Code returns the canonical lookup key (colon-stripped course string).
func (c *Course) Code() string {
	return NormalizeCode(c.CourseString)
}

// Descriptor is the {"description": ...} object used throughout the dataset.
type Descriptor struct {
	Description string `json:"description"`
}

// CoreCode is a general education requirement satisfied by a course.
type CoreCode struct {
	Description string `json:"coreCodeDescription"`
}

// Section is one scheduled offering of a Course.
type Section struct {
	Number       string        `json:"number"`
	Instructors  []Instructor  `json:"instructors"`
	MeetingTimes []MeetingTime `json:"meetingTimes"`
	Notes        string        `json:"sectionNotes"`
}

// Instructor is identified only by its display name.
// Formats vary: "LAST, FIRST", "LAST", or empty.
type Instructor struct {
	Name string `json:"name"`
}

// MeetingTime is a single weekly meeting of a section.
type MeetingTime struct {
	Day        string `json:"meetingDay"` // M, T, W, TH, F, S, SU
	StartTime  string `json:"startTime"`  // 24-hour HHMM
	EndTime    string `json:"endTime"`    // 24-hour HHMM
	Mode       string `json:"meetingModeDesc"`
	CampusName string `json:"campusName"`
}

// EquivalencyRow is one community college course that transfers as credit
// for a target course.
type EquivalencyRow struct {
	CommunityCollege string   `json:"community_college"`
	College          string   `json:"college"`
	Code             string   `json:"code"`
	Name             string   `json:"name"`
	Credits          string   `json:"credits"`
	Equivalency      string   `json:"equivalency"` // colon-stripped target code
	TransferCredit   string   `json:"transfer_credit"`
	Distance         *float64 `json:"distance"` // miles, nil when unknown
}

// Location is a latitude/longitude pair in decimal degrees.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Validate reports whether the coordinates are finite and in range.
func (l Location) Validate() error {
	if math.IsNaN(l.Latitude) || math.IsInf(l.Latitude, 0) ||
		l.Latitude < -90 || l.Latitude > 90 {
		return fmt.Errorf("%w: latitude %v", ErrInvalidLocation, l.Latitude)
	}
	if math.IsNaN(l.Longitude) || math.IsInf(l.Longitude, 0) ||
		l.Longitude < -180 || l.Longitude > 180 {
		return fmt.Errorf("%w: longitude %v", ErrInvalidLocation, l.Longitude)
	}
	return nil
}

// College is a community college with a fixed campus location.
type College struct {
	Name     string
	Location Location
}

// CollegeDistances maps community college name to driving distance in miles.
// A nil value means the distance is unknown.
type CollegeDistances map[string]*float64

// CourseRef is a lightweight pointer to a course from the instructor index.
type CourseRef struct {
	Title        string `json:"title"`
	CourseString string `json:"courseString"`
}

// CourseResult is the normalized shape returned by every course search.
type CourseResult struct {
	Title         string           `json:"title"`
	CourseNumber  string           `json:"course_number"`
	Instructors   [][]string       `json:"instructors"` // one list per section
	Prerequisites string           `json:"prerequisites"`
	Equivalencies []EquivalencyRow `json:"equivalencies"`
	SynopsisURL   string           `json:"synopsis_url"`
}

// ProfessorResult is one entry of a professor search. When no instructor
// matches, a single entry with Professor set to NoExactMatch carries
// Suggestions instead of Courses.
type ProfessorResult struct {
	Professor   string      `json:"professor"`
	Courses     []CourseRef `json:"courses,omitempty"`
	Suggestions []string    `json:"suggestions,omitempty"`
}

// NoExactMatch is the Professor value of the suggestion sentinel result.
const NoExactMatch = "no exact match"

// Metadata keys stored with every course vector.
const (
	MetadataTitle = "title"
	MetadataCode  = "code"
	MetadataText  = "text"
)

// CourseVector is an embedded course document stored in the vector index.
type CourseVector struct {
	ID          string // course string in colon form
	Vector      []float32
	ContentHash uint64 // ContentHash of the embedded document
	Metadata    map[string]string
}

// Match is a nearest-neighbor hit from the vector index.
type Match struct {
	ID       string
	Score    float32
	Metadata map[string]string
}
