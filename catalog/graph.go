package catalog

import (
	"slices"
	"strings"

	"github.com/poiesic/coursefinder/core"
)

// PrerequisiteGraph returns the prerequisite adjacency list for one subject.
//
// Keys are the course strings of undergraduate courses whose SUBJECT segment
// equals subject; values are the distinct prerequisite course strings in the
// order they first appear in the notes. Courses numbered 500 and above are
// graduate level and omitted.
func (s *Store) PrerequisiteGraph(subject string) map[string][]string {
	subject = strings.TrimSpace(subject)
	graph := make(map[string][]string)

	for _, course := range s.courses {
		if course.SubjectCode() != subject || isGraduateNumber(course.NumberCode()) {
			continue
		}

		edges := []string{}
		for _, option := range core.ParsePrerequisites(course.PreReqNotes) {
			for _, code := range option {
				if !slices.Contains(edges, code) {
					edges = append(edges, code)
				}
			}
		}
		graph[course.CourseString] = edges
	}

	return graph
}

func isGraduateNumber(number string) bool {
	return number != "" && number[0] >= '5' && number[0] <= '9'
}
