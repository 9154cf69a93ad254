package search

import (
	"context"

	"github.com/poiesic/coursefinder/core"
)

// EquivalencyResolver selects the equivalencies shown for a course.
// *equivalency.Resolver satisfies it.
type EquivalencyResolver interface {
	Resolve(ctx context.Context, code string, distances core.CollegeDistances) ([]core.EquivalencyRow, error)
}

// Assembler shapes catalog courses into search results.
type Assembler struct {
	resolver EquivalencyResolver
}

// NewAssembler creates an assembler that attaches equivalencies from resolver.
func NewAssembler(resolver EquivalencyResolver) *Assembler {
	return &Assembler{resolver: resolver}
}

// Assemble builds the result for course. distances may be nil, which makes
// the resolver list every college alphabetically instead of the nearest ones.
func (a *Assembler) Assemble(ctx context.Context, course *core.Course, distances core.CollegeDistances) (core.CourseResult, error) {
	equivalencies, err := a.resolver.Resolve(ctx, course.Code(), distances)
	if err != nil {
		return core.CourseResult{}, err
	}

	return core.CourseResult{
		Title:         course.Title,
		CourseNumber:  course.CourseString,
		Instructors:   sectionInstructors(course.Sections),
		Prerequisites: course.Prerequisites(),
		Equivalencies: equivalencies,
		SynopsisURL:   course.SynopsisURL,
	}, nil
}

// sectionInstructors returns one display-name list per section. Sections are
// kept even when their lists are identical.
func sectionInstructors(sections []core.Section) [][]string {
	lists := make([][]string, 0, len(sections))
	for _, section := range sections {
		if len(section.Instructors) == 0 {
			lists = append(lists, []string{core.PlaceholderInstructor})
			continue
		}
		names := make([]string, len(section.Instructors))
		for i, instructor := range section.Instructors {
			names[i] = core.FormatInstructorName(instructor.Name)
		}
		lists = append(lists, names)
	}
	return lists
}
