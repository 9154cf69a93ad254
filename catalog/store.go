package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/poiesic/coursefinder/core"
)

// Store is the in-memory course catalog.
type Store struct {
	courses      []*core.Course
	byTitle      map[string]*core.Course
	byCode       map[string]*core.Course
	byInstructor map[string][]core.CourseRef
	instructors  []string // first-seen order
}

// Load reads and indexes the course dataset at path.
// The dataset is a JSON array of course records.
func Load(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrDatasetUnavailable, path)
		}
		return nil, fmt.Errorf("%w: %w", ErrDatasetUnavailable, err)
	}

	var courses []*core.Course
	if err := json.Unmarshal(data, &courses); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrMalformedDataset, path, err)
	}

	store, err := New(courses)
	if err != nil {
		return nil, err
	}

	slog.Default().With("component", "catalog").Info("loaded course catalog",
		"path", path,
		"courses", store.Len(),
		"instructors", len(store.instructors))
	return store, nil
}

// New validates and indexes already decoded course records.
func New(courses []*core.Course) (*Store, error) {
	if err := core.ValidateCatalog(courses); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedDataset, err)
	}

	s := &Store{
		courses:      courses,
		byTitle:      make(map[string]*core.Course, len(courses)),
		byCode:       make(map[string]*core.Course, len(courses)),
		byInstructor: make(map[string][]core.CourseRef),
	}

	for _, course := range courses {
		// Later records with the same title replace earlier ones
		s.byTitle[strings.ToLower(course.Title)] = course
		s.byCode[course.Code()] = course
		s.indexInstructors(course)
	}

	return s, nil
}

func (s *Store) indexInstructors(course *core.Course) {
	ref := core.CourseRef{Title: course.Title, CourseString: course.CourseString}
	for _, section := range course.Sections {
		for _, instructor := range section.Instructors {
			name := strings.TrimSpace(instructor.Name)
			if core.IsPlaceholderName(name) {
				continue
			}
			refs, seen := s.byInstructor[name]
			if !seen {
				s.instructors = append(s.instructors, name)
			}
			if !containsRef(refs, ref) {
				s.byInstructor[name] = append(refs, ref)
			}
		}
	}
}

func containsRef(refs []core.CourseRef, ref core.CourseRef) bool {
	for _, r := range refs {
		if r == ref {
			return true
		}
	}
	return false
}

// Len returns the number of courses in the catalog.
func (s *Store) Len() int {
	return len(s.courses)
}

// Courses returns every course in dataset order.
// The returned slice must not be modified.
func (s *Store) Courses() []*core.Course {
	return s.courses
}

// ByCode finds a course by code in either colon form ("01:198:112") or
// colon-stripped form ("01198112").
func (s *Store) ByCode(code string) (*core.Course, bool) {
	course, ok := s.byCode[core.NormalizeCode(code)]
	return course, ok
}

// ByTitle finds a course by exact title, ignoring case.
func (s *Store) ByTitle(title string) (*core.Course, bool) {
	course, ok := s.byTitle[strings.ToLower(strings.TrimSpace(title))]
	return course, ok
}

// CodesEndingWith returns every course whose colon-stripped code ends with
// the colon-stripped suffix, in dataset order. An empty suffix matches nothing.
func (s *Store) CodesEndingWith(suffix string) []*core.Course {
	suffix = core.NormalizeCode(suffix)
	if suffix == "" {
		return nil
	}

	var matches []*core.Course
	for _, course := range s.courses {
		if strings.HasSuffix(course.Code(), suffix) {
			matches = append(matches, course)
		}
	}
	return matches
}

// InstructorsMatching returns the raw instructor names that contain
// substring, ignoring case, in first-seen order.
func (s *Store) InstructorsMatching(substring string) []string {
	needle := strings.ToLower(strings.TrimSpace(substring))
	if needle == "" {
		return nil
	}

	var names []string
	for _, name := range s.instructors {
		if strings.Contains(strings.ToLower(name), needle) {
			names = append(names, name)
		}
	}
	return names
}

// InstructorNames returns every indexed raw instructor name in first-seen
// order. The returned slice must not be modified.
func (s *Store) InstructorNames() []string {
	return s.instructors
}

// CoursesByInstructor returns the courses taught by the raw instructor
// name, deduplicated, in dataset order.
func (s *Store) CoursesByInstructor(name string) []core.CourseRef {
	return s.byInstructor[strings.TrimSpace(name)]
}
