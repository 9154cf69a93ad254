package search

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/poiesic/coursefinder/ai/mock"
	"github.com/poiesic/coursefinder/catalog"
	"github.com/poiesic/coursefinder/core"
	"github.com/poiesic/coursefinder/equivalency"
	"github.com/poiesic/coursefinder/storage"
	"github.com/poiesic/coursefinder/storage/badger"
	"github.com/stretchr/testify/require"
)

const (
	essex  = "Essex County College"
	bergen = "Bergen Community College"
	salem  = "Salem Community College"
)

func section(names ...string) core.Section {
	instructors := make([]core.Instructor, len(names))
	for i, name := range names {
		instructors[i] = core.Instructor{Name: name}
	}
	return core.Section{Instructors: instructors}
}

func testCourses() []*core.Course {
	return []*core.Course{
		{
			CourseString: "01:198:111",
			Title:        "INTRO COMPUTER SCI",
			Sections:     []core.Section{section("SMITH, JOHN"), section("CENTENO, ANA")},
		},
		{
			CourseString: "01:198:112",
			Title:        "DATA STRUCTURES",
			PreReqNotes:  "<em>(01:198:111 )</em>",
			SynopsisURL:  "https://synopsis.rutgers.edu/01198112.pdf",
			Sections:     []core.Section{section("SMITH, JOHN"), section(), section("UNKNOWN")},
		},
		{
			CourseString: "01:640:151",
			Title:        "CALCULUS I",
			Sections:     []core.Section{section("DOE, JANE")},
		},
		{
			CourseString: "14:332:112",
			Title:        "ENGINEERING DATA STRUCTURES",
			Sections:     []core.Section{section("DOE, JANE", "CENTENO, ANA")},
		},
	}
}

func testRows() []core.EquivalencyRow {
	return []core.EquivalencyRow{
		{CommunityCollege: essex, Code: "CSC 220", Name: "Data Structures", Equivalency: "01198112"},
		{CommunityCollege: bergen, Code: "CIS 266", Name: "Data Structures", Equivalency: "01198112"},
		{CommunityCollege: salem, Code: "CIS 210", Name: "Data Structures", Equivalency: "01198112"},
		{CommunityCollege: essex, Code: "MTH 119", Name: "Calculus I", Equivalency: "01640151"},
	}
}

type fakeDistances struct {
	calls     atomic.Int64
	distances core.CollegeDistances
}

func (f *fakeDistances) AllDistances(ctx context.Context, loc core.Location) (core.CollegeDistances, error) {
	f.calls.Add(1)
	if err := loc.Validate(); err != nil {
		return nil, err
	}
	return f.distances, nil
}

func miles(v float64) *float64 { return &v }

func newTestDistances() *fakeDistances {
	return &fakeDistances{distances: core.CollegeDistances{
		essex: miles(5),
		salem: miles(5),
	}}
}

func newTestCatalog(t *testing.T) *catalog.Store {
	t.Helper()
	store, err := catalog.New(testCourses())
	require.NoError(t, err)
	return store
}

func newTestResolver(t *testing.T) *equivalency.Resolver {
	t.Helper()
	resolver, err := equivalency.NewResolver(equivalency.NewTable(testRows()))
	require.NoError(t, err)
	return resolver
}

// newTestIndex stores one vector per course title plus a stale entry that
// shares the vector of "DATA STRUCTURES".
func newTestIndex(t *testing.T) storage.VectorIndex {
	t.Helper()
	index, err := badger.NewMemoryIndex()
	require.NoError(t, err)
	t.Cleanup(func() { index.Close() })

	var vectors []*core.CourseVector
	for _, course := range testCourses() {
		vectors = append(vectors, &core.CourseVector{
			ID:       course.CourseString,
			Vector:   mock.DeterministicVector(course.Title, mock.Dimension),
			Metadata: map[string]string{core.MetadataTitle: course.Title},
		})
	}
	vectors = append(vectors, &core.CourseVector{
		ID:     "01:198:999",
		Vector: mock.DeterministicVector("DATA STRUCTURES", mock.Dimension),
	})
	require.NoError(t, index.Upsert(context.Background(), vectors...))
	return index
}
