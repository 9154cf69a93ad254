package search

import (
	"context"
	"testing"

	"github.com/poiesic/coursefinder/core"
	"github.com/poiesic/coursefinder/equivalency"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssembler_Assemble(t *testing.T) {
	ctx := context.Background()
	assembler := NewAssembler(newTestResolver(t))

	t.Run("single instructor without prerequisites", func(t *testing.T) {
		course := &core.Course{
			CourseString: "01:198:112",
			Title:        "DATA STRUCTURES",
			Sections:     []core.Section{section("DOE, JANE")},
		}

		result, err := assembler.Assemble(ctx, course, nil)
		require.NoError(t, err)

		assert.Equal(t, "DATA STRUCTURES", result.Title)
		assert.Equal(t, "01:198:112", result.CourseNumber)
		assert.Equal(t, [][]string{{"Jane Doe"}}, result.Instructors)
		assert.Equal(t, "No prerequisites", result.Prerequisites)
		require.Len(t, result.Equivalencies, 3)
		assert.Empty(t, result.SynopsisURL)
	})

	t.Run("one list per section", func(t *testing.T) {
		course := testCourses()[1]

		result, err := assembler.Assemble(ctx, course, nil)
		require.NoError(t, err)

		assert.Equal(t, [][]string{{"John Smith"}, {"TBA"}, {"TBA"}}, result.Instructors)
		assert.Equal(t, "(01:198:111 )", result.Prerequisites)
		assert.Equal(t, "https://synopsis.rutgers.edu/01198112.pdf", result.SynopsisURL)
	})

	t.Run("identical sections are kept", func(t *testing.T) {
		course := &core.Course{
			CourseString: "01:640:151",
			Title:        "CALCULUS I",
			Sections:     []core.Section{section("DOE, JANE"), section("DOE, JANE")},
		}

		result, err := assembler.Assemble(ctx, course, nil)
		require.NoError(t, err)
		assert.Equal(t, [][]string{{"Jane Doe"}, {"Jane Doe"}}, result.Instructors)
	})

	t.Run("no sections", func(t *testing.T) {
		result, err := assembler.Assemble(ctx, &core.Course{CourseString: "01:640:152", Title: "CALCULUS II"}, nil)
		require.NoError(t, err)
		assert.NotNil(t, result.Instructors)
		assert.Empty(t, result.Instructors)
		assert.NotNil(t, result.Equivalencies)
		assert.Empty(t, result.Equivalencies)
	})

	t.Run("distances rank equivalencies", func(t *testing.T) {
		result, err := assembler.Assemble(ctx, testCourses()[1], newTestDistances().distances)
		require.NoError(t, err)

		require.Len(t, result.Equivalencies, 3)
		assert.Equal(t, essex, result.Equivalencies[0].CommunityCollege)
		assert.Equal(t, salem, result.Equivalencies[1].CommunityCollege)
		assert.Equal(t, bergen, result.Equivalencies[2].CommunityCollege)
		assert.Nil(t, result.Equivalencies[2].Distance)
	})

	t.Run("without distances colleges sort by name", func(t *testing.T) {
		result, err := assembler.Assemble(ctx, testCourses()[1], nil)
		require.NoError(t, err)

		require.Len(t, result.Equivalencies, 3)
		assert.Equal(t, bergen, result.Equivalencies[0].CommunityCollege)
		assert.Equal(t, essex, result.Equivalencies[1].CommunityCollege)
		assert.Equal(t, salem, result.Equivalencies[2].CommunityCollege)
		for _, row := range result.Equivalencies {
			assert.Nil(t, row.Distance)
		}
	})

	t.Run("unavailable table surfaces", func(t *testing.T) {
		resolver, err := equivalency.NewResolver(nil)
		require.NoError(t, err)

		_, err = NewAssembler(resolver).Assemble(ctx, testCourses()[0], nil)
		assert.ErrorIs(t, err, equivalency.ErrTableUnavailable)
	})
}
