// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package core

import (
	"fmt"
	"strings"
)

// ValidateCourse validates a Course according to domain rules.
//
// Validation rules:
//   - CourseString must not be empty
//   - CourseString must have three non-empty colon-delimited segments
//   - Title must not be empty
//
// NOT validated (optional in the dataset):
//   - Sections (a course may have no scheduled sections)
//   - PreReqNotes (rendered as "No prerequisites" when empty)
//   - SynopsisURL
func ValidateCourse(course *Course) error {
	if course == nil {
		return fmt.Errorf("%w: course is nil", ErrInvalidCourse)
	}

	if strings.TrimSpace(course.CourseString) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidCourse, ErrEmptyCourseString)
	}

	if err := ValidateCourseString(course.CourseString); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidCourse, err)
	}

	if strings.TrimSpace(course.Title) == "" {
		return fmt.Errorf("%w: %s: %w", ErrInvalidCourse, course.CourseString, ErrEmptyTitle)
	}

	return nil
}

// ValidateCourseString checks that a course string has the
// SCHOOL:SUBJECT:NUMBER shape.
func ValidateCourseString(courseString string) error {
	parts := strings.Split(strings.TrimSpace(courseString), ":")
	if len(parts) != 3 {
		return fmt.Errorf("%w: %q", ErrMalformedCourseString, courseString)
	}
	for _, part := range parts {
		if strings.TrimSpace(part) == "" {
			return fmt.Errorf("%w: %q", ErrMalformedCourseString, courseString)
		}
	}
	return nil
}

// ValidateCatalog validates every course and rejects duplicate codes.
// The returned error identifies the offending record by position.
func ValidateCatalog(courses []*Course) error {
	seen := make(map[string]int, len(courses))
	for i, course := range courses {
		if err := ValidateCourse(course); err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
		code := course.Code()
		if first, ok := seen[code]; ok {
			return fmt.Errorf("record %d: %w: %s (first seen at record %d)", i, ErrDuplicateCode, course.CourseString, first)
		}
		seen[code] = i
	}
	return nil
}
