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

import "errors"

// Domain validation errors
var (
	// ErrInvalidCourse indicates a Course failed validation.
	ErrInvalidCourse = errors.New("invalid course")

	// ErrEmptyCourseString indicates the courseString field is empty.
	ErrEmptyCourseString = errors.New("course string cannot be empty")

	// ErrMalformedCourseString indicates the courseString is not SCHOOL:SUBJECT:NUMBER.
	ErrMalformedCourseString = errors.New("course string must be SCHOOL:SUBJECT:NUMBER")

	// ErrEmptyTitle indicates the title field is empty.
	ErrEmptyTitle = errors.New("course title cannot be empty")

	// ErrDuplicateCode indicates two courses share a colon-stripped code.
	ErrDuplicateCode = errors.New("duplicate course code")

	// ErrInvalidLocation indicates coordinates are out of range or not finite.
	ErrInvalidLocation = errors.New("invalid location")
)
