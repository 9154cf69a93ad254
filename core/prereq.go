package core

import (
	"regexp"
	"strings"
)

var prerequisiteCode = regexp.MustCompile(`\b\d{2}:\d{3}:\d{3}\b`)

// ParsePrerequisites extracts the alternative sets of course codes that
// satisfy a prerequisite note.
//
// The note is split into alternatives on "OR" and each alternative into
// conditions on "and". Codes mentioned inside a single condition are
// interchangeable, so every combination that picks one code per condition
// is returned as its own set:
//
//	"(01:198:111 or 01:198:112) and 01:640:151"
//	-> [[01:198:111 01:640:151] [01:198:112 01:640:151]]
func ParsePrerequisites(notes string) [][]string {
	clean := markupTag.ReplaceAllString(notes, "")

	var options [][]string
	for _, group := range strings.Split(clean, "OR") {
		var conditions [][]string
		for _, condition := range strings.Split(strings.TrimSpace(group), "and") {
			codes := prerequisiteCode.FindAllString(condition, -1)
			if len(codes) > 0 {
				conditions = append(conditions, codes)
			}
		}
		if len(conditions) > 0 {
			options = append(options, combinations(conditions)...)
		}
	}
	return options
}

// combinations returns the cartesian product of lists, preserving order.
func combinations(lists [][]string) [][]string {
	result := [][]string{{}}
	for _, list := range lists {
		next := make([][]string, 0, len(result)*len(list))
		for _, prefix := range result {
			for _, item := range list {
				combo := make([]string, len(prefix), len(prefix)+1)
				copy(combo, prefix)
				next = append(next, append(combo, item))
			}
		}
		result = next
	}
	return result
}
