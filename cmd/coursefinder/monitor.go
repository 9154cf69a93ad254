package main

import (
	"fmt"
	"io"

	"github.com/poiesic/coursefinder/core"
	"github.com/poiesic/coursefinder/search"
)

// verboseMonitor traces title searches to w.
type verboseMonitor struct {
	w io.Writer
}

var _ search.SearchMonitor = (*verboseMonitor)(nil)

func newVerboseMonitor(w io.Writer) *verboseMonitor {
	return &verboseMonitor{w: w}
}

// orNoop lets a nil monitor stand for "no tracing".
func (m *verboseMonitor) orNoop() search.SearchMonitor {
	if m == nil {
		return nil
	}
	return m
}

func (m *verboseMonitor) Start(query string) {
	fmt.Fprintf(m.w, "Searching for %q\n", query)
}

func (m *verboseMonitor) Candidates(matches []core.Match) {
	fmt.Fprintf(m.w, "Index returned %d candidates\n", len(matches))
	for i, match := range matches {
		fmt.Fprintf(m.w, "  %d: %s %s [%0.3f]\n", i, match.ID, match.Metadata[core.MetadataTitle], match.Score)
	}
}

func (m *verboseMonitor) StaleCandidate(id string) {
	fmt.Fprintf(m.w, "  skipped %s: not in catalog\n", id)
}

func (m *verboseMonitor) Finish(results []core.CourseResult) {
	fmt.Fprintf(m.w, "Returning %d courses\n\n", len(results))
}
