package search

import "github.com/poiesic/coursefinder/core"

// SearchMonitor provides hooks to observe a title search.
// Implement this interface to trace intermediate steps, for example in a
// verbose CLI mode.
type SearchMonitor interface {
	Start(query string)
	Candidates(matches []core.Match)
	StaleCandidate(id string)
	Finish(results []core.CourseResult)
}

// noopMonitor is a no-op implementation of SearchMonitor
type noopMonitor struct{}

var _ SearchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string) {}
func (n *noopMonitor) Candidates(_ []core.Match) {}
func (n *noopMonitor) StaleCandidate(_ string) {}
func (n *noopMonitor) Finish(_ []core.CourseResult) {}
