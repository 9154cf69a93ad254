package search

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/poiesic/coursefinder/ai"
	"github.com/poiesic/coursefinder/core"
	"github.com/poiesic/coursefinder/storage"
)

const (
	// DefaultTopK is the number of title search candidates requested from the index.
	DefaultTopK = 5

	// DefaultSuggestionCutoff is the minimum similarity for a professor suggestion.
	DefaultSuggestionCutoff = 0.7

	// DefaultMaxSuggestions caps the number of professor suggestions.
	DefaultMaxSuggestions = 5
)

// Catalog is the read-only course lookup used by searches.
// *catalog.Store satisfies it.
type Catalog interface {
	ByCode(code string) (*core.Course, bool)
	CodesEndingWith(suffix string) []*core.Course
	InstructorsMatching(substring string) []string
	InstructorNames() []string
	CoursesByInstructor(name string) []core.CourseRef
}

// DistanceSource resolves a location to driving distances.
// *distance.Service satisfies it.
type DistanceSource interface {
	AllDistances(ctx context.Context, loc core.Location) (core.CollegeDistances, error)
}

// Searcher runs course searches over a catalog.
type Searcher struct {
	catalog          Catalog
	assembler        *Assembler
	index            storage.VectorIndex
	embedder         ai.Embedder
	distances        DistanceSource
	topK             int
	suggestionCutoff float64
	maxSuggestions   int
	logger           *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithNearestNeighbors enables title search against index, embedding
// queries with embedder.
func WithNearestNeighbors(index storage.VectorIndex, embedder ai.Embedder) Option {
	return func(s *Searcher) error {
		s.index = index
		s.embedder = embedder
		return nil
	}
}

// WithDistances sets the source used to rank equivalencies by distance.
// Without one, locations are ignored.
func WithDistances(source DistanceSource) Option {
	return func(s *Searcher) error {
		s.distances = source
		return nil
	}
}

// WithTopK sets how many candidates title search requests.
// Default is 5.
func WithTopK(k int) Option {
	return func(s *Searcher) error {
		if k < 1 {
			return fmt.Errorf("topK must be positive, got %d", k)
		}
		s.topK = k
		return nil
	}
}

// WithSuggestionCutoff sets the minimum professor suggestion similarity in [0, 1].
// Default is 0.7.
func WithSuggestionCutoff(cutoff float64) Option {
	return func(s *Searcher) error {
		if cutoff < 0 || cutoff > 1 {
			return fmt.Errorf("suggestion cutoff must be between 0 and 1, got %v", cutoff)
		}
		s.suggestionCutoff = cutoff
		return nil
	}
}

// WithMaxSuggestions caps professor suggestions.
// Default is 5.
func WithMaxSuggestions(n int) Option {
	return func(s *Searcher) error {
		if n < 1 {
			return fmt.Errorf("max suggestions must be positive, got %d", n)
		}
		s.maxSuggestions = n
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// NewSearcher creates a new searcher.
func NewSearcher(catalog Catalog, resolver EquivalencyResolver, opts ...Option) (*Searcher, error) {
	if catalog == nil {
		return nil, ErrCatalogRequired
	}
	if resolver == nil {
		return nil, ErrResolverRequired
	}

	s := &Searcher{
		catalog:          catalog,
		assembler:        NewAssembler(resolver),
		topK:             DefaultTopK,
		suggestionCutoff: DefaultSuggestionCutoff,
		maxSuggestions:   DefaultMaxSuggestions,
		logger:           slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	s.logger = s.logger.With("component", "search")

	return s, nil
}

// WarmDistances computes and caches the distances for loc so later searches
// from the same place are served from the cache.
func (s *Searcher) WarmDistances(ctx context.Context, loc core.Location) error {
	_, err := s.resolveDistances(ctx, &loc)
	return err
}

// SearchByTitle returns the courses nearest to query in the vector index,
// in ranking order. Stale index entries are skipped.
func (s *Searcher) SearchByTitle(ctx context.Context, query string, loc *core.Location) ([]core.CourseResult, error) {
	return s.SearchByTitleWithMonitor(ctx, query, loc, nil)
}

// SearchByTitleWithMonitor is SearchByTitle with callbacks at each stage.
func (s *Searcher) SearchByTitleWithMonitor(ctx context.Context, query string, loc *core.Location, monitor SearchMonitor) ([]core.CourseResult, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}
	if s.index == nil || s.embedder == nil {
		return nil, ErrIndexUnavailable
	}

	monitor.Start(query)

	distances, err := s.resolveDistances(ctx, loc)
	if err != nil {
		return nil, err
	}

	embedding, err := s.embedder.EmbedText(ctx, query)
	if err != nil {
		s.logger.Error("error generating embedding for query", "query", query, "err", err)
		return nil, fmt.Errorf("%w: embed query: %w", ErrLookupFailed, err)
	}

	matches, err := s.index.Query(ctx, embedding, s.topK)
	if err != nil {
		s.logger.Error("error querying course index", "err", err)
		return nil, fmt.Errorf("%w: query index: %w", ErrLookupFailed, err)
	}
	monitor.Candidates(matches)

	results := make([]core.CourseResult, 0, len(matches))
	for _, match := range matches {
		course, ok := s.catalog.ByCode(match.ID)
		if !ok {
			s.logger.Warn("skipping stale index entry", "id", match.ID)
			monitor.StaleCandidate(match.ID)
			continue
		}
		result, err := s.assembler.Assemble(ctx, course, distances)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}

	monitor.Finish(results)
	return results, nil
}

// SearchByCode returns every course whose colon-stripped code ends with the
// colon-stripped suffix, in catalog order.
func (s *Searcher) SearchByCode(ctx context.Context, suffix string, loc *core.Location) ([]core.CourseResult, error) {
	if core.NormalizeCode(suffix) == "" {
		return nil, ErrEmptyQuery
	}

	distances, err := s.resolveDistances(ctx, loc)
	if err != nil {
		return nil, err
	}

	courses := s.catalog.CodesEndingWith(suffix)
	results := make([]core.CourseResult, 0, len(courses))
	for _, course := range courses {
		result, err := s.assembler.Assemble(ctx, course, distances)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	return results, nil
}

// SearchByProfessor returns the courses of every instructor whose name
// contains name. With no match it returns a single NoExactMatch entry
// carrying suggestions, or an empty list when nothing is similar enough.
func (s *Searcher) SearchByProfessor(ctx context.Context, name string) ([]core.ProfessorResult, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyQuery
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	matches := s.catalog.InstructorsMatching(name)
	if len(matches) > 0 {
		results := make([]core.ProfessorResult, len(matches))
		for i, raw := range matches {
			results[i] = core.ProfessorResult{
				Professor: core.FormatInstructorName(raw),
				Courses:   s.catalog.CoursesByInstructor(raw),
			}
		}
		return results, nil
	}

	suggestions := suggestNames(name, s.catalog.InstructorNames(), s.suggestionCutoff, s.maxSuggestions)
	s.logger.Debug("no instructor match", "query", name, "suggestions", len(suggestions))
	if len(suggestions) == 0 {
		return []core.ProfessorResult{}, nil
	}
	return []core.ProfessorResult{{
		Professor:   core.NoExactMatch,
		Suggestions: suggestions,
	}}, nil
}

// resolveDistances returns nil without a location or a distance source.
func (s *Searcher) resolveDistances(ctx context.Context, loc *core.Location) (core.CollegeDistances, error) {
	if loc == nil || s.distances == nil {
		return nil, nil
	}
	return s.distances.AllDistances(ctx, *loc)
}
