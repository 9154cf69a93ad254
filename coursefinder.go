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
package coursefinder

import (
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/poiesic/coursefinder/ai"
	"github.com/poiesic/coursefinder/ai/openai"
	"github.com/poiesic/coursefinder/catalog"
	"github.com/poiesic/coursefinder/distance"
	"github.com/poiesic/coursefinder/equivalency"
	"github.com/poiesic/coursefinder/indexer"
	"github.com/poiesic/coursefinder/qa"
	"github.com/poiesic/coursefinder/search"
	"github.com/poiesic/coursefinder/server"
	"github.com/poiesic/coursefinder/storage"
	"github.com/poiesic/coursefinder/storage/badger"
)

var (
	// ErrIndexNotConfigured is returned by operations that need the vector index.
	ErrIndexNotConfigured = errors.New("vector index not configured")

	// ErrAINotConfigured is returned by operations that need an AI provider.
	ErrAINotConfigured = errors.New("ai provider not configured")
)

// Finder owns the loaded catalog, the equivalency table and the optional
// external collaborators, and hands out searchers, assistants and servers
// built on them.
type Finder struct {
	catalog   *catalog.Store
	resolver  *equivalency.Resolver
	distances *distance.Service
	cache     io.Closer
	index     storage.VectorIndex
	provider  ai.AIProvider
	searcher  *search.Searcher
	prompts   qa.Prompts
	base      *slog.Logger
	logger    *slog.Logger
}

// FinderOption configures a Finder.
type FinderOption func(*finderOptions)

type finderOptions struct {
	equivalencyPath string
	indexPath       string
	index           storage.VectorIndex
	aiConfig        *ai.Config
	provider        ai.AIProvider
	mapboxToken     string
	router          distance.Router
	redisURL        string
	cacheTTL        time.Duration
	keyPolicy       distance.KeyFunc
	promptDir       string
	searchOpts      []search.Option
	logger          *slog.Logger
}

// WithEquivalencyTable loads the transfer equivalency CSV at path.
// Without it every search that reaches equivalencies fails with
// equivalency.ErrTableUnavailable.
func WithEquivalencyTable(path string) FinderOption {
	return func(o *finderOptions) {
		o.equivalencyPath = path
	}
}

// WithIndexPath opens the BadgerDB vector index at path.
func WithIndexPath(path string) FinderOption {
	return func(o *finderOptions) {
		o.indexPath = path
	}
}

// WithIndex uses an already opened vector index. The Finder takes ownership.
func WithIndex(index storage.VectorIndex) FinderOption {
	return func(o *finderOptions) {
		o.index = index
	}
}

// WithAIConfig creates an OpenAI-compatible provider from cfg.
func WithAIConfig(cfg *ai.Config) FinderOption {
	return func(o *finderOptions) {
		o.aiConfig = cfg
	}
}

// WithAIProvider uses provider instead of building one. The Finder takes ownership.
func WithAIProvider(provider ai.AIProvider) FinderOption {
	return func(o *finderOptions) {
		o.provider = provider
	}
}

// WithMapboxToken enables driving distances through the Mapbox Directions API.
func WithMapboxToken(token string) FinderOption {
	return func(o *finderOptions) {
		o.mapboxToken = token
	}
}

// WithRouter enables driving distances through router.
func WithRouter(router distance.Router) FinderOption {
	return func(o *finderOptions) {
		o.router = router
	}
}

// WithRedisURL caches distances in Redis instead of process memory.
func WithRedisURL(url string) FinderOption {
	return func(o *finderOptions) {
		o.redisURL = url
	}
}

// WithDistanceCacheTTL sets how long computed distances are cached.
func WithDistanceCacheTTL(ttl time.Duration) FinderOption {
	return func(o *finderOptions) {
		o.cacheTTL = ttl
	}
}

// WithDistanceKeyPolicy sets how locations map to cache keys.
// Default is distance.ExactKey.
func WithDistanceKeyPolicy(fn distance.KeyFunc) FinderOption {
	return func(o *finderOptions) {
		o.keyPolicy = fn
	}
}

// WithPromptDir loads the question answering prompts from dir.
func WithPromptDir(dir string) FinderOption {
	return func(o *finderOptions) {
		o.promptDir = dir
	}
}

// WithSearchOptions passes extra options to the searcher.
func WithSearchOptions(opts ...search.Option) FinderOption {
	return func(o *finderOptions) {
		o.searchOpts = append(o.searchOpts, opts...)
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) FinderOption {
	return func(o *finderOptions) {
		o.logger = logger
	}
}

// NewFinder loads the course catalog at catalogPath and wires the configured
// collaborators. A missing or malformed catalog is fatal.
func NewFinder(catalogPath string, opts ...FinderOption) (*Finder, error) {
	options := &finderOptions{}
	for _, opt := range opts {
		opt(options)
	}
	if options.logger == nil {
		options.logger = slog.Default()
	}

	f := &Finder{
		prompts: qa.DefaultPrompts(),
		base:    options.logger,
		logger:  options.logger.With("component", "finder"),
	}
	if err := f.open(catalogPath, options); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

func (f *Finder) open(catalogPath string, o *finderOptions) error {
	store, err := catalog.Load(catalogPath)
	if err != nil {
		return err
	}
	f.catalog = store
	f.logger.Info("catalog loaded", "courses", store.Len())

	// A nil source is allowed; the resolver reports the table as unavailable.
	var source equivalency.Source
	if o.equivalencyPath != "" {
		table, err := equivalency.LoadTable(o.equivalencyPath)
		if err != nil {
			return err
		}
		f.logger.Info("equivalency table loaded", "rows", table.Len())
		source = table
	}
	f.resolver, err = equivalency.NewResolver(source, equivalency.WithLogger(o.logger))
	if err != nil {
		return err
	}

	if err := f.openIndex(o); err != nil {
		return err
	}
	if err := f.openProvider(o); err != nil {
		return err
	}
	if err := f.openDistances(o); err != nil {
		return err
	}

	if o.promptDir != "" {
		f.prompts, err = qa.LoadPrompts(o.promptDir)
		if err != nil {
			return err
		}
	}

	searchOpts := []search.Option{search.WithLogger(o.logger)}
	if f.index != nil && f.provider != nil {
		searchOpts = append(searchOpts, search.WithNearestNeighbors(f.index, f.provider.Embedder()))
	}
	if f.distances != nil {
		searchOpts = append(searchOpts, search.WithDistances(f.distances))
	}
	searchOpts = append(searchOpts, o.searchOpts...)
	f.searcher, err = search.NewSearcher(f.catalog, f.resolver, searchOpts...)
	return err
}

func (f *Finder) openIndex(o *finderOptions) error {
	switch {
	case o.index != nil:
		f.index = o.index
	case o.indexPath != "":
		index, err := badger.OpenIndex(o.indexPath)
		if err != nil {
			return err
		}
		f.index = index
	}
	return nil
}

func (f *Finder) openProvider(o *finderOptions) error {
	switch {
	case o.provider != nil:
		f.provider = o.provider
	case o.aiConfig != nil:
		provider, err := openai.NewProvider(o.aiConfig)
		if err != nil {
			return err
		}
		f.provider = provider
	}
	return nil
}

func (f *Finder) openDistances(o *finderOptions) error {
	router := o.router
	if router == nil && o.mapboxToken != "" {
		mapbox, err := distance.NewMapboxRouter(o.mapboxToken)
		if err != nil {
			return err
		}
		router = mapbox
	}
	if router == nil {
		f.logger.Warn("no distance router configured; equivalencies will be sorted by name")
		return nil
	}

	var cacheOpts []distance.CacheOption
	if o.cacheTTL > 0 {
		cacheOpts = append(cacheOpts, distance.WithTTL(o.cacheTTL))
	}

	var cache distance.Cache
	if o.redisURL != "" {
		redisCache, err := distance.NewRedisCache(o.redisURL, cacheOpts...)
		if err != nil {
			return err
		}
		f.cache = redisCache
		cache = redisCache
	} else {
		memCache, err := distance.NewMemoryCache(cacheOpts...)
		if err != nil {
			return err
		}
		f.cache = closerFunc(memCache.Close)
		cache = memCache
	}

	serviceOpts := []distance.Option{distance.WithCache(cache), distance.WithLogger(o.logger)}
	if o.keyPolicy != nil {
		serviceOpts = append(serviceOpts, distance.WithKeyPolicy(o.keyPolicy))
	}
	service, err := distance.NewService(router, serviceOpts...)
	if err != nil {
		return err
	}
	f.distances = service
	return nil
}

type closerFunc func()

func (fn closerFunc) Close() error {
	fn()
	return nil
}

// Catalog returns the loaded course catalog.
func (f *Finder) Catalog() *catalog.Store {
	return f.catalog
}

// Searcher returns the course searcher.
func (f *Finder) Searcher() *search.Searcher {
	return f.searcher
}

// Distances returns the distance service, or nil when no router is configured.
func (f *Finder) Distances() *distance.Service {
	return f.distances
}

// NewAssistant creates a question answering assistant over the index.
func (f *Finder) NewAssistant(opts ...qa.Option) (*qa.Assistant, error) {
	if f.index == nil {
		return nil, ErrIndexNotConfigured
	}
	if f.provider == nil {
		return nil, ErrAINotConfigured
	}
	opts = append([]qa.Option{qa.WithPrompts(f.prompts), qa.WithLogger(f.base)}, opts...)
	return qa.NewAssistant(f.index, f.provider, opts...)
}

// NewIndexer creates an indexer that embeds the catalog into the index.
func (f *Finder) NewIndexer(config *indexer.Config, progress io.Writer) (*indexer.Indexer, error) {
	if f.index == nil {
		return nil, ErrIndexNotConfigured
	}
	if f.provider == nil {
		return nil, ErrAINotConfigured
	}
	return indexer.NewIndexer(f.catalog, f.index, f.provider.Embedder(), config, progress)
}

// NewServer creates the HTTP server. Question answering is enabled when
// both the index and an AI provider are configured.
func (f *Finder) NewServer(opts ...server.Option) (*server.Server, error) {
	assistant, err := f.NewAssistant()
	switch {
	case err == nil:
		opts = append([]server.Option{server.WithAssistant(assistant)}, opts...)
	case errors.Is(err, ErrIndexNotConfigured), errors.Is(err, ErrAINotConfigured):
		f.logger.Warn("question answering disabled", "reason", err)
	default:
		return nil, err
	}
	opts = append([]server.Option{server.WithLogger(f.base)}, opts...)
	return server.New(f.searcher, opts...)
}

// Close releases every collaborator the Finder owns.
func (f *Finder) Close() error {
	var errs []error
	if f.distances != nil {
		f.distances.Release()
	}
	if f.cache != nil {
		if err := f.cache.Close(); err != nil {
			f.logger.Error("error closing distance cache", "err", err)
			errs = append(errs, err)
		}
	}
	if f.provider != nil {
		if err := f.provider.Close(); err != nil {
			f.logger.Error("error closing AI provider", "err", err)
			errs = append(errs, err)
		}
	}
	if f.index != nil {
		if err := f.index.Close(); err != nil {
			f.logger.Error("error closing vector index", "err", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
