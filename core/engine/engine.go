// Package engine is the library boundary of the code knowledge-graph system.
// It orchestrates the build phases (discovery, extraction, vectorization,
// relationship building, pattern recognition, indexing) and serves queries,
// exports, visualizations, and statistics against the published graph.
//
// Builds are full, one-shot rebuilds. The completed graph is published by
// swap: queries only ever see a finished graph, never a build in progress,
// and may run fully concurrently with each other.
package engine

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/adalundhe/codegraph/core/config"
	"github.com/adalundhe/codegraph/core/events"
	"github.com/adalundhe/codegraph/core/extract"
	"github.com/adalundhe/codegraph/core/graph"
	"github.com/adalundhe/codegraph/core/patterns"
	"github.com/adalundhe/codegraph/core/query"
	"github.com/adalundhe/codegraph/core/relate"
	"github.com/adalundhe/codegraph/core/vectorize"
)

// ErrGraphNotBuilt is returned by read operations before the first
// successful build.
var ErrGraphNotBuilt = errors.New("graph not built")

// published is one immutable build output: the graph plus the query-side
// indexes derived from it. Swapped in atomically on build completion.
type published struct {
	store   *graph.Store
	queries *query.Engine
	keyword *query.KeywordIndex
}

// Engine is the knowledge-graph facade.
type Engine struct {
	cfg        *config.Config
	vectorizer *vectorize.TermFrequency
	simIndex   relate.SimilarityIndex
	bus        *events.Bus
	logger     *slog.Logger
	current    atomic.Pointer[published]
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger. Nil selects slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithBus sets the event bus observers register on.
func WithBus(bus *events.Bus) Option {
	return func(e *Engine) {
		if bus != nil {
			e.bus = bus
		}
	}
}

// WithSimilarityIndex swaps the similarity discovery implementation.
func WithSimilarityIndex(index relate.SimilarityIndex) Option {
	return func(e *Engine) {
		if index != nil {
			e.simIndex = index
		}
	}
}

// New creates an Engine. A nil config selects config.Default().
func New(cfg *config.Config, opts ...Option) *Engine {
	if cfg == nil {
		cfg = config.Default()
	}

	e := &Engine{
		cfg:      cfg,
		simIndex: relate.ExactPairwise{},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.bus == nil {
		e.bus = events.NewBus(e.logger)
	}

	e.vectorizer = vectorize.NewTermFrequencyWithCache(cfg.Vector.Dimension, &vectorize.CacheConfig{
		MaxCost: cfg.Vector.CacheMaxCost,
	})
	return e
}

// Bus returns the event bus for observer registration.
func (e *Engine) Bus() *events.Bus {
	return e.bus
}

// Close releases the engine's caches and indexes.
func (e *Engine) Close() {
	if prev := e.current.Swap(nil); prev != nil {
		prev.keyword.Close()
	}
	e.vectorizer.Close()
}

// =============================================================================
// Build
// =============================================================================

// BuildGraph runs a full rebuild from the given root path and publishes the
// result. Any prior graph is discarded on publish. Per-file failures are
// contained and logged; only discovery setup errors and cancellation abort
// the build.
func (e *Engine) BuildGraph(ctx context.Context, rootPath string) error {
	started := time.Now()
	e.bus.Publish(events.NewEvent(events.EventTypeBuildStarted))

	store, err := e.build(ctx, rootPath)
	if err != nil {
		return err
	}

	keyword, err := query.NewKeywordIndex(store.Nodes())
	if err != nil {
		// Keyword fallback is best-effort; vector ranking still works.
		e.logger.Warn("keyword index unavailable", "error", err)
		keyword = nil
	}

	queries := query.NewEngine(store, e.vectorizer, keyword,
		query.WithSimilarityFloor(e.cfg.Query.SimilarityFloor),
		query.WithMaxResults(e.cfg.Query.MaxResults),
		query.WithCacheSize(e.cfg.Query.CacheSize),
		query.WithLogger(e.logger),
	)

	if prev := e.current.Swap(&published{store: store, queries: queries, keyword: keyword}); prev != nil {
		prev.keyword.Close()
	}

	event := events.NewEvent(events.EventTypeBuildCompleted)
	event.Build = &events.BuildStats{
		NodeCount:         store.NodeCount(),
		RelationshipCount: store.RelationshipCount(),
		ConceptCount:      store.ConceptCount(),
		Duration:          time.Since(started),
	}
	e.bus.Publish(event)

	e.logger.Info("graph built",
		"root", rootPath,
		"nodes", store.NodeCount(),
		"relationships", store.RelationshipCount(),
		"concepts", store.ConceptCount(),
		"duration", time.Since(started),
	)
	return nil
}

// build runs the phases strictly in sequence into a fresh store. Each phase
// fully completes before the next starts; later phases assume a stable node
// set.
func (e *Engine) build(ctx context.Context, rootPath string) (*graph.Store, error) {
	extractor := extract.NewExtractor(extract.ScanConfig{
		RootPath:        rootPath,
		Extensions:      e.cfg.Extraction.Extensions,
		ExcludePatterns: e.cfg.Extraction.ExcludePatterns,
		MaxFileSize:     e.cfg.Extraction.MaxFileSize,
	},
		extract.WithWorkers(e.cfg.Extraction.Workers),
		extract.WithLogger(e.logger),
		extract.WithSkipHandler(func(relPath string) {
			event := events.NewEvent(events.EventTypeFileSkipped)
			event.Path = relPath
			e.bus.Publish(event)
		}),
	)

	results, summary, err := extractor.Run(ctx)
	if err != nil {
		return nil, err
	}
	if summary.FilesSkipped > 0 {
		e.logger.Warn("some files were skipped", "skipped", summary.FilesSkipped, "extracted", summary.FilesExtracted)
	}

	store := graph.NewStore()
	builder := relate.NewBuilder(store, e.logger)

	if err := builder.AssembleNodes(ctx, results); err != nil {
		return nil, err
	}
	if err := e.vectorizeNodes(ctx, store); err != nil {
		return nil, err
	}
	if err := builder.BuildStructural(ctx, results); err != nil {
		return nil, err
	}
	if err := builder.BuildSimilarity(ctx, e.simIndex, e.cfg.Similarity.Threshold); err != nil {
		return nil, err
	}

	recognizer := patterns.NewRecognizer(store, e.logger)
	if err := recognizer.Recognize(ctx); err != nil {
		return nil, err
	}
	return store, nil
}

// vectorizeNodes embeds every node's synthesized text. CPU-bound, no I/O.
func (e *Engine) vectorizeNodes(ctx context.Context, store *graph.Store) error {
	for _, node := range store.Nodes() {
		if err := ctx.Err(); err != nil {
			return err
		}
		node.SemanticVector = e.vectorizer.Vectorize(vectorize.NodeText(node))
	}
	return nil
}

// =============================================================================
// Query
// =============================================================================

// Query answers a semantic query against the published graph and emits a
// query_executed telemetry event.
func (e *Engine) Query(ctx context.Context, req query.Request) (*query.Result, error) {
	current := e.current.Load()
	if current == nil {
		return nil, ErrGraphNotBuilt
	}

	started := time.Now()
	result, err := current.queries.Execute(ctx, req)
	if err != nil {
		return nil, err
	}

	event := events.NewEvent(events.EventTypeQueryExecuted)
	event.Query = &events.QueryStats{
		QueryText:      req.Text,
		ResultCount:    len(result.Nodes),
		Duration:       time.Since(started),
		RelevanceScore: result.RelevanceScore,
	}
	e.bus.Publish(event)

	return result, nil
}
