package query

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"gonum.org/v1/gonum/stat"

	"github.com/adalundhe/codegraph/core/graph"
	"github.com/adalundhe/codegraph/core/insights"
	"github.com/adalundhe/codegraph/core/vectorize"
)

// Ranking parameters.
const (
	// SimilarityFloor discards results below this cosine similarity.
	SimilarityFloor = 0.3

	// MaxResults caps the ranked result set.
	MaxResults = 20

	defaultCacheSize = 256
)

// Engine answers semantic queries against one published graph. The graph is
// read-only for the engine's lifetime, so queries may run fully concurrently
// and results are cached per request.
type Engine struct {
	store      *graph.Store
	vectorizer vectorize.Vectorizer
	keyword    *KeywordIndex
	cache      *lru.Cache[string, *Result]
	floor      float64
	maxResults int
	logger     *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithSimilarityFloor overrides the similarity floor.
func WithSimilarityFloor(floor float64) Option {
	return func(e *Engine) {
		if floor > 0 {
			e.floor = floor
		}
	}
}

// WithMaxResults overrides the result cap.
func WithMaxResults(max int) Option {
	return func(e *Engine) {
		if max > 0 {
			e.maxResults = max
		}
	}
}

// WithCacheSize sizes the result cache.
func WithCacheSize(size int) Option {
	return func(e *Engine) {
		if size > 0 {
			e.cache, _ = lru.New[string, *Result](size)
		}
	}
}

// WithLogger sets the logger. Nil selects slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewEngine creates a query engine over a completed graph. The vectorizer
// must be the same one used to vectorize the graph's nodes. The keyword
// index may be nil, which disables the fallback path.
func NewEngine(store *graph.Store, vectorizer vectorize.Vectorizer, keyword *KeywordIndex, opts ...Option) *Engine {
	cache, _ := lru.New[string, *Result](defaultCacheSize)
	e := &Engine{
		store:      store,
		vectorizer: vectorizer,
		keyword:    keyword,
		cache:      cache,
		floor:      SimilarityFloor,
		maxResults: MaxResults,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute answers one request. Malformed requests degrade to an empty result
// with a diagnostic suggestion; errors are never propagated from ranking.
func (e *Engine) Execute(ctx context.Context, req Request) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	text := strings.TrimSpace(req.Text)
	if text == "" {
		return &Result{
			Nodes:         []*graph.Node{},
			Relationships: []*graph.Relationship{},
			Suggestions:   []string{"Provide a non-empty query text"},
		}, nil
	}
	req.Text = text

	key := req.cacheKey()
	if e.cache != nil {
		if cached, ok := e.cache.Get(key); ok {
			return cached, nil
		}
	}

	result := e.execute(ctx, req)
	if e.cache != nil {
		e.cache.Add(key, result)
	}
	return result, nil
}

func (e *Engine) execute(ctx context.Context, req Request) *Result {
	nodes := e.rankByVector(req)
	if len(nodes) == 0 {
		nodes = e.rankByKeyword(ctx, req)
	}

	ids := make(map[string]bool, len(nodes))
	for _, node := range nodes {
		ids[node.ID] = true
	}
	relationships := e.store.RelationshipsTouching(ids)

	result := &Result{
		Nodes:          nodes,
		Relationships:  relationships,
		RelevanceScore: relevanceScore(nodes),
		Suggestions:    e.suggestions(req, nodes),
		Insights:       insights.Analyze(nodes, relationships),
	}
	return result
}

// =============================================================================
// Ranking
// =============================================================================

type scoredNode struct {
	node  *graph.Node
	score float64
}

// rankByVector scores every node by cosine similarity to the query vector,
// applies filters, the similarity floor, and the result cap.
func (e *Engine) rankByVector(req Request) []*graph.Node {
	queryVector := e.vectorizer.Vectorize(req.Text)
	queryMag := vectorize.Magnitude(queryVector)
	if queryMag == 0 {
		return nil
	}

	var scored []scoredNode
	for _, node := range e.store.Nodes() {
		if !req.Filters.allows(node) {
			continue
		}
		similarity := vectorize.CosineSimilarity(
			queryVector, node.SemanticVector,
			queryMag, vectorize.Magnitude(node.SemanticVector),
		)
		if similarity < e.floor {
			continue
		}
		scored = append(scored, scoredNode{node: node, score: similarity})
	}

	sort.Slice(scored, func(i, j int) bool {
		if scored[i].score != scored[j].score {
			return scored[i].score > scored[j].score
		}
		return scored[i].node.ID < scored[j].node.ID
	})

	if len(scored) > e.maxResults {
		scored = scored[:e.maxResults]
	}
	nodes := make([]*graph.Node, len(scored))
	for i, s := range scored {
		nodes[i] = s.node
	}
	return nodes
}

// rankByKeyword is the fallback when vector ranking finds nothing: a
// full-text match over node names and synthesized text, still subject to
// filters and the result cap.
func (e *Engine) rankByKeyword(ctx context.Context, req Request) []*graph.Node {
	ids := e.keyword.Search(ctx, req.Text, e.maxResults)

	var nodes []*graph.Node
	for _, id := range ids {
		node, ok := e.store.NodeByID(id)
		if !ok || !req.Filters.allows(node) {
			continue
		}
		nodes = append(nodes, node)
	}
	return nodes
}

// relevanceScore combines mean node importance with result-type diversity:
// (mean(importance) + distinct_types/result_count) / 2. This rewards both
// intrinsically important nodes and a diverse result set.
func relevanceScore(nodes []*graph.Node) float64 {
	if len(nodes) == 0 {
		return 0
	}

	importances := make([]float64, len(nodes))
	types := make(map[graph.NodeType]struct{})
	for i, node := range nodes {
		importances[i] = node.Importance
		types[node.Type] = struct{}{}
	}

	diversity := float64(len(types)) / float64(len(nodes))
	return (stat.Mean(importances, nil) + diversity) / 2
}

// =============================================================================
// Suggestions
// =============================================================================

// suggestions assembles advisory follow-ups: broadening hints for empty
// results, category hints for trigger words, and related concepts whose
// keywords overlap a result node's name.
func (e *Engine) suggestions(req Request, nodes []*graph.Node) []string {
	var out []string
	seen := make(map[string]struct{})
	add := func(s string) {
		if _, dup := seen[s]; dup {
			return
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}

	if len(nodes) == 0 {
		add("Try broadening your query terms")
		add("Check the spelling of identifiers in the query")
	}

	lowered := strings.ToLower(req.Text)
	if strings.Contains(lowered, "function") || strings.Contains(lowered, "method") {
		add(`Filter by node type "function" to narrow results`)
	}
	if strings.Contains(lowered, "class") || strings.Contains(lowered, "component") {
		add(`Filter by node type "class" to narrow results`)
	}
	if strings.Contains(lowered, "pattern") {
		add("Explore detected design-pattern concepts for this codebase")
	}

	for _, suggestion := range e.conceptSuggestions(nodes) {
		add(suggestion)
	}
	return out
}

// conceptSuggestions surfaces related concepts of any concept whose keyword
// set overlaps a result node's name.
func (e *Engine) conceptSuggestions(nodes []*graph.Node) []string {
	var out []string
	for _, concept := range e.store.Concepts() {
		if !conceptMatches(concept, nodes) {
			continue
		}
		for _, related := range concept.RelatedConcepts {
			out = append(out, "Related concept: "+related)
		}
	}
	return out
}

func conceptMatches(concept *graph.Concept, nodes []*graph.Node) bool {
	for _, keyword := range concept.Keywords {
		for _, node := range nodes {
			if strings.Contains(strings.ToLower(node.Name), keyword) {
				return true
			}
		}
	}
	return false
}
