package relate

import (
	"context"

	"github.com/adalundhe/codegraph/core/graph"
	"github.com/adalundhe/codegraph/core/vectorize"
)

// DefaultSimilarityThreshold is the cosine similarity above which two nodes
// are linked with a similar_to edge.
const DefaultSimilarityThreshold = 0.7

// SimilarPair is one discovered above-threshold pair.
type SimilarPair struct {
	A          *graph.Node
	B          *graph.Node
	Similarity float64
}

// SimilarityIndex discovers above-threshold node pairs. The exact pairwise
// implementation is O(n²) in node count; an approximate nearest-neighbor
// index can replace it behind this interface without touching callers.
type SimilarityIndex interface {
	Pairs(ctx context.Context, nodes []*graph.Node, threshold float64) ([]SimilarPair, error)
}

// ExactPairwise compares every unordered pair of vectorized nodes by cosine
// similarity. This is the scalability ceiling of the build: quadratic work,
// but exact and fully deterministic.
type ExactPairwise struct{}

// Pairs returns every unordered pair with cosine similarity above threshold.
// Nodes with zero-magnitude or missing vectors never match anything.
func (ExactPairwise) Pairs(ctx context.Context, nodes []*graph.Node, threshold float64) ([]SimilarPair, error) {
	magnitudes := make([]float64, len(nodes))
	for i, node := range nodes {
		magnitudes[i] = vectorize.Magnitude(node.SemanticVector)
	}

	var pairs []SimilarPair
	for i := 0; i < len(nodes); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if magnitudes[i] == 0 {
			continue
		}
		for j := i + 1; j < len(nodes); j++ {
			if magnitudes[j] == 0 {
				continue
			}
			similarity := vectorize.CosineSimilarity(
				nodes[i].SemanticVector, nodes[j].SemanticVector,
				magnitudes[i], magnitudes[j],
			)
			if similarity > threshold {
				pairs = append(pairs, SimilarPair{A: nodes[i], B: nodes[j], Similarity: similarity})
			}
		}
	}
	return pairs, nil
}

// BuildSimilarity discovers similarity pairs across the whole store and adds
// a bidirectional similar_to edge per pair, weighted by the similarity.
func (b *Builder) BuildSimilarity(ctx context.Context, index SimilarityIndex, threshold float64) error {
	if index == nil {
		index = ExactPairwise{}
	}
	if threshold <= 0 {
		threshold = DefaultSimilarityThreshold
	}

	pairs, err := index.Pairs(ctx, b.store.Nodes(), threshold)
	if err != nil {
		return err
	}

	for _, pair := range pairs {
		rel := graph.NewRelationship(pair.A.ID, graph.RelationSimilarTo, pair.B.ID, pair.Similarity, pair.Similarity)
		rel.Bidirectional = true
		b.store.AddRelationship(rel)
	}
	return nil
}
