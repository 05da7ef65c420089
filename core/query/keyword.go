package query

import (
	"context"

	"github.com/blevesearch/bleve/v2"

	"github.com/adalundhe/codegraph/core/graph"
	"github.com/adalundhe/codegraph/core/vectorize"
)

// keywordDocument is what gets indexed per node for the keyword fallback.
type keywordDocument struct {
	Name string `json:"name"`
	Text string `json:"text"`
	Type string `json:"type"`
}

// KeywordIndex is an in-memory full-text index over node names and their
// synthesized vector text. It backs the fallback path when vector ranking
// finds nothing.
type KeywordIndex struct {
	index bleve.Index
}

// NewKeywordIndex builds an in-memory index over the given nodes. Indexing
// failures for individual nodes are skipped; the index is best-effort.
func NewKeywordIndex(nodes []*graph.Node) (*KeywordIndex, error) {
	index, err := bleve.NewMemOnly(bleve.NewIndexMapping())
	if err != nil {
		return nil, err
	}

	batch := index.NewBatch()
	for _, node := range nodes {
		doc := keywordDocument{
			Name: node.Name,
			Text: vectorize.NodeText(node),
			Type: node.Type.String(),
		}
		if err := batch.Index(node.ID, doc); err != nil {
			continue
		}
	}
	if err := index.Batch(batch); err != nil {
		index.Close()
		return nil, err
	}
	return &KeywordIndex{index: index}, nil
}

// Search returns node ids matching the query text, best first. Failures
// degrade to an empty result.
func (ki *KeywordIndex) Search(ctx context.Context, text string, limit int) []string {
	if ki == nil || ki.index == nil || text == "" {
		return nil
	}
	if limit <= 0 {
		limit = 10
	}

	match := bleve.NewMatchQuery(text)
	req := bleve.NewSearchRequestOptions(match, limit, 0, false)

	result, err := ki.index.SearchInContext(ctx, req)
	if err != nil {
		return nil
	}

	ids := make([]string, 0, len(result.Hits))
	for _, hit := range result.Hits {
		ids = append(ids, hit.ID)
	}
	return ids
}

// Close releases the index.
func (ki *KeywordIndex) Close() {
	if ki != nil && ki.index != nil {
		ki.index.Close()
	}
}
