package query

import (
	"context"
	"testing"

	"github.com/adalundhe/codegraph/core/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeywordIndex_Search(t *testing.T) {
	gateway := graph.NewNode(graph.NodeTypeFunction, "lib/gateway.py:gateway", "gateway")
	gateway.SourceLocation = "lib/gateway.py"
	parser := graph.NewNode(graph.NodeTypeFunction, "lib/parser.py:parser", "parser")
	parser.SourceLocation = "lib/parser.py"

	index, err := NewKeywordIndex([]*graph.Node{gateway, parser})
	require.NoError(t, err)
	defer index.Close()

	ids := index.Search(context.Background(), "gateway", 10)
	require.Len(t, ids, 1)
	assert.Equal(t, gateway.ID, ids[0])

	assert.Empty(t, index.Search(context.Background(), "nonexistent", 10))
}

func TestKeywordIndex_EmptyQuery(t *testing.T) {
	index, err := NewKeywordIndex(nil)
	require.NoError(t, err)
	defer index.Close()

	assert.Empty(t, index.Search(context.Background(), "", 10))
}

func TestKeywordIndex_NilReceiver(t *testing.T) {
	var index *KeywordIndex
	assert.Empty(t, index.Search(context.Background(), "anything", 10))
	index.Close()
}
