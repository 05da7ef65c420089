package engine

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/adalundhe/codegraph/core/events"
	"github.com/adalundhe/codegraph/core/graph"
	"github.com/adalundhe/codegraph/core/query"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSubscriber struct {
	id     string
	types  []events.EventType
	events []*events.Event
}

func (s *recordingSubscriber) ID() string                     { return s.id }
func (s *recordingSubscriber) EventTypes() []events.EventType { return s.types }
func (s *recordingSubscriber) OnEvent(event *events.Event) error {
	s.events = append(s.events, event)
	return nil
}

// twoFileProject writes the smallest interesting codebase: a.js exports foo,
// b.js imports a and calls foo.
func twoFileProject(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	write := func(name, content string) {
		require.NoError(t, os.WriteFile(filepath.Join(root, name), []byte(content), 0o644))
	}
	write("a.js", "export function foo() {\n  return 1;\n}\n")
	write("b.js", "import { foo } from './a';\nfoo();\n")
	return root
}

func builtEngine(t *testing.T) *Engine {
	t.Helper()
	e := New(nil)
	t.Cleanup(e.Close)
	require.NoError(t, e.BuildGraph(context.Background(), twoFileProject(t)))
	return e
}

func TestEngine_NotBuilt(t *testing.T) {
	e := New(nil)
	defer e.Close()

	_, err := e.Query(context.Background(), query.Request{Text: "foo"})
	assert.ErrorIs(t, err, ErrGraphNotBuilt)

	_, err = e.Export()
	assert.ErrorIs(t, err, ErrGraphNotBuilt)

	_, err = e.Visualize()
	assert.ErrorIs(t, err, ErrGraphNotBuilt)

	_, err = e.Stats()
	assert.ErrorIs(t, err, ErrGraphNotBuilt)
}

func TestEngine_BuildGraph(t *testing.T) {
	e := builtEngine(t)

	stats, err := e.Stats()
	require.NoError(t, err)

	assert.Equal(t, 3, stats.NodeCount)
	assert.Equal(t, map[string]int{"file": 2, "function": 1}, stats.NodeTypeDistribution)

	// foo belongs to a, b depends on a, b calls foo, the two file nodes sit
	// at cosine 1 of each other.
	assert.Equal(t, map[string]int{
		"part_of":    1,
		"depends_on": 1,
		"calls":      1,
		"similar_to": 1,
	}, stats.RelationshipTypeDistribution)

	assert.Zero(t, stats.ConceptCount)
	assert.InDelta(t, (0.6+0.6+0.5)/3, stats.MeanImportance, 1e-9)
}

func TestEngine_Query(t *testing.T) {
	e := builtEngine(t)

	result, err := e.Query(context.Background(), query.Request{Text: "foo function"})
	require.NoError(t, err)

	require.Len(t, result.Nodes, 1)
	assert.Equal(t, "foo", result.Nodes[0].Name)
	assert.Equal(t, graph.NodeTypeFunction, result.Nodes[0].Type)
	assert.Len(t, result.Relationships, 2, "the part_of and calls edges touch foo")
	assert.Greater(t, result.RelevanceScore, 0.0)
}

func TestEngine_QueryNoOverlap(t *testing.T) {
	e := builtEngine(t)

	result, err := e.Query(context.Background(), query.Request{Text: "zzz_no_such_token"})
	require.NoError(t, err)

	assert.Empty(t, result.Nodes)
	assert.NotEmpty(t, result.Suggestions)
}

func TestEngine_Events(t *testing.T) {
	sub := &recordingSubscriber{id: "test"}
	e := New(nil)
	defer e.Close()
	e.Bus().Subscribe(sub)

	require.NoError(t, e.BuildGraph(context.Background(), twoFileProject(t)))
	_, err := e.Query(context.Background(), query.Request{Text: "foo function"})
	require.NoError(t, err)

	require.Len(t, sub.events, 3)
	assert.Equal(t, events.EventTypeBuildStarted, sub.events[0].Type)

	completed := sub.events[1]
	assert.Equal(t, events.EventTypeBuildCompleted, completed.Type)
	require.NotNil(t, completed.Build)
	assert.Equal(t, 3, completed.Build.NodeCount)
	assert.Equal(t, 4, completed.Build.RelationshipCount)
	assert.Zero(t, completed.Build.ConceptCount)

	executed := sub.events[2]
	assert.Equal(t, events.EventTypeQueryExecuted, executed.Type)
	require.NotNil(t, executed.Query)
	assert.Equal(t, "foo function", executed.Query.QueryText)
	assert.Equal(t, 1, executed.Query.ResultCount)
}

func TestEngine_RebuildIsDeterministic(t *testing.T) {
	root := twoFileProject(t)
	e := New(nil)
	defer e.Close()

	ctx := context.Background()
	require.NoError(t, e.BuildGraph(ctx, root))
	first, err := e.Stats()
	require.NoError(t, err)

	require.NoError(t, e.BuildGraph(ctx, root))
	second, err := e.Stats()
	require.NoError(t, err)

	assert.Equal(t, first.NodeCount, second.NodeCount)
	assert.Equal(t, first.RelationshipTypeDistribution, second.RelationshipTypeDistribution)
	assert.Equal(t, first.ConceptCount, second.ConceptCount)
}

func TestEngine_Export(t *testing.T) {
	e := builtEngine(t)

	snapshot, err := e.Export()
	require.NoError(t, err)

	assert.Len(t, snapshot.Nodes, 3)
	assert.Len(t, snapshot.Relationships, 4)
	assert.Empty(t, snapshot.Concepts)
	assert.Equal(t, SnapshotVersion, snapshot.Metadata.Version)
	assert.False(t, snapshot.Metadata.ExportDate.IsZero())
}

func TestEngine_Visualize(t *testing.T) {
	e := builtEngine(t)

	vis, err := e.Visualize()
	require.NoError(t, err)

	require.Len(t, vis.Nodes, 3)
	require.Len(t, vis.Edges, 4)

	byLabel := make(map[string]VisualNode)
	for _, node := range vis.Nodes {
		byLabel[node.Label] = node
	}

	file := byLabel["a.js"]
	assert.Equal(t, "file", file.Type)
	assert.Equal(t, "#4C78A8", file.Color)
	assert.Equal(t, 28, file.Size)

	fn := byLabel["foo"]
	assert.Equal(t, "function", fn.Type)
	assert.Equal(t, "#54A24B", fn.Color)
	assert.Equal(t, 25, fn.Size)
}

func TestEngine_BuildInvalidRoot(t *testing.T) {
	e := New(nil)
	defer e.Close()

	err := e.BuildGraph(context.Background(), "/does/not/exist")
	assert.Error(t, err)

	_, err = e.Stats()
	assert.ErrorIs(t, err, ErrGraphNotBuilt, "failed build publishes nothing")
}

func TestEngine_BuildCancelled(t *testing.T) {
	e := New(nil)
	defer e.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := e.BuildGraph(ctx, twoFileProject(t))
	assert.ErrorIs(t, err, context.Canceled)
}
