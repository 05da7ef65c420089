package relate

import (
	"context"
	"testing"
	"time"

	"github.com/adalundhe/codegraph/core/extract"
	"github.com/adalundhe/codegraph/core/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fileResult(relPath, language string) extract.FileResult {
	return extract.FileResult{
		File: extract.FileInfo{
			Path:      "/src/" + relPath,
			RelPath:   relPath,
			Size:      100,
			ModTime:   time.Now(),
			Extension: ".js",
		},
		Language:  language,
		LineCount: 10,
	}
}

func TestBuilder_AssembleNodes(t *testing.T) {
	store := graph.NewStore()
	builder := NewBuilder(store, nil)

	result := fileResult("src/user.js", "javascript")
	result.Complexity = 0.2
	result.Declarations = []extract.Declaration{
		{Kind: extract.DeclFunction, Name: "createUser", Line: 3},
		{Kind: extract.DeclClass, Name: "UserService", Line: 10, Extends: "BaseService"},
		{Kind: extract.DeclVariable, Name: "retries", Line: 1},
	}
	result.Imports = []extract.Import{
		{Specifier: "react", Line: 1},
		{Specifier: "./helpers", Line: 2},
	}

	require.NoError(t, builder.AssembleNodes(context.Background(), []extract.FileResult{result}))

	// file + 3 declarations + 1 external module; the relative import only
	// becomes a node during the structural edge pass.
	assert.Equal(t, 5, store.NodeCount())

	file, ok := store.NodeByID(graph.NodeID(graph.NodeTypeFile, "src/user.js"))
	require.True(t, ok)
	assert.Equal(t, "user.js", file.Name)
	assert.Equal(t, 0.6, file.Importance)
	assert.Equal(t, "javascript", file.AttrString("language"))
	assert.Equal(t, float64(10), file.MetaNumber("line_count"))

	fn, ok := store.NodeByID(graph.NodeID(graph.NodeTypeFunction, "src/user.js:createUser"))
	require.True(t, ok)
	assert.Equal(t, 0.5, fn.Importance)
	assert.Equal(t, "src/user.js", fn.SourceLocation)

	class, ok := store.NodeByID(graph.NodeID(graph.NodeTypeClass, "src/user.js:UserService"))
	require.True(t, ok)
	assert.Equal(t, 0.7, class.Importance)
	assert.Equal(t, "BaseService", class.AttrString("extends"))

	variable, ok := store.NodeByID(graph.NodeID(graph.NodeTypeVariable, "src/user.js:retries"))
	require.True(t, ok)
	assert.Equal(t, 0.3, variable.Importance)

	module, ok := store.NodeByID(graph.NodeID(graph.NodeTypeModule, "react"))
	require.True(t, ok)
	assert.Equal(t, 0.4, module.Importance)

	// Every declaration hangs off its file.
	assert.Equal(t, map[string]int{"part_of": 3}, store.RelationshipTypeDistribution())
}

func TestBuilder_ModuleNodeMemoized(t *testing.T) {
	store := graph.NewStore()
	builder := NewBuilder(store, nil)

	a := fileResult("a.js", "javascript")
	a.Imports = []extract.Import{{Specifier: "react", Line: 1}}
	b := fileResult("b.js", "javascript")
	b.Imports = []extract.Import{{Specifier: "react", Line: 1}}
	results := []extract.FileResult{a, b}

	ctx := context.Background()
	require.NoError(t, builder.AssembleNodes(ctx, results))
	require.NoError(t, builder.BuildStructural(ctx, results))

	assert.Len(t, store.NodesByType(graph.NodeTypeModule), 1)
	assert.Equal(t, map[string]int{"depends_on": 2}, store.RelationshipTypeDistribution())
}

func TestBuilder_StructuralEdges(t *testing.T) {
	store := graph.NewStore()
	builder := NewBuilder(store, nil)

	a := fileResult("src/a.js", "javascript")
	a.Declarations = []extract.Declaration{{Kind: extract.DeclFunction, Name: "foo", Line: 1}}
	a.Calls = []string{"foo"}

	b := fileResult("src/b.js", "javascript")
	b.Imports = []extract.Import{{Specifier: "./a", Line: 1}}
	b.Calls = []string{"foo"}

	results := []extract.FileResult{a, b}
	ctx := context.Background()
	require.NoError(t, builder.AssembleNodes(ctx, results))
	require.NoError(t, builder.BuildStructural(ctx, results))

	assert.Equal(t, map[string]int{"file": 2, "function": 1}, store.NodeTypeDistribution())

	// b depends on a, b calls foo; a's own reference to foo is the
	// declaration itself and produces no edge.
	assert.Equal(t, map[string]int{
		"part_of":    1,
		"depends_on": 1,
		"calls":      1,
	}, store.RelationshipTypeDistribution())

	fooID := graph.NodeID(graph.NodeTypeFunction, "src/a.js:foo")
	touching := store.RelationshipsTouching(map[string]bool{fooID: true})
	require.Len(t, touching, 2)
}

func TestBuilder_ExtendsEdges(t *testing.T) {
	store := graph.NewStore()
	builder := NewBuilder(store, nil)

	base := fileResult("base.js", "javascript")
	base.Declarations = []extract.Declaration{{Kind: extract.DeclClass, Name: "BaseService", Line: 1}}

	child := fileResult("child.js", "javascript")
	child.Declarations = []extract.Declaration{
		{Kind: extract.DeclClass, Name: "UserService", Line: 1, Extends: "BaseService"},
	}

	results := []extract.FileResult{base, child}
	ctx := context.Background()
	require.NoError(t, builder.AssembleNodes(ctx, results))
	require.NoError(t, builder.BuildStructural(ctx, results))

	dist := store.RelationshipTypeDistribution()
	assert.Equal(t, 1, dist["extends"])
}

func TestBuilder_RelativeImportCreatesStub(t *testing.T) {
	store := graph.NewStore()
	builder := NewBuilder(store, nil)

	a := fileResult("src/a.js", "javascript")
	a.Imports = []extract.Import{{Specifier: "./missing", Line: 1}}

	results := []extract.FileResult{a}
	ctx := context.Background()
	require.NoError(t, builder.AssembleNodes(ctx, results))
	require.NoError(t, builder.BuildStructural(ctx, results))

	stub, ok := store.NodeByID(graph.NodeID(graph.NodeTypeFile, "src/missing.js"))
	require.True(t, ok, "unresolved relative import becomes a file stub")
	assert.Equal(t, 0.4, stub.Importance)
	assert.Equal(t, 1, store.RelationshipTypeDistribution()["depends_on"])
}

func TestBuilder_EscapingImportIgnored(t *testing.T) {
	store := graph.NewStore()
	builder := NewBuilder(store, nil)

	a := fileResult("a.js", "javascript")
	a.Imports = []extract.Import{{Specifier: "../../outside", Line: 1}}

	results := []extract.FileResult{a}
	ctx := context.Background()
	require.NoError(t, builder.AssembleNodes(ctx, results))
	require.NoError(t, builder.BuildStructural(ctx, results))

	assert.Equal(t, 1, store.NodeCount())
	assert.Zero(t, store.RelationshipCount())
}

func TestBuilder_Idempotent(t *testing.T) {
	store := graph.NewStore()
	builder := NewBuilder(store, nil)

	a := fileResult("a.js", "javascript")
	a.Declarations = []extract.Declaration{{Kind: extract.DeclFunction, Name: "run", Line: 1}}
	a.Imports = []extract.Import{{Specifier: "react", Line: 1}}
	results := []extract.FileResult{a}

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		require.NoError(t, builder.AssembleNodes(ctx, results))
		require.NoError(t, builder.BuildStructural(ctx, results))
	}

	assert.Equal(t, 3, store.NodeCount())
	assert.Equal(t, 2, store.RelationshipCount())
}

func TestExactPairwise(t *testing.T) {
	nodes := []*graph.Node{
		vectorNode("a", []float32{1, 0}),
		vectorNode("b", []float32{1, 0.05}),
		vectorNode("c", []float32{0, 1}),
		vectorNode("zero", []float32{0, 0}),
	}

	pairs, err := ExactPairwise{}.Pairs(context.Background(), nodes, 0.7)
	require.NoError(t, err)

	require.Len(t, pairs, 1)
	assert.Equal(t, "a", pairs[0].A.Name)
	assert.Equal(t, "b", pairs[0].B.Name)
	assert.Greater(t, pairs[0].Similarity, 0.99)
}

func TestBuildSimilarity(t *testing.T) {
	store := graph.NewStore()
	for _, node := range []*graph.Node{
		vectorNode("a", []float32{1, 0}),
		vectorNode("b", []float32{1, 0}),
		vectorNode("c", []float32{0, 1}),
	} {
		_, err := store.AddNode(node)
		require.NoError(t, err)
	}

	builder := NewBuilder(store, nil)
	require.NoError(t, builder.BuildSimilarity(context.Background(), nil, 0))

	rels := store.Relationships()
	require.Len(t, rels, 1)
	assert.Equal(t, graph.RelationSimilarTo, rels[0].Type)
	assert.True(t, rels[0].Bidirectional)
	assert.InDelta(t, 1.0, rels[0].Weight, 1e-6)
}

func vectorNode(name string, vector []float32) *graph.Node {
	node := graph.NewNode(graph.NodeTypeFunction, "src/"+name+".js:"+name, name)
	node.SourceLocation = "src/" + name + ".js"
	node.SemanticVector = vector
	return node
}
