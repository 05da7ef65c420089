// Package relate turns extractor output into typed, deduplicated graph edges
// and discovers similarity edges by pairwise vector comparison.
package relate

import (
	"context"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/adalundhe/codegraph/core/extract"
	"github.com/adalundhe/codegraph/core/graph"
)

// Edge weight/confidence constants. part_of weight is fixed by contract; the
// rest reflect how trustworthy each lexical signal is, with the approximate
// call pass lowest.
const (
	partOfWeight     = 0.9
	partOfConfidence = 0.95

	dependsOnWeight     = 0.8
	dependsOnConfidence = 0.9

	extendsWeight     = 0.85
	extendsConfidence = 0.9

	callsWeight     = 0.6
	callsConfidence = 0.5
)

// Builder assembles nodes and edges from extraction results into a Store.
type Builder struct {
	store  *graph.Store
	logger *slog.Logger
}

// NewBuilder creates a Builder writing into the given store.
func NewBuilder(store *graph.Store, logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{store: store, logger: logger}
}

// =============================================================================
// Node Assembly
// =============================================================================

// AssembleNodes creates File, Function, Class, Interface, Variable, and
// Module nodes from the extraction results. Node ids are content-addressed so
// re-assembly over unchanged results is idempotent.
func (b *Builder) AssembleNodes(ctx context.Context, results []extract.FileResult) error {
	for _, result := range results {
		if err := ctx.Err(); err != nil {
			return err
		}
		b.assembleFile(result)
	}
	return nil
}

func (b *Builder) assembleFile(result extract.FileResult) {
	file := b.fileNode(result)

	for _, decl := range result.Declarations {
		b.declarationNode(file, result, decl)
	}
	for _, imp := range result.Imports {
		if !imp.IsRelative() {
			b.moduleNode(imp.Specifier)
		}
	}
}

// fileNode creates the File node with size/extension/mtime/line-count
// metadata and language/complexity attributes.
func (b *Builder) fileNode(result extract.FileResult) *graph.Node {
	node := graph.NewNode(graph.NodeTypeFile, result.File.RelPath, path.Base(result.File.RelPath))
	node.SourceLocation = result.File.RelPath
	node.Metadata["size"] = graph.IntValue(int(result.File.Size))
	node.Metadata["extension"] = graph.StringValue(result.File.Extension)
	node.Metadata["modified"] = graph.TimeValue(result.File.ModTime)
	node.Metadata["line_count"] = graph.IntValue(result.LineCount)
	node.Attributes["language"] = graph.StringValue(result.Language)
	node.Attributes["complexity"] = graph.NumberValue(result.Complexity)
	node.SetImportance(0.6)

	stored, _ := b.store.AddNode(node)
	return stored
}

func (b *Builder) declarationNode(file *graph.Node, result extract.FileResult, decl extract.Declaration) {
	nt, importance := declKindToNodeType(decl.Kind)
	identifier := result.File.RelPath + ":" + decl.Name

	node := graph.NewNode(nt, identifier, decl.Name)
	node.SourceLocation = result.File.RelPath
	node.Metadata["line"] = graph.IntValue(decl.Line)
	node.Metadata["line_count"] = graph.IntValue(result.LineCount)
	node.Attributes["language"] = graph.StringValue(result.Language)
	node.SetImportance(importance)

	if nt == graph.NodeTypeFunction {
		node.Metadata["complexity"] = graph.NumberValue(result.Complexity)
	}
	if decl.Extends != "" {
		node.Attributes["extends"] = graph.StringValue(decl.Extends)
	}
	if decl.Singleton {
		node.Attributes["singleton"] = graph.BoolValue(true)
	}

	stored, err := b.store.AddNode(node)
	if err != nil {
		b.logger.Warn("skipping entity", "name", decl.Name, "file", result.File.RelPath, "error", err)
		return
	}

	rel := graph.NewRelationship(stored.ID, graph.RelationPartOf, file.ID, partOfWeight, partOfConfidence)
	b.store.AddRelationship(rel)
}

// moduleNode creates the Module node for a non-relative dependency. Content
// addressing memoizes it: every reference to the same specifier collapses
// onto one node.
func (b *Builder) moduleNode(specifier string) *graph.Node {
	node := graph.NewNode(graph.NodeTypeModule, specifier, moduleName(specifier))
	node.Attributes["specifier"] = graph.StringValue(specifier)
	node.SetImportance(0.4)
	stored, _ := b.store.AddNode(node)
	return stored
}

func declKindToNodeType(kind extract.DeclKind) (graph.NodeType, float64) {
	switch kind {
	case extract.DeclClass:
		return graph.NodeTypeClass, 0.7
	case extract.DeclInterface:
		return graph.NodeTypeInterface, 0.65
	case extract.DeclVariable:
		return graph.NodeTypeVariable, 0.3
	default:
		return graph.NodeTypeFunction, 0.5
	}
}

// moduleName keeps the last path segment as the display name.
func moduleName(specifier string) string {
	if idx := strings.LastIndex(specifier, "/"); idx >= 0 && idx < len(specifier)-1 {
		return specifier[idx+1:]
	}
	return specifier
}

// =============================================================================
// Structural Edges
// =============================================================================

// BuildStructural creates depends_on, extends, and calls edges from the raw
// dependency and usage records. All edges are deduplicated by their
// (from, type, to) key at the store level.
func (b *Builder) BuildStructural(ctx context.Context, results []extract.FileResult) error {
	for _, result := range results {
		if err := ctx.Err(); err != nil {
			return err
		}
		b.dependencyEdges(result)
		b.extendsEdges(result)
		b.callEdges(result)
	}
	return nil
}

// dependencyEdges resolves imports. Relative references become edges to File
// nodes (created as stubs if not yet discovered); everything else points at a
// memoized Module node.
func (b *Builder) dependencyEdges(result extract.FileResult) {
	fromID := graph.NodeID(graph.NodeTypeFile, result.File.RelPath)

	for _, imp := range result.Imports {
		var toID string
		if imp.IsRelative() {
			target := b.resolveRelative(result.File, imp.Specifier)
			if target == "" {
				continue
			}
			toID = b.ensureFileStub(target)
		} else {
			toID = b.moduleNode(imp.Specifier).ID
		}

		rel := graph.NewRelationship(fromID, graph.RelationDependsOn, toID, dependsOnWeight, dependsOnConfidence)
		b.store.AddRelationship(rel)
	}
}

// resolveRelative resolves a relative specifier against the importing file's
// directory, trying the bare path, the importer's extension, and an index
// file in turn. Falls back to the importer-extension candidate so the edge
// can target a file discovered later.
func (b *Builder) resolveRelative(file extract.FileInfo, specifier string) string {
	dir := path.Dir(file.RelPath)
	resolved := path.Clean(path.Join(dir, specifier))
	if resolved == "" || strings.HasPrefix(resolved, "..") {
		return ""
	}

	if path.Ext(resolved) != "" {
		return resolved
	}

	candidates := []string{
		resolved + file.Extension,
		resolved + "/index" + file.Extension,
	}
	for _, candidate := range candidates {
		if _, ok := b.store.NodeByID(graph.NodeID(graph.NodeTypeFile, candidate)); ok {
			return candidate
		}
	}
	return candidates[0]
}

// ensureFileStub returns the id of the File node for relPath, creating a
// minimal node when the file was not discovered.
func (b *Builder) ensureFileStub(relPath string) string {
	id := graph.NodeID(graph.NodeTypeFile, relPath)
	if _, ok := b.store.NodeByID(id); ok {
		return id
	}

	node := graph.NewNode(graph.NodeTypeFile, relPath, path.Base(relPath))
	node.SourceLocation = relPath
	node.SetImportance(0.4)
	node.LastUpdated = time.Now()
	stored, _ := b.store.AddNode(node)
	return stored.ID
}

// extendsEdges links classes to same-named superclass nodes when one exists.
func (b *Builder) extendsEdges(result extract.FileResult) {
	for _, decl := range result.Declarations {
		if decl.Kind != extract.DeclClass || decl.Extends == "" {
			continue
		}

		fromID := graph.NodeID(graph.NodeTypeClass, result.File.RelPath+":"+decl.Name)
		for _, target := range b.store.NodesByName(decl.Extends) {
			if target.Type != graph.NodeTypeClass && target.Type != graph.NodeTypeInterface {
				continue
			}
			rel := graph.NewRelationship(fromID, graph.RelationExtends, target.ID, extendsWeight, extendsConfidence)
			b.store.AddRelationship(rel)
		}
	}
}

// callEdges links files to Function nodes matching referenced identifiers by
// name. This is intentionally approximate: it may over-link same-named
// functions across files. Calls to functions declared in the same file are
// skipped because the declaration itself matches the call pattern.
func (b *Builder) callEdges(result extract.FileResult) {
	fromID := graph.NodeID(graph.NodeTypeFile, result.File.RelPath)

	for _, callee := range result.Calls {
		for _, target := range b.store.NodesByName(callee) {
			if target.Type != graph.NodeTypeFunction {
				continue
			}
			if target.SourceLocation == result.File.RelPath {
				continue
			}
			rel := graph.NewRelationship(fromID, graph.RelationCalls, target.ID, callsWeight, callsConfidence)
			b.store.AddRelationship(rel)
		}
	}
}
