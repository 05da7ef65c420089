// Package query executes structured semantic queries against a completed
// knowledge graph: vector ranking with a keyword fallback, hard filters,
// relevance scoring, suggestions, and derived insights.
package query

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/adalundhe/codegraph/core/graph"
	"github.com/adalundhe/codegraph/core/insights"
)

// Filters are hard excludes applied before ranking caps.
type Filters struct {
	// NodeTypes restricts results to the listed types when non-empty.
	NodeTypes []graph.NodeType `json:"node_types,omitempty"`

	// FilePaths restricts results to nodes whose source location starts
	// with any of the listed prefixes when non-empty.
	FilePaths []string `json:"file_paths,omitempty"`
}

// Request is one semantic query.
type Request struct {
	Text    string   `json:"text"`
	Intent  string   `json:"intent,omitempty"`
	Filters *Filters `json:"filters,omitempty"`
}

// Result is the ranked answer to a Request. Identical requests against an
// unchanged graph produce identical results.
type Result struct {
	Nodes          []*graph.Node         `json:"nodes"`
	Relationships  []*graph.Relationship `json:"relationships"`
	RelevanceScore float64               `json:"relevance_score"`
	Suggestions    []string              `json:"suggestions,omitempty"`
	Insights       []insights.Insight    `json:"insights,omitempty"`
}

// cacheKey hashes the request fields that affect the result.
func (r Request) cacheKey() string {
	var b strings.Builder
	b.WriteString(r.Text)
	b.WriteByte('\n')
	b.WriteString(r.Intent)
	if r.Filters != nil {
		for _, nt := range r.Filters.NodeTypes {
			b.WriteByte('\n')
			b.WriteString(nt.String())
		}
		for _, p := range r.Filters.FilePaths {
			b.WriteByte('\n')
			b.WriteString(p)
		}
	}
	hash := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(hash[:])
}

// allows reports whether a node passes the filters.
func (f *Filters) allows(node *graph.Node) bool {
	if f == nil {
		return true
	}
	if len(f.NodeTypes) > 0 && !containsType(f.NodeTypes, node.Type) {
		return false
	}
	if len(f.FilePaths) > 0 && !matchesPath(f.FilePaths, node.SourceLocation) {
		return false
	}
	return true
}

func containsType(types []graph.NodeType, nt graph.NodeType) bool {
	for _, t := range types {
		if t == nt {
			return true
		}
	}
	return false
}

func matchesPath(prefixes []string, location string) bool {
	for _, prefix := range prefixes {
		if strings.HasPrefix(location, prefix) {
			return true
		}
	}
	return false
}
