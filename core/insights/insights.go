// Package insights analyzes a query's result subgraph for connectivity hubs,
// dependency cycles, and orphaned nodes.
//
// Every analyzer takes (nodes, relationships) as pure input with no hidden
// state, so results are reproducible for a fixed query result.
package insights

import (
	"fmt"
	"sort"

	"github.com/adalundhe/codegraph/core/graph"
)

// Analysis thresholds.
const (
	hubConnectionThreshold = 5
	hubMaxConfidence       = 0.9
	maxReportedCycles      = 10
)

// =============================================================================
// Insight Type
// =============================================================================

// InsightType classifies a derived observation.
type InsightType int

const (
	// InsightConnectivity flags highly connected components.
	InsightConnectivity InsightType = 0

	// InsightCycle flags circular dependency chains.
	InsightCycle InsightType = 1

	// InsightIsolation flags nodes with no relationships.
	InsightIsolation InsightType = 2
)

// String returns the string representation of the InsightType.
func (it InsightType) String() string {
	switch it {
	case InsightConnectivity:
		return "connectivity"
	case InsightCycle:
		return "cycle"
	case InsightIsolation:
		return "isolation"
	default:
		return fmt.Sprintf("insight_type(%d)", it)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (it InsightType) MarshalText() ([]byte, error) {
	return []byte(it.String()), nil
}

// Insight is a derived observation over a result subgraph.
type Insight struct {
	Type        InsightType `json:"type"`
	Description string      `json:"description"`
	NodeIDs     []string    `json:"node_ids"`
	Confidence  float64     `json:"confidence"`
	Suggestion  string      `json:"suggestion,omitempty"`
}

// =============================================================================
// Analysis
// =============================================================================

// Analyze runs all insight detectors over the given subgraph.
func Analyze(nodes []*graph.Node, relationships []*graph.Relationship) []Insight {
	var out []Insight
	out = append(out, detectHubs(nodes, relationships)...)
	out = append(out, detectCycles(nodes, relationships)...)
	out = append(out, detectIsolated(nodes, relationships)...)
	return out
}

// incidentCounts counts relationships touching each node id.
func incidentCounts(relationships []*graph.Relationship) map[string]int {
	counts := make(map[string]int)
	for _, rel := range relationships {
		counts[rel.FromNodeID]++
		counts[rel.ToNodeID]++
	}
	return counts
}

// detectHubs reports nodes whose incident relationship count exceeds the hub
// threshold. Confidence grows with the count, capped at 0.9.
func detectHubs(nodes []*graph.Node, relationships []*graph.Relationship) []Insight {
	counts := incidentCounts(relationships)

	var out []Insight
	for _, node := range sortedByID(nodes) {
		count := counts[node.ID]
		if count <= hubConnectionThreshold {
			continue
		}

		confidence := float64(count) / 20
		if confidence > hubMaxConfidence {
			confidence = hubMaxConfidence
		}
		out = append(out, Insight{
			Type:        InsightConnectivity,
			Description: fmt.Sprintf("%q is a highly connected component (%d relationships)", node.Name, count),
			NodeIDs:     []string{node.ID},
			Confidence:  confidence,
			Suggestion:  "Review this component for single-responsibility violations",
		})
	}
	return out
}

// detectIsolated reports result nodes with zero incident relationships.
func detectIsolated(nodes []*graph.Node, relationships []*graph.Relationship) []Insight {
	counts := incidentCounts(relationships)

	var out []Insight
	for _, node := range sortedByID(nodes) {
		if counts[node.ID] != 0 {
			continue
		}
		out = append(out, Insight{
			Type:        InsightIsolation,
			Description: fmt.Sprintf("%q is an isolated component with no relationships", node.Name),
			NodeIDs:     []string{node.ID},
			Confidence:  0.8,
			Suggestion:  "Consider whether this component is still needed",
		})
	}
	return out
}

// =============================================================================
// Cycle Detection
// =============================================================================

// detectCycles finds circular chains by depth-first traversal restricted to
// the edges present in the subgraph. Any back-edge into the active recursion
// path yields a reported cycle, capped at maxReportedCycles.
func detectCycles(nodes []*graph.Node, relationships []*graph.Relationship) []Insight {
	present := make(map[string]bool, len(nodes))
	for _, node := range nodes {
		present[node.ID] = true
	}

	adjacency := make(map[string][]string)
	for _, rel := range relationships {
		if present[rel.FromNodeID] && present[rel.ToNodeID] {
			adjacency[rel.FromNodeID] = append(adjacency[rel.FromNodeID], rel.ToNodeID)
		}
	}
	for id := range adjacency {
		sort.Strings(adjacency[id])
	}

	finder := &cycleFinder{
		adjacency: adjacency,
		visited:   make(map[string]bool),
		onPath:    make(map[string]bool),
	}
	for _, node := range sortedByID(nodes) {
		if len(finder.cycles) >= maxReportedCycles {
			break
		}
		if !finder.visited[node.ID] {
			finder.walk(node.ID)
		}
	}

	out := make([]Insight, 0, len(finder.cycles))
	for _, cycle := range finder.cycles {
		out = append(out, Insight{
			Type:        InsightCycle,
			Description: fmt.Sprintf("Circular dependency through %d nodes", len(cycle)),
			NodeIDs:     cycle,
			Confidence:  0.9,
			Suggestion:  "Break the cycle by extracting a shared abstraction",
		})
	}
	return out
}

type cycleFinder struct {
	adjacency map[string][]string
	visited   map[string]bool
	onPath    map[string]bool
	path      []string
	cycles    [][]string
}

// walk explores from id, recording any back-edge into the active path as the
// node sequence starting at the first repeated node.
func (f *cycleFinder) walk(id string) {
	if len(f.cycles) >= maxReportedCycles {
		return
	}

	f.visited[id] = true
	f.onPath[id] = true
	f.path = append(f.path, id)

	for _, next := range f.adjacency[id] {
		if f.onPath[next] {
			f.recordCycle(next)
			continue
		}
		if !f.visited[next] {
			f.walk(next)
		}
	}

	f.path = f.path[:len(f.path)-1]
	f.onPath[id] = false
}

func (f *cycleFinder) recordCycle(start string) {
	if len(f.cycles) >= maxReportedCycles {
		return
	}
	for i, id := range f.path {
		if id == start {
			cycle := make([]string, len(f.path)-i)
			copy(cycle, f.path[i:])
			f.cycles = append(f.cycles, cycle)
			return
		}
	}
}

func sortedByID(nodes []*graph.Node) []*graph.Node {
	out := make([]*graph.Node, len(nodes))
	copy(out, nodes)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
