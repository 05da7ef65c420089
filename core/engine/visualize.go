package engine

import (
	"github.com/adalundhe/codegraph/core/graph"
)

// VisualNode is a render-ready node for an external drawing collaborator.
type VisualNode struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Type  string `json:"type"`
	Size  int    `json:"size"`
	Color string `json:"color"`
}

// VisualEdge is a render-ready edge.
type VisualEdge struct {
	ID     string  `json:"id"`
	Source string  `json:"source"`
	Target string  `json:"target"`
	Label  string  `json:"label"`
	Weight float64 `json:"weight"`
}

// Visualization is the full render-ready graph.
type Visualization struct {
	Nodes []VisualNode `json:"nodes"`
	Edges []VisualEdge `json:"edges"`
}

// nodeColors maps node types to fixed display colors, so renderings are
// deterministic for a given graph.
var nodeColors = map[graph.NodeType]string{
	graph.NodeTypeFile:      "#4C78A8",
	graph.NodeTypeFunction:  "#54A24B",
	graph.NodeTypeClass:     "#E45756",
	graph.NodeTypeInterface: "#F58518",
	graph.NodeTypeVariable:  "#B279A2",
	graph.NodeTypeModule:    "#72B7B2",
	graph.NodeTypeConcept:   "#EECA3B",
}

const (
	minNodeSize = 10
	maxNodeSize = 40
)

// Visualize returns the published graph in a render-ready shape. Node size
// scales with importance; color is fixed per node type.
func (e *Engine) Visualize() (*Visualization, error) {
	current := e.current.Load()
	if current == nil {
		return nil, ErrGraphNotBuilt
	}

	nodes := current.store.Nodes()
	relationships := current.store.Relationships()

	vis := &Visualization{
		Nodes: make([]VisualNode, 0, len(nodes)),
		Edges: make([]VisualEdge, 0, len(relationships)),
	}

	for _, node := range nodes {
		vis.Nodes = append(vis.Nodes, VisualNode{
			ID:    node.ID,
			Label: node.Name,
			Type:  node.Type.String(),
			Size:  nodeSize(node.Importance),
			Color: nodeColor(node.Type),
		})
	}
	for _, rel := range relationships {
		vis.Edges = append(vis.Edges, VisualEdge{
			ID:     rel.ID,
			Source: rel.FromNodeID,
			Target: rel.ToNodeID,
			Label:  rel.Type.String(),
			Weight: rel.Weight,
		})
	}
	return vis, nil
}

func nodeSize(importance float64) int {
	return minNodeSize + int(importance*float64(maxNodeSize-minNodeSize))
}

func nodeColor(nt graph.NodeType) string {
	if color, ok := nodeColors[nt]; ok {
		return color
	}
	return "#999999"
}
