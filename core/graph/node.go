package graph

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Node is a typed entity in the knowledge graph.
//
// The id is a stable hash of (type, identifier), never a sequence counter, so
// re-inserting the same entity collapses onto the existing node.
type Node struct {
	ID             string           `json:"id"`
	Type           NodeType         `json:"type"`
	Name           string           `json:"name"`
	SourceLocation string           `json:"source_location,omitempty"`
	Metadata       map[string]Value `json:"metadata,omitempty"`
	Attributes     map[string]Value `json:"attributes,omitempty"`
	SemanticVector []float32        `json:"semantic_vector,omitempty"`
	Importance     float64          `json:"importance"`
	LastUpdated    time.Time        `json:"last_updated"`
}

// NodeID computes the deterministic id for a (type, identifier) pair.
// The identifier is whatever uniquely names the entity within its type:
// the relative path for files, "path:name" for declarations, the module
// specifier for modules.
func NodeID(nt NodeType, identifier string) string {
	hash := sha256.Sum256([]byte(nt.String() + ":" + identifier))
	return hex.EncodeToString(hash[:16])
}

// NewNode creates a node with its content-addressed id and clamped importance.
func NewNode(nt NodeType, identifier, name string) *Node {
	return &Node{
		ID:          NodeID(nt, identifier),
		Type:        nt,
		Name:        name,
		Metadata:    make(map[string]Value),
		Attributes:  make(map[string]Value),
		Importance:  0.5,
		LastUpdated: time.Now(),
	}
}

// SetImportance assigns importance clamped to [0, 1].
func (n *Node) SetImportance(importance float64) {
	n.Importance = clamp01(importance)
}

// MetaNumber reads a numeric metadata field, returning 0 when absent.
func (n *Node) MetaNumber(key string) float64 {
	return n.Metadata[key].AsNumber()
}

// AttrString reads a string attribute, returning "" when absent.
func (n *Node) AttrString(key string) string {
	return n.Attributes[key].AsString()
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
