package graph

// Relationship is a typed, weighted edge between two nodes.
//
// The id is the composite key (from, type, to); inserting the same key twice
// is a no-op at the store level.
type Relationship struct {
	ID            string       `json:"id"`
	FromNodeID    string       `json:"from_node_id"`
	ToNodeID      string       `json:"to_node_id"`
	Type          RelationType `json:"type"`
	Weight        float64      `json:"weight"`
	Confidence    float64      `json:"confidence"`
	Bidirectional bool         `json:"bidirectional"`
}

// RelationshipID computes the composite key for a (from, type, to) triple.
func RelationshipID(fromID string, rt RelationType, toID string) string {
	return fromID + ":" + rt.String() + ":" + toID
}

// NewRelationship creates an edge with its composite id and clamped
// weight/confidence.
func NewRelationship(fromID string, rt RelationType, toID string, weight, confidence float64) *Relationship {
	return &Relationship{
		ID:         RelationshipID(fromID, rt, toID),
		FromNodeID: fromID,
		ToNodeID:   toID,
		Type:       rt,
		Weight:     clamp01(weight),
		Confidence: clamp01(confidence),
	}
}

// Touches reports whether the edge is incident to the given node id.
func (r *Relationship) Touches(nodeID string) bool {
	return r.FromNodeID == nodeID || r.ToNodeID == nodeID
}
