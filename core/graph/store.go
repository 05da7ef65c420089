package graph

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

var (
	ErrNodeNotFound   = errors.New("node not found")
	ErrInvalidNode    = errors.New("invalid node")
	ErrInvalidEdge    = errors.New("invalid relationship")
	ErrInvalidConcept = errors.New("invalid concept")
)

// Store owns the node, relationship, and concept maps for one build. It is
// mutated only during a build; once published the graph is read-only and safe
// for concurrent queries.
type Store struct {
	mu            sync.RWMutex
	nodes         map[string]*Node
	relationships map[string]*Relationship
	concepts      map[string]*Concept

	// byName indexes nodes by lowercased name for the approximate call
	// resolution pass.
	byName map[string][]*Node
}

// NewStore creates an empty graph store.
func NewStore() *Store {
	return &Store{
		nodes:         make(map[string]*Node),
		relationships: make(map[string]*Relationship),
		concepts:      make(map[string]*Concept),
		byName:        make(map[string][]*Node),
	}
}

// =============================================================================
// Insertion
// =============================================================================

// AddNode inserts a node, collapsing onto any existing node with the same id.
// Re-insertion refreshes metadata and attributes but never duplicates.
func (s *Store) AddNode(node *Node) (*Node, error) {
	if node == nil || !node.Type.IsValid() || node.ID == "" {
		return nil, ErrInvalidNode
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.nodes[node.ID]; ok {
		mergeNode(existing, node)
		return existing, nil
	}

	s.nodes[node.ID] = node
	key := strings.ToLower(node.Name)
	s.byName[key] = append(s.byName[key], node)
	return node, nil
}

// mergeNode folds the fields of an incoming duplicate into the stored node.
func mergeNode(existing, incoming *Node) {
	for k, v := range incoming.Metadata {
		existing.Metadata[k] = v
	}
	for k, v := range incoming.Attributes {
		existing.Attributes[k] = v
	}
	if incoming.SourceLocation != "" {
		existing.SourceLocation = incoming.SourceLocation
	}
	if incoming.SemanticVector != nil {
		existing.SemanticVector = incoming.SemanticVector
	}
	existing.LastUpdated = incoming.LastUpdated
}

// AddRelationship inserts an edge. Inserting a duplicate (from, type, to) key
// is a no-op and returns the stored edge.
func (s *Store) AddRelationship(rel *Relationship) (*Relationship, error) {
	if rel == nil || !rel.Type.IsValid() || rel.FromNodeID == "" || rel.ToNodeID == "" {
		return nil, ErrInvalidEdge
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.nodes[rel.FromNodeID]; !ok {
		return nil, fmt.Errorf("%w: from node %q", ErrNodeNotFound, rel.FromNodeID)
	}
	if _, ok := s.nodes[rel.ToNodeID]; !ok {
		return nil, fmt.Errorf("%w: to node %q", ErrNodeNotFound, rel.ToNodeID)
	}

	if existing, ok := s.relationships[rel.ID]; ok {
		return existing, nil
	}
	s.relationships[rel.ID] = rel
	return rel, nil
}

// AddConcept inserts a concept. Duplicate ids collapse onto the stored
// concept, keeping detection idempotent across runs.
func (s *Store) AddConcept(concept *Concept) (*Concept, error) {
	if concept == nil || !concept.Category.IsValid() || concept.ID == "" {
		return nil, ErrInvalidConcept
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.concepts[concept.ID]; ok {
		return existing, nil
	}
	s.concepts[concept.ID] = concept
	return concept, nil
}

// =============================================================================
// Lookup
// =============================================================================

// NodeByID returns the node with the given id.
func (s *Store) NodeByID(id string) (*Node, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	node, ok := s.nodes[id]
	return node, ok
}

// NodesByName returns all nodes whose name matches, case-insensitively.
func (s *Store) NodesByName(name string) []*Node {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matches := s.byName[strings.ToLower(name)]
	out := make([]*Node, len(matches))
	copy(out, matches)
	return out
}

// Nodes returns a stable, id-sorted snapshot of all nodes.
func (s *Store) Nodes() []*Node {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Node, 0, len(s.nodes))
	for _, node := range s.nodes {
		out = append(out, node)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// NodesByType returns an id-sorted snapshot of nodes of one type.
func (s *Store) NodesByType(nt NodeType) []*Node {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*Node
	for _, node := range s.nodes {
		if node.Type == nt {
			out = append(out, node)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Relationships returns a stable, id-sorted snapshot of all relationships.
func (s *Store) Relationships() []*Relationship {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Relationship, 0, len(s.relationships))
	for _, rel := range s.relationships {
		out = append(out, rel)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// RelationshipsTouching returns every relationship incident to any of the
// given node ids.
func (s *Store) RelationshipsTouching(nodeIDs map[string]bool) []*Relationship {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*Relationship
	for _, rel := range s.relationships {
		if nodeIDs[rel.FromNodeID] || nodeIDs[rel.ToNodeID] {
			out = append(out, rel)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Concepts returns a stable, id-sorted snapshot of all concepts.
func (s *Store) Concepts() []*Concept {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Concept, 0, len(s.concepts))
	for _, concept := range s.concepts {
		out = append(out, concept)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// =============================================================================
// Counts & Distributions
// =============================================================================

// NodeCount returns the number of stored nodes.
func (s *Store) NodeCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.nodes)
}

// RelationshipCount returns the number of stored relationships.
func (s *Store) RelationshipCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.relationships)
}

// ConceptCount returns the number of stored concepts.
func (s *Store) ConceptCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.concepts)
}

// NodeTypeDistribution returns node counts keyed by type name.
func (s *Store) NodeTypeDistribution() map[string]int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	dist := make(map[string]int)
	for _, node := range s.nodes {
		dist[node.Type.String()]++
	}
	return dist
}

// RelationshipTypeDistribution returns edge counts keyed by type name.
func (s *Store) RelationshipTypeDistribution() map[string]int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	dist := make(map[string]int)
	for _, rel := range s.relationships {
		dist[rel.Type.String()]++
	}
	return dist
}

// ConceptCategoryDistribution returns concept counts keyed by category name.
func (s *Store) ConceptCategoryDistribution() map[string]int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	dist := make(map[string]int)
	for _, concept := range s.concepts {
		dist[concept.Category.String()]++
	}
	return dist
}
