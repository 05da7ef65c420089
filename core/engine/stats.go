package engine

// Stats summarizes the published graph.
type Stats struct {
	NodeCount                    int            `json:"node_count"`
	RelationshipCount            int            `json:"relationship_count"`
	ConceptCount                 int            `json:"concept_count"`
	NodeTypeDistribution         map[string]int `json:"node_type_distribution"`
	RelationshipTypeDistribution map[string]int `json:"relationship_type_distribution"`
	ConceptCategoryDistribution  map[string]int `json:"concept_category_distribution"`
	MeanImportance               float64        `json:"mean_importance"`
}

// Stats returns counts and distributions for the published graph.
func (e *Engine) Stats() (*Stats, error) {
	current := e.current.Load()
	if current == nil {
		return nil, ErrGraphNotBuilt
	}
	store := current.store

	stats := &Stats{
		NodeCount:                    store.NodeCount(),
		RelationshipCount:            store.RelationshipCount(),
		ConceptCount:                 store.ConceptCount(),
		NodeTypeDistribution:         store.NodeTypeDistribution(),
		RelationshipTypeDistribution: store.RelationshipTypeDistribution(),
		ConceptCategoryDistribution:  store.ConceptCategoryDistribution(),
	}

	nodes := store.Nodes()
	if len(nodes) > 0 {
		var sum float64
		for _, node := range nodes {
			sum += node.Importance
		}
		stats.MeanImportance = sum / float64(len(nodes))
	}
	return stats, nil
}
