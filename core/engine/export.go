package engine

import (
	"time"

	"github.com/adalundhe/codegraph/core/graph"
)

// SnapshotVersion identifies the export snapshot shape.
const SnapshotVersion = "1.0.0"

// SnapshotMetadata describes when and how a snapshot was produced.
type SnapshotMetadata struct {
	ExportDate time.Time `json:"export_date"`
	Version    string    `json:"version"`
}

// Snapshot is a JSON-serializable copy of the published graph for external
// persistence collaborators.
type Snapshot struct {
	Nodes         []*graph.Node         `json:"nodes"`
	Relationships []*graph.Relationship `json:"relationships"`
	Concepts      []*graph.Concept      `json:"concepts"`
	Metadata      SnapshotMetadata      `json:"metadata"`
}

// Export returns a snapshot of the published graph.
func (e *Engine) Export() (*Snapshot, error) {
	current := e.current.Load()
	if current == nil {
		return nil, ErrGraphNotBuilt
	}

	return &Snapshot{
		Nodes:         current.store.Nodes(),
		Relationships: current.store.Relationships(),
		Concepts:      current.store.Concepts(),
		Metadata: SnapshotMetadata{
			ExportDate: time.Now(),
			Version:    SnapshotVersion,
		},
	}, nil
}
