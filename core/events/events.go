// Package events carries build and query telemetry to registered observers.
package events

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// EventType Enum
// =============================================================================

// EventType represents the type of engine event.
type EventType int

const (
	// EventTypeBuildStarted fires when a graph build begins.
	EventTypeBuildStarted EventType = 0

	// EventTypeBuildCompleted fires when a graph build publishes.
	EventTypeBuildCompleted EventType = 1

	// EventTypeQueryExecuted fires after each query.
	EventTypeQueryExecuted EventType = 2

	// EventTypeFileSkipped fires when a file is skipped during extraction.
	EventTypeFileSkipped EventType = 3
)

// ValidEventTypes returns all valid EventType values.
func ValidEventTypes() []EventType {
	return []EventType{
		EventTypeBuildStarted,
		EventTypeBuildCompleted,
		EventTypeQueryExecuted,
		EventTypeFileSkipped,
	}
}

// String returns the string representation of the EventType.
func (et EventType) String() string {
	switch et {
	case EventTypeBuildStarted:
		return "build_started"
	case EventTypeBuildCompleted:
		return "build_completed"
	case EventTypeQueryExecuted:
		return "query_executed"
	case EventTypeFileSkipped:
		return "file_skipped"
	default:
		return fmt.Sprintf("event_type(%d)", et)
	}
}

// IsValid returns true if the event type is a recognized value.
func (et EventType) IsValid() bool {
	for _, valid := range ValidEventTypes() {
		if et == valid {
			return true
		}
	}
	return false
}

// =============================================================================
// Event
// =============================================================================

// BuildStats is the payload of a build_completed event.
type BuildStats struct {
	NodeCount         int           `json:"node_count"`
	RelationshipCount int           `json:"relationship_count"`
	ConceptCount      int           `json:"concept_count"`
	Duration          time.Duration `json:"duration"`
}

// QueryStats is the payload of a query_executed event.
type QueryStats struct {
	QueryText      string        `json:"query_text"`
	ResultCount    int           `json:"result_count"`
	Duration       time.Duration `json:"duration"`
	RelevanceScore float64       `json:"relevance_score"`
}

// Event is one telemetry emission.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Build     *BuildStats `json:"build,omitempty"`
	Query     *QueryStats `json:"query,omitempty"`
	Path      string      `json:"path,omitempty"`
}

// NewEvent creates an event with a fresh id and timestamp.
func NewEvent(et EventType) *Event {
	return &Event{
		ID:        uuid.NewString(),
		Type:      et,
		Timestamp: time.Now(),
	}
}
