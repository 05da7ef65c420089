package graph

import (
	"crypto/sha256"
	"encoding/hex"
)

// Concept is a named, categorized pattern or domain term detected across the
// graph. Concept ids hash (category, name) so re-running detection over the
// same graph reproduces the same concept set.
type Concept struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	Category        ConceptCategory `json:"category"`
	Keywords        []string        `json:"keywords,omitempty"`
	RelatedConcepts []string        `json:"related_concepts,omitempty"`
	CodePatterns    []string        `json:"code_patterns,omitempty"`
	Confidence      float64         `json:"confidence"`
}

// ConceptID computes the deterministic id for a (category, name) pair.
func ConceptID(category ConceptCategory, name string) string {
	hash := sha256.Sum256([]byte(category.String() + ":" + name))
	return hex.EncodeToString(hash[:16])
}

// NewConcept creates a concept with its content-addressed id and clamped
// confidence.
func NewConcept(category ConceptCategory, name, description string, confidence float64) *Concept {
	return &Concept{
		ID:          ConceptID(category, name),
		Name:        name,
		Description: description,
		Category:    category,
		Confidence:  clamp01(confidence),
	}
}

// HasKeyword reports whether the concept lists the given keyword.
func (c *Concept) HasKeyword(keyword string) bool {
	for _, k := range c.Keywords {
		if k == keyword {
			return true
		}
	}
	return false
}
