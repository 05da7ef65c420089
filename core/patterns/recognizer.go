// Package patterns scans the assembled graph for architectural patterns,
// design patterns, anti-patterns, and recurring domain terms, emitting
// Concept entities.
//
// Detection is additive and idempotent: concept ids are content-addressed,
// so re-running recognition over the same graph reproduces the same concept
// set with no duplicates.
package patterns

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"unicode"

	"github.com/adalundhe/codegraph/core/graph"
)

// Detection thresholds and fixed confidences.
const (
	mvcConfidence           = 0.8
	microservicesConfidence = 0.7
	microservicesMinCount   = 3
	singletonConfidence     = 0.8
	factoryConfidence       = 0.7
	godObjectConfidence     = 0.6
	godObjectLineThreshold  = 500
	domainTermMinFrequency  = 2
	domainTermMaxConfidence = 0.9
)

// Recognizer runs pattern detection over a completed node set.
type Recognizer struct {
	store  *graph.Store
	logger *slog.Logger
}

// NewRecognizer creates a Recognizer writing concepts into the given store.
func NewRecognizer(store *graph.Store, logger *slog.Logger) *Recognizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recognizer{store: store, logger: logger}
}

// Recognize runs every detector once over the assembled graph.
func (r *Recognizer) Recognize(ctx context.Context) error {
	nodes := r.store.Nodes()

	for _, detect := range []func([]*graph.Node){
		r.detectArchitectural,
		r.detectDesignPatterns,
		r.detectAntiPatterns,
		r.detectDomainTerms,
	} {
		if err := ctx.Err(); err != nil {
			return err
		}
		detect(nodes)
	}
	return nil
}

// =============================================================================
// Architectural Patterns
// =============================================================================

// detectArchitectural emits MVC and Microservices concepts from node naming.
func (r *Recognizer) detectArchitectural(nodes []*graph.Node) {
	var controllers, models, views, services int
	for _, node := range nodes {
		name := strings.ToLower(node.Name)
		if strings.Contains(name, "controller") {
			controllers++
		}
		if strings.Contains(name, "model") {
			models++
		}
		if strings.Contains(name, "view") || strings.Contains(name, "component") {
			views++
		}
		if strings.Contains(name, "service") {
			services++
		}
	}

	if controllers >= 1 && models >= 1 && views >= 1 {
		concept := graph.NewConcept(graph.CategoryArchitecture, "MVC Architecture",
			"Model-View-Controller separation detected across node names", mvcConfidence)
		concept.Keywords = []string{"controller", "model", "view"}
		concept.RelatedConcepts = []string{"Layered Architecture"}
		r.store.AddConcept(concept)
	}

	if services > microservicesMinCount {
		concept := graph.NewConcept(graph.CategoryArchitecture, "Microservices Architecture",
			fmt.Sprintf("%d service-named nodes suggest a service-oriented decomposition", services),
			microservicesConfidence)
		concept.Keywords = []string{"service"}
		concept.RelatedConcepts = []string{"Service Mesh", "API Gateway"}
		r.store.AddConcept(concept)
	}
}

// =============================================================================
// Design Patterns
// =============================================================================

// detectDesignPatterns emits per-node Singleton and Factory concepts.
func (r *Recognizer) detectDesignPatterns(nodes []*graph.Node) {
	for _, node := range nodes {
		name := strings.ToLower(node.Name)

		if node.Type == graph.NodeTypeClass &&
			(strings.Contains(name, "singleton") || node.Attributes["singleton"].AsBool()) {
			concept := graph.NewConcept(graph.CategoryDesignPattern,
				"Singleton: "+node.Name,
				"Class restricted to a single instance", singletonConfidence)
			concept.Keywords = []string{"singleton", "instance"}
			concept.CodePatterns = []string{node.ID}
			r.store.AddConcept(concept)
		}

		if strings.Contains(name, "factory") {
			concept := graph.NewConcept(graph.CategoryDesignPattern,
				"Factory: "+node.Name,
				"Object creation delegated to a factory", factoryConfidence)
			concept.Keywords = []string{"factory", "create"}
			concept.CodePatterns = []string{node.ID}
			r.store.AddConcept(concept)
		}
	}
}

// =============================================================================
// Anti-Patterns
// =============================================================================

// detectAntiPatterns flags god objects: classes whose line-count metadata
// exceeds the threshold.
func (r *Recognizer) detectAntiPatterns(nodes []*graph.Node) {
	for _, node := range nodes {
		if node.Type != graph.NodeTypeClass {
			continue
		}
		lines := node.MetaNumber("line_count")
		if lines <= godObjectLineThreshold {
			continue
		}

		concept := graph.NewConcept(graph.CategoryDesignPattern,
			"God Object: "+node.Name,
			fmt.Sprintf("Class spans %d lines; consider splitting responsibilities", int(lines)),
			godObjectConfidence)
		concept.Keywords = []string{"god object", "refactor"}
		concept.CodePatterns = []string{node.ID}
		r.store.AddConcept(concept)
	}
}

// =============================================================================
// Domain Terms
// =============================================================================

// detectDomainTerms splits every node name into terms and promotes frequent
// ones into domain concepts, confidence scaling with frequency.
func (r *Recognizer) detectDomainTerms(nodes []*graph.Node) {
	frequency := make(map[string]int)
	for _, node := range nodes {
		for _, term := range SplitName(node.Name) {
			frequency[term]++
		}
	}

	terms := make([]string, 0, len(frequency))
	for term, count := range frequency {
		if count > domainTermMinFrequency {
			terms = append(terms, term)
		}
	}
	sort.Strings(terms)

	for _, term := range terms {
		confidence := float64(frequency[term]) / 10
		if confidence > domainTermMaxConfidence {
			confidence = domainTermMaxConfidence
		}
		concept := graph.NewConcept(graph.CategoryBusinessLogic, term,
			fmt.Sprintf("Domain term appearing in %d entity names", frequency[term]),
			confidence)
		concept.Keywords = []string{term}
		r.store.AddConcept(concept)
	}
}

// SplitName splits an identifier on case boundaries and separators into
// lowercased terms, dropping short fragments.
func SplitName(name string) []string {
	var terms []string
	var current []rune

	flush := func() {
		if len(current) >= 3 {
			terms = append(terms, strings.ToLower(string(current)))
		}
		current = current[:0]
	}

	var prev rune
	for _, r := range name {
		switch {
		case !unicode.IsLetter(r) && !unicode.IsDigit(r):
			flush()
		case unicode.IsUpper(r) && unicode.IsLower(prev):
			flush()
			current = append(current, r)
		default:
			current = append(current, r)
		}
		prev = r
	}
	flush()
	return terms
}
