// Package graph defines the typed node/relationship/concept model for the
// code knowledge graph and the in-memory store that owns it.
//
// All ids are content-addressed: recomputing the id for the same input always
// yields the same id, which makes node insertion idempotent and relationship
// insertion a natural no-op on duplicates.
package graph

import "fmt"

// =============================================================================
// NodeType Enum
// =============================================================================

// NodeType classifies a node in the knowledge graph.
type NodeType int

const (
	// NodeTypeFile represents a source file.
	NodeTypeFile NodeType = 0

	// NodeTypeFunction represents a function or method declaration.
	NodeTypeFunction NodeType = 1

	// NodeTypeClass represents a class or struct declaration.
	NodeTypeClass NodeType = 2

	// NodeTypeInterface represents an interface declaration.
	NodeTypeInterface NodeType = 3

	// NodeTypeVariable represents a variable or constant declaration.
	NodeTypeVariable NodeType = 4

	// NodeTypeModule represents an external module or package dependency.
	NodeTypeModule NodeType = 5

	// NodeTypeConcept represents a detected concept anchor node.
	NodeTypeConcept NodeType = 6
)

// ValidNodeTypes returns all valid NodeType values.
func ValidNodeTypes() []NodeType {
	return []NodeType{
		NodeTypeFile,
		NodeTypeFunction,
		NodeTypeClass,
		NodeTypeInterface,
		NodeTypeVariable,
		NodeTypeModule,
		NodeTypeConcept,
	}
}

// String returns the string representation of the NodeType.
func (nt NodeType) String() string {
	switch nt {
	case NodeTypeFile:
		return "file"
	case NodeTypeFunction:
		return "function"
	case NodeTypeClass:
		return "class"
	case NodeTypeInterface:
		return "interface"
	case NodeTypeVariable:
		return "variable"
	case NodeTypeModule:
		return "module"
	case NodeTypeConcept:
		return "concept"
	default:
		return fmt.Sprintf("node_type(%d)", nt)
	}
}

// ParseNodeType parses a string into a NodeType.
func ParseNodeType(s string) (NodeType, error) {
	switch s {
	case "file":
		return NodeTypeFile, nil
	case "function":
		return NodeTypeFunction, nil
	case "class":
		return NodeTypeClass, nil
	case "interface":
		return NodeTypeInterface, nil
	case "variable":
		return NodeTypeVariable, nil
	case "module":
		return NodeTypeModule, nil
	case "concept":
		return NodeTypeConcept, nil
	default:
		return 0, fmt.Errorf("unknown node type: %q", s)
	}
}

// IsValid returns true if the node type is a recognized value.
func (nt NodeType) IsValid() bool {
	return nt >= NodeTypeFile && nt <= NodeTypeConcept
}

// MarshalText implements encoding.TextMarshaler so node types serialize as
// their string names in exported snapshots.
func (nt NodeType) MarshalText() ([]byte, error) {
	return []byte(nt.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (nt *NodeType) UnmarshalText(data []byte) error {
	parsed, err := ParseNodeType(string(data))
	if err != nil {
		return err
	}
	*nt = parsed
	return nil
}

// =============================================================================
// RelationType Enum
// =============================================================================

// RelationType classifies an edge between two nodes.
type RelationType int

const (
	RelationImports    RelationType = 0
	RelationExports    RelationType = 1
	RelationCalls      RelationType = 2
	RelationExtends    RelationType = 3
	RelationImplements RelationType = 4
	RelationUses       RelationType = 5
	RelationDependsOn  RelationType = 6
	RelationSimilarTo  RelationType = 7
	RelationPartOf     RelationType = 8
)

// ValidRelationTypes returns all valid RelationType values.
func ValidRelationTypes() []RelationType {
	return []RelationType{
		RelationImports,
		RelationExports,
		RelationCalls,
		RelationExtends,
		RelationImplements,
		RelationUses,
		RelationDependsOn,
		RelationSimilarTo,
		RelationPartOf,
	}
}

// String returns the string representation of the RelationType.
func (rt RelationType) String() string {
	switch rt {
	case RelationImports:
		return "imports"
	case RelationExports:
		return "exports"
	case RelationCalls:
		return "calls"
	case RelationExtends:
		return "extends"
	case RelationImplements:
		return "implements"
	case RelationUses:
		return "uses"
	case RelationDependsOn:
		return "depends_on"
	case RelationSimilarTo:
		return "similar_to"
	case RelationPartOf:
		return "part_of"
	default:
		return fmt.Sprintf("relation_type(%d)", rt)
	}
}

// ParseRelationType parses a string into a RelationType.
func ParseRelationType(s string) (RelationType, error) {
	switch s {
	case "imports":
		return RelationImports, nil
	case "exports":
		return RelationExports, nil
	case "calls":
		return RelationCalls, nil
	case "extends":
		return RelationExtends, nil
	case "implements":
		return RelationImplements, nil
	case "uses":
		return RelationUses, nil
	case "depends_on":
		return RelationDependsOn, nil
	case "similar_to":
		return RelationSimilarTo, nil
	case "part_of":
		return RelationPartOf, nil
	default:
		return 0, fmt.Errorf("unknown relation type: %q", s)
	}
}

// IsValid returns true if the relation type is a recognized value.
func (rt RelationType) IsValid() bool {
	return rt >= RelationImports && rt <= RelationPartOf
}

// MarshalText implements encoding.TextMarshaler.
func (rt RelationType) MarshalText() ([]byte, error) {
	return []byte(rt.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (rt *RelationType) UnmarshalText(data []byte) error {
	parsed, err := ParseRelationType(string(data))
	if err != nil {
		return err
	}
	*rt = parsed
	return nil
}

// =============================================================================
// ConceptCategory Enum
// =============================================================================

// ConceptCategory classifies a detected concept.
type ConceptCategory int

const (
	CategoryDesignPattern ConceptCategory = 0
	CategoryArchitecture  ConceptCategory = 1
	CategoryAlgorithm     ConceptCategory = 2
	CategoryDataStructure ConceptCategory = 3
	CategoryBusinessLogic ConceptCategory = 4
)

// String returns the string representation of the ConceptCategory.
func (cc ConceptCategory) String() string {
	switch cc {
	case CategoryDesignPattern:
		return "design_pattern"
	case CategoryArchitecture:
		return "architecture"
	case CategoryAlgorithm:
		return "algorithm"
	case CategoryDataStructure:
		return "data_structure"
	case CategoryBusinessLogic:
		return "business_logic"
	default:
		return fmt.Sprintf("concept_category(%d)", cc)
	}
}

// ParseConceptCategory parses a string into a ConceptCategory.
func ParseConceptCategory(s string) (ConceptCategory, error) {
	switch s {
	case "design_pattern":
		return CategoryDesignPattern, nil
	case "architecture":
		return CategoryArchitecture, nil
	case "algorithm":
		return CategoryAlgorithm, nil
	case "data_structure":
		return CategoryDataStructure, nil
	case "business_logic":
		return CategoryBusinessLogic, nil
	default:
		return 0, fmt.Errorf("unknown concept category: %q", s)
	}
}

// IsValid returns true if the category is a recognized value.
func (cc ConceptCategory) IsValid() bool {
	return cc >= CategoryDesignPattern && cc <= CategoryBusinessLogic
}

// MarshalText implements encoding.TextMarshaler.
func (cc ConceptCategory) MarshalText() ([]byte, error) {
	return []byte(cc.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (cc *ConceptCategory) UnmarshalText(data []byte) error {
	parsed, err := ParseConceptCategory(string(data))
	if err != nil {
		return err
	}
	*cc = parsed
	return nil
}
