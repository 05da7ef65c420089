package graph

import "testing"

func TestNodeType_String(t *testing.T) {
	tests := []struct {
		name     string
		nt       NodeType
		expected string
	}{
		{"file", NodeTypeFile, "file"},
		{"function", NodeTypeFunction, "function"},
		{"class", NodeTypeClass, "class"},
		{"interface", NodeTypeInterface, "interface"},
		{"variable", NodeTypeVariable, "variable"},
		{"module", NodeTypeModule, "module"},
		{"concept", NodeTypeConcept, "concept"},
		{"unknown", NodeType(99), "node_type(99)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.nt.String(); got != tt.expected {
				t.Errorf("String() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestParseNodeType_RoundTrip(t *testing.T) {
	for _, nt := range ValidNodeTypes() {
		parsed, err := ParseNodeType(nt.String())
		if err != nil {
			t.Fatalf("ParseNodeType(%q): %v", nt.String(), err)
		}
		if parsed != nt {
			t.Errorf("ParseNodeType(%q) = %v, want %v", nt.String(), parsed, nt)
		}
	}

	if _, err := ParseNodeType("nonsense"); err == nil {
		t.Error("ParseNodeType(nonsense) should fail")
	}
}

func TestRelationType_RoundTrip(t *testing.T) {
	for _, rt := range ValidRelationTypes() {
		parsed, err := ParseRelationType(rt.String())
		if err != nil {
			t.Fatalf("ParseRelationType(%q): %v", rt.String(), err)
		}
		if parsed != rt {
			t.Errorf("ParseRelationType(%q) = %v, want %v", rt.String(), parsed, rt)
		}
		if !rt.IsValid() {
			t.Errorf("%v should be valid", rt)
		}
	}

	if RelationType(99).IsValid() {
		t.Error("RelationType(99) should not be valid")
	}
}

func TestConceptCategory_RoundTrip(t *testing.T) {
	categories := []ConceptCategory{
		CategoryDesignPattern,
		CategoryArchitecture,
		CategoryAlgorithm,
		CategoryDataStructure,
		CategoryBusinessLogic,
	}
	for _, cc := range categories {
		parsed, err := ParseConceptCategory(cc.String())
		if err != nil {
			t.Fatalf("ParseConceptCategory(%q): %v", cc.String(), err)
		}
		if parsed != cc {
			t.Errorf("ParseConceptCategory(%q) = %v, want %v", cc.String(), parsed, cc)
		}
	}
}
