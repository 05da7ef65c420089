package vectorize

import (
	"fmt"
	"strings"

	"github.com/adalundhe/codegraph/core/graph"
)

// NodeText synthesizes the text that represents a node in vector space. The
// node's name is always included; type-specific context pulls structurally
// similar entities closer together (language for files, complexity and
// enclosing path for functions, superclass for classes).
func NodeText(node *graph.Node) string {
	var parts []string
	parts = append(parts, node.Name, node.Type.String())

	switch node.Type {
	case graph.NodeTypeFile:
		if lang := node.AttrString("language"); lang != "" {
			parts = append(parts, lang)
		}
	case graph.NodeTypeFunction:
		if complexity := node.MetaNumber("complexity"); complexity > 0 {
			parts = append(parts, fmt.Sprintf("complexity %.2f", complexity))
		}
		if node.SourceLocation != "" {
			parts = append(parts, node.SourceLocation)
		}
	case graph.NodeTypeClass:
		if super := node.AttrString("extends"); super != "" {
			parts = append(parts, "extends", super)
		}
	case graph.NodeTypeModule:
		if spec := node.AttrString("specifier"); spec != "" {
			parts = append(parts, spec)
		}
	}

	return strings.Join(parts, " ")
}
