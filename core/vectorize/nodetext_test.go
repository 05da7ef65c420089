package vectorize

import (
	"testing"

	"github.com/adalundhe/codegraph/core/graph"
	"github.com/stretchr/testify/assert"
)

func TestNodeText(t *testing.T) {
	file := graph.NewNode(graph.NodeTypeFile, "src/app.js", "app.js")
	file.Attributes["language"] = graph.StringValue("javascript")
	assert.Equal(t, "app.js file javascript", NodeText(file))

	fn := graph.NewNode(graph.NodeTypeFunction, "src/app.js:run", "run")
	fn.SourceLocation = "src/app.js"
	fn.Metadata["complexity"] = graph.NumberValue(0.25)
	text := NodeText(fn)
	assert.Contains(t, text, "run function")
	assert.Contains(t, text, "complexity 0.25")
	assert.Contains(t, text, "src/app.js")

	class := graph.NewNode(graph.NodeTypeClass, "src/user.js:Admin", "Admin")
	class.Attributes["extends"] = graph.StringValue("User")
	assert.Contains(t, NodeText(class), "extends User")
}
