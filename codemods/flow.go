package codemods

import (
	"strings"

	"github.com/bblfsh/codemod/estree"
	"github.com/bblfsh/codemod/parser"
	"github.com/bblfsh/codemod/transform"
	"github.com/bblfsh/codemod/traverse"
)

func init() {
	Register(Codemod{
		Name:        "add-flow-header",
		Description: "adds the @flow directive to the file docblock",
		New:         newFlowHeader,
	})
}

const flowDocblock = "*\n * @flow\n "

func newFlowHeader(_ Args) (transform.Visitor, error) {
	return func(ctx *transform.Context) traverse.Handlers {
		return traverse.Handlers{
			"Program": func(n *estree.Node) error {
				ctx.SkipTraversal()
				doc := n.Docblock
				if parser.HasFlowDirective(doc) {
					return nil
				}
				var first *estree.Node
				for _, s := range n.Children("body") {
					if s != nil {
						first = s
						break
					}
				}
				if first == nil {
					return nil
				}
				value := flowDocblock
				if doc != nil && doc.Comment != nil {
					value = withFlow(doc.Comment.Value)
					ctx.RemoveComments(doc.Comment)
				}
				ctx.AddLeadingComments(first, &estree.Comment{Type: estree.CommentBlock, Value: value})
				return nil
			},
		}
	}, nil
}

// withFlow appends the @flow directive to the docblock text.
func withFlow(value string) string {
	if !strings.Contains(value, "\n") {
		return strings.TrimRight(value, " ") + " @flow "
	}
	return strings.TrimRight(value, " ") + " * @flow\n "
}
