package codemods

import (
	"github.com/bblfsh/codemod/estree"
	"github.com/bblfsh/codemod/transform"
	"github.com/bblfsh/codemod/traverse"
)

func init() {
	Register(Codemod{
		Name:        "rename-identifier",
		Description: "renames all identifiers with a given name, except property names",
		Args:        []string{"from", "to"},
		New:         newRename,
	})
}

func newRename(args Args) (transform.Visitor, error) {
	from, err := args.required("rename-identifier", "from")
	if err != nil {
		return nil, err
	}
	to, err := args.required("rename-identifier", "to")
	if err != nil {
		return nil, err
	}
	return func(ctx *transform.Context) traverse.Handlers {
		return traverse.Handlers{
			"Identifier": func(n *estree.Node) error {
				if n.Str("name") != from || isPropertyName(n) {
					return nil
				}
				if p := n.Parent; p.Is("Property") && p.Bool("shorthand") && p.Child("value") == n {
					// {from} becomes {from: to}
					ctx.ModifyNodeInPlace(p, estree.Props{"shorthand": false})
				}
				ctx.ModifyNodeInPlace(n, estree.Props{"name": to})
				return nil
			},
		}
	}, nil
}

// isPropertyName checks if the identifier names a property instead of referencing a binding.
func isPropertyName(n *estree.Node) bool {
	p := n.Parent
	switch {
	case p.Is("MemberExpression"):
		return p.Child("property") == n && !p.Bool("computed")
	case p.Is("Property", "MethodDefinition", "PropertyDefinition"):
		return p.Child("key") == n && !p.Bool("computed")
	}
	return false
}
