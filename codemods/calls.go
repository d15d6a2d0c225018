package codemods

import (
	"strings"

	"github.com/bblfsh/codemod/estree"
	"github.com/bblfsh/codemod/transform"
	"github.com/bblfsh/codemod/traverse"
)

func init() {
	Register(Codemod{
		Name:        "remove-calls",
		Description: "removes statements calling one of the comma-separated callees, e.g. console.log or console.*",
		Args:        []string{"callees"},
		New:         newRemoveCalls,
	})
}

func newRemoveCalls(args Args) (transform.Visitor, error) {
	list, err := args.required("remove-calls", "callees")
	if err != nil {
		return nil, err
	}
	var callees []string
	for _, s := range strings.Split(list, ",") {
		if s = strings.TrimSpace(s); s != "" {
			callees = append(callees, s)
		}
	}
	return func(ctx *transform.Context) traverse.Handlers {
		return traverse.Handlers{
			"ExpressionStatement > CallExpression": func(n *estree.Node) error {
				if !matchCallee(callees, calleePath(n.Child("callee"))) {
					return nil
				}
				return ctx.RemoveStatement(n.Parent)
			},
		}
	}, nil
}

// calleePath returns a dotted path of the callee, or an empty string if the callee is not a
// chain of identifiers.
func calleePath(n *estree.Node) string {
	switch {
	case n.Is("Identifier"):
		return n.Str("name")
	case n.Is("MemberExpression") && !n.Bool("computed"):
		obj := calleePath(n.Child("object"))
		prop := n.Child("property")
		if obj == "" || !prop.Is("Identifier") {
			return ""
		}
		return obj + "." + prop.Str("name")
	}
	return ""
}

func matchCallee(list []string, path string) bool {
	if path == "" {
		return false
	}
	for _, c := range list {
		if c == path {
			return true
		}
		if pref := strings.TrimSuffix(c, "*"); pref != c && strings.HasPrefix(path, pref) {
			return true
		}
	}
	return false
}
