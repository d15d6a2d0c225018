package traverse

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bblfsh/codemod/estree"
	"github.com/bblfsh/codemod/selector"
)

// tree for:
//
//	if (x) { f(y); }
//	g();
func tree() (root, ifs, call1, call2 *estree.Node) {
	call1 = estree.CallExpression(estree.Identifier("f"), estree.Identifier("y"))
	ifs = estree.IfStatement(estree.Identifier("x"),
		estree.BlockStatement(estree.ExpressionStatement(call1)), nil)
	call2 = estree.CallExpression(estree.Identifier("g"))
	root = estree.Program(ifs, estree.ExpressionStatement(call2))
	if err := estree.UpdateAllParentPointers(root); err != nil {
		panic(err)
	}
	return
}

func name(n *estree.Node) string {
	if n.Type == "Identifier" {
		return n.Str("name")
	}
	return n.Type
}

func TestWalk(t *testing.T) {
	root, _, _, _ := tree()
	var events []string
	err := Walk(root, VisitorFuncs{
		EnterFunc: func(n, parent *estree.Node) error {
			if parent != nil {
				require.True(t, n.Parent == parent)
			}
			events = append(events, "+"+name(n))
			if n.Type == "BlockStatement" {
				return Skip
			}
			return nil
		},
		LeaveFunc: func(n, _ *estree.Node) error {
			events = append(events, "-"+name(n))
			return nil
		},
	})
	require.NoError(t, err)
	require.Equal(t, []string{
		"+Program",
		"+IfStatement", "+x", "-x", "+BlockStatement", "-BlockStatement", "-IfStatement",
		"+ExpressionStatement", "+CallExpression", "+g", "-g", "-CallExpression", "-ExpressionStatement",
		"-Program",
	}, events)
}

func TestWalkBreak(t *testing.T) {
	root, _, _, _ := tree()
	var events []string
	err := Walk(root, VisitorFuncs{
		EnterFunc: func(n, _ *estree.Node) error {
			events = append(events, name(n))
			if name(n) == "x" {
				return Break
			}
			return nil
		},
	})
	require.NoError(t, err)
	require.Equal(t, []string{"Program", "IfStatement", "x"}, events)

	fail := errors.New("fail")
	err = Walk(root, VisitorFuncs{
		LeaveFunc: func(n, _ *estree.Node) error {
			return fail
		},
	})
	require.Equal(t, fail, err)
}

func TestWalkUnknownType(t *testing.T) {
	root := estree.Program(estree.New("UnknownStatement", nil))
	err := Walk(root, VisitorFuncs{})
	require.True(t, estree.ErrUnknownNodeType.Is(err))
}

func TestSafeEmitter(t *testing.T) {
	e := NewSafeEmitter()
	var calls []string
	e.On("b", func(n *estree.Node) error { calls = append(calls, "b1"); return nil })
	e.On("a", func(n *estree.Node) error { calls = append(calls, "a"); return nil })
	e.On("b", func(n *estree.Node) error { calls = append(calls, "b2"); return nil })

	require.Equal(t, []string{"b", "a"}, e.EventNames())
	require.NoError(t, e.Emit("b", nil))
	require.NoError(t, e.Emit("c", nil))
	require.Equal(t, []string{"b1", "b2"}, calls)
}

func TestGeneratorSpecificity(t *testing.T) {
	root := estree.Program(estree.ExpressionStatement(estree.Identifier("x")))
	var calls []string
	err := WithContext("", root, func(ctx *Context) Handlers {
		record := func(s string) Listener {
			return func(n *estree.Node) error {
				calls = append(calls, s)
				return nil
			}
		}
		return Handlers{
			"Identifier[name='x']": record("attr"),
			"Identifier":           record("type"),
			"*":                    record("any"),
			"[name]":               record("any-attr"),
			"Identifier:exit":      record("exit"),
			"Literal":              record("never"),
		}
	})
	require.NoError(t, err)
	require.Equal(t, []string{
		// Program
		"any",
		// ExpressionStatement
		"any",
		// Identifier, sorted by (attributes, identifiers, text)
		"any", "type", "any-attr", "attr",
		"exit",
	}, calls)
}

func TestGeneratorAncestry(t *testing.T) {
	root, _, _, _ := tree()
	var enter, exit [][]string
	snapshot := func(anc []*estree.Node) []string {
		var out []string
		for _, n := range anc {
			out = append(out, n.Type)
		}
		return out
	}

	e := NewSafeEmitter()
	gen := (*NodeEventGenerator)(nil)
	e.On("CallExpression", func(n *estree.Node) error {
		enter = append(enter, snapshot(gen.Ancestry()))
		return nil
	})
	e.On("CallExpression:exit", func(n *estree.Node) error {
		exit = append(exit, snapshot(gen.Ancestry()))
		return nil
	})
	gen, err := NewNodeEventGenerator(e)
	require.NoError(t, err)

	err = Walk(root, VisitorFuncs{
		EnterFunc: func(n, _ *estree.Node) error { return gen.EnterNode(n) },
		LeaveFunc: func(n, _ *estree.Node) error { return gen.LeaveNode(n) },
	})
	require.NoError(t, err)
	exp := [][]string{
		{"Program", "IfStatement", "BlockStatement", "ExpressionStatement"},
		{"Program", "ExpressionStatement"},
	}
	require.Equal(t, exp, enter)
	require.Equal(t, exp, exit)
	require.Empty(t, gen.Ancestry())
}

func TestGeneratorCombinators(t *testing.T) {
	root, _, call1, _ := tree()
	var got []*estree.Node
	err := WithContext("", root, func(ctx *Context) Handlers {
		return Handlers{
			"IfStatement CallExpression": func(n *estree.Node) error {
				got = append(got, n)
				return nil
			},
		}
	})
	require.NoError(t, err)
	require.Equal(t, []*estree.Node{call1}, got)
}

func TestContextStopSkip(t *testing.T) {
	root, _, _, _ := tree()
	var seen []string
	err := WithContext("", root, func(ctx *Context) Handlers {
		return Handlers{
			"*": func(n *estree.Node) error {
				seen = append(seen, name(n))
				switch n.Type {
				case "IfStatement":
					ctx.SkipTraversal()
				case "CallExpression":
					ctx.StopTraversal()
				}
				return nil
			},
			"IfStatement": func(n *estree.Node) error {
				// handlers still run after the flag is set
				seen = append(seen, "if")
				return nil
			},
		}
	})
	require.NoError(t, err)
	require.Equal(t, []string{
		"Program",
		"IfStatement", "if",
		"ExpressionStatement", "CallExpression",
	}, seen)
}

func TestHandlerError(t *testing.T) {
	root, _, _, _ := tree()
	fail := errors.New("handler failed")
	calls := 0
	err := WithContext("", root, func(ctx *Context) Handlers {
		return Handlers{
			"CallExpression": func(n *estree.Node) error {
				calls++
				return fail
			},
		}
	})
	require.Equal(t, fail, err)
	require.Equal(t, 1, calls)
}

func TestInvalidSelector(t *testing.T) {
	root, _, _, _ := tree()
	err := WithContext("", root, func(ctx *Context) Handlers {
		return Handlers{"CallExpression[": func(n *estree.Node) error { return nil }}
	})
	require.True(t, selector.ErrSyntax.Is(err))
}

func TestCodeFrames(t *testing.T) {
	const code = "let a;\nfoo(b);\n"
	id := estree.Identifier("b")
	id.Range = estree.Range{11, 12}
	ctx := NewContext(code, estree.Program())

	require.Equal(t, "[Identifier:2:4] bad", ctx.BuildSimpleCodeFrame(id, "bad"))
	require.Equal(t, ""+
		"> 2 | foo(b);\n"+
		"    |     ^ bad\n",
		ctx.BuildCodeFrame(id, "bad"))

	synthetic := estree.Identifier("c")
	require.Equal(t, "[Identifier:1:0] bad", ctx.BuildCodeFrame(synthetic, "bad"))
}
