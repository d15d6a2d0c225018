package codemod

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bblfsh/codemod/estree"
	"github.com/bblfsh/codemod/parser"
	"github.com/bblfsh/codemod/traverse"
)

func TestTransform(t *testing.T) {
	out, err := Transform(context.Background(), "foo(1);\n", func(ctx *Context) traverse.Handlers {
		return traverse.Handlers{
			"CallExpression > Literal": func(n *estree.Node) error {
				ctx.ReplaceNode(n, estree.StringLiteral("one"))
				return nil
			},
		}
	}, Options{})
	require.NoError(t, err)
	require.Equal(t, "foo('one');\n", out)
}

func TestIsSource(t *testing.T) {
	require.True(t, IsSource("a/b.js"))
	require.True(t, IsSource("B.JSX"))
	require.False(t, IsSource("a.ts"))
	require.False(t, IsSource("Makefile"))
}

func TestResultToString(t *testing.T) {
	prog := estree.Program(estree.ExpressionStatement(estree.Identifier("a")))
	s, err := ResultToString(parser.NewResult("a", prog, nil))
	require.NoError(t, err)

	var m map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(s), &m))
	require.Equal(t, []interface{}{}, m["comments"])
	ast := m["ast"].(map[string]interface{})
	require.Equal(t, "Program", ast["type"])
}
