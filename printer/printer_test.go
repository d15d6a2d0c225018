package printer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bblfsh/codemod/estree"
)

func ident(name string) *estree.Node { return estree.Identifier(name) }

func call(name string, args ...*estree.Node) *estree.Node {
	return estree.CallExpression(estree.MemberChain(name), args...)
}

func stmt(e *estree.Node) *estree.Node { return estree.ExpressionStatement(e) }

func printSynthetic(t testing.TB, body ...*estree.Node) string {
	out, err := Print(estree.Program(body...), "", DefaultOptions())
	require.NoError(t, err)
	return out
}

func TestPrintDeclaration(t *testing.T) {
	out := printSynthetic(t, estree.VariableDeclaration("const",
		estree.VariableDeclarator(ident("x"), estree.BooleanLiteral(true)),
	))
	require.Equal(t, "const x = true;\n", out)
}

func TestPrintEmpty(t *testing.T) {
	out := printSynthetic(t)
	require.Equal(t, "", out)
}

func TestPrintBlock(t *testing.T) {
	out := printSynthetic(t, estree.IfStatement(
		estree.BooleanLiteral(true),
		estree.BlockStatement(
			stmt(estree.StringLiteral("inserted")),
			stmt(estree.StringLiteral("removed")),
		),
		nil,
	))
	require.Equal(t, "if (true) {\n  ('inserted');\n  ('removed');\n}\n", out)
}

func TestPrintElse(t *testing.T) {
	out := printSynthetic(t,
		estree.IfStatement(ident("a"),
			estree.BlockStatement(stmt(call("b"))),
			estree.IfStatement(ident("c"), stmt(call("d")), stmt(call("e"))),
		),
	)
	require.Equal(t, "if (a) {\n  b();\n} else if (c) d();\nelse e();\n", out)
}

func TestPrintParens(t *testing.T) {
	a, b, c := ident("a"), ident("b"), ident("c")
	cases := []struct {
		name string
		expr *estree.Node
		exp  string
	}{
		{"precedence", estree.BinaryExpression("*", estree.BinaryExpression("+", a, b), c), "(a + b) * c;"},
		{"flatten", estree.BinaryExpression("+", estree.BinaryExpression("+", a, b), c), "a + b + c;"},
		{"right", estree.BinaryExpression("-", a, estree.BinaryExpression("-", b, c)), "a - (b - c);"},
		{"mixed logical", estree.LogicalExpression("||", estree.LogicalExpression("&&", a, b), c), "(a && b) || c;"},
		{"modulo", estree.BinaryExpression("+", a, estree.BinaryExpression("%", b, c)), "a + (b % c);"},
		{"new callee", estree.NewExpression(estree.CallExpression(a)), "new (a())();"},
		{"object start", estree.MemberExpression(estree.ObjectExpression(), ident("x"), false), "({}).x;"},
		{"number member", estree.CallExpression(
			estree.MemberExpression(estree.NumberLiteral(1), ident("toString"), false),
		), "(1).toString();"},
		{"unary member", estree.MemberExpression(estree.UnaryExpression("typeof", a), ident("x"), false), "(typeof a).x;"},
		{"conditional test", estree.ConditionalExpression(
			estree.ConditionalExpression(a, b, c), b, c,
		), "(a ? b : c) ? b : c;"},
		{"assignment in binary", estree.BinaryExpression("&&", estree.AssignmentExpression("=", a, b), c), "(a = b) && c;"},
	}
	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			out := printSynthetic(t, stmt(estree.DeepClone(c.expr, nil)))
			require.Equal(t, c.exp+"\n", out)
		})
	}
}

func TestPrintArrow(t *testing.T) {
	out := printSynthetic(t, estree.VariableDeclaration("const",
		estree.VariableDeclarator(ident("f"), estree.ArrowFunctionExpression(
			[]*estree.Node{ident("a")}, estree.ObjectExpression(),
		)),
	))
	require.Equal(t, "const f = (a) => ({});\n", out)
}

func TestPrintFunction(t *testing.T) {
	block := estree.BlockStatement()
	block.Comments = []*estree.Comment{{Type: estree.CommentBlock, Value: " empty "}}
	out := printSynthetic(t, estree.FunctionDeclaration(ident("f"), []*estree.Node{ident("a"), ident("b")}, block))
	require.Equal(t, "function f(a, b) {\n  /* empty */\n}\n", out)
}

func TestPrintImport(t *testing.T) {
	out := printSynthetic(t, estree.ImportDeclaration([]*estree.Node{
		estree.ImportDefaultSpecifier(ident("React")),
		estree.ImportSpecifier(ident("useState"), ident("useState")),
		estree.ImportSpecifier(ident("a"), ident("b")),
	}, estree.StringLiteral("react")))
	require.Equal(t, "import React, { useState, a as b } from 'react';\n", out)
}

func TestPrintQuotes(t *testing.T) {
	out := printSynthetic(t, estree.VariableDeclaration("const",
		estree.VariableDeclarator(ident("s"), estree.StringLiteral("it's")),
	))
	require.Equal(t, "const s = \"it's\";\n", out)

	require.Equal(t, `'a"b'`, makeString(`a\"b`, '\''))
	require.Equal(t, `"d"`, makeString(`\d`, '"'))
	require.Equal(t, `'\n\''`, makeString(`\n'`, '\''))
}

func TestPrintOptions(t *testing.T) {
	opts := Options{UseTabs: true, Semi: false}
	prog := estree.Program(estree.IfStatement(ident("a"), estree.BlockStatement(stmt(call("b"))), nil))
	out, err := Print(prog, "", opts)
	require.NoError(t, err)
	require.Equal(t, "if (a) {\n\tb()\n}\n", out)
}

func TestPrintComments(t *testing.T) {
	const code = "// hello\nfoo();\n\nbar(); // trailing\n"
	first := stmt(call("foo"))
	first.Range = estree.Range{9, 15}
	first.Comments = []*estree.Comment{{
		Type: estree.CommentLine, Value: " hello", Range: estree.Range{0, 8},
		Loc: &estree.SourceLocation{}, Leading: true,
	}}
	second := stmt(call("bar"))
	second.Range = estree.Range{17, 23}
	second.Comments = []*estree.Comment{{
		Type: estree.CommentLine, Value: " trailing", Range: estree.Range{24, 35},
		Loc: &estree.SourceLocation{}, Trailing: true,
	}}
	out, err := New().Print(context.Background(), estree.Program(first, second), code, DefaultOptions())
	require.NoError(t, err)
	require.Equal(t, code, out)
}

func TestPrintObjectLayout(t *testing.T) {
	const code = "x = {\n  a: 1,\n  b,\n};\n"
	short := estree.Property(ident("b"), ident("b"))
	short.Set("shorthand", true)
	first := estree.Property(ident("a"), estree.NumberLiteral(1))
	first.Range = estree.Range{8, 12}
	obj := estree.ObjectExpression(first, short)
	obj.Range = estree.Range{4, 19}

	out, err := Print(estree.Program(stmt(estree.AssignmentExpression("=", ident("x"), obj))), code, DefaultOptions())
	require.NoError(t, err)
	require.Equal(t, code, out)

	out = printSynthetic(t, stmt(estree.AssignmentExpression("=", ident("x"),
		estree.ObjectExpression(estree.Property(ident("a"), estree.NumberLiteral(1))),
	)))
	require.Equal(t, "x = { a: 1 };\n", out)
}

func TestPrintVerbatim(t *testing.T) {
	const code = "<div />;"
	jsx := estree.New("JSXElement", nil)
	jsx.Range = estree.Range{0, 7}
	out, err := Print(estree.Program(stmt(jsx)), code, DefaultOptions())
	require.NoError(t, err)
	require.Equal(t, "<div />;\n", out)

	_, err = Print(estree.Program(stmt(estree.New("JSXElement", nil))), "", DefaultOptions())
	require.True(t, ErrUnsupported.Is(err))
}
