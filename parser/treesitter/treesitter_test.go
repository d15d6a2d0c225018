package treesitter

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bblfsh/codemod/estree"
	"github.com/bblfsh/codemod/parser"
)

func parse(t testing.TB, code string) *parser.Result {
	res, err := New().Parse(context.Background(), code, parser.Options{})
	require.NoError(t, err)
	return res
}

func TestParseStatements(t *testing.T) {
	res := parse(t, "const x = 1;\nif (x) {\n  foo(x, 'a');\n} else bar();\n")
	prog := res.AST
	require.Equal(t, "Program", prog.Type)
	body := prog.Children("body")
	require.Len(t, body, 2)

	decl := body[0]
	require.Equal(t, "VariableDeclaration", decl.Type)
	require.Equal(t, "const", decl.Str("kind"))
	d := decl.Children("declarations")[0]
	require.Equal(t, "x", d.Child("id").Str("name"))
	v, _ := d.Child("init").Get("value")
	require.Equal(t, float64(1), v)
	require.Equal(t, estree.Range{0, 12}, decl.Range)

	ifs := body[1]
	require.Equal(t, "IfStatement", ifs.Type)
	require.Equal(t, "Identifier", ifs.Child("test").Type)
	cons := ifs.Child("consequent")
	require.Equal(t, "BlockStatement", cons.Type)
	call := cons.Children("body")[0].Child("expression")
	require.Equal(t, "CallExpression", call.Type)
	args := call.Children("arguments")
	require.Len(t, args, 2)
	s, _ := args[1].Get("value")
	require.Equal(t, "a", s)
	require.Equal(t, "'a'", args[1].Str("raw"))
	require.Equal(t, "ExpressionStatement", ifs.Child("alternate").Type)

	// parent pointers are set and nodes are attached
	require.True(t, call.Parent.Parent == cons)
	require.False(t, call.IsDetached())
	require.Equal(t, 1, decl.Loc.Start.Line)
	require.Equal(t, 2, ifs.Loc.Start.Line)
}

func TestParseExpressions(t *testing.T) {
	res := parse(t, "a = b + c * d && !e;\nx++;\n[1, , 2];\n({ a: 1, b, [c]: 2 });\n")
	body := res.AST.Children("body")
	require.Len(t, body, 4)

	assign := body[0].Child("expression")
	require.Equal(t, "AssignmentExpression", assign.Type)
	and := assign.Child("right")
	require.Equal(t, "LogicalExpression", and.Type)
	require.Equal(t, "&&", and.Str("operator"))
	sum := and.Child("left")
	require.Equal(t, "+", sum.Str("operator"))
	require.Equal(t, "*", sum.Child("right").Str("operator"))
	require.Equal(t, "UnaryExpression", and.Child("right").Type)

	upd := body[1].Child("expression")
	require.Equal(t, "UpdateExpression", upd.Type)
	require.False(t, upd.Bool("prefix"))

	arr := body[2].Child("expression")
	elems := arr.Children("elements")
	require.Len(t, elems, 3)
	require.Nil(t, elems[1])

	obj := body[3].Child("expression")
	require.Equal(t, "ObjectExpression", obj.Type)
	props := obj.Children("properties")
	require.Len(t, props, 3)
	require.True(t, props[1].Bool("shorthand"))
	require.True(t, props[2].Bool("computed"))
	require.Equal(t, "c", props[2].Child("key").Str("name"))
}

func TestParseFunctions(t *testing.T) {
	res := parse(t, "async function f(a, b = 1, ...c) {\n  'use strict';\n  return a;\n}\nconst g = (x) => x * 2;\n")
	body := res.AST.Children("body")
	fnc := body[0]
	require.Equal(t, "FunctionDeclaration", fnc.Type)
	require.True(t, fnc.Bool("async"))
	params := fnc.Children("params")
	require.Len(t, params, 3)
	require.Equal(t, "AssignmentPattern", params[1].Type)
	require.Equal(t, "RestElement", params[2].Type)
	stmts := fnc.Child("body").Children("body")
	require.Equal(t, "use strict", stmts[0].Str("directive"))

	arrow := body[1].Children("declarations")[0].Child("init")
	require.Equal(t, "ArrowFunctionExpression", arrow.Type)
	require.True(t, arrow.Bool("expression"))
	require.Equal(t, "BinaryExpression", arrow.Child("body").Type)
}

func TestParseModules(t *testing.T) {
	res := parse(t, "import React, { useState as use } from 'react';\nexport const a = 1;\nexport { a as b };\nexport default a;\n")
	body := res.AST.Children("body")
	require.Len(t, body, 4)

	imp := body[0]
	require.Equal(t, "ImportDeclaration", imp.Type)
	specs := imp.Children("specifiers")
	require.Len(t, specs, 2)
	require.Equal(t, "ImportDefaultSpecifier", specs[0].Type)
	require.Equal(t, "useState", specs[1].Child("imported").Str("name"))
	require.Equal(t, "use", specs[1].Child("local").Str("name"))

	require.Equal(t, "ExportNamedDeclaration", body[1].Type)
	require.Equal(t, "VariableDeclaration", body[1].Child("declaration").Type)
	spec := body[2].Children("specifiers")[0]
	require.Equal(t, "b", spec.Child("exported").Str("name"))
	require.Equal(t, "ExportDefaultDeclaration", body[3].Type)
}

func TestParseTemplate(t *testing.T) {
	res := parse(t, "`a${b}c`;")
	tpl := res.AST.Children("body")[0].Child("expression")
	require.Equal(t, "TemplateLiteral", tpl.Type)
	quasis := tpl.Children("quasis")
	require.Len(t, quasis, 2)
	require.Len(t, tpl.Children("expressions"), 1)
	v, _ := quasis[1].Get("value")
	require.Equal(t, "c", v.(map[string]interface{})["raw"])
	require.True(t, quasis[1].Bool("tail"))
}

func TestParseComments(t *testing.T) {
	const code = "/**\n * @flow\n */\n\n// line\nfoo(); /* block */\n"
	res := parse(t, code)
	require.Len(t, res.Comments, 3)
	require.Equal(t, estree.CommentBlock, res.Comments[0].Type)
	require.Equal(t, estree.CommentLine, res.Comments[1].Type)
	require.Equal(t, " line", res.Comments[1].Value)
	require.Equal(t, " block ", res.Comments[2].Value)
	require.NotNil(t, res.Docblock)
	require.True(t, parser.HasFlowDirective(res.Docblock))
	require.Len(t, res.AST.Children("body"), 1)
}

func TestParseErrors(t *testing.T) {
	for _, code := range []string{
		"foo(;",
		"if (a { b(); }",
		"const x = ;",
		"foo(1, 2",
		"a = [1, 2;",
	} {
		_, err := New().Parse(context.Background(), code, parser.Options{})
		require.True(t, parser.ErrSyntax.Is(err), "%q: %v", code, err)
	}

	_, err := New().Parse(context.Background(), "foo(1);\nbar(2);\n", parser.Options{})
	require.NoError(t, err)

	_, err = New().Parse(context.Background(), "class A {}", parser.Options{})
	require.True(t, ErrUnsupported.Is(err))
}

func TestLiterals(t *testing.T) {
	require.Equal(t, "a\nb\tc'\"\\", unescape(`a\nb\tc\'\"\\`))
	require.Equal(t, "Aé😀", unescape(`\x41é😀`))
	require.Equal(t, "😀", unescape(`\u{1F600}`))
	require.Equal(t, "ab", unescape("a\\\nb"))

	v, big := numberValue("0x1F")
	require.Equal(t, float64(31), v)
	require.Equal(t, "", big)
	v, _ = numberValue("1_000.5")
	require.Equal(t, 1000.5, v)
	_, big = numberValue("10n")
	require.Equal(t, "10", big)
	v, _ = numberValue("017")
	require.Equal(t, float64(15), v)
}
