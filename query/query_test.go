package query

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bblfsh/codemod/estree"
)

type tree struct {
	root          *estree.Node
	stmt, call    *estree.Node
	member        *estree.Node
	console, log  *estree.Node
	decl, id, one *estree.Node
}

// newTree builds:
//
//	console.log('x');
//	const a = 1;
func newTree() *tree {
	t := &tree{}
	t.console = estree.Identifier("console")
	t.log = estree.Identifier("log")
	t.member = estree.MemberExpression(t.console, t.log, false)
	t.call = estree.CallExpression(t.member, estree.StringLiteral("x"))
	t.stmt = estree.ExpressionStatement(t.call)
	t.id = estree.Identifier("a")
	t.one = estree.NumberLiteral(1)
	t.decl = estree.VariableDeclaration("const", estree.VariableDeclarator(t.id, t.one))
	t.root = estree.Program(t.stmt, t.decl)
	return t
}

func TestExecute(t *testing.T) {
	tr := newTree()
	cases := []struct {
		name string
		qu   string
		exp  []*estree.Node
	}{
		{name: "root", qu: "/", exp: []*estree.Node{tr.root}},
		{name: "root tag", qu: "/Program", exp: []*estree.Node{tr.root}},
		{name: "type", qu: "//CallExpression", exp: []*estree.Node{tr.call}},
		{name: "attr", qu: "//Identifier[@name='log']", exp: []*estree.Node{tr.log}},
		{name: "attr number", qu: "//VariableDeclaration//Literal[@value=1]", exp: []*estree.Node{tr.one}},
		{name: "number func", qu: "//Literal[number(@value)=1]", exp: []*estree.Node{tr.one}},
		{name: "attr string", qu: "//Literal[@value='x']", exp: []*estree.Node{tr.call.Children("arguments")[0]}},
		{name: "field text", qu: "//Identifier[name='a']", exp: []*estree.Node{tr.id}},
		{name: "path", qu: "//CallExpression/callee/MemberExpression/object/Identifier", exp: []*estree.Node{tr.console}},
		{name: "field", qu: "//CallExpression/callee", exp: []*estree.Node{tr.member}},
		{name: "array", qu: "/Program/body/ExpressionStatement", exp: []*estree.Node{tr.stmt}},
		{name: "array field", qu: "/Program/body", exp: nil},
		{name: "descendant", qu: "//VariableDeclaration[@kind='const']//Literal", exp: []*estree.Node{tr.one}},
		{name: "parent", qu: "//Identifier[@name='console']/../..", exp: []*estree.Node{tr.member}},
		{name: "no match", qu: "//FunctionDeclaration", exp: nil},
		{name: "order", qu: "//Identifier", exp: []*estree.Node{tr.console, tr.log, tr.id}},
	}
	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			out, err := Execute(tr.root, c.qu)
			require.NoError(t, err)
			require.Equal(t, c.exp, out)
		})
	}
}

func TestEval(t *testing.T) {
	tr := newTree()
	q := MustCompile("count(//Identifier)")
	v, err := q.Eval(tr.root)
	require.NoError(t, err)
	require.Equal(t, float64(3), v)

	q = MustCompile("//Literal")
	v, err = q.Eval(tr.root)
	require.NoError(t, err)
	require.Equal(t, []*estree.Node{tr.call.Children("arguments")[0], tr.one}, v)
	require.Equal(t, "//Literal", q.String())
}

func TestNumericCompareMixedLiterals(t *testing.T) {
	tr := newTree()
	for _, qu := range []string{
		"//Literal[@value=1]",
		"//Literal[1=@value]",
	} {
		out, err := Execute(tr.root, qu)
		require.True(t, ErrQuery.Is(err), "%s: %v", qu, err)
		require.Nil(t, out)

		q := MustCompile(qu)
		it := q.Iter(tr.root)
		for it.Next() {
		}
		require.Nil(t, it.Node())

		_, err = q.Eval(tr.root)
		require.True(t, ErrQuery.Is(err), qu)
	}

	_, err := MustCompile("count(//Literal[@value=1])").Eval(tr.root)
	require.True(t, ErrQuery.Is(err))
}

func TestInvalidQuery(t *testing.T) {
	_, err := Compile("")
	require.True(t, ErrQuery.Is(err))

	out, err := MustCompile("//Identifier").Execute(nil)
	require.NoError(t, err)
	require.Empty(t, out)
}
