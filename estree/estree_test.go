package estree

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const constDecl = `{
  "type": "Program",
  "range": [0, 12],
  "loc": {"start": {"line": 1, "column": 0}, "end": {"line": 1, "column": 12}},
  "sourceType": "module",
  "comments": [
    {"type": "Line", "value": " c", "range": [13, 17]}
  ],
  "docblock": {
    "comment": {"type": "Block", "value": "* @flow ", "range": [0, 0]},
    "directives": {"flow": [""]}
  },
  "body": [{
    "type": "VariableDeclaration",
    "range": [0, 12],
    "kind": "const",
    "declarations": [{
      "type": "VariableDeclarator",
      "range": [6, 11],
      "id": {"type": "Identifier", "range": [6, 7], "name": "x", "typeAnnotation": null, "optional": false},
      "init": {"type": "Literal", "range": [10, 11], "value": 1, "raw": "1"}
    }]
  }, {
    "type": "ExpressionStatement",
    "range": [12, 20],
    "expression": {
      "type": "Literal", "range": [12, 19], "value": null, "raw": "/a+/g",
      "regex": {"pattern": "a+", "flags": "g"}
    },
    "directive": null
  }]
}`

func decodeConst(t testing.TB) *File {
	f, err := FromJSON([]byte(constDecl))
	require.NoError(t, err)
	return f
}

func TestDecode(t *testing.T) {
	f := decodeConst(t)
	prog := f.Program
	require.Equal(t, "Program", prog.Type)
	require.False(t, prog.IsDetached())
	require.Equal(t, Range{0, 12}, prog.Range)
	require.Equal(t, &SourceLocation{End: Position{Line: 1, Column: 12}, Start: Position{Line: 1}}, prog.Loc)

	require.Len(t, f.Comments, 1)
	require.Equal(t, CommentLine, f.Comments[0].Type)
	require.Equal(t, "// c", f.Comments[0].Text())
	require.Equal(t, Range{13, 17}, f.Comments[0].Range)

	require.NotNil(t, f.Docblock)
	require.Equal(t, []string{""}, f.Docblock.Directives["flow"])
	require.True(t, prog.Docblock == f.Docblock)

	body := prog.Children("body")
	require.Len(t, body, 2)
	decl := body[0].Children("declarations")[0]
	require.True(t, decl.Parent == body[0])
	require.True(t, body[0].Parent == prog)

	lit := decl.Child("init")
	require.Equal(t, float64(1), lit.Props["value"])
	require.True(t, lit.Parent == decl)
	require.False(t, lit.IsDetached())

	re := body[1].Child("expression")
	require.Equal(t, map[string]interface{}{"pattern": "a+", "flags": "g"}, re.Props["regex"])
}

func TestDecodeUnknownType(t *testing.T) {
	_, err := FromJSON([]byte(`{"type":"Program","range":[0,1],"body":[{"type":"Mystery","range":[0,1]}]}`))
	require.Error(t, err)
	require.True(t, ErrUnknownNodeType.Is(err))
}

func TestMarshalRoundTrip(t *testing.T) {
	f := decodeConst(t)
	data, err := f.Program.MarshalJSON()
	require.NoError(t, err)

	f2, err := FromJSON(data)
	require.NoError(t, err)
	require.Equal(t, Dump(f.Program), Dump(f2.Program))
	require.Equal(t, f.Docblock.Directives, f2.Docblock.Directives)
}

func TestVisitorKeys(t *testing.T) {
	keys, err := VisitorKeys("IfStatement")
	require.NoError(t, err)
	require.Equal(t, []string{"test", "consequent", "alternate"}, keys)

	_, err = VisitorKeys("NoSuchNode")
	require.True(t, ErrUnknownNodeType.Is(err))

	RegisterVisitorKeys("NoSuchNode", "a")
	keys, err = VisitorKeys("NoSuchNode")
	require.NoError(t, err)
	require.Equal(t, []string{"a"}, keys)
	require.True(t, KnownType("NoSuchNode"))
}

func TestBuildersAreDetached(t *testing.T) {
	id := Identifier("x")
	stmt := ExpressionStatement(CallExpression(id))
	require.True(t, stmt.IsDetached())
	require.True(t, stmt.Range.IsZero())
	require.Nil(t, stmt.Loc)

	call := stmt.Child("expression")
	require.True(t, call.Parent == stmt)
	require.True(t, id.Parent == call)
}

func TestShallowClone(t *testing.T) {
	f := decodeConst(t)
	decl := f.Program.Children("body")[0]
	d := decl.Children("declarations")[0]

	c := ShallowClone(d, Props{"init": BooleanLiteral(true)})
	require.True(t, c.IsDetached())
	require.Equal(t, d.Range, c.Range)
	require.True(t, c.Child("id") == d.Child("id"), "children must be shared")
	require.Equal(t, true, c.Child("init").Props["value"])
	require.Equal(t, float64(1), d.Child("init").Props["value"])

	// the original keeps ownership until the clone is attached
	require.True(t, d.Child("id").Parent == d)
}

func TestDeepClone(t *testing.T) {
	f := decodeConst(t)
	decl := f.Program.Children("body")[0]
	decl.Comments = []*Comment{{Type: CommentBlock, Value: " a ", Leading: true}}

	c := DeepClone(decl, nil)
	require.True(t, c.IsDetached())
	require.Nil(t, c.Parent)
	require.Equal(t, Dump(decl), Dump(c))

	d := c.Children("declarations")[0]
	require.False(t, d == decl.Children("declarations")[0])
	require.True(t, d.Parent == c)
	require.True(t, d.Child("id").Parent == d)
	require.True(t, d.IsDetached())

	require.Len(t, c.Comments, 1)
	require.False(t, c.Comments[0] == decl.Comments[0])
	require.Equal(t, *decl.Comments[0], *c.Comments[0])
}

func TestAsDetached(t *testing.T) {
	f := decodeConst(t)
	decl := f.Program.Children("body")[0]

	id := Identifier("y")
	require.True(t, AsDetached(id, false) == id)

	c := AsDetached(decl, false)
	require.False(t, c == decl)
	require.True(t, c.Children("declarations")[0] == decl.Children("declarations")[0])

	c = AsDetached(decl, true)
	require.False(t, c.Children("declarations")[0] == decl.Children("declarations")[0])
}

func TestUpdateAllParentPointers(t *testing.T) {
	id := Identifier("x")
	call := CallExpression(Identifier("f"), id)
	stmt := ExpressionStatement(call)
	block := BlockStatement(stmt)

	id.Parent = nil
	require.NoError(t, UpdateAllParentPointers(block))
	require.True(t, id.Parent == call)
	require.False(t, id.IsDetached())
	require.True(t, block.IsDetached())

	block.Props["body"] = []*Node{New("Mystery2", nil)}
	require.True(t, ErrUnknownNodeType.Is(UpdateAllParentPointers(block)))
}

func TestMemberChain(t *testing.T) {
	n := MemberChain("a.b.c")
	require.Equal(t, "MemberExpression\n  MemberExpression\n    Identifier a\n    Identifier b\n  Identifier c\n", Dump(n))
}
