package mutation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bblfsh/codemod/comments"
	"github.com/bblfsh/codemod/estree"
)

func attach(t testing.TB, root *estree.Node) *estree.Node {
	require.NoError(t, estree.UpdateAllParentPointers(root))
	return root
}

func stmt(name string) *estree.Node {
	return estree.ExpressionStatement(estree.CallExpression(estree.Identifier(name)))
}

func names(arr []*estree.Node) []string {
	var out []string
	for _, n := range arr {
		out = append(out, n.Child("expression").Child("callee").Str("name"))
	}
	return out
}

func apply(t testing.TB, ctx *Context, muts ...Mutation) {
	for _, m := range muts {
		root, err := Apply(ctx, m)
		require.NoError(t, err)
		if root != nil {
			require.NoError(t, estree.UpdateAllParentPointers(root))
		}
	}
}

func TestStatementParent(t *testing.T) {
	a, b := stmt("a"), stmt("b")
	test := estree.Identifier("c")
	ifs := estree.IfStatement(test, a, nil)
	prog := attach(t, estree.Program(ifs, b))

	slot, err := StatementParent(a)
	require.NoError(t, err)
	require.Equal(t, Slot{Kind: SlotSingle, Parent: ifs, Key: "consequent", Index: -1}, slot)

	slot, err = StatementParent(b)
	require.NoError(t, err)
	require.Equal(t, Slot{Kind: SlotArray, Parent: prog, Key: "body", Index: 1}, slot)

	_, err = StatementParent(test)
	require.True(t, ErrInvalidStatement.Is(err))
	require.Contains(t, err.Error(), "IfStatement.test")

	call := a.Child("expression")
	_, err = StatementParent(call)
	require.True(t, ErrInvalidStatement.Is(err))
	require.Contains(t, err.Error(), "expected a valid statement parent, found ExpressionStatement")

	// stale reference to a statement which is no longer in the array
	prog.Props["body"] = []*estree.Node{ifs}
	_, err = StatementParent(b)
	require.True(t, ErrInvalidStatement.Is(err))
	require.Contains(t, err.Error(), "could not find target in parent array")
}

func TestStatementParentSwitchCase(t *testing.T) {
	a := stmt("a")
	sc := estree.New("SwitchCase", estree.Props{"test": estree.NumberLiteral(1), "consequent": []*estree.Node{a}})
	sw := estree.New("SwitchStatement", estree.Props{"discriminant": estree.Identifier("x"), "cases": []*estree.Node{sc}})
	attach(t, estree.Program(sw))

	slot, err := StatementParent(a)
	require.NoError(t, err)
	require.Equal(t, SlotArray, slot.Kind)
	require.Equal(t, "consequent", slot.Key)
	require.Equal(t, 0, slot.Index)

	_, err = StatementParent(sc.Child("test"))
	require.True(t, ErrInvalidStatement.Is(err))
}

func TestInsertStatementArray(t *testing.T) {
	a, b, c := stmt("a"), stmt("b"), stmt("c")
	prog := attach(t, estree.Program(a, b, c))
	ctx := NewContext("")

	apply(t, ctx,
		NewInsertStatement(Before, b, []*estree.Node{stmt("x"), stmt("y")}),
		NewInsertStatement(After, c, []*estree.Node{stmt("z")}),
	)
	require.Equal(t, []string{"a", "x", "y", "b", "c", "z"}, names(prog.Children("body")))
	for _, n := range prog.Children("body") {
		require.True(t, n.Parent == prog)
		require.False(t, n.IsDetached())
	}
	require.True(t, ctx.IsMutated(prog, "body"))
}

func TestInsertStatementSingle(t *testing.T) {
	a := stmt("a")
	ifs := estree.IfStatement(estree.BooleanLiteral(true), a, nil)
	attach(t, estree.Program(ifs))
	ctx := NewContext("")

	apply(t, ctx, NewInsertStatement(Before, a, []*estree.Node{stmt("x")}))
	block := ifs.Child("consequent")
	require.Equal(t, "BlockStatement", block.Type)
	require.Equal(t, []string{"x", "a"}, names(block.Children("body")))
	require.True(t, a.Parent == block)
	require.True(t, block.Parent == ifs)

	// the target lives in the block now, following inserts use the array
	apply(t, ctx, NewInsertStatement(After, a, []*estree.Node{stmt("y")}))
	require.True(t, ifs.Child("consequent") == block)
	require.Equal(t, []string{"x", "a", "y"}, names(block.Children("body")))
}

func TestInsertModuleDeclaration(t *testing.T) {
	a := stmt("a")
	fnc := estree.FunctionDeclaration(estree.Identifier("f"), nil, estree.BlockStatement(a))
	prog := attach(t, estree.Program(fnc))
	ctx := NewContext("")

	imp := estree.ImportDeclaration(nil, estree.StringLiteral("mod"))
	_, err := Apply(ctx, NewInsertStatement(Before, a, []*estree.Node{imp}))
	require.True(t, ErrInvalidInsertion.Is(err))

	apply(t, ctx, NewInsertStatement(Before, fnc, []*estree.Node{imp}))
	require.True(t, prog.Children("body")[0] == imp)
}

func TestReplaceNode(t *testing.T) {
	one := estree.NumberLiteral(1)
	decl := estree.VariableDeclarator(estree.Identifier("x"), one)
	attach(t, estree.Program(estree.VariableDeclaration("const", decl)))
	ctx := NewContext("")

	repl := estree.BooleanLiteral(true)
	apply(t, ctx, NewReplaceNode(one, repl, false))
	require.True(t, decl.Child("init") == repl)
	require.True(t, repl.Parent == decl)
	require.False(t, repl.IsDetached())
	require.True(t, ctx.IsDeleted(one))
	require.True(t, ctx.IsMutated(decl, "init"))

	// replaced nodes cannot be mutated again
	_, err := Apply(ctx, NewReplaceNode(one, estree.NullLiteral(), false))
	require.True(t, ErrDeletedNode.Is(err))
	require.Contains(t, err.Error(), "mutate around a deleted node")
}

func TestReplaceNodeInArray(t *testing.T) {
	a, b := estree.Identifier("a"), estree.Identifier("b")
	call := estree.CallExpression(estree.Identifier("f"), a, b)
	attach(t, estree.Program(estree.ExpressionStatement(call)))
	ctx := NewContext("")

	c := estree.Identifier("c")
	apply(t, ctx, NewReplaceNode(b, c, false))
	require.Equal(t, []*estree.Node{a, c}, call.Children("arguments"))
	require.True(t, c.Parent == call)
}

func TestReplaceNodeComments(t *testing.T) {
	for _, keep := range []bool{false, true} {
		a := stmt("a")
		cm := &estree.Comment{Type: estree.CommentLine, Value: " note", Leading: true}
		a.Comments = []*estree.Comment{cm}
		attach(t, estree.Program(a))
		ctx := NewContext("")

		repl := stmt("b")
		apply(t, ctx, NewReplaceNode(a, repl, keep))
		if keep {
			require.Equal(t, []*estree.Comment{cm}, repl.Comments)
			require.Empty(t, a.Comments)
		} else {
			require.Empty(t, repl.Comments)
		}
	}
}

func TestStaleInsert(t *testing.T) {
	a := stmt("a")
	attach(t, estree.Program(a))
	ctx := NewContext("")

	apply(t, ctx, NewReplaceNode(a, stmt("b"), false))
	_, err := Apply(ctx, NewInsertStatement(Before, a, []*estree.Node{stmt("c")}))
	require.True(t, ErrDeletedNode.Is(err))
}

func TestReplaceStatementWithMany(t *testing.T) {
	a, b := stmt("a"), stmt("b")
	cm := &estree.Comment{Type: estree.CommentBlock, Value: " c ", Leading: true}
	a.Comments = []*estree.Comment{cm}
	prog := attach(t, estree.Program(a, b))
	ctx := NewContext("")

	x, y := stmt("x"), stmt("y")
	apply(t, ctx, NewReplaceStatementWithMany(a, []*estree.Node{x, y}, true))
	require.Equal(t, []string{"x", "y", "b"}, names(prog.Children("body")))
	require.Equal(t, []*estree.Comment{cm}, x.Comments)
	require.True(t, ctx.IsDeleted(a))

	// single statement position
	c := stmt("c")
	ws := estree.New("WhileStatement", estree.Props{"test": estree.Identifier("t"), "body": c})
	attach(t, estree.Program(ws))
	apply(t, ctx, NewReplaceStatementWithMany(c, []*estree.Node{stmt("d"), stmt("e")}, false))
	require.Equal(t, "BlockStatement", ws.Child("body").Type)
	require.Equal(t, []string{"d", "e"}, names(ws.Child("body").Children("body")))

	d := ws.Child("body").Children("body")[0]
	f := stmt("f")
	apply(t, ctx, NewReplaceStatementWithMany(d, []*estree.Node{f}, false))
	require.Equal(t, []string{"f", "e"}, names(ws.Child("body").Children("body")))
}

func TestRemoveStatement(t *testing.T) {
	a, b, c := stmt("a"), stmt("b"), stmt("c")
	ifs := estree.IfStatement(estree.Identifier("t"), c, nil)
	prog := attach(t, estree.Program(a, b, ifs))
	ctx := NewContext("")

	apply(t, ctx, NewRemoveStatement(b), NewRemoveStatement(c))
	require.Len(t, prog.Children("body"), 2)
	require.True(t, prog.Children("body")[0] == a)

	block := ifs.Child("consequent")
	require.NotNil(t, block)
	require.Equal(t, "BlockStatement", block.Type)
	require.Empty(t, block.Children("body"))
	require.True(t, block.Parent == ifs)

	_, err := Apply(ctx, NewRemoveStatement(b))
	require.True(t, ErrDeletedNode.Is(err))
}

func TestRemoveNode(t *testing.T) {
	x := estree.VariableDeclarator(estree.Identifier("x"), nil)
	y := estree.VariableDeclarator(estree.Identifier("y"), nil)
	decl := estree.VariableDeclaration("let", x, y)
	p1, p2 := estree.Identifier("p1"), estree.Identifier("p2")
	fnc := estree.FunctionDeclaration(estree.Identifier("f"), []*estree.Node{p1, p2}, estree.BlockStatement())
	arg := estree.Identifier("arg")
	call := estree.CallExpression(estree.Identifier("g"), arg)
	attach(t, estree.Program(decl, fnc, estree.ExpressionStatement(call)))
	ctx := NewContext("")

	apply(t, ctx, NewRemoveNode(x), NewRemoveNode(p2))
	require.Equal(t, []*estree.Node{y}, decl.Children("declarations"))
	require.Equal(t, []*estree.Node{p1}, fnc.Children("params"))
	require.True(t, ctx.IsDeleted(x))

	_, err := Apply(ctx, NewRemoveNode(arg))
	require.True(t, ErrInvalidRemoval.Is(err))
	msg := err.Error()
	require.Contains(t, msg, "Identifier")
	require.Contains(t, msg, "CallExpression")
	require.Contains(t, msg, "ArrowFunctionExpression, FunctionDeclaration, FunctionExpression")

	_, err = Apply(ctx, NewRemoveNode(call))
	require.True(t, ErrInvalidRemoval.Is(err))
}

func TestModifyNodeInPlace(t *testing.T) {
	one := estree.NumberLiteral(1)
	id := estree.Identifier("x")
	decl := estree.VariableDeclarator(id, one)
	attach(t, estree.Program(estree.VariableDeclaration("const", decl)))
	ctx := NewContext("")

	two := estree.NumberLiteral(2)
	apply(t, ctx, NewModifyNodeInPlace(decl, estree.Props{"init": two, "id": id}))
	require.True(t, decl.Child("init") == two)
	require.True(t, two.Parent == decl)
	require.True(t, ctx.IsDeleted(one))
	require.False(t, ctx.IsDeleted(id))
	require.True(t, ctx.IsMutated(decl, "init"))
	require.True(t, ctx.IsMutated(decl, "id"))

	_, err := Apply(ctx, NewReplaceNode(one, estree.NumberLiteral(3), false))
	require.True(t, ErrDeletedNode.Is(err))
}

func TestComments(t *testing.T) {
	const code = "a();"
	a := stmt("a")
	prog := attach(t, estree.Program(a))
	ctx := NewContext(code)

	line := &estree.Comment{Type: estree.CommentLine, Value: " hi"}
	apply(t, ctx, NewAddComments(a, []CommentPlacement{{Comment: line, Placement: comments.LeadingOwnLine}}))
	require.Len(t, a.Comments, 1)
	added := a.Comments[0]
	require.False(t, added == line)
	require.True(t, added.Leading)
	// line comments are printed from the working text
	require.True(t, strings.HasPrefix(ctx.Code(), code))
	require.Equal(t, "// hi", ctx.Code()[added.Range.Start():added.Range.End()])

	b := stmt("b")
	apply(t, ctx,
		NewCloneCommentsTo(a, b),
		NewRemoveComment(added),
	)
	require.Len(t, b.Comments, 1)
	// removal is deferred
	require.Len(t, a.Comments, 1)

	require.Equal(t, 1, ctx.RemoveScheduledComments(prog))
	require.Empty(t, a.Comments)
	// b is not in the tree
	require.Len(t, b.Comments, 1)
}

func TestArrays(t *testing.T) {
	a, b, c := stmt("a"), stmt("b"), stmt("c")
	arr := []*estree.Node{a, b}
	require.Equal(t, []*estree.Node{c, a, b}, insertInArray(arr, 0, []*estree.Node{c}))
	require.Equal(t, []*estree.Node{a, b, c}, insertInArray(arr, 2, []*estree.Node{c}))
	require.Equal(t, []*estree.Node{b}, removeFromArray(arr, 0))
	require.Equal(t, []*estree.Node{a, c, c}, replaceInArray(arr, 1, []*estree.Node{c, c}))
	require.Equal(t, []*estree.Node{b}, replaceInArray(arr, 0, nil))
	// the original array is left intact
	require.Equal(t, []*estree.Node{a, b}, arr)
}
