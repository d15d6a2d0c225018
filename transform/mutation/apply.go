package mutation

import (
	"fmt"
	"sort"

	"github.com/bblfsh/codemod/comments"
	"github.com/bblfsh/codemod/estree"
)

// Apply performs a single mutation. It returns the root of the changed subtree, or nil if the
// tree structure was not changed. The caller is responsible for repairing parent pointers in
// the returned subtree.
//
// Comment removal is only scheduled by Apply, see Context.RemoveScheduledComments.
func Apply(ctx *Context, m Mutation) (*estree.Node, error) {
	switch m := m.(type) {
	case *InsertStatement:
		return applyInsertStatement(ctx, m)
	case *ReplaceNode:
		return applyReplaceNode(ctx, m)
	case *ReplaceStatementWithMany:
		return applyReplaceStatementWithMany(ctx, m)
	case *RemoveNode:
		return applyRemoveNode(ctx, m)
	case *RemoveStatement:
		return applyRemoveStatement(ctx, m)
	case *ModifyNodeInPlace:
		return applyModifyNodeInPlace(ctx, m)
	case *AddComments:
		return nil, applyAddComments(ctx, m)
	case *RemoveComment:
		if m.Comment != nil {
			ctx.removed[m.Comment] = struct{}{}
		}
		return nil, nil
	case *CloneCommentsTo:
		if err := ctx.AssertNotDeleted(m.Destination, "clone comments to"); err != nil {
			return nil, err
		}
		comments.CloneTo(m.Target, m.Destination)
		return nil, nil
	}
	panic(fmt.Errorf("unexpected mutation: %T", m))
}

func applyInsertStatement(ctx *Context, m *InsertStatement) (*estree.Node, error) {
	if err := ctx.AssertNotDeleted(m.Target, "insert "+m.Side.String()); err != nil {
		return nil, err
	}
	slot, err := StatementParent(m.Target)
	if err != nil {
		return nil, err
	}
	if !validModuleParent(slot.Parent, m.Nodes) {
		return nil, ErrInvalidInsertion.New(slot.Parent.Type)
	}
	ctx.MarkMutation(slot.Parent, slot.Key)
	parent := slot.Parent
	if slot.Kind == SlotArray {
		i := slot.Index
		if m.Side == After {
			i++
		}
		parent.Props[slot.Key] = insertInArray(parent.Children(slot.Key), i, m.Nodes)
		return parent, nil
	}
	// a single statement position is converted into a block holding all statements
	var body []*estree.Node
	if m.Side == Before {
		body = append(append(body, m.Nodes...), m.Target)
	} else {
		body = append(append(body, m.Target), m.Nodes...)
	}
	block := estree.BlockStatement(body...)
	block.Parent = parent
	parent.Props[slot.Key] = block
	return parent, nil
}

// findSlot returns a field of the parent holding the target, and its index for array fields.
func findSlot(parent, target *estree.Node) (string, int, error) {
	keys, err := estree.VisitorKeys(parent.Type)
	if err != nil {
		return "", 0, err
	}
	for _, k := range keys {
		switch v := parent.Props[k].(type) {
		case *estree.Node:
			if v == target {
				return k, -1, nil
			}
		case []*estree.Node:
			if i := estree.IndexIn(v, target); i >= 0 {
				return k, i, nil
			}
		}
	}
	return "", 0, ErrNotInParent.New(target.Type, parent.Type)
}

func applyReplaceNode(ctx *Context, m *ReplaceNode) (*estree.Node, error) {
	if err := ctx.AssertNotDeleted(m.Target, "replace"); err != nil {
		return nil, err
	}
	if m.Replacement == nil {
		return nil, ErrInvalidReplacement.New(m.Target.Type, "replacement is nil")
	}
	parent := m.Target.Parent
	if parent == nil {
		return nil, ErrInvalidReplacement.New(m.Target.Type, "node has no parent")
	}
	key, i, err := findSlot(parent, m.Target)
	if err != nil {
		return nil, err
	}
	if !validModuleParent(parent, []*estree.Node{m.Replacement}) {
		return nil, ErrInvalidInsertion.New(parent.Type)
	}
	ctx.MarkDeletion(m.Target)
	ctx.MarkMutation(parent, key)
	if m.KeepComments {
		comments.MoveToNewNode(m.Target, m.Replacement)
	}
	if i < 0 {
		parent.Props[key] = m.Replacement
	} else {
		parent.Props[key] = replaceInArray(parent.Children(key), i, []*estree.Node{m.Replacement})
	}
	m.Replacement.Parent = parent
	return parent, nil
}

func applyReplaceStatementWithMany(ctx *Context, m *ReplaceStatementWithMany) (*estree.Node, error) {
	if err := ctx.AssertNotDeleted(m.Target, "replace"); err != nil {
		return nil, err
	}
	slot, err := StatementParent(m.Target)
	if err != nil {
		return nil, err
	}
	if !validModuleParent(slot.Parent, m.Nodes) {
		return nil, ErrInvalidInsertion.New(slot.Parent.Type)
	}
	ctx.MarkDeletion(m.Target)
	ctx.MarkMutation(slot.Parent, slot.Key)
	if m.KeepComments && len(m.Nodes) != 0 {
		comments.MoveToNewNode(m.Target, m.Nodes[0])
	}
	parent := slot.Parent
	if slot.Kind == SlotArray {
		parent.Props[slot.Key] = replaceInArray(parent.Children(slot.Key), slot.Index, m.Nodes)
		return parent, nil
	}
	var repl *estree.Node
	if len(m.Nodes) == 1 {
		repl = m.Nodes[0]
	} else {
		repl = estree.BlockStatement(m.Nodes...)
	}
	repl.Parent = parent
	parent.Props[slot.Key] = repl
	return parent, nil
}

func applyRemoveNode(ctx *Context, m *RemoveNode) (*estree.Node, error) {
	if err := ctx.AssertNotDeleted(m.Node, "remove"); err != nil {
		return nil, err
	}
	key, err := removalField(m.Node)
	if err != nil {
		return nil, err
	}
	parent := m.Node.Parent
	arr := parent.Children(key)
	i := estree.IndexIn(arr, m.Node)
	if i < 0 {
		return nil, ErrNotInParent.New(m.Node.Type, parent.Type)
	}
	ctx.MarkDeletion(m.Node)
	ctx.MarkMutation(parent, key)
	parent.Props[key] = removeFromArray(arr, i)
	return parent, nil
}

func applyRemoveStatement(ctx *Context, m *RemoveStatement) (*estree.Node, error) {
	if err := ctx.AssertNotDeleted(m.Node, "remove"); err != nil {
		return nil, err
	}
	slot, err := StatementParent(m.Node)
	if err != nil {
		return nil, err
	}
	ctx.MarkDeletion(m.Node)
	ctx.MarkMutation(slot.Parent, slot.Key)
	parent := slot.Parent
	if slot.Kind == SlotArray {
		parent.Props[slot.Key] = removeFromArray(parent.Children(slot.Key), slot.Index)
		return parent, nil
	}
	// statement positions cannot be left empty
	block := estree.BlockStatement()
	block.Parent = parent
	parent.Props[slot.Key] = block
	return parent, nil
}

func applyModifyNodeInPlace(ctx *Context, m *ModifyNodeInPlace) (*estree.Node, error) {
	if err := ctx.AssertNotDeleted(m.Target, "modify"); err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(m.Props))
	for k := range m.Props {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v := m.Props[k]
		kept := make(map[*estree.Node]struct{})
		switch v := v.(type) {
		case *estree.Node:
			kept[v] = struct{}{}
		case []*estree.Node:
			for _, c := range v {
				kept[c] = struct{}{}
			}
		}
		switch old := m.Target.Props[k].(type) {
		case *estree.Node:
			if _, ok := kept[old]; !ok {
				ctx.MarkDeletion(old)
			}
		case []*estree.Node:
			for _, c := range old {
				if _, ok := kept[c]; !ok {
					ctx.MarkDeletion(c)
				}
			}
		}
		ctx.MarkMutation(m.Target, k)
		m.Target.Set(k, v)
	}
	return m.Target, nil
}

func applyAddComments(ctx *Context, m *AddComments) error {
	if err := ctx.AssertNotDeleted(m.Node, "add comments to"); err != nil {
		return err
	}
	placer := comments.SourcePlacer{Buf: ctx}
	for _, cp := range m.Comments {
		// the same comment may be added to multiple nodes
		c := *cp.Comment
		comments.Add(m.Node, &c, cp.Placement, placer)
	}
	return nil
}

func insertInArray(arr []*estree.Node, i int, nodes []*estree.Node) []*estree.Node {
	out := make([]*estree.Node, 0, len(arr)+len(nodes))
	out = append(out, arr[:i]...)
	out = append(out, nodes...)
	return append(out, arr[i:]...)
}

func removeFromArray(arr []*estree.Node, i int) []*estree.Node {
	out := make([]*estree.Node, 0, len(arr)-1)
	out = append(out, arr[:i]...)
	return append(out, arr[i+1:]...)
}

func replaceInArray(arr []*estree.Node, i int, nodes []*estree.Node) []*estree.Node {
	out := make([]*estree.Node, 0, len(arr)-1+len(nodes))
	out = append(out, arr[:i]...)
	out = append(out, nodes...)
	return append(out, arr[i+1:]...)
}
