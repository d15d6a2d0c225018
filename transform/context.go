package transform

import (
	"github.com/bblfsh/codemod/comments"
	"github.com/bblfsh/codemod/estree"
	"github.com/bblfsh/codemod/transform/mutation"
	"github.com/bblfsh/codemod/traverse"
)

// Option configures replacement mutations.
type Option func(o *replaceOptions)

type replaceOptions struct {
	keepComments bool
}

// KeepComments moves comments of the replaced node to the replacement (or to the first
// replacement node). Comments are moved, not cloned.
func KeepComments() Option {
	return func(o *replaceOptions) {
		o.keepComments = true
	}
}

func newReplaceOptions(opts []Option) replaceOptions {
	var o replaceOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Context is passed to visitors. Besides the traversal controls it collects mutations,
// which are applied once the traversal is complete.
//
// Nodes passed to mutation methods may be either detached (created by builders or clones)
// or taken from the tree. In the latter case they are cloned automatically.
type Context struct {
	*traverse.Context

	mutations []mutation.Mutation
}

func newContext(code string, root *estree.Node) *Context {
	return &Context{Context: traverse.NewContext(code, root)}
}

func (c *Context) push(m mutation.Mutation) {
	if m != nil {
		c.mutations = append(c.mutations, m)
	}
}

// Mutations returns the collected mutations in the order of collection.
func (c *Context) Mutations() []mutation.Mutation {
	return c.mutations
}

// ASTWasMutated reports if any mutation was collected.
func (c *Context) ASTWasMutated() bool {
	return len(c.mutations) > 0
}

// ShallowCloneNode creates a detached copy of the node which shares its children with the original.
func (c *Context) ShallowCloneNode(n *estree.Node) *estree.Node {
	if n == nil {
		return nil
	}
	return estree.ShallowClone(n, nil)
}

// ShallowCloneNodeWithOverrides is like ShallowCloneNode, but replaces fields of the copy.
func (c *Context) ShallowCloneNodeWithOverrides(n *estree.Node, props estree.Props) *estree.Node {
	if n == nil {
		return nil
	}
	return estree.ShallowClone(n, props)
}

// ShallowCloneArray shallow clones each node of the array. Holes are kept.
func (c *Context) ShallowCloneArray(nodes []*estree.Node) []*estree.Node {
	if nodes == nil {
		return nil
	}
	out := make([]*estree.Node, len(nodes))
	for i, n := range nodes {
		out[i] = c.ShallowCloneNode(n)
	}
	return out
}

// DeepCloneNode creates a detached copy of the whole subtree.
func (c *Context) DeepCloneNode(n *estree.Node) *estree.Node {
	if n == nil {
		return nil
	}
	return estree.DeepClone(n, nil)
}

// DeepCloneNodeWithOverrides is like DeepCloneNode, but replaces fields of the root copy.
func (c *Context) DeepCloneNodeWithOverrides(n *estree.Node, props estree.Props) *estree.Node {
	if n == nil {
		return nil
	}
	return estree.DeepClone(n, props)
}

// InsertBeforeStatement inserts nodes before the statement. If the statement is not in a
// statement list, it is wrapped into a block together with the new nodes.
func (c *Context) InsertBeforeStatement(target *estree.Node, nodes ...*estree.Node) error {
	return c.insertStatement(mutation.Before, target, nodes)
}

// InsertAfterStatement inserts nodes after the statement. See InsertBeforeStatement.
func (c *Context) InsertAfterStatement(target *estree.Node, nodes ...*estree.Node) error {
	return c.insertStatement(mutation.After, target, nodes)
}

func (c *Context) insertStatement(side mutation.Side, target *estree.Node, nodes []*estree.Node) error {
	if _, err := mutation.StatementParent(target); err != nil {
		return err
	}
	c.push(mutation.NewInsertStatement(side, target, estree.AsDetachedAll(nodes, true)))
	return nil
}

// ReplaceNode replaces the node with another one.
func (c *Context) ReplaceNode(target, replacement *estree.Node, opts ...Option) {
	o := newReplaceOptions(opts)
	c.push(mutation.NewReplaceNode(target, estree.AsDetached(replacement, false), o.keepComments))
}

// ReplaceStatementWithMany replaces the statement with a list of statements, keeping their order.
func (c *Context) ReplaceStatementWithMany(target *estree.Node, nodes []*estree.Node, opts ...Option) error {
	if _, err := mutation.StatementParent(target); err != nil {
		return err
	}
	o := newReplaceOptions(opts)
	c.push(mutation.NewReplaceStatementWithMany(target, estree.AsDetachedAll(nodes, false), o.keepComments))
	return nil
}

// RemoveNode removes the node from an array field of its parent. Only a fixed set of
// node and parent combinations is supported, the check happens when mutations are applied.
func (c *Context) RemoveNode(n *estree.Node) {
	c.push(mutation.NewRemoveNode(n))
}

// RemoveStatement removes the statement. A statement in a single statement slot is replaced with an empty block.
func (c *Context) RemoveStatement(n *estree.Node) error {
	if _, err := mutation.StatementParent(n); err != nil {
		return err
	}
	c.push(mutation.NewRemoveStatement(n))
	return nil
}

// ModifyNodeInPlace assigns fields of the node. Values which are current children of the
// node are kept as they are, other nodes taken from the tree are cloned.
func (c *Context) ModifyNodeInPlace(n *estree.Node, props estree.Props) {
	if n == nil {
		return
	}
	own := make(map[*estree.Node]struct{})
	_ = estree.EachChild(n, func(_ string, _ int, ch *estree.Node) {
		own[ch] = struct{}{}
	})
	detach := func(v *estree.Node) *estree.Node {
		if _, ok := own[v]; ok {
			return v
		}
		return estree.AsDetached(v, false)
	}
	out := make(estree.Props, len(props))
	for k, v := range props {
		switch v := v.(type) {
		case *estree.Node:
			out[k] = detach(v)
		case []*estree.Node:
			arr := make([]*estree.Node, len(v))
			for i, e := range v {
				arr[i] = detach(e)
			}
			out[k] = arr
		default:
			out[k] = v
		}
	}
	c.push(mutation.NewModifyNodeInPlace(n, out))
}

// GetComments returns all comments attached to the node.
func (c *Context) GetComments(n *estree.Node) []*estree.Comment {
	return append([]*estree.Comment(nil), comments.ForNode(n)...)
}

// GetLeadingComments returns comments printed before the node.
func (c *Context) GetLeadingComments(n *estree.Node) []*estree.Comment {
	return comments.Leading(n)
}

// GetTrailingComments returns comments printed after the node.
func (c *Context) GetTrailingComments(n *estree.Node) []*estree.Comment {
	return comments.Trailing(n)
}

func (c *Context) addComments(n *estree.Node, p comments.Placement, list []*estree.Comment) {
	if len(list) == 0 {
		return
	}
	cps := make([]mutation.CommentPlacement, 0, len(list))
	for _, cm := range list {
		cps = append(cps, mutation.CommentPlacement{Comment: cm, Placement: p})
	}
	c.push(mutation.NewAddComments(n, cps))
}

// AddLeadingComments adds comments on separate lines before the node.
func (c *Context) AddLeadingComments(n *estree.Node, list ...*estree.Comment) {
	c.addComments(n, comments.LeadingOwnLine, list)
}

// AddLeadingInlineComments adds comments before the node on the same line.
func (c *Context) AddLeadingInlineComments(n *estree.Node, list ...*estree.Comment) {
	c.addComments(n, comments.LeadingInline, list)
}

// AddTrailingComments adds comments on separate lines after the node.
func (c *Context) AddTrailingComments(n *estree.Node, list ...*estree.Comment) {
	c.addComments(n, comments.TrailingOwnLine, list)
}

// AddTrailingInlineComments adds comments after the node on the same line.
func (c *Context) AddTrailingInlineComments(n *estree.Node, list ...*estree.Comment) {
	c.addComments(n, comments.TrailingInline, list)
}

// CloneCommentsTo copies all comments of the target to the destination node.
func (c *Context) CloneCommentsTo(target, destination *estree.Node) {
	c.push(mutation.NewCloneCommentsTo(target, destination))
}

// RemoveComments removes comments from the tree once all other mutations were applied.
func (c *Context) RemoveComments(list ...*estree.Comment) {
	for _, cm := range list {
		c.push(mutation.NewRemoveComment(cm))
	}
}
