package mutation

import (
	"github.com/bblfsh/codemod/comments"
	"github.com/bblfsh/codemod/estree"
)

type fieldRef struct {
	node *estree.Node
	key  string
}

// Context tracks the state shared by all mutations of a single transform:
// deleted nodes, mutated fields and the working source text.
type Context struct {
	code    string
	deleted map[*estree.Node]struct{}
	mutated map[fieldRef]struct{}

	// comments scheduled for removal after all structural mutations
	removed map[*estree.Comment]struct{}
}

var _ comments.Buffer = (*Context)(nil)

// NewContext creates a mutation context for the source code.
func NewContext(code string) *Context {
	return &Context{
		code:    code,
		deleted: make(map[*estree.Node]struct{}),
		mutated: make(map[fieldRef]struct{}),
		removed: make(map[*estree.Comment]struct{}),
	}
}

// Code returns the working source text.
func (c *Context) Code() string { return c.code }

// AppendCommentToSource extends the working source text.
func (c *Context) AppendCommentToSource(text string) {
	c.code += text
}

// MarkDeletion records that the node was removed from the tree. Calling it again has no effect.
func (c *Context) MarkDeletion(n *estree.Node) {
	if n == nil {
		return
	}
	c.deleted[n] = struct{}{}
}

// IsDeleted reports if the node was removed by one of the previous mutations.
func (c *Context) IsDeleted(n *estree.Node) bool {
	_, ok := c.deleted[n]
	return ok
}

// AssertNotDeleted fails with ErrDeletedNode if the node was removed by one of the previous mutations.
func (c *Context) AssertNotDeleted(n *estree.Node, action string) error {
	if c.IsDeleted(n) {
		return ErrDeletedNode.New(action, n.Type)
	}
	return nil
}

// MarkMutation records that the field of the node was changed.
func (c *Context) MarkMutation(n *estree.Node, key string) {
	c.mutated[fieldRef{node: n, key: key}] = struct{}{}
}

// IsMutated reports if the field of the node was changed.
func (c *Context) IsMutated(n *estree.Node, key string) bool {
	_, ok := c.mutated[fieldRef{node: n, key: key}]
	return ok
}

// RemoveScheduledComments drops all comments scheduled for removal from the tree.
// It returns the number of removed comments.
func (c *Context) RemoveScheduledComments(root *estree.Node) int {
	n := comments.Remove(root, c.removed)
	c.removed = make(map[*estree.Comment]struct{})
	return n
}
