// Package mutation defines structural edits of ESTree trees and applies them while tracking
// deleted nodes, so edits referring to removed parts of the tree fail instead of being lost.
package mutation

import (
	"gopkg.in/src-d/go-errors.v1"

	"github.com/bblfsh/codemod/comments"
	"github.com/bblfsh/codemod/estree"
)

var (
	// ErrInvalidStatement is returned when a statement mutation targets a node that is not in a statement position.
	ErrInvalidStatement = errors.NewKind("invalid statement location: %s")
	// ErrInvalidRemoval is returned when a node cannot be removed from its parent.
	ErrInvalidRemoval = errors.NewKind("tried to remove %s from parent of type %s, but %s can only be safely removed from parent of type %s")
	// ErrInvalidReplacement is returned when the replaced node cannot be found in its parent.
	ErrInvalidReplacement = errors.NewKind("cannot replace %s: %s")
	// ErrDeletedNode is returned when a mutation targets a node removed by a previous mutation.
	ErrDeletedNode = errors.NewKind("attempted to %s a deleted %s node: this means another mutation already removed it, cannot mutate around a deleted node")
	// ErrInvalidInsertion is returned when import or export declarations are placed outside of a module body.
	ErrInvalidInsertion = errors.NewKind("module declarations can only be placed in a Program or a DeclareModule body, found %s")
	// ErrNotInParent is returned when the target node is not referenced by its parent anymore.
	ErrNotInParent = errors.NewKind("%s is not found in its parent %s")
)

// Mutation is a single edit of the tree. The set of mutations is closed: only types defined in
// this package implement it.
type Mutation interface {
	isMutation()
}

// Side selects where statements are inserted relative to the target.
type Side int

const (
	Before = Side(iota)
	After
)

func (s Side) String() string {
	if s == After {
		return "after"
	}
	return "before"
}

// InsertStatement inserts nodes before or after the target statement.
type InsertStatement struct {
	Side   Side
	Target *estree.Node
	Nodes  []*estree.Node
}

// ReplaceNode replaces the target with another node in the same field of the parent.
type ReplaceNode struct {
	Target       *estree.Node
	Replacement  *estree.Node
	KeepComments bool
}

// ReplaceStatementWithMany replaces the target statement with a list of statements.
type ReplaceStatementWithMany struct {
	Target       *estree.Node
	Nodes        []*estree.Node
	KeepComments bool
}

// RemoveNode removes a node from an array field of the parent. Only combinations of node and
// parent types known to be safe are allowed.
type RemoveNode struct {
	Node *estree.Node
}

// RemoveStatement removes a statement. A statement in a single-statement position is replaced
// with an empty block.
type RemoveStatement struct {
	Node *estree.Node
}

// ModifyNodeInPlace changes fields of the node without replacing the node itself.
type ModifyNodeInPlace struct {
	Target *estree.Node
	Props  estree.Props
}

// CommentPlacement is a comment with the requested placement.
type CommentPlacement struct {
	Comment   *estree.Comment
	Placement comments.Placement
}

// AddComments attaches new comments to the node.
type AddComments struct {
	Node     *estree.Node
	Comments []CommentPlacement
}

// RemoveComment removes the comment from whatever node it is attached to. Removal happens
// after all structural mutations.
type RemoveComment struct {
	Comment *estree.Comment
}

// CloneCommentsTo copies all comments of the target to the destination node.
type CloneCommentsTo struct {
	Target      *estree.Node
	Destination *estree.Node
}

func (*InsertStatement) isMutation()          {}
func (*ReplaceNode) isMutation()              {}
func (*ReplaceStatementWithMany) isMutation() {}
func (*RemoveNode) isMutation()               {}
func (*RemoveStatement) isMutation()          {}
func (*ModifyNodeInPlace) isMutation()        {}
func (*AddComments) isMutation()              {}
func (*RemoveComment) isMutation()            {}
func (*CloneCommentsTo) isMutation()          {}

func NewInsertStatement(side Side, target *estree.Node, nodes []*estree.Node) *InsertStatement {
	return &InsertStatement{Side: side, Target: target, Nodes: nodes}
}

func NewReplaceNode(target, replacement *estree.Node, keepComments bool) *ReplaceNode {
	return &ReplaceNode{Target: target, Replacement: replacement, KeepComments: keepComments}
}

func NewReplaceStatementWithMany(target *estree.Node, nodes []*estree.Node, keepComments bool) *ReplaceStatementWithMany {
	return &ReplaceStatementWithMany{Target: target, Nodes: nodes, KeepComments: keepComments}
}

func NewRemoveNode(n *estree.Node) *RemoveNode {
	return &RemoveNode{Node: n}
}

func NewRemoveStatement(n *estree.Node) *RemoveStatement {
	return &RemoveStatement{Node: n}
}

func NewModifyNodeInPlace(target *estree.Node, props estree.Props) *ModifyNodeInPlace {
	return &ModifyNodeInPlace{Target: target, Props: props}
}

func NewAddComments(n *estree.Node, list []CommentPlacement) *AddComments {
	return &AddComments{Node: n, Comments: list}
}

func NewRemoveComment(c *estree.Comment) *RemoveComment {
	return &RemoveComment{Comment: c}
}

func NewCloneCommentsTo(target, destination *estree.Node) *CloneCommentsTo {
	return &CloneCommentsTo{Target: target, Destination: destination}
}
