// Package estree defines a mutable ESTree node representation with parent
// back-references, and operations to clone, iterate and (de)serialize it.
package estree

import (
	"fmt"

	"gopkg.in/src-d/go-errors.v1"
)

var (
	// ErrUnknownNodeType is returned when no visitor keys are registered for a node type.
	ErrUnknownNodeType = errors.NewKind("unknown node type %q: no visitor keys registered")
	// ErrUnexpectedValue is returned when a decoded value cannot be represented as a node field.
	ErrUnexpectedValue = errors.NewKind("unexpected value for %s.%s: %T")
)

// Range is a half-open range of byte offsets in the source code.
type Range [2]int

// Start returns the first offset of the range.
func (r Range) Start() int { return r[0] }

// End returns the offset right after the last byte of the range.
func (r Range) End() int { return r[1] }

// IsZero reports if the range is a placeholder for a synthetic node.
func (r Range) IsZero() bool { return r[0] == 0 && r[1] == 0 }

// Contains checks if the other range lies fully inside this one.
func (r Range) Contains(o Range) bool {
	return r[0] <= o[0] && o[1] <= r[1]
}

// Position is a line and column pair. Lines are 1-based, columns are 0-based.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// SourceLocation is an ESTree "loc" object.
type SourceLocation struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// CommentType is either a Line or a Block comment.
type CommentType string

const (
	CommentLine  = CommentType("Line")
	CommentBlock = CommentType("Block")
)

// Comment is a source comment. Comments are attached to nodes by the
// comments package, which sets the Leading and Trailing flags.
type Comment struct {
	Type     CommentType
	Value    string
	Range    Range
	Loc      *SourceLocation
	Leading  bool
	Trailing bool
}

// Text returns the comment as it appears in the source.
func (c *Comment) Text() string {
	if c.Type == CommentLine {
		return "//" + c.Value
	}
	return "/*" + c.Value + "*/"
}

func (c *Comment) String() string {
	return fmt.Sprintf("%s%v", c.Text(), c.Range)
}

// Docblock is the leading block comment of a file together with
// the @directives found in it.
type Docblock struct {
	Comment    *Comment
	Directives map[string][]string
}

// Props holds all node fields except the type tag, positions and the
// parent pointer. A value is either a *Node, a []*Node (with possible nil
// holes) or a scalar: string, float64, bool, nil or a decoded JSON value.
type Props map[string]interface{}

// Node is a single ESTree node.
//
// Parent is a non-owning back-reference. For attached nodes it always points
// to the node holding this one in exactly one of its fields, except during
// mutation application.
type Node struct {
	Type     string
	Range    Range
	Loc      *SourceLocation
	Parent   *Node
	Comments []*Comment
	Props    Props

	// Docblock is only set on Program nodes.
	Docblock *Docblock

	detached bool
}

// New creates a detached node of a given type.
func New(typ string, props Props) *Node {
	if props == nil {
		props = make(Props)
	}
	n := &Node{Type: typ, Props: props, detached: true}
	setPropParents(n)
	return n
}

// IsDetached reports if the node was constructed or cloned, but was not placed into a tree yet.
func (n *Node) IsDetached() bool {
	return n != nil && n.detached
}

func (n *Node) String() string {
	if n == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s%v", n.Type, n.Range)
}

// Get returns a raw field value.
func (n *Node) Get(key string) (interface{}, bool) {
	if n == nil || n.Props == nil {
		return nil, false
	}
	v, ok := n.Props[key]
	return v, ok
}

// Set assigns a field value. It does not update parent pointers.
func (n *Node) Set(key string, v interface{}) {
	if n.Props == nil {
		n.Props = make(Props)
	}
	n.Props[key] = v
}

// Child returns a single child node stored in the field, or nil.
func (n *Node) Child(key string) *Node {
	v, _ := n.Get(key)
	c, _ := v.(*Node)
	return c
}

// Children returns an array of child nodes stored in the field.
func (n *Node) Children(key string) []*Node {
	v, _ := n.Get(key)
	arr, _ := v.([]*Node)
	return arr
}

// Str returns a string field, or an empty string.
func (n *Node) Str(key string) string {
	v, _ := n.Get(key)
	s, _ := v.(string)
	return s
}

// Bool returns a boolean field, or false.
func (n *Node) Bool(key string) bool {
	v, _ := n.Get(key)
	b, _ := v.(bool)
	return b
}

// Is checks if the node has one of the given types.
func (n *Node) Is(types ...string) bool {
	if n == nil {
		return false
	}
	for _, t := range types {
		if n.Type == t {
			return true
		}
	}
	return false
}

// Keys returns the visitor keys for the node type.
func (n *Node) Keys() ([]string, error) {
	return VisitorKeys(n.Type)
}

// IndexIn returns the index of the node in the array, or -1.
func IndexIn(arr []*Node, n *Node) int {
	for i, v := range arr {
		if v == n {
			return i
		}
	}
	return -1
}

// IsModuleDeclaration reports if the node is an import or export declaration.
func IsModuleDeclaration(n *Node) bool {
	return n.Is(
		"ImportDeclaration",
		"ExportNamedDeclaration",
		"ExportDefaultDeclaration",
		"ExportAllDeclaration",
		"DeclareExportDeclaration",
		"DeclareExportAllDeclaration",
		"DeclareModuleExports",
	)
}
