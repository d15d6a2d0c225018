// Package comments attaches source comments to ESTree nodes and positions
// synthetic comments, so that a printer lays them out as requested.
package comments

import (
	"sort"

	"github.com/bblfsh/codemod/estree"
)

// placement of a comment relative to the surrounding code
type textPlace int

const (
	ownLine = textPlace(iota)
	endOfLine
	remaining
)

// Attach assigns each comment in the list to the nearest node of the tree as a leading, trailing
// or dangling comment. The decision uses node ranges and line breaks in the code.
//
// Comments must be sorted by their position in the code. Nodes without a range are ignored.
func Attach(list []*estree.Comment, root *estree.Node, code string) {
	a := &attacher{code: code, cache: make(map[*estree.Node][]*estree.Node)}
	for _, c := range list {
		a.attach(root, c)
	}
}

type attacher struct {
	code  string
	cache map[*estree.Node][]*estree.Node
}

func canAttach(n *estree.Node) bool {
	if n.Range.IsZero() {
		return false
	}
	switch n.Type {
	case "EmptyStatement", "TemplateElement", "ChainExpression", "JSXText":
		return false
	}
	return true
}

// sortedChildren returns descendants that can hold comments, sorted by the start offset.
// Nodes that cannot hold comments are replaced with their own children.
func (a *attacher) sortedChildren(n *estree.Node) []*estree.Node {
	if arr, ok := a.cache[n]; ok {
		return arr
	}
	var out []*estree.Node
	var collect func(n *estree.Node)
	collect = func(n *estree.Node) {
		_ = estree.EachChild(n, func(_ string, _ int, c *estree.Node) {
			if canAttach(c) {
				out = append(out, c)
			} else {
				collect(c)
			}
		})
	}
	collect(n)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Range.Start() < out[j].Range.Start()
	})
	a.cache[n] = out
	return out
}

// decorate finds the innermost node that encloses the comment, and the nodes directly preceding
// and following it inside the enclosing one.
func (a *attacher) decorate(n *estree.Node, c *estree.Comment) (enclosing, preceding, following *estree.Node) {
	enclosing = n
	children := a.sortedChildren(n)
	left, right := 0, len(children)
	for left < right {
		mid := (left + right) / 2
		child := children[mid]
		r := child.Range
		if r.Start() <= c.Range.Start() && c.Range.End() <= r.End() {
			return a.decorate(child, c)
		}
		if r.End() <= c.Range.Start() {
			preceding = child
			left = mid + 1
			continue
		}
		if c.Range.End() <= r.Start() {
			following = child
			right = mid
			continue
		}
		// overlapping ranges, can only happen for malformed trees
		break
	}
	return enclosing, preceding, following
}

func (a *attacher) place(c *estree.Comment) textPlace {
	if HasNewlineBefore(a.code, c.Range.Start()) {
		return ownLine
	} else if HasNewlineAfter(a.code, c.Range.End()) {
		return endOfLine
	}
	return remaining
}

func (a *attacher) attach(root *estree.Node, c *estree.Comment) {
	enclosing, preceding, following := a.decorate(root, c)
	switch a.place(c) {
	case ownLine:
		switch {
		case following != nil:
			addLeading(following, c)
		case preceding != nil:
			addTrailing(preceding, c)
		default:
			addDangling(enclosing, c)
		}
	case endOfLine:
		switch {
		case preceding != nil:
			addTrailing(preceding, c)
		case following != nil:
			addLeading(following, c)
		default:
			addDangling(enclosing, c)
		}
	default:
		switch {
		case following != nil && (preceding == nil || a.gapIsEmpty(c, following)):
			addLeading(following, c)
		case preceding != nil:
			addTrailing(preceding, c)
		default:
			addDangling(enclosing, c)
		}
	}
}

func (a *attacher) gapIsEmpty(c *estree.Comment, following *estree.Node) bool {
	s, e := c.Range.End(), following.Range.Start()
	if s > e || e > len(a.code) {
		return false
	}
	return onlySpaces(a.code[s:e])
}

func addLeading(n *estree.Node, c *estree.Comment) {
	c.Leading, c.Trailing = true, false
	n.Comments = append(n.Comments, c)
}

func addTrailing(n *estree.Node, c *estree.Comment) {
	c.Leading, c.Trailing = false, true
	n.Comments = append(n.Comments, c)
}

func addDangling(n *estree.Node, c *estree.Comment) {
	c.Leading, c.Trailing = false, false
	n.Comments = append(n.Comments, c)
}
