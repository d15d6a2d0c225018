package comments

import (
	"strings"

	"github.com/bblfsh/codemod/estree"
)

// Placement describes where a new comment should be printed relative to its node.
type Placement int

const (
	// LeadingOwnLine prints the comment on its own line before the node.
	LeadingOwnLine = Placement(iota)
	// LeadingInline prints the comment before the node, on the same line.
	LeadingInline
	// TrailingOwnLine prints the comment on its own line after the node.
	TrailingOwnLine
	// TrailingInline prints the comment after the node, on the same line.
	TrailingInline
)

func (p Placement) String() string {
	switch p {
	case LeadingOwnLine:
		return "leading-own-line"
	case LeadingInline:
		return "leading-inline"
	case TrailingOwnLine:
		return "trailing-own-line"
	case TrailingInline:
		return "trailing-inline"
	}
	return "unknown"
}

// IsLeading reports if the comment is placed before the node.
func (p Placement) IsLeading() bool {
	return p == LeadingOwnLine || p == LeadingInline
}

// IsOwnLine reports if the comment is placed on a separate line.
func (p Placement) IsOwnLine() bool {
	return p == LeadingOwnLine || p == TrailingOwnLine
}

// Placer assigns a position to a synthetic comment, so that a printer lays it out with the
// requested placement. Printers decide line breaks from comment positions in the source text.
type Placer interface {
	Place(c *estree.Comment, p Placement)
}

// Buffer is the working source text that can be extended with synthetic content.
type Buffer interface {
	// Code returns the current source text.
	Code() string
	// AppendCommentToSource appends the text to the end of the source.
	AppendCommentToSource(text string)
}

// marker is appended after synthetic comments that must share a line with code.
const marker = "x"

// SourcePlacer positions synthetic comments by giving them a zero-width range next to a newline
// or a non-whitespace character of the buffer, extending the buffer when needed.
//
// Line comments are printed by slicing the source, thus their text is always appended to the buffer.
type SourcePlacer struct {
	Buf Buffer
}

var _ Placer = SourcePlacer{}

// Place implements Placer.
func (sp SourcePlacer) Place(c *estree.Comment, p Placement) {
	if c.Type == estree.CommentLine {
		sp.placeLine(c, p)
	} else {
		sp.placeBlock(c, p)
	}
	c.Loc = nil
}

func (sp SourcePlacer) appendText(s string) int {
	start := len(sp.Buf.Code())
	sp.Buf.AppendCommentToSource(s)
	return start
}

func (sp SourcePlacer) placeLine(c *estree.Comment, p Placement) {
	text := c.Text()
	var prefix, suffix string
	switch p {
	case LeadingOwnLine:
		prefix, suffix = "\n", "\n"
	case LeadingInline:
		prefix, suffix = "\n", marker
	case TrailingOwnLine:
		prefix = "\n"
	case TrailingInline:
		prefix = "\n" + marker + " "
	}
	start := sp.appendText(prefix+text+suffix) + len(prefix)
	c.Range = estree.Range{start, start + len(text)}
}

func (sp SourcePlacer) placeBlock(c *estree.Comment, p Placement) {
	code := sp.Buf.Code()
	var at int
	if p.IsOwnLine() {
		at = strings.IndexByte(code, '\n')
		if at < 0 {
			at = sp.appendText("\n")
		}
		if !p.IsLeading() {
			// a trailing comment must start right after the newline
			at++
		}
	} else {
		at = firstNonSpace(code)
		if at < 0 {
			at = sp.appendText(marker)
		}
		if !p.IsLeading() {
			at++
		}
	}
	c.Range = estree.Range{at, at}
}

// Add attaches the comment to the node with a given placement. The comment is positioned by
// the placer, if it is not nil.
func Add(n *estree.Node, c *estree.Comment, p Placement, pl Placer) {
	if pl != nil {
		pl.Place(c, p)
	}
	if p.IsLeading() {
		addLeading(n, c)
	} else {
		addTrailing(n, c)
	}
}

// ForNode returns all comments attached to the node.
func ForNode(n *estree.Node) []*estree.Comment {
	return n.Comments
}

// Leading returns comments printed before the node.
func Leading(n *estree.Node) []*estree.Comment {
	var out []*estree.Comment
	for _, c := range n.Comments {
		if c.Leading {
			out = append(out, c)
		}
	}
	return out
}

// Trailing returns comments printed after the node.
func Trailing(n *estree.Node) []*estree.Comment {
	var out []*estree.Comment
	for _, c := range n.Comments {
		if c.Trailing {
			out = append(out, c)
		}
	}
	return out
}

// Dangling returns comments which are neither leading nor trailing, for example the ones in an empty block.
func Dangling(n *estree.Node) []*estree.Comment {
	var out []*estree.Comment
	for _, c := range n.Comments {
		if !c.Leading && !c.Trailing {
			out = append(out, c)
		}
	}
	return out
}

// MoveToNewNode transfers all comments of the old node to the new one.
func MoveToNewNode(old, n *estree.Node) {
	if len(old.Comments) == 0 {
		return
	}
	n.Comments = append(n.Comments, old.Comments...)
	old.Comments = nil
}

// CloneTo attaches copies of all comments of one node to another. Positions are preserved,
// so copies print the same way as the originals.
func CloneTo(from, to *estree.Node) {
	for _, c := range from.Comments {
		cc := *c
		if c.Loc != nil {
			loc := *c.Loc
			cc.Loc = &loc
		}
		to.Comments = append(to.Comments, &cc)
	}
}

// Remove drops comments in the set from all nodes of the tree.
// It returns the number of removed comments.
func Remove(root *estree.Node, set map[*estree.Comment]struct{}) int {
	if len(set) == 0 {
		return 0
	}
	removed := 0
	for it := estree.NewIterator(root, estree.PreOrder); it.Next(); {
		n := it.Node()
		if len(n.Comments) == 0 {
			continue
		}
		out := n.Comments[:0]
		for _, c := range n.Comments {
			if _, ok := set[c]; ok {
				removed++
				continue
			}
			out = append(out, c)
		}
		for i := len(out); i < len(n.Comments); i++ {
			n.Comments[i] = nil
		}
		if len(out) == 0 {
			out = nil
		}
		n.Comments = out
	}
	return removed
}

func firstNonSpace(text string) int {
	for i := 0; i < len(text); i++ {
		if !isSpace(text[i]) {
			return i
		}
	}
	return -1
}
