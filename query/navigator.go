package query

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/antchfx/xpath"

	"github.com/bblfsh/codemod/estree"
)

var _ xpath.NodeNavigator = &nodeNavigator{}

// newNavigator creates a new xpath.NodeNavigator for the specified ESTree node.
func newNavigator(root *estree.Node) *nodeNavigator {
	n := &node{typ: rootNode, n: root}
	return &nodeNavigator{root: n, cur: n, attri: -1}
}

type nodeType uint

const (
	// rootNode is a document object that provides access to the entire tree.
	rootNode nodeType = iota
	// objectNode is an ESTree node, the element name is the node type.
	objectNode
	// fieldNode is a field of the parent ESTree node. It contains one element
	// for each node in the field, or a single text for scalar values.
	fieldNode
	// valueNode is a scalar value of the field.
	valueNode
)

type attr struct {
	k string
	v string
}

type node struct {
	typ nodeType

	n     *estree.Node
	name  string
	val   interface{}
	attrs []attr

	loaded bool
	sub    []*node
	par    *node
	pari   int // index in parent's sub array
}

// formatValue converts a scalar field value to text. It returns false for values other than scalars.
func formatValue(v interface{}) (string, bool) {
	switch v := v.(type) {
	case nil:
		return "null", true
	case string:
		return v, true
	case bool:
		return strconv.FormatBool(v), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case int:
		return strconv.Itoa(v), true
	}
	return "", false
}

// fieldKeys returns the visitor keys of the node first, followed by all other fields in sorted order.
func fieldKeys(n *estree.Node) []string {
	keys, _ := estree.VisitorKeys(n.Type)
	seen := make(map[string]bool, len(n.Props))
	var out []string
	for _, k := range keys {
		if _, ok := n.Props[k]; ok {
			out = append(out, k)
			seen[k] = true
		}
	}
	var rest []string
	for k := range n.Props {
		if !seen[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	return append(out, rest...)
}

func newObject(n *estree.Node) *node {
	nd := &node{typ: objectNode, n: n, name: n.Type}
	for _, k := range fieldKeys(n) {
		v := n.Props[k]
		if v == nil {
			continue
		}
		if s, ok := formatValue(v); ok {
			nd.attrs = append(nd.attrs, attr{k: k, v: s})
		}
	}
	return nd
}

func (nd *node) add(s *node) {
	s.par = nd
	s.pari = len(nd.sub)
	nd.sub = append(nd.sub, s)
}

// load projects fields of the object, or the object itself for the root node.
func (nd *node) load() {
	if nd.loaded {
		return
	}
	nd.loaded = true
	switch nd.typ {
	case rootNode:
		if nd.n != nil {
			nd.add(newObject(nd.n))
		}
	case objectNode:
		for _, k := range fieldKeys(nd.n) {
			f := &node{typ: fieldNode, name: k, loaded: true}
			switch v := nd.n.Props[k].(type) {
			case *estree.Node:
				if v != nil {
					f.add(newObject(v))
				}
			case []*estree.Node:
				for _, c := range v {
					if c != nil {
						f.add(newObject(c))
					}
				}
			default:
				if s, ok := formatValue(v); ok && v != nil {
					f.val = v
					f.add(&node{typ: valueNode, val: v, name: s, loaded: true})
				}
			}
			nd.add(f)
		}
	}
}

// result returns the ESTree node matched by the XPath node. Fields are resolved to the node
// they contain, fields with arrays or values have no result.
func (nd *node) result() *estree.Node {
	switch nd.typ {
	case rootNode, objectNode:
		return nd.n
	case fieldNode:
		if v, ok := nd.par.n.Props[nd.name].(*estree.Node); ok {
			return v
		}
	}
	return nil
}

// nodeNavigator navigates the ESTree as if it was an XML document.
type nodeNavigator struct {
	root, cur *node
	attri     int
}

func (a *nodeNavigator) NodeType() xpath.NodeType {
	if a.attri >= 0 {
		return xpath.AttributeNode
	}
	switch a.cur.typ {
	case valueNode:
		return xpath.TextNode
	case rootNode:
		return xpath.RootNode
	case objectNode, fieldNode:
		return xpath.ElementNode
	default:
		panic(fmt.Sprintf("unknown node type %v", a.cur.typ))
	}
}

func (a *nodeNavigator) LocalName() string {
	if a.attri >= 0 {
		return a.cur.attrs[a.attri].k
	}
	if a.cur.typ == valueNode {
		return ""
	}
	return a.cur.name
}

func (a *nodeNavigator) Prefix() string {
	return ""
}

func (a *nodeNavigator) Value() string {
	if a.attri >= 0 {
		return a.cur.attrs[a.attri].v
	}
	switch a.cur.typ {
	case valueNode:
		return a.cur.name
	case fieldNode:
		if a.cur.val != nil {
			s, _ := formatValue(a.cur.val)
			return s
		}
	}
	return ""
}

func (a *nodeNavigator) Copy() xpath.NodeNavigator {
	n := *a
	return &n
}

func (a *nodeNavigator) MoveToRoot() {
	a.cur = a.root
	a.attri = -1
}

func (a *nodeNavigator) MoveToParent() bool {
	if a.attri >= 0 {
		a.attri = -1
		return true
	}
	n := a.cur.par
	if n == nil {
		return false
	}
	a.cur = n
	return true
}

func (a *nodeNavigator) MoveToNextAttribute() bool {
	if a.attri+1 < len(a.cur.attrs) {
		a.attri++
		return true
	}
	return false
}

func (a *nodeNavigator) MoveToChild() bool {
	if a.attri >= 0 {
		return false
	}
	a.cur.load()
	if len(a.cur.sub) == 0 {
		return false
	}
	a.cur = a.cur.sub[0]
	return true
}

func (a *nodeNavigator) isSub() bool {
	return a.attri < 0 && a.cur.par != nil && a.cur.pari < len(a.cur.par.sub)
}

func (a *nodeNavigator) MoveToFirst() bool {
	if !a.isSub() {
		return false
	}
	a.cur = a.cur.par.sub[0]
	return true
}

func (a *nodeNavigator) MoveToNext() bool {
	if a.isSub() {
		par := a.cur.par
		if i := a.cur.pari + 1; i < len(par.sub) {
			a.cur = par.sub[i]
			return true
		}
	}
	return false
}

func (a *nodeNavigator) MoveToPrevious() bool {
	if a.isSub() {
		par := a.cur.par
		if i := a.cur.pari - 1; i >= 0 {
			a.cur = par.sub[i]
			return true
		}
	}
	return false
}

func (a *nodeNavigator) MoveTo(other xpath.NodeNavigator) bool {
	node, ok := other.(*nodeNavigator)
	if !ok || node.root != a.root {
		return false
	}
	a.cur = node.cur
	a.attri = node.attri
	return true
}
