package estree

import "fmt"

// Iterator over nodes.
type Iterator interface {
	// Next advances an iterator.
	Next() bool
	// Node returns a current node.
	Node() *Node
}

var _ Iterator = Empty{}

// Empty is an empty iterator.
type Empty struct{}

// Next implements Iterator.
func (Empty) Next() bool { return false }

// Node implements Iterator.
func (Empty) Node() *Node { return nil }

// IterOrder is a tree iteration order.
type IterOrder int

const (
	// PreOrder is a pre-order depth-first search. This is the order in which the source is written.
	PreOrder = IterOrder(iota)
	// PostOrder is a post-order depth-first search.
	PostOrder
	// LevelOrder is a breadth-first search.
	LevelOrder
	// ChildrenOrder is similar to LevelOrder, but list only the first level.
	ChildrenOrder
)

// NewIterator creates a new iterator with a given order.
//
// Children are listed in the visitor key order. Nodes of unknown types are treated as leaves.
func NewIterator(root *Node, order IterOrder) Iterator {
	if root == nil {
		return Empty{}
	}
	switch order {
	case PreOrder:
		return &preOrderIter{q: []*Node{root}}
	case PostOrder:
		it := &postOrderIter{}
		it.start(root)
		return it
	case LevelOrder:
		return &levelOrderIter{level: []*Node{root}, i: -1}
	case ChildrenOrder:
		var nodes []*Node
		eachChildLenient(root, func(c *Node) {
			nodes = append(nodes, c)
		})
		return &fixedIter{nodes: nodes, i: -1}
	default:
		panic(fmt.Errorf("unsupported iterator order: %v", order))
	}
}

// Find returns all nodes in the subtree, in pre-order, for which fnc returns true.
func Find(root *Node, fnc func(n *Node) bool) []*Node {
	var out []*Node
	for it := NewIterator(root, PreOrder); it.Next(); {
		if n := it.Node(); fnc(n) {
			out = append(out, n)
		}
	}
	return out
}

// FindType returns all nodes of given types in the subtree, in pre-order.
func FindType(root *Node, types ...string) []*Node {
	return Find(root, func(n *Node) bool {
		return n.Is(types...)
	})
}

func childrenRev(n *Node) []*Node {
	var arr []*Node
	eachChildLenient(n, func(c *Node) {
		arr = append(arr, c)
	})
	for i, j := 0, len(arr)-1; i < j; i, j = i+1, j-1 {
		arr[i], arr[j] = arr[j], arr[i]
	}
	return arr
}

type preOrderIter struct {
	cur *Node
	q   []*Node
}

func (it *preOrderIter) Next() bool {
	if it.cur != nil {
		it.q = append(it.q, childrenRev(it.cur)...)
	}
	l := len(it.q)
	if l == 0 {
		it.cur = nil
		return false
	}
	it.cur = it.q[l-1]
	it.q = it.q[:l-1]
	return true
}

func (it *preOrderIter) Node() *Node {
	return it.cur
}

type postOrderIter struct {
	cur *Node
	s   [][]*Node
}

func (it *postOrderIter) start(n *Node) {
	si := len(it.s)
	q := append([]*Node{n}, childrenRev(n)...)
	it.s = append(it.s, nil)
	if l := len(q); l > 1 {
		it.start(q[l-1])
		q = q[:l-1]
	}
	it.s[si] = q
}

func (it *postOrderIter) Next() bool {
	down := false
	for {
		l := len(it.s)
		if l == 0 {
			return false
		}
		l--
		top := it.s[l]
		if len(top) == 0 {
			it.s = it.s[:l]
			down = true
			continue
		}
		i := len(top) - 1
		if down && i > 0 {
			down = false
			n := top[i]
			it.s[l] = top[:i]
			it.start(n)
			continue
		}
		down = false
		it.cur = top[i]
		it.s[l] = top[:i]
		return true
	}
}

func (it *postOrderIter) Node() *Node {
	return it.cur
}

type levelOrderIter struct {
	level []*Node
	i     int
}

func (it *levelOrderIter) Next() bool {
	if len(it.level) == 0 {
		return false
	} else if it.i+1 < len(it.level) {
		it.i++
		return true
	}
	var next []*Node
	for _, n := range it.level {
		eachChildLenient(n, func(c *Node) {
			next = append(next, c)
		})
	}
	it.i = 0
	it.level = next
	return len(it.level) > 0
}

func (it *levelOrderIter) Node() *Node {
	if it.i < 0 || it.i >= len(it.level) {
		return nil
	}
	return it.level[it.i]
}

type fixedIter struct {
	nodes []*Node
	i     int
}

func (it *fixedIter) Next() bool {
	if it.i+1 >= len(it.nodes) {
		it.i = len(it.nodes)
		return false
	}
	it.i++
	return true
}

func (it *fixedIter) Node() *Node {
	if it.i < 0 || it.i >= len(it.nodes) {
		return nil
	}
	return it.nodes[it.i]
}
