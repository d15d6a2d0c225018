// Package query runs XPath queries over ESTree nodes.
//
// The tree is projected to a document where each ESTree node is an element named after the
// node type. Scalar fields are available both as attributes and as child elements with text,
// node fields are child elements containing the nodes:
//
//	//CallExpression[@optional='false']/callee/MemberExpression/property/Identifier[@name='log']
//
// Comparing a node set to a number fails with ErrQuery when one of the values is not numeric,
// for example //Literal[@value=1] on a file with string literals. Use number(@value)=1 instead.
package query

import (
	"fmt"

	"github.com/antchfx/xpath"
	"gopkg.in/src-d/go-errors.v1"

	"github.com/bblfsh/codemod/estree"
)

// ErrQuery is returned for invalid XPath expressions and for expressions that cannot be evaluated.
var ErrQuery = errors.NewKind("invalid query %q")

// Query is a compiled XPath expression.
type Query struct {
	text string
	exp  *xpath.Expr
}

// Compile parses the query and prepares it for repeated execution.
func Compile(query string) (*Query, error) {
	exp, err := xpath.Compile(query)
	if err != nil {
		return nil, ErrQuery.Wrap(err, query)
	}
	return &Query{text: query, exp: exp}, nil
}

// MustCompile is like Compile, but panics on error.
func MustCompile(query string) *Query {
	q, err := Compile(query)
	if err != nil {
		panic(err)
	}
	return q
}

func (q *Query) String() string {
	return q.text
}

// Iter runs the query for a given subtree. Only ESTree nodes are returned, each node at most
// once; fields are resolved to the node they contain.
//
// The iterator stops on evaluation errors, use Execute to get them.
func (q *Query) Iter(root *estree.Node) estree.Iterator {
	if root == nil {
		return estree.Empty{}
	}
	return q.newIterator(q.exp.Select(newNavigator(root)))
}

func (q *Query) newIterator(it *xpath.NodeIterator) *iterator {
	return &iterator{q: q.text, it: it, seen: make(map[*estree.Node]struct{})}
}

// Execute runs the query for a given subtree and returns all matched nodes.
func (q *Query) Execute(root *estree.Node) ([]*estree.Node, error) {
	if root == nil {
		return nil, nil
	}
	it := q.newIterator(q.exp.Select(newNavigator(root)))
	out := AllNodes(it)
	if it.err != nil {
		return nil, it.err
	}
	return out, nil
}

// Eval evaluates the expression. The result is a float64, a string, a bool or a list of nodes.
func (q *Query) Eval(root *estree.Node) (_ interface{}, err error) {
	if root == nil {
		return nil, nil
	}
	defer func() {
		if r := recover(); r != nil {
			err = evalError(q.text, r)
		}
	}()
	v := q.exp.Evaluate(newNavigator(root))
	if xit, ok := v.(*xpath.NodeIterator); ok {
		it := q.newIterator(xit)
		out := AllNodes(it)
		if it.err != nil {
			return nil, it.err
		}
		return out, nil
	}
	return v, nil
}

// Execute compiles and runs a query for a given subtree.
func Execute(root *estree.Node, query string) ([]*estree.Node, error) {
	q, err := Compile(query)
	if err != nil {
		return nil, err
	}
	return q.Execute(root)
}

// evalError converts a panic of the XPath engine to an error.
func evalError(query string, r interface{}) error {
	err, ok := r.(error)
	if !ok {
		err = fmt.Errorf("%v", r)
	}
	return ErrQuery.Wrap(err, query)
}

// AllNodes iterates over all nodes and returns them as a slice.
func AllNodes(it estree.Iterator) []*estree.Node {
	var out []*estree.Node
	for it.Next() {
		out = append(out, it.Node())
	}
	return out
}

type iterator struct {
	q    string
	it   *xpath.NodeIterator
	cur  *estree.Node
	seen map[*estree.Node]struct{}
	err  error
}

func (it *iterator) moveNext() (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			it.err = evalError(it.q, r)
			ok = false
		}
	}()
	return it.it.MoveNext()
}

func (it *iterator) Next() bool {
	if it.err != nil {
		return false
	}
	for it.moveNext() {
		nav, ok := it.it.Current().(*nodeNavigator)
		if !ok {
			continue
		}
		n := nav.cur.result()
		if n == nil {
			continue
		}
		if _, ok := it.seen[n]; ok {
			continue
		}
		it.seen[n] = struct{}{}
		it.cur = n
		return true
	}
	it.cur = nil
	return false
}

func (it *iterator) Node() *estree.Node {
	return it.cur
}
