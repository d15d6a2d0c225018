// Package traverse walks ESTree trees and dispatches nodes to selector-based listeners.
package traverse

import (
	"errors"

	"github.com/bblfsh/codemod/estree"
)

var (
	// Skip can be returned from Enter to skip children of the current node.
	Skip = errors.New("skip subtree")
	// Break can be returned from Enter or Leave to stop the walk. Walk returns no error in this case.
	Break = errors.New("stop traversal")
)

// Visitor receives callbacks from Walk.
type Visitor interface {
	// Enter is called before visiting children of the node.
	Enter(n, parent *estree.Node) error
	// Leave is called after visiting children of the node. It is called even if Enter returned Skip.
	Leave(n, parent *estree.Node) error
}

// VisitorFuncs implements Visitor with optional functions.
type VisitorFuncs struct {
	EnterFunc func(n, parent *estree.Node) error
	LeaveFunc func(n, parent *estree.Node) error
}

// Enter implements Visitor.
func (v VisitorFuncs) Enter(n, parent *estree.Node) error {
	if v.EnterFunc == nil {
		return nil
	}
	return v.EnterFunc(n, parent)
}

// Leave implements Visitor.
func (v VisitorFuncs) Leave(n, parent *estree.Node) error {
	if v.LeaveFunc == nil {
		return nil
	}
	return v.LeaveFunc(n, parent)
}

// Walk visits the tree in depth-first order, following the visitor keys of each node type.
// Any error other than Skip or Break aborts the walk and is returned. Node types with no visitor
// keys fail with estree.ErrUnknownNodeType.
func Walk(root *estree.Node, v Visitor) error {
	err := walk(root, nil, v)
	if err == Break {
		return nil
	}
	return err
}

func walk(n, parent *estree.Node, v Visitor) error {
	err := v.Enter(n, parent)
	if err == Skip {
		err = nil
	} else if err != nil {
		return err
	} else {
		keys, err := estree.VisitorKeys(n.Type)
		if err != nil {
			return err
		}
		for _, k := range keys {
			switch c := n.Props[k].(type) {
			case *estree.Node:
				if c == nil {
					continue
				}
				if err := walk(c, n, v); err != nil {
					return err
				}
			case []*estree.Node:
				// the array may be replaced while walking, iterate over a snapshot
				for _, e := range append([]*estree.Node(nil), c...) {
					if e == nil {
						continue
					}
					if err := walk(e, n, v); err != nil {
						return err
					}
				}
			}
		}
	}
	err = v.Leave(n, parent)
	if err == Skip {
		err = nil
	}
	return err
}
