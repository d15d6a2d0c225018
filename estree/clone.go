package estree

// EachChild calls fnc for every child node of n in the visitor key order.
// Array holes are skipped. It fails if the node type has no visitor keys.
func EachChild(n *Node, fnc func(key string, i int, c *Node)) error {
	keys, err := VisitorKeys(n.Type)
	if err != nil {
		return err
	}
	for _, k := range keys {
		switch v := n.Props[k].(type) {
		case *Node:
			if v != nil {
				fnc(k, -1, v)
			}
		case []*Node:
			for i, c := range v {
				if c != nil {
					fnc(k, i, c)
				}
			}
		}
	}
	return nil
}

// eachChildLenient is like EachChild, but treats unknown node types as leaves.
func eachChildLenient(n *Node, fnc func(c *Node)) {
	_ = EachChild(n, func(_ string, _ int, c *Node) {
		fnc(c)
	})
}

// ChildNodes returns all direct children of the node in the visitor key order.
func ChildNodes(n *Node) ([]*Node, error) {
	var out []*Node
	err := EachChild(n, func(_ string, _ int, c *Node) {
		out = append(out, c)
	})
	return out, err
}

// SetParentPointersInDirectChildren points the immediate children of the node back to it.
// It does not descend further, and is used after building a node from already detached children.
func SetParentPointersInDirectChildren(n *Node) error {
	return EachChild(n, func(_ string, _ int, c *Node) {
		c.Parent = n
	})
}

// UpdateAllParentPointers walks the subtree and repairs all parent pointers below the root.
// Nodes below the root are considered attached after this call.
func UpdateAllParentPointers(root *Node) error {
	var err error
	var visit func(n *Node)
	visit = func(n *Node) {
		if e := EachChild(n, func(_ string, _ int, c *Node) {
			c.Parent = n
			c.detached = false
			visit(c)
		}); e != nil && err == nil {
			err = e
		}
	}
	visit(root)
	return err
}

func setPropParents(n *Node) {
	for _, v := range n.Props {
		switch v := v.(type) {
		case *Node:
			if v != nil {
				v.Parent = n
			}
		case []*Node:
			for _, c := range v {
				if c != nil {
					c.Parent = n
				}
			}
		}
	}
}

func copyLoc(l *SourceLocation) *SourceLocation {
	if l == nil {
		return nil
	}
	c := *l
	return &c
}

// ShallowClone creates a detached copy of the node, sharing all child nodes with the original.
// Fields listed in overrides replace the copied ones.
//
// Placing both the original and the clone into the tree is unsafe, since the shared
// children would have two parents claiming them.
func ShallowClone(n *Node, overrides Props) *Node {
	props := make(Props, len(n.Props)+len(overrides))
	for k, v := range n.Props {
		if arr, ok := v.([]*Node); ok {
			v = append([]*Node(nil), arr...)
		}
		props[k] = v
	}
	for k, v := range overrides {
		props[k] = v
	}
	c := &Node{
		Type:     n.Type,
		Range:    n.Range,
		Loc:      copyLoc(n.Loc),
		Props:    props,
		Docblock: n.Docblock,
		detached: true,
	}
	if len(n.Comments) != 0 {
		c.Comments = append([]*Comment(nil), n.Comments...)
	}
	return c
}

// DeepClone recursively copies the node with all its children and comments.
// The copy is detached, and parent pointers inside it are consistent.
func DeepClone(n *Node, overrides Props) *Node {
	c := deepCopy(n)
	c.Parent = nil
	for k, v := range overrides {
		c.Props[k] = v
	}
	setPropParents(c)
	_ = UpdateAllParentPointers(c)
	// UpdateAllParentPointers considers children attached, but they belong to a detached copy
	markDetached(c)
	return c
}

func markDetached(n *Node) {
	n.detached = true
	for _, v := range n.Props {
		switch v := v.(type) {
		case *Node:
			if v != nil {
				markDetached(v)
			}
		case []*Node:
			for _, c := range v {
				if c != nil {
					markDetached(c)
				}
			}
		}
	}
}

func deepCopy(n *Node) *Node {
	c := &Node{
		Type:     n.Type,
		Range:    n.Range,
		Loc:      copyLoc(n.Loc),
		Props:    make(Props, len(n.Props)),
		detached: true,
	}
	for _, cm := range n.Comments {
		cc := *cm
		cc.Loc = copyLoc(cm.Loc)
		c.Comments = append(c.Comments, &cc)
	}
	if n.Docblock != nil {
		d := &Docblock{Directives: make(map[string][]string, len(n.Docblock.Directives))}
		if n.Docblock.Comment != nil {
			cm := *n.Docblock.Comment
			d.Comment = &cm
		}
		for k, v := range n.Docblock.Directives {
			d.Directives[k] = append([]string(nil), v...)
		}
		c.Docblock = d
	}
	for k, v := range n.Props {
		c.Props[k] = deepCopyValue(v)
	}
	return c
}

func deepCopyValue(v interface{}) interface{} {
	switch v := v.(type) {
	case *Node:
		if v == nil {
			return v
		}
		return deepCopy(v)
	case []*Node:
		arr := make([]*Node, len(v))
		for i, c := range v {
			if c != nil {
				arr[i] = deepCopy(c)
			}
		}
		return arr
	case map[string]interface{}:
		m := make(map[string]interface{}, len(v))
		for k, e := range v {
			m[k] = deepCopyValue(e)
		}
		return m
	case []interface{}:
		arr := make([]interface{}, len(v))
		for i, e := range v {
			arr[i] = deepCopyValue(e)
		}
		return arr
	}
	return v
}

// AsDetached returns the node itself if it is detached, or a clone of it otherwise.
// It allows callers to pass nodes from the tree as insertion and replacement values.
func AsDetached(n *Node, deep bool) *Node {
	if n == nil || n.IsDetached() {
		return n
	}
	if deep {
		return DeepClone(n, nil)
	}
	return ShallowClone(n, nil)
}

// AsDetachedAll applies AsDetached to each node in the list.
func AsDetachedAll(nodes []*Node, deep bool) []*Node {
	out := make([]*Node, len(nodes))
	for i, n := range nodes {
		out[i] = AsDetached(n, deep)
	}
	return out
}
