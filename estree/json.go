package estree

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// File is a decoded ESTree program together with all comments found in the source.
type File struct {
	Program  *Node
	Comments []*Comment
	Docblock *Docblock
}

// FromJSON decodes an ESTree JSON document, as emitted by hermes-parser or ESLint-compatible parsers.
func FromJSON(data []byte) (*File, error) {
	return Decode(bytes.NewReader(data))
}

// Decode reads an ESTree JSON document from the reader.
func Decode(r io.Reader) (*File, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var m map[string]interface{}
	if err := dec.Decode(&m); err != nil {
		return nil, err
	}
	return FromObject(m)
}

// FromObject converts an already decoded ESTree JSON object to a file.
func FromObject(m map[string]interface{}) (*File, error) {
	f := &File{}
	if arr, ok := m["comments"].([]interface{}); ok {
		for _, v := range arr {
			obj, _ := v.(map[string]interface{})
			c, err := decodeComment(obj)
			if err != nil {
				return nil, err
			}
			f.Comments = append(f.Comments, c)
		}
	}
	if obj, ok := m["docblock"].(map[string]interface{}); ok {
		d, err := decodeDocblock(obj)
		if err != nil {
			return nil, err
		}
		f.Docblock = d
	}
	prog, err := decodeNode(m)
	if err != nil {
		return nil, err
	}
	prog.Docblock = f.Docblock
	if err = UpdateAllParentPointers(prog); err != nil {
		return nil, err
	}
	prog.detached = false
	f.Program = prog
	return f, nil
}

func isNodeObject(v interface{}) bool {
	m, ok := v.(map[string]interface{})
	if !ok {
		return false
	}
	_, ok = m["type"].(string)
	return ok
}

func decodeRange(v interface{}) (Range, bool) {
	arr, ok := v.([]interface{})
	if !ok || len(arr) != 2 {
		return Range{}, false
	}
	s, ok1 := toInt(arr[0])
	e, ok2 := toInt(arr[1])
	return Range{s, e}, ok1 && ok2
}

func toInt(v interface{}) (int, bool) {
	switch v := v.(type) {
	case json.Number:
		i, err := v.Int64()
		return int(i), err == nil
	case float64:
		return int(v), true
	case int:
		return v, true
	}
	return 0, false
}

func decodePos(v interface{}) Position {
	m, _ := v.(map[string]interface{})
	l, _ := toInt(m["line"])
	c, _ := toInt(m["column"])
	return Position{Line: l, Column: c}
}

func decodeLoc(v interface{}) *SourceLocation {
	m, ok := v.(map[string]interface{})
	if !ok {
		return nil
	}
	return &SourceLocation{Start: decodePos(m["start"]), End: decodePos(m["end"])}
}

func decodeComment(m map[string]interface{}) (*Comment, error) {
	if m == nil {
		return nil, ErrUnexpectedValue.New("Program", "comments", nil)
	}
	typ, _ := m["type"].(string)
	switch CommentType(typ) {
	case CommentLine, CommentBlock:
	default:
		return nil, fmt.Errorf("unknown comment type: %q", typ)
	}
	c := &Comment{Type: CommentType(typ), Loc: decodeLoc(m["loc"])}
	c.Value, _ = m["value"].(string)
	c.Range, _ = decodeRange(m["range"])
	return c, nil
}

func decodeDocblock(m map[string]interface{}) (*Docblock, error) {
	d := &Docblock{Directives: make(map[string][]string)}
	if obj, ok := m["comment"].(map[string]interface{}); ok {
		c, err := decodeComment(obj)
		if err != nil {
			return nil, err
		}
		d.Comment = c
	}
	if obj, ok := m["directives"].(map[string]interface{}); ok {
		for k, v := range obj {
			arr, _ := v.([]interface{})
			for _, e := range arr {
				s, _ := e.(string)
				d.Directives[k] = append(d.Directives[k], s)
			}
		}
	}
	return d, nil
}

func decodeNode(m map[string]interface{}) (*Node, error) {
	typ, _ := m["type"].(string)
	keys, _ := VisitorKeys(typ)
	isKey := make(map[string]bool, len(keys))
	for _, k := range keys {
		isKey[k] = true
	}
	n := &Node{Type: typ, Props: make(Props, len(m))}
	for k, v := range m {
		switch k {
		case "type", "parent", "comments", "docblock", "start", "end",
			"leadingComments", "trailingComments", "innerComments":
			continue
		case "range":
			if r, ok := decodeRange(v); ok {
				n.Range = r
				continue
			}
		case "loc":
			if l := decodeLoc(v); l != nil {
				n.Loc = l
				continue
			}
		}
		val, err := decodeValue(typ, k, v, isKey[k])
		if err != nil {
			return nil, err
		}
		n.Props[k] = val
	}
	return n, nil
}

func decodeValue(typ, key string, v interface{}, isChild bool) (interface{}, error) {
	switch v := v.(type) {
	case map[string]interface{}:
		if isNodeObject(v) {
			return decodeNode(v)
		} else if isChild {
			return nil, ErrUnexpectedValue.New(typ, key, v)
		}
		out := make(map[string]interface{}, len(v))
		for k, e := range v {
			val, err := decodeValue(typ, key, e, false)
			if err != nil {
				return nil, err
			}
			out[k] = val
		}
		return out, nil
	case []interface{}:
		nodes := isChild
		if !nodes && len(v) != 0 {
			nodes = true
			for _, e := range v {
				if e != nil && !isNodeObject(e) {
					nodes = false
					break
				}
			}
		}
		if nodes {
			arr := make([]*Node, len(v))
			for i, e := range v {
				if e == nil {
					continue
				}
				obj, ok := e.(map[string]interface{})
				if !ok || !isNodeObject(obj) {
					return nil, ErrUnexpectedValue.New(typ, key, e)
				}
				c, err := decodeNode(obj)
				if err != nil {
					return nil, err
				}
				arr[i] = c
			}
			return arr, nil
		}
		arr := make([]interface{}, len(v))
		for i, e := range v {
			val, err := decodeValue(typ, key, e, false)
			if err != nil {
				return nil, err
			}
			arr[i] = val
		}
		return arr, nil
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			// bigint literals do not fit, keep the text
			return v.String(), nil
		}
		return f, nil
	}
	return v, nil
}

// MarshalJSON encodes the node and its subtree as ESTree JSON.
func (n *Node) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.toObject())
}

// MarshalJSON encodes the comment as an ESTree comment object.
func (c *Comment) MarshalJSON() ([]byte, error) {
	m := map[string]interface{}{
		"type":  string(c.Type),
		"value": c.Value,
		"range": c.Range,
	}
	if c.Loc != nil {
		m["loc"] = c.Loc
	}
	if c.Leading {
		m["leading"] = true
	}
	if c.Trailing {
		m["trailing"] = true
	}
	return json.Marshal(m)
}

// ToObject converts the node to a generic JSON-compatible value.
func (n *Node) ToObject() map[string]interface{} {
	return n.toObject()
}

func (n *Node) toObject() map[string]interface{} {
	m := make(map[string]interface{}, len(n.Props)+4)
	for k, v := range n.Props {
		m[k] = toJSONValue(v)
	}
	m["type"] = n.Type
	m["range"] = n.Range
	if n.Loc != nil {
		m["loc"] = n.Loc
	}
	if len(n.Comments) != 0 {
		m["comments"] = n.Comments
	}
	if d := n.Docblock; d != nil {
		db := map[string]interface{}{"directives": d.Directives}
		if d.Comment != nil {
			db["comment"] = d.Comment
		}
		m["docblock"] = db
	}
	return m
}

func toJSONValue(v interface{}) interface{} {
	switch v := v.(type) {
	case *Node:
		if v == nil {
			return nil
		}
		return v.toObject()
	case []*Node:
		arr := make([]interface{}, len(v))
		for i, c := range v {
			if c != nil {
				arr[i] = c.toObject()
			}
		}
		return arr
	}
	return v
}

// Dump returns an indented S-expression like representation of the subtree, for debugging.
func Dump(n *Node) string {
	buf := &strings.Builder{}
	dump(buf, n, "")
	return buf.String()
}

func dump(buf *strings.Builder, n *Node, indent string) {
	buf.WriteString(indent)
	buf.WriteString(n.Type)
	switch n.Type {
	case "Identifier", "JSXIdentifier", "PrivateIdentifier":
		fmt.Fprintf(buf, " %s", n.Str("name"))
	case "Literal":
		fmt.Fprintf(buf, " %v", n.Props["value"])
	}
	buf.WriteString("\n")
	eachChildLenient(n, func(c *Node) {
		dump(buf, c, indent+"  ")
	})
}
