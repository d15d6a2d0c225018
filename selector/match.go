package selector

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/bblfsh/codemod/estree"
)

// matcher is a single term of a parsed selector.
//
// Ancestry lists the ancestors of the node starting from the root, the last element is the parent.
type matcher interface {
	match(n *estree.Node, anc []*estree.Node) bool
}

type (
	wildcard   struct{}
	typeName   struct{ name string }
	field      struct{ path []string }
	exactNode  struct{}
	compound   struct{ list []matcher }
	anyOf      struct{ list []matcher }
	not        struct{ list []matcher }
	has        struct{ list []matcher }
	class      struct{ name string }
	nthChild   struct {
		index   int
		fromEnd bool
	}
	attribute struct {
		path  []string
		op    string
		value attrValue
	}
	combinator struct {
		op          byte // ' ', '>', '~' or '+'
		left, right matcher
	}
)

type valueKind int

const (
	valueLiteral = valueKind(iota)
	valueNumber
	valueRegexp
	valueType
)

type attrValue struct {
	kind valueKind
	str  string
	num  float64
	re   *regexp.Regexp
}

func (wildcard) match(n *estree.Node, _ []*estree.Node) bool { return true }

func (m typeName) match(n *estree.Node, _ []*estree.Node) bool {
	return strings.EqualFold(m.name, n.Type)
}

func (exactNode) match(n *estree.Node, anc []*estree.Node) bool {
	return len(anc) == 0
}

func (m compound) match(n *estree.Node, anc []*estree.Node) bool {
	for _, s := range m.list {
		if !s.match(n, anc) {
			return false
		}
	}
	return true
}

func (m anyOf) match(n *estree.Node, anc []*estree.Node) bool {
	for _, s := range m.list {
		if s.match(n, anc) {
			return true
		}
	}
	return false
}

func (m not) match(n *estree.Node, anc []*estree.Node) bool {
	return !anyOf(m).match(n, anc)
}

func (m has) match(n *estree.Node, anc []*estree.Node) bool {
	// ancestry inside the subtree is relative to the node itself
	var found bool
	var visit func(c *estree.Node, path []*estree.Node)
	visit = func(c *estree.Node, path []*estree.Node) {
		_ = estree.EachChild(c, func(_ string, _ int, ch *estree.Node) {
			if found {
				return
			}
			sub := append(path, c)
			for _, s := range m.list {
				if s.match(ch, sub) {
					found = true
					return
				}
			}
			visit(ch, sub[:len(sub):len(sub)])
		})
	}
	visit(n, nil)
	return found
}

func (m class) match(n *estree.Node, anc []*estree.Node) bool {
	t := n.Type
	switch m.name {
	case "statement":
		if strings.HasSuffix(t, "Statement") {
			return true
		}
		fallthrough
	case "declaration":
		return strings.HasSuffix(t, "Declaration")
	case "pattern":
		if strings.HasSuffix(t, "Pattern") {
			return true
		}
		fallthrough
	case "expression":
		if strings.HasSuffix(t, "Expression") || strings.HasSuffix(t, "Literal") || t == "MetaProperty" {
			return true
		}
		return t == "Identifier" && (len(anc) == 0 || anc[len(anc)-1].Type != "MetaProperty")
	case "function":
		return n.Is(functionTypes...)
	}
	return false
}

var functionTypes = []string{"FunctionDeclaration", "FunctionExpression", "ArrowFunctionExpression"}

func (m nthChild) match(n *estree.Node, anc []*estree.Node) bool {
	if len(anc) == 0 {
		return false
	}
	parent := anc[len(anc)-1]
	keys, err := estree.VisitorKeys(parent.Type)
	if err != nil {
		return false
	}
	for _, k := range keys {
		arr := parent.Children(k)
		i := estree.IndexIn(arr, n)
		if i < 0 {
			continue
		}
		exp := m.index - 1
		if m.fromEnd {
			exp = len(arr) - m.index
		}
		if i == exp {
			return true
		}
	}
	return false
}

func (m field) match(n *estree.Node, anc []*estree.Node) bool {
	if len(anc) < len(m.path) {
		return false
	}
	return inPath(n, anc[len(anc)-len(m.path)], m.path)
}

func inPath(n *estree.Node, cur interface{}, path []string) bool {
	for i, k := range path {
		p, ok := cur.(*estree.Node)
		if !ok || p == nil {
			return false
		}
		v, _ := p.Get(k)
		if arr, ok := v.([]*estree.Node); ok {
			for _, c := range arr {
				if c != nil && inPath(n, c, path[i+1:]) {
					return true
				}
			}
			return false
		}
		cur = v
	}
	c, ok := cur.(*estree.Node)
	return ok && c == n
}

func (m combinator) match(n *estree.Node, anc []*estree.Node) bool {
	if !m.right.match(n, anc) {
		return false
	}
	l := len(anc)
	switch m.op {
	case '>':
		return l > 0 && m.left.match(anc[l-1], anc[:l-1])
	case ' ':
		for i := l - 1; i >= 0; i-- {
			if m.left.match(anc[i], anc[:i]) {
				return true
			}
		}
		return false
	case '~', '+':
		if l == 0 {
			return false
		}
		parent := anc[l-1]
		keys, err := estree.VisitorKeys(parent.Type)
		if err != nil {
			return false
		}
		for _, k := range keys {
			arr := parent.Children(k)
			i := estree.IndexIn(arr, n)
			if i < 0 {
				continue
			}
			lo := 0
			if m.op == '+' {
				lo = i - 1
			}
			for j := lo; j >= 0 && j < i; j++ {
				if arr[j] != nil && m.left.match(arr[j], anc) {
					return true
				}
			}
		}
	}
	return false
}

// undefined marks a missing property, which is distinct from null.
type undefined struct{}

func lookup(v interface{}, path []string) interface{} {
	for _, k := range path {
		switch o := v.(type) {
		case *estree.Node:
			if o == nil {
				return undefined{}
			}
			if k == "type" {
				v = o.Type
				continue
			}
			val, ok := o.Get(k)
			if !ok {
				return undefined{}
			}
			v = val
		case map[string]interface{}:
			val, ok := o[k]
			if !ok {
				return undefined{}
			}
			v = val
		case []*estree.Node:
			if k == "length" {
				v = float64(len(o))
				continue
			}
			i, err := strconv.Atoi(k)
			if err != nil || i < 0 || i >= len(o) {
				return undefined{}
			}
			v = o[i]
		case []interface{}:
			if k == "length" {
				v = float64(len(o))
				continue
			}
			i, err := strconv.Atoi(k)
			if err != nil || i < 0 || i >= len(o) {
				return undefined{}
			}
			v = o[i]
		case string:
			if k != "length" {
				return undefined{}
			}
			v = float64(len(o))
		default:
			return undefined{}
		}
	}
	return v
}

func isNull(v interface{}) bool {
	switch v := v.(type) {
	case nil, undefined:
		return true
	case *estree.Node:
		return v == nil
	}
	return false
}

// stringify converts a value to a string the same way as a JavaScript template string does.
func stringify(v interface{}) string {
	switch v := v.(type) {
	case undefined:
		return "undefined"
	case nil:
		return "null"
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return formatNumber(v)
	case int:
		return strconv.Itoa(v)
	case *estree.Node:
		if v == nil {
			return "null"
		}
		return "[object Object]"
	case map[string]interface{}:
		return "[object Object]"
	case []*estree.Node:
		parts := make([]string, len(v))
		for i, c := range v {
			if c != nil {
				parts[i] = stringify(c)
			}
		}
		return strings.Join(parts, ",")
	case []interface{}:
		parts := make([]string, len(v))
		for i, c := range v {
			if c != nil {
				parts[i] = stringify(c)
			}
		}
		return strings.Join(parts, ",")
	}
	return "[object Object]"
}

func formatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// typeOf returns a JavaScript type name of the value.
func typeOf(v interface{}) string {
	switch v.(type) {
	case undefined:
		return "undefined"
	case string:
		return "string"
	case bool:
		return "boolean"
	case float64, int:
		return "number"
	}
	return "object"
}

func (m attribute) match(n *estree.Node, _ []*estree.Node) bool {
	v := lookup(n, m.path)
	switch m.op {
	case "":
		return !isNull(v)
	case "=", "!=":
		var eq bool
		switch m.value.kind {
		case valueRegexp:
			s, ok := v.(string)
			eq = ok && m.value.re.MatchString(s)
		case valueType:
			eq = typeOf(v) == m.value.str
		default:
			eq = m.value.str == stringify(v)
		}
		return eq == (m.op == "=")
	}
	return compare(v, m.op, m.value)
}

func compare(v interface{}, op string, val attrValue) bool {
	var c int
	switch {
	case val.kind == valueNumber:
		f, ok := v.(float64)
		if !ok {
			return false
		}
		switch {
		case f < val.num:
			c = -1
		case f > val.num:
			c = 1
		}
	case val.kind == valueLiteral:
		s, ok := v.(string)
		if !ok {
			return false
		}
		c = strings.Compare(s, val.str)
	default:
		return false
	}
	switch op {
	case "<":
		return c < 0
	case "<=":
		return c <= 0
	case ">":
		return c > 0
	case ">=":
		return c >= 0
	}
	return false
}
