package estree

import (
	"fmt"
	"strconv"
	"strings"
)

// Builders for common node types. All of them return detached nodes
// with a zero range and no location.

func Identifier(name string) *Node {
	return New("Identifier", Props{"name": name, "optional": false, "typeAnnotation": nil})
}

func StringLiteral(v string) *Node {
	return New("Literal", Props{"value": v, "raw": QuoteString(v, '"')})
}

// QuoteString converts the string to a JavaScript string literal with a given quote character.
func QuoteString(v string, quote byte) string {
	var buf strings.Builder
	buf.WriteByte(quote)
	for _, r := range v {
		switch r {
		case '\\':
			buf.WriteString(`\\`)
		case '\n':
			buf.WriteString(`\n`)
		case '\r':
			buf.WriteString(`\r`)
		case '\t':
			buf.WriteString(`\t`)
		case '\b':
			buf.WriteString(`\b`)
		case '\f':
			buf.WriteString(`\f`)
		case '\v':
			buf.WriteString(`\v`)
		case '\u2028':
			buf.WriteString(`\u2028`)
		case '\u2029':
			buf.WriteString(`\u2029`)
		default:
			if r == rune(quote) {
				buf.WriteByte('\\')
				buf.WriteRune(r)
			} else if r < 0x20 || r == 0x7f {
				fmt.Fprintf(&buf, `\x%02x`, r)
			} else {
				buf.WriteRune(r)
			}
		}
	}
	buf.WriteByte(quote)
	return buf.String()
}

func NumberLiteral(v float64) *Node {
	return New("Literal", Props{"value": v, "raw": strconv.FormatFloat(v, 'f', -1, 64)})
}

func BooleanLiteral(v bool) *Node {
	return New("Literal", Props{"value": v, "raw": strconv.FormatBool(v)})
}

func NullLiteral() *Node {
	return New("Literal", Props{"value": nil, "raw": "null"})
}

func RegExpLiteral(pattern, flags string) *Node {
	return New("Literal", Props{
		"value": nil,
		"raw":   "/" + pattern + "/" + flags,
		"regex": map[string]interface{}{"pattern": pattern, "flags": flags},
	})
}

// Program creates a module program with given statements.
func Program(body ...*Node) *Node {
	return New("Program", Props{"body": nonNil(body), "sourceType": "module"})
}

func ExpressionStatement(expr *Node) *Node {
	return New("ExpressionStatement", Props{"expression": expr, "directive": nil})
}

func BlockStatement(body ...*Node) *Node {
	return New("BlockStatement", Props{"body": nonNil(body)})
}

func EmptyStatement() *Node {
	return New("EmptyStatement", nil)
}

func ReturnStatement(arg *Node) *Node {
	return New("ReturnStatement", Props{"argument": arg})
}

func IfStatement(test, consequent, alternate *Node) *Node {
	return New("IfStatement", Props{"test": test, "consequent": consequent, "alternate": alternate})
}

func ThrowStatement(arg *Node) *Node {
	return New("ThrowStatement", Props{"argument": arg})
}

// VariableDeclaration creates a declaration of a given kind: var, let or const.
func VariableDeclaration(kind string, decls ...*Node) *Node {
	return New("VariableDeclaration", Props{"kind": kind, "declarations": nonNil(decls)})
}

func VariableDeclarator(id, init *Node) *Node {
	return New("VariableDeclarator", Props{"id": id, "init": init})
}

func CallExpression(callee *Node, args ...*Node) *Node {
	return New("CallExpression", Props{
		"callee": callee, "arguments": nonNil(args),
		"optional": false, "typeArguments": nil,
	})
}

func NewExpression(callee *Node, args ...*Node) *Node {
	return New("NewExpression", Props{"callee": callee, "arguments": nonNil(args), "typeArguments": nil})
}

func MemberExpression(object, property *Node, computed bool) *Node {
	return New("MemberExpression", Props{
		"object": object, "property": property,
		"computed": computed, "optional": false,
	})
}

// MemberChain builds a (possibly nested) member expression from a dotted path like "console.log".
func MemberChain(path string) *Node {
	parts := strings.Split(path, ".")
	n := Identifier(parts[0])
	for _, p := range parts[1:] {
		n = MemberExpression(n, Identifier(p), false)
	}
	return n
}

func BinaryExpression(op string, left, right *Node) *Node {
	return New("BinaryExpression", Props{"operator": op, "left": left, "right": right})
}

func LogicalExpression(op string, left, right *Node) *Node {
	return New("LogicalExpression", Props{"operator": op, "left": left, "right": right})
}

func AssignmentExpression(op string, left, right *Node) *Node {
	return New("AssignmentExpression", Props{"operator": op, "left": left, "right": right})
}

func UnaryExpression(op string, arg *Node) *Node {
	return New("UnaryExpression", Props{"operator": op, "argument": arg, "prefix": true})
}

func ConditionalExpression(test, consequent, alternate *Node) *Node {
	return New("ConditionalExpression", Props{"test": test, "consequent": consequent, "alternate": alternate})
}

func ArrayExpression(elems ...*Node) *Node {
	return New("ArrayExpression", Props{"elements": nonNil(elems), "trailingComma": false})
}

func ObjectExpression(props ...*Node) *Node {
	return New("ObjectExpression", Props{"properties": nonNil(props)})
}

// Property creates an "init" object property.
func Property(key, value *Node) *Node {
	return New("Property", Props{
		"key": key, "value": value, "kind": "init",
		"computed": false, "method": false, "shorthand": false,
	})
}

func ArrowFunctionExpression(params []*Node, body *Node) *Node {
	return New("ArrowFunctionExpression", Props{
		"params": nonNil(params), "body": body,
		"async": false, "expression": body != nil && !body.Is("BlockStatement"),
		"typeParameters": nil, "returnType": nil, "predicate": nil,
	})
}

func FunctionDeclaration(id *Node, params []*Node, body *Node) *Node {
	return New("FunctionDeclaration", Props{
		"id": id, "params": nonNil(params), "body": body,
		"async": false, "generator": false,
		"typeParameters": nil, "returnType": nil, "predicate": nil,
	})
}

func ImportDeclaration(specifiers []*Node, source *Node) *Node {
	return New("ImportDeclaration", Props{
		"specifiers": nonNil(specifiers), "source": source,
		"importKind": "value", "assertions": []*Node{},
	})
}

func ImportSpecifier(imported, local *Node) *Node {
	return New("ImportSpecifier", Props{"imported": imported, "local": local, "importKind": nil})
}

func ImportDefaultSpecifier(local *Node) *Node {
	return New("ImportDefaultSpecifier", Props{"local": local})
}

func ExportNamedDeclaration(decl *Node, specifiers []*Node, source *Node) *Node {
	return New("ExportNamedDeclaration", Props{
		"declaration": decl, "specifiers": nonNil(specifiers),
		"source": source, "exportKind": "value",
	})
}

func nonNil(arr []*Node) []*Node {
	if arr == nil {
		return []*Node{}
	}
	return arr
}
