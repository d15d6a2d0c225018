package printer

import "github.com/bblfsh/codemod/estree"

var precedence = map[string]int{
	"??": 4,
	"||": 5,
	"&&": 6,
	"|":  7,
	"^":  8,
	"&":  9,
	"==": 10, "!=": 10, "===": 10, "!==": 10,
	"<": 11, ">": 11, "<=": 11, ">=": 11, "in": 11, "instanceof": 11,
	">>": 12, "<<": 12, ">>>": 12,
	"+": 13, "-": 13,
	"*": 14, "/": 14, "%": 14,
	"**": 15,
}

func isEquality(op string) bool {
	switch op {
	case "==", "!=", "===", "!==":
		return true
	}
	return false
}

func isMultiplicative(op string) bool {
	return op == "*" || op == "/" || op == "%"
}

func isBitshift(op string) bool {
	return op == ">>" || op == "<<" || op == ">>>"
}

func isBitwise(op string) bool {
	return op == "|" || op == "^" || op == "&" || isBitshift(op)
}

// shouldFlatten reports if a nested binary expression with the same precedence can be
// printed without parentheses.
func shouldFlatten(parentOp, op string) bool {
	switch {
	case precedence[parentOp] != precedence[op]:
		return false
	case parentOp == "**":
		return false
	case isEquality(parentOp) && isEquality(op):
		return false
	case (op == "%" && isMultiplicative(parentOp)) || (parentOp == "%" && isMultiplicative(op)):
		return false
	case op != parentOp && isMultiplicative(op) && isMultiplicative(parentOp):
		return false
	case isBitshift(parentOp) && isBitshift(op):
		return false
	}
	return true
}

func binaryNeedsParens(parent *estree.Node, key string, n *estree.Node) bool {
	po, no := parent.Str("operator"), n.Str("operator")
	if parent.Type == "LogicalExpression" && n.Type == "LogicalExpression" && po != no {
		return true
	}
	pp, np := precedence[po], precedence[no]
	switch {
	case pp > np:
		return true
	case pp == np && key == "right":
		return true
	case pp == np && !shouldFlatten(po, no):
		return true
	case pp < np && no == "%":
		return po == "+" || po == "-"
	case isBitwise(po):
		return true
	}
	return false
}

// hasCall checks if the callee of a new expression contains a call in its member chain.
func hasCall(n *estree.Node) bool {
	for n != nil {
		switch n.Type {
		case "CallExpression":
			return true
		case "MemberExpression":
			n = n.Child("object")
		case "ChainExpression":
			n = n.Child("expression")
		case "TaggedTemplateExpression":
			n = n.Child("tag")
		default:
			return false
		}
	}
	return false
}

// isOperand reports if the parent treats the child as an operand of an operator, where
// any lower-precedence expression must be wrapped.
func isOperand(parent *estree.Node, key string) bool {
	switch parent.Type {
	case "UnaryExpression", "UpdateExpression", "AwaitExpression", "BinaryExpression", "LogicalExpression":
		return true
	case "TaggedTemplateExpression":
		return key == "tag"
	case "MemberExpression":
		return key == "object"
	case "CallExpression", "NewExpression":
		return key == "callee"
	case "ConditionalExpression":
		return key == "test"
	}
	return false
}

func (p *printer) needsParens(parent *estree.Node, key string, n *estree.Node) bool {
	if p.parens[n] {
		return true
	}
	if parent == nil {
		return false
	}
	switch n.Type {
	case "SequenceExpression":
		switch parent.Type {
		case "ExpressionStatement", "SequenceExpression", "ForStatement":
			return false
		}
		return true
	case "ObjectExpression":
		return parent.Is("ArrowFunctionExpression") && key == "body"
	case "AwaitExpression", "YieldExpression", "ArrowFunctionExpression", "ConditionalExpression":
		if n.Type == "ConditionalExpression" && parent.Is("ConditionalExpression") {
			return key == "test"
		}
		return isOperand(parent, key)
	case "AssignmentExpression":
		if parent.Is("ArrowFunctionExpression") {
			return key == "body"
		}
		return isOperand(parent, key)
	case "BinaryExpression", "LogicalExpression":
		if parent.Is("BinaryExpression", "LogicalExpression") {
			return binaryNeedsParens(parent, key, n)
		}
		if parent.Is("ConditionalExpression") {
			return false
		}
		return isOperand(parent, key)
	case "UnaryExpression", "UpdateExpression":
		switch parent.Type {
		case "MemberExpression":
			return key == "object"
		case "CallExpression", "NewExpression":
			return key == "callee"
		case "TaggedTemplateExpression":
			return key == "tag"
		case "BinaryExpression":
			return parent.Str("operator") == "**" && key == "left"
		case "UnaryExpression":
			// -(-x), +(+x)
			return n.Type == "UnaryExpression" && parent.Str("operator") == n.Str("operator") &&
				(n.Str("operator") == "+" || n.Str("operator") == "-")
		}
	case "FunctionExpression", "ClassExpression":
		switch parent.Type {
		case "CallExpression", "NewExpression":
			return key == "callee"
		case "TaggedTemplateExpression":
			return key == "tag"
		case "MemberExpression":
			return key == "object"
		}
	case "CallExpression", "MemberExpression", "TaggedTemplateExpression":
		return parent.Is("NewExpression") && key == "callee" && hasCall(n)
	case "ChainExpression":
		switch parent.Type {
		case "MemberExpression":
			return key == "object"
		case "CallExpression", "NewExpression":
			return key == "callee"
		case "TaggedTemplateExpression":
			return key == "tag"
		}
	case "Literal":
		if parent.Is("MemberExpression") && key == "object" && !parent.Bool("computed") {
			v, _ := n.Get("value")
			_, isNum := v.(float64)
			return isNum
		}
	}
	return false
}

// leftmost returns the child printed first for expressions which do not start with a token of their own.
func leftmost(n *estree.Node) *estree.Node {
	switch n.Type {
	case "CallExpression":
		return n.Child("callee")
	case "MemberExpression":
		return n.Child("object")
	case "TaggedTemplateExpression":
		return n.Child("tag")
	case "BinaryExpression", "LogicalExpression", "AssignmentExpression":
		return n.Child("left")
	case "ConditionalExpression":
		return n.Child("test")
	case "SequenceExpression":
		if list := n.Children("expressions"); len(list) != 0 {
			return list[0]
		}
	case "UpdateExpression":
		if !n.Bool("prefix") {
			return n.Child("argument")
		}
	case "ChainExpression":
		return n.Child("expression")
	}
	return nil
}

// markStatementStart wraps expressions at the start of a statement that would otherwise be
// parsed as a declaration, a block or a directive. The same applies to expression bodies of arrows.
func (p *printer) markStatementStart(expr *estree.Node, stmt bool) {
	if expr == nil {
		return
	}
	if stmt && expr.Is("Literal") {
		if v, _ := expr.Get("value"); v != nil {
			if _, ok := v.(string); ok {
				p.parens[expr] = true
				return
			}
		}
	}
	var prev *estree.Node
	for n := expr; n != nil; n = leftmost(n) {
		switch n.Type {
		case "ObjectExpression":
			p.parens[n] = true
			return
		case "FunctionExpression", "ClassExpression":
			if stmt {
				p.parens[n] = true
			}
			return
		case "ObjectPattern":
			if prev != nil {
				p.parens[prev] = true
			}
			return
		}
		prev = n
	}
}
