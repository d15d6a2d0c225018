package treesitter

import (
	"strings"

	sitter "github.com/alexaandru/go-tree-sitter-bare"

	"github.com/bblfsh/codemod/estree"
)

type lowerer struct {
	src      []byte
	comments []*estree.Comment
}

func (l *lowerer) text(n sitter.Node) string {
	return string(l.src[n.StartByte():n.EndByte()])
}

// mk creates an attached node positioned at the tree-sitter node.
func (l *lowerer) mk(n sitter.Node, typ string, props estree.Props) *estree.Node {
	if props == nil {
		props = make(estree.Props)
	}
	return &estree.Node{Type: typ, Range: rangeOf(n), Loc: locOf(n), Props: props}
}

// children returns named children, skipping comments.
func children(n sitter.Node) []sitter.Node {
	var out []sitter.Node
	for i := range n.NamedChildCount() {
		c := n.NamedChild(i)
		if c.IsNull() || c.Type() == "comment" {
			continue
		}
		out = append(out, c)
	}
	return out
}

func hasToken(n sitter.Node, tok string) bool {
	for i := range n.ChildCount() {
		c := n.Child(i)
		if !c.IsNull() && !c.IsNamed() && c.Type() == tok {
			return true
		}
	}
	return false
}

func sameNode(a, b sitter.Node) bool {
	return a.StartByte() == b.StartByte() && a.EndByte() == b.EndByte() && a.Type() == b.Type()
}

func unsupported(n sitter.Node) error {
	return ErrUnsupported.New(n.Type())
}

// field lowers an optional field of the node.
func (l *lowerer) field(n sitter.Node, name string) (*estree.Node, error) {
	c := n.ChildByFieldName(name)
	if c.IsNull() {
		return nil, nil
	}
	return l.node(c)
}

// required lowers a field that must be present.
func (l *lowerer) required(n sitter.Node, name string) (*estree.Node, error) {
	c := n.ChildByFieldName(name)
	if c.IsNull() {
		return nil, ErrUnsupported.New(n.Type() + " without " + name)
	}
	return l.node(c)
}

func (l *lowerer) list(nodes []sitter.Node) ([]*estree.Node, error) {
	out := make([]*estree.Node, 0, len(nodes))
	for _, c := range nodes {
		v, err := l.node(c)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// first lowers the first named child.
func (l *lowerer) first(n sitter.Node) (*estree.Node, error) {
	kids := children(n)
	if len(kids) == 0 {
		return nil, nil
	}
	return l.node(kids[0])
}

// statements lowers a statement list, marking the directive prologue when requested.
func (l *lowerer) statements(nodes []sitter.Node, directives bool) ([]*estree.Node, error) {
	out, err := l.list(nodes)
	if err != nil {
		return nil, err
	}
	if !directives {
		return out, nil
	}
	for _, s := range out {
		if !s.Is("ExpressionStatement") {
			break
		}
		e := s.Child("expression")
		if !e.Is("Literal") {
			break
		}
		if _, ok := e.Props["value"].(string); !ok {
			break
		}
		// parenthesized strings are not directives
		raw := e.Str("raw")
		if e.Range.Start() != s.Range.Start() {
			break
		}
		s.Set("directive", raw[1:len(raw)-1])
	}
	return out, nil
}

func (l *lowerer) node(n sitter.Node) (*estree.Node, error) {
	switch n.Type() {
	case "program":
		var stmts []sitter.Node
		for _, c := range children(n) {
			if c.Type() == "hash_bang_line" {
				continue
			}
			stmts = append(stmts, c)
		}
		body, err := l.statements(stmts, true)
		if err != nil {
			return nil, err
		}
		return l.mk(n, "Program", estree.Props{"body": body, "sourceType": "module"}), nil
	case "parenthesized_expression":
		kids := children(n)
		if len(kids) != 1 {
			return nil, unsupported(n)
		}
		return l.node(kids[0])
	case "expression_statement":
		expr, err := l.first(n)
		if err != nil {
			return nil, err
		} else if expr == nil {
			return nil, unsupported(n)
		}
		return l.mk(n, "ExpressionStatement", estree.Props{"expression": expr, "directive": nil}), nil
	case "variable_declaration", "lexical_declaration":
		return l.declaration(n)
	case "variable_declarator":
		id, err := l.required(n, "name")
		if err != nil {
			return nil, err
		}
		init, err := l.field(n, "value")
		if err != nil {
			return nil, err
		}
		return l.mk(n, "VariableDeclarator", estree.Props{"id": id, "init": init}), nil
	case "statement_block":
		body, err := l.statements(children(n), false)
		if err != nil {
			return nil, err
		}
		return l.mk(n, "BlockStatement", estree.Props{"body": body}), nil
	case "empty_statement":
		return l.mk(n, "EmptyStatement", nil), nil
	case "if_statement":
		return l.ifStatement(n)
	case "return_statement", "throw_statement":
		arg, err := l.first(n)
		if err != nil {
			return nil, err
		}
		typ := "ReturnStatement"
		if n.Type() == "throw_statement" {
			typ = "ThrowStatement"
		}
		return l.mk(n, typ, estree.Props{"argument": arg}), nil
	case "while_statement", "do_statement":
		test, err := l.required(n, "condition")
		if err != nil {
			return nil, err
		}
		body, err := l.required(n, "body")
		if err != nil {
			return nil, err
		}
		typ := "WhileStatement"
		if n.Type() == "do_statement" {
			typ = "DoWhileStatement"
		}
		return l.mk(n, typ, estree.Props{"test": test, "body": body}), nil
	case "labeled_statement":
		label, err := l.required(n, "label")
		if err != nil {
			return nil, err
		}
		body, err := l.required(n, "body")
		if err != nil {
			return nil, err
		}
		return l.mk(n, "LabeledStatement", estree.Props{"label": label, "body": body}), nil
	case "break_statement", "continue_statement":
		label, err := l.field(n, "label")
		if err != nil {
			return nil, err
		}
		typ := "BreakStatement"
		if n.Type() == "continue_statement" {
			typ = "ContinueStatement"
		}
		return l.mk(n, typ, estree.Props{"label": label}), nil
	case "try_statement":
		return l.tryStatement(n)
	case "switch_statement":
		return l.switchStatement(n)
	case "function_declaration", "generator_function_declaration",
		"function_expression", "function", "generator_function":
		return l.function(n)
	case "arrow_function":
		return l.arrow(n)
	case "call_expression":
		return l.call(n)
	case "new_expression":
		callee, err := l.required(n, "constructor")
		if err != nil {
			return nil, err
		}
		args := []*estree.Node{}
		if a := n.ChildByFieldName("arguments"); !a.IsNull() {
			if args, err = l.list(children(a)); err != nil {
				return nil, err
			}
		}
		return l.mk(n, "NewExpression", estree.Props{"callee": callee, "arguments": args, "typeArguments": nil}), nil
	case "member_expression", "subscript_expression":
		return l.member(n)
	case "await_expression":
		arg, err := l.first(n)
		if err != nil {
			return nil, err
		}
		return l.mk(n, "AwaitExpression", estree.Props{"argument": arg}), nil
	case "binary_expression":
		return l.binary(n)
	case "unary_expression":
		op := n.ChildByFieldName("operator")
		arg, err := l.required(n, "argument")
		if err != nil {
			return nil, err
		} else if op.IsNull() {
			return nil, unsupported(n)
		}
		return l.mk(n, "UnaryExpression", estree.Props{"operator": op.Type(), "argument": arg, "prefix": true}), nil
	case "update_expression":
		op := n.ChildByFieldName("operator")
		argNode := n.ChildByFieldName("argument")
		if op.IsNull() || argNode.IsNull() {
			return nil, unsupported(n)
		}
		arg, err := l.node(argNode)
		if err != nil {
			return nil, err
		}
		return l.mk(n, "UpdateExpression", estree.Props{
			"operator": op.Type(), "argument": arg,
			"prefix": op.StartByte() < argNode.StartByte(),
		}), nil
	case "assignment_expression", "augmented_assignment_expression":
		left, err := l.required(n, "left")
		if err != nil {
			return nil, err
		}
		right, err := l.required(n, "right")
		if err != nil {
			return nil, err
		}
		op := "="
		if o := n.ChildByFieldName("operator"); !o.IsNull() {
			op = o.Type()
		}
		return l.mk(n, "AssignmentExpression", estree.Props{"operator": op, "left": left, "right": right}), nil
	case "ternary_expression":
		test, err := l.required(n, "condition")
		if err != nil {
			return nil, err
		}
		cons, err := l.required(n, "consequence")
		if err != nil {
			return nil, err
		}
		alt, err := l.required(n, "alternative")
		if err != nil {
			return nil, err
		}
		return l.mk(n, "ConditionalExpression", estree.Props{"test": test, "consequent": cons, "alternate": alt}), nil
	case "sequence_expression":
		exprs, err := l.list(flattenSequence(n, nil))
		if err != nil {
			return nil, err
		}
		return l.mk(n, "SequenceExpression", estree.Props{"expressions": exprs}), nil
	case "array", "array_pattern":
		return l.array(n)
	case "object", "object_pattern":
		props, err := l.list(children(n))
		if err != nil {
			return nil, err
		}
		typ := "ObjectExpression"
		if n.Type() == "object_pattern" {
			typ = "ObjectPattern"
		}
		return l.mk(n, typ, estree.Props{"properties": props}), nil
	case "pair", "pair_pattern":
		return l.pair(n)
	case "shorthand_property_identifier", "shorthand_property_identifier_pattern":
		return l.mk(n, "Property", estree.Props{
			"key": l.ident(n), "value": l.ident(n), "kind": "init",
			"computed": false, "method": false, "shorthand": true,
		}), nil
	case "object_assignment_pattern":
		leftNode := n.ChildByFieldName("left")
		if leftNode.IsNull() {
			return nil, unsupported(n)
		}
		key, err := l.node(leftNode)
		if err != nil {
			return nil, err
		}
		if key.Is("Property") {
			key = key.Child("key")
		}
		right, err := l.required(n, "right")
		if err != nil {
			return nil, err
		}
		value := l.mk(n, "AssignmentPattern", estree.Props{"left": l.ident(leftNode), "right": right})
		return l.mk(n, "Property", estree.Props{
			"key": key, "value": value, "kind": "init",
			"computed": false, "method": false, "shorthand": true,
		}), nil
	case "assignment_pattern":
		left, err := l.required(n, "left")
		if err != nil {
			return nil, err
		}
		right, err := l.required(n, "right")
		if err != nil {
			return nil, err
		}
		return l.mk(n, "AssignmentPattern", estree.Props{"left": left, "right": right}), nil
	case "spread_element", "rest_pattern":
		arg, err := l.first(n)
		if err != nil {
			return nil, err
		}
		if n.Type() == "rest_pattern" {
			return l.mk(n, "RestElement", estree.Props{"argument": arg, "typeAnnotation": nil}), nil
		}
		return l.mk(n, "SpreadElement", estree.Props{"argument": arg}), nil
	case "identifier", "property_identifier", "statement_identifier", "undefined":
		return l.ident(n), nil
	case "private_property_identifier":
		return l.mk(n, "PrivateIdentifier", estree.Props{"name": strings.TrimPrefix(l.text(n), "#")}), nil
	case "this":
		return l.mk(n, "ThisExpression", nil), nil
	case "super":
		return l.mk(n, "Super", nil), nil
	case "true", "false":
		return l.mk(n, "Literal", estree.Props{"value": n.Type() == "true", "raw": n.Type()}), nil
	case "null":
		return l.mk(n, "Literal", estree.Props{"value": nil, "raw": "null"}), nil
	case "number":
		raw := l.text(n)
		v, bigint := numberValue(raw)
		if bigint != "" {
			return l.mk(n, "Literal", estree.Props{"value": nil, "raw": raw, "bigint": bigint}), nil
		}
		return l.mk(n, "Literal", estree.Props{"value": v, "raw": raw}), nil
	case "string":
		raw := l.text(n)
		if len(raw) < 2 {
			return nil, unsupported(n)
		}
		return l.mk(n, "Literal", estree.Props{"value": unescape(raw[1 : len(raw)-1]), "raw": raw}), nil
	case "regex":
		pattern := n.ChildByFieldName("pattern")
		flags := ""
		if f := n.ChildByFieldName("flags"); !f.IsNull() {
			flags = l.text(f)
		}
		p := ""
		if !pattern.IsNull() {
			p = l.text(pattern)
		}
		return l.mk(n, "Literal", estree.Props{
			"value": nil, "raw": l.text(n),
			"regex": map[string]interface{}{"pattern": p, "flags": flags},
		}), nil
	case "template_string":
		return l.template(n)
	case "import_statement":
		return l.importStatement(n)
	case "export_statement":
		return l.exportStatement(n)
	}
	return nil, unsupported(n)
}

func (l *lowerer) ident(n sitter.Node) *estree.Node {
	return l.mk(n, "Identifier", estree.Props{"name": l.text(n), "optional": false, "typeAnnotation": nil})
}

func flattenSequence(n sitter.Node, out []sitter.Node) []sitter.Node {
	for _, c := range children(n) {
		if c.Type() == "sequence_expression" {
			out = flattenSequence(c, out)
			continue
		}
		out = append(out, c)
	}
	return out
}

func (l *lowerer) declaration(n sitter.Node) (*estree.Node, error) {
	kind := "var"
	if n.Type() == "lexical_declaration" {
		k := n.ChildByFieldName("kind")
		if k.IsNull() {
			return nil, unsupported(n)
		}
		kind = k.Type()
	}
	decls := []*estree.Node{}
	for _, c := range children(n) {
		if c.Type() != "variable_declarator" {
			continue
		}
		d, err := l.node(c)
		if err != nil {
			return nil, err
		}
		decls = append(decls, d)
	}
	return l.mk(n, "VariableDeclaration", estree.Props{"kind": kind, "declarations": decls}), nil
}

func (l *lowerer) ifStatement(n sitter.Node) (*estree.Node, error) {
	test, err := l.required(n, "condition")
	if err != nil {
		return nil, err
	}
	cons, err := l.required(n, "consequence")
	if err != nil {
		return nil, err
	}
	var alt *estree.Node
	if e := n.ChildByFieldName("alternative"); !e.IsNull() {
		// else_clause
		if alt, err = l.first(e); err != nil {
			return nil, err
		}
	}
	return l.mk(n, "IfStatement", estree.Props{"test": test, "consequent": cons, "alternate": alt}), nil
}

func (l *lowerer) tryStatement(n sitter.Node) (*estree.Node, error) {
	block, err := l.required(n, "body")
	if err != nil {
		return nil, err
	}
	var handler, finalizer *estree.Node
	if h := n.ChildByFieldName("handler"); !h.IsNull() {
		param, err := l.field(h, "parameter")
		if err != nil {
			return nil, err
		}
		body, err := l.required(h, "body")
		if err != nil {
			return nil, err
		}
		handler = l.mk(h, "CatchClause", estree.Props{"param": param, "body": body})
	}
	if f := n.ChildByFieldName("finalizer"); !f.IsNull() {
		if finalizer, err = l.required(f, "body"); err != nil {
			return nil, err
		}
	}
	return l.mk(n, "TryStatement", estree.Props{"block": block, "handler": handler, "finalizer": finalizer}), nil
}

func (l *lowerer) switchStatement(n sitter.Node) (*estree.Node, error) {
	disc, err := l.required(n, "value")
	if err != nil {
		return nil, err
	}
	body := n.ChildByFieldName("body")
	if body.IsNull() {
		return nil, unsupported(n)
	}
	cases := []*estree.Node{}
	for _, c := range children(body) {
		var test *estree.Node
		stmts := children(c)
		switch c.Type() {
		case "switch_case":
			v := c.ChildByFieldName("value")
			if v.IsNull() {
				return nil, unsupported(c)
			}
			if test, err = l.node(v); err != nil {
				return nil, err
			}
			var rest []sitter.Node
			for _, s := range stmts {
				if !sameNode(s, v) {
					rest = append(rest, s)
				}
			}
			stmts = rest
		case "switch_default":
		default:
			return nil, unsupported(c)
		}
		cons, err := l.statements(stmts, false)
		if err != nil {
			return nil, err
		}
		cases = append(cases, l.mk(c, "SwitchCase", estree.Props{"test": test, "consequent": cons}))
	}
	return l.mk(n, "SwitchStatement", estree.Props{"discriminant": disc, "cases": cases}), nil
}

func (l *lowerer) params(n sitter.Node) ([]*estree.Node, error) {
	if p := n.ChildByFieldName("parameter"); !p.IsNull() {
		v, err := l.node(p)
		if err != nil {
			return nil, err
		}
		return []*estree.Node{v}, nil
	}
	p := n.ChildByFieldName("parameters")
	if p.IsNull() {
		return []*estree.Node{}, nil
	}
	return l.list(children(p))
}

// functionBody lowers a function body block, detecting directives.
func (l *lowerer) functionBody(n sitter.Node) (*estree.Node, error) {
	b := n.ChildByFieldName("body")
	if b.IsNull() {
		return nil, unsupported(n)
	}
	if b.Type() != "statement_block" {
		return l.node(b)
	}
	body, err := l.statements(children(b), true)
	if err != nil {
		return nil, err
	}
	return l.mk(b, "BlockStatement", estree.Props{"body": body}), nil
}

func (l *lowerer) function(n sitter.Node) (*estree.Node, error) {
	id, err := l.field(n, "name")
	if err != nil {
		return nil, err
	}
	params, err := l.params(n)
	if err != nil {
		return nil, err
	}
	body, err := l.functionBody(n)
	if err != nil {
		return nil, err
	}
	typ := "FunctionExpression"
	if strings.HasSuffix(n.Type(), "_declaration") {
		typ = "FunctionDeclaration"
	}
	return l.mk(n, typ, estree.Props{
		"id": id, "params": params, "body": body,
		"async":     hasToken(n, "async"),
		"generator": strings.Contains(n.Type(), "generator") || hasToken(n, "*"),
		"typeParameters": nil, "returnType": nil, "predicate": nil,
	}), nil
}

func (l *lowerer) arrow(n sitter.Node) (*estree.Node, error) {
	params, err := l.params(n)
	if err != nil {
		return nil, err
	}
	body, err := l.functionBody(n)
	if err != nil {
		return nil, err
	}
	return l.mk(n, "ArrowFunctionExpression", estree.Props{
		"params": params, "body": body,
		"async":      hasToken(n, "async"),
		"expression": !body.Is("BlockStatement"),
		"typeParameters": nil, "returnType": nil, "predicate": nil,
	}), nil
}

func (l *lowerer) call(n sitter.Node) (*estree.Node, error) {
	if !n.ChildByFieldName("optional_chain").IsNull() {
		return nil, ErrUnsupported.New("optional_chain")
	}
	callee, err := l.required(n, "function")
	if err != nil {
		return nil, err
	}
	a := n.ChildByFieldName("arguments")
	if a.IsNull() {
		return nil, unsupported(n)
	}
	if a.Type() == "template_string" {
		quasi, err := l.template(a)
		if err != nil {
			return nil, err
		}
		return l.mk(n, "TaggedTemplateExpression", estree.Props{"tag": callee, "quasi": quasi, "typeArguments": nil}), nil
	}
	args, err := l.list(children(a))
	if err != nil {
		return nil, err
	}
	return l.mk(n, "CallExpression", estree.Props{
		"callee": callee, "arguments": args,
		"optional": false, "typeArguments": nil,
	}), nil
}

func (l *lowerer) member(n sitter.Node) (*estree.Node, error) {
	if !n.ChildByFieldName("optional_chain").IsNull() {
		return nil, ErrUnsupported.New("optional_chain")
	}
	obj, err := l.required(n, "object")
	if err != nil {
		return nil, err
	}
	computed := n.Type() == "subscript_expression"
	key := "property"
	if computed {
		key = "index"
	}
	prop, err := l.required(n, key)
	if err != nil {
		return nil, err
	}
	return l.mk(n, "MemberExpression", estree.Props{
		"object": obj, "property": prop,
		"computed": computed, "optional": false,
	}), nil
}

func (l *lowerer) binary(n sitter.Node) (*estree.Node, error) {
	op := n.ChildByFieldName("operator")
	if op.IsNull() {
		return nil, unsupported(n)
	}
	left, err := l.required(n, "left")
	if err != nil {
		return nil, err
	}
	right, err := l.required(n, "right")
	if err != nil {
		return nil, err
	}
	typ := "BinaryExpression"
	switch op.Type() {
	case "&&", "||", "??":
		typ = "LogicalExpression"
	}
	return l.mk(n, typ, estree.Props{"operator": op.Type(), "left": left, "right": right}), nil
}

// array lowers array literals and patterns. Holes are represented with nil elements.
func (l *lowerer) array(n sitter.Node) (*estree.Node, error) {
	elems := []*estree.Node{}
	hasElem := false
	for i := range n.ChildCount() {
		c := n.Child(i)
		if c.IsNull() || c.Type() == "comment" {
			continue
		}
		if !c.IsNamed() {
			if c.Type() == "," {
				if !hasElem {
					elems = append(elems, nil)
				}
				hasElem = false
			}
			continue
		}
		v, err := l.node(c)
		if err != nil {
			return nil, err
		}
		elems = append(elems, v)
		hasElem = true
	}
	if n.Type() == "array_pattern" {
		return l.mk(n, "ArrayPattern", estree.Props{"elements": elems, "typeAnnotation": nil}), nil
	}
	return l.mk(n, "ArrayExpression", estree.Props{"elements": elems, "trailingComma": false}), nil
}

func (l *lowerer) pair(n sitter.Node) (*estree.Node, error) {
	k := n.ChildByFieldName("key")
	if k.IsNull() {
		return nil, unsupported(n)
	}
	computed := k.Type() == "computed_property_name"
	var key *estree.Node
	var err error
	if computed {
		key, err = l.first(k)
	} else {
		key, err = l.node(k)
	}
	if err != nil {
		return nil, err
	}
	value, err := l.required(n, "value")
	if err != nil {
		return nil, err
	}
	return l.mk(n, "Property", estree.Props{
		"key": key, "value": value, "kind": "init",
		"computed": computed, "method": false, "shorthand": false,
	}), nil
}

func (l *lowerer) template(n sitter.Node) (*estree.Node, error) {
	quasis := []*estree.Node{}
	exprs := []*estree.Node{}
	pos := int(n.StartByte()) + 1
	for _, c := range children(n) {
		if c.Type() != "template_substitution" {
			continue
		}
		quasis = append(quasis, l.quasi(pos, int(c.StartByte()), false))
		e, err := l.first(c)
		if err != nil {
			return nil, err
		} else if e == nil {
			return nil, unsupported(c)
		}
		exprs = append(exprs, e)
		pos = int(c.EndByte())
	}
	quasis = append(quasis, l.quasi(pos, int(n.EndByte())-1, true))
	return l.mk(n, "TemplateLiteral", estree.Props{"quasis": quasis, "expressions": exprs}), nil
}

func (l *lowerer) quasi(start, end int, tail bool) *estree.Node {
	raw := string(l.src[start:end])
	return &estree.Node{
		Type:  "TemplateElement",
		Range: estree.Range{start, end},
		Props: estree.Props{
			"value": map[string]interface{}{"raw": raw, "cooked": unescape(raw)},
			"tail":  tail,
		},
	}
}

func (l *lowerer) importStatement(n sitter.Node) (*estree.Node, error) {
	source, err := l.required(n, "source")
	if err != nil {
		return nil, err
	}
	specs := []*estree.Node{}
	for _, clause := range children(n) {
		if clause.Type() != "import_clause" {
			continue
		}
		for _, c := range children(clause) {
			switch c.Type() {
			case "identifier":
				specs = append(specs, l.mk(c, "ImportDefaultSpecifier", estree.Props{"local": l.ident(c)}))
			case "namespace_import":
				local, err := l.first(c)
				if err != nil {
					return nil, err
				}
				specs = append(specs, l.mk(c, "ImportNamespaceSpecifier", estree.Props{"local": local}))
			case "named_imports":
				for _, s := range children(c) {
					spec, err := l.specifier(s, "ImportSpecifier", "imported", "local")
					if err != nil {
						return nil, err
					}
					spec.Set("importKind", nil)
					specs = append(specs, spec)
				}
			default:
				return nil, unsupported(c)
			}
		}
	}
	return l.mk(n, "ImportDeclaration", estree.Props{
		"specifiers": specs, "source": source,
		"importKind": "value", "assertions": []*estree.Node{},
	}), nil
}

// specifier lowers import and export specifiers of the form "name as alias".
func (l *lowerer) specifier(n sitter.Node, typ, nameKey, aliasKey string) (*estree.Node, error) {
	if n.Type() != "import_specifier" && n.Type() != "export_specifier" {
		return nil, unsupported(n)
	}
	nameNode := n.ChildByFieldName("name")
	if nameNode.IsNull() {
		return nil, unsupported(n)
	}
	name, err := l.node(nameNode)
	if err != nil {
		return nil, err
	}
	aliasNode := n.ChildByFieldName("alias")
	if aliasNode.IsNull() {
		aliasNode = nameNode
	}
	alias, err := l.node(aliasNode)
	if err != nil {
		return nil, err
	}
	if typ == "ImportSpecifier" {
		return l.mk(n, typ, estree.Props{nameKey: name, aliasKey: alias}), nil
	}
	return l.mk(n, typ, estree.Props{"local": name, "exported": alias, "exportKind": "value"}), nil
}

func (l *lowerer) exportStatement(n sitter.Node) (*estree.Node, error) {
	source, err := l.field(n, "source")
	if err != nil {
		return nil, err
	}
	isDefault := hasToken(n, "default")
	if d := n.ChildByFieldName("declaration"); !d.IsNull() {
		decl, err := l.node(d)
		if err != nil {
			return nil, err
		}
		if isDefault {
			return l.mk(n, "ExportDefaultDeclaration", estree.Props{"declaration": decl, "exportKind": "value"}), nil
		}
		return l.mk(n, "ExportNamedDeclaration", estree.Props{
			"declaration": decl, "specifiers": []*estree.Node{},
			"source": nil, "exportKind": "value",
		}), nil
	}
	if v := n.ChildByFieldName("value"); !v.IsNull() {
		decl, err := l.node(v)
		if err != nil {
			return nil, err
		}
		if decl.Is("FunctionExpression") {
			decl.Type = "FunctionDeclaration"
		}
		return l.mk(n, "ExportDefaultDeclaration", estree.Props{"declaration": decl, "exportKind": "value"}), nil
	}
	var exported *estree.Node
	all := hasToken(n, "*")
	for _, c := range children(n) {
		if c.Type() == "namespace_export" {
			all = true
			if exported, err = l.first(c); err != nil {
				return nil, err
			}
		}
	}
	if all {
		return l.mk(n, "ExportAllDeclaration", estree.Props{
			"exported": exported, "source": source, "exportKind": "value",
		}), nil
	}
	specs := []*estree.Node{}
	for _, c := range children(n) {
		if c.Type() != "export_clause" {
			continue
		}
		for _, s := range children(c) {
			spec, err := l.specifier(s, "ExportSpecifier", "local", "exported")
			if err != nil {
				return nil, err
			}
			specs = append(specs, spec)
		}
	}
	return l.mk(n, "ExportNamedDeclaration", estree.Props{
		"declaration": nil, "specifiers": specs,
		"source": source, "exportKind": "value",
	}), nil
}
