package printer

import (
	"strconv"
	"strings"

	"github.com/bblfsh/codemod/comments"
	"github.com/bblfsh/codemod/estree"
)

type printer struct {
	code string
	opts Options
	unit string

	out         strings.Builder
	depth       int
	atLineStart bool
	// a line comment was printed, the next token must start on a new line
	lineComment bool

	// nodes that must be wrapped into parentheses regardless of the context
	parens  map[*estree.Node]bool
	printed map[*estree.Comment]bool
}

func (p *printer) write(s string) {
	if s == "" {
		return
	}
	if p.lineComment {
		p.lineComment = false
		if !p.atLineStart && s[0] != '\n' {
			p.newline()
		}
	}
	if p.atLineStart && s[0] != '\n' {
		s = strings.TrimLeft(s, " ")
		if s == "" {
			return
		}
		p.out.WriteString(strings.Repeat(p.unit, p.depth))
		p.atLineStart = false
	}
	p.out.WriteString(s)
}

func (p *printer) newline() {
	p.out.WriteByte('\n')
	p.atLineStart = true
	p.lineComment = false
}

func (p *printer) semi() {
	if p.opts.Semi {
		p.write(";")
	}
}

// node prints the node with its comments. Parent and key describe the position of
// the node, and are used to decide if parentheses are needed.
func (p *printer) node(parent *estree.Node, key string, n *estree.Node) error {
	if n == nil {
		return nil
	}
	p.leadingComments(n)
	paren := p.needsParens(parent, key, n)
	if paren {
		p.write("(")
	}
	if err := p.body(parent, key, n); err != nil {
		return err
	}
	if paren {
		p.write(")")
	}
	p.trailingComments(n)
	return nil
}

func (p *printer) child(n *estree.Node, key string) error {
	return p.node(n, key, n.Child(key))
}

// list prints children of the field separated by the separator. Array holes are printed as empty strings.
func (p *printer) list(n *estree.Node, key string, sep string) error {
	for i, c := range n.Children(key) {
		if i != 0 {
			p.write(sep)
		}
		if err := p.node(n, key, c); err != nil {
			return err
		}
	}
	return nil
}

func (p *printer) commentText(c *estree.Comment) string {
	if c.Type == estree.CommentLine {
		s, e := c.Range.Start(), c.Range.End()
		if !c.Range.IsZero() && s <= e && e <= len(p.code) && strings.HasPrefix(p.code[s:e], "//") {
			return strings.TrimRight(p.code[s:e], "\r")
		}
	}
	return c.Text()
}

func (p *printer) leadingComments(n *estree.Node) {
	for _, c := range n.Comments {
		if !c.Leading || p.printed[c] {
			continue
		}
		p.printed[c] = true
		p.write(p.commentText(c))
		if c.Type == estree.CommentLine || comments.HasNewlineAfter(p.code, c.Range.End()) {
			p.newline()
			// synthetic comments have no location
			if c.Loc != nil && p.nextLineEmpty(c.Range.End()) {
				p.newline()
			}
		} else {
			p.write(" ")
		}
	}
}

func (p *printer) trailingComments(n *estree.Node) {
	for _, c := range n.Comments {
		if !c.Trailing || p.printed[c] {
			continue
		}
		p.printed[c] = true
		if comments.HasNewlineBefore(p.code, c.Range.Start()) {
			p.newline()
		} else {
			p.write(" ")
		}
		p.write(p.commentText(c))
		if c.Type == estree.CommentLine {
			p.lineComment = true
		}
	}
}

// danglingComments prints comments which are neither leading nor trailing, each on its own line.
func (p *printer) danglingComments(n *estree.Node) bool {
	found := false
	for _, c := range comments.Dangling(n) {
		if p.printed[c] {
			continue
		}
		p.printed[c] = true
		if found {
			p.newline()
		}
		p.write(p.commentText(c))
		found = true
	}
	return found
}

func hasDangling(n *estree.Node) bool {
	return len(comments.Dangling(n)) != 0
}

func isSkipped(s *estree.Node) bool {
	return s == nil || (s.Type == "EmptyStatement" && len(s.Comments) == 0)
}

func hasStatements(list []*estree.Node) bool {
	for _, s := range list {
		if !isSkipped(s) {
			return true
		}
	}
	return false
}

// nextLineEmpty checks if the line after the offset is blank. Comments and separators
// on the rest of the current line are skipped.
func (p *printer) nextLineEmpty(off int) bool {
	code := p.code
	if off <= 0 || off > len(code) {
		return false
	}
	i := off
	for i < len(code) {
		switch c := code[i]; {
		case c == ' ' || c == '\t' || c == ',' || c == ';':
			i++
			continue
		case strings.HasPrefix(code[i:], "/*"):
			end := strings.Index(code[i+2:], "*/")
			if end < 0 || strings.ContainsAny(code[i:i+2+end], "\n") {
				return false
			}
			i += end + 4
			continue
		case strings.HasPrefix(code[i:], "//"):
			end := strings.IndexByte(code[i:], '\n')
			if end < 0 {
				return false
			}
			i += end
		}
		break
	}
	if i < len(code) && code[i] == '\r' {
		i++
	}
	if i >= len(code) || code[i] != '\n' {
		return false
	}
	i++
	for i < len(code) && (code[i] == ' ' || code[i] == '\t' || code[i] == '\r') {
		i++
	}
	return i < len(code) && code[i] == '\n'
}

func (p *printer) statements(parent *estree.Node, key string, list []*estree.Node) error {
	first := true
	for i, s := range list {
		if isSkipped(s) {
			continue
		}
		if !first {
			p.newline()
		}
		first = false
		if err := p.node(parent, key, s); err != nil {
			return err
		}
		if i < len(list)-1 && !s.Range.IsZero() && p.nextLineEmpty(s.Range.End()) {
			p.newline()
		}
	}
	return nil
}

func (p *printer) block(n *estree.Node, key string) error {
	body := n.Children(key)
	if !hasStatements(body) && !hasDangling(n) {
		p.write("{}")
		return nil
	}
	p.write("{")
	p.depth++
	p.newline()
	if p.danglingComments(n) && hasStatements(body) {
		p.newline()
	}
	if err := p.statements(n, key, body); err != nil {
		return err
	}
	p.depth--
	p.newline()
	p.write("}")
	return nil
}

// clause prints a body of a control statement.
func (p *printer) clause(n *estree.Node, key string) error {
	c := n.Child(key)
	switch {
	case c == nil:
		return nil
	case c.Is("EmptyStatement"):
		p.write(";")
		return nil
	}
	p.write(" ")
	return p.node(n, key, c)
}

func (p *printer) verbatim(n *estree.Node) error {
	if n.Range.IsZero() || n.Range.Start() > n.Range.End() || n.Range.End() > len(p.code) {
		return ErrUnsupported.New(n.Type)
	}
	// changed descendants would be lost when copying the source
	for it := estree.NewIterator(n, estree.PreOrder); it.Next(); {
		c := it.Node()
		if c.Range.IsZero() || !n.Range.Contains(c.Range) {
			return ErrUnsupported.New(c.Type)
		}
	}
	p.write(p.code[n.Range.Start():n.Range.End()])
	return nil
}

// annotation prints an optional type annotation field, copying it from the source.
func (p *printer) annotation(n *estree.Node, key string) error {
	a := n.Child(key)
	if a == nil {
		return nil
	}
	return p.verbatim(a)
}

func (p *printer) typeAnnotation(n *estree.Node) error {
	a := n.Child("typeAnnotation")
	if a == nil {
		return nil
	}
	if a.Range.IsZero() {
		return ErrUnsupported.New(a.Type)
	}
	text := p.code[a.Range.Start():a.Range.End()]
	if !strings.HasPrefix(text, ":") {
		p.write(": ")
	}
	return p.verbatim(a)
}

func (p *printer) body(parent *estree.Node, key string, n *estree.Node) error {
	switch n.Type {
	case "Program":
		if p.danglingComments(n) && hasStatements(n.Children("body")) {
			p.newline()
		}
		return p.statements(n, "body", n.Children("body"))
	case "BlockStatement", "StaticBlock":
		if n.Type == "StaticBlock" {
			p.write("static ")
		}
		return p.block(n, "body")
	case "EmptyStatement":
		p.write(";")
	case "ExpressionStatement":
		expr := n.Child("expression")
		if d, ok := n.Get("directive"); ok && d != nil {
			if raw := expr.Str("raw"); raw != "" {
				p.write(raw)
				p.semi()
				return nil
			}
		}
		p.markStatementStart(expr, true)
		if err := p.child(n, "expression"); err != nil {
			return err
		}
		p.semi()
	case "VariableDeclaration":
		p.write(n.Str("kind") + " ")
		if err := p.list(n, "declarations", ", "); err != nil {
			return err
		}
		if !isForHead(parent, key) {
			p.semi()
		}
	case "VariableDeclarator":
		if err := p.child(n, "id"); err != nil {
			return err
		}
		if n.Child("init") != nil {
			p.write(" = ")
			return p.child(n, "init")
		}
	case "ReturnStatement", "ThrowStatement":
		if n.Type == "ReturnStatement" {
			p.write("return")
		} else {
			p.write("throw")
		}
		if n.Child("argument") != nil {
			p.write(" ")
			if err := p.child(n, "argument"); err != nil {
				return err
			}
		}
		p.semi()
	case "BreakStatement", "ContinueStatement":
		if n.Type == "BreakStatement" {
			p.write("break")
		} else {
			p.write("continue")
		}
		if n.Child("label") != nil {
			p.write(" ")
			if err := p.child(n, "label"); err != nil {
				return err
			}
		}
		p.semi()
	case "DebuggerStatement":
		p.write("debugger")
		p.semi()
	case "IfStatement":
		return p.ifStatement(n)
	case "ForStatement":
		p.write("for (")
		if err := p.child(n, "init"); err != nil {
			return err
		}
		p.write(";")
		if n.Child("test") != nil {
			p.write(" ")
			if err := p.child(n, "test"); err != nil {
				return err
			}
		}
		p.write(";")
		if n.Child("update") != nil {
			p.write(" ")
			if err := p.child(n, "update"); err != nil {
				return err
			}
		}
		p.write(")")
		return p.clause(n, "body")
	case "ForInStatement", "ForOfStatement":
		p.write("for")
		op := " in "
		if n.Type == "ForOfStatement" {
			op = " of "
			if n.Bool("await") {
				p.write(" await")
			}
		}
		p.write(" (")
		if err := p.child(n, "left"); err != nil {
			return err
		}
		p.write(op)
		if err := p.child(n, "right"); err != nil {
			return err
		}
		p.write(")")
		return p.clause(n, "body")
	case "WhileStatement":
		p.write("while (")
		if err := p.child(n, "test"); err != nil {
			return err
		}
		p.write(")")
		return p.clause(n, "body")
	case "DoWhileStatement":
		p.write("do")
		if err := p.clause(n, "body"); err != nil {
			return err
		}
		if n.Child("body").Is("BlockStatement") {
			p.write(" ")
		} else {
			p.newline()
		}
		p.write("while (")
		if err := p.child(n, "test"); err != nil {
			return err
		}
		p.write(")")
		p.semi()
	case "WithStatement":
		p.write("with (")
		if err := p.child(n, "object"); err != nil {
			return err
		}
		p.write(")")
		return p.clause(n, "body")
	case "LabeledStatement":
		if err := p.child(n, "label"); err != nil {
			return err
		}
		p.write(":")
		return p.clause(n, "body")
	case "TryStatement":
		p.write("try ")
		if err := p.child(n, "block"); err != nil {
			return err
		}
		if n.Child("handler") != nil {
			p.write(" ")
			if err := p.child(n, "handler"); err != nil {
				return err
			}
		}
		if n.Child("finalizer") != nil {
			p.write(" finally ")
			return p.child(n, "finalizer")
		}
	case "CatchClause":
		p.write("catch ")
		if n.Child("param") != nil {
			p.write("(")
			if err := p.child(n, "param"); err != nil {
				return err
			}
			p.write(") ")
		}
		return p.child(n, "body")
	case "SwitchStatement":
		return p.switchStatement(n)
	case "SwitchCase":
		return p.switchCase(n)
	case "FunctionDeclaration", "FunctionExpression":
		return p.function(n)
	case "ArrowFunctionExpression":
		return p.arrow(n)
	case "ClassDeclaration", "ClassExpression":
		return p.class(n)
	case "ClassBody":
		return p.block(n, "body")
	case "MethodDefinition":
		return p.method(n)
	case "PropertyDefinition":
		if n.Bool("static") {
			p.write("static ")
		}
		if err := p.key(n); err != nil {
			return err
		}
		if err := p.typeAnnotation(n); err != nil {
			return err
		}
		if n.Child("value") != nil {
			p.write(" = ")
			if err := p.child(n, "value"); err != nil {
				return err
			}
		}
		p.semi()
	case "ImportDeclaration":
		return p.importDeclaration(n)
	case "ImportSpecifier":
		if k := n.Str("importKind"); k == "type" || k == "typeof" {
			p.write(k + " ")
		}
		if err := p.child(n, "imported"); err != nil {
			return err
		}
		if !sameName(n.Child("imported"), n.Child("local")) {
			p.write(" as ")
			return p.child(n, "local")
		}
	case "ImportDefaultSpecifier":
		return p.child(n, "local")
	case "ImportNamespaceSpecifier":
		p.write("* as ")
		return p.child(n, "local")
	case "ExportNamedDeclaration":
		return p.exportNamed(n)
	case "ExportSpecifier":
		if err := p.child(n, "local"); err != nil {
			return err
		}
		if !sameName(n.Child("local"), n.Child("exported")) {
			p.write(" as ")
			return p.child(n, "exported")
		}
	case "ExportDefaultDeclaration":
		p.write("export default ")
		decl := n.Child("declaration")
		p.markStatementStart(decl, false)
		if err := p.child(n, "declaration"); err != nil {
			return err
		}
		if !decl.Is("FunctionDeclaration", "ClassDeclaration") {
			p.semi()
		}
	case "ExportAllDeclaration":
		p.write("export * ")
		if n.Child("exported") != nil {
			p.write("as ")
			if err := p.child(n, "exported"); err != nil {
				return err
			}
			p.write(" ")
		}
		p.write("from ")
		if err := p.child(n, "source"); err != nil {
			return err
		}
		p.semi()

	case "Identifier":
		p.write(n.Str("name"))
		if n.Bool("optional") {
			p.write("?")
		}
		return p.typeAnnotation(n)
	case "PrivateIdentifier":
		p.write("#" + n.Str("name"))
	case "Literal":
		p.write(p.literal(n))
	case "ThisExpression":
		p.write("this")
	case "Super":
		p.write("super")
	case "TemplateLiteral":
		return p.template(n)
	case "TaggedTemplateExpression":
		if err := p.child(n, "tag"); err != nil {
			return err
		}
		if err := p.annotation(n, "typeArguments"); err != nil {
			return err
		}
		return p.child(n, "quasi")
	case "ArrayExpression", "ArrayPattern":
		p.write("[")
		if err := p.list(n, "elements", ", "); err != nil {
			return err
		}
		if arr := n.Children("elements"); len(arr) != 0 && arr[len(arr)-1] == nil {
			p.write(",")
		}
		p.write("]")
		if n.Type == "ArrayPattern" {
			return p.typeAnnotation(n)
		}
	case "ObjectExpression", "ObjectPattern":
		if err := p.object(n); err != nil {
			return err
		}
		if n.Type == "ObjectPattern" {
			return p.typeAnnotation(n)
		}
	case "Property":
		return p.property(n)
	case "SpreadElement", "RestElement":
		p.write("...")
		if err := p.child(n, "argument"); err != nil {
			return err
		}
		if n.Type == "RestElement" {
			return p.typeAnnotation(n)
		}
	case "AssignmentPattern":
		if err := p.child(n, "left"); err != nil {
			return err
		}
		p.write(" = ")
		return p.child(n, "right")
	case "UnaryExpression":
		op := n.Str("operator")
		p.write(op)
		arg := n.Child("argument")
		if isWordOperator(op) || ((op == "+" || op == "-") && arg.Is("UnaryExpression", "UpdateExpression") &&
			strings.HasPrefix(arg.Str("operator"), op) && (arg.Type == "UnaryExpression" || arg.Bool("prefix"))) {
			p.write(" ")
		}
		return p.child(n, "argument")
	case "UpdateExpression":
		if n.Bool("prefix") {
			p.write(n.Str("operator"))
			return p.child(n, "argument")
		}
		if err := p.child(n, "argument"); err != nil {
			return err
		}
		p.write(n.Str("operator"))
	case "BinaryExpression", "LogicalExpression", "AssignmentExpression":
		if err := p.child(n, "left"); err != nil {
			return err
		}
		p.write(" " + n.Str("operator") + " ")
		return p.child(n, "right")
	case "ConditionalExpression":
		if err := p.child(n, "test"); err != nil {
			return err
		}
		p.write(" ? ")
		if err := p.child(n, "consequent"); err != nil {
			return err
		}
		p.write(" : ")
		return p.child(n, "alternate")
	case "SequenceExpression":
		return p.list(n, "expressions", ", ")
	case "AwaitExpression":
		p.write("await ")
		return p.child(n, "argument")
	case "YieldExpression":
		p.write("yield")
		if n.Bool("delegate") {
			p.write("*")
		}
		if n.Child("argument") != nil {
			p.write(" ")
			return p.child(n, "argument")
		}
	case "CallExpression", "NewExpression":
		if n.Type == "NewExpression" {
			p.write("new ")
		}
		if err := p.child(n, "callee"); err != nil {
			return err
		}
		if err := p.annotation(n, "typeArguments"); err != nil {
			return err
		}
		if n.Bool("optional") {
			p.write("?.")
		}
		p.write("(")
		if err := p.list(n, "arguments", ", "); err != nil {
			return err
		}
		p.write(")")
	case "MemberExpression":
		if err := p.child(n, "object"); err != nil {
			return err
		}
		if n.Bool("computed") {
			if n.Bool("optional") {
				p.write("?.")
			}
			p.write("[")
			if err := p.child(n, "property"); err != nil {
				return err
			}
			p.write("]")
			return nil
		}
		if n.Bool("optional") {
			p.write("?.")
		} else {
			p.write(".")
		}
		return p.child(n, "property")
	case "ChainExpression":
		return p.child(n, "expression")
	case "ImportExpression":
		p.write("import(")
		if err := p.child(n, "source"); err != nil {
			return err
		}
		if n.Child("options") != nil {
			p.write(", ")
			if err := p.child(n, "options"); err != nil {
				return err
			}
		}
		p.write(")")
	case "MetaProperty":
		if err := p.child(n, "meta"); err != nil {
			return err
		}
		p.write(".")
		return p.child(n, "property")
	default:
		return p.verbatim(n)
	}
	return nil
}

func isForHead(parent *estree.Node, key string) bool {
	switch {
	case parent.Is("ForStatement"):
		return key == "init"
	case parent.Is("ForInStatement", "ForOfStatement"):
		return key == "left"
	}
	return false
}

func isWordOperator(op string) bool {
	switch op {
	case "typeof", "void", "delete":
		return true
	}
	return false
}

func (p *printer) ifStatement(n *estree.Node) error {
	p.write("if (")
	if err := p.child(n, "test"); err != nil {
		return err
	}
	p.write(")")
	if err := p.clause(n, "consequent"); err != nil {
		return err
	}
	alt := n.Child("alternate")
	if alt == nil {
		return nil
	}
	if n.Child("consequent").Is("BlockStatement") {
		p.write(" ")
	} else {
		p.newline()
	}
	p.write("else")
	return p.clause(n, "alternate")
}

func (p *printer) switchStatement(n *estree.Node) error {
	p.write("switch (")
	if err := p.child(n, "discriminant"); err != nil {
		return err
	}
	p.write(") {")
	cases := n.Children("cases")
	p.depth++
	for i, c := range cases {
		p.newline()
		if err := p.node(n, "cases", c); err != nil {
			return err
		}
		if i < len(cases)-1 && !c.Range.IsZero() && p.nextLineEmpty(c.Range.End()) {
			p.newline()
		}
	}
	p.depth--
	if len(cases) != 0 {
		p.newline()
	}
	p.write("}")
	return nil
}

func (p *printer) switchCase(n *estree.Node) error {
	if n.Child("test") == nil {
		p.write("default:")
	} else {
		p.write("case ")
		if err := p.child(n, "test"); err != nil {
			return err
		}
		p.write(":")
	}
	cons := n.Children("consequent")
	if !hasStatements(cons) {
		return nil
	}
	if len(cons) == 1 && cons[0].Is("BlockStatement") {
		p.write(" ")
		return p.node(n, "consequent", cons[0])
	}
	p.depth++
	p.newline()
	err := p.statements(n, "consequent", cons)
	p.depth--
	return err
}

func (p *printer) params(n *estree.Node) error {
	if err := p.annotation(n, "typeParameters"); err != nil {
		return err
	}
	p.write("(")
	if err := p.list(n, "params", ", "); err != nil {
		return err
	}
	p.write(")")
	if err := p.annotation(n, "returnType"); err != nil {
		return err
	}
	return p.annotation(n, "predicate")
}

func (p *printer) function(n *estree.Node) error {
	if n.Bool("async") {
		p.write("async ")
	}
	p.write("function")
	if n.Bool("generator") {
		p.write("*")
	}
	p.write(" ")
	if err := p.child(n, "id"); err != nil {
		return err
	}
	if err := p.params(n); err != nil {
		return err
	}
	p.write(" ")
	return p.child(n, "body")
}

func (p *printer) arrow(n *estree.Node) error {
	if n.Bool("async") {
		p.write("async ")
	}
	if err := p.params(n); err != nil {
		return err
	}
	p.write(" => ")
	body := n.Child("body")
	if !body.Is("BlockStatement") {
		p.markStatementStart(body, false)
	}
	return p.child(n, "body")
}

func (p *printer) class(n *estree.Node) error {
	p.write("class")
	if n.Child("id") != nil {
		p.write(" ")
		if err := p.child(n, "id"); err != nil {
			return err
		}
	}
	if err := p.annotation(n, "typeParameters"); err != nil {
		return err
	}
	if n.Child("superClass") != nil {
		p.write(" extends ")
		if err := p.child(n, "superClass"); err != nil {
			return err
		}
		if err := p.annotation(n, "superTypeParameters"); err != nil {
			return err
		}
	}
	if impl := n.Children("implements"); len(impl) != 0 {
		p.write(" implements ")
		if err := p.list(n, "implements", ", "); err != nil {
			return err
		}
	}
	p.write(" ")
	return p.child(n, "body")
}

// key prints a property key, wrapping computed keys into brackets.
func (p *printer) key(n *estree.Node) error {
	if n.Bool("computed") {
		p.write("[")
		if err := p.child(n, "key"); err != nil {
			return err
		}
		p.write("]")
		return nil
	}
	return p.child(n, "key")
}

// methodValue prints a method signature and body from the function stored in the value field.
func (p *printer) methodValue(n *estree.Node) error {
	fnc := n.Child("value")
	if fnc == nil {
		return ErrUnsupported.New(n.Type)
	}
	if err := p.key(n); err != nil {
		return err
	}
	if err := p.params(fnc); err != nil {
		return err
	}
	p.write(" ")
	return p.node(fnc, "body", fnc.Child("body"))
}

func (p *printer) methodPrefix(n *estree.Node) {
	fnc := n.Child("value")
	switch kind := n.Str("kind"); kind {
	case "get", "set":
		p.write(kind + " ")
		return
	}
	if fnc.Bool("async") {
		p.write("async ")
	}
	if fnc.Bool("generator") {
		p.write("*")
	}
}

func (p *printer) method(n *estree.Node) error {
	if n.Bool("static") {
		p.write("static ")
	}
	p.methodPrefix(n)
	return p.methodValue(n)
}

func (p *printer) property(n *estree.Node) error {
	if n.Bool("method") || n.Str("kind") == "get" || n.Str("kind") == "set" {
		p.methodPrefix(n)
		return p.methodValue(n)
	}
	if n.Bool("shorthand") {
		return p.child(n, "value")
	}
	if err := p.key(n); err != nil {
		return err
	}
	p.write(": ")
	return p.child(n, "value")
}

func (p *printer) object(n *estree.Node) error {
	props := n.Children("properties")
	if len(props) == 0 {
		if !hasDangling(n) {
			p.write("{}")
			return nil
		}
		p.write("{")
		p.depth++
		p.newline()
		p.danglingComments(n)
		p.depth--
		p.newline()
		p.write("}")
		return nil
	}
	if p.multiline(n, props[0]) {
		p.write("{")
		p.depth++
		for _, c := range props {
			p.newline()
			if err := p.node(n, "properties", c); err != nil {
				return err
			}
			if !c.Is("RestElement") {
				p.write(",")
			}
		}
		p.depth--
		p.newline()
		p.write("}")
		return nil
	}
	space := ""
	if p.opts.BracketSpacing {
		space = " "
	}
	p.write("{" + space)
	if err := p.list(n, "properties", ", "); err != nil {
		return err
	}
	p.write(space + "}")
	return nil
}

// multiline reports if the source had a line break between the opening brace and the first element.
func (p *printer) multiline(n, first *estree.Node) bool {
	if n.Range.IsZero() || first == nil || first.Range.IsZero() {
		return false
	}
	s, e := n.Range.Start(), first.Range.Start()
	if s > e || e > len(p.code) {
		return false
	}
	return strings.Contains(p.code[s:e], "\n")
}

func (p *printer) template(n *estree.Node) error {
	p.write("`")
	quasis := n.Children("quasis")
	exprs := n.Children("expressions")
	for i, q := range quasis {
		p.write(templateRaw(q))
		if i < len(exprs) {
			p.write("${")
			if err := p.node(n, "expressions", exprs[i]); err != nil {
				return err
			}
			p.write("}")
		}
	}
	p.write("`")
	return nil
}

func templateRaw(q *estree.Node) string {
	v, _ := q.Get("value")
	switch v := v.(type) {
	case map[string]interface{}:
		s, _ := v["raw"].(string)
		return s
	case string:
		return v
	}
	return ""
}

func (p *printer) importDeclaration(n *estree.Node) error {
	p.write("import ")
	if k := n.Str("importKind"); k == "type" || k == "typeof" {
		p.write(k + " ")
	}
	specs := n.Children("specifiers")
	var named []*estree.Node
	first := true
	for _, s := range specs {
		if s.Is("ImportSpecifier") {
			named = append(named, s)
			continue
		}
		if !first {
			p.write(", ")
		}
		first = false
		if err := p.node(n, "specifiers", s); err != nil {
			return err
		}
	}
	if len(named) != 0 {
		if !first {
			p.write(", ")
		}
		first = false
		if err := p.namedSpecifiers(n, "specifiers", named); err != nil {
			return err
		}
	}
	if !first {
		p.write(" from ")
	}
	if err := p.child(n, "source"); err != nil {
		return err
	}
	p.semi()
	return nil
}

func (p *printer) namedSpecifiers(n *estree.Node, key string, list []*estree.Node) error {
	if len(list) == 0 {
		p.write("{}")
		return nil
	}
	space := ""
	if p.opts.BracketSpacing {
		space = " "
	}
	p.write("{" + space)
	for i, s := range list {
		if i != 0 {
			p.write(", ")
		}
		if err := p.node(n, key, s); err != nil {
			return err
		}
	}
	p.write(space + "}")
	return nil
}

func (p *printer) exportNamed(n *estree.Node) error {
	p.write("export ")
	if decl := n.Child("declaration"); decl != nil {
		return p.child(n, "declaration")
	}
	if n.Str("exportKind") == "type" {
		p.write("type ")
	}
	if err := p.namedSpecifiers(n, "specifiers", n.Children("specifiers")); err != nil {
		return err
	}
	if n.Child("source") != nil {
		p.write(" from ")
		if err := p.child(n, "source"); err != nil {
			return err
		}
	}
	p.semi()
	return nil
}

func nameOf(n *estree.Node) (string, bool) {
	switch {
	case n.Is("Identifier"):
		return n.Str("name"), true
	case n.Is("Literal"):
		v, _ := n.Get("value")
		s, ok := v.(string)
		return s, ok
	}
	return "", false
}

func sameName(a, b *estree.Node) bool {
	if a == nil || b == nil {
		return true
	}
	an, ok1 := nameOf(a)
	bn, ok2 := nameOf(b)
	return ok1 && ok2 && an == bn && a.Type == b.Type
}

func (p *printer) literal(n *estree.Node) string {
	raw := n.Str("raw")
	if v, ok := n.Get("regex"); ok && v != nil {
		if raw != "" {
			return raw
		}
		if m, ok := v.(map[string]interface{}); ok {
			pattern, _ := m["pattern"].(string)
			flags, _ := m["flags"].(string)
			return "/" + pattern + "/" + flags
		}
	}
	if _, ok := n.Get("bigint"); ok && raw != "" {
		return strings.ToLower(raw)
	}
	v, _ := n.Get("value")
	switch v := v.(type) {
	case string:
		return p.stringLiteral(v, raw)
	case float64:
		if raw != "" {
			return strings.ToLower(raw)
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case nil:
		if raw != "" {
			return raw
		}
		return "null"
	}
	return raw
}
