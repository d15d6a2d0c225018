package estree

import "sync"

var keys = struct {
	sync.RWMutex
	byType map[string][]string
}{byType: map[string][]string{
	// ES2022
	"ArrayExpression":          {"elements"},
	"ArrayPattern":             {"elements", "typeAnnotation"},
	"ArrowFunctionExpression":  {"typeParameters", "params", "returnType", "predicate", "body"},
	"AssignmentExpression":     {"left", "right"},
	"AssignmentPattern":        {"left", "right"},
	"AwaitExpression":          {"argument"},
	"BinaryExpression":         {"left", "right"},
	"BlockStatement":           {"body"},
	"BreakStatement":           {"label"},
	"CallExpression":           {"callee", "typeArguments", "arguments"},
	"CatchClause":              {"param", "body"},
	"ChainExpression":          {"expression"},
	"ClassBody":                {"body"},
	"ClassDeclaration":         {"id", "typeParameters", "superClass", "superTypeParameters", "implements", "decorators", "body"},
	"ClassExpression":          {"id", "typeParameters", "superClass", "superTypeParameters", "implements", "decorators", "body"},
	"ConditionalExpression":    {"test", "consequent", "alternate"},
	"ContinueStatement":        {"label"},
	"DebuggerStatement":        {},
	"DoWhileStatement":         {"body", "test"},
	"EmptyStatement":           {},
	"ExportAllDeclaration":     {"exported", "source"},
	"ExportDefaultDeclaration": {"declaration"},
	"ExportNamedDeclaration":   {"declaration", "specifiers", "source"},
	"ExportSpecifier":          {"local", "exported"},
	"ExpressionStatement":      {"expression"},
	"ForInStatement":           {"left", "right", "body"},
	"ForOfStatement":           {"left", "right", "body"},
	"ForStatement":             {"init", "test", "update", "body"},
	"FunctionDeclaration":      {"id", "typeParameters", "params", "returnType", "predicate", "body"},
	"FunctionExpression":       {"id", "typeParameters", "params", "returnType", "predicate", "body"},
	"Identifier":               {"typeAnnotation"},
	"IfStatement":              {"test", "consequent", "alternate"},
	"ImportAttribute":          {"key", "value"},
	"ImportDeclaration":        {"specifiers", "source", "assertions"},
	"ImportDefaultSpecifier":   {"local"},
	"ImportExpression":         {"source", "attributes"},
	"ImportNamespaceSpecifier": {"local"},
	"ImportSpecifier":          {"imported", "local"},
	"LabeledStatement":         {"label", "body"},
	"Literal":                  {},
	"LogicalExpression":        {"left", "right"},
	"MemberExpression":         {"object", "property"},
	"MetaProperty":             {"meta", "property"},
	"MethodDefinition":         {"key", "value"},
	"NewExpression":            {"callee", "typeArguments", "arguments"},
	"ObjectExpression":         {"properties"},
	"ObjectPattern":            {"properties", "typeAnnotation"},
	"PrivateIdentifier":        {},
	"Program":                  {"body"},
	"Property":                 {"key", "value"},
	"PropertyDefinition":       {"key", "value", "variance", "typeAnnotation"},
	"RestElement":              {"argument", "typeAnnotation"},
	"ReturnStatement":          {"argument"},
	"SequenceExpression":       {"expressions"},
	"SpreadElement":            {"argument"},
	"StaticBlock":              {"body"},
	"Super":                    {},
	"SwitchCase":               {"test", "consequent"},
	"SwitchStatement":          {"discriminant", "cases"},
	"TaggedTemplateExpression": {"tag", "quasi"},
	"TemplateElement":          {},
	"TemplateLiteral":          {"quasis", "expressions"},
	"ThisExpression":           {},
	"ThrowStatement":           {"argument"},
	"TryStatement":             {"block", "handler", "finalizer"},
	"UnaryExpression":          {"argument"},
	"UpdateExpression":         {"argument"},
	"VariableDeclaration":      {"declarations"},
	"VariableDeclarator":       {"id", "init"},
	"WhileStatement":           {"test", "body"},
	"WithStatement":            {"object", "body"},
	"YieldExpression":          {"argument"},

	// JSX
	"JSXAttribute":           {"name", "value"},
	"JSXClosingElement":      {"name"},
	"JSXClosingFragment":     {},
	"JSXElement":             {"openingElement", "children", "closingElement"},
	"JSXEmptyExpression":     {},
	"JSXExpressionContainer": {"expression"},
	"JSXFragment":            {"openingFragment", "children", "closingFragment"},
	"JSXIdentifier":          {},
	"JSXMemberExpression":    {"object", "property"},
	"JSXNamespacedName":      {"namespace", "name"},
	"JSXOpeningElement":      {"name", "attributes", "typeArguments"},
	"JSXOpeningFragment":     {},
	"JSXSpreadAttribute":     {"argument"},
	"JSXSpreadChild":         {"expression"},
	"JSXText":                {},

	// Flow
	"AnyTypeAnnotation":            {},
	"ArrayTypeAnnotation":          {"elementType"},
	"BooleanLiteralTypeAnnotation": {},
	"BooleanTypeAnnotation":        {},
	"ClassImplements":              {"id", "typeParameters"},
	"DeclareClass":                 {"id", "typeParameters", "extends", "implements", "mixins", "body"},
	"DeclareExportAllDeclaration":  {"source"},
	"DeclareExportDeclaration":     {"declaration", "specifiers", "source"},
	"DeclareFunction":              {"id", "predicate"},
	"DeclareModule":                {"id", "body"},
	"DeclareModuleExports":         {"typeAnnotation"},
	"DeclareTypeAlias":             {"id", "typeParameters", "right"},
	"DeclareVariable":              {"id"},
	"EnumBooleanBody":              {"members"},
	"EnumBooleanMember":            {"id", "init"},
	"EnumDeclaration":              {"id", "body"},
	"EnumDefaultedMember":          {"id"},
	"EnumNumberBody":               {"members"},
	"EnumNumberMember":             {"id", "init"},
	"EnumStringBody":               {"members"},
	"EnumStringMember":             {"id", "init"},
	"EnumSymbolBody":               {"members"},
	"ExistsTypeAnnotation":         {},
	"FunctionTypeAnnotation":       {"typeParameters", "this", "params", "rest", "returnType"},
	"FunctionTypeParam":            {"name", "typeAnnotation"},
	"GenericTypeAnnotation":        {"id", "typeParameters"},
	"InterfaceDeclaration":         {"id", "typeParameters", "extends", "body"},
	"InterfaceExtends":             {"id", "typeParameters"},
	"IntersectionTypeAnnotation":   {"types"},
	"MixedTypeAnnotation":          {},
	"NullLiteralTypeAnnotation":    {},
	"NullableTypeAnnotation":       {"typeAnnotation"},
	"NumberLiteralTypeAnnotation":  {},
	"NumberTypeAnnotation":         {},
	"ObjectTypeAnnotation":         {"properties", "indexers", "callProperties", "internalSlots"},
	"ObjectTypeCallProperty":       {"value"},
	"ObjectTypeIndexer":            {"id", "key", "value", "variance"},
	"ObjectTypeInternalSlot":       {"id", "value"},
	"ObjectTypeProperty":           {"key", "value", "variance"},
	"ObjectTypeSpreadProperty":     {"argument"},
	"OpaqueType":                   {"id", "typeParameters", "impltype", "supertype"},
	"QualifiedTypeIdentifier":      {"qualification", "id"},
	"StringLiteralTypeAnnotation":  {},
	"StringTypeAnnotation":         {},
	"TupleTypeAnnotation":          {"types"},
	"TypeAlias":                    {"id", "typeParameters", "right"},
	"TypeAnnotation":               {"typeAnnotation"},
	"TypeCastExpression":           {"expression", "typeAnnotation"},
	"TypeofTypeAnnotation":         {"argument"},
	"TypeParameter":                {"bound", "variance", "default"},
	"TypeParameterDeclaration":     {"params"},
	"TypeParameterInstantiation":   {"params"},
	"UnionTypeAnnotation":          {"types"},
	"Variance":                     {},
	"VoidTypeAnnotation":           {},
}}

// VisitorKeys returns the names of the fields that hold child nodes for a given node type.
// The order of keys defines the traversal order.
func VisitorKeys(typ string) ([]string, error) {
	keys.RLock()
	list, ok := keys.byType[typ]
	keys.RUnlock()
	if !ok {
		return nil, ErrUnknownNodeType.New(typ)
	}
	return list, nil
}

// RegisterVisitorKeys adds or replaces visitor keys for a node type.
func RegisterVisitorKeys(typ string, fields ...string) {
	keys.Lock()
	keys.byType[typ] = append([]string{}, fields...)
	keys.Unlock()
}

// KnownType checks if visitor keys are registered for the type.
func KnownType(typ string) bool {
	keys.RLock()
	_, ok := keys.byType[typ]
	keys.RUnlock()
	return ok
}
