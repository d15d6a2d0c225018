package mutation

import (
	"sort"
	"strings"

	"github.com/bblfsh/codemod/estree"
)

// removable lists node types which can be removed with RemoveNode. For each of them it maps
// allowed parent types to the array field holding the node. Other combinations are rejected.
var removable = map[string]map[string]string{
	"ClassProperty":        {"ClassBody": "body"},
	"ClassPrivateProperty": {"ClassBody": "body"},
	"PropertyDefinition":   {"ClassBody": "body"},
	"MethodDefinition":     {"ClassBody": "body"},
	"StaticBlock":          {"ClassBody": "body"},

	"EnumBooleanMember":   {"EnumBooleanBody": "members"},
	"EnumNumberMember":    {"EnumNumberBody": "members"},
	"EnumStringMember":    {"EnumStringBody": "members"},
	"EnumDefaultedMember": {"EnumStringBody": "members", "EnumSymbolBody": "members"},

	"FunctionTypeParam": {"FunctionTypeAnnotation": "params"},

	"Identifier":        functionParams,
	"ArrayPattern":      functionParams,
	"AssignmentPattern": functionParams,
	"ObjectPattern":     functionParams,
	"RestElement":       functionParams,

	"ExportSpecifier":          {"ExportNamedDeclaration": "specifiers"},
	"ImportDefaultSpecifier":   {"ImportDeclaration": "specifiers"},
	"ImportNamespaceSpecifier": {"ImportDeclaration": "specifiers"},
	"ImportSpecifier":          {"ImportDeclaration": "specifiers"},

	"ObjectTypeIndexer":        {"ObjectTypeAnnotation": "indexers"},
	"ObjectTypeCallProperty":   {"ObjectTypeAnnotation": "callProperties"},
	"ObjectTypeInternalSlot":   {"ObjectTypeAnnotation": "internalSlots"},
	"ObjectTypeProperty":       {"ObjectTypeAnnotation": "properties"},
	"ObjectTypeSpreadProperty": {"ObjectTypeAnnotation": "properties"},

	"Property": {"ObjectExpression": "properties", "ObjectPattern": "properties"},
	"SpreadElement": {
		"ArrayExpression":  "elements",
		"CallExpression":   "arguments",
		"NewExpression":    "arguments",
		"ObjectExpression": "properties",
	},

	"TypeParameter":      {"TypeParameterDeclaration": "params"},
	"VariableDeclarator": {"VariableDeclaration": "declarations"},
}

var functionParams = map[string]string{
	"ArrowFunctionExpression": "params",
	"FunctionDeclaration":     "params",
	"FunctionExpression":      "params",
}

// removalField returns the array field of the parent which holds the node, if the node can be removed.
func removalField(n *estree.Node) (string, error) {
	parents, ok := removable[n.Type]
	parent := "<nil>"
	if n.Parent != nil {
		parent = n.Parent.Type
	}
	if !ok {
		return "", ErrInvalidRemoval.New(n.Type, parent, n.Type, "(none)")
	}
	key, ok := parents[parent]
	if !ok {
		valid := make([]string, 0, len(parents))
		for p := range parents {
			valid = append(valid, p)
		}
		sort.Strings(valid)
		return "", ErrInvalidRemoval.New(n.Type, parent, n.Type, strings.Join(valid, ", "))
	}
	return key, nil
}
