package mutation

import (
	"fmt"

	"github.com/bblfsh/codemod/estree"
)

// SlotKind is a shape of a statement position in the parent.
type SlotKind int

const (
	// SlotSingle is a field holding exactly one statement, like IfStatement.consequent.
	SlotSingle = SlotKind(iota)
	// SlotArray is an element of a statement list, like BlockStatement.body.
	SlotArray
)

// Slot is a position of a statement in its parent.
type Slot struct {
	Kind   SlotKind
	Parent *estree.Node
	Key    string
	// Index is only set for SlotArray.
	Index int
}

// statementFields lists fields holding a single statement and fields that never hold statements,
// per parent type.
var statementFields = map[string]struct {
	body    []string
	invalid []string
}{
	"IfStatement":      {body: []string{"consequent", "alternate"}, invalid: []string{"test"}},
	"LabeledStatement": {body: []string{"body"}, invalid: []string{"label"}},
	"WithStatement":    {body: []string{"body"}, invalid: []string{"object"}},
	"WhileStatement":   {body: []string{"body"}, invalid: []string{"test"}},
	"DoWhileStatement": {body: []string{"body"}, invalid: []string{"test"}},
	"ForStatement":     {body: []string{"body"}, invalid: []string{"init", "test", "update"}},
	"ForInStatement":   {body: []string{"body"}, invalid: []string{"left", "right"}},
	"ForOfStatement":   {body: []string{"body"}, invalid: []string{"left", "right"}},
}

// statementLists maps parent types to fields holding statement lists.
var statementLists = map[string]struct {
	key     string
	invalid []string
}{
	"Program":        {key: "body"},
	"BlockStatement": {key: "body"},
	"StaticBlock":    {key: "body"},
	"SwitchCase":     {key: "consequent", invalid: []string{"test"}},
}

func holds(parent *estree.Node, key string, target *estree.Node) bool {
	switch v := parent.Props[key].(type) {
	case *estree.Node:
		return v == target
	case []*estree.Node:
		return estree.IndexIn(v, target) >= 0
	}
	return false
}

// StatementParent finds the position of a statement or a module declaration in its parent.
func StatementParent(target *estree.Node) (Slot, error) {
	parent := target.Parent
	if parent == nil {
		return Slot{}, ErrInvalidStatement.New(fmt.Sprintf("%s has no parent", target.Type))
	}
	if f, ok := statementFields[parent.Type]; ok {
		for _, key := range f.invalid {
			if holds(parent, key, target) {
				return Slot{}, ErrInvalidStatement.New(fmt.Sprintf("attempted to insert a statement into %s.%s", parent.Type, key))
			}
		}
		for _, key := range f.body {
			if parent.Child(key) == target {
				return Slot{Kind: SlotSingle, Parent: parent, Key: key, Index: -1}, nil
			}
		}
		return Slot{}, ErrInvalidStatement.New(fmt.Sprintf("could not find target in %s", parent.Type))
	}
	if f, ok := statementLists[parent.Type]; ok {
		for _, key := range f.invalid {
			if holds(parent, key, target) {
				return Slot{}, ErrInvalidStatement.New(fmt.Sprintf("attempted to insert a statement into %s.%s", parent.Type, key))
			}
		}
		i := estree.IndexIn(parent.Children(f.key), target)
		if i < 0 {
			return Slot{}, ErrInvalidStatement.New(fmt.Sprintf("could not find target in parent array %s.%s", parent.Type, f.key))
		}
		return Slot{Kind: SlotArray, Parent: parent, Key: f.key, Index: i}, nil
	}
	return Slot{}, ErrInvalidStatement.New(fmt.Sprintf("expected a valid statement parent, found %s", parent.Type))
}

// validModuleParent checks if module declarations among nodes can be placed into the parent.
func validModuleParent(parent *estree.Node, nodes []*estree.Node) bool {
	if parent.Is("Program") {
		return true
	}
	if parent.Is("BlockStatement") && parent.Parent.Is("DeclareModule") {
		return true
	}
	for _, n := range nodes {
		if estree.IsModuleDeclaration(n) {
			return false
		}
	}
	return true
}
