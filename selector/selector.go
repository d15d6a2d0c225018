// Package selector implements CSS-like selectors over ESTree nodes.
//
// The syntax follows esquery: node types, wildcards, attributes, fields, :not, :matches (:is), :has,
// :first-child, :last-child, :nth-child, :nth-last-child, node classes (:statement, :expression,
// :declaration, :pattern, :function) and descendant, child, sibling and adjacent combinators.
package selector

import (
	"sync"

	"gopkg.in/src-d/go-errors.v1"

	"github.com/bblfsh/codemod/estree"
)

// ErrSyntax is returned for selectors that cannot be parsed.
var ErrSyntax = errors.NewKind("invalid selector %q at offset %d: %s")

// Selector is a parsed selector. Selectors are immutable and safe to share.
type Selector struct {
	raw   string
	m     matcher
	types []string
	attrs int
	ids   int
}

// cache of parsed selectors, keyed by the raw selector string; entries are never evicted
var cache sync.Map

// Parse parses a selector. Results are cached for the lifetime of the process.
func Parse(raw string) (*Selector, error) {
	if s, ok := cache.Load(raw); ok {
		return s.(*Selector), nil
	}
	m, err := parse(raw)
	if err != nil {
		return nil, err
	}
	s := &Selector{
		raw:   raw,
		m:     m,
		types: possibleTypes(m),
		attrs: countAttributes(m),
		ids:   countIdentifiers(m),
	}
	v, _ := cache.LoadOrStore(raw, s)
	return v.(*Selector), nil
}

// MustParse is like Parse, but panics on error.
func MustParse(raw string) *Selector {
	s, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return s
}

// String returns the raw selector.
func (s *Selector) String() string { return s.raw }

// Match checks if the node matches the selector. Ancestry lists the ancestors of the node, starting
// from the root of the tree; the last element is the parent of the node.
func (s *Selector) Match(n *estree.Node, ancestry []*estree.Node) bool {
	if n == nil {
		return false
	}
	return s.m.match(n, ancestry)
}

// Types returns node types that can possibly match the selector. A nil slice means any type,
// while an empty slice means that the selector cannot match anything.
func (s *Selector) Types() []string {
	return s.types
}

// AttributeCount returns the number of attribute-like terms: attributes, fields, classes and child positions.
func (s *Selector) AttributeCount() int { return s.attrs }

// IdentifierCount returns the number of node type terms.
func (s *Selector) IdentifierCount() int { return s.ids }

// Compare orders selectors by specificity: first by the number of attribute terms, then by the
// number of type terms, and then by the raw selector text.
func Compare(a, b *Selector) int {
	if d := a.attrs - b.attrs; d != 0 {
		return d
	}
	if d := a.ids - b.ids; d != 0 {
		return d
	}
	if a.raw <= b.raw {
		return -1
	}
	return 1
}

func possibleTypes(m matcher) []string {
	switch m := m.(type) {
	case typeName:
		return []string{m.name}
	case anyOf:
		var out []string
		seen := make(map[string]bool)
		for _, s := range m.list {
			types := possibleTypes(s)
			if types == nil {
				return nil
			}
			for _, t := range types {
				if !seen[t] {
					seen[t] = true
					out = append(out, t)
				}
			}
		}
		if out == nil {
			out = []string{}
		}
		return out
	case compound:
		var sets [][]string
		for _, s := range m.list {
			if types := possibleTypes(s); types != nil {
				sets = append(sets, types)
			}
		}
		if len(sets) == 0 {
			return nil
		}
		out := append([]string{}, sets[0]...)
		for _, set := range sets[1:] {
			in := make(map[string]bool, len(set))
			for _, t := range set {
				in[t] = true
			}
			filtered := out[:0]
			for _, t := range out {
				if in[t] {
					filtered = append(filtered, t)
				}
			}
			out = filtered
		}
		return out
	case combinator:
		return possibleTypes(m.right)
	case class:
		if m.name == "function" {
			return append([]string{}, functionTypes...)
		}
	}
	return nil
}

func countAttributes(m matcher) int {
	switch m := m.(type) {
	case combinator:
		return countAttributes(m.left) + countAttributes(m.right)
	case compound:
		return sumOf(m.list, countAttributes)
	case anyOf:
		return sumOf(m.list, countAttributes)
	case not:
		return sumOf(m.list, countAttributes)
	case attribute, field, nthChild, class:
		return 1
	}
	return 0
}

func countIdentifiers(m matcher) int {
	switch m := m.(type) {
	case combinator:
		return countIdentifiers(m.left) + countIdentifiers(m.right)
	case compound:
		return sumOf(m.list, countIdentifiers)
	case anyOf:
		return sumOf(m.list, countIdentifiers)
	case not:
		return sumOf(m.list, countIdentifiers)
	case typeName:
		return 1
	}
	return 0
}

func sumOf(list []matcher, fnc func(matcher) int) int {
	n := 0
	for _, m := range list {
		n += fnc(m)
	}
	return n
}
