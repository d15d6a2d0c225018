// Package parser defines the interface for JavaScript parsers producing ESTree trees.
package parser

import (
	"context"
	"regexp"
	"strings"

	"gopkg.in/src-d/go-errors.v1"

	"github.com/bblfsh/codemod/estree"
)

// ErrSyntax is returned by parsers for invalid source code.
var ErrSyntax = errors.NewKind("syntax error")

// SourceType selects how the code is parsed.
type SourceType string

const (
	Module      = SourceType("module")
	Script      = SourceType("script")
	Unambiguous = SourceType("unambiguous")
)

// Options for parsers. Parsers ignore options they do not support.
type Options struct {
	SourceType SourceType `json:"sourceType,omitempty" toml:"source_type"`
	// Babel requests a Babel-shaped tree instead of ESTree.
	Babel bool `json:"babel,omitempty" toml:"babel"`
	// Flow is either "all" or "detect". In the latter case Flow syntax is only enabled
	// for files with the @flow directive.
	Flow string `json:"flow,omitempty" toml:"flow"`
	// Tokens includes the token list into the tree.
	Tokens bool `json:"tokens,omitempty" toml:"tokens"`

	EnableExperimentalComponentSyntax bool `json:"enableExperimentalComponentSyntax,omitempty" toml:"component_syntax"`
}

// Result of parsing a file.
type Result struct {
	AST      *estree.Node
	Code     string
	Comments []*estree.Comment
	Docblock *estree.Docblock
}

// Parser converts source code to an ESTree program.
type Parser interface {
	Parse(ctx context.Context, code string, opts Options) (*Result, error)
}

// NewResult builds a parse result for the program, detecting the docblock.
func NewResult(code string, ast *estree.Node, list []*estree.Comment) *Result {
	res := &Result{AST: ast, Code: code, Comments: list}
	res.Docblock = ModuleDocblock(code, ast, list)
	if ast != nil && ast.Docblock == nil {
		ast.Docblock = res.Docblock
	}
	return res
}

// ModuleDocblock returns the leading block comment of the file with its directives.
// The comment must come before any code.
func ModuleDocblock(code string, ast *estree.Node, list []*estree.Comment) *estree.Docblock {
	if len(list) == 0 {
		return nil
	}
	c := list[0]
	if c.Type != estree.CommentBlock {
		return nil
	}
	if start := c.Range.Start(); start > len(code) || strings.TrimSpace(stripShebang(code[:start])) != "" {
		return nil
	}
	if ast != nil {
		if body := ast.Children("body"); len(body) != 0 && body[0].Range.Start() < c.Range.Start() {
			return nil
		}
	}
	return &estree.Docblock{Comment: c, Directives: ParseDirectives(c.Value)}
}

func stripShebang(s string) string {
	if strings.HasPrefix(s, "#!") {
		if i := strings.IndexByte(s, '\n'); i >= 0 {
			return s[i:]
		}
		return ""
	}
	return s
}

var reDirective = regexp.MustCompile(`^@([a-zA-Z0-9_-]+)(?: +(.+))?$`)

// ParseDirectives extracts @name value pairs from the docblock text. Each directive may
// appear multiple times, directives with no value get an empty string.
func ParseDirectives(docblock string) map[string][]string {
	out := make(map[string][]string)
	for _, line := range strings.Split(docblock, "\n") {
		line = strings.TrimLeft(line, " \t")
		line = strings.TrimPrefix(line, "*")
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "@") {
			continue
		}
		sub := reDirective.FindStringSubmatch(line)
		if sub == nil {
			continue
		}
		out[sub[1]] = append(out[sub[1]], strings.TrimSpace(sub[2]))
	}
	return out
}

// HasFlowDirective reports if the docblock enables Flow.
func HasFlowDirective(d *estree.Docblock) bool {
	if d == nil {
		return false
	}
	_, ok := d.Directives["flow"]
	return ok
}
