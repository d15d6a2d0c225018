// Package codemod rewrites JavaScript source code with visitors that request structural
// changes on the ESTree AST. See the transform package for the mutation API.
package codemod

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"

	"github.com/bblfsh/codemod/parser"
	"github.com/bblfsh/codemod/transform"
)

type (
	// Context is passed to visitors to request mutations.
	Context = transform.Context
	// Visitor creates selector handlers for a single file.
	Visitor = transform.Visitor
	// Options selects the parser and the printer.
	Options = transform.Options
)

// Transform parses the code, runs the visitor, applies requested mutations and prints the result.
// The code is returned as is if no mutations were requested.
func Transform(ctx context.Context, code string, visitor Visitor, opts Options) (string, error) {
	return transform.Transform(ctx, code, visitor, opts)
}

// Extensions lists file extensions handled by default.
var Extensions = []string{".js", ".jsx", ".mjs", ".cjs", ".flow"}

// IsSource checks if the file name has one of the source Extensions.
func IsSource(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// ResultToString is used for pretty print a parse result. Used
// for tests and the parse command.
func ResultToString(res *parser.Result) (string, error) {
	var s struct {
		AST      interface{} `json:"ast"`
		Comments interface{} `json:"comments"`
		Docblock interface{} `json:"docblock,omitempty"`
	}
	s.AST = res.AST
	s.Comments = res.Comments
	if len(res.Comments) == 0 {
		s.Comments = make([]interface{}, 0)
	}
	if d := res.Docblock; d != nil {
		s.Docblock = d.Directives
	}

	buf := bytes.NewBuffer(nil)
	e := json.NewEncoder(buf)
	e.SetIndent("", "    ")
	e.SetEscapeHTML(false)
	if err := e.Encode(s); err != nil {
		return "", err
	}
	return buf.String(), nil
}
