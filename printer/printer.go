// Package printer converts ESTree trees back to JavaScript source code.
//
// The reference printer uses a fixed layout close to the one of prettier, but does not
// fit lines into a maximal width. It relies on comment positions in the working source
// text to decide if a comment is printed on its own line.
package printer

import (
	"context"
	"strings"

	"github.com/opentracing/opentracing-go"
	"gopkg.in/src-d/go-errors.v1"

	"github.com/bblfsh/codemod/estree"
)

// ErrUnsupported is returned for synthetic nodes that the printer cannot render.
var ErrUnsupported = errors.NewKind("cannot print %s node")

// Options controls formatting of the output.
type Options struct {
	TabWidth       int  `json:"tabWidth" toml:"tab_width"`
	UseTabs        bool `json:"useTabs" toml:"use_tabs"`
	SingleQuote    bool `json:"singleQuote" toml:"single_quote"`
	Semi           bool `json:"semi" toml:"semi"`
	BracketSpacing bool `json:"bracketSpacing" toml:"bracket_spacing"`
}

// DefaultOptions returns the formatting options used when no configuration is provided.
func DefaultOptions() Options {
	return Options{TabWidth: 2, SingleQuote: true, Semi: true, BracketSpacing: true}
}

func (o Options) indentUnit() string {
	if o.UseTabs {
		return "\t"
	}
	w := o.TabWidth
	if w <= 0 {
		w = 2
	}
	return strings.Repeat(" ", w)
}

// Printer renders a tree to source code. The code is the working source text the tree
// was parsed from, extended with synthetic comment text.
type Printer interface {
	Print(ctx context.Context, root *estree.Node, code string, opts Options) (string, error)
}

// New returns the reference printer.
func New() Printer {
	return reference{}
}

type reference struct{}

func (reference) Print(ctx context.Context, root *estree.Node, code string, opts Options) (string, error) {
	sp, _ := opentracing.StartSpanFromContext(ctx, "codemod.printer.Print")
	defer sp.Finish()
	return Print(root, code, opts)
}

// Print renders the tree with the reference printer.
func Print(root *estree.Node, code string, opts Options) (string, error) {
	p := &printer{
		code:    code,
		opts:    opts,
		unit:    opts.indentUnit(),
		parens:  make(map[*estree.Node]bool),
		printed: make(map[*estree.Comment]bool),
	}
	if err := p.node(nil, "", root); err != nil {
		return "", err
	}
	out := strings.TrimRight(p.out.String(), " \t\n")
	if out == "" {
		return "", nil
	}
	return out + "\n", nil
}
