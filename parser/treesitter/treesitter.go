// Package treesitter implements an in-process JavaScript parser based on the tree-sitter
// grammar. Tree-sitter trees are lowered to ESTree for a subset of the language; other
// syntax is rejected with ErrUnsupported.
package treesitter

import (
	"context"
	"fmt"
	"sync"

	sitter "github.com/alexaandru/go-tree-sitter-bare"
	"github.com/alexaandru/go-sitter-forest/javascript"
	"github.com/opentracing/opentracing-go"
	"gopkg.in/src-d/go-errors.v1"
	"gopkg.in/src-d/go-log.v1"

	"github.com/bblfsh/codemod/estree"
	"github.com/bblfsh/codemod/parser"
)

// ErrUnsupported is returned for syntax that has no ESTree lowering.
var ErrUnsupported = errors.NewKind("unsupported syntax: %s")

var (
	langOnce sync.Once
	language *sitter.Language
)

func jsLanguage() *sitter.Language {
	langOnce.Do(func() {
		language = sitter.NewLanguage(javascript.GetLanguage())
	})
	return language
}

var _ parser.Parser = (*Parser)(nil)

// Parser is a tree-sitter based JavaScript parser. It is safe for concurrent use.
type Parser struct {
	pool sync.Pool
}

// New creates a new tree-sitter parser.
func New() *Parser {
	lang := jsLanguage()
	return &Parser{
		pool: sync.Pool{
			New: func() interface{} {
				p := sitter.NewParser()
				p.SetLanguage(lang)
				return p
			},
		},
	}
}

// Parse implements parser.Parser. Flow and Babel options are not supported and are ignored.
func (p *Parser) Parse(ctx context.Context, code string, opts parser.Options) (*parser.Result, error) {
	sp, ctx := opentracing.StartSpanFromContext(ctx, "codemod.treesitter.Parse")
	defer sp.Finish()

	if opts.Flow == "all" || opts.Babel {
		log.Debugf("treesitter: flow=%q babel=%v options are ignored", opts.Flow, opts.Babel)
	}

	tp, ok := p.pool.Get().(*sitter.Parser)
	if !ok {
		return nil, fmt.Errorf("treesitter: unexpected parser type in the pool")
	}
	defer p.pool.Put(tp)

	src := []byte(code)
	tree, err := tp.ParseString(ctx, nil, src)
	if err != nil {
		return nil, parser.ErrSyntax.Wrap(err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.IsNull() {
		return nil, parser.ErrSyntax.New()
	}
	l := &lowerer{src: src}
	if err := l.scan(root); err != nil {
		return nil, err
	}
	if root.HasError() {
		return nil, parser.ErrSyntax.New()
	}
	ast, err := l.node(root)
	if err != nil {
		return nil, err
	}
	if opts.SourceType == parser.Script {
		ast.Set("sourceType", string(parser.Script))
	}
	if err := estree.UpdateAllParentPointers(ast); err != nil {
		return nil, err
	}
	log.Debugf("treesitter: parsed %d bytes, %d comments", len(src), len(l.comments))
	return parser.NewResult(code, ast, l.comments), nil
}

func rangeOf(n sitter.Node) estree.Range {
	return estree.Range{int(n.StartByte()), int(n.EndByte())}
}

func locOf(n sitter.Node) *estree.SourceLocation {
	s, e := n.StartPoint(), n.EndPoint()
	return &estree.SourceLocation{
		Start: estree.Position{Line: int(s.Row) + 1, Column: int(s.Column)},
		End:   estree.Position{Line: int(e.Row) + 1, Column: int(e.Column)},
	}
}

// scan collects comments and reports the first syntax error of the tree.
// Errors are either ERROR nodes or zero-width nodes inserted by error recovery.
func (l *lowerer) scan(n sitter.Node) error {
	if n.IsMissing() {
		p := n.StartPoint()
		return parser.ErrSyntax.Wrap(fmt.Errorf("missing %q at %d:%d",
			n.Type(), int(p.Row)+1, int(p.Column)))
	}
	if n.IsError() {
		p := n.StartPoint()
		return parser.ErrSyntax.Wrap(fmt.Errorf("unexpected %q at %d:%d",
			truncate(l.text(n), 20), int(p.Row)+1, int(p.Column)))
	}
	switch n.Type() {
	case "comment":
		l.comments = append(l.comments, l.comment(n))
		return nil
	}
	for i := range n.ChildCount() {
		c := n.Child(i)
		if c.IsNull() {
			continue
		}
		if err := l.scan(c); err != nil {
			return err
		}
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n] + "..."
	}
	return s
}

func (l *lowerer) comment(n sitter.Node) *estree.Comment {
	text := l.text(n)
	c := &estree.Comment{Range: rangeOf(n), Loc: locOf(n)}
	if len(text) >= 4 && text[:2] == "/*" {
		c.Type = estree.CommentBlock
		c.Value = text[2 : len(text)-2]
	} else {
		c.Type = estree.CommentLine
		if len(text) >= 2 {
			c.Value = text[2:]
		}
	}
	return c
}
