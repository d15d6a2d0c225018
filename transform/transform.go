// Package transform runs visitors over parsed JavaScript, collects the mutations they request
// and applies them to the tree, preserving comments. Files without mutations are returned unchanged.
package transform

import (
	"context"

	"github.com/opentracing/opentracing-go"
	"gopkg.in/src-d/go-errors.v1"
	"gopkg.in/src-d/go-log.v1"

	"github.com/bblfsh/codemod/comments"
	"github.com/bblfsh/codemod/estree"
	"github.com/bblfsh/codemod/parser"
	"github.com/bblfsh/codemod/parser/treesitter"
	"github.com/bblfsh/codemod/printer"
	"github.com/bblfsh/codemod/transform/mutation"
	"github.com/bblfsh/codemod/traverse"
)

var (
	// ErrParse is returned when the source cannot be parsed.
	ErrParse = errors.NewKind("parse failed")
	// ErrPrint is returned when the mutated tree cannot be printed.
	ErrPrint = errors.NewKind("print failed")
)

// Visitor creates selector handlers for a single transform. Handlers request
// changes through the context.
type Visitor func(ctx *Context) traverse.Handlers

// Options for Transform. Zero values select the tree-sitter parser and the reference printer.
type Options struct {
	Parser        parser.Parser
	ParserOptions parser.Options

	Printer printer.Printer
	// PrinterOptions defaults to printer.DefaultOptions.
	PrinterOptions *printer.Options
}

// Output is the result of TransformAST.
type Output struct {
	// AST is the mutated tree.
	AST *estree.Node
	// Code is the working source text. It differs from the original when comments were added.
	Code string
	// Mutated is set if at least one mutation was applied.
	Mutated bool
	// Mutations is the number of applied mutations.
	Mutations int
}

// TransformAST attaches comments to the parsed tree, runs the visitor and applies the
// collected mutations in order. The tree in the result is modified in place.
func TransformAST(ctx context.Context, res *parser.Result, visitor Visitor) (*Output, error) {
	sp, ctx := opentracing.StartSpanFromContext(ctx, "codemod.transform.TransformAST")
	defer sp.Finish()

	ast := res.AST
	var doc *estree.Comment
	if res.Docblock != nil {
		doc = res.Docblock.Comment
	}
	// the docblock belongs to the file, not to the first statement
	list := make([]*estree.Comment, 0, len(res.Comments))
	for _, c := range res.Comments {
		if c != doc {
			list = append(list, c)
		}
	}
	comments.Attach(list, ast, res.Code)

	tctx := newContext(res.Code, ast)
	if err := runVisitor(ctx, tctx, visitor); err != nil {
		return nil, err
	}
	out := &Output{AST: ast, Code: res.Code}
	if !tctx.ASTWasMutated() {
		log.Debugf("transform: no mutations")
		return out, nil
	}

	mctx := mutation.NewContext(res.Code)
	if err := applyAll(ctx, mctx, tctx.mutations); err != nil {
		return nil, err
	}
	removed := mctx.RemoveScheduledComments(ast)
	ast.Docblock = res.Docblock
	if doc != nil {
		if removesComment(tctx.mutations, doc) {
			ast.Docblock = nil
		} else {
			reattachDocblock(ast, doc)
		}
	}

	out.Code = mctx.Code()
	out.Mutated = true
	out.Mutations = len(tctx.mutations)
	log.Debugf("transform: applied %d mutations, removed %d comments", out.Mutations, removed)
	return out, nil
}

func runVisitor(ctx context.Context, tctx *Context, visitor Visitor) error {
	sp, _ := opentracing.StartSpanFromContext(ctx, "codemod.transform.traverse")
	defer sp.Finish()
	return traverse.Run(tctx.Context, visitor(tctx))
}

func applyAll(ctx context.Context, mctx *mutation.Context, list []mutation.Mutation) error {
	sp, _ := opentracing.StartSpanFromContext(ctx, "codemod.transform.apply")
	defer sp.Finish()
	for _, m := range list {
		root, err := mutation.Apply(mctx, m)
		if err != nil {
			return err
		}
		if root == nil {
			continue
		}
		if err := estree.UpdateAllParentPointers(root); err != nil {
			return err
		}
	}
	return nil
}

func removesComment(list []mutation.Mutation, c *estree.Comment) bool {
	for _, m := range list {
		if rm, ok := m.(*mutation.RemoveComment); ok && rm.Comment == c {
			return true
		}
	}
	return false
}

// reattachDocblock makes sure the docblock is printed at the top of the file, even if the
// first statement was removed or replaced.
func reattachDocblock(ast *estree.Node, doc *estree.Comment) {
	body := ast.Children("body")
	var first *estree.Node
	for _, s := range body {
		if s != nil {
			first = s
			break
		}
	}
	if first == nil {
		doc.Leading, doc.Trailing = false, false
		if !hasComment(ast, doc) {
			ast.Comments = append(ast.Comments, doc)
		}
		return
	}
	if hasComment(first, doc) {
		return
	}
	doc.Leading, doc.Trailing = true, false
	first.Comments = append([]*estree.Comment{doc}, first.Comments...)
}

func hasComment(n *estree.Node, c *estree.Comment) bool {
	for _, v := range n.Comments {
		if v == c {
			return true
		}
	}
	return false
}

func (opts Options) parse(ctx context.Context, code string) (*parser.Result, error) {
	p := opts.Parser
	if p == nil {
		p = treesitter.New()
	}
	res, err := p.Parse(ctx, code, opts.ParserOptions)
	if err != nil {
		return nil, ErrParse.Wrap(err)
	}
	return res, nil
}

// Transform parses the code, runs the visitor and prints the result. The code is returned
// unchanged when the visitor requested no mutations.
func Transform(ctx context.Context, code string, visitor Visitor, opts Options) (string, error) {
	sp, ctx := opentracing.StartSpanFromContext(ctx, "codemod.transform.Transform")
	defer sp.Finish()

	res, err := opts.parse(ctx, code)
	if err != nil {
		return "", err
	}
	out, err := TransformAST(ctx, res, visitor)
	if err != nil {
		return "", err
	}
	if !out.Mutated {
		return code, nil
	}
	pr := opts.Printer
	if pr == nil {
		pr = printer.New()
	}
	popts := printer.DefaultOptions()
	if opts.PrinterOptions != nil {
		popts = *opts.PrinterOptions
	}
	text, err := pr.Print(ctx, out.AST, out.Code, popts)
	if err != nil {
		return "", ErrPrint.Wrap(err)
	}
	return text, nil
}
