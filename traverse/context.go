package traverse

import (
	"github.com/bblfsh/codemod/codeframe"
	"github.com/bblfsh/codemod/estree"
)

// Handlers maps selectors to node handlers. Selectors with the ":exit" suffix are called when leaving nodes.
type Handlers map[string]Listener

// Context is passed to visitor factories. It allows handlers to control the walk and to render diagnostics.
type Context struct {
	code string
	root *estree.Node

	// Color enables terminal colors in code frames.
	Color bool

	stop bool
	skip bool
}

// NewContext creates a traversal context for the tree parsed from the code.
func NewContext(code string, root *estree.Node) *Context {
	return &Context{code: code, root: root}
}

// Code returns the source code of the tree.
func (c *Context) Code() string { return c.code }

// Root returns the root of the tree.
func (c *Context) Root() *estree.Node { return c.root }

// StopTraversal stops the walk after the current handlers return.
func (c *Context) StopTraversal() { c.stop = true }

// SkipTraversal skips children of the current node after the current handlers return.
func (c *Context) SkipTraversal() { c.skip = true }

// flags converts pending requests to a walk signal, and resets the skip request.
func (c *Context) flags() error {
	if c.stop {
		return Break
	} else if c.skip {
		c.skip = false
		return Skip
	}
	return nil
}

func (c *Context) position(n *estree.Node) (line, col int) {
	if n.Loc != nil {
		return n.Loc.Start.Line, n.Loc.Start.Column
	}
	idx := codeframe.NewIndex(c.code, false)
	line, col, err := idx.LineCol(n.Range.Start())
	if err != nil {
		return 0, 0
	}
	return line, col
}

// BuildCodeFrame renders the source of the node with the message next to it.
func (c *Context) BuildCodeFrame(n *estree.Node, message string) string {
	if n.Range.IsZero() {
		return c.BuildSimpleCodeFrame(n, message)
	}
	out, err := codeframe.Build(c.code, n.Range.Start(), n.Range.End(), message, codeframe.Options{Color: c.Color})
	if err != nil {
		return c.BuildSimpleCodeFrame(n, message)
	}
	return out
}

// BuildSimpleCodeFrame renders a single line with the node type, its position and the message.
func (c *Context) BuildSimpleCodeFrame(n *estree.Node, message string) string {
	line, col := c.position(n)
	return codeframe.Simple(n.Type, line, col, message)
}

// Run walks the tree of the context once, dispatching nodes to handlers. Any handler error aborts
// the walk and is returned.
func Run(ctx *Context, handlers Handlers) error {
	emitter := NewSafeEmitter()
	for sel, fnc := range handlers {
		if fnc != nil {
			emitter.On(sel, fnc)
		}
	}
	gen, err := NewNodeEventGenerator(emitter)
	if err != nil {
		return err
	}
	ctx.stop, ctx.skip = false, false
	return Walk(ctx.root, VisitorFuncs{
		EnterFunc: func(n, _ *estree.Node) error {
			if err := gen.EnterNode(n); err != nil {
				return err
			}
			return ctx.flags()
		},
		LeaveFunc: func(n, _ *estree.Node) error {
			if err := gen.LeaveNode(n); err != nil {
				return err
			}
			return ctx.flags()
		},
	})
}

// WithContext creates a traversal context, builds handlers with the factory and walks the tree.
func WithContext(code string, root *estree.Node, newHandlers func(ctx *Context) Handlers) error {
	ctx := NewContext(code, root)
	return Run(ctx, newHandlers(ctx))
}
