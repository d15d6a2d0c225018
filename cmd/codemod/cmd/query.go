package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/opentracing/opentracing-go"

	"github.com/bblfsh/codemod/estree"
	"github.com/bblfsh/codemod/parser"
	"github.com/bblfsh/codemod/query"
	"github.com/bblfsh/codemod/traverse"
)

const QueryCommandDescription = "prints code frames for the nodes matching a selector or an XPath query"

type QueryCommand struct {
	command
	XPath bool `short:"x" long:"xpath" description:"interpret the query as XPath instead of a selector"`
	Args  struct {
		Query string   `positional-arg-name:"query" required:"yes"`
		Files []string `positional-arg-name:"file" required:"yes"`
	} `positional-args:"yes"`

	out io.Writer
}

func (c *QueryCommand) Execute(args []string) error {
	if err := c.init(); err != nil {
		return err
	}
	defer c.close()
	if c.out == nil {
		c.out = os.Stdout
	}

	var xq *query.Query
	if c.XPath {
		var err error
		xq, err = query.Compile(c.Args.Query)
		if err != nil {
			return err
		}
	}
	files, err := sourceFiles(c.Args.Files)
	if err != nil {
		return err
	}
	p, err := c.parser()
	if err != nil {
		return err
	}
	total := 0
	for _, path := range files {
		n, err := c.queryFile(p, xq, path)
		if err != nil {
			return err
		}
		total += n
	}
	c.logger.Debugf("%d matches in %d files", total, len(files))
	return nil
}

func (c *QueryCommand) queryFile(p parser.Parser, xq *query.Query, path string) (int, error) {
	sp, ctx := opentracing.StartSpanFromContext(context.Background(), "codemod.cli.query")
	defer sp.Finish()
	sp.SetTag("file", path)

	res, err := c.parse(ctx, p, path)
	if err != nil {
		return 0, fmt.Errorf("%s: %v", path, err)
	}
	tctx := traverse.NewContext(res.Code, res.AST)
	tctx.Color = !color.NoColor

	var nodes []*estree.Node
	if xq != nil {
		nodes, err = xq.Execute(res.AST)
		if err != nil {
			return 0, fmt.Errorf("%s: %v", path, err)
		}
	} else {
		err = traverse.Run(tctx, traverse.Handlers{
			c.Args.Query: func(n *estree.Node) error {
				nodes = append(nodes, n)
				return nil
			},
		})
		if err != nil {
			return 0, err
		}
	}
	for _, n := range nodes {
		if _, err := fmt.Fprintf(c.out, "%s\n%s\n\n", path, tctx.BuildCodeFrame(n, n.Type)); err != nil {
			return 0, err
		}
	}
	return len(nodes), nil
}
