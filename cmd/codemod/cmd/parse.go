package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/ghodss/yaml"
	"github.com/opentracing/opentracing-go"

	"github.com/bblfsh/codemod"
	"github.com/bblfsh/codemod/parser"
)

const ParseCommandDescription = "parses files and prints the ESTree AST with comments and directives"

type ParseCommand struct {
	command
	Format string `short:"f" long:"format" default:"json" choice:"json" choice:"yaml" description:"output format"`
	Args   struct {
		Files []string `positional-arg-name:"file" required:"yes"`
	} `positional-args:"yes"`

	out io.Writer
}

func (c *ParseCommand) Execute(args []string) error {
	if err := c.init(); err != nil {
		return err
	}
	defer c.close()
	if c.out == nil {
		c.out = os.Stdout
	}

	p, err := c.parser()
	if err != nil {
		return err
	}
	for _, path := range c.Args.Files {
		if err := c.parseFile(p, path); err != nil {
			return err
		}
	}
	return nil
}

func (c *ParseCommand) parseFile(p parser.Parser, path string) error {
	sp, ctx := opentracing.StartSpanFromContext(context.Background(), "codemod.cli.parse")
	defer sp.Finish()
	sp.SetTag("file", path)

	res, err := c.parse(ctx, p, path)
	if err != nil {
		return fmt.Errorf("%s: %v", path, err)
	}
	s, err := codemod.ResultToString(res)
	if err != nil {
		return err
	}
	if c.Format == "yaml" {
		data, err := yaml.JSONToYAML([]byte(s))
		if err != nil {
			return err
		}
		s = string(data)
	}
	_, err = fmt.Fprintln(c.out, s)
	return err
}
