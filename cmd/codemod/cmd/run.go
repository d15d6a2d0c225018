package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/opentracing/opentracing-go"

	"github.com/bblfsh/codemod/codemods"
	"github.com/bblfsh/codemod/transform"
)

const RunCommandDescription = "runs a codemod over source files"

type RunCommand struct {
	command
	Write     bool              `short:"w" long:"write" description:"write the changes back to the files"`
	Diff      bool              `short:"d" long:"diff" description:"print a unified diff for changed files"`
	Arguments map[string]string `short:"a" long:"arg" value-name:"KEY:VALUE" description:"codemod argument, overrides the configuration file"`
	Args      struct {
		Codemod string   `positional-arg-name:"codemod" required:"yes"`
		Files   []string `positional-arg-name:"file" required:"yes"`
	} `positional-args:"yes"`

	out io.Writer
}

func (c *RunCommand) Execute(args []string) error {
	if err := c.init(); err != nil {
		return err
	}
	defer c.close()
	if c.out == nil {
		c.out = os.Stdout
	}

	name := c.Args.Codemod
	visitor, err := codemods.Visitor(name, c.cfg.Args(name, c.Arguments))
	if err != nil {
		return err
	}
	opts, err := c.options()
	if err != nil {
		return err
	}
	files, err := sourceFiles(c.Args.Files)
	if err != nil {
		return err
	}

	var changed, failed int
	for _, path := range files {
		ok, err := c.runFile(visitor, opts, path)
		if err != nil {
			failed++
			c.logger.Errorf(err, "%s: codemod %s failed", path, name)
			continue
		}
		if ok {
			changed++
		}
	}
	notice.Fprintf(os.Stderr, "%d files changed\n", changed)
	if failed != 0 {
		warning.Fprintf(os.Stderr, "%d files failed\n", failed)
		return ErrFailedFiles.New(failed)
	}
	return nil
}

// runFile transforms a single file and reports if it was changed.
func (c *RunCommand) runFile(visitor transform.Visitor, opts transform.Options, path string) (bool, error) {
	sp, ctx := opentracing.StartSpanFromContext(context.Background(), "codemod.cli.run")
	defer sp.Finish()
	sp.SetTag("file", path)

	fi, err := os.Stat(path)
	if err != nil {
		return false, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}
	code := string(data)
	out, err := transform.Transform(ctx, code, visitor, opts)
	if err != nil {
		return false, err
	}
	if out == code {
		c.logger.Debugf("%s: unchanged", path)
		if !c.Write && !c.Diff {
			_, err = io.WriteString(c.out, out)
		}
		return false, err
	}

	if c.Diff {
		diff, err := unifiedDiff(path, code, out)
		if err != nil {
			return true, err
		}
		printDiff(c.out, diff)
	}
	if c.Write {
		if err := os.WriteFile(path, []byte(out), fi.Mode().Perm()); err != nil {
			return true, err
		}
		c.logger.Infof("%s: updated", path)
	}
	if !c.Write && !c.Diff {
		if _, err := fmt.Fprint(c.out, out); err != nil {
			return true, err
		}
	}
	return true, nil
}
