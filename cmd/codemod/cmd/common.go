package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/pmezard/go-difflib/difflib"
	jaegercfg "github.com/uber/jaeger-client-go/config"
	"gopkg.in/src-d/go-errors.v1"
	"gopkg.in/src-d/go-log.v1"

	"github.com/bblfsh/codemod"
	"github.com/bblfsh/codemod/config"
	"github.com/bblfsh/codemod/parser"
	"github.com/bblfsh/codemod/transform"
)

var (
	warning = color.New(color.FgRed)
	notice  = color.New(color.FgGreen)

	diffAdded   = color.New(color.FgGreen)
	diffRemoved = color.New(color.FgRed)
	diffHeader  = color.New(color.Bold)
	diffHunk    = color.New(color.FgCyan)
)

var (
	// ErrInvalidLogger is returned when the logger configuration is wrong.
	ErrInvalidLogger = errors.NewKind("invalid logger configuration")
	// ErrInvalidTracer is returned when the tracing configuration is wrong.
	ErrInvalidTracer = errors.NewKind("invalid tracer configuration")
	// ErrFailedFiles is returned when some of the files could not be processed.
	ErrFailedFiles = errors.NewKind("%d files failed")
)

// command contains options shared by all commands.
type command struct {
	Config    string `short:"c" long:"config" description:"configuration file (default: codemod.toml, if present)"`
	LogLevel  string `long:"log-level" description:"log level: panic, fatal, error, warning, info, debug"`
	LogFormat string `long:"log-format" description:"format of the logs: text or json"`
	LogFields string `long:"log-fields" description:"extra fields to add to every log line in json format"`
	Tracing   bool   `long:"tracing" description:"report spans to Jaeger, configured from the environment"`

	cfg     *config.Config
	logger  log.Logger
	closers []io.Closer
}

func (c *command) init() error {
	var err error
	if c.Config == "" {
		c.cfg, err = config.Load(config.Filename, true)
	} else {
		c.cfg, err = config.Load(c.Config, false)
	}
	if err != nil {
		return err
	}
	if err = c.initLogger(); err != nil {
		return err
	}
	if c.Tracing {
		return c.initTracing()
	}
	return nil
}

func (c *command) initLogger() error {
	l := c.cfg.Log
	if c.LogLevel != "" {
		l.Level = c.LogLevel
	}
	if c.LogFormat != "" {
		l.Format = c.LogFormat
	}
	if c.LogFields != "" {
		l.Fields = c.LogFields
	}
	log.DefaultFactory = &log.LoggerFactory{
		Level:  l.Level,
		Format: l.Format,
		Fields: l.Fields,
	}
	var err error
	c.logger, err = log.DefaultFactory.New(nil)
	if err != nil {
		return ErrInvalidLogger.Wrap(err)
	}
	return nil
}

func (c *command) initTracing() error {
	cfg, err := jaegercfg.FromEnv()
	if err != nil {
		return ErrInvalidTracer.Wrap(err)
	}
	closer, err := cfg.InitGlobalTracer("codemod")
	if err != nil {
		return ErrInvalidTracer.Wrap(err)
	}
	c.closers = append(c.closers, closer)
	return nil
}

// close releases native processes and flushes the tracer.
func (c *command) close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i].Close(); err != nil {
			c.logger.Warningf("close failed: %v", err)
		}
	}
	c.closers = nil
}

func (c *command) parser() (parser.Parser, error) {
	p, closer, err := c.cfg.NewParser()
	if err != nil {
		return nil, err
	}
	c.closers = append(c.closers, closer)
	return p, nil
}

func (c *command) options() (transform.Options, error) {
	p, err := c.parser()
	if err != nil {
		return transform.Options{}, err
	}
	pr, closer, err := c.cfg.NewPrinter()
	if err != nil {
		return transform.Options{}, err
	}
	c.closers = append(c.closers, closer)
	popts := c.cfg.Printer.Options
	return transform.Options{
		Parser:         p,
		ParserOptions:  c.cfg.Parser.Options,
		Printer:        pr,
		PrinterOptions: &popts,
	}, nil
}

func (c *command) parse(ctx context.Context, p parser.Parser, path string) (*parser.Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return p.Parse(ctx, string(data), c.cfg.Parser.Options)
}

func isSkippedDir(name string) bool {
	return name == "node_modules" || (strings.HasPrefix(name, ".") && name != "." && name != "..")
}

// sourceFiles expands directories into the list of source files they contain.
// Files passed explicitly are always included.
func sourceFiles(paths []string) ([]string, error) {
	var out []string
	for _, root := range paths {
		fi, err := os.Stat(root)
		if err != nil {
			return nil, err
		}
		if !fi.IsDir() {
			out = append(out, root)
			continue
		}
		err = filepath.Walk(root, func(path string, fi os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if fi.IsDir() {
				if path != root && isSkippedDir(fi.Name()) {
					return filepath.SkipDir
				}
				return nil
			}
			if codemod.IsSource(path) {
				out = append(out, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// splitLines splits the text after each newline. The last line gets a newline if it has none,
// and no empty line is added after a trailing newline.
func splitLines(s string) []string {
	lines := strings.SplitAfter(s, "\n")
	if last := len(lines) - 1; lines[last] == "" {
		lines = lines[:last]
	} else {
		lines[last] += "\n"
	}
	return lines
}

func unifiedDiff(path, a, b string) (string, error) {
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        splitLines(a),
		B:        splitLines(b),
		FromFile: "a/" + filepath.ToSlash(path),
		ToFile:   "b/" + filepath.ToSlash(path),
		Context:  3,
	})
}

// printDiff writes the diff, coloring lines when the output is a terminal.
func printDiff(w io.Writer, diff string) {
	for _, line := range strings.SplitAfter(diff, "\n") {
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
			diffHeader.Fprint(w, line)
		case strings.HasPrefix(line, "@@"):
			diffHunk.Fprint(w, line)
		case strings.HasPrefix(line, "+"):
			diffAdded.Fprint(w, line)
		case strings.HasPrefix(line, "-"):
			diffRemoved.Fprint(w, line)
		default:
			fmt.Fprint(w, line)
		}
	}
}
