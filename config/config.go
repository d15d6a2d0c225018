// Package config loads the codemod.toml configuration file.
package config

import (
	"io"
	"os"

	"github.com/BurntSushi/toml"
	"gopkg.in/src-d/go-errors.v1"

	"github.com/bblfsh/codemod/codemods"
	"github.com/bblfsh/codemod/internal/native"
	"github.com/bblfsh/codemod/parser"
	nativeparser "github.com/bblfsh/codemod/parser/native"
	"github.com/bblfsh/codemod/parser/treesitter"
	"github.com/bblfsh/codemod/printer"
	nativeprinter "github.com/bblfsh/codemod/printer/native"
)

// Filename is the default name of the configuration file.
const Filename = "codemod.toml"

// ErrInvalid is returned for configuration files that cannot be decoded.
var ErrInvalid = errors.NewKind("invalid configuration %s")

// Parser configures the parser. An empty command selects the built-in tree-sitter parser.
type Parser struct {
	Command  string          `toml:"command,omitempty"`
	Encoding native.Encoding `toml:"encoding,omitempty"`
	parser.Options
}

// Printer configures the printer. An empty command selects the reference printer.
type Printer struct {
	Command  string          `toml:"command,omitempty"`
	Encoding native.Encoding `toml:"encoding,omitempty"`
	printer.Options
}

// Log configures go-log.
type Log struct {
	Level  string `toml:"level,omitempty"`
	Format string `toml:"format,omitempty"`
	Fields string `toml:"fields,omitempty"`
}

// Config is the content of the configuration file.
type Config struct {
	Parser  Parser  `toml:"parser"`
	Printer Printer `toml:"printer"`
	Log     Log     `toml:"log"`
	// Codemods contains default arguments for codemods, keyed by the codemod name.
	Codemods map[string]codemods.Args `toml:"codemods,omitempty"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Printer: Printer{Options: printer.DefaultOptions()},
		Log:     Log{Level: "info", Format: "text"},
	}
}

func (c *Config) Encode(w io.Writer) error {
	e := toml.NewEncoder(w)
	return e.Encode(c)
}

// Decode reads the configuration. Missing values keep their current values.
func (c *Config) Decode(r io.Reader) error {
	if _, err := toml.DecodeReader(r, c); err != nil {
		return err
	}
	return nil
}

// Load reads the configuration file on top of the defaults. If the file does not exist
// and optional is set, defaults are returned.
func Load(path string, optional bool) (*Config, error) {
	c := Default()
	f, err := os.Open(path)
	if os.IsNotExist(err) && optional {
		return c, nil
	} else if err != nil {
		return nil, err
	}
	defer f.Close()
	if err = c.Decode(f); err != nil {
		return nil, ErrInvalid.Wrap(err, path)
	}
	return c, nil
}

// Args returns arguments for the codemod, with the configured defaults overridden by args.
func (c *Config) Args(name string, args codemods.Args) codemods.Args {
	out := make(codemods.Args)
	for k, v := range c.Codemods[name] {
		out[k] = v
	}
	for k, v := range args {
		out[k] = v
	}
	return out
}

// NewParser creates the configured parser. Native parsers are started and must be closed.
func (c *Config) NewParser() (parser.Parser, io.Closer, error) {
	if c.Parser.Command == "" {
		return treesitter.New(), nopCloser{}, nil
	}
	p, err := nativeparser.New(c.Parser.Command, c.Parser.Encoding)
	if err != nil {
		return nil, nil, err
	}
	if err = p.Start(); err != nil {
		return nil, nil, err
	}
	return p, p, nil
}

// NewPrinter creates the configured printer. Native printers are started and must be closed.
func (c *Config) NewPrinter() (printer.Printer, io.Closer, error) {
	if c.Printer.Command == "" {
		return printer.New(), nopCloser{}, nil
	}
	p, err := nativeprinter.New(c.Printer.Command, c.Printer.Encoding)
	if err != nil {
		return nil, nil, err
	}
	if err = p.Start(); err != nil {
		return nil, nil, err
	}
	return p, p, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
