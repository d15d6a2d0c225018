// Package native implements a parser that delegates to an external process, for example a
// node script wrapping hermes-parser or babel. The process reads JSON lines from stdin:
//
//	{"action": "parse", "content": "...", "encoding": "utf8", "options": {...}}
//
// and replies with a single line for each request:
//
//	{"status": "ok", "ast": {"type": "Program", ..., "comments": [...]}, "offsets": "utf16"}
//
// Errors are reported with the "error" status for invalid code, or "fatal" for everything else.
// Offsets are UTF-16 code units by default, as in JavaScript strings. They are converted
// to byte offsets of the source.
package native

import (
	"context"
	"encoding/json"

	"github.com/opentracing/opentracing-go"
	"gopkg.in/src-d/go-errors.v1"
	"gopkg.in/src-d/go-log.v1"

	"github.com/bblfsh/codemod/codeframe"
	"github.com/bblfsh/codemod/estree"
	"github.com/bblfsh/codemod/internal/native"
	"github.com/bblfsh/codemod/parser"
)

// ErrDecode is returned when the tree produced by the native parser cannot be decoded.
var ErrDecode = errors.NewKind("cannot decode native tree")

// Offsets is the unit of offsets in the native tree.
type Offsets string

const (
	UTF16 = Offsets("utf16")
	Bytes = Offsets("bytes")
	Runes = Offsets("runes")
)

type parseRequest struct {
	Action   string          `json:"action"`
	Content  string          `json:"content"`
	Encoding native.Encoding `json:"encoding"`
	Options  parser.Options  `json:"options"`
}

type parseResponse struct {
	native.Header
	AST     json.RawMessage `json:"ast"`
	Offsets Offsets         `json:"offsets,omitempty"`
}

var _ parser.Parser = (*Parser)(nil)

// Parser runs a native parser process.
type Parser struct {
	proc *native.Process
	enc  native.Encoding
}

// New creates a parser for the command. The process must be started before parsing.
func New(command string, enc native.Encoding) (*Parser, error) {
	proc, err := native.NewProcess(command)
	if err != nil {
		return nil, err
	}
	if enc == "" {
		enc = native.UTF8
	}
	return &Parser{proc: proc, enc: enc}, nil
}

// Start the native process.
func (p *Parser) Start() error {
	return p.proc.Start()
}

// Close stops the native process.
func (p *Parser) Close() error {
	return p.proc.Close()
}

// Parse implements parser.Parser.
func (p *Parser) Parse(ctx context.Context, code string, opts parser.Options) (*parser.Result, error) {
	sp, ctx := opentracing.StartSpanFromContext(ctx, "codemod.native.Parse")
	defer sp.Finish()

	content, err := p.enc.Encode(code)
	if err != nil {
		return nil, native.ErrFailure.Wrap(err)
	}
	var resp parseResponse
	err = p.proc.Call(ctx, &parseRequest{
		Action: "parse", Content: content,
		Encoding: p.enc, Options: opts,
	}, &resp)
	if err != nil {
		return nil, err
	}
	if err = resp.Err(); err != nil {
		if resp.Status == native.StatusError {
			return nil, parser.ErrSyntax.Wrap(err)
		}
		return nil, err
	}
	f, err := estree.FromJSON(resp.AST)
	if err != nil {
		return nil, ErrDecode.Wrap(err)
	}
	if err = remap(code, resp.Offsets, f); err != nil {
		return nil, ErrDecode.Wrap(err)
	}
	// detected again, to share the comment with the list
	f.Program.Docblock = nil
	log.Debugf("native: parsed %d bytes, %d comments", len(code), len(f.Comments))
	return parser.NewResult(code, f.Program, f.Comments), nil
}

type offsetMapper struct {
	idx  *codeframe.Index
	conv func(int) (int, error)
}

func newMapper(code string, units Offsets) *offsetMapper {
	m := &offsetMapper{}
	switch units {
	case Bytes:
		m.idx = codeframe.NewIndex(code, false)
		m.conv = func(off int) (int, error) { return off, nil }
	case Runes:
		m.idx = codeframe.NewIndex(code, true)
		m.conv = m.idx.RuneOffset
	default:
		m.idx = codeframe.NewIndex(code, true)
		m.conv = m.idx.UTF16Offset
	}
	return m
}

func (m *offsetMapper) position(r estree.Range, loc *estree.SourceLocation) (estree.Range, *estree.SourceLocation, error) {
	if r.IsZero() {
		return r, loc, nil
	}
	var out estree.Range
	for i, off := range r {
		v, err := m.conv(off)
		if err != nil {
			return r, loc, err
		}
		out[i] = v
	}
	sl, sc, err := m.idx.LineCol(out.Start())
	if err != nil {
		return r, loc, err
	}
	el, ec, err := m.idx.LineCol(out.End())
	if err != nil {
		return r, loc, err
	}
	return out, &estree.SourceLocation{
		Start: estree.Position{Line: sl, Column: sc},
		End:   estree.Position{Line: el, Column: ec},
	}, nil
}

// remap converts ranges of all nodes and comments to byte offsets. Locations are
// recomputed to use byte columns.
func remap(code string, units Offsets, f *estree.File) error {
	m := newMapper(code, units)
	for _, c := range f.Comments {
		var err error
		if c.Range, c.Loc, err = m.position(c.Range, c.Loc); err != nil {
			return err
		}
	}
	return m.node(f.Program)
}

func (m *offsetMapper) node(n *estree.Node) error {
	if n == nil {
		return nil
	}
	var err error
	if n.Range, n.Loc, err = m.position(n.Range, n.Loc); err != nil {
		return err
	}
	for _, v := range n.Props {
		switch v := v.(type) {
		case *estree.Node:
			err = m.node(v)
		case []*estree.Node:
			for _, c := range v {
				if err = m.node(c); err != nil {
					break
				}
			}
		}
		if err != nil {
			return err
		}
	}
	return nil
}
