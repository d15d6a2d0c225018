// Package native implements a printer that delegates to an external formatter process,
// for example a node script around prettier. Requests are JSON lines:
//
//	{"action": "print", "ast": {...}, "code": "...", "encoding": "utf8", "offsets": "bytes", "options": {...}}
//
// The reply carries the printed code in the same encoding:
//
//	{"status": "ok", "code": "..."}
//
// Ranges in the tree are byte offsets into the code sent with the request. Synthetic
// nodes have an empty range at offset zero.
package native

import (
	"context"

	"github.com/opentracing/opentracing-go"
	"gopkg.in/src-d/go-errors.v1"

	"github.com/bblfsh/codemod/estree"
	"github.com/bblfsh/codemod/internal/native"
	"github.com/bblfsh/codemod/printer"
)

// ErrRejected is returned when the formatter cannot print the tree.
var ErrRejected = errors.NewKind("tree rejected by the formatter")

type printRequest struct {
	Action   string          `json:"action"`
	AST      *estree.Node    `json:"ast"`
	Code     string          `json:"code"`
	Encoding native.Encoding `json:"encoding"`
	Offsets  string          `json:"offsets"`
	Options  printer.Options `json:"options"`
}

type printResponse struct {
	native.Header
	Code string `json:"code"`
}

var _ printer.Printer = (*Printer)(nil)

// Printer runs a native formatter process.
type Printer struct {
	proc *native.Process
	enc  native.Encoding
}

// New creates a printer for the command. The process must be started before printing.
func New(command string, enc native.Encoding) (*Printer, error) {
	proc, err := native.NewProcess(command)
	if err != nil {
		return nil, err
	}
	if enc == "" {
		enc = native.UTF8
	}
	return &Printer{proc: proc, enc: enc}, nil
}

// Start the native process.
func (p *Printer) Start() error {
	return p.proc.Start()
}

// Close stops the native process.
func (p *Printer) Close() error {
	return p.proc.Close()
}

// Print implements printer.Printer.
func (p *Printer) Print(ctx context.Context, root *estree.Node, code string, opts printer.Options) (string, error) {
	sp, ctx := opentracing.StartSpanFromContext(ctx, "codemod.native.Print")
	defer sp.Finish()

	content, err := p.enc.Encode(code)
	if err != nil {
		return "", native.ErrFailure.Wrap(err)
	}
	var resp printResponse
	err = p.proc.Call(ctx, &printRequest{
		Action: "print", AST: root,
		Code: content, Encoding: p.enc,
		Offsets: "bytes", Options: opts,
	}, &resp)
	if err != nil {
		return "", err
	}
	if err = resp.Err(); err != nil {
		if resp.Status == native.StatusError {
			return "", ErrRejected.Wrap(err)
		}
		return "", err
	}
	out, err := p.enc.Decode(resp.Code)
	if err != nil {
		return "", native.ErrFailure.Wrap(err)
	}
	return out, nil
}
