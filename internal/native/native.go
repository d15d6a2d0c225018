// Package native runs an external process that handles requests encoded as JSON lines.
// It is used by parser and printer adapters for tools written in JavaScript.
package native

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
	"time"

	"bitbucket.org/creachadair/shell"
	"github.com/opentracing/opentracing-go"
	"gopkg.in/src-d/go-errors.v1"
	"gopkg.in/src-d/go-log.v1"

	"github.com/bblfsh/codemod/internal/jsonlines"
)

const closeTimeout = time.Second * 5

var (
	// ErrNotRunning is returned when sending a request to a process that was not started.
	ErrNotRunning = errors.NewKind("native process is not running")
	// ErrProcessCrashed is returned when the process exits while handling a request.
	ErrProcessCrashed = errors.NewKind("native process crashed")
	// ErrFailure is returned when the process cannot handle a request.
	ErrFailure = errors.NewKind("native process failure")
	// ErrCommand is returned for commands that cannot be split into arguments.
	ErrCommand = errors.NewKind("invalid command: %q")
)

type state int

const (
	stateOK = state(iota)
	stateTimeout
	stateBroken
)

// Process is a wrapper of a native command. Requests are handled one at a time,
// this is controlled by a mutex.
type Process struct {
	args    []string
	started bool

	mu     sync.Mutex
	enc    jsonlines.Encoder
	dec    jsonlines.Decoder
	stdin  *os.File
	stdout *os.File
	cmd    *exec.Cmd
	cmdErr chan error
	state  state
}

// NewProcess prepares a process for the command line. Arguments are split the way a shell would do.
func NewProcess(command string) (*Process, error) {
	args, ok := shell.Split(command)
	if !ok || len(args) == 0 {
		return nil, ErrCommand.New(command)
	}
	return &Process{args: args}, nil
}

// Command returns the command line of the process.
func (p *Process) Command() string {
	return shell.Join(p.args)
}

// Start executes the command and prepares it to handle requests.
func (p *Process) Start() error {
	p.state = stateOK
	p.cmd = exec.Command(p.args[0], p.args[1:]...)
	p.cmd.Stderr = os.Stderr

	stdin, w, err := os.Pipe()
	if err != nil {
		return err
	}
	r, stdout, err := os.Pipe()
	if err != nil {
		stdin.Close()
		w.Close()
		return err
	}
	p.stdin, p.stdout = w, r
	p.cmd.Stdin = stdin
	p.cmd.Stdout = stdout

	p.enc = jsonlines.NewEncoder(p.stdin)
	p.dec = jsonlines.NewDecoder(p.stdout)

	if err = p.cmd.Start(); err != nil {
		p.stdin.Close()
		p.stdout.Close()
		stdin.Close()
		stdout.Close()
		return err
	}
	p.started = true
	errc := make(chan error, 1)
	p.cmdErr = errc
	go func() {
		// close pipes when the process exits
		defer func() {
			stdin.Close()
			stdout.Close()
			close(errc)
		}()
		errc <- p.cmd.Wait()
	}()
	log.Debugf("native: started %s", p.Command())
	return nil
}

func (p *Process) writeRequest(ctx context.Context, req interface{}) error {
	sp, _ := opentracing.StartSpanFromContext(ctx, "codemod.native.encodeReq")
	defer sp.Finish()

	err := p.enc.Encode(req)
	if err == nil {
		return nil
	}
	// Cannot write data, the process likely crashed. Try to read whatever it wrote,
	// it might be a stack trace or an error message.
	var raw json.RawMessage
	if derr := p.dec.Decode(&raw); derr != nil {
		return ErrFailure.Wrap(err)
	}
	return ErrFailure.Wrap(fmt.Errorf("error: %v; %s", err, string(raw)))
}

type timeoutError interface {
	Timeout() bool
}

func isTimeout(err error) bool {
	e, ok := err.(timeoutError)
	return ok && e.Timeout()
}

func (p *Process) broken() {
	p.state = stateBroken
	_ = p.close()
}

func (p *Process) skipResponse(ctx context.Context) error {
	sp, _ := opentracing.StartSpanFromContext(ctx, "codemod.native.skipResp")
	defer sp.Finish()

	var r json.RawMessage
	err := p.dec.Decode(&r)
	if isTimeout(err) {
		return err
	} else if err != nil {
		p.broken()
		return err
	}
	p.state = stateOK
	return nil
}

func (p *Process) readResponse(ctx context.Context, resp interface{}) error {
	sp, _ := opentracing.StartSpanFromContext(ctx, "codemod.native.decodeResp")
	defer sp.Finish()

	err := p.dec.Decode(resp)
	if isTimeout(err) {
		// the request is still being processed, the next call must discard the response
		p.state = stateTimeout
		return err
	} else if err == io.EOF {
		return err
	} else if err != nil {
		// the stream is out of sync, stop the process
		p.broken()
		return err
	}
	return nil
}

func (p *Process) restart() error {
	// exit code is not important
	<-p.cmdErr
	_ = p.stdin.Close()
	_ = p.stdout.Close()
	if err := p.Start(); err != nil {
		return ErrFailure.Wrap(err, "restart failed")
	}
	return nil
}

// Call sends a request to the process and decodes a single response line into resp.
// Context deadline is applied to both the request and the response.
func (p *Process) Call(rctx context.Context, req, resp interface{}) error {
	sp, ctx := opentracing.StartSpanFromContext(rctx, "codemod.native.Call")
	defer sp.Finish()

	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		return ErrFailure.Wrap(ErrNotRunning.New())
	}

	if deadline, ok := ctx.Deadline(); ok {
		_ = p.stdout.SetReadDeadline(deadline)
		_ = p.stdin.SetWriteDeadline(deadline)
		defer func() {
			_ = p.stdin.SetWriteDeadline(time.Time{})
			_ = p.stdout.SetReadDeadline(time.Time{})
		}()
	}

	switch p.state {
	case stateOK:
	case stateTimeout:
		// timed out last time, so the response is still on the wire
		if err := p.skipResponse(ctx); err != nil {
			return ErrFailure.Wrap(err)
		}
	case stateBroken:
		log.Warningf("native: restarting %s", p.Command())
		if err := p.restart(); err != nil {
			return err
		}
	default:
		return ErrFailure.Wrap(fmt.Errorf("unexpected state: %v", p.state))
	}

	if err := p.writeRequest(ctx, req); err != nil {
		return err
	}
	err := p.readResponse(ctx, resp)
	if err == io.EOF {
		p.state = stateBroken
		if err := p.restart(); err != nil {
			return err
		}
		// fail anyway, this request may have caused the crash
		return ErrFailure.Wrap(ErrProcessCrashed.New())
	}
	if err != nil {
		return ErrFailure.Wrap(err)
	}
	return nil
}

// close stops the process. It must not hold the mutex, or readResponse will deadlock.
func (p *Process) close() error {
	var last error
	if err := p.stdin.Close(); err != nil && !isClosed(err) {
		last = err
	}
	timeout := time.NewTimer(closeTimeout)
	select {
	case <-p.cmdErr:
		timeout.Stop()
	case <-timeout.C:
		_ = p.cmd.Process.Kill()
	}
	if err := p.stdout.Close(); err != nil && !isClosed(err) && last == nil {
		last = err
	}
	return last
}

func isClosed(err error) bool {
	e, ok := err.(*os.PathError)
	return ok && e.Err == os.ErrClosed
}

// Close stops the process.
func (p *Process) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.started {
		return nil
	}
	p.started = false
	if p.state == stateBroken {
		// already stopped
		return nil
	}
	return p.close()
}
