// Package nativetest runs the test binary itself as a native process.
//
// A test package declares a helper test that calls Serve, and uses Command to get
// a command line which starts the test binary in the helper mode:
//
//	func TestHelperProcess(t *testing.T) {
//		nativetest.Serve(t, handle)
//	}
package nativetest

import (
	"encoding/json"
	"io"
	"os"
	"testing"

	"bitbucket.org/creachadair/shell"

	"github.com/bblfsh/codemod/internal/jsonlines"
)

const envHelper = "CODEMOD_NATIVE_HELPER"

// Handler replies to a single request. Returning nil exits the process without a response.
type Handler func(req map[string]interface{}) interface{}

// Command returns a command line which runs the helper test of the current test binary.
func Command(t testing.TB, helper string) string {
	t.Helper()
	t.Setenv(envHelper, "1")
	return shell.Join([]string{os.Args[0], "-test.run=^" + helper + "$", "--"})
}

// Serve handles requests from stdin until EOF and exits. It does nothing if the
// test binary was not started by Command.
func Serve(t testing.TB, h Handler) {
	if os.Getenv(envHelper) != "1" {
		t.Skip("not a helper process")
		return
	}
	dec := jsonlines.NewDecoder(os.Stdin)
	enc := jsonlines.NewEncoder(os.Stdout)
	for {
		var req map[string]interface{}
		err := dec.Decode(&req)
		if err == io.EOF {
			os.Exit(0)
		} else if err != nil {
			_ = enc.Encode(map[string]interface{}{"status": "fatal", "errors": []string{err.Error()}})
			continue
		}
		resp := h(req)
		if resp == nil {
			os.Exit(1)
		}
		if raw, ok := resp.(json.RawMessage); ok {
			os.Stdout.Write(append(raw, '\n'))
			continue
		}
		if err := enc.Encode(resp); err != nil {
			os.Exit(2)
		}
	}
}
