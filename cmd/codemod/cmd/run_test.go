package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunWrite(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"a.js":     "console.log(1);\nfoo();\n",
		"sub/b.js": "bar();\n",
	})
	buf := bytes.NewBuffer(nil)
	c := &RunCommand{Write: true, out: buf}
	c.Args.Codemod = "remove-calls"
	c.Args.Files = []string{dir}
	c.Arguments = map[string]string{"callees": "console.*"}
	require.NoError(t, c.Execute(nil))
	require.Empty(t, buf.String())

	data, err := os.ReadFile(filepath.Join(dir, "a.js"))
	require.NoError(t, err)
	require.Equal(t, "foo();\n", string(data))
	data, err = os.ReadFile(filepath.Join(dir, "sub", "b.js"))
	require.NoError(t, err)
	require.Equal(t, "bar();\n", string(data))
}

func TestRunDiff(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"a.js": "console.log(1);\nfoo();\n",
	})
	path := filepath.Join(dir, "a.js")
	buf := bytes.NewBuffer(nil)
	c := &RunCommand{Diff: true, out: buf}
	c.Args.Codemod = "remove-calls"
	c.Args.Files = []string{path}
	c.Arguments = map[string]string{"callees": "console.log"}
	require.NoError(t, c.Execute(nil))

	exp, err := unifiedDiff(path, "console.log(1);\nfoo();\n", "foo();\n")
	require.NoError(t, err)
	require.Equal(t, exp, buf.String())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "console.log(1);\nfoo();\n", string(data))
}

func TestRunStdout(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"a.js": "const foo = 1;\n",
	})
	buf := bytes.NewBuffer(nil)
	c := &RunCommand{out: buf}
	c.Args.Codemod = "rename-identifier"
	c.Args.Files = []string{filepath.Join(dir, "a.js")}
	c.Arguments = map[string]string{"from": "foo", "to": "bar"}
	require.NoError(t, c.Execute(nil))
	require.Equal(t, "const bar = 1;\n", buf.String())
}

func TestRunErrors(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"bad.js": "foo(;\n",
	})
	c := &RunCommand{out: bytes.NewBuffer(nil)}
	c.Args.Codemod = "unknown"
	c.Args.Files = []string{dir}
	require.Error(t, c.Execute(nil))

	c = &RunCommand{out: bytes.NewBuffer(nil)}
	c.Args.Codemod = "remove-calls"
	c.Args.Files = []string{dir}
	c.Arguments = map[string]string{"callees": "foo"}
	err := c.Execute(nil)
	require.True(t, ErrFailedFiles.Is(err))
}
