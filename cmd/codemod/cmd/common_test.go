package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/require"
)

func init() {
	color.NoColor = true
}

func writeFiles(t *testing.T, files map[string]string) string {
	dir := t.TempDir()
	for name, data := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(data), 0644))
	}
	return dir
}

func TestSourceFiles(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"a.js":              "a();\n",
		"b.txt":             "b\n",
		"sub/c.jsx":         "c();\n",
		"node_modules/d.js": "d();\n",
		".git/e.js":         "e();\n",
		"sub/deeper/f.mjs":  "f();\n",
		"sub/deeper/g.flow": "g();\n",
		"sub/deeper/README": "",
	})
	explicit := filepath.Join(dir, "b.txt")
	files, err := sourceFiles([]string{dir, explicit})
	require.NoError(t, err)
	require.Equal(t, []string{
		filepath.Join(dir, "a.js"),
		filepath.Join(dir, "sub", "c.jsx"),
		filepath.Join(dir, "sub", "deeper", "f.mjs"),
		filepath.Join(dir, "sub", "deeper", "g.flow"),
		explicit,
	}, files)

	_, err = sourceFiles([]string{filepath.Join(dir, "missing.js")})
	require.Error(t, err)
}

func TestDiff(t *testing.T) {
	diff, err := unifiedDiff("a.js", "a();\nb();\n", "a();\nc();\n")
	require.NoError(t, err)
	require.Equal(t, "--- a/a.js\n+++ b/a.js\n@@ -1,2 +1,2 @@\n a();\n-b();\n+c();\n", diff)

	buf := bytes.NewBuffer(nil)
	printDiff(buf, diff)
	require.Equal(t, diff, buf.String())

	diff, err = unifiedDiff("a.js", "a();\nb();", "a();\nc();")
	require.NoError(t, err)
	require.Equal(t, "--- a/a.js\n+++ b/a.js\n@@ -1,2 +1,2 @@\n a();\n-b();\n+c();\n", diff)

	diff, err = unifiedDiff("a.js", "a();\n", "a();\n")
	require.NoError(t, err)
	require.Empty(t, diff)
}

func TestSplitLines(t *testing.T) {
	require.Equal(t, []string{"a\n", "b\n"}, splitLines("a\nb\n"))
	require.Equal(t, []string{"a\n", "b\n"}, splitLines("a\nb"))
	require.Equal(t, []string{"a\n", "\n"}, splitLines("a\n\n"))
	require.Empty(t, splitLines(""))
}

func TestInitLogger(t *testing.T) {
	c := &command{LogLevel: "debug", LogFormat: "json"}
	require.NoError(t, c.init())
	require.NotNil(t, c.logger)

	c = &command{LogLevel: "loud"}
	err := c.init()
	require.True(t, ErrInvalidLogger.Is(err))
}
