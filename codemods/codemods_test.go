package codemods

import (
	"context"
	"io/ioutil"
	"testing"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v2"

	"github.com/bblfsh/codemod/transform"
)

type fixture struct {
	Name    string `yaml:"name"`
	Codemod string `yaml:"codemod"`
	Args    Args   `yaml:"args"`
	Input   string `yaml:"input"`
	Output  string `yaml:"output"`
}

func readFixtures(t testing.TB, path string) []fixture {
	data, err := ioutil.ReadFile(path)
	require.NoError(t, err)
	var list []fixture
	require.NoError(t, yaml.Unmarshal(data, &list))
	require.NotEmpty(t, list)
	return list
}

func diff(exp, got string) string {
	s, _ := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(exp),
		B:        difflib.SplitLines(got),
		FromFile: "expected",
		ToFile:   "actual",
		Context:  3,
	})
	return s
}

func TestFixtures(t *testing.T) {
	for _, c := range readFixtures(t, "testdata/fixtures.yml") {
		c := c
		t.Run(c.Name, func(t *testing.T) {
			v, err := Visitor(c.Codemod, c.Args)
			require.NoError(t, err)
			out, err := transform.Transform(context.Background(), c.Input, v, transform.Options{})
			require.NoError(t, err)
			if out != c.Output {
				t.Fatalf("unexpected output:\n%s", diff(c.Output, out))
			}
		})
	}
}

func TestRegistry(t *testing.T) {
	var names []string
	for _, c := range List() {
		names = append(names, c.Name)
	}
	require.Equal(t, []string{"add-flow-header", "remove-calls", "rename-identifier"}, names)

	_, err := Lookup("unknown")
	require.True(t, ErrUnknown.Is(err))

	_, err = Visitor("rename-identifier", Args{"from": "a"})
	require.True(t, ErrArgument.Is(err))

	require.Panics(t, func() {
		Register(Codemod{Name: "remove-calls"})
	})
}

func TestMatchCallee(t *testing.T) {
	list := []string{"console.*", "debug"}
	require.True(t, matchCallee(list, "console.log"))
	require.True(t, matchCallee(list, "debug"))
	require.False(t, matchCallee(list, "debugger"))
	require.False(t, matchCallee(list, "console"))
	require.False(t, matchCallee(list, ""))
}

func TestWithFlow(t *testing.T) {
	require.Equal(t, "* @format @flow ", withFlow("* @format "))
	require.Equal(t, "*\n * @format\n * @flow\n ", withFlow("*\n * @format\n "))
}
