package native

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bblfsh/codemod/estree"
	"github.com/bblfsh/codemod/internal/native"
	"github.com/bblfsh/codemod/internal/native/nativetest"
	"github.com/bblfsh/codemod/parser"
)

const (
	code = "'😀'; // c\nfoo;"
	// offsets are in UTF-16 code units
	tree = `{"type":"Program","range":[0,15],"sourceType":"module","body":[` +
		`{"type":"ExpressionStatement","range":[0,5],"expression":{"type":"Literal","value":"😀","raw":"'😀'","range":[0,4]}},` +
		`{"type":"ExpressionStatement","range":[11,15],"expression":{"type":"Identifier","name":"foo","range":[11,14]}}],` +
		`"comments":[{"type":"Line","value":" c","range":[6,10]}]}`
)

func TestHelperProcess(t *testing.T) {
	nativetest.Serve(t, func(req map[string]interface{}) interface{} {
		content, _ := req["content"].(string)
		enc, _ := req["encoding"].(string)
		src, err := native.Encoding(enc).Decode(content)
		if err != nil {
			return map[string]interface{}{"status": "fatal", "errors": []string{err.Error()}}
		}
		if src != code {
			return map[string]interface{}{"status": "error", "errors": []string{"unexpected token (1:0)"}}
		}
		return map[string]interface{}{"status": "ok", "ast": json.RawMessage(tree)}
	})
}

func start(t *testing.T, enc native.Encoding) *Parser {
	p, err := New(nativetest.Command(t, "TestHelperProcess"), enc)
	require.NoError(t, err)
	require.NoError(t, p.Start())
	t.Cleanup(func() {
		require.NoError(t, p.Close())
	})
	return p
}

func TestParse(t *testing.T) {
	for _, enc := range []native.Encoding{native.UTF8, native.Base64} {
		enc := enc
		t.Run(string(enc), func(t *testing.T) {
			p := start(t, enc)
			res, err := p.Parse(context.Background(), code, parser.Options{Flow: "all"})
			require.NoError(t, err)
			require.Equal(t, code, res.Code)

			body := res.AST.Children("body")
			require.Len(t, body, 2)
			lit := body[0].Child("expression")
			require.Equal(t, estree.Range{0, 6}, lit.Range)
			require.Equal(t, estree.Range{0, 7}, body[0].Range)
			require.Equal(t, "'😀'", code[lit.Range.Start():lit.Range.End()])

			id := body[1].Child("expression")
			require.Equal(t, estree.Range{13, 16}, id.Range)
			require.Equal(t, estree.Position{Line: 2, Column: 0}, id.Loc.Start)
			require.True(t, id.Parent == body[1])
			require.Equal(t, estree.Range{0, 17}, res.AST.Range)

			require.Len(t, res.Comments, 1)
			c := res.Comments[0]
			require.Equal(t, estree.Range{8, 12}, c.Range)
			require.Equal(t, "// c", code[c.Range.Start():c.Range.End()])
			require.Equal(t, estree.Position{Line: 1, Column: 8}, c.Loc.Start)
			require.Nil(t, res.Docblock)
		})
	}
}

func TestParseSyntaxError(t *testing.T) {
	p := start(t, "")
	_, err := p.Parse(context.Background(), "foo(", parser.Options{})
	require.True(t, parser.ErrSyntax.Is(err))
}

func TestRemapOffsets(t *testing.T) {
	f, err := estree.FromJSON([]byte(tree))
	require.NoError(t, err)
	// byte offsets are kept as is
	require.NoError(t, remap(code, Bytes, f))
	require.Equal(t, estree.Range{0, 15}, f.Program.Range)

	f, err = estree.FromJSON([]byte(`{"type":"Program","range":[0,4],"body":[]}`))
	require.NoError(t, err)
	require.NoError(t, remap("'😀';", Runes, f))
	require.Equal(t, estree.Range{0, 7}, f.Program.Range)

	f, err = estree.FromJSON([]byte(`{"type":"Program","range":[0,50],"body":[]}`))
	require.NoError(t, err)
	require.Error(t, remap(code, UTF16, f))
}

func TestNewInvalidCommand(t *testing.T) {
	_, err := New(`node "x`, native.UTF8)
	require.True(t, native.ErrCommand.Is(err))
}
