package jsonlines

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type msg struct {
	Action  string `json:"action"`
	Content string `json:"content"`
}

func TestEncodeDecode(t *testing.T) {
	var buf bytes.Buffer
	enc := NewEncoder(&buf)
	require.NoError(t, enc.Encode(msg{Action: "parse", Content: "a <b>\nc"}))
	require.NoError(t, enc.Encode(msg{Action: "print"}))
	require.Equal(t, 2, strings.Count(buf.String(), "\n"))
	require.Contains(t, buf.String(), "<b>")

	dec := NewDecoder(&buf)
	var m msg
	require.NoError(t, dec.Decode(&m))
	require.Equal(t, msg{Action: "parse", Content: "a <b>\nc"}, m)
	require.NoError(t, dec.Decode(&m))
	require.Equal(t, "print", m.Action)
	require.Equal(t, io.EOF, dec.Decode(&m))
}

func TestDecodeRaw(t *testing.T) {
	dec := NewDecoder(strings.NewReader("{\"a\": 1}\nnot json\n"))
	var raw json.RawMessage
	require.NoError(t, dec.Decode(&raw))
	require.Equal(t, `{"a": 1}`, string(raw))
	var m map[string]interface{}
	require.Error(t, dec.Decode(&m))
}

func TestDecodeLongLine(t *testing.T) {
	long := strings.Repeat("x", DefaultBufferSize+10)
	dec := NewDecoder(strings.NewReader(`{"content":"` + long + "\"}\n"))
	var m msg
	require.NoError(t, dec.Decode(&m))
	require.Len(t, m.Content, len(long))
}
