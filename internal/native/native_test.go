package native

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/bblfsh/codemod/internal/native/nativetest"
)

type echoRequest struct {
	Action  string `json:"action"`
	Content string `json:"content"`
}

type echoResponse struct {
	Header
	Content string `json:"content"`
}

func TestHelperProcess(t *testing.T) {
	nativetest.Serve(t, func(req map[string]interface{}) interface{} {
		content, _ := req["content"].(string)
		switch req["action"] {
		case "die":
			return nil
		case "sleep":
			time.Sleep(300 * time.Millisecond)
		case "fail":
			return map[string]interface{}{"status": "ERROR", "errors": []string{"bad input"}}
		case "garbage":
			return json.RawMessage("not json")
		}
		return map[string]interface{}{"status": "ok", "content": content}
	})
}

func start(t *testing.T) *Process {
	p, err := NewProcess(nativetest.Command(t, "TestHelperProcess"))
	require.NoError(t, err)
	require.NoError(t, p.Start())
	t.Cleanup(func() {
		require.NoError(t, p.Close())
	})
	return p
}

func call(p *Process, ctx context.Context, action, content string) (*echoResponse, error) {
	var resp echoResponse
	if err := p.Call(ctx, echoRequest{Action: action, Content: content}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func TestEncoding(t *testing.T) {
	cases := []struct {
		enc Encoding
		exp string
	}{
		{enc: UTF8, exp: "test message"},
		{enc: Base64, exp: "dGVzdCBtZXNzYWdl"},
	}
	for _, c := range cases {
		c := c
		t.Run(string(c.enc), func(t *testing.T) {
			out, err := c.enc.Encode("test message")
			require.NoError(t, err)
			require.Equal(t, c.exp, out)

			got, err := c.enc.Decode(out)
			require.NoError(t, err)
			require.Equal(t, "test message", got)
		})
	}
	_, err := Encoding("utf16").Encode("x")
	require.Error(t, err)

	var e Encoding
	require.NoError(t, json.Unmarshal([]byte(`"UTF8"`), &e))
	require.Equal(t, UTF8, e)
}

func TestHeader(t *testing.T) {
	require.NoError(t, Header{Status: StatusOK}.Err())

	err := Header{Status: StatusError, Errors: []string{"a", "b"}}.Err()
	require.EqualError(t, err, "a; b")
	require.False(t, ErrFailure.Is(err))

	err = Header{Status: StatusFatal}.Err()
	require.True(t, ErrFailure.Is(err))
}

func TestNewProcess(t *testing.T) {
	p, err := NewProcess(`node "my dir/parse.js" --flow`)
	require.NoError(t, err)
	require.Equal(t, []string{"node", "my dir/parse.js", "--flow"}, p.args)

	_, err = NewProcess("")
	require.True(t, ErrCommand.Is(err))
	_, err = NewProcess(`node "unterminated`)
	require.True(t, ErrCommand.Is(err))
}

func TestProcessCall(t *testing.T) {
	p := start(t)
	resp, err := call(p, context.Background(), "echo", "foo")
	require.NoError(t, err)
	require.Equal(t, StatusOK, resp.Status)
	require.Equal(t, "foo", resp.Content)

	resp, err = call(p, context.Background(), "fail", "")
	require.NoError(t, err)
	require.Equal(t, StatusError, resp.Status)
	require.EqualError(t, resp.Err(), "bad input")
}

func TestProcessNotRunning(t *testing.T) {
	p, err := NewProcess("true")
	require.NoError(t, err)
	_, err = call(p, context.Background(), "echo", "foo")
	require.True(t, ErrFailure.Is(err))
	require.NoError(t, p.Close())
}

func TestProcessLock(t *testing.T) {
	p := start(t)

	const count = 100
	var wg sync.WaitGroup
	errs := make(chan error, count)
	for i := 0; i < count; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("foo_%d", i)
			resp, err := call(p, context.Background(), "echo", key)
			if err == nil && resp.Content != key {
				err = fmt.Errorf("unexpected response: %q != %q", resp.Content, key)
			}
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}
}

func TestProcessCrash(t *testing.T) {
	p := start(t)

	_, err := call(p, context.Background(), "die", "")
	require.True(t, ErrFailure.Is(err))

	// restarted automatically
	resp, err := call(p, context.Background(), "echo", "foo")
	require.NoError(t, err)
	require.Equal(t, "foo", resp.Content)
}

func TestProcessGarbage(t *testing.T) {
	p := start(t)

	_, err := call(p, context.Background(), "garbage", "")
	require.True(t, ErrFailure.Is(err))

	// the stream was out of sync, so the process is restarted
	resp, err := call(p, context.Background(), "echo", "foo")
	require.NoError(t, err)
	require.Equal(t, "foo", resp.Content)
}

func TestProcessTimeout(t *testing.T) {
	p := start(t)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := call(p, ctx, "sleep", "slow")
	require.Error(t, err)

	// the late response is discarded
	resp, err := call(p, context.Background(), "echo", "fast")
	require.NoError(t, err)
	require.Equal(t, "fast", resp.Content)
}
