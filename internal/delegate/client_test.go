package delegate

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sseHandler writes the given lines as a flushed SSE response.
func sseHandler(t *testing.T, lines ...string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		flusher, ok := w.(http.Flusher)
		require.True(t, ok)
		for _, line := range lines {
			fmt.Fprintf(w, "%s\n\n", line)
			flusher.Flush()
		}
	}
}

func TestClientDelegateSuccess(t *testing.T) {
	var gotReq Request
	var gotContentType, gotAccept, gotAuth string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		gotContentType = r.Header.Get("Content-Type")
		gotAccept = r.Header.Get("Accept")
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		sseHandler(t,
			`data: {"type":"progress","progress":50,"message":"halfway"}`,
			`data: {"type":"complete","data":{"projects":[{"name":"Main St"}]}}`,
		)(w, r)
	}))
	defer srv.Close()

	c := New(srv.URL, WithCredential("secret-token"))
	sink := &recordingSink{}

	payload, err := c.Delegate(context.Background(), "find the Main St project", sink)
	require.NoError(t, err)
	assert.JSONEq(t, `{"projects":[{"name":"Main St"}]}`, string(payload))

	// The request always declares itself synchronous-with-streaming.
	assert.Equal(t, "find the Main St project", gotReq.Prompt)
	assert.True(t, gotReq.SearchWorkflow)
	assert.False(t, gotReq.Async)
	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, "text/event-stream", gotAccept)
	assert.Equal(t, "Bearer secret-token", gotAuth)

	reports := sink.all()
	require.Len(t, reports, 2)
	assert.Equal(t, 50, reports[0].Percent)
	assert.Equal(t, 100, reports[0].Total)
}

func TestClientDelegateNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "agent pool exhausted", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.Delegate(context.Background(), "anything", nil)
	require.Error(t, err)

	var de *Error
	require.ErrorAs(t, err, &de)
	assert.Equal(t, KindTransport, de.Kind)
	assert.Equal(t, http.StatusServiceUnavailable, de.Status)
	assert.Contains(t, de.Error(), "agent pool exhausted")
}

func TestClientDelegateConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close() // nothing listening anymore

	c := New(srv.URL)
	_, err := c.Delegate(context.Background(), "anything", nil)
	require.Error(t, err)
	assert.Equal(t, KindTransport, KindOf(err))
}

func TestClientDelegateRemoteError(t *testing.T) {
	srv := httptest.NewServer(sseHandler(t,
		`data: {"type":"progress","progress":5,"message":"starting"}`,
		`data: {"type":"error","message":"unknown workflow"}`,
	))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.Delegate(context.Background(), "bogus", nil)
	require.Error(t, err)
	assert.Equal(t, KindRemote, KindOf(err))
	assert.Contains(t, err.Error(), "unknown workflow")
}

func TestClientDelegateIncompleteStream(t *testing.T) {
	srv := httptest.NewServer(sseHandler(t,
		`data: {"type":"progress","progress":30,"message":"working"}`,
	))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.Delegate(context.Background(), "cut off", nil)
	require.Error(t, err)

	var de *Error
	require.ErrorAs(t, err, &de)
	assert.Equal(t, KindIncomplete, de.Kind)
	assert.Equal(t, 1, de.ProgressEvents)
}

func TestNewDefaults(t *testing.T) {
	c := New("")
	assert.Equal(t, DefaultEndpoint, c.endpoint)
	assert.Equal(t, DefaultTimeout, c.timeout)
	// A streaming client must not carry its own request timeout.
	assert.Equal(t, time.Duration(0), c.httpc.Timeout)
}
