package executor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ghttp "github.com/abdul-hamid-achik/getman/packages/http"
)

type stubTransport struct {
	calls atomic.Int32
	fn    func(*http.Request) (*http.Response, error)
}

func (s *stubTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	s.calls.Add(1)
	return s.fn(r)
}

func newStubExecutor(fn func(*http.Request) (*http.Response, error)) (*Executor, *stubTransport) {
	st := &stubTransport{fn: fn}
	return New(ghttp.NewClient(ghttp.WithTransport(st))), st
}

func textResponse(r *http.Request, status int, body string, headers map[string]string) *http.Response {
	h := make(http.Header)
	for k, v := range headers {
		h.Set(k, v)
	}
	return &http.Response{
		StatusCode: status,
		Status:     fmt.Sprintf("%d %s", status, http.StatusText(status)),
		Header:     h,
		Body:       io.NopCloser(strings.NewReader(body)),
		Request:    r,
	}
}

func TestExecute_InvalidMethod(t *testing.T) {
	exec, st := newStubExecutor(func(r *http.Request) (*http.Response, error) {
		return nil, errors.New("should not be called")
	})

	for _, method := range []string{"TRACE", "get", "", "CONNECT"} {
		form := Form{Method: method, URL: "http://example.com", Body: "x"}
		assert.Equal(t, "Invalid HTTP method", exec.Execute(context.Background(), form.Spec()))
	}
	assert.Equal(t, int32(0), st.calls.Load())
}

func TestExecute_TransportFailure(t *testing.T) {
	exec, st := newStubExecutor(func(r *http.Request) (*http.Response, error) {
		return nil, errors.New("connection refused")
	})

	got := exec.Execute(context.Background(), Form{Method: "GET", URL: "http://example.com"}.Spec())

	assert.Equal(t, "Error: connection refused", got)
	assert.Equal(t, int32(1), st.calls.Load())
}

func TestExecute_JSONBodyPretty(t *testing.T) {
	exec, _ := newStubExecutor(func(r *http.Request) (*http.Response, error) {
		return textResponse(r, 200, `{"a":1}`, map[string]string{"Content-Type": "application/json"}), nil
	})

	got := exec.Execute(context.Background(), Form{Method: "GET", URL: "http://example.com"}.Spec())

	assert.Equal(t, "Status: 200 OK\n\nHeaders:\nContent-Type: application/json\n\nBody:\n{\n  \"a\": 1\n}", got)
}

func TestExecute_RawBody(t *testing.T) {
	exec, _ := newStubExecutor(func(r *http.Request) (*http.Response, error) {
		return textResponse(r, 200, "hello", nil), nil
	})

	got := exec.Execute(context.Background(), Form{Method: "GET", URL: "http://example.com"}.Spec())

	assert.True(t, strings.HasSuffix(got, "\nBody:\nhello"), got)
}

func TestExecute_MalformedJSONFallsBackToRaw(t *testing.T) {
	exec, _ := newStubExecutor(func(r *http.Request) (*http.Response, error) {
		return textResponse(r, 500, `{"a":`, nil), nil
	})

	got := exec.Execute(context.Background(), Form{Method: "POST", URL: "http://example.com"}.Spec())

	assert.True(t, strings.HasSuffix(got, "\nBody:\n{\"a\":"), got)
}

func TestExecute_HeadersAndBodyOnWire(t *testing.T) {
	var gotMethod, gotBody, gotAuth, gotBad string
	exec, _ := newStubExecutor(func(r *http.Request) (*http.Response, error) {
		gotMethod = r.Method
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		gotAuth = r.Header.Get("Authorization")
		gotBad = r.Header.Get("no colon here")
		return textResponse(r, 200, "", nil), nil
	})

	form := Form{
		Method:  "GET",
		URL:     "http://example.com",
		Headers: "Authorization: Bearer abc\nno colon here",
		Body:    "payload",
	}
	exec.Execute(context.Background(), form.Spec())

	assert.Equal(t, "GET", gotMethod)
	assert.Equal(t, "payload", gotBody)
	assert.Equal(t, "Bearer abc", gotAuth)
	assert.Empty(t, gotBad)
}

func TestExecute_EmptyBodyNotAttached(t *testing.T) {
	exec, _ := newStubExecutor(func(r *http.Request) (*http.Response, error) {
		assert.Equal(t, int64(0), r.ContentLength)
		return textResponse(r, 204, "", nil), nil
	})

	exec.Execute(context.Background(), Form{Method: "POST", URL: "http://example.com"}.Spec())
}

func TestExecute_AllMethodsAgainstServer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Method", r.Method)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}))
	defer server.Close()

	exec := New(nil)
	for _, m := range ghttp.Methods {
		got := exec.Execute(context.Background(), Form{Method: m, URL: server.URL}.Spec())
		assert.Contains(t, got, "Status: 200 OK\n\nHeaders:\n")
		assert.Contains(t, got, "X-Method: "+m+"\n")
		assert.True(t, strings.HasSuffix(got, "\nBody:\nok"), got)
	}
}

func TestExecute_ConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	addr := server.URL
	server.Close()

	got := New(nil).Execute(context.Background(), Form{Method: "GET", URL: addr}.Spec())

	assert.True(t, strings.HasPrefix(got, "Error: "), got)
	assert.NotContains(t, got, `Get "`)
}

func TestRun_ReturnsReport(t *testing.T) {
	exec, _ := newStubExecutor(func(r *http.Request) (*http.Response, error) {
		return textResponse(r, 201, `[1,2]`, map[string]string{"B": "2", "A": "1"}), nil
	})

	report, err := exec.Run(context.Background(), Form{Method: "PUT", URL: "http://example.com"}.Spec())

	require.NoError(t, err)
	assert.Equal(t, 201, report.StatusCode)
	assert.Equal(t, "201 Created", report.Status)
	assert.Equal(t, "[\n  1,\n  2\n]", report.Body)
	assert.True(t, report.IsJSON)
	assert.Equal(t, []ghttp.HeaderField{{Name: "A", Value: "1"}, {Name: "B", Value: "2"}}, report.Headers)
}

func TestRun_InvalidMethodError(t *testing.T) {
	_, err := New(nil).Run(context.Background(), ghttp.NewRequest("HEAD", "http://example.com"))
	assert.ErrorIs(t, err, ghttp.ErrInvalidMethod)
}

func TestExecute_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	spec := Form{Method: "GET", URL: server.URL}.Spec().SetTimeout(20 * time.Millisecond)
	got := New(nil).Execute(context.Background(), spec)

	assert.True(t, strings.HasPrefix(got, "Error: "), got)
	assert.Contains(t, got, "context deadline exceeded")
}

func TestRun_LogsUnparsedJSONLabel(t *testing.T) {
	var logs bytes.Buffer
	st := &stubTransport{fn: func(r *http.Request) (*http.Response, error) {
		return textResponse(r, 200, "not json", map[string]string{"Content-Type": "application/json"}), nil
	}}
	exec := New(ghttp.NewClient(ghttp.WithTransport(st)), WithLogger(zerolog.New(&logs).Level(zerolog.DebugLevel)))

	report, err := exec.Run(context.Background(), Form{Method: "GET", URL: "http://example.com"}.Spec())

	require.NoError(t, err)
	assert.False(t, report.IsJSON)
	assert.Equal(t, "not json", report.Body)
	assert.Contains(t, logs.String(), "body labelled JSON did not parse")
}
