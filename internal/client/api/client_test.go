package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sermonmate/sermonmate/internal/client/events"
	"github.com/sermonmate/sermonmate/internal/logging"
)

type fakeTokens struct {
	mu      sync.Mutex
	token   string
	getErr  error
	deletes int
}

func (f *fakeTokens) Get(context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.token, f.getErr
}

func (f *fakeTokens) Delete(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.token = ""
	f.deletes++
	return nil
}

type fakePublisher struct {
	reasons []events.Reason
}

func (f *fakePublisher) Publish(_ context.Context, r events.Reason) {
	f.reasons = append(f.reasons, r)
}

func newTestClient(t *testing.T, h http.HandlerFunc, tokens TokenStore, pub SessionPublisher) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/api/v1/", 5*time.Second, tokens, pub, logging.Nop())
}

func TestDo_AttachesBearerAndJSONHeaders(t *testing.T) {
	var got *http.Request
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Clone(context.Background())
		_, _ = io.WriteString(w, `{"success":true,"user":{"id":1,"name":"Ann"}}`)
	}, &fakeTokens{token: "tok-123"}, nil)

	resp, err := c.Get(context.Background(), "/user")
	require.NoError(t, err)

	require.NotNil(t, got)
	assert.Equal(t, "/api/v1/user", got.URL.Path)
	assert.Equal(t, "Bearer tok-123", got.Header.Get("Authorization"))
	assert.Equal(t, "application/json", got.Header.Get("Accept"))
	assert.Equal(t, "application/json", got.Header.Get("Content-Type"))
	assert.NotEmpty(t, got.Header.Get("X-Request-ID"))

	assert.Equal(t, "Ann", resp.Get("user.name").String())
}

func TestDo_NoTokenNoHeader(t *testing.T) {
	var auth string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		_, _ = io.WriteString(w, `{"success":true}`)
	}, &fakeTokens{}, nil)

	_, err := c.Get(context.Background(), "/credit-packages")
	require.NoError(t, err)
	assert.Empty(t, auth)
}

func TestDo_TokenReadErrorStillSends(t *testing.T) {
	called := false
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
		assert.Empty(t, r.Header.Get("Authorization"))
		_, _ = io.WriteString(w, `{"success":true}`)
	}, &fakeTokens{getErr: errors.New("locked")}, nil)

	_, err := c.Get(context.Background(), "/user")
	require.NoError(t, err)
	assert.True(t, called)
}

func TestDo_SendsJSONBody(t *testing.T) {
	var body map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		_, _ = io.WriteString(w, `{"success":true}`)
	}, nil, nil)

	_, err := c.Post(context.Background(), "/payments/initialize", map[string]any{"package_id": 3})
	require.NoError(t, err)
	assert.EqualValues(t, 3, body["package_id"])
}

func TestDo_401PurgesTokenAndPublishes(t *testing.T) {
	tokens := &fakeTokens{token: "stale"}
	pub := &fakePublisher{}
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"message":"Unauthenticated."}`)
	}, tokens, pub)

	_, err := c.Get(context.Background(), "/sermons")
	require.ErrorIs(t, err, ErrUnauthorized)

	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "Unauthenticated.", apiErr.Message)

	assert.Empty(t, tokens.token)
	assert.Equal(t, 1, tokens.deletes)
	assert.Equal(t, []events.Reason{events.ReasonUnauthorized}, pub.reasons)
}

func TestDo_StatusMapping(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		want    error
		message string
	}{
		{name: "validation", status: http.StatusUnprocessableEntity, body: `{"message":"The email has already been taken."}`, want: ErrRejected, message: "The email has already been taken."},
		{name: "forbidden", status: http.StatusForbidden, body: `{}`, want: ErrRejected},
		{name: "server", status: http.StatusInternalServerError, body: `oops`, want: ErrServer},
		{name: "redirect", status: http.StatusNotModified, body: ``, want: ErrUnexpected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := &fakeTokens{token: "tok"}
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}, tokens, nil)

			_, err := c.Get(context.Background(), "/sermons")
			require.ErrorIs(t, err, tt.want)
			var apiErr *Error
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.message, apiErr.Message)
			assert.Equal(t, "tok", tokens.token)
		})
	}
}

func TestDo_SuccessFalseEnvelope(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"success":false,"message":"Invalid credentials"}`)
	}, nil, nil)

	_, err := c.Post(context.Background(), "/login", map[string]string{"email": "a@b.c"})
	require.ErrorIs(t, err, ErrUnexpected)
	assert.Equal(t, "Invalid credentials", Message(err))
}

func TestDo_NonJSONSuccessBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `<html>gateway</html>`)
	}, nil, nil)

	_, err := c.Get(context.Background(), "/user")
	require.ErrorIs(t, err, ErrUnexpected)
}

func TestDo_EmptySuccessBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}, nil, nil)

	resp, err := c.Delete(context.Background(), "/sermons/4")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.Status)
}

func TestDo_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	tokens := &fakeTokens{token: "keep"}
	c := NewClient(url, time.Second, tokens, nil, nil)

	_, err := c.Get(context.Background(), "/user")
	require.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, NetworkErrorMessage, Message(err))
	assert.Equal(t, "keep", tokens.token)
}

func TestDo_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(release) })

	c := NewClient(srv.URL, 50*time.Millisecond, nil, nil, nil)
	_, err := c.Get(context.Background(), "/user")
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestResponse_Decode(t *testing.T) {
	r := &Response{Status: 200, Body: []byte(`{"success":true,"packages":[{"id":1,"name":"Starter"}]}`)}

	var pkgs []struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	}
	require.NoError(t, r.Decode("packages", &pkgs))
	require.Len(t, pkgs, 1)
	assert.Equal(t, "Starter", pkgs[0].Name)

	require.ErrorIs(t, r.Decode("user", &pkgs), ErrUnexpected)

	var n int
	require.ErrorIs(t, r.Decode("packages", &n), ErrUnexpected)
}

func TestLogRequest_RedactsPasswords(t *testing.T) {
	var buf bytes.Buffer
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"success":true}`)
	}))
	t.Cleanup(srv.Close)

	c := NewClient(srv.URL, time.Second, nil, nil, logging.NewTextLogger(&buf, true))
	_, err := c.Post(context.Background(), "/register", map[string]string{
		"email":                 "a@b.c",
		"password":              "hunter2",
		"password_confirmation": "hunter2",
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "api request")
	assert.Contains(t, out, "a@b.c")
	assert.Contains(t, out, "***HIDDEN***")
	assert.NotContains(t, out, "hunter2")
}

func TestRedact_NonObjectPassesThrough(t *testing.T) {
	assert.Equal(t, `[1,2]`, redact([]byte(`[1,2]`)))
}
