package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"

	"github.com/sermonmate/sermonmate/internal/client/events"
	"github.com/sermonmate/sermonmate/internal/common"
	"github.com/sermonmate/sermonmate/internal/logging"
	"github.com/sermonmate/sermonmate/internal/netx"
)

const maxBodyBytes = 8 << 20

// TokenStore is where the client reads the bearer token from and what it
// purges on 401.
type TokenStore interface {
	Get(ctx context.Context) (string, error)
	Delete(ctx context.Context) error
}

// SessionPublisher announces that the session ended, e.g. after a 401.
type SessionPublisher interface {
	Publish(ctx context.Context, reason events.Reason)
}

// Client talks JSON to the SermonMate REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenStore
	sessions   SessionPublisher
	log        logging.Logger
}

// NewClient builds a Client whose requests time out after timeout. A nil log
// discards request logging.
func NewClient(baseURL string, timeout time.Duration, tokens TokenStore, sessions SessionPublisher, log logging.Logger) *Client {
	if log == nil {
		log = logging.Nop()
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		tokens:     tokens,
		sessions:   sessions,
		log:        log,
	}
}

// BaseURL is the versioned API root every path is appended to.
func (c *Client) BaseURL() string { return c.baseURL }

// Response is a decoded 2xx reply.
type Response struct {
	Status int
	Body   []byte
}

// Get returns the value at a gjson path of the body.
func (r *Response) Get(path string) gjson.Result {
	return gjson.GetBytes(r.Body, path)
}

// Decode unmarshals the value at path into out. A missing path is an
// ErrUnexpected.
func (r *Response) Decode(path string, out any) error {
	res := r.Get(path)
	if !res.Exists() {
		return &Error{Kind: ErrUnexpected, Status: r.Status, Err: fmt.Errorf("missing %q in response", path)}
	}
	if err := json.Unmarshal([]byte(res.Raw), out); err != nil {
		return &Error{Kind: ErrUnexpected, Status: r.Status, Err: fmt.Errorf("failed to decode %q: %w", path, err)}
	}
	return nil
}

func (c *Client) Get(ctx context.Context, path string) (*Response, error) {
	return c.Do(ctx, http.MethodGet, path, nil)
}

func (c *Client) Post(ctx context.Context, path string, body any) (*Response, error) {
	return c.Do(ctx, http.MethodPost, path, body)
}

func (c *Client) Put(ctx context.Context, path string, body any) (*Response, error) {
	return c.Do(ctx, http.MethodPut, path, body)
}

func (c *Client) Delete(ctx context.Context, path string) (*Response, error) {
	return c.Do(ctx, http.MethodDelete, path, nil)
}

// Do sends one request. A 2xx reply whose envelope says "success": false is
// returned as ErrUnexpected carrying the server's message.
func (c *Client) Do(ctx context.Context, method, path string, body any) (*Response, error) {
	var payload []byte
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		payload = b
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(common.RequestIDHeaderName, uuid.NewString())

	c.attachToken(ctx, req)
	c.logRequest(ctx, req, payload)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		mapped := mapTransport(err)
		c.log.Error(ctx, "api request failed", "method", method, "path", path, "error", err)
		return nil, mapped
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, mapTransport(err)
	}

	message := gjson.GetBytes(raw, "message").String()
	c.log.Debug(ctx, "api response", "method", method, "path", path, "status", resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if resp.StatusCode == http.StatusUnauthorized {
			c.endSession(ctx)
		}
		c.log.Warn(ctx, "api error response", "method", method, "path", path, "status", resp.StatusCode, "message", message)
		return nil, mapStatus(resp.StatusCode, message)
	}

	if len(bytes.TrimSpace(raw)) > 0 && !gjson.ValidBytes(raw) {
		return nil, &Error{Kind: ErrUnexpected, Status: resp.StatusCode, Err: errors.New("response is not JSON")}
	}
	if ok := gjson.GetBytes(raw, "success"); ok.Exists() && !ok.Bool() {
		return nil, &Error{Kind: ErrUnexpected, Status: resp.StatusCode, Message: message}
	}

	return &Response{Status: resp.StatusCode, Body: raw}, nil
}

func (c *Client) attachToken(ctx context.Context, req *http.Request) {
	if c.tokens == nil {
		return
	}
	token, err := c.tokens.Get(ctx)
	if err != nil {
		c.log.Warn(ctx, "failed to read session token", "error", err)
		return
	}
	if token != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)
	}
}

// endSession purges the stored token and tells subscribers the session is
// over.
func (c *Client) endSession(ctx context.Context) {
	if c.tokens != nil {
		if err := c.tokens.Delete(ctx); err != nil {
			c.log.Error(ctx, "failed to delete session token", "error", err)
		}
	}
	if c.sessions != nil {
		c.sessions.Publish(ctx, events.ReasonUnauthorized)
	}
	c.log.Warn(ctx, "authentication failed, token cleared")
}

func (c *Client) logRequest(ctx context.Context, req *http.Request, payload []byte) {
	args := []any{
		"method", req.Method,
		"url", req.URL.String(),
		"request_id", req.Header.Get(common.RequestIDHeaderName),
		"authorized", req.Header.Get(common.AuthorizationHeaderName) != "",
	}
	if len(payload) > 0 {
		args = append(args, "payload", redact(payload))
	}
	c.log.Debug(ctx, "api request", args...)
}

var redactedFields = []string{"password", "password_confirmation"}

// redact hides credential fields of a JSON object payload.
func redact(payload []byte) string {
	var m map[string]any
	if err := json.Unmarshal(payload, &m); err != nil {
		return string(payload)
	}
	for _, f := range redactedFields {
		if _, ok := m[f]; ok {
			m[f] = "***HIDDEN***"
		}
	}
	b, err := json.Marshal(m)
	if err != nil {
		return ""
	}
	return string(b)
}

func mapTransport(err error) error {
	if netx.IsUnreachable(err) {
		return &Error{Kind: ErrUnavailable, Err: err}
	}
	return &Error{Kind: ErrUnexpected, Err: err}
}
