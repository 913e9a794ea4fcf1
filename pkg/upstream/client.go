package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	pkgerrors "github.com/angelmondragon/storefront-bff/pkg/errors"
	"github.com/angelmondragon/storefront-bff/pkg/logger"
)

const (
	apiPrefix             = "api/v1"
	responseBodyReadLimit = 4 << 20
	rawMessageLimit       = 512
	defaultTimeout        = 15 * time.Second
)

var errBaseURLRequired = errors.New("upstream base url is required")

// Recorder receives one observation per upstream call.
type Recorder interface {
	ObserveUpstream(operation string, status int, duration time.Duration)
}

// Client is a typed wrapper over the remote commerce REST API. Every call is a
// single HTTP request; failures are returned immediately and never retried.
type Client struct {
	httpClient *http.Client
	baseURL    string
	recorder   Recorder
	logg       *logger.Logger
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTimeout bounds each request when the default HTTP client is used.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 && c.httpClient != nil {
			c.httpClient.Timeout = timeout
		}
	}
}

// WithRecorder attaches a metrics recorder.
func WithRecorder(r Recorder) Option {
	return func(c *Client) {
		c.recorder = r
	}
}

// WithLogger enables debug logging of each call.
func WithLogger(logg *logger.Logger) Option {
	return func(c *Client) {
		c.logg = logg
	}
}

// NewClient builds a client rooted at baseURL (the host serving /api/v1).
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		return nil, errBaseURLRequired
	}
	if _, err := url.Parse(trimmed); err != nil {
		return nil, fmt.Errorf("parsing upstream base url: %w", err)
	}

	client := &Client{
		baseURL:    trimmed,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return client, nil
}

// Error describes a non-2xx response from the remote API. Message holds the
// best human-readable text that could be pulled out of the body.
type Error struct {
	Operation string
	Method    string
	Path      string
	Status    int
	Message   string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.Status, e.Message)
}

func (e *Error) StatusCode() int { return e.Status }

func (e *Error) Endpoint() string { return e.Method + " " + e.Path }

// AsError returns the upstream response error in err's chain, if any.
func AsError(err error) (*Error, bool) {
	var upErr *Error
	if errors.As(err, &upErr) {
		return upErr, true
	}
	return nil, false
}

type request struct {
	op     string
	method string
	path   string
	query  url.Values
	token  string
	body   any
}

// do executes req and decodes a 2xx body into out (when out is non-nil).
// An empty 2xx body leaves out untouched.
func (c *Client) do(ctx context.Context, req request, out any) error {
	if c == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "upstream client not configured")
	}

	var body io.Reader
	if req.body != nil {
		payload, err := json.Marshal(req.body)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "marshal "+req.op+" request")
		}
		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, c.buildURL(req.path, req.query), body)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build "+req.op+" request")
	}
	httpReq.Header.Set("Accept", "application/json")
	if req.body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if req.token != "" {
		httpReq.Header.Set("token", req.token)
		httpReq.Header.Set("Authorization", "Bearer "+req.token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.observe(ctx, req, 0, start)
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute "+req.op+" request")
	}
	defer func() { _ = resp.Body.Close() }()
	c.observe(ctx, req, resp.StatusCode, start)

	raw, err := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read "+req.op+" response")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		upErr := &Error{
			Operation: req.op,
			Method:    req.method,
			Path:      req.path,
			Status:    resp.StatusCode,
			Message:   ExtractMessage(raw, resp.StatusCode),
		}
		return pkgerrors.Wrap(pkgerrors.CodeForStatus(resp.StatusCode), upErr, upErr.Message)
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode "+req.op+" response")
	}
	return nil
}

func (c *Client) observe(ctx context.Context, req request, status int, start time.Time) {
	elapsed := time.Since(start)
	if c.recorder != nil {
		c.recorder.ObserveUpstream(req.op, status, elapsed)
	}
	if c.logg != nil {
		c.logg.Debug(c.logg.WithFields(ctx, map[string]any{
			"upstream_op":     req.op,
			"upstream_method": req.method,
			"upstream_path":   req.path,
			"upstream_status": status,
			"duration_ms":     elapsed.Milliseconds(),
		}), "upstream call")
	}
}

func (c *Client) buildURL(path string, query url.Values) string {
	u := fmt.Sprintf("%s/%s/%s", c.baseURL, apiPrefix, strings.TrimLeft(path, "/"))
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// ExtractMessage pulls a human-readable message out of an error body. It tries
// message, statusMsg and error in turn, then the msg of the first entry under
// errors (object keyed by field, or array). Non-JSON bodies are returned as
// trimmed text.
func ExtractMessage(body []byte, status int) string {
	fallback := fmt.Sprintf("HTTP error! status: %d", status)
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return fallback
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		if json.Valid(trimmed) {
			return fallback
		}
		text := string(trimmed)
		if len(text) > rawMessageLimit {
			text = text[:rawMessageLimit]
		}
		return text
	}

	for _, key := range []string{"message", "statusMsg", "error"} {
		if msg := stringField(fields[key]); msg != "" {
			return msg
		}
	}
	if msg := firstErrorMsg(fields["errors"]); msg != "" {
		return msg
	}
	return fallback
}

func stringField(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return strings.TrimSpace(s)
}

type msgEntry struct {
	Msg string `json:"msg"`
}

// firstErrorMsg walks the errors value in document order so "first" is stable.
func firstErrorMsg(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return ""
	}
	switch trimmed[0] {
	case '[':
		var entries []json.RawMessage
		if err := json.Unmarshal(trimmed, &entries); err != nil {
			return ""
		}
		for _, entry := range entries {
			var e msgEntry
			if json.Unmarshal(entry, &e) == nil && strings.TrimSpace(e.Msg) != "" {
				return strings.TrimSpace(e.Msg)
			}
		}
	case '{':
		dec := json.NewDecoder(bytes.NewReader(trimmed))
		if _, err := dec.Token(); err != nil {
			return ""
		}
		for dec.More() {
			if _, err := dec.Token(); err != nil {
				return ""
			}
			var e msgEntry
			var value json.RawMessage
			if err := dec.Decode(&value); err != nil {
				return ""
			}
			if json.Unmarshal(value, &e) == nil && strings.TrimSpace(e.Msg) != "" {
				return strings.TrimSpace(e.Msg)
			}
		}
	}
	return ""
}
