// Package backend is the typed REST client for the external stock API. All
// business data lives behind it; the dashboard only renders and forwards.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"
)

// TokenSource returns the bearer token for the request carried by ctx.
type TokenSource func(ctx context.Context) string

type tokenKey struct{}

// WithToken forces the bearer token used for calls made with ctx. It wins
// over the client's TokenSource.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

// Client talks to the backend API.
type Client struct {
	baseURL    string
	basePath   string
	httpClient *http.Client
	token      TokenSource
	log        zerolog.Logger
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTokenSource sets where bearer tokens come from.
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.token = ts }
}

// WithLogger sets the logger used for call tracing.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.log = l }
}

// NewClient returns a client rooted at baseURL (for example
// http://localhost:4000/api).
func NewClient(baseURL string, timeout time.Duration, opts ...Option) *Client {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: zerolog.Nop(),
	}
	for _, o := range opts {
		o(c)
	}
	c.basePath = pathOf(c.baseURL)
	return c
}

// BaseURL returns the API root without a trailing slash.
func (c *Client) BaseURL() string { return c.baseURL }

// HTTPClient exposes the transport so the proxy shares timeouts.
func (c *Client) HTTPClient() *http.Client { return c.httpClient }

// Token returns the bearer token that calls made with ctx would send.
func (c *Client) Token(ctx context.Context) string {
	if t, ok := ctx.Value(tokenKey{}).(string); ok {
		return t
	}
	if c.token != nil {
		return c.token(ctx)
	}
	return ""
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body any) (*http.Request, error) {
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		rdr = bytes.NewReader(b)
	}
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, rdr)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if tok := c.Token(ctx); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}

// send performs the call and returns the raw body of a successful response.
func (c *Client) send(req *http.Request) (*http.Response, []byte, error) {
	start := time.Now()
	resource := resourceOf(strings.TrimPrefix(req.URL.Path, c.basePath))
	resp, err := c.httpClient.Do(req)
	if err != nil {
		observe(req.Method, resource, "error", start)
		return nil, nil, fmt.Errorf("backend request %s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	observe(req.Method, resource, strconv.Itoa(resp.StatusCode), start)
	c.log.Debug().
		Str("method", req.Method).
		Str("path", req.URL.Path).
		Int("status", resp.StatusCode).
		Dur("took", time.Since(start)).
		Msg("backend call")
	if err != nil {
		return nil, nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return nil, nil, newAPIError(req.Method, req.URL.Path, resp.StatusCode, raw)
	}
	return resp, raw, nil
}

func (c *Client) call(ctx context.Context, method, path string, query url.Values, body any) ([]byte, error) {
	req, err := c.newRequest(ctx, method, path, query, body)
	if err != nil {
		return nil, err
	}
	_, raw, err := c.send(req)
	return raw, err
}

// get decodes the unwrapped payload of a GET into result.
func (c *Client) get(ctx context.Context, path string, query url.Values, result any) error {
	raw, err := c.call(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return err
	}
	return decode(raw, result)
}

func (c *Client) doJSON(ctx context.Context, method, path string, body any, result any) error {
	raw, err := c.call(ctx, method, path, nil, body)
	if err != nil {
		return err
	}
	if result == nil {
		return nil
	}
	return decode(raw, result)
}

func (c *Client) doNoBody(ctx context.Context, method, path string) error {
	_, err := c.call(ctx, method, path, nil, nil)
	return err
}

// Binary is a downloaded document such as a PDF.
type Binary struct {
	ContentType string
	Filename    string
	Body        []byte
}

func (c *Client) getBinary(ctx context.Context, path string, query url.Values, fallbackName string) (*Binary, error) {
	req, err := c.newRequest(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/pdf, application/octet-stream")
	resp, raw, err := c.send(req)
	if err != nil {
		return nil, err
	}
	b := &Binary{
		ContentType: resp.Header.Get("Content-Type"),
		Filename:    fallbackName,
		Body:        raw,
	}
	if b.ContentType == "" {
		b.ContentType = "application/pdf"
	}
	if _, params, err := mime.ParseMediaType(resp.Header.Get("Content-Disposition")); err == nil && params["filename"] != "" {
		b.Filename = params["filename"]
	}
	return b, nil
}

// Ping reports whether the backend answers. Any status below 500 counts as up.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("backend ping: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode >= 500 {
		return fmt.Errorf("backend ping: status %d", resp.StatusCode)
	}
	return nil
}

// decode unwraps {"data": ...} and {"items": [...]} envelopes before
// unmarshalling into result.
func decode(raw []byte, result any) error {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(unwrap(raw), result); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func unwrap(raw []byte) []byte {
	if !gjson.ValidBytes(raw) {
		return raw
	}
	res := gjson.ParseBytes(raw)
	// Records carry an id; only id-less objects are envelopes.
	for res.IsObject() && !res.Get("id").Exists() {
		if d := res.Get("data"); d.IsObject() || d.IsArray() {
			res = d
			continue
		}
		if it := res.Get("items"); it.IsArray() {
			res = it
			continue
		}
		break
	}
	return []byte(res.Raw)
}

func pathOf(base string) string {
	u, err := url.Parse(base)
	if err != nil {
		return ""
	}
	return u.Path
}

// resourceOf reduces a path to its first segment for metric labels.
func resourceOf(path string) string {
	path = strings.Trim(path, "/")
	if path == "" {
		return "root"
	}
	if i := strings.IndexByte(path, '/'); i >= 0 {
		return path[:i]
	}
	return path
}

func idPath(parts ...string) string {
	var b strings.Builder
	for _, p := range parts {
		b.WriteByte('/')
		b.WriteString(url.PathEscape(p))
	}
	return b.String()
}
