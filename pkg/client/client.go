// Package client is a typed HTTP client for the hanzitree API.
//
// Every method maps a non-2xx response to an [errors.Error] carrying the
// server's code and detail, so callers can branch on the same codes the
// server uses:
//
//	c := client.New("http://localhost:8000")
//	w, err := c.Suggest(ctx)
//	if errors.Is(err, errors.ErrCodeExhausted) {
//	    // every dictionary word is already known
//	}
//
// Network failures and 5xx responses are retried with backoff.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/matzehuels/hanzitree/pkg/buildinfo"
	"github.com/matzehuels/hanzitree/pkg/errors"
	"github.com/matzehuels/hanzitree/pkg/hanzi"
	"github.com/matzehuels/hanzitree/pkg/httputil"
	"github.com/matzehuels/hanzitree/pkg/notes"
	"github.com/matzehuels/hanzitree/pkg/observability"
)

const (
	// DefaultURL is the server address used when none is configured.
	DefaultURL = "http://localhost:8000"

	httpTimeout  = 30 * time.Second
	retryAttempt = 3
	retryDelay   = 500 * time.Millisecond
)

// Client talks to a hanzitree server.
type Client struct {
	base    *url.URL
	http    *http.Client
	headers map[string]string
	delay   time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option { return func(c *Client) { c.http = hc } }

// WithHeader adds a header sent with every request.
func WithHeader(key, value string) Option {
	return func(c *Client) { c.headers[key] = value }
}

// WithRetryDelay sets the initial backoff between retries.
func WithRetryDelay(d time.Duration) Option { return func(c *Client) { c.delay = d } }

// New creates a client for the server at baseURL. An empty baseURL means
// DefaultURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		baseURL = DefaultURL
	}
	if err := errors.ValidateURL(baseURL); err != nil {
		return nil, err
	}
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid server URL %q", baseURL)
	}
	c := &Client{
		base:    u,
		http:    &http.Client{Timeout: httpTimeout},
		headers: map[string]string{"Accept": "application/json", "User-Agent": buildinfo.UserAgent()},
		delay:   retryDelay,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the server address.
func (c *Client) BaseURL() string { return c.base.String() }

// Health returns the server's health message.
func (c *Client) Health(ctx context.Context) (string, error) {
	var m struct {
		Message string `json:"message"`
	}
	err := c.do(ctx, http.MethodGet, "/", nil, nil, &m)
	return m.Message, err
}

// List returns known characters, skipping skip and returning at most limit
// (limit < 0 means all).
func (c *Client) List(ctx context.Context, skip, limit int) ([]hanzi.Character, error) {
	q := url.Values{}
	if skip > 0 {
		q.Set("skip", strconv.Itoa(skip))
	}
	if limit >= 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	var out []hanzi.Character
	err := c.do(ctx, http.MethodGet, "/characters", q, nil, &out)
	return out, err
}

// Get returns one known character.
func (c *Client) Get(ctx context.Context, id int64) (hanzi.Character, error) {
	var out hanzi.Character
	err := c.do(ctx, http.MethodGet, "/characters/"+strconv.FormatInt(id, 10), nil, nil, &out)
	return out, err
}

// Delete removes a known character and returns the removed record.
func (c *Client) Delete(ctx context.Context, id int64) (hanzi.Character, error) {
	var out hanzi.Character
	err := c.do(ctx, http.MethodDelete, "/characters/"+strconv.FormatInt(id, 10), nil, nil, &out)
	return out, err
}

// Suggest returns a random dictionary word that is not yet known.
func (c *Client) Suggest(ctx context.Context) (hanzi.Word, error) {
	var out hanzi.Word
	err := c.do(ctx, http.MethodGet, "/suggest", nil, nil, &out)
	return out, err
}

// Add marks a word as known.
func (c *Client) Add(ctx context.Context, w hanzi.Word) (hanzi.Character, error) {
	var out hanzi.Character
	err := c.do(ctx, http.MethodPost, "/add", nil, w, &out)
	return out, err
}

// SearchResult is a dictionary hit annotated with whether it is known.
type SearchResult struct {
	hanzi.Word
	Known bool   `json:"known"`
	ID    *int64 `json:"id,omitempty"`
}

// Search queries the dictionary. A limit <= 0 uses the server default.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]SearchResult, error) {
	q := url.Values{"q": {query}}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	var out []SearchResult
	err := c.do(ctx, http.MethodGet, "/search", q, nil, &out)
	return out, err
}

// GetNotes returns the notes for a character. ok is false when none are
// stored.
func (c *Client) GetNotes(ctx context.Context, id int64) (e notes.Entry, ok bool, err error) {
	err = c.do(ctx, http.MethodGet, notesPath(id), nil, nil, &e)
	if errors.Is(err, errors.ErrCodeNotFound) {
		return notes.Entry{}, false, nil
	}
	return e, err == nil, err
}

// PutNotes replaces the notes for a character.
func (c *Client) PutNotes(ctx context.Context, id int64, e notes.Entry) (notes.Entry, error) {
	var out notes.Entry
	err := c.do(ctx, http.MethodPut, notesPath(id), nil, e, &out)
	return out, err
}

// DeleteNotes clears the notes for a character.
func (c *Client) DeleteNotes(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, notesPath(id), nil, nil, nil)
}

func notesPath(id int64) string { return "/notes/" + strconv.FormatInt(id, 10) }

// TreeOptions are the /tree query parameters. Zero values leave the
// server default in place.
type TreeOptions struct {
	Format      string
	Style       string
	Width       float64
	ShowPinyin  bool
	Interactive bool
	Detailed    bool
	Refresh     bool
}

func (o TreeOptions) query() url.Values {
	q := url.Values{}
	if o.Format != "" {
		q.Set("format", o.Format)
	}
	if o.Style != "" {
		q.Set("style", o.Style)
	}
	if o.Width > 0 {
		q.Set("width", strconv.FormatFloat(o.Width, 'f', -1, 64))
	}
	for name, v := range map[string]bool{
		"pinyin":      o.ShowPinyin,
		"interactive": o.Interactive,
		"detailed":    o.Detailed,
		"refresh":     o.Refresh,
	} {
		if v {
			q.Set(name, "true")
		}
	}
	return q
}

// Tree renders the known-character tree on the server and returns the
// artifact bytes and whether the server answered from its cache.
func (c *Client) Tree(ctx context.Context, opts TreeOptions) (data []byte, cached bool, err error) {
	var header http.Header
	err = c.send(ctx, http.MethodGet, "/tree", opts.query(), nil, func(resp *http.Response) error {
		header = resp.Header
		data, err = io.ReadAll(resp.Body)
		return err
	})
	if err != nil {
		return nil, false, err
	}
	return data, header.Get("X-Cache") == "HIT", nil
}

func (c *Client) do(ctx context.Context, method, path string, q url.Values, body, v any) error {
	return c.send(ctx, method, path, q, body, func(resp *http.Response) error {
		if v == nil {
			_, _ = io.Copy(io.Discard, resp.Body)
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "decode %s %s response", method, path)
		}
		return nil
	})
}

// send performs one logical request with retries. read is called with a
// successful response; the body is closed afterwards.
func (c *Client) send(ctx context.Context, method, path string, q url.Values, body any, read func(*http.Response) error) error {
	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "encode request body")
		}
	}

	u := *c.base
	u.Path = c.base.Path + path
	u.RawQuery = q.Encode()
	hooks := observability.HTTP()

	return httputil.Retry(ctx, retryAttempt, c.delay, func() error {
		req, err := http.NewRequestWithContext(ctx, method, u.String(), bytes.NewReader(payload))
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "build request")
		}
		for k, v := range c.headers {
			req.Header.Set(k, v)
		}
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		hooks.OnRequest(ctx, method, u.Host, path)
		start := time.Now()
		resp, err := c.http.Do(req)
		if err != nil {
			hooks.OnError(ctx, method, u.Host, path, err)
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return &httputil.RetryableError{Err: errors.Wrap(errors.ErrCodeNetwork, err, "%s %s", method, path)}
		}
		defer resp.Body.Close()
		hooks.OnResponse(ctx, method, u.Host, path, resp.StatusCode, time.Since(start))

		if err := checkStatus(resp); err != nil {
			return err
		}
		return read(resp)
	})
}

func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		retry, _ := strconv.Atoi(resp.Header.Get("Retry-After"))
		return &errors.RateLimitedError{RetryAfter: retry, Message: resp.Status}
	}

	var body struct {
		Detail string `json:"detail"`
		Code   string `json:"code"`
	}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	_ = json.Unmarshal(data, &body)

	code := errors.Code(body.Code)
	if code == "" {
		code = errors.FromStatus(resp.StatusCode)
	}
	detail := body.Detail
	if detail == "" {
		detail = fmt.Sprintf("server returned %s", resp.Status)
	}

	err := errors.New(code, "%s", detail)
	if resp.StatusCode >= 500 {
		wait, _ := strconv.Atoi(resp.Header.Get("Retry-After"))
		return &httputil.RetryableError{Err: err, After: time.Duration(wait) * time.Second}
	}
	return err
}
