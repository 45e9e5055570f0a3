package api

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

	"github.com/google/uuid"
)

// Doer executes one HTTP request. Satisfied by *http.Client in production
// and by a thin adapter over the stub backend's in-process transport in
// tests.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client consumes the backend's REST contract: list/get/create/update/
// delete per resource path plus multipart upload, all wrapped in the
// {success, data, message, meta} envelope.
type Client struct {
	baseURL string
	doer    Doer
	tokens  TokenSource
	now     func() time.Time
}

type Option func(*Client)

// WithDoer replaces the HTTP transport.
func WithDoer(d Doer) Option {
	return func(c *Client) { c.doer = d }
}

// WithTokenSource sets the bearer token supplier.
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		doer:    &http.Client{Timeout: 30 * time.Second},
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// List fetches one page of a resource collection.
func (c *Client) List(ctx context.Context, path string, page, pageSize int) ([]Row, *Meta, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("pageSize", strconv.Itoa(pageSize))

	env, err := c.do(ctx, http.MethodGet, "/"+path+"?"+q.Encode(), nil)
	if err != nil {
		return nil, nil, fmt.Errorf("list %s: %w", path, err)
	}
	var rows []Row
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, &rows); err != nil {
			return nil, nil, fmt.Errorf("list %s: decode rows: %w", path, err)
		}
	}
	meta := env.Meta
	if meta == nil {
		meta = &Meta{Page: page, PageSize: pageSize, Total: len(rows)}
	}
	return rows, meta, nil
}

// Get fetches a single record addressed by its primary key values, joined
// as path segments in descriptor order.
func (c *Client) Get(ctx context.Context, path string, pks []string) (Row, error) {
	env, err := c.do(ctx, http.MethodGet, recordPath(path, pks), nil)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", path, err)
	}
	return decodeRow(env, path)
}

// Create posts a new record's editable fields.
func (c *Client) Create(ctx context.Context, path string, payload Row) (Row, error) {
	env, err := c.do(ctx, http.MethodPost, "/"+path, payload)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", path, err)
	}
	return decodeRow(env, path)
}

// Update puts the changed editable fields of an existing record.
func (c *Client) Update(ctx context.Context, path string, pks []string, payload Row) (Row, error) {
	env, err := c.do(ctx, http.MethodPut, recordPath(path, pks), payload)
	if err != nil {
		return nil, fmt.Errorf("update %s: %w", path, err)
	}
	if len(env.Data) == 0 {
		return nil, nil
	}
	return decodeRow(env, path)
}

// Delete removes a record by its primary key values.
func (c *Client) Delete(ctx context.Context, path string, pks []string) error {
	if _, err := c.do(ctx, http.MethodDelete, recordPath(path, pks), nil); err != nil {
		return fmt.Errorf("delete %s: %w", path, err)
	}
	return nil
}

func recordPath(path string, pks []string) string {
	segs := make([]string, 0, len(pks)+1)
	segs = append(segs, path)
	for _, pk := range pks {
		segs = append(segs, url.PathEscape(pk))
	}
	return "/" + strings.Join(segs, "/")
}

func decodeRow(env *Envelope, path string) (Row, error) {
	var row Row
	if err := json.Unmarshal(env.Data, &row); err != nil {
		return nil, fmt.Errorf("%s: decode row: %w", path, err)
	}
	return row, nil
}

func (c *Client) do(ctx context.Context, method, path string, body any) (*Envelope, error) {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode body: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-Request-Id", uuid.New().String())

	if err := c.authorize(req); err != nil {
		return nil, err
	}

	resp, err := c.doer.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	return decodeEnvelope(resp)
}

func (c *Client) authorize(req *http.Request) error {
	if c.tokens == nil {
		return nil
	}
	token, err := c.tokens.Token()
	if err != nil {
		return fmt.Errorf("token source: %w", err)
	}
	if token == "" {
		return nil
	}
	if TokenExpired(token, c.now()) {
		return ErrTokenExpired
	}
	req.Header.Set("Authorization", "Bearer "+token)
	return nil
}

func decodeEnvelope(resp *http.Response) (*Envelope, error) {
	var env Envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("decode response (status %d): %w", resp.StatusCode, err)
	}
	// success:false is authoritative regardless of HTTP status.
	if !env.Success {
		msg := env.Message
		if msg == "" {
			msg = "request failed"
		}
		return nil, &Error{Status: resp.StatusCode, Message: msg}
	}
	return &env, nil
}
