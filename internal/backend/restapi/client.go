// Package restapi implements service.Service against a JSON REST collection
// (json-server style): GET/POST on the collection, PATCH/DELETE on items.
package restapi

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"todoctl/internal/config"
	"todoctl/internal/service"
)

// maxBodySize caps how much of a response is read.
const maxBodySize = 8 << 20

const schemaURL = "todos.schema.json"

//go:embed todos.schema.json
var schemaJSON []byte

// Client implements service.Service over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	schema     *jsonschema.Schema
}

// New creates a client for cfg.APIURL.
func New(cfg *config.Config) (*Client, error) {
	c, err := NewWithHTTPClient(cfg.APIURL, &http.Client{})
	if err != nil {
		return nil, err
	}
	c.timeout = cfg.Timeout
	return c, nil
}

// NewWithHTTPClient creates a client with a custom HTTP client (for testing).
func NewWithHTTPClient(baseURL string, httpClient *http.Client) (*Client, error) {
	base, err := normalizeBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	schema, err := compileSchema()
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL:    base,
		httpClient: httpClient,
		timeout:    config.DefaultTimeout,
		schema:     schema,
	}, nil
}

// BaseURL returns the normalized collection URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid api url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("invalid api url: %s", raw)
	}
	if u.Host == "" {
		return "", fmt.Errorf("invalid api url: %s", raw)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u.String(), nil
}

func compileSchema() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaURL, bytes.NewReader(schemaJSON)); err != nil {
		return nil, fmt.Errorf("load schema: %w", err)
	}
	schema, err := compiler.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return schema, nil
}

func (c *Client) itemURL(id string) string {
	return c.baseURL + url.PathEscape(id)
}

// ListTasks implements service.Service.
func (c *Client) ListTasks(ctx context.Context) ([]service.Task, error) {
	body, err := c.do(ctx, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return nil, err
	}

	if err := c.validate(body); err != nil {
		return nil, err
	}

	var records []record
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, fmt.Errorf("decode tasks: %w", err)
	}

	result := make([]service.Task, 0, len(records))
	for _, r := range records {
		result = append(result, r.task())
	}
	return result, nil
}

// CreateTask implements service.Service.
func (c *Client) CreateTask(ctx context.Context, task service.Task) error {
	_, err := c.do(ctx, http.MethodPost, c.baseURL, newRecord(task))
	return err
}

// UpdateTask implements service.Service.
func (c *Client) UpdateTask(ctx context.Context, id string, patch service.TaskPatch) error {
	if patch.IsEmpty() {
		return nil
	}
	_, err := c.do(ctx, http.MethodPatch, c.itemURL(id), newPatchBody(patch))
	return err
}

// DeleteTask implements service.Service.
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, c.itemURL(id), nil)
	return err
}

// do sends one request and returns the response body for 2xx statuses.
func (c *Client) do(ctx context.Context, method, target string, payload any) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reqBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, wrapError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, wrapError(err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, service.ErrNotFound
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		if msg := excerpt(body); msg != "" {
			return nil, fmt.Errorf("%s %s: status %d: %s", method, target, resp.StatusCode, msg)
		}
		return nil, fmt.Errorf("%s %s: status %d", method, target, resp.StatusCode)
	}
	return body, nil
}

// validate checks a list payload against the embedded schema.
func (c *Client) validate(body []byte) error {
	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return fmt.Errorf("decode tasks: %w", err)
	}
	err := c.schema.Validate(doc)
	if err == nil {
		return nil
	}
	var ve *jsonschema.ValidationError
	if errors.As(err, &ve) {
		leaf := ve
		for len(leaf.Causes) > 0 {
			leaf = leaf.Causes[0]
		}
		path := leaf.InstanceLocation
		if path == "" {
			path = "/"
		}
		return fmt.Errorf("invalid task payload at %s: %s", path, leaf.Message)
	}
	return fmt.Errorf("invalid task payload: %w", err)
}

// wrapError maps transport errors to short messages.
func wrapError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("request timed out: %w", context.DeadlineExceeded)
	}
	return err
}
