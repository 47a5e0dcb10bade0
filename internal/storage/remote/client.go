package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pmiralles/lorekeeper/internal/storage"
)

// errorResponse is the error envelope the remote service returns.
type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Client speaks the remote collection contract: one resource-oriented
// endpoint set per collection under /api/v1/collections/{name}, mapped 1:1
// to the Collection interface. It is a functional client; no server ships
// in this repository.
type Client struct {
	httpClient *http.Client
	baseURL    string
	name       string
}

// New builds a remote collection client for the named collection.
func New(baseURL, name string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		name:    name,
		httpClient: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return fmt.Errorf("stopped after 10 redirects")
				}
				return nil
			},
		},
	}
}

// Ping probes the remote service health endpoint.
func (c *Client) Ping(ctx context.Context) error {
	return c.doRequest(ctx, http.MethodGet, "/api/v1/healthz", nil, nil)
}

func (c *Client) collectionPath(suffix string) string {
	return "/api/v1/collections/" + c.name + suffix
}

// GetAll lists every record.
func (c *Client) GetAll(ctx context.Context) ([]storage.Document, error) {
	var docs []storage.Document
	if err := c.doRequest(ctx, http.MethodGet, c.collectionPath(""), nil, &docs); err != nil {
		return nil, fmt.Errorf("list request failed: %w", err)
	}
	return fromWireAll(c.name, docs), nil
}

// GetByID fetches one record.
func (c *Client) GetByID(ctx context.Context, id string) (storage.Document, error) {
	var doc storage.Document
	if err := c.doRequest(ctx, http.MethodGet, c.collectionPath("/"+id), nil, &doc); err != nil {
		return nil, fmt.Errorf("get request failed: %w", err)
	}
	return fromWire(c.name, doc), nil
}

// Create posts a new record; the service assigns id and timestamps.
func (c *Client) Create(ctx context.Context, data storage.Document) (storage.Document, error) {
	var doc storage.Document
	if err := c.doRequest(ctx, http.MethodPost, c.collectionPath(""), toWire(c.name, data), &doc); err != nil {
		return nil, fmt.Errorf("create request failed: %w", err)
	}
	return fromWire(c.name, doc), nil
}

// Update patches an existing record (shallow merge on the service side).
func (c *Client) Update(ctx context.Context, id string, data storage.Document) (storage.Document, error) {
	var doc storage.Document
	if err := c.doRequest(ctx, http.MethodPatch, c.collectionPath("/"+id), toWire(c.name, data), &doc); err != nil {
		return nil, fmt.Errorf("update request failed: %w", err)
	}
	return fromWire(c.name, doc), nil
}

// Delete removes a record; a missing id reports false, not an error.
func (c *Client) Delete(ctx context.Context, id string) (bool, error) {
	var resp struct {
		Deleted bool `json:"deleted"`
	}
	if err := c.doRequest(ctx, http.MethodDelete, c.collectionPath("/"+id), nil, &resp); err != nil {
		return false, fmt.Errorf("delete request failed: %w", err)
	}
	return resp.Deleted, nil
}

// BulkCreate posts several records in one request.
func (c *Client) BulkCreate(ctx context.Context, docs []storage.Document) ([]storage.Document, error) {
	var created []storage.Document
	if err := c.doRequest(ctx, http.MethodPost, c.collectionPath("/bulk"), toWireAll(c.name, docs), &created); err != nil {
		return nil, fmt.Errorf("bulk create request failed: %w", err)
	}
	return fromWireAll(c.name, created), nil
}

// ReplaceAll overwrites the whole collection.
func (c *Client) ReplaceAll(ctx context.Context, docs []storage.Document) error {
	if err := c.doRequest(ctx, http.MethodPut, c.collectionPath(""), toWireAll(c.name, docs), nil); err != nil {
		return fmt.Errorf("replace request failed: %w", err)
	}
	return nil
}

// Export fetches the interchange envelope.
func (c *Client) Export(ctx context.Context) (*storage.Envelope, error) {
	var env storage.Envelope
	if err := c.doRequest(ctx, http.MethodGet, c.collectionPath("/export"), nil, &env); err != nil {
		return nil, fmt.Errorf("export request failed: %w", err)
	}
	env.Data = fromWireAll(c.name, env.Data)
	return &env, nil
}

// Import replaces the collection from a bare array or export envelope.
func (c *Client) Import(ctx context.Context, payload json.RawMessage) error {
	docs, err := storage.DecodePayload(payload)
	if err != nil {
		return fmt.Errorf("import into %q: %w", c.name, err)
	}
	body := map[string]any{"data": toWireAll(c.name, docs)}
	if err := c.doRequest(ctx, http.MethodPost, c.collectionPath("/import"), body, nil); err != nil {
		return fmt.Errorf("import request failed: %w", err)
	}
	return nil
}

// Clear empties the collection.
func (c *Client) Clear(ctx context.Context) error {
	if err := c.doRequest(ctx, http.MethodDelete, c.collectionPath(""), nil, nil); err != nil {
		return fmt.Errorf("clear request failed: %w", err)
	}
	return nil
}

// Count returns the number of records.
func (c *Client) Count(ctx context.Context) (int, error) {
	var resp struct {
		Count int `json:"count"`
	}
	if err := c.doRequest(ctx, http.MethodGet, c.collectionPath("/count"), nil, &resp); err != nil {
		return 0, fmt.Errorf("count request failed: %w", err)
	}
	return resp.Count, nil
}

// doRequest performs an HTTP request against the remote service.
func (c *Client) doRequest(ctx context.Context, method, path string, body, result any) error {
	url := c.baseURL + path

	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return storage.NewNotFound("record", path)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp errorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Message != "" {
			return fmt.Errorf("server error (%d): %s", resp.StatusCode, errResp.Message)
		}
		return fmt.Errorf("request failed with status %d: %s", resp.StatusCode, string(respBody))
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}
