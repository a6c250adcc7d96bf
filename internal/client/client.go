// Package client implements the HTTP client for the membox backend.
// Its Submit method satisfies the capture path's Submitter interface;
// the query methods back the CLI.
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

	"github.com/entl/membox/internal/capture"
	"github.com/entl/membox/internal/logging"
	"github.com/entl/membox/internal/server"
)

// SearchOptions filters command queries.
type SearchOptions struct {
	Query    string
	Status   string
	Category string
	Tags     []string
	Limit    int
}

// Client talks to a membox backend over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client for the backend at baseURL (e.g. http://127.0.0.1:7377).
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Submit stores one command and returns its assigned id.
func (c *Client) Submit(ctx context.Context, command, description string, opts capture.SubmitOptions) (string, error) {
	req := server.SubmitCommandRequest{
		Command:     command,
		Description: description,
		Workdir:     opts.Workdir,
		Status:      string(opts.Status),
	}

	var resp server.SubmitCommandResponse
	if err := c.post(ctx, "/api/commands", req, &resp); err != nil {
		logging.Debug().Err(err).Str("command", command).Msg("command submission failed")
		return "", err
	}
	return resp.ID, nil
}

// Add stores a command with full metadata and returns its id.
func (c *Client) Add(ctx context.Context, req server.SubmitCommandRequest) (string, error) {
	var resp server.SubmitCommandResponse
	if err := c.post(ctx, "/api/commands", req, &resp); err != nil {
		return "", err
	}
	return resp.ID, nil
}

// Search queries stored commands.
func (c *Client) Search(ctx context.Context, opts SearchOptions) ([]server.CommandEntry, error) {
	params := url.Values{}
	if opts.Query != "" {
		params.Set("q", opts.Query)
	}
	if opts.Status != "" {
		params.Set("status", opts.Status)
	}
	if opts.Category != "" {
		params.Set("category", opts.Category)
	}
	for _, tag := range opts.Tags {
		params.Add("tag", tag)
	}
	if opts.Limit > 0 {
		params.Set("limit", strconv.Itoa(opts.Limit))
	}

	path := "/api/commands"
	if encoded := params.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var resp server.CommandListResponse
	if err := c.get(ctx, path, &resp); err != nil {
		return nil, err
	}
	return resp.Commands, nil
}

// Get retrieves one command by id. Returns nil when it does not exist.
func (c *Client) Get(ctx context.Context, id string) (*server.CommandEntry, error) {
	var entry server.CommandEntry
	err := c.get(ctx, "/api/commands/"+url.PathEscape(id), &entry)
	if isNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// Delete removes a command by id. Reports whether it existed.
func (c *Client) Delete(ctx context.Context, id string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/api/commands/"+url.PathEscape(id), nil)
	if err != nil {
		return false, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("delete request failed: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusNoContent:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	default:
		return false, unexpectedStatus(resp)
	}
}

// Tags returns the distinct tags stored in the backend.
func (c *Client) Tags(ctx context.Context) ([]string, error) {
	var resp server.TagsResponse
	if err := c.get(ctx, "/api/tags", &resp); err != nil {
		return nil, err
	}
	return resp.Tags, nil
}

// Categories returns the distinct categories stored in the backend.
func (c *Client) Categories(ctx context.Context) ([]string, error) {
	var resp server.CategoriesResponse
	if err := c.get(ctx, "/api/categories", &resp); err != nil {
		return nil, err
	}
	return resp.Categories, nil
}

// Ping checks backend liveness.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return unexpectedStatus(resp)
	}
	return nil
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	encoded, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(encoded))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return unexpectedStatus(resp)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return errNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return unexpectedStatus(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

var errNotFound = fmt.Errorf("not found")

func isNotFound(err error) bool {
	return err == errNotFound
}

func unexpectedStatus(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	msg := strings.TrimSpace(string(body))
	if msg == "" {
		msg = resp.Status
	}
	return fmt.Errorf("backend returned %d: %s", resp.StatusCode, msg)
}
