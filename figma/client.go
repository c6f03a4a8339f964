/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package figma downloads variable exports from the Figma REST API.
package figma

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"bennypowers.dev/tokenpipe/internal/version"
)

const (
	// DefaultBaseURL is the Figma REST API origin.
	DefaultBaseURL = "https://api.figma.com"

	// DefaultTimeout is the maximum time to wait for a download.
	DefaultTimeout = 60 * time.Second

	// DefaultMaxSize is the maximum allowed response size (64 MB).
	DefaultMaxSize int64 = 64 * 1024 * 1024
)

// ErrNoToken is returned when no personal access token is configured.
var ErrNoToken = errors.New("figma: no access token")

// Client fetches local variables of a Figma file.
type Client struct {
	baseURL string
	token   string
	maxSize int64
	client  *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at another API origin.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// WithMaxSize limits the accepted response size.
func WithMaxSize(n int64) Option {
	return func(c *Client) {
		c.maxSize = n
	}
}

// NewClient returns a client authenticating with a personal access token.
func NewClient(token string, opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		token:   token,
		maxSize: DefaultMaxSize,
		client:  &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// apiError is the error body the API returns alongside non-2xx statuses.
type apiError struct {
	Status int    `json:"status"`
	Err    string `json:"err"`
}

// LocalVariables downloads GET /v1/files/:key/variables/local and returns
// the raw response body.
func (c *Client) LocalVariables(ctx context.Context, fileKey string) ([]byte, error) {
	if c.token == "" {
		return nil, ErrNoToken
	}
	if fileKey == "" {
		return nil, errors.New("figma: no file key")
	}
	endpoint := c.baseURL + "/v1/files/" + url.PathEscape(fileKey) + "/variables/local"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request for %s: %w", endpoint, err)
	}
	req.Header.Set("X-Figma-Token", c.token)
	req.Header.Set("User-Agent", "tokenpipe/"+version.Get())

	resp, err := c.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("timeout fetching variables of %s: %w", fileKey, err)
		}
		return nil, fmt.Errorf("fetching variables of %s: %w", fileKey, err)
	}
	defer func() { _ = resp.Body.Close() }()

	content, err := io.ReadAll(io.LimitReader(resp.Body, c.maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading variables of %s: %w", fileKey, err)
	}
	if resp.StatusCode != http.StatusOK {
		var apiErr apiError
		if json.Unmarshal(content, &apiErr) == nil && apiErr.Err != "" {
			return nil, fmt.Errorf("fetching variables of %s: %s: %s", fileKey, resp.Status, apiErr.Err)
		}
		return nil, fmt.Errorf("fetching variables of %s: %s", fileKey, resp.Status)
	}
	if int64(len(content)) > c.maxSize {
		return nil, fmt.Errorf("variables of %s exceed maximum size of %d bytes", fileKey, c.maxSize)
	}
	return content, nil
}
