// Package publishingapi is the client for the external content-publishing
// API: draft and live content endpoints, link patching, and withdrawal.
package publishingapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/hashicorp/go-hclog"
)

// Config holds the publishing API connection settings.
type Config struct {
	BaseURL     string
	BearerToken string
	Timeout     time.Duration
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("publishing api base url required")
	}
	if _, err := url.Parse(c.BaseURL); err != nil {
		return fmt.Errorf("publishing api base url invalid: %w", err)
	}
	return nil
}

// Client issues requests against the publishing API. It propagates every
// failure as a classified *Error; retrying is the caller's concern.
type Client struct {
	cfg    Config
	client *http.Client
	log    hclog.Logger
}

// NewClient creates a publishing API client.
func NewClient(cfg Config, log hclog.Logger) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if log == nil {
		log = hclog.NewNullLogger()
	}
	return &Client{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		log:    log.Named("publishing-api"),
	}, nil
}

// PutContent pushes content to the live content endpoint.
func (c *Client) PutContent(ctx context.Context, contentID string, payload ContentPayload) error {
	return c.do(ctx, "PutContent", http.MethodPut, "/content/"+contentID, payload)
}

// PutDraftContent pushes content to the draft content endpoint.
func (c *Client) PutDraftContent(ctx context.Context, contentID string, payload ContentPayload) error {
	return c.do(ctx, "PutDraftContent", http.MethodPut, "/draft-content/"+contentID, payload)
}

// PatchLinks updates the content's cross-reference links. Links must
// exist before content referencing them is pushed.
func (c *Client) PatchLinks(ctx context.Context, contentID string, links Links) error {
	body := struct {
		Links Links `json:"links"`
	}{Links: links}
	return c.do(ctx, "PatchLinks", http.MethodPatch, "/links/"+contentID, body)
}

// Unpublish withdraws content, typically with a redirect.
func (c *Client) Unpublish(ctx context.Context, contentID string, req UnpublishRequest) error {
	return c.do(ctx, "Unpublish", http.MethodPost, "/content/"+contentID+"/unpublish", req)
}

func (c *Client) do(ctx context.Context, op, method, path string, payload interface{}) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return &Error{Op: op, ContentID: path, Err: fmt.Errorf("encoding payload: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, bytes.NewReader(raw))
	if err != nil {
		return &Error{Op: op, ContentID: path, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.BearerToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.BearerToken)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return &Error{Op: op, ContentID: path, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.log.Debug("publishing api error response",
			"op", op, "path", path, "status", resp.StatusCode, "body", string(body))
		return &Error{Op: op, ContentID: path, StatusCode: resp.StatusCode}
	}

	c.log.Debug("publishing api call", "op", op, "path", path, "status", resp.StatusCode)
	return nil
}
