// Package client provides an HTTP client for the condour server API.
package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/evcraddock/condour/internal/scan"
)

// ErrNoScan is returned by Latest when the server has not completed a scan.
var ErrNoScan = errors.New("no scan has completed yet")

// Client is an HTTP client for the condour API.
type Client struct {
	http *resty.Client
}

// New creates a new API client. Scans can take a while, so the timeout is
// generous.
func New(baseURL string) *Client {
	rc := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(5*time.Minute).
		SetHeader("Accept", "application/json")
	return &Client{http: rc}
}

// errorBody is the server's JSON error shape.
type errorBody struct {
	Error string `json:"error"`
}

// Scan asks the server to run a scan.
func (c *Client) Scan(ctx context.Context, req scan.Request) (*scan.Result, error) {
	var result scan.Result
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&result).
		SetError(&errorBody{}).
		Post("/api/scan")
	if err := check(resp, err); err != nil {
		return nil, err
	}
	return &result, nil
}

// Latest returns the server's most recent scan result.
func (c *Client) Latest(ctx context.Context) (*scan.Result, error) {
	var result scan.Result
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&result).
		SetError(&errorBody{}).
		Get("/api/scan/latest")
	if err == nil && resp.StatusCode() == http.StatusNotFound {
		return nil, ErrNoScan
	}
	if err := check(resp, err); err != nil {
		return nil, err
	}
	return &result, nil
}

// Health checks that the server is up.
func (c *Client) Health(ctx context.Context) error {
	var body struct {
		Status string `json:"status"`
	}
	resp, err := c.http.R().SetContext(ctx).SetResult(&body).Get("/health")
	if err := check(resp, err); err != nil {
		return err
	}
	if body.Status != "ok" {
		return fmt.Errorf("server status %q", body.Status)
	}
	return nil
}

// check converts transport failures and error responses into errors.
func check(resp *resty.Response, err error) error {
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	if !resp.IsError() {
		return nil
	}
	if e, ok := resp.Error().(*errorBody); ok && e.Error != "" {
		return fmt.Errorf("%s", e.Error)
	}
	return fmt.Errorf("server error: %s", http.StatusText(resp.StatusCode()))
}
