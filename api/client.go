package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/leetpc/virtbot/sentry"
)

// Client talks to the VirtBot control server.
type Client struct {
	baseURL     string
	machineName string
	httpClient  *http.Client
}

func NewClient(baseURL string) *Client {
	name, err := os.Hostname()
	if err != nil || name == "" {
		name = "unknown"
	}
	return &Client{
		baseURL:     baseURL,
		machineName: name,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// MachineName is the hostname reported in heartbeats and log entries.
func (c *Client) MachineName() string {
	return c.machineName
}

func (c *Client) postJSON(ctx context.Context, path string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Virtbot-Client", "GO-CLI")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(respBody))
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// Heartbeat reports machine status and returns the server acknowledgement.
func (c *Client) Heartbeat(ctx context.Context, req HeartbeatRequest) (*HeartbeatResponse, error) {
	sentry.AddBreadcrumb("api", "heartbeat", nil, sentry.LevelInfo)

	if req.Name == "" {
		req.Name = c.machineName
	}

	var out HeartbeatResponse
	if err := c.postJSON(ctx, "/machines/heartbeat", req, &out); err != nil {
		captureAPIError("Heartbeat", c.baseURL, err)
		return nil, fmt.Errorf("heartbeat: %w", err)
	}
	return &out, nil
}

// SendLog ships a log line to the server. Failures are returned but callers
// generally treat shipping as best-effort.
func (c *Client) SendLog(ctx context.Context, level, message string, extra map[string]any) error {
	entry := LogEntry{
		MachineName: c.machineName,
		Level:       level,
		Message:     message,
		Extra:       extra,
	}
	if entry.Extra == nil {
		entry.Extra = map[string]any{}
	}
	if err := c.postJSON(ctx, "/logs", entry, nil); err != nil {
		return fmt.Errorf("send log: %w", err)
	}
	return nil
}

// CheckVersion asks the server whether a newer client build is available.
func (c *Client) CheckVersion(ctx context.Context, current string) (*VersionCheckResponse, error) {
	sentry.AddBreadcrumb("api", "version_check", nil, sentry.LevelInfo)

	var out VersionCheckResponse
	err := c.postJSON(ctx, "/client/version/check", VersionCheckRequest{CurrentVersion: current}, &out)
	if err != nil {
		captureAPIError("CheckVersion", c.baseURL, err)
		return nil, fmt.Errorf("version check: %w", err)
	}
	return &out, nil
}

func captureAPIError(method, baseURL string, err error) {
	level := sentry.LevelError
	sentry.CaptureError(err, &sentry.EventOptions{
		Tags: sentry.NewTags().
			Set("api_method", method).
			Set("api_url", baseURL),
		Level: &level,
	})
}
