package client

// http_client.go = sends mesh snapshots to the peer's sync server.

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"meshsync/internal/geometry"
)

// ConnectionError reports a failed round trip to the peer.
type ConnectionError struct {
	Addr string
	Err  error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connection to %s failed: %v", e.Addr, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// StatusError reports a peer that answered but did not accept the snapshot.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("peer rejected snapshot with status %d", e.Code)
	}
	return fmt.Sprintf("peer rejected snapshot with status %d: %s", e.Code, e.Body)
}

// defines the HTTP client structure and methods
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// constructor for HTTP client; timeout 0 means wait for the peer forever
func NewHTTPClient(host string, port int, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: "http://" + net.JoinHostPort(host, strconv.Itoa(port)),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// BaseURL is the peer address commits go to.
func (c *HTTPClient) BaseURL() string {
	return c.baseURL
}

// Commit posts the snapshot to the peer and reads the whole reply before
// returning, so the connection can be reused for the next commit.
func (c *HTTPClient) Commit(ctx context.Context, snap geometry.Snapshot) error {
	jsonData, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/model", bytes.NewBuffer(jsonData))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &ConnectionError{Addr: c.baseURL, Err: err}
	}
	defer resp.Body.Close() // Ensure the response body is closed

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &ConnectionError{Addr: c.baseURL, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}
	return nil
}
