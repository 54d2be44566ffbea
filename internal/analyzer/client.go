// Package analyzer is the CLI-side client for the analyzed proxy. It posts
// prompts to /api/analyze and degrades to caller-supplied canned output when
// the proxy cannot be reached.
package analyzer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"aictl/pkg/types"
)

// DefaultBaseURL is where a locally run analyzed daemon listens.
const DefaultBaseURL = "http://localhost:8080"

// Client posts analysis prompts to the analyzed daemon.
type Client struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
}

// New constructs a Client. timeout bounds each analyze call; zero means the
// caller's context is the only bound.
func New(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	tr := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        100,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		timeout:    timeout,
		httpClient: &http.Client{Transport: tr, Timeout: 0},
	}
}

// Analyze posts one prompt and returns the model's reply text.
func (c *Client) Analyze(ctx context.Context, prompt, contextID string) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	body, err := json.Marshal(types.AnalyzeRequest{Prompt: prompt, Context: contextID})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/analyze", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", unavailableError{reason: fmt.Sprintf("analysis request timed out after %s", c.timeout)}
		}
		var nerr net.Error
		if errors.As(err, &nerr) && nerr.Timeout() {
			return "", unavailableError{reason: fmt.Sprintf("analysis request timed out after %s", c.timeout)}
		}
		return "", unavailableError{reason: fmt.Sprintf("cannot reach analysis service at %s: %v", c.baseURL, err)}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", unavailableError{reason: fmt.Sprintf("analysis service returned status %d: %s", resp.StatusCode, readErrorMessage(resp.Body))}
	}
	var aresp types.AnalyzeResponse
	if err := json.NewDecoder(resp.Body).Decode(&aresp); err != nil {
		return "", unavailableError{reason: fmt.Sprintf("invalid analysis response: %v", err)}
	}
	return aresp.Response, nil
}

// unavailableError covers every way the proxy can fail to produce an
// analysis. Callers only need to know the AI path is off the table.
type unavailableError struct{ reason string }

func (e unavailableError) Error() string { return e.reason }

// IsUnavailable reports whether err means the AI analysis path failed.
func IsUnavailable(err error) bool {
	_, ok := err.(unavailableError)
	return ok
}

func readErrorMessage(r io.Reader) string {
	b, err := io.ReadAll(io.LimitReader(r, 512))
	if err != nil || len(b) == 0 {
		return ""
	}
	var payload types.ErrorResponse
	if json.Unmarshal(b, &payload) == nil && payload.Error != "" {
		return payload.Error
	}
	return strings.TrimSpace(string(b))
}
