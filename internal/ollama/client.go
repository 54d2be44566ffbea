package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"aictl/pkg/types"
)

const (
	// DefaultBaseURL is the conventional local Ollama endpoint.
	DefaultBaseURL = "http://localhost:11434"
	// listTimeout bounds the cheap /api/tags listing call.
	listTimeout = 5 * time.Second
)

// Client talks to an Ollama server over its native JSON API.
// All requests carry context-based deadlines; the http.Client itself has no
// global timeout so that long generations are bounded per call.
type Client struct {
	baseURL    string
	reqTimeout time.Duration
	httpClient *http.Client
}

// New constructs a Client for baseURL. reqTimeout bounds /api/generate calls;
// zero means no deadline beyond the caller's context.
func New(baseURL string, reqTimeout time.Duration) *Client {
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
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		reqTimeout: reqTimeout,
		httpClient: &http.Client{Transport: tr, Timeout: 0},
	}
}

// BaseURL returns the configured endpoint, mostly for log lines.
func (c *Client) BaseURL() string { return c.baseURL }

// ListModels fetches the model listing from GET /api/tags.
func (c *Client) ListModels(ctx context.Context) ([]types.OllamaModel, error) {
	ctx, cancel := context.WithTimeout(ctx, listTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/tags", nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.classify(err, listTimeout)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, statusError{code: resp.StatusCode, msg: readErrorMessage(resp.Body)}
	}
	var tags types.TagsResponse
	if err := json.NewDecoder(resp.Body).Decode(&tags); err != nil {
		return nil, err
	}
	return tags.Models, nil
}

// Generate runs one blocking completion via POST /api/generate.
// Streaming is forced off: callers expect a single buffered reply.
func (c *Client) Generate(ctx context.Context, greq types.GenerateRequest) (types.GenerateResponse, error) {
	greq.Stream = false
	if c.reqTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.reqTimeout)
		defer cancel()
	}

	body, err := json.Marshal(greq)
	if err != nil {
		return types.GenerateResponse{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return types.GenerateResponse{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return types.GenerateResponse{}, c.classify(err, c.reqTimeout)
	}
	defer resp.Body.Close()
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return types.GenerateResponse{}, ErrModelNotFound(greq.Model)
	case resp.StatusCode != http.StatusOK:
		return types.GenerateResponse{}, statusError{code: resp.StatusCode, msg: readErrorMessage(resp.Body)}
	}
	var gresp types.GenerateResponse
	if err := json.NewDecoder(resp.Body).Decode(&gresp); err != nil {
		return types.GenerateResponse{}, err
	}
	return gresp, nil
}

// classify maps transport failures to the typed errors the CLIs report on.
func (c *Client) classify(err error, deadline time.Duration) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return timeoutError{d: deadline}
	}
	var nerr net.Error
	if errors.As(err, &nerr) && nerr.Timeout() {
		return timeoutError{d: deadline}
	}
	return connectError{url: c.baseURL, err: err}
}

// readErrorMessage pulls the "error" field from an upstream failure body,
// falling back to the raw (truncated) text.
func readErrorMessage(r io.Reader) string {
	b, err := io.ReadAll(io.LimitReader(r, 512))
	if err != nil || len(b) == 0 {
		return ""
	}
	var payload struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(b, &payload) == nil && payload.Error != "" {
		return payload.Error
	}
	return strings.TrimSpace(string(b))
}
