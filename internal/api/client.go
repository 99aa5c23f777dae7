package api

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/tixte/tixte-cli/internal/debug"
)

// DefaultTimeout applies uniformly to every dispatched request.
const DefaultTimeout = 30 * time.Second

// RequestEvent describes one completed round trip. It is handed to the
// client's OnRequest hook for traffic logging and inspection.
type RequestEvent struct {
	Method     string
	URL        string
	StatusCode int
	Duration   time.Duration
	Header     http.Header
}

// Client is the Tixte API dispatcher: the single choke point for every
// outbound call. It owns the connection pool and the API key for its
// lifetime; the key is only ever replaced wholesale via RotateKey.
//
// The dispatcher performs no retry, backoff, or circuit breaking. Every
// non-2xx response surfaces to the caller as a typed *APIError.
//
// A Client is safe for concurrent use; concurrent dispatches share only
// the underlying connection pool.
type Client struct {
	BaseURL      string
	UploadDomain string // default domain for uploads
	HTTP         *http.Client
	UserAgent    string

	// OnRequest, when set, is invoked after every completed round trip
	// (including error responses). It must not block.
	OnRequest func(RequestEvent)

	keyMu  sync.RWMutex
	apiKey string

	rateLimitMu   sync.Mutex
	lastRateLimit *RateLimitInfo
}

// New creates a client that authenticates with apiKey and uploads to
// domain by default.
func New(apiKey, domain string) *Client {
	baseTransport, ok := http.DefaultTransport.(*http.Transport)
	if !ok {
		baseTransport = &http.Transport{}
	}
	transport := baseTransport.Clone()
	if transport.TLSClientConfig == nil {
		transport.TLSClientConfig = &tls.Config{}
	} else {
		transport.TLSClientConfig = transport.TLSClientConfig.Clone()
	}
	transport.TLSClientConfig.MinVersion = tls.VersionTLS12

	return &Client{
		BaseURL:      DefaultBaseURL,
		UploadDomain: domain,
		apiKey:       apiKey,
		HTTP: &http.Client{
			Timeout:   DefaultTimeout,
			Transport: transport,
		},
	}
}

// RotateKey replaces the API key for subsequent dispatches. In-flight
// requests keep the key they were issued with.
func (c *Client) RotateKey(apiKey string) {
	c.keyMu.Lock()
	c.apiKey = apiKey
	c.keyMu.Unlock()
}

func (c *Client) currentKey() string {
	c.keyMu.RLock()
	defer c.keyMu.RUnlock()
	return c.apiKey
}

// File is an upload payload: a filename plus its content. It is consumed
// by a single dispatch and carries no other state.
type File struct {
	Name    string
	Content []byte
}

// requestOptions carries the per-call request context: headers, query
// parameters, and at most one of a JSON body or a multipart file set.
type requestOptions struct {
	body    any        // serialized as application/json
	files   []File     // sent as multipart/form-data
	payload any        // payload_json form field accompanying files
	query   url.Values //
	headers http.Header
}

// envelope is the wire shape of every Tixte response body.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *envelopeError  `json:"error"`
}

type envelopeError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// do dispatches a route and unmarshals the envelope's data object into
// result (which may be nil to discard the payload).
func (c *Client) do(ctx context.Context, route Route, opts *requestOptions, result any) error {
	data, err := c.request(ctx, route, opts)
	if err != nil {
		return err
	}
	if result != nil && len(data) > 0 {
		if err := json.Unmarshal(data, result); err != nil {
			return fmt.Errorf("unexpected API response format (JSON decode failed): %w", err)
		}
	}
	return nil
}

// request executes a single HTTP round trip for the route and returns the
// envelope's data object. 2xx returns the decoded payload, everything
// else becomes a typed *APIError. Failed requests are never retried;
// callers decide what to do with rate limits and server errors.
func (c *Client) request(ctx context.Context, route Route, opts *requestOptions) (json.RawMessage, error) {
	if opts == nil {
		opts = &requestOptions{}
	}
	if opts.body != nil && len(opts.files) > 0 {
		return nil, &ConfigurationError{Message: "request cannot carry both a JSON body and files"}
	}

	var bodyReader io.Reader
	contentType := ""
	switch {
	case len(opts.files) > 0:
		buf, formContentType, err := encodeMultipart(opts.files, opts.payload)
		if err != nil {
			return nil, err
		}
		bodyReader = buf
		contentType = formContentType
	case opts.body != nil:
		encoded, err := json.Marshal(opts.body)
		if err != nil {
			return nil, &ConfigurationError{Message: fmt.Sprintf("request body is not serializable: %v", err)}
		}
		bodyReader = bytes.NewReader(encoded)
		contentType = "application/json"
	}

	requestURL := route.URL(c.BaseURL)
	if len(opts.query) > 0 {
		requestURL += "?" + opts.query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, route.Method, requestURL, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if key := c.currentKey(); key != "" {
		req.Header.Set("Authorization", key)
	}
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	for name, values := range opts.headers {
		for _, v := range values {
			req.Header.Add(name, v)
		}
	}

	start := time.Now()
	resp, err := c.HTTP.Do(req)
	if err != nil {
		if debug.IsEnabled(ctx) {
			slog.Debug("request failed", "method", route.Method, "url", requestURL, "error", err)
		}
		return nil, fmt.Errorf("request failed: %w", err)
	}

	respBody, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	c.recordRateLimit(resp.Header)
	c.emit(RequestEvent{
		Method:     route.Method,
		URL:        requestURL,
		StatusCode: resp.StatusCode,
		Duration:   time.Since(start),
		Header:     resp.Header,
	})
	if debug.IsEnabled(ctx) {
		slog.Debug("request complete", "method", route.Method, "url", requestURL,
			"status", resp.StatusCode, "duration", time.Since(start))
	}

	var env envelope
	envOK := json.Unmarshal(respBody, &env) == nil

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if !envOK {
			return nil, fmt.Errorf("unexpected API response format (not a response envelope)")
		}
		if !env.Success {
			apiErr := &APIError{StatusCode: resp.StatusCode, Kind: KindGeneric}
			applyEnvelopeError(apiErr, env.Error)
			return nil, apiErr
		}
		return env.Data, nil
	}

	apiErr := &APIError{
		StatusCode: resp.StatusCode,
		Kind:       kindFromStatus(resp.StatusCode),
	}
	if envOK {
		applyEnvelopeError(apiErr, env.Error)
	}
	if apiErr.Kind == KindRateLimited {
		if retryAfter, ok := retryAfterDuration(resp.Header); ok {
			apiErr.RetryAfter = retryAfter
		}
	}
	return nil, apiErr
}

func applyEnvelopeError(apiErr *APIError, envErr *envelopeError) {
	if envErr == nil {
		return
	}
	apiErr.Code = envErr.Code
	apiErr.Message = envErr.Message
}

func (c *Client) emit(event RequestEvent) {
	if c.OnRequest != nil {
		c.OnRequest(event)
	}
}

// encodeMultipart builds a multipart/form-data body: an optional
// payload_json field followed by file[i] parts, matching the upload wire
// format the service expects.
func encodeMultipart(files []File, payload any) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, "", &ConfigurationError{Message: fmt.Sprintf("upload payload is not serializable: %v", err)}
		}
		if err := writer.WriteField("payload_json", string(encoded)); err != nil {
			return nil, "", fmt.Errorf("failed to write payload_json field: %w", err)
		}
	}

	for i, file := range files {
		part, err := writer.CreateFormFile(fmt.Sprintf("file[%d]", i), file.Name)
		if err != nil {
			return nil, "", fmt.Errorf("failed to create form file %s: %w", file.Name, err)
		}
		if _, err := part.Write(file.Content); err != nil {
			return nil, "", fmt.Errorf("failed to write file content %s: %w", file.Name, err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to close multipart writer: %w", err)
	}

	return body, writer.FormDataContentType(), nil
}

// DoRaw dispatches an arbitrary request and returns the response verbatim:
// body bytes, headers, and status code, with no envelope decoding and no
// error mapping. The path is joined onto the client's base URL; body, when
// non-nil, is sent as JSON. This backs the raw `api` escape hatch, which
// reports API failures as response bodies rather than CLI errors.
func (c *Client) DoRaw(ctx context.Context, method, path string, body map[string]any) ([]byte, http.Header, int, error) {
	var bodyReader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, nil, 0, &ConfigurationError{Message: fmt.Sprintf("request body is not serializable: %v", err)}
		}
		bodyReader = bytes.NewReader(encoded)
	}

	requestURL := Route{Method: method, Path: path}.URL(c.BaseURL)
	req, err := http.NewRequestWithContext(ctx, method, requestURL, bodyReader)
	if err != nil {
		return nil, nil, 0, fmt.Errorf("failed to create request: %w", err)
	}
	if key := c.currentKey(); key != "" {
		req.Header.Set("Authorization", key)
	}
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}
	if bodyReader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, nil, 0, fmt.Errorf("request failed: %w", err)
	}
	respBody, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if err != nil {
		return nil, nil, 0, fmt.Errorf("failed to read response: %w", err)
	}

	c.recordRateLimit(resp.Header)
	c.emit(RequestEvent{
		Method:     method,
		URL:        requestURL,
		StatusCode: resp.StatusCode,
		Duration:   time.Since(start),
		Header:     resp.Header,
	})
	if debug.IsEnabled(ctx) {
		slog.Debug("request complete", "method", method, "url", requestURL,
			"status", resp.StatusCode, "duration", time.Since(start))
	}
	return respBody, resp.Header, resp.StatusCode, nil
}

// FetchURL downloads raw bytes from an absolute URL (avatars, stored
// assets). No authentication header is attached; asset URLs are
// capability URLs.
func (c *Client) FetchURL(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Kind:       kindFromStatus(resp.StatusCode),
			Message:    fmt.Sprintf("failed to fetch %s", rawURL),
		}
	}
	return io.ReadAll(resp.Body)
}
