// Package rest implements the signed request/response transport for the
// Kalshi API.
package rest

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	json "github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/tradewell/kalshi/config"
	"github.com/tradewell/kalshi/errs"
	"github.com/tradewell/kalshi/internal/auth"
)

const maxErrorBody = 4 << 10

// Client issues signed one-shot requests against the exchange REST API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	basePath   string
	keyID      string
	signer     auth.Signer
	limiter    *rate.Limiter
}

// Option customises client construction.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// New constructs a REST client for the given base URL and credentials.
func New(baseURL, keyID string, signer auth.Signer, cfg config.RESTConfig, opts ...Option) (*Client, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	parsed, err := url.Parse(trimmed)
	if err != nil || parsed.Host == "" {
		return nil, errs.Config(fmt.Sprintf("invalid base URL %q", baseURL))
	}
	if signer == nil {
		return nil, errs.Config("request signer required")
	}
	if strings.TrimSpace(keyID) == "" {
		return nil, errs.Config("access key id required")
	}

	rps := cfg.RequestsPerSec
	if rps <= 0 {
		rps = 10
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = int(rps)
	}

	client := &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    trimmed,
		basePath:   parsed.Path,
		keyID:      keyID,
		signer:     signer,
		limiter:    rate.NewLimiter(rate.Limit(rps), burst),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	return client, nil
}

// Get performs a signed GET and decodes the JSON response into out.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

// Post performs a signed POST with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, nil, body, out)
}

// Delete performs a signed DELETE.
func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, out)
}

type apiErrorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	full := c.baseURL + path
	if len(query) > 0 {
		full += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s body: %w", path, err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, full, reader)
	if err != nil {
		return fmt.Errorf("create %s request: %w", path, err)
	}

	// The signature covers the path without the query string.
	header, err := auth.Headers(c.signer, c.keyID, method, c.basePath+path)
	if err != nil {
		return err
	}
	for key, values := range header {
		for _, value := range values {
			req.Header.Set(key, value)
		}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errs.New(errs.CodeNetwork, WithRequest(method, path), errs.WithCause(err))
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= 400 {
		return decodeError(resp, method, path)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

// WithRequest annotates an error envelope with the failing request.
func WithRequest(method, path string) errs.Option {
	return errs.WithMessage(method + " " + path)
}

func decodeError(resp *http.Response, method, path string) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	opts := []errs.Option{
		errs.WithHTTP(resp.StatusCode),
		WithRequest(method, path),
	}
	var parsed apiErrorBody
	if err := json.Unmarshal(raw, &parsed); err == nil && parsed.Error.Code != "" {
		opts = append(opts, errs.WithRawCode(parsed.Error.Code), errs.WithRawMessage(parsed.Error.Message))
	} else if msg := strings.TrimSpace(string(raw)); msg != "" {
		opts = append(opts, errs.WithRawMessage(msg))
	}
	return errs.New(errs.CodeForStatus(resp.StatusCode), opts...)
}
