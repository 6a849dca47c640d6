package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"balanceScope/internal/scalar"
)

const (
	// DefaultBaseURL points at the public Idena explorer API.
	DefaultBaseURL = "https://api.idena.io/api"

	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "balance-scope/1.0"
)

// Client is a thin explorer API client. It performs single-shot
// requests; retry policies live with the callers in the fetch layer.
type Client struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// NewClient creates an explorer client for the given base URL.
func NewClient(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
		userAgent:  defaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// StatusError reports a non-2xx HTTP response.
type StatusError struct {
	Code int
	URL  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("server returned %d for %s", e.Code, e.URL)
}

// Retryable reports whether the status indicates a server-side failure.
func (e *StatusError) Retryable() bool {
	return e.Code >= 500
}

// IsNotFound reports whether err is an HTTP 404 response.
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == http.StatusNotFound
}

func (c *Client) getJSON(ctx context.Context, rawURL string) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, resp.Body)
		return nil, &StatusError{Code: resp.StatusCode, URL: rawURL}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("invalid JSON from %s", rawURL)
	}
	return json.RawMessage(body), nil
}

// TxPage fetches one page of the address transaction feed. An empty
// token requests the first page.
func (c *Client) TxPage(ctx context.Context, address string, limit int, token string) (json.RawMessage, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	if token != "" {
		q.Set("continuationToken", token)
	}
	u := fmt.Sprintf("%s/Address/%s/Txs?%s", c.baseURL, url.PathEscape(address), q.Encode())
	return c.getJSON(ctx, u)
}

// TxDetail fetches the detail record for one transaction hash. A 404
// means the transaction is unknown or unconfirmed and yields (nil, nil).
func (c *Client) TxDetail(ctx context.Context, hash string) (json.RawMessage, error) {
	u := fmt.Sprintf("%s/Transaction/%s", c.baseURL, url.PathEscape(hash))
	raw, err := c.getJSON(ctx, u)
	if IsNotFound(err) {
		return nil, nil
	}
	return raw, err
}

// Balance fetches the current absolute balance of an address. The value
// is probed at the top level, then under a result or data envelope.
func (c *Client) Balance(ctx context.Context, address string) (decimal.Decimal, bool, error) {
	u := fmt.Sprintf("%s/Address/%s", c.baseURL, url.PathEscape(address))
	raw, err := c.getJSON(ctx, u)
	if err != nil {
		return decimal.Zero, false, err
	}

	var obj map[string]interface{}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return decimal.Zero, false, nil
	}

	cand := scalar.Pick(obj, "balance")
	if cand == nil {
		if res, ok := scalar.Pick(obj, "result").(map[string]interface{}); ok {
			cand = scalar.Pick(res, "balance")
		}
	}
	if cand == nil {
		if dat, ok := scalar.Pick(obj, "data").(map[string]interface{}); ok {
			cand = scalar.Pick(dat, "balance")
		}
	}
	if cand == nil {
		return decimal.Zero, false, nil
	}
	return scalar.ToDecimal(cand), true, nil
}
