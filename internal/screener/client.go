package screener

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"dividend-screener/internal/store"
	"dividend-screener/internal/types"
)

// Client fetches Screener.in company pages over plain HTTP
type Client struct {
	baseURL      string
	pathTemplate string
	httpClient   *http.Client
	headers      map[string]string
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL points the client at another host, e.g. a test server
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithPathTemplate sets the company path; {symbol} is replaced per request
func WithPathTemplate(tpl string) ClientOption {
	return func(c *Client) {
		c.pathTemplate = tpl
	}
}

// WithTimeout sets the HTTP client timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		c.headers["User-Agent"] = ua
	}
}

func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient creates a new Screener.in client
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL:      store.DefaultBaseURL,
		pathTemplate: store.DefaultPathTemplate,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		headers: map[string]string{
			"User-Agent":      store.DefaultUserAgent,
			"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
			"Accept-Language": "en-US,en;q=0.5",
			"Accept-Encoding": "gzip, deflate, br, zstd",
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// CompanyURL returns the consolidated company page URL for symbol
func (c *Client) CompanyURL(symbol string) string {
	return companyURL(c.baseURL, c.pathTemplate, symbol)
}

func companyURL(baseURL, pathTemplate, symbol string) string {
	return strings.TrimRight(baseURL, "/") + strings.ReplaceAll(pathTemplate, "{symbol}", url.PathEscape(symbol))
}

// FetchPage retrieves the company page. Any status but 200 is a *types.StatusError.
func (c *Client) FetchPage(ctx context.Context, symbol string) ([]byte, error) {
	pageURL := c.CompanyURL(symbol)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrFetchFailed, err)
	}

	for key, value := range c.headers {
		req.Header.Set(key, value)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &types.StatusError{URL: pageURL, StatusCode: resp.StatusCode}
	}

	body, err := decodeBody(resp.Header.Get("Content-Encoding"), resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", types.ErrFetchFailed, pageURL, err)
	}
	return body, nil
}
