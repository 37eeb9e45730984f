package screener

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"

	"dividend-screener/internal/store"
	"dividend-screener/internal/types"
)

// CollyFetcher fetches company pages through a colly collector
type CollyFetcher struct {
	baseURL      string
	pathTemplate string
	userAgent    string
	timeout      time.Duration
}

// NewCollyFetcher creates a fetcher with one short-lived collector per page
func NewCollyFetcher(baseURL, pathTemplate, userAgent string, timeout time.Duration) *CollyFetcher {
	if baseURL == "" {
		baseURL = store.DefaultBaseURL
	}
	if pathTemplate == "" {
		pathTemplate = store.DefaultPathTemplate
	}
	if userAgent == "" {
		userAgent = store.DefaultUserAgent
	}
	return &CollyFetcher{
		baseURL:      strings.TrimRight(baseURL, "/"),
		pathTemplate: pathTemplate,
		userAgent:    userAgent,
		timeout:      timeout,
	}
}

func (f *CollyFetcher) FetchPage(ctx context.Context, symbol string) ([]byte, error) {
	pageURL := companyURL(f.baseURL, f.pathTemplate, symbol)

	c := colly.NewCollector(
		colly.StdlibContext(ctx),
		colly.UserAgent(f.userAgent),
		colly.AllowURLRevisit(),
	)
	// Non-2xx responses still reach OnResponse so the status can be checked here.
	c.ParseHTTPErrorResponse = true
	if f.timeout > 0 {
		c.SetRequestTimeout(f.timeout)
	}

	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("Accept", "text/html,application/xhtml+xml")
	})

	var (
		status int
		body   []byte
	)
	c.OnResponse(func(r *colly.Response) {
		status = r.StatusCode
		body = r.Body
	})

	if err := c.Visit(pageURL); err != nil {
		return nil, fmt.Errorf("%w: visit %s: %v", types.ErrFetchFailed, pageURL, err)
	}
	c.Wait()

	if status != http.StatusOK {
		return nil, &types.StatusError{URL: pageURL, StatusCode: status}
	}
	return body, nil
}
