package screener

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/chromedp/chromedp"

	"dividend-screener/internal/store"
	"dividend-screener/internal/types"
)

// BrowserFetcher renders company pages in headless Chrome. It is the
// fallback for pages that only fill the ratio list from JavaScript.
type BrowserFetcher struct {
	baseURL      string
	pathTemplate string
	userAgent    string
	timeout      time.Duration
}

func NewBrowserFetcher(baseURL, pathTemplate, userAgent string, timeout time.Duration) *BrowserFetcher {
	if baseURL == "" {
		baseURL = store.DefaultBaseURL
	}
	if pathTemplate == "" {
		pathTemplate = store.DefaultPathTemplate
	}
	if userAgent == "" {
		userAgent = store.DefaultUserAgent
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &BrowserFetcher{
		baseURL:      strings.TrimRight(baseURL, "/"),
		pathTemplate: pathTemplate,
		userAgent:    userAgent,
		timeout:      timeout,
	}
}

func (f *BrowserFetcher) FetchPage(ctx context.Context, symbol string) ([]byte, error) {
	pageURL := companyURL(f.baseURL, f.pathTemplate, symbol)

	opts := append(chromedp.DefaultExecAllocatorOptions[:], chromedp.UserAgent(f.userAgent))
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	browserCtx, cancelTimeout := context.WithTimeout(browserCtx, f.timeout)
	defer cancelTimeout()

	resp, err := chromedp.RunResponse(browserCtx, chromedp.Navigate(pageURL))
	if err != nil {
		return nil, fmt.Errorf("%w: navigate %s: %v", types.ErrFetchFailed, pageURL, err)
	}
	if resp == nil || resp.Status != http.StatusOK {
		status := 0
		if resp != nil {
			status = int(resp.Status)
		}
		return nil, &types.StatusError{URL: pageURL, StatusCode: status}
	}

	var html string
	if err := chromedp.Run(browserCtx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", types.ErrFetchFailed, pageURL, err)
	}
	return []byte(html), nil
}
