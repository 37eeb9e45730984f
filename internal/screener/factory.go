package screener

import (
	"fmt"

	"dividend-screener/internal/interfaces"
	"dividend-screener/internal/store"
)

// NewFetcher creates the fetch backend selected by configuration, rate
// limited when screener.rate_limit_per_second is set
func NewFetcher(cfg *store.Config) (interfaces.PageFetcher, error) {
	if cfg == nil {
		cfg = store.Default()
	}
	sc := cfg.Screener

	var fetcher interfaces.PageFetcher
	switch sc.Backend {
	case "", "HTTP":
		fetcher = NewClient(
			WithBaseURL(sc.BaseURL),
			WithPathTemplate(sc.PathTemplate),
			WithTimeout(cfg.FetchTimeout()),
			WithUserAgent(sc.UserAgent),
		)
	case "COLLY":
		fetcher = NewCollyFetcher(sc.BaseURL, sc.PathTemplate, sc.UserAgent, cfg.FetchTimeout())
	case "BROWSER":
		fetcher = NewBrowserFetcher(sc.BaseURL, sc.PathTemplate, sc.UserAgent, cfg.FetchTimeout())
	default:
		return nil, fmt.Errorf("unknown screener backend: %s (valid options: HTTP, COLLY, BROWSER)", sc.Backend)
	}

	if sc.RateLimitPerSecond > 0 {
		fetcher = NewRateLimitedFetcher(fetcher, sc.RateLimitPerSecond, sc.RateLimitBurst)
	}

	return fetcher, nil
}
