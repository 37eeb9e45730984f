package screener

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"dividend-screener/internal/types"
)

const (
	labelClass = "name"
	valueClass = "number"
)

// ratioLabels are matched as substrings of the label text, in this order.
// "ROE" is not a substring of "ROCE", so a "ROCE" label only sets ROCE.
var ratioLabels = []struct {
	needle string
	field  func(*types.ScrapedMetrics) **string
}{
	{"ROCE", func(m *types.ScrapedMetrics) **string { return &m.ROCE }},
	{"ROE", func(m *types.ScrapedMetrics) **string { return &m.ROE }},
	{"P/E", func(m *types.ScrapedMetrics) **string { return &m.PE }},
	{"Dividend Yield", func(m *types.ScrapedMetrics) **string { return &m.DividendYield }},
}

// Extractor reads the ratio list of a Screener.in company page. Labels are
// span.name elements; the value of a label is the first span.number that
// follows it in document order.
type Extractor struct{}

func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract returns every ratio it could read. A label with no value after it
// leaves its field untouched and contributes an ErrMalformedPage to the
// returned error; extraction continues with the next label.
func (e *Extractor) Extract(body []byte) (types.ScrapedMetrics, error) {
	var metrics types.ScrapedMetrics

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return metrics, fmt.Errorf("%w: %v", types.ErrMalformedPage, err)
	}

	// Selector groups match in document order.
	spans := doc.Find("span." + labelClass + ", span." + valueClass)
	n := spans.Length()

	// nextValue[i] is the index of the first value span after i, or -1.
	nextValue := make([]int, n)
	next := -1
	for i := n - 1; i >= 0; i-- {
		nextValue[i] = next
		if spans.Eq(i).HasClass(valueClass) {
			next = i
		}
	}

	var errs []error
	spans.Each(func(i int, s *goquery.Selection) {
		if !s.HasClass(labelClass) {
			return
		}
		label := s.Text()
		for _, rl := range ratioLabels {
			if !strings.Contains(label, rl.needle) {
				continue
			}
			if nextValue[i] < 0 {
				errs = append(errs, fmt.Errorf("%w: no value after label %q", types.ErrMalformedPage, strings.TrimSpace(label)))
				continue
			}
			value := spans.Eq(nextValue[i]).Text()
			*rl.field(&metrics) = &value
		}
	})

	return metrics, errors.Join(errs...)
}
