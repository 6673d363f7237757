package tool

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// HTTPPageFetcher implements PageFetcher by downloading a page and
// extracting its readable text.
type HTTPPageFetcher struct {
	client   *http.Client
	maxChars int
}

type PageFetcherOption func(*HTTPPageFetcher)

// WithPageHTTPClient overrides the HTTP client.
func WithPageHTTPClient(client *http.Client) PageFetcherOption {
	return func(f *HTTPPageFetcher) {
		f.client = client
	}
}

// WithPageMaxChars caps the amount of text returned per page.
func WithPageMaxChars(maxChars int) PageFetcherOption {
	return func(f *HTTPPageFetcher) {
		f.maxChars = maxChars
	}
}

// NewHTTPPageFetcher creates a page fetcher.
func NewHTTPPageFetcher(opts ...PageFetcherOption) *HTTPPageFetcher {
	f := &HTTPPageFetcher{
		client:   &http.Client{Timeout: 10 * time.Second},
		maxChars: 4000,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// FetchText downloads the page and returns its visible text with
// scripts, styles and navigation stripped. The result feeds the
// extraction step as employment evidence; it is free text, so no schema
// validation applies beyond non-emptiness handling by the caller.
func (f *HTTPPageFetcher) FetchText(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "text/html")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("page returned status: %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to parse page: %w", err)
	}

	doc.Find("script, style, nav, footer, noscript").Remove()

	text := doc.Find("body").Text()
	fields := strings.Fields(text)
	text = strings.Join(fields, " ")
	if len(text) > f.maxChars {
		text = text[:f.maxChars]
	}
	return text, nil
}
