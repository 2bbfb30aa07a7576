package linkmeta

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// Meta is the OpenGraph preview of a shared link
type Meta struct {
	Title       string
	Description string
	Image       string
}

// Fetcher resolves link previews for posts that share a URL
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*Meta, error)
}

// HTTPFetcher scrapes OpenGraph tags from the linked page
type HTTPFetcher struct {
	client *http.Client
}

func NewHTTPFetcher() *HTTPFetcher {
	return &HTTPFetcher{client: &http.Client{Timeout: 10 * time.Second}}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (*Meta, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build link request: %w", err)
	}
	req.Header.Set("User-Agent", "teamnet-linkbot/1.0")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch link: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("failed to fetch link: status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse link page: %w", err)
	}
	return FromDocument(doc), nil
}

// FromDocument extracts OpenGraph metadata from a parsed page, falling
// back to the document title when og:title is absent
func FromDocument(doc *goquery.Document) *Meta {
	meta := &Meta{
		Title:       metaContent(doc, "og:title"),
		Description: metaContent(doc, "og:description"),
		Image:       metaContent(doc, "og:image"),
	}
	if meta.Title == "" {
		meta.Title = doc.Find("title").First().Text()
	}
	return meta
}

func metaContent(doc *goquery.Document, property string) string {
	content, _ := doc.Find(fmt.Sprintf(`meta[property=%q]`, property)).First().Attr("content")
	return content
}
