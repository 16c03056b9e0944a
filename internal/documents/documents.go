// Package documents discovers schedule PDFs on facility pages and selects
// the one covering the current season.
package documents

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonathan/family-swim-sf/internal/fetch"
)

// documentCenterPath marks links into the city's document repository. Every
// published schedule PDF lives behind one of these.
const documentCenterPath = "/DocumentCenter/View/"

// defaultHost resolves relative document links.
const defaultHost = "https://sfrecpark.org"

// Document is one downloadable file linked from a facility page.
type Document struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Identity derives the stable identity of the document. A facility replacing
// its schedule PDF publishes it under a new DocumentCenter URL, so the URL
// hash changes and cached schedules keyed on the identity go stale.
func (d Document) Identity() string {
	sum := sha256.Sum256([]byte(d.URL))
	return fmt.Sprintf("%s:%s", slugify(d.Name), hex.EncodeToString(sum[:8]))
}

func slugify(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			b.WriteRune('-')
		}
	}
	return strings.Trim(b.String(), "-")
}

// DiscoverError reports a failed document discovery.
type DiscoverError struct {
	FacilityURL string
	Message     string
	Cause       error
}

func (e *DiscoverError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("document discovery failed for %s: %s: %v", e.FacilityURL, e.Message, e.Cause)
	}
	return fmt.Sprintf("document discovery failed for %s: %s", e.FacilityURL, e.Message)
}

func (e *DiscoverError) Unwrap() error {
	return e.Cause
}

// Discover fetches a facility page and extracts every DocumentCenter link.
// When useBrowser is set and the plain HTTP response looks like an
// unrendered client-side page it retries through a headless browser.
func Discover(ctx context.Context, facilityURL string, useBrowser, verbose bool) ([]Document, error) {
	result, err := fetch.URL(ctx, facilityURL, nil)
	if err != nil {
		return nil, &DiscoverError{FacilityURL: facilityURL, Message: "facility page fetch failed", Cause: err}
	}

	html := result.HTML()
	docs, err := ParseDocuments(html)
	if err != nil {
		return nil, &DiscoverError{FacilityURL: facilityURL, Message: "facility page parse failed", Cause: err}
	}

	if len(docs) == 0 && useBrowser && fetch.ShouldUseBrowser(html) {
		html, err = fetch.WithBrowser(ctx, facilityURL, 60*time.Second, verbose)
		if err != nil {
			return nil, &DiscoverError{FacilityURL: facilityURL, Message: "browser fallback failed", Cause: err}
		}
		docs, err = ParseDocuments(html)
		if err != nil {
			return nil, &DiscoverError{FacilityURL: facilityURL, Message: "rendered page parse failed", Cause: err}
		}
	}
	return docs, nil
}

// ParseDocuments extracts DocumentCenter links from facility page HTML.
// Relative links are resolved against the city site.
func ParseDocuments(html string) ([]Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	var docs []Document
	seen := make(map[string]bool)
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		if !strings.Contains(href, documentCenterPath) {
			return
		}
		if strings.HasPrefix(href, "/") {
			href = defaultHost + href
		}
		if seen[href] {
			return
		}
		seen[href] = true
		docs = append(docs, Document{
			Name: strings.TrimSpace(sel.Text()),
			URL:  href,
		})
	})
	return docs, nil
}
