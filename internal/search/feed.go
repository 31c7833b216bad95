// Package search queries job RSS feeds, scores the results against the
// configured keyword weights, and turns the survivors into dashboard jobs.
package search

import (
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"jobdash/internal/logger"
)

// userAgent mimics a desktop browser; the feed rejects generic Go clients.
const userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7)"

// Result is one raw feed item before scoring.
type Result struct {
	Title   string
	Company string
	Link    string
	PubDate string
	Snippet string
}

// rss mirrors the RSS 2.0 envelope the feed returns.
type rss struct {
	Items []rssItem `xml:"channel>item"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	PubDate     string `xml:"pubDate"`
	Description string `xml:"description"`
}

// FeedClient fetches job listings from an RSS search endpoint.
type FeedClient struct {
	baseURL string
	http    *http.Client
}

// NewFeedClient returns a client for the Indeed RSS search feed.
func NewFeedClient() *FeedClient {
	return &FeedClient{
		baseURL: "https://www.indeed.com/rss",
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// NewFeedClientFor returns a client pointed at a custom feed URL, used by
// tests and by anyone proxying the feed.
func NewFeedClientFor(baseURL string) *FeedClient {
	return &FeedClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// Search runs one query against the feed and parses the items. Feed items
// title jobs as "Job Title - Company"; items without the separator keep the
// whole title and an "Unknown" company.
func (c *FeedClient) Search(query, location string, limit int) ([]Result, error) {
	endpoint := fmt.Sprintf("%s?q=%s&l=%s&sort=date&limit=%d",
		c.baseURL, url.QueryEscape(query), url.QueryEscape(location), limit)

	req, err := http.NewRequest(http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("building feed request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("feed request failed: %w", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			logger.Warn("[WARN] Failed to close feed response body: %v\n", cerr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed returned HTTP %d for %q", resp.StatusCode, query)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading feed response: %w", err)
	}

	var doc rss
	if err := xml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parsing feed XML: %w", err)
	}

	results := make([]Result, 0, len(doc.Items))
	for _, item := range doc.Items {
		title, company := splitTitle(item.Title)
		results = append(results, Result{
			Title:   title,
			Company: company,
			Link:    strings.TrimSpace(item.Link),
			PubDate: strings.TrimSpace(item.PubDate),
			Snippet: stripHTML(item.Description),
		})
	}
	logger.Debug("[DEBUG] Feed query %q returned %d items\n", query, len(results))
	return results, nil
}

// splitTitle separates "Job Title - Company" on the last dash.
func splitTitle(raw string) (title, company string) {
	raw = strings.TrimSpace(raw)
	if idx := strings.LastIndex(raw, " - "); idx > 0 {
		return strings.TrimSpace(raw[:idx]), strings.TrimSpace(raw[idx+3:])
	}
	return raw, "Unknown"
}

// stripHTML reduces the HTML snippet in a feed description to plain text.
func stripHTML(fragment string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return strings.TrimSpace(fragment)
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}
