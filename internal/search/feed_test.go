package search

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Job Search</title>
    <item>
      <title>VP Finance - Stripe</title>
      <link>https://example.com/jobs/1</link>
      <pubDate>Fri, 28 Aug 2026 12:00:00 GMT</pubDate>
      <description>&lt;p&gt;Lead the &lt;b&gt;finance&lt;/b&gt; org.&lt;/p&gt;</description>
    </item>
    <item>
      <title>Director of Financial Systems - Plaid</title>
      <link>https://example.com/jobs/2</link>
      <pubDate>Fri, 28 Aug 2026 11:00:00 GMT</pubDate>
      <description>ERP and systems work</description>
    </item>
    <item>
      <title>Untitled listing</title>
      <link>https://example.com/jobs/3</link>
      <pubDate></pubDate>
      <description></description>
    </item>
  </channel>
</rss>`

func feedServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		assert.Equal(t, "CFO fintech remote", r.URL.Query().Get("q"))
		assert.Equal(t, "Remote", r.URL.Query().Get("l"))
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestSearchParsesFeedItems(t *testing.T) {
	srv := feedServer(t, http.StatusOK, sampleFeed)
	client := NewFeedClientFor(srv.URL)

	results, err := client.Search("CFO fintech remote", "Remote", 25)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, "VP Finance", results[0].Title)
	assert.Equal(t, "Stripe", results[0].Company)
	assert.Equal(t, "https://example.com/jobs/1", results[0].Link)
	assert.Equal(t, "Lead the finance org.", results[0].Snippet, "HTML must be stripped from snippets")

	assert.Equal(t, "Director of Financial Systems", results[1].Title)
	assert.Equal(t, "Plaid", results[1].Company)
}

func TestSearchTitleWithoutCompanySeparator(t *testing.T) {
	srv := feedServer(t, http.StatusOK, sampleFeed)
	client := NewFeedClientFor(srv.URL)

	results, err := client.Search("CFO fintech remote", "Remote", 25)
	require.NoError(t, err)
	assert.Equal(t, "Untitled listing", results[2].Title)
	assert.Equal(t, "Unknown", results[2].Company)
}

func TestSearchRejectsNonOKStatus(t *testing.T) {
	srv := feedServer(t, http.StatusForbidden, "blocked")
	client := NewFeedClientFor(srv.URL)

	_, err := client.Search("CFO fintech remote", "Remote", 25)
	assert.Error(t, err)
}

func TestSearchRejectsMalformedXML(t *testing.T) {
	srv := feedServer(t, http.StatusOK, "<rss><channel><item>")
	client := NewFeedClientFor(srv.URL)

	_, err := client.Search("CFO fintech remote", "Remote", 25)
	assert.Error(t, err)
}

func TestSplitTitle(t *testing.T) {
	title, company := splitTitle("Head of Finance - Growth - Ramp")
	assert.Equal(t, "Head of Finance - Growth", title, "split on the last separator")
	assert.Equal(t, "Ramp", company)
}
