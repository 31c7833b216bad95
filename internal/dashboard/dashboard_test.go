package dashboard

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jobs_data.json")
	store := NewStore(path)

	jobs := []Job{
		{ID: 101, Company: "Stripe", Title: "VP Finance", Score: 80, Status: "not-applied"},
		{ID: 102, Company: "Plaid", Title: "CFO", Score: 71, Status: "applied"},
	}
	require.NoError(t, store.Save(jobs))

	loaded := store.Load()
	assert.Equal(t, jobs, loaded)
}

func TestStoreLoadMissingFile(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "absent.json"))
	assert.Nil(t, store.Load())
}

func TestStoreLoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jobs_data.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))
	assert.Nil(t, NewStore(path).Load())
}

func TestNextID(t *testing.T) {
	assert.Equal(t, 101, NextID(nil), "IDs start above the hand-entered range")
	assert.Equal(t, 101, NextID([]Job{{ID: 7}}))
	assert.Equal(t, 206, NextID([]Job{{ID: 101}, {ID: 205}, {ID: 104}}))
}

func TestMarkStale(t *testing.T) {
	jobs := []Job{
		{ID: 101, Discovered: "08/29/2026", IsNew: true},
		{ID: 102, Discovered: "08/30/2026", IsNew: true},
	}
	MarkStale(jobs, "08/30/2026")
	assert.False(t, jobs[0].IsNew)
	assert.True(t, jobs[1].IsNew)
}

const sampleHTML = `<!DOCTYPE html>
<html>
<head><title>Job Search</title></head>
<body>
<script>
const JOBS = [
  { "id": 1, "title": "stale entry" }
];
const OTHER = 42;
</script>
</body>
</html>`

func TestRebuildReplacesJobsArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.html")
	require.NoError(t, os.WriteFile(path, []byte(sampleHTML), 0644))

	jobs := []Job{{ID: 101, Company: "Stripe", Title: "VP Finance", Salary: "$300k + equity"}}
	require.NoError(t, Rebuild(path, jobs))

	updated, err := os.ReadFile(path)
	require.NoError(t, err)
	html := string(updated)
	assert.NotContains(t, html, "stale entry")
	assert.Contains(t, html, `"title": "VP Finance"`)
	assert.Contains(t, html, `"salary": "$300k + equity"`, "literal dollar signs must survive the rewrite")
	assert.Contains(t, html, "const OTHER = 42;", "content after the JOBS array is preserved")
	assert.Equal(t, 1, strings.Count(html, "const JOBS = "))
}

func TestRebuildIsRepeatable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.html")
	require.NoError(t, os.WriteFile(path, []byte(sampleHTML), 0644))

	jobs := []Job{{ID: 101, Title: "VP Finance"}}
	require.NoError(t, Rebuild(path, jobs))
	require.NoError(t, Rebuild(path, jobs), "a rebuilt dashboard can be rebuilt again")
}

func TestRebuildFailsWithoutMarker(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.html")
	require.NoError(t, os.WriteFile(path, []byte("<html><body>no marker</body></html>"), 0644))

	assert.Error(t, Rebuild(path, nil))
}

func TestRebuildFailsWhenDashboardMissing(t *testing.T) {
	assert.Error(t, Rebuild(filepath.Join(t.TempDir(), "absent.html"), nil))
}
