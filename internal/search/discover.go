package search

import (
	"fmt"

	"jobdash/internal/config"
	"jobdash/internal/dashboard"
	"jobdash/internal/logger"
)

// Discover runs every configured query against the feed and returns the new
// jobs worth tracking: unseen (per DedupKey across existing jobs and this
// run) and scoring at or above the configured minimum. IDs are assigned
// starting from nextID. Individual query failures are logged and skipped so
// one flaky feed response does not lose the rest of the run.
func Discover(client *FeedClient, cfg config.SearchConfig, existing []dashboard.Job, nextID int, today string) []dashboard.Job {
	seen := make(map[string]bool, len(existing))
	for _, j := range existing {
		seen[DedupKey(j.Title, j.Company)] = true
	}

	var discovered []dashboard.Job
	logger.Info("[INFO] Running %d search queries...\n", len(cfg.Queries))

	for i, query := range cfg.Queries {
		logger.Info("[INFO]   [%d/%d] Searching: %s\n", i+1, len(cfg.Queries), query)
		results, err := client.Search(query, cfg.Location, cfg.Limit)
		if err != nil {
			logger.Warn("[WARN]   Search failed for %q: %v\n", query, err)
			continue
		}
		logger.Info("[INFO]     Found %d results\n", len(results))

		for _, r := range results {
			key := DedupKey(r.Title, r.Company)
			if seen[key] {
				continue
			}
			seen[key] = true

			// The configured location only filters the feed query. Scoring
			// looks at the listing itself, so the remote bonus is earned by
			// the title, not granted to every result of a remote search.
			score := Score(r.Title, r.Company, "", cfg.Keywords, cfg.TargetCompanies)
			if score < cfg.MinScore {
				continue
			}

			discovered = append(discovered, dashboard.Job{
				ID:         nextID,
				Company:    r.Company,
				Title:      r.Title,
				Location:   cfg.Location,
				Salary:     "TBD",
				Remote:     "Yes",
				Link:       r.Link,
				Score:      score,
				Reason:     fmt.Sprintf("Found via feed search: %q. Auto-scored based on title/company keywords.", query),
				Discovered: today,
				Source:     "general",
				IsNew:      true,
				Status:     "not-applied",
			})
			nextID++
		}
	}
	return discovered
}
