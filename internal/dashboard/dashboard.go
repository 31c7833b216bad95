// Package dashboard manages the published artifacts: the JSON job store and
// the JOBS array embedded in the dashboard HTML.
package dashboard

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"

	"jobdash/internal/logger"
)

// Job is one tracked job listing, shaped to match the fields the dashboard
// front end reads from jobs_data.json.
type Job struct {
	ID         int    `json:"id"`
	Company    string `json:"company"`
	Title      string `json:"title"`
	Location   string `json:"location"`
	Salary     string `json:"salary"`
	Remote     string `json:"remote"`
	Link       string `json:"link"`
	Score      int    `json:"score"`
	Reason     string `json:"reason"`
	Discovered string `json:"discovered"`
	Source     string `json:"source"`
	IsNew      bool   `json:"isNew"`
	Status     string `json:"status"`
	Notes      string `json:"notes"`
}

// Store reads and writes the job list at one JSON file path.
type Store struct {
	path string
}

// NewStore returns a Store at path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load returns the stored jobs. A missing or unparsable file yields an empty
// list; a corrupted store should not stop an update run.
func (s *Store) Load() []Job {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return nil
	}
	var jobs []Job
	if err := json.Unmarshal(raw, &jobs); err != nil {
		logger.Warn("[WARN] Could not parse %s, starting fresh: %v\n", s.path, err)
		return nil
	}
	return jobs
}

// Save writes jobs as pretty-printed JSON.
func (s *Store) Save(jobs []Job) error {
	raw, err := json.MarshalIndent(jobs, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling jobs: %w", err)
	}
	if err := os.WriteFile(s.path, raw, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", s.path, err)
	}
	return nil
}

// NextID returns the next job ID, one past the highest stored ID with a floor
// that keeps hand-entered dashboard IDs below 101 untouched.
func NextID(jobs []Job) int {
	next := 100
	for _, j := range jobs {
		if j.ID > next {
			next = j.ID
		}
	}
	return next + 1
}

// MarkStale clears the isNew flag on every job not discovered today.
func MarkStale(jobs []Job, today string) {
	for i := range jobs {
		jobs[i].IsNew = jobs[i].Discovered == today
	}
}

// jobsPattern matches the JOBS constant the dashboard HTML embeds.
var jobsPattern = regexp.MustCompile(`(?s)const JOBS = \[.*?\];`)

// Rebuild rewrites the JOBS array inside the dashboard HTML with the current
// job list. It fails when the HTML is missing or carries no JOBS marker, so a
// broken dashboard never gets silently published.
func Rebuild(htmlPath string, jobs []Job) error {
	html, err := os.ReadFile(htmlPath)
	if err != nil {
		return fmt.Errorf("reading dashboard %s: %w", htmlPath, err)
	}

	jobsJSON, err := json.MarshalIndent(jobs, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling jobs: %w", err)
	}

	if !jobsPattern.Match(html) {
		return fmt.Errorf("no JOBS array found in %s", htmlPath)
	}
	replacement := []byte("const JOBS = " + string(jobsJSON) + ";")
	updated := jobsPattern.ReplaceAllLiteral(html, replacement)

	if err := os.WriteFile(htmlPath, updated, 0644); err != nil {
		return fmt.Errorf("writing dashboard %s: %w", htmlPath, err)
	}
	logger.Debug("[DEBUG] Dashboard %s updated with %d jobs\n", htmlPath, len(jobs))
	return nil
}
