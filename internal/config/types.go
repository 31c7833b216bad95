package config

// Config is the top-level structure loaded from jobdash.yaml. Every value has
// a default, so setup works out of the box once account and repo are set
// (via the file or the JOBDASH_ACCOUNT / JOBDASH_REPO environment variables).
type Config struct {
	// Account is the hosting-platform account that owns the dashboard repo.
	Account string `yaml:"account"`
	// Repo is the repository name under Account.
	Repo string `yaml:"repo"`
	// Description is used when the remote repository is first created.
	Description string `yaml:"description"`
	// Branch is the default branch that Pages publishes from.
	Branch string `yaml:"branch"`

	Git      GitIdentity    `yaml:"git"`
	Site     SiteConfig     `yaml:"site"`
	Search   SearchConfig   `yaml:"search"`
	Schedule ScheduleConfig `yaml:"schedule"`
	Paths    PathsConfig    `yaml:"paths"`
}

// GitIdentity holds the commit identity written into the local repository.
type GitIdentity struct {
	Name  string `yaml:"name"`
	Email string `yaml:"email"`
}

// SiteConfig describes the published dashboard site.
type SiteConfig struct {
	// URL overrides the derived https://<account>.github.io/<repo>/ address.
	URL string `yaml:"url"`
	// Workflow is an optional deployment workflow to trigger after Pages is
	// enabled. Tolerated when it does not exist yet.
	Workflow string `yaml:"workflow"`
}

// SearchConfig drives the update run: which queries to issue, which companies
// earn a bonus, and how titles are scored.
type SearchConfig struct {
	Queries         []string       `yaml:"queries"`
	TargetCompanies []string       `yaml:"target_companies"`
	Keywords        map[string]int `yaml:"keywords"`
	// MinScore is the fit-score threshold below which results are dropped.
	MinScore int `yaml:"min_score"`
	// Location is the location filter passed to the feed, normally "Remote".
	Location string `yaml:"location"`
	// Limit caps results per query.
	Limit int `yaml:"limit"`
}

// ScheduleConfig describes the recurring launchd agents installed by setup.
type ScheduleConfig struct {
	// Times are the daily trigger times in HH:MM, one agent per entry.
	Times []string `yaml:"times"`
	// Program and Args override what the agents execute. When empty the
	// agents invoke this binary's own `update` subcommand.
	Program string   `yaml:"program"`
	Args    []string `yaml:"args"`
	// LabelPrefix namespaces the agent labels, e.g. com.jobdash.update.
	LabelPrefix string `yaml:"label_prefix"`
	// LogDir receives the agents' stdout/stderr log files.
	LogDir string `yaml:"log_dir"`
}

// PathsConfig collects the filesystem locations the tool touches.
type PathsConfig struct {
	// WorkDir is the dashboard repository checkout. Defaults to ".".
	WorkDir string `yaml:"work_dir"`
	// Dashboard is the HTML file carrying the embedded JOBS array.
	Dashboard string `yaml:"dashboard"`
	// Data is the JSON job store next to the dashboard.
	Data string `yaml:"data"`
	// Log is the plain-text update log appended to by `jobdash update`.
	Log string `yaml:"log"`
	// State is the JSON state file tracking what setup installed.
	State string `yaml:"state"`
}

// Slug returns the owner/name identifier of the remote repository.
func (c *Config) Slug() string {
	return c.Account + "/" + c.Repo
}

// RemoteURL returns the clone URL the local origin remote should point at.
func (c *Config) RemoteURL() string {
	return "https://github.com/" + c.Slug() + ".git"
}

// SiteURL returns the published dashboard address, deriving the standard
// Pages URL when no override is configured.
func (c *Config) SiteURL() string {
	if c.Site.URL != "" {
		return c.Site.URL
	}
	return "https://" + c.Account + ".github.io/" + c.Repo + "/"
}
