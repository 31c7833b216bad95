package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"jobdash/internal/logger"
)

// Load reads the YAML config file, fills in defaults, and applies overrides
// from the environment (a .env next to the config file is loaded first, so a
// checkout can carry JOBDASH_ACCOUNT without committing it to YAML). A missing
// config file is not an error; defaults plus environment must then carry the
// required values.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	raw, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	case os.IsNotExist(err):
		logger.Debug("[DEBUG] Config file %s not found, using defaults\n", path)
	default:
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	applyDefaults(cfg)

	// godotenv only populates variables that are not already set, so real
	// environment values win over the .env file.
	if err := godotenv.Load(filepath.Join(filepath.Dir(path), ".env")); err == nil {
		logger.Debug("[DEBUG] Loaded .env overrides\n")
	}
	applyEnv(cfg)

	return cfg, nil
}

// Validate checks the values setup cannot run without.
func (c *Config) Validate() error {
	if c.Account == "" {
		return fmt.Errorf("account is required (set it in the config file or JOBDASH_ACCOUNT)")
	}
	if c.Repo == "" {
		return fmt.Errorf("repo is required (set it in the config file or JOBDASH_REPO)")
	}
	return nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("JOBDASH_ACCOUNT"); v != "" {
		cfg.Account = v
	}
	if v := os.Getenv("JOBDASH_REPO"); v != "" {
		cfg.Repo = v
	}
	if v := os.Getenv("JOBDASH_BRANCH"); v != "" {
		cfg.Branch = v
	}
	if v := os.Getenv("JOBDASH_GIT_NAME"); v != "" {
		cfg.Git.Name = v
	}
	if v := os.Getenv("JOBDASH_GIT_EMAIL"); v != "" {
		cfg.Git.Email = v
	}
	if v := os.Getenv("JOBDASH_SITE_URL"); v != "" {
		cfg.Site.URL = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Description == "" {
		cfg.Description = "Executive job search dashboard, auto-updated twice daily"
	}
	if cfg.Branch == "" {
		cfg.Branch = "main"
	}
	if cfg.Search.MinScore == 0 {
		cfg.Search.MinScore = 70
	}
	if cfg.Search.Location == "" {
		cfg.Search.Location = "Remote"
	}
	if cfg.Search.Limit == 0 {
		cfg.Search.Limit = 25
	}
	if len(cfg.Search.Queries) == 0 {
		cfg.Search.Queries = defaultQueries
	}
	if len(cfg.Search.TargetCompanies) == 0 {
		cfg.Search.TargetCompanies = defaultTargetCompanies
	}
	if len(cfg.Search.Keywords) == 0 {
		cfg.Search.Keywords = defaultKeywords
	}
	if len(cfg.Schedule.Times) == 0 {
		cfg.Schedule.Times = []string{"08:00", "18:00"}
	}
	if cfg.Schedule.LabelPrefix == "" {
		cfg.Schedule.LabelPrefix = "com.jobdash.update"
	}
	if cfg.Schedule.LogDir == "" {
		cfg.Schedule.LogDir = filepath.Join(homeDir(), "Library", "Logs", "jobdash")
	}
	if cfg.Paths.WorkDir == "" {
		cfg.Paths.WorkDir = "."
	}
	if cfg.Paths.Dashboard == "" {
		cfg.Paths.Dashboard = filepath.Join(cfg.Paths.WorkDir, "index.html")
	}
	if cfg.Paths.Data == "" {
		cfg.Paths.Data = filepath.Join(cfg.Paths.WorkDir, "jobs_data.json")
	}
	if cfg.Paths.Log == "" {
		cfg.Paths.Log = filepath.Join(cfg.Schedule.LogDir, "update.log")
	}
	if cfg.Paths.State == "" {
		cfg.Paths.State = filepath.Join(homeDir(), ".jobdash", "state.json")
	}
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}

// Default search parameters for an executive finance/fintech search. All of
// these are overridable from the config file.
var defaultQueries = []string{
	"CFO fintech remote",
	"VP Finance fintech remote",
	"VP Finance technology remote",
	"Senior Director Financial Systems remote",
	"Head of Finance fintech remote",
	"Finance Transformation Director remote",
	"Director Finance Technology remote",
	"VP Financial Systems remote",
	"Head Financial Planning Analysis remote",
}

var defaultTargetCompanies = []string{
	"Stripe", "PayPal", "Block", "Brex", "Ramp", "Chime", "Plaid",
	"Marqeta", "Adyen", "Wise", "Snowflake", "Databricks", "ServiceNow",
	"Salesforce", "Workday", "UiPath", "Palantir", "Robinhood", "SoFi",
	"Coinbase", "Intuit", "Instacart", "Affirm",
}

// defaultKeywords maps title keywords to the points they contribute to a
// result's fit score.
var defaultKeywords = map[string]int{
	"vp": 15, "vice president": 15, "head": 14, "senior director": 13,
	"director": 10, "cfo": 18, "cpo": 15, "chief": 16,
	"finance": 12, "financial": 12, "fintech": 10, "technology": 8,
	"systems": 8, "transformation": 10, "strategy": 8, "erp": 10,
	"treasury": 8, "accounting": 6, "planning": 7, "analytics": 7,
	"product": 6, "operations": 6, "risk": 5, "controls": 5,
	"automation": 8, "data": 5, "ai": 8, "digital": 7,
}
