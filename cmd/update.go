package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"jobdash/internal/config"
	"jobdash/internal/dashboard"
	"jobdash/internal/execx"
	"jobdash/internal/git"
	"jobdash/internal/logger"
	"jobdash/internal/search"
)

// updateCmd is what the launchd agents invoke twice a day: search the feeds,
// fold new listings into the store, rebuild the dashboard HTML, and push.
var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Search for new jobs, refresh the dashboard, and push",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}

		ulog := newRunLog(cfg.Paths.Log)
		ulog.printf("%s", strings.Repeat("=", 60))
		ulog.printf("  JOB SEARCH UPDATE %s", time.Now().Format("Monday, January 2, 2006 at 3:04 PM"))
		ulog.printf("%s", strings.Repeat("=", 60))

		store := dashboard.NewStore(cfg.Paths.Data)
		existing := store.Load()
		today := time.Now().Format("01/02/2006")

		client := search.NewFeedClient()
		discovered := search.Discover(client, cfg.Search, existing, dashboard.NextID(existing), today)

		all := append(existing, discovered...)
		dashboard.MarkStale(all, today)
		if err := store.Save(all); err != nil {
			return err
		}
		ulog.printf("Total jobs: %d | New today: %d", len(all), len(discovered))

		if err := dashboard.Rebuild(cfg.Paths.Dashboard, all); err != nil {
			// The data file is already saved; a dashboard rebuild problem
			// should not stop the push.
			ulog.printf("WARNING: %v", err)
		} else {
			ulog.printf("Dashboard HTML updated with latest data")
		}

		g := git.New(execx.ExecRunner{}, cfg.Paths.WorkDir)
		changed, err := g.HasChanges()
		if err != nil {
			return err
		}
		if !changed {
			ulog.printf("No changes to commit")
			return nil
		}
		if err := g.AddAll(); err != nil {
			return err
		}
		if err := g.Commit("Auto-update: " + time.Now().Format("2006-01-02 15:04")); err != nil {
			return err
		}
		if err := g.Push("origin", cfg.Branch, false); err != nil {
			return err
		}
		ulog.printf("Pushed to GitHub, dashboard will auto-deploy via Pages")
		return nil
	},
}

// runLog mirrors every update message to the console and appends it, with a
// timestamp, to the plain-text log file the launchd agents accumulate.
type runLog struct {
	path string
}

func newRunLog(path string) *runLog {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		logger.Debug("[DEBUG] Cannot create log directory for %s: %v\n", path, err)
	}
	return &runLog{path: path}
}

func (l *runLog) printf(format string, a ...any) {
	line := fmt.Sprintf("[%s] %s", time.Now().Format("2006-01-02 15:04:05"), fmt.Sprintf(format, a...))
	logger.Info("%s\n", line)

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return
	}
	defer f.Close()
	_, _ = f.WriteString(line + "\n")
}

func init() {
	rootCmd.AddCommand(updateCmd)
}
