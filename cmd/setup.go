package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"jobdash/internal/config"
	"jobdash/internal/execx"
	"jobdash/internal/gh"
	"jobdash/internal/git"
	"jobdash/internal/launchd"
	"jobdash/internal/provision"
	"jobdash/internal/state"
)

// openSite controls whether setup opens the published dashboard in a browser
// once the sequence finishes.
var openSite bool

// setupCmd runs the one-time provisioning sequence. It is safe to re-run:
// every step checks its precondition or is otherwise idempotent.
var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Provision the dashboard repo, Pages site, and update schedule",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		agentsDir, err := launchd.AgentsDir()
		if err != nil {
			return err
		}

		runner := execx.ExecRunner{}
		st := state.Load(cfg.Paths.State)
		ctx := &provision.Context{
			Config: cfg,
			State:  st,
			Runner: runner,
			Git:    git.New(runner, cfg.Paths.WorkDir),
			GH:     gh.New(runner, cfg.Paths.WorkDir),
			Agents: launchd.NewManager(runner, agentsDir),

			ConfigPath: configPath,
		}

		runErr := provision.NewSequencer(provision.Steps()).Run(ctx)

		// Persist whatever progress was made even when aborting, so a re-run
		// knows which tools and tasks this setup owns.
		state.Save(cfg.Paths.State, st)
		if runErr != nil {
			return runErr
		}

		provision.PrintSummary(ctx)
		if openSite {
			provision.OpenSite(ctx, 3*time.Second)
		}
		return nil
	},
}

func init() {
	setupCmd.Flags().BoolVar(&openSite, "open", false, "Open the dashboard in a browser when setup finishes")
	rootCmd.AddCommand(setupCmd)
}
