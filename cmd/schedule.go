package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"jobdash/internal/config"
	"jobdash/internal/execx"
	"jobdash/internal/launchd"
	"jobdash/internal/logger"
	"jobdash/internal/provision"
	"jobdash/internal/state"
)

// scheduleCmd manages the recurring launchd agents on their own, without
// re-running the rest of setup.
var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Manage the recurring update schedule",
}

var scheduleInstallCmd = &cobra.Command{
	Use:   "install",
	Short: "Install (or reinstall) the daily update agents",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, st, mgr, err := scheduleDeps()
		if err != nil {
			return err
		}
		ctx := &provision.Context{
			Config: cfg,
			State:  st,
			Runner: execx.ExecRunner{},
			Agents: mgr,

			ConfigPath: configPath,
		}
		err = provision.NewSequencer([]provision.Step{provision.ScheduleStep()}).Run(ctx)
		state.Save(cfg.Paths.State, st)
		return err
	},
}

var scheduleRemoveCmd = &cobra.Command{
	Use:   "remove",
	Short: "Unload and delete the daily update agents",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, st, mgr, err := scheduleDeps()
		if err != nil {
			return err
		}
		for label := range st.Tasks {
			if err := mgr.Remove(label); err != nil {
				return err
			}
			delete(st.Tasks, label)
			logger.Info("[INFO] Removed %s\n", label)
		}
		// Also sweep labels derivable from the current config, in case the
		// state file was lost.
		for _, at := range cfg.Schedule.Times {
			hour, minute, err := provision.ParseTime(at)
			if err != nil {
				continue
			}
			label := fmt.Sprintf("%s.%02d%02d", cfg.Schedule.LabelPrefix, hour, minute)
			if _, statErr := os.Stat(mgr.Path(label)); statErr == nil {
				if err := mgr.Remove(label); err != nil {
					return err
				}
				logger.Info("[INFO] Removed %s\n", label)
			}
		}
		state.Save(cfg.Paths.State, st)
		return nil
	},
}

var scheduleStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether the daily update agents are loaded",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, mgr, err := scheduleDeps()
		if err != nil {
			return err
		}
		for _, at := range cfg.Schedule.Times {
			hour, minute, err := provision.ParseTime(at)
			if err != nil {
				return err
			}
			label := fmt.Sprintf("%s.%02d%02d", cfg.Schedule.LabelPrefix, hour, minute)
			written := "missing"
			if _, err := os.Stat(mgr.Path(label)); err == nil {
				written = "written"
			}
			loaded := "not loaded"
			if mgr.Loaded(label) {
				loaded = "loaded"
			}
			fmt.Printf("%s  %02d:%02d  descriptor %s, %s\n", label, hour, minute, written, loaded)
		}
		return nil
	},
}

func scheduleDeps() (*config.Config, *state.State, *launchd.Manager, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, nil, err
	}
	agentsDir, err := launchd.AgentsDir()
	if err != nil {
		return nil, nil, nil, err
	}
	st := state.Load(cfg.Paths.State)
	return cfg, st, launchd.NewManager(execx.ExecRunner{}, agentsDir), nil
}

func init() {
	scheduleCmd.AddCommand(scheduleInstallCmd)
	scheduleCmd.AddCommand(scheduleRemoveCmd)
	scheduleCmd.AddCommand(scheduleStatusCmd)
	rootCmd.AddCommand(scheduleCmd)
}
