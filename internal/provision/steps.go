package provision

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"jobdash/internal/installer"
	"jobdash/internal/launchd"
	"jobdash/internal/logger"
	"jobdash/internal/state"
)

// Steps returns the full setup sequence in its fixed order.
func Steps() []Step {
	return []Step{
		prereqStep(),
		authStep(),
		localRepoStep(),
		remoteRepoStep(),
		publishStep(),
		pagesStep(),
		ScheduleStep(),
	}
}

// prereqStep verifies git and gh are available, installing gh when missing.
// A missing git is fatal: nothing later can run, and the sequence must stop
// before any network call is attempted.
func prereqStep() Step {
	return Step{
		ID:    "prereqs",
		Title: "Checking required tools",
		Run: func(c *Context) error {
			if !c.Git.Installed() {
				return Fatal(errors.New("git is required but was not found on PATH; install Xcode command line tools or git and re-run"))
			}
			logger.Info("[INFO] git found\n")

			if err := installer.EnsureGH(c.Runner, c.State); err != nil {
				return Fatal(err)
			}
			logger.Info("[INFO] GitHub CLI ready (%s)\n", c.GH.Version())
			return nil
		},
	}
}

// authStep ensures an authenticated gh session, starting the interactive
// browser login when there is none. The login blocks until the user finishes.
func authStep() Step {
	return Step{
		ID:    "auth",
		Title: "Checking GitHub authentication",
		Check: func(c *Context) (bool, error) {
			return c.GH.Authenticated(), nil
		},
		Run: func(c *Context) error {
			logger.Info("[INFO] No active session. Opening browser login...\n")
			if err := c.GH.Login(); err != nil {
				return Fatal(err)
			}
			return nil
		},
	}
}

// localRepoStep initializes the repository when needed and writes the commit
// identity. Identity configuration is cheap and repeat-safe, so it always
// runs; only the init itself is guarded.
func localRepoStep() Step {
	return Step{
		ID:    "local-repo",
		Title: "Configuring local repository",
		Run: func(c *Context) error {
			if c.Git.IsRepo() {
				logger.Info("[INFO] Repository already initialized\n")
			} else {
				if err := c.Git.Init(c.Config.Branch); err != nil {
					return Fatal(err)
				}
				logger.Info("[INFO] Initialized repository on branch %s\n", c.Config.Branch)
			}
			if err := c.Git.SetIdentity(c.Config.Git.Name, c.Config.Git.Email); err != nil {
				return Fatal(err)
			}
			return nil
		},
	}
}

// remoteRepoStep creates the remote repository or, when it already exists,
// reconciles the origin remote to point at it. Creation attaches the remote
// in the same gh invocation.
func remoteRepoStep() Step {
	return Step{
		ID:    "remote-repo",
		Title: "Provisioning remote repository",
		Run: func(c *Context) error {
			slug := c.Config.Slug()
			want := c.Config.RemoteURL()

			if !c.GH.RepoExists(slug) {
				logger.Info("[INFO] Creating %s (public)...\n", slug)
				if err := c.GH.CreateRepo(slug, c.Config.Description); err != nil {
					return Fatal(err)
				}
				return nil
			}

			logger.Info("[INFO] Remote repository %s already exists\n", slug)
			current, err := c.Git.RemoteURL("origin")
			switch {
			case err != nil:
				if err := c.Git.AddRemote("origin", want); err != nil {
					return Fatal(err)
				}
				logger.Info("[INFO] Attached origin remote %s\n", want)
			case current != want:
				if err := c.Git.SetRemoteURL("origin", want); err != nil {
					return Fatal(err)
				}
				logger.Info("[INFO] Repointed origin remote to %s\n", want)
			default:
				logger.Info("[INFO] Origin remote already points at %s\n", want)
			}
			return nil
		},
	}
}

// publishStep stages, commits, and pushes the dashboard. A clean working tree
// is not an error: the commit is skipped and the push still runs to establish
// upstream tracking.
func publishStep() Step {
	return Step{
		ID:    "publish",
		Title: "Publishing dashboard to remote",
		Run: func(c *Context) error {
			changed, err := c.Git.HasChanges()
			if err != nil {
				return Fatal(err)
			}
			if changed {
				if err := c.Git.AddAll(); err != nil {
					return Fatal(err)
				}
				msg := fmt.Sprintf("Publish dashboard: %s", time.Now().Format("2006-01-02 15:04"))
				if err := c.Git.Commit(msg); err != nil {
					return Fatal(err)
				}
				logger.Info("[INFO] Committed local changes\n")
			} else {
				logger.Info("[INFO] No changes to commit\n")
			}
			if err := c.Git.Push("origin", c.Config.Branch, true); err != nil {
				return Fatal(err)
			}
			logger.Info("[INFO] Pushed %s to origin\n", c.Config.Branch)
			return nil
		},
	}
}

// pagesStep enables the Pages build pipeline and optionally kicks an existing
// deployment workflow. Both actions are tolerated failures: Pages may already
// be enabled, and the workflow may not exist until the push is processed.
func pagesStep() Step {
	return Step{
		ID:    "pages",
		Title: "Enabling GitHub Pages",
		Check: func(c *Context) (bool, error) {
			return c.GH.PagesEnabled(c.Config.Slug()), nil
		},
		Run: func(c *Context) error {
			if err := c.GH.EnablePages(c.Config.Slug(), c.Config.Branch); err != nil {
				return err
			}
			logger.Info("[INFO] Pages enabled, site will publish from %s\n", c.Config.Branch)
			if wf := c.Config.Site.Workflow; wf != "" {
				if err := c.GH.TriggerWorkflow(wf); err != nil {
					logger.Warn("[WARN] %v (the workflow appears after the first push; this is fine)\n", err)
				}
			}
			return nil
		},
	}
}

// ScheduleStep renders one launchd task per configured trigger time and loads
// them, replacing any previously loaded task with the same label. It is
// exported so `jobdash schedule install` can run it outside the sequence.
func ScheduleStep() Step {
	return Step{
		ID:    "schedule",
		Title: "Installing recurring update schedule",
		Run: func(c *Context) error {
			program, args, err := scheduleCommand(c)
			if err != nil {
				return Fatal(err)
			}

			for _, at := range c.Config.Schedule.Times {
				hour, minute, err := ParseTime(at)
				if err != nil {
					return Fatal(err)
				}
				task := launchd.Task{
					Label:      fmt.Sprintf("%s.%02d%02d", c.Config.Schedule.LabelPrefix, hour, minute),
					Program:    program,
					Args:       args,
					Hour:       hour,
					Minute:     minute,
					WorkingDir: absWorkDir(c.Config.Paths.WorkDir),
					StdoutPath: filepath.Join(c.Config.Schedule.LogDir, "update.log"),
					StderrPath: filepath.Join(c.Config.Schedule.LogDir, "update.err.log"),
				}
				path, err := c.Agents.Install(task)
				if err != nil {
					return Fatal(err)
				}
				c.State.Tasks[task.Label] = state.TaskState{
					Label:     task.Label,
					PlistPath: path,
					Hour:      hour,
					Minute:    minute,
				}
				logger.Info("[INFO] Scheduled daily update at %02d:%02d (%s)\n", hour, minute, task.Label)
			}
			return nil
		},
	}
}

// scheduleCommand resolves what the launchd agents execute: the configured
// program, or this binary's own update subcommand. The config path is made
// absolute and passed along so the agents read the same file as this run,
// whatever directory launchd starts them in.
func scheduleCommand(c *Context) (string, []string, error) {
	if c.Config.Schedule.Program != "" {
		return c.Config.Schedule.Program, c.Config.Schedule.Args, nil
	}
	self, err := os.Executable()
	if err != nil {
		return "", nil, fmt.Errorf("cannot resolve own executable for the schedule: %w", err)
	}
	args := []string{"update"}
	if c.ConfigPath != "" {
		abs, err := filepath.Abs(c.ConfigPath)
		if err != nil {
			return "", nil, fmt.Errorf("cannot resolve config path for the schedule: %w", err)
		}
		args = append(args, "--config", abs)
	}
	return self, args, nil
}

// ParseTime parses a HH:MM trigger time.
func ParseTime(at string) (hour, minute int, err error) {
	if _, err := fmt.Sscanf(at, "%d:%d", &hour, &minute); err != nil {
		return 0, 0, fmt.Errorf("invalid schedule time %q (want HH:MM)", at)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("schedule time %q out of range", at)
	}
	return hour, minute, nil
}

func absWorkDir(dir string) string {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return dir
	}
	return abs
}
