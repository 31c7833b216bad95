// Package git wraps the version-control CLI for the handful of operations the
// setup and update flows need: identity configuration, repository init,
// remote management, staging, commit, and push.
package git

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"jobdash/internal/execx"
	"jobdash/internal/logger"
)

// Git runs git commands inside a single working directory.
type Git struct {
	runner execx.Runner
	dir    string
}

// New returns a Git bound to the repository checkout at dir.
func New(runner execx.Runner, dir string) *Git {
	return &Git{runner: runner, dir: dir}
}

// Installed reports whether the git CLI resolves on PATH.
func (g *Git) Installed() bool {
	_, err := g.runner.LookPath("git")
	return err == nil
}

// IsRepo reports whether the working directory already has git metadata.
// This is a filesystem check, not a git invocation, so it works before init.
func (g *Git) IsRepo() bool {
	_, err := os.Stat(filepath.Join(g.dir, ".git"))
	return err == nil
}

// Init initializes a new repository with the given initial branch.
func (g *Git) Init(branch string) error {
	out, err := g.runner.Run(g.dir, "git", "init", "--initial-branch="+branch)
	if err != nil {
		return fmt.Errorf("git init failed: %v\n%s", err, out)
	}
	return nil
}

// SetIdentity writes the repo-local commit identity. Empty values are left
// untouched so a globally configured identity keeps working.
func (g *Git) SetIdentity(name, email string) error {
	if name != "" {
		if out, err := g.runner.Run(g.dir, "git", "config", "user.name", name); err != nil {
			return fmt.Errorf("git config user.name failed: %v\n%s", err, out)
		}
	}
	if email != "" {
		if out, err := g.runner.Run(g.dir, "git", "config", "user.email", email); err != nil {
			return fmt.Errorf("git config user.email failed: %v\n%s", err, out)
		}
	}
	return nil
}

// RemoteURL returns the URL of the named remote. The error is non-nil when
// the remote does not exist.
func (g *Git) RemoteURL(name string) (string, error) {
	out, err := g.runner.Run(g.dir, "git", "remote", "get-url", name)
	if err != nil {
		return "", fmt.Errorf("remote %s not configured: %v", name, err)
	}
	return strings.TrimSpace(out), nil
}

// AddRemote attaches a new named remote.
func (g *Git) AddRemote(name, url string) error {
	out, err := g.runner.Run(g.dir, "git", "remote", "add", name, url)
	if err != nil {
		return fmt.Errorf("git remote add failed: %v\n%s", err, out)
	}
	return nil
}

// SetRemoteURL repoints an existing named remote.
func (g *Git) SetRemoteURL(name, url string) error {
	out, err := g.runner.Run(g.dir, "git", "remote", "set-url", name, url)
	if err != nil {
		return fmt.Errorf("git remote set-url failed: %v\n%s", err, out)
	}
	return nil
}

// HasChanges reports whether the working tree has anything to commit. The
// porcelain output is empty for a clean tree.
func (g *Git) HasChanges() (bool, error) {
	out, err := g.runner.Run(g.dir, "git", "status", "--porcelain")
	if err != nil {
		return false, fmt.Errorf("git status failed: %v\n%s", err, out)
	}
	return strings.TrimSpace(out) != "", nil
}

// AddAll stages every change in the working tree.
func (g *Git) AddAll() error {
	out, err := g.runner.Run(g.dir, "git", "add", "-A")
	if err != nil {
		return fmt.Errorf("git add failed: %v\n%s", err, out)
	}
	return nil
}

// Commit records the staged changes. A "nothing to commit" outcome is treated
// as success so callers that already checked HasChanges cannot race the tree.
func (g *Git) Commit(message string) error {
	out, err := g.runner.Run(g.dir, "git", "commit", "-m", message)
	if err != nil {
		if strings.Contains(out, "nothing to commit") {
			logger.Debug("[DEBUG] Commit skipped: nothing to commit\n")
			return nil
		}
		return fmt.Errorf("git commit failed: %v\n%s", err, out)
	}
	return nil
}

// Push publishes branch to the named remote, establishing upstream tracking
// when setUpstream is true.
func (g *Git) Push(remote, branch string, setUpstream bool) error {
	args := []string{"push"}
	if setUpstream {
		args = append(args, "-u")
	}
	args = append(args, remote, branch)
	out, err := g.runner.Run(g.dir, "git", args...)
	if err != nil {
		return fmt.Errorf("git push failed: %v\n%s", err, out)
	}
	return nil
}
