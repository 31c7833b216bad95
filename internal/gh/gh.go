// Package gh wraps the GitHub CLI: session checks, repository provisioning,
// the Pages API call, and workflow dispatch.
package gh

import (
	"fmt"
	"strings"

	"jobdash/internal/execx"
	"jobdash/internal/logger"
)

// Client runs gh commands from a single working directory.
type Client struct {
	runner execx.Runner
	dir    string
}

// New returns a Client operating from dir.
func New(runner execx.Runner, dir string) *Client {
	return &Client{runner: runner, dir: dir}
}

// Installed reports whether the gh CLI resolves on PATH.
func (c *Client) Installed() bool {
	_, err := c.runner.LookPath("gh")
	return err == nil
}

// Authenticated reports whether gh has an active session.
func (c *Client) Authenticated() bool {
	_, err := c.runner.Run(c.dir, "gh", "auth", "status")
	return err == nil
}

// Login starts the interactive browser login flow. It blocks until the user
// completes or abandons the flow; there is deliberately no timeout.
func (c *Client) Login() error {
	if err := c.runner.RunInteractive(c.dir, "gh", "auth", "login", "--web"); err != nil {
		return fmt.Errorf("gh auth login failed: %w", err)
	}
	return nil
}

// RepoExists reports whether the remote repository slug (owner/name) exists
// and is visible to the current session.
func (c *Client) RepoExists(slug string) bool {
	_, err := c.runner.Run(c.dir, "gh", "repo", "view", slug, "--json", "name")
	return err == nil
}

// CreateRepo creates a public remote repository and attaches it as the origin
// remote of the local checkout in a single gh invocation.
func (c *Client) CreateRepo(slug, description string) error {
	out, err := c.runner.Run(c.dir, "gh", "repo", "create", slug,
		"--public",
		"--description", description,
		"--source", ".",
		"--remote", "origin")
	if err != nil {
		return fmt.Errorf("gh repo create failed: %v\n%s", err, out)
	}
	return nil
}

// PagesEnabled reports whether GitHub Pages is already configured for slug.
// The API returns 404 until it has been enabled once.
func (c *Client) PagesEnabled(slug string) bool {
	_, err := c.runner.Run(c.dir, "gh", "api", "repos/"+slug+"/pages")
	return err == nil
}

// EnablePages asks the platform to build the site from branch's root. An
// "already exists" response is tolerated: it means another run got here first.
func (c *Client) EnablePages(slug, branch string) error {
	out, err := c.runner.Run(c.dir, "gh", "api", "repos/"+slug+"/pages",
		"-X", "POST",
		"-f", "source[branch]="+branch,
		"-f", "source[path]=/")
	if err != nil {
		if strings.Contains(out, "409") || strings.Contains(strings.ToLower(out), "already exists") {
			logger.Debug("[DEBUG] Pages already enabled for %s\n", slug)
			return nil
		}
		return fmt.Errorf("enabling Pages failed: %v\n%s", err, out)
	}
	return nil
}

// TriggerWorkflow dispatches the named workflow. Callers treat failure as
// tolerated because the workflow file may not exist until the first push has
// been processed.
func (c *Client) TriggerWorkflow(name string) error {
	out, err := c.runner.Run(c.dir, "gh", "workflow", "run", name)
	if err != nil {
		return fmt.Errorf("workflow %s could not be triggered: %v\n%s", name, err, out)
	}
	return nil
}

// Version returns the first line of `gh --version`, for the prereq report.
func (c *Client) Version() string {
	out, err := c.runner.Run(c.dir, "gh", "--version")
	if err != nil {
		return "unknown"
	}
	if idx := strings.IndexByte(out, '\n'); idx > 0 {
		return strings.TrimSpace(out[:idx])
	}
	return strings.TrimSpace(out)
}
