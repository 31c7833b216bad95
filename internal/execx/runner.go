// Package execx runs external command-line tools. Everything the setup and
// update flows do to git, gh, brew, and launchctl goes through the Runner
// interface so the calling code can be exercised against a fake in tests.
package execx

import (
	"os"
	"os/exec"
	"strings"

	"jobdash/internal/logger"
)

// Runner executes external commands.
type Runner interface {
	// Run executes name with args in dir (empty dir means the current
	// directory) and returns the combined stdout/stderr output.
	Run(dir, name string, args ...string) (string, error)

	// RunInteractive executes a command wired to the caller's terminal.
	// Used for flows that prompt the user, such as `gh auth login`.
	RunInteractive(dir, name string, args ...string) error

	// LookPath reports where name resolves on PATH.
	LookPath(name string) (string, error)
}

// ExecRunner is the real Runner backed by os/exec.
type ExecRunner struct{}

func (ExecRunner) Run(dir, name string, args ...string) (string, error) {
	cmd := exec.Command(name, args...)
	cmd.Dir = dir
	logger.Debug("[DEBUG] Running command: %s\n", strings.Join(cmd.Args, " "))
	output, err := cmd.CombinedOutput()
	return string(output), err
}

func (ExecRunner) RunInteractive(dir, name string, args ...string) error {
	cmd := exec.Command(name, args...)
	cmd.Dir = dir
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	logger.Debug("[DEBUG] Running interactive command: %s\n", strings.Join(cmd.Args, " "))
	return cmd.Run()
}

func (ExecRunner) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}
