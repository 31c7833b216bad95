// Package launchd writes per-user scheduled-task descriptors (property lists
// under ~/Library/LaunchAgents) and loads them via launchctl so the launchd
// daemon invokes the updater at the configured times.
package launchd

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"jobdash/internal/execx"
	"jobdash/internal/logger"
)

// Task is a declarative descriptor for one daily launchd agent.
type Task struct {
	Label      string   // Unique launchd label, doubles as the plist filename
	Program    string   // Executable to invoke
	Args       []string // Arguments passed to Program
	Hour       int      // Daily trigger hour (0-23)
	Minute     int      // Daily trigger minute
	WorkingDir string   // Directory launchd starts the program in
	StdoutPath string   // Log destination for stdout
	StderrPath string   // Log destination for stderr
}

// plistTemplate is the launchd property-list layout shared by all tasks. Two
// tasks rendered from the same inputs differ only where their fields differ.
var plistTemplate = template.Must(template.New("plist").Parse(`<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
	<key>Label</key>
	<string>{{.Label}}</string>
	<key>ProgramArguments</key>
	<array>
		<string>{{.Program}}</string>
{{- range .Args}}
		<string>{{.}}</string>
{{- end}}
	</array>
	<key>StartCalendarInterval</key>
	<dict>
		<key>Hour</key>
		<integer>{{.Hour}}</integer>
		<key>Minute</key>
		<integer>{{.Minute}}</integer>
	</dict>
	<key>WorkingDirectory</key>
	<string>{{.WorkingDir}}</string>
	<key>StandardOutPath</key>
	<string>{{.StdoutPath}}</string>
	<key>StandardErrorPath</key>
	<string>{{.StderrPath}}</string>
	<key>RunAtLoad</key>
	<false/>
</dict>
</plist>
`))

// Render produces the plist bytes for the task.
func (t Task) Render() ([]byte, error) {
	var buf bytes.Buffer
	if err := plistTemplate.Execute(&buf, t); err != nil {
		return nil, fmt.Errorf("rendering plist for %s: %w", t.Label, err)
	}
	return buf.Bytes(), nil
}

// AgentsDir returns the per-user LaunchAgents directory.
func AgentsDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot locate home directory: %w", err)
	}
	return filepath.Join(home, "Library", "LaunchAgents"), nil
}

// Manager installs and removes task descriptors in one agents directory.
type Manager struct {
	runner execx.Runner
	dir    string
}

// NewManager returns a Manager writing descriptors into dir.
func NewManager(runner execx.Runner, dir string) *Manager {
	return &Manager{runner: runner, dir: dir}
}

// Path returns where the descriptor for label lives.
func (m *Manager) Path(label string) string {
	return filepath.Join(m.dir, label+".plist")
}

// Install writes the task's descriptor, unloads any previously loaded task
// with the same label (ignoring "not loaded" errors), and loads the new one.
// Returns the descriptor path.
func (m *Manager) Install(t Task) (string, error) {
	data, err := t.Render()
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(m.dir, 0755); err != nil {
		return "", fmt.Errorf("cannot create %s: %w", m.dir, err)
	}
	path := m.Path(t.Label)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("cannot write %s: %w", path, err)
	}

	// A stale agent with the same label must be unloaded before the new
	// descriptor is picked up. "Could not find" just means a first install.
	if out, err := m.runner.Run("", "launchctl", "unload", path); err != nil {
		logger.Debug("[DEBUG] launchctl unload %s: %v (%s)\n", path, err, strings.TrimSpace(out))
	}
	if out, err := m.runner.Run("", "launchctl", "load", path); err != nil {
		return "", fmt.Errorf("launchctl load %s failed: %v\n%s", path, err, out)
	}
	return path, nil
}

// Remove unloads the task with label and deletes its descriptor. A missing
// descriptor is not an error.
func (m *Manager) Remove(label string) error {
	path := m.Path(label)
	if out, err := m.runner.Run("", "launchctl", "unload", path); err != nil {
		logger.Debug("[DEBUG] launchctl unload %s: %v (%s)\n", path, err, strings.TrimSpace(out))
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("cannot remove %s: %w", path, err)
	}
	return nil
}

// Loaded reports whether launchd currently knows the label.
func (m *Manager) Loaded(label string) bool {
	_, err := m.runner.Run("", "launchctl", "list", label)
	return err == nil
}
