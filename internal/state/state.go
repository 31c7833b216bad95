package state

import (
	"encoding/json" // JSON encoding and decoding of the state file
	"os"
	"path/filepath"

	"jobdash/internal/logger"
)

// ToolState records a prerequisite tool this setup installed itself, so a
// re-run can tell an externally managed install apart from its own.
type ToolState struct {
	Version          string `json:"version"`            // Version string reported at install time
	InstallPath      string `json:"install_path"`       // Absolute path of the installed executable
	InstalledBySetup bool   `json:"installed_by_setup"` // True when jobdash setup performed the install
}

// TaskState records a scheduled-task descriptor loaded into launchd.
type TaskState struct {
	Label     string `json:"label"`      // launchd label, e.g. com.jobdash.update.0800
	PlistPath string `json:"plist_path"` // Descriptor file under ~/Library/LaunchAgents
	Hour      int    `json:"hour"`
	Minute    int    `json:"minute"`
}

// State holds everything setup has done to the machine so far.
type State struct {
	Tools map[string]ToolState `json:"tools"` // Map from tool name to its ToolState
	Tasks map[string]TaskState `json:"tasks"` // Map from launchd label to its TaskState
}

// Load reads the saved state from the JSON file at path. A missing or
// unreadable file yields a fresh empty state; maps are always non-nil.
func Load(path string) *State {
	file, err := os.ReadFile(path)
	if err != nil {
		return &State{
			Tools: make(map[string]ToolState),
			Tasks: make(map[string]TaskState),
		}
	}

	var st State
	_ = json.Unmarshal(file, &st)

	if st.Tools == nil {
		st.Tools = make(map[string]ToolState)
	}
	if st.Tasks == nil {
		st.Tasks = make(map[string]TaskState)
	}
	return &st
}

// Save writes the state as pretty-printed JSON, creating the parent directory
// if needed. Errors are logged rather than propagated: losing state makes the
// next run redo work, it never makes it incorrect.
func Save(path string, st *State) {
	file, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		logger.Error("[ERROR] Failed to marshal state: %v\n", err)
		return
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		logger.Error("[ERROR] Failed to create state directory: %v\n", err)
		return
	}

	logger.Debug("[DEBUG] Writing state to %s\n", path)
	if err := os.WriteFile(path, file, 0644); err != nil {
		logger.Error("[ERROR] Failed to write state file %s: %v\n", path, err)
	}
}
