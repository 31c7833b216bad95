package main

import (
	"jobdash/cmd" // Import the cmd package which contains the CLI commands and execution logic
)

// main is the program entry point.
// It delegates to cmd.Execute() which handles command line argument parsing and execution.
//
// The jobdash project automates a personal job-search dashboard published via
// GitHub Pages. It has two halves:
//   - `jobdash setup` provisions everything once: it verifies that git and the
//     GitHub CLI are present (installing gh from its release archives when it
//     is missing), makes sure a gh session is authenticated, initializes the
//     local repository, creates and wires up the remote repository, pushes the
//     dashboard, enables Pages, and installs two launchd agents that run the
//     updater at 08:00 and 18:00 every day.
//   - `jobdash update` is what those agents invoke: it searches job feeds,
//     scores and dedupes the results, updates jobs_data.json, rewrites the
//     JOBS array embedded in index.html, and commits and pushes the changes.
//
// Error handling strategy:
//   - Setup runs a strictly ordered sequence of idempotent steps. A step whose
//     precondition is already satisfied is skipped; a tolerated failure (for
//     example Pages already enabled) is logged and the sequence continues; a
//     fatal failure (git missing and uninstallable, push rejected) aborts the
//     whole run with a non-zero exit status. Nothing is rolled back - the
//     sequence is safe to re-run to reach the same end state.
func main() {
	cmd.Execute()
}
