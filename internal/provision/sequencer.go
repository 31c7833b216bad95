// Package provision implements the setup sequence: a fixed ordered list of
// idempotent steps run against git, gh, and launchd. Steps with a satisfied
// precondition are skipped, tolerated failures are logged and the sequence
// continues, and fatal failures abort the run with a non-zero exit status.
package provision

import (
	"errors"

	"jobdash/internal/config"
	"jobdash/internal/execx"
	"jobdash/internal/gh"
	"jobdash/internal/git"
	"jobdash/internal/launchd"
	"jobdash/internal/logger"
	"jobdash/internal/state"
)

// Context carries the configuration and external collaborators every step
// operates on. Steps never reach for globals, which is what makes the
// sequence testable against fakes.
type Context struct {
	Config *config.Config
	State  *state.State
	Runner execx.Runner
	Git    *git.Git
	GH     *gh.Client
	Agents *launchd.Manager

	// ConfigPath is the configuration file this run was loaded from, passed
	// through to the scheduled agents so they read the same file.
	ConfigPath string
}

// Step is one ordered action in the sequence. Check is the idempotency
// predicate: when it reports true the step is already satisfied and Run is
// skipped. Steps without a Check always run; their Run must itself be safe to
// repeat.
type Step struct {
	ID    string
	Title string
	Check func(*Context) (bool, error)
	Run   func(*Context) error
}

// fatalError marks an error the sequence cannot tolerate.
type fatalError struct {
	err error
}

func (e *fatalError) Error() string { return e.err.Error() }
func (e *fatalError) Unwrap() error { return e.err }

// Fatal wraps err so the sequencer aborts instead of continuing.
func Fatal(err error) error {
	if err == nil {
		return nil
	}
	return &fatalError{err: err}
}

// IsFatal reports whether err (anywhere in its chain) aborts the sequence.
func IsFatal(err error) bool {
	var fe *fatalError
	return errors.As(err, &fe)
}

// Sequencer executes steps strictly in order.
type Sequencer struct {
	steps []Step
}

// NewSequencer returns a Sequencer over the given steps.
func NewSequencer(steps []Step) *Sequencer {
	return &Sequencer{steps: steps}
}

// Run executes every step in order, printing numbered progress. It returns
// the first fatal error; tolerated step errors are logged as warnings and the
// sequence moves on. Nothing is rolled back on abort: every step is
// individually idempotent, so rerunning resumes safely.
func (s *Sequencer) Run(ctx *Context) error {
	total := len(s.steps)
	for i, step := range s.steps {
		logger.Step(i+1, total, step.Title)

		if step.Check != nil {
			satisfied, err := step.Check(ctx)
			if err != nil {
				if IsFatal(err) {
					logger.Error("[ERROR] %s: %v\n", step.ID, err)
					return err
				}
				logger.Warn("[WARN] %s check failed, running step anyway: %v\n", step.ID, err)
			} else if satisfied {
				logger.Done("already in place, skipping\n")
				continue
			}
		}

		if err := step.Run(ctx); err != nil {
			if IsFatal(err) {
				logger.Error("[ERROR] %s: %v\n", step.ID, err)
				return err
			}
			logger.Warn("[WARN] %s: %v (continuing)\n", step.ID, err)
			continue
		}
		logger.Done("done\n")
	}
	return nil
}
