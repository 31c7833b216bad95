package execx

import (
	"fmt"
	"strings"
)

// Call records a single command executed through a FakeRunner.
type Call struct {
	Dir         string
	Name        string
	Args        []string
	Interactive bool
}

// Line renders the call the way it would appear on a shell command line.
func (c Call) Line() string {
	return strings.TrimSpace(c.Name + " " + strings.Join(c.Args, " "))
}

// Result is a canned outcome for a scripted command.
type Result struct {
	Out string
	Err error
}

// FakeRunner is a scripted Runner for tests. Responses are keyed by the full
// command line ("git status --porcelain"); unscripted commands succeed with
// empty output. Missing marks tools that LookPath should report as absent.
type FakeRunner struct {
	Calls     []Call
	Responses map[string]Result
	Missing   map[string]bool
}

// NewFakeRunner returns an empty FakeRunner ready for scripting.
func NewFakeRunner() *FakeRunner {
	return &FakeRunner{
		Responses: make(map[string]Result),
		Missing:   make(map[string]bool),
	}
}

// Script sets the canned result for a command line.
func (f *FakeRunner) Script(line, out string, err error) {
	f.Responses[line] = Result{Out: out, Err: err}
}

func (f *FakeRunner) Run(dir, name string, args ...string) (string, error) {
	call := Call{Dir: dir, Name: name, Args: args}
	f.Calls = append(f.Calls, call)
	res := f.Responses[call.Line()]
	return res.Out, res.Err
}

func (f *FakeRunner) RunInteractive(dir, name string, args ...string) error {
	call := Call{Dir: dir, Name: name, Args: args, Interactive: true}
	f.Calls = append(f.Calls, call)
	return f.Responses[call.Line()].Err
}

func (f *FakeRunner) LookPath(name string) (string, error) {
	if f.Missing[name] {
		return "", fmt.Errorf("exec: %q: executable file not found in $PATH", name)
	}
	return "/usr/local/bin/" + name, nil
}

// CallLines returns every recorded command as a shell-style line, in order.
func (f *FakeRunner) CallLines() []string {
	lines := make([]string, 0, len(f.Calls))
	for _, c := range f.Calls {
		lines = append(lines, c.Line())
	}
	return lines
}

// Ran reports whether any recorded command line starts with prefix.
func (f *FakeRunner) Ran(prefix string) bool {
	for _, line := range f.CallLines() {
		if strings.HasPrefix(line, prefix) {
			return true
		}
	}
	return false
}
