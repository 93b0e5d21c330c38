package executor

import (
	"strings"
	"sync"
)

// Call records one invocation seen by a Fake.
type Call struct {
	Dir  string
	Argv []string
}

// Fake is a scripted Executor for tests. Results are keyed by the command
// name (argv[0]); an OnRun hook can inspect the full call and simulate the
// tool's filesystem side effects.
type Fake struct {
	mu      sync.Mutex
	results map[string]error
	calls   []Call

	// OnRun, when set, runs for every call after the scripted result is
	// looked up. Returning a non-nil error overrides the scripted one.
	OnRun func(c Call) error
}

// NewFake returns a Fake where every command succeeds until scripted
// otherwise.
func NewFake() *Fake {
	return &Fake{results: map[string]error{}}
}

// Fail scripts the named command to return err.
func (f *Fake) Fail(name string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.results[name] = err
}

func (f *Fake) Run(dir string, argv ...string) error {
	f.mu.Lock()
	c := Call{Dir: dir, Argv: append([]string(nil), argv...)}
	f.calls = append(f.calls, c)
	err := f.results[argv[0]]
	hook := f.OnRun
	f.mu.Unlock()

	if hook != nil {
		if hookErr := hook(c); hookErr != nil {
			return hookErr
		}
	}
	return err
}

// Calls returns a copy of every recorded invocation.
func (f *Fake) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// CalledWith reports whether any recorded call started with name.
func (f *Fake) CalledWith(name string) bool {
	for _, c := range f.Calls() {
		if len(c.Argv) > 0 && c.Argv[0] == name {
			return true
		}
	}
	return false
}

// CommandLine renders a call the way it would appear in a shell, for
// assertion messages.
func (c Call) CommandLine() string { return strings.Join(c.Argv, " ") }
