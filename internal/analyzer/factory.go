package analyzer

import (
	"fmt"
	"sort"
	"sync"

	"bindery/internal/fetch"
)

// Env carries the shared collaborators handed to every factory.
type Env struct {
	// Fetcher is the process-wide HTTP client. May be nil in tests that
	// never hit the network.
	Fetcher *fetch.Client
	// CustomData is the user-supplied configuration for this analyzer.
	CustomData map[string]string
}

// Result is the tri-state outcome of constructing an analyzer. Exactly one
// of the three constructors below produces it.
type Result struct {
	Analyzer Analyzer
	Disabled bool
	Err      error
}

// OK wraps a successfully constructed analyzer.
func OK(a Analyzer) Result {
	return Result{Analyzer: a}
}

// Disable signals that this analyzer should be silently omitted, for
// example when custom data it requires is absent. The registry skips it
// without a warning.
func Disable() Result {
	return Result{Disabled: true}
}

// Errorf reports a construction failure. The registry logs it and omits
// the analyzer.
func Errorf(format string, args ...any) Result {
	return Result{Err: fmt.Errorf(format, args...)}
}

// Factory constructs one analyzer instance. It must not panic; invalid
// custom data comes back as Errorf.
type Factory func(env Env) Result

// Registration is one row of the static analyzer table. The codename is
// declared here, before construction, so the registry can route persisted
// custom data and black-list state to the right factory.
type Registration struct {
	Codename string
	New      Factory
}

var (
	registryMu sync.Mutex
	table      []Registration
)

// Register adds a row to the static registration table. Site modules call
// this from init, so importing the sites package is all it takes to make
// an analyzer available.
func Register(codename string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	table = append(table, Registration{Codename: codename, New: factory})
}

// RegisteredTable snapshots the registration table.
func RegisteredTable() []Registration {
	registryMu.Lock()
	defer registryMu.Unlock()
	return append([]Registration(nil), table...)
}

func sortedCodenames[T any](m map[string]T) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
