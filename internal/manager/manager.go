// Package manager orchestrates subscriptions: it resolves entries through
// the analyzer registry, merges scrape results into the store, and drives
// the refresh and download phases.
//
// The manager owns the only goroutines that write to the store. Refresh
// fans metadata fetches out across a bounded pool but a single consumer
// performs every write; download parallelizes page fetches within one
// volume while the volume loop itself stays sequential. Registry and
// resolver are immutable values republished wholesale, so concurrent
// readers never observe a half-updated one.
package manager

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/google/uuid"

	"bindery/internal/analyzer"
	"bindery/internal/fetch"
	"bindery/internal/logging"
	"bindery/internal/paths"
	"bindery/internal/store"
	"bindery/internal/textutil"
)

var (
	// ErrNoAnalyzer reports that no enabled analyzer claims an entry.
	ErrNoAnalyzer = errors.New("no analyzer matches entry")

	// ErrNotSubscribed reports that an entry resolves to a work that is
	// not in the store.
	ErrNotSubscribed = errors.New("work not subscribed")
)

// Manager coordinates the registry, store, resolver, and fetch client.
type Manager struct {
	store         *store.Store
	fetcher       *fetch.Client
	logger        *slog.Logger
	registrations []analyzer.Registration

	registry atomic.Pointer[analyzer.Registry]
	resolver atomic.Pointer[paths.Resolver]
}

// New builds a manager, constructing the analyzer registry and path
// resolver from the store's persisted options. The registrations slice is
// usually the static table populated by the sites package; tests pass
// their own.
func New(ctx context.Context, st *store.Store, fetcher *fetch.Client, logger *slog.Logger, registrations []analyzer.Registration) (*Manager, error) {
	if logger == nil {
		logger = slog.Default()
	}
	m := &Manager{
		store:         st,
		fetcher:       fetcher,
		registrations: registrations,
		logger: logger.With(
			logging.FieldComponent, "manager",
			"session_id", uuid.NewString()),
	}
	if err := m.rebuildRegistry(ctx); err != nil {
		return nil, err
	}
	if err := m.reloadResolver(ctx); err != nil {
		return nil, err
	}
	return m, nil
}

// Store exposes the underlying store for read-only presentation queries.
func (m *Manager) Store() *store.Store {
	return m.store
}

// Resolver returns the currently published path resolver.
func (m *Manager) Resolver() *paths.Resolver {
	return m.resolver.Load()
}

func (m *Manager) currentRegistry() *analyzer.Registry {
	return m.registry.Load()
}

// WorkURL renders the site URL of a subscribed work. Empty when the
// work's analyzer is unavailable or rejects the id.
func (m *Manager) WorkURL(workID string) string {
	a, ok := m.currentRegistry().ByWorkID(workID)
	if !ok {
		return ""
	}
	url, ok := a.WorkIDToURL(workID)
	if !ok {
		return ""
	}
	return url
}

// rebuildRegistry reconstructs the registry from the persisted disabled
// list and custom data, then publishes it. Called at startup and after
// every analyzer option change; the registry itself is never patched.
func (m *Manager) rebuildRegistry(ctx context.Context) error {
	disabled, err := m.store.DisabledAnalyzers(ctx)
	if err != nil {
		return fmt.Errorf("load disabled analyzers: %w", err)
	}
	customData, err := m.store.AnalyzerCustomData(ctx)
	if err != nil {
		return fmt.Errorf("load analyzer custom data: %w", err)
	}
	registry := analyzer.Build(m.registrations, analyzer.BuildInputs{
		Disabled:   disabled,
		CustomData: customData,
	}, analyzer.Env{Fetcher: m.fetcher}, m.logger)
	m.registry.Store(registry)
	return nil
}

// reloadResolver rebuilds the path resolver from the persisted storage
// options and publishes it.
func (m *Manager) reloadResolver(ctx context.Context) error {
	resolver, err := m.buildResolver(ctx, "", "", "")
	if err != nil {
		return err
	}
	m.resolver.Store(resolver)
	return nil
}

// buildResolver constructs a resolver from persisted options, with any
// non-empty argument overriding the persisted value.
func (m *Manager) buildResolver(ctx context.Context, outputDir, backupDir, hanMode string) (*paths.Resolver, error) {
	if outputDir == "" {
		outputDir = m.store.OptionString(ctx, store.OptOutputDir, "")
	}
	if backupDir == "" {
		backupDir = m.store.OptionString(ctx, store.OptBackupDir, "")
	}
	if hanMode == "" {
		hanMode = m.store.OptionString(ctx, store.OptHanMode, string(textutil.HanOff))
	}
	if outputDir == "" || backupDir == "" {
		return nil, errors.New("output_dir and backup_dir options must be set")
	}
	mode, err := textutil.ParseHanMode(hanMode)
	if err != nil {
		return nil, err
	}
	return paths.NewResolver(outputDir, backupDir, textutil.NewNormalizer(mode)), nil
}

// resolveSubscribed maps an entry to an already subscribed work. A literal
// work id is honored even when its analyzer is currently disabled, so
// unsubscribe and mark-as-new keep working after an analyzer goes away.
func (m *Manager) resolveSubscribed(ctx context.Context, entry string) (*store.Work, error) {
	work, err := m.store.GetWork(ctx, entry)
	if err == nil {
		return work, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}
	_, workID, ok := m.currentRegistry().Resolve(entry)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNoAnalyzer, entry)
	}
	work, err = m.store.GetWork(ctx, workID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("%w: %q", ErrNotSubscribed, entry)
	}
	return work, err
}

func (m *Manager) threads(ctx context.Context) int {
	threads := m.store.OptionInt(ctx, store.OptThreads, 3)
	if threads < 1 {
		threads = 1
	}
	return threads
}
