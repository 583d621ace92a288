package manager

import (
	"context"
	"fmt"
	"slices"

	"bindery/internal/analyzer"
)

// Analyzers returns presentation views of every known analyzer, disabled
// ones included.
func (m *Manager) Analyzers(ctx context.Context) ([]analyzer.Description, error) {
	customData, err := m.store.AnalyzerCustomData(ctx)
	if err != nil {
		return nil, err
	}
	return m.currentRegistry().ListAll(customData), nil
}

// DescribeAnalyzer returns the presentation view of one analyzer.
func (m *Manager) DescribeAnalyzer(ctx context.Context, codename string) (analyzer.Description, error) {
	customData, err := m.store.AnalyzerCustomData(ctx)
	if err != nil {
		return analyzer.Description{}, err
	}
	return m.currentRegistry().Describe(codename, customData)
}

// EnableAnalyzer removes a codename from the persisted disabled list and
// rebuilds the registry.
func (m *Manager) EnableAnalyzer(ctx context.Context, codename string) error {
	if !m.knownCodename(codename) {
		return fmt.Errorf("unknown analyzer %q", codename)
	}
	disabled, err := m.store.DisabledAnalyzers(ctx)
	if err != nil {
		return err
	}
	next := slices.DeleteFunc(disabled, func(c string) bool { return c == codename })
	if err := m.store.SetDisabledAnalyzers(ctx, next); err != nil {
		return err
	}
	return m.rebuildRegistry(ctx)
}

// DisableAnalyzer adds a codename to the persisted disabled list and
// rebuilds the registry. Existing subscriptions of the site stay in the
// store; refresh and download simply skip them until re-enabled.
func (m *Manager) DisableAnalyzer(ctx context.Context, codename string) error {
	if !m.knownCodename(codename) {
		return fmt.Errorf("unknown analyzer %q", codename)
	}
	disabled, err := m.store.DisabledAnalyzers(ctx)
	if err != nil {
		return err
	}
	if !slices.Contains(disabled, codename) {
		disabled = append(disabled, codename)
		slices.Sort(disabled)
	}
	if err := m.store.SetDisabledAnalyzers(ctx, disabled); err != nil {
		return err
	}
	return m.rebuildRegistry(ctx)
}

// SetAnalyzerCustomData validates the proposed data by trial-constructing
// the analyzer, persists it, and rebuilds the registry. Nothing is written
// when validation fails.
func (m *Manager) SetAnalyzerCustomData(ctx context.Context, codename string, data map[string]string) error {
	env := analyzer.Env{Fetcher: m.fetcher}
	if err := analyzer.ValidateCustomData(m.registrations, codename, data, env); err != nil {
		return err
	}
	if err := m.store.SetAnalyzerCustomData(ctx, codename, data); err != nil {
		return err
	}
	return m.rebuildRegistry(ctx)
}

// knownCodename checks the static registration table rather than the
// built registry, so an analyzer whose construction currently fails can
// still be enabled or disabled.
func (m *Manager) knownCodename(codename string) bool {
	for _, registration := range m.registrations {
		if registration.Codename == codename {
			return true
		}
	}
	return false
}
