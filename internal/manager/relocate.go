package manager

import (
	"context"
	"fmt"

	"bindery/internal/paths"
	"bindery/internal/store"
	"bindery/internal/textutil"
)

// RelocateStorage moves every stored file to the layout described by the
// new storage options, persists the options, and publishes the new
// resolver. Empty arguments keep the current value, so changing only the
// hanzi mode renames in place. The resolver swap is last: readers see the
// old resolver until the move and the option writes are done.
func (m *Manager) RelocateStorage(ctx context.Context, outputDir, backupDir, hanMode string) error {
	next, err := m.buildResolver(ctx, outputDir, backupDir, hanMode)
	if err != nil {
		return fmt.Errorf("build resolver: %w", err)
	}
	old := m.Resolver()

	if err := paths.Relocate(old, next, m.logger); err != nil {
		return fmt.Errorf("relocate storage: %w", err)
	}

	if err := m.store.SetOption(ctx, store.OptOutputDir, next.OutputDir()); err != nil {
		return err
	}
	if err := m.store.SetOption(ctx, store.OptBackupDir, next.BackupDir()); err != nil {
		return err
	}
	if hanMode != "" {
		mode, err := textutil.ParseHanMode(hanMode)
		if err != nil {
			return err
		}
		if err := m.store.SetOption(ctx, store.OptHanMode, string(mode)); err != nil {
			return err
		}
	}

	m.resolver.Store(next)
	m.logger.Info("storage relocated",
		"output_dir", next.OutputDir(), "backup_dir", next.BackupDir())
	return nil
}
