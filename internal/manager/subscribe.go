package manager

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"bindery/internal/logging"
	"bindery/internal/paths"
	"bindery/internal/store"
)

// Subscribe resolves an entry to an analyzer, fetches the work's metadata,
// and merges it into the store. When a backup directory from an earlier
// unsubscribe exists for the same work, its files are merged back into the
// live work directory so previously downloaded pages survive the
// unsubscribe/resubscribe round trip.
func (m *Manager) Subscribe(ctx context.Context, entry string) (*store.Work, error) {
	a, workID, ok := m.currentRegistry().Resolve(entry)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNoAnalyzer, entry)
	}

	meta, err := a.FetchWorkMetadata(ctx, workID)
	if err != nil {
		return nil, fmt.Errorf("fetch metadata for %s: %w", workID, err)
	}

	upsert := store.WorkUpsert{
		WorkID:      workID,
		Title:       meta.Title,
		Description: meta.Description,
		ExtraData:   meta.ExtraData,
	}
	for _, volume := range meta.Volumes {
		upsert.Volumes = append(upsert.Volumes, store.VolumeUpsert{
			VolumeID: volume.VolumeID,
			Name:     volume.Name,
		})
	}
	if err := m.store.UpsertWork(ctx, upsert); err != nil {
		return nil, fmt.Errorf("subscribe %s: %w", workID, err)
	}

	work, err := m.store.GetWork(ctx, workID)
	if err != nil {
		return nil, err
	}
	if err := m.reviveBackup(work); err != nil {
		m.logger.Warn("backup revival failed",
			logging.FieldWorkID, work.WorkID, "error", err.Error())
	}
	return work, nil
}

// reviveBackup merges a parked backup directory back into the live work
// directory and removes it. A missing backup is the common case and not an
// error.
func (m *Manager) reviveBackup(work *store.Work) error {
	resolver := m.Resolver()
	backup := resolver.BackupWorkDir(work)
	info, err := os.Stat(backup)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("backup path %s is not a directory", backup)
	}
	m.logger.Info("reviving backup", logging.FieldWorkID, work.WorkID, "backup", backup)
	return paths.MergeDir(backup, resolver.WorkDir(work))
}

// Unsubscribe removes a work. With backup the work directory is parked
// under the backup root, replacing any prior backup for the same work;
// without it the directory is deleted. The directory action runs strictly
// before the row delete: a crash in between leaves a row with no files,
// which a re-run cleans up, never files with no row.
func (m *Manager) Unsubscribe(ctx context.Context, entry string, backup bool) error {
	work, err := m.resolveSubscribed(ctx, entry)
	if err != nil {
		return err
	}

	resolver := m.Resolver()
	workDir := resolver.WorkDir(work)
	if backup {
		dest := resolver.BackupWorkDir(work)
		if err := os.RemoveAll(dest); err != nil {
			return fmt.Errorf("clear prior backup %s: %w", dest, err)
		}
		if _, err := os.Stat(workDir); err == nil {
			if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
				return fmt.Errorf("create backup root: %w", err)
			}
			if err := paths.MergeDir(workDir, dest); err != nil {
				return fmt.Errorf("back up %s: %w", work.WorkID, err)
			}
		}
	} else {
		if err := os.RemoveAll(workDir); err != nil {
			return fmt.Errorf("remove %s: %w", workDir, err)
		}
	}

	if err := m.store.DeleteWork(ctx, work.WorkID); err != nil {
		return fmt.Errorf("delete %s: %w", work.WorkID, err)
	}
	m.logger.Info("unsubscribed", logging.FieldWorkID, work.WorkID, "backup", backup)
	return nil
}

// MarkAsNew clears the downloaded flag on every volume of a work so the
// next download run fetches it again.
func (m *Manager) MarkAsNew(ctx context.Context, entry string) error {
	work, err := m.resolveSubscribed(ctx, entry)
	if err != nil {
		return err
	}
	if err := m.store.ResetAllDownloaded(ctx, work.WorkID); err != nil {
		return fmt.Errorf("mark %s as new: %w", work.WorkID, err)
	}
	return nil
}
