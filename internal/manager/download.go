package manager

import (
	"context"
	"fmt"
	"os"
	"sync"

	"bindery/internal/analyzer"
	"bindery/internal/archive"
	"bindery/internal/logging"
	"bindery/internal/store"
)

// DownloadPending downloads every volume still waiting, one volume at a
// time in store order. Page fetches within a volume fan out across a pool
// bounded by the threads option. A volume whose page list cannot be
// fetched is logged and skipped; individual page failures leave that page
// absent but do not stop the volume, which is still marked downloaded once
// the pool drains. Re-running with skipExisting retries only the missing
// pages.
func (m *Manager) DownloadPending(ctx context.Context, skipExisting bool) error {
	pending, err := m.store.VolumesPendingDownload(ctx)
	if err != nil {
		return fmt.Errorf("list pending volumes: %w", err)
	}
	if len(pending) == 0 {
		m.logger.Info("download: nothing pending")
		return nil
	}

	registry := m.currentRegistry()
	threads := m.threads(ctx)
	pack := m.store.OptionBool(ctx, store.OptArchiveDownloaded, false)

	downloaded := 0
	for _, item := range pending {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		a, ok := registry.ByWorkID(item.Work.WorkID)
		if !ok {
			m.logger.Warn("download skipped, analyzer unavailable",
				logging.FieldWorkID, item.Work.WorkID)
			continue
		}
		if err := m.downloadVolume(ctx, a.FetchVolumePages, &item, threads, skipExisting, pack); err != nil {
			m.logger.Warn("download skipped",
				logging.FieldWorkID, item.Work.WorkID,
				logging.FieldVolume, item.Volume.Name,
				"error", err.Error())
			continue
		}
		downloaded++
	}
	m.logger.Info("download finished", "volumes", downloaded, "pending", len(pending))
	return nil
}

type pageFetcher func(ctx context.Context, workID, volumeID string, extraData []byte) ([]analyzer.Page, error)

func (m *Manager) downloadVolume(ctx context.Context, fetchPages pageFetcher, item *store.PendingVolume, threads int, skipExisting, pack bool) error {
	resolver := m.Resolver()
	work, volume := &item.Work, &item.Volume
	dir := resolver.VolumeDir(work, volume)
	archivePath := resolver.VolumeArchivePath(work, volume)

	// A leftover archive holds earlier progress. Expand it back into the
	// directory so skipExisting can resume instead of refetching.
	if exists, err := archive.Exists(archivePath); err != nil {
		return err
	} else if exists {
		if err := archive.UnpackInto(archivePath, dir); err != nil {
			return fmt.Errorf("unpack %s: %w", archivePath, err)
		}
		if err := os.Remove(archivePath); err != nil {
			return fmt.Errorf("remove unpacked archive: %w", err)
		}
	}

	pages, err := fetchPages(ctx, work.WorkID, volume.VolumeID, work.ExtraData)
	if err != nil {
		return fmt.Errorf("fetch page list: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	m.logger.Info("downloading volume",
		logging.FieldWorkID, work.WorkID,
		logging.FieldVolume, volume.Name,
		"pages", len(pages))

	var wg sync.WaitGroup
	sem := make(chan struct{}, threads)
	for _, page := range pages {
		dest := resolver.PagePath(work, volume, page.Filename)
		if skipExisting {
			if _, err := os.Stat(dest); err == nil {
				continue
			}
		}
		wg.Add(1)
		sem <- struct{}{}
		go func(url, dest string) {
			defer wg.Done()
			defer func() { <-sem }()
			if err := m.fetcher.SaveTo(ctx, url, dest); err != nil {
				m.logger.Warn("page download failed",
					logging.FieldWorkID, work.WorkID,
					logging.FieldVolume, volume.Name,
					"url", url,
					"error", err.Error())
			}
		}(page.URL, dest)
	}
	wg.Wait()

	// Missing pages are recoverable: the volume counts as downloaded and
	// a later skipExisting run fills the gaps.
	if err := m.store.SetVolumeDownloaded(ctx, work.WorkID, volume.VolumeID, true); err != nil {
		return fmt.Errorf("mark downloaded: %w", err)
	}

	if pack {
		if err := archive.PackDir(dir, archivePath); err != nil {
			return fmt.Errorf("pack %s: %w", dir, err)
		}
		if err := os.RemoveAll(dir); err != nil {
			return fmt.Errorf("remove packed directory: %w", err)
		}
	}
	return nil
}
