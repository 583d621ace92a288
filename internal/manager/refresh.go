package manager

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bindery/internal/analyzer"
	"bindery/internal/logging"
	"bindery/internal/store"
)

type refreshResult struct {
	meta *analyzer.WorkMetadata
	err  error
}

// RefreshAll re-fetches metadata for every subscribed work. Fetches run on
// a pool bounded by the threads option; a single consumer drains results
// in submission order and performs every store write, so writes are never
// concurrent and the "work i of n" log sequence is stable across runs. A
// work whose analyzer is gone or whose fetch fails is logged and skipped
// without aborting the batch.
func (m *Manager) RefreshAll(ctx context.Context) error {
	works, err := m.store.AllWorks(ctx)
	if err != nil {
		return fmt.Errorf("list works: %w", err)
	}
	if len(works) == 0 {
		m.logger.Info("refresh: no subscriptions")
		return nil
	}

	registry := m.currentRegistry()
	slots := make(chan chan refreshResult, len(works))
	sem := make(chan struct{}, m.threads(ctx))

	go func() {
		defer close(slots)
		for _, work := range works {
			slot := make(chan refreshResult, 1)
			slots <- slot

			a, ok := registry.ByWorkID(work.WorkID)
			if !ok {
				slot <- refreshResult{err: fmt.Errorf("%w: %s", ErrNoAnalyzer, work.WorkID)}
				continue
			}
			sem <- struct{}{}
			go func(workID string) {
				defer func() { <-sem }()
				meta, err := a.FetchWorkMetadata(ctx, workID)
				slot <- refreshResult{meta: meta, err: err}
			}(work.WorkID)
		}
	}()

	index, refreshed := 0, 0
	for slot := range slots {
		work := works[index]
		index++
		result := <-slot
		if result.err != nil {
			m.logger.Warn("refresh skipped",
				logging.FieldWorkID, work.WorkID,
				"title", work.Title,
				"error", result.err.Error())
			continue
		}

		upsert := store.WorkUpsert{
			WorkID:      work.WorkID,
			Title:       result.meta.Title,
			Description: result.meta.Description,
			ExtraData:   result.meta.ExtraData,
		}
		for _, volume := range result.meta.Volumes {
			upsert.Volumes = append(upsert.Volumes, store.VolumeUpsert{
				VolumeID: volume.VolumeID,
				Name:     volume.Name,
			})
		}
		if err := m.store.UpsertWork(ctx, upsert); err != nil {
			if errors.Is(err, store.ErrTitleConflict) {
				m.logger.Warn("refresh skipped, scraped title collides with another work",
					logging.FieldWorkID, work.WorkID, "title", result.meta.Title)
				continue
			}
			return fmt.Errorf("refresh %s: %w", work.WorkID, err)
		}
		refreshed++
		m.logger.Info("refreshed",
			logging.FieldWorkID, work.WorkID,
			"title", result.meta.Title,
			"progress", fmt.Sprintf("%d/%d", index, len(works)))
	}

	if err := m.store.TouchLastRefresh(ctx, time.Now()); err != nil {
		return fmt.Errorf("record refresh time: %w", err)
	}
	m.logger.Info("refresh finished", "refreshed", refreshed, "total", len(works))
	return nil
}
