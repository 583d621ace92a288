package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"bindery/internal/store"
	"bindery/internal/testsupport"
)

func upsert(workID, title string, volumeIDs ...string) store.WorkUpsert {
	meta := store.WorkUpsert{
		WorkID:      workID,
		Title:       title,
		Description: "desc of " + title,
		ExtraData:   []byte(`{"k":"v"}`),
	}
	for _, id := range volumeIDs {
		meta.Volumes = append(meta.Volumes, store.VolumeUpsert{VolumeID: id, Name: "vol " + id})
	}
	return meta
}

func TestUpsertWorkIdempotent(t *testing.T) {
	s := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	meta := upsert("mh/1", "Berserk", "v1", "v2")
	if err := s.UpsertWork(ctx, meta); err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	before, err := s.VolumesForWork(ctx, "mh/1")
	if err != nil {
		t.Fatalf("VolumesForWork: %v", err)
	}

	if err := s.UpsertWork(ctx, meta); err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	after, err := s.VolumesForWork(ctx, "mh/1")
	if err != nil {
		t.Fatalf("VolumesForWork: %v", err)
	}

	if len(after) != len(before) {
		t.Fatalf("volume count changed: %d -> %d", len(before), len(after))
	}
	for i := range after {
		if after[i].Gone {
			t.Fatalf("volume %s unexpectedly gone", after[i].VolumeID)
		}
		if after[i].IsDownloaded != before[i].IsDownloaded {
			t.Fatalf("volume %s downloaded flag changed", after[i].VolumeID)
		}
		if !after[i].CreatedTime.Equal(before[i].CreatedTime) {
			t.Fatalf("volume %s created_time changed", after[i].VolumeID)
		}
	}
}

func TestUpsertWorkMarksDisappearedVolumesGone(t *testing.T) {
	s := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	if err := s.UpsertWork(ctx, upsert("mh/1", "Berserk", "a", "b")); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := s.SetVolumeDownloaded(ctx, "mh/1", "b", true); err != nil {
		t.Fatalf("SetVolumeDownloaded: %v", err)
	}

	if err := s.UpsertWork(ctx, upsert("mh/1", "Berserk", "a")); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	volumes, err := s.VolumesForWork(ctx, "mh/1")
	if err != nil {
		t.Fatalf("VolumesForWork: %v", err)
	}
	byID := map[string]store.Volume{}
	for _, v := range volumes {
		byID[v.VolumeID] = v
	}
	if byID["a"].Gone {
		t.Fatal("volume a should not be gone")
	}
	if !byID["b"].Gone {
		t.Fatal("volume b should be gone")
	}
	if !byID["b"].IsDownloaded {
		t.Fatal("gone flag must not reset is_downloaded")
	}
}

func TestUpsertWorkTitleConflictLeavesNothingBehind(t *testing.T) {
	s := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	if err := s.UpsertWork(ctx, upsert("mh/1", "Foo", "v1")); err != nil {
		t.Fatalf("first upsert: %v", err)
	}

	err := s.UpsertWork(ctx, upsert("cc/9", "ＦＯＯ", "x1", "x2"))
	if !errors.Is(err, store.ErrTitleConflict) {
		t.Fatalf("expected ErrTitleConflict, got %v", err)
	}

	if _, err := s.GetWork(ctx, "cc/9"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("conflicting work must not be inserted: %v", err)
	}
	volumes, err := s.VolumesForWork(ctx, "cc/9")
	if err != nil {
		t.Fatalf("VolumesForWork: %v", err)
	}
	if len(volumes) != 0 {
		t.Fatalf("conflicting volumes must not be inserted: %v", volumes)
	}

	original, err := s.GetWork(ctx, "mh/1")
	if err != nil {
		t.Fatalf("GetWork: %v", err)
	}
	if original.Title != "Foo" || original.Description != "desc of Foo" {
		t.Fatalf("original work mutated: %+v", original)
	}
}

func TestUpsertWorkRefreshesDescriptionAndExtraData(t *testing.T) {
	s := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	if err := s.UpsertWork(ctx, upsert("mh/1", "Berserk", "v1")); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	meta := upsert("mh/1", "Berserk", "v1")
	meta.Description = "updated"
	meta.ExtraData = []byte(`{"session":"abc"}`)
	if err := s.UpsertWork(ctx, meta); err != nil {
		t.Fatalf("refresh upsert: %v", err)
	}

	work, err := s.GetWork(ctx, "mh/1")
	if err != nil {
		t.Fatalf("GetWork: %v", err)
	}
	if work.Description != "updated" {
		t.Fatalf("description not refreshed: %q", work.Description)
	}
	if string(work.ExtraData) != `{"session":"abc"}` {
		t.Fatalf("extra data not round-tripped: %q", work.ExtraData)
	}
}

func TestVolumesPendingDownloadOrdering(t *testing.T) {
	s := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	for _, w := range []struct{ id, title string }{
		{"mh/2", "B title"},
		{"mh/1", "A title"},
		{"mh/3", "C title"},
	} {
		if err := s.UpsertWork(ctx, upsert(w.id, w.title, "v1")); err != nil {
			t.Fatalf("upsert %s: %v", w.id, err)
		}
	}

	pending, err := s.VolumesPendingDownload(ctx)
	if err != nil {
		t.Fatalf("VolumesPendingDownload: %v", err)
	}
	if len(pending) != 3 {
		t.Fatalf("expected 3 pending volumes, got %d", len(pending))
	}
	titles := []string{pending[0].Work.Title, pending[1].Work.Title, pending[2].Work.Title}
	if titles[0] != "A title" || titles[1] != "B title" || titles[2] != "C title" {
		t.Fatalf("wrong order: %v", titles)
	}
}

func TestPendingExcludesDownloadedAndGone(t *testing.T) {
	s := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	if err := s.UpsertWork(ctx, upsert("mh/1", "Berserk", "a", "b", "c")); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := s.SetVolumeDownloaded(ctx, "mh/1", "a", true); err != nil {
		t.Fatalf("SetVolumeDownloaded: %v", err)
	}
	if err := s.UpsertWork(ctx, upsert("mh/1", "Berserk", "a", "b")); err != nil {
		t.Fatalf("upsert dropping c: %v", err)
	}

	pending, err := s.VolumesPendingDownload(ctx)
	if err != nil {
		t.Fatalf("VolumesPendingDownload: %v", err)
	}
	if len(pending) != 1 || pending[0].Volume.VolumeID != "b" {
		t.Fatalf("expected only volume b pending, got %+v", pending)
	}
}

func TestDeleteWorkCascades(t *testing.T) {
	s := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	if err := s.UpsertWork(ctx, upsert("mh/1", "Berserk", "a", "b")); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := s.DeleteWork(ctx, "mh/1"); err != nil {
		t.Fatalf("DeleteWork: %v", err)
	}
	volumes, err := s.VolumesForWork(ctx, "mh/1")
	if err != nil {
		t.Fatalf("VolumesForWork: %v", err)
	}
	if len(volumes) != 0 {
		t.Fatalf("volumes survived cascade: %v", volumes)
	}
	if err := s.DeleteWork(ctx, "mh/1"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestResetAllDownloaded(t *testing.T) {
	s := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	if err := s.UpsertWork(ctx, upsert("mh/1", "Berserk", "a", "b")); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	for _, id := range []string{"a", "b"} {
		if err := s.SetVolumeDownloaded(ctx, "mh/1", id, true); err != nil {
			t.Fatalf("SetVolumeDownloaded: %v", err)
		}
	}
	if err := s.ResetAllDownloaded(ctx, "mh/1"); err != nil {
		t.Fatalf("ResetAllDownloaded: %v", err)
	}
	status, err := s.VolumeStatusFor(ctx, "mh/1")
	if err != nil {
		t.Fatalf("VolumeStatusFor: %v", err)
	}
	if status.Downloaded != 0 || status.Pending() != 2 {
		t.Fatalf("unexpected status after reset: %+v", status)
	}
}

func TestNewWorkIDsOnlyListsPending(t *testing.T) {
	s := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	if err := s.UpsertWork(ctx, upsert("mh/1", "All done", "a")); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := s.UpsertWork(ctx, upsert("mh/2", "Waiting", "a")); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := s.SetVolumeDownloaded(ctx, "mh/1", "a", true); err != nil {
		t.Fatalf("SetVolumeDownloaded: %v", err)
	}

	ids, err := s.NewWorkIDs(ctx)
	if err != nil {
		t.Fatalf("NewWorkIDs: %v", err)
	}
	if len(ids) != 1 || ids[0] != "mh/2" {
		t.Fatalf("expected only mh/2, got %v", ids)
	}

	all, err := s.AllWorkIDs(ctx)
	if err != nil {
		t.Fatalf("AllWorkIDs: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 works, got %v", all)
	}
}

func TestSearchByTitleUsesFolding(t *testing.T) {
	s := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	if err := s.UpsertWork(ctx, upsert("mh/1", "進擊的巨人")); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := s.UpsertWork(ctx, upsert("mh/2", "Berserk")); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	works, err := s.SearchByTitle(ctx, "进击")
	if err != nil {
		t.Fatalf("SearchByTitle: %v", err)
	}
	if len(works) != 1 || works[0].WorkID != "mh/1" {
		t.Fatalf("expected mh/1 only, got %+v", works)
	}
}

func TestVolumeStatusAggregates(t *testing.T) {
	s := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	if err := s.UpsertWork(ctx, upsert("mh/1", "Berserk", "a", "b", "c")); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := s.SetVolumeDownloaded(ctx, "mh/1", "a", true); err != nil {
		t.Fatalf("SetVolumeDownloaded: %v", err)
	}
	if err := s.UpsertWork(ctx, upsert("mh/1", "Berserk", "a", "b")); err != nil {
		t.Fatalf("upsert dropping c: %v", err)
	}

	status, err := s.VolumeStatusFor(ctx, "mh/1")
	if err != nil {
		t.Fatalf("VolumeStatusFor: %v", err)
	}
	if status.Total != 3 || status.Downloaded != 1 || status.Gone != 1 {
		t.Fatalf("unexpected status: %+v", status)
	}
	if status.LastVolume.IsZero() || status.LastVolume.After(time.Now().Add(time.Minute)) {
		t.Fatalf("implausible last volume time: %v", status.LastVolume)
	}
}

func TestOptionsRoundTrip(t *testing.T) {
	s := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	// Seeded defaults are present from first open.
	if got := s.OptionInt(ctx, store.OptThreads, 0); got != 4 {
		t.Fatalf("seeded threads = %d", got)
	}
	if got := s.OptionBool(ctx, store.OptArchiveDownloaded, true); got {
		t.Fatal("archive_downloaded should default to false")
	}

	if err := s.SetOption(ctx, store.OptThreads, 8); err != nil {
		t.Fatalf("SetOption: %v", err)
	}
	if got := s.OptionInt(ctx, store.OptThreads, 0); got != 8 {
		t.Fatalf("threads after set = %d", got)
	}

	if err := s.SetDisabledAnalyzers(ctx, []string{"cc"}); err != nil {
		t.Fatalf("SetDisabledAnalyzers: %v", err)
	}
	disabled, err := s.DisabledAnalyzers(ctx)
	if err != nil {
		t.Fatalf("DisabledAnalyzers: %v", err)
	}
	if len(disabled) != 1 || disabled[0] != "cc" {
		t.Fatalf("disabled = %v", disabled)
	}

	if err := s.SetAnalyzerCustomData(ctx, "mh", map[string]string{"mirror": "a"}); err != nil {
		t.Fatalf("SetAnalyzerCustomData: %v", err)
	}
	data, err := s.AnalyzerCustomData(ctx)
	if err != nil {
		t.Fatalf("AnalyzerCustomData: %v", err)
	}
	if data["mh"]["mirror"] != "a" {
		t.Fatalf("custom data = %v", data)
	}
}
