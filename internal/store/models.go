package store

import "time"

// Work is one subscribed comic.
type Work struct {
	WorkID      string
	Title       string
	Description string
	ExtraData   []byte
}

// Volume is one installment of a work. The flag pair forms the download
// state machine documented in the package comment.
type Volume struct {
	WorkID       string
	VolumeID     string
	Name         string
	CreatedTime  time.Time
	IsDownloaded bool
	Gone         bool
}

// WorkUpsert is the scraped shape merged into the store by UpsertWork.
type WorkUpsert struct {
	WorkID      string
	Title       string
	Description string
	ExtraData   []byte
	Volumes     []VolumeUpsert
}

// VolumeUpsert names one volume reported by the latest scrape.
type VolumeUpsert struct {
	VolumeID string
	Name     string
}

// PendingVolume pairs a not-yet-downloaded volume with its work.
type PendingVolume struct {
	Work   Work
	Volume Volume
}

// VolumeStatus aggregates the volume flags of one work.
type VolumeStatus struct {
	Total      int
	Downloaded int
	Gone       int
	LastVolume time.Time
}

// Pending counts volumes still waiting for download.
func (s VolumeStatus) Pending() int {
	return s.Total - s.Downloaded
}
