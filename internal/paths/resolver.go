package paths

import (
	"fmt"
	"path/filepath"

	"bindery/internal/archive"
	"bindery/internal/store"
	"bindery/internal/textutil"
)

// Resolver computes every on-disk location for one pair of storage roots.
type Resolver struct {
	outputDir  string
	backupDir  string
	normalizer *textutil.Normalizer
}

// NewResolver builds a resolver over the given roots.
func NewResolver(outputDir, backupDir string, normalizer *textutil.Normalizer) *Resolver {
	return &Resolver{
		outputDir:  filepath.Clean(outputDir),
		backupDir:  filepath.Clean(backupDir),
		normalizer: normalizer,
	}
}

// OutputDir returns the live storage root.
func (r *Resolver) OutputDir() string { return r.outputDir }

// BackupDir returns the backup storage root.
func (r *Resolver) BackupDir() string { return r.backupDir }

// WorkDir is the directory holding every volume of a work.
func (r *Resolver) WorkDir(work *store.Work) string {
	return filepath.Join(r.outputDir, r.normalizer.Component(work.Title))
}

// VolumeDir is the directory holding one volume's pages.
func (r *Resolver) VolumeDir(work *store.Work, volume *store.Volume) string {
	return filepath.Join(r.WorkDir(work), r.normalizer.Component(volume.Name))
}

// VolumeArchivePath is the archive file standing in for a packed volume
// directory.
func (r *Resolver) VolumeArchivePath(work *store.Work, volume *store.Volume) string {
	return r.VolumeDir(work, volume) + archive.Ext
}

// PagePath is the destination of one downloaded page.
func (r *Resolver) PagePath(work *store.Work, volume *store.Volume, filename string) string {
	return filepath.Join(r.VolumeDir(work, volume), r.normalizer.Component(filename))
}

// BackupWorkDir is where an unsubscribed work's files are parked. The work
// id is folded into the name so two works that once shared a title can
// never collide in the backup root.
func (r *Resolver) BackupWorkDir(work *store.Work) string {
	label := fmt.Sprintf("%s(%s)", work.Title, work.WorkID)
	return filepath.Join(r.backupDir, r.normalizer.Component(label))
}
