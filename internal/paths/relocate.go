package paths

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Relocate moves every file under the old resolver's roots to its location
// under the new resolver, re-normalizing each path component on the way.
// Individual move failures are logged and skipped; a source root that will
// not empty out at the end is tolerated silently. The walk runs
// deepest-first so files move before their parent directories are pruned.
func Relocate(old, next *Resolver, logger *slog.Logger) error {
	roots := []struct {
		from string
		to   string
	}{
		{from: old.outputDir, to: next.outputDir},
		{from: old.backupDir, to: next.backupDir},
	}
	for _, root := range roots {
		if err := relocateRoot(root.from, root.to, next, logger); err != nil {
			return err
		}
	}
	return nil
}

// relocateRoot also runs when from and to are the same directory: a
// normalizer change renames entries in place, so the walk must still
// happen and only moves whose destination equals the source are skipped.
func relocateRoot(from, to string, next *Resolver, logger *slog.Logger) error {
	var files, dirs []string
	err := filepath.WalkDir(from, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == from {
			return nil
		}
		if entry.IsDir() {
			dirs = append(dirs, path)
		} else {
			files = append(files, path)
		}
		return nil
	})
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("walk %s: %w", from, err)
	}

	sort.Sort(sort.Reverse(sort.StringSlice(files)))
	for _, path := range files {
		rel, err := filepath.Rel(from, path)
		if err != nil {
			return fmt.Errorf("relative path of %s: %w", path, err)
		}
		dest := filepath.Join(to, renormalize(rel, next))
		if dest == path {
			continue
		}
		if err := moveFile(path, dest); err != nil {
			if logger != nil {
				logger.Warn("relocate skipped file", "path", path, "error", err.Error())
			}
			continue
		}
	}

	// Deepest-first removal of the now hopefully empty source tree. A
	// directory that still has stray contents just stays behind.
	sort.Sort(sort.Reverse(sort.StringSlice(dirs)))
	for _, dir := range dirs {
		_ = os.Remove(dir)
	}
	if from != to {
		_ = os.Remove(from)
	}
	return nil
}

// renormalize rebuilds a relative path by passing every component through
// the destination resolver's normalizer, one component at a time.
func renormalize(rel string, next *Resolver) string {
	components := strings.Split(rel, string(filepath.Separator))
	for i, component := range components {
		components[i] = next.normalizer.Component(component)
	}
	return filepath.Join(components...)
}

// moveFile renames src to dest, overwriting an existing destination file.
// Falls back to copy and delete when the rename crosses filesystems.
func moveFile(src, dest string) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("create %s: %w", filepath.Dir(dest), err)
	}
	if err := os.Rename(src, dest); err == nil {
		return nil
	}
	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("read %s: %w", src, err)
	}
	if err := os.WriteFile(dest, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", dest, err)
	}
	if err := os.Remove(src); err != nil {
		return fmt.Errorf("remove %s: %w", src, err)
	}
	return nil
}

// MergeDir moves the contents of src into dest file-by-file, overwriting
// files that already exist at the destination, then deletes src. Used for
// backup revival on resubscribe.
func MergeDir(src, dest string) error {
	err := filepath.WalkDir(src, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		return moveFile(path, filepath.Join(dest, rel))
	})
	if err != nil {
		return fmt.Errorf("merge %s into %s: %w", src, dest, err)
	}
	return os.RemoveAll(src)
}
