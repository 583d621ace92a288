// Package archive packs a finished volume directory into a zip file and
// expands one back for download resumption.
package archive

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Ext is the suffix used for packed volume archives.
const Ext = ".cbz"

// PackDir zips the contents of dir into dest. Entries are stored relative
// to dir. The archive is written to a temporary sibling and renamed so a
// crash mid-pack never leaves a half-written archive at dest.
func PackDir(dir, dest string) error {
	tmp, err := os.CreateTemp(filepath.Dir(dest), "."+filepath.Base(dest)+".*")
	if err != nil {
		return fmt.Errorf("create temp archive: %w", err)
	}
	tmpName := tmp.Name()

	writer := zip.NewWriter(tmp)
	walkErr := filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		target, err := writer.Create(filepath.ToSlash(rel))
		if err != nil {
			return fmt.Errorf("add %s: %w", rel, err)
		}
		source, err := os.Open(path)
		if err != nil {
			return err
		}
		defer source.Close()
		_, err = io.Copy(target, source)
		return err
	})

	if walkErr == nil {
		walkErr = writer.Close()
	} else {
		writer.Close()
	}
	if closeErr := tmp.Close(); walkErr == nil {
		walkErr = closeErr
	}
	if walkErr != nil {
		os.Remove(tmpName)
		return fmt.Errorf("pack %s: %w", dir, walkErr)
	}
	if err := os.Rename(tmpName, dest); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename archive into place: %w", err)
	}
	return nil
}

// UnpackInto expands the archive at src into dir, creating dir if needed.
// Entries escaping dir are rejected. Existing files are overwritten.
func UnpackInto(src, dir string) error {
	reader, err := zip.OpenReader(src)
	if err != nil {
		return fmt.Errorf("open archive %s: %w", src, err)
	}
	defer reader.Close()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	for _, entry := range reader.File {
		name := filepath.FromSlash(entry.Name)
		if !filepath.IsLocal(name) {
			return fmt.Errorf("archive entry %q escapes target directory", entry.Name)
		}
		dest := filepath.Join(dir, name)
		if entry.FileInfo().IsDir() {
			if err := os.MkdirAll(dest, 0o755); err != nil {
				return err
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			return err
		}
		if err := extractFile(entry, dest); err != nil {
			return fmt.Errorf("extract %s: %w", entry.Name, err)
		}
	}
	return nil
}

func extractFile(entry *zip.File, dest string) error {
	source, err := entry.Open()
	if err != nil {
		return err
	}
	defer source.Close()

	target, err := os.Create(dest)
	if err != nil {
		return err
	}
	_, copyErr := io.Copy(target, source)
	closeErr := target.Close()
	if copyErr != nil {
		return copyErr
	}
	return closeErr
}

// IsArchivePath reports whether path carries the volume archive suffix.
func IsArchivePath(path string) bool {
	return strings.EqualFold(filepath.Ext(path), Ext)
}

// Exists reports whether an archive file is present at path.
func Exists(path string) (bool, error) {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return !info.IsDir(), nil
}
