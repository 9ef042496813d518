// Package atomicfile provides the write-temp-then-rename(-then-fsync)
// pattern used by every on-disk store in the core (spec §6/§9): the
// Embedding Cache, the Chunk Store, and the Project Registry all share this
// contract so that a crash mid-write never leaves a torn file behind.
package atomicfile

import (
	"os"
	"path/filepath"
)

// Write atomically replaces the file at path with data: it writes to a
// sibling temp file, renames it into place, then fsyncs the containing
// directory so the rename itself survives a crash.
func Write(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return err
	}
	return SyncDir(dir)
}

// SyncDir fsyncs a directory after a rename into it. Best-effort: some
// platforms/filesystems reject fsync on directories, and callers treat a
// failure here as non-fatal (the rename itself already landed).
func SyncDir(dir string) error {
	f, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Sync()
}
