package scanner

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/codesearchcore/codesearchcore/internal/chunker"
)

// FileResult is one discovered source file (spec §4.G step 2).
type FileResult struct {
	// Path is the file's path relative to the scanned root.
	Path string
	// AbsPath is the file's absolute path, for reading content.
	AbsPath string
	// Language is the language tag chunker.LanguageForPath assigned.
	Language string
}

// Walk streams every file under root with a supported extension, skipping
// dot-prefixed and excluded directories (spec §4.G step 2). The channel is
// closed once the walk finishes or ctx is cancelled.
func Walk(ctx context.Context, root string) <-chan FileResult {
	out := make(chan FileResult, 64)

	go func() {
		defer close(out)

		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				// Unreadable entry: skip it and keep walking (spec §7 — per-file
				// failures never fail the whole index job).
				if d != nil && d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			name := d.Name()
			if path != root && skipEntry(name) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if d.IsDir() {
				return nil
			}

			lang, ok := chunker.LanguageForPath(path)
			if !ok {
				return nil
			}

			rel, err := filepath.Rel(root, path)
			if err != nil {
				rel = path
			}

			select {
			case out <- FileResult{Path: rel, AbsPath: path, Language: lang}:
			case <-ctx.Done():
				return ctx.Err()
			}
			return nil
		})
	}()

	return out
}

// IsDir reports whether path exists and is a directory, used to validate a
// project root before indexing (spec §4.G: InvalidProjectPath otherwise).
func IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
