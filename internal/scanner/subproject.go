package scanner

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/codesearchcore/codesearchcore/internal/coreerrors"
)

// Subproject is one independently-indexable unit discovered under a project
// root (spec §4.F). An empty slice from DetectSubprojects means the root
// itself is a single project with no further splitting.
type Subproject struct {
	Name string
	Path string
}

// swiftPackageDump is the subset of `swift package dump-package`'s JSON
// output this package reads.
type swiftPackageDump struct {
	Products []struct {
		Name string `json:"name"`
	} `json:"products"`
}

// DetectSubprojects applies spec §4.F's detection order to root:
//  1. A Package.swift makes root a Swift package; `swift package
//     dump-package` is invoked to list its products. More than one product
//     yields one subproject per product, all rooted at root itself.
//  2. Failing that, a non-Swift project marker (.git, go.mod, ...) at root
//     means root is a single project (empty result).
//  3. Otherwise, every immediate subdirectory carrying a project marker
//     becomes its own subproject.
func DetectSubprojects(ctx context.Context, root string) ([]Subproject, error) {
	if hasFile(root, "Package.swift") {
		products, err := dumpSwiftPackageProducts(ctx, root)
		if err != nil {
			// SubprocessUnavailable/Failed recovers locally (spec §7): a
			// missing or erroring `swift` toolchain degrades to single
			// project rather than failing detection.
			slog.Warn("swift package dump-package unavailable, treating as single project",
				"path", root, "error", err)
			return nil, nil
		}
		if len(products) > 1 {
			subs := make([]Subproject, 0, len(products))
			for _, name := range products {
				subs = append(subs, Subproject{Name: name, Path: root})
			}
			return subs, nil
		}
		return nil, nil
	}

	if hasAnyMarker(root) {
		return nil, nil
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, nil
	}

	var subs []Subproject
	for _, e := range entries {
		if !e.IsDir() || skipEntry(e.Name()) {
			continue
		}
		dir := filepath.Join(root, e.Name())
		if hasAnyMarker(dir) {
			subs = append(subs, Subproject{Name: e.Name(), Path: dir})
		}
	}
	return subs, nil
}

func hasFile(dir, name string) bool {
	info, err := os.Stat(filepath.Join(dir, name))
	return err == nil && !info.IsDir()
}

// hasEntry reports whether dir contains name, file or directory alike.
// Project markers like .git are themselves directories in an ordinary
// checkout, so marker detection can't require a regular file.
func hasEntry(dir, name string) bool {
	_, err := os.Stat(filepath.Join(dir, name))
	return err == nil
}

func hasAnyMarker(dir string) bool {
	for _, marker := range projectMarkers {
		if hasEntry(dir, marker) {
			return true
		}
	}
	return false
}

// dumpSwiftPackageProducts shells out to the Swift toolchain. A missing
// `swift` binary surfaces as ErrCodeSubprocessUnavailable; a non-zero exit
// or unparsable output surfaces as ErrCodeSubprocessFailed. Both are
// recoverable per spec §7 and handled by the caller.
func dumpSwiftPackageProducts(ctx context.Context, path string) ([]string, error) {
	if _, err := exec.LookPath("swift"); err != nil {
		return nil, coreerrors.New(coreerrors.ErrCodeSubprocessUnavailable,
			"swift toolchain not found on PATH", err)
	}

	cmd := exec.CommandContext(ctx, "swift", "package", "--package-path", path, "dump-package")
	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		cause := err
		if errors.As(err, &exitErr) {
			cause = errors.New(string(exitErr.Stderr))
		}
		return nil, coreerrors.Wrap(coreerrors.ErrCodeSubprocessFailed, cause)
	}

	var dump swiftPackageDump
	if err := json.Unmarshal(out, &dump); err != nil {
		return nil, coreerrors.Wrap(coreerrors.ErrCodeSubprocessFailed, err)
	}

	names := make([]string, 0, len(dump.Products))
	for _, p := range dump.Products {
		names = append(names, p.Name)
	}
	return names, nil
}
