// Package scanner walks project directory trees to find source files (spec
// §4.G step 2) and detects sub-project boundaries within a root, including
// Swift package products (spec §4.F).
package scanner

import "strings"

// excludedDirs lists directory names pruned from both the file walk and
// sub-project enumeration (spec §4.F, §4.G). Dot-prefixed entries are
// pruned unconditionally and aren't part of this list.
var excludedDirs = map[string]bool{
	"node_modules":  true,
	".git":          true,
	".build":        true,
	"build":         true,
	"dist":          true,
	"target":        true,
	".venv":         true,
	"venv":          true,
	"__pycache__":   true,
	".pytest_cache": true,
	"coverage":      true,
	".DS_Store":     true,
}

// projectMarkers are files whose presence in a directory marks it as an
// independently-rooted (non-Swift) project for sub-project detection
// (spec §4.F).
var projectMarkers = []string{
	".git",
	"package.json",
	"pom.xml",
	"build.gradle",
	"Cargo.toml",
	"pyproject.toml",
	"setup.py",
	"go.mod",
	"Gemfile",
	"composer.json",
}

// skipEntry reports whether a directory entry name should be pruned from
// walking or sub-project enumeration: dot-prefixed names, or a name in
// excludedDirs.
func skipEntry(name string) bool {
	if strings.HasPrefix(name, ".") {
		return true
	}
	return excludedDirs[name]
}
