package scanner

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectSubprojectsNoMarkersIsSingleProject(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "main.go"), "package main")

	subs, err := DetectSubprojects(context.Background(), root)
	require.NoError(t, err)
	assert.Empty(t, subs)
}

func TestDetectSubprojectsRootMarkerIsSingleProject(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "go.mod"), "module example")
	writeFile(t, filepath.Join(root, "backend", "go.mod"), "module backend")

	subs, err := DetectSubprojects(context.Background(), root)
	require.NoError(t, err)
	assert.Empty(t, subs, "a root-level marker means the whole tree is one project")
}

func TestDetectSubprojectsEnumeratesMarkedSubdirs(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "backend", "go.mod"), "module backend")
	writeFile(t, filepath.Join(root, "frontend", "package.json"), "{}")
	require.NoError(t, os.Mkdir(filepath.Join(root, "docs"), 0o755))

	subs, err := DetectSubprojects(context.Background(), root)
	require.NoError(t, err)
	require.Len(t, subs, 2)

	names := map[string]string{}
	for _, s := range subs {
		names[s.Name] = s.Path
	}
	assert.Equal(t, filepath.Join(root, "backend"), names["backend"])
	assert.Equal(t, filepath.Join(root, "frontend"), names["frontend"])
	_, hasDocs := names["docs"]
	assert.False(t, hasDocs)
}

func TestDetectSubprojectsEnumeratesGitDirectoryMarker(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "a", ".git"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "b", ".git"), 0o755))
	writeFile(t, filepath.Join(root, "c", "Cargo.toml"), "[package]")

	subs, err := DetectSubprojects(context.Background(), root)
	require.NoError(t, err)
	require.Len(t, subs, 3)

	names := map[string]string{}
	for _, s := range subs {
		names[s.Name] = s.Path
	}
	assert.Equal(t, filepath.Join(root, "a"), names["a"])
	assert.Equal(t, filepath.Join(root, "b"), names["b"])
	assert.Equal(t, filepath.Join(root, "c"), names["c"])
}

func TestDetectSubprojectsSkipsExcludedSubdirs(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "node_modules", "pkg", "package.json"), "{}")

	subs, err := DetectSubprojects(context.Background(), root)
	require.NoError(t, err)
	assert.Empty(t, subs)
}

func TestDetectSubprojectsSwiftPackageWithoutToolchainDegradesToSingleProject(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "Package.swift"), "// swift-tools-version:5.9")

	// In this sandbox `swift` is very unlikely to be on PATH; either way the
	// call must not error, only possibly report subprojects.
	subs, err := DetectSubprojects(context.Background(), root)
	require.NoError(t, err)
	_ = subs
}
