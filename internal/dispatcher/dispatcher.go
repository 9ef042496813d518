// Package dispatcher exposes the core's single request surface (spec §4.J):
// semantic search, file context lookup, reindex scheduling, and project
// administration, all behind one operation dispatch boundary so any
// transport (RPC, CLI, HTTP) can sit in front of it without touching core
// internals.
package dispatcher

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/codesearchcore/codesearchcore/internal/coreerrors"
	"github.com/codesearchcore/codesearchcore/internal/embedding"
	"github.com/codesearchcore/codesearchcore/internal/indexer"
	"github.com/codesearchcore/codesearchcore/internal/model"
	"github.com/codesearchcore/codesearchcore/internal/queue"
	"github.com/codesearchcore/codesearchcore/internal/registry"
	"github.com/codesearchcore/codesearchcore/internal/vectorindex"
)

// DefaultMaxResults bounds semantic_search when the caller asks for an
// unreasonable or unset max_results.
const DefaultMaxResults = 20

// DefaultContextLines is file_context's default padding (spec §4.J).
const DefaultContextLines = 3

// Dispatcher wires the registry, vector index, queue, and indexer into the
// operation surface of spec §4.J. It owns no mutable state of its own —
// every field is single-writer on its own terms already.
type Dispatcher struct {
	Registry    *registry.Registry
	VectorIndex *vectorindex.Index
	Queue       *queue.Queue
	Indexer     *indexer.Indexer
	Embedder    embedding.Embedder
	Log         *slog.Logger
}

// New creates a Dispatcher from its component dependencies.
func New(reg *registry.Registry, idx *vectorindex.Index, q *queue.Queue, ix *indexer.Indexer, embedder embedding.Embedder, log *slog.Logger) *Dispatcher {
	if log == nil {
		log = slog.Default()
	}
	return &Dispatcher{Registry: reg, VectorIndex: idx, Queue: q, Indexer: ix, Embedder: embedder, Log: log}
}

// Dispatch routes a named operation with loosely-typed arguments, the shape
// a generic RPC/CLI front end hands the core (spec §4.J, §1: RPC framing is
// an external collaborator's concern). Unknown operations and missing
// required arguments surface as structured errors rather than panicking;
// the dispatcher itself never terminates on a bad request.
func (d *Dispatcher) Dispatch(ctx context.Context, operation string, args map[string]any) (any, error) {
	switch operation {
	case "semantic_search":
		query, ok := args["query"].(string)
		if !ok || query == "" {
			return nil, coreerrors.InvalidArguments("semantic_search requires a non-empty \"query\" string")
		}
		maxResults := DefaultMaxResults
		if v, ok := args["max_results"].(int); ok && v > 0 {
			maxResults = v
		}
		projectFilter, _ := args["project_filter"].(string)
		return d.SemanticSearch(ctx, query, maxResults, projectFilter)

	case "file_context":
		filePath, ok := args["file_path"].(string)
		if !ok || filePath == "" {
			return nil, coreerrors.InvalidArguments("file_context requires a non-empty \"file_path\" string")
		}
		projectName, _ := args["project_name"].(string)
		startLine, _ := args["start_line"].(int)
		endLine, _ := args["end_line"].(int)
		contextLines := DefaultContextLines
		if v, ok := args["context_lines"].(int); ok && v >= 0 {
			contextLines = v
		}
		return d.FileContext(filePath, projectName, startLine, endLine, contextLines)

	case "reload_index":
		projectName, _ := args["project_name"].(string)
		return d.ReloadIndex(ctx, projectName)

	case "indexing_progress":
		jobID, _ := args["job_id"].(string)
		return d.IndexingProgress(jobID)

	case "list_projects":
		return d.ListProjects(), nil

	case "index_status":
		return d.IndexStatus(), nil

	case "clear_index":
		confirm, _ := args["confirm"].(bool)
		projectName, _ := args["project_name"].(string)
		return nil, d.ClearIndex(confirm, projectName)

	default:
		return nil, coreerrors.UnknownOperation(operation)
	}
}

// SemanticSearch embeds query, scores it against the in-memory index, and
// deduplicates results that share (file_path, start_line) down to their
// highest-scoring member (spec §4.J).
func (d *Dispatcher) SemanticSearch(ctx context.Context, query string, maxResults int, projectFilter string) ([]model.SearchResult, error) {
	vec, err := d.Embedder.Embed(ctx, query)
	if err != nil {
		return nil, coreerrors.Wrap(coreerrors.ErrCodeEmbeddingFailed, err)
	}

	// Over-fetch before deduplicating so collapsing overlapping chunks
	// doesn't leave fewer than maxResults distinct locations when more
	// exist.
	raw := d.VectorIndex.Search(ctx, vec, maxResults*4+16, projectFilter)
	return dedupeByFileAndStartLine(raw, maxResults), nil
}

func dedupeByFileAndStartLine(results []model.SearchResult, limit int) []model.SearchResult {
	type key struct {
		file  string
		start int
	}
	best := make(map[key]model.SearchResult)
	order := make([]key, 0, len(results))
	for _, r := range results {
		k := key{file: r.File, start: r.StartLine}
		existing, ok := best[k]
		if !ok {
			order = append(order, k)
			best[k] = r
			continue
		}
		if r.Score > existing.Score {
			best[k] = r
		}
	}

	out := make([]model.SearchResult, 0, len(order))
	for _, k := range order {
		out = append(out, best[k])
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// LineEntry is one line of a file_context response, tagged with whether it
// was part of the caller's requested range or added as surrounding context.
type LineEntry struct {
	Number    int    `json:"number"`
	Content   string `json:"content"`
	IsContext bool   `json:"is_context"`
}

// FileContextResult is file_context's response: the resolved file and its
// expanded line window.
type FileContextResult struct {
	Project   string      `json:"project"`
	FilePath  string      `json:"file_path"`
	StartLine int         `json:"start_line"`
	EndLine   int         `json:"end_line"`
	Lines     []LineEntry `json:"lines"`
}

// FileContext resolves filePath (optionally scoped to projectName),
// reads it, and returns the [startLine, endLine] window expanded by
// contextLines on each side, with each returned line marked as requested
// or context (spec §4.J).
func (d *Dispatcher) FileContext(filePath, projectName string, startLine, endLine, contextLines int) (*FileContextResult, error) {
	project, absPath, err := d.resolveFile(projectName, filePath)
	if err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(absPath)
	if err != nil {
		return nil, coreerrors.Wrap(coreerrors.ErrCodeFileReadFailed, err)
	}
	lines := strings.Split(string(raw), "\n")

	if startLine < 1 {
		startLine = 1
	}
	if endLine < startLine {
		endLine = startLine
	}
	if endLine > len(lines) {
		endLine = len(lines)
	}

	windowStart := startLine - contextLines
	if windowStart < 1 {
		windowStart = 1
	}
	windowEnd := endLine + contextLines
	if windowEnd > len(lines) {
		windowEnd = len(lines)
	}

	entries := make([]LineEntry, 0, windowEnd-windowStart+1)
	for n := windowStart; n <= windowEnd; n++ {
		entries = append(entries, LineEntry{
			Number:    n,
			Content:   lines[n-1],
			IsContext: n < startLine || n > endLine,
		})
	}

	return &FileContextResult{
		Project:   project,
		FilePath:  filePath,
		StartLine: windowStart,
		EndLine:   windowEnd,
		Lines:     entries,
	}, nil
}

// resolveFile finds the absolute path for filePath, scoped to projectName
// if given, else searching every registered project for a match (spec
// §4.J: "resolve path ambiguity via registry").
func (d *Dispatcher) resolveFile(projectName, filePath string) (project, absPath string, err error) {
	if projectName != "" {
		meta, ok := d.Registry.Lookup(projectName)
		if !ok {
			return "", "", coreerrors.ProjectNotFound(projectName)
		}
		return meta.Name, filepath.Join(meta.RootPath, filePath), nil
	}

	type match struct {
		project string
		path    string
	}
	var matches []match
	for _, meta := range d.Registry.List() {
		candidate := filepath.Join(meta.RootPath, filePath)
		if info, statErr := os.Stat(candidate); statErr == nil && !info.IsDir() {
			matches = append(matches, match{project: meta.Name, path: candidate})
		}
	}

	switch len(matches) {
	case 0:
		return "", "", coreerrors.New(coreerrors.ErrCodeFileReadFailed,
			fmt.Sprintf("file not found in any registered project: %s", filePath), nil)
	case 1:
		return matches[0].project, matches[0].path, nil
	default:
		names := make([]string, len(matches))
		for i, m := range matches {
			names[i] = m.project
		}
		return "", "", coreerrors.InvalidArguments(fmt.Sprintf(
			"%s is ambiguous across projects [%s]; pass project_name to disambiguate",
			filePath, strings.Join(names, ", ")))
	}
}

// ReloadIndex enqueues a normal-priority (re)index job and returns its job
// id immediately (spec §4.J). If projectName is known, its registered root
// is reindexed; otherwise projectName is treated as a fresh root path to
// index.
func (d *Dispatcher) ReloadIndex(ctx context.Context, projectName string) (string, error) {
	op := func(ctx context.Context, jobID string) (int, int, error) {
		if meta, ok := d.Registry.Lookup(projectName); ok {
			if err := d.Indexer.Reindex(ctx, meta.Name); err != nil {
				return 0, 0, err
			}
		} else {
			if err := d.Indexer.Index(ctx, projectName); err != nil {
				return 0, 0, err
			}
		}
		if meta, ok := d.Registry.Lookup(projectName); ok {
			return meta.FileCount, meta.ChunkCount, nil
		}
		return 0, 0, nil
	}
	jobID := d.Queue.Enqueue(ctx, projectName, model.JobPriorityNormal, op)
	return jobID, nil
}

// IndexingProgress reports one job's status, or every known job if jobID
// is empty (spec §4.J, delegating to the Indexing Queue).
func (d *Dispatcher) IndexingProgress(jobID string) (any, error) {
	if jobID == "" {
		return d.Queue.List(), nil
	}
	job, ok := d.Queue.Status(jobID)
	if !ok {
		return nil, coreerrors.InvalidArguments(fmt.Sprintf("unknown job id: %s", jobID))
	}
	return job, nil
}

// ListProjects returns every registered project's metadata.
func (d *Dispatcher) ListProjects() []*model.ProjectMetadata {
	return d.Registry.List()
}

// IndexSummary is index_status's aggregate response: a rollup across every
// registered project rather than one project's detail (spec §6).
type IndexSummary struct {
	ProjectCount int            `json:"project_count"`
	TotalFiles   int            `json:"total_files"`
	TotalChunks  int            `json:"total_chunks"`
	TotalLines   int            `json:"total_lines"`
	StatusCounts map[string]int `json:"status_counts"`
}

// IndexStatus aggregates project/file/chunk/line totals and per-status
// tallies across the whole registry (spec §4.J/§6: "index_status() →
// IndexSummary", no arguments).
func (d *Dispatcher) IndexStatus() *IndexSummary {
	projects := d.Registry.List()
	summary := &IndexSummary{
		ProjectCount: len(projects),
		StatusCounts: make(map[string]int),
	}
	for _, meta := range projects {
		summary.TotalFiles += meta.FileCount
		summary.TotalChunks += meta.ChunkCount
		summary.TotalLines += meta.LineCount
		summary.StatusCounts[string(meta.IndexStatus)]++
	}
	return summary
}

// ClearIndex removes a project's persisted chunks and registry entry, or
// every project's if projectName is empty. It is a no-op unless confirm is
// true (spec §4.J).
func (d *Dispatcher) ClearIndex(confirm bool, projectName string) error {
	if !confirm {
		return nil
	}

	targets := []string{projectName}
	clearingEverything := projectName == ""
	if clearingEverything {
		targets = targets[:0]
		for _, meta := range d.Registry.List() {
			targets = append(targets, meta.Name)
		}
	}

	for _, name := range targets {
		if name == "" {
			continue
		}
		if err := d.Indexer.ClearProject(name); err != nil {
			return coreerrors.Wrap(coreerrors.ErrCodeInternal, err)
		}
		if err := d.Registry.Unregister(name); err != nil {
			return coreerrors.Wrap(coreerrors.ErrCodeInternal, err)
		}
	}

	// The embedding cache is content-addressed and shared across every
	// project, so it only gets dropped on a whole-index clear, not a
	// per-project one (spec §4.B's clear() has no project scope).
	if clearingEverything {
		if clearer, ok := d.Embedder.(interface{ Clear() error }); ok {
			if err := clearer.Clear(); err != nil {
				return coreerrors.Wrap(coreerrors.ErrCodeInternal, err)
			}
		}
	}
	return nil
}
