// Package ui renders indexing queue state to a terminal: a read-only view
// over dispatcher-exposed job snapshots, never a source of truth itself.
package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/codesearchcore/codesearchcore/internal/model"
)

// Renderer draws one frame of queue state. Callers poll the dispatcher and
// call Render on an interval or after state changes; there is no event
// stream to subscribe to.
type Renderer struct {
	out    io.Writer
	styles Styles
	color  bool
}

// NewRenderer builds a Renderer writing to out. Color is auto-detected via
// isatty when out is an *os.File; any other writer gets plain output.
func NewRenderer(out io.Writer) *Renderer {
	color := false
	if f, ok := out.(*os.File); ok {
		color = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return &Renderer{out: out, styles: GetStyles(!color), color: color}
}

// stageIcon gives a short glyph for a job status, in the teacher's plain-text
// icon style.
func stageIcon(status model.JobStatus) string {
	switch status {
	case model.JobStatusQueued:
		return "WAIT"
	case model.JobStatusInProgress:
		return "RUN"
	case model.JobStatusCompleted:
		return "DONE"
	case model.JobStatusFailed:
		return "FAIL"
	default:
		return "????"
	}
}

func (r *Renderer) styleFor(status model.JobStatus) func(string) string {
	switch status {
	case model.JobStatusInProgress:
		return r.styles.Active.Render
	case model.JobStatusCompleted:
		return r.styles.Success.Render
	case model.JobStatusFailed:
		return r.styles.Error.Render
	default:
		return r.styles.Dim.Render
	}
}

// Render draws one snapshot of the queue: one line per job, in the order
// given. queue.Queue.List() returns pending, then active, then completed
// jobs (newest first).
func (r *Renderer) Render(jobs []*model.Job) {
	if len(jobs) == 0 {
		fmt.Fprintln(r.out, r.styles.Dim.Render("no indexing jobs"))
		return
	}

	header := fmt.Sprintf("%-4s  %-8s  %-36s  %-20s  %s", "", "PRIORITY", "JOB", "PROJECT", "STATUS")
	fmt.Fprintln(r.out, r.styles.Header.Render(header))

	for _, job := range jobs {
		line := fmt.Sprintf("%-4s  %-8s  %-36s  %-20s  %s",
			stageIcon(job.Status), job.Priority, job.ID, job.ProjectName, job.Status)
		fmt.Fprintln(r.out, r.styleFor(job.Status)(line))

		if job.Status == model.JobStatusFailed && job.Error != "" {
			fmt.Fprintln(r.out, "      "+r.styles.Error.Render(job.Error))
		}
		if job.Status == model.JobStatusCompleted {
			detail := fmt.Sprintf("      %d files, %d chunks", job.FileCount, job.ChunkCount)
			fmt.Fprintln(r.out, r.styles.Dim.Render(detail))
		}
	}
}

// Summary renders a single-line rollup, used where a full table would be
// noisy (e.g. after scheduling a single job from the CLI).
func (r *Renderer) Summary(jobs []*model.Job) string {
	var pending, running, completed, failed int
	for _, j := range jobs {
		switch j.Status {
		case model.JobStatusQueued:
			pending++
		case model.JobStatusInProgress:
			running++
		case model.JobStatusCompleted:
			completed++
		case model.JobStatusFailed:
			failed++
		}
	}
	parts := []string{
		fmt.Sprintf("%d pending", pending),
		fmt.Sprintf("%d running", running),
		fmt.Sprintf("%d completed", completed),
	}
	if failed > 0 {
		parts = append(parts, fmt.Sprintf("%d failed", failed))
	}
	return strings.Join(parts, ", ")
}
