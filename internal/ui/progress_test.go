package ui

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/codesearchcore/codesearchcore/internal/model"
)

func TestRenderEmptyQueuePrintsPlaceholder(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf)

	r.Render(nil)

	assert.Contains(t, buf.String(), "no indexing jobs")
}

func TestRenderListsEveryJobWithStatus(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf)

	jobs := []*model.Job{
		{ID: "job-1", ProjectName: "widgets", Priority: model.JobPriorityHigh, Status: model.JobStatusInProgress},
		{ID: "job-2", ProjectName: "widgets", Priority: model.JobPriorityNormal, Status: model.JobStatusCompleted, FileCount: 12, ChunkCount: 48},
		{ID: "job-3", ProjectName: "widgets", Priority: model.JobPriorityLow, Status: model.JobStatusFailed, Error: "boom"},
	}
	r.Render(jobs)

	out := buf.String()
	assert.Contains(t, out, "job-1")
	assert.Contains(t, out, "job-2")
	assert.Contains(t, out, "12 files, 48 chunks")
	assert.Contains(t, out, "job-3")
	assert.Contains(t, out, "boom")
}

func TestSummaryCountsEachStatus(t *testing.T) {
	r := NewRenderer(&bytes.Buffer{})
	now := time.Unix(0, 0)
	jobs := []*model.Job{
		{Status: model.JobStatusQueued},
		{Status: model.JobStatusInProgress},
		{Status: model.JobStatusCompleted, CompletedAt: &now},
		{Status: model.JobStatusCompleted, CompletedAt: &now},
		{Status: model.JobStatusFailed},
	}

	summary := r.Summary(jobs)

	assert.Contains(t, summary, "1 pending")
	assert.Contains(t, summary, "1 running")
	assert.Contains(t, summary, "2 completed")
	assert.Contains(t, summary, "1 failed")
}

func TestSummaryOmitsFailedWhenZero(t *testing.T) {
	r := NewRenderer(&bytes.Buffer{})
	summary := r.Summary([]*model.Job{{Status: model.JobStatusQueued}})

	assert.NotContains(t, summary, "failed")
}
