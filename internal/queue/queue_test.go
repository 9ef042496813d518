package queue

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codesearchcore/codesearchcore/internal/model"
)

func waitForStatus(t *testing.T, q *Queue, jobID string, want model.JobStatus) *model.Job {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		job, ok := q.Status(jobID)
		require.True(t, ok)
		if job.Status == want {
			return job
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("job %s never reached status %s", jobID, want)
	return nil
}

func TestEnqueueRunsAndCompletes(t *testing.T) {
	q := New(1, nil)
	id := q.Enqueue(context.Background(), "demo", model.JobPriorityNormal, func(ctx context.Context, jobID string) (int, int, error) {
		return 3, 9, nil
	})

	job := waitForStatus(t, q, id, model.JobStatusCompleted)
	assert.Equal(t, 3, job.FileCount)
	assert.Equal(t, 9, job.ChunkCount)
	assert.Empty(t, job.Error)
}

func TestEnqueueRecordsFailureWithoutBlockingLaterJobs(t *testing.T) {
	q := New(1, nil)
	failing := q.Enqueue(context.Background(), "a", model.JobPriorityNormal, func(ctx context.Context, jobID string) (int, int, error) {
		return 0, 0, errors.New("boom")
	})
	waitForStatus(t, q, failing, model.JobStatusFailed)

	ok := q.Enqueue(context.Background(), "b", model.JobPriorityNormal, func(ctx context.Context, jobID string) (int, int, error) {
		return 1, 1, nil
	})
	job := waitForStatus(t, q, ok, model.JobStatusCompleted)
	assert.Equal(t, 1, job.FileCount)
}

func TestHighPriorityRunsBeforeQueuedLow(t *testing.T) {
	q := New(1, nil)

	started := make(chan struct{})
	release := make(chan struct{})
	order := make(chan string, 2)

	blocker := q.Enqueue(context.Background(), "blocker", model.JobPriorityNormal, func(ctx context.Context, jobID string) (int, int, error) {
		close(started)
		<-release
		order <- "blocker"
		return 0, 0, nil
	})
	<-started

	q.Enqueue(context.Background(), "low", model.JobPriorityLow, func(ctx context.Context, jobID string) (int, int, error) {
		order <- "low"
		return 0, 0, nil
	})
	q.Enqueue(context.Background(), "high", model.JobPriorityHigh, func(ctx context.Context, jobID string) (int, int, error) {
		order <- "high"
		return 0, 0, nil
	})

	close(release)
	waitForStatus(t, q, blocker, model.JobStatusCompleted)

	first := <-order
	second := <-order
	assert.Equal(t, "blocker", first)
	assert.Equal(t, "high", second)
}

func TestStatusUnknownJobReturnsFalse(t *testing.T) {
	q := New(1, nil)
	_, ok := q.Status("nonexistent")
	assert.False(t, ok)
}

func TestListUnionsAllJobs(t *testing.T) {
	q := New(1, nil)
	id := q.Enqueue(context.Background(), "demo", model.JobPriorityNormal, func(ctx context.Context, jobID string) (int, int, error) {
		return 1, 1, nil
	})
	waitForStatus(t, q, id, model.JobStatusCompleted)

	jobs := q.List()
	require.Len(t, jobs, 1)
	assert.Equal(t, id, jobs[0].ID)
}
