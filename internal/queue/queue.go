// Package queue implements the Indexing Queue (spec §4.I): a bounded,
// priority-ordered background job runner with non-blocking enqueue.
package queue

import (
	"container/list"
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/codesearchcore/codesearchcore/internal/model"
)

// maxCompleted bounds the completed-job ring buffer (spec §3: "100-job
// history bound").
const maxCompleted = 100

// Operation is the unit of work a queued job runs. It receives its own
// job's id and returns file/chunk counts, which the queue records on the job.
type Operation func(ctx context.Context, jobID string) (fileCount, chunkCount int, err error)

// Queue runs indexing operations with bounded concurrency and priority
// ordering (spec §4.I). All state lives behind one mutex (spec §5).
type Queue struct {
	mu sync.Mutex

	maxConcurrent int
	pending       *list.List // of *queuedJob, ordered high > normal > low, FIFO within a priority
	active        map[string]*model.Job
	completed     *list.List // front = newest
	byID          map[string]*model.Job

	log *slog.Logger
}

type queuedJob struct {
	job *model.Job
	op  Operation
}

// New creates a Queue with the given concurrency ceiling. maxConcurrent <= 0
// defaults to 1 (spec §4.I's default).
func New(maxConcurrent int, log *slog.Logger) *Queue {
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}
	if log == nil {
		log = slog.Default()
	}
	return &Queue{
		maxConcurrent: maxConcurrent,
		pending:       list.New(),
		active:        make(map[string]*model.Job),
		completed:     list.New(),
		byID:          make(map[string]*model.Job),
		log:           log,
	}
}

// Enqueue schedules op to run with the given priority and project name tag,
// returning a job id immediately without waiting for a run slot (spec
// §4.I: "enqueue returns immediately").
func (q *Queue) Enqueue(ctx context.Context, projectName string, priority model.JobPriority, op Operation) string {
	now := time.Now().UTC()
	job := &model.Job{
		ID:          uuid.NewString(),
		ProjectName: projectName,
		Priority:    priority,
		Status:      model.JobStatusQueued,
		CreatedAt:   now,
	}

	q.mu.Lock()
	q.byID[job.ID] = job
	q.insertPendingLocked(&queuedJob{job: job, op: op})
	q.mu.Unlock()

	go q.drain(ctx)

	return job.ID
}

// insertPendingLocked inserts qj after the last pending job of equal or
// higher priority, preserving FIFO order within a priority tier. Caller
// must hold q.mu.
func (q *Queue) insertPendingLocked(qj *queuedJob) {
	for e := q.pending.Front(); e != nil; e = e.Next() {
		existing := e.Value.(*queuedJob)
		if existing.job.Priority < qj.job.Priority {
			q.pending.InsertBefore(qj, e)
			return
		}
	}
	q.pending.PushBack(qj)
}

// drain promotes pending jobs into active slots until max_concurrent is
// reached or the pending queue is empty (spec §4.I).
func (q *Queue) drain(ctx context.Context) {
	for {
		q.mu.Lock()
		if len(q.active) >= q.maxConcurrent || q.pending.Len() == 0 {
			q.mu.Unlock()
			return
		}
		front := q.pending.Front()
		qj := front.Value.(*queuedJob)
		q.pending.Remove(front)

		now := time.Now().UTC()
		qj.job.Status = model.JobStatusInProgress
		qj.job.StartedAt = &now
		q.active[qj.job.ID] = qj.job
		q.mu.Unlock()

		go q.run(ctx, qj)
	}
}

// run executes one job's operation and, on completion, retires it and
// re-drains so a freed slot is immediately reused.
func (q *Queue) run(ctx context.Context, qj *queuedJob) {
	fileCount, chunkCount, err := qj.op(ctx, qj.job.ID)
	now := time.Now().UTC()

	q.mu.Lock()
	qj.job.CompletedAt = &now
	qj.job.FileCount = fileCount
	qj.job.ChunkCount = chunkCount
	if err != nil {
		qj.job.Status = model.JobStatusFailed
		qj.job.Error = err.Error()
	} else {
		qj.job.Status = model.JobStatusCompleted
	}

	delete(q.active, qj.job.ID)
	q.completed.PushFront(qj.job)
	if q.completed.Len() > maxCompleted {
		evicted := q.completed.Remove(q.completed.Back()).(*model.Job)
		delete(q.byID, evicted.ID)
	}
	q.mu.Unlock()

	q.drain(ctx)
}

// Status returns one job's current state, checking pending, then active,
// then completed (spec §4.I).
func (q *Queue) Status(jobID string) (*model.Job, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	job, ok := q.byID[jobID]
	if !ok {
		return nil, false
	}
	return job.Clone(), true
}

// List returns pending, then active, then completed (newest first) jobs,
// unioned (spec §4.I).
func (q *Queue) List() []*model.Job {
	q.mu.Lock()
	defer q.mu.Unlock()

	var out []*model.Job
	for e := q.pending.Front(); e != nil; e = e.Next() {
		out = append(out, e.Value.(*queuedJob).job.Clone())
	}
	for _, job := range q.active {
		out = append(out, job.Clone())
	}
	for e := q.completed.Front(); e != nil; e = e.Next() {
		out = append(out, e.Value.(*model.Job).Clone())
	}
	return out
}
