package core

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrImportNotFound is returned for an unknown or expired import id.
var ErrImportNotFound = errors.New("import not found")

// DefaultImportResultTTL is how long finished import results stay queryable.
const DefaultImportResultTTL = 15 * time.Minute

// ImportPhase is the lifecycle stage of a background import.
type ImportPhase string

const (
	ImportRunning  ImportPhase = "running"
	ImportComplete ImportPhase = "complete"
)

// ImportStatus is a snapshot of a background import.
type ImportStatus struct {
	ID        string         `json:"id"`
	FileName  string         `json:"fileName"`
	Phase     ImportPhase    `json:"phase"`
	Progress  ImportProgress `json:"progress"`
	BytesSize int64          `json:"bytesSize"`
	StartedAt time.Time      `json:"startedAt"`
	Result    *ImportResult  `json:"result,omitempty"`
}

type importJob struct {
	mu     sync.RWMutex
	status ImportStatus
	done   chan struct{}
}

func (j *importJob) snapshot() ImportStatus {
	j.mu.RLock()
	defer j.mu.RUnlock()
	st := j.status
	if st.Result != nil {
		res := *st.Result
		st.Result = &res
	}
	return st
}

// ImportRunner runs imports in the background so callers stay responsive.
// Each run is sequential; the limiter bounds how many runs write at once.
type ImportRunner struct {
	service   *Service
	limiter   *ImportLimiter
	resultTTL time.Duration
	now       func() time.Time

	mu   sync.RWMutex
	jobs map[string]*importJob
}

// NewImportRunner creates a runner. A nil limiter means a single slot.
func NewImportRunner(service *Service, limiter *ImportLimiter, resultTTL time.Duration) *ImportRunner {
	if limiter == nil {
		limiter = NewImportLimiter(DefaultMaxConcurrentImports, DefaultImportWaitTime)
	}
	if resultTTL <= 0 {
		resultTTL = DefaultImportResultTTL
	}
	return &ImportRunner{
		service:   service,
		limiter:   limiter,
		resultTTL: resultTTL,
		now:       time.Now,
		jobs:      make(map[string]*importJob),
	}
}

// Start acquires an import slot and begins importing data in the background.
// It returns the import id immediately after the slot is acquired. There is
// no cancellation: once started the import runs to completion.
func (r *ImportRunner) Start(ctx context.Context, fileName string, data []byte) (string, error) {
	if err := r.limiter.Acquire(ctx); err != nil {
		return "", err
	}

	id := uuid.New().String()
	job := &importJob{
		status: ImportStatus{
			ID:        id,
			FileName:  fileName,
			Phase:     ImportRunning,
			BytesSize: int64(len(data)),
			StartedAt: r.now(),
		},
		done: make(chan struct{}),
	}

	r.mu.Lock()
	r.jobs[id] = job
	r.mu.Unlock()

	go r.run(context.WithoutCancel(ctx), job, data)

	return id, nil
}

func (r *ImportRunner) run(ctx context.Context, job *importJob, data []byte) {
	defer r.limiter.Release()
	defer close(job.done)

	logger := slog.With("import_id", job.status.ID, "file", job.status.FileName)
	logger.Info("import started", "bytes", len(data))

	importer := NewImporter(r.service, WithProgress(func(p ImportProgress) {
		job.mu.Lock()
		job.status.Progress = p
		job.mu.Unlock()
	}))

	var res ImportResult
	func() {
		defer func() {
			if p := recover(); p != nil {
				logger.Error("import panicked", "panic", p)
				res = fileFailure(fmt.Sprintf("Import aborted: %v", p))
			}
		}()
		res = importer.Import(ctx, bytes.NewReader(data))
	}()

	res.ID = job.status.ID
	res.FileName = job.status.FileName

	job.mu.Lock()
	job.status.Phase = ImportComplete
	job.status.Result = &res
	job.mu.Unlock()

	r.service.audit.emit(ctx, fmt.Sprintf("%s file=%s success=%d failed=%d",
		ActionImport, res.FileName, res.SuccessCount, res.FailureCount))

	logger.Info("import complete", "succeeded", res.SuccessCount, "failed", res.FailureCount)

	time.AfterFunc(r.resultTTL, func() {
		r.mu.Lock()
		delete(r.jobs, job.status.ID)
		r.mu.Unlock()
	})
}

// Status returns a snapshot of the import with id.
func (r *ImportRunner) Status(id string) (ImportStatus, error) {
	job, ok := r.job(id)
	if !ok {
		return ImportStatus{}, ErrImportNotFound
	}
	return job.snapshot(), nil
}

// Wait blocks until the import with id finishes and returns its result.
func (r *ImportRunner) Wait(ctx context.Context, id string) (ImportResult, error) {
	job, ok := r.job(id)
	if !ok {
		return ImportResult{}, ErrImportNotFound
	}
	select {
	case <-job.done:
		return *job.snapshot().Result, nil
	case <-ctx.Done():
		return ImportResult{}, ctx.Err()
	}
}

// LimiterStatus reports import slot usage.
func (r *ImportRunner) LimiterStatus() ImportLimiterStatus {
	return r.limiter.Status()
}

// WaitForDrain blocks until no import is running or ctx is done.
func (r *ImportRunner) WaitForDrain(ctx context.Context) error {
	return r.limiter.WaitForDrain(ctx)
}

func (r *ImportRunner) job(id string) (*importJob, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	job, ok := r.jobs[id]
	return job, ok
}
