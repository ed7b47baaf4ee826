package core

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImportRunner(t *testing.T) {
	sink := newRecordingSink()
	svc := NewService(NewMemStore(), WithAuditSink(sink))
	r := NewImportRunner(svc, nil, time.Minute)
	ctx := context.Background()

	data := []byte(importHeader +
		"UMAT001,Alice Mensah,Computer Science,200,3.50,a@a.com,0200000000,2024-01-01,Active\n" +
		"UMAT002,Kwame Asante,Mathematics,300,abc,k@k.com,0200000001,2024-01-02,Active\n")

	id, err := r.Start(ctx, "students.csv", data)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	res, err := r.Wait(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, res.ID)
	assert.Equal(t, "students.csv", res.FileName)
	assert.Equal(t, 1, res.SuccessCount)
	assert.Equal(t, 1, res.FailureCount)

	st, err := r.Status(id)
	require.NoError(t, err)
	assert.Equal(t, ImportComplete, st.Phase)
	assert.Equal(t, int64(len(data)), st.BytesSize)
	assert.Equal(t, 2, st.Progress.Row)

	assert.ElementsMatch(t, []string{
		"ADD student_id=UMAT001",
		"IMPORT file=students.csv success=1 failed=1",
	}, []string{sink.next(t), sink.next(t)})

	require.NoError(t, r.WaitForDrain(ctx))
	assert.Equal(t, 0, r.LimiterStatus().Active)
}

func TestImportRunnerUnknownID(t *testing.T) {
	r := NewImportRunner(NewService(NewMemStore()), nil, 0)

	_, err := r.Status("missing")
	assert.ErrorIs(t, err, ErrImportNotFound)
	_, err = r.Wait(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrImportNotFound)
}

func TestImportRunnerExpiresResults(t *testing.T) {
	r := NewImportRunner(NewService(NewMemStore()), nil, 20*time.Millisecond)
	ctx := context.Background()

	id, err := r.Start(ctx, "empty.csv", nil)
	require.NoError(t, err)
	res, err := r.Wait(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "CSV file is empty.", res.Message)

	assert.Eventually(t, func() bool {
		_, err := r.Status(id)
		return err != nil
	}, time.Second, 10*time.Millisecond)
}

func TestImportLimiter(t *testing.T) {
	l := NewImportLimiter(1, 20*time.Millisecond)
	ctx := context.Background()

	require.NoError(t, l.Acquire(ctx))
	assert.Equal(t, ImportLimiterStatus{Active: 1, Available: 0, MaxConcurrent: 1}, l.Status())

	assert.ErrorIs(t, l.Acquire(ctx), ErrTooManyImports)

	cctx, cancel := context.WithCancel(ctx)
	cancel()
	// Slot is held, so only ctx can end the wait.
	assert.Error(t, l.Acquire(cctx))

	drained := make(chan error, 1)
	go func() { drained <- l.WaitForDrain(ctx) }()
	l.Release()
	require.NoError(t, <-drained)
	assert.Equal(t, 0, l.ActiveCount())
}

func TestImportLimiterConcurrency(t *testing.T) {
	l := NewImportLimiter(2, time.Second)
	ctx := context.Background()

	var (
		mu      sync.Mutex
		current int
		peak    int
		wg      sync.WaitGroup
	)
	for i := 0; i < 6; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := l.Acquire(ctx); err != nil {
				t.Error(err)
				return
			}
			mu.Lock()
			current++
			if current > peak {
				peak = current
			}
			mu.Unlock()

			time.Sleep(5 * time.Millisecond)

			mu.Lock()
			current--
			mu.Unlock()
			l.Release()
		}()
	}
	wg.Wait()
	assert.LessOrEqual(t, peak, 2)
}

func TestImportLimiterWaitForDrainTimeout(t *testing.T) {
	l := NewImportLimiter(1, time.Second)
	require.NoError(t, l.Acquire(context.Background()))
	defer l.Release()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, l.WaitForDrain(ctx), context.DeadlineExceeded)
}
