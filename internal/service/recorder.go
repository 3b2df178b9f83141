package service

import (
	"context"
	"log/slog"
	"sync"

	"github.com/fanlar-test/backend/internal/domain/stats"
	"github.com/fanlar-test/backend/internal/worker"
)

// Recorder persists attempts in the background. A single worker keeps the
// writes serialised in submission order.
type Recorder struct {
	store  stats.Store
	pool   *worker.Pool[error]
	logger *slog.Logger

	pending sync.WaitGroup
	done    chan struct{}
}

func NewRecorder(s stats.Store, logger *slog.Logger) *Recorder {
	r := &Recorder{
		store:  s,
		pool:   worker.NewPool[error](1, 64),
		logger: logger,
		done:   make(chan struct{}),
	}
	go r.drain()
	return r
}

// Submit queues one attempt for username. It uses context.Background
// because the write must outlive whatever triggered it.
func (r *Recorder) Submit(sessionID, username string, a stats.Attempt) {
	r.pending.Add(1)
	r.pool.Submit(sessionID, func() error {
		_, err := r.store.RecordAttempt(context.Background(), username, a)
		return err
	})
}

// Wait blocks until every submitted attempt has been written or failed.
func (r *Recorder) Wait() {
	r.pending.Wait()
}

// Close flushes the queue and stops the worker.
func (r *Recorder) Close() {
	r.pool.Close()
	<-r.done
}

func (r *Recorder) drain() {
	defer close(r.done)
	for res := range r.pool.Results() {
		if res.Output != nil {
			r.logger.Error("failed to record attempt",
				"session_id", res.JobID,
				"error", res.Output,
			)
		} else {
			r.logger.Info("attempt recorded", "session_id", res.JobID)
		}
		r.pending.Done()
	}
}
