package mailer

import (
	"context"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/maycoffee/maycoffee-api/internal/logger"
)

var queueDropped = promauto.NewCounter(
	prometheus.CounterOpts{
		Name: "mail_queue_dropped_total",
		Help: "Mail jobs dropped because the queue was full",
	},
)

// Job is one outbound delivery attempt.
type Job func() error

// Queue decouples notification dispatch from the triggering request. A single
// drain goroutine processes jobs in FIFO order; a failing job is logged and
// swallowed so it can never fail the request that enqueued it or stall the
// jobs behind it. Not durable: jobs queued at crash time are lost.
type Queue struct {
	jobs chan Job
	done chan struct{}
	once sync.Once
}

func NewQueue(size int) *Queue {
	q := &Queue{
		jobs: make(chan Job, size),
		done: make(chan struct{}),
	}
	go q.drain()
	return q
}

func (q *Queue) drain() {
	defer close(q.done)
	for job := range q.jobs {
		if err := job(); err != nil {
			logger.Log.Error("mail job failed", "error", err)
		}
	}
}

// Enqueue never blocks. When the buffer is full the job is dropped and
// logged; delivery is best-effort, at-most-once.
func (q *Queue) Enqueue(job Job) {
	select {
	case q.jobs <- job:
	default:
		queueDropped.Inc()
		logger.Log.Warn("mail queue full, dropping job")
	}
}

// Shutdown stops intake and waits for the drain loop to finish the backlog,
// or for ctx to expire.
func (q *Queue) Shutdown(ctx context.Context) error {
	q.once.Do(func() { close(q.jobs) })
	select {
	case <-q.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
