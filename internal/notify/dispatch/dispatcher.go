// Package dispatch detaches notification processing from the request that
// triggered it. Dispatch is fire-and-forget: no result ever flows back to
// the caller, and process shutdown may abandon in-flight events.
package dispatch

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"business-notifier/internal/common/logger"
	"business-notifier/internal/common/metrics"
	"business-notifier/internal/models"
)

// Pipeline processes one event on a background worker.
type Pipeline func(ctx context.Context, event *models.NotificationEvent)

type Dispatcher struct {
	jobs     chan *models.NotificationEvent
	pipeline Pipeline
	workers  int
	wg       sync.WaitGroup
	stopped  atomic.Bool
	logger   logger.Logger
}

func New(workers, queueSize int, pipeline Pipeline, log logger.Logger) *Dispatcher {
	return &Dispatcher{
		jobs:     make(chan *models.NotificationEvent, queueSize),
		pipeline: pipeline,
		workers:  workers,
		logger:   log,
	}
}

// Start launches the worker pool.
func (d *Dispatcher) Start() {
	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.worker()
	}
	d.logger.Info("dispatch pool started", map[string]interface{}{
		"workers": d.workers,
		"queue":   cap(d.jobs),
	})
}

// Dispatch schedules the event for background processing and returns
// immediately. A full queue never blocks the caller: the handoff moves to
// its own goroutine and is logged. Events arriving after Stop are dropped.
func (d *Dispatcher) Dispatch(event *models.NotificationEvent) {
	if d.stopped.Load() {
		d.logger.Warn("dispatcher stopped, dropping event", map[string]interface{}{
			"eventId": event.ID,
		})
		return
	}

	metrics.EventsDispatched.WithLabelValues(event.UpdateKind).Inc()

	d.enqueue(event)
}

// enqueue pushes the event onto the queue, spilling to an async handoff
// when it is full. Stop may close the channel between the stopped check and
// either send, so both paths recover: a send on the closed channel drops
// the event instead of panicking into the caller.
func (d *Dispatcher) enqueue(event *models.NotificationEvent) {
	defer func() {
		if recover() != nil {
			d.logger.Warn("dispatcher stopped during enqueue, event dropped", map[string]interface{}{
				"eventId": event.ID,
			})
		}
	}()

	select {
	case d.jobs <- event:
		metrics.QueueDepth.Inc()
	default:
		d.logger.Warn("dispatch queue full, handing off asynchronously", map[string]interface{}{
			"eventId": event.ID,
		})
		go func() {
			defer func() {
				if recover() != nil {
					d.logger.Warn("dispatcher stopped during handoff, event dropped", map[string]interface{}{
						"eventId": event.ID,
					})
				}
			}()
			d.jobs <- event
			metrics.QueueDepth.Inc()
		}()
	}
}

// Stop closes intake and waits up to drainTimeout for in-flight events.
// Events still queued after the deadline are abandoned, which is the
// accepted fire-and-forget contract.
func (d *Dispatcher) Stop(drainTimeout time.Duration) {
	if !d.stopped.CompareAndSwap(false, true) {
		return
	}
	close(d.jobs)

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		d.logger.Info("dispatch pool drained", nil)
	case <-time.After(drainTimeout):
		d.logger.Warn("drain timeout elapsed, abandoning in-flight notifications", nil)
	}
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for event := range d.jobs {
		metrics.QueueDepth.Dec()
		d.process(event)
	}
}

// process runs the pipeline with a panic fence: no failure in delivery may
// surface outside the worker.
func (d *Dispatcher) process(event *models.NotificationEvent) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("pipeline panicked", map[string]interface{}{
				"eventId": event.ID,
				"panic":   r,
			})
		}
	}()

	d.pipeline(context.Background(), event)
}
