package notify

import (
	"time"

	"business-notifier/internal/models"
	"business-notifier/internal/notify/dispatch"

	"github.com/google/uuid"
)

// Notifier is the single inbound seam for the rest of the application:
// Notify hands the event to the background pool and returns immediately.
type Notifier struct {
	engine     *Engine
	dispatcher *dispatch.Dispatcher
}

func NewNotifier(engine *Engine, workers, queueSize int) *Notifier {
	n := &Notifier{engine: engine}
	n.dispatcher = dispatch.New(workers, queueSize, engine.Process, engine.logger)
	return n
}

// Start launches the background pool.
func (n *Notifier) Start() {
	n.dispatcher.Start()
}

// Notify schedules delivery for the event and returns without a result
// channel: the triggering request has already been answered by the time
// delivery completes or fails.
func (n *Notifier) Notify(event *models.NotificationEvent) {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.UpdateKind == "" {
		event.UpdateKind = models.UpdateKindGeneric
	}
	n.dispatcher.Dispatch(event)
}

// Stop drains in-flight events for up to drainTimeout, then abandons the
// rest.
func (n *Notifier) Stop(drainTimeout time.Duration) {
	n.dispatcher.Stop(drainTimeout)
}
