package service

import (
	"context"
	"fmt"

	"github.com/edunex/portal-academico-api/pkg/jobs"
)

// EventTypeRequestStatus tags request lifecycle events on the dispatcher.
const EventTypeRequestStatus = "request.status"

// DispatcherEmitter bridges the request service to the asynchronous jobs
// dispatcher. Emission is fire-and-forget; a full buffer surfaces as an
// error the caller logs and moves past.
type DispatcherEmitter struct {
	dispatcher *jobs.Dispatcher
	metrics    *MetricsService
}

// NewDispatcherEmitter wraps a dispatcher.
func NewDispatcherEmitter(dispatcher *jobs.Dispatcher, metrics *MetricsService) *DispatcherEmitter {
	return &DispatcherEmitter{dispatcher: dispatcher, metrics: metrics}
}

// EmitRequestEvent hands the event to the dispatcher buffer.
func (e *DispatcherEmitter) EmitRequestEvent(event RequestEvent) error {
	err := e.dispatcher.Emit(jobs.Event{Type: EventTypeRequestStatus, Payload: event})
	if err != nil {
		e.metrics.ObserveEventLost()
		return err
	}
	e.metrics.ObserveEventEmitted(EventTypeRequestStatus)
	return nil
}

// RequestEventHandler adapts the notification service into a dispatcher
// handler for request lifecycle events.
func RequestEventHandler(notifications *NotificationService) jobs.Handler {
	return func(ctx context.Context, event jobs.Event) error {
		payload, ok := event.Payload.(RequestEvent)
		if !ok {
			return fmt.Errorf("unexpected payload type %T", event.Payload)
		}
		return notifications.HandleRequestEvent(ctx, payload)
	}
}
