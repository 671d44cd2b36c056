package usecase

import (
	"context"
	"fmt"
	"sync"

	"intelfeed/internal/reports/domain/model"
	"intelfeed/internal/shared/eventbus"
	"intelfeed/internal/shared/logger"
)

// RealtimeUsecase manages report progress subscriptions and broadcasts
// progress events to them.
type RealtimeUsecase interface {
	// Subscribe registers a client channel for a report's progress events.
	// subscriberID must be unique per client connection.
	Subscribe(ctx context.Context, subscriberID, reportID string, events chan<- model.ProgressEvent) error

	// Unsubscribe removes a single subscription.
	Unsubscribe(ctx context.Context, subscriberID, reportID string) error

	// UnsubscribeAll removes every subscription held by a client.
	UnsubscribeAll(ctx context.Context, subscriberID string) error

	// Broadcast delivers an event to all subscribers of its report.
	Broadcast(ctx context.Context, event model.ProgressEvent)
}

// SubscribeRealtimeBridge forwards report progress events from the bus
// to the realtime subscribers. The report usecase publishes progress to
// the bus only; this bridge is what puts events on WebSocket channels.
func SubscribeRealtimeBridge(bus eventbus.EventBusInterface, realtime RealtimeUsecase, log logger.Logger) {
	if bus == nil || realtime == nil {
		return
	}
	bus.Subscribe(eventbus.EventTypeReportProgress, func(ctx context.Context, event eventbus.Event) error {
		progress, ok := event.Data().(model.ProgressEvent)
		if !ok {
			return fmt.Errorf("unexpected payload type %T for %s event", event.Data(), event.Type())
		}
		realtime.Broadcast(ctx, progress)
		return nil
	})
}

type realtimeUsecase struct {
	// reportID -> subscriberID -> channel
	subscriptions map[string]map[string]chan<- model.ProgressEvent
	mu            sync.RWMutex
	log           logger.Logger
}

// NewRealtimeUsecase creates the in-memory subscription registry.
func NewRealtimeUsecase(log logger.Logger) RealtimeUsecase {
	return &realtimeUsecase{
		subscriptions: make(map[string]map[string]chan<- model.ProgressEvent),
		log:           log.WithComponent("report_realtime"),
	}
}

func (uc *realtimeUsecase) Subscribe(ctx context.Context, subscriberID, reportID string, events chan<- model.ProgressEvent) error {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	if _, ok := uc.subscriptions[reportID]; !ok {
		uc.subscriptions[reportID] = make(map[string]chan<- model.ProgressEvent)
	}
	uc.subscriptions[reportID][subscriberID] = events

	uc.log.WithFields(map[string]interface{}{
		"subscriber_id": subscriberID,
		"report_id":     reportID,
	}).Debug("client subscribed to report progress")
	return nil
}

func (uc *realtimeUsecase) Unsubscribe(ctx context.Context, subscriberID, reportID string) error {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	if subscribers, ok := uc.subscriptions[reportID]; ok {
		delete(subscribers, subscriberID)
		if len(subscribers) == 0 {
			delete(uc.subscriptions, reportID)
		}
	}
	return nil
}

func (uc *realtimeUsecase) UnsubscribeAll(ctx context.Context, subscriberID string) error {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	for reportID, subscribers := range uc.subscriptions {
		delete(subscribers, subscriberID)
		if len(subscribers) == 0 {
			delete(uc.subscriptions, reportID)
		}
	}
	return nil
}

func (uc *realtimeUsecase) Broadcast(ctx context.Context, event model.ProgressEvent) {
	uc.mu.RLock()
	defer uc.mu.RUnlock()

	subscribers, ok := uc.subscriptions[event.ReportID]
	if !ok {
		return
	}

	for subscriberID, ch := range subscribers {
		// Non-blocking send so one slow client cannot stall the rest;
		// a full channel drops the event for that subscriber only.
		select {
		case ch <- event:
		default:
			uc.log.WithFields(map[string]interface{}{
				"subscriber_id": subscriberID,
				"report_id":     event.ReportID,
			}).Warn("subscriber channel full, dropping progress event")
		}
	}
}
