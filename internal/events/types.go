package events

import "time"

// EventType represents different types of events in the system
type EventType string

const (
	// Run lifecycle events
	EventTypeRunStarted   EventType = "run.started"
	EventTypeRunCompleted EventType = "run.completed"
	EventTypeRunFailed    EventType = "run.failed"
	EventTypeRunProgress  EventType = "run.progress"

	// Per-nation events
	EventTypeNationProcessed EventType = "nation.processed"

	// Log mirroring to front ends
	EventTypeLogLine EventType = "log.line"
)

// Event carries a worker-side occurrence to subscribers. Delivery is strictly
// worker -> subscriber; nothing flows back through the bus.
type Event struct {
	Type      EventType
	Source    string
	Timestamp time.Time
	Data      map[string]interface{}
}

// EventHandler is a function that processes an event
type EventHandler func(Event)

// SubscriptionID uniquely identifies a subscription
type SubscriptionID int64

// EventBus defines the interface for event pub/sub
type EventBus interface {
	Subscribe(eventType EventType, handler EventHandler) SubscriptionID
	Unsubscribe(id SubscriptionID)
	Publish(event Event)
	Stop()
}

// NewRunStartedEvent creates a run started event.
func NewRunStartedEvent(runKind string, total int) Event {
	return Event{
		Type:      EventTypeRunStarted,
		Source:    "runner",
		Timestamp: time.Now(),
		Data: map[string]interface{}{
			"kind":  runKind,
			"total": total,
		},
	}
}

// NewRunProgressEvent creates a progress event carrying an integer percentage.
func NewRunProgressEvent(runKind string, percent int) Event {
	return Event{
		Type:      EventTypeRunProgress,
		Source:    "runner",
		Timestamp: time.Now(),
		Data: map[string]interface{}{
			"kind":    runKind,
			"percent": percent,
		},
	}
}

// NewNationProcessedEvent creates a per-nation completion event.
func NewNationProcessedEvent(nation string, ok bool) Event {
	return Event{
		Type:      EventTypeNationProcessed,
		Source:    "processor",
		Timestamp: time.Now(),
		Data: map[string]interface{}{
			"nation": nation,
			"ok":     ok,
		},
	}
}

// NewRunCompletedEvent creates a run completed event.
func NewRunCompletedEvent(runKind string, ok bool) Event {
	return Event{
		Type:      EventTypeRunCompleted,
		Source:    "runner",
		Timestamp: time.Now(),
		Data: map[string]interface{}{
			"kind": runKind,
			"ok":   ok,
		},
	}
}

// NewRunFailedEvent creates a run failed event.
func NewRunFailedEvent(runKind string, err error) Event {
	return Event{
		Type:      EventTypeRunFailed,
		Source:    "runner",
		Timestamp: time.Now(),
		Data: map[string]interface{}{
			"kind":  runKind,
			"error": err.Error(),
		},
	}
}

// NewLogLineEvent mirrors a formatted log line to subscribers.
func NewLogLineEvent(line string) Event {
	return Event{
		Type:      EventTypeLogLine,
		Source:    "logging",
		Timestamp: time.Now(),
		Data: map[string]interface{}{
			"line": line,
		},
	}
}
