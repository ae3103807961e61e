package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/unshleepd/que/internal/events"
)

// EventLogger subscribes to run and nation events and journals them to a
// per-run log file, one file per tool start.
type EventLogger struct {
	logger   *Logger
	eventBus events.EventBus
	logFile  *os.File
}

// NewEventLogger creates an event journal under logDir.
func NewEventLogger(eventBus events.EventBus, logDir string) (*EventLogger, error) {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	timestamp := time.Now().Format("2006-01-02_15-04-05")
	logPath := filepath.Join(logDir, fmt.Sprintf("run_%s.log", timestamp))
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to create log file: %w", err)
	}

	logger := NewLogger("journal").SetOutputs(logFile)

	el := &EventLogger{
		logger:   logger,
		eventBus: eventBus,
		logFile:  logFile,
	}
	el.subscribeToEvents()

	return el, nil
}

// subscribeToEvents registers for every event type worth journaling. Log
// line mirrors are excluded; they already land in the main log file.
func (el *EventLogger) subscribeToEvents() {
	eventTypes := []events.EventType{
		events.EventTypeRunStarted,
		events.EventTypeRunCompleted,
		events.EventTypeRunFailed,
		events.EventTypeNationProcessed,
	}

	for _, eventType := range eventTypes {
		el.eventBus.Subscribe(eventType, el.handleEvent)
	}
}

func (el *EventLogger) handleEvent(event events.Event) {
	detail := ""
	for k, v := range event.Data {
		detail += fmt.Sprintf(" %s=%v", k, v)
	}
	el.logger.Infof("%s%s", event.Type, detail)
}

// Close closes the journal file.
func (el *EventLogger) Close() error {
	if el.logFile != nil {
		return el.logFile.Close()
	}
	return nil
}
