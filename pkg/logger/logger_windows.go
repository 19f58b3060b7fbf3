//go:build windows

package logger

import (
	"fmt"

	"golang.org/x/sys/windows/svc/eventlog"
)

// Event IDs for Windows Event Log entries.
const (
	EventIDInfo    uint32 = 1
	EventIDWarning uint32 = 2
	EventIDError   uint32 = 3
)

// eventLogWriter is the subset of *eventlog.Log used by EventLogger.
type eventLogWriter interface {
	Info(eid uint32, msg string) error
	Warning(eid uint32, msg string) error
	Error(eid uint32, msg string) error
	Close() error
}

// EventLogger writes log messages to the Windows Event Log.
// Only warnings and errors are useful there; the CLI wraps it in a
// QuietLogger.
type EventLogger struct {
	log eventLogWriter
}

// NewEventLogger opens the event source sourceName, registering it as an
// EventCreate source first when it does not exist yet.
func NewEventLogger(sourceName string) (*EventLogger, error) {
	elog, err := eventlog.Open(sourceName)
	if err != nil {
		if ierr := eventlog.InstallAsEventCreate(sourceName, eventlog.Error|eventlog.Warning|eventlog.Info); ierr != nil {
			return nil, fmt.Errorf("failed to open event log: %w", err)
		}
		if elog, err = eventlog.Open(sourceName); err != nil {
			return nil, fmt.Errorf("failed to open event log: %w", err)
		}
	}
	return &EventLogger{log: elog}, nil
}

// Info logs an informational message with Event ID 1.
func (e *EventLogger) Info(format string, args ...interface{}) {
	// Logging failures must not stop the session.
	_ = e.log.Info(EventIDInfo, fmt.Sprintf(format, args...))
}

// Warning logs a warning message with Event ID 2.
func (e *EventLogger) Warning(format string, args ...interface{}) {
	_ = e.log.Warning(EventIDWarning, fmt.Sprintf(format, args...))
}

// Error logs an error message with Event ID 3.
func (e *EventLogger) Error(format string, args ...interface{}) {
	_ = e.log.Error(EventIDError, fmt.Sprintf(format, args...))
}

// Close releases the Windows Event Log handle.
func (e *EventLogger) Close() error {
	if e.log != nil {
		return e.log.Close()
	}
	return nil
}

var _ Logger = (*EventLogger)(nil)
