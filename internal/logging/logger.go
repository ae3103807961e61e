package logging

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// LogLevel represents the severity of a log message
type LogLevel string

const (
	LogLevelDebug LogLevel = "DEBUG"
	LogLevelInfo  LogLevel = "INFO"
	LogLevelWarn  LogLevel = "WARN"
	LogLevelError LogLevel = "ERROR"
)

var levelRank = map[LogLevel]int{
	LogLevelDebug: 0,
	LogLevelInfo:  1,
	LogLevelWarn:  2,
	LogLevelError: 3,
}

// ParseLevel maps a config string to a LogLevel, defaulting to INFO.
func ParseLevel(s string) LogLevel {
	switch LogLevel(s) {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
		return LogLevel(s)
	default:
		return LogLevelInfo
	}
}

// Entry is a single log line before formatting.
type Entry struct {
	Timestamp time.Time
	Level     LogLevel
	Component string
	Message   string
	Err       error
}

// Formatter renders an entry to its output form.
type Formatter interface {
	Format(entry *Entry) string
}

// TextFormatter renders human-readable timestamped lines. The same format is
// mirrored to the log file and to any attached front end.
type TextFormatter struct{}

func (f *TextFormatter) Format(entry *Entry) string {
	msg := fmt.Sprintf("%s %s [%s] %s",
		entry.Timestamp.Format("2006-01-02 15:04:05"),
		entry.Level, entry.Component, entry.Message)
	if entry.Err != nil {
		msg += fmt.Sprintf(": %v", entry.Err)
	}
	return msg + "\n"
}

// Logger writes leveled log lines to any number of outputs.
type Logger struct {
	component string
	minLevel  LogLevel
	outputs   []io.Writer
	formatter Formatter
	mu        sync.Mutex
}

// NewLogger creates a logger for a component, writing to stdout.
func NewLogger(component string) *Logger {
	return &Logger{
		component: component,
		minLevel:  LogLevelInfo,
		outputs:   []io.Writer{os.Stdout},
		formatter: &TextFormatter{},
	}
}

// WithComponent returns a logger sharing outputs but tagged differently.
func (l *Logger) WithComponent(component string) *Logger {
	l.mu.Lock()
	defer l.mu.Unlock()
	return &Logger{
		component: component,
		minLevel:  l.minLevel,
		outputs:   append([]io.Writer{}, l.outputs...),
		formatter: l.formatter,
	}
}

// SetMinLevel sets the minimum level that will be written.
func (l *Logger) SetMinLevel(level LogLevel) *Logger {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.minLevel = level
	return l
}

// SetOutputs replaces the output writers.
func (l *Logger) SetOutputs(outputs ...io.Writer) *Logger {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.outputs = outputs
	return l
}

// AddOutput adds an output writer, e.g. a log file or a UI mirror.
func (l *Logger) AddOutput(w io.Writer) *Logger {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.outputs = append(l.outputs, w)
	return l
}

func (l *Logger) log(level LogLevel, message string, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if levelRank[level] < levelRank[l.minLevel] {
		return
	}

	formatted := l.formatter.Format(&Entry{
		Timestamp: time.Now(),
		Level:     level,
		Component: l.component,
		Message:   message,
		Err:       err,
	})

	for _, output := range l.outputs {
		output.Write([]byte(formatted))
	}
}

// Debug logs a debug message.
func (l *Logger) Debug(message string) {
	l.log(LogLevelDebug, message, nil)
}

// Debugf logs a formatted debug message.
func (l *Logger) Debugf(format string, args ...interface{}) {
	l.log(LogLevelDebug, fmt.Sprintf(format, args...), nil)
}

// Info logs an info message.
func (l *Logger) Info(message string) {
	l.log(LogLevelInfo, message, nil)
}

// Infof logs a formatted info message.
func (l *Logger) Infof(format string, args ...interface{}) {
	l.log(LogLevelInfo, fmt.Sprintf(format, args...), nil)
}

// Warn logs a warning message.
func (l *Logger) Warn(message string) {
	l.log(LogLevelWarn, message, nil)
}

// Warnf logs a formatted warning message.
func (l *Logger) Warnf(format string, args ...interface{}) {
	l.log(LogLevelWarn, fmt.Sprintf(format, args...), nil)
}

// Error logs an error message with its cause.
func (l *Logger) Error(message string, err error) {
	l.log(LogLevelError, message, err)
}

// Errorf logs a formatted error message.
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.log(LogLevelError, fmt.Sprintf(format, args...), nil)
}

// WriterFunc adapts a function to io.Writer so log lines can be mirrored
// anywhere, such as the event bus feeding a front end.
type WriterFunc func(p []byte) (int, error)

func (f WriterFunc) Write(p []byte) (int, error) {
	return f(p)
}
