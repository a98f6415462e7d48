// Package notify delivers user-visible notifications (the toast layer of a
// UI) raised by resource modules.
package notify

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
)

// Level classifies a notification.
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
)

// Notification is one user-visible message.
type Notification struct {
	Level   Level  `json:"level"`
	Message string `json:"message"`
}

// Notifier receives notifications. Implementations must be safe for
// concurrent use.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// Success is shorthand for a success notification.
func Success(ctx context.Context, n Notifier, message string) {
	n.Notify(ctx, Notification{Level: LevelSuccess, Message: message})
}

// Error is shorthand for an error notification.
func Error(ctx context.Context, n Notifier, message string) {
	n.Notify(ctx, Notification{Level: LevelError, Message: message})
}

// Info is shorthand for an informational notification.
func Info(ctx context.Context, n Notifier, message string) {
	n.Notify(ctx, Notification{Level: LevelInfo, Message: message})
}

// Logger writes notifications to a structured logger.
type Logger struct {
	logger *slog.Logger
}

// NewLogger creates a slog-backed notifier.
func NewLogger(logger *slog.Logger) *Logger {
	return &Logger{logger: logger}
}

func (l *Logger) Notify(ctx context.Context, n Notification) {
	level := slog.LevelInfo
	if n.Level == LevelError {
		level = slog.LevelWarn
	}
	l.logger.Log(ctx, level, "notification",
		slog.String("level", string(n.Level)),
		slog.String("message", n.Message),
	)
}

// Writer prints notifications as plain lines, e.g. to a terminal's stderr.
type Writer struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriter creates a notifier printing to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

func (w *Writer) Notify(_ context.Context, n Notification) {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, _ = fmt.Fprintf(w.w, "[%s] %s\n", n.Level, n.Message)
}

// Recorder keeps every notification in memory.
type Recorder struct {
	mu    sync.Mutex
	items []Notification
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Notify(_ context.Context, n Notification) {
	r.mu.Lock()
	r.items = append(r.items, n)
	r.mu.Unlock()
}

// All returns a copy of the recorded notifications in arrival order.
func (r *Recorder) All() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Notification, len(r.items))
	copy(out, r.items)
	return out
}

// Filter returns the recorded notifications of one level.
func (r *Recorder) Filter(level Level) []Notification {
	var out []Notification
	for _, n := range r.All() {
		if n.Level == level {
			out = append(out, n)
		}
	}
	return out
}

// Reset forgets every recorded notification.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.items = nil
	r.mu.Unlock()
}

// Multi fans a notification out to several notifiers.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, n Notification) {
	for _, target := range m {
		target.Notify(ctx, n)
	}
}

// Discard drops every notification.
type Discard struct{}

func (Discard) Notify(context.Context, Notification) {}
