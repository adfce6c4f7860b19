// Package analytics defines the event sink the suggestion engine reports
// into. Emission is fire-and-forget: sink failures are logged and never
// surface into a questionnaire response.
package analytics

import (
	"context"
	"log/slog"
	"time"
)

// ShownEvent records that a suggestion was returned to a caller.
type ShownEvent struct {
	UserID         string    `json:"userId"`
	SuggestionID   string    `json:"suggestionId"`
	Type           string    `json:"type"`
	Priority       string    `json:"priority"`
	RelevanceScore float64   `json:"relevanceScore"`
	Timestamp      time.Time `json:"timestamp"`
}

// ClickEvent records that the user acted on a suggestion.
type ClickEvent struct {
	UserID       string    `json:"userId"`
	SuggestionID string    `json:"suggestionId"`
	ActionTaken  string    `json:"actionTaken"`
	Timestamp    time.Time `json:"timestamp"`
}

// Sink receives suggestion events. Implementations may buffer or ship them
// anywhere; errors are the implementation's to report, callers ignore them
// after logging.
type Sink interface {
	SuggestionShown(ctx context.Context, event ShownEvent) error
	SuggestionClicked(ctx context.Context, event ClickEvent) error
}

// Nop discards every event. It is the default sink.
type Nop struct{}

func (Nop) SuggestionShown(context.Context, ShownEvent) error   { return nil }
func (Nop) SuggestionClicked(context.Context, ClickEvent) error { return nil }

// Logger writes events as structured log lines. Useful in development and as
// a template for real sinks.
type Logger struct {
	log *slog.Logger
}

// NewLogger builds a logging sink. A nil logger falls back to slog.Default().
func NewLogger(log *slog.Logger) *Logger {
	if log == nil {
		log = slog.Default()
	}
	return &Logger{log: log}
}

func (l *Logger) SuggestionShown(_ context.Context, event ShownEvent) error {
	l.log.Info("suggestion_shown",
		"userId", event.UserID,
		"suggestionId", event.SuggestionID,
		"type", event.Type,
		"priority", event.Priority,
		"relevanceScore", event.RelevanceScore,
		"timestamp", event.Timestamp,
	)
	return nil
}

func (l *Logger) SuggestionClicked(_ context.Context, event ClickEvent) error {
	l.log.Info("suggestion_clicked",
		"userId", event.UserID,
		"suggestionId", event.SuggestionID,
		"actionTaken", event.ActionTaken,
		"timestamp", event.Timestamp,
	)
	return nil
}

// Recorder keeps events in memory. Intended for tests.
type Recorder struct {
	Shown   []ShownEvent
	Clicked []ClickEvent
}

func (r *Recorder) SuggestionShown(_ context.Context, event ShownEvent) error {
	r.Shown = append(r.Shown, event)
	return nil
}

func (r *Recorder) SuggestionClicked(_ context.Context, event ClickEvent) error {
	r.Clicked = append(r.Clicked, event)
	return nil
}
