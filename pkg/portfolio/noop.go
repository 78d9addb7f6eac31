package portfolio

import (
	"context"
	"log/slog"
)

// NoopEventSink is a no-operation implementation of EventSink
type NoopEventSink struct{}

// NewNoopEventSink creates a new no-operation event sink
func NewNoopEventSink() EventSink {
	return &NoopEventSink{}
}

func (n *NoopEventSink) ProfileUpdated(ctx context.Context, req UpdateProfileRequest) error {
	return nil
}

func (n *NoopEventSink) ProjectCreated(ctx context.Context, project *Project) error {
	return nil
}

func (n *NoopEventSink) ProjectDeleted(ctx context.Context, project *Project, report CleanupReport) error {
	return nil
}

func (n *NoopEventSink) MessageSubmitted(ctx context.Context, msg *ContactMessage) error {
	return nil
}

// LoggingEventSink writes every event to a structured logger.
type LoggingEventSink struct {
	logger *slog.Logger
}

// NewLoggingEventSink returns an EventSink that logs at info level.
func NewLoggingEventSink(logger *slog.Logger) EventSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingEventSink{logger: logger}
}

func (l *LoggingEventSink) ProfileUpdated(ctx context.Context, req UpdateProfileRequest) error {
	l.logger.InfoContext(ctx, "profile updated", "name", req.Name)
	return nil
}

func (l *LoggingEventSink) ProjectCreated(ctx context.Context, project *Project) error {
	l.logger.InfoContext(ctx, "project created",
		"project_id", project.ID,
		"category", project.Category,
		"featured", project.Featured)
	return nil
}

func (l *LoggingEventSink) ProjectDeleted(ctx context.Context, project *Project, report CleanupReport) error {
	attrs := []any{"project_id", project.ID, "files", len(report.Files)}
	for _, f := range report.Failed() {
		attrs = append(attrs, slog.Group("orphan", "ref", f.Ref, "err", f.Err))
	}
	l.logger.InfoContext(ctx, "project deleted", attrs...)
	return nil
}

func (l *LoggingEventSink) MessageSubmitted(ctx context.Context, msg *ContactMessage) error {
	l.logger.InfoContext(ctx, "contact message submitted", "message_id", msg.ID)
	return nil
}
