package service

import (
	"context"
	"io"
	"log/slog"
)

// UseCaseEvent captures lightweight execution telemetry for one engine
// operation, including how many transaction attempts it consumed.
type UseCaseEvent struct {
	Name     string
	PlanID   string
	Attempts int
	Success  bool
	Err      error
}

// UseCaseObserver receives operation execution events.
type UseCaseObserver interface {
	ObserveUseCase(ctx context.Context, event UseCaseEvent)
}

// NoopUseCaseObserver ignores all events.
type NoopUseCaseObserver struct{}

func (NoopUseCaseObserver) ObserveUseCase(context.Context, UseCaseEvent) {}

type logUseCaseObserver struct {
	logger *slog.Logger
}

// NewLogUseCaseObserver writes operation events to the provided writer.
func NewLogUseCaseObserver(w io.Writer) UseCaseObserver {
	if w == nil {
		return NoopUseCaseObserver{}
	}
	return &logUseCaseObserver{
		logger: slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})),
	}
}

func (o *logUseCaseObserver) ObserveUseCase(ctx context.Context, event UseCaseEvent) {
	attrs := []any{
		"use_case", event.Name,
		"plan_id", event.PlanID,
		"attempts", event.Attempts,
		"success", event.Success,
	}
	if event.Err != nil {
		attrs = append(attrs, "error", event.Err.Error())
		o.logger.ErrorContext(ctx, "plan_use_case", attrs...)
		return
	}
	o.logger.InfoContext(ctx, "plan_use_case", attrs...)
}
