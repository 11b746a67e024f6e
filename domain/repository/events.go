package repository

import (
	"context"

	"video-scheduler/domain/model"
)

// IEventPublisher emits job lifecycle events. Implementations are best-effort
// and nil-safe: publishing must never block a status transition.
type IEventPublisher interface {
	PublishJobStatus(ctx context.Context, event model.JobStatusEvent) error
}
