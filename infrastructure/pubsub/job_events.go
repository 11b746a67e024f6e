package pubsub

import (
	"context"
	"encoding/json"
	"fmt"

	"cloud.google.com/go/pubsub"

	"video-scheduler/domain/model"
	"video-scheduler/infrastructure/logger"
)

// NewPubSub connects to Google Pub/Sub for the configured project.
func NewPubSub(ctx context.Context, projectID string) (*pubsub.Client, error) {
	if projectID == "" {
		return nil, fmt.Errorf("pubsub project id not configured")
	}
	client, err := pubsub.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("creating pubsub client: %w", err)
	}
	return client, nil
}

// JobEventPublisher emits JobStatusEvent messages on a single topic. A nil
// client degrades to a no-op so status transitions never depend on Pub/Sub
// availability.
type JobEventPublisher struct {
	client *pubsub.Client
	topic  string
}

func NewJobEventPublisher(client *pubsub.Client, topic string) *JobEventPublisher {
	return &JobEventPublisher{client: client, topic: topic}
}

func (p *JobEventPublisher) PublishJobStatus(ctx context.Context, event model.JobStatusEvent) error {
	if p.client == nil {
		return nil
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encoding job status event: %w", err)
	}

	topic := p.client.Topic(p.topic)
	exists, err := topic.Exists(ctx)
	if err != nil {
		return fmt.Errorf("checking topic %s: %w", p.topic, err)
	}
	if !exists {
		if _, err := p.client.CreateTopic(ctx, p.topic); err != nil {
			return fmt.Errorf("creating topic %s: %w", p.topic, err)
		}
	}

	serverID, err := topic.Publish(ctx, &pubsub.Message{Data: payload}).Get(ctx)
	if err != nil {
		return fmt.Errorf("publishing job status event: %w", err)
	}
	logger.GetLogger().WithField("serverId", serverID).WithField("jobId", event.JobID).
		Debug("Job status event published")
	return nil
}
