package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"video-scheduler/domain/model"
	"video-scheduler/domain/repository"
	"video-scheduler/infrastructure/logger"
)

const defaultFireTimeout = 30 * time.Second

// IBackstop is the local timer-based publish redundancy layer. The platform's
// native scheduling is primary; these timers only force publication when it
// silently fails.
type IBackstop interface {
	Arm(jobID, userID, channelID, videoID string, fireAt time.Time)
	Cancel(jobID string) bool
	Status(jobID string) (armed bool, nextFire time.Time)
}

type armedTimer struct {
	timer     *time.Timer
	fireAt    time.Time
	userID    string
	channelID string
	videoID   string
}

// Backstop owns one in-process timer per armed job. Timers are not durable:
// a restart loses them all and re-arming is the owning workflow's job, found
// through reconciliation. No recovery scan happens here.
type Backstop struct {
	provider    repository.IYouTubeProvider
	jobs        repository.IJobStore
	failures    repository.IFailureLog
	events      repository.IEventPublisher
	fireTimeout time.Duration

	mu     sync.Mutex
	timers map[string]*armedTimer
}

func NewBackstop(
	provider repository.IYouTubeProvider,
	jobs repository.IJobStore,
	failures repository.IFailureLog,
	events repository.IEventPublisher,
) *Backstop {
	return &Backstop{
		provider:    provider,
		jobs:        jobs,
		failures:    failures,
		events:      events,
		fireTimeout: defaultFireTimeout,
		timers:      make(map[string]*armedTimer),
	}
}

// WithFireTimeout bounds the platform calls made when a timer fires.
func (b *Backstop) WithFireTimeout(d time.Duration) *Backstop {
	if d > 0 {
		b.fireTimeout = d
	}
	return b
}

// Arm registers exactly one pending timer for jobID. Re-arming replaces the
// prior timer. A fireAt already in the past fires immediately.
func (b *Backstop) Arm(jobID, userID, channelID, videoID string, fireAt time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if existing, ok := b.timers[jobID]; ok {
		existing.timer.Stop()
	}

	delay := time.Until(fireAt)
	if delay < 0 {
		delay = 0
	}
	b.timers[jobID] = &armedTimer{
		timer:     time.AfterFunc(delay, func() { b.fire(jobID) }),
		fireAt:    fireAt,
		userID:    userID,
		channelID: channelID,
		videoID:   videoID,
	}
	logger.GetLogger().WithField("jobId", jobID).WithField("fireAt", fireAt).
		Info("Backstop timer armed")
}

// Cancel stops and removes the timer for jobID, reporting whether one existed.
func (b *Backstop) Cancel(jobID string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	entry, ok := b.timers[jobID]
	if !ok {
		return false
	}
	entry.timer.Stop()
	delete(b.timers, jobID)
	return true
}

// Status reports whether a timer is armed for jobID and its next fire instant.
func (b *Backstop) Status(jobID string) (bool, time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()

	entry, ok := b.timers[jobID]
	if !ok {
		return false, time.Time{}
	}
	return true, entry.fireAt
}

// fire attempts to flip the video public. Success marks the job published;
// failure marks it failed with the captured message and appends a failure
// record. No automatic retry.
func (b *Backstop) fire(jobID string) {
	b.mu.Lock()
	entry, ok := b.timers[jobID]
	if ok {
		delete(b.timers, jobID)
	}
	b.mu.Unlock()
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), b.fireTimeout)
	defer cancel()

	client, err := b.provider.ClientFor(ctx, entry.userID, entry.channelID)
	if err != nil {
		b.markFailed(ctx, jobID, entry, fmt.Errorf("resolving channel credential: %w", err))
		return
	}
	if err := client.UpdateVideoPrivacy(ctx, entry.videoID, model.PrivacyPublic); err != nil {
		b.markFailed(ctx, jobID, entry, fmt.Errorf("forcing video public: %w", err))
		return
	}

	if err := b.jobs.UpdateStatus(ctx, jobID, model.JobStatusPublished, nil, nil); err != nil {
		logger.GetLogger().WithField("error", err).WithField("jobId", jobID).
			Error("Backstop published video but failed to persist job status")
	}
	b.publishEvent(ctx, jobID, entry, model.JobStatusPublished, "")
	logger.GetLogger().WithField("jobId", jobID).WithField("videoId", entry.videoID).
		Info("Backstop published video")
}

func (b *Backstop) markFailed(ctx context.Context, jobID string, entry *armedTimer, cause error) {
	msg := cause.Error()
	if err := b.jobs.UpdateStatus(ctx, jobID, model.JobStatusFailed, &msg, nil); err != nil {
		logger.GetLogger().WithField("error", err).WithField("jobId", jobID).
			Error("Failed to persist backstop failure")
	}
	if b.failures != nil {
		videoID := entry.videoID
		rec := &model.FailureRecord{
			UserID:             entry.userID,
			ChannelID:          entry.channelID,
			AttemptedPublishAt: entry.fireAt,
			FailedAt:           time.Now().UTC(),
			Reason:             msg,
			JobID:              jobID,
			VideoID:            &videoID,
		}
		if err := b.failures.Append(ctx, rec); err != nil {
			logger.GetLogger().WithField("error", err).WithField("jobId", jobID).
				Warn("Failed to append failure record")
		}
	}
	b.publishEvent(ctx, jobID, entry, model.JobStatusFailed, msg)
	logger.GetLogger().WithField("error", cause).WithField("jobId", jobID).
		Error("Backstop publish attempt failed")
}

func (b *Backstop) publishEvent(ctx context.Context, jobID string, entry *armedTimer, status model.JobStatus, errMsg string) {
	if b.events == nil {
		return
	}
	event := model.JobStatusEvent{
		JobID:        jobID,
		UserID:       entry.userID,
		ChannelID:    entry.channelID,
		VideoID:      entry.videoID,
		Status:       status,
		ErrorMessage: errMsg,
		OccurredAt:   time.Now().UTC(),
	}
	if err := b.events.PublishJobStatus(ctx, event); err != nil {
		logger.GetLogger().WithField("error", err).WithField("jobId", jobID).
			Warn("Failed to publish job status event")
	}
}
