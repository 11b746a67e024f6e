package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"video-scheduler/domain/dto"
	"video-scheduler/domain/model"
	"video-scheduler/domain/repository"
	"video-scheduler/infrastructure/logger"
	"video-scheduler/scheduler"
)

// IScheduleUseCase accepts batch schedule requests: each video is fetched
// from storage, uploaded private with the platform's native schedule set,
// recorded as a job, and armed on the local backstop.
type IScheduleUseCase interface {
	ScheduleVideos(ctx context.Context, userID, channelID string, req *dto.ScheduleRequest) (*dto.ScheduleResult, error)
}

type ScheduleUseCase struct {
	jobs     repository.IJobStore
	failures repository.IFailureLog
	provider repository.IYouTubeProvider
	backstop scheduler.IBackstop
	clock    func() time.Time
}

func NewScheduleUseCase(
	jobs repository.IJobStore,
	failures repository.IFailureLog,
	provider repository.IYouTubeProvider,
	backstop scheduler.IBackstop,
) IScheduleUseCase {
	return &ScheduleUseCase{
		jobs:     jobs,
		failures: failures,
		provider: provider,
		backstop: backstop,
		clock:    time.Now,
	}
}

// ScheduleVideos processes the batch item by item. A bad entry lands in
// result.Failed with its index and reason; it never aborts the rest of the
// batch. Credential resolution failures abort up front since no item could
// succeed without a client.
func (u *ScheduleUseCase) ScheduleVideos(ctx context.Context, userID, channelID string, req *dto.ScheduleRequest) (*dto.ScheduleResult, error) {
	if req == nil || len(req.Videos) == 0 {
		return nil, fmt.Errorf("%w: videos is required", model.ErrValidation)
	}

	client, err := u.provider.ClientFor(ctx, userID, channelID)
	if err != nil {
		return nil, err
	}
	retriever, err := u.provider.RetrieverFor(ctx, userID, channelID)
	if err != nil {
		return nil, err
	}

	result := &dto.ScheduleResult{
		Scheduled: []dto.ScheduledVideoResult{},
		Failed:    []dto.FailedVideoResult{},
	}
	for i := range req.Videos {
		in := &req.Videos[i]
		scheduled, err := u.scheduleOne(ctx, client, retriever, userID, channelID, in)
		if err != nil {
			logger.GetLogger().WithField("error", err).WithField("index", i).
				WithField("title", in.Title).Warn("Scheduling video failed")
			result.Failed = append(result.Failed, dto.FailedVideoResult{
				Index:  i,
				Title:  in.Title,
				Reason: err.Error(),
			})
			continue
		}
		result.Scheduled = append(result.Scheduled, *scheduled)
	}
	result.ScheduledCount = len(result.Scheduled)
	result.FailedCount = len(result.Failed)
	return result, nil
}

func (u *ScheduleUseCase) scheduleOne(
	ctx context.Context,
	client repository.IYouTube,
	retriever repository.IFileRetriever,
	userID, channelID string,
	in *dto.ScheduleVideoInput,
) (*dto.ScheduledVideoResult, error) {
	publishAt, err := in.Validate()
	if err != nil {
		return nil, err
	}
	if !publishAt.After(u.clock()) {
		return nil, fmt.Errorf("%w: publish_datetime must be in the future", model.ErrValidation)
	}

	path, cleanup, err := retriever.Fetch(ctx, in.VideoURL)
	if err != nil {
		u.recordFailure(ctx, userID, channelID, "", in.Title, publishAt, err)
		return nil, fmt.Errorf("fetching video file: %w", err)
	}
	defer cleanup()

	state, err := client.UploadVideo(ctx, &dto.VideoUploadInput{
		FilePath:    path,
		Title:       in.Title,
		Description: in.Description,
		Tags:        in.Tags,
		CategoryID:  in.Category(),
		PublishAt:   publishAt,
		MadeForKids: in.MadeForKids,
	})
	if err != nil {
		u.recordFailure(ctx, userID, channelID, "", in.Title, publishAt, err)
		return nil, fmt.Errorf("uploading video: %w", err)
	}

	if in.ThumbnailURL != "" {
		u.setThumbnail(ctx, client, retriever, state.VideoID, in.ThumbnailURL)
	}

	job := &model.Job{
		ID:         uuid.New().String(),
		UserID:     userID,
		ChannelID:  channelID,
		VideoID:    &state.VideoID,
		VideoTitle: in.Title,
		Status:     model.JobStatusScheduled,
		PublishAt:  publishAt,
		CreatedAt:  u.clock().UTC(),
		Metadata: &model.JobMetadata{
			Description: in.Description,
			Tags:        in.Tags,
			CategoryID:  in.Category(),
			MadeForKids: in.MadeForKids,
			VideoURL:    in.VideoURL,
		},
	}
	if err := u.jobs.Create(ctx, job); err != nil {
		// The video is already on the platform with its native schedule; the
		// platform will still publish it even though tracking is lost.
		u.recordFailure(ctx, userID, channelID, state.VideoID, in.Title, publishAt, err)
		return nil, fmt.Errorf("recording job: %w", err)
	}

	u.backstop.Arm(job.ID, userID, channelID, state.VideoID, publishAt)

	return &dto.ScheduledVideoResult{
		JobID:     job.ID,
		VideoID:   state.VideoID,
		Title:     in.Title,
		PublishAt: publishAt,
	}, nil
}

// setThumbnail is best-effort: a bad thumbnail never fails the video.
func (u *ScheduleUseCase) setThumbnail(ctx context.Context, client repository.IYouTube, retriever repository.IFileRetriever, videoID, url string) {
	path, cleanup, err := retriever.Fetch(ctx, url)
	if err != nil {
		logger.GetLogger().WithField("error", err).WithField("videoId", videoID).
			Warn("Fetching thumbnail failed")
		return
	}
	defer cleanup()
	if err := client.SetThumbnail(ctx, videoID, path); err != nil {
		logger.GetLogger().WithField("error", err).WithField("videoId", videoID).
			Warn("Setting thumbnail failed")
	}
}

func (u *ScheduleUseCase) recordFailure(ctx context.Context, userID, channelID, videoID, title string, publishAt time.Time, cause error) {
	if u.failures == nil {
		return
	}
	rec := &model.FailureRecord{
		UserID:             userID,
		ChannelID:          channelID,
		Title:              title,
		AttemptedPublishAt: publishAt,
		FailedAt:           u.clock().UTC(),
		Reason:             cause.Error(),
	}
	if videoID != "" {
		rec.VideoID = &videoID
	}
	if err := u.failures.Append(ctx, rec); err != nil {
		logger.GetLogger().WithField("error", err).Warn("Failed to append failure record")
	}
}
