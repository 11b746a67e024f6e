package usecase_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"video-scheduler/domain/dto"
	"video-scheduler/domain/model"
	"video-scheduler/domain/repository"
)

// Mock implementations shared by the use case tests.

type MockJobStore struct{ mock.Mock }

func (m *MockJobStore) Create(ctx context.Context, job *model.Job) error {
	return m.Called(ctx, job).Error(0)
}

func (m *MockJobStore) Get(ctx context.Context, jobID string) (*model.Job, error) {
	args := m.Called(ctx, jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Job), args.Error(1)
}

func (m *MockJobStore) ListByUser(ctx context.Context, userID string) ([]*model.Job, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Job), args.Error(1)
}

func (m *MockJobStore) UpdateStatus(ctx context.Context, jobID string, status model.JobStatus, errMsg *string, videoID *string) error {
	return m.Called(ctx, jobID, status, errMsg, videoID).Error(0)
}

type MockChannelTokens struct{ mock.Mock }

func (m *MockChannelTokens) Upsert(ctx context.Context, token *model.ChannelToken) error {
	return m.Called(ctx, token).Error(0)
}

func (m *MockChannelTokens) Get(ctx context.Context, userID, channelID string) (*model.ChannelToken, error) {
	args := m.Called(ctx, userID, channelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ChannelToken), args.Error(1)
}

func (m *MockChannelTokens) ListByUser(ctx context.Context, userID string) ([]*model.ChannelToken, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.ChannelToken), args.Error(1)
}

type MockProvider struct{ mock.Mock }

func (m *MockProvider) ClientFor(ctx context.Context, userID, channelID string) (repository.IYouTube, error) {
	args := m.Called(ctx, userID, channelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(repository.IYouTube), args.Error(1)
}

func (m *MockProvider) RetrieverFor(ctx context.Context, userID, channelID string) (repository.IFileRetriever, error) {
	args := m.Called(ctx, userID, channelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(repository.IFileRetriever), args.Error(1)
}

type MockYouTube struct{ mock.Mock }

func (m *MockYouTube) ListScheduled(ctx context.Context) ([]*model.RemoteVideoState, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.RemoteVideoState), args.Error(1)
}

func (m *MockYouTube) GetVideoStatus(ctx context.Context, videoID string) (*model.RemoteVideoState, error) {
	args := m.Called(ctx, videoID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RemoteVideoState), args.Error(1)
}

func (m *MockYouTube) UploadVideo(ctx context.Context, in *dto.VideoUploadInput) (*model.RemoteVideoState, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RemoteVideoState), args.Error(1)
}

func (m *MockYouTube) SetThumbnail(ctx context.Context, videoID, filePath string) error {
	return m.Called(ctx, videoID, filePath).Error(0)
}

func (m *MockYouTube) UpdateVideoPrivacy(ctx context.Context, videoID, privacy string) error {
	return m.Called(ctx, videoID, privacy).Error(0)
}

func (m *MockYouTube) GetMyChannel(ctx context.Context) (*model.YouTubeChannel, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.YouTubeChannel), args.Error(1)
}

func (m *MockYouTube) ListRecentVideos(ctx context.Context, maxResults int64) ([]*model.RecentVideo, error) {
	args := m.Called(ctx, maxResults)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.RecentVideo), args.Error(1)
}

type MockFailureLog struct{ mock.Mock }

func (m *MockFailureLog) Append(ctx context.Context, rec *model.FailureRecord) error {
	return m.Called(ctx, rec).Error(0)
}

func (m *MockFailureLog) ListByChannel(ctx context.Context, userID, channelID string) ([]*model.FailureRecord, error) {
	args := m.Called(ctx, userID, channelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.FailureRecord), args.Error(1)
}

type MockEvents struct{ mock.Mock }

func (m *MockEvents) PublishJobStatus(ctx context.Context, event model.JobStatusEvent) error {
	return m.Called(ctx, event).Error(0)
}

type MockRetriever struct{ mock.Mock }

func (m *MockRetriever) Fetch(ctx context.Context, url string) (string, func(), error) {
	args := m.Called(ctx, url)
	var cleanup func()
	if args.Get(1) != nil {
		cleanup = args.Get(1).(func())
	}
	return args.String(0), cleanup, args.Error(2)
}

type MockBackstop struct{ mock.Mock }

func (m *MockBackstop) Arm(jobID, userID, channelID, videoID string, fireAt time.Time) {
	m.Called(jobID, userID, channelID, videoID, fireAt)
}

func (m *MockBackstop) Cancel(jobID string) bool {
	return m.Called(jobID).Bool(0)
}

func (m *MockBackstop) Status(jobID string) (bool, time.Time) {
	args := m.Called(jobID)
	return args.Bool(0), args.Get(1).(time.Time)
}

type MockRecentVideoCache struct{ mock.Mock }

func (m *MockRecentVideoCache) Get(ctx context.Context, userID, channelID string) ([]*model.RecentVideo, error) {
	args := m.Called(ctx, userID, channelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.RecentVideo), args.Error(1)
}

func (m *MockRecentVideoCache) Set(ctx context.Context, userID, channelID string, videos []*model.RecentVideo) error {
	return m.Called(ctx, userID, channelID, videos).Error(0)
}
