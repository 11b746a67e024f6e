package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"video-scheduler/domain/dto"
	"video-scheduler/domain/model"
	"video-scheduler/domain/repository"
)

type mockProvider struct{ mock.Mock }

func (m *mockProvider) ClientFor(ctx context.Context, userID, channelID string) (repository.IYouTube, error) {
	args := m.Called(ctx, userID, channelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(repository.IYouTube), args.Error(1)
}

func (m *mockProvider) RetrieverFor(ctx context.Context, userID, channelID string) (repository.IFileRetriever, error) {
	args := m.Called(ctx, userID, channelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(repository.IFileRetriever), args.Error(1)
}

type mockYouTube struct{ mock.Mock }

func (m *mockYouTube) ListScheduled(ctx context.Context) ([]*model.RemoteVideoState, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.RemoteVideoState), args.Error(1)
}

func (m *mockYouTube) GetVideoStatus(ctx context.Context, videoID string) (*model.RemoteVideoState, error) {
	args := m.Called(ctx, videoID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RemoteVideoState), args.Error(1)
}

func (m *mockYouTube) UploadVideo(ctx context.Context, in *dto.VideoUploadInput) (*model.RemoteVideoState, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RemoteVideoState), args.Error(1)
}

func (m *mockYouTube) SetThumbnail(ctx context.Context, videoID, filePath string) error {
	return m.Called(ctx, videoID, filePath).Error(0)
}

func (m *mockYouTube) UpdateVideoPrivacy(ctx context.Context, videoID, privacy string) error {
	return m.Called(ctx, videoID, privacy).Error(0)
}

func (m *mockYouTube) GetMyChannel(ctx context.Context) (*model.YouTubeChannel, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.YouTubeChannel), args.Error(1)
}

func (m *mockYouTube) ListRecentVideos(ctx context.Context, maxResults int64) ([]*model.RecentVideo, error) {
	args := m.Called(ctx, maxResults)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.RecentVideo), args.Error(1)
}

type mockJobStore struct{ mock.Mock }

func (m *mockJobStore) Create(ctx context.Context, job *model.Job) error {
	return m.Called(ctx, job).Error(0)
}

func (m *mockJobStore) Get(ctx context.Context, jobID string) (*model.Job, error) {
	args := m.Called(ctx, jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Job), args.Error(1)
}

func (m *mockJobStore) ListByUser(ctx context.Context, userID string) ([]*model.Job, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Job), args.Error(1)
}

func (m *mockJobStore) UpdateStatus(ctx context.Context, jobID string, status model.JobStatus, errMsg *string, videoID *string) error {
	return m.Called(ctx, jobID, status, errMsg, videoID).Error(0)
}

type mockFailureLog struct{ mock.Mock }

func (m *mockFailureLog) Append(ctx context.Context, rec *model.FailureRecord) error {
	return m.Called(ctx, rec).Error(0)
}

func (m *mockFailureLog) ListByChannel(ctx context.Context, userID, channelID string) ([]*model.FailureRecord, error) {
	args := m.Called(ctx, userID, channelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.FailureRecord), args.Error(1)
}

type mockEvents struct{ mock.Mock }

func (m *mockEvents) PublishJobStatus(ctx context.Context, event model.JobStatusEvent) error {
	return m.Called(ctx, event).Error(0)
}

func waitForMock(t *testing.T, check func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if check() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("timed out waiting for backstop timer to fire")
}

func TestBackstop_FirePublishesVideo(t *testing.T) {
	provider := new(mockProvider)
	client := new(mockYouTube)
	jobs := new(mockJobStore)
	events := new(mockEvents)

	provider.On("ClientFor", mock.Anything, "user-1", "chan-1").Return(client, nil).Once()
	client.On("UpdateVideoPrivacy", mock.Anything, "vid-1", model.PrivacyPublic).Return(nil).Once()
	done := make(chan struct{})
	jobs.On("UpdateStatus", mock.Anything, "job-1", model.JobStatusPublished, (*string)(nil), (*string)(nil)).
		Return(nil).Once().
		Run(func(args mock.Arguments) { close(done) })
	events.On("PublishJobStatus", mock.Anything, mock.MatchedBy(func(e model.JobStatusEvent) bool {
		return e.JobID == "job-1" && e.Status == model.JobStatusPublished
	})).Return(nil).Once()

	backstop := NewBackstop(provider, jobs, nil, events)
	backstop.Arm("job-1", "user-1", "chan-1", "vid-1", time.Now().Add(10*time.Millisecond))

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("backstop timer did not fire")
	}
	waitForMock(t, func() bool { return len(events.Calls) > 0 })

	provider.AssertExpectations(t)
	client.AssertExpectations(t)
	jobs.AssertExpectations(t)
	events.AssertExpectations(t)

	armed, _ := backstop.Status("job-1")
	assert.False(t, armed, "fired timer should be removed")
}

func TestBackstop_FireFailureMarksJobFailed(t *testing.T) {
	provider := new(mockProvider)
	client := new(mockYouTube)
	jobs := new(mockJobStore)
	failures := new(mockFailureLog)
	events := new(mockEvents)

	cause := errors.New("quota exceeded")
	provider.On("ClientFor", mock.Anything, "user-1", "chan-1").Return(client, nil).Once()
	client.On("UpdateVideoPrivacy", mock.Anything, "vid-1", model.PrivacyPublic).Return(cause).Once()

	done := make(chan struct{})
	jobs.On("UpdateStatus", mock.Anything, "job-1", model.JobStatusFailed,
		mock.MatchedBy(func(msg *string) bool { return msg != nil && *msg != "" }), (*string)(nil)).
		Return(nil).Once().
		Run(func(args mock.Arguments) { close(done) })
	failures.On("Append", mock.Anything, mock.MatchedBy(func(rec *model.FailureRecord) bool {
		return rec.JobID == "job-1" && rec.ChannelID == "chan-1"
	})).Return(nil).Once()
	events.On("PublishJobStatus", mock.Anything, mock.MatchedBy(func(e model.JobStatusEvent) bool {
		return e.JobID == "job-1" && e.Status == model.JobStatusFailed && e.ErrorMessage != ""
	})).Return(nil).Once()

	backstop := NewBackstop(provider, jobs, failures, events)
	backstop.Arm("job-1", "user-1", "chan-1", "vid-1", time.Now().Add(10*time.Millisecond))

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("backstop timer did not fire")
	}
	waitForMock(t, func() bool { return len(failures.Calls) > 0 && len(events.Calls) > 0 })

	provider.AssertExpectations(t)
	client.AssertExpectations(t)
	jobs.AssertExpectations(t)
	failures.AssertExpectations(t)
	events.AssertExpectations(t)
}

func TestBackstop_ReArmReplacesTimer(t *testing.T) {
	backstop := NewBackstop(new(mockProvider), new(mockJobStore), nil, nil)

	first := time.Now().Add(1 * time.Hour)
	second := time.Now().Add(2 * time.Hour)

	backstop.Arm("job-1", "user-1", "chan-1", "vid-1", first)
	backstop.Arm("job-1", "user-1", "chan-1", "vid-1", second)

	armed, nextFire := backstop.Status("job-1")
	assert.True(t, armed)
	assert.Equal(t, second, nextFire, "re-arming replaces the prior timer")
}

func TestBackstop_Cancel(t *testing.T) {
	backstop := NewBackstop(new(mockProvider), new(mockJobStore), nil, nil)

	backstop.Arm("job-1", "user-1", "chan-1", "vid-1", time.Now().Add(1*time.Hour))
	assert.True(t, backstop.Cancel("job-1"))
	assert.False(t, backstop.Cancel("job-1"), "second cancel finds nothing")

	armed, _ := backstop.Status("job-1")
	assert.False(t, armed)
}

func TestBackstop_StatusNotArmed(t *testing.T) {
	backstop := NewBackstop(new(mockProvider), new(mockJobStore), nil, nil)

	armed, nextFire := backstop.Status("unknown")
	assert.False(t, armed)
	assert.True(t, nextFire.IsZero())
}
