package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"video-scheduler/domain/model"
	"video-scheduler/domain/repository"
	"video-scheduler/infrastructure/logger"
)

const remoteFetchTimeout = 15 * time.Second

// IReconcileUseCase merges job store records with live platform state into
// the authoritative "still scheduled, not yet public" view.
type IReconcileUseCase interface {
	// ListScheduled reconciles every channel of the user, or just channelID
	// when non-empty. Per-channel failures degrade that channel to local
	// fallback and are reported, not raised; a scoped query still raises
	// AuthExpired/ChannelNotFound for its single channel.
	ListScheduled(ctx context.Context, userID, channelID string) (*model.ReconcileReport, error)
	// GetJobView resolves one job against remote state. Fails with
	// ErrNotFound when absent, ErrForbidden when owned by another user.
	GetJobView(ctx context.Context, jobID, userID string) (*model.ScheduledEntry, error)
	// SyncAll writes resolved statuses back for every job of the user and
	// returns how many persisted statuses changed. Idempotent: a second run
	// with no remote change reports 0.
	SyncAll(ctx context.Context, userID string) (int, error)
}

type ReconcileUseCase struct {
	jobs     repository.IJobStore
	tokens   repository.IChannelToken
	provider repository.IYouTubeProvider
	events   repository.IEventPublisher
	clock    func() time.Time
}

func NewReconcileUseCase(
	jobs repository.IJobStore,
	tokens repository.IChannelToken,
	provider repository.IYouTubeProvider,
	events repository.IEventPublisher,
) IReconcileUseCase {
	return NewReconcileUseCaseWithClock(jobs, tokens, provider, events, time.Now)
}

// NewReconcileUseCaseWithClock injects the time source; tests pin it.
func NewReconcileUseCaseWithClock(
	jobs repository.IJobStore,
	tokens repository.IChannelToken,
	provider repository.IYouTubeProvider,
	events repository.IEventPublisher,
	clock func() time.Time,
) IReconcileUseCase {
	return &ReconcileUseCase{
		jobs:     jobs,
		tokens:   tokens,
		provider: provider,
		events:   events,
		clock:    clock,
	}
}

// resolution is the outcome of resolving one join item against the
// precedence rules.
type resolution struct {
	status   model.JobStatus
	instant  *time.Time
	included bool
}

func (u *ReconcileUseCase) ListScheduled(ctx context.Context, userID, channelID string) (*model.ReconcileReport, error) {
	now := u.clock()
	scoped := channelID != ""

	jobs, err := u.jobs.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing jobs for user %s: %w", userID, err)
	}
	if scoped {
		filtered := jobs[:0]
		for _, job := range jobs {
			if job.ChannelID == channelID {
				filtered = append(filtered, job)
			}
		}
		jobs = filtered
	}

	channels, err := u.channelsToFetch(ctx, userID, channelID, jobs)
	if err != nil {
		return nil, err
	}

	report := &model.ReconcileReport{}
	remote := make(map[string]*model.RemoteVideoState)
	remoteOrder := make([]string, 0)
	channelOf := make(map[string]string)
	clients := make(map[string]repository.IYouTube)

	for _, ch := range channels {
		client, states, err := u.fetchChannel(ctx, userID, ch)
		if err != nil {
			if scoped && (errors.Is(err, model.ErrAuthExpired) || errors.Is(err, model.ErrChannelNotFound)) {
				return nil, err
			}
			logger.GetLogger().WithField("error", err).WithField("channelId", ch).
				Warn("Remote fetch failed, degrading channel to local fallback")
			report.ChannelFailures = append(report.ChannelFailures, model.ChannelFailure{
				ChannelID: ch,
				Reason:    err.Error(),
			})
			continue
		}
		clients[ch] = client
		for _, state := range states {
			if _, seen := remote[state.VideoID]; !seen {
				remoteOrder = append(remoteOrder, state.VideoID)
			}
			remote[state.VideoID] = state
			channelOf[state.VideoID] = ch
		}
	}

	items := joinJobsWithRemote(jobs, remote, clients)

	var entries []model.ScheduledEntry
	for _, item := range items {
		res := u.resolveJob(ctx, item, clients, now)
		u.writeBack(ctx, item.Job, res.status)
		if res.included {
			entries = append(entries, jobEntry(item.Job, res))
		}
	}

	// Whatever survived the join is platform state this system never created
	// a job for; future-scheduled leftovers become remote-only entries.
	for _, videoID := range remoteOrder {
		state, ok := remote[videoID]
		if !ok {
			continue
		}
		if !state.ScheduledForFuture(now) {
			continue
		}
		entries = append(entries, model.ScheduledEntry{
			UserID:     userID,
			ChannelID:  channelOf[videoID],
			VideoID:    videoID,
			Title:      state.Title,
			Status:     model.JobStatusScheduled,
			PublishAt:  state.PublishAt,
			Provenance: model.ProvenanceRemote,
		})
	}

	sortEntries(entries)
	report.Entries = entries
	return report, nil
}

func (u *ReconcileUseCase) GetJobView(ctx context.Context, jobID, userID string) (*model.ScheduledEntry, error) {
	now := u.clock()

	job, err := u.jobs.Get(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("getting job %s: %w", jobID, err)
	}
	if job == nil {
		return nil, fmt.Errorf("%w: job %s", model.ErrNotFound, jobID)
	}
	if job.UserID != userID {
		return nil, fmt.Errorf("%w: job %s", model.ErrForbidden, jobID)
	}

	res := resolution{status: job.Status, instant: publishInstant(job), included: false}
	if job.VideoID != nil && !job.Status.IsTerminal() {
		client, err := u.provider.ClientFor(ctx, userID, job.ChannelID)
		if err != nil {
			if errors.Is(err, model.ErrAuthExpired) || errors.Is(err, model.ErrChannelNotFound) {
				return nil, err
			}
			res = resolveFallback(job, now)
		} else {
			fetchCtx, cancel := context.WithTimeout(ctx, remoteFetchTimeout)
			state, err := client.GetVideoStatus(fetchCtx, *job.VideoID)
			cancel()
			switch {
			case err != nil:
				if errors.Is(err, model.ErrAuthExpired) {
					return nil, err
				}
				logger.GetLogger().WithField("error", err).WithField("jobId", jobID).
					Warn("Remote status fetch failed, using local fallback")
				res = resolveFallback(job, now)
			case state == nil:
				res = resolveFallback(job, now)
			default:
				res = resolveMatched(job, state, now)
			}
		}
	} else if job.VideoID == nil && !job.Status.IsTerminal() {
		res = resolveLocal(job, now)
	}

	u.writeBack(ctx, job, res.status)
	entry := jobEntry(job, res)
	return &entry, nil
}

func (u *ReconcileUseCase) SyncAll(ctx context.Context, userID string) (int, error) {
	now := u.clock()

	jobs, err := u.jobs.ListByUser(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("listing jobs for user %s: %w", userID, err)
	}

	clients := make(map[string]repository.IYouTube)
	changed := 0
	for _, job := range jobs {
		if job.VideoID == nil || job.Status.IsTerminal() {
			continue
		}
		client, ok := clients[job.ChannelID]
		if !ok {
			var err error
			client, err = u.provider.ClientFor(ctx, userID, job.ChannelID)
			if err != nil {
				logger.GetLogger().WithField("error", err).WithField("channelId", job.ChannelID).
					Warn("Skipping channel during sync")
				clients[job.ChannelID] = nil
				continue
			}
			clients[job.ChannelID] = client
		}
		if client == nil {
			continue
		}

		fetchCtx, cancel := context.WithTimeout(ctx, remoteFetchTimeout)
		state, err := client.GetVideoStatus(fetchCtx, *job.VideoID)
		cancel()
		if err != nil || state == nil {
			continue
		}

		res := resolveMatched(job, state, now)
		if u.writeBack(ctx, job, res.status) {
			changed++
		}
	}
	return changed, nil
}

// channelsToFetch resolves the distinct channels to reconcile: the requested
// one when scoped, otherwise every connected channel plus any channel a job
// references.
func (u *ReconcileUseCase) channelsToFetch(ctx context.Context, userID, channelID string, jobs []*model.Job) ([]string, error) {
	if channelID != "" {
		return []string{channelID}, nil
	}
	seen := make(map[string]bool)
	var channels []string
	tokens, err := u.tokens.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing channels for user %s: %w", userID, err)
	}
	for _, tok := range tokens {
		if !seen[tok.ChannelID] {
			seen[tok.ChannelID] = true
			channels = append(channels, tok.ChannelID)
		}
	}
	for _, job := range jobs {
		if !seen[job.ChannelID] {
			seen[job.ChannelID] = true
			channels = append(channels, job.ChannelID)
		}
	}
	return channels, nil
}

func (u *ReconcileUseCase) fetchChannel(ctx context.Context, userID, channelID string) (repository.IYouTube, []*model.RemoteVideoState, error) {
	client, err := u.provider.ClientFor(ctx, userID, channelID)
	if err != nil {
		return nil, nil, err
	}
	fetchCtx, cancel := context.WithTimeout(ctx, remoteFetchTimeout)
	defer cancel()
	states, err := client.ListScheduled(fetchCtx)
	if err != nil {
		return nil, nil, err
	}
	return client, states, nil
}

// joinJobsWithRemote is the explicit join step: every job becomes a tagged
// item and its matched remote entry is consumed from the map so step 3 never
// double-reports a video.
func joinJobsWithRemote(jobs []*model.Job, remote map[string]*model.RemoteVideoState, clients map[string]repository.IYouTube) []model.JoinItem {
	items := make([]model.JoinItem, 0, len(jobs))
	for _, job := range jobs {
		item := model.JoinItem{Kind: model.JoinJobOnly, Job: job}
		_, item.RemoteFetched = clients[job.ChannelID]
		if job.VideoID != nil {
			if state, ok := remote[*job.VideoID]; ok {
				item.Kind = model.JoinMatched
				item.Remote = state
				delete(remote, *job.VideoID)
			}
		}
		items = append(items, item)
	}
	return items
}

// resolveJob applies the precedence rules to one join item. Terminal jobs
// stay terminal: a failed backstop attempt is never resurrected as scheduled.
func (u *ReconcileUseCase) resolveJob(ctx context.Context, item model.JoinItem, clients map[string]repository.IYouTube, now time.Time) resolution {
	job := item.Job
	if job.Status.IsTerminal() {
		return resolution{status: job.Status, instant: publishInstant(job), included: false}
	}
	if item.Kind == model.JoinMatched {
		return resolveMatched(job, item.Remote, now)
	}
	if job.VideoID == nil {
		return resolveLocal(job, now)
	}
	// Job carries a video id that the scheduled listing did not cover. When
	// the channel was reachable ask for the video directly so a public or
	// just-published video resolves by the same precedence; otherwise fall
	// back to the job's own record.
	if item.RemoteFetched {
		if client := clients[job.ChannelID]; client != nil {
			fetchCtx, cancel := context.WithTimeout(ctx, remoteFetchTimeout)
			state, err := client.GetVideoStatus(fetchCtx, *job.VideoID)
			cancel()
			if err == nil && state != nil {
				return resolveMatched(job, state, now)
			}
			if err != nil {
				logger.GetLogger().WithField("error", err).WithField("jobId", job.ID).
					Warn("Per-video status fetch failed, using local fallback")
			}
		}
	}
	return resolveFallback(job, now)
}

// resolveMatched implements the precedence for a job with live remote state:
//
//	a. remote public                      -> published, excluded
//	b. private/unlisted, publishAt future -> scheduled, included
//	c. private/unlisted, publishAt <= now -> published (processing), excluded
//	d. private/unlisted, no publishAt     -> job's own instant decides
func resolveMatched(job *model.Job, state *model.RemoteVideoState, now time.Time) resolution {
	if state.Privacy == model.PrivacyPublic {
		return resolution{status: model.JobStatusPublished, instant: remoteOrJobInstant(state, job), included: false}
	}
	if state.PublishAt != nil {
		if state.PublishAt.After(now) {
			return resolution{status: model.JobStatusScheduled, instant: state.PublishAt, included: true}
		}
		return resolution{status: model.JobStatusPublished, instant: state.PublishAt, included: false}
	}
	if job.PublishAt.After(now) {
		return resolution{status: model.JobStatusScheduled, instant: publishInstant(job), included: true}
	}
	return resolution{status: model.JobStatusUploaded, instant: publishInstant(job), included: false}
}

// resolveFallback handles an unreachable or silent platform: the job is still
// scheduled only if its own instant is future and it had already reached
// scheduled/uploaded.
func resolveFallback(job *model.Job, now time.Time) resolution {
	if job.PublishAt.After(now) &&
		(job.Status == model.JobStatusScheduled || job.Status == model.JobStatusUploaded) {
		return resolution{status: model.JobStatusScheduled, instant: publishInstant(job), included: true}
	}
	return resolution{status: job.Status, instant: publishInstant(job), included: false}
}

// resolveLocal handles jobs with no platform video yet: pending uploads count
// as scheduled while their target is in the future.
func resolveLocal(job *model.Job, now time.Time) resolution {
	if job.PublishAt.After(now) {
		return resolution{status: job.Status, instant: publishInstant(job), included: true}
	}
	return resolution{status: job.Status, instant: publishInstant(job), included: false}
}

// writeBack persists the resolved status when it changed and the transition
// is legal. Best-effort: a failed write never blocks the computed view.
// Reports whether the persisted status changed.
func (u *ReconcileUseCase) writeBack(ctx context.Context, job *model.Job, resolved model.JobStatus) bool {
	if resolved == job.Status || !job.Status.CanTransition(resolved) {
		return false
	}
	if err := u.jobs.UpdateStatus(ctx, job.ID, resolved, nil, nil); err != nil {
		logger.GetLogger().WithField("error", err).WithField("jobId", job.ID).
			Warn("Failed to persist reconciled status")
		return false
	}
	if u.events != nil {
		videoID := ""
		if job.VideoID != nil {
			videoID = *job.VideoID
		}
		event := model.JobStatusEvent{
			JobID:      job.ID,
			UserID:     job.UserID,
			ChannelID:  job.ChannelID,
			VideoID:    videoID,
			Status:     resolved,
			OccurredAt: u.clock(),
		}
		if err := u.events.PublishJobStatus(ctx, event); err != nil {
			logger.GetLogger().WithField("error", err).WithField("jobId", job.ID).
				Warn("Failed to publish job status event")
		}
	}
	job.Status = resolved
	return true
}

func jobEntry(job *model.Job, res resolution) model.ScheduledEntry {
	videoID := ""
	if job.VideoID != nil {
		videoID = *job.VideoID
	}
	return model.ScheduledEntry{
		JobID:        job.ID,
		UserID:       job.UserID,
		ChannelID:    job.ChannelID,
		VideoID:      videoID,
		Title:        job.VideoTitle,
		Status:       res.status,
		PublishAt:    res.instant,
		Provenance:   model.ProvenanceJob,
		ErrorMessage: job.ErrorMessage,
	}
}

func publishInstant(job *model.Job) *time.Time {
	if job.PublishAt.IsZero() {
		return nil
	}
	at := job.PublishAt
	return &at
}

func remoteOrJobInstant(state *model.RemoteVideoState, job *model.Job) *time.Time {
	if state.PublishAt != nil {
		return state.PublishAt
	}
	return publishInstant(job)
}

// sortEntries orders ascending by resolved publish instant; entries without
// one sort last. Stability keeps discovery order as the tie-break.
func sortEntries(entries []model.ScheduledEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i].PublishAt, entries[j].PublishAt
		if a == nil {
			return false
		}
		if b == nil {
			return true
		}
		return a.Before(*b)
	})
}
