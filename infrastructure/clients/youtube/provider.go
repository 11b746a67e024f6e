package youtube

import (
	"context"
	"fmt"
	"sync"

	"video-scheduler/domain/model"
	"video-scheduler/domain/repository"
	"video-scheduler/infrastructure/clients/drive"
	"video-scheduler/infrastructure/configuration"
	"video-scheduler/infrastructure/logger"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

// Provider resolves stored (user, channel) credentials into ready clients.
// Token refresh is silent and serialized per channel; the last valid token is
// persisted back so concurrent refreshes converge.
type Provider struct {
	tokens      repository.IChannelToken
	oauthConfig *oauth2.Config

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewProvider(tokens repository.IChannelToken, cfg *configuration.YouTubeConfig) *Provider {
	scopes := cfg.Scopes
	if len(scopes) == 0 {
		scopes = []string{
			youtube.YoutubeScope,
			youtube.YoutubeUploadScope,
			youtube.YoutubeForceSslScope,
		}
	}
	return &Provider{
		tokens: tokens,
		oauthConfig: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       scopes,
			Endpoint:     google.Endpoint,
		},
		locks: make(map[string]*sync.Mutex),
	}
}

// OAuthConfig exposes the client configuration for the connect flow.
func (p *Provider) OAuthConfig() *oauth2.Config { return p.oauthConfig }

// ClientFor returns a channel-bound API client with a fresh credential.
func (p *Provider) ClientFor(ctx context.Context, userID, channelID string) (repository.IYouTube, error) {
	token, err := p.freshToken(ctx, userID, channelID)
	if err != nil {
		return nil, err
	}
	service, err := youtube.NewService(ctx, option.WithHTTPClient(p.oauthConfig.Client(ctx, token)))
	if err != nil {
		return nil, fmt.Errorf("creating youtube service: %w", err)
	}
	return NewClient(service, channelID), nil
}

// RetrieverFor builds a Drive-backed file retriever on the same credential.
func (p *Provider) RetrieverFor(ctx context.Context, userID, channelID string) (repository.IFileRetriever, error) {
	token, err := p.freshToken(ctx, userID, channelID)
	if err != nil {
		return nil, err
	}
	return drive.NewRetriever(ctx, p.oauthConfig.Client(ctx, token))
}

// freshToken loads the stored token and refreshes it when expired. Refresh
// failure surfaces as ErrAuthExpired; a missing token as ErrChannelNotFound.
func (p *Provider) freshToken(ctx context.Context, userID, channelID string) (*oauth2.Token, error) {
	lock := p.channelLock(channelID)
	lock.Lock()
	defer lock.Unlock()

	stored, err := p.tokens.Get(ctx, userID, channelID)
	if err != nil {
		return nil, fmt.Errorf("loading channel token: %w", err)
	}
	if stored == nil {
		return nil, fmt.Errorf("%w: %s", model.ErrChannelNotFound, channelID)
	}

	token := &oauth2.Token{
		AccessToken:  stored.AccessToken,
		RefreshToken: stored.RefreshToken,
		TokenType:    "Bearer",
	}
	if stored.TokenExpiry != nil {
		token.Expiry = *stored.TokenExpiry
	}

	refreshed, err := p.oauthConfig.TokenSource(ctx, token).Token()
	if err != nil {
		return nil, fmt.Errorf("%w: refreshing token for channel %s: %v", model.ErrAuthExpired, channelID, err)
	}

	if refreshed.AccessToken != stored.AccessToken {
		stored.AccessToken = refreshed.AccessToken
		if refreshed.RefreshToken != "" {
			stored.RefreshToken = refreshed.RefreshToken
		}
		expiry := refreshed.Expiry
		stored.TokenExpiry = &expiry
		if err := p.tokens.Upsert(ctx, stored); err != nil {
			// Persisting the refreshed token is best-effort; the in-memory
			// token is still valid for this call.
			logger.GetLogger().WithField("error", err).WithField("channelId", channelID).
				Warn("Failed to persist refreshed channel token")
		}
	}
	return refreshed, nil
}

func (p *Provider) channelLock(channelID string) *sync.Mutex {
	p.mu.Lock()
	defer p.mu.Unlock()
	lock, ok := p.locks[channelID]
	if !ok {
		lock = &sync.Mutex{}
		p.locks[channelID] = lock
	}
	return lock
}
