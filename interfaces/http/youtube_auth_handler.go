package http

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"
	"google.golang.org/api/option"
	youtubeapi "google.golang.org/api/youtube/v3"

	"video-scheduler/domain/model"
	"video-scheduler/domain/repository"
	"video-scheduler/infrastructure/logger"
	"video-scheduler/interfaces/middleware"
)

// IYouTubeAuthHandler covers the channel connect flow: the consent URL and
// the OAuth callback that stores the resulting credential.
type IYouTubeAuthHandler interface {
	GetAuthURL(ctx *gin.Context)
	HandleCallback(ctx *gin.Context)
}

type YouTubeAuthHandler struct {
	oauth2Config *oauth2.Config
	tokens       repository.IChannelToken
}

func NewYouTubeAuthHandler(oauth2Config *oauth2.Config, tokens repository.IChannelToken) IYouTubeAuthHandler {
	return &YouTubeAuthHandler{
		oauth2Config: oauth2Config,
		tokens:       tokens,
	}
}

// GetAuthURL handles GET /auth/youtube. The state carries the requesting user
// so the callback knows which account to bind the channel to.
func (h *YouTubeAuthHandler) GetAuthURL(ctx *gin.Context) {
	userID := ctx.GetString(middleware.UserIDKey)
	if userID == "" {
		userID = ctx.Query("user_id")
	}
	if userID == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
		return
	}

	state := fmt.Sprintf("%s:%s", userID, generateRandomState())
	ctx.SetCookie("oauth_state", state, 600, "/", "", false, true)

	authURL := h.oauth2Config.AuthCodeURL(state, oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"))

	ctx.JSON(http.StatusOK, gin.H{
		"auth_url": authURL,
	})
}

// HandleCallback handles GET /auth/youtube/callback: exchanges the code,
// resolves the channel behind the credential, and stores the token pair.
func (h *YouTubeAuthHandler) HandleCallback(ctx *gin.Context) {
	if errorParam := ctx.Query("error"); errorParam != "" {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":       fmt.Sprintf("OAuth error: %s", errorParam),
			"description": ctx.Query("error_description"),
		})
		return
	}

	state := ctx.Query("state")
	userID, ok := userFromState(state)
	if !ok {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":  "State parameter missing or malformed",
			"action": "Visit /auth/youtube to start over",
		})
		return
	}
	if cookieState, err := ctx.Cookie("oauth_state"); err != nil || cookieState != state {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error": "State mismatch",
		})
		return
	}

	code := ctx.Query("code")
	if code == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error": "Authorization code not found",
		})
		return
	}

	token, err := h.oauth2Config.Exchange(ctx.Request.Context(), code)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to exchange code for token",
			"message": err.Error(),
		})
		return
	}

	channelID, channelName, err := h.resolveChannel(ctx, token)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Failed to resolve channel for new credential")
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to resolve channel",
			"message": err.Error(),
		})
		return
	}

	expiry := token.Expiry
	now := time.Now().UTC()
	record := &model.ChannelToken{
		UserID:       userID,
		ChannelID:    channelID,
		ChannelName:  channelName,
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		TokenExpiry:  &expiry,
		Scopes:       strings.Join(h.oauth2Config.Scopes, " "),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := h.tokens.Upsert(ctx.Request.Context(), record); err != nil {
		logger.GetLogger().WithField("error", err).Error("Failed to store channel token")
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to store channel credential",
		})
		return
	}

	ctx.SetCookie("oauth_state", "", -1, "/", "", false, true)

	ctx.JSON(http.StatusOK, gin.H{
		"success":      true,
		"channel_id":   channelID,
		"channel_name": channelName,
		"message":      "Channel connected",
	})
}

// resolveChannel asks the platform which channel the fresh credential owns.
func (h *YouTubeAuthHandler) resolveChannel(ctx *gin.Context, token *oauth2.Token) (string, string, error) {
	reqCtx := ctx.Request.Context()
	service, err := youtubeapi.NewService(reqCtx,
		option.WithHTTPClient(h.oauth2Config.Client(reqCtx, token)))
	if err != nil {
		return "", "", fmt.Errorf("creating youtube service: %w", err)
	}
	resp, err := service.Channels.List([]string{"snippet"}).Mine(true).Context(reqCtx).Do()
	if err != nil {
		return "", "", fmt.Errorf("listing own channel: %w", err)
	}
	if len(resp.Items) == 0 {
		return "", "", fmt.Errorf("credential has no channel")
	}
	return resp.Items[0].Id, resp.Items[0].Snippet.Title, nil
}

func userFromState(state string) (string, bool) {
	parts := strings.SplitN(state, ":", 2)
	if len(parts) != 2 || parts[0] == "" {
		return "", false
	}
	return parts[0], true
}

func generateRandomState() string {
	b := make([]byte, 32)
	rand.Read(b)
	return base64.StdEncoding.EncodeToString(b)
}
