package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"video-scheduler/interfaces/middleware"
	"video-scheduler/usecase"
)

// IChannelHandler defines the channel-facing read handlers.
type IChannelHandler interface {
	ListChannels(ctx *gin.Context)
	RecentVideos(ctx *gin.Context)
	RefreshRecentVideos(ctx *gin.Context)
	FailedVideos(ctx *gin.Context)
}

type ChannelHandler struct {
	channelUseCase usecase.IChannelUseCase
}

func NewChannelHandler(channelUseCase usecase.IChannelUseCase) IChannelHandler {
	return &ChannelHandler{channelUseCase: channelUseCase}
}

// ListChannels handles GET /api/youtube/channels
func (h *ChannelHandler) ListChannels(ctx *gin.Context) {
	userID := ctx.GetString(middleware.UserIDKey)

	channels, err := h.channelUseCase.ListChannels(ctx.Request.Context(), userID)
	if err != nil {
		abortWithDomainError(ctx, err, "Failed to list channels")
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "data": channels})
}

// RecentVideos handles GET /api/videos/recent?channel_id=
func (h *ChannelHandler) RecentVideos(ctx *gin.Context) {
	userID := ctx.GetString(middleware.UserIDKey)
	channelID := ctx.Query("channel_id")
	if channelID == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "channel_id is required"})
		return
	}

	videos, err := h.channelUseCase.RecentVideos(ctx.Request.Context(), userID, channelID)
	if err != nil {
		abortWithDomainError(ctx, err, "Failed to list recent videos")
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "data": videos})
}

// RefreshRecentVideos handles POST /api/videos/recent/refresh?channel_id=
func (h *ChannelHandler) RefreshRecentVideos(ctx *gin.Context) {
	userID := ctx.GetString(middleware.UserIDKey)
	channelID := ctx.Query("channel_id")
	if channelID == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "channel_id is required"})
		return
	}

	videos, err := h.channelUseCase.RefreshRecentVideos(ctx.Request.Context(), userID, channelID)
	if err != nil {
		abortWithDomainError(ctx, err, "Failed to refresh recent videos")
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "data": videos})
}

// FailedVideos handles GET /api/videos/failed?channel_id=
func (h *ChannelHandler) FailedVideos(ctx *gin.Context) {
	userID := ctx.GetString(middleware.UserIDKey)
	channelID := ctx.Query("channel_id")
	if channelID == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "channel_id is required"})
		return
	}

	records, err := h.channelUseCase.FailedVideos(ctx.Request.Context(), userID, channelID)
	if err != nil {
		abortWithDomainError(ctx, err, "Failed to list failed videos")
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "data": records})
}
