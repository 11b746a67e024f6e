package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"video-scheduler/domain/dto"
	"video-scheduler/domain/model"
	"video-scheduler/infrastructure/logger"
	"video-scheduler/interfaces/middleware"
	"video-scheduler/usecase"
)

// IScheduleHandler defines the scheduling and reconciliation HTTP handlers.
type IScheduleHandler interface {
	ScheduleVideos(ctx *gin.Context)
	ListJobs(ctx *gin.Context)
	GetJob(ctx *gin.Context)
	SyncJobs(ctx *gin.Context)
}

type ScheduleHandler struct {
	scheduleUseCase  usecase.IScheduleUseCase
	reconcileUseCase usecase.IReconcileUseCase
}

func NewScheduleHandler(scheduleUseCase usecase.IScheduleUseCase, reconcileUseCase usecase.IReconcileUseCase) IScheduleHandler {
	return &ScheduleHandler{
		scheduleUseCase:  scheduleUseCase,
		reconcileUseCase: reconcileUseCase,
	}
}

// ScheduleVideos handles POST /api/videos/schedule?channel_id=
func (h *ScheduleHandler) ScheduleVideos(ctx *gin.Context) {
	userID := ctx.GetString(middleware.UserIDKey)
	channelID := ctx.Query("channel_id")
	if channelID == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "channel_id is required"})
		return
	}

	var req dto.ScheduleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"message": err.Error(),
		})
		return
	}

	result, err := h.scheduleUseCase.ScheduleVideos(ctx.Request.Context(), userID, channelID, &req)
	if err != nil {
		abortWithDomainError(ctx, err, "Failed to schedule videos")
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "data": result})
}

// ListJobs handles GET /api/videos/jobs with an optional channel_id filter.
func (h *ScheduleHandler) ListJobs(ctx *gin.Context) {
	userID := ctx.GetString(middleware.UserIDKey)
	channelID := ctx.Query("channel_id")

	report, err := h.reconcileUseCase.ListScheduled(ctx.Request.Context(), userID, channelID)
	if err != nil {
		abortWithDomainError(ctx, err, "Failed to list scheduled videos")
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "data": report})
}

// GetJob handles GET /api/videos/jobs/:jobId
func (h *ScheduleHandler) GetJob(ctx *gin.Context) {
	userID := ctx.GetString(middleware.UserIDKey)
	jobID := ctx.Param("jobId")

	entry, err := h.reconcileUseCase.GetJobView(ctx.Request.Context(), jobID, userID)
	if err != nil {
		abortWithDomainError(ctx, err, "Failed to get job")
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "data": entry})
}

// SyncJobs handles POST /api/videos/jobs/sync
func (h *ScheduleHandler) SyncJobs(ctx *gin.Context) {
	userID := ctx.GetString(middleware.UserIDKey)

	changed, err := h.reconcileUseCase.SyncAll(ctx.Request.Context(), userID)
	if err != nil {
		abortWithDomainError(ctx, err, "Failed to sync jobs")
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "data": dto.SyncResult{Changed: changed}})
}

// abortWithDomainError maps domain errors onto HTTP statuses.
func abortWithDomainError(ctx *gin.Context, err error, message string) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, model.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, model.ErrAuthExpired):
		status = http.StatusUnauthorized
	case errors.Is(err, model.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, model.ErrNotFound), errors.Is(err, model.ErrChannelNotFound):
		status = http.StatusNotFound
	case errors.Is(err, model.ErrRemoteUnavailable):
		status = http.StatusBadGateway
	}
	if status == http.StatusInternalServerError {
		logger.GetLogger().WithField("error", err).Error(message)
	}
	ctx.JSON(status, gin.H{
		"error":   message,
		"message": err.Error(),
	})
}
