package server

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"video-scheduler/domain/repository"
	httpHandler "video-scheduler/interfaces/http"
	"video-scheduler/interfaces/middleware"
)

func InitiateRouter(
	userHandler httpHandler.IUserHandler,
	youtubeAuthHandler httpHandler.IYouTubeAuthHandler,
	scheduleHandler httpHandler.IScheduleHandler,
	channelHandler httpHandler.IChannelHandler,
	userRepository repository.IUser,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:4200", "http://localhost:4201", "https://localhost:4200", "https://localhost:4201"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.POST("/login", userHandler.Login)
	router.POST("/register", userHandler.Register)

	router.GET("/healthz", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// OAuth connect flow; the callback must stay public for the provider
	// redirect.
	if youtubeAuthHandler != nil {
		router.GET("/auth/youtube", youtubeAuthHandler.GetAuthURL)
		router.GET("/auth/youtube/callback", youtubeAuthHandler.HandleCallback)
	}

	api := router.Group("api")
	api.Use(middleware.Auth(userRepository))

	if scheduleHandler != nil {
		videos := api.Group("/videos")
		{
			videos.POST("/schedule", scheduleHandler.ScheduleVideos)
			videos.GET("/jobs", scheduleHandler.ListJobs)
			videos.GET("/jobs/:jobId", scheduleHandler.GetJob)
			videos.POST("/jobs/sync", scheduleHandler.SyncJobs)
		}
	}

	if channelHandler != nil {
		api.GET("/youtube/channels", channelHandler.ListChannels)
		videos := api.Group("/videos")
		{
			videos.GET("/recent", channelHandler.RecentVideos)
			videos.POST("/recent/refresh", channelHandler.RefreshRecentVideos)
			videos.GET("/failed", channelHandler.FailedVideos)
		}
	}

	return router
}
