package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"video-scheduler/infrastructure/cache"
	youtubeclient "video-scheduler/infrastructure/clients/youtube"
	"video-scheduler/infrastructure/configuration"
	"video-scheduler/infrastructure/logger"
	"video-scheduler/infrastructure/persistence"
	"video-scheduler/infrastructure/pubsub"
	httpHandler "video-scheduler/interfaces/http"
	"video-scheduler/scheduler"
	"video-scheduler/server"
	"video-scheduler/usecase"
)

var httpServer *http.Server

func recoverPanic() {
	if err := recover(); err != nil {
		logger.GetLogger().WithField("error", err).Error("Application panic recovered")
	}
}

func main() {
	defer recoverPanic()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(interrupt)

	g, ctx := errgroup.WithContext(ctx)

	// Load env from files (non-destructive; OS env still has precedence)
	configuration.LoadEnvFromFile("config.env", ".env")

	app := configuration.C.App

	psqlDb, err := persistence.NewPostgreSQLDB()
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Cannot connect to PostgreSQL")
		os.Exit(1)
	}
	if err := persistence.EnsureScheduleSchema(psqlDb); err != nil {
		logger.GetLogger().WithField("error", err).Error("Failed ensuring schedule schema")
		os.Exit(1)
	}
	logger.GetLogger().Info("Database connected.")

	redisClient, err := cache.NewCache(
		ctx,
		fmt.Sprintf("%s:%s", configuration.C.RedisClient.Host, configuration.C.RedisClient.Port),
		configuration.C.RedisClient.Username,
		configuration.C.RedisClient.Password,
	)
	if err != nil {
		logger.GetLogger().WithField("error", err).Warn("Redis not available - recent video caching disabled")
		redisClient = nil
	}

	pubSubClient, err := pubsub.NewPubSub(ctx, configuration.C.Pubsub.ProjectID)
	if err != nil {
		logger.GetLogger().WithField("error", err).Warn("PubSub not available - job status events disabled")
		pubSubClient = nil
	}

	userRepository := persistence.NewUserRepository(psqlDb)
	jobRepository := persistence.NewJobRepository(psqlDb)
	failureRepository := persistence.NewFailureRepository(psqlDb)
	tokenRepository := persistence.NewChannelTokenRepository(psqlDb)
	recentVideoCache := cache.NewRecentVideoCache(redisClient)
	jobEvents := pubsub.NewJobEventPublisher(pubSubClient, configuration.C.Pubsub.JobTopic)

	youtubeConfig, err := configuration.GetYouTubeConfig()
	var youtubeAuthHandler httpHandler.IYouTubeAuthHandler
	var scheduleHandler httpHandler.IScheduleHandler
	var channelHandler httpHandler.IChannelHandler
	if err != nil {
		logger.GetLogger().WithField("error", err).
			Warn("YouTube configuration not found - scheduling features disabled")
	} else {
		provider := youtubeclient.NewProvider(tokenRepository, youtubeConfig)

		backstop := scheduler.NewBackstop(provider, jobRepository, failureRepository, jobEvents)
		if secs := configuration.C.Backstop.FireTimeoutSeconds; secs > 0 {
			backstop.WithFireTimeout(time.Duration(secs) * time.Second)
		}

		scheduleUseCase := usecase.NewScheduleUseCase(jobRepository, failureRepository, provider, backstop)
		reconcileUseCase := usecase.NewReconcileUseCase(jobRepository, tokenRepository, provider, jobEvents)
		channelUseCase := usecase.NewChannelUseCase(tokenRepository, provider, failureRepository, recentVideoCache)

		youtubeAuthHandler = httpHandler.NewYouTubeAuthHandler(provider.OAuthConfig(), tokenRepository)
		scheduleHandler = httpHandler.NewScheduleHandler(scheduleUseCase, reconcileUseCase)
		channelHandler = httpHandler.NewChannelHandler(channelUseCase)
	}

	userUsecase := usecase.NewUserUsecase(userRepository)
	userHandler := httpHandler.NewUserHandler(userUsecase)

	router := server.InitiateRouter(userHandler, youtubeAuthHandler, scheduleHandler, channelHandler, userRepository)

	port := app.Port
	logger.GetLogger().WithFields(map[string]interface{}{"port": port, "tls": app.TLSEnabled}).Info("Starting application")
	g.Go(func() error {
		httpServer = &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: router,
		}
		if app.TLSEnabled {
			cert := app.TLSCertFile
			key := app.TLSKeyFile
			if cert == "" || key == "" {
				logger.GetLogger().Error("TLS enabled but cert or key path empty; falling back to HTTP")
			} else {
				if err := httpServer.ListenAndServeTLS(cert, key); !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			}
		}
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	select {
	case <-interrupt:
		logger.GetLogger().Info("Application shutdown requested")
	case <-ctx.Done():
	}

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if httpServer != nil {
		_ = httpServer.Shutdown(shutdownCtx)
	}
	if pubSubClient != nil {
		_ = pubSubClient.Close()
	}

	if err := g.Wait(); err != nil {
		logger.GetLogger().WithField("error", err).Error("Server returned an error")
		os.Exit(2)
	}
}
