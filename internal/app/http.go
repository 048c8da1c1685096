package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/planloop/planner/internal/cache"
	"github.com/planloop/planner/internal/config"
	v1 "github.com/planloop/planner/internal/delivery/http/v1"
	"github.com/planloop/planner/internal/services"
	"github.com/planloop/planner/internal/storage/postgres"
)

func MustListenAndServeHTTP() {
	cfg := config.Global()
	if cfg.Env != config.EnvLocal {
		gin.SetMode(gin.ReleaseMode)
	}

	httpCfg := cfg.HTTP

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	registerRoutes(router)

	server := &http.Server{
		Addr:    net.JoinHostPort(httpCfg.Host, httpCfg.Port),
		Handler: router,
	}

	go func() {
		globalLogger.Info().
			Str("host", httpCfg.Host).
			Str("port", httpCfg.Port).
			Msg("setting up http server")
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			globalLogger.Error().
				Err(err).
				Msg("failed to listen and serve http")
			panic(err)
		}
	}()

	// Wait for the interrupt signal to gracefully
	// shut down the server with a timeout.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	globalLogger.Info().Msg("shutting down http server")

	ctx, cancel := context.WithTimeout(context.Background(), httpCfg.ShutdownTimeout)
	defer cancel()

	err := server.Shutdown(ctx)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to shutdown http server")
		panic(err)
	}
	globalLogger.Info().Msg("shut down http server")
}

func registerRoutes(router gin.IRouter) {
	cfg := config.Global()

	store := postgres.New(globalLogger, globalPostgresPool)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Postgres.ConnectTimeout)
	defer cancel()
	if err := store.EnsureSchema(ctx); err != nil {
		panic(err)
	}

	reportCache := cache.New(
		globalLogger,
		globalRedisClient,
		cfg.Redis.KeyPrefix,
		cfg.Redis.ReportTTL,
	)

	v1Handler := v1.New(
		globalLogger,
		services.NewTaskService(globalLogger, store, reportCache),
		services.NewAnalyticsService(globalLogger, store, reportCache),
		[]byte(cfg.JWT.SigningKey),
	)

	router = router.Group("/api/v1")

	taskRouter := router.Group("/tasks", v1Handler.HandleAuthMiddleware)
	taskRouter.POST("", v1Handler.HandleCreateTask)
	taskRouter.GET("", v1Handler.HandleListTasks)
	taskRouter.PATCH("/:id", v1Handler.HandleUpdateTask)

	analyticsRouter := router.Group("/analytics", v1Handler.HandleAuthMiddleware)
	analyticsRouter.GET("/efficiency", v1Handler.HandleGetEfficiency)
}
