package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/planloop/planner/internal/services"
)

type Handler interface {
	HandleAuthMiddleware(c *gin.Context)

	HandleCreateTask(c *gin.Context)
	HandleListTasks(c *gin.Context)
	HandleUpdateTask(c *gin.Context)

	HandleGetEfficiency(c *gin.Context)
}

type handlerImpl struct {
	logger        zerolog.Logger
	tasks         services.TaskService
	analytics     services.AnalyticsService
	jwtSigningKey []byte
}

func New(
	logger zerolog.Logger,
	taskService services.TaskService,
	analyticsService services.AnalyticsService,
	jwtSigningKey []byte,
) Handler {
	return &handlerImpl{
		logger:        logger,
		tasks:         taskService,
		analytics:     analyticsService,
		jwtSigningKey: jwtSigningKey,
	}
}
