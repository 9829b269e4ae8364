package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/edusync/task-automation-service/internal/services"
	"github.com/edusync/task-automation-service/internal/utils"
	"github.com/edusync/task-automation-service/internal/validator"
)

type HandlerManager struct {
	authHandler   *AuthHandler
	taskHandler   *TaskHandler
	reportHandler *ReportHandler
	systemHandler *SystemHandler
}

func NewHandlerManager(
	authService *services.AuthService,
	discoveryService *services.DiscoveryService,
	processorService *services.ProcessorService,
	exportService *services.ExportService,
	metrics *services.MetricsCollector,
	v *validator.Validator,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		authHandler:   NewAuthHandler(authService, v, logger),
		taskHandler:   NewTaskHandler(discoveryService, processorService, v, logger),
		reportHandler: NewReportHandler(exportService, v, logger),
		systemHandler: NewSystemHandler(metrics, logger),
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.GET("/health", hm.systemHandler.Health)
	router.GET("/metrics", hm.systemHandler.Metrics)

	router.POST("/auth", hm.authHandler.Login)

	tasks := router.Group("/tasks")
	{
		tasks.POST("", hm.taskHandler.ListTasks)
		tasks.POST("/expired", hm.taskHandler.ListExpiredTasks)
	}

	router.POST("/task/process", hm.taskHandler.ProcessTask)
	router.POST("/complete", hm.taskHandler.CompleteTasks)
	router.POST("/reports/batch", hm.reportHandler.ExportBatchReport)
}
