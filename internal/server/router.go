package server

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/myaicademy/curriculum-ops/internal/handlers"
)

type RouterConfig struct {
	HealthcheckHandler  *handlers.HealthcheckHandler
	ProviderHandler     *handlers.ProviderHandler
	LessonHandler       *handlers.LessonHandler
	CourseHandler       *handlers.CourseHandler
	UpdateHandler       *handlers.UpdateHandler
	ImpactReportHandler *handlers.ImpactReportHandler
	MappingRuleHandler  *handlers.MappingRuleHandler
	AuditLogHandler     *handlers.AuditLogHandler
	DashboardHandler    *handlers.DashboardHandler
	CourseGenHandler    *handlers.CourseGenHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/healthcheck", cfg.HealthcheckHandler.Healthcheck)

	api := router.Group("/api")
	{
		api.GET("/providers", cfg.ProviderHandler.List)
		api.POST("/providers", cfg.ProviderHandler.Create)
		api.GET("/providers/:id", cfg.ProviderHandler.Get)

		api.GET("/lessons", cfg.LessonHandler.List)
		api.GET("/lessons/search/:keyword", cfg.LessonHandler.Search)
		api.GET("/lessons/:id", cfg.LessonHandler.Get)

		api.GET("/courses", cfg.CourseHandler.List)
		api.POST("/courses/generate", cfg.CourseGenHandler.Generate)
		api.GET("/courses/:id", cfg.CourseHandler.Get)
		api.GET("/courses/:id/lessons", cfg.CourseHandler.Lessons)

		api.GET("/updates", cfg.UpdateHandler.List)
		api.POST("/updates/fetch", cfg.UpdateHandler.Fetch)
		api.GET("/updates/:id", cfg.UpdateHandler.Get)

		api.GET("/impact-reports", cfg.ImpactReportHandler.List)
		api.GET("/impact-reports/stats", cfg.ImpactReportHandler.Stats)
		api.POST("/impact-reports/analyze", cfg.ImpactReportHandler.Analyze)
		api.GET("/impact-reports/:id", cfg.ImpactReportHandler.Get)
		api.POST("/impact-reports/:id/approve", cfg.ImpactReportHandler.Approve)
		api.POST("/impact-reports/:id/reject", cfg.ImpactReportHandler.Reject)
		api.POST("/impact-reports/:id/assign", cfg.ImpactReportHandler.Assign)
		api.POST("/impact-reports/:id/done", cfg.ImpactReportHandler.Done)

		api.GET("/mapping-rules", cfg.MappingRuleHandler.List)
		api.POST("/mapping-rules", cfg.MappingRuleHandler.Create)
		api.GET("/mapping-rules/history/:questionId/:answerValue", cfg.MappingRuleHandler.History)
		api.GET("/mapping-rules/:id", cfg.MappingRuleHandler.Get)
		api.PUT("/mapping-rules/:id", cfg.MappingRuleHandler.Update)

		api.GET("/audit-logs", cfg.AuditLogHandler.List)
		api.GET("/audit-logs/:entityType/:entityId", cfg.AuditLogHandler.ByEntity)

		api.GET("/dashboard/stats", cfg.DashboardHandler.Stats)
	}

	return router
}
