package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, handler *Handler, metricsHandler http.Handler) {
	// Health and readiness checks
	router.GET("/health", handler.HealthCheck)
	router.GET("/ready", handler.ReadyCheck)

	if metricsHandler != nil {
		router.GET("/metrics", gin.WrapH(metricsHandler))
	}

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		breakdown := v1.Group("/breakdown")
		{
			breakdown.POST("", handler.ProcessScript)            // POST /api/v1/breakdown
			breakdown.POST("/async", handler.ProcessScriptAsync) // POST /api/v1/breakdown/async
			breakdown.GET("/:script_id", handler.GetReport)      // GET /api/v1/breakdown/:script_id
		}

		v1.GET("/jobs/:job_id", handler.GetJob) // GET /api/v1/jobs/:job_id

		v1.GET("/rules", handler.ListRules) // GET /api/v1/rules
		v1.GET("/stats", handler.GetStats)  // GET /api/v1/stats
	}
}
