package api

import (
	"net/http"

	"grid-mix/internal/api/handlers"
	"grid-mix/internal/api/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter wires middleware and routes.
func NewRouter(mixHandler *handlers.MixHandler) *gin.Engine {
	router := gin.New()

	router.Use(middleware.ErrorHandler())
	router.Use(middleware.CORS())
	router.Use(middleware.Logger())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api/v1")
	{
		api.POST("/pipeline/run", mixHandler.RunPipeline)

		api.GET("/mix", mixHandler.GetMix)
		api.GET("/mix/summary", mixHandler.GetSummary)
		api.GET("/mix/export.xlsx", mixHandler.ExportXLSX)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": gin.H{"code": "NOT_FOUND", "message": "Not found"}})
	})
	return router
}
