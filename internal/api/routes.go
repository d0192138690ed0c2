package api

import (
	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine, handler *Handler) {
	// Health check
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		v1.POST("/auth/login", handler.Login)
		v1.GET("/profile", handler.Profile)

		v1.POST("/submissions", handler.Submit)
		v1.GET("/submissions", handler.ListSubmissions)
		v1.GET("/submissions/remote", handler.RemoteSubmissions)
		v1.POST("/submissions/import", handler.Import)

		v1.GET("/queue", handler.ListQueue)
		v1.DELETE("/queue", handler.ClearQueue)
		v1.POST("/sync/trigger", handler.TriggerSync)

		v1.GET("/catalog/districts", handler.Districts)
		v1.GET("/catalog/tehsils", handler.Tehsils)
		v1.GET("/catalog/villages", handler.Villages)
		v1.GET("/catalog/languages", handler.Languages)
		v1.GET("/catalog/words", handler.Words)
		v1.GET("/catalog/reference", handler.Reference)
	}
}
