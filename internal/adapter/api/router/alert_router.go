package router

import (
	"github.com/labstack/echo/v4"

	"scamwatch/internal/adapter/api/handler"
	"scamwatch/internal/adapter/api/middleware"
)

func SetupAlertRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	alertHandler := handler.GetAlertHandler()

	alerts := e.Group("/v1/alerts")
	alerts.Use(authMiddleware.Authenticate)

	alerts.GET("", alertHandler.ListAlerts)
	alerts.PATCH("/:alertId/read", alertHandler.MarkRead)
	alerts.POST("/read-all", alertHandler.MarkAllRead)
	alerts.POST("/:alertId/engagement", alertHandler.RecordEngagement)
}
