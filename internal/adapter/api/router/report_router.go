package router

import (
	"github.com/labstack/echo/v4"

	"scamwatch/internal/adapter/api/handler"
	"scamwatch/internal/adapter/api/middleware"
)

func SetupReportRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	reportHandler := handler.GetReportHandler()

	// Public routes
	reports := e.Group("/v1/reports")
	reports.GET("", reportHandler.ListReports)
	reports.GET("/:reportId", reportHandler.GetReport)

	// Protected routes
	authenticated := e.Group("/v1/reports")
	authenticated.Use(authMiddleware.Authenticate)

	authenticated.POST("", reportHandler.CreateReport)
	authenticated.POST("/:reportId/verifications", reportHandler.Vote)
	authenticated.PATCH("/:reportId/status", reportHandler.UpdateStatus)
}
