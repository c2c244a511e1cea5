package router

import (
	"github.com/labstack/echo/v4"

	"scamwatch/internal/adapter/api/middleware"
)

func Setup(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	SetupUserRouter(e, authMiddleware)
	SetupReportRouter(e, authMiddleware)
	SetupAlertRouter(e, authMiddleware)
	SetupHealthRouter(e)
}
