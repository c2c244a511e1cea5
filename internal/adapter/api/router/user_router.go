package router

import (
	"github.com/labstack/echo/v4"

	"scamwatch/internal/adapter/api/handler"
	"scamwatch/internal/adapter/api/middleware"
)

func SetupUserRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	userHandler := handler.GetUserHandler()

	e.POST("/v1/users", userHandler.Register)

	users := e.Group("/v1/users")
	users.Use(authMiddleware.Authenticate)

	users.GET("/me", userHandler.GetMe)
	users.PATCH("/me/preferences", userHandler.UpdatePreferences)
}
