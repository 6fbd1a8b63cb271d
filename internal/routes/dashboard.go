package routes

import (
	"github.com/labstack/echo/v4"

	"gearguard/internal/controllers"
	"gearguard/pkg/middleware"
)

func registerDashboardRoutes(api *echo.Group, ctrl *controllers.DashboardController, authMW *middleware.AuthMiddleware) {
	api.GET("/dashboard", ctrl.GetDashboard, authMW.Auth)
}
