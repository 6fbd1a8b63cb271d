package routes

import (
	"github.com/labstack/echo/v4"

	"gearguard/internal/controllers"
	"gearguard/pkg/middleware"
)

// Request routes rely on the service-layer access policy instead of a role
// middleware: visibility and transition rights depend on the request itself.
func registerRequestRoutes(api *echo.Group, ctrl *controllers.RequestController, authMW *middleware.AuthMiddleware) {
	requests := api.Group("/requests", authMW.Auth)
	requests.GET("", ctrl.GetRequests)
	requests.GET("/calendar", ctrl.GetCalendar)
	requests.GET("/overdue", ctrl.GetOverdue)
	requests.GET("/:id", ctrl.FindRequest)
	requests.POST("", ctrl.CreateRequest)
	requests.PATCH("/:id/stage", ctrl.UpdateStage)
	requests.PATCH("/:id/assignee", ctrl.AssignTechnician)
	requests.PATCH("/:id/resolution", ctrl.UpdateResolution)
	requests.DELETE("/:id", ctrl.DeleteRequest)
}
