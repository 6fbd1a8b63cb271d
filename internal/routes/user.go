package routes

import (
	"github.com/labstack/echo/v4"

	"gearguard/internal/controllers"
	"gearguard/pkg/constants"
	"gearguard/pkg/middleware"
)

func registerUserRoutes(api *echo.Group, ctrl *controllers.UserController, authMW *middleware.AuthMiddleware, roleMW *middleware.RoleMiddleware) {
	managersOnly := roleMW.Require(constants.RoleAdmin, constants.RoleManager)

	users := api.Group("/users", authMW.Auth)
	users.GET("", ctrl.GetUsers)
	users.GET("/:id", ctrl.FindUser)
	users.POST("", ctrl.CreateUser, managersOnly)
	users.PUT("/:id", ctrl.UpdateUser, managersOnly)
	users.DELETE("/:id", ctrl.DeleteUser, roleMW.Require(constants.RoleAdmin))
}
