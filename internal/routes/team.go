package routes

import (
	"github.com/labstack/echo/v4"

	"gearguard/internal/controllers"
	"gearguard/pkg/constants"
	"gearguard/pkg/middleware"
)

func registerTeamRoutes(api *echo.Group, ctrl *controllers.TeamController, authMW *middleware.AuthMiddleware, roleMW *middleware.RoleMiddleware) {
	managersOnly := roleMW.Require(constants.RoleAdmin, constants.RoleManager)

	teams := api.Group("/teams", authMW.Auth)
	teams.GET("", ctrl.GetTeams)
	teams.GET("/:id", ctrl.FindTeam)
	teams.POST("", ctrl.CreateTeam, managersOnly)
	teams.PUT("/:id", ctrl.UpdateTeam, managersOnly)
	teams.DELETE("/:id", ctrl.DeleteTeam, managersOnly)
}
