package routes

import (
	"github.com/labstack/echo/v4"

	"gearguard/internal/controllers"
	"gearguard/pkg/constants"
	"gearguard/pkg/middleware"
)

func registerEquipmentRoutes(api *echo.Group, ctrl *controllers.EquipmentController, authMW *middleware.AuthMiddleware, roleMW *middleware.RoleMiddleware) {
	managersOnly := roleMW.Require(constants.RoleAdmin, constants.RoleManager)

	equipment := api.Group("/equipment", authMW.Auth)
	equipment.GET("", ctrl.GetEquipments)
	equipment.GET("/:id", ctrl.FindEquipment)
	equipment.GET("/:id/auto-fill", ctrl.GetAutoFill)
	equipment.POST("", ctrl.CreateEquipment, managersOnly)
	equipment.PUT("/:id", ctrl.UpdateEquipment, managersOnly)
	equipment.DELETE("/:id", ctrl.DeleteEquipment, roleMW.Require(constants.RoleAdmin))
}
