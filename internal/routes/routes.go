package routes

import (
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"gearguard/internal/controllers"
	"gearguard/internal/jobs"
	"gearguard/internal/repositories"
	"gearguard/internal/services"
	"gearguard/pkg/config"
	"gearguard/pkg/middleware"
	"gearguard/pkg/service"
)

// InitRouter wires repositories, services and controllers and mounts every
// route group under /api. It returns the overdue scanner so the caller can
// schedule it on the same shared instances.
func InitRouter(e *echo.Echo, dbConn *pgxpool.Pool, redisClient *redis.Client, jwtSvc service.JWTService, logger *zap.Logger, cfg *config.Config) *jobs.OverdueScanner {
	api := e.Group("/api")

	authMW := middleware.NewAuthMiddleware(jwtSvc, logger)
	txManager := repositories.NewTxManager(dbConn)

	userRepo := repositories.NewUserRepository(dbConn, logger)
	teamRepo := repositories.NewTeamRepository(dbConn)
	equipmentRepo := repositories.NewEquipmentRepository(dbConn, logger)
	requestRepo := repositories.NewRequestRepository(dbConn, logger)
	auditRepo := repositories.NewAuditRepository(dbConn)
	dashboardRepo := repositories.NewDashboardRepository(dbConn, logger)
	cacheRepo := repositories.NewRedisCacheRepository(redisClient)

	roleMW := middleware.NewRoleMiddleware(userRepo)

	accessPolicy := services.NewAccessPolicy()
	auditService := services.NewAuditService(auditRepo, logger)
	authService := services.NewAuthService(userRepo, jwtSvc, logger)
	userService := services.NewUserService(userRepo, teamRepo, logger)
	teamService := services.NewTeamService(teamRepo, userRepo, logger)
	equipmentService := services.NewEquipmentService(equipmentRepo, teamRepo, userRepo, cacheRepo, cfg.Cache.AutoFillTTL, logger)
	requestService := services.NewRequestService(requestRepo, equipmentRepo, userRepo, txManager, cacheRepo, accessPolicy, auditService, logger)
	dashboardService := services.NewDashboardService(dashboardRepo, userRepo, accessPolicy, logger)

	registerAuthRoutes(api, controllers.NewAuthController(authService, logger), authMW)
	registerUserRoutes(api, controllers.NewUserController(userService, logger), authMW, roleMW)
	registerTeamRoutes(api, controllers.NewTeamController(teamService, logger), authMW, roleMW)
	registerEquipmentRoutes(api, controllers.NewEquipmentController(equipmentService, logger), authMW, roleMW)
	registerRequestRoutes(api, controllers.NewRequestController(requestService, logger), authMW)
	registerDashboardRoutes(api, controllers.NewDashboardController(dashboardService, logger), authMW)

	return jobs.NewOverdueScanner(requestRepo, auditService, logger)
}
