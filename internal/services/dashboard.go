package services

import (
	"context"

	"go.uber.org/zap"

	"gearguard/internal/dto"
	"gearguard/internal/repositories"
	"gearguard/pkg/apperrors"
)

type DashboardServiceInterface interface {
	GetDashboard(ctx context.Context, actorID uint64) (*dto.DashboardDTO, error)
}

type DashboardService struct {
	dashboardRepo repositories.DashboardRepositoryInterface
	userRepo      repositories.UserRepositoryInterface
	access        *AccessPolicy
	logger        *zap.Logger
}

func NewDashboardService(
	dashboardRepo repositories.DashboardRepositoryInterface,
	userRepo repositories.UserRepositoryInterface,
	access *AccessPolicy,
	logger *zap.Logger,
) *DashboardService {
	return &DashboardService{dashboardRepo: dashboardRepo, userRepo: userRepo, access: access, logger: logger}
}

// GetDashboard aggregates request counters inside the actor's visibility
// scope, so a technician's dashboard only counts their own slice.
func (s *DashboardService) GetDashboard(ctx context.Context, actorID uint64) (*dto.DashboardDTO, error) {
	actor, err := s.userRepo.FindByID(ctx, actorID)
	if err != nil {
		return nil, apperrors.ErrUnauthorized
	}
	scope := s.access.ScopeCondition(actor)

	total, open, overdue, criticalOpen, err := s.dashboardRepo.GetTotals(ctx, scope)
	if err != nil {
		return nil, err
	}
	byStage, err := s.dashboardRepo.GetCountByStage(ctx, scope)
	if err != nil {
		return nil, err
	}
	byPriority, err := s.dashboardRepo.GetCountByPriority(ctx, scope)
	if err != nil {
		return nil, err
	}
	byTeam, err := s.dashboardRepo.GetCountByTeam(ctx, scope)
	if err != nil {
		return nil, err
	}

	return &dto.DashboardDTO{
		TotalRequests:   total,
		OpenRequests:    open,
		OverdueRequests: overdue,
		CriticalOpen:    criticalOpen,
		ByStage:         byStage,
		ByPriority:      byPriority,
		ByTeam:          byTeam,
	}, nil
}
