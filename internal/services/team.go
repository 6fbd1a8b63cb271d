package services

import (
	"context"

	"go.uber.org/zap"

	"gearguard/internal/dto"
	"gearguard/internal/entities"
	"gearguard/internal/repositories"
)

type TeamServiceInterface interface {
	GetTeams(ctx context.Context, limit, offset uint64) ([]dto.TeamDTO, uint64, error)
	FindTeam(ctx context.Context, id uint64) (*dto.TeamDTO, error)
	CreateTeam(ctx context.Context, data dto.CreateTeamDTO, actorID uint64) (*dto.TeamDTO, error)
	UpdateTeam(ctx context.Context, id uint64, data dto.UpdateTeamDTO, actorID uint64) (*dto.TeamDTO, error)
	DeleteTeam(ctx context.Context, id uint64, actorID uint64) error
}

type TeamService struct {
	teamRepo repositories.TeamRepositoryInterface
	userRepo repositories.UserRepositoryInterface
	logger   *zap.Logger
}

func NewTeamService(teamRepo repositories.TeamRepositoryInterface, userRepo repositories.UserRepositoryInterface, logger *zap.Logger) *TeamService {
	return &TeamService{teamRepo: teamRepo, userRepo: userRepo, logger: logger}
}

func (s *TeamService) teamToDTO(ctx context.Context, team *entities.MaintenanceTeam) (*dto.TeamDTO, error) {
	out := &dto.TeamDTO{
		ID:             team.ID,
		Name:           team.Name,
		Specialization: team.Specialization,
	}

	if team.TeamLeadID.Valid {
		lead, err := s.userRepo.FindByID(ctx, team.TeamLeadID.Uint64)
		if err == nil {
			out.TeamLead = &dto.ShortUserDTO{ID: lead.ID, FullName: lead.FullName}
		}
	}

	memberIDs, err := s.teamRepo.GetMemberIDs(ctx, team.ID)
	if err != nil {
		return nil, err
	}
	for _, memberID := range memberIDs {
		member, err := s.userRepo.FindByID(ctx, memberID)
		if err != nil {
			continue
		}
		out.Members = append(out.Members, dto.ShortUserDTO{ID: member.ID, FullName: member.FullName})
	}

	return out, nil
}

func (s *TeamService) GetTeams(ctx context.Context, limit, offset uint64) ([]dto.TeamDTO, uint64, error) {
	teams, total, err := s.teamRepo.GetTeams(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	out := make([]dto.TeamDTO, 0, len(teams))
	for i := range teams {
		teamDTO, err := s.teamToDTO(ctx, &teams[i])
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *teamDTO)
	}
	return out, total, nil
}

func (s *TeamService) FindTeam(ctx context.Context, id uint64) (*dto.TeamDTO, error) {
	team, err := s.teamRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.teamToDTO(ctx, team)
}

func (s *TeamService) validateMembers(ctx context.Context, memberIDs []uint64) error {
	for _, memberID := range memberIDs {
		if _, err := s.userRepo.FindByID(ctx, memberID); err != nil {
			return err
		}
	}
	return nil
}

func (s *TeamService) CreateTeam(ctx context.Context, data dto.CreateTeamDTO, actorID uint64) (*dto.TeamDTO, error) {
	if data.TeamLeadID.Valid {
		if _, err := s.userRepo.FindByID(ctx, data.TeamLeadID.Uint64); err != nil {
			return nil, err
		}
	}
	if err := s.validateMembers(ctx, data.MemberIDs); err != nil {
		return nil, err
	}

	team := &entities.MaintenanceTeam{
		Name:           data.Name,
		Specialization: data.Specialization,
		TeamLeadID:     data.TeamLeadID,
	}

	id, err := s.teamRepo.CreateTeam(ctx, team)
	if err != nil {
		s.logger.Error("failed to create team", zap.Error(err))
		return nil, err
	}

	if len(data.MemberIDs) > 0 {
		if err := s.teamRepo.ReplaceMembers(ctx, id, data.MemberIDs); err != nil {
			return nil, err
		}
	}

	s.logger.Info("team created", zap.Uint64("teamId", id), zap.Uint64("actorId", actorID))
	return s.FindTeam(ctx, id)
}

func (s *TeamService) UpdateTeam(ctx context.Context, id uint64, data dto.UpdateTeamDTO, actorID uint64) (*dto.TeamDTO, error) {
	team, err := s.teamRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if data.Name.Valid {
		team.Name = data.Name.String
	}
	if data.Specialization.Valid {
		team.Specialization = data.Specialization.String
	}
	if data.TeamLeadID.Valid {
		if _, err := s.userRepo.FindByID(ctx, data.TeamLeadID.Uint64); err != nil {
			return nil, err
		}
		team.TeamLeadID = data.TeamLeadID
	}

	if err := s.teamRepo.UpdateTeam(ctx, team); err != nil {
		return nil, err
	}

	if data.MemberIDs != nil {
		if err := s.validateMembers(ctx, data.MemberIDs); err != nil {
			return nil, err
		}
		if err := s.teamRepo.ReplaceMembers(ctx, id, data.MemberIDs); err != nil {
			return nil, err
		}
	}

	s.logger.Info("team updated", zap.Uint64("teamId", id), zap.Uint64("actorId", actorID))
	return s.FindTeam(ctx, id)
}

func (s *TeamService) DeleteTeam(ctx context.Context, id uint64, actorID uint64) error {
	if err := s.teamRepo.DeleteTeam(ctx, id); err != nil {
		return err
	}
	s.logger.Info("team deleted", zap.Uint64("teamId", id), zap.Uint64("actorId", actorID))
	return nil
}
