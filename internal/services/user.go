package services

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"gearguard/internal/dto"
	"gearguard/internal/entities"
	"gearguard/internal/repositories"
	"gearguard/pkg/apperrors"
	"gearguard/pkg/constants"
)

type UserServiceInterface interface {
	GetUsers(ctx context.Context, limit, offset uint64) ([]dto.UserDTO, uint64, error)
	FindUser(ctx context.Context, id uint64) (*dto.UserDTO, error)
	CreateUser(ctx context.Context, data dto.CreateUserDTO, actorID uint64) (*dto.UserDTO, error)
	UpdateUser(ctx context.Context, id uint64, data dto.UpdateUserDTO, actorID uint64) (*dto.UserDTO, error)
	DeleteUser(ctx context.Context, id uint64, actorID uint64) error
}

type UserService struct {
	userRepo repositories.UserRepositoryInterface
	teamRepo repositories.TeamRepositoryInterface
	logger   *zap.Logger
}

func NewUserService(userRepo repositories.UserRepositoryInterface, teamRepo repositories.TeamRepositoryInterface, logger *zap.Logger) *UserService {
	return &UserService{userRepo: userRepo, teamRepo: teamRepo, logger: logger}
}

func (s *UserService) GetUsers(ctx context.Context, limit, offset uint64) ([]dto.UserDTO, uint64, error) {
	users, total, err := s.userRepo.GetUsers(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	out := make([]dto.UserDTO, 0, len(users))
	for i := range users {
		out = append(out, userToDTO(&users[i]))
	}
	return out, total, nil
}

func (s *UserService) FindUser(ctx context.Context, id uint64) (*dto.UserDTO, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	out := userToDTO(user)
	return &out, nil
}

func (s *UserService) CreateUser(ctx context.Context, data dto.CreateUserDTO, actorID uint64) (*dto.UserDTO, error) {
	if _, err := s.userRepo.FindByEmail(ctx, data.Email); err == nil {
		return nil, apperrors.NewValidationError(map[string]string{"email": "already taken"})
	}
	if data.TeamID.Valid {
		if _, err := s.teamRepo.FindByID(ctx, data.TeamID.Uint64); err != nil {
			return nil, err
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(data.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.NewInternalError("could not hash password", err)
	}

	user := &entities.User{
		FullName:     data.FullName,
		Email:        data.Email,
		PasswordHash: string(hash),
		Role:         constants.Role(data.Role),
		TeamID:       data.TeamID,
	}

	id, err := s.userRepo.CreateUser(ctx, user)
	if err != nil {
		s.logger.Error("failed to create user", zap.Error(err))
		return nil, err
	}

	s.logger.Info("user created", zap.Uint64("userId", id), zap.Uint64("actorId", actorID))
	return s.FindUser(ctx, id)
}

func (s *UserService) UpdateUser(ctx context.Context, id uint64, data dto.UpdateUserDTO, actorID uint64) (*dto.UserDTO, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if data.FullName.Valid {
		user.FullName = data.FullName.String
	}
	if data.Email.Valid && data.Email.String != user.Email {
		if _, err := s.userRepo.FindByEmail(ctx, data.Email.String); err == nil {
			return nil, apperrors.NewValidationError(map[string]string{"email": "already taken"})
		}
		user.Email = data.Email.String
	}
	if data.Role.Valid {
		role, ok := constants.ParseRole(data.Role.String)
		if !ok {
			return nil, apperrors.NewValidationError(map[string]string{"role": "unknown role"})
		}
		user.Role = role
	}
	if data.TeamID.Valid {
		if _, err := s.teamRepo.FindByID(ctx, data.TeamID.Uint64); err != nil {
			return nil, err
		}
		user.TeamID = data.TeamID
	}

	if err := s.userRepo.UpdateUser(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user updated", zap.Uint64("userId", id), zap.Uint64("actorId", actorID))
	return s.FindUser(ctx, id)
}

func (s *UserService) DeleteUser(ctx context.Context, id uint64, actorID uint64) error {
	if id == actorID {
		return apperrors.NewValidationError(map[string]string{"id": "cannot delete your own account"})
	}
	if err := s.userRepo.DeleteUser(ctx, id); err != nil {
		return err
	}
	s.logger.Info("user deleted", zap.Uint64("userId", id), zap.Uint64("actorId", actorID))
	return nil
}
