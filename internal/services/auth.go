package services

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"gearguard/internal/dto"
	"gearguard/internal/entities"
	"gearguard/internal/repositories"
	"gearguard/pkg/apperrors"
	"gearguard/pkg/service"
)

type AuthServiceInterface interface {
	Login(ctx context.Context, data dto.LoginDTO) (*dto.AuthResponseDTO, error)
	Refresh(ctx context.Context, data dto.RefreshTokenDTO) (*dto.TokenPairDTO, error)
	Me(ctx context.Context, userID uint64) (*dto.UserDTO, error)
}

type AuthService struct {
	userRepo   repositories.UserRepositoryInterface
	jwtService service.JWTService
	logger     *zap.Logger
}

func NewAuthService(userRepo repositories.UserRepositoryInterface, jwtService service.JWTService, logger *zap.Logger) *AuthService {
	return &AuthService{userRepo: userRepo, jwtService: jwtService, logger: logger}
}

func userToDTO(user *entities.User) dto.UserDTO {
	return dto.UserDTO{
		ID:       user.ID,
		FullName: user.FullName,
		Email:    user.Email,
		Role:     string(user.Role),
		TeamID:   user.TeamID,
	}
}

func (s *AuthService) Login(ctx context.Context, data dto.LoginDTO) (*dto.AuthResponseDTO, error) {
	user, err := s.userRepo.FindByEmail(ctx, data.Email)
	if err != nil {
		// Same error for unknown email and wrong password.
		return nil, apperrors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(data.Password)); err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}

	access, refresh, err := s.jwtService.GenerateTokens(user.ID)
	if err != nil {
		s.logger.Error("failed to generate tokens", zap.Error(err))
		return nil, apperrors.NewInternalError("could not issue tokens", err)
	}

	s.logger.Info("user logged in", zap.Uint64("userId", user.ID))
	return &dto.AuthResponseDTO{
		User:   userToDTO(user),
		Tokens: dto.TokenPairDTO{AccessToken: access, RefreshToken: refresh},
	}, nil
}

func (s *AuthService) Refresh(ctx context.Context, data dto.RefreshTokenDTO) (*dto.TokenPairDTO, error) {
	claims, err := s.jwtService.ValidateToken(data.RefreshToken)
	if err != nil {
		return nil, err
	}
	if !claims.IsRefreshToken {
		return nil, apperrors.ErrInvalidToken
	}

	// The account may have been deleted since the token was issued.
	if _, err := s.userRepo.FindByID(ctx, claims.UserID); err != nil {
		return nil, apperrors.ErrInvalidToken
	}

	access, refresh, err := s.jwtService.GenerateTokens(claims.UserID)
	if err != nil {
		s.logger.Error("failed to rotate tokens", zap.Error(err))
		return nil, apperrors.NewInternalError("could not issue tokens", err)
	}

	return &dto.TokenPairDTO{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *AuthService) Me(ctx context.Context, userID uint64) (*dto.UserDTO, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := userToDTO(user)
	return &out, nil
}
