package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aarondl/null/v8"
	"go.uber.org/zap"

	"gearguard/internal/dto"
	"gearguard/internal/entities"
	"gearguard/internal/repositories"
	"gearguard/pkg/apperrors"
	"gearguard/pkg/constants"
	"gearguard/pkg/types"
)

type EquipmentServiceInterface interface {
	GetAutoFill(ctx context.Context, equipmentID uint64) (*dto.AutoFillDTO, error)
	GetEquipments(ctx context.Context, filter types.Filter) ([]dto.EquipmentDTO, uint64, error)
	FindEquipment(ctx context.Context, id uint64) (*dto.EquipmentDTO, error)
	CreateEquipment(ctx context.Context, data dto.CreateEquipmentDTO, actorID uint64) (*dto.EquipmentDTO, error)
	UpdateEquipment(ctx context.Context, id uint64, data dto.UpdateEquipmentDTO, actorID uint64) (*dto.EquipmentDTO, error)
	DeleteEquipment(ctx context.Context, id uint64, actorID uint64) error
}

type EquipmentService struct {
	equipmentRepo repositories.EquipmentRepositoryInterface
	teamRepo      repositories.TeamRepositoryInterface
	userRepo      repositories.UserRepositoryInterface
	cacheRepo     repositories.CacheRepositoryInterface
	autoFillTTL   time.Duration
	logger        *zap.Logger
}

func NewEquipmentService(
	equipmentRepo repositories.EquipmentRepositoryInterface,
	teamRepo repositories.TeamRepositoryInterface,
	userRepo repositories.UserRepositoryInterface,
	cacheRepo repositories.CacheRepositoryInterface,
	autoFillTTL time.Duration,
	logger *zap.Logger,
) *EquipmentService {
	return &EquipmentService{
		equipmentRepo: equipmentRepo,
		teamRepo:      teamRepo,
		userRepo:      userRepo,
		cacheRepo:     cacheRepo,
		autoFillTTL:   autoFillTTL,
		logger:        logger,
	}
}

func autoFillCacheKey(equipmentID uint64) string {
	return fmt.Sprintf("equipment:autofill:%d", equipmentID)
}

// GetAutoFill returns the bundle a new request is pre-populated with. It
// refuses inactive equipment so clients cannot even start a request against
// scrapped gear.
func (s *EquipmentService) GetAutoFill(ctx context.Context, equipmentID uint64) (*dto.AutoFillDTO, error) {
	if s.cacheRepo != nil {
		if cached, err := s.cacheRepo.Get(ctx, autoFillCacheKey(equipmentID)); err == nil {
			var bundle dto.AutoFillDTO
			if err := json.Unmarshal([]byte(cached), &bundle); err == nil {
				return &bundle, nil
			}
		}
	}

	equipment, err := s.equipmentRepo.FindByID(ctx, equipmentID)
	if err != nil {
		return nil, err
	}
	if !equipment.IsActive {
		return nil, apperrors.NewInactiveEquipmentError(equipmentID)
	}

	team, err := s.teamRepo.FindByID(ctx, equipment.MaintenanceTeamID)
	if err != nil {
		return nil, err
	}
	technician, err := s.userRepo.FindByID(ctx, equipment.DefaultTechnicianID)
	if err != nil {
		return nil, err
	}

	bundle := &dto.AutoFillDTO{
		Category:          equipment.Category,
		Team:              dto.ShortTeamDTO{ID: team.ID, Name: team.Name},
		DefaultTechnician: dto.ShortUserDTO{ID: technician.ID, FullName: technician.FullName},
	}

	if s.cacheRepo != nil {
		if raw, err := json.Marshal(bundle); err == nil {
			if err := s.cacheRepo.Set(ctx, autoFillCacheKey(equipmentID), string(raw), s.autoFillTTL); err != nil {
				s.logger.Warn("failed to cache auto-fill bundle", zap.Uint64("equipmentId", equipmentID), zap.Error(err))
			}
		}
	}

	return bundle, nil
}

func (s *EquipmentService) invalidateAutoFill(ctx context.Context, equipmentID uint64) {
	if s.cacheRepo == nil {
		return
	}
	if err := s.cacheRepo.Del(ctx, autoFillCacheKey(equipmentID)); err != nil {
		s.logger.Warn("failed to invalidate auto-fill cache", zap.Uint64("equipmentId", equipmentID), zap.Error(err))
	}
}

func (s *EquipmentService) GetEquipments(ctx context.Context, filter types.Filter) ([]dto.EquipmentDTO, uint64, error) {
	return s.equipmentRepo.GetEquipments(ctx, filter)
}

func (s *EquipmentService) FindEquipment(ctx context.Context, id uint64) (*dto.EquipmentDTO, error) {
	return s.equipmentRepo.FindEquipment(ctx, id)
}

// validateOwnership enforces: ownershipType implies the matching field is
// set, and the other one is empty.
func validateOwnership(ownershipType string, department null.String, employeeID null.Uint64) map[string]string {
	fields := make(map[string]string)
	switch ownershipType {
	case constants.OwnershipDepartment:
		if !department.Valid || department.String == "" {
			fields["department"] = "required when ownership_type is department"
		}
		if employeeID.Valid {
			fields["assigned_employee_id"] = "must be empty when ownership_type is department"
		}
	case constants.OwnershipEmployee:
		if !employeeID.Valid || employeeID.Uint64 == 0 {
			fields["assigned_employee_id"] = "required when ownership_type is employee"
		}
		if department.Valid && department.String != "" {
			fields["department"] = "must be empty when ownership_type is employee"
		}
	default:
		fields["ownership_type"] = "must be department or employee"
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}

func (s *EquipmentService) CreateEquipment(ctx context.Context, data dto.CreateEquipmentDTO, actorID uint64) (*dto.EquipmentDTO, error) {
	if fields := validateOwnership(data.OwnershipType, data.Department, data.AssignedEmployeeID); fields != nil {
		return nil, apperrors.NewValidationError(fields)
	}

	// Referenced team and technician must exist up front; a dangling
	// default technician would break auto-fill later.
	if _, err := s.teamRepo.FindByID(ctx, data.MaintenanceTeamID); err != nil {
		return nil, err
	}
	if _, err := s.userRepo.FindByID(ctx, data.DefaultTechnicianID); err != nil {
		return nil, err
	}

	equipment := &entities.Equipment{
		Name:                data.Name,
		SerialNumber:        data.SerialNumber,
		Category:            data.Category,
		Location:            data.Location,
		OwnershipType:       data.OwnershipType,
		Department:          data.Department,
		AssignedEmployeeID:  data.AssignedEmployeeID,
		MaintenanceTeamID:   data.MaintenanceTeamID,
		DefaultTechnicianID: data.DefaultTechnicianID,
		IsActive:            true,
	}

	id, err := s.equipmentRepo.CreateEquipment(ctx, equipment)
	if err != nil {
		s.logger.Error("failed to create equipment", zap.Error(err))
		return nil, err
	}

	s.logger.Info("equipment created", zap.Uint64("equipmentId", id), zap.Uint64("actorId", actorID))
	return s.equipmentRepo.FindEquipment(ctx, id)
}

func (s *EquipmentService) UpdateEquipment(ctx context.Context, id uint64, data dto.UpdateEquipmentDTO, actorID uint64) (*dto.EquipmentDTO, error) {
	current, err := s.equipmentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if data.Name.Valid {
		current.Name = data.Name.String
	}
	if data.Category.Valid {
		current.Category = data.Category.String
	}
	if data.Location.Valid {
		current.Location = data.Location.String
	}
	if data.OwnershipType.Valid {
		current.OwnershipType = data.OwnershipType.String
		// Switching ownership resets both sides before re-applying.
		current.Department = null.String{}
		current.AssignedEmployeeID = null.Uint64{}
	}
	if data.Department.Valid {
		current.Department = data.Department
	}
	if data.AssignedEmployeeID.Valid {
		current.AssignedEmployeeID = data.AssignedEmployeeID
	}
	if data.MaintenanceTeamID.Valid {
		if _, err := s.teamRepo.FindByID(ctx, data.MaintenanceTeamID.Uint64); err != nil {
			return nil, err
		}
		current.MaintenanceTeamID = data.MaintenanceTeamID.Uint64
	}
	if data.DefaultTechnicianID.Valid {
		if _, err := s.userRepo.FindByID(ctx, data.DefaultTechnicianID.Uint64); err != nil {
			return nil, err
		}
		current.DefaultTechnicianID = data.DefaultTechnicianID.Uint64
	}

	if fields := validateOwnership(current.OwnershipType, current.Department, current.AssignedEmployeeID); fields != nil {
		return nil, apperrors.NewValidationError(fields)
	}

	if err := s.equipmentRepo.UpdateEquipment(ctx, current); err != nil {
		return nil, err
	}

	s.invalidateAutoFill(ctx, id)
	s.logger.Info("equipment updated", zap.Uint64("equipmentId", id), zap.Uint64("actorId", actorID))
	return s.equipmentRepo.FindEquipment(ctx, id)
}

func (s *EquipmentService) DeleteEquipment(ctx context.Context, id uint64, actorID uint64) error {
	if err := s.equipmentRepo.DeleteEquipment(ctx, id); err != nil {
		return err
	}
	s.invalidateAutoFill(ctx, id)
	s.logger.Info("equipment deleted", zap.Uint64("equipmentId", id), zap.Uint64("actorId", actorID))
	return nil
}
