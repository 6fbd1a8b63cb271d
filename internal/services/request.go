package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"gearguard/internal/dto"
	"gearguard/internal/entities"
	"gearguard/internal/repositories"
	"gearguard/internal/workflow"
	"gearguard/pkg/apperrors"
	"gearguard/pkg/constants"
	"gearguard/pkg/types"
)

// scrapCascadeAttempts bounds the retry loop around the scrap transaction.
const scrapCascadeAttempts = 3

// errNoRequestAccess is returned when the actor may not see the request at
// all, as opposed to seeing it but lacking the right to change it.
var errNoRequestAccess = apperrors.New(http.StatusForbidden, "no access to this maintenance request")

type RequestServiceInterface interface {
	CreateRequest(ctx context.Context, data dto.CreateRequestDTO, actorID uint64) (*dto.RequestDTO, error)
	GetRequests(ctx context.Context, filter types.Filter, actorID uint64) ([]dto.RequestDTO, uint64, error)
	GetRequest(ctx context.Context, id uint64, actorID uint64) (*dto.RequestDTO, error)
	GetCalendar(ctx context.Context, from, to time.Time, actorID uint64) ([]dto.RequestDTO, error)
	GetOverdue(ctx context.Context, actorID uint64) ([]entities.MaintenanceRequest, error)
	UpdateStage(ctx context.Context, id uint64, data dto.UpdateStageDTO, actorID uint64) (*dto.RequestDTO, error)
	AssignTechnician(ctx context.Context, id uint64, data dto.AssignTechnicianDTO, actorID uint64) (*dto.RequestDTO, error)
	UpdateResolution(ctx context.Context, id uint64, data dto.UpdateResolutionDTO, actorID uint64) (*dto.RequestDTO, error)
	DeleteRequest(ctx context.Context, id uint64, actorID uint64) error
}

type RequestService struct {
	requestRepo   repositories.RequestRepositoryInterface
	equipmentRepo repositories.EquipmentRepositoryInterface
	userRepo      repositories.UserRepositoryInterface
	txManager     repositories.TxManagerInterface
	cacheRepo     repositories.CacheRepositoryInterface
	access        *AccessPolicy
	audit         AuditServiceInterface
	logger        *zap.Logger
}

func NewRequestService(
	requestRepo repositories.RequestRepositoryInterface,
	equipmentRepo repositories.EquipmentRepositoryInterface,
	userRepo repositories.UserRepositoryInterface,
	txManager repositories.TxManagerInterface,
	cacheRepo repositories.CacheRepositoryInterface,
	access *AccessPolicy,
	audit AuditServiceInterface,
	logger *zap.Logger,
) *RequestService {
	return &RequestService{
		requestRepo:   requestRepo,
		equipmentRepo: equipmentRepo,
		userRepo:      userRepo,
		txManager:     txManager,
		cacheRepo:     cacheRepo,
		access:        access,
		audit:         audit,
		logger:        logger,
	}
}

func (s *RequestService) loadActor(ctx context.Context, actorID uint64) (*entities.User, error) {
	actor, err := s.userRepo.FindByID(ctx, actorID)
	if err != nil {
		return nil, apperrors.ErrUnauthorized
	}
	return actor, nil
}

// CreateRequest attaches a new request to a piece of equipment. Category and
// maintenance team are copied off the equipment at this moment and never
// re-synced afterwards.
func (s *RequestService) CreateRequest(ctx context.Context, data dto.CreateRequestDTO, actorID uint64) (*dto.RequestDTO, error) {
	if _, err := s.loadActor(ctx, actorID); err != nil {
		return nil, err
	}

	equipment, err := s.equipmentRepo.FindByID(ctx, data.EquipmentID)
	if err != nil {
		return nil, err
	}
	if !equipment.IsActive {
		return nil, apperrors.NewInactiveEquipmentError(equipment.ID)
	}

	// All field rules are checked together so the error lists every
	// violation, not just the first.
	fields := make(map[string]string)
	if strings.TrimSpace(data.Subject) == "" {
		fields["subject"] = "must not be empty"
	}
	if strings.TrimSpace(data.Description) == "" {
		fields["description"] = "must not be empty"
	}
	if !constants.IsRequestType(data.RequestType) {
		fields["request_type"] = "must be corrective or preventive"
	}
	if !constants.IsPriority(data.Priority) {
		fields["priority"] = "unknown priority"
	}
	if data.RequestType == constants.RequestTypePreventive && !data.ScheduledDate.Valid {
		fields["scheduled_date"] = "required for preventive requests"
	}
	technicianID := data.AssignedTechnicianID
	if !technicianID.Valid {
		technicianID = null.Uint64From(equipment.DefaultTechnicianID)
	}
	if _, err := s.userRepo.FindByID(ctx, technicianID.Uint64); err != nil {
		fields["assigned_technician_id"] = "technician does not exist"
	}
	if len(fields) > 0 {
		return nil, apperrors.NewValidationError(fields)
	}

	request := &entities.MaintenanceRequest{
		Subject:              data.Subject,
		Description:          data.Description,
		EquipmentID:          equipment.ID,
		EquipmentCategory:    equipment.Category,
		MaintenanceTeamID:    equipment.MaintenanceTeamID,
		RequestType:          data.RequestType,
		Stage:                workflow.StageNew,
		Priority:             data.Priority,
		ScheduledDate:        data.ScheduledDate,
		AssignedTechnicianID: technicianID,
		CreatedByID:          actorID,
	}

	id, err := s.requestRepo.CreateRequest(ctx, request)
	if err != nil {
		s.logger.Error("failed to create maintenance request", zap.Error(err))
		return nil, err
	}

	s.audit.Record(ctx, constants.AuditActionCreate, "maintenance_request", id, actorID,
		fmt.Sprintf("created against equipment %d", equipment.ID))
	s.logger.Info("maintenance request created",
		zap.Uint64("requestId", id),
		zap.Uint64("equipmentId", equipment.ID),
		zap.Uint64("actorId", actorID))

	return s.requestRepo.FindRequest(ctx, id)
}

func (s *RequestService) GetRequests(ctx context.Context, filter types.Filter, actorID uint64) ([]dto.RequestDTO, uint64, error) {
	actor, err := s.loadActor(ctx, actorID)
	if err != nil {
		return nil, 0, err
	}
	return s.requestRepo.GetRequests(ctx, filter, s.access.ScopeCondition(actor))
}

func (s *RequestService) GetRequest(ctx context.Context, id uint64, actorID uint64) (*dto.RequestDTO, error) {
	actor, err := s.loadActor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	request, err := s.requestRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.access.CanView(actor, request) {
		return nil, errNoRequestAccess
	}
	return s.requestRepo.FindRequest(ctx, id)
}

func (s *RequestService) GetCalendar(ctx context.Context, from, to time.Time, actorID uint64) ([]dto.RequestDTO, error) {
	actor, err := s.loadActor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if to.Before(from) {
		return nil, apperrors.NewValidationError(map[string]string{"to": "must not be before from"})
	}
	return s.requestRepo.GetScheduledBetween(ctx, from, to, s.access.ScopeCondition(actor))
}

func (s *RequestService) GetOverdue(ctx context.Context, actorID uint64) ([]entities.MaintenanceRequest, error) {
	actor, err := s.loadActor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	return s.requestRepo.GetOverdue(ctx, time.Now(), s.access.ScopeCondition(actor))
}

// UpdateStage moves a request along the workflow. Moving to scrap also
// deactivates the equipment; both writes happen in one transaction so a
// half-applied scrap can never be observed.
func (s *RequestService) UpdateStage(ctx context.Context, id uint64, data dto.UpdateStageDTO, actorID uint64) (*dto.RequestDTO, error) {
	actor, err := s.loadActor(ctx, actorID)
	if err != nil {
		return nil, err
	}

	request, err := s.requestRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.access.CanView(actor, request) {
		return nil, errNoRequestAccess
	}
	if !s.access.CanTransition(actor, request) {
		return nil, apperrors.NewForbiddenError("manager or assigned technician")
	}

	target := workflow.Stage(data.Stage)
	if target == request.Stage {
		// Idempotent: repeating the current stage changes nothing.
		return s.requestRepo.FindRequest(ctx, id)
	}
	if !workflow.IsValidTransition(request.Stage, target) {
		return nil, apperrors.NewInvalidTransitionError(string(request.Stage), string(target))
	}

	if target == workflow.StageScrap {
		if !data.Confirmed {
			return nil, apperrors.NewValidationError(map[string]string{
				"confirmed": "scrapping deactivates the equipment and must be confirmed",
			})
		}
		if err := s.scrapWithCascade(ctx, request); err != nil {
			return nil, err
		}
		// The equipment is inactive now; a stale auto-fill bundle must not
		// outlive the scrap.
		if s.cacheRepo != nil {
			if err := s.cacheRepo.Del(ctx, autoFillCacheKey(request.EquipmentID)); err != nil {
				s.logger.Warn("failed to invalidate auto-fill cache after scrap",
					zap.Uint64("equipmentId", request.EquipmentID), zap.Error(err))
			}
		}
		s.audit.Record(ctx, constants.AuditActionEquipmentScrap, "equipment", request.EquipmentID, actorID,
			fmt.Sprintf("deactivated by scrapping of request %d", request.ID))
	} else {
		if err := s.transitionStage(ctx, request.ID, target); err != nil {
			return nil, err
		}
	}

	s.audit.Record(ctx, constants.AuditActionStageChange, "maintenance_request", request.ID, actorID,
		fmt.Sprintf("stage %s -> %s", request.Stage, target))
	s.logger.Info("maintenance request stage changed",
		zap.Uint64("requestId", request.ID),
		zap.String("from", string(request.Stage)),
		zap.String("to", string(target)),
		zap.Uint64("actorId", actorID))

	return s.requestRepo.FindRequest(ctx, id)
}

// transitionStage re-reads the request under a row lock so a concurrent
// transition loses cleanly instead of overwriting.
func (s *RequestService) transitionStage(ctx context.Context, id uint64, target workflow.Stage) error {
	return s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		current, err := s.requestRepo.FindForUpdateInTx(ctx, tx, id)
		if err != nil {
			return err
		}
		if current.Stage == target {
			return nil
		}
		if !workflow.IsValidTransition(current.Stage, target) {
			return apperrors.NewInvalidTransitionError(string(current.Stage), string(target))
		}
		return s.requestRepo.UpdateStageInTx(ctx, tx, id, target)
	})
}

// scrapWithCascade deactivates the equipment and writes the scrap stage in
// one transaction, retrying transient failures a bounded number of times.
func (s *RequestService) scrapWithCascade(ctx context.Context, request *entities.MaintenanceRequest) error {
	var lastErr error
	for attempt := 1; attempt <= scrapCascadeAttempts; attempt++ {
		err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
			current, err := s.requestRepo.FindForUpdateInTx(ctx, tx, request.ID)
			if err != nil {
				return err
			}
			if current.Stage == workflow.StageScrap {
				return nil
			}
			if !workflow.IsValidTransition(current.Stage, workflow.StageScrap) {
				return apperrors.NewInvalidTransitionError(string(current.Stage), string(workflow.StageScrap))
			}
			if err := s.equipmentRepo.DeactivateInTx(ctx, tx, request.EquipmentID); err != nil {
				return err
			}
			return s.requestRepo.UpdateStageInTx(ctx, tx, request.ID, workflow.StageScrap)
		})
		if err == nil {
			return nil
		}
		var transitionErr *apperrors.AppError
		if errors.As(err, &transitionErr) {
			// Not transient, retrying cannot help.
			return err
		}
		lastErr = err
		s.logger.Warn("scrap cascade attempt failed",
			zap.Uint64("requestId", request.ID),
			zap.Int("attempt", attempt),
			zap.Error(err))
	}
	return apperrors.NewCascadeError(request.ID, request.EquipmentID, lastErr)
}

func (s *RequestService) AssignTechnician(ctx context.Context, id uint64, data dto.AssignTechnicianDTO, actorID uint64) (*dto.RequestDTO, error) {
	actor, err := s.loadActor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if !s.access.CanManage(actor) {
		return nil, apperrors.NewForbiddenError("admin or manager")
	}

	request, err := s.requestRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if request.Stage == workflow.StageRepaired || request.Stage == workflow.StageScrap {
		return nil, apperrors.New(http.StatusConflict, fmt.Sprintf("request %d is %s and can no longer be reassigned", id, request.Stage))
	}
	if _, err := s.userRepo.FindByID(ctx, data.TechnicianID); err != nil {
		return nil, apperrors.NewValidationError(map[string]string{"technician_id": "technician does not exist"})
	}

	if err := s.requestRepo.UpdateAssignee(ctx, id, data.TechnicianID); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, constants.AuditActionAssignTechnician, "maintenance_request", id, actorID,
		fmt.Sprintf("assigned technician %d", data.TechnicianID))
	return s.requestRepo.FindRequest(ctx, id)
}

func (s *RequestService) UpdateResolution(ctx context.Context, id uint64, data dto.UpdateResolutionDTO, actorID uint64) (*dto.RequestDTO, error) {
	actor, err := s.loadActor(ctx, actorID)
	if err != nil {
		return nil, err
	}

	request, err := s.requestRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.access.CanView(actor, request) {
		return nil, errNoRequestAccess
	}
	if !s.access.CanEditResolution(actor, request) {
		return nil, apperrors.NewForbiddenError("manager or assigned technician")
	}

	if data.DurationHours.Valid {
		request.DurationHours = data.DurationHours
	}
	if data.ResolutionNotes.Valid {
		request.ResolutionNotes = data.ResolutionNotes
	}

	if err := s.requestRepo.UpdateResolution(ctx, request); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, constants.AuditActionUpdateResolution, "maintenance_request", id, actorID, "resolution updated")
	return s.requestRepo.FindRequest(ctx, id)
}

func (s *RequestService) DeleteRequest(ctx context.Context, id uint64, actorID uint64) error {
	actor, err := s.loadActor(ctx, actorID)
	if err != nil {
		return err
	}
	if !s.access.CanManage(actor) {
		return apperrors.NewForbiddenError("admin or manager")
	}

	if _, err := s.requestRepo.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.requestRepo.DeleteRequest(ctx, id); err != nil {
		return err
	}

	s.audit.Record(ctx, constants.AuditActionDelete, "maintenance_request", id, actorID, "deleted")
	s.logger.Info("maintenance request deleted", zap.Uint64("requestId", id), zap.Uint64("actorId", actorID))
	return nil
}
