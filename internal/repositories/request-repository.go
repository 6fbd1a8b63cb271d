package repositories

import (
	"context"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"gearguard/internal/dto"
	"gearguard/internal/entities"
	"gearguard/internal/infrastructure/db"
	"gearguard/internal/workflow"
	"gearguard/pkg/apperrors"
	"gearguard/pkg/types"
)

const requestFields = "id, subject, description, equipment_id, equipment_category, maintenance_team_id, request_type, stage, priority, scheduled_date, assigned_technician_id, duration_hours, resolution_notes, created_by_id, created_at, updated_at"

var requestFilterColumns = map[string]string{
	"stage":          "r.stage",
	"priority":       "r.priority",
	"request_type":   "r.request_type",
	"equipment_id":   "r.equipment_id",
	"technician_id":  "r.assigned_technician_id",
	"team_id":        "r.maintenance_team_id",
	"created_at":     "r.created_at",
	"scheduled_date": "r.scheduled_date",
}

type RequestRepositoryInterface interface {
	FindByID(ctx context.Context, id uint64) (*entities.MaintenanceRequest, error)
	FindForUpdateInTx(ctx context.Context, tx pgx.Tx, id uint64) (*entities.MaintenanceRequest, error)
	FindRequest(ctx context.Context, id uint64) (*dto.RequestDTO, error)
	GetRequests(ctx context.Context, filter types.Filter, scope sq.Sqlizer) ([]dto.RequestDTO, uint64, error)
	GetScheduledBetween(ctx context.Context, from, to time.Time, scope sq.Sqlizer) ([]dto.RequestDTO, error)
	GetOverdue(ctx context.Context, asOf time.Time, scope sq.Sqlizer) ([]entities.MaintenanceRequest, error)
	CreateRequest(ctx context.Context, req *entities.MaintenanceRequest) (uint64, error)
	UpdateStageInTx(ctx context.Context, tx pgx.Tx, id uint64, stage workflow.Stage) error
	UpdateAssignee(ctx context.Context, id uint64, technicianID uint64) error
	UpdateResolution(ctx context.Context, req *entities.MaintenanceRequest) error
	DeleteRequest(ctx context.Context, id uint64) error
}

type RequestRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewRequestRepository(storage *pgxpool.Pool, logger *zap.Logger) RequestRepositoryInterface {
	return &RequestRepository{storage: storage, logger: logger}
}

func scanRequestEntity(row pgx.Row) (*entities.MaintenanceRequest, error) {
	var r entities.MaintenanceRequest
	err := row.Scan(
		&r.ID, &r.Subject, &r.Description, &r.EquipmentID,
		&r.EquipmentCategory, &r.MaintenanceTeamID,
		&r.RequestType, &r.Stage, &r.Priority,
		&r.ScheduledDate, &r.AssignedTechnicianID,
		&r.DurationHours, &r.ResolutionNotes,
		&r.CreatedByID, &r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("maintenance request")
		}
		return nil, err
	}
	return &r, nil
}

func (r *RequestRepository) FindByID(ctx context.Context, id uint64) (*entities.MaintenanceRequest, error) {
	query := "SELECT " + requestFields + " FROM maintenance_requests WHERE id = $1"
	return scanRequestEntity(r.storage.QueryRow(ctx, query, id))
}

// FindForUpdateInTx locks the row for the duration of the transaction so the
// stage write and the equipment cascade see a stable request.
func (r *RequestRepository) FindForUpdateInTx(ctx context.Context, tx pgx.Tx, id uint64) (*entities.MaintenanceRequest, error) {
	query := "SELECT " + requestFields + " FROM maintenance_requests WHERE id = $1 FOR UPDATE"
	return scanRequestEntity(tx.QueryRow(ctx, query, id))
}

func requestSelect() sq.SelectBuilder {
	return sq.Select(
		"r.id", "r.subject", "r.description",
		"r.equipment_category", "r.request_type", "r.stage", "r.priority",
		"r.scheduled_date", "r.duration_hours", "r.resolution_notes",
		"r.created_at", "r.updated_at",
		"e.id", "e.name", "e.serial_number", "e.is_active",
		"t.id", "t.name",
		"tech.id", "tech.full_name",
		"cb.id", "cb.full_name",
	).From("maintenance_requests r").
		LeftJoin("equipments e ON e.id = r.equipment_id").
		LeftJoin("maintenance_teams t ON t.id = r.maintenance_team_id").
		LeftJoin("users tech ON tech.id = r.assigned_technician_id").
		LeftJoin("users cb ON cb.id = r.created_by_id").
		PlaceholderFormat(sq.Dollar)
}

func scanRequestDTO(row pgx.Row, now time.Time) (*dto.RequestDTO, error) {
	var d dto.RequestDTO
	var createdAt, updatedAt time.Time
	var techID *uint64
	var techName *string

	err := row.Scan(
		&d.ID, &d.Subject, &d.Description,
		&d.EquipmentCategory, &d.RequestType, &d.Stage, &d.Priority,
		&d.ScheduledDate, &d.DurationHours, &d.ResolutionNotes,
		&createdAt, &updatedAt,
		&d.Equipment.ID, &d.Equipment.Name, &d.Equipment.SerialNumber, &d.Equipment.IsActive,
		&d.MaintenanceTeam.ID, &d.MaintenanceTeam.Name,
		&techID, &techName,
		&d.CreatedBy.ID, &d.CreatedBy.FullName,
	)
	if err != nil {
		return nil, err
	}

	if techID != nil && techName != nil {
		d.AssignedTechnician = &dto.ShortUserDTO{ID: *techID, FullName: *techName}
	}
	d.CreatedAt = createdAt.Format(time.RFC3339)
	d.UpdatedAt = updatedAt.Format(time.RFC3339)

	stage := workflow.Stage(d.Stage)
	d.IsOverdue = d.ScheduledDate.Valid &&
		stage != workflow.StageRepaired && stage != workflow.StageScrap &&
		d.ScheduledDate.Time.Before(now.Truncate(24*time.Hour))

	return &d, nil
}

func (r *RequestRepository) FindRequest(ctx context.Context, id uint64) (*dto.RequestDTO, error) {
	query, args, err := requestSelect().Where(sq.Eq{"r.id": id}).ToSql()
	if err != nil {
		return nil, err
	}

	d, err := scanRequestDTO(r.storage.QueryRow(ctx, query, args...), time.Now())
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("maintenance request")
		}
		return nil, err
	}
	return d, nil
}

func withScope(builder sq.SelectBuilder, scope sq.Sqlizer) sq.SelectBuilder {
	if scope != nil {
		return builder.Where(scope)
	}
	return builder
}

func (r *RequestRepository) GetRequests(ctx context.Context, filter types.Filter, scope sq.Sqlizer) ([]dto.RequestDTO, uint64, error) {
	builder := withScope(db.ApplyListParams(requestSelect(), filter, requestFilterColumns), scope)

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	now := time.Now()
	var list []dto.RequestDTO
	for rows.Next() {
		d, err := scanRequestDTO(rows, now)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	total, err := r.countRequests(ctx, filter, scope)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *RequestRepository) countRequests(ctx context.Context, filter types.Filter, scope sq.Sqlizer) (uint64, error) {
	filter.WithPagination = false
	builder := withScope(db.ApplyListParams(
		sq.Select("COUNT(*)").From("maintenance_requests r").PlaceholderFormat(sq.Dollar),
		filter, requestFilterColumns,
	), scope)

	query, args, err := builder.ToSql()
	if err != nil {
		return 0, err
	}
	var total uint64
	err = r.storage.QueryRow(ctx, query, args...).Scan(&total)
	return total, err
}

// GetScheduledBetween feeds the calendar view.
func (r *RequestRepository) GetScheduledBetween(ctx context.Context, from, to time.Time, scope sq.Sqlizer) ([]dto.RequestDTO, error) {
	builder := withScope(requestSelect(), scope).
		Where(sq.GtOrEq{"r.scheduled_date": from}).
		Where(sq.LtOrEq{"r.scheduled_date": to}).
		OrderBy("r.scheduled_date ASC")

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	now := time.Now()
	var list []dto.RequestDTO
	for rows.Next() {
		d, err := scanRequestDTO(rows, now)
		if err != nil {
			return nil, err
		}
		list = append(list, *d)
	}
	return list, rows.Err()
}

// GetOverdue returns raw entities for the overdue scan and views: scheduled
// in the past and not yet repaired or scrapped.
func (r *RequestRepository) GetOverdue(ctx context.Context, asOf time.Time, scope sq.Sqlizer) ([]entities.MaintenanceRequest, error) {
	builder := sq.Select(
		"r.id", "r.subject", "r.description", "r.equipment_id",
		"r.equipment_category", "r.maintenance_team_id",
		"r.request_type", "r.stage", "r.priority",
		"r.scheduled_date", "r.assigned_technician_id",
		"r.duration_hours", "r.resolution_notes",
		"r.created_by_id", "r.created_at", "r.updated_at",
	).From("maintenance_requests r").
		Where(sq.Lt{"r.scheduled_date": asOf.Truncate(24 * time.Hour)}).
		Where(sq.NotEq{"r.stage": []string{string(workflow.StageRepaired), string(workflow.StageScrap)}}).
		OrderBy("r.scheduled_date ASC").
		PlaceholderFormat(sq.Dollar)
	builder = withScope(builder, scope)

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []entities.MaintenanceRequest
	for rows.Next() {
		req, err := scanRequestEntity(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *req)
	}
	return list, rows.Err()
}

func (r *RequestRepository) CreateRequest(ctx context.Context, req *entities.MaintenanceRequest) (uint64, error) {
	query := `
		INSERT INTO maintenance_requests (subject, description, equipment_id, equipment_category, maintenance_team_id, request_type, stage, priority, scheduled_date, assigned_technician_id, created_by_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`
	var id uint64
	err := r.storage.QueryRow(ctx, query,
		req.Subject, req.Description, req.EquipmentID,
		req.EquipmentCategory, req.MaintenanceTeamID,
		req.RequestType, req.Stage, req.Priority,
		req.ScheduledDate, req.AssignedTechnicianID, req.CreatedByID,
	).Scan(&id)
	if err != nil {
		r.logger.Error("failed to insert maintenance request", zap.Error(err))
		return 0, err
	}
	return id, nil
}

func (r *RequestRepository) UpdateStageInTx(ctx context.Context, tx pgx.Tx, id uint64, stage workflow.Stage) error {
	result, err := tx.Exec(ctx,
		"UPDATE maintenance_requests SET stage = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2",
		stage, id,
	)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("maintenance request")
	}
	return nil
}

func (r *RequestRepository) UpdateAssignee(ctx context.Context, id uint64, technicianID uint64) error {
	result, err := r.storage.Exec(ctx,
		"UPDATE maintenance_requests SET assigned_technician_id = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2",
		technicianID, id,
	)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("maintenance request")
	}
	return nil
}

func (r *RequestRepository) UpdateResolution(ctx context.Context, req *entities.MaintenanceRequest) error {
	result, err := r.storage.Exec(ctx,
		"UPDATE maintenance_requests SET duration_hours = $1, resolution_notes = $2, updated_at = CURRENT_TIMESTAMP WHERE id = $3",
		req.DurationHours, req.ResolutionNotes, req.ID,
	)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("maintenance request")
	}
	return nil
}

func (r *RequestRepository) DeleteRequest(ctx context.Context, id uint64) error {
	result, err := r.storage.Exec(ctx, "DELETE FROM maintenance_requests WHERE id = $1", id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("maintenance request")
	}
	return nil
}
