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
	"gearguard/pkg/apperrors"
	"gearguard/pkg/types"
)

const equipmentFields = "id, name, serial_number, category, location, ownership_type, department, assigned_employee_id, maintenance_team_id, default_technician_id, is_active, created_at, updated_at"

// equipmentFilterColumns whitelists the filterable/sortable columns.
var equipmentFilterColumns = map[string]string{
	"category":   "e.category",
	"is_active":  "e.is_active",
	"team_id":    "e.maintenance_team_id",
	"name":       "e.name",
	"created_at": "e.created_at",
}

type EquipmentRepositoryInterface interface {
	FindByID(ctx context.Context, id uint64) (*entities.Equipment, error)
	FindEquipment(ctx context.Context, id uint64) (*dto.EquipmentDTO, error)
	GetEquipments(ctx context.Context, filter types.Filter) ([]dto.EquipmentDTO, uint64, error)
	CreateEquipment(ctx context.Context, e *entities.Equipment) (uint64, error)
	UpdateEquipment(ctx context.Context, e *entities.Equipment) error
	DeleteEquipment(ctx context.Context, id uint64) error
	// Deactivate is idempotent: already-inactive equipment is not an error.
	Deactivate(ctx context.Context, id uint64) error
	// DeactivateInTx is the same write inside a caller-owned transaction,
	// used by the scrap cascade.
	DeactivateInTx(ctx context.Context, tx pgx.Tx, id uint64) error
}

type EquipmentRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewEquipmentRepository(storage *pgxpool.Pool, logger *zap.Logger) EquipmentRepositoryInterface {
	return &EquipmentRepository{storage: storage, logger: logger}
}

func (r *EquipmentRepository) FindByID(ctx context.Context, id uint64) (*entities.Equipment, error) {
	query := "SELECT " + equipmentFields + " FROM equipments WHERE id = $1"

	var e entities.Equipment
	err := r.storage.QueryRow(ctx, query, id).Scan(
		&e.ID, &e.Name, &e.SerialNumber, &e.Category, &e.Location,
		&e.OwnershipType, &e.Department, &e.AssignedEmployeeID,
		&e.MaintenanceTeamID, &e.DefaultTechnicianID, &e.IsActive,
		&e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("equipment")
		}
		return nil, err
	}
	return &e, nil
}

func equipmentSelect() sq.SelectBuilder {
	return sq.Select(
		"e.id", "e.name", "e.serial_number", "e.category", "e.location",
		"e.ownership_type", "e.department", "e.assigned_employee_id",
		"e.is_active", "e.created_at", "e.updated_at",
		"t.id", "t.name",
		"dt.id", "dt.full_name",
		"ae.id", "ae.full_name",
	).From("equipments e").
		LeftJoin("maintenance_teams t ON t.id = e.maintenance_team_id").
		LeftJoin("users dt ON dt.id = e.default_technician_id").
		LeftJoin("users ae ON ae.id = e.assigned_employee_id").
		PlaceholderFormat(sq.Dollar)
}

func scanEquipmentDTO(rows pgx.Row) (*dto.EquipmentDTO, error) {
	var d dto.EquipmentDTO
	var assignedEmployeeID *uint64
	var createdAt, updatedAt time.Time
	var aeID *uint64
	var aeName *string

	err := rows.Scan(
		&d.ID, &d.Name, &d.SerialNumber, &d.Category, &d.Location,
		&d.OwnershipType, &d.Department, &assignedEmployeeID,
		&d.IsActive, &createdAt, &updatedAt,
		&d.MaintenanceTeam.ID, &d.MaintenanceTeam.Name,
		&d.DefaultTechnician.ID, &d.DefaultTechnician.FullName,
		&aeID, &aeName,
	)
	if err != nil {
		return nil, err
	}

	if aeID != nil && aeName != nil {
		d.AssignedEmployee = &dto.ShortUserDTO{ID: *aeID, FullName: *aeName}
	}
	d.CreatedAt = createdAt.Format(time.RFC3339)
	d.UpdatedAt = updatedAt.Format(time.RFC3339)
	return &d, nil
}

func (r *EquipmentRepository) FindEquipment(ctx context.Context, id uint64) (*dto.EquipmentDTO, error) {
	query, args, err := equipmentSelect().Where(sq.Eq{"e.id": id}).ToSql()
	if err != nil {
		return nil, err
	}

	d, err := scanEquipmentDTO(r.storage.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("equipment")
		}
		return nil, err
	}
	return d, nil
}

func (r *EquipmentRepository) GetEquipments(ctx context.Context, filter types.Filter) ([]dto.EquipmentDTO, uint64, error) {
	builder := db.ApplyListParams(equipmentSelect(), filter, equipmentFilterColumns)

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var list []dto.EquipmentDTO
	for rows.Next() {
		d, err := scanEquipmentDTO(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	total, err := r.countEquipments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *EquipmentRepository) countEquipments(ctx context.Context, filter types.Filter) (uint64, error) {
	filter.WithPagination = false
	builder := db.ApplyListParams(
		sq.Select("COUNT(*)").From("equipments e").PlaceholderFormat(sq.Dollar),
		filter, equipmentFilterColumns,
	)
	query, args, err := builder.ToSql()
	if err != nil {
		return 0, err
	}
	var total uint64
	err = r.storage.QueryRow(ctx, query, args...).Scan(&total)
	return total, err
}

func (r *EquipmentRepository) CreateEquipment(ctx context.Context, e *entities.Equipment) (uint64, error) {
	query := `
		INSERT INTO equipments (name, serial_number, category, location, ownership_type, department, assigned_employee_id, maintenance_team_id, default_technician_id, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`
	var id uint64
	err := r.storage.QueryRow(ctx, query,
		e.Name, e.SerialNumber, e.Category, e.Location,
		e.OwnershipType, e.Department, e.AssignedEmployeeID,
		e.MaintenanceTeamID, e.DefaultTechnicianID, e.IsActive,
	).Scan(&id)
	if err != nil {
		r.logger.Error("failed to insert equipment", zap.Error(err))
		return 0, err
	}
	return id, nil
}

func (r *EquipmentRepository) UpdateEquipment(ctx context.Context, e *entities.Equipment) error {
	query := `
		UPDATE equipments
		SET name = $1, category = $2, location = $3, ownership_type = $4,
		    department = $5, assigned_employee_id = $6, maintenance_team_id = $7,
		    default_technician_id = $8, updated_at = CURRENT_TIMESTAMP
		WHERE id = $9
	`
	result, err := r.storage.Exec(ctx, query,
		e.Name, e.Category, e.Location, e.OwnershipType,
		e.Department, e.AssignedEmployeeID, e.MaintenanceTeamID,
		e.DefaultTechnicianID, e.ID,
	)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("equipment")
	}
	return nil
}

func (r *EquipmentRepository) DeleteEquipment(ctx context.Context, id uint64) error {
	result, err := r.storage.Exec(ctx, "DELETE FROM equipments WHERE id = $1", id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("equipment")
	}
	return nil
}

func (r *EquipmentRepository) Deactivate(ctx context.Context, id uint64) error {
	return deactivateEquipment(ctx, r.storage, id)
}

func (r *EquipmentRepository) DeactivateInTx(ctx context.Context, tx pgx.Tx, id uint64) error {
	return deactivateEquipment(ctx, tx, id)
}

func deactivateEquipment(ctx context.Context, q querier, id uint64) error {
	// No is_active guard in the WHERE clause: setting false twice is the
	// same write, which keeps the operation idempotent.
	result, err := q.Exec(ctx,
		"UPDATE equipments SET is_active = false, updated_at = CURRENT_TIMESTAMP WHERE id = $1", id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("equipment")
	}
	return nil
}
