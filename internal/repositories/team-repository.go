package repositories

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"gearguard/internal/entities"
	"gearguard/pkg/apperrors"
)

type TeamRepositoryInterface interface {
	FindByID(ctx context.Context, id uint64) (*entities.MaintenanceTeam, error)
	GetTeams(ctx context.Context, limit, offset uint64) ([]entities.MaintenanceTeam, uint64, error)
	CreateTeam(ctx context.Context, team *entities.MaintenanceTeam) (uint64, error)
	UpdateTeam(ctx context.Context, team *entities.MaintenanceTeam) error
	DeleteTeam(ctx context.Context, id uint64) error
	GetMemberIDs(ctx context.Context, teamID uint64) ([]uint64, error)
	ReplaceMembers(ctx context.Context, teamID uint64, memberIDs []uint64) error
}

type TeamRepository struct {
	storage *pgxpool.Pool
}

func NewTeamRepository(storage *pgxpool.Pool) TeamRepositoryInterface {
	return &TeamRepository{storage: storage}
}

func (r *TeamRepository) FindByID(ctx context.Context, id uint64) (*entities.MaintenanceTeam, error) {
	query := `
		SELECT id, name, specialization, team_lead_id, created_at, updated_at
		FROM maintenance_teams WHERE id = $1
	`
	var t entities.MaintenanceTeam
	err := r.storage.QueryRow(ctx, query, id).Scan(
		&t.ID, &t.Name, &t.Specialization, &t.TeamLeadID, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("maintenance team")
		}
		return nil, err
	}

	t.MemberIDs, err = r.GetMemberIDs(ctx, id)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TeamRepository) GetTeams(ctx context.Context, limit, offset uint64) ([]entities.MaintenanceTeam, uint64, error) {
	query := `
		SELECT id, name, specialization, team_lead_id, created_at, updated_at, COUNT(*) OVER()
		FROM maintenance_teams ORDER BY id LIMIT $1 OFFSET $2
	`
	rows, err := r.storage.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var teams []entities.MaintenanceTeam
	var total uint64
	for rows.Next() {
		var t entities.MaintenanceTeam
		if err := rows.Scan(&t.ID, &t.Name, &t.Specialization, &t.TeamLeadID, &t.CreatedAt, &t.UpdatedAt, &total); err != nil {
			return nil, 0, err
		}
		teams = append(teams, t)
	}
	return teams, total, rows.Err()
}

func (r *TeamRepository) CreateTeam(ctx context.Context, team *entities.MaintenanceTeam) (uint64, error) {
	query := `
		INSERT INTO maintenance_teams (name, specialization, team_lead_id)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	var id uint64
	err := r.storage.QueryRow(ctx, query, team.Name, team.Specialization, team.TeamLeadID).Scan(&id)
	if err != nil {
		return 0, err
	}

	if len(team.MemberIDs) > 0 {
		if err := r.replaceMembers(ctx, r.storage, id, team.MemberIDs); err != nil {
			return 0, err
		}
	}
	return id, nil
}

func (r *TeamRepository) UpdateTeam(ctx context.Context, team *entities.MaintenanceTeam) error {
	query := `
		UPDATE maintenance_teams
		SET name = $1, specialization = $2, team_lead_id = $3, updated_at = CURRENT_TIMESTAMP
		WHERE id = $4
	`
	result, err := r.storage.Exec(ctx, query, team.Name, team.Specialization, team.TeamLeadID, team.ID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("maintenance team")
	}
	return nil
}

func (r *TeamRepository) DeleteTeam(ctx context.Context, id uint64) error {
	result, err := r.storage.Exec(ctx, "DELETE FROM maintenance_teams WHERE id = $1", id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("maintenance team")
	}
	return nil
}

func (r *TeamRepository) GetMemberIDs(ctx context.Context, teamID uint64) ([]uint64, error) {
	rows, err := r.storage.Query(ctx, "SELECT user_id FROM team_members WHERE team_id = $1 ORDER BY user_id", teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uint64
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *TeamRepository) ReplaceMembers(ctx context.Context, teamID uint64, memberIDs []uint64) error {
	return r.replaceMembers(ctx, r.storage, teamID, memberIDs)
}

func (r *TeamRepository) replaceMembers(ctx context.Context, q querier, teamID uint64, memberIDs []uint64) error {
	if _, err := q.Exec(ctx, "DELETE FROM team_members WHERE team_id = $1", teamID); err != nil {
		return err
	}
	for _, userID := range memberIDs {
		if _, err := q.Exec(ctx,
			"INSERT INTO team_members (team_id, user_id) VALUES ($1, $2) ON CONFLICT DO NOTHING",
			teamID, userID,
		); err != nil {
			return err
		}
	}
	return nil
}
