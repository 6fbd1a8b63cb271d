package repositories

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"gearguard/internal/entities"
	"gearguard/pkg/apperrors"
)

const userFields = "id, full_name, email, password_hash, role, team_id, created_at, updated_at"

type UserRepositoryInterface interface {
	FindByID(ctx context.Context, id uint64) (*entities.User, error)
	FindByEmail(ctx context.Context, email string) (*entities.User, error)
	GetUsers(ctx context.Context, limit, offset uint64) ([]entities.User, uint64, error)
	CreateUser(ctx context.Context, user *entities.User) (uint64, error)
	UpdateUser(ctx context.Context, user *entities.User) error
	DeleteUser(ctx context.Context, id uint64) error
}

type UserRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewUserRepository(storage *pgxpool.Pool, logger *zap.Logger) UserRepositoryInterface {
	return &UserRepository{storage: storage, logger: logger}
}

func scanUser(row pgx.Row) (*entities.User, error) {
	var u entities.User
	err := row.Scan(
		&u.ID,
		&u.FullName,
		&u.Email,
		&u.PasswordHash,
		&u.Role,
		&u.TeamID,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("user")
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id uint64) (*entities.User, error) {
	query := "SELECT " + userFields + " FROM users WHERE id = $1"
	return scanUser(r.storage.QueryRow(ctx, query, id))
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*entities.User, error) {
	query := "SELECT " + userFields + " FROM users WHERE email = $1"
	return scanUser(r.storage.QueryRow(ctx, query, email))
}

func (r *UserRepository) GetUsers(ctx context.Context, limit, offset uint64) ([]entities.User, uint64, error) {
	query := "SELECT " + userFields + ", COUNT(*) OVER() FROM users ORDER BY id LIMIT $1 OFFSET $2"

	rows, err := r.storage.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var users []entities.User
	var total uint64
	for rows.Next() {
		var u entities.User
		if err := rows.Scan(
			&u.ID, &u.FullName, &u.Email, &u.PasswordHash, &u.Role, &u.TeamID,
			&u.CreatedAt, &u.UpdatedAt, &total,
		); err != nil {
			return nil, 0, err
		}
		users = append(users, u)
	}
	return users, total, rows.Err()
}

func (r *UserRepository) CreateUser(ctx context.Context, user *entities.User) (uint64, error) {
	query := `
		INSERT INTO users (full_name, email, password_hash, role, team_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	var id uint64
	err := r.storage.QueryRow(ctx, query,
		user.FullName, user.Email, user.PasswordHash, user.Role, user.TeamID,
	).Scan(&id)
	if err != nil {
		r.logger.Error("failed to insert user", zap.Error(err))
		return 0, err
	}
	return id, nil
}

func (r *UserRepository) UpdateUser(ctx context.Context, user *entities.User) error {
	query := `
		UPDATE users
		SET full_name = $1, email = $2, role = $3, team_id = $4, updated_at = CURRENT_TIMESTAMP
		WHERE id = $5
	`
	result, err := r.storage.Exec(ctx, query,
		user.FullName, user.Email, user.Role, user.TeamID, user.ID,
	)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("user")
	}
	return nil
}

func (r *UserRepository) DeleteUser(ctx context.Context, id uint64) error {
	result, err := r.storage.Exec(ctx, "DELETE FROM users WHERE id = $1", id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("user")
	}
	return nil
}
