package repositories

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"gearguard/internal/entities"
)

type AuditRepositoryInterface interface {
	Insert(ctx context.Context, entry *entities.AuditEntry) error
	GetByEntity(ctx context.Context, entityType string, entityID uint64, limit uint64) ([]entities.AuditEntry, error)
}

type AuditRepository struct {
	storage *pgxpool.Pool
}

func NewAuditRepository(storage *pgxpool.Pool) AuditRepositoryInterface {
	return &AuditRepository{storage: storage}
}

func (r *AuditRepository) Insert(ctx context.Context, entry *entities.AuditEntry) error {
	query := `
		INSERT INTO audit_entries (id, action, entity_type, entity_id, actor_id, details, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.storage.Exec(ctx, query,
		entry.ID, entry.Action, entry.EntityType, entry.EntityID,
		entry.ActorID, entry.Details, entry.CreatedAt,
	)
	return err
}

func (r *AuditRepository) GetByEntity(ctx context.Context, entityType string, entityID uint64, limit uint64) ([]entities.AuditEntry, error) {
	query := `
		SELECT id, action, entity_type, entity_id, actor_id, details, created_at
		FROM audit_entries
		WHERE entity_type = $1 AND entity_id = $2
		ORDER BY created_at DESC
		LIMIT $3
	`
	rows, err := r.storage.Query(ctx, query, entityType, entityID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []entities.AuditEntry
	for rows.Next() {
		var e entities.AuditEntry
		if err := rows.Scan(&e.ID, &e.Action, &e.EntityType, &e.EntityID, &e.ActorID, &e.Details, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
