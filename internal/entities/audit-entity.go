package entities

import "time"

type AuditEntry struct {
	ID         string    `json:"id" db:"id"`
	Action     string    `json:"action" db:"action"`
	EntityType string    `json:"entity_type" db:"entity_type"`
	EntityID   uint64    `json:"entity_id" db:"entity_id"`
	ActorID    uint64    `json:"actor_id" db:"actor_id"`
	Details    string    `json:"details" db:"details"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}
