package entities

import (
	"github.com/aarondl/null/v8"

	"gearguard/pkg/constants"
	"gearguard/pkg/types"
)

type User struct {
	ID           uint64         `json:"id" db:"id"`
	FullName     string         `json:"full_name" db:"full_name"`
	Email        string         `json:"email" db:"email"`
	PasswordHash string         `json:"-" db:"password_hash"`
	Role         constants.Role `json:"role" db:"role"`
	TeamID       null.Uint64    `json:"team_id" db:"team_id"`

	types.BaseEntity
}
