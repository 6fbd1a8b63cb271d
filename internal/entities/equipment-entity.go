package entities

import (
	"github.com/aarondl/null/v8"

	"gearguard/pkg/types"
)

type Equipment struct {
	ID           uint64 `json:"id" db:"id"`
	Name         string `json:"name" db:"name"`
	SerialNumber string `json:"serial_number" db:"serial_number"`
	Category     string `json:"category" db:"category"`
	Location     string `json:"location" db:"location"`

	// Exactly one of Department / AssignedEmployeeID is set, matching
	// OwnershipType. Enforced on every write.
	OwnershipType      string      `json:"ownership_type" db:"ownership_type"`
	Department         null.String `json:"department" db:"department"`
	AssignedEmployeeID null.Uint64 `json:"assigned_employee_id" db:"assigned_employee_id"`

	MaintenanceTeamID   uint64 `json:"maintenance_team_id" db:"maintenance_team_id"`
	DefaultTechnicianID uint64 `json:"default_technician_id" db:"default_technician_id"`
	IsActive            bool   `json:"is_active" db:"is_active"`

	types.BaseEntity
}
