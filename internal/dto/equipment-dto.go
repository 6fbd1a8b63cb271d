package dto

import "github.com/aarondl/null/v8"

type EquipmentDTO struct {
	ID                uint64        `json:"id"`
	Name              string        `json:"name"`
	SerialNumber      string        `json:"serial_number"`
	Category          string        `json:"category"`
	Location          string        `json:"location"`
	OwnershipType     string        `json:"ownership_type"`
	Department        null.String   `json:"department"`
	AssignedEmployee  *ShortUserDTO `json:"assigned_employee,omitempty"`
	MaintenanceTeam   ShortTeamDTO  `json:"maintenance_team"`
	DefaultTechnician ShortUserDTO  `json:"default_technician"`
	IsActive          bool          `json:"is_active"`
	CreatedAt         string        `json:"created_at"`
	UpdatedAt         string        `json:"updated_at"`
}

type CreateEquipmentDTO struct {
	Name                string      `json:"name" validate:"required"`
	SerialNumber        string      `json:"serial_number" validate:"required,serial_number"`
	Category            string      `json:"category" validate:"required"`
	Location            string      `json:"location" validate:"omitempty"`
	OwnershipType       string      `json:"ownership_type" validate:"required,ownership_type"`
	Department          null.String `json:"department"`
	AssignedEmployeeID  null.Uint64 `json:"assigned_employee_id" validate:"omitempty,gt=0"`
	MaintenanceTeamID   uint64      `json:"maintenance_team_id" validate:"required,gt=0"`
	DefaultTechnicianID uint64      `json:"default_technician_id" validate:"required,gt=0"`
}

type UpdateEquipmentDTO struct {
	Name                null.String `json:"name" validate:"omitempty"`
	Category            null.String `json:"category" validate:"omitempty"`
	Location            null.String `json:"location" validate:"omitempty"`
	OwnershipType       null.String `json:"ownership_type" validate:"omitempty,ownership_type"`
	Department          null.String `json:"department"`
	AssignedEmployeeID  null.Uint64 `json:"assigned_employee_id" validate:"omitempty,gt=0"`
	MaintenanceTeamID   null.Uint64 `json:"maintenance_team_id" validate:"omitempty,gt=0"`
	DefaultTechnicianID null.Uint64 `json:"default_technician_id" validate:"omitempty,gt=0"`
}

// AutoFillDTO is the bundle a client pre-populates a new request with,
// sourced from the selected equipment at that instant.
type AutoFillDTO struct {
	Category          string       `json:"category"`
	Team              ShortTeamDTO `json:"team"`
	DefaultTechnician ShortUserDTO `json:"default_technician"`
}
