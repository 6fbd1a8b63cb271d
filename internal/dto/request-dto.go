package dto

import "github.com/aarondl/null/v8"

type RequestDTO struct {
	ID                 uint64            `json:"id"`
	Subject            string            `json:"subject"`
	Description        string            `json:"description"`
	Equipment          ShortEquipmentDTO `json:"equipment"`
	EquipmentCategory  string            `json:"equipment_category"`
	MaintenanceTeam    ShortTeamDTO      `json:"maintenance_team"`
	RequestType        string            `json:"request_type"`
	Stage              string            `json:"stage"`
	Priority           string            `json:"priority"`
	ScheduledDate      null.Time         `json:"scheduled_date"`
	AssignedTechnician *ShortUserDTO     `json:"assigned_technician,omitempty"`
	DurationHours      null.Float64      `json:"duration_hours"`
	ResolutionNotes    null.String       `json:"resolution_notes"`
	CreatedBy          ShortUserDTO      `json:"created_by"`
	IsOverdue          bool              `json:"is_overdue"`
	CreatedAt          string            `json:"created_at"`
	UpdatedAt          string            `json:"updated_at"`
}

// CreateRequestDTO carries no field rules beyond the equipment reference:
// the service validates subject, description, type, priority and the
// preventive schedule together, so one error lists every violation.
type CreateRequestDTO struct {
	Subject              string      `json:"subject"`
	Description          string      `json:"description"`
	EquipmentID          uint64      `json:"equipment_id" validate:"required,gt=0"`
	RequestType          string      `json:"request_type"`
	Priority             string      `json:"priority"`
	ScheduledDate        null.Time   `json:"scheduled_date"`
	AssignedTechnicianID null.Uint64 `json:"assigned_technician_id"`
}

type UpdateStageDTO struct {
	Stage string `json:"stage" validate:"required,stage"`

	// Scrap deactivates the equipment; the client must send an explicit
	// confirmation flag for it.
	Confirmed bool `json:"confirmed"`
}

type AssignTechnicianDTO struct {
	TechnicianID uint64 `json:"technician_id" validate:"required,gt=0"`
}

type UpdateResolutionDTO struct {
	DurationHours   null.Float64 `json:"duration_hours" validate:"omitempty,gte=0"`
	ResolutionNotes null.String  `json:"resolution_notes"`
}

// RequestListFilter is the typed subset of list filters the repository
// accepts for maintenance requests.
type RequestListFilter struct {
	Stage        string
	Priority     string
	RequestType  string
	EquipmentID  uint64
	TechnicianID uint64
	OverdueOnly  bool
}
