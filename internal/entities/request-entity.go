package entities

import (
	"time"

	"github.com/aarondl/null/v8"

	"gearguard/internal/workflow"
	"gearguard/pkg/types"
)

type MaintenanceRequest struct {
	ID          uint64 `json:"id" db:"id"`
	Subject     string `json:"subject" db:"subject"`
	Description string `json:"description" db:"description"`

	EquipmentID uint64 `json:"equipment_id" db:"equipment_id"`

	// Snapshots taken from the equipment at creation time. Never re-synced.
	EquipmentCategory string `json:"equipment_category" db:"equipment_category"`
	MaintenanceTeamID uint64 `json:"maintenance_team_id" db:"maintenance_team_id"`

	RequestType string         `json:"request_type" db:"request_type"`
	Stage       workflow.Stage `json:"stage" db:"stage"`
	Priority    string         `json:"priority" db:"priority"`

	ScheduledDate        null.Time    `json:"scheduled_date" db:"scheduled_date"`
	AssignedTechnicianID null.Uint64  `json:"assigned_technician_id" db:"assigned_technician_id"`
	DurationHours        null.Float64 `json:"duration_hours" db:"duration_hours"`
	ResolutionNotes      null.String  `json:"resolution_notes" db:"resolution_notes"`

	CreatedByID uint64 `json:"created_by_id" db:"created_by_id"`

	types.BaseEntity
}

// IsOverdue is derived, never stored: the scheduled date has passed and the
// request has not reached a terminal-side stage.
func (r *MaintenanceRequest) IsOverdue(now time.Time) bool {
	if !r.ScheduledDate.Valid {
		return false
	}
	if r.Stage == workflow.StageRepaired || r.Stage == workflow.StageScrap {
		return false
	}
	return r.ScheduledDate.Time.Before(now.Truncate(24 * time.Hour))
}
