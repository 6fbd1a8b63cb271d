package entities

import (
	"github.com/aarondl/null/v8"

	"gearguard/pkg/types"
)

type MaintenanceTeam struct {
	ID             uint64      `json:"id" db:"id"`
	Name           string      `json:"name" db:"name"`
	Specialization string      `json:"specialization" db:"specialization"`
	TeamLeadID     null.Uint64 `json:"team_lead_id" db:"team_lead_id"`

	types.BaseEntity

	// Resolved relations, not table columns.
	MemberIDs []uint64 `json:"member_ids,omitempty" db:"-"`
}
