package dto

import "github.com/aarondl/null/v8"

type TeamDTO struct {
	ID             uint64         `json:"id"`
	Name           string         `json:"name"`
	Specialization string         `json:"specialization"`
	TeamLead       *ShortUserDTO  `json:"team_lead,omitempty"`
	Members        []ShortUserDTO `json:"members,omitempty"`
}

type CreateTeamDTO struct {
	Name           string      `json:"name" validate:"required"`
	Specialization string      `json:"specialization" validate:"required"`
	TeamLeadID     null.Uint64 `json:"team_lead_id" validate:"omitempty,gt=0"`
	MemberIDs      []uint64    `json:"member_ids" validate:"omitempty,dive,gt=0"`
}

type UpdateTeamDTO struct {
	Name           null.String `json:"name" validate:"omitempty"`
	Specialization null.String `json:"specialization" validate:"omitempty"`
	TeamLeadID     null.Uint64 `json:"team_lead_id" validate:"omitempty,gt=0"`
	MemberIDs      []uint64    `json:"member_ids" validate:"omitempty,dive,gt=0"`
}
