package services

import (
	sq "github.com/Masterminds/squirrel"

	"gearguard/internal/entities"
	"gearguard/pkg/constants"
)

// AccessPolicy decides which maintenance requests an actor may see and act
// on. The same policy feeds list queries (as a squirrel condition), the
// single-record fetch, and the dashboard, so visibility cannot drift between
// entry points.
type AccessPolicy struct{}

func NewAccessPolicy() *AccessPolicy {
	return &AccessPolicy{}
}

// ScopeCondition returns the SQL visibility condition for the actor, or nil
// when the actor sees everything.
func (p *AccessPolicy) ScopeCondition(actor *entities.User) sq.Sqlizer {
	switch actor.Role {
	case constants.RoleAdmin, constants.RoleManager:
		return nil
	case constants.RoleTechnician:
		cond := sq.Or{sq.Eq{"r.assigned_technician_id": actor.ID}}
		if actor.TeamID.Valid {
			cond = append(cond, sq.Eq{"r.maintenance_team_id": actor.TeamID.Uint64})
		}
		return cond
	case constants.RoleUser:
		return sq.Eq{"r.created_by_id": actor.ID}
	default:
		// Unknown role sees nothing.
		return sq.Eq{"r.id": nil}
	}
}

// CanView mirrors ScopeCondition for a single loaded request.
func (p *AccessPolicy) CanView(actor *entities.User, req *entities.MaintenanceRequest) bool {
	switch actor.Role {
	case constants.RoleAdmin, constants.RoleManager:
		return true
	case constants.RoleTechnician:
		if req.AssignedTechnicianID.Valid && req.AssignedTechnicianID.Uint64 == actor.ID {
			return true
		}
		return actor.TeamID.Valid && actor.TeamID.Uint64 == req.MaintenanceTeamID
	case constants.RoleUser:
		return req.CreatedByID == actor.ID
	default:
		return false
	}
}

// CanTransition is the role gate for stage changes: admin, manager, or the
// request's assigned technician.
func (p *AccessPolicy) CanTransition(actor *entities.User, req *entities.MaintenanceRequest) bool {
	switch actor.Role {
	case constants.RoleAdmin, constants.RoleManager:
		return true
	case constants.RoleTechnician:
		return req.AssignedTechnicianID.Valid && req.AssignedTechnicianID.Uint64 == actor.ID
	case constants.RoleUser:
		return false
	default:
		return false
	}
}

// CanEditResolution matches CanTransition: the people closing out the work.
func (p *AccessPolicy) CanEditResolution(actor *entities.User, req *entities.MaintenanceRequest) bool {
	return p.CanTransition(actor, req)
}

// CanManage gates destructive and administrative operations.
func (p *AccessPolicy) CanManage(actor *entities.User) bool {
	return actor.Role.IsElevated()
}
