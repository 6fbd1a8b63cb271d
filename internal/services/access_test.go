package services

import (
	"testing"

	sq "github.com/Masterminds/squirrel"
	"github.com/aarondl/null/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gearguard/internal/entities"
	"gearguard/internal/workflow"
	"gearguard/pkg/constants"
)

func TestScopeConditionByRole(t *testing.T) {
	p := NewAccessPolicy()

	admin := &entities.User{ID: 1, Role: constants.RoleAdmin}
	manager := &entities.User{ID: 2, Role: constants.RoleManager}
	assert.Nil(t, p.ScopeCondition(admin))
	assert.Nil(t, p.ScopeCondition(manager))

	technician := &entities.User{ID: 3, Role: constants.RoleTechnician, TeamID: null.Uint64From(7)}
	cond := p.ScopeCondition(technician)
	require.NotNil(t, cond)
	sql, args, err := cond.ToSql()
	require.NoError(t, err)
	assert.Contains(t, sql, "assigned_technician_id")
	assert.Contains(t, sql, "maintenance_team_id")
	assert.ElementsMatch(t, []interface{}{uint64(3), uint64(7)}, args)

	requester := &entities.User{ID: 5, Role: constants.RoleUser}
	cond = p.ScopeCondition(requester)
	require.NotNil(t, cond)
	sql, args, err = cond.ToSql()
	require.NoError(t, err)
	assert.Contains(t, sql, "created_by_id")
	assert.Equal(t, []interface{}{uint64(5)}, args)
}

func TestScopeConditionUnknownRoleSeesNothing(t *testing.T) {
	p := NewAccessPolicy()
	cond := p.ScopeCondition(&entities.User{ID: 9, Role: constants.Role("intern")})
	require.NotNil(t, cond)

	// An impossible condition, not an open one.
	assert.Equal(t, sq.Eq{"r.id": nil}, cond)
}

func TestCanViewMatchesScope(t *testing.T) {
	p := NewAccessPolicy()

	req := &entities.MaintenanceRequest{
		ID:                   1,
		MaintenanceTeamID:    7,
		AssignedTechnicianID: null.Uint64From(3),
		CreatedByID:          5,
		Stage:                workflow.StageNew,
	}

	assert.True(t, p.CanView(&entities.User{ID: 1, Role: constants.RoleAdmin}, req))
	assert.True(t, p.CanView(&entities.User{ID: 2, Role: constants.RoleManager}, req))
	assert.True(t, p.CanView(&entities.User{ID: 3, Role: constants.RoleTechnician}, req), "assigned technician")
	assert.True(t, p.CanView(&entities.User{ID: 4, Role: constants.RoleTechnician, TeamID: null.Uint64From(7)}, req), "teammate")
	assert.False(t, p.CanView(&entities.User{ID: 4, Role: constants.RoleTechnician, TeamID: null.Uint64From(8)}, req), "other team")
	assert.True(t, p.CanView(&entities.User{ID: 5, Role: constants.RoleUser}, req), "creator")
	assert.False(t, p.CanView(&entities.User{ID: 6, Role: constants.RoleUser}, req), "stranger")
}

func TestCanTransition(t *testing.T) {
	p := NewAccessPolicy()

	req := &entities.MaintenanceRequest{
		ID:                   1,
		MaintenanceTeamID:    7,
		AssignedTechnicianID: null.Uint64From(3),
		CreatedByID:          5,
	}

	assert.True(t, p.CanTransition(&entities.User{ID: 1, Role: constants.RoleAdmin}, req))
	assert.True(t, p.CanTransition(&entities.User{ID: 2, Role: constants.RoleManager}, req))
	assert.True(t, p.CanTransition(&entities.User{ID: 3, Role: constants.RoleTechnician}, req))

	// A teammate can view but not transition.
	teammate := &entities.User{ID: 4, Role: constants.RoleTechnician, TeamID: null.Uint64From(7)}
	assert.True(t, p.CanView(teammate, req))
	assert.False(t, p.CanTransition(teammate, req))

	assert.False(t, p.CanTransition(&entities.User{ID: 5, Role: constants.RoleUser}, req), "creator cannot move stages")
}

func TestCanManage(t *testing.T) {
	p := NewAccessPolicy()

	assert.True(t, p.CanManage(&entities.User{Role: constants.RoleAdmin}))
	assert.True(t, p.CanManage(&entities.User{Role: constants.RoleManager}))
	assert.False(t, p.CanManage(&entities.User{Role: constants.RoleTechnician}))
	assert.False(t, p.CanManage(&entities.User{Role: constants.RoleUser}))
}
