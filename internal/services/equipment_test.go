package services

import (
	"context"
	"testing"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"gearguard/internal/dto"
	"gearguard/internal/entities"
	"gearguard/pkg/apperrors"
	"gearguard/pkg/constants"
)

type equipmentFixture struct {
	svc       *EquipmentService
	equipment *fakeEquipmentRepo
	teams     *fakeTeamRepo
	users     *fakeUserRepo
	cache     *fakeCache
}

type fakeTeamRepo struct {
	teams map[uint64]*entities.MaintenanceTeam
}

func newFakeTeamRepo(teams ...*entities.MaintenanceTeam) *fakeTeamRepo {
	r := &fakeTeamRepo{teams: make(map[uint64]*entities.MaintenanceTeam)}
	for _, t := range teams {
		r.teams[t.ID] = t
	}
	return r
}

func (r *fakeTeamRepo) FindByID(_ context.Context, id uint64) (*entities.MaintenanceTeam, error) {
	t, ok := r.teams[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("maintenance team")
	}
	copied := *t
	return &copied, nil
}

func (r *fakeTeamRepo) GetTeams(_ context.Context, _, _ uint64) ([]entities.MaintenanceTeam, uint64, error) {
	out := make([]entities.MaintenanceTeam, 0, len(r.teams))
	for _, t := range r.teams {
		out = append(out, *t)
	}
	return out, uint64(len(out)), nil
}

func (r *fakeTeamRepo) CreateTeam(_ context.Context, team *entities.MaintenanceTeam) (uint64, error) {
	id := uint64(len(r.teams) + 1)
	team.ID = id
	copied := *team
	r.teams[id] = &copied
	return id, nil
}

func (r *fakeTeamRepo) UpdateTeam(_ context.Context, team *entities.MaintenanceTeam) error {
	if _, ok := r.teams[team.ID]; !ok {
		return apperrors.NewNotFoundError("maintenance team")
	}
	copied := *team
	r.teams[team.ID] = &copied
	return nil
}

func (r *fakeTeamRepo) DeleteTeam(_ context.Context, id uint64) error {
	if _, ok := r.teams[id]; !ok {
		return apperrors.NewNotFoundError("maintenance team")
	}
	delete(r.teams, id)
	return nil
}

func (r *fakeTeamRepo) GetMemberIDs(_ context.Context, _ uint64) ([]uint64, error) {
	return nil, nil
}

func (r *fakeTeamRepo) ReplaceMembers(_ context.Context, _ uint64, _ []uint64) error {
	return nil
}

func newEquipmentFixture() *equipmentFixture {
	f := &equipmentFixture{
		equipment: newFakeEquipmentRepo(testEquipment()),
		teams:     newFakeTeamRepo(&entities.MaintenanceTeam{ID: 1, Name: "Mechanics", Specialization: "mechanical"}),
		users:     newFakeUserRepo(testUsers()...),
		cache:     newFakeCache(),
	}
	f.svc = NewEquipmentService(f.equipment, f.teams, f.users, f.cache, 10*time.Minute, zap.NewNop())
	return f
}

func TestGetAutoFillBundlesEquipmentDefaults(t *testing.T) {
	f := newEquipmentFixture()

	bundle, err := f.svc.GetAutoFill(context.Background(), 10)
	require.NoError(t, err)

	assert.Equal(t, "machining", bundle.Category)
	assert.Equal(t, uint64(1), bundle.Team.ID)
	assert.Equal(t, "Mechanics", bundle.Team.Name)
	assert.Equal(t, uint64(technicianID), bundle.DefaultTechnician.ID)

	assert.Contains(t, f.cache.values, "equipment:autofill:10")
}

func TestGetAutoFillServedFromCache(t *testing.T) {
	f := newEquipmentFixture()

	_, err := f.svc.GetAutoFill(context.Background(), 10)
	require.NoError(t, err)

	// Change the underlying equipment: the cached bundle still wins until
	// an update invalidates it.
	f.equipment.equipments[10].Category = "welding"

	bundle, err := f.svc.GetAutoFill(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, "machining", bundle.Category)
}

func TestGetAutoFillRejectsInactiveEquipment(t *testing.T) {
	f := newEquipmentFixture()
	f.equipment.equipments[10].IsActive = false

	_, err := f.svc.GetAutoFill(context.Background(), 10)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 409, appErr.Code)
}

func TestUpdateEquipmentInvalidatesAutoFillCache(t *testing.T) {
	f := newEquipmentFixture()

	_, err := f.svc.GetAutoFill(context.Background(), 10)
	require.NoError(t, err)
	require.Contains(t, f.cache.values, "equipment:autofill:10")

	_, err = f.svc.UpdateEquipment(context.Background(), 10, dto.UpdateEquipmentDTO{
		Category: null.StringFrom("welding"),
	}, adminID)
	require.NoError(t, err)

	assert.NotContains(t, f.cache.values, "equipment:autofill:10")

	bundle, err := f.svc.GetAutoFill(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, "welding", bundle.Category)
}

func TestCreateEquipmentOwnershipInvariant(t *testing.T) {
	f := newEquipmentFixture()

	cases := []struct {
		name       string
		payload    dto.CreateEquipmentDTO
		wantFields []string
	}{
		{
			name: "department ownership without department",
			payload: dto.CreateEquipmentDTO{
				Name: "Press", SerialNumber: "PR-001", Category: "forming",
				OwnershipType:       constants.OwnershipDepartment,
				MaintenanceTeamID:   1,
				DefaultTechnicianID: technicianID,
			},
			wantFields: []string{"department"},
		},
		{
			name: "department ownership with employee set",
			payload: dto.CreateEquipmentDTO{
				Name: "Press", SerialNumber: "PR-002", Category: "forming",
				OwnershipType:       constants.OwnershipDepartment,
				Department:          null.StringFrom("Production"),
				AssignedEmployeeID:  null.Uint64From(requesterID),
				MaintenanceTeamID:   1,
				DefaultTechnicianID: technicianID,
			},
			wantFields: []string{"assigned_employee_id"},
		},
		{
			name: "employee ownership without employee",
			payload: dto.CreateEquipmentDTO{
				Name: "Laptop", SerialNumber: "LT-001", Category: "it",
				OwnershipType:       constants.OwnershipEmployee,
				MaintenanceTeamID:   1,
				DefaultTechnicianID: technicianID,
			},
			wantFields: []string{"assigned_employee_id"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.CreateEquipment(context.Background(), tc.payload, adminID)

			var valErr *apperrors.ValidationError
			require.ErrorAs(t, err, &valErr)
			for _, field := range tc.wantFields {
				assert.Contains(t, valErr.Fields, field)
			}
		})
	}
}

func TestCreateEquipmentEmployeeOwned(t *testing.T) {
	f := newEquipmentFixture()

	res, err := f.svc.CreateEquipment(context.Background(), dto.CreateEquipmentDTO{
		Name:                "Laptop",
		SerialNumber:        "LT-002",
		Category:            "it",
		OwnershipType:       constants.OwnershipEmployee,
		AssignedEmployeeID:  null.Uint64From(requesterID),
		MaintenanceTeamID:   1,
		DefaultTechnicianID: technicianID,
	}, adminID)
	require.NoError(t, err)

	stored := f.equipment.equipments[res.ID]
	assert.True(t, stored.IsActive)
	assert.Equal(t, uint64(requesterID), stored.AssignedEmployeeID.Uint64)
	assert.False(t, stored.Department.Valid)
}

func TestUpdateEquipmentSwitchingOwnershipResetsOtherSide(t *testing.T) {
	f := newEquipmentFixture()

	_, err := f.svc.UpdateEquipment(context.Background(), 10, dto.UpdateEquipmentDTO{
		OwnershipType:      null.StringFrom(constants.OwnershipEmployee),
		AssignedEmployeeID: null.Uint64From(requesterID),
	}, adminID)
	require.NoError(t, err)

	stored := f.equipment.equipments[10]
	assert.Equal(t, constants.OwnershipEmployee, stored.OwnershipType)
	assert.False(t, stored.Department.Valid, "department must be cleared on ownership switch")
	assert.Equal(t, uint64(requesterID), stored.AssignedEmployeeID.Uint64)
}
