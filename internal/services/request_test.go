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
	"gearguard/internal/workflow"
	"gearguard/pkg/apperrors"
	"gearguard/pkg/constants"
)

const (
	adminID      = 1
	managerID    = 2
	technicianID = 3
	outsiderID   = 4
	requesterID  = 5
)

func testUsers() []*entities.User {
	return []*entities.User{
		{ID: adminID, FullName: "Admin", Role: constants.RoleAdmin},
		{ID: managerID, FullName: "Manager", Role: constants.RoleManager},
		{ID: technicianID, FullName: "Technician", Role: constants.RoleTechnician, TeamID: null.Uint64From(1)},
		{ID: outsiderID, FullName: "Other Technician", Role: constants.RoleTechnician, TeamID: null.Uint64From(2)},
		{ID: requesterID, FullName: "Requester", Role: constants.RoleUser},
	}
}

func testEquipment() *entities.Equipment {
	return &entities.Equipment{
		ID:                  10,
		Name:                "CNC Lathe",
		SerialNumber:        "CNC-001",
		Category:            "machining",
		OwnershipType:       constants.OwnershipDepartment,
		Department:          null.StringFrom("Production"),
		MaintenanceTeamID:   1,
		DefaultTechnicianID: technicianID,
		IsActive:            true,
	}
}

func testRequest(stage workflow.Stage) *entities.MaintenanceRequest {
	return &entities.MaintenanceRequest{
		ID:                   42,
		Subject:              "Spindle vibrates",
		Description:          "Vibration above tolerance at high rpm",
		EquipmentID:          10,
		EquipmentCategory:    "machining",
		MaintenanceTeamID:    1,
		RequestType:          constants.RequestTypeCorrective,
		Stage:                stage,
		Priority:             constants.PriorityHigh,
		AssignedTechnicianID: null.Uint64From(technicianID),
		CreatedByID:          requesterID,
	}
}

type requestFixture struct {
	svc       *RequestService
	users     *fakeUserRepo
	equipment *fakeEquipmentRepo
	requests  *fakeRequestRepo
	audit     *fakeAudit
	cache     *fakeCache
}

func newRequestFixture(requests ...*entities.MaintenanceRequest) *requestFixture {
	f := &requestFixture{
		users:     newFakeUserRepo(testUsers()...),
		equipment: newFakeEquipmentRepo(testEquipment()),
		requests:  newFakeRequestRepo(requests...),
		audit:     &fakeAudit{},
		cache:     newFakeCache(),
	}
	f.svc = NewRequestService(f.requests, f.equipment, f.users, &fakeTxManager{}, f.cache, NewAccessPolicy(), f.audit, zap.NewNop())
	return f
}

func TestCreateRequestSnapshotsEquipment(t *testing.T) {
	f := newRequestFixture()

	res, err := f.svc.CreateRequest(context.Background(), dto.CreateRequestDTO{
		Subject:     "Coolant leak",
		Description: "Coolant pooling under the machine",
		EquipmentID: 10,
		RequestType: constants.RequestTypeCorrective,
		Priority:    constants.PriorityMedium,
	}, requesterID)
	require.NoError(t, err)

	stored := f.requests.requests[res.ID]
	require.NotNil(t, stored)
	assert.Equal(t, workflow.StageNew, stored.Stage)
	assert.Equal(t, "machining", stored.EquipmentCategory)
	assert.Equal(t, uint64(1), stored.MaintenanceTeamID)
	assert.Equal(t, uint64(requesterID), stored.CreatedByID)

	// No technician given, so the equipment's default one is used.
	require.True(t, stored.AssignedTechnicianID.Valid)
	assert.Equal(t, uint64(technicianID), stored.AssignedTechnicianID.Uint64)

	assert.Equal(t, []string{constants.AuditActionCreate}, f.audit.actions())
}

func TestCreateRequestKeepsExplicitTechnician(t *testing.T) {
	f := newRequestFixture()

	res, err := f.svc.CreateRequest(context.Background(), dto.CreateRequestDTO{
		Subject:              "Belt worn",
		Description:          "Drive belt shows cracking",
		EquipmentID:          10,
		RequestType:          constants.RequestTypeCorrective,
		Priority:             constants.PriorityLow,
		AssignedTechnicianID: null.Uint64From(outsiderID),
	}, requesterID)
	require.NoError(t, err)

	stored := f.requests.requests[res.ID]
	assert.Equal(t, uint64(outsiderID), stored.AssignedTechnicianID.Uint64)
}

func TestCreateRequestRejectsInactiveEquipment(t *testing.T) {
	f := newRequestFixture()
	f.equipment.equipments[10].IsActive = false

	_, err := f.svc.CreateRequest(context.Background(), dto.CreateRequestDTO{
		Subject:     "Anything",
		Description: "Anything",
		EquipmentID: 10,
		RequestType: constants.RequestTypeCorrective,
		Priority:    constants.PriorityLow,
	}, requesterID)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 409, appErr.Code)
	assert.Empty(t, f.audit.calls)
}

func TestCreateRequestPreventiveNeedsSchedule(t *testing.T) {
	f := newRequestFixture()

	_, err := f.svc.CreateRequest(context.Background(), dto.CreateRequestDTO{
		Subject:     "Quarterly inspection",
		Description: "Routine check",
		EquipmentID: 10,
		RequestType: constants.RequestTypePreventive,
		Priority:    constants.PriorityLow,
	}, requesterID)

	var valErr *apperrors.ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Contains(t, valErr.Fields, "scheduled_date")
}

// A payload breaking several rules at once gets one error naming all of
// them, not just the first.
func TestCreateRequestListsAllViolations(t *testing.T) {
	f := newRequestFixture()

	_, err := f.svc.CreateRequest(context.Background(), dto.CreateRequestDTO{
		EquipmentID: 10,
		RequestType: constants.RequestTypePreventive,
	}, requesterID)

	var valErr *apperrors.ValidationError
	require.ErrorAs(t, err, &valErr)
	for _, field := range []string{"subject", "description", "priority", "scheduled_date"} {
		assert.Contains(t, valErr.Fields, field)
	}
	assert.NotContains(t, valErr.Fields, "request_type")
}

func TestUpdateStageForward(t *testing.T) {
	f := newRequestFixture(testRequest(workflow.StageNew))

	res, err := f.svc.UpdateStage(context.Background(), 42, dto.UpdateStageDTO{Stage: "in_progress"}, technicianID)
	require.NoError(t, err)

	assert.Equal(t, "in_progress", res.Stage)
	assert.Equal(t, workflow.StageInProgress, f.requests.requests[42].Stage)
	assert.Equal(t, []string{constants.AuditActionStageChange}, f.audit.actions())
}

func TestUpdateStageSameStageIsNoOp(t *testing.T) {
	f := newRequestFixture(testRequest(workflow.StageInProgress))

	res, err := f.svc.UpdateStage(context.Background(), 42, dto.UpdateStageDTO{Stage: "in_progress"}, managerID)
	require.NoError(t, err)

	assert.Equal(t, "in_progress", res.Stage)
	assert.Empty(t, f.audit.calls, "a no-op must not be audited")
}

func TestUpdateStageRejectsSkips(t *testing.T) {
	f := newRequestFixture(testRequest(workflow.StageNew))

	_, err := f.svc.UpdateStage(context.Background(), 42, dto.UpdateStageDTO{Stage: "repaired"}, managerID)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 409, appErr.Code)
	assert.Equal(t, workflow.StageNew, f.requests.requests[42].Stage)
}

func TestUpdateStageRejectsReopening(t *testing.T) {
	for _, stage := range []workflow.Stage{workflow.StageRepaired, workflow.StageScrap} {
		f := newRequestFixture(testRequest(stage))

		_, err := f.svc.UpdateStage(context.Background(), 42, dto.UpdateStageDTO{Stage: "new"}, adminID)

		var appErr *apperrors.AppError
		require.ErrorAs(t, err, &appErr, "from %s", stage)
		assert.Equal(t, 409, appErr.Code)
	}
}

func TestUpdateStageForbiddenForRequester(t *testing.T) {
	f := newRequestFixture(testRequest(workflow.StageNew))

	_, err := f.svc.UpdateStage(context.Background(), 42, dto.UpdateStageDTO{Stage: "in_progress"}, requesterID)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 403, appErr.Code)
}

func TestUpdateStageForbiddenForForeignTechnician(t *testing.T) {
	f := newRequestFixture(testRequest(workflow.StageNew))

	// Different team and not assigned.
	_, err := f.svc.UpdateStage(context.Background(), 42, dto.UpdateStageDTO{Stage: "in_progress"}, outsiderID)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 403, appErr.Code)
}

func TestScrapNeedsConfirmation(t *testing.T) {
	f := newRequestFixture(testRequest(workflow.StageNew))

	_, err := f.svc.UpdateStage(context.Background(), 42, dto.UpdateStageDTO{Stage: "scrap"}, managerID)

	var valErr *apperrors.ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Contains(t, valErr.Fields, "confirmed")
	assert.True(t, f.equipment.equipments[10].IsActive)
}

func TestScrapDeactivatesEquipment(t *testing.T) {
	f := newRequestFixture(testRequest(workflow.StageInProgress))

	res, err := f.svc.UpdateStage(context.Background(), 42, dto.UpdateStageDTO{Stage: "scrap", Confirmed: true}, managerID)
	require.NoError(t, err)

	assert.Equal(t, "scrap", res.Stage)
	assert.Equal(t, workflow.StageScrap, f.requests.requests[42].Stage)
	assert.False(t, f.equipment.equipments[10].IsActive, "scrap must deactivate the equipment")
	assert.Equal(t, []string{constants.AuditActionEquipmentScrap, constants.AuditActionStageChange}, f.audit.actions())
}

// A cached auto-fill bundle must not survive the scrap: the next lookup has
// to see the deactivated equipment, not the bundle.
func TestScrapInvalidatesAutoFillCache(t *testing.T) {
	f := newRequestFixture(testRequest(workflow.StageInProgress))
	teams := newFakeTeamRepo(&entities.MaintenanceTeam{ID: 1, Name: "Mechanics"})
	equipmentSvc := NewEquipmentService(f.equipment, teams, f.users, f.cache, 10*time.Minute, zap.NewNop())

	_, err := equipmentSvc.GetAutoFill(context.Background(), 10)
	require.NoError(t, err)
	require.Contains(t, f.cache.values, "equipment:autofill:10")

	_, err = f.svc.UpdateStage(context.Background(), 42, dto.UpdateStageDTO{Stage: "scrap", Confirmed: true}, managerID)
	require.NoError(t, err)

	assert.NotContains(t, f.cache.values, "equipment:autofill:10")

	_, err = equipmentSvc.GetAutoFill(context.Background(), 10)
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 409, appErr.Code)
}

func TestScrapCascadeRetriesTransientFailures(t *testing.T) {
	f := newRequestFixture(testRequest(workflow.StageNew))
	f.equipment.deactivateFailures = 2

	_, err := f.svc.UpdateStage(context.Background(), 42, dto.UpdateStageDTO{Stage: "scrap", Confirmed: true}, adminID)
	require.NoError(t, err)

	assert.Equal(t, 3, f.equipment.deactivateCalls)
	assert.Equal(t, workflow.StageScrap, f.requests.requests[42].Stage)
	assert.False(t, f.equipment.equipments[10].IsActive)
}

func TestScrapCascadeGivesUpAfterBoundedRetries(t *testing.T) {
	f := newRequestFixture(testRequest(workflow.StageNew))
	f.equipment.deactivateFailures = 10

	_, err := f.svc.UpdateStage(context.Background(), 42, dto.UpdateStageDTO{Stage: "scrap", Confirmed: true}, adminID)

	var cascadeErr *apperrors.CascadeError
	require.ErrorAs(t, err, &cascadeErr)
	assert.Equal(t, uint64(42), cascadeErr.RequestID)
	assert.Equal(t, uint64(10), cascadeErr.EquipmentID)

	assert.Equal(t, scrapCascadeAttempts, f.equipment.deactivateCalls)
	assert.Equal(t, workflow.StageNew, f.requests.requests[42].Stage, "stage must not move when the cascade fails")
	assert.True(t, f.equipment.equipments[10].IsActive)
	assert.Empty(t, f.audit.calls)
}

func TestAssignTechnician(t *testing.T) {
	f := newRequestFixture(testRequest(workflow.StageNew))

	res, err := f.svc.AssignTechnician(context.Background(), 42, dto.AssignTechnicianDTO{TechnicianID: outsiderID}, managerID)
	require.NoError(t, err)
	require.NotNil(t, res)

	assert.Equal(t, uint64(outsiderID), f.requests.requests[42].AssignedTechnicianID.Uint64)
	assert.Equal(t, []string{constants.AuditActionAssignTechnician}, f.audit.actions())
}

func TestAssignTechnicianForbiddenForTechnician(t *testing.T) {
	f := newRequestFixture(testRequest(workflow.StageNew))

	_, err := f.svc.AssignTechnician(context.Background(), 42, dto.AssignTechnicianDTO{TechnicianID: outsiderID}, technicianID)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 403, appErr.Code)
}

func TestAssignTechnicianOnClosedRequest(t *testing.T) {
	f := newRequestFixture(testRequest(workflow.StageRepaired))

	_, err := f.svc.AssignTechnician(context.Background(), 42, dto.AssignTechnicianDTO{TechnicianID: outsiderID}, managerID)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 409, appErr.Code)
}

func TestUpdateResolution(t *testing.T) {
	f := newRequestFixture(testRequest(workflow.StageInProgress))

	_, err := f.svc.UpdateResolution(context.Background(), 42, dto.UpdateResolutionDTO{
		DurationHours:   null.Float64From(3.5),
		ResolutionNotes: null.StringFrom("replaced spindle bearings"),
	}, technicianID)
	require.NoError(t, err)

	stored := f.requests.requests[42]
	assert.Equal(t, 3.5, stored.DurationHours.Float64)
	assert.Equal(t, "replaced spindle bearings", stored.ResolutionNotes.String)
	assert.Equal(t, []string{constants.AuditActionUpdateResolution}, f.audit.actions())
}

func TestUpdateResolutionForbiddenForRequester(t *testing.T) {
	f := newRequestFixture(testRequest(workflow.StageInProgress))

	_, err := f.svc.UpdateResolution(context.Background(), 42, dto.UpdateResolutionDTO{
		ResolutionNotes: null.StringFrom("tried turning it off and on"),
	}, requesterID)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 403, appErr.Code)
}

func TestDeleteRequestManagerOnly(t *testing.T) {
	f := newRequestFixture(testRequest(workflow.StageNew))

	err := f.svc.DeleteRequest(context.Background(), 42, technicianID)
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 403, appErr.Code)

	require.NoError(t, f.svc.DeleteRequest(context.Background(), 42, managerID))
	assert.NotContains(t, f.requests.requests, uint64(42))
}

func TestGetOverdueDerivedFromScheduleAndStage(t *testing.T) {
	yesterday := time.Now().AddDate(0, 0, -1)
	tomorrow := time.Now().AddDate(0, 0, 1)

	late := testRequest(workflow.StageNew)
	late.ID = 1
	late.ScheduledDate = null.TimeFrom(yesterday)

	lateButRepaired := testRequest(workflow.StageRepaired)
	lateButRepaired.ID = 2
	lateButRepaired.ScheduledDate = null.TimeFrom(yesterday)

	upcoming := testRequest(workflow.StageNew)
	upcoming.ID = 3
	upcoming.ScheduledDate = null.TimeFrom(tomorrow)

	f := newRequestFixture(late, lateButRepaired, upcoming)

	overdue, err := f.svc.GetOverdue(context.Background(), managerID)
	require.NoError(t, err)

	require.Len(t, overdue, 1)
	assert.Equal(t, uint64(1), overdue[0].ID)
}

func TestGetRequestForbiddenOutsideScope(t *testing.T) {
	f := newRequestFixture(testRequest(workflow.StageNew))

	_, err := f.svc.GetRequest(context.Background(), 42, outsiderID)
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 403, appErr.Code)

	res, err := f.svc.GetRequest(context.Background(), 42, requesterID)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), res.ID)
}
