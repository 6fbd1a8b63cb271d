package services

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"gearguard/internal/dto"
	"gearguard/internal/entities"
	"gearguard/internal/workflow"
	"gearguard/pkg/apperrors"
	"gearguard/pkg/types"
)

// In-memory fakes for the repository interfaces. They return copies so a
// test can compare before/after state without aliasing surprises.

type fakeUserRepo struct {
	users map[uint64]*entities.User
}

func newFakeUserRepo(users ...*entities.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[uint64]*entities.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uint64) (*entities.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("user")
	}
	copied := *u
	return &copied, nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*entities.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, apperrors.NewNotFoundError("user")
}

func (r *fakeUserRepo) GetUsers(_ context.Context, _, _ uint64) ([]entities.User, uint64, error) {
	out := make([]entities.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, uint64(len(out)), nil
}

func (r *fakeUserRepo) CreateUser(_ context.Context, user *entities.User) (uint64, error) {
	id := uint64(len(r.users) + 1)
	user.ID = id
	copied := *user
	r.users[id] = &copied
	return id, nil
}

func (r *fakeUserRepo) UpdateUser(_ context.Context, user *entities.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return apperrors.NewNotFoundError("user")
	}
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) DeleteUser(_ context.Context, id uint64) error {
	if _, ok := r.users[id]; !ok {
		return apperrors.NewNotFoundError("user")
	}
	delete(r.users, id)
	return nil
}

type fakeEquipmentRepo struct {
	equipments map[uint64]*entities.Equipment

	// deactivateFailures makes DeactivateInTx fail that many times before
	// succeeding.
	deactivateFailures int
	deactivateCalls    int
}

func newFakeEquipmentRepo(equipments ...*entities.Equipment) *fakeEquipmentRepo {
	r := &fakeEquipmentRepo{equipments: make(map[uint64]*entities.Equipment)}
	for _, e := range equipments {
		r.equipments[e.ID] = e
	}
	return r
}

func (r *fakeEquipmentRepo) FindByID(_ context.Context, id uint64) (*entities.Equipment, error) {
	e, ok := r.equipments[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("equipment")
	}
	copied := *e
	return &copied, nil
}

func (r *fakeEquipmentRepo) FindEquipment(_ context.Context, id uint64) (*dto.EquipmentDTO, error) {
	e, ok := r.equipments[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("equipment")
	}
	return &dto.EquipmentDTO{
		ID:           e.ID,
		Name:         e.Name,
		SerialNumber: e.SerialNumber,
		Category:     e.Category,
		IsActive:     e.IsActive,
	}, nil
}

func (r *fakeEquipmentRepo) GetEquipments(_ context.Context, _ types.Filter) ([]dto.EquipmentDTO, uint64, error) {
	out := make([]dto.EquipmentDTO, 0, len(r.equipments))
	for id := range r.equipments {
		d, _ := r.FindEquipment(context.Background(), id)
		out = append(out, *d)
	}
	return out, uint64(len(out)), nil
}

func (r *fakeEquipmentRepo) CreateEquipment(_ context.Context, e *entities.Equipment) (uint64, error) {
	id := uint64(len(r.equipments) + 1)
	e.ID = id
	copied := *e
	r.equipments[id] = &copied
	return id, nil
}

func (r *fakeEquipmentRepo) UpdateEquipment(_ context.Context, e *entities.Equipment) error {
	if _, ok := r.equipments[e.ID]; !ok {
		return apperrors.NewNotFoundError("equipment")
	}
	copied := *e
	r.equipments[e.ID] = &copied
	return nil
}

func (r *fakeEquipmentRepo) DeleteEquipment(_ context.Context, id uint64) error {
	if _, ok := r.equipments[id]; !ok {
		return apperrors.NewNotFoundError("equipment")
	}
	delete(r.equipments, id)
	return nil
}

func (r *fakeEquipmentRepo) Deactivate(ctx context.Context, id uint64) error {
	return r.DeactivateInTx(ctx, nil, id)
}

func (r *fakeEquipmentRepo) DeactivateInTx(_ context.Context, _ pgx.Tx, id uint64) error {
	r.deactivateCalls++
	if r.deactivateCalls <= r.deactivateFailures {
		return fmt.Errorf("connection reset")
	}
	e, ok := r.equipments[id]
	if !ok {
		return apperrors.NewNotFoundError("equipment")
	}
	e.IsActive = false
	return nil
}

type fakeRequestRepo struct {
	requests map[uint64]*entities.MaintenanceRequest
	nextID   uint64
}

func newFakeRequestRepo(requests ...*entities.MaintenanceRequest) *fakeRequestRepo {
	r := &fakeRequestRepo{requests: make(map[uint64]*entities.MaintenanceRequest), nextID: 100}
	for _, req := range requests {
		r.requests[req.ID] = req
	}
	return r
}

func (r *fakeRequestRepo) FindByID(_ context.Context, id uint64) (*entities.MaintenanceRequest, error) {
	req, ok := r.requests[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("maintenance request")
	}
	copied := *req
	return &copied, nil
}

func (r *fakeRequestRepo) FindForUpdateInTx(ctx context.Context, _ pgx.Tx, id uint64) (*entities.MaintenanceRequest, error) {
	return r.FindByID(ctx, id)
}

func (r *fakeRequestRepo) FindRequest(_ context.Context, id uint64) (*dto.RequestDTO, error) {
	req, ok := r.requests[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("maintenance request")
	}
	return &dto.RequestDTO{
		ID:                req.ID,
		Subject:           req.Subject,
		Stage:             string(req.Stage),
		Priority:          req.Priority,
		EquipmentCategory: req.EquipmentCategory,
		IsOverdue:         req.IsOverdue(time.Now()),
	}, nil
}

func (r *fakeRequestRepo) GetRequests(_ context.Context, _ types.Filter, _ sq.Sqlizer) ([]dto.RequestDTO, uint64, error) {
	out := make([]dto.RequestDTO, 0, len(r.requests))
	for id := range r.requests {
		d, _ := r.FindRequest(context.Background(), id)
		out = append(out, *d)
	}
	return out, uint64(len(out)), nil
}

func (r *fakeRequestRepo) GetScheduledBetween(_ context.Context, from, to time.Time, _ sq.Sqlizer) ([]dto.RequestDTO, error) {
	var out []dto.RequestDTO
	for id, req := range r.requests {
		if !req.ScheduledDate.Valid {
			continue
		}
		d := req.ScheduledDate.Time
		if d.Before(from) || d.After(to) {
			continue
		}
		found, _ := r.FindRequest(context.Background(), id)
		out = append(out, *found)
	}
	return out, nil
}

func (r *fakeRequestRepo) GetOverdue(_ context.Context, asOf time.Time, _ sq.Sqlizer) ([]entities.MaintenanceRequest, error) {
	var out []entities.MaintenanceRequest
	for _, req := range r.requests {
		if req.IsOverdue(asOf) {
			out = append(out, *req)
		}
	}
	return out, nil
}

func (r *fakeRequestRepo) CreateRequest(_ context.Context, req *entities.MaintenanceRequest) (uint64, error) {
	r.nextID++
	req.ID = r.nextID
	copied := *req
	r.requests[req.ID] = &copied
	return req.ID, nil
}

func (r *fakeRequestRepo) UpdateStageInTx(_ context.Context, _ pgx.Tx, id uint64, stage workflow.Stage) error {
	req, ok := r.requests[id]
	if !ok {
		return apperrors.NewNotFoundError("maintenance request")
	}
	req.Stage = stage
	return nil
}

func (r *fakeRequestRepo) UpdateAssignee(_ context.Context, id uint64, technicianID uint64) error {
	req, ok := r.requests[id]
	if !ok {
		return apperrors.NewNotFoundError("maintenance request")
	}
	req.AssignedTechnicianID.SetValid(technicianID)
	return nil
}

func (r *fakeRequestRepo) UpdateResolution(_ context.Context, req *entities.MaintenanceRequest) error {
	stored, ok := r.requests[req.ID]
	if !ok {
		return apperrors.NewNotFoundError("maintenance request")
	}
	stored.DurationHours = req.DurationHours
	stored.ResolutionNotes = req.ResolutionNotes
	return nil
}

func (r *fakeRequestRepo) DeleteRequest(_ context.Context, id uint64) error {
	if _, ok := r.requests[id]; !ok {
		return apperrors.NewNotFoundError("maintenance request")
	}
	delete(r.requests, id)
	return nil
}

type fakeTxManager struct{}

func (m *fakeTxManager) RunInTransaction(ctx context.Context, fn func(tx pgx.Tx) error) error {
	return fn(nil)
}

type auditCall struct {
	Action     string
	EntityType string
	EntityID   uint64
	ActorID    uint64
}

type fakeAudit struct {
	calls []auditCall
}

func (a *fakeAudit) Record(_ context.Context, action, entityType string, entityID, actorID uint64, _ string) {
	a.calls = append(a.calls, auditCall{Action: action, EntityType: entityType, EntityID: entityID, ActorID: actorID})
}

func (a *fakeAudit) actions() []string {
	out := make([]string, 0, len(a.calls))
	for _, c := range a.calls {
		out = append(out, c.Action)
	}
	return out
}

type fakeCache struct {
	values map[string]string
}

func newFakeCache() *fakeCache {
	return &fakeCache{values: make(map[string]string)}
}

func (c *fakeCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	c.values[key] = fmt.Sprint(value)
	return nil
}

func (c *fakeCache) Get(_ context.Context, key string) (string, error) {
	v, ok := c.values[key]
	if !ok {
		return "", fmt.Errorf("cache miss")
	}
	return v, nil
}

func (c *fakeCache) Del(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(c.values, k)
	}
	return nil
}
