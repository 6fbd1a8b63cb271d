package repositories

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"gearguard/internal/dto"
	"gearguard/internal/workflow"
	"gearguard/pkg/constants"
)

type DashboardRepositoryInterface interface {
	GetTotals(ctx context.Context, scope sq.Sqlizer) (total, open, overdue, criticalOpen uint64, err error)
	GetCountByStage(ctx context.Context, scope sq.Sqlizer) ([]dto.DashboardCountByGroup, error)
	GetCountByPriority(ctx context.Context, scope sq.Sqlizer) ([]dto.DashboardCountByGroup, error)
	GetCountByTeam(ctx context.Context, scope sq.Sqlizer) ([]dto.DashboardCountByGroup, error)
}

type DashboardRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewDashboardRepository(storage *pgxpool.Pool, logger *zap.Logger) DashboardRepositoryInterface {
	return &DashboardRepository{storage: storage, logger: logger}
}

func applyScope(b sq.SelectBuilder, scope sq.Sqlizer) sq.SelectBuilder {
	if scope != nil {
		return b.Where(scope)
	}
	return b
}

func (r *DashboardRepository) GetTotals(ctx context.Context, scope sq.Sqlizer) (total, open, overdue, criticalOpen uint64, err error) {
	today := time.Now().Truncate(24 * time.Hour)

	base := sq.Select(
		"COUNT(*)",
		"COUNT(CASE WHEN r.stage NOT IN ('repaired', 'scrap') THEN 1 END)",
		"COUNT(CASE WHEN r.scheduled_date IS NOT NULL AND r.scheduled_date < ? AND r.stage NOT IN ('repaired', 'scrap') THEN 1 END)",
		"COUNT(CASE WHEN r.priority = '"+constants.PriorityCritical+"' AND r.stage NOT IN ('repaired', 'scrap') THEN 1 END)",
	).From("maintenance_requests r")

	base = applyScope(base, scope)
	query, args, err := base.PlaceholderFormat(sq.Dollar).ToSql()
	if err != nil {
		return 0, 0, 0, 0, err
	}

	// The ? above becomes the first $n after squirrel rewrites placeholders,
	// so `today` has to lead the args.
	allArgs := append([]interface{}{today}, args...)
	err = r.storage.QueryRow(ctx, query, allArgs...).Scan(&total, &open, &overdue, &criticalOpen)
	return total, open, overdue, criticalOpen, err
}

func (r *DashboardRepository) countBy(ctx context.Context, column string, scope sq.Sqlizer) ([]dto.DashboardCountByGroup, error) {
	base := sq.Select(column, "COUNT(*)").
		From("maintenance_requests r").
		GroupBy(column).
		OrderBy("COUNT(*) DESC")

	base = applyScope(base, scope)
	query, args, err := base.PlaceholderFormat(sq.Dollar).ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var groups []dto.DashboardCountByGroup
	for rows.Next() {
		var g dto.DashboardCountByGroup
		if err := rows.Scan(&g.Name, &g.Count); err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

func (r *DashboardRepository) GetCountByStage(ctx context.Context, scope sq.Sqlizer) ([]dto.DashboardCountByGroup, error) {
	groups, err := r.countBy(ctx, "r.stage", scope)
	if err != nil {
		return nil, err
	}

	// Fill missing stages with zero so boards render every column.
	present := make(map[string]bool, len(groups))
	for _, g := range groups {
		present[g.Name] = true
	}
	for _, s := range workflow.Stages() {
		if !present[string(s)] {
			groups = append(groups, dto.DashboardCountByGroup{Name: string(s)})
		}
	}
	return groups, nil
}

func (r *DashboardRepository) GetCountByPriority(ctx context.Context, scope sq.Sqlizer) ([]dto.DashboardCountByGroup, error) {
	return r.countBy(ctx, "r.priority", scope)
}

func (r *DashboardRepository) GetCountByTeam(ctx context.Context, scope sq.Sqlizer) ([]dto.DashboardCountByGroup, error) {
	base := sq.Select("t.name", "COUNT(*)").
		From("maintenance_requests r").
		LeftJoin("maintenance_teams t ON t.id = r.maintenance_team_id").
		GroupBy("t.name").
		OrderBy("COUNT(*) DESC")

	base = applyScope(base, scope)
	query, args, err := base.PlaceholderFormat(sq.Dollar).ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var groups []dto.DashboardCountByGroup
	for rows.Next() {
		var g dto.DashboardCountByGroup
		if err := rows.Scan(&g.Name, &g.Count); err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}
