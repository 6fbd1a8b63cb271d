package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"gearguard/internal/repositories"
	"gearguard/internal/services"
	"gearguard/pkg/constants"
)

// OverdueScanner periodically walks open requests whose scheduled date has
// passed and records them in the audit log. It never mutates the requests:
// overdue is a derived state, not a stored one.
type OverdueScanner struct {
	requestRepo repositories.RequestRepositoryInterface
	audit       services.AuditServiceInterface
	logger      *zap.Logger
}

func NewOverdueScanner(requestRepo repositories.RequestRepositoryInterface, audit services.AuditServiceInterface, logger *zap.Logger) *OverdueScanner {
	return &OverdueScanner{requestRepo: requestRepo, audit: audit, logger: logger}
}

func (s *OverdueScanner) Scan(ctx context.Context) {
	overdue, err := s.requestRepo.GetOverdue(ctx, time.Now(), nil)
	if err != nil {
		s.logger.Error("overdue scan failed", zap.Error(err))
		return
	}

	for i := range overdue {
		req := &overdue[i]
		s.audit.Record(ctx, constants.AuditActionOverdue, "maintenance_request", req.ID, 0,
			"scheduled date passed without reaching a terminal stage")
	}

	s.logger.Info("overdue scan finished", zap.Int("overdueCount", len(overdue)))
}

// Schedule registers the scan on the given cron according to spec and
// returns the entry id.
func (s *OverdueScanner) Schedule(c *cron.Cron, spec string) (cron.EntryID, error) {
	return c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		s.Scan(ctx)
	})
}
