package entities

import (
	"testing"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/stretchr/testify/assert"

	"gearguard/internal/workflow"
)

func TestIsOverdue(t *testing.T) {
	now := time.Date(2026, 9, 1, 14, 30, 0, 0, time.UTC)
	yesterday := now.AddDate(0, 0, -1)
	tomorrow := now.AddDate(0, 0, 1)

	cases := []struct {
		name      string
		scheduled null.Time
		stage     workflow.Stage
		want      bool
	}{
		{"no schedule", null.Time{}, workflow.StageNew, false},
		{"past date, open", null.TimeFrom(yesterday), workflow.StageNew, true},
		{"past date, in progress", null.TimeFrom(yesterday), workflow.StageInProgress, true},
		{"past date, repaired", null.TimeFrom(yesterday), workflow.StageRepaired, false},
		{"past date, scrap", null.TimeFrom(yesterday), workflow.StageScrap, false},
		{"today", null.TimeFrom(now.Truncate(24 * time.Hour)), workflow.StageNew, false},
		{"future date", null.TimeFrom(tomorrow), workflow.StageNew, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := &MaintenanceRequest{ScheduledDate: tc.scheduled, Stage: tc.stage}
			assert.Equal(t, tc.want, r.IsOverdue(now))
		})
	}
}
