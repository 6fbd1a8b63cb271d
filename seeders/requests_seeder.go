package seeders

import (
	"context"
	"log"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type requestSeed struct {
	Subject         string
	Description     string
	EquipmentSerial string
	RequestType     string
	Priority        string
	Stage           string
	ScheduledInDays int
	CreatorEmail    string
}

var requestsData = []requestSeed{
	{
		Subject:         "Spindle vibration above tolerance",
		Description:     "Noticeable vibration at high rpm, parts out of spec.",
		EquipmentSerial: "CNC-2021-001",
		RequestType:     "corrective",
		Priority:        "high",
		Stage:           "in_progress",
		CreatorEmail:    "sam.whitfield@gearguard.local",
	},
	{
		Subject:         "Quarterly hydraulics inspection",
		Description:     "Scheduled preventive check of the lift hydraulics.",
		EquipmentSerial: "FL-2019-003",
		RequestType:     "preventive",
		Priority:        "medium",
		Stage:           "new",
		ScheduledInDays: 14,
		CreatorEmail:    "maya.ortiz@gearguard.local",
	},
	{
		Subject:         "Torch arc instability",
		Description:     "Arc cuts out intermittently under load.",
		EquipmentSerial: "WS-2022-002",
		RequestType:     "corrective",
		Priority:        "critical",
		Stage:           "new",
		CreatorEmail:    "sam.whitfield@gearguard.local",
	},
}

func seedRequests(ctx context.Context, db *pgxpool.Pool) error {
	log.Println("  - seeding maintenance requests...")

	for _, r := range requestsData {
		var exists bool
		if err := db.QueryRow(ctx,
			"SELECT EXISTS (SELECT 1 FROM maintenance_requests WHERE subject = $1)", r.Subject).Scan(&exists); err != nil {
			return err
		}
		if exists {
			continue
		}

		var (
			equipmentID  uint64
			category     string
			teamID       uint64
			technicianID uint64
		)
		err := db.QueryRow(ctx, `
			SELECT id, category, maintenance_team_id, default_technician_id
			FROM equipments WHERE serial_number = $1`, r.EquipmentSerial).
			Scan(&equipmentID, &category, &teamID, &technicianID)
		if err != nil {
			return err
		}

		var creatorID uint64
		if err := db.QueryRow(ctx, "SELECT id FROM users WHERE email = $1", r.CreatorEmail).Scan(&creatorID); err != nil {
			return err
		}

		var scheduled interface{}
		if r.ScheduledInDays != 0 {
			scheduled = time.Now().AddDate(0, 0, r.ScheduledInDays)
		}

		if _, err := db.Exec(ctx, `
			INSERT INTO maintenance_requests
				(subject, description, equipment_id, equipment_category, maintenance_team_id,
				 request_type, priority, stage, scheduled_date, assigned_technician_id, created_by_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);`,
			r.Subject, r.Description, equipmentID, category, teamID,
			r.RequestType, r.Priority, r.Stage, scheduled, technicianID, creatorID); err != nil {
			return err
		}
	}
	return nil
}
