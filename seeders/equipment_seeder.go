package seeders

import (
	"context"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
)

type equipmentSeed struct {
	Name            string
	SerialNumber    string
	Category        string
	Location        string
	OwnershipType   string
	Department      string
	TeamName        string
	TechnicianEmail string
}

var equipmentData = []equipmentSeed{
	{
		Name:            "CNC Lathe 01",
		SerialNumber:    "CNC-2021-001",
		Category:        "machining",
		Location:        "Hall A",
		OwnershipType:   "department",
		Department:      "Production",
		TeamName:        "Mechanics",
		TechnicianEmail: "jonas.keller@gearguard.local",
	},
	{
		Name:            "Forklift 03",
		SerialNumber:    "FL-2019-003",
		Category:        "vehicles",
		Location:        "Warehouse",
		OwnershipType:   "department",
		Department:      "Logistics",
		TeamName:        "Mechanics",
		TechnicianEmail: "jonas.keller@gearguard.local",
	},
	{
		Name:            "Welding Station 02",
		SerialNumber:    "WS-2022-002",
		Category:        "welding",
		Location:        "Hall B",
		OwnershipType:   "department",
		Department:      "Production",
		TeamName:        "Electrical",
		TechnicianEmail: "priya.nair@gearguard.local",
	},
}

func seedEquipment(ctx context.Context, db *pgxpool.Pool) error {
	log.Println("  - seeding equipment...")

	for _, e := range equipmentData {
		var teamID uint64
		if err := db.QueryRow(ctx, "SELECT id FROM maintenance_teams WHERE name = $1", e.TeamName).Scan(&teamID); err != nil {
			return err
		}
		var technicianID uint64
		if err := db.QueryRow(ctx, "SELECT id FROM users WHERE email = $1", e.TechnicianEmail).Scan(&technicianID); err != nil {
			return err
		}

		if _, err := db.Exec(ctx, `
			INSERT INTO equipments
				(name, serial_number, category, location, ownership_type, department, maintenance_team_id, default_technician_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT (serial_number) DO NOTHING;`,
			e.Name, e.SerialNumber, e.Category, e.Location, e.OwnershipType, e.Department, teamID, technicianID); err != nil {
			return err
		}
	}
	return nil
}
