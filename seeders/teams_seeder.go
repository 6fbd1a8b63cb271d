package seeders

import (
	"context"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
)

type teamSeed struct {
	Name           string
	Specialization string
	LeadEmail      string
	MemberEmails   []string
}

var teamsData = []teamSeed{
	{
		Name:           "Mechanics",
		Specialization: "mechanical",
		LeadEmail:      "jonas.keller@gearguard.local",
		MemberEmails:   []string{"jonas.keller@gearguard.local"},
	},
	{
		Name:           "Electrical",
		Specialization: "electrical",
		LeadEmail:      "priya.nair@gearguard.local",
		MemberEmails:   []string{"priya.nair@gearguard.local"},
	},
}

func seedTeams(ctx context.Context, db *pgxpool.Pool) error {
	log.Println("  - seeding maintenance teams...")

	for _, t := range teamsData {
		var leadID uint64
		if err := db.QueryRow(ctx, "SELECT id FROM users WHERE email = $1", t.LeadEmail).Scan(&leadID); err != nil {
			return err
		}

		var teamID uint64
		err := db.QueryRow(ctx, `
			INSERT INTO maintenance_teams (name, specialization, team_lead_id)
			VALUES ($1, $2, $3)
			ON CONFLICT (name) DO UPDATE SET specialization = EXCLUDED.specialization
			RETURNING id;`, t.Name, t.Specialization, leadID).Scan(&teamID)
		if err != nil {
			return err
		}

		for _, email := range t.MemberEmails {
			var memberID uint64
			if err := db.QueryRow(ctx, "SELECT id FROM users WHERE email = $1", email).Scan(&memberID); err != nil {
				return err
			}
			if _, err := db.Exec(ctx, `
				INSERT INTO team_members (team_id, user_id) VALUES ($1, $2)
				ON CONFLICT DO NOTHING;`, teamID, memberID); err != nil {
				return err
			}
			if _, err := db.Exec(ctx, "UPDATE users SET team_id = $1 WHERE id = $2", teamID, memberID); err != nil {
				return err
			}
		}
	}
	return nil
}
