package seeders

import (
	"context"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
)

// SeedAll fills the database with a minimal working data set. Every seeder
// is idempotent, so re-running is safe.
func SeedAll(ctx context.Context, db *pgxpool.Pool) error {
	log.Println("seeding database...")

	if err := seedUsers(ctx, db); err != nil {
		return err
	}
	if err := seedTeams(ctx, db); err != nil {
		return err
	}
	if err := seedEquipment(ctx, db); err != nil {
		return err
	}
	if err := seedRequests(ctx, db); err != nil {
		return err
	}

	log.Println("seeding finished.")
	return nil
}
