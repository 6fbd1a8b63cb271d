package main

import (
	"context"
	"log"

	"gearguard/pkg/config"
	"gearguard/pkg/database/postgresql"
	"gearguard/seeders"
)

func main() {
	cfg := config.New()

	db := postgresql.ConnectDB(cfg.Postgres.DSN)
	defer db.Close()

	if err := seeders.SeedAll(context.Background(), db); err != nil {
		log.Fatalf("seeding failed: %v", err)
	}
}
