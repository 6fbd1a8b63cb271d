package seeders

import (
	"context"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

type userSeed struct {
	FullName string
	Email    string
	Password string
	Role     string
}

var usersData = []userSeed{
	{FullName: "Admin", Email: "admin@gearguard.local", Password: "admin123", Role: "admin"},
	{FullName: "Maya Ortiz", Email: "maya.ortiz@gearguard.local", Password: "manager123", Role: "manager"},
	{FullName: "Jonas Keller", Email: "jonas.keller@gearguard.local", Password: "tech123", Role: "technician"},
	{FullName: "Priya Nair", Email: "priya.nair@gearguard.local", Password: "tech123", Role: "technician"},
	{FullName: "Sam Whitfield", Email: "sam.whitfield@gearguard.local", Password: "user123", Role: "user"},
}

func seedUsers(ctx context.Context, db *pgxpool.Pool) error {
	log.Println("  - seeding users...")

	query := `INSERT INTO users (full_name, email, password_hash, role)
	          VALUES ($1, $2, $3, $4)
	          ON CONFLICT (email) DO NOTHING;`

	for _, u := range usersData {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		if _, err := db.Exec(ctx, query, u.FullName, u.Email, string(hash), u.Role); err != nil {
			log.Printf("failed to seed user %s: %v", u.Email, err)
			return err
		}
	}
	return nil
}
