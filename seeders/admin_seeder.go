package seeders

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"inventory-system/pkg/constants"
	"inventory-system/pkg/utils"
)

// SeedAdmin creates the bootstrap administrator account if it does not
// exist yet. Email and password come from ADMIN_EMAIL / ADMIN_PASSWORD,
// with development defaults.
func SeedAdmin(ctx context.Context, db *pgxpool.Pool) error {
	email := os.Getenv("ADMIN_EMAIL")
	if email == "" {
		email = "admin@inventory.local"
	}
	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "admin123"
	}

	var existingID uint64
	err := db.QueryRow(ctx, "SELECT id FROM users WHERE email = $1", email).Scan(&existingID)
	if err == nil {
		log.Printf("  - admin %s already exists, skipping", email)
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("failed to check for existing admin: %w", err)
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	_, err = db.Exec(ctx, `INSERT INTO users
		(national_id, first_name, last_name, email, password_hash, role_id, active)
		VALUES ($1, $2, $3, $4, $5, $6, TRUE)`,
		"0000000000", "System", "Administrator", email, hash, constants.RoleAdminID)
	if err != nil {
		return fmt.Errorf("failed to insert admin user: %w", err)
	}

	log.Printf("  - admin %s created", email)
	return nil
}
