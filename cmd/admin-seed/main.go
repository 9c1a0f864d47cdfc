// Command admin-seed bootstraps the first admin account. It is meant
// to run once against a fresh database; re-running against an existing
// admin email is a no-op.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/volatiletech/null/v8"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"mindnamo-admin.backend/internal/config"
	"mindnamo-admin.backend/internal/domain/entities"
	domainerrors "mindnamo-admin.backend/internal/domain/errors"
	domainrepos "mindnamo-admin.backend/internal/domain/repositories"
	"mindnamo-admin.backend/internal/infrastructure/repositories"
	"mindnamo-admin.backend/pkg/crypto"
	"mindnamo-admin.backend/pkg/utils"
)

func main() {
	email := flag.String("email", os.Getenv("SEED_ADMIN_EMAIL"), "admin email")
	name := flag.String("name", "Administrator", "display name")
	flag.Parse()

	if err := run(*email, *name); err != nil {
		log.Fatal(err)
	}
}

func run(email, name string) error {
	if email == "" {
		return fmt.Errorf("admin email required (flag -email or SEED_ADMIN_EMAIL)")
	}

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}
	cfg := config.Load()

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.Database.URL(),
		PreferSimpleProtocol: true,
	}), &gorm.Config{})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	ctx := context.Background()
	userRepo := repositories.NewUserRepository(db)

	tempPassword, err := seedAdmin(ctx, userRepo, email, name)
	if err != nil {
		return err
	}
	if tempPassword == "" {
		log.Printf("Admin %s already exists, nothing to do", email)
		return nil
	}

	// The credential prints exactly once and is never stored in clear.
	log.Printf("Admin account created: %s", email)
	log.Printf("Temporary password: %s", tempPassword)
	log.Printf("Sign in and change the password from the portal settings.")
	return nil
}

// seedAdmin creates the bootstrap admin and returns its one-time
// password, or "" when the admin already exists. The account is seeded
// verified and unlocked so a fresh deployment is usable without a mail
// transport; the printed credential should be rotated after first
// login.
func seedAdmin(ctx context.Context, userRepo domainrepos.UserRepository, email, name string) (string, error) {
	if _, err := userRepo.GetByEmailAndRole(ctx, email, entities.UserRoleAdmin); err == nil {
		return "", nil
	} else if err != domainerrors.ErrNotFound {
		return "", err
	}

	tempPassword, err := crypto.GenerateTempPassword()
	if err != nil {
		return "", err
	}
	hash, err := crypto.HashPassword(tempPassword)
	if err != nil {
		return "", err
	}

	admin := &entities.User{
		ID:           utils.GenerateUUIDv7(),
		Email:        email,
		Username:     null.StringFrom(utils.GenerateHandle()),
		Name:         null.StringFrom(name),
		PasswordHash: hash,
		Role:         entities.UserRoleAdmin,
		IsVerified:   true,
		SetupState:   entities.SetupStateUnlocked,
		Settings:     entities.DefaultSettings(),
	}
	if err := userRepo.Create(ctx, admin); err != nil {
		return "", fmt.Errorf("failed to create admin: %w", err)
	}
	return tempPassword, nil
}
