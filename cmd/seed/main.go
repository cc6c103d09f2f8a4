// Seeds demo accounts so a fresh environment has a dentist login and a
// sample patient. Safe to re-run: existing emails are skipped.
package main

import (
	"context"
	"errors"
	"log"
	"os"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"github.com/brightsmile/clinic-platform/internal/users"
)

type seedAccount struct {
	email    string
	name     string
	role     string
	password string
}

func main() {
	_ = godotenv.Load()

	databaseURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if databaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		log.Fatalf("create pool: %v", err)
	}
	defer pool.Close()

	repo := users.NewPostgresRepository(pool)

	accounts := []seedAccount{
		{email: "admin@brightsmile.example", name: "Dr. Admin", role: users.RoleAdmin, password: envOr("SEED_ADMIN_PASSWORD", "admin123")},
		{email: "patient@brightsmile.example", name: "Demo Patient", role: users.RoleUser, password: envOr("SEED_PATIENT_PASSWORD", "patient123")},
	}

	for _, acct := range accounts {
		hash, err := bcrypt.GenerateFromPassword([]byte(acct.password), bcrypt.DefaultCost)
		if err != nil {
			log.Fatalf("hash password for %s: %v", acct.email, err)
		}
		_, err = repo.Create(ctx, &users.CreateUserParams{
			Email:        acct.email,
			Name:         acct.name,
			Role:         acct.role,
			PasswordHash: string(hash),
		})
		switch {
		case err == nil:
			log.Printf("created %s (%s)", acct.email, acct.role)
		case errors.Is(err, users.ErrEmailTaken):
			log.Printf("skipped %s, already exists", acct.email)
		default:
			log.Fatalf("create %s: %v", acct.email, err)
		}
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
