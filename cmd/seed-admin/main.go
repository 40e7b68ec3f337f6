package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jobboard/backend/internal/config"
	"github.com/jobboard/backend/internal/models"
	"github.com/jobboard/backend/internal/services"
)

// seed-admin bootstraps the first admin account so the admin API is usable
// on a fresh deployment. Store selection follows the server's config.
func main() {
	email := flag.String("email", "", "admin email (required)")
	name := flag.String("name", "Administrator", "display name")
	password := flag.String("password", "", "password (required)")
	role := flag.String("role", models.RoleAdmin, "account role")
	flag.Parse()

	if *email == "" || *password == "" {
		log.Fatal("usage: seed-admin -email admin@example.com -password <secret> [-name <name>] [-role <role>]")
	}
	if !models.ValidRole(*role) {
		log.Fatalf("Unknown role %q", *role)
	}

	cfg := config.Load()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var store services.AdminStore
	if cfg.MongoURI != "" {
		mongoStore, err := services.NewMongoAdminStore(ctx, cfg.MongoURI, cfg.MongoDBName)
		if err != nil {
			log.Fatalf("Failed to connect to MongoDB: %v", err)
		}
		defer mongoStore.Close(context.Background())
		store = mongoStore
	} else {
		fileStore, err := services.NewFileAdminStore(cfg.DataDir)
		if err != nil {
			log.Fatalf("Failed to open file store: %v", err)
		}
		store = fileStore
	}

	if existing, err := store.FindUserByEmail(ctx, *email); err == nil {
		log.Fatalf("Account %s already exists (id=%s, role=%s)", *email, existing.ID, existing.Role)
	} else if !errors.Is(err, services.ErrUserNotFound) {
		log.Fatalf("Lookup failed: %v", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	now := time.Now().UTC()
	admin := &models.User{
		ID:           uuid.New().String(),
		Name:         *name,
		Email:        *email,
		PasswordHash: string(hash),
		Role:         *role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := store.SaveUser(ctx, admin); err != nil {
		log.Fatalf("Failed to create admin: %v", err)
	}

	log.Printf("Account created: id=%s email=%s role=%s", admin.ID, admin.Email, admin.Role)
}
