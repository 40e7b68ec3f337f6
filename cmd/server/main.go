package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/jobboard/backend/internal/config"
	"github.com/jobboard/backend/internal/handlers"
	appMiddleware "github.com/jobboard/backend/internal/middleware"
	"github.com/jobboard/backend/internal/models"
	"github.com/jobboard/backend/internal/services"
)

func main() {
	cfg := config.Load()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Persistent store: Mongo when configured, JSON files otherwise.
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
		log.Printf("Using file store in %s (set MONGO_URI for MongoDB)", cfg.DataDir)
	}

	// Employer status emails are optional.
	var mailer services.JobMailer
	if cfg.SendGridAPIKey != "" {
		mailer = services.NewSendGridMailer(cfg.SendGridAPIKey, cfg.MailFromEmail)
	}

	adminService := services.NewAdminService(store, mailer)
	adminHandler := handlers.NewAdminHandler(adminService)

	// Session verification: Firebase ID tokens when configured, first-party
	// JWTs otherwise.
	sessionAuth := appMiddleware.JWTAuth(cfg.JWTSecret)
	if cfg.FirebaseProjectID != "" {
		authClient, err := appMiddleware.NewFirebaseAuthClient(ctx, appMiddleware.FirebaseAuthConfig{
			ProjectID:       cfg.FirebaseProjectID,
			CredentialsJSON: cfg.FirebaseCredentialsJSON,
		})
		if err != nil {
			log.Fatalf("Failed to initialize Firebase Auth client: %v", err)
		}
		sessionAuth = appMiddleware.FirebaseAuth(authClient)
	}

	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Admin API: authenticated session AND admin role.
	r.Route("/api/admin", func(r chi.Router) {
		r.Use(sessionAuth)
		r.Use(appMiddleware.RequireRole(models.RoleAdmin))

		r.Get("/users", adminHandler.ListUsers)
		r.Put("/users/{userId}", adminHandler.UpdateUserStatus)
		r.Delete("/users/{userId}", adminHandler.DeleteUser)

		r.Get("/jobs", adminHandler.ListJobs)
		r.Put("/jobs/{jobId}", adminHandler.ReviewJob)

		r.Get("/reports/pending", adminHandler.PendingReports)
		r.Put("/reports/resolve/{reportId}", adminHandler.ResolveReport)
	})

	log.Printf("Job board admin API starting on %s", cfg.ServerAddress)
	if err := http.ListenAndServe(cfg.ServerAddress, r); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
