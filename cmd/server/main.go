package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"perftrack/internal/config"
	"perftrack/internal/db"
	"perftrack/internal/domain/employee"
	"perftrack/internal/domain/goal"
	"perftrack/internal/domain/identity"
	"perftrack/internal/domain/review"
	authhandler "perftrack/internal/transport/http/handlers/auth"
	employeehandler "perftrack/internal/transport/http/handlers/employees"
	goalhandler "perftrack/internal/transport/http/handlers/goals"
	reviewhandler "perftrack/internal/transport/http/handlers/reviews"
	usershandler "perftrack/internal/transport/http/handlers/users"
	"perftrack/internal/transport/http/middleware"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config invalid: %v", err)
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}
	defer pool.Close()

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, cfg.MigrationsDir); err != nil {
			log.Fatalf("migrations failed: %v", err)
		}
	}
	if cfg.RunSeed {
		if err := db.Seed(ctx, pool, cfg); err != nil {
			log.Fatalf("seed failed: %v", err)
		}
	}

	identityStore := identity.NewStore(pool)
	employeeStore := employee.NewStore(pool)
	goalStore := goal.NewStore(pool)
	reviewStore := review.NewStore(pool)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Secure(cfg.Environment == "production"))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))

	router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"message":"Employee Performance Tracker API is running"}`))
	})

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	authHandler := authhandler.NewHandler(identityStore, cfg.JWTSecret, cfg.TokenTTL)
	router.Post("/auth/login", authHandler.HandleLogin)

	router.Group(func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWTSecret, identityStore))

		authHandler.RegisterProtectedRoutes(r)
		usershandler.NewHandler(identityStore, employeeStore, cfg.AllowSharedEmployeeLink).RegisterRoutes(r)
		employeehandler.NewHandler(employeeStore).RegisterRoutes(r)
		goalhandler.NewHandler(goalStore, employeeStore).RegisterRoutes(r)
		reviewhandler.NewHandler(reviewStore, employeeStore).RegisterRoutes(r)
	})

	log.Printf("performance tracker listening on %s", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, router); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
