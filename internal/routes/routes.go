package routes

import (
	"database/sql"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"operateease/internal/auth"
	"operateease/internal/config"
	"operateease/internal/services"
)

func SetupRoutes(db *sql.DB, cfg *config.Config, log zerolog.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"message": "OperateEase auth API"})
	})

	r.Get("/health", healthHandler(db))

	issuer := auth.NewTokenIssuer(cfg.JWTSecret, cfg.JWTExpiresIn)
	mailer := services.NewGomailSender(cfg)
	codes := services.NewVerificationService(services.NewMemoryCodeStore())

	r.Route("/api", func(r chi.Router) {
		RegisterAuthRoutes(r, db, cfg, issuer, log)
		RegisterVerificationRoutes(r, codes, mailer, log)
		RegisterPasswordResetRoutes(r, db, cfg, mailer, log)
	})

	RegisterSwaggerRoutes(r)

	return r
}

func healthHandler(db *sql.DB) http.HandlerFunc {
	type dbStatus struct {
		Status string `json:"status"`
		Error  string `json:"error,omitempty"`
	}
	type healthResponse struct {
		Status string   `json:"status"`
		DB     dbStatus `json:"db"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		resp := healthResponse{Status: "ok", DB: dbStatus{Status: "ok"}}
		status := http.StatusOK

		if err := db.PingContext(r.Context()); err != nil {
			resp.Status = "degraded"
			resp.DB = dbStatus{Status: "down", Error: err.Error()}
			status = http.StatusServiceUnavailable
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(resp)
	}
}
