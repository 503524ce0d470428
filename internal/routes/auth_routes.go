package routes

import (
	"database/sql"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"operateease/internal/auth"
	"operateease/internal/config"
	"operateease/internal/handlers"
	"operateease/internal/middleware"
)

func RegisterAuthRoutes(router chi.Router, db *sql.DB, cfg *config.Config, issuer *auth.TokenIssuer, log zerolog.Logger) {
	authHandler := handlers.NewAuthHandler(db, cfg, issuer, log)

	router.Post("/sign-up-detail", authHandler.Register)
	router.Post("/login", authHandler.Login)

	router.Group(func(r chi.Router) {
		r.Use(middleware.JWTAuth(issuer))
		r.Get("/dashboard", authHandler.Dashboard)
		r.Post("/logout", authHandler.Logout)
	})
}
