package routes

import (
	"database/sql"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"operateease/internal/config"
	"operateease/internal/handlers"
	"operateease/internal/services"
)

func RegisterPasswordResetRoutes(router chi.Router, db *sql.DB, cfg *config.Config, mailer services.EmailSender, log zerolog.Logger) {
	resetHandler := handlers.NewPasswordResetHandler(db, cfg, mailer, log)

	router.Route("/password-reset", func(r chi.Router) {
		r.Post("/request-reset", resetHandler.RequestReset)
		r.Post("/reset-password", resetHandler.ResetPassword)
	})
}
