package routes

import (
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"operateease/internal/handlers"
	"operateease/internal/services"
)

func RegisterVerificationRoutes(router chi.Router, codes *services.VerificationService, mailer services.EmailSender, log zerolog.Logger) {
	verificationHandler := handlers.NewVerificationHandler(codes, mailer, log)

	router.Post("/verification", verificationHandler.RequestCode)
	router.Post("/verify-code", verificationHandler.VerifyCode)
}
