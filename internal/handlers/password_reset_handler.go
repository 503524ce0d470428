package handlers

import (
	"crypto/rand"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"operateease/internal/config"
	"operateease/internal/models"
	"operateease/internal/repository"
	"operateease/internal/services"
)

const resetTokenTTL = time.Hour

type PasswordResetHandler struct {
	users  repository.UserRepository
	resets repository.PasswordResetRepository
	mailer services.EmailSender
	cfg    *config.Config
	v      *validator.Validate
	log    zerolog.Logger
}

func NewPasswordResetHandler(db *sql.DB, cfg *config.Config, mailer services.EmailSender, log zerolog.Logger) *PasswordResetHandler {
	return &PasswordResetHandler{
		users:  repository.NewUserRepository(db),
		resets: repository.NewPasswordResetRepository(db),
		mailer: mailer,
		cfg:    cfg,
		v:      validator.New(),
		log:    log,
	}
}

// @Tags PasswordReset
// @Summary Email a password reset link
// @Accept json
// @Produce json
// @Param body body models.RequestResetRequest true "Reset request"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/password-reset/request-reset [post]
func (h *PasswordResetHandler) RequestReset(w http.ResponseWriter, r *http.Request) {
	var req models.RequestResetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		writeJSONError(w, http.StatusBadRequest, "validation_error", "We need your email address to help you reset.")
		return
	}
	if err := h.v.Struct(req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "validation_error", "Please enter a valid email address.")
		return
	}

	u, err := h.users.GetByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			writeJSONError(w, http.StatusNotFound, "unknown_email",
				"Hmm... we do not seem to know this email address. Could you kindly check the email address again, please?")
			return
		}
		h.log.Error().Err(err).Msg("failed to look up user")
		writeJSONError(w, http.StatusInternalServerError, "reset_request_failed", "Internal server error.")
		return
	}

	rawToken, tokenHash, err := generateResetToken()
	if err != nil {
		h.log.Error().Err(err).Msg("failed to generate reset token")
		writeJSONError(w, http.StatusInternalServerError, "reset_request_failed", "Internal server error.")
		return
	}

	now := time.Now().UTC()
	reset := &models.PasswordReset{
		ID:        uuid.NewString(),
		UserID:    u.ID,
		TokenHash: tokenHash,
		ExpiresAt: now.Add(resetTokenTTL),
		CreatedAt: now,
	}
	if err := h.resets.Create(r.Context(), reset); err != nil {
		h.log.Error().Err(err).Msg("failed to store reset record")
		writeJSONError(w, http.StatusInternalServerError, "reset_request_failed", "Internal server error.")
		return
	}

	resetLink := h.cfg.AppBaseURL + "/reset?token=" + url.QueryEscape(rawToken)
	body := fmt.Sprintf(`<p>Hello,</p>
<p>You requested to reset your password. Click the link below to reset it:</p>
<a href="%s">Reset Password</a>
<p>If you did not request this, please ignore this email. The link expires in 1 hour.</p>`, resetLink)
	if err := h.mailer.Send(u.Email, "Password Reset Request", body); err != nil {
		h.log.Error().Err(err).Str("email", u.Email).Msg("failed to send reset email")
	}

	writeJSONMessage(w, http.StatusOK, "Password reset link sent.")
}

// @Tags PasswordReset
// @Summary Reset the password using a token from the email link
// @Accept json
// @Produce json
// @Param body body models.ResetPasswordRequest true "Reset password request"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/password-reset/reset-password [post]
func (h *PasswordResetHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req models.ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Token == "" || req.Password == "" {
		writeJSONError(w, http.StatusBadRequest, "validation_error", "Token and password are required.")
		return
	}
	if err := h.v.Struct(req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "validation_error", "Password must be at least 8 characters.")
		return
	}

	hash := sha256.Sum256([]byte(req.Token))
	tokenHash := hex.EncodeToString(hash[:])

	reset, err := h.resets.GetValidByTokenHash(r.Context(), tokenHash)
	if err != nil {
		if errors.Is(err, repository.ErrResetNotFound) {
			writeJSONError(w, http.StatusBadRequest, "invalid_token", "Invalid or expired token.")
			return
		}
		h.log.Error().Err(err).Msg("failed to look up reset record")
		writeJSONError(w, http.StatusInternalServerError, "reset_failed", "Internal server error.")
		return
	}

	u, err := h.users.GetByID(r.Context(), reset.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			writeJSONError(w, http.StatusNotFound, "user_not_found", "User not found.")
			return
		}
		h.log.Error().Err(err).Msg("failed to look up user")
		writeJSONError(w, http.StatusInternalServerError, "reset_failed", "Internal server error.")
		return
	}

	pwHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), h.cfg.BcryptCost)
	if err != nil {
		h.log.Error().Err(err).Msg("failed to hash password")
		writeJSONError(w, http.StatusInternalServerError, "reset_failed", "Internal server error.")
		return
	}

	if err := h.users.UpdatePasswordHash(r.Context(), u.ID, string(pwHash)); err != nil {
		h.log.Error().Err(err).Msg("failed to update password")
		writeJSONError(w, http.StatusInternalServerError, "reset_failed", "Internal server error.")
		return
	}

	// Update and delete are separate statements; a failure here leaves a
	// redeemable record until it expires, which is acceptable, so it is only
	// logged.
	if err := h.resets.Delete(r.Context(), reset.ID); err != nil {
		h.log.Error().Err(err).Str("reset_id", reset.ID).Msg("failed to delete reset record")
	}

	name := u.Name
	if name == "" {
		name = "User"
	}
	body := fmt.Sprintf(`<p>Hello %s,</p>
<p>Your password has been successfully changed.</p>
<p>If you did not perform this action, please contact our support team immediately.</p>
<p>Regards,<br/>The Support Team</p>`, name)
	if err := h.mailer.Send(u.Email, "Password Changed Successfully", body); err != nil {
		h.log.Error().Err(err).Str("email", u.Email).Msg("failed to send confirmation email")
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message":    "Password reset successful.",
		"redirectTo": "/confirmation",
	})
}

// generateResetToken returns a fresh random token and the sha256 hex digest
// that gets persisted. Only the digest is ever stored; redemption recomputes
// it for a direct indexed lookup.
func generateResetToken() (rawToken string, tokenHash string, err error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", "", err
	}
	rawToken = hex.EncodeToString(b)
	h := sha256.Sum256([]byte(rawToken))
	tokenHash = hex.EncodeToString(h[:])
	return rawToken, tokenHash, nil
}
