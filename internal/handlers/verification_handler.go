package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"operateease/internal/models"
	"operateease/internal/services"
)

type VerificationHandler struct {
	codes  *services.VerificationService
	mailer services.EmailSender
	v      *validator.Validate
	log    zerolog.Logger
}

func NewVerificationHandler(codes *services.VerificationService, mailer services.EmailSender, log zerolog.Logger) *VerificationHandler {
	return &VerificationHandler{
		codes:  codes,
		mailer: mailer,
		v:      validator.New(),
		log:    log,
	}
}

// @Tags Verification
// @Summary Request a verification code by email
// @Accept json
// @Produce json
// @Param body body models.RequestCodeRequest true "Verification request"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /api/verification [post]
func (h *VerificationHandler) RequestCode(w http.ResponseWriter, r *http.Request) {
	var req models.RequestCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		writeJSONError(w, http.StatusBadRequest, "validation_error", "Email is required")
		return
	}
	if err := h.v.Struct(req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "validation_error", "Please enter a valid email address.")
		return
	}

	code, reused, err := h.codes.Request(req.Email)
	if err != nil {
		h.log.Error().Err(err).Msg("failed to generate verification code")
		writeJSONError(w, http.StatusInternalServerError, "verification_failed", "Something went wrong!")
		return
	}

	if reused {
		// The earlier code is still valid; the mail has already gone out.
		writeJSONMessage(w, http.StatusOK, "please check your mailbox")
		return
	}

	body := fmt.Sprintf("<p>Your verification code is <strong>%s</strong>. It is valid for 5 minutes.</p>", code)
	if err := h.mailer.Send(req.Email, "OperateEase - Verification Code", body); err != nil {
		h.log.Error().Err(err).Str("email", req.Email).Msg("failed to send verification email")
	}

	writeJSONMessage(w, http.StatusOK, "Verification code sent successfully")
}

// @Tags Verification
// @Summary Verify a previously requested code
// @Accept json
// @Produce json
// @Param body body models.VerifyCodeRequest true "Verify code request"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/verify-code [post]
func (h *VerificationHandler) VerifyCode(w http.ResponseWriter, r *http.Request) {
	var req models.VerifyCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" || req.Code == "" {
		writeJSONError(w, http.StatusBadRequest, "validation_error", "Email and code are required")
		return
	}

	switch err := h.codes.Verify(req.Email, req.Code); {
	case errors.Is(err, services.ErrCodeNotFound):
		writeJSONError(w, http.StatusNotFound, "code_not_found", "No verification code found for this email")
	case errors.Is(err, services.ErrCodeExpired):
		writeJSONError(w, http.StatusBadRequest, "code_expired", "Verification code expired")
	case errors.Is(err, services.ErrCodeMismatch):
		writeJSONError(w, http.StatusBadRequest, "code_mismatch", "Invalid verification code")
	case err != nil:
		h.log.Error().Err(err).Msg("failed to verify code")
		writeJSONError(w, http.StatusInternalServerError, "verification_failed", "Something went wrong!")
	default:
		writeJSONMessage(w, http.StatusOK, "Email verified successfully")
	}
}
