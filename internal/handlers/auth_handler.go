package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"operateease/internal/auth"
	"operateease/internal/config"
	"operateease/internal/middleware"
	"operateease/internal/models"
	"operateease/internal/repository"
)

type AuthHandler struct {
	users  repository.UserRepository
	issuer *auth.TokenIssuer
	cfg    *config.Config
	v      *validator.Validate
	log    zerolog.Logger
}

func NewAuthHandler(db *sql.DB, cfg *config.Config, issuer *auth.TokenIssuer, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		users:  repository.NewUserRepository(db),
		issuer: issuer,
		cfg:    cfg,
		v:      validator.New(),
		log:    log,
	}
}

// @Tags Auth
// @Summary Register a new account
// @Accept json
// @Produce json
// @Param body body models.RegisterRequest true "Registration request"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/sign-up-detail [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}
	if err := h.v.Struct(req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "validation_error", registerValidationMessage(err))
		return
	}

	if req.Name == "" {
		req.Name = strings.SplitN(req.Email, "@", 2)[0]
	}

	if _, err := h.users.GetByEmail(r.Context(), req.Email); err == nil {
		writeJSONError(w, http.StatusBadRequest, "already_exists",
			"It seems like you already have an account with us. Please proceed to login.")
		return
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		h.log.Error().Err(err).Msg("failed to look up existing user")
		writeJSONError(w, http.StatusInternalServerError, "register_failed", "Something went wrong!")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), h.cfg.BcryptCost)
	if err != nil {
		h.log.Error().Err(err).Msg("failed to hash password")
		writeJSONError(w, http.StatusInternalServerError, "register_failed", "Something went wrong!")
		return
	}

	u := &models.User{
		ID:           uuid.NewString(),
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}

	if err := h.users.Create(r.Context(), u); err != nil {
		// The pre-check above races with concurrent registrations; the unique
		// index on email is what actually enforces the invariant.
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			writeJSONError(w, http.StatusBadRequest, "already_exists",
				"It seems like you already have an account with us. Please proceed to login.")
			return
		}
		h.log.Error().Err(err).Msg("failed to create user")
		writeJSONError(w, http.StatusInternalServerError, "register_failed", "Something went wrong!")
		return
	}

	token, _, err := h.issuer.Issue(u.ID, "")
	if err != nil {
		h.log.Error().Err(err).Msg("failed to sign token")
		writeJSONError(w, http.StatusInternalServerError, "register_failed", "Something went wrong!")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Thank you for joining us!",
		"token":   token,
	})
}

// @Tags Auth
// @Summary Log in with email and password
// @Accept json
// @Produce json
// @Param body body models.LoginRequest true "Login request"
// @Success 200 {object} models.LoginResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Router /api/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}
	if err := h.v.Struct(req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "validation_error", loginValidationMessage(err))
		return
	}

	// Identical response for unknown email and wrong password.
	u, err := h.users.GetByEmail(r.Context(), req.Email)
	if err != nil {
		if !errors.Is(err, repository.ErrUserNotFound) {
			h.log.Error().Err(err).Msg("failed to look up user")
			writeJSONError(w, http.StatusInternalServerError, "login_failed", "Something went wrong!")
			return
		}
		writeJSONError(w, http.StatusUnauthorized, "invalid_credentials", "Invalid email or password.")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		writeJSONError(w, http.StatusUnauthorized, "invalid_credentials", "Invalid email or password.")
		return
	}

	token, expiresAt, err := h.issuer.Issue(u.ID, u.Email)
	if err != nil {
		h.log.Error().Err(err).Msg("failed to sign token")
		writeJSONError(w, http.StatusInternalServerError, "login_failed", "Something went wrong!")
		return
	}

	writeJSON(w, http.StatusOK, models.LoginResponse{
		Success: true,
		Message: "Login successful",
		Token:   token,
		User: models.UserInfo{
			ID:    u.ID,
			Email: u.Email,
			Name:  u.Name,
		},
		ExpiresAt: expiresAt,
	})
}

// @Tags Auth
// @Summary Dashboard greeting for the authenticated user
// @Security BearerAuth
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Router /api/dashboard [get]
func (h *AuthHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	userID, _ := r.Context().Value(middleware.CtxUserID).(string)
	email, _ := r.Context().Value(middleware.CtxEmail).(string)

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Welcome to your dashboard!",
		"user": models.UserInfo{
			ID:    userID,
			Email: email,
		},
	})
}

// @Tags Auth
// @Summary Log out
// @Security BearerAuth
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Router /api/logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	// Tokens are stateless, so logout is an acknowledgement; the client drops
	// the token and it simply ages out.
	writeJSONMessage(w, http.StatusOK, "Logout successful.")
}

func registerValidationMessage(err error) string {
	switch firstValidationField(err) {
	case "Email":
		return "Please enter a valid email address."
	case "Password":
		return "Password must be at least 8 characters."
	}
	return "Invalid request"
}

func loginValidationMessage(err error) string {
	switch firstValidationField(err) {
	case "Email":
		return "Please enter a valid email address."
	case "Password":
		return "Password is required."
	}
	return "Invalid request"
}
