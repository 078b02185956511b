package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/noahform/intake/internal/auth"
	"github.com/noahform/intake/internal/metrics"
	"github.com/noahform/intake/internal/model"
	"github.com/noahform/intake/internal/store"
	"github.com/noahform/intake/internal/token"
)

const (
	msgCredentialsRequired = "Email en password vereist"
	msgInvalidCredentials  = "Ongeldige inloggegevens"
)

type AuthHandler struct {
	userStore *store.UserStore
	issuer    *token.Issuer
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

func NewAuthHandler(us *store.UserStore, issuer *token.Issuer, m *metrics.Metrics, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{userStore: us, issuer: issuer, metrics: m, logger: logger}
}

type LoginRequest struct {
	Email    string `json:"email" example:"admin@noahform.be"`
	Password string `json:"password" example:"secret"`
}

type LoginResponse struct {
	Success bool   `json:"success" example:"true"`
	Token   string `json:"token"`
}

type MeResponse struct {
	Success bool           `json:"success" example:"true"`
	User    model.Identity `json:"user"`
}

// Login exchanges email and password for a bearer token.
//
//	@Summary		Log in
//	@Description	Verify credentials and return a signed bearer token
//	@Tags			auth
//	@Accept			json
//	@Produce		json
//	@Param			credentials	body		LoginRequest	true	"Login credentials"
//	@Success		200			{object}	LoginResponse
//	@Failure		400			{object}	ErrorResponse	"Malformed JSON or missing fields"
//	@Failure		401			{object}	ErrorResponse	"Invalid credentials"
//	@Failure		405			{object}	MessageResponse
//	@Failure		429			{object}	ErrorResponse
//	@Failure		500			{object}	ErrorResponse
//	@Router			/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, "POST, OPTIONS")
		return
	}

	var req LoginRequest
	if err := decodeBody(json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)), &req); err != nil {
		h.metrics.Login(metrics.ResultInvalid)
		writeError(w, http.StatusBadRequest, msgInvalidJSON)
		return
	}

	email := strings.TrimSpace(req.Email)
	if email == "" || req.Password == "" {
		h.metrics.Login(metrics.ResultInvalid)
		writeError(w, http.StatusBadRequest, msgCredentialsRequired)
		return
	}

	user, err := h.userStore.GetByEmail(r.Context(), email)
	if err != nil {
		h.logger.Error("login lookup", "error", err)
		h.metrics.Login(metrics.ResultError)
		writeError(w, http.StatusInternalServerError, msgServerError)
		return
	}
	if user == nil {
		auth.BurnPassword(req.Password)
		h.metrics.Login(metrics.ResultDenied)
		writeError(w, http.StatusUnauthorized, msgInvalidCredentials)
		return
	}
	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		h.metrics.Login(metrics.ResultDenied)
		writeError(w, http.StatusUnauthorized, msgInvalidCredentials)
		return
	}

	tok, err := h.issuer.Issue(user)
	if err != nil {
		h.logger.Error("issue token", "error", err, "user_id", user.ID)
		h.metrics.Login(metrics.ResultError)
		writeError(w, http.StatusInternalServerError, msgServerError)
		return
	}

	h.logger.Info("login", "user_id", user.ID)
	h.metrics.Login(metrics.ResultOK)
	writeJSON(w, http.StatusOK, LoginResponse{Success: true, Token: tok})
}

// Me returns the identity carried by the caller's token.
//
//	@Summary		Current user
//	@Tags			auth
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	MeResponse
//	@Failure		401	{object}	ErrorResponse
//	@Router			/me [get]
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Token vereist")
		return
	}
	writeJSON(w, http.StatusOK, MeResponse{Success: true, User: id})
}
