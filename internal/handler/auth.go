package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/sakif/todo-api/internal/auth"
	"github.com/sakif/todo-api/internal/service"
)

// AuthHandler maps the authentication endpoints onto AuthService.
type AuthHandler struct {
	auth   *service.AuthService
	logger *slog.Logger
}

func NewAuthHandler(authService *service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		auth:   authService,
		logger: logger,
	}
}

type signupRequest struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// tokenResponse is the login/refresh payload. token_type is always "bearer".
type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// meResponse exposes the authenticated user's own profile. The password hash
// is already unexported from JSON at the model level; this struct narrows
// the shape further to the documented fields.
type meResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// HandleSignup registers a new account.
//
// HTTP: POST /api/v1/auth/signup
func (h *AuthHandler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	if err := h.auth.Signup(r.Context(), req.Email, req.Password, req.ConfirmPassword); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, messageResponse{Message: "Account created successfully"})
}

// HandleLogin verifies credentials and returns an access/refresh token pair.
//
// HTTP: POST /api/v1/auth/login
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	pair, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    "bearer",
	})
}

// HandleRefresh exchanges a refresh token for a new token pair. An access
// token in the body fails the kind check and gets a 401.
//
// HTTP: POST /api/v1/auth/refresh
func (h *AuthHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	pair, err := h.auth.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    "bearer",
	})
}

// HandleLogout acknowledges a logout.
//
// HTTP: POST /api/v1/auth/logout (authenticated)
//
// Tokens are stateless and there is no revocation list, so logout changes no
// server-side state: the client discards its tokens and the old ones remain
// cryptographically valid until their natural expiry. A known limitation of
// the design, not something this handler can paper over.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, messageResponse{Message: "Logged out successfully"})
}

// HandleMe returns the authenticated user's profile.
//
// HTTP: GET /api/v1/auth/me (authenticated)
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		// Unreachable behind RequireAuth, kept as a guard.
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "unauthenticated", Message: "authentication required"})
		return
	}

	writeJSON(w, http.StatusOK, meResponse{
		ID:        user.ID,
		Email:     user.Email,
		IsActive:  user.IsActive,
		CreatedAt: user.CreatedAt,
	})
}
