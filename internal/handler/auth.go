package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/Ali34f/VideoTranscriber/internal/middleware"
	"github.com/Ali34f/VideoTranscriber/internal/model"
	"github.com/Ali34f/VideoTranscriber/internal/service"
)

// CookieConfig describes the session cookie the auth handlers issue.
type CookieConfig struct {
	Name   string
	Secure bool
	TTL    time.Duration
}

// AuthHandler handles signup, login, logout, and the check-auth probe.
type AuthHandler struct {
	svc    *service.AccountService
	logger *slog.Logger
	cookie CookieConfig
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(svc *service.AccountService, logger *slog.Logger, cookie CookieConfig) *AuthHandler {
	return &AuthHandler{
		svc:    svc,
		logger: logger,
		cookie: cookie,
	}
}

type signupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Signup handles POST /api/signup.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	// Discard any session presented with the request; signup establishes
	// a brand new one under a fresh token.
	h.discardPresentedSession(r)

	user, token, err := h.svc.SignUp(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		h.handleAccountError(w, r, err)
		return
	}

	h.logger.Info("user_signed_up",
		"user_id", user.ID,
		"username", user.Username,
		"request_id", middleware.GetRequestID(r.Context()),
	)

	h.setSessionCookie(w, token)
	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "account created",
		"user":    userPayload(user),
	})
}

// Login handles POST /api/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	h.discardPresentedSession(r)

	user, token, err := h.svc.LogIn(r.Context(), req.Username, req.Password)
	if err != nil {
		h.handleAccountError(w, r, err)
		return
	}

	h.logger.Info("user_logged_in",
		"user_id", user.ID,
		"username", user.Username,
		"request_id", middleware.GetRequestID(r.Context()),
	)

	h.setSessionCookie(w, token)
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "login successful",
		"user":    userPayload(user),
	})
}

// Logout handles POST /api/logout. Always succeeds; logging out without
// an active session is a no-op.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token := middleware.SessionTokenFromRequest(r, h.cookie.Name)
	if err := h.svc.LogOut(r.Context(), token); err != nil {
		// The cookie is cleared regardless; a store hiccup here should
		// not trap the user in a logged-in UI.
		h.logger.Error("logout failed",
			"error", err.Error(),
			"request_id", middleware.GetRequestID(r.Context()),
		)
	}

	h.clearSessionCookie(w)
	writeJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// CheckAuth handles GET /api/check-auth. Never fails: an absent or
// invalid session reports authenticated=false rather than an error.
func (h *AuthHandler) CheckAuth(w http.ResponseWriter, r *http.Request) {
	token := middleware.SessionTokenFromRequest(r, h.cookie.Name)

	sess, err := h.svc.CurrentSession(r.Context(), token)
	if err != nil {
		h.logger.Error("session lookup failed",
			"error", err.Error(),
			"request_id", middleware.GetRequestID(r.Context()),
		)
		writeJSON(w, http.StatusOK, map[string]any{"authenticated": false})
		return
	}

	if sess == nil {
		writeJSON(w, http.StatusOK, map[string]any{"authenticated": false})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"authenticated": true,
		"user": map[string]any{
			"id":       sess.UserID,
			"username": sess.Username,
		},
	})
}

// discardPresentedSession invalidates whatever token came with the
// request, so a pre-auth token can never survive into an authenticated
// session (fixation defense).
func (h *AuthHandler) discardPresentedSession(r *http.Request) {
	token := middleware.SessionTokenFromRequest(r, h.cookie.Name)
	if token == "" {
		return
	}
	_ = h.svc.LogOut(r.Context(), token)
}

// handleAccountError maps account service errors to HTTP responses.
func (h *AuthHandler) handleAccountError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrFieldsRequired),
		errors.Is(err, service.ErrUsernameTooShort),
		errors.Is(err, service.ErrPasswordTooShort),
		errors.Is(err, service.ErrUsernameTaken),
		errors.Is(err, service.ErrEmailTaken):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, err.Error())
	default:
		h.logger.Error("account operation failed",
			"error", err.Error(),
			"request_id", middleware.GetRequestID(r.Context()),
		)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookie.Name,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.cookie.TTL.Seconds()),
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookie.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// userPayload is the user shape returned by signup and login.
func userPayload(user *model.User) map[string]any {
	return map[string]any{
		"id":       user.ID,
		"username": user.Username,
		"email":    user.Email,
	}
}
