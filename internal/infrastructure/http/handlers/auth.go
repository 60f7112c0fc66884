package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/foodgram/v2/internal/infrastructure/security"
	"github.com/foodgram/v2/internal/ports/inbound"
	apperrors "github.com/foodgram/v2/pkg/errors"
	"go.uber.org/zap"
)

// AuthHandler serves registration, login, and logout
type AuthHandler struct {
	users    inbound.UserService
	sessions *security.SessionManager
	logger   *zap.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(users inbound.UserService, sessions *security.SessionManager, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		users:    users,
		sessions: sessions,
		logger:   logger.Named("auth-handler"),
	}
}

// loginRequest is the login body. Next carries the URL the user was
// redirected away from, if any.
type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Next     string `json:"next,omitempty"`
}

// Register handles POST /auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var cmd inbound.RegisterCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		writeError(w, r, h.logger, apperrors.NewBadRequestError("invalid request body"))
		return
	}

	account, err := h.users.Register(r.Context(), cmd)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, account)
}

// Login handles POST /auth/login. On success the session cookie is set and
// the response carries the redirect target: the preserved next URL when one
// was given and is safe, the home page otherwise.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, h.logger, apperrors.NewBadRequestError("invalid request body"))
		return
	}
	if req.Next == "" {
		req.Next = r.URL.Query().Get("next")
	}

	account, err := h.users.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	token, err := h.sessions.IssueToken(account.ID, account.Username, account.Superuser)
	if err != nil {
		writeError(w, r, h.logger, apperrors.NewInternalError("failed to start session"))
		return
	}
	h.sessions.SetSessionCookie(w, token)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"user":     account,
		"redirect": safeRedirect(req.Next),
	})
}

// Logout handles POST /auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.ClearSessionCookie(w)
	writeJSON(w, http.StatusOK, map[string]interface{}{"redirect": "/"})
}

// safeRedirect keeps login redirects on-site. Absolute and protocol-relative
// URLs fall back to the home page.
func safeRedirect(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		return "/"
	}
	return next
}
