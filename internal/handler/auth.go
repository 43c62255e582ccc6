package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/orderdesk/orderdesk/internal/auth"
	"github.com/orderdesk/orderdesk/internal/model"
	"github.com/orderdesk/orderdesk/internal/server/middleware"
	"github.com/orderdesk/orderdesk/internal/store"
)

// AuthHandler serves login, logout, bootstrap admin creation, and the
// "who am I" check.
type AuthHandler struct {
	store         *store.Store
	authSvc       *auth.Service
	logger        *slog.Logger
	secureCookies bool
}

// NewAuthHandler creates a new AuthHandler. secureCookies should be true in
// production deployments so session cookies are never sent over plain HTTP.
func NewAuthHandler(st *store.Store, authSvc *auth.Service, logger *slog.Logger, secureCookies bool) *AuthHandler {
	return &AuthHandler{
		store:         st,
		authSvc:       authSvc,
		logger:        logger,
		secureCookies: secureCookies,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login authenticates an admin and hands out the artifact for the
// deployment's mode: a token in the body (bearer) or a Set-Cookie header
// (session). Unknown email and wrong password are indistinguishable in the
// response.
// POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	admin, artifact, err := h.authSvc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		h.logger.Error("login failed", "error", err,
			"request_id", middleware.GetRequestID(r.Context()))
		writeError(w, http.StatusInternalServerError, "Login failed")
		return
	}

	resp := model.LoginResponse{
		Status: "success",
		Admin:  admin.Info(),
	}

	switch artifact.Kind {
	case auth.ModeSession:
		http.SetCookie(w, &http.Cookie{
			Name:     auth.SessionCookie,
			Value:    artifact.Value,
			Path:     "/",
			HttpOnly: true,
			Secure:   h.secureCookies,
			SameSite: http.SameSiteLaxMode,
			MaxAge:   int(h.authSvc.SessionTTL().Seconds()),
		})
	default:
		resp.Token = artifact.Value
		resp.ExpiresIn = int(h.authSvc.TokenTTL().Seconds())
	}

	writeJSON(w, http.StatusOK, resp)
}

// Logout invalidates the caller's artifact where the design allows it.
// Session mode deletes the backing record and clears the cookie; bearer
// tokens are stateless, so the response is only an instruction to discard.
// Always succeeds, even with an invalid or absent artifact: that just means
// already logged out.
// POST /auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if h.authSvc.Mode() == auth.ModeSession {
		if cookie, err := r.Cookie(auth.SessionCookie); err == nil && cookie.Value != "" {
			if err := h.authSvc.Revoke(r.Context(), auth.Artifact{Kind: auth.ModeSession, Value: cookie.Value}); err != nil {
				// Revocation failure never blocks logout.
				h.logger.Warn("session revoke failed", "error", err,
					"request_id", middleware.GetRequestID(r.Context()))
			}
		}
		http.SetCookie(w, &http.Cookie{
			Name:     auth.SessionCookie,
			Value:    "",
			Path:     "/",
			HttpOnly: true,
			Secure:   h.secureCookies,
			SameSite: http.SameSiteLaxMode,
			MaxAge:   -1,
		})
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Logged out",
	})
}

type createAdminRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// CreateAdmin bootstraps an admin account. Open by design so a fresh
// deployment can provision its first operator; serve warns on startup until
// one exists.
// POST /auth/create
func (h *AuthHandler) CreateAdmin(w http.ResponseWriter, r *http.Request) {
	var req createAdminRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Admin email and password are required")
		return
	}
	if len(req.Password) < 8 {
		writeError(w, http.StatusBadRequest, "Password must be at least 8 characters")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		h.logger.Error("create admin failed", "error", err,
			"request_id", middleware.GetRequestID(r.Context()))
		writeError(w, http.StatusInternalServerError, "Create admin failed")
		return
	}

	admin := &model.Admin{
		Email:        req.Email,
		PasswordHash: hash,
		Name:         req.Name,
		IsActive:     true,
	}

	if err := h.store.CreateAdmin(r.Context(), admin); err != nil {
		if errors.Is(err, store.ErrConflict) {
			writeError(w, http.StatusConflict, "Admin with this email already exists")
			return
		}
		h.logger.Error("create admin failed", "error", err,
			"request_id", middleware.GetRequestID(r.Context()))
		writeError(w, http.StatusInternalServerError, "Create admin failed")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"status": "success",
		"admin":  admin.Info(),
	})
}

// Check reports the caller's authentication state. It sits behind the gate,
// so reaching it means the artifact resolved; the client session manager
// calls it on load and after login to confirm the stored artifact works.
// GET /api/admin/check
func (h *AuthHandler) Check(w http.ResponseWriter, r *http.Request) {
	principal := middleware.GetPrincipal(r.Context())
	if principal == nil {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	writeJSON(w, http.StatusOK, model.CheckResponse{
		Status:          "success",
		IsAuthenticated: true,
		Admin:           &model.AdminInfo{ID: principal.AdminID, Email: principal.Email},
	})
}
