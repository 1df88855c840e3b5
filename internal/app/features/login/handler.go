// internal/app/features/login/handler.go

// Package login serves the session endpoints: password sign-in, sign-out,
// and the current-user lookup.
package login

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	userstore "github.com/dalemusser/collabhub/internal/app/store/users"
	"github.com/dalemusser/collabhub/internal/app/system/auth"
	"github.com/dalemusser/collabhub/internal/app/system/ratelimit"
	"github.com/dalemusser/collabhub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	Users   *userstore.Store
	Limiter *ratelimit.Limiter
	Log     *zap.Logger
}

func NewHandler(users *userstore.Store, limiter *ratelimit.Limiter, logger *zap.Logger) *Handler {
	return &Handler{
		Users:   users,
		Limiter: limiter,
		Log:     logger,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// HandleLogin handles POST /api/login. Valid credentials establish a session
// cookie; invalid ones get a uniform 401 so callers cannot distinguish an
// unknown email from a wrong password.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ip := ratelimit.ClientIP(r)
	if h.Limiter != nil && !h.Limiter.Allow(ip) {
		writeStatus(w, http.StatusTooManyRequests, "too many login attempts")
		return
	}

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeStatus(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		writeStatus(w, http.StatusBadRequest, "email and password are required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			writeStatus(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		h.Log.Error("login: user lookup failed", zap.Error(err))
		writeStatus(w, http.StatusInternalServerError, "internal error")
		return
	}
	if !h.Users.VerifyPassword(u, req.Password) {
		writeStatus(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	if err := auth.SignIn(w, r, auth.SessionUser{
		ID:    u.ID.Hex(),
		Name:  u.FullName,
		Email: u.Email,
		Role:  u.Role,
	}); err != nil {
		h.Log.Error("login: session save failed", zap.Error(err))
		writeStatus(w, http.StatusInternalServerError, "internal error")
		return
	}
	if h.Limiter != nil {
		h.Limiter.Reset(ip)
	}

	h.Log.Info("user signed in", zap.String("user_id", u.ID.Hex()))
	writeJSON(w, http.StatusOK, userResponse{
		ID:       u.ID.Hex(),
		FullName: u.FullName,
		Email:    u.Email,
		Role:     u.Role,
	})
}

// HandleLogout handles POST /api/logout.
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if err := auth.SignOut(w, r); err != nil {
		h.Log.Error("logout: session clear failed", zap.Error(err))
		writeStatus(w, http.StatusInternalServerError, "internal error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ServeCurrentUser handles GET /api/user.
func (h *Handler) ServeCurrentUser(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		writeStatus(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	writeJSON(w, http.StatusOK, userResponse{
		ID:       u.ID,
		FullName: u.Name,
		Email:    u.Email,
		Role:     u.Role,
	})
}

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeStatus(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: errorDetail{Code: status, Message: msg}})
}
