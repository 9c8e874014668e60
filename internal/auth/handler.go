package auth

import (
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/jewisonj/Purina-Tracker/internal/platform/httpx"
)

// Handler wires the login endpoint.
type Handler struct {
	logger     *slog.Logger
	service    *Service
	expiryDays int
}

// NewHandler constructs an auth handler.
func NewHandler(logger *slog.Logger, service *Service, expiryDays int) *Handler {
	return &Handler{logger: logger, service: service, expiryDays: expiryDays}
}

// MountRoutes registers auth routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/auth/login", h.login)
}

type loginRequest struct {
	PIN string `json:"pin"`
}

type loginResponse struct {
	Token         string `json:"token"`
	Role          string `json:"role"`
	ExpiresInDays int    `json:"expires_in_days"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "malformed JSON body")
		return
	}
	token, err := h.service.Login(r.Context(), req.PIN, clientIP(r))
	switch {
	case errors.Is(err, ErrTooManyAttempts):
		httpx.Problem(w, http.StatusTooManyRequests, "Too Many Attempts", "try again later")
		return
	case errors.Is(err, ErrInvalidPIN):
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "invalid PIN")
		return
	case err != nil:
		h.logger.Error("login failed", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	httpx.JSON(w, http.StatusOK, loginResponse{Token: token, Role: "user", ExpiresInDays: h.expiryDays})
}

// RequireAuth rejects requests without a valid bearer token.
func (h *Handler) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "bearer token required")
			return
		}
		if _, err := h.service.Verify(token); err != nil {
			httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "invalid or expired token")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP trusts RealIP middleware to have normalised RemoteAddr.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
