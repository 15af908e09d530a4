package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/wargaid/apiserver/internal/services"
	"github.com/wargaid/apiserver/internal/store"
	"github.com/wargaid/apiserver/internal/validation"
)

// UserHandler provides the account HTTP endpoints.
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler constructs a UserHandler with the provided dependencies.
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// UserRouter registers account routes on the given router.
func UserRouter(r chi.Router, userService *services.UserService) {
	handler := NewUserHandler(userService)

	r.Post("/", handler.Register)
	r.Post("/login", handler.Login)
	r.Group(func(r chi.Router) {
		r.Use(handler.RequireAuth)
		r.Get("/current", handler.Current)
		r.Patch("/current", handler.Update)
		r.Delete("/logout", handler.Logout)
	})
}

// RequireAuth resolves the raw Authorization header value against stored
// session tokens and injects the account into the request context. The
// header is the token itself: no bearer-scheme parsing, no expiry.
func (h *UserHandler) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := r.Header.Get("Authorization")

		user, err := h.userService.Authenticate(r.Context(), token)
		if err != nil {
			var validationErr *validation.Error
			if errors.As(err, &validationErr) || errors.Is(err, store.ErrNotFound) {
				writeError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}

		ctx := contextWithUser(r.Context(), user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Register creates a new account.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req validation.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	profile, err := h.userService.Register(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeData(w, http.StatusOK, profile)
}

// Login verifies credentials and returns a fresh session token.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req validation.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	session, err := h.userService.Login(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeData(w, http.StatusOK, session)
}

// Current returns the authenticated account's profile.
func (h *UserHandler) Current(w http.ResponseWriter, r *http.Request) {
	user, err := userFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	profile, err := h.userService.Current(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeData(w, http.StatusOK, profile)
}

// Update applies a partial update to the authenticated account.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, err := userFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req validation.UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	profile, err := h.userService.Update(r.Context(), user.ID, req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeData(w, http.StatusOK, profile)
}

// Logout clears the authenticated account's session token.
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	user, err := userFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if err := h.userService.Logout(r.Context(), user.ID); err != nil {
		writeServiceError(w, err)
		return
	}

	writeData(w, http.StatusOK, "OK")
}
