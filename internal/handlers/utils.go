package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/wargaid/apiserver/internal/services"
	"github.com/wargaid/apiserver/internal/store"
	"github.com/wargaid/apiserver/internal/validation"
	"github.com/wargaid/apiserver/types"
)

type contextKey string

const contextUserKey contextKey = "user"

// DataResponse is the success envelope: {"data": ...}.
type DataResponse struct {
	Data any `json:"data"`
}

// ErrorResponse is the failure envelope: {"errors": ...}. Errors is a
// field→message map for validation failures and a plain string otherwise.
type ErrorResponse struct {
	Errors any `json:"errors"`
}

func contextWithUser(ctx context.Context, user types.User) context.Context {
	return context.WithValue(ctx, contextUserKey, user)
}

func userFromContext(ctx context.Context) (types.User, error) {
	user, ok := ctx.Value(contextUserKey).(types.User)
	if !ok {
		return types.User{}, errors.New("no authenticated user")
	}
	return user, nil
}

func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

func writeData(w http.ResponseWriter, status int, value any) {
	writeJSON(w, status, DataResponse{Data: value})
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Errors: message})
}

// writeServiceError maps service error kinds to HTTP statuses: validation
// and duplicate-ID failures are 400, bad credentials 401, missing accounts
// 404, anything else an opaque 500.
func writeServiceError(w http.ResponseWriter, err error) {
	var validationErr *validation.Error
	switch {
	case errors.As(err, &validationErr):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Errors: validationErr.Fields})
	case errors.Is(err, services.ErrIDExists):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "user is not found")
	default:
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// Healthz reports liveness.
func Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
