package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wargaid/apiserver/internal/services"
	"github.com/wargaid/apiserver/internal/store"
	"golang.org/x/crypto/bcrypt"
)

type envelope struct {
	Data   json.RawMessage `json:"data"`
	Errors json.RawMessage `json:"errors"`
}

func newTestRouter(t *testing.T) (*chi.Mux, *store.InMemUserRepository) {
	t.Helper()
	repo := store.NewInMemUserRepository()
	svc := services.NewUserService(repo, bcrypt.MinCost, nil)

	router := chi.NewRouter()
	router.Get("/healthz", Healthz)
	router.Route("/users", func(r chi.Router) {
		UserRouter(r, svc)
	})
	return router, repo
}

func do(t *testing.T, router http.Handler, method, path, token, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return rec, env
}

func decodeProfile(t *testing.T, data json.RawMessage) map[string]any {
	t.Helper()
	var profile map[string]any
	require.NoError(t, json.Unmarshal(data, &profile))
	return profile
}

func TestAccountLifecycle(t *testing.T) {
	router, _ := newTestRouter(t)

	// Register.
	rec, env := do(t, router, http.MethodPost, "/users", "", `{"ID":9699,"NIK":21221,"name":"Izanami"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	profile := decodeProfile(t, env.Data)
	assert.Equal(t, float64(9699), profile["ID"])
	assert.Equal(t, "Izanami", profile["name"])
	assert.NotContains(t, profile, "NIK")
	assert.NotContains(t, rec.Body.String(), "21221")

	// Duplicate ID is a 400, not a 409.
	rec, env = do(t, router, http.MethodPost, "/users", "", `{"ID":9699,"NIK":21221,"name":"Izanami"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NotEmpty(t, env.Errors)

	// Login.
	rec, env = do(t, router, http.MethodPost, "/users/login", "", `{"ID":9699,"NIK":21221}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var session struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &session))
	require.NotEmpty(t, session.Token)

	// Current user via the raw Authorization header.
	rec, env = do(t, router, http.MethodGet, "/users/current", session.Token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	profile = decodeProfile(t, env.Data)
	assert.Equal(t, float64(9699), profile["ID"])
	assert.Equal(t, "Izanami", profile["name"])

	// Logout, then the stale token no longer authenticates.
	rec, env = do(t, router, http.MethodDelete, "/users/logout", session.Token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var ok string
	require.NoError(t, json.Unmarshal(env.Data, &ok))
	assert.Equal(t, "OK", ok)

	rec, _ = do(t, router, http.MethodGet, "/users/current", session.Token, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRegisterValidation(t *testing.T) {
	router, _ := newTestRouter(t)

	rec, env := do(t, router, http.MethodPost, "/users", "", `{"ID":"","NIK":"","name":""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var fields map[string]string
	require.NoError(t, json.Unmarshal(env.Errors, &fields))
	assert.Contains(t, fields, "ID")
	assert.Contains(t, fields, "NIK")
	assert.Contains(t, fields, "name")
}

func TestRegisterMalformedBody(t *testing.T) {
	router, _ := newTestRouter(t)

	rec, _ := do(t, router, http.MethodPost, "/users", "", `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLoginFailures(t *testing.T) {
	router, _ := newTestRouter(t)

	rec, _ := do(t, router, http.MethodPost, "/users", "", `{"ID":9699,"NIK":21221,"name":"Izanami"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	// Unknown ID and wrong NIK produce the same response.
	recUnknown, envUnknown := do(t, router, http.MethodPost, "/users/login", "", `{"ID":1,"NIK":21221}`)
	recWrong, envWrong := do(t, router, http.MethodPost, "/users/login", "", `{"ID":9699,"NIK":99999}`)
	assert.Equal(t, http.StatusUnauthorized, recUnknown.Code)
	assert.Equal(t, http.StatusUnauthorized, recWrong.Code)
	assert.Equal(t, string(envUnknown.Errors), string(envWrong.Errors))

	// Malformed credentials fail validation instead.
	rec, _ = do(t, router, http.MethodPost, "/users/login", "", `{"ID":"","NIK":""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateCurrent(t *testing.T) {
	router, repo := newTestRouter(t)

	rec, _ := do(t, router, http.MethodPost, "/users", "", `{"ID":9699,"NIK":21221,"name":"Izanami"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	rec, env := do(t, router, http.MethodPost, "/users/login", "", `{"ID":9699,"NIK":21221}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var session struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &session))

	rec, env = do(t, router, http.MethodPatch, "/users/current", session.Token, `{"name":"Amaterasu","NIK":321321}`)
	require.Equal(t, http.StatusOK, rec.Code)
	profile := decodeProfile(t, env.Data)
	assert.Equal(t, "Amaterasu", profile["name"])

	stored, err := repo.GetByID(context.Background(), 9699)
	require.NoError(t, err)
	assert.Equal(t, "Amaterasu", stored.Name)

	// Empty patch is a validation error.
	rec, _ = do(t, router, http.MethodPatch, "/users/current", session.Token, `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Wrong token is a 401 before any validation of the body.
	rec, _ = do(t, router, http.MethodPatch, "/users/current", "salah", `{}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthRequired(t *testing.T) {
	router, _ := newTestRouter(t)

	for _, tc := range []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/users/current"},
		{http.MethodPatch, "/users/current"},
		{http.MethodDelete, "/users/logout"},
	} {
		rec, _ := do(t, router, tc.method, tc.path, "", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s without token", tc.method, tc.path)

		rec, _ = do(t, router, tc.method, tc.path, "salah", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s with unknown token", tc.method, tc.path)
	}
}

func TestHealthz(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
