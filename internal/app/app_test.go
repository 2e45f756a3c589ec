package app_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"teacher-service/internal/app"
	"teacher-service/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApp_RoutesWiredOverSQLite(t *testing.T) {
	cfg := &config.Config{
		Env:    "test",
		Server: config.ServerConfig{Port: "0"},
		Database: config.DatabaseConfig{
			Driver: "sqlite",
			Path:   filepath.Join(t.TempDir(), "app.db"),
		},
		Events: config.EventsConfig{Driver: "none"},
	}

	application, err := app.NewWithConfig(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = application.Shutdown(context.Background()) })

	handler := application.Handler()

	serve := func(method, path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		if body != "" {
			req.Header.Set("Content-Type", "application/json")
		}
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusOK, serve(http.MethodGet, "/health", "").Code)
	assert.Equal(t, http.StatusOK, serve(http.MethodGet, "/ready", "").Code)

	created := serve(http.MethodPost, "/api/teacher",
		`{"firstName":"Alex","lastName":"Morgan","employeeNumber":"T5005","hireDate":"2020-09-01","salary":65000}`)
	assert.Equal(t, http.StatusCreated, created.Code)

	list := serve(http.MethodGet, "/teachers", "")
	assert.Equal(t, http.StatusOK, list.Code)
	assert.Contains(t, list.Body.String(), "T5005")

	root := serve(http.MethodGet, "/", "")
	assert.Equal(t, http.StatusFound, root.Code)
	assert.Equal(t, "/teachers", root.Header().Get("Location"))
}
