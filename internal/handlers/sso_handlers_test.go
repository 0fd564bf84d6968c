package handlers

import (
	"net/http"
	"strings"
	"testing"
)

func TestSSOEndpoints(t *testing.T) {
	env := setupTestEnv(t)

	t.Run("GET /api/auth/sso/google is rejected when disabled", func(t *testing.T) {
		resp := performRequest(t, env.app, http.MethodGet, "/api/auth/sso/google", nil, nil)
		body := decodeJSONMap(t, resp)
		assertStatus(t, resp, http.StatusBadRequest)
		assertEnvelopeError(t, body, "google oauth is not enabled")
	})

	t.Run("callback without a code redirects to the login page", func(t *testing.T) {
		resp := performRequest(t, env.app, http.MethodGet, "/api/auth/sso/google/callback", nil, nil)
		assertStatus(t, resp, http.StatusFound)

		location := resp.Header.Get("Location")
		if !strings.HasPrefix(location, "http://localhost:3001/login?error=") {
			t.Fatalf("expected an error redirect to the frontend, got %q", location)
		}
	})
}
