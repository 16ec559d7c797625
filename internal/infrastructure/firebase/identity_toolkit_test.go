package firebase

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"esekoir/internal/domain/service"
)

func toolkitServer(t *testing.T, handler func(method string, body map[string]interface{}) (int, interface{})) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		var body map[string]interface{}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		status, out := handler(r.URL.Path, body)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(out)
	}))
}

func TestSignInWithPassword(t *testing.T) {
	srv := toolkitServer(t, func(method string, body map[string]interface{}) (int, interface{}) {
		assert.Equal(t, "/accounts:signInWithPassword", method)
		if body["password"] != "secret123" {
			return http.StatusBadRequest, map[string]interface{}{
				"error": map[string]interface{}{"code": 400, "message": "INVALID_LOGIN_CREDENTIALS"},
			}
		}
		return http.StatusOK, map[string]interface{}{
			"localId":      "uid-1",
			"email":        body["email"],
			"idToken":      "id-token",
			"refreshToken": "refresh",
			"expiresIn":    "3600",
		}
	})
	defer srv.Close()

	tk := newIdentityToolkit(srv.URL, "test-key")
	ctx := context.Background()

	resp, err := tk.signInWithPassword(ctx, "a@b.dz", "secret123")
	require.NoError(t, err)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s := resp.session(now)
	assert.Equal(t, "uid-1", s.UserID)
	assert.Equal(t, "id-token", s.Token)
	assert.Equal(t, now.Add(time.Hour), s.ExpiresAt)

	_, err = tk.signInWithPassword(ctx, "a@b.dz", "wrong")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestSignInWithIdp(t *testing.T) {
	srv := toolkitServer(t, func(method string, body map[string]interface{}) (int, interface{}) {
		assert.Equal(t, "/accounts:signInWithIdp", method)
		assert.Equal(t, "id_token=google-token&providerId=google.com", body["postBody"])
		return http.StatusOK, map[string]interface{}{
			"localId":     "uid-2",
			"email":       "g@b.dz",
			"displayName": "Amine",
			"idToken":     "id-token",
			"isNewUser":   true,
		}
	})
	defer srv.Close()

	resp, err := newIdentityToolkit(srv.URL, "test-key").signInWithIdp(context.Background(), "google.com", "google-token")
	require.NoError(t, err)
	s := resp.session(time.Now())
	assert.True(t, s.IsNewUser)
	assert.Equal(t, "Amine", s.DisplayName)
}

func TestResetPasswordErrors(t *testing.T) {
	srv := toolkitServer(t, func(method string, body map[string]interface{}) (int, interface{}) {
		return http.StatusBadRequest, map[string]interface{}{
			"error": map[string]interface{}{"code": 400, "message": "EXPIRED_OOB_CODE"},
		}
	})
	defer srv.Close()

	err := newIdentityToolkit(srv.URL, "test-key").resetPassword(context.Background(), "code", "newpass123")
	assert.ErrorIs(t, err, service.ErrInvalidToken)
}

func TestToolkitRequiresAPIKey(t *testing.T) {
	_, err := newIdentityToolkit("http://127.0.0.1:1", "").signInWithPassword(context.Background(), "a@b.dz", "x")
	assert.Error(t, err)
}
