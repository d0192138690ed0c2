package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"fieldlex-client/internal/config"
	"fieldlex-client/internal/model"
	"fieldlex-client/internal/token"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginStoresTokenAndCachesProfile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/v1/auth/login", r.URL.Path)

		var req model.AuthRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "worker@example.org", req.Email)

		json.NewEncoder(w).Encode(model.AuthResponse{
			User:         model.UserProfile{ID: "u-1", Email: req.Email, Name: "Field Worker"},
			AccessToken:  "acc-1",
			RefreshToken: "ref-1",
		})
	}))
	defer srv.Close()

	cfg := &config.Config{}
	cfg.State.Dir = t.TempDir()
	cfg.Remote.BaseURL = srv.URL
	cfg.Remote.AuthEndpoint = "/api/v1/auth/login"
	cfg.Remote.Timeout = 2 * time.Second
	cfg.Remote.RetryAttempts = 1
	cfg.Remote.RetryDelay = time.Millisecond

	tokens := token.NewStore(cfg.TokenPath())
	auth := NewAuthenticator(cfg, NewExecutor(cfg, tokens), tokens)

	resp, err := auth.Login(context.Background(), "worker@example.org", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, "u-1", resp.User.ID)

	got, held := tokens.Get()
	require.True(t, held)
	assert.Equal(t, "acc-1", got.AccessToken)
	assert.Equal(t, "ref-1", got.RefreshToken)

	profile, ok := auth.CachedProfile()
	require.True(t, ok)
	assert.Equal(t, "Field Worker", profile.Name)

	require.NoError(t, auth.Logout())
	_, held = tokens.Get()
	assert.False(t, held)
	_, ok = auth.CachedProfile()
	assert.False(t, ok)
}
