package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"

	"fieldlex-client/internal/config"
	"fieldlex-client/internal/logger"
	"fieldlex-client/internal/model"
	"fieldlex-client/internal/token"

	"github.com/rs/zerolog"
)

// Authenticator exchanges credentials for a bearer token and persists it
// through the token store. The login response's user payload is cached so
// the UI can show the profile while offline.
type Authenticator struct {
	exec        *Executor
	tokens      *token.Store
	endpoint    string
	profilePath string
	log         zerolog.Logger
}

func NewAuthenticator(cfg *config.Config, exec *Executor, tokens *token.Store) *Authenticator {
	return &Authenticator{
		exec:        exec,
		tokens:      tokens,
		endpoint:    cfg.Remote.AuthEndpoint,
		profilePath: cfg.ProfilePath(),
		log:         logger.Component("auth"),
	}
}

func (a *Authenticator) Login(ctx context.Context, email, password string) (*model.AuthResponse, error) {
	desc := &Descriptor{
		Method:   http.MethodPost,
		Path:     a.endpoint,
		JSONBody: model.AuthRequest{Email: email, Password: password},
	}

	env, err := a.exec.Execute(ctx, desc)
	if err != nil {
		return nil, err
	}

	var resp model.AuthResponse
	if err := env.Decode(&resp); err != nil {
		return nil, err
	}

	if err := a.tokens.Set(model.Token{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
	}); err != nil {
		return nil, err
	}

	a.cacheProfile(resp.User)

	a.log.Info().Str("user", resp.User.Email).Msg("Authenticated")
	return &resp, nil
}

// Logout drops the held credential and the cached profile.
func (a *Authenticator) Logout() error {
	if err := os.Remove(a.profilePath); err != nil && !os.IsNotExist(err) {
		a.log.Warn().Err(err).Msg("Failed to remove cached profile")
	}
	return a.tokens.Clear()
}

// CachedProfile returns the profile stored at last login, if any.
func (a *Authenticator) CachedProfile() (*model.UserProfile, bool) {
	data, err := os.ReadFile(a.profilePath)
	if err != nil {
		return nil, false
	}
	var p model.UserProfile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, false
	}
	return &p, true
}

func (a *Authenticator) cacheProfile(p model.UserProfile) {
	data, err := json.Marshal(p)
	if err != nil {
		return
	}
	if err := os.MkdirAll(filepath.Dir(a.profilePath), 0o700); err != nil {
		a.log.Warn().Err(err).Msg("Failed to create state dir for profile cache")
		return
	}
	if err := os.WriteFile(a.profilePath, data, 0o600); err != nil {
		a.log.Warn().Err(err).Msg("Failed to cache user profile")
	}
}
