package token

import (
	"path/filepath"
	"testing"

	"fieldlex-client/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")

	s := NewStore(path)
	_, held := s.Get()
	assert.False(t, held)

	require.NoError(t, s.Set(model.Token{AccessToken: "acc", RefreshToken: "ref"}))

	got, held := s.Get()
	require.True(t, held)
	assert.Equal(t, "acc", got.AccessToken)
	assert.Equal(t, "ref", got.RefreshToken)
}

func TestStorePersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")

	require.NoError(t, NewStore(path).Set(model.Token{AccessToken: "acc"}))

	got, held := NewStore(path).Get()
	require.True(t, held)
	assert.Equal(t, "acc", got.AccessToken)
}

func TestClearDropsTokenAndFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")

	s := NewStore(path)
	require.NoError(t, s.Set(model.Token{AccessToken: "acc"}))
	require.NoError(t, s.Clear())

	_, held := s.Get()
	assert.False(t, held)

	// A fresh instance must not resurrect the credential.
	_, held = NewStore(path).Get()
	assert.False(t, held)

	// Clearing an already empty store is fine.
	require.NoError(t, s.Clear())
}
