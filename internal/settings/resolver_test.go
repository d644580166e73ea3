package settings

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingResolver struct{}

func (failingResolver) ResolveSecret(context.Context, string, Settings) (string, error) {
	return "", errors.New("unavailable")
}

func (failingResolver) Name() string { return "failing" }

func TestSecretReader_NoResolvers(t *testing.T) {
	r := NewSecretReader()

	v, err := r.Apply(context.Background(), "ENC(value)", Settings{})
	require.NoError(t, err)
	assert.Equal(t, "value", v)

	v, err = r.Apply(context.Background(), 7, Settings{})
	require.NoError(t, err)
	assert.Equal(t, 7, v)
}

func TestSecretReader_FirstSuccessWins(t *testing.T) {
	t.Setenv("APP_SECRET_DB_PASSWORD", "from-env")
	s, err := New(map[string]any{"db-password": "from-settings"})
	require.NoError(t, err)

	r := NewSecretReader(failingResolver{}, EnvResolver{Prefix: "APP_SECRET_"}, SettingsResolver{})
	v, err := r.Apply(context.Background(), "ENC(db-password)", s)
	require.NoError(t, err)
	assert.Equal(t, "from-env", v)

	r = NewSecretReader(SettingsResolver{})
	v, err = r.Apply(context.Background(), "ENC(db-password)", s)
	require.NoError(t, err)
	assert.Equal(t, "from-settings", v)
}

func TestSecretReader_AllFail(t *testing.T) {
	r := NewSecretReader(failingResolver{})

	_, err := r.Apply(context.Background(), "ENC(password)", Settings{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unavailable")
	assert.NotContains(t, err.Error(), "password")
}

func TestSecretReader_InvalidMarkerPassesThrough(t *testing.T) {
	r := NewSecretReader(failingResolver{})

	v, err := r.Apply(context.Background(), "ENC()", Settings{})
	require.NoError(t, err)
	assert.Equal(t, "ENC()", v)
}

func TestSettingsResolver_Rejects(t *testing.T) {
	s, err := New(map[string]any{"n": 1, "nested": "ENC(x)"})
	require.NoError(t, err)
	ctx := context.Background()

	_, err = SettingsResolver{}.ResolveSecret(ctx, "missing", s)
	assert.Error(t, err)
	_, err = SettingsResolver{}.ResolveSecret(ctx, "n", s)
	assert.Error(t, err)
	_, err = SettingsResolver{}.ResolveSecret(ctx, "nested", s)
	assert.Error(t, err)
}
