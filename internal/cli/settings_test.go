package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const settingsYAML = `
db:
  host: localhost
  port: 5432
  password: ENC(db-password)
api:
  token: ENC(db.host)
`

func TestSettingsMasksSecrets(t *testing.T) {
	path := writeFile(t, "settings.yaml", settingsYAML)

	out, err := execute(NewSettingsCommand(&RootOptions{Format: "text"}), path)
	require.NoError(t, err)

	assert.Contains(t, out, "db.host = localhost")
	assert.Contains(t, out, "db.port = 5432")
	assert.Contains(t, out, "db.password = ENC(****)")
	assert.NotContains(t, out, "db-password")
}

func TestSettingsUnwrapWithoutResolvers(t *testing.T) {
	path := writeFile(t, "settings.yaml", settingsYAML)

	out, err := execute(NewSettingsCommand(&RootOptions{Format: "text"}), path, "--unwrap")
	require.NoError(t, err)
	assert.Contains(t, out, "db.password = db-password")
	assert.Contains(t, out, "api.token = db.host")
}

func TestSettingsUnwrapWithResolvers(t *testing.T) {
	t.Setenv("NOSQLTEST_SECRET_DB_PASSWORD", "hunter2")
	path := writeFile(t, "settings.yaml", settingsYAML)

	out, err := execute(NewSettingsCommand(&RootOptions{Format: "json"}), path,
		"--unwrap", "--resolver", "env,settings", "--secret-env-prefix", "NOSQLTEST_SECRET_")
	require.NoError(t, err)

	var resp struct {
		Status string         `json:"status"`
		Data   []SettingEntry `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))

	values := make(map[string]any)
	secrets := make(map[string]bool)
	for _, e := range resp.Data {
		values[e.Key] = e.Value
		secrets[e.Key] = e.Secret
	}
	assert.Equal(t, "hunter2", values["db.password"])
	assert.Equal(t, "localhost", values["api.token"])
	assert.True(t, secrets["db.password"])
	assert.False(t, secrets["db.host"])
}

func TestSettingsEnvOverlay(t *testing.T) {
	t.Setenv("NOSQLTEST_DB_HOST", "db.internal")
	path := writeFile(t, "settings.yaml", settingsYAML)

	out, err := execute(NewSettingsCommand(&RootOptions{Format: "text"}), path, "--env-prefix", "NOSQLTEST_")
	require.NoError(t, err)
	assert.Contains(t, out, "db.host = db.internal")
}

func TestSettingsErrors(t *testing.T) {
	path := writeFile(t, "settings.yaml", settingsYAML)

	testCases := []struct {
		name string
		args []string
	}{
		{"missing file", []string{"/nonexistent/settings.yaml"}},
		{"unknown resolver", []string{path, "--resolver", "vault"}},
		{"unresolvable secret", []string{path, "--unwrap", "--resolver", "env", "--secret-env-prefix", "NOSQLTEST_MISSING_"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := execute(NewSettingsCommand(&RootOptions{Format: "text"}), tc.args...)
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))
			assert.Contains(t, out, ErrCodeSettings)
		})
	}
}
