package settings

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/nosqlcore/internal/errs"
)

const sample = `
db:
  host: localhost
  port: 5432
  password: ENC(s3cret)
ports: [80, 443]
debug: true
empty: null
`

func TestParse_Flattens(t *testing.T) {
	s, err := Parse([]byte(sample))
	require.NoError(t, err)

	assert.Equal(t, []string{"db.host", "db.password", "db.port", "debug", "ports"}, s.Keys())
	assert.Equal(t, 5, s.Len())

	v, ok := s.Get("db.password")
	require.True(t, ok)
	assert.Equal(t, "ENC(s3cret)", v)

	v, ok = s.Resolve("db.password")
	require.True(t, ok)
	assert.Equal(t, "s3cret", v)

	_, ok = s.Resolve("nope")
	assert.False(t, ok)
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse([]byte("a: [unclosed"))
	assert.Error(t, err)
}

func TestAs(t *testing.T) {
	s, err := Parse([]byte(sample))
	require.NoError(t, err)

	port, err := As[int](s, "db.port")
	require.NoError(t, err)
	assert.Equal(t, 5432, port)

	pw, err := As[string](s, "db.password")
	require.NoError(t, err)
	assert.Equal(t, "s3cret", pw)

	ports, err := As[[]uint16](s, "ports")
	require.NoError(t, err)
	assert.Equal(t, []uint16{80, 443}, ports)

	_, err = As[int](s, "missing")
	assert.ErrorIs(t, err, ErrMissingKey)

	_, err = As[bool](s, "db.host")
	assert.ErrorIs(t, err, errs.ErrUnsatisfiableConversion)
}

func TestNew_Rejects(t *testing.T) {
	_, err := New(map[string]any{"": 1})
	assert.ErrorIs(t, err, errs.ErrNilArgument)

	_, err = New(map[string]any{"a": nil})
	assert.ErrorIs(t, err, errs.ErrNilArgument)
}

func TestNew_Copies(t *testing.T) {
	m := map[string]any{"a": 1}
	s, err := New(m)
	require.NoError(t, err)

	m["a"] = 2
	v, _ := s.Get("a")
	assert.Equal(t, 1, v)
}

func TestGet_ReturnsCopy(t *testing.T) {
	s, err := Parse([]byte(sample))
	require.NoError(t, err)

	ports, ok := s.Get("ports")
	require.True(t, ok)
	ports.([]any)[0] = 8080

	again, _ := s.Get("ports")
	assert.Equal(t, []any{80, 443}, again)

	resolved, _ := s.Resolve("ports")
	resolved.([]any)[1] = 8443
	again, _ = s.Resolve("ports")
	assert.Equal(t, []any{80, 443}, again)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o600))
	t.Setenv("NOSQLTEST_DB_HOST", "db.internal")

	s, err := Load(path, "NOSQLTEST_")
	require.NoError(t, err)

	host, err := As[string](s, "db.host")
	require.NoError(t, err)
	assert.Equal(t, "db.internal", host)

	pw, err := As[string](s, "db.password")
	require.NoError(t, err)
	assert.Equal(t, "s3cret", pw)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"), "")
	assert.Error(t, err)
}
