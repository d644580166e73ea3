package settings

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/nosqlcore/internal/errs"
)

func TestIsValid(t *testing.T) {
	tests := []struct {
		raw   string
		valid bool
	}{
		{"ENC(value)", true},
		{"ENC(a b c)", true},
		{"ENC(value);", false},
		{"ENC()", false},
		{"ENC(va;lue)", false},
		{"ENC(va)lue)", false},
		{" ENC(value)", false},
		{"enc(value)", false},
		{"value", false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.valid, IsValid(tt.raw))
		})
	}
}

func TestExtract(t *testing.T) {
	v, err := Extract("ENC(value)")
	require.NoError(t, err)
	assert.Equal(t, "value", v)

	_, err = Extract("ENC()")
	assert.ErrorIs(t, err, errs.ErrMalformedSecret)
}

func TestApply(t *testing.T) {
	assert.Equal(t, "value", Apply("ENC(value)", Settings{}))
	assert.Equal(t, "ENC(value);", Apply("ENC(value);", Settings{}))
	assert.Equal(t, "plain", Apply("plain", Settings{}))
	assert.Equal(t, 42, Apply(42, Settings{}))
	assert.Equal(t, []string{"ENC(x)"}, Apply([]string{"ENC(x)"}, Settings{}))
}

func TestRedact(t *testing.T) {
	assert.Equal(t, "***", redact("abcd"))
	assert.Equal(t, "pa...rd", redact("password"))
}
