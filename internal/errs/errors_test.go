package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNilArgument_MatchesSentinel(t *testing.T) {
	err := NilArgument("field")

	assert.ErrorIs(t, err, ErrNilArgument)
	assert.NotErrorIs(t, err, ErrStructural)
	assert.Equal(t, "NIL_ARGUMENT: field is required", err.Error())
}

func TestWrapped_StillMatches(t *testing.T) {
	err := fmt.Errorf("build query: %w", Structural("values", "must not be empty"))

	assert.ErrorIs(t, err, ErrStructural)
	assert.Equal(t, CodeStructural, CodeOf(err))
}

func TestUnsatisfiable_CarriesCause(t *testing.T) {
	cause := errors.New("overflow")
	err := Unsatisfiable("int8", "int64", cause)

	assert.ErrorIs(t, err, ErrUnsatisfiableConversion)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "cannot convert int64 to int8")
}

func TestSpecificErrorsDoNotMatchEachOther(t *testing.T) {
	a := NilArgument("a")
	b := NilArgument("b")

	// Non-sentinel targets only match themselves.
	assert.False(t, errors.Is(a, b))
	assert.True(t, errors.Is(a, a))
}

func TestCodeOf_ForeignError(t *testing.T) {
	assert.Equal(t, Code(""), CodeOf(errors.New("plain")))
}

func TestMalformedSecret(t *testing.T) {
	err := MalformedSecret("ENC()")
	assert.ErrorIs(t, err, ErrMalformedSecret)
}
