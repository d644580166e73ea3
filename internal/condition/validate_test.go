package condition

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_Clean(t *testing.T) {
	c := Must(And(Must(Like("name", "Ada%")), Must(Between("age", 10, 20))))

	result := Validate(c)

	assert.True(t, result.Clean)
	assert.Empty(t, result.Warnings)
}

func TestValidate_Findings(t *testing.T) {
	tests := []struct {
		name     string
		cond     Condition
		contains string
	}{
		{"double negation", Must(Negate(Must(Negate(Must(Eq("a", 1)))))), "double negation"},
		{"single in", Must(In("age", []int{1})), "single value"},
		{"like without wildcard", Must(Like("name", "Ada")), "no wildcard"},
		{"reversed bounds", Must(Between("age", 20, 10)), "above upper bound"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Validate(tt.cond)
			assert.False(t, result.Clean)
			require.Len(t, result.Warnings, 1)
			assert.Contains(t, result.Warnings[0], tt.contains)
		})
	}
}

func TestValidate_NonNumericBoundsIgnored(t *testing.T) {
	result := Validate(Must(Between("name", "b", "a")))
	assert.True(t, result.Clean)
}
