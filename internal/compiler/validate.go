package compiler

import (
	"fmt"

	"github.com/roach88/nosqlcore/internal/condition"
)

// Validation codes. E2xx findings make a definition unusable; W2xx
// findings are legal but usually mistakes.
const (
	// ErrDuplicateSort: the same field is sorted twice.
	ErrDuplicateSort = "E201"

	// ErrNameCollision: a query and a delete share a name.
	ErrNameCollision = "E202"

	// WarnUnorderedPage: skip or limit without orderBy pages by storage order.
	WarnUnorderedPage = "W201"

	// WarnCondition: the condition linter raised a finding.
	WarnCondition = "W202"

	// WarnDeleteAll: a delete without where matches every entity.
	WarnDeleteAll = "W203"
)

// ValidationError describes one finding.
type ValidationError struct {
	Definition string `json:"definition" yaml:"definition"`
	Field      string `json:"field" yaml:"field"`
	Message    string `json:"message" yaml:"message"`
	Code       string `json:"code" yaml:"code"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s: %s", e.Code, e.Definition, e.Field, e.Message)
}

// IsWarning reports whether the finding is advisory.
func (e ValidationError) IsWarning() bool {
	return len(e.Code) > 0 && e.Code[0] == 'W'
}

// Validate checks every definition in b.
// Returns all findings (does not fail-fast).
func Validate(b *Bundle) []ValidationError {
	var errs []ValidationError

	queryNames := make(map[string]bool)
	for _, def := range b.Queries {
		queryNames[def.Name] = true
		q := def.Query

		seen := make(map[string]bool)
		for i, s := range q.Sorts() {
			// E201: duplicate sort field
			if seen[s.Field()] {
				errs = append(errs, ValidationError{
					Definition: def.Name,
					Field:      fmt.Sprintf("orderBy[%d]", i),
					Message:    fmt.Sprintf("field %q is already sorted", s.Field()),
					Code:       ErrDuplicateSort,
				})
			}
			seen[s.Field()] = true
		}

		// W201: paging without order
		if len(q.Sorts()) == 0 && (q.FirstResult() > 0 || q.MaxResults() > 0) {
			errs = append(errs, ValidationError{
				Definition: def.Name,
				Field:      "orderBy",
				Message:    "skip/limit without orderBy pages in storage order",
				Code:       WarnUnorderedPage,
			})
		}

		if c, ok := q.Condition(); ok {
			errs = append(errs, lint(def.Name, c)...)
		}
	}

	for _, def := range b.Deletes {
		// E202: name shared with a query
		if queryNames[def.Name] {
			errs = append(errs, ValidationError{
				Definition: def.Name,
				Field:      "name",
				Message:    "a query with the same name exists",
				Code:       ErrNameCollision,
			})
		}

		c, ok := def.Delete.Condition()
		if !ok {
			// W203: unconditional delete
			errs = append(errs, ValidationError{
				Definition: def.Name,
				Field:      "where",
				Message:    "delete without where matches every entity",
				Code:       WarnDeleteAll,
			})
			continue
		}
		errs = append(errs, lint(def.Name, c)...)
	}

	return errs
}

func lint(name string, c condition.Condition) []ValidationError {
	var errs []ValidationError
	for _, w := range condition.Validate(c).Warnings {
		errs = append(errs, ValidationError{
			Definition: name,
			Field:      "where",
			Message:    w,
			Code:       WarnCondition,
		})
	}
	return errs
}
