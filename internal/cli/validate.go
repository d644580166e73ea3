package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/nosqlcore/internal/compiler"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid    bool                       `json:"valid" yaml:"valid"`
	Errors   []compiler.ValidationError `json:"errors,omitempty" yaml:"errors,omitempty"`
	Warnings []compiler.ValidationError `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <path>",
		Short: "Validate query definitions without SQL translation",
		Long: `Validate CUE query definitions.

Every definition is compiled to a descriptor and checked for duplicate
sort fields, name collisions, unordered paging, suspicious conditions
and unconditional deletes. Warnings do not fail validation.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	loadResult, loadErrors := LoadDefinitions(path, LoadModeCollectAll)

	if loadResult == nil && len(loadErrors) > 0 {
		var loadErr *LoadError
		if errors.As(loadErrors[0], &loadErr) {
			return outputValidateError(formatter, loadErr.Code, loadErr.Message, nil)
		}
		return outputValidateError(formatter, ErrCodeGeneric, loadErrors[0].Error(), nil)
	}

	formatter.VerboseLog("Found %d CUE file(s) in %s", loadResult.FileCount, path)

	findings := validateAll(loadResult, loadErrors, formatter)
	return outputValidation(formatter, splitFindings(findings))
}

// validateAll merges load errors with the bundle validator's findings.
func validateAll(loadResult *LoadResult, loadErrors []error, formatter *OutputFormatter) []compiler.ValidationError {
	var all []compiler.ValidationError

	for _, err := range loadErrors {
		code, message := parseCompileError(err)
		finding := compiler.ValidationError{Field: "load", Message: message, Code: code}
		var loadErr *LoadError
		if errors.As(err, &loadErr) {
			finding.Definition = loadErr.Definition
			if loadErr.Pos.IsValid() {
				finding.Field = fmt.Sprintf("line %d", loadErr.Pos.Line())
			}
		}
		all = append(all, finding)
	}

	for _, def := range loadResult.Bundle.Queries {
		formatter.VerboseLog("Validating query: %s", def.Name)
	}
	for _, def := range loadResult.Bundle.Deletes {
		formatter.VerboseLog("Validating delete: %s", def.Name)
	}

	return append(all, compiler.Validate(&loadResult.Bundle)...)
}

func splitFindings(findings []compiler.ValidationError) ValidationResult {
	result := ValidationResult{}
	for _, f := range findings {
		if f.IsWarning() {
			result.Warnings = append(result.Warnings, f)
		} else {
			result.Errors = append(result.Errors, f)
		}
	}
	result.Valid = len(result.Errors) == 0
	return result
}

// outputValidation reports the result. Errors fail with exit code 1.
func outputValidation(formatter *OutputFormatter, result ValidationResult) error {
	if formatter.Structured() {
		response := CLIResponse{Status: "ok", Data: result}
		if !result.Valid {
			response.Status = "error"
			response.Error = &CLIError{
				Code:    result.Errors[0].Code,
				Message: result.Errors[0].Message,
			}
		}
		if err := formatter.Encode(response); err != nil {
			return err
		}
	} else {
		writeFindings(formatter.Writer, result)
	}

	if !result.Valid {
		// Validation failures = exit code 1
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(result.Errors)))
	}
	return nil
}

func writeFindings(w io.Writer, result ValidationResult) {
	if result.Valid {
		fmt.Fprintln(w, "✓ All definitions valid")
	} else {
		fmt.Fprintln(w, "✗ Validation failed")
	}

	if len(result.Errors)+len(result.Warnings) > 0 {
		fmt.Fprintln(w)
	}
	for _, f := range result.Errors {
		fmt.Fprintf(w, "  %s\n", f.Error())
	}
	for _, f := range result.Warnings {
		fmt.Fprintf(w, "  warning %s\n", f.Error())
	}
}

// outputValidateError outputs a single validation error.
func outputValidateError(formatter *OutputFormatter, code, message string, details any) error {
	_ = formatter.Error(code, message, details)
	// Validation errors are command-level errors (exit code 2)
	return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message))
}

// ValidatePath validates all definitions under path.
// This is a helper function for external callers.
func ValidatePath(path string) ([]compiler.ValidationError, error) {
	loadResult, loadErrors := LoadDefinitions(path, LoadModeCollectAll)
	if loadResult == nil && len(loadErrors) > 0 {
		return nil, loadErrors[0]
	}

	silent := &OutputFormatter{Format: "text", Writer: io.Discard}
	return validateAll(loadResult, loadErrors, silent), nil
}
