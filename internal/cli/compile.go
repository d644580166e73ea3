package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/nosqlcore/internal/compiler"
	"github.com/roach88/nosqlcore/internal/querysql"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	Output    string // output file path
	KeyColumn string // ORDER BY tiebreaker column
}

// CompiledDefinition is one descriptor with its SQL translation.
type CompiledDefinition struct {
	Name       string `json:"name" yaml:"name"`
	Collection string `json:"collection" yaml:"collection"`
	Descriptor string `json:"descriptor" yaml:"descriptor"`
	Hash       string `json:"hash" yaml:"hash"`
	SQL        string `json:"sql" yaml:"sql"`
	Params     []any  `json:"params" yaml:"params"`
}

// CompilationResult holds the compiled selects and deletes.
type CompilationResult struct {
	Queries []CompiledDefinition `json:"queries" yaml:"queries"`
	Deletes []CompiledDefinition `json:"deletes" yaml:"deletes"`
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile <path>",
		Short: "Compile CUE query definitions to descriptors and SQL",
		Long: `Compile CUE query definitions to query descriptors.

Each definition under query or delete becomes an immutable descriptor.
The output lists the descriptor, its content hash and the parameterized
SQLite statement a driver would run for it.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors - we handle our own error output
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file path")
	cmd.Flags().StringVar(&opts.KeyColumn, "key-column", "rowid", "ORDER BY tiebreaker column")

	return cmd
}

func runCompile(opts *CompileOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting structured output
		Verbose:   opts.Verbose,
	}

	loadResult, loadErrors := LoadDefinitions(path, LoadModeCollectAll)

	if loadResult == nil && len(loadErrors) > 0 {
		var loadErr *LoadError
		if errors.As(loadErrors[0], &loadErr) {
			return outputCompileError(formatter, loadErr.Code, loadErr.Message, nil)
		}
		return outputCompileError(formatter, ErrCodeGeneric, loadErrors[0].Error(), nil)
	}

	formatter.VerboseLog("Found %d CUE file(s) in %s", loadResult.FileCount, path)

	if len(loadErrors) > 0 {
		return outputCompileErrors(formatter, loadErrors)
	}

	result, err := translate(&loadResult.Bundle, &querysql.Compiler{KeyColumn: opts.KeyColumn}, formatter)
	if err != nil {
		return outputCompileError(formatter, ErrCodeInvalidDescriptor, err.Error(), nil)
	}

	if opts.Output != "" {
		if err := writeResultToFile(result, opts.Output); err != nil {
			return outputCompileError(formatter, ErrCodeWriteFailed, fmt.Sprintf("writing output file: %v", err), nil)
		}
	}

	return outputCompileSuccess(formatter, result, opts.Output)
}

// translate renders every definition of b through c.
func translate(b *compiler.Bundle, c *querysql.Compiler, formatter *OutputFormatter) (*CompilationResult, error) {
	result := &CompilationResult{
		Queries: []CompiledDefinition{},
		Deletes: []CompiledDefinition{},
	}

	for _, def := range b.Queries {
		formatter.VerboseLog("Compiling query: %s", def.Name)
		sql, params, err := c.Compile(def.Query)
		if err != nil {
			return nil, fmt.Errorf("query %s: %w", def.Name, err)
		}
		hash, err := def.Query.Hash()
		if err != nil {
			return nil, fmt.Errorf("query %s: %w", def.Name, err)
		}
		result.Queries = append(result.Queries, CompiledDefinition{
			Name:       def.Name,
			Collection: def.Query.Collection(),
			Descriptor: def.Query.String(),
			Hash:       hash,
			SQL:        sql,
			Params:     nonNil(params),
		})
	}

	for _, def := range b.Deletes {
		formatter.VerboseLog("Compiling delete: %s", def.Name)
		sql, params, err := c.CompileDelete(def.Delete)
		if err != nil {
			return nil, fmt.Errorf("delete %s: %w", def.Name, err)
		}
		hash, err := def.Delete.Hash()
		if err != nil {
			return nil, fmt.Errorf("delete %s: %w", def.Name, err)
		}
		result.Deletes = append(result.Deletes, CompiledDefinition{
			Name:       def.Name,
			Collection: def.Delete.Collection(),
			Descriptor: def.Delete.String(),
			Hash:       hash,
			SQL:        sql,
			Params:     nonNil(params),
		})
	}

	return result, nil
}

func nonNil(params []any) []any {
	if params == nil {
		return []any{}
	}
	return params
}

// outputCompileSuccess outputs successful compilation results.
func outputCompileSuccess(formatter *OutputFormatter, result *CompilationResult, outputFile string) error {
	if formatter.Structured() {
		return formatter.Success(result)
	}

	fmt.Fprintf(formatter.Writer, "✓ Compiled %d query(s), %d delete(s)\n\n",
		len(result.Queries), len(result.Deletes))

	writeSection := func(title string, defs []CompiledDefinition) {
		if len(defs) == 0 {
			return
		}
		fmt.Fprintln(formatter.Writer, title+":")
		for _, def := range defs {
			fmt.Fprintf(formatter.Writer, "  %s: %s\n", def.Name, def.Descriptor)
			fmt.Fprintf(formatter.Writer, "    sql:    %s\n", def.SQL)
			fmt.Fprintf(formatter.Writer, "    params: %v\n", def.Params)
		}
		fmt.Fprintln(formatter.Writer)
	}
	writeSection("Queries", result.Queries)
	writeSection("Deletes", result.Deletes)

	if outputFile != "" {
		fmt.Fprintf(formatter.Writer, "Wrote compiled definitions to %s\n", outputFile)
	}

	return nil
}

// outputCompileError outputs a single compilation error.
func outputCompileError(formatter *OutputFormatter, code, message string, details any) error {
	_ = formatter.Error(code, message, details)
	// Compilation errors are command-level errors (exit code 2)
	return WrapExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message), nil)
}

// outputCompileErrors outputs multiple compilation errors.
func outputCompileErrors(formatter *OutputFormatter, errs []error) error {
	if formatter.Structured() {
		cliErrors := make([]CLIError, len(errs))
		for i, err := range errs {
			code, message := parseCompileError(err)
			cliErrors[i] = CLIError{Code: code, Message: message}
		}

		response := CLIResponse{
			Status: "error",
			Error:  &cliErrors[0],
			Data:   cliErrors, // Include all errors in data
		}
		if err := formatter.Encode(response); err != nil {
			return err
		}

		return NewExitError(ExitCommandError, fmt.Sprintf("compilation failed with %d error(s)", len(errs)))
	}

	fmt.Fprintln(formatter.Writer, "✗ Compilation failed")
	fmt.Fprintln(formatter.Writer)

	for _, err := range errs {
		code, message := parseCompileError(err)
		var loadErr *LoadError
		if errors.As(err, &loadErr) {
			if loadErr.Pos.IsValid() {
				fmt.Fprintf(formatter.Writer, "%s:%d:%d\n",
					loadErr.Pos.Filename(),
					loadErr.Pos.Line(),
					loadErr.Pos.Column())
			}
			if loadErr.Definition != "" {
				message = loadErr.Definition + ": " + message
			}
		}
		fmt.Fprintf(formatter.Writer, "  %s: %s\n\n", code, message)
	}

	return NewExitError(ExitCommandError, fmt.Sprintf("compilation failed with %d error(s)", len(errs)))
}

// parseCompileError extracts error code and message from an error.
func parseCompileError(err error) (string, string) {
	var compileErr *compiler.CompileError
	if errors.As(err, &compileErr) {
		return MapFieldToErrorCode(compileErr.Field), compileErr.Message
	}
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		return loadErr.Code, loadErr.Message
	}
	return ErrCodeGeneric, err.Error()
}

// writeResultToFile writes the compilation result as indented JSON.
func writeResultToFile(result *CompilationResult, filename string) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling result: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("writing file: %w", err)
	}

	return nil
}
