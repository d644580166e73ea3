package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"
	"cuelang.org/go/cue/token"

	"github.com/roach88/nosqlcore/internal/compiler"
)

// LoadMode controls how errors are handled during definition loading.
type LoadMode int

const (
	// LoadModeFailFast stops on the first error encountered.
	LoadModeFailFast LoadMode = iota
	// LoadModeCollectAll collects all errors before returning.
	LoadModeCollectAll
)

// LoadResult contains the definitions loaded from a file or directory.
type LoadResult struct {
	Bundle    compiler.Bundle
	CUEValue  cue.Value // The raw CUE value for additional processing
	FileCount int       // Number of CUE files found
}

// LoadError represents an error that occurred during definition loading.
type LoadError struct {
	Code       string
	Message    string
	Definition string
	Pos        token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// LoadDefinitions loads and compiles CUE query definitions from a single
// .cue file or from every .cue file of a directory.
// If mode is LoadModeFailFast, returns on first error.
// If mode is LoadModeCollectAll, collects all errors.
func LoadDefinitions(path string, mode LoadMode) (*LoadResult, []error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("path not found: %s", path)}}
	}
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing path: %v", err)}}
	}

	var (
		value     cue.Value
		fileCount int
	)
	if info.IsDir() {
		value, fileCount, err = buildDir(path)
	} else {
		value, err = buildFile(path)
		fileCount = 1
	}
	if err != nil {
		return nil, []error{err}
	}

	slog.Debug("definitions loaded", "path", path, "files", fileCount)

	result := &LoadResult{CUEValue: value, FileCount: fileCount}
	var errs []error

	collect := func(section string, each func(name string, v cue.Value) error) bool {
		sv := value.LookupPath(cue.ParsePath(section))
		if !sv.Exists() {
			return true
		}
		iter, iterErr := sv.Fields()
		if iterErr != nil {
			errs = append(errs, &LoadError{Code: ErrCodeGeneric, Message: fmt.Sprintf("iterating %s: %v", section, iterErr)})
			return mode != LoadModeFailFast
		}
		for iter.Next() {
			name := iter.Selector().Unquoted()
			if err := each(name, iter.Value()); err != nil {
				errs = append(errs, convertCompileError(err, section+"."+name))
				if mode == LoadModeFailFast {
					return false
				}
			}
		}
		return true
	}

	ok := collect("query", func(name string, v cue.Value) error {
		def, err := compiler.CompileQuery(v)
		if err != nil {
			return err
		}
		slog.Debug("compiled query", "name", name, "collection", def.Query.Collection())
		result.Bundle.Queries = append(result.Bundle.Queries, *def)
		return nil
	})
	if !ok {
		return result, errs
	}

	collect("delete", func(name string, v cue.Value) error {
		def, err := compiler.CompileDelete(v)
		if err != nil {
			return err
		}
		slog.Debug("compiled delete", "name", name, "collection", def.Delete.Collection())
		result.Bundle.Deletes = append(result.Bundle.Deletes, *def)
		return nil
	})

	if len(result.Bundle.Queries) == 0 && len(result.Bundle.Deletes) == 0 && len(errs) == 0 {
		errs = append(errs, &LoadError{Code: ErrCodeNoDefinitions, Message: "no query or delete definitions found"})
	}

	return result, errs
}

func buildDir(dir string) (cue.Value, int, error) {
	cueFiles, err := FindCUEFiles(dir)
	if err != nil {
		return cue.Value{}, 0, &LoadError{Code: ErrCodeScanError, Message: fmt.Sprintf("error scanning directory: %v", err)}
	}
	if len(cueFiles) == 0 {
		return cue.Value{}, 0, &LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no CUE files found in %s", dir)}
	}

	instances := load.Instances([]string{"."}, &load.Config{Dir: dir})
	if len(instances) == 0 {
		return cue.Value{}, 0, &LoadError{Code: ErrCodeLoadFailed, Message: "no CUE instances loaded"}
	}
	inst := instances[0]
	if inst.Err != nil {
		return cue.Value{}, 0, &LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("loading CUE files: %v", inst.Err)}
	}

	value := cuecontext.New().BuildInstance(inst)
	if err := value.Err(); err != nil {
		return cue.Value{}, 0, &LoadError{Code: ErrCodeBuildFailed, Message: fmt.Sprintf("building CUE value: %v", err)}
	}
	return value, len(cueFiles), nil
}

func buildFile(path string) (cue.Value, error) {
	if filepath.Ext(path) != ".cue" {
		return cue.Value{}, &LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("not a CUE file: %s", path)}
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return cue.Value{}, &LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("reading %s: %v", path, err)}
	}

	value := cuecontext.New().CompileBytes(src, cue.Filename(path))
	if err := value.Err(); err != nil {
		return cue.Value{}, &LoadError{Code: ErrCodeBuildFailed, Message: fmt.Sprintf("building CUE value: %v", err)}
	}
	return value, nil
}

// FindCUEFiles walks the directory and returns all .cue file paths.
func FindCUEFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && filepath.Ext(path) == ".cue" {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

// convertCompileError converts a compiler error to a LoadError with position info.
func convertCompileError(err error, definition string) *LoadError {
	var compileErr *compiler.CompileError
	if errors.As(err, &compileErr) {
		return &LoadError{
			Code:       MapFieldToErrorCode(compileErr.Field),
			Message:    compileErr.Message,
			Definition: definition,
			Pos:        compileErr.Pos,
		}
	}
	return &LoadError{
		Code:       ErrCodeGeneric,
		Message:    fmt.Sprintf("%s: %v", definition, err),
		Definition: definition,
	}
}

// Error code constants - unified across all CLI commands.
const (
	ErrCodeGeneric       = "E001" // Generic/unknown error
	ErrCodeScanError     = "E002" // Directory scan error
	ErrCodeNoFiles       = "E003" // No CUE files found
	ErrCodeLoadFailed    = "E004" // CUE load failed
	ErrCodeNotFound      = "E005" // Path not found
	ErrCodeBuildFailed   = "E006" // CUE build failed
	ErrCodeWriteFailed   = "E007" // File write error
	ErrCodeNoDefinitions = "E008" // No query or delete definitions

	// Definition errors
	ErrCodeMissingCollection = "E101" // from is missing
	ErrCodeInvalidCondition  = "E102" // where clause cannot become a condition
	ErrCodeInvalidOrder      = "E103" // orderBy entry or direction is invalid
	ErrCodeInvalidOperand    = "E104" // operand kind is not supported
	ErrCodeInvalidDescriptor = "E105" // descriptor construction rejected the definition
	ErrCodeInvalidProjection = "E106" // select or fields is not a list of strings
	ErrCodeCUE               = "E107" // CUE evaluation error

	// Command errors
	ErrCodeSettings    = "E301" // settings file cannot be loaded or resolved
	ErrCodeUnknownType = "E302" // read target type is not known
	ErrCodeConversion  = "E303" // registry cannot satisfy the conversion
)

// MapFieldToErrorCode maps a compiler error field to an error code.
func MapFieldToErrorCode(field string) string {
	switch field {
	case "from":
		return ErrCodeMissingCollection
	case "condition", "not", "and", "or", "eq", "gt", "gte", "lt", "lte", "like", "between", "in":
		return ErrCodeInvalidCondition
	case "orderBy", "direction", "field":
		return ErrCodeInvalidOrder
	case "operand":
		return ErrCodeInvalidOperand
	case "query", "delete":
		return ErrCodeInvalidDescriptor
	case "select", "fields":
		return ErrCodeInvalidProjection
	case "cue":
		return ErrCodeCUE
	default:
		return ErrCodeGeneric
	}
}
