package cli

import (
	"errors"
	"fmt"
	"math/big"
	"reflect"
	"slices"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/roach88/nosqlcore/internal/errs"
	"github.com/roach88/nosqlcore/internal/reader"
)

// ReadOptions holds flags for the read command.
type ReadOptions struct {
	*RootOptions
	Type string // target type name or capture, e.g. "int" or "slice<int>"
	Raw  bool   // keep the argument as a string instead of decoding it as YAML
}

// ReadResult is the outcome of one registry conversion.
type ReadResult struct {
	Target  string `json:"target" yaml:"target"`
	GoType  string `json:"go_type" yaml:"go_type"`
	Value   any    `json:"value" yaml:"value"`
	Display string `json:"display" yaml:"display"`
}

// scalarTypes names the targets accepted by --type and inside captures.
var scalarTypes = map[string]reflect.Type{
	"bool":     reflect.TypeFor[bool](),
	"string":   reflect.TypeFor[string](),
	"int":      reflect.TypeFor[int](),
	"int8":     reflect.TypeFor[int8](),
	"int16":    reflect.TypeFor[int16](),
	"int32":    reflect.TypeFor[int32](),
	"int64":    reflect.TypeFor[int64](),
	"uint":     reflect.TypeFor[uint](),
	"uint8":    reflect.TypeFor[uint8](),
	"uint16":   reflect.TypeFor[uint16](),
	"uint32":   reflect.TypeFor[uint32](),
	"uint64":   reflect.TypeFor[uint64](),
	"float32":  reflect.TypeFor[float32](),
	"float64":  reflect.TypeFor[float64](),
	"char":     reflect.TypeFor[reader.Char](),
	"duration": reflect.TypeFor[time.Duration](),
	"time":     reflect.TypeFor[time.Time](),
	"date":     reflect.TypeFor[civil.Date](),
	"datetime": reflect.TypeFor[civil.DateTime](),
	"bigint":   reflect.TypeFor[*big.Int](),
	"decimal":  reflect.TypeFor[decimal.Decimal](),
	"uuid":     reflect.TypeFor[uuid.UUID](),
}

// NewReadCommand creates the read command.
func NewReadCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReadOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "read --type <type> <value>",
		Short: "Convert a raw value with the reader registry",
		Long: `Convert a raw value to a target type with the reader registry.

The argument is decoded as YAML first, so 42 is a number, [1, 2] a list
and {a: 1} a mapping. Use --raw to keep it as a string.

Targets are scalar names (` + strings.Join(scalarTypeNames(), ", ") + `)
or containers: slice<T>, set<T>, map<K,V>.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRead(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Type, "type", "t", "", "target type")
	cmd.Flags().BoolVar(&opts.Raw, "raw", false, "do not decode the value as YAML")
	_ = cmd.MarkFlagRequired("type")

	return cmd
}

func runRead(opts *ReadOptions, arg string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	target, capture, err := ParseTarget(opts.Type)
	if err != nil {
		_ = formatter.Error(ErrCodeUnknownType, err.Error(), nil)
		return WrapExitError(ExitCommandError, ErrCodeUnknownType, err)
	}

	raw := any(arg)
	if !opts.Raw {
		if raw, err = decodeArgument(arg); err != nil {
			_ = formatter.Error(ErrCodeConversion, err.Error(), nil)
			return WrapExitError(ExitCommandError, ErrCodeConversion, err)
		}
	}
	formatter.VerboseLog("Reading %T %v as %s", raw, raw, opts.Type)

	registry := reader.Default()
	var out any
	if capture.IsZero() {
		out, err = registry.Read(target, raw)
	} else {
		out, err = registry.ReadCapture(capture, raw)
	}
	if err != nil {
		_ = formatter.Error(ErrCodeConversion, err.Error(), nil)
		code := ExitCommandError
		if errors.Is(err, errs.ErrUnsatisfiableConversion) {
			code = ExitFailure
		}
		return WrapExitError(code, ErrCodeConversion, err)
	}

	result := ReadResult{
		Target:  opts.Type,
		GoType:  reflect.TypeOf(out).String(),
		Value:   out,
		Display: fmt.Sprintf("%v", out),
	}
	if formatter.Structured() {
		return formatter.Success(result)
	}
	fmt.Fprintf(formatter.Writer, "%s (%s)\n", result.Display, result.GoType)
	return nil
}

// ParseTarget resolves a --type value. Exactly one of the results is set.
func ParseTarget(name string) (reflect.Type, reader.Capture, error) {
	name = strings.TrimSpace(name)
	open := strings.IndexByte(name, '<')
	if open < 0 {
		t, ok := scalarTypes[name]
		if !ok {
			return nil, reader.Capture{}, fmt.Errorf("unknown type %q", name)
		}
		return t, reader.Capture{}, nil
	}
	if !strings.HasSuffix(name, ">") {
		return nil, reader.Capture{}, fmt.Errorf("malformed container type %q", name)
	}

	kind, inner := name[:open], name[open+1:len(name)-1]
	switch kind {
	case "slice", "set":
		elem, ok := scalarTypes[strings.TrimSpace(inner)]
		if !ok {
			return nil, reader.Capture{}, fmt.Errorf("unknown element type %q", inner)
		}
		if kind == "slice" {
			return nil, reader.SliceOf(elem), nil
		}
		return nil, reader.SetOf(elem), nil
	case "map":
		k, v, ok := strings.Cut(inner, ",")
		if !ok {
			return nil, reader.Capture{}, fmt.Errorf("map type %q needs <key,value>", name)
		}
		key, ok := scalarTypes[strings.TrimSpace(k)]
		if !ok {
			return nil, reader.Capture{}, fmt.Errorf("unknown key type %q", k)
		}
		elem, ok := scalarTypes[strings.TrimSpace(v)]
		if !ok {
			return nil, reader.Capture{}, fmt.Errorf("unknown value type %q", v)
		}
		return nil, reader.MapOf(key, elem), nil
	}
	return nil, reader.Capture{}, fmt.Errorf("unknown container %q", kind)
}

// decodeArgument reads a command-line value as a YAML scalar, sequence or
// mapping. An empty argument stays an empty string.
func decodeArgument(arg string) (any, error) {
	if strings.TrimSpace(arg) == "" {
		return arg, nil
	}
	var v any
	if err := yaml.Unmarshal([]byte(arg), &v); err != nil {
		return nil, fmt.Errorf("decoding value: %w", err)
	}
	if v == nil {
		return nil, fmt.Errorf("value %q decodes to null", arg)
	}
	return v, nil
}

func scalarTypeNames() []string {
	names := make([]string, 0, len(scalarTypes))
	for name := range scalarTypes {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
