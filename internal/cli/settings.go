package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/nosqlcore/internal/settings"
)

// SettingsOptions holds flags for the settings command.
type SettingsOptions struct {
	*RootOptions
	EnvPrefix       string   // environment overlay prefix, e.g. APP_
	Unwrap          bool     // show secret payloads instead of masking them
	Resolvers       []string // resolver chain used with --unwrap
	SecretEnvPrefix string   // prefix for the env resolver
}

// SettingEntry is one key of a settings view.
type SettingEntry struct {
	Key    string `json:"key" yaml:"key"`
	Value  any    `json:"value" yaml:"value"`
	Secret bool   `json:"secret" yaml:"secret"`
}

const maskedSecret = "ENC(****)"

// NewSettingsCommand creates the settings command.
func NewSettingsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SettingsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "settings <file>",
		Short: "Show a settings file with secrets masked or resolved",
		Long: `Load a settings file (YAML, JSON, TOML or any format viper reads) and
print its flattened keys.

Values written as ENC(payload) are secret markers. They are masked
unless --unwrap is given; with --unwrap each payload goes through the
--resolver chain (env, settings), or is shown as-is without resolvers.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSettings(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.EnvPrefix, "env-prefix", "", "overlay environment variables with this prefix")
	cmd.Flags().BoolVar(&opts.Unwrap, "unwrap", false, "show secret values")
	cmd.Flags().StringSliceVar(&opts.Resolvers, "resolver", nil, "secret resolvers to try in order (env|settings)")
	cmd.Flags().StringVar(&opts.SecretEnvPrefix, "secret-env-prefix", "", "prefix for the env resolver")

	return cmd
}

func runSettings(opts *SettingsOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	secretReader, err := buildSecretReader(opts)
	if err != nil {
		_ = formatter.Error(ErrCodeSettings, err.Error(), nil)
		return WrapExitError(ExitCommandError, ErrCodeSettings, err)
	}

	s, err := settings.Load(path, opts.EnvPrefix)
	if err != nil {
		_ = formatter.Error(ErrCodeSettings, err.Error(), nil)
		return WrapExitError(ExitCommandError, ErrCodeSettings, err)
	}
	formatter.VerboseLog("Loaded %d setting(s) from %s", s.Len(), path)

	entries := make([]SettingEntry, 0, s.Len())
	for _, key := range s.Keys() {
		raw, _ := s.Get(key)
		str, isString := raw.(string)
		entry := SettingEntry{Key: key, Value: raw, Secret: isString && settings.IsValid(str)}

		if entry.Secret {
			if opts.Unwrap {
				v, err := secretReader.Apply(cmd.Context(), raw, s)
				if err != nil {
					_ = formatter.Error(ErrCodeSettings, fmt.Sprintf("%s: %v", key, err), nil)
					return WrapExitError(ExitCommandError, ErrCodeSettings, err)
				}
				entry.Value = v
			} else {
				entry.Value = maskedSecret
			}
		}
		entries = append(entries, entry)
	}

	if formatter.Structured() {
		return formatter.Success(entries)
	}
	for _, e := range entries {
		fmt.Fprintf(formatter.Writer, "%s = %v\n", e.Key, e.Value)
	}
	return nil
}

func buildSecretReader(opts *SettingsOptions) (*settings.SecretReader, error) {
	var resolvers []settings.Resolver
	for _, name := range opts.Resolvers {
		switch name {
		case "env":
			resolvers = append(resolvers, settings.EnvResolver{Prefix: opts.SecretEnvPrefix})
		case "settings":
			resolvers = append(resolvers, settings.SettingsResolver{})
		default:
			return nil, fmt.Errorf("unknown resolver %q: must be env or settings", name)
		}
	}
	return settings.NewSecretReader(resolvers...), nil
}
