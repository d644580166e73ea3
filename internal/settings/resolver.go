package settings

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// Resolver turns a secret payload into its final value.
type Resolver interface {
	// ResolveSecret resolves payload, possibly using other settings.
	// An error means this resolver cannot serve the payload.
	ResolveSecret(ctx context.Context, payload string, s Settings) (string, error)

	// Name identifies the resolver in logs.
	Name() string
}

// SecretReader unwraps secret markers and passes payloads through a chain
// of resolvers. The first resolver that succeeds wins; with no resolvers the
// payload itself is the value.
type SecretReader struct {
	resolvers []Resolver
}

// NewSecretReader creates a reader that tries resolvers in order.
func NewSecretReader(resolvers ...Resolver) *SecretReader {
	return &SecretReader{resolvers: resolvers}
}

// Apply resolves raw. Values that are not secret markers are returned
// unchanged.
func (r *SecretReader) Apply(ctx context.Context, raw any, s Settings) (any, error) {
	str, ok := raw.(string)
	if !ok || !IsValid(str) {
		return raw, nil
	}
	payload, err := Extract(str)
	if err != nil {
		return nil, err
	}
	if len(r.resolvers) == 0 {
		return payload, nil
	}

	var lastErr error
	for _, res := range r.resolvers {
		slog.Debug("trying secret resolver",
			"resolver", res.Name(),
			"payload", redact(payload),
		)

		v, err := res.ResolveSecret(ctx, payload, s)
		if err != nil {
			lastErr = err
			slog.Debug("secret resolver failed",
				"resolver", res.Name(),
				"payload", redact(payload),
				"error", err,
			)
			continue
		}

		slog.Debug("secret resolved",
			"resolver", res.Name(),
			"payload", redact(payload),
		)
		return v, nil
	}

	return nil, fmt.Errorf("failed to resolve secret %q: %w", redact(payload), lastErr)
}

// EnvResolver reads payloads from environment variables.
//
// The payload is upper-cased, hyphens and dots become underscores and
// Prefix is prepended: with prefix "APP_SECRET_", "db-password" is read
// from APP_SECRET_DB_PASSWORD.
type EnvResolver struct {
	Prefix string
}

// ResolveSecret implements Resolver.
func (e EnvResolver) ResolveSecret(_ context.Context, payload string, _ Settings) (string, error) {
	name := e.Prefix + strings.ToUpper(strings.NewReplacer("-", "_", ".", "_").Replace(payload))
	v, ok := os.LookupEnv(name)
	if !ok || v == "" {
		return "", fmt.Errorf("secret not found in environment (env var: %s)", name)
	}
	return v, nil
}

// Name implements Resolver.
func (EnvResolver) Name() string { return "env" }

// SettingsResolver treats the payload as the key of another setting.
// The referenced value must be a plain string, not another marker.
type SettingsResolver struct{}

// ResolveSecret implements Resolver.
func (SettingsResolver) ResolveSecret(_ context.Context, payload string, s Settings) (string, error) {
	v, ok := s.Get(payload)
	if !ok {
		return "", fmt.Errorf("no setting named %q", payload)
	}
	str, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("setting %q is %T, not a string", payload, v)
	}
	if IsValid(str) {
		return "", fmt.Errorf("setting %q is itself a secret marker", payload)
	}
	return str, nil
}

// Name implements Resolver.
func (SettingsResolver) Name() string { return "settings" }
