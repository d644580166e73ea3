// Package settings holds flat configuration maps and unwraps secret-marked
// values in them.
//
// A configuration string of the form ENC(payload) marks a secret. The pure
// functions IsValid, Extract and Apply recognize and unwrap the marker;
// SecretReader additionally hands the payload to a chain of Resolvers for
// deeper resolution (environment lookup, settings indirection, decryption).
//
// # Basic Usage
//
//	s, err := settings.Load("app.yaml", "APP_")
//	if err != nil {
//	    return err
//	}
//	password, err := settings.As[string](s, "db.password") // ENC(pw) → "pw"
//
// Secret payloads are never logged; log lines carry a redacted form.
package settings
