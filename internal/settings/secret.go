package settings

import (
	"regexp"

	"github.com/roach88/nosqlcore/internal/errs"
)

// secretRegex matches the whole-string ENC(payload) marker. The payload is
// non-empty and contains neither ')' nor ';'.
var secretRegex = regexp.MustCompile(`^ENC\(([^);]+)\)$`)

// IsValid reports whether raw is a secret marker.
func IsValid(raw string) bool {
	return secretRegex.MatchString(raw)
}

// Extract returns the payload of a secret marker.
func Extract(raw string) (string, error) {
	m := secretRegex.FindStringSubmatch(raw)
	if m == nil {
		return "", errs.MalformedSecret(raw)
	}
	return m[1], nil
}

// Apply unwraps raw when it is a secret marker and returns it unchanged
// otherwise, including every non-string value. The baseline unwrap does not
// consult s; SecretReader resolves payloads against it.
func Apply(raw any, _ Settings) any {
	s, ok := raw.(string)
	if !ok {
		return raw
	}
	payload, err := Extract(s)
	if err != nil {
		return raw
	}
	return payload
}

// redact returns a form of a secret payload that is safe to log.
func redact(payload string) string {
	if len(payload) <= 4 {
		return "***"
	}
	return payload[:2] + "..." + payload[len(payload)-2:]
}
