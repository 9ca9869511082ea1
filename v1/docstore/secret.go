package docstore

import "os"

// Secret is a deferred credential: either a literal value or a reference to
// an environment variable resolved at connection time, never earlier. Its
// String method is deliberately opaque so a Secret cannot leak through logs
// or error messages.
type Secret struct {
	value  string
	envVar string
}

// SecretFromValue wraps a literal credential.
func SecretFromValue(value string) Secret {
	return Secret{value: value}
}

// SecretFromEnv defers resolution to the named environment variable.
func SecretFromEnv(name string) Secret {
	return Secret{envVar: name}
}

// Resolve returns the concrete credential. A reference to an unset
// environment variable is a configuration error.
func (s Secret) Resolve() (string, error) {
	if s.envVar != "" {
		value, ok := os.LookupEnv(s.envVar)
		if !ok {
			return "", ConfigurationErrorf("environment variable %q is not set", s.envVar)
		}
		return value, nil
	}
	return s.value, nil
}

// IsZero reports whether the secret carries neither a value nor a reference.
func (s Secret) IsZero() bool {
	return s.value == "" && s.envVar == ""
}

func (s Secret) String() string {
	return "Secret(****)"
}
