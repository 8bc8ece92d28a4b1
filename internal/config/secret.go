package config

import (
	"fmt"
	"os"
	"strings"
)

// LoadSecret resolves a secret from a file, falling back to the inline value.
// The file takes precedence when set. The result is trimmed.
func LoadSecret(name, value, file string) (string, error) {
	if strings.TrimSpace(name) == "" {
		name = "secret"
	}

	file = strings.TrimSpace(file)
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("reading %s from file %q: %w", name, file, err)
		}
		value = string(data)
	}

	secret := strings.TrimSpace(value)
	if secret == "" {
		if file != "" {
			return "", fmt.Errorf("%s file %q is empty", name, file)
		}
		return "", fmt.Errorf("%s is not configured", name)
	}
	return secret, nil
}
