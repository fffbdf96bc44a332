package utils

import (
	"fmt"
	"os"
	"strings"
)

// ReadSecret reads a secret from the standard Docker Secrets path.
// When the file is absent it falls back to the SECRET_NAME environment
// variable (uppercased), which keeps local development workable.
func ReadSecret(secretName string) (string, error) {
	filePath := fmt.Sprintf("/run/secrets/%s", secretName)
	secretBytes, err := os.ReadFile(filePath)
	if err == nil {
		secret := strings.TrimSpace(string(secretBytes))
		if secret == "" {
			return "", fmt.Errorf("secret file %s is empty", filePath)
		}
		return secret, nil
	}

	envName := strings.ToUpper(secretName)
	if v := strings.TrimSpace(os.Getenv(envName)); v != "" {
		return v, nil
	}
	return "", fmt.Errorf("secret %q not found in %s or env %s", secretName, filePath, envName)
}

// MaskSecret returns a value safe for read responses and logs: the
// first few characters followed by "...". Empty input stays empty.
func MaskSecret(secret string) string {
	if secret == "" {
		return ""
	}
	limit := 4
	if len(secret) <= limit {
		return "..."
	}
	return secret[:limit] + "..."
}
