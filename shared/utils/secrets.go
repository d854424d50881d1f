package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultSecretsDir - стандартный путь Docker Secrets.
const DefaultSecretsDir = "/run/secrets"

// ReadSecret читает секрет из файла в каталоге секретов.
// Каталог можно переопределить переменной SECRETS_DIR (локальный запуск, тесты).
func ReadSecret(secretName string) (string, error) {
	dir := os.Getenv("SECRETS_DIR")
	if dir == "" {
		dir = DefaultSecretsDir
	}
	filePath := filepath.Join(dir, secretName)
	secretBytes, err := os.ReadFile(filePath)
	if err != nil {
		// Fallback на env var не делаем, чтобы поведение было консистентным
		return "", fmt.Errorf("failed to read secret file %s: %w", filePath, err)
	}
	secret := strings.TrimSpace(string(secretBytes))
	if secret == "" {
		return "", fmt.Errorf("secret file %s is empty", filePath)
	}
	return secret, nil
}
