package secrets

import (
	"context"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/NoussaierSalaani/smuppy-dispute-service/internal/domain/ports"
)

// localSecretManager implements SecretManager on top of environment
// variables. WARNING: development only. Use AWS Secrets Manager in
// production.
type localSecretManager struct {
	prefix string
	logger *zap.Logger
}

// NewLocalSecretManager creates an env-backed secret manager. The secret
// path "dispute-service/prod/db-password" maps to the environment variable
// "<prefix>DB_PASSWORD" (last path segment, upper-cased, dashes to
// underscores).
func NewLocalSecretManager(prefix string, logger *zap.Logger) ports.SecretManager {
	return &localSecretManager{
		prefix: prefix,
		logger: logger,
	}
}

// GetSecret retrieves a secret from the environment
func (m *localSecretManager) GetSecret(ctx context.Context, secretPath string) (*ports.Secret, error) {
	envName := m.envName(secretPath)

	m.logger.Debug("Reading secret from environment",
		zap.String("path", secretPath),
		zap.String("env", envName),
	)

	value, ok := os.LookupEnv(envName)
	if !ok {
		return nil, fmt.Errorf("secret not found: %s (env %s)", secretPath, envName)
	}

	return &ports.Secret{
		Value:   value,
		Version: "v1",
		Metadata: map[string]string{
			"source": "env",
			"env":    envName,
		},
	}, nil
}

func (m *localSecretManager) envName(secretPath string) string {
	segments := strings.Split(secretPath, "/")
	name := segments[len(segments)-1]
	name = strings.ToUpper(strings.ReplaceAll(name, "-", "_"))
	return m.prefix + name
}
