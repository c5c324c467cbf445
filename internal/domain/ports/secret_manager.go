package ports

import "context"

// Secret represents a retrieved secret with metadata
type Secret struct {
	Value    string
	Version  string
	Metadata map[string]string
}

// SecretManager defines the port for retrieving secrets from a secret
// management service. Implementations handle authentication with the
// backend and caching; callers get the current value only.
type SecretManager interface {
	GetSecret(ctx context.Context, path string) (*Secret, error)
}
