package dispute

import (
	"encoding/base64"
	"encoding/json"

	"github.com/NoussaierSalaani/smuppy-dispute-service/internal/domain"
)

// pageCursor is the decoded pagination token. The listing order is a
// multi-branch rank expression, so pagination carries a plain offset
// instead of a keyset. The page size is embedded so a token cannot be
// replayed against a different limit.
type pageCursor struct {
	Offset int32 `json:"o"`
	Limit  int32 `json:"l"`
}

// encodeCursor produces the opaque token handed to clients.
func encodeCursor(offset, limit int32) string {
	raw, _ := json.Marshal(pageCursor{Offset: offset, Limit: limit})
	return base64.RawURLEncoding.EncodeToString(raw)
}

// decodeCursor parses a client-supplied token. The limit the caller is
// requesting must match the limit baked into the token.
func decodeCursor(token string, limit int32) (int32, error) {
	if token == "" {
		return 0, nil
	}

	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return 0, domain.NewDomainError(domain.ErrorCodeValidationFailed, "invalid pagination cursor")
	}

	var c pageCursor
	if err := json.Unmarshal(raw, &c); err != nil {
		return 0, domain.NewDomainError(domain.ErrorCodeValidationFailed, "invalid pagination cursor")
	}

	if c.Offset < 0 || c.Limit != limit {
		return 0, domain.NewDomainError(domain.ErrorCodeValidationFailed, "invalid pagination cursor")
	}

	return c.Offset, nil
}
