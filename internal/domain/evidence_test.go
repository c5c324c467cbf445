package domain_test

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/NoussaierSalaani/smuppy-dispute-service/internal/domain"
)

func strPtr(s string) *string { return &s }

func TestEvidenceItem_Validate(t *testing.T) {
	base := func() *domain.EvidenceItem {
		return &domain.EvidenceItem{
			ID:          uuid.New(),
			DisputeID:   uuid.New(),
			SubmitterID: uuid.New(),
			Type:        domain.EvidenceTypeText,
			Description: "delivered item did not match the listing",
			TextContent: strPtr("full account of the transaction"),
			CreatedAt:   time.Now().UTC(),
		}
	}

	t.Run("valid text evidence", func(t *testing.T) {
		assert.NoError(t, base().Validate())
	})

	t.Run("valid file evidence", func(t *testing.T) {
		item := base()
		item.Type = domain.EvidenceTypeScreenshot
		item.TextContent = nil
		item.FileURL = strPtr("https://cdn.example.com/evidence/shot.png")
		assert.NoError(t, item.Validate())
	})

	t.Run("unknown type", func(t *testing.T) {
		item := base()
		item.Type = domain.EvidenceType("audio")
		assert.Error(t, item.Validate())
	})

	t.Run("description too short", func(t *testing.T) {
		item := base()
		item.Description = "too short"
		assert.Error(t, item.Validate())
	})

	t.Run("description at upper bound", func(t *testing.T) {
		item := base()
		item.Description = strings.Repeat("a", domain.MaxDescriptionLen)
		assert.NoError(t, item.Validate())

		item.Description = strings.Repeat("a", domain.MaxDescriptionLen+1)
		assert.Error(t, item.Validate())
	})

	t.Run("length bounds count characters not bytes", func(t *testing.T) {
		// Nine two-byte runes is 18 bytes but still under the minimum.
		item := base()
		item.Description = strings.Repeat("é", 9)
		assert.Error(t, item.Validate())

		item.Description = strings.Repeat("é", domain.MinDescriptionLen)
		assert.NoError(t, item.Validate())

		item.Description = strings.Repeat("é", domain.MaxDescriptionLen)
		assert.NoError(t, item.Validate())
	})

	t.Run("whitespace does not count toward length", func(t *testing.T) {
		item := base()
		item.Description = "   short    "
		assert.Error(t, item.Validate())
	})

	t.Run("text without content", func(t *testing.T) {
		item := base()
		item.TextContent = strPtr("   ")
		assert.Error(t, item.Validate())
	})

	t.Run("file without reference", func(t *testing.T) {
		item := base()
		item.Type = domain.EvidenceTypeDocument
		item.FileURL = nil
		assert.Error(t, item.Validate())
	})
}
