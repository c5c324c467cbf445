package domain

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// EvidenceType classifies an evidence submission.
type EvidenceType string

const (
	EvidenceTypeScreenshot EvidenceType = "screenshot"
	EvidenceTypeDocument   EvidenceType = "document"
	EvidenceTypeVideo      EvidenceType = "video"
	EvidenceTypeText       EvidenceType = "text"
)

// Valid reports whether t is a known evidence type.
func (t EvidenceType) Valid() bool {
	switch t {
	case EvidenceTypeScreenshot, EvidenceTypeDocument, EvidenceTypeVideo, EvidenceTypeText:
		return true
	}
	return false
}

const (
	// MaxEvidenceItems is the per-dispute evidence ceiling.
	MaxEvidenceItems = 10

	// Description length bounds in characters.
	MinDescriptionLen = 10
	MaxDescriptionLen = 1000
)

// EvidenceItem belongs to exactly one dispute and is owned by the
// submitting party.
type EvidenceItem struct {
	CreatedAt   time.Time    `json:"created_at"`
	Type        EvidenceType `json:"type"`
	FileURL     *string      `json:"file_url"`
	FileName    *string      `json:"file_name"`
	TextContent *string      `json:"text_content"`
	Description string       `json:"description"`
	ID          uuid.UUID    `json:"id"`
	DisputeID   uuid.UUID    `json:"dispute_id"`
	SubmitterID uuid.UUID    `json:"submitter_id"`
}

// Validate checks the payload shape: description length bounds, file
// reference for non-text types, inline content for text type.
func (e *EvidenceItem) Validate() error {
	if !e.Type.Valid() {
		return NewDomainError(ErrorCodeValidationFailed, "invalid evidence type")
	}

	// Bounds apply to characters, not bytes, so multi-byte text is
	// measured the same as ASCII.
	desc := strings.TrimSpace(e.Description)
	if n := utf8.RuneCountInString(desc); n < MinDescriptionLen || n > MaxDescriptionLen {
		return NewDomainError(ErrorCodeValidationFailed, "description must be between 10 and 1000 characters")
	}

	if e.Type == EvidenceTypeText {
		if e.TextContent == nil || strings.TrimSpace(*e.TextContent) == "" {
			return NewDomainError(ErrorCodeValidationFailed, "text evidence requires text content")
		}
		return nil
	}

	if e.FileURL == nil || strings.TrimSpace(*e.FileURL) == "" {
		return NewDomainError(ErrorCodeValidationFailed, "file evidence requires a file reference")
	}
	return nil
}
