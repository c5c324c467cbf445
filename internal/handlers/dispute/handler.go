package dispute

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/NoussaierSalaani/smuppy-dispute-service/internal/auth"
	"github.com/NoussaierSalaani/smuppy-dispute-service/internal/domain"
	"github.com/NoussaierSalaani/smuppy-dispute-service/internal/domain/ports"
	disputesvc "github.com/NoussaierSalaani/smuppy-dispute-service/internal/services/dispute"
)

const maxBodyBytes = 64 * 1024

// Handler serves the participant-facing dispute endpoints.
type Handler struct {
	evidence *disputesvc.EvidenceService
	closure  *disputesvc.ClosureService
	queries  *disputesvc.QueryService
	logger   ports.Logger
}

// NewHandler creates the participant handler
func NewHandler(
	evidence *disputesvc.EvidenceService,
	closure *disputesvc.ClosureService,
	queries *disputesvc.QueryService,
	logger ports.Logger,
) *Handler {
	return &Handler{
		evidence: evidence,
		closure:  closure,
		queries:  queries,
		logger:   logger,
	}
}

func decodeBody(r *http.Request, dst interface{}) error {
	defer io.Copy(io.Discard, r.Body)
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

func disputeIDParam(r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "disputeID"))
	return id, err == nil
}

type submitEvidenceBody struct {
	Type        string  `json:"type"`
	URL         *string `json:"url,omitempty"`
	Filename    *string `json:"filename,omitempty"`
	Description string  `json:"description"`
	TextContent *string `json:"textContent,omitempty"`
}

// SubmitEvidence handles POST /v1/disputes/{disputeID}/evidence
func (h *Handler) SubmitEvidence(w http.ResponseWriter, r *http.Request) {
	actor, err := auth.ActorFromContext(r.Context())
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}

	disputeID, ok := disputeIDParam(r)
	if !ok {
		writeValidationError(w, "invalid dispute id")
		return
	}

	var body submitEvidenceBody
	if err := decodeBody(r, &body); err != nil {
		writeValidationError(w, "malformed request body")
		return
	}

	item, err := h.evidence.Submit(r.Context(), disputesvc.SubmitEvidenceRequest{
		DisputeID:   disputeID,
		SubmitterID: actor.UserID,
		Type:        domain.EvidenceType(body.Type),
		Description: body.Description,
		FileURL:     body.URL,
		FileName:    body.Filename,
		TextContent: body.TextContent,
	})
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}

	writeSuccess(w, http.StatusCreated, map[string]interface{}{
		"evidence": map[string]interface{}{
			"id":         item.ID,
			"uploadedAt": item.CreatedAt,
		},
		"message": "evidence submitted",
	})
}

// Accept handles POST /v1/disputes/{disputeID}/accept
func (h *Handler) Accept(w http.ResponseWriter, r *http.Request) {
	actor, err := auth.ActorFromContext(r.Context())
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}

	disputeID, ok := disputeIDParam(r)
	if !ok {
		writeValidationError(w, "invalid dispute id")
		return
	}

	if _, err := h.closure.Accept(r.Context(), disputeID, actor.UserID); err != nil {
		writeDomainError(w, h.logger, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]interface{}{
		"message": "resolution accepted, dispute closed",
	})
}

// List handles GET /v1/disputes for participants
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	actor, err := auth.ActorFromContext(r.Context())
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}

	req, ok := listRequestFromQuery(w, r)
	if !ok {
		return
	}
	req.CallerID = actor.UserID

	result, err := h.queries.List(r.Context(), req)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]interface{}{
		"disputes":   result.Disputes,
		"nextCursor": nullableCursor(result.NextCursor),
		"hasMore":    result.HasMore,
	})
}

// Get handles GET /v1/disputes/{disputeID}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	actor, err := auth.ActorFromContext(r.Context())
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}

	disputeID, ok := disputeIDParam(r)
	if !ok {
		writeValidationError(w, "invalid dispute id")
		return
	}

	detail, err := h.queries.Get(r.Context(), disputeID, actor.UserID, actor.IsAdmin())
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]interface{}{
		"dispute":  detail.Dispute,
		"evidence": detail.Evidence,
		"timeline": detail.Timeline,
		"refunds":  detail.Refunds,
	})
}

// listRequestFromQuery parses the shared listing query parameters. Reports
// false after writing the error response.
func listRequestFromQuery(w http.ResponseWriter, r *http.Request) (disputesvc.ListRequest, bool) {
	req := disputesvc.ListRequest{
		Cursor: r.URL.Query().Get("cursor"),
	}

	if raw := r.URL.Query().Get("status"); raw != "" {
		status := domain.Status(raw)
		if !status.Valid() {
			writeValidationError(w, "invalid status filter")
			return req, false
		}
		req.Status = &status
	}

	if raw := r.URL.Query().Get("type"); raw != "" {
		dtype := domain.DisputeType(raw)
		if !dtype.Valid() {
			writeValidationError(w, "invalid type filter")
			return req, false
		}
		req.Type = &dtype
	}

	if raw := r.URL.Query().Get("priority"); raw != "" {
		priority := domain.Priority(raw)
		if !priority.Valid() {
			writeValidationError(w, "invalid priority filter")
			return req, false
		}
		req.Priority = &priority
	}

	switch r.URL.Query().Get("as") {
	case "":
		req.Role = ports.RoleAny
	case "complainant":
		req.Role = ports.RoleComplainant
	case "respondent":
		req.Role = ports.RoleRespondent
	default:
		writeValidationError(w, "invalid role filter")
		return req, false
	}

	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := parsePositiveInt32(raw)
		if err != nil {
			writeValidationError(w, "invalid limit")
			return req, false
		}
		req.Limit = limit
	}

	return req, true
}
