package dispute

import (
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/NoussaierSalaani/smuppy-dispute-service/internal/auth"
	"github.com/NoussaierSalaani/smuppy-dispute-service/internal/domain"
	"github.com/NoussaierSalaani/smuppy-dispute-service/internal/domain/ports"
	disputesvc "github.com/NoussaierSalaani/smuppy-dispute-service/internal/services/dispute"
)

// AdminHandler serves the administrator endpoints. Role enforcement lives
// in the middleware chain; these handlers re-derive the actor for auditing.
type AdminHandler struct {
	resolution *disputesvc.ResolutionService
	queries    *disputesvc.QueryService
	logger     ports.Logger
}

// NewAdminHandler creates the admin handler
func NewAdminHandler(
	resolution *disputesvc.ResolutionService,
	queries *disputesvc.QueryService,
	logger ports.Logger,
) *AdminHandler {
	return &AdminHandler{
		resolution: resolution,
		queries:    queries,
		logger:     logger,
	}
}

type resolveBody struct {
	Resolution    string           `json:"resolution"`
	Reason        string           `json:"reason"`
	RefundAmount  *decimal.Decimal `json:"refundAmount,omitempty"`
	ProcessRefund bool             `json:"processRefund"`
}

// Resolve handles POST /v1/admin/disputes/{disputeID}/resolve
func (h *AdminHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	actor, err := auth.RequireAdmin(r.Context())
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}

	disputeID, ok := disputeIDParam(r)
	if !ok {
		writeValidationError(w, "invalid dispute id")
		return
	}

	var body resolveBody
	if err := decodeBody(r, &body); err != nil {
		writeValidationError(w, "malformed request body")
		return
	}

	result, err := h.resolution.Resolve(r.Context(), disputesvc.ResolveRequest{
		DisputeID:     disputeID,
		AdminID:       actor.UserID,
		Resolution:    domain.Resolution(body.Resolution),
		Reason:        body.Reason,
		RefundAmount:  body.RefundAmount,
		ProcessRefund: body.ProcessRefund,
	})
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}

	// A failed refund does not fail the resolution; refund is null then.
	var refund interface{}
	if result.Refund != nil {
		refund = map[string]interface{}{
			"id":     result.Refund.ID,
			"status": result.Refund.Status,
			"amount": jsonAmount(result.Refund.Amount),
		}
	}

	var resolutionAmount interface{}
	if result.Dispute.RefundAmount != nil {
		resolutionAmount = jsonAmount(*result.Dispute.RefundAmount)
	}

	writeSuccess(w, http.StatusOK, map[string]interface{}{
		"message": "dispute resolved",
		"resolution": map[string]interface{}{
			"type":   result.Dispute.Resolution,
			"amount": resolutionAmount,
			"reason": body.Reason,
		},
		"refund": refund,
	})
}

// List handles GET /v1/admin/disputes
func (h *AdminHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, err := auth.RequireAdmin(r.Context())
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}

	req, ok := listRequestFromQuery(w, r)
	if !ok {
		return
	}
	req.CallerID = actor.UserID
	req.IsAdmin = true

	result, err := h.queries.List(r.Context(), req)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}

	stats := map[string]interface{}{}
	if result.Stats != nil {
		stats = map[string]interface{}{
			"total":                result.Stats.Total,
			"byStatus":             result.Stats.ByStatus,
			"avgResolutionSeconds": result.Stats.AvgResolutionSeconds,
		}
	}

	writeSuccess(w, http.StatusOK, map[string]interface{}{
		"disputes":   result.Disputes,
		"nextCursor": nullableCursor(result.NextCursor),
		"hasMore":    result.HasMore,
		"stats":      stats,
	})
}

func parsePositiveInt32(raw string) (int32, error) {
	v, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || v <= 0 {
		if err == nil {
			err = strconv.ErrRange
		}
		return 0, err
	}
	return int32(v), nil
}
