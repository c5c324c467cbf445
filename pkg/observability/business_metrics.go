package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Dispute lifecycle metrics
	disputesResolvedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "disputes_resolved_total",
		Help: "Total disputes resolved by administrators",
	}, []string{
		"resolution", // full_refund, partial_refund, no_refund
		"type",       // quality, no_show, billing, other
	})

	disputesClosedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "disputes_closed_total",
		Help: "Total disputes closed by complainant acceptance",
	})

	// Time from dispute creation to resolution
	disputeResolutionDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name: "dispute_resolution_duration_seconds",
		Help: "Time from dispute creation to resolution",
		// Buckets: 1h to 14 days (typical review turnaround)
		Buckets: []float64{3600, 14400, 43200, 86400, 172800, 345600, 604800, 1209600},
	}, []string{
		"resolution",
	})

	// Evidence metrics
	evidenceSubmissionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "evidence_submissions_total",
		Help: "Total evidence submissions accepted",
	}, []string{
		"evidence_type", // text, document, screenshot, chat_log, receipt
		"submitter",     // complainant, respondent
	})

	evidenceRejectionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "evidence_rejections_total",
		Help: "Total evidence submissions rejected",
	}, []string{
		"reason", // forbidden, invalid_state, deadline_passed, limit_reached, validation_failed
	})

	// Refund metrics
	refundAttemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dispute_refund_attempts_total",
		Help: "Total refund attempts against the payment processor",
	}, []string{
		"status", // pending, succeeded, failed
	})

	refundAmountCents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dispute_refund_amount_cents_total",
		Help: "Total refunded amount in cents",
	}, []string{
		"currency",
		"status",
	})

	refundProcessorDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "dispute_refund_processor_duration_seconds",
		Help:    "Time spent calling the payment processor refund API",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	}, []string{
		"status",
	})
)

// RecordDisputeResolved records an administrator resolution together with
// how long the dispute had been open. Resolution latency is the primary
// operational SLO for the review queue.
func RecordDisputeResolved(resolution, disputeType string, openSeconds float64) {
	disputesResolvedTotal.WithLabelValues(resolution, disputeType).Inc()
	disputeResolutionDuration.WithLabelValues(resolution).Observe(openSeconds)
}

// RecordDisputeClosed records a complainant accepting a resolution
func RecordDisputeClosed() {
	disputesClosedTotal.Inc()
}

// RecordEvidenceSubmission records an accepted evidence item
func RecordEvidenceSubmission(evidenceType, submitter string) {
	evidenceSubmissionsTotal.WithLabelValues(evidenceType, submitter).Inc()
}

// RecordEvidenceRejection records a rejected evidence submission
func RecordEvidenceRejection(reason string) {
	evidenceRejectionsTotal.WithLabelValues(reason).Inc()
}

// RecordRefundAttempt records a refund attempt outcome
func RecordRefundAttempt(status, currency string, amountCents int64, duration float64) {
	refundAttemptsTotal.WithLabelValues(status).Inc()
	refundProcessorDuration.WithLabelValues(status).Observe(duration)

	// Only settled money counts toward the refunded total
	if status == "succeeded" {
		refundAmountCents.WithLabelValues(currency, status).Add(float64(amountCents))
	}
}
