package postgres

import (
	"context"
	"fmt"

	"github.com/NoussaierSalaani/smuppy-dispute-service/internal/domain"
	"github.com/NoussaierSalaani/smuppy-dispute-service/internal/domain/ports"
)

// NotificationRepository implements ports.NotificationRepository on PostgreSQL
type NotificationRepository struct {
	db ports.DBPort
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(db ports.DBPort) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) executor(db ports.DBTX) ports.DBTX {
	if db != nil {
		return db
	}
	return r.db.GetDB()
}

// Create inserts one notification row for the delivery collaborator
func (r *NotificationRepository) Create(ctx context.Context, tx ports.DBTX, n *domain.Notification) error {
	_, err := r.executor(tx).Exec(ctx, `
		INSERT INTO dispute_notifications (id, dispute_id, recipient_id, kind, title, body, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		n.ID, n.DisputeID, n.RecipientID, string(n.Kind), n.Title, n.Body, n.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create notification: %w", err)
	}
	return nil
}
