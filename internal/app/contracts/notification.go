package contracts

import (
	"carepay-service/internal/app/models"
	"context"
)

// NotificationSink delivers refund and warning events to a per-party
// channel. Delivery is best effort; callers log and swallow errors.
type NotificationSink interface {
	NotifyPatient(ctx context.Context, patientID string, payload models.NotificationPayload) error
	NotifyProvider(ctx context.Context, providerID string, payload models.NotificationPayload) error
}

type NotificationLogRepository interface {
	InsertEntry(ctx context.Context, entry *models.NotificationLogEntry) error
	FindByRecipient(ctx context.Context, recipientID string, limit int64) ([]models.NotificationLogEntry, error)
}
