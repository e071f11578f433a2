package contracts

import (
	"carepay-service/internal/app/models"
	"context"
	"database/sql"
	"time"
)

type MarkRefundedInput struct {
	PurchaseID   string
	RefundAmount int64
	RefundReason string
	RefundedAt   time.Time
}

type PurchaseRepository interface {
	CreatePurchaseTx(ctx context.Context, tx *sql.Tx, purchase *models.Purchase) (*models.Purchase, error)
	FindByID(ctx context.Context, purchaseID string) (*models.Purchase, error)
	FindByIDForUpdateTx(ctx context.Context, tx *sql.Tx, purchaseID string) (*models.Purchase, error)
	MarkRefundedTx(ctx context.Context, tx *sql.Tx, input MarkRefundedInput) error
	// MarkSessionCompletedTx closes the consultation session once the
	// purchase is honored, taking it out of the refund-eligible set.
	MarkSessionCompletedTx(ctx context.Context, tx *sql.Tx, purchaseID string) error
	// FindEligibleForRefund returns unrefunded purchases created before
	// cutoff whose owning session is approved or active.
	FindEligibleForRefund(ctx context.Context, cutoff time.Time) ([]models.Purchase, error)
	FindRefundedByPatient(ctx context.Context, patientID string) ([]models.Purchase, error)
	CountRefundsByProviderReasonSince(ctx context.Context, providerID, reason string, since time.Time) (int64, error)
	CountPurchasesByProviderSince(ctx context.Context, providerID string, since time.Time) (int64, error)
	RefundStatistics(ctx context.Context) (*models.RefundStatistics, error)
}

type PurchaseUsecase interface {
	CreatePurchase(ctx context.Context, patientID string, request *CreatePurchaseInput) (*models.Purchase, error)
	RefundHistoryByPatient(ctx context.Context, patientID string) ([]models.Purchase, error)
	ListEligiblePurchases(ctx context.Context) ([]models.Purchase, error)
	RefundStatistics(ctx context.Context) (*models.RefundStatistics, error)
	ProviderResponseRate(ctx context.Context, providerID string) (*models.ProviderResponseRate, error)
}

type CreatePurchaseInput struct {
	SessionID       string
	ProviderID      string
	Amount          int64
	DurationMinutes int
}
