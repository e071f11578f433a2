package contracts

import (
	"carepay-service/internal/app/models"
	"context"
	"database/sql"
	"time"
)

type EarningRepository interface {
	CreateEarningTx(ctx context.Context, tx *sql.Tx, earning *models.Earning) (*models.Earning, error)
	FindByID(ctx context.Context, earningID string) (*models.Earning, error)
	FindByIDForUpdateTx(ctx context.Context, tx *sql.Tx, earningID string) (*models.Earning, error)
	FindByPurchaseIDTx(ctx context.Context, tx *sql.Tx, purchaseID string) (*models.Earning, error)
	MarkConfirmedTx(ctx context.Context, tx *sql.Tx, earningID string, confirmedAt time.Time) error
	// FindConfirmedByProviderForUpdateTx returns the provider's CONFIRMED
	// earnings oldest first, rows locked.
	FindConfirmedByProviderForUpdateTx(ctx context.Context, tx *sql.Tx, providerID string) ([]models.Earning, error)
	MarkWithdrawnTx(ctx context.Context, tx *sql.Tx, earningIDs []string, withdrawnAt time.Time) error
	FindByProvider(ctx context.Context, providerID string) ([]models.Earning, error)
	SummaryByProvider(ctx context.Context, providerID string) (*models.EarningsSummary, error)
}

type EarningUsecase interface {
	CreateEarningFromPurchase(ctx context.Context, purchaseID string) (*models.Earning, error)
	ConfirmEarning(ctx context.Context, earningID string) (*models.Earning, error)
	EarningsByProvider(ctx context.Context, providerID string) ([]models.Earning, error)
	EarningsSummary(ctx context.Context, providerID string) (*models.EarningsSummary, error)
	// SettleWithdrawal flips the provider's oldest CONFIRMED earnings to
	// WITHDRAWN until amount is covered. Runs inside the caller's
	// transaction as payout settlement bookkeeping.
	SettleWithdrawal(ctx context.Context, tx *sql.Tx, providerID string, amount int64, withdrawnAt time.Time) error
}
