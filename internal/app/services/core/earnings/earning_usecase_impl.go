package earnings

import (
	"carepay-service/internal/app/config"
	"carepay-service/internal/app/contracts"
	"carepay-service/internal/app/models"
	"carepay-service/internal/pkg/exceptions"
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type earningUsecase struct {
	EarningRepository  contracts.EarningRepository
	PurchaseRepository contracts.PurchaseRepository
	PartyRepository    contracts.PartyRepository
	TransactionManager contracts.TransactionManager
	InternalConfig     *config.InternalConfig
	Logger             *zap.Logger
	now                func() time.Time
}

func NewEarningUsecase(
	earningRepository contracts.EarningRepository,
	purchaseRepository contracts.PurchaseRepository,
	partyRepository contracts.PartyRepository,
	transactionManager contracts.TransactionManager,
	internalConfig *config.InternalConfig,
	logger *zap.Logger,
) contracts.EarningUsecase {
	return &earningUsecase{
		EarningRepository:  earningRepository,
		PurchaseRepository: purchaseRepository,
		PartyRepository:    partyRepository,
		TransactionManager: transactionManager,
		InternalConfig:     internalConfig,
		Logger:             logger,
		now:                time.Now,
	}
}

// CreateEarningFromPurchase cuts the provider commission from a settled,
// non-refunded purchase. The commission percentage is snapshotted onto
// the earning so later policy changes leave existing records untouched.
func (uc *earningUsecase) CreateEarningFromPurchase(ctx context.Context, purchaseID string) (*models.Earning, error) {
	var earning *models.Earning
	err := uc.TransactionManager.WithinTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		// The purchase row lock serializes honoring against the refund
		// funnel: whichever transaction wins, the other observes the
		// terminal state and declines.
		purchase, err := uc.PurchaseRepository.FindByIDForUpdateTx(ctx, tx, purchaseID)
		if err != nil {
			return err
		}
		if purchase == nil {
			return exceptions.ErrPurchaseNotFound(nil)
		}
		if purchase.Refunded {
			return exceptions.ErrPurchaseAlreadyRefunded(nil)
		}
		existing, err := uc.EarningRepository.FindByPurchaseIDTx(ctx, tx, purchaseID)
		if err != nil {
			return err
		}
		if existing != nil {
			return exceptions.ErrEarningAlreadyExists(nil)
		}

		percentage := uc.InternalConfig.Earning.CommissionPercentage
		providerAmount, platformFee := splitCommission(purchase.Amount, percentage)
		created, err := uc.EarningRepository.CreateEarningTx(ctx, tx, &models.Earning{
			ID:                   uuid.NewString(),
			ProviderID:           purchase.ProviderID,
			PurchaseID:           purchase.ID,
			TotalAmount:          purchase.Amount,
			CommissionPercentage: percentage,
			ProviderAmount:       providerAmount,
			PlatformFee:          platformFee,
			Status:               models.EarningPending,
			CreatedAt:            uc.now().UTC(),
		})
		if err != nil {
			return err
		}
		if err := uc.PurchaseRepository.MarkSessionCompletedTx(ctx, tx, purchaseID); err != nil {
			return err
		}
		earning = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.Logger.Info("earning created",
		zap.String("earning_id", earning.ID),
		zap.String("purchase_id", earning.PurchaseID),
		zap.String("provider_id", earning.ProviderID),
		zap.Int64("provider_amount", earning.ProviderAmount),
		zap.Int64("platform_fee", earning.PlatformFee),
	)
	return earning, nil
}

// ConfirmEarning credits the provider payout wallet and flips the earning
// to CONFIRMED in one transaction. Only PENDING earnings confirm.
func (uc *earningUsecase) ConfirmEarning(ctx context.Context, earningID string) (*models.Earning, error) {
	var confirmed *models.Earning
	err := uc.TransactionManager.WithinTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		earning, err := uc.EarningRepository.FindByIDForUpdateTx(ctx, tx, earningID)
		if err != nil {
			return err
		}
		if earning == nil {
			return exceptions.ErrEarningNotFound(nil)
		}
		if earning.Status != models.EarningPending {
			return exceptions.ErrEarningNotPending(nil)
		}

		confirmedAt := uc.now().UTC()
		if err := uc.EarningRepository.MarkConfirmedTx(ctx, tx, earningID, confirmedAt); err != nil {
			return err
		}
		if err := uc.PartyRepository.AddToPayoutWalletTx(ctx, tx, earning.ProviderID, earning.ProviderAmount); err != nil {
			return err
		}

		earning.Status = models.EarningConfirmed
		earning.ConfirmedAt = &confirmedAt
		confirmed = earning
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.Logger.Info("earning confirmed",
		zap.String("earning_id", confirmed.ID),
		zap.String("provider_id", confirmed.ProviderID),
		zap.Int64("provider_amount", confirmed.ProviderAmount),
	)
	return confirmed, nil
}

func (uc *earningUsecase) EarningsByProvider(ctx context.Context, providerID string) ([]models.Earning, error) {
	return uc.EarningRepository.FindByProvider(ctx, providerID)
}

func (uc *earningUsecase) EarningsSummary(ctx context.Context, providerID string) (*models.EarningsSummary, error) {
	return uc.EarningRepository.SummaryByProvider(ctx, providerID)
}

// SettleWithdrawal flips the provider's oldest CONFIRMED earnings to
// WITHDRAWN until the paid-out amount is covered. It runs inside the
// payout settlement transaction; the caller holds the provider row lock.
func (uc *earningUsecase) SettleWithdrawal(ctx context.Context, tx *sql.Tx, providerID string, amount int64, withdrawnAt time.Time) error {
	confirmed, err := uc.EarningRepository.FindConfirmedByProviderForUpdateTx(ctx, tx, providerID)
	if err != nil {
		return err
	}

	var covered int64
	var earningIDs []string
	for _, earning := range confirmed {
		if covered >= amount {
			break
		}
		covered += earning.ProviderAmount
		earningIDs = append(earningIDs, earning.ID)
	}
	if len(earningIDs) == 0 {
		return nil
	}
	return uc.EarningRepository.MarkWithdrawnTx(ctx, tx, earningIDs, withdrawnAt)
}

// splitCommission computes the provider share as floor(total*pct/100)
// with exact decimal arithmetic; the platform fee is the remainder, so
// the two always sum to the total.
func splitCommission(total, percentage int64) (providerAmount, platformFee int64) {
	share := decimal.NewFromInt(total).
		Mul(decimal.NewFromInt(percentage)).
		Div(decimal.NewFromInt(100)).
		Floor()
	providerAmount = share.IntPart()
	platformFee = total - providerAmount
	return providerAmount, platformFee
}
