package purchases

import (
	"carepay-service/internal/app/config"
	"carepay-service/internal/app/contracts"
	"carepay-service/internal/app/models"
	"carepay-service/internal/pkg/constvars"
	"carepay-service/internal/pkg/exceptions"
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type purchaseUsecase struct {
	PurchaseRepository contracts.PurchaseRepository
	PartyRepository    contracts.PartyRepository
	TransactionManager contracts.TransactionManager
	InternalConfig     *config.InternalConfig
	Logger             *zap.Logger
	now                func() time.Time
}

func NewPurchaseUsecase(
	purchaseRepository contracts.PurchaseRepository,
	partyRepository contracts.PartyRepository,
	transactionManager contracts.TransactionManager,
	internalConfig *config.InternalConfig,
	logger *zap.Logger,
) contracts.PurchaseUsecase {
	return &purchaseUsecase{
		PurchaseRepository: purchaseRepository,
		PartyRepository:    partyRepository,
		TransactionManager: transactionManager,
		InternalConfig:     internalConfig,
		Logger:             logger,
		now:                time.Now,
	}
}

// CreatePurchase debits the patient's spendable wallet and opens the
// consultation window in one transaction. The patient row lock is the
// serialization point for the balance check.
func (uc *purchaseUsecase) CreatePurchase(ctx context.Context, patientID string, request *contracts.CreatePurchaseInput) (*models.Purchase, error) {
	provider, err := uc.PartyRepository.FindByID(ctx, request.ProviderID)
	if err != nil {
		return nil, err
	}
	if provider == nil {
		return nil, exceptions.ErrPartyNotFound(nil)
	}

	now := uc.now().UTC()
	purchase := &models.Purchase{
		ID:              uuid.NewString(),
		SessionID:       request.SessionID,
		PatientID:       patientID,
		ProviderID:      request.ProviderID,
		Amount:          request.Amount,
		DurationMinutes: request.DurationMinutes,
		SessionStatus:   models.SessionStatusApproved,
		CreatedAt:       now,
		ExpiresAt:       now.Add(time.Duration(request.DurationMinutes) * time.Minute),
	}

	err = uc.TransactionManager.WithinTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		patient, err := uc.PartyRepository.FindByIDForUpdateTx(ctx, tx, patientID)
		if err != nil {
			return err
		}
		if patient == nil {
			return exceptions.ErrPartyNotFound(nil)
		}
		if patient.SpendableWallet < request.Amount {
			return exceptions.ErrInsufficientSpendableBalance(nil)
		}
		if err := uc.PartyRepository.AddToSpendableWalletTx(ctx, tx, patientID, -request.Amount); err != nil {
			return err
		}
		created, err := uc.PurchaseRepository.CreatePurchaseTx(ctx, tx, purchase)
		if err != nil {
			return err
		}
		purchase = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.Logger.Info("purchase created",
		zap.String("purchase_id", purchase.ID),
		zap.String("patient_id", patientID),
		zap.String("provider_id", purchase.ProviderID),
		zap.Int64("amount", purchase.Amount),
	)
	return purchase, nil
}

func (uc *purchaseUsecase) RefundHistoryByPatient(ctx context.Context, patientID string) ([]models.Purchase, error) {
	return uc.PurchaseRepository.FindRefundedByPatient(ctx, patientID)
}

func (uc *purchaseUsecase) ListEligiblePurchases(ctx context.Context) ([]models.Purchase, error) {
	cutoff := uc.now().UTC().Add(-time.Duration(uc.InternalConfig.Refund.ResponseTimeoutMinutes) * time.Minute)
	return uc.PurchaseRepository.FindEligibleForRefund(ctx, cutoff)
}

func (uc *purchaseUsecase) RefundStatistics(ctx context.Context) (*models.RefundStatistics, error) {
	return uc.PurchaseRepository.RefundStatistics(ctx)
}

// ProviderResponseRate reports the share of the provider's recent
// purchases that did not end in a no-response refund.
func (uc *purchaseUsecase) ProviderResponseRate(ctx context.Context, providerID string) (*models.ProviderResponseRate, error) {
	provider, err := uc.PartyRepository.FindByID(ctx, providerID)
	if err != nil {
		return nil, err
	}
	if provider == nil {
		return nil, exceptions.ErrPartyNotFound(nil)
	}

	since := uc.now().UTC().AddDate(0, 0, -constvars.WarningWindowDays)
	total, err := uc.PurchaseRepository.CountPurchasesByProviderSince(ctx, providerID, since)
	if err != nil {
		return nil, err
	}
	noResponse, err := uc.PurchaseRepository.CountRefundsByProviderReasonSince(ctx, providerID, constvars.RefundReasonDoctorNoResponse, since)
	if err != nil {
		return nil, err
	}

	rate := 1.0
	if total > 0 {
		rate = float64(total-noResponse) / float64(total)
	}
	return &models.ProviderResponseRate{
		ProviderID:        providerID,
		TotalPurchases:    total,
		NoResponseRefunds: noResponse,
		ResponseRate:      rate,
	}, nil
}
