package refunds

import (
	"carepay-service/internal/app/config"
	"carepay-service/internal/app/contracts"
	"carepay-service/internal/app/models"
	"carepay-service/internal/pkg/constvars"
	"carepay-service/internal/pkg/exceptions"
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"
)

type refundExecutor struct {
	PurchaseRepository contracts.PurchaseRepository
	PartyRepository    contracts.PartyRepository
	EarningRepository  contracts.EarningRepository
	TransactionManager contracts.TransactionManager
	SlotHoldService    contracts.SlotHoldService
	NotificationSink   contracts.NotificationSink
	RefundPolicy       config.Refund
	Logger             *zap.Logger
	now                func() time.Time
}

func NewRefundExecutor(
	purchaseRepository contracts.PurchaseRepository,
	partyRepository contracts.PartyRepository,
	earningRepository contracts.EarningRepository,
	transactionManager contracts.TransactionManager,
	slotHoldService contracts.SlotHoldService,
	notificationSink contracts.NotificationSink,
	refundPolicy config.Refund,
	logger *zap.Logger,
) contracts.RefundExecutor {
	return &refundExecutor{
		PurchaseRepository: purchaseRepository,
		PartyRepository:    partyRepository,
		EarningRepository:  earningRepository,
		TransactionManager: transactionManager,
		SlotHoldService:    slotHoldService,
		NotificationSink:   notificationSink,
		RefundPolicy:       refundPolicy,
		Logger:             logger,
		now:                time.Now,
	}
}

// ExecuteRefund settles a purchase exactly once. The locked purchase row
// is the idempotence gate: whichever trigger reaches it first applies the
// refund, every later one observes the refunded flag and returns
// Applied false without error. A purchase whose earning has already been
// opened is honored and declines with a conflict.
func (svc *refundExecutor) ExecuteRefund(ctx context.Context, purchaseID, reason string) (*contracts.RefundOutcome, error) {
	var purchase *models.Purchase
	var refundAmount int64

	outcome := &contracts.RefundOutcome{}
	err := svc.TransactionManager.WithinTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		locked, err := svc.PurchaseRepository.FindByIDForUpdateTx(ctx, tx, purchaseID)
		if err != nil {
			return err
		}
		if locked == nil {
			return exceptions.ErrPurchaseNotFound(nil)
		}
		if locked.Refunded {
			return nil
		}
		// An opened earning means the provider has been honored; the two
		// terminal states are mutually exclusive, so the refund declines.
		earning, err := svc.EarningRepository.FindByPurchaseIDTx(ctx, tx, purchaseID)
		if err != nil {
			return err
		}
		if earning != nil {
			return exceptions.ErrPurchaseAlreadyHonored(nil)
		}
		purchase = locked

		refundAmount = svc.refundAmountFor(locked.Amount, reason)
		if err := svc.PartyRepository.AddToSpendableWalletTx(ctx, tx, locked.PatientID, refundAmount); err != nil {
			return err
		}
		if err := svc.PurchaseRepository.MarkRefundedTx(ctx, tx, contracts.MarkRefundedInput{
			PurchaseID:   purchaseID,
			RefundAmount: refundAmount,
			RefundReason: reason,
			RefundedAt:   svc.now().UTC(),
		}); err != nil {
			return err
		}
		outcome.Applied = true
		outcome.Amount = refundAmount
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !outcome.Applied {
		svc.Logger.Info("refund skipped, purchase already settled",
			zap.String("purchase_id", purchaseID),
			zap.String("refund_reason", reason),
		)
		return outcome, nil
	}

	svc.Logger.Info("refund applied",
		zap.String("purchase_id", purchaseID),
		zap.String("refund_reason", reason),
		zap.Int64("refund_amount", refundAmount),
	)

	// Post-commit side effects never undo the committed refund.
	svc.releaseSlotHold(ctx, purchase)
	svc.notifyPatient(ctx, purchase, reason, refundAmount)
	if reason == constvars.RefundReasonDoctorNoResponse {
		svc.warnProvider(ctx, purchase)
	}
	return outcome, nil
}

// ProviderWarningLevel bands the provider's trailing-window no-response
// refund count into a severity.
func (svc *refundExecutor) ProviderWarningLevel(ctx context.Context, providerID string) (models.WarningLevel, int64, error) {
	since := svc.now().UTC().AddDate(0, 0, -constvars.WarningWindowDays)
	count, err := svc.PurchaseRepository.CountRefundsByProviderReasonSince(ctx, providerID, constvars.RefundReasonDoctorNoResponse, since)
	if err != nil {
		return models.WarningNone, 0, err
	}
	return bandWarningLevel(count, svc.RefundPolicy.WarningThresholds), count, nil
}

func (svc *refundExecutor) refundAmountFor(amount int64, reason string) int64 {
	percentage, ok := svc.RefundPolicy.Percentages[reason]
	if !ok {
		percentage = svc.RefundPolicy.Percentages[constvars.RefundReasonDefault]
	}
	return amount * percentage / 100
}

func (svc *refundExecutor) releaseSlotHold(ctx context.Context, purchase *models.Purchase) {
	if err := svc.SlotHoldService.ReleaseHold(ctx, purchase.SessionID); err != nil {
		svc.Logger.Warn("failed to release session slot hold",
			zap.String("session_id", purchase.SessionID),
			zap.Error(err),
		)
	}
}

func (svc *refundExecutor) notifyPatient(ctx context.Context, purchase *models.Purchase, reason string, refundAmount int64) {
	payload := models.NotificationPayload{
		Type:      constvars.NotificationTypeRefundProcessed,
		Amount:    refundAmount,
		Reason:    reason,
		Timestamp: svc.now().UTC(),
		Message:   fmt.Sprintf("Your consultation payment has been refunded (%s).", reason),
	}
	if err := svc.NotificationSink.NotifyPatient(ctx, purchase.PatientID, payload); err != nil {
		svc.Logger.Warn("failed to notify patient of refund",
			zap.String("patient_id", purchase.PatientID),
			zap.String("purchase_id", purchase.ID),
			zap.Error(err),
		)
	}
}

func (svc *refundExecutor) warnProvider(ctx context.Context, purchase *models.Purchase) {
	level, count, err := svc.ProviderWarningLevel(ctx, purchase.ProviderID)
	if err != nil {
		svc.Logger.Warn("failed to compute provider warning level",
			zap.String("provider_id", purchase.ProviderID),
			zap.Error(err),
		)
		return
	}
	if level == models.WarningNone {
		return
	}
	payload := models.NotificationPayload{
		Type:      constvars.NotificationTypeDoctorWarning,
		Reason:    constvars.RefundReasonDoctorNoResponse,
		Timestamp: svc.now().UTC(),
		Message:   fmt.Sprintf("Warning (%s): %d consultations refunded for no response in the last %d days.", level, count, constvars.WarningWindowDays),
	}
	if err := svc.NotificationSink.NotifyProvider(ctx, purchase.ProviderID, payload); err != nil {
		svc.Logger.Warn("failed to notify provider of warning",
			zap.String("provider_id", purchase.ProviderID),
			zap.Error(err),
		)
	}
}
