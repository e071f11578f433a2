package payouts

import (
	"carepay-service/internal/app/contracts"
	"carepay-service/internal/app/models"
	"carepay-service/internal/pkg/exceptions"
	"carepay-service/internal/pkg/utils"
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type payoutUsecase struct {
	PayoutRepository   contracts.PayoutRequestRepository
	PartyRepository    contracts.PartyRepository
	EarningUsecase     contracts.EarningUsecase
	TransactionManager contracts.TransactionManager
	Storage            contracts.Storage
	Logger             *zap.Logger
	now                func() time.Time
}

func NewPayoutUsecase(
	payoutRepository contracts.PayoutRequestRepository,
	partyRepository contracts.PartyRepository,
	earningUsecase contracts.EarningUsecase,
	transactionManager contracts.TransactionManager,
	storage contracts.Storage,
	logger *zap.Logger,
) contracts.PayoutUsecase {
	return &payoutUsecase{
		PayoutRepository:   payoutRepository,
		PartyRepository:    partyRepository,
		EarningUsecase:     earningUsecase,
		TransactionManager: transactionManager,
		Storage:            storage,
		Logger:             logger,
		now:                time.Now,
	}
}

// CreatePayoutRequest reserves the requested amount out of the provider
// payout wallet the moment the request is filed. The provider row lock
// serializes concurrent requests so the single-pending rule and the
// balance check cannot race.
func (uc *payoutUsecase) CreatePayoutRequest(ctx context.Context, providerID string, amount int64, bankDetails models.BankDetails) (*models.PayoutRequest, error) {
	request := &models.PayoutRequest{
		ID:          uuid.NewString(),
		ProviderID:  providerID,
		Amount:      amount,
		BankDetails: bankDetails,
		Status:      models.PayoutPending,
		RequestedAt: uc.now().UTC(),
	}

	err := uc.TransactionManager.WithinTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		provider, err := uc.PartyRepository.FindByIDForUpdateTx(ctx, tx, providerID)
		if err != nil {
			return err
		}
		if provider == nil {
			return exceptions.ErrPartyNotFound(nil)
		}
		hasPending, err := uc.PayoutRepository.HasPendingByProviderTx(ctx, tx, providerID)
		if err != nil {
			return err
		}
		if hasPending {
			return exceptions.ErrPayoutRequestAlreadyPending(nil)
		}
		if provider.PayoutWallet < amount {
			return exceptions.ErrInsufficientPayoutBalance(nil)
		}
		if err := uc.PartyRepository.AddToPayoutWalletTx(ctx, tx, providerID, -amount); err != nil {
			return err
		}
		created, err := uc.PayoutRepository.CreatePayoutRequestTx(ctx, tx, request)
		if err != nil {
			return err
		}
		request = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.Logger.Info("payout request created",
		zap.String("payout_request_id", request.ID),
		zap.String("provider_id", providerID),
		zap.Int64("amount", amount),
	)
	return request, nil
}

// ApprovePayoutRequest moves PENDING to APPROVED. The reservation stays
// in place; funds return to the wallet only on rejection or cancellation.
func (uc *payoutUsecase) ApprovePayoutRequest(ctx context.Context, requestID, note string) (*models.PayoutRequest, error) {
	return uc.reviewWithoutRelease(ctx, requestID, note, models.PayoutApproved)
}

// RejectPayoutRequest moves PENDING to REJECTED and re-credits the
// reserved amount in the same transaction.
func (uc *payoutUsecase) RejectPayoutRequest(ctx context.Context, requestID, note string) (*models.PayoutRequest, error) {
	return uc.releaseReservation(ctx, requestID, "", &note, models.PayoutRejected)
}

// CancelPayoutRequest is the provider-initiated counterpart of reject.
// Ownership is checked against the locked row.
func (uc *payoutUsecase) CancelPayoutRequest(ctx context.Context, providerID, requestID string) (*models.PayoutRequest, error) {
	return uc.releaseReservation(ctx, requestID, providerID, nil, models.PayoutCancelled)
}

// CompletePayoutRequest finishes an APPROVED request: the transfer proof
// goes to object storage first, then one transaction flips the status and
// settles the provider's oldest confirmed earnings as withdrawn.
func (uc *payoutUsecase) CompletePayoutRequest(ctx context.Context, requestID string, proof contracts.TransferProof) (*models.PayoutRequest, error) {
	objectName := utils.GenerateTransferProofObjectName(requestID, proof.FileExtension)
	if _, err := uc.Storage.UploadObject(ctx, objectName, proof.ContentType, proof.File, proof.Size); err != nil {
		return nil, err
	}

	var completed *models.PayoutRequest
	err := uc.TransactionManager.WithinTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		request, err := uc.PayoutRepository.FindByIDForUpdateTx(ctx, tx, requestID)
		if err != nil {
			return err
		}
		if request == nil {
			return exceptions.ErrPayoutRequestNotFound(nil)
		}
		if request.Status != models.PayoutApproved {
			return exceptions.ErrPayoutRequestNotApproved(nil)
		}

		processedAt := uc.now().UTC()
		if err := uc.PayoutRepository.UpdateStatusTx(ctx, tx, contracts.UpdatePayoutStatusInput{
			RequestID:           requestID,
			Status:              models.PayoutCompleted,
			TransferProofObject: &objectName,
			StatusAt:            processedAt,
		}); err != nil {
			return err
		}
		if err := uc.EarningUsecase.SettleWithdrawal(ctx, tx, request.ProviderID, request.Amount, processedAt); err != nil {
			return err
		}

		request.Status = models.PayoutCompleted
		request.TransferProofObject = &objectName
		request.ProcessedAt = &processedAt
		completed = request
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.Logger.Info("payout request completed",
		zap.String("payout_request_id", completed.ID),
		zap.String("provider_id", completed.ProviderID),
		zap.Int64("amount", completed.Amount),
		zap.String("transfer_proof_object", objectName),
	)
	return completed, nil
}

func (uc *payoutUsecase) PayoutRequestsByProvider(ctx context.Context, providerID string) ([]models.PayoutRequest, error) {
	return uc.PayoutRepository.FindByProvider(ctx, providerID)
}

func (uc *payoutUsecase) ListPendingPayoutRequests(ctx context.Context) ([]models.PayoutRequest, error) {
	return uc.PayoutRepository.FindPending(ctx)
}

func (uc *payoutUsecase) reviewWithoutRelease(ctx context.Context, requestID, note string, status models.PayoutRequestStatus) (*models.PayoutRequest, error) {
	var reviewed *models.PayoutRequest
	err := uc.TransactionManager.WithinTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		request, err := uc.PayoutRepository.FindByIDForUpdateTx(ctx, tx, requestID)
		if err != nil {
			return err
		}
		if request == nil {
			return exceptions.ErrPayoutRequestNotFound(nil)
		}
		if request.Status != models.PayoutPending {
			return exceptions.ErrPayoutRequestNotPending(nil)
		}

		statusAt := uc.now().UTC()
		if err := uc.PayoutRepository.UpdateStatusTx(ctx, tx, contracts.UpdatePayoutStatusInput{
			RequestID: requestID,
			Status:    status,
			AdminNote: &note,
			StatusAt:  statusAt,
		}); err != nil {
			return err
		}

		request.Status = status
		request.AdminNote = &note
		if status == models.PayoutApproved {
			request.ApprovedAt = &statusAt
		}
		reviewed = request
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.Logger.Info("payout request reviewed",
		zap.String("payout_request_id", reviewed.ID),
		zap.String("status", string(reviewed.Status)),
	)
	return reviewed, nil
}

// releaseReservation is the shared reject/cancel path: status flip plus
// wallet re-credit in one transaction. ownerID, when set, must match the
// request's provider.
func (uc *payoutUsecase) releaseReservation(ctx context.Context, requestID, ownerID string, note *string, status models.PayoutRequestStatus) (*models.PayoutRequest, error) {
	var released *models.PayoutRequest
	err := uc.TransactionManager.WithinTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		request, err := uc.PayoutRepository.FindByIDForUpdateTx(ctx, tx, requestID)
		if err != nil {
			return err
		}
		if request == nil {
			return exceptions.ErrPayoutRequestNotFound(nil)
		}
		if ownerID != "" && request.ProviderID != ownerID {
			return exceptions.ErrPayoutRequestNotOwned(nil)
		}
		if request.Status != models.PayoutPending {
			return exceptions.ErrPayoutRequestNotPending(nil)
		}

		statusAt := uc.now().UTC()
		if err := uc.PayoutRepository.UpdateStatusTx(ctx, tx, contracts.UpdatePayoutStatusInput{
			RequestID: requestID,
			Status:    status,
			AdminNote: note,
			StatusAt:  statusAt,
		}); err != nil {
			return err
		}
		if err := uc.PartyRepository.AddToPayoutWalletTx(ctx, tx, request.ProviderID, request.Amount); err != nil {
			return err
		}

		request.Status = status
		request.AdminNote = note
		if status == models.PayoutRejected {
			request.RejectedAt = &statusAt
		} else {
			request.CancelledAt = &statusAt
		}
		released = request
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.Logger.Info("payout reservation released",
		zap.String("payout_request_id", released.ID),
		zap.String("provider_id", released.ProviderID),
		zap.String("status", string(released.Status)),
		zap.Int64("amount", released.Amount),
	)
	return released, nil
}
