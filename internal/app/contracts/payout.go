package contracts

import (
	"carepay-service/internal/app/models"
	"context"
	"database/sql"
	"io"
	"time"
)

type PayoutRequestRepository interface {
	CreatePayoutRequestTx(ctx context.Context, tx *sql.Tx, request *models.PayoutRequest) (*models.PayoutRequest, error)
	FindByID(ctx context.Context, requestID string) (*models.PayoutRequest, error)
	FindByIDForUpdateTx(ctx context.Context, tx *sql.Tx, requestID string) (*models.PayoutRequest, error)
	HasPendingByProviderTx(ctx context.Context, tx *sql.Tx, providerID string) (bool, error)
	UpdateStatusTx(ctx context.Context, tx *sql.Tx, input UpdatePayoutStatusInput) error
	FindByProvider(ctx context.Context, providerID string) ([]models.PayoutRequest, error)
	FindPending(ctx context.Context) ([]models.PayoutRequest, error)
}

type UpdatePayoutStatusInput struct {
	RequestID           string
	Status              models.PayoutRequestStatus
	AdminNote           *string
	TransferProofObject *string
	StatusAt            time.Time
}

type PayoutUsecase interface {
	CreatePayoutRequest(ctx context.Context, providerID string, amount int64, bankDetails models.BankDetails) (*models.PayoutRequest, error)
	ApprovePayoutRequest(ctx context.Context, requestID, note string) (*models.PayoutRequest, error)
	RejectPayoutRequest(ctx context.Context, requestID, note string) (*models.PayoutRequest, error)
	CancelPayoutRequest(ctx context.Context, providerID, requestID string) (*models.PayoutRequest, error)
	CompletePayoutRequest(ctx context.Context, requestID string, proof TransferProof) (*models.PayoutRequest, error)
	PayoutRequestsByProvider(ctx context.Context, providerID string) ([]models.PayoutRequest, error)
	ListPendingPayoutRequests(ctx context.Context) ([]models.PayoutRequest, error)
}

type TransferProof struct {
	File          io.Reader
	Size          int64
	FileExtension string
	ContentType   string
}
