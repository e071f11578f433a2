package payouts

import (
	"carepay-service/internal/app/contracts"
	"carepay-service/internal/app/models"
	"carepay-service/internal/pkg/exceptions"
	"carepay-service/internal/pkg/queries"
	"context"
	"database/sql"
)

type payoutPostgresRepository struct {
	DB *sql.DB
}

func NewPayoutPostgresRepository(db *sql.DB) contracts.PayoutRequestRepository {
	return &payoutPostgresRepository{
		DB: db,
	}
}

func (repo *payoutPostgresRepository) CreatePayoutRequestTx(ctx context.Context, tx *sql.Tx, request *models.PayoutRequest) (*models.PayoutRequest, error) {
	row := tx.QueryRowContext(ctx, queries.InsertPayoutRequest,
		request.ID,
		request.ProviderID,
		request.Amount,
		request.BankDetails.AccountName,
		request.BankDetails.AccountNumber,
		request.BankDetails.BankName,
		request.Status,
		request.RequestedAt,
	)
	created, err := scanPayoutRequest(row)
	if err != nil {
		return nil, exceptions.ErrPostgresDBInsertData(err)
	}
	return created, nil
}

func (repo *payoutPostgresRepository) FindByID(ctx context.Context, requestID string) (*models.PayoutRequest, error) {
	request, err := scanPayoutRequest(repo.DB.QueryRowContext(ctx, queries.GetPayoutRequestByID, requestID))
	if err == sql.ErrNoRows {
		return nil, nil
	} else if err != nil {
		return nil, exceptions.ErrPostgresDBFindData(err)
	}
	return request, nil
}

func (repo *payoutPostgresRepository) FindByIDForUpdateTx(ctx context.Context, tx *sql.Tx, requestID string) (*models.PayoutRequest, error) {
	request, err := scanPayoutRequest(tx.QueryRowContext(ctx, queries.GetPayoutRequestByIDForUpdate, requestID))
	if err == sql.ErrNoRows {
		return nil, nil
	} else if err != nil {
		return nil, exceptions.ErrPostgresDBFindData(err)
	}
	return request, nil
}

func (repo *payoutPostgresRepository) HasPendingByProviderTx(ctx context.Context, tx *sql.Tx, providerID string) (bool, error) {
	var count int64
	err := tx.QueryRowContext(ctx, queries.CountPendingPayoutRequestsByProvider, providerID).Scan(&count)
	if err != nil {
		return false, exceptions.ErrPostgresDBFindData(err)
	}
	return count > 0, nil
}

func (repo *payoutPostgresRepository) UpdateStatusTx(ctx context.Context, tx *sql.Tx, input contracts.UpdatePayoutStatusInput) error {
	var result sql.Result
	var err error
	switch input.Status {
	case models.PayoutApproved:
		result, err = tx.ExecContext(ctx, queries.UpdatePayoutRequestApproved, input.AdminNote, input.StatusAt, input.RequestID)
	case models.PayoutRejected:
		result, err = tx.ExecContext(ctx, queries.UpdatePayoutRequestRejected, input.AdminNote, input.StatusAt, input.RequestID)
	case models.PayoutCancelled:
		result, err = tx.ExecContext(ctx, queries.UpdatePayoutRequestCancelled, input.StatusAt, input.RequestID)
	case models.PayoutCompleted:
		result, err = tx.ExecContext(ctx, queries.UpdatePayoutRequestCompleted, input.TransferProofObject, input.StatusAt, input.RequestID)
	default:
		return exceptions.ErrPayoutRequestNotPending(nil)
	}
	if err != nil {
		return exceptions.ErrPostgresDBUpdateData(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return exceptions.ErrPostgresDBUpdateData(err)
	}
	if affected == 0 {
		if input.Status == models.PayoutCompleted {
			return exceptions.ErrPayoutRequestNotApproved(sql.ErrNoRows)
		}
		return exceptions.ErrPayoutRequestNotPending(sql.ErrNoRows)
	}
	return nil
}

func (repo *payoutPostgresRepository) FindByProvider(ctx context.Context, providerID string) ([]models.PayoutRequest, error) {
	rows, err := repo.DB.QueryContext(ctx, queries.GetPayoutRequestsByProvider, providerID)
	if err != nil {
		return nil, exceptions.ErrPostgresDBFindData(err)
	}
	defer rows.Close()
	return scanPayoutRequestRows(rows)
}

func (repo *payoutPostgresRepository) FindPending(ctx context.Context) ([]models.PayoutRequest, error) {
	rows, err := repo.DB.QueryContext(ctx, queries.GetPendingPayoutRequests)
	if err != nil {
		return nil, exceptions.ErrPostgresDBFindData(err)
	}
	defer rows.Close()
	return scanPayoutRequestRows(rows)
}

type payoutScanner interface {
	Scan(dest ...any) error
}

func scanPayoutRequest(scanner payoutScanner) (*models.PayoutRequest, error) {
	var request models.PayoutRequest
	err := scanner.Scan(
		&request.ID,
		&request.ProviderID,
		&request.Amount,
		&request.BankDetails.AccountName,
		&request.BankDetails.AccountNumber,
		&request.BankDetails.BankName,
		&request.Status,
		&request.AdminNote,
		&request.TransferProofObject,
		&request.RequestedAt,
		&request.ApprovedAt,
		&request.RejectedAt,
		&request.CancelledAt,
		&request.ProcessedAt,
	)
	if err != nil {
		return nil, err
	}
	return &request, nil
}

func scanPayoutRequestRows(rows *sql.Rows) ([]models.PayoutRequest, error) {
	result := []models.PayoutRequest{}
	for rows.Next() {
		request, err := scanPayoutRequest(rows)
		if err != nil {
			return nil, exceptions.ErrPostgresDBFindData(err)
		}
		result = append(result, *request)
	}
	if err := rows.Err(); err != nil {
		return nil, exceptions.ErrPostgresDBFindData(err)
	}
	return result, nil
}
