package purchases

import (
	"carepay-service/internal/app/contracts"
	"carepay-service/internal/app/models"
	"carepay-service/internal/pkg/exceptions"
	"carepay-service/internal/pkg/queries"
	"context"
	"database/sql"
	"time"
)

type purchasePostgresRepository struct {
	DB *sql.DB
}

func NewPurchasePostgresRepository(db *sql.DB) contracts.PurchaseRepository {
	return &purchasePostgresRepository{
		DB: db,
	}
}

func (repo *purchasePostgresRepository) CreatePurchaseTx(ctx context.Context, tx *sql.Tx, purchase *models.Purchase) (*models.Purchase, error) {
	row := tx.QueryRowContext(ctx, queries.InsertPurchase,
		purchase.ID,
		purchase.SessionID,
		purchase.PatientID,
		purchase.ProviderID,
		purchase.Amount,
		purchase.DurationMinutes,
		purchase.SessionStatus,
		purchase.CreatedAt,
		purchase.ExpiresAt,
	)
	created, err := scanPurchaseRow(row)
	if err != nil {
		return nil, exceptions.ErrPostgresDBInsertData(err)
	}
	return created, nil
}

func (repo *purchasePostgresRepository) FindByID(ctx context.Context, purchaseID string) (*models.Purchase, error) {
	purchase, err := scanPurchaseRow(repo.DB.QueryRowContext(ctx, queries.GetPurchaseByID, purchaseID))
	if err == sql.ErrNoRows {
		return nil, nil
	} else if err != nil {
		return nil, exceptions.ErrPostgresDBFindData(err)
	}
	return purchase, nil
}

func (repo *purchasePostgresRepository) FindByIDForUpdateTx(ctx context.Context, tx *sql.Tx, purchaseID string) (*models.Purchase, error) {
	purchase, err := scanPurchaseRow(tx.QueryRowContext(ctx, queries.GetPurchaseByIDForUpdate, purchaseID))
	if err == sql.ErrNoRows {
		return nil, nil
	} else if err != nil {
		return nil, exceptions.ErrPostgresDBFindData(err)
	}
	return purchase, nil
}

func (repo *purchasePostgresRepository) MarkRefundedTx(ctx context.Context, tx *sql.Tx, input contracts.MarkRefundedInput) error {
	result, err := tx.ExecContext(ctx, queries.MarkPurchaseRefunded,
		input.RefundAmount,
		input.RefundReason,
		input.RefundedAt,
		input.PurchaseID,
	)
	if err != nil {
		return exceptions.ErrPostgresDBUpdateData(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return exceptions.ErrPostgresDBUpdateData(err)
	}
	if affected == 0 {
		return exceptions.ErrPurchaseAlreadyRefunded(sql.ErrNoRows)
	}
	return nil
}

func (repo *purchasePostgresRepository) MarkSessionCompletedTx(ctx context.Context, tx *sql.Tx, purchaseID string) error {
	_, err := tx.ExecContext(ctx, queries.MarkPurchaseSessionCompleted, purchaseID)
	if err != nil {
		return exceptions.ErrPostgresDBUpdateData(err)
	}
	return nil
}

func (repo *purchasePostgresRepository) FindEligibleForRefund(ctx context.Context, cutoff time.Time) ([]models.Purchase, error) {
	rows, err := repo.DB.QueryContext(ctx, queries.GetPurchasesEligibleForRefund, cutoff)
	if err != nil {
		return nil, exceptions.ErrPostgresDBFindData(err)
	}
	defer rows.Close()
	return scanPurchaseRows(rows)
}

func (repo *purchasePostgresRepository) FindRefundedByPatient(ctx context.Context, patientID string) ([]models.Purchase, error) {
	rows, err := repo.DB.QueryContext(ctx, queries.GetRefundedPurchasesByPatient, patientID)
	if err != nil {
		return nil, exceptions.ErrPostgresDBFindData(err)
	}
	defer rows.Close()
	return scanPurchaseRows(rows)
}

func (repo *purchasePostgresRepository) CountRefundsByProviderReasonSince(ctx context.Context, providerID, reason string, since time.Time) (int64, error) {
	var count int64
	err := repo.DB.QueryRowContext(ctx, queries.CountRefundsByProviderReasonSince, providerID, reason, since).Scan(&count)
	if err != nil {
		return 0, exceptions.ErrPostgresDBFindData(err)
	}
	return count, nil
}

func (repo *purchasePostgresRepository) CountPurchasesByProviderSince(ctx context.Context, providerID string, since time.Time) (int64, error) {
	var count int64
	err := repo.DB.QueryRowContext(ctx, queries.CountPurchasesByProviderSince, providerID, since).Scan(&count)
	if err != nil {
		return 0, exceptions.ErrPostgresDBFindData(err)
	}
	return count, nil
}

func (repo *purchasePostgresRepository) RefundStatistics(ctx context.Context) (*models.RefundStatistics, error) {
	stats := &models.RefundStatistics{
		RefundsByReason: make(map[string]int64),
	}
	err := repo.DB.QueryRowContext(ctx, queries.GetRefundTotals).Scan(&stats.TotalRefunds, &stats.TotalRefundedAmount)
	if err != nil {
		return nil, exceptions.ErrPostgresDBFindData(err)
	}

	rows, err := repo.DB.QueryContext(ctx, queries.GetRefundCountsByReason)
	if err != nil {
		return nil, exceptions.ErrPostgresDBFindData(err)
	}
	defer rows.Close()
	for rows.Next() {
		var reason string
		var count int64
		if err := rows.Scan(&reason, &count); err != nil {
			return nil, exceptions.ErrPostgresDBFindData(err)
		}
		stats.RefundsByReason[reason] = count
	}
	if err := rows.Err(); err != nil {
		return nil, exceptions.ErrPostgresDBFindData(err)
	}
	return stats, nil
}

type purchaseScanner interface {
	Scan(dest ...any) error
}

func scanPurchase(scanner purchaseScanner) (*models.Purchase, error) {
	var purchase models.Purchase
	err := scanner.Scan(
		&purchase.ID,
		&purchase.SessionID,
		&purchase.PatientID,
		&purchase.ProviderID,
		&purchase.Amount,
		&purchase.DurationMinutes,
		&purchase.SessionStatus,
		&purchase.Refunded,
		&purchase.RefundAmount,
		&purchase.RefundReason,
		&purchase.RefundedAt,
		&purchase.CreatedAt,
		&purchase.ExpiresAt,
	)
	if err != nil {
		return nil, err
	}
	return &purchase, nil
}

func scanPurchaseRow(row *sql.Row) (*models.Purchase, error) {
	return scanPurchase(row)
}

func scanPurchaseRows(rows *sql.Rows) ([]models.Purchase, error) {
	result := []models.Purchase{}
	for rows.Next() {
		purchase, err := scanPurchase(rows)
		if err != nil {
			return nil, exceptions.ErrPostgresDBFindData(err)
		}
		result = append(result, *purchase)
	}
	if err := rows.Err(); err != nil {
		return nil, exceptions.ErrPostgresDBFindData(err)
	}
	return result, nil
}
