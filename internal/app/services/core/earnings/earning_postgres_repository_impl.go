package earnings

import (
	"carepay-service/internal/app/contracts"
	"carepay-service/internal/app/models"
	"carepay-service/internal/pkg/exceptions"
	"carepay-service/internal/pkg/queries"
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"
)

type earningPostgresRepository struct {
	DB *sql.DB
}

func NewEarningPostgresRepository(db *sql.DB) contracts.EarningRepository {
	return &earningPostgresRepository{
		DB: db,
	}
}

func (repo *earningPostgresRepository) CreateEarningTx(ctx context.Context, tx *sql.Tx, earning *models.Earning) (*models.Earning, error) {
	row := tx.QueryRowContext(ctx, queries.InsertEarning,
		earning.ID,
		earning.ProviderID,
		earning.PurchaseID,
		earning.TotalAmount,
		earning.CommissionPercentage,
		earning.ProviderAmount,
		earning.PlatformFee,
		earning.Status,
		earning.CreatedAt,
	)
	created, err := scanEarning(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, exceptions.ErrEarningAlreadyExists(err)
		}
		return nil, exceptions.ErrPostgresDBInsertData(err)
	}
	return created, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

func (repo *earningPostgresRepository) FindByID(ctx context.Context, earningID string) (*models.Earning, error) {
	earning, err := scanEarning(repo.DB.QueryRowContext(ctx, queries.GetEarningByID, earningID))
	if err == sql.ErrNoRows {
		return nil, nil
	} else if err != nil {
		return nil, exceptions.ErrPostgresDBFindData(err)
	}
	return earning, nil
}

func (repo *earningPostgresRepository) FindByIDForUpdateTx(ctx context.Context, tx *sql.Tx, earningID string) (*models.Earning, error) {
	earning, err := scanEarning(tx.QueryRowContext(ctx, queries.GetEarningByIDForUpdate, earningID))
	if err == sql.ErrNoRows {
		return nil, nil
	} else if err != nil {
		return nil, exceptions.ErrPostgresDBFindData(err)
	}
	return earning, nil
}

func (repo *earningPostgresRepository) FindByPurchaseIDTx(ctx context.Context, tx *sql.Tx, purchaseID string) (*models.Earning, error) {
	earning, err := scanEarning(tx.QueryRowContext(ctx, queries.GetEarningByPurchaseID, purchaseID))
	if err == sql.ErrNoRows {
		return nil, nil
	} else if err != nil {
		return nil, exceptions.ErrPostgresDBFindData(err)
	}
	return earning, nil
}

func (repo *earningPostgresRepository) MarkConfirmedTx(ctx context.Context, tx *sql.Tx, earningID string, confirmedAt time.Time) error {
	result, err := tx.ExecContext(ctx, queries.MarkEarningConfirmed, confirmedAt, earningID)
	if err != nil {
		return exceptions.ErrPostgresDBUpdateData(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return exceptions.ErrPostgresDBUpdateData(err)
	}
	if affected == 0 {
		return exceptions.ErrEarningNotPending(sql.ErrNoRows)
	}
	return nil
}

func (repo *earningPostgresRepository) FindConfirmedByProviderForUpdateTx(ctx context.Context, tx *sql.Tx, providerID string) ([]models.Earning, error) {
	rows, err := tx.QueryContext(ctx, queries.GetConfirmedEarningsByProviderForUpdate, providerID)
	if err != nil {
		return nil, exceptions.ErrPostgresDBFindData(err)
	}
	defer rows.Close()
	return scanEarningRows(rows)
}

func (repo *earningPostgresRepository) MarkWithdrawnTx(ctx context.Context, tx *sql.Tx, earningIDs []string, withdrawnAt time.Time) error {
	_, err := tx.ExecContext(ctx, queries.MarkEarningsWithdrawn, withdrawnAt, pq.Array(earningIDs))
	if err != nil {
		return exceptions.ErrPostgresDBUpdateData(err)
	}
	return nil
}

func (repo *earningPostgresRepository) FindByProvider(ctx context.Context, providerID string) ([]models.Earning, error) {
	rows, err := repo.DB.QueryContext(ctx, queries.GetEarningsByProvider, providerID)
	if err != nil {
		return nil, exceptions.ErrPostgresDBFindData(err)
	}
	defer rows.Close()
	return scanEarningRows(rows)
}

func (repo *earningPostgresRepository) SummaryByProvider(ctx context.Context, providerID string) (*models.EarningsSummary, error) {
	summary := &models.EarningsSummary{ProviderID: providerID}
	err := repo.DB.QueryRowContext(ctx, queries.GetEarningsSummaryByProvider, providerID).Scan(
		&summary.PendingAmount,
		&summary.ConfirmedAmount,
		&summary.WithdrawnAmount,
	)
	if err != nil {
		return nil, exceptions.ErrPostgresDBFindData(err)
	}
	return summary, nil
}

type earningScanner interface {
	Scan(dest ...any) error
}

func scanEarning(scanner earningScanner) (*models.Earning, error) {
	var earning models.Earning
	err := scanner.Scan(
		&earning.ID,
		&earning.ProviderID,
		&earning.PurchaseID,
		&earning.TotalAmount,
		&earning.CommissionPercentage,
		&earning.ProviderAmount,
		&earning.PlatformFee,
		&earning.Status,
		&earning.CreatedAt,
		&earning.ConfirmedAt,
		&earning.WithdrawnAt,
	)
	if err != nil {
		return nil, err
	}
	return &earning, nil
}

func scanEarningRows(rows *sql.Rows) ([]models.Earning, error) {
	result := []models.Earning{}
	for rows.Next() {
		earning, err := scanEarning(rows)
		if err != nil {
			return nil, exceptions.ErrPostgresDBFindData(err)
		}
		result = append(result, *earning)
	}
	if err := rows.Err(); err != nil {
		return nil, exceptions.ErrPostgresDBFindData(err)
	}
	return result, nil
}
