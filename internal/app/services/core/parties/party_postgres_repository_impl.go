package parties

import (
	"carepay-service/internal/app/contracts"
	"carepay-service/internal/app/models"
	"carepay-service/internal/pkg/exceptions"
	"carepay-service/internal/pkg/queries"
	"context"
	"database/sql"
)

type partyPostgresRepository struct {
	DB *sql.DB
}

func NewPartyPostgresRepository(db *sql.DB) contracts.PartyRepository {
	return &partyPostgresRepository{
		DB: db,
	}
}

func (repo *partyPostgresRepository) FindByID(ctx context.Context, partyID string) (*models.Party, error) {
	return scanParty(repo.DB.QueryRowContext(ctx, queries.GetPartyByID, partyID))
}

func (repo *partyPostgresRepository) FindByIDForUpdateTx(ctx context.Context, tx *sql.Tx, partyID string) (*models.Party, error) {
	return scanParty(tx.QueryRowContext(ctx, queries.GetPartyByIDForUpdate, partyID))
}

func (repo *partyPostgresRepository) AddToSpendableWalletTx(ctx context.Context, tx *sql.Tx, partyID string, delta int64) error {
	_, err := tx.ExecContext(ctx, queries.AddToSpendableWallet, delta, partyID)
	if err != nil {
		return exceptions.ErrPostgresDBUpdateData(err)
	}
	return nil
}

func (repo *partyPostgresRepository) AddToPayoutWalletTx(ctx context.Context, tx *sql.Tx, partyID string, delta int64) error {
	_, err := tx.ExecContext(ctx, queries.AddToPayoutWallet, delta, partyID)
	if err != nil {
		return exceptions.ErrPostgresDBUpdateData(err)
	}
	return nil
}

func scanParty(row *sql.Row) (*models.Party, error) {
	var party models.Party
	err := row.Scan(
		&party.ID,
		&party.Name,
		&party.Role,
		&party.SpendableWallet,
		&party.PayoutWallet,
		&party.CreatedAt,
		&party.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	} else if err != nil {
		return nil, exceptions.ErrPostgresDBFindData(err)
	}
	return &party, nil
}
