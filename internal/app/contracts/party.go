package contracts

import (
	"carepay-service/internal/app/models"
	"context"
	"database/sql"
)

type PartyRepository interface {
	FindByID(ctx context.Context, partyID string) (*models.Party, error)
	// FindByIDForUpdateTx locks the party row for the remainder of the
	// transaction. This is the serialization point for wallet mutations.
	FindByIDForUpdateTx(ctx context.Context, tx *sql.Tx, partyID string) (*models.Party, error)
	AddToSpendableWalletTx(ctx context.Context, tx *sql.Tx, partyID string, delta int64) error
	AddToPayoutWalletTx(ctx context.Context, tx *sql.Tx, partyID string, delta int64) error
}
