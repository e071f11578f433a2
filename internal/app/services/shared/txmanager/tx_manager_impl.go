package txmanager

import (
	"carepay-service/internal/app/contracts"
	"carepay-service/internal/pkg/exceptions"
	"context"
	"database/sql"
)

type postgresTxManager struct {
	DB *sql.DB
}

func NewPostgresTxManager(db *sql.DB) contracts.TransactionManager {
	return &postgresTxManager{
		DB: db,
	}
}

func (m *postgresTxManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context, tx *sql.Tx) error) error {
	tx, err := m.DB.BeginTx(ctx, nil)
	if err != nil {
		return exceptions.ErrPostgresDBBeginTx(err)
	}

	if err := fn(ctx, tx); err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return exceptions.ErrPostgresDBCommitTx(err)
	}
	return nil
}
