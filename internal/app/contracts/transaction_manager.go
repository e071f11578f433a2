package contracts

import (
	"context"
	"database/sql"
)

// TransactionManager scopes a set of repository calls to one database
// transaction. The callback's error rolls the whole unit back; a nil
// return commits it.
type TransactionManager interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context, tx *sql.Tx) error) error
}
