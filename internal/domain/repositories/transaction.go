package repositories

import "context"

// TxFn is a function that runs within a transaction
type TxFn func(ctx context.Context) error

// TransactionManager handles database transactions
type TransactionManager interface {
	// ExecTx executes a function within a transaction. Repositories called
	// with the provided context automatically participate in the
	// transaction; any error rolls back every row change.
	ExecTx(ctx context.Context, fn TxFn) error
}
