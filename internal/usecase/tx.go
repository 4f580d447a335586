package usecase

import "context"

// withTx runs fn inside a transaction bounded by DefaultTransactionTimeout.
// The transaction is committed when fn succeeds and rolled back otherwise.
// With a retrier, the whole transaction is re-run on retryable failures.
func withTx(ctx context.Context, txManager TransactionManager, retrier Retrier, fn func(ctx context.Context, tx Transaction) error) error {
	run := func() error {
		txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
		defer cancel()

		tx, err := txManager.Begin(txCtx)
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback(txCtx) }()

		if err := fn(txCtx, tx); err != nil {
			return err
		}

		return tx.Commit(txCtx)
	}

	if retrier == nil {
		return run()
	}
	return retrier.Retry(ctx, run)
}
