package repository

import (
	"context"
	"errors"

	"github.com/osse101/lotto/internal/domain"
	"github.com/osse101/lotto/internal/logger"
)

// Tx is the commit/rollback half of a unit of work
type Tx interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// SafeRollback is meant for defer. Rolling back an already committed tx is
// the normal success path and is not logged.
func SafeRollback(ctx context.Context, tx Tx) {
	err := tx.Rollback(ctx)
	if err == nil || errors.Is(err, domain.ErrTxClosed) || err.Error() == domain.ErrMsgTxClosed {
		return
	}
	logger.FromContext(ctx).Error("Failed to rollback transaction", "error", err)
}
