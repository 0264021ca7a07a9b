package lotto

import (
	"context"
	"errors"
	"fmt"

	"github.com/osse101/lotto/internal/domain"
	"github.com/osse101/lotto/internal/event"
	"github.com/osse101/lotto/internal/logger"
	"github.com/osse101/lotto/internal/repository"
)

// ResetStuckDraw abandons a draw that has been pending longer than the draw
// timeout and reopens the pool. Participants, balance and the last draw time
// are kept, so the next upkeep check requests a fresh draw for the same round.
func (s *service) ResetStuckDraw(ctx context.Context) (*domain.Draw, error) {
	log := logger.FromContext(ctx)

	if err := s.track(); err != nil {
		return nil, err
	}
	defer s.wg.Done()

	tx, err := s.repo.BeginPoolTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextFailedToBeginTx, err)
	}
	defer repository.SafeRollback(ctx, tx)

	pool, err := tx.GetPoolForUpdate(ctx, s.poolID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextFailedToLoadPool, err)
	}
	if pool.State != domain.PoolStateCalculating || pool.PendingRequestID == nil {
		return nil, fmt.Errorf("%w: state is %s", domain.ErrDrawNotStuck, pool.State)
	}

	now := s.clock.Now()
	requestID := *pool.PendingRequestID
	var pendingFor = s.drawTimeout
	if pool.PendingSince != nil {
		pendingFor = now.Sub(*pool.PendingSince)
	}
	if pendingFor < s.drawTimeout {
		return nil, fmt.Errorf("%w: pending for %s, timeout is %s", domain.ErrDrawNotStuck, pendingFor, s.drawTimeout)
	}

	draw, err := tx.GetDraw(ctx, s.poolID, requestID)
	if err != nil && !errors.Is(err, domain.ErrDrawNotFound) {
		return nil, fmt.Errorf("%s: %w", ErrContextFailedToRecordDraw, err)
	}
	if draw != nil {
		draw.Status = domain.DrawStatusAbandoned
		draw.ResolvedAt = &now
		if err := tx.UpdateDraw(ctx, draw); err != nil {
			return nil, fmt.Errorf("%s: %w", ErrContextFailedToRecordDraw, err)
		}
	}

	pool.State = domain.PoolStateOpen
	pool.PendingRequestID = nil
	pool.PendingSince = nil
	if err := tx.UpdatePool(ctx, pool); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextFailedToUpdatePool, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextFailedToCommitTx, err)
	}

	s.cancelRequest(ctx, requestID)

	log.Warn(LogMsgDrawReset, "pool_id", s.poolID, "request_id", requestID, "pending_for", pendingFor)
	s.publish(ctx, event.NewDrawResetEvent(s.poolID, uint64(requestID), pendingFor, now))

	if draw == nil {
		draw = &domain.Draw{PoolID: s.poolID, RequestID: requestID, Status: domain.DrawStatusAbandoned, ResolvedAt: &now}
	}
	s.cacheDraw(draw)
	return draw, nil
}
