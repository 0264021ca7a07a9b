package lotto

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/osse101/lotto/internal/domain"
	"github.com/osse101/lotto/internal/event"
	"github.com/osse101/lotto/internal/logger"
	"github.com/osse101/lotto/internal/repository"
	"github.com/osse101/lotto/internal/vrf"
)

// evaluateUpkeep computes the draw conditions on one pool snapshot
func evaluateUpkeep(pool *domain.Pool, now time.Time) domain.UpkeepStatus {
	elapsed := now.Sub(pool.LastDrawAt)
	status := domain.UpkeepStatus{
		IsOpen:          pool.State == domain.PoolStateOpen,
		TimePassed:      elapsed >= pool.Config.Interval,
		HasBalance:      pool.Balance.Sign() > 0,
		HasPlayers:      pool.NumParticipants > 0,
		State:           pool.State,
		Balance:         new(big.Int).Set(pool.Balance),
		NumParticipants: pool.NumParticipants,
		Elapsed:         elapsed,
	}
	status.Needed = status.IsOpen && status.TimePassed && status.HasBalance && status.HasPlayers
	return status
}

// CheckUpkeep reports whether a draw is due. It never writes.
func (s *service) CheckUpkeep(ctx context.Context) (*domain.UpkeepStatus, error) {
	pool, err := s.repo.GetPool(ctx, s.poolID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextFailedToLoadPool, err)
	}
	status := evaluateUpkeep(pool, s.clock.Now())
	return &status, nil
}

// PerformUpkeep starts a draw. The conditions are evaluated again under the
// pool lock; performData is accepted for interface compatibility and ignored.
func (s *service) PerformUpkeep(ctx context.Context, _ []byte) (domain.RequestID, error) {
	log := logger.FromContext(ctx)
	log.Info(LogMsgPerformUpkeepCalled, "pool_id", s.poolID)

	if err := s.track(); err != nil {
		return 0, err
	}
	defer s.wg.Done()

	tx, err := s.repo.BeginPoolTx(ctx)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", ErrContextFailedToBeginTx, err)
	}
	defer repository.SafeRollback(ctx, tx)

	pool, err := tx.GetPoolForUpdate(ctx, s.poolID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", ErrContextFailedToLoadPool, err)
	}

	now := s.clock.Now()
	status := evaluateUpkeep(pool, now)
	if !status.Needed {
		upkeepErr := domain.NewUpkeepNotNeededError(status, pool.Config.Interval)
		log.Info(LogMsgUpkeepNotNeeded, "pool_id", s.poolID, "reason", upkeepErr)
		return 0, upkeepErr
	}

	requestID, err := s.coordinator.RequestRandomWords(ctx, vrf.RandomWordsRequest{
		Consumer:             s.address,
		KeyHash:              pool.Config.KeyHash,
		SubscriptionID:       pool.Config.SubscriptionID,
		RequestConfirmations: pool.Config.RequestConfirmations,
		CallbackGasLimit:     pool.Config.CallbackGasLimit,
		NumWords:             pool.Config.NumWords,
	})
	if err != nil {
		return 0, fmt.Errorf("%s: %w", ErrContextFailedToRequestRandomness, err)
	}

	if err := s.recordDrawRequest(ctx, tx, pool, requestID, now); err != nil {
		log.Error(LogMsgOrphanedRequest, "pool_id", s.poolID, "request_id", requestID, "error", err)
		s.cancelRequest(ctx, requestID)
		return 0, err
	}

	log.Info(LogMsgDrawRequested,
		"pool_id", s.poolID,
		"request_id", requestID,
		"participants", status.NumParticipants,
		"pot", status.Balance.String())

	s.publish(ctx, event.NewDrawRequestedEvent(s.poolID, uint64(requestID), status.NumParticipants,
		status.Balance.String(), now))

	return requestID, nil
}

func (s *service) recordDrawRequest(ctx context.Context, tx repository.PoolTx, pool *domain.Pool, requestID domain.RequestID, now time.Time) error {
	pool.State = domain.PoolStateCalculating
	pool.PendingRequestID = &requestID
	pool.PendingSince = &now
	if err := tx.UpdatePool(ctx, pool); err != nil {
		return fmt.Errorf("%s: %w", ErrContextFailedToUpdatePool, err)
	}

	draw := &domain.Draw{
		PoolID:          s.poolID,
		RequestID:       requestID,
		Status:          domain.DrawStatusRequested,
		NumParticipants: pool.NumParticipants,
		Pot:             new(big.Int).Set(pool.Balance),
		RequestedAt:     now,
	}
	if err := tx.CreateDraw(ctx, draw); err != nil {
		return fmt.Errorf("%s: %w", ErrContextFailedToRecordDraw, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%s: %w", ErrContextFailedToCommitTx, err)
	}
	return nil
}
