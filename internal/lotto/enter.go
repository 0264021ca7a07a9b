package lotto

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/osse101/lotto/internal/domain"
	"github.com/osse101/lotto/internal/event"
	"github.com/osse101/lotto/internal/logger"
	"github.com/osse101/lotto/internal/repository"
)

// Enter adds player to the current round with a payment of value.
// Each call is one weighted slot; the same address may enter many times.
func (s *service) Enter(ctx context.Context, player common.Address, value *big.Int) (*domain.Participant, error) {
	log := logger.FromContext(ctx)
	log.Info(LogMsgEnterCalled, "pool_id", s.poolID, "participant", player.Hex(), "value", amountString(value))

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

	if err := validateEntry(pool, value); err != nil {
		log.Info(LogMsgEntryRejected, "pool_id", s.poolID, "participant", player.Hex(), "reason", err)
		return nil, err
	}

	now := s.clock.Now()
	participant := &domain.Participant{
		PoolID:    s.poolID,
		Address:   player,
		Value:     new(big.Int).Set(value),
		EnteredAt: now,
	}
	if err := tx.AddParticipant(ctx, participant); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextFailedToAddParticipant, err)
	}

	pool.Balance = new(big.Int).Add(pool.Balance, value)
	pool.NumParticipants = participant.Index + 1
	if err := tx.UpdatePool(ctx, pool); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextFailedToUpdatePool, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextFailedToCommitTx, err)
	}

	log.Info(LogMsgEntryAccepted,
		"pool_id", s.poolID,
		"participant", player.Hex(),
		"index", participant.Index,
		"balance", pool.Balance.String())

	s.publish(ctx, event.NewEnteredEvent(s.poolID, player.Hex(), participant.Index,
		value.String(), pool.Balance.String(), now))

	return participant, nil
}

// validateEntry checks the fee before the state, so an underpaid entry into a
// closed pool reports the fee.
func validateEntry(pool *domain.Pool, value *big.Int) error {
	if value == nil || value.Sign() < 0 || value.Cmp(pool.Config.EntryFee) < 0 {
		return fmt.Errorf("%w: sent %s, need %s", domain.ErrNotEnoughFunds, amountString(value), pool.Config.EntryFee)
	}
	if pool.State != domain.PoolStateOpen {
		return fmt.Errorf("%w: state is %s", domain.ErrNotOpen, pool.State)
	}
	return nil
}

func amountString(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}
