package lotto

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/osse101/lotto/internal/domain"
	"github.com/osse101/lotto/internal/event"
	"github.com/osse101/lotto/internal/logger"
	"github.com/osse101/lotto/internal/repository"
)

// FulfillRandomWords resolves the pending draw. Only the coordinator bound at
// deployment may call it, and only for the pending request id. The winner is
// credited with the whole balance in the same transaction that resets the
// pool; if the credit is refused nothing is written and the draw stays pending.
func (s *service) FulfillRandomWords(ctx context.Context, caller common.Address, requestID domain.RequestID, words []*big.Int) error {
	log := logger.FromContext(ctx)
	log.Info(LogMsgFulfillCalled, "pool_id", s.poolID, "request_id", requestID, "caller", caller.Hex())

	if err := s.track(); err != nil {
		return err
	}
	defer s.wg.Done()

	tx, err := s.repo.BeginPoolTx(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrContextFailedToBeginTx, err)
	}
	defer repository.SafeRollback(ctx, tx)

	pool, err := tx.GetPoolForUpdate(ctx, s.poolID)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrContextFailedToLoadPool, err)
	}

	if err := validateFulfillment(pool, caller, requestID, words); err != nil {
		log.Warn(LogMsgFulfillRejected, "pool_id", s.poolID, "request_id", requestID, "reason", err)
		return err
	}

	participants, err := tx.ListParticipants(ctx, s.poolID)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrContextFailedToListParticipants, err)
	}
	if len(participants) == 0 {
		return fmt.Errorf("%w: %s", domain.ErrNoParticipants, s.poolID)
	}

	now := s.clock.Now()
	winnerIndex := WinnerIndex(words[0], len(participants))
	winner := participants[winnerIndex].Address
	payout := new(big.Int).Set(pool.Balance)

	draw, err := s.settle(ctx, tx, pool, participants, winnerIndex, words[0], now)
	if err != nil {
		return err
	}

	// the transfer comes last so a refusal discards every write above
	if err := tx.CreditAccount(ctx, winner, payout, now); err != nil {
		if errors.Is(err, domain.ErrPaymentRejected) {
			repository.SafeRollback(ctx, tx)
			log.Warn(LogMsgPayoutFailed,
				"pool_id", s.poolID,
				"request_id", requestID,
				"winner", winner.Hex(),
				"amount", payout.String())
			s.publish(ctx, event.NewPayoutFailedEvent(s.poolID, uint64(requestID), winner.Hex(), payout.String(), now))
			return fmt.Errorf("%w: %s refused %s", domain.ErrPayoutTransferFailed, winner.Hex(), payout)
		}
		return fmt.Errorf("%s: %w", ErrContextFailedToCreditWinner, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%s: %w", ErrContextFailedToCommitTx, err)
	}
	s.settleRequest(requestID)
	s.cacheDraw(draw)

	log.Info(LogMsgWinnerPicked,
		"pool_id", s.poolID,
		"request_id", requestID,
		"winner", winner.Hex(),
		"winner_index", winnerIndex,
		"payout", payout.String())

	s.publish(ctx, event.NewWinnerPickedEvent(s.poolID, uint64(requestID), winner.Hex(), winnerIndex,
		payout.String(), len(participants), now))

	return nil
}

func validateFulfillment(pool *domain.Pool, caller common.Address, requestID domain.RequestID, words []*big.Int) error {
	if caller != pool.Config.Coordinator {
		return fmt.Errorf("%w: %s", domain.ErrUnauthorizedCaller, caller.Hex())
	}
	if pool.PendingRequestID == nil || *pool.PendingRequestID != requestID {
		return fmt.Errorf("%w: %d", domain.ErrNonexistentRequest, requestID)
	}
	if len(words) == 0 || words[0] == nil {
		return domain.ErrNoRandomWords
	}
	if words[0].Sign() < 0 {
		return fmt.Errorf("%w: negative random word", domain.ErrInvalidInput)
	}
	return nil
}

// settle resets the pool for the next round and completes the draw record
func (s *service) settle(ctx context.Context, tx repository.PoolTx, pool *domain.Pool, participants []domain.Participant, winnerIndex int, word *big.Int, now time.Time) (*domain.Draw, error) {
	requestID := *pool.PendingRequestID
	winner := participants[winnerIndex].Address

	if err := tx.ClearParticipants(ctx, s.poolID); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextFailedToClearParticipants, err)
	}

	pot := new(big.Int).Set(pool.Balance)
	pool.RecentWinner = winner
	pool.NumParticipants = 0
	pool.LastDrawAt = now
	pool.State = domain.PoolStateOpen
	pool.PendingRequestID = nil
	pool.PendingSince = nil
	pool.Balance = new(big.Int)
	if err := tx.UpdatePool(ctx, pool); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextFailedToUpdatePool, err)
	}

	draw, err := tx.GetDraw(ctx, s.poolID, requestID)
	create := errors.Is(err, domain.ErrDrawNotFound)
	if err != nil && !create {
		return nil, fmt.Errorf("%s: %w", ErrContextFailedToRecordDraw, err)
	}
	if create {
		draw = &domain.Draw{
			PoolID:          s.poolID,
			RequestID:       requestID,
			NumParticipants: len(participants),
			Pot:             pot,
			RequestedAt:     now,
		}
	}
	draw.Status = domain.DrawStatusCompleted
	draw.ResolvedAt = &now
	draw.Winner = winner
	draw.WinnerIndex = winnerIndex
	draw.RandomWord = new(big.Int).Set(word)

	if create {
		err = tx.CreateDraw(ctx, draw)
	} else {
		err = tx.UpdateDraw(ctx, draw)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextFailedToRecordDraw, err)
	}
	return draw, nil
}
