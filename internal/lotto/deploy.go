package lotto

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/osse101/lotto/internal/clock"
	"github.com/osse101/lotto/internal/domain"
	"github.com/osse101/lotto/internal/logger"
)

// DeployParams are the construction parameters of a pool
type DeployParams struct {
	PoolID string
	Config domain.PoolConfig
}

// Validate checks the parameters a pool cannot run without
func (p DeployParams) Validate() error {
	switch {
	case p.PoolID == "":
		return fmt.Errorf("%w: empty pool id", domain.ErrInvalidPoolConfig)
	case p.Config.EntryFee == nil || p.Config.EntryFee.Sign() < 0:
		return fmt.Errorf("%w: entry fee must be non-negative", domain.ErrInvalidPoolConfig)
	case p.Config.Interval <= 0:
		return fmt.Errorf("%w: interval must be positive", domain.ErrInvalidPoolConfig)
	case p.Config.Coordinator == (common.Address{}):
		return fmt.Errorf("%w: coordinator address required", domain.ErrInvalidPoolConfig)
	case p.Config.NumWords == 0:
		return fmt.Errorf("%w: num words must be at least 1", domain.ErrInvalidPoolConfig)
	}
	return nil
}

// Deploy creates the pool if it does not exist yet. Pool parameters are
// immutable: when the pool already exists the stored configuration is
// returned and differences from params are only logged.
func Deploy(ctx context.Context, repo Repository, clk clock.Clock, params DeployParams) (*domain.Pool, error) {
	log := logger.FromContext(ctx)
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if clk == nil {
		clk = clock.NewRealClock()
	}

	now := clk.Now()
	cfg := params.Config
	cfg.EntryFee = new(big.Int).Set(cfg.EntryFee)
	pool := &domain.Pool{
		ID:         params.PoolID,
		Config:     cfg,
		State:      domain.PoolStateOpen,
		Balance:    new(big.Int),
		LastDrawAt: now,
		CreatedAt:  now,
	}

	err := repo.CreatePool(ctx, pool)
	if err == nil {
		log.Info(LogMsgPoolDeployed,
			"pool_id", pool.ID,
			"address", PoolAddress(pool.ID).Hex(),
			"entry_fee", cfg.EntryFee.String(),
			"interval", cfg.Interval,
			"coordinator", cfg.Coordinator.Hex())
		return pool, nil
	}
	if !errors.Is(err, domain.ErrPoolAlreadyExists) {
		return nil, fmt.Errorf("%s: %w", ErrContextFailedToCreatePool, err)
	}

	existing, err := repo.GetPool(ctx, params.PoolID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextFailedToLoadPool, err)
	}
	if diff := configDiff(existing.Config, params.Config); len(diff) > 0 {
		log.Warn(LogMsgPoolConfigMismatch, "pool_id", existing.ID, "fields", diff)
	}
	log.Info(LogMsgPoolLoaded, "pool_id", existing.ID, "state", existing.State, "participants", existing.NumParticipants)
	return existing, nil
}

func configDiff(stored, wanted domain.PoolConfig) []string {
	var diff []string
	if stored.EntryFee.Cmp(wanted.EntryFee) != 0 {
		diff = append(diff, "entry_fee")
	}
	if stored.Interval != wanted.Interval {
		diff = append(diff, "interval")
	}
	if stored.Coordinator != wanted.Coordinator {
		diff = append(diff, "coordinator")
	}
	if stored.KeyHash != wanted.KeyHash {
		diff = append(diff, "key_hash")
	}
	if stored.SubscriptionID != wanted.SubscriptionID {
		diff = append(diff, "subscription_id")
	}
	if stored.RequestConfirmations != wanted.RequestConfirmations {
		diff = append(diff, "request_confirmations")
	}
	if stored.CallbackGasLimit != wanted.CallbackGasLimit {
		diff = append(diff, "callback_gas_limit")
	}
	if stored.NumWords != wanted.NumWords {
		diff = append(diff, "num_words")
	}
	return diff
}
