package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/osse101/lotto/internal/clock"
	"github.com/osse101/lotto/internal/config"
	"github.com/osse101/lotto/internal/domain"
	"github.com/osse101/lotto/internal/lotto"
	"github.com/osse101/lotto/internal/vrf"
)

// Oracle is the randomness source a pool is deployed against
type Oracle struct {
	Coordinator    lotto.Coordinator
	Address        common.Address
	SubscriptionID uint64

	// Mock is set on local networks only
	Mock *vrf.MockCoordinator
}

// LocalAddress derives a stable address from seed
func LocalAddress(seed string) common.Address {
	return common.BytesToAddress(crypto.Keccak256([]byte(seed)))
}

// SetupOracle deploys the in-process coordinator and a funded subscription
// on local networks. Remote networks relay to the coordinator named in the
// profile.
func SetupOracle(profile *config.NetworkProfile, clk clock.Clock) (*Oracle, error) {
	if !profile.Local {
		addr := common.HexToAddress(profile.VRFCoordinator)
		slog.Info(LogMsgOracleRemote, "coordinator", addr.Hex(), "subscription_id", profile.SubscriptionID)
		return &Oracle{
			Coordinator:    vrf.NewRelayCoordinator(addr),
			Address:        addr,
			SubscriptionID: profile.SubscriptionID,
		}, nil
	}

	mock := vrf.NewMockCoordinator(LocalAddress(LocalCoordinatorSeed), nil, nil, nil, clk)
	subID := mock.CreateSubscription(LocalAddress(LocalDeployerSeed))

	amount, err := profile.FundAmount()
	if err != nil {
		return nil, err
	}
	if amount.Sign() > 0 {
		if err := mock.FundSubscription(subID, amount); err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedFundSubscription, err)
		}
	}

	slog.Info(LogMsgOracleLocal,
		"coordinator", mock.Address().Hex(),
		"subscription_id", subID,
		"funded", amount.String())

	return &Oracle{
		Coordinator:    mock,
		Address:        mock.Address(),
		SubscriptionID: subID,
		Mock:           mock,
	}, nil
}

// DeployPool creates the pool from the network profile, or returns the
// stored pool when it already exists
func DeployPool(ctx context.Context, repo lotto.Repository, clk clock.Clock, poolID string, profile *config.NetworkProfile, oracle *Oracle) (*domain.Pool, error) {
	poolCfg, err := profile.PoolConfig(oracle.Address, oracle.SubscriptionID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedPoolConfig, err)
	}
	return lotto.Deploy(ctx, repo, clk, lotto.DeployParams{PoolID: poolID, Config: poolCfg})
}

// ConnectOracle registers the pool service as the consumer of the local
// coordinator and hands back any request that was pending before a restart.
// It does nothing for remote networks.
func ConnectOracle(ctx context.Context, oracle *Oracle, repo lotto.Repository, pool *domain.Pool, service lotto.Service) error {
	if oracle.Mock == nil {
		return nil
	}

	if pool.Config.SubscriptionID != oracle.SubscriptionID {
		slog.Warn(LogMsgSubscriptionMissing,
			"stored", pool.Config.SubscriptionID,
			"coordinator", oracle.SubscriptionID)
	}
	if err := oracle.Mock.AddConsumer(pool.Config.SubscriptionID, service.Address(), service); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedAddConsumer, err)
	}

	// new request ids must not collide with ids already in the draw history
	latest, err := repo.ListDraws(ctx, pool.ID, 1)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedListDraws, err)
	}
	if len(latest) > 0 {
		oracle.Mock.SkipRequestIDs(latest[0].RequestID)
	}

	if pool.PendingRequestID == nil {
		return nil
	}
	req := vrf.RandomWordsRequest{
		Consumer:             service.Address(),
		KeyHash:              pool.Config.KeyHash,
		SubscriptionID:       pool.Config.SubscriptionID,
		RequestConfirmations: pool.Config.RequestConfirmations,
		CallbackGasLimit:     pool.Config.CallbackGasLimit,
		NumWords:             pool.Config.NumWords,
	}
	if err := oracle.Mock.RestoreRequest(ctx, *pool.PendingRequestID, req); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedRestorePending, err)
	}
	slog.Info(LogMsgPendingRestored, "request_id", uint64(*pool.PendingRequestID))
	return nil
}
