package lotto

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/osse101/lotto/internal/clock"
	"github.com/osse101/lotto/internal/domain"
	"github.com/osse101/lotto/internal/event"
	"github.com/osse101/lotto/internal/logger"
	"github.com/osse101/lotto/internal/vrf"
)

// Service defines the operations of one participation pool
type Service interface {
	Enter(ctx context.Context, player common.Address, value *big.Int) (*domain.Participant, error)
	CheckUpkeep(ctx context.Context) (*domain.UpkeepStatus, error)
	PerformUpkeep(ctx context.Context, performData []byte) (domain.RequestID, error)
	FulfillRandomWords(ctx context.Context, caller common.Address, requestID domain.RequestID, words []*big.Int) error
	ResetStuckDraw(ctx context.Context) (*domain.Draw, error)

	GetPool(ctx context.Context) (*domain.Pool, error)
	GetEntranceFee(ctx context.Context) (*big.Int, error)
	GetInterval(ctx context.Context) (time.Duration, error)
	GetState(ctx context.Context) (domain.PoolState, error)
	GetPlayer(ctx context.Context, index int) (*domain.Participant, error)
	GetNumberOfPlayers(ctx context.Context) (int, error)
	GetRecentWinner(ctx context.Context) (common.Address, error)
	GetLastTimestamp(ctx context.Context) (time.Time, error)
	GetBalance(ctx context.Context) (*big.Int, error)
	GetPendingRequestID(ctx context.Context) (*domain.RequestID, error)
	GetDraw(ctx context.Context, requestID domain.RequestID) (*domain.Draw, error)
	ListDraws(ctx context.Context, limit int) ([]domain.Draw, error)
	GetAccount(ctx context.Context, address common.Address) (*domain.Account, error)
	SetPaymentPolicy(ctx context.Context, address common.Address, rejectsPayments bool) error

	PoolID() string
	Address() common.Address
	Shutdown(ctx context.Context) error
}

// Coordinator issues randomness requests on behalf of the pool
type Coordinator interface {
	RequestRandomWords(ctx context.Context, req vrf.RandomWordsRequest) (domain.RequestID, error)
}

// requestCanceler is implemented by coordinators that can drop a pending request
type requestCanceler interface {
	CancelRequest(requestID domain.RequestID) error
}

// requestSettler is implemented by coordinators that track ids until the draw resolves
type requestSettler interface {
	SettleRequest(requestID domain.RequestID)
}

// Config holds the runtime settings of a pool service
type Config struct {
	PoolID        string
	DrawTimeout   time.Duration
	DrawCacheSize int
	DrawCacheTTL  time.Duration
}

type service struct {
	poolID      string
	address     common.Address
	repo        Repository
	coordinator Coordinator
	eventBus    event.Bus
	clock       clock.Clock
	drawTimeout time.Duration
	draws       *expirable.LRU[domain.RequestID, domain.Draw]

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup // in-flight mutations
}

var _ vrf.Consumer = (*service)(nil)

// NewService creates the service for the pool identified by cfg.PoolID.
// The pool must already exist, see Deploy.
func NewService(repo Repository, coordinator Coordinator, eventBus event.Bus, clk clock.Clock, cfg Config) Service {
	if clk == nil {
		clk = clock.NewRealClock()
	}
	if cfg.DrawTimeout <= 0 {
		cfg.DrawTimeout = DefaultDrawTimeout
	}
	if cfg.DrawCacheSize <= 0 {
		cfg.DrawCacheSize = DefaultDrawCacheSize
	}
	if cfg.DrawCacheTTL <= 0 {
		cfg.DrawCacheTTL = DefaultDrawCacheTTL
	}
	return &service{
		poolID:      cfg.PoolID,
		address:     PoolAddress(cfg.PoolID),
		repo:        repo,
		coordinator: coordinator,
		eventBus:    eventBus,
		clock:       clk,
		drawTimeout: cfg.DrawTimeout,
		draws:       expirable.NewLRU[domain.RequestID, domain.Draw](cfg.DrawCacheSize, nil, cfg.DrawCacheTTL),
	}
}

// PoolAddress derives the address a pool uses as its randomness consumer identity
func PoolAddress(poolID string) common.Address {
	return common.BytesToAddress(crypto.Keccak256([]byte(PoolAddressPrefix + poolID))[12:])
}

// WinnerIndex maps a random word onto [0, n). Reducing a 256-bit word modulo n
// favours low indices by at most n/2^256, which is accepted.
func WinnerIndex(word *big.Int, n int) int {
	return int(new(big.Int).Mod(word, big.NewInt(int64(n))).Int64())
}

func (s *service) PoolID() string {
	return s.poolID
}

func (s *service) Address() common.Address {
	return s.address
}

func (s *service) GetPool(ctx context.Context) (*domain.Pool, error) {
	return s.repo.GetPool(ctx, s.poolID)
}

func (s *service) GetEntranceFee(ctx context.Context) (*big.Int, error) {
	pool, err := s.repo.GetPool(ctx, s.poolID)
	if err != nil {
		return nil, err
	}
	return new(big.Int).Set(pool.Config.EntryFee), nil
}

func (s *service) GetInterval(ctx context.Context) (time.Duration, error) {
	pool, err := s.repo.GetPool(ctx, s.poolID)
	if err != nil {
		return 0, err
	}
	return pool.Config.Interval, nil
}

func (s *service) GetState(ctx context.Context) (domain.PoolState, error) {
	pool, err := s.repo.GetPool(ctx, s.poolID)
	if err != nil {
		return "", err
	}
	return pool.State, nil
}

// GetPlayer returns the participant at index in entry order
func (s *service) GetPlayer(ctx context.Context, index int) (*domain.Participant, error) {
	if index < 0 {
		return nil, fmt.Errorf("%w: %d", domain.ErrParticipantIndex, index)
	}
	return s.repo.GetParticipant(ctx, s.poolID, index)
}

func (s *service) GetNumberOfPlayers(ctx context.Context) (int, error) {
	pool, err := s.repo.GetPool(ctx, s.poolID)
	if err != nil {
		return 0, err
	}
	return pool.NumParticipants, nil
}

func (s *service) GetRecentWinner(ctx context.Context) (common.Address, error) {
	pool, err := s.repo.GetPool(ctx, s.poolID)
	if err != nil {
		return common.Address{}, err
	}
	return pool.RecentWinner, nil
}

func (s *service) GetLastTimestamp(ctx context.Context) (time.Time, error) {
	pool, err := s.repo.GetPool(ctx, s.poolID)
	if err != nil {
		return time.Time{}, err
	}
	return pool.LastDrawAt, nil
}

func (s *service) GetBalance(ctx context.Context) (*big.Int, error) {
	pool, err := s.repo.GetPool(ctx, s.poolID)
	if err != nil {
		return nil, err
	}
	return new(big.Int).Set(pool.Balance), nil
}

func (s *service) GetPendingRequestID(ctx context.Context) (*domain.RequestID, error) {
	pool, err := s.repo.GetPool(ctx, s.poolID)
	if err != nil {
		return nil, err
	}
	return pool.PendingRequestID, nil
}

// GetDraw returns a draw record. Finalized draws are served from cache.
func (s *service) GetDraw(ctx context.Context, requestID domain.RequestID) (*domain.Draw, error) {
	if d, ok := s.draws.Get(requestID); ok {
		return &d, nil
	}
	d, err := s.repo.GetDraw(ctx, s.poolID, requestID)
	if err != nil {
		return nil, err
	}
	s.cacheDraw(d)
	return d, nil
}

// ListDraws returns the most recent draws, newest first
func (s *service) ListDraws(ctx context.Context, limit int) ([]domain.Draw, error) {
	if limit <= 0 {
		limit = DefaultListDrawsLimit
	}
	if limit > MaxListDrawsLimit {
		limit = MaxListDrawsLimit
	}
	return s.repo.ListDraws(ctx, s.poolID, limit)
}

func (s *service) GetAccount(ctx context.Context, address common.Address) (*domain.Account, error) {
	return s.repo.GetAccount(ctx, address)
}

// SetPaymentPolicy marks an address as refusing or accepting payouts
func (s *service) SetPaymentPolicy(ctx context.Context, address common.Address, rejectsPayments bool) error {
	if err := s.repo.SetPaymentPolicy(ctx, address, rejectsPayments); err != nil {
		return err
	}
	logger.FromContext(ctx).Info(LogMsgPaymentPolicyChanged, "address", address.Hex(), "rejects_payments", rejectsPayments)
	return nil
}

// Shutdown waits for in-flight mutations to finish
func (s *service) Shutdown(ctx context.Context) error {
	log := logger.FromContext(ctx)
	log.Info(LogMsgShutdownWaiting, "pool_id", s.poolID)

	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		log.Warn(LogMsgShutdownTimedOut, "pool_id", s.poolID)
		return ctx.Err()
	}
}

// track registers an in-flight mutation. Once Shutdown has begun no new
// mutation starts, so wg.Add never races with wg.Wait.
func (s *service) track() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return domain.ErrShuttingDown
	}
	s.wg.Add(1)
	return nil
}

func (s *service) cacheDraw(d *domain.Draw) {
	if d.Status == domain.DrawStatusRequested {
		return
	}
	s.draws.Add(d.RequestID, *d)
}

func (s *service) publish(ctx context.Context, evt event.Event) {
	if s.eventBus == nil {
		return
	}
	if err := s.eventBus.Publish(ctx, evt); err != nil {
		logger.FromContext(ctx).Warn(LogMsgPublishFailed, "event_type", evt.Type, "error", err)
	}
}

func (s *service) settleRequest(requestID domain.RequestID) {
	if c, ok := s.coordinator.(requestSettler); ok {
		c.SettleRequest(requestID)
	}
}

func (s *service) cancelRequest(ctx context.Context, requestID domain.RequestID) {
	c, ok := s.coordinator.(requestCanceler)
	if !ok {
		return
	}
	if err := c.CancelRequest(requestID); err != nil && !errors.Is(err, domain.ErrNonexistentRequest) {
		logger.FromContext(ctx).Warn(LogMsgCancelRequestFailed, "pool_id", s.poolID, "request_id", requestID, "error", err)
	}
}
