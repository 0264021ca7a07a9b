package repository

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/osse101/lotto/internal/domain"
)

// Pool defines the storage interface for participation pools
type Pool interface {
	// CreatePool stores a new pool; returns domain.ErrPoolAlreadyExists if the id is taken
	CreatePool(ctx context.Context, pool *domain.Pool) error
	GetPool(ctx context.Context, poolID string) (*domain.Pool, error)
	GetParticipant(ctx context.Context, poolID string, index int) (*domain.Participant, error)
	ListParticipants(ctx context.Context, poolID string) ([]domain.Participant, error)
	GetDraw(ctx context.Context, poolID string, requestID domain.RequestID) (*domain.Draw, error)
	ListDraws(ctx context.Context, poolID string, limit int) ([]domain.Draw, error)
	// GetAccount returns a zero-balance account for unknown addresses
	GetAccount(ctx context.Context, address common.Address) (*domain.Account, error)
	SetPaymentPolicy(ctx context.Context, address common.Address, rejectsPayments bool) error

	BeginPoolTx(ctx context.Context) (PoolTx, error)
}

// PoolTx is a serialized unit of work over one pool. Nothing written through it
// is visible until Commit.
type PoolTx interface {
	Tx

	// GetPoolForUpdate loads the pool and holds its lock until the tx ends
	GetPoolForUpdate(ctx context.Context, poolID string) (*domain.Pool, error)
	ListParticipants(ctx context.Context, poolID string) ([]domain.Participant, error)
	AddParticipant(ctx context.Context, participant *domain.Participant) error
	ClearParticipants(ctx context.Context, poolID string) error
	UpdatePool(ctx context.Context, pool *domain.Pool) error
	CreateDraw(ctx context.Context, draw *domain.Draw) error
	UpdateDraw(ctx context.Context, draw *domain.Draw) error
	GetDraw(ctx context.Context, poolID string, requestID domain.RequestID) (*domain.Draw, error)
	// CreditAccount adds amount to the address balance; returns
	// domain.ErrPaymentRejected when the account refuses payments
	CreditAccount(ctx context.Context, address common.Address, amount *big.Int, at time.Time) error
}
