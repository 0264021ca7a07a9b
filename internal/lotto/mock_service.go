package lotto

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/mock"

	"github.com/osse101/lotto/internal/domain"
)

// MockService is a mock implementation of the Service interface
type MockService struct {
	mock.Mock
}

var _ Service = (*MockService)(nil)

func (m *MockService) Enter(ctx context.Context, player common.Address, value *big.Int) (*domain.Participant, error) {
	args := m.Called(ctx, player, value)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Participant), args.Error(1)
}

func (m *MockService) CheckUpkeep(ctx context.Context) (*domain.UpkeepStatus, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UpkeepStatus), args.Error(1)
}

func (m *MockService) PerformUpkeep(ctx context.Context, performData []byte) (domain.RequestID, error) {
	args := m.Called(ctx, performData)
	return args.Get(0).(domain.RequestID), args.Error(1)
}

func (m *MockService) FulfillRandomWords(ctx context.Context, caller common.Address, requestID domain.RequestID, words []*big.Int) error {
	args := m.Called(ctx, caller, requestID, words)
	return args.Error(0)
}

func (m *MockService) ResetStuckDraw(ctx context.Context) (*domain.Draw, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Draw), args.Error(1)
}

func (m *MockService) GetPool(ctx context.Context) (*domain.Pool, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Pool), args.Error(1)
}

func (m *MockService) GetEntranceFee(ctx context.Context) (*big.Int, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*big.Int), args.Error(1)
}

func (m *MockService) GetInterval(ctx context.Context) (time.Duration, error) {
	args := m.Called(ctx)
	return args.Get(0).(time.Duration), args.Error(1)
}

func (m *MockService) GetState(ctx context.Context) (domain.PoolState, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.PoolState), args.Error(1)
}

func (m *MockService) GetPlayer(ctx context.Context, index int) (*domain.Participant, error) {
	args := m.Called(ctx, index)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Participant), args.Error(1)
}

func (m *MockService) GetNumberOfPlayers(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockService) GetRecentWinner(ctx context.Context) (common.Address, error) {
	args := m.Called(ctx)
	return args.Get(0).(common.Address), args.Error(1)
}

func (m *MockService) GetLastTimestamp(ctx context.Context) (time.Time, error) {
	args := m.Called(ctx)
	return args.Get(0).(time.Time), args.Error(1)
}

func (m *MockService) GetBalance(ctx context.Context) (*big.Int, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*big.Int), args.Error(1)
}

func (m *MockService) GetPendingRequestID(ctx context.Context) (*domain.RequestID, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RequestID), args.Error(1)
}

func (m *MockService) GetDraw(ctx context.Context, requestID domain.RequestID) (*domain.Draw, error) {
	args := m.Called(ctx, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Draw), args.Error(1)
}

func (m *MockService) ListDraws(ctx context.Context, limit int) ([]domain.Draw, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Draw), args.Error(1)
}

func (m *MockService) GetAccount(ctx context.Context, address common.Address) (*domain.Account, error) {
	args := m.Called(ctx, address)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockService) SetPaymentPolicy(ctx context.Context, address common.Address, rejectsPayments bool) error {
	args := m.Called(ctx, address, rejectsPayments)
	return args.Error(0)
}

func (m *MockService) PoolID() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockService) Address() common.Address {
	args := m.Called()
	return args.Get(0).(common.Address)
}

func (m *MockService) Shutdown(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
