package vrf

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/osse101/lotto/internal/clock"
	"github.com/osse101/lotto/internal/domain"
)

var (
	coordinatorAddr = common.HexToAddress("0x00000000000000000000000000000000000000cc")
	consumerAddr    = common.HexToAddress("0x00000000000000000000000000000000000000c1")
	ownerAddr       = common.HexToAddress("0x00000000000000000000000000000000000000aa")
)

type mockConsumer struct {
	mock.Mock
}

func (m *mockConsumer) FulfillRandomWords(ctx context.Context, caller common.Address, requestID domain.RequestID, words []*big.Int) error {
	args := m.Called(ctx, caller, requestID, words)
	return args.Error(0)
}

func linkAmount(whole int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(whole), big.NewInt(1_000_000_000_000_000_000))
}

func setupCoordinator(t *testing.T) (*MockCoordinator, *mockConsumer, uint64) {
	t.Helper()
	c := NewMockCoordinator(coordinatorAddr, nil, nil, nil, clock.NewSimulatedClock(time.Unix(1700000000, 0)))
	consumer := &mockConsumer{}
	subID := c.CreateSubscription(ownerAddr)
	require.NoError(t, c.FundSubscription(subID, linkAmount(2)))
	require.NoError(t, c.AddConsumer(subID, consumerAddr, consumer))
	return c, consumer, subID
}

func request(subID uint64) RandomWordsRequest {
	return RandomWordsRequest{
		Consumer:             consumerAddr,
		SubscriptionID:       subID,
		RequestConfirmations: 3,
		CallbackGasLimit:     500000,
		NumWords:             1,
	}
}

func TestMockCoordinator_RequestIDsIncrementFromOne(t *testing.T) {
	c, _, subID := setupCoordinator(t)
	ctx := context.Background()

	first, err := c.RequestRandomWords(ctx, request(subID))
	require.NoError(t, err)
	second, err := c.RequestRandomWords(ctx, request(subID))
	require.NoError(t, err)

	assert.Equal(t, domain.RequestID(1), first)
	assert.Equal(t, domain.RequestID(2), second)
	assert.Len(t, c.PendingRequests(), 2)
}

func TestMockCoordinator_RequestValidation(t *testing.T) {
	c, _, subID := setupCoordinator(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		mutate  func(r *RandomWordsRequest)
		wantErr error
	}{
		{"unknown subscription", func(r *RandomWordsRequest) { r.SubscriptionID = 99 }, ErrInvalidSubscription},
		{"unregistered consumer", func(r *RandomWordsRequest) { r.Consumer = ownerAddr }, ErrInvalidConsumer},
		{"zero words", func(r *RandomWordsRequest) { r.NumWords = 0 }, ErrNumWordsTooBig},
		{"too many words", func(r *RandomWordsRequest) { r.NumWords = MaxNumWords + 1 }, ErrNumWordsTooBig},
		{"gas limit", func(r *RandomWordsRequest) { r.CallbackGasLimit = MaxGasLimit + 1 }, ErrGasLimitTooBig},
		{"confirmations", func(r *RandomWordsRequest) { r.RequestConfirmations = MaxRequestConfirmations + 1 }, ErrInvalidConfirmations},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := request(subID)
			tt.mutate(&req)
			_, err := c.RequestRandomWords(ctx, req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
	assert.Empty(t, c.PendingRequests())
}

func TestMockCoordinator_FulfillDeliversVerifiedWords(t *testing.T) {
	c, consumer, subID := setupCoordinator(t)
	ctx := context.Background()

	id, err := c.RequestRandomWords(ctx, request(subID))
	require.NoError(t, err)

	var delivered []*big.Int
	consumer.On("FulfillRandomWords", mock.Anything, coordinatorAddr, id, mock.Anything).
		Run(func(args mock.Arguments) { delivered = args.Get(3).([]*big.Int) }).
		Return(nil).Once()

	f, err := c.FulfillRandomWords(ctx, id)
	require.NoError(t, err)
	consumer.AssertExpectations(t)

	require.Len(t, delivered, 1)
	assert.Equal(t, delivered, f.Words)
	require.NotNil(t, f.Proof)
	assert.NoError(t, c.Prover().Verify(f.Proof))
	assert.Equal(t, WordsFromProof(f.Proof, 1), f.Words)
	assert.False(t, c.IsPending(id))

	// base fee 0.25 LINK + 1e9 * 500000 gas
	want := new(big.Int).Add(DefaultBaseFee, new(big.Int).Mul(DefaultGasPriceLink, big.NewInt(500000)))
	assert.Equal(t, 0, f.Payment.Cmp(want))
	sub, err := c.GetSubscription(subID)
	require.NoError(t, err)
	assert.Equal(t, 0, sub.Balance.Cmp(new(big.Int).Sub(linkAmount(2), want)))

	// a second delivery for the same id is unknown
	_, err = c.FulfillRandomWords(ctx, id)
	assert.ErrorIs(t, err, domain.ErrNonexistentRequest)
}

func TestMockCoordinator_FulfillUnknownRequest(t *testing.T) {
	c, _, _ := setupCoordinator(t)
	_, err := c.FulfillRandomWords(context.Background(), 7)
	assert.ErrorIs(t, err, domain.ErrNonexistentRequest)
	assert.Contains(t, err.Error(), "nonexistent request")
}

func TestMockCoordinator_CallbackFailureKeepsRequestPending(t *testing.T) {
	c, consumer, subID := setupCoordinator(t)
	ctx := context.Background()

	id, err := c.RequestRandomWords(ctx, request(subID))
	require.NoError(t, err)

	boom := errors.New("payout transfer failed")
	consumer.On("FulfillRandomWords", mock.Anything, coordinatorAddr, id, mock.Anything).Return(boom).Once()

	_, err = c.FulfillRandomWords(ctx, id)
	assert.True(t, IsCallbackFailure(err))
	assert.ErrorIs(t, err, boom)
	assert.True(t, c.IsPending(id))

	sub, err := c.GetSubscription(subID)
	require.NoError(t, err)
	assert.Equal(t, 0, sub.Balance.Cmp(linkAmount(2)), "failed delivery is not charged")

	consumer.On("FulfillRandomWords", mock.Anything, coordinatorAddr, id, mock.Anything).Return(nil).Once()
	_, err = c.FulfillRandomWords(ctx, id)
	require.NoError(t, err)
	assert.False(t, c.IsPending(id))
}

func TestMockCoordinator_InsufficientBalance(t *testing.T) {
	c := NewMockCoordinator(coordinatorAddr, nil, nil, nil, nil)
	consumer := &mockConsumer{}
	subID := c.CreateSubscription(ownerAddr)
	require.NoError(t, c.AddConsumer(subID, consumerAddr, consumer))

	id, err := c.RequestRandomWords(context.Background(), request(subID))
	require.NoError(t, err)

	_, err = c.FulfillRandomWords(context.Background(), id)
	assert.ErrorIs(t, err, ErrInsufficientBalance)
	consumer.AssertNotCalled(t, "FulfillRandomWords", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	assert.True(t, c.IsPending(id))
}

func TestMockCoordinator_Override(t *testing.T) {
	c, consumer, subID := setupCoordinator(t)
	ctx := context.Background()
	id, err := c.RequestRandomWords(ctx, request(subID))
	require.NoError(t, err)

	words := []*big.Int{big.NewInt(42)}
	consumer.On("FulfillRandomWords", mock.Anything, coordinatorAddr, id, words).Return(nil).Once()

	f, err := c.FulfillRandomWordsWithOverride(ctx, id, words)
	require.NoError(t, err)
	assert.Nil(t, f.Proof)

	_, err = c.FulfillRandomWordsWithOverride(ctx, id, nil)
	assert.ErrorIs(t, err, domain.ErrNoRandomWords)
}

func TestMockCoordinator_FundAndCancel(t *testing.T) {
	c, _, subID := setupCoordinator(t)

	assert.ErrorIs(t, c.FundSubscription(42, big.NewInt(1)), ErrInvalidSubscription)
	assert.ErrorIs(t, c.FundSubscription(subID, big.NewInt(0)), domain.ErrInvalidInput)

	id, err := c.RequestRandomWords(context.Background(), request(subID))
	require.NoError(t, err)
	require.NoError(t, c.CancelRequest(id))
	assert.ErrorIs(t, c.CancelRequest(id), domain.ErrNonexistentRequest)
}

func TestProver_WordsAreDeterministicPerSeed(t *testing.T) {
	p := NewProver()
	seed := RequestSeed(1, consumerAddr, []byte("pre-seed"))

	a, err := p.Prove(seed)
	require.NoError(t, err)
	b, err := p.Prove(seed)
	require.NoError(t, err)
	assert.Equal(t, WordsFromProof(a, 3), WordsFromProof(b, 3))

	other, err := p.Prove(RequestSeed(2, consumerAddr, []byte("pre-seed")))
	require.NoError(t, err)
	assert.NotEqual(t, WordsFromProof(a, 1), WordsFromProof(other, 1))

	words := WordsFromProof(a, 3)
	assert.NotEqual(t, words[0], words[1])

	tampered := &Proof{Seed: []byte("other"), Signature: a.Signature}
	assert.ErrorIs(t, p.Verify(tampered), ErrInvalidProof)

	pub, err := p.PublicKey()
	require.NoError(t, err)
	assert.NotEmpty(t, pub)
}

func TestMockCoordinator_RestoreAfterRestart(t *testing.T) {
	c, consumer, subID := setupCoordinator(t)
	ctx := context.Background()

	c.SkipRequestIDs(4)
	require.NoError(t, c.RestoreRequest(ctx, 5, request(subID)))
	assert.True(t, c.IsPending(5))

	next, err := c.RequestRandomWords(ctx, request(subID))
	require.NoError(t, err)
	assert.Equal(t, domain.RequestID(6), next)

	consumer.On("FulfillRandomWords", mock.Anything, coordinatorAddr, domain.RequestID(5), mock.Anything).Return(nil).Once()
	_, err = c.FulfillRandomWords(ctx, 5)
	require.NoError(t, err)

	bad := request(subID)
	bad.Consumer = ownerAddr
	assert.ErrorIs(t, c.RestoreRequest(ctx, 9, bad), ErrInvalidConsumer)
}

func TestRelayCoordinator(t *testing.T) {
	r := NewRelayCoordinator(coordinatorAddr)
	ctx := context.Background()
	assert.Equal(t, coordinatorAddr, r.Address())

	a, err := r.RequestRandomWords(ctx, request(1))
	require.NoError(t, err)
	b, err := r.RequestRandomWords(ctx, request(1))
	require.NoError(t, err)
	assert.NotZero(t, a)
	assert.NotEqual(t, a, b)
	assert.LessOrEqual(t, uint64(a), uint64(1<<63-1))
	assert.Equal(t, 2, r.Outstanding())

	req := request(1)
	req.NumWords = 0
	_, err = r.RequestRandomWords(ctx, req)
	assert.ErrorIs(t, err, ErrNumWordsTooBig)

	require.NoError(t, r.CancelRequest(a))
	assert.ErrorIs(t, r.CancelRequest(a), domain.ErrNonexistentRequest)
	assert.Equal(t, 1, r.Outstanding())

	r.SettleRequest(b)
	assert.Equal(t, 0, r.Outstanding())
	r.SettleRequest(b)
	assert.ErrorIs(t, r.CancelRequest(b), domain.ErrNonexistentRequest)
}

func TestRelayCoordinator_SettledIDsAreNotRetained(t *testing.T) {
	r := NewRelayCoordinator(coordinatorAddr)
	ctx := context.Background()
	for i := 0; i < 1000; i++ {
		id, err := r.RequestRandomWords(ctx, request(1))
		require.NoError(t, err)
		r.SettleRequest(id)
	}
	assert.Equal(t, 0, r.Outstanding())
}
