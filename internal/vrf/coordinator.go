package vrf

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"sort"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/osse101/lotto/internal/clock"
	"github.com/osse101/lotto/internal/domain"
	"github.com/osse101/lotto/internal/logger"
)

// RandomWordsRequest is what a consumer sends to the coordinator
type RandomWordsRequest struct {
	Consumer             common.Address
	KeyHash              common.Hash
	SubscriptionID       uint64
	RequestConfirmations uint16
	CallbackGasLimit     uint32
	NumWords             uint32
}

// Consumer receives fulfilled randomness. caller is the coordinator address.
type Consumer interface {
	FulfillRandomWords(ctx context.Context, caller common.Address, requestID domain.RequestID, words []*big.Int) error
}

// Subscription is a funded account that pays for fulfilments
type Subscription struct {
	ID        uint64           `json:"id"`
	Owner     common.Address   `json:"owner"`
	Balance   *big.Int         `json:"balance"`
	Consumers []common.Address `json:"consumers"`
}

// PendingRequest is a request that has not been fulfilled yet
type PendingRequest struct {
	RequestID   domain.RequestID   `json:"request_id"`
	Request     RandomWordsRequest `json:"request"`
	PreSeed     []byte             `json:"pre_seed"`
	RequestedAt time.Time          `json:"requested_at"`
	Attempts    int                `json:"attempts"`
}

// Fulfillment describes a delivered response
type Fulfillment struct {
	RequestID domain.RequestID `json:"request_id"`
	Words     []*big.Int       `json:"words"`
	Proof     *Proof           `json:"proof,omitempty"`
	Payment   *big.Int         `json:"payment"`
}

// MockCoordinator is an in-process randomness coordinator for local networks.
// It tracks subscriptions and charges a flat base fee plus a gas based fee
// for every fulfilment. Words are derived from BLS proofs and verified before
// delivery.
type MockCoordinator struct {
	mu           sync.Mutex
	address      common.Address
	baseFee      *big.Int
	gasPriceLink *big.Int
	prover       *Prover
	clock        clock.Clock

	nextSubID     uint64
	nextRequestID uint64
	subs          map[uint64]*Subscription
	consumers     map[common.Address]Consumer
	pending       map[domain.RequestID]*PendingRequest
}

// NewMockCoordinator creates a coordinator at address
func NewMockCoordinator(address common.Address, baseFee, gasPriceLink *big.Int, prover *Prover, clk clock.Clock) *MockCoordinator {
	if baseFee == nil {
		baseFee = new(big.Int).Set(DefaultBaseFee)
	}
	if gasPriceLink == nil {
		gasPriceLink = new(big.Int).Set(DefaultGasPriceLink)
	}
	if prover == nil {
		prover = NewProver()
	}
	if clk == nil {
		clk = clock.NewRealClock()
	}
	return &MockCoordinator{
		address:      address,
		baseFee:      baseFee,
		gasPriceLink: gasPriceLink,
		prover:       prover,
		clock:        clk,
		subs:         make(map[uint64]*Subscription),
		consumers:    make(map[common.Address]Consumer),
		pending:      make(map[domain.RequestID]*PendingRequest),
	}
}

// Address is the identity the coordinator uses when calling consumers back
func (c *MockCoordinator) Address() common.Address {
	return c.address
}

// Prover exposes the key material so callers can verify proofs
func (c *MockCoordinator) Prover() *Prover {
	return c.prover
}

// CreateSubscription opens an unfunded subscription; ids start at 1
func (c *MockCoordinator) CreateSubscription(owner common.Address) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.nextSubID++
	id := c.nextSubID
	c.subs[id] = &Subscription{ID: id, Owner: owner, Balance: new(big.Int)}
	logger.Info(LogMsgSubscriptionCreated, "subscription_id", id, "owner", owner.Hex())
	return id
}

// FundSubscription adds amount to the subscription balance
func (c *MockCoordinator) FundSubscription(subID uint64, amount *big.Int) error {
	if amount == nil || amount.Sign() <= 0 {
		return fmt.Errorf("%w: fund amount must be positive", domain.ErrInvalidInput)
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	sub, ok := c.subs[subID]
	if !ok {
		return fmt.Errorf("%w: %d", ErrInvalidSubscription, subID)
	}
	sub.Balance = new(big.Int).Add(sub.Balance, amount)
	return nil
}

// AddConsumer authorizes addr to request against subID and routes callbacks to consumer
func (c *MockCoordinator) AddConsumer(subID uint64, addr common.Address, consumer Consumer) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	sub, ok := c.subs[subID]
	if !ok {
		return fmt.Errorf("%w: %d", ErrInvalidSubscription, subID)
	}
	if len(sub.Consumers) >= MaxConsumers {
		return ErrTooManyConsumers
	}
	for _, existing := range sub.Consumers {
		if existing == addr {
			c.consumers[addr] = consumer
			return nil
		}
	}
	sub.Consumers = append(sub.Consumers, addr)
	c.consumers[addr] = consumer
	return nil
}

// GetSubscription returns a copy of the subscription
func (c *MockCoordinator) GetSubscription(subID uint64) (Subscription, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	sub, ok := c.subs[subID]
	if !ok {
		return Subscription{}, fmt.Errorf("%w: %d", ErrInvalidSubscription, subID)
	}
	out := *sub
	out.Balance = new(big.Int).Set(sub.Balance)
	out.Consumers = append([]common.Address(nil), sub.Consumers...)
	return out, nil
}

// RequestRandomWords registers a request and returns its id. Ids start at 1.
func (c *MockCoordinator) RequestRandomWords(ctx context.Context, req RandomWordsRequest) (domain.RequestID, error) {
	if err := validateRequest(req); err != nil {
		return 0, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.checkConsumer(req); err != nil {
		return 0, err
	}

	c.nextRequestID++
	id := domain.RequestID(c.nextRequestID)
	if err := c.register(id, req); err != nil {
		c.nextRequestID--
		return 0, err
	}

	logger.FromContext(ctx).Info(LogMsgRandomWordsRequested,
		"request_id", id,
		"consumer", req.Consumer.Hex(),
		"subscription_id", req.SubscriptionID,
		"num_words", req.NumWords)
	return id, nil
}

// RestoreRequest registers a request issued before a restart so it can still
// be fulfilled. Later requests get ids above requestID.
func (c *MockCoordinator) RestoreRequest(ctx context.Context, requestID domain.RequestID, req RandomWordsRequest) error {
	if err := validateRequest(req); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.checkConsumer(req); err != nil {
		return err
	}
	if _, ok := c.pending[requestID]; ok {
		return nil
	}
	if err := c.register(requestID, req); err != nil {
		return err
	}
	if uint64(requestID) > c.nextRequestID {
		c.nextRequestID = uint64(requestID)
	}

	logger.FromContext(ctx).Info(LogMsgRequestRestored, "request_id", requestID, "consumer", req.Consumer.Hex())
	return nil
}

// SkipRequestIDs makes the next request id larger than last
func (c *MockCoordinator) SkipRequestIDs(last domain.RequestID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if uint64(last) > c.nextRequestID {
		c.nextRequestID = uint64(last)
	}
}

// checkConsumer requires the subscription to exist and list the consumer.
// Caller must hold the mutex.
func (c *MockCoordinator) checkConsumer(req RandomWordsRequest) error {
	sub, ok := c.subs[req.SubscriptionID]
	if !ok {
		return fmt.Errorf("%w: %d", ErrInvalidSubscription, req.SubscriptionID)
	}
	if !containsAddress(sub.Consumers, req.Consumer) {
		return fmt.Errorf("%w: %s", ErrInvalidConsumer, req.Consumer.Hex())
	}
	return nil
}

// register stores a pending request with a fresh pre-seed. Caller must hold the mutex.
func (c *MockCoordinator) register(id domain.RequestID, req RandomWordsRequest) error {
	preSeed := make([]byte, PreSeedLength)
	if _, err := rand.Read(preSeed); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgPreSeedFailed, err)
	}
	c.pending[id] = &PendingRequest{
		RequestID:   id,
		Request:     req,
		PreSeed:     preSeed,
		RequestedAt: c.clock.Now(),
	}
	return nil
}

// validateRequest applies the coordinator limits shared by every coordinator
func validateRequest(req RandomWordsRequest) error {
	if req.NumWords == 0 || req.NumWords > MaxNumWords {
		return fmt.Errorf("%w: %d", ErrNumWordsTooBig, req.NumWords)
	}
	if req.CallbackGasLimit > MaxGasLimit {
		return fmt.Errorf("%w: %d", ErrGasLimitTooBig, req.CallbackGasLimit)
	}
	if req.RequestConfirmations > MaxRequestConfirmations {
		return fmt.Errorf("%w: %d", ErrInvalidConfirmations, req.RequestConfirmations)
	}
	return nil
}

// FulfillRandomWords proves and delivers the words for requestID
func (c *MockCoordinator) FulfillRandomWords(ctx context.Context, requestID domain.RequestID) (*Fulfillment, error) {
	return c.fulfill(ctx, requestID, nil)
}

// FulfillRandomWordsWithOverride delivers caller-chosen words. Local testing only.
func (c *MockCoordinator) FulfillRandomWordsWithOverride(ctx context.Context, requestID domain.RequestID, words []*big.Int) (*Fulfillment, error) {
	if len(words) == 0 {
		return nil, domain.ErrNoRandomWords
	}
	return c.fulfill(ctx, requestID, words)
}

func (c *MockCoordinator) fulfill(ctx context.Context, requestID domain.RequestID, override []*big.Int) (*Fulfillment, error) {
	log := logger.FromContext(ctx)

	c.mu.Lock()
	req, ok := c.pending[requestID]
	if !ok {
		c.mu.Unlock()
		return nil, fmt.Errorf("%w: %d", domain.ErrNonexistentRequest, requestID)
	}
	sub, ok := c.subs[req.Request.SubscriptionID]
	if !ok {
		c.mu.Unlock()
		return nil, fmt.Errorf("%w: %d", ErrInvalidSubscription, req.Request.SubscriptionID)
	}
	payment := c.calculatePayment(req.Request.CallbackGasLimit)
	if sub.Balance.Cmp(payment) < 0 {
		c.mu.Unlock()
		return nil, fmt.Errorf("%w: have %s need %s", ErrInsufficientBalance, sub.Balance, payment)
	}
	consumer := c.consumers[req.Request.Consumer]
	req.Attempts++
	snapshot := *req
	c.mu.Unlock()

	if consumer == nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidConsumer, snapshot.Request.Consumer.Hex())
	}

	var (
		words []*big.Int
		proof *Proof
	)
	if override != nil {
		words = override
	} else {
		var err error
		proof, err = c.prover.Prove(RequestSeed(requestID, snapshot.Request.Consumer, snapshot.PreSeed))
		if err != nil {
			return nil, err
		}
		if err := c.prover.Verify(proof); err != nil {
			return nil, err
		}
		words = WordsFromProof(proof, snapshot.Request.NumWords)
	}

	// The consumer call happens without the lock so it may re-enter the coordinator.
	if err := consumer.FulfillRandomWords(ctx, c.address, requestID, words); err != nil {
		log.Warn(LogMsgCallbackFailed, "request_id", requestID, "attempt", snapshot.Attempts, "error", err)
		return nil, fmt.Errorf("%w: %w", ErrCallbackFailed, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, still := c.pending[requestID]; !still {
		// a concurrent fulfilment already settled it; the consumer rejects duplicates
		return nil, fmt.Errorf("%w: %d", domain.ErrNonexistentRequest, requestID)
	}
	delete(c.pending, requestID)
	if s, ok := c.subs[snapshot.Request.SubscriptionID]; ok {
		s.Balance = new(big.Int).Sub(s.Balance, payment)
	}

	log.Info(LogMsgRandomWordsFulfilled, "request_id", requestID, "payment", payment.String())
	return &Fulfillment{RequestID: requestID, Words: words, Proof: proof, Payment: payment}, nil
}

// CancelRequest drops a pending request without charging the subscription
func (c *MockCoordinator) CancelRequest(requestID domain.RequestID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.pending[requestID]; !ok {
		return fmt.Errorf("%w: %d", domain.ErrNonexistentRequest, requestID)
	}
	delete(c.pending, requestID)
	return nil
}

// PendingRequests lists unfulfilled requests ordered by id
func (c *MockCoordinator) PendingRequests() []PendingRequest {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]PendingRequest, 0, len(c.pending))
	for _, p := range c.pending {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RequestID < out[j].RequestID })
	return out
}

// IsPending reports whether requestID awaits fulfilment
func (c *MockCoordinator) IsPending(requestID domain.RequestID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.pending[requestID]
	return ok
}

// calculatePayment approximates the fee with the full callback gas limit
func (c *MockCoordinator) calculatePayment(gasLimit uint32) *big.Int {
	fee := new(big.Int).Mul(c.gasPriceLink, new(big.Int).SetUint64(uint64(gasLimit)))
	return fee.Add(fee, c.baseFee)
}

func containsAddress(list []common.Address, addr common.Address) bool {
	for _, a := range list {
		if a == addr {
			return true
		}
	}
	return false
}

// IsCallbackFailure reports whether err came from the consumer rejecting a fulfilment
func IsCallbackFailure(err error) bool {
	return errors.Is(err, ErrCallbackFailed)
}
