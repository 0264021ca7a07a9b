package vrf

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"github.com/osse101/lotto/internal/domain"
	"github.com/osse101/lotto/internal/logger"
)

// RelayCoordinator is used when an external oracle answers requests. It only
// issues request ids; the oracle reads draw requests from the event stream
// and delivers words through the pool's callback endpoint as address.
// Ids are tracked only while their draw is open.
type RelayCoordinator struct {
	address common.Address

	mu          sync.Mutex
	outstanding map[domain.RequestID]RandomWordsRequest
}

// NewRelayCoordinator creates a relay for the oracle at address
func NewRelayCoordinator(address common.Address) *RelayCoordinator {
	return &RelayCoordinator{
		address:     address,
		outstanding: make(map[domain.RequestID]RandomWordsRequest),
	}
}

// Address returns the address deliveries must come from
func (r *RelayCoordinator) Address() common.Address {
	return r.address
}

// RequestRandomWords validates req and returns a random non-zero id
func (r *RelayCoordinator) RequestRandomWords(ctx context.Context, req RandomWordsRequest) (domain.RequestID, error) {
	if err := validateRequest(req); err != nil {
		return 0, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	var id domain.RequestID
	for id == 0 || r.has(id) {
		var b [8]byte
		if _, err := rand.Read(b[:]); err != nil {
			return 0, fmt.Errorf("%s: %w", ErrMsgPreSeedFailed, err)
		}
		// keep ids within int64 so every storage backend can hold them
		id = domain.RequestID(binary.BigEndian.Uint64(b[:]) >> 1)
	}
	r.outstanding[id] = req

	logger.FromContext(ctx).Info(LogMsgRequestRelayed,
		"request_id", id,
		"consumer", req.Consumer.Hex(),
		"subscription_id", req.SubscriptionID,
		"key_hash", req.KeyHash.Hex(),
		"num_words", req.NumWords)
	return id, nil
}

// CancelRequest forgets an issued id
func (r *RelayCoordinator) CancelRequest(requestID domain.RequestID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.has(requestID) {
		return fmt.Errorf("%w: %d", domain.ErrNonexistentRequest, requestID)
	}
	delete(r.outstanding, requestID)
	return nil
}

// SettleRequest forgets an id whose draw has been resolved
func (r *RelayCoordinator) SettleRequest(requestID domain.RequestID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.outstanding, requestID)
}

// Outstanding returns the number of ids neither settled nor cancelled
func (r *RelayCoordinator) Outstanding() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.outstanding)
}

func (r *RelayCoordinator) has(id domain.RequestID) bool {
	_, ok := r.outstanding[id]
	return ok
}
