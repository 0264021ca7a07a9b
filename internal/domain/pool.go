package domain

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// PoolState represents the draw state machine of a pool
type PoolState string

const (
	PoolStateOpen        PoolState = "OPEN"
	PoolStateCalculating PoolState = "CALCULATING"
)

// IsValid reports whether s is a known pool state
func (s PoolState) IsValid() bool {
	return s == PoolStateOpen || s == PoolStateCalculating
}

// RequestID identifies a randomness request issued to the oracle
type RequestID uint64

// PoolConfig holds the construction parameters of a pool. They never change
// after the pool is deployed.
type PoolConfig struct {
	EntryFee             *big.Int       `json:"entry_fee"`
	Interval             time.Duration  `json:"interval"`
	Coordinator          common.Address `json:"coordinator"`
	KeyHash              common.Hash    `json:"key_hash"`
	SubscriptionID       uint64         `json:"subscription_id"`
	RequestConfirmations uint16         `json:"request_confirmations"`
	CallbackGasLimit     uint32         `json:"callback_gas_limit"`
	NumWords             uint32         `json:"num_words"`
}

// Pool is the persistent state of one participation pool.
// State is CALCULATING exactly when PendingRequestID is set.
type Pool struct {
	ID               string         `json:"id"`
	Config           PoolConfig     `json:"config"`
	State            PoolState      `json:"state"`
	Balance          *big.Int       `json:"balance"`
	NumParticipants  int            `json:"num_participants"`
	LastDrawAt       time.Time      `json:"last_draw_at"`
	RecentWinner     common.Address `json:"recent_winner"`
	PendingRequestID *RequestID     `json:"pending_request_id,omitempty"`
	PendingSince     *time.Time     `json:"pending_since,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
}

// HasPendingRequest reports whether a randomness request is in flight
func (p *Pool) HasPendingRequest() bool {
	return p.PendingRequestID != nil
}

// Participant is one weighted slot in the current round
type Participant struct {
	PoolID    string         `json:"pool_id"`
	Index     int            `json:"index"`
	Address   common.Address `json:"address"`
	Value     *big.Int       `json:"value"`
	EnteredAt time.Time      `json:"entered_at"`
}

// DrawStatus tracks the lifecycle of a single draw
type DrawStatus string

const (
	DrawStatusRequested DrawStatus = "requested"
	DrawStatusCompleted DrawStatus = "completed"
	DrawStatusAbandoned DrawStatus = "abandoned"
)

// Draw records one cycle from randomness request to payout
type Draw struct {
	PoolID          string         `json:"pool_id"`
	RequestID       RequestID      `json:"request_id"`
	Status          DrawStatus     `json:"status"`
	NumParticipants int            `json:"num_participants"`
	Pot             *big.Int       `json:"pot"`
	RequestedAt     time.Time      `json:"requested_at"`
	ResolvedAt      *time.Time     `json:"resolved_at,omitempty"`
	Winner          common.Address `json:"winner"`
	WinnerIndex     int            `json:"winner_index"`
	RandomWord      *big.Int       `json:"random_word,omitempty"`
}

// Account is the external balance of an address that can receive payouts
type Account struct {
	Address         common.Address `json:"address"`
	Balance         *big.Int       `json:"balance"`
	RejectsPayments bool           `json:"rejects_payments"`
}

// UpkeepStatus is the outcome of evaluating the draw conditions on one snapshot
type UpkeepStatus struct {
	Needed          bool          `json:"upkeep_needed"`
	IsOpen          bool          `json:"is_open"`
	TimePassed      bool          `json:"time_passed"`
	HasBalance      bool          `json:"has_balance"`
	HasPlayers      bool          `json:"has_players"`
	State           PoolState     `json:"state"`
	Balance         *big.Int      `json:"balance"`
	NumParticipants int           `json:"num_participants"`
	Elapsed         time.Duration `json:"elapsed"`
}

// DrawResult is returned after a successful resolution
type DrawResult struct {
	RequestID   RequestID      `json:"request_id"`
	Winner      common.Address `json:"winner"`
	WinnerIndex int            `json:"winner_index"`
	Payout      *big.Int       `json:"payout"`
	ResolvedAt  time.Time      `json:"resolved_at"`
}
