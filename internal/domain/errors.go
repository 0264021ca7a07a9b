package domain

import (
	"errors"
	"fmt"
	"math/big"
	"time"
)

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	// Entry errors
	ErrMsgNotEnoughFunds = "not enough funds entered"
	ErrMsgNotOpen        = "pool is not open"

	// Draw errors
	ErrMsgUpkeepNotNeeded      = "upkeep not needed"
	ErrMsgUnauthorizedCaller   = "caller is not the bound coordinator"
	ErrMsgNonexistentRequest   = "nonexistent request"
	ErrMsgPayoutTransferFailed = "payout transfer failed"
	ErrMsgNoRandomWords        = "no random words delivered"
	ErrMsgDrawNotStuck         = "draw is not stuck"
	ErrMsgNoParticipants       = "pool has no participants"

	// Lookup errors
	ErrMsgPoolNotFound      = "pool not found"
	ErrMsgPoolAlreadyExists = "pool already exists"
	ErrMsgDrawNotFound      = "draw not found"
	ErrMsgParticipantIndex  = "participant index out of range"

	// Ledger errors
	ErrMsgPaymentRejected = "recipient rejected payment"

	// Input errors
	ErrMsgInvalidInput   = "invalid input"
	ErrMsgInvalidAddress = "invalid address"
	ErrMsgInvalidConfig  = "invalid pool configuration"

	// Database/System errors
	ErrMsgTxClosed     = "tx is closed"
	ErrMsgShuttingDown = "pool service is shutting down"
)

// Common domain errors
// These errors should be used consistently across all layers of the application.
// Wrap these errors with fmt.Errorf("%w: %s", domain.ErrXxx, details) for additional context.
var (
	ErrNotEnoughFunds = errors.New(ErrMsgNotEnoughFunds)
	ErrNotOpen        = errors.New(ErrMsgNotOpen)

	ErrUpkeepNotNeeded      = errors.New(ErrMsgUpkeepNotNeeded)
	ErrUnauthorizedCaller   = errors.New(ErrMsgUnauthorizedCaller)
	ErrNonexistentRequest   = errors.New(ErrMsgNonexistentRequest)
	ErrPayoutTransferFailed = errors.New(ErrMsgPayoutTransferFailed)
	ErrNoRandomWords        = errors.New(ErrMsgNoRandomWords)
	ErrDrawNotStuck         = errors.New(ErrMsgDrawNotStuck)
	ErrNoParticipants       = errors.New(ErrMsgNoParticipants)

	ErrPoolNotFound      = errors.New(ErrMsgPoolNotFound)
	ErrPoolAlreadyExists = errors.New(ErrMsgPoolAlreadyExists)
	ErrDrawNotFound      = errors.New(ErrMsgDrawNotFound)
	ErrParticipantIndex  = errors.New(ErrMsgParticipantIndex)
	ErrPaymentRejected   = errors.New(ErrMsgPaymentRejected)
	ErrInvalidInput      = errors.New(ErrMsgInvalidInput)
	ErrInvalidAddress    = errors.New(ErrMsgInvalidAddress)
	ErrInvalidPoolConfig = errors.New(ErrMsgInvalidConfig)
	ErrTxClosed          = errors.New(ErrMsgTxClosed)
	ErrShuttingDown      = errors.New(ErrMsgShuttingDown)
)

// UpkeepNotNeededError carries the values the draw conditions were evaluated on
type UpkeepNotNeededError struct {
	Balance         *big.Int
	NumParticipants int
	State           PoolState
	Elapsed         time.Duration
	Interval        time.Duration
}

// NewUpkeepNotNeededError builds the error from an evaluated upkeep status
func NewUpkeepNotNeededError(status UpkeepStatus, interval time.Duration) *UpkeepNotNeededError {
	bal := new(big.Int)
	if status.Balance != nil {
		bal.Set(status.Balance)
	}
	return &UpkeepNotNeededError{
		Balance:         bal,
		NumParticipants: status.NumParticipants,
		State:           status.State,
		Elapsed:         status.Elapsed,
		Interval:        interval,
	}
}

func (e *UpkeepNotNeededError) Error() string {
	return fmt.Sprintf("%s: balance=%s participants=%d state=%s elapsed=%s interval=%s",
		ErrMsgUpkeepNotNeeded, e.Balance, e.NumParticipants, e.State, e.Elapsed, e.Interval)
}

func (e *UpkeepNotNeededError) Unwrap() error {
	return ErrUpkeepNotNeeded
}
