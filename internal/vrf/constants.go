package vrf

import (
	"errors"
	"math/big"
)

// Coordinator limits
const (
	MaxNumWords             = 500
	MaxGasLimit             = 2_500_000
	MaxRequestConfirmations = 200
	MaxConsumers            = 100
	PreSeedLength           = 32
)

var (
	// DefaultBaseFee is the flat fee per fulfilment: 0.25 LINK in juels
	DefaultBaseFee = big.NewInt(250_000_000_000_000_000)
	// DefaultGasPriceLink is the LINK price per unit of callback gas
	DefaultGasPriceLink = big.NewInt(1_000_000_000)
)

// Error messages
const (
	ErrMsgInvalidSubscription  = "invalid subscription"
	ErrMsgInvalidConsumer      = "invalid consumer"
	ErrMsgInsufficientBalance  = "insufficient subscription balance"
	ErrMsgNumWordsTooBig       = "num words out of range"
	ErrMsgGasLimitTooBig       = "callback gas limit too big"
	ErrMsgInvalidConfirmations = "invalid request confirmations"
	ErrMsgTooManyConsumers     = "too many consumers"
	ErrMsgCallbackFailed       = "consumer callback failed"
	ErrMsgInvalidProof         = "invalid randomness proof"
	ErrMsgSignFailed           = "failed to sign request seed"
	ErrMsgPreSeedFailed        = "failed to generate pre-seed"
	ErrMsgInvalidDeliverySig   = "invalid delivery signature"
	ErrMsgSignDeliveryFailed   = "failed to sign delivery"
)

var (
	ErrInvalidSubscription  = errors.New(ErrMsgInvalidSubscription)
	ErrInvalidConsumer      = errors.New(ErrMsgInvalidConsumer)
	ErrInsufficientBalance  = errors.New(ErrMsgInsufficientBalance)
	ErrNumWordsTooBig       = errors.New(ErrMsgNumWordsTooBig)
	ErrGasLimitTooBig       = errors.New(ErrMsgGasLimitTooBig)
	ErrInvalidConfirmations = errors.New(ErrMsgInvalidConfirmations)
	ErrTooManyConsumers     = errors.New(ErrMsgTooManyConsumers)
	ErrCallbackFailed       = errors.New(ErrMsgCallbackFailed)
	ErrInvalidProof         = errors.New(ErrMsgInvalidProof)

	ErrInvalidDeliverySignature = errors.New(ErrMsgInvalidDeliverySig)
)

// Log messages
const (
	LogMsgSubscriptionCreated  = "VRF subscription created"
	LogMsgRandomWordsRequested = "Random words requested"
	LogMsgRandomWordsFulfilled = "Random words fulfilled"
	LogMsgCallbackFailed       = "Consumer rejected fulfilment, request stays pending"
	LogMsgRequestRestored      = "Pending request restored"
	LogMsgRequestRelayed       = "Random words requested from external oracle"
)
