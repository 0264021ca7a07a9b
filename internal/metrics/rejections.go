package metrics

import (
	"errors"

	"github.com/osse101/lotto/internal/domain"
)

var rejectionReasons = []struct {
	err    error
	reason string
}{
	{domain.ErrNotEnoughFunds, "not_enough_funds"},
	{domain.ErrNotOpen, "not_open"},
	{domain.ErrUpkeepNotNeeded, "upkeep_not_needed"},
	{domain.ErrUnauthorizedCaller, "unauthorized_caller"},
	{domain.ErrNonexistentRequest, "nonexistent_request"},
	{domain.ErrPayoutTransferFailed, "payout_transfer_failed"},
	{domain.ErrNoRandomWords, "no_random_words"},
	{domain.ErrDrawNotStuck, "draw_not_stuck"},
	{domain.ErrInvalidInput, "invalid_input"},
}

// RejectionReason returns the label value for a failed pool operation
func RejectionReason(err error) string {
	for _, r := range rejectionReasons {
		if errors.Is(err, r.err) {
			return r.reason
		}
	}
	return ReasonOther
}

// RecordRejection counts a pool operation that returned err. A nil err is ignored.
func RecordRejection(operation string, err error) {
	if err == nil {
		return
	}
	RejectedCalls.WithLabelValues(operation, RejectionReason(err)).Inc()
}
