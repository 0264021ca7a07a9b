package handler

// Generic HTTP error messages for client responses.
// These messages do not expose internal error details.
const (
	ErrMsgInvalidRequest        = "Invalid request body"
	ErrMsgInvalidRequestSummary = "Invalid request"
	ErrMsgInvalidLimit          = "Invalid limit parameter"
	ErrMsgInvalidIndex          = "Invalid participant index"
	ErrMsgInvalidRequestID      = "Invalid request id"
	ErrMsgInvalidAddressParam   = "Invalid address"
	ErrMsgFulfillmentDisabled   = "Manual fulfillment is only available with the local coordinator"
)

// User-facing error messages for service errors
const (
	ErrMsgGenericServerError     = "Something went wrong"
	ErrMsgUnknownError           = "Unknown error"
	ErrMsgNotEnoughFundsError    = "Entry value is below the entrance fee"
	ErrMsgNotOpenError           = "The pool is not accepting entries while a draw is in progress"
	ErrMsgUpkeepNotNeededError   = "Upkeep not needed"
	ErrMsgUnauthorizedCallerErr  = "Only the bound coordinator may deliver randomness"
	ErrMsgNonexistentRequestErr  = "No pending randomness request with that id"
	ErrMsgPayoutFailedError      = "The winner rejected the payout; the draw stays pending"
	ErrMsgNoRandomWordsError     = "At least one random word is required"
	ErrMsgDrawNotStuckError      = "The pool has no draw pending past the timeout"
	ErrMsgPoolNotFoundError      = "Pool not found"
	ErrMsgDrawNotFoundError      = "Draw not found"
	ErrMsgParticipantIndexError  = "Participant index out of range"
	ErrMsgInvalidInputError      = "Invalid request. Please check your inputs."
	ErrMsgSubscriptionError      = "Randomness subscription cannot pay for this request"
	ErrMsgCoordinatorRejectedErr = "The coordinator rejected the request"
	ErrMsgNoParticipantsError    = "The pending draw has no participants to pick from"
	ErrMsgShuttingDownError      = "The pool is shutting down, retry shortly"
)

// Success messages for API responses
const (
	MsgPaymentPolicyUpdated = "Payment policy updated"
	MsgDrawReset            = "Stuck draw abandoned, pool reopened"
)

// Query and path parameter names
const (
	ParamIndex     = "index"
	ParamRequestID = "requestID"
	ParamAddress   = "address"
	ParamLimit     = "limit"
)
