package postgres

// pgUniqueViolation is the SQLSTATE for unique_violation
const pgUniqueViolation = "23505"

// DefaultDrawListLimit caps ListDraws when no limit is given
const DefaultDrawListLimit = 50

// Error Messages
const (
	ErrMsgFailedToCreatePool       = "failed to create pool"
	ErrMsgFailedToGetPool          = "failed to get pool"
	ErrMsgFailedToUpdatePool       = "failed to update pool"
	ErrMsgFailedToBeginTx          = "failed to begin transaction"
	ErrMsgFailedToGetParticipant   = "failed to get participant"
	ErrMsgFailedToListParticipants = "failed to list participants"
	ErrMsgFailedToAddParticipant   = "failed to add participant"
	ErrMsgFailedToClearParticipants = "failed to clear participants"
	ErrMsgFailedToCreateDraw       = "failed to create draw"
	ErrMsgFailedToUpdateDraw       = "failed to update draw"
	ErrMsgFailedToGetDraw          = "failed to get draw"
	ErrMsgFailedToListDraws        = "failed to list draws"
	ErrMsgFailedToGetAccount       = "failed to get account"
	ErrMsgFailedToUpdateAccount    = "failed to update account"
	ErrMsgInvalidNumeric           = "invalid numeric value"
)
