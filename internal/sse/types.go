package sse

// EntryPayload is streamed for every accepted entry
type EntryPayload struct {
	Player  string `json:"player"`
	Index   int    `json:"index"`
	Value   string `json:"value"`
	Balance string `json:"balance"`
}

// DrawRequestedPayload is streamed when the pool stops accepting entries
type DrawRequestedPayload struct {
	RequestID       uint64 `json:"request_id"`
	NumParticipants int    `json:"num_participants"`
	Pot             string `json:"pot"`
}

// WinnerPayload is streamed after a payout
type WinnerPayload struct {
	RequestID   uint64 `json:"request_id"`
	Winner      string `json:"winner"`
	WinnerIndex int    `json:"winner_index"`
	Payout      string `json:"payout"`
}

// PayoutFailedPayload is streamed when a winner refuses the payout
type PayoutFailedPayload struct {
	RequestID uint64 `json:"request_id"`
	Winner    string `json:"winner"`
	Amount    string `json:"amount"`
}

// DrawResetPayload is streamed when an operator abandons a stuck draw
type DrawResetPayload struct {
	RequestID      uint64  `json:"request_id"`
	PendingSeconds float64 `json:"pending_seconds"`
}
