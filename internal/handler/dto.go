package handler

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/osse101/lotto/internal/domain"
)

// Amounts are decimal strings in wei. Addresses are checksummed hex; the zero
// address is rendered as "".

// PoolResponse is the full pool snapshot
type PoolResponse struct {
	ID                   string  `json:"id"`
	Address              string  `json:"address"`
	State                string  `json:"state"`
	EntranceFee          string  `json:"entrance_fee"`
	IntervalSeconds      int64   `json:"interval_seconds"`
	NumberOfPlayers      int     `json:"number_of_players"`
	Balance              string  `json:"balance"`
	RecentWinner         string  `json:"recent_winner"`
	LastTimestamp        int64   `json:"last_timestamp"`
	PendingRequestID     *uint64 `json:"pending_request_id,omitempty"`
	PendingSince         *int64  `json:"pending_since,omitempty"`
	Coordinator          string  `json:"coordinator"`
	KeyHash              string  `json:"key_hash"`
	SubscriptionID       uint64  `json:"subscription_id"`
	RequestConfirmations uint16  `json:"request_confirmations"`
	CallbackGasLimit     uint32  `json:"callback_gas_limit"`
	NumWords             uint32  `json:"num_words"`
}

// PlayerCountResponse is returned by GET /pool/players
type PlayerCountResponse struct {
	NumberOfPlayers int `json:"number_of_players"`
}

// ParticipantResponse is one weighted slot
type ParticipantResponse struct {
	Index     int    `json:"index"`
	Address   string `json:"address"`
	Value     string `json:"value"`
	EnteredAt int64  `json:"entered_at"`
}

// UpkeepResponse is the result of evaluating the draw conditions
type UpkeepResponse struct {
	UpkeepNeeded    bool   `json:"upkeep_needed"`
	PerformData     string `json:"perform_data"`
	IsOpen          bool   `json:"is_open"`
	TimePassed      bool   `json:"time_passed"`
	HasBalance      bool   `json:"has_balance"`
	HasPlayers      bool   `json:"has_players"`
	State           string `json:"state"`
	Balance         string `json:"balance"`
	NumParticipants int    `json:"num_participants"`
	ElapsedSeconds  int64  `json:"elapsed_seconds"`
}

// RequestIDResponse carries the id of a randomness request
type RequestIDResponse struct {
	RequestID uint64 `json:"request_id"`
}

// DrawResponse is one draw record
type DrawResponse struct {
	RequestID       uint64 `json:"request_id"`
	Status          string `json:"status"`
	NumParticipants int    `json:"num_participants"`
	Pot             string `json:"pot"`
	RequestedAt     int64  `json:"requested_at"`
	ResolvedAt      *int64 `json:"resolved_at,omitempty"`
	Winner          string `json:"winner,omitempty"`
	WinnerIndex     int    `json:"winner_index"`
	RandomWord      string `json:"random_word,omitempty"`
}

// AccountResponse is the external balance of an address
type AccountResponse struct {
	Address         string `json:"address"`
	Balance         string `json:"balance"`
	RejectsPayments bool   `json:"rejects_payments"`
}

// FulfillmentResponse describes a delivery by the local coordinator
type FulfillmentResponse struct {
	RequestID   uint64   `json:"request_id"`
	RandomWords []string `json:"random_words"`
	Payment     string   `json:"payment"`
	Proof       *ProofResponse `json:"proof,omitempty"`
}

// ProofResponse is a hex encoded randomness proof
type ProofResponse struct {
	Seed      string `json:"seed"`
	Signature string `json:"signature"`
}

// EnterRequest enters address into the pool with value wei
type EnterRequest struct {
	Address string `json:"address" validate:"required,eth_addr"`
	Value   string `json:"value" validate:"required,bigint"`
}

// PerformUpkeepRequest starts a draw
type PerformUpkeepRequest struct {
	PerformData string `json:"perform_data" validate:"omitempty,hexdata"`
}

// VRFCallbackRequest delivers random words for a pending request. Signature
// is the oracle's 65 byte secp256k1 signature over the delivery digest.
type VRFCallbackRequest struct {
	RequestID   uint64   `json:"request_id"`
	RandomWords []string `json:"random_words" validate:"dive,bigint"`
	Signature   string   `json:"signature" validate:"required,hexdata"`
}

// FulfillRequest optionally overrides the words the local coordinator delivers
type FulfillRequest struct {
	RandomWords []string `json:"random_words" validate:"dive,bigint"`
}

// PaymentPolicyRequest marks an address as refusing payouts
type PaymentPolicyRequest struct {
	RejectsPayments *bool `json:"rejects_payments" validate:"required"`
}

func addressString(a common.Address) string {
	if a == (common.Address{}) {
		return ""
	}
	return a.Hex()
}

func amountString(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}

func unixPtr(t *time.Time) *int64 {
	if t == nil {
		return nil
	}
	u := t.Unix()
	return &u
}

func newPoolResponse(p *domain.Pool, address common.Address) PoolResponse {
	resp := PoolResponse{
		ID:                   p.ID,
		Address:              address.Hex(),
		State:                string(p.State),
		EntranceFee:          amountString(p.Config.EntryFee),
		IntervalSeconds:      int64(p.Config.Interval.Seconds()),
		NumberOfPlayers:      p.NumParticipants,
		Balance:              amountString(p.Balance),
		RecentWinner:         addressString(p.RecentWinner),
		LastTimestamp:        p.LastDrawAt.Unix(),
		PendingSince:         unixPtr(p.PendingSince),
		Coordinator:          p.Config.Coordinator.Hex(),
		KeyHash:              p.Config.KeyHash.Hex(),
		SubscriptionID:       p.Config.SubscriptionID,
		RequestConfirmations: p.Config.RequestConfirmations,
		CallbackGasLimit:     p.Config.CallbackGasLimit,
		NumWords:             p.Config.NumWords,
	}
	if p.PendingRequestID != nil {
		id := uint64(*p.PendingRequestID)
		resp.PendingRequestID = &id
	}
	return resp
}

func newParticipantResponse(p *domain.Participant) ParticipantResponse {
	return ParticipantResponse{
		Index:     p.Index,
		Address:   p.Address.Hex(),
		Value:     amountString(p.Value),
		EnteredAt: p.EnteredAt.Unix(),
	}
}

func newUpkeepResponse(s *domain.UpkeepStatus) UpkeepResponse {
	return UpkeepResponse{
		UpkeepNeeded:    s.Needed,
		PerformData:     "0x",
		IsOpen:          s.IsOpen,
		TimePassed:      s.TimePassed,
		HasBalance:      s.HasBalance,
		HasPlayers:      s.HasPlayers,
		State:           string(s.State),
		Balance:         amountString(s.Balance),
		NumParticipants: s.NumParticipants,
		ElapsedSeconds:  int64(s.Elapsed.Seconds()),
	}
}

func newDrawResponse(d *domain.Draw) DrawResponse {
	resp := DrawResponse{
		RequestID:       uint64(d.RequestID),
		Status:          string(d.Status),
		NumParticipants: d.NumParticipants,
		Pot:             amountString(d.Pot),
		RequestedAt:     d.RequestedAt.Unix(),
		ResolvedAt:      unixPtr(d.ResolvedAt),
		Winner:          addressString(d.Winner),
		WinnerIndex:     d.WinnerIndex,
	}
	if d.RandomWord != nil {
		resp.RandomWord = d.RandomWord.String()
	}
	return resp
}

func newAccountResponse(a *domain.Account) AccountResponse {
	return AccountResponse{
		Address:         a.Address.Hex(),
		Balance:         amountString(a.Balance),
		RejectsPayments: a.RejectsPayments,
	}
}

// parseWords decodes decimal word strings that already passed the bigint tag
func parseWords(raw []string) []*big.Int {
	words := make([]*big.Int, 0, len(raw))
	for _, s := range raw {
		v, _ := new(big.Int).SetString(s, 10)
		words = append(words, v)
	}
	return words
}
