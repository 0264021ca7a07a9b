package handler

import (
	"fmt"
	"math/big"
	"net/http"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/osse101/lotto/internal/domain"
	"github.com/osse101/lotto/internal/logger"
	"github.com/osse101/lotto/internal/lotto"
	"github.com/osse101/lotto/internal/metrics"
	"github.com/osse101/lotto/internal/vrf"
)

// PoolHandler serves the pool operations and read accessors
type PoolHandler struct {
	service lotto.Service
}

// NewPoolHandler creates a handler for service
func NewPoolHandler(service lotto.Service) *PoolHandler {
	return &PoolHandler{service: service}
}

// HandleGetPool returns the pool snapshot
// @Summary Get pool
// @Description Returns state, configuration and accessors of the pool
// @Tags pool
// @Produce json
// @Success 200 {object} PoolResponse
// @Router /api/v1/pool [get]
func (h *PoolHandler) HandleGetPool(w http.ResponseWriter, r *http.Request) {
	pool, err := h.service.GetPool(r.Context())
	if err != nil {
		respondServiceError(w, r, "get_pool", err)
		return
	}
	respondJSON(w, http.StatusOK, newPoolResponse(pool, h.service.Address()))
}

// HandleGetPlayerCount returns the number of participant slots
// @Summary Number of players
// @Tags pool
// @Produce json
// @Success 200 {object} PlayerCountResponse
// @Router /api/v1/pool/players [get]
func (h *PoolHandler) HandleGetPlayerCount(w http.ResponseWriter, r *http.Request) {
	n, err := h.service.GetNumberOfPlayers(r.Context())
	if err != nil {
		respondServiceError(w, r, "get_player_count", err)
		return
	}
	respondJSON(w, http.StatusOK, PlayerCountResponse{NumberOfPlayers: n})
}

// HandleGetPlayer returns the participant at {index}
// @Summary Player at index
// @Tags pool
// @Produce json
// @Param index path int true "Slot index"
// @Success 200 {object} ParticipantResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/pool/players/{index} [get]
func (h *PoolHandler) HandleGetPlayer(w http.ResponseWriter, r *http.Request) {
	idx, ok := getIndexParam(w, r)
	if !ok {
		return
	}
	p, err := h.service.GetPlayer(r.Context(), idx)
	if err != nil {
		respondServiceError(w, r, "get_player", err)
		return
	}
	respondJSON(w, http.StatusOK, newParticipantResponse(p))
}

// HandleEnter adds one weighted slot for address
// @Summary Enter the pool
// @Tags pool
// @Accept json
// @Produce json
// @Param request body EnterRequest true "Entry"
// @Success 201 {object} ParticipantResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/v1/pool/enter [post]
func (h *PoolHandler) HandleEnter(w http.ResponseWriter, r *http.Request) {
	var req EnterRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Enter"); err != nil {
		return
	}
	value, _ := new(big.Int).SetString(req.Value, 10)

	p, err := h.service.Enter(r.Context(), common.HexToAddress(req.Address), value)
	if err != nil {
		respondServiceError(w, r, metrics.OperationEnter, err)
		return
	}
	respondJSON(w, http.StatusCreated, newParticipantResponse(p))
}

// HandleCheckUpkeep evaluates the draw conditions without side effects
// @Summary Check upkeep
// @Tags upkeep
// @Produce json
// @Success 200 {object} UpkeepResponse
// @Router /api/v1/upkeep [get]
func (h *PoolHandler) HandleCheckUpkeep(w http.ResponseWriter, r *http.Request) {
	status, err := h.service.CheckUpkeep(r.Context())
	if err != nil {
		respondServiceError(w, r, "check_upkeep", err)
		return
	}
	respondJSON(w, http.StatusOK, newUpkeepResponse(status))
}

// HandlePerformUpkeep starts a draw when it is due
// @Summary Perform upkeep
// @Tags upkeep
// @Accept json
// @Produce json
// @Param request body PerformUpkeepRequest false "Opaque perform data"
// @Success 202 {object} RequestIDResponse
// @Failure 409 {object} UpkeepNotNeededResponse
// @Router /api/v1/upkeep [post]
func (h *PoolHandler) HandlePerformUpkeep(w http.ResponseWriter, r *http.Request) {
	var req PerformUpkeepRequest
	if r.ContentLength != 0 {
		if err := DecodeAndValidateRequest(r, w, &req, "Perform upkeep"); err != nil {
			return
		}
	}
	var data []byte
	if req.PerformData != "" {
		data, _ = hexutil.Decode(req.PerformData)
	}

	id, err := h.service.PerformUpkeep(r.Context(), data)
	if err != nil {
		respondServiceError(w, r, metrics.OperationPerformUpkeep, err)
		return
	}
	respondJSON(w, http.StatusAccepted, RequestIDResponse{RequestID: uint64(id)})
}

// HandleVRFCallback delivers random words from an external oracle. The
// caller is the address recovered from the delivery signature, so only the
// holder of the coordinator key can settle a draw.
// @Summary Oracle callback
// @Tags vrf
// @Accept json
// @Produce json
// @Param request body VRFCallbackRequest true "Signed random words"
// @Success 200 {object} PoolResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/v1/vrf/callback [post]
func (h *PoolHandler) HandleVRFCallback(w http.ResponseWriter, r *http.Request) {
	var req VRFCallbackRequest
	if err := DecodeAndValidateRequest(r, w, &req, "VRF callback"); err != nil {
		return
	}
	sig, err := hexutil.Decode(req.Signature)
	if err != nil {
		respondError(w, http.StatusBadRequest, ErrMsgInvalidRequest)
		return
	}

	requestID := domain.RequestID(req.RequestID)
	words := parseWords(req.RandomWords)
	log := logger.FromContext(r.Context())

	caller, err := vrf.RecoverDeliverer(requestID, words, sig)
	if err != nil {
		log.Warn("Oracle callback with unusable signature", "request_id", req.RequestID, "error", err)
		respondServiceError(w, r, metrics.OperationFulfill, fmt.Errorf("%w: %w", domain.ErrUnauthorizedCaller, err))
		return
	}
	log.Info("Oracle callback received", "caller", caller.Hex(), "request_id", req.RequestID, "words", len(words))

	if err := h.service.FulfillRandomWords(r.Context(), caller, requestID, words); err != nil {
		respondServiceError(w, r, metrics.OperationFulfill, err)
		return
	}
	h.HandleGetPool(w, r)
}

// HandleListDraws returns recent draws, newest first
// @Summary List draws
// @Tags draws
// @Produce json
// @Param limit query int false "Maximum number of draws"
// @Success 200 {array} DrawResponse
// @Router /api/v1/draws [get]
func (h *PoolHandler) HandleListDraws(w http.ResponseWriter, r *http.Request) {
	limit, err := strconv.Atoi(GetOptionalQueryParam(r, ParamLimit, strconv.Itoa(lotto.DefaultListDrawsLimit)))
	if err != nil || limit <= 0 {
		respondError(w, http.StatusBadRequest, ErrMsgInvalidLimit)
		return
	}
	draws, err := h.service.ListDraws(r.Context(), limit)
	if err != nil {
		respondServiceError(w, r, "list_draws", err)
		return
	}
	resp := make([]DrawResponse, 0, len(draws))
	for i := range draws {
		resp = append(resp, newDrawResponse(&draws[i]))
	}
	respondJSON(w, http.StatusOK, resp)
}

// HandleGetDraw returns one draw
// @Summary Get draw
// @Tags draws
// @Produce json
// @Param requestID path int true "Randomness request id"
// @Success 200 {object} DrawResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/draws/{requestID} [get]
func (h *PoolHandler) HandleGetDraw(w http.ResponseWriter, r *http.Request) {
	id, ok := getRequestIDParam(w, r)
	if !ok {
		return
	}
	d, err := h.service.GetDraw(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, "get_draw", err)
		return
	}
	respondJSON(w, http.StatusOK, newDrawResponse(d))
}

// HandleGetAccount returns the payout balance of an address
// @Summary Get account
// @Tags accounts
// @Produce json
// @Param address path string true "Hex address"
// @Success 200 {object} AccountResponse
// @Router /api/v1/accounts/{address} [get]
func (h *PoolHandler) HandleGetAccount(w http.ResponseWriter, r *http.Request) {
	addr, ok := getAddressParam(w, r)
	if !ok {
		return
	}
	acc, err := h.service.GetAccount(r.Context(), addr)
	if err != nil {
		respondServiceError(w, r, "get_account", err)
		return
	}
	respondJSON(w, http.StatusOK, newAccountResponse(acc))
}
