package handler

import (
	"context"
	"math/big"
	"net/http"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/osse101/lotto/internal/domain"
	"github.com/osse101/lotto/internal/metrics"
	"github.com/osse101/lotto/internal/vrf"
)

// ManualFulfiller is the local coordinator surface used for manual deliveries
type ManualFulfiller interface {
	FulfillRandomWords(ctx context.Context, requestID domain.RequestID) (*vrf.Fulfillment, error)
	FulfillRandomWordsWithOverride(ctx context.Context, requestID domain.RequestID, words []*big.Int) (*vrf.Fulfillment, error)
}

// VRFHandler lets an operator trigger or retry delivery on the local coordinator
type VRFHandler struct {
	coordinator ManualFulfiller
}

// NewVRFHandler creates the handler. A nil coordinator disables the endpoint.
func NewVRFHandler(coordinator ManualFulfiller) *VRFHandler {
	return &VRFHandler{coordinator: coordinator}
}

// HandleFulfill delivers random words for {requestID}. Words in the body
// replace the proven ones.
// @Summary Fulfill randomness request
// @Tags vrf
// @Accept json
// @Produce json
// @Param requestID path int true "Randomness request id"
// @Param request body FulfillRequest false "Override words"
// @Success 200 {object} FulfillmentResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/v1/vrf/fulfill/{requestID} [post]
func (h *VRFHandler) HandleFulfill(w http.ResponseWriter, r *http.Request) {
	if h.coordinator == nil {
		respondError(w, http.StatusNotImplemented, ErrMsgFulfillmentDisabled)
		return
	}
	id, ok := getRequestIDParam(w, r)
	if !ok {
		return
	}
	var req FulfillRequest
	if r.ContentLength != 0 {
		if err := DecodeAndValidateRequest(r, w, &req, "Fulfill"); err != nil {
			return
		}
	}

	var (
		f   *vrf.Fulfillment
		err error
	)
	if len(req.RandomWords) > 0 {
		f, err = h.coordinator.FulfillRandomWordsWithOverride(r.Context(), id, parseWords(req.RandomWords))
	} else {
		f, err = h.coordinator.FulfillRandomWords(r.Context(), id)
	}
	if err != nil {
		respondServiceError(w, r, metrics.OperationFulfill, err)
		return
	}
	respondJSON(w, http.StatusOK, newFulfillmentResponse(f))
}

func newFulfillmentResponse(f *vrf.Fulfillment) FulfillmentResponse {
	resp := FulfillmentResponse{
		RequestID: uint64(f.RequestID),
		Payment:   amountString(f.Payment),
	}
	for _, w := range f.Words {
		resp.RandomWords = append(resp.RandomWords, w.String())
	}
	if f.Proof != nil {
		resp.Proof = &ProofResponse{
			Seed:      hexutil.Encode(f.Proof.Seed),
			Signature: hexutil.Encode(f.Proof.Signature),
		}
	}
	return resp
}
