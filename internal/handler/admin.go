package handler

import (
	"net/http"

	"github.com/osse101/lotto/internal/logger"
	"github.com/osse101/lotto/internal/lotto"
	"github.com/osse101/lotto/internal/metrics"
)

// AdminHandler serves operator endpoints
type AdminHandler struct {
	service lotto.Service
}

// NewAdminHandler creates an admin handler for service
func NewAdminHandler(service lotto.Service) *AdminHandler {
	return &AdminHandler{service: service}
}

// DrawResetResponse reports the abandoned draw
type DrawResetResponse struct {
	Message string       `json:"message"`
	Draw    DrawResponse `json:"draw"`
}

// HandleResetDraw abandons a draw pending longer than the draw timeout
// @Summary Reset stuck draw
// @Tags admin
// @Produce json
// @Success 200 {object} DrawResetResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/v1/admin/draw/reset [post]
func (h *AdminHandler) HandleResetDraw(w http.ResponseWriter, r *http.Request) {
	d, err := h.service.ResetStuckDraw(r.Context())
	if err != nil {
		respondServiceError(w, r, metrics.OperationResetDraw, err)
		return
	}
	logger.FromContext(r.Context()).Warn("Stuck draw reset by operator", "request_id", d.RequestID)
	respondJSON(w, http.StatusOK, DrawResetResponse{Message: MsgDrawReset, Draw: newDrawResponse(d)})
}

// HandleSetPaymentPolicy marks an address as refusing or accepting payouts
// @Summary Set payment policy
// @Tags admin
// @Accept json
// @Produce json
// @Param address path string true "Hex address"
// @Param request body PaymentPolicyRequest true "Policy"
// @Success 200 {object} AccountResponse
// @Router /api/v1/admin/accounts/{address}/policy [post]
func (h *AdminHandler) HandleSetPaymentPolicy(w http.ResponseWriter, r *http.Request) {
	addr, ok := getAddressParam(w, r)
	if !ok {
		return
	}
	var req PaymentPolicyRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Set payment policy"); err != nil {
		return
	}
	if err := h.service.SetPaymentPolicy(r.Context(), addr, *req.RejectsPayments); err != nil {
		respondServiceError(w, r, "set_payment_policy", err)
		return
	}
	acc, err := h.service.GetAccount(r.Context(), addr)
	if err != nil {
		respondServiceError(w, r, "get_account", err)
		return
	}
	respondJSON(w, http.StatusOK, newAccountResponse(acc))
}
