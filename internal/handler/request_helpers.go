package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/go-chi/chi/v5"

	"github.com/osse101/lotto/internal/domain"
	"github.com/osse101/lotto/internal/logger"
)

// ValidationErrorResponse defines the response structure for validation errors
type ValidationErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields"`
}

// DecodeAndValidateRequest decodes a JSON request body into req and validates it.
// When it returns an error the response has already been written.
func DecodeAndValidateRequest(r *http.Request, w http.ResponseWriter, req interface{}, actionName string) error {
	log := logger.FromContext(r.Context())

	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		log.Warn(fmt.Sprintf("Failed to decode %s request", actionName), "error", err)
		respondError(w, http.StatusBadRequest, ErrMsgInvalidRequest)
		return err
	}

	log.Debug(fmt.Sprintf("%s request decoded", actionName))

	if err := GetValidator().ValidateStruct(req); err != nil {
		respondJSON(w, http.StatusBadRequest, ValidationErrorResponse{
			Error:  ErrMsgInvalidRequestSummary,
			Fields: FormatValidationError(err),
		})
		return err
	}

	return nil
}

// GetOptionalQueryParam returns the query parameter or defaultValue when absent
func GetOptionalQueryParam(r *http.Request, paramName string, defaultValue string) string {
	value := r.URL.Query().Get(paramName)
	if value == "" {
		return defaultValue
	}
	return value
}

// getRequestIDParam parses the {requestID} path parameter.
// When ok is false the response has already been written.
func getRequestIDParam(w http.ResponseWriter, r *http.Request) (domain.RequestID, bool) {
	id, err := strconv.ParseUint(chi.URLParam(r, ParamRequestID), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, ErrMsgInvalidRequestID)
		return 0, false
	}
	return domain.RequestID(id), true
}

// getAddressParam parses the {address} path parameter
func getAddressParam(w http.ResponseWriter, r *http.Request) (common.Address, bool) {
	addr, err := domain.ParseAddress(chi.URLParam(r, ParamAddress))
	if err != nil {
		respondError(w, http.StatusBadRequest, ErrMsgInvalidAddressParam)
		return common.Address{}, false
	}
	return addr, true
}

// getIndexParam parses the {index} path parameter
func getIndexParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	idx, err := strconv.Atoi(chi.URLParam(r, ParamIndex))
	if err != nil || idx < 0 {
		respondError(w, http.StatusBadRequest, ErrMsgInvalidIndex)
		return 0, false
	}
	return idx, true
}
