package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/osse101/lotto/internal/domain"
	"github.com/osse101/lotto/internal/logger"
	"github.com/osse101/lotto/internal/metrics"
	"github.com/osse101/lotto/internal/vrf"
)

// SuccessResponse represents a simple successful operation message
type SuccessResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// UpkeepNotNeededResponse carries the values the draw conditions were evaluated on
type UpkeepNotNeededResponse struct {
	Error           string `json:"error"`
	Balance         string `json:"balance"`
	NumParticipants int    `json:"num_participants"`
	State           string `json:"state"`
	ElapsedSeconds  int64  `json:"elapsed_seconds"`
	IntervalSeconds int64  `json:"interval_seconds"`
}

// respondJSON sends a JSON response with the given status code and payload
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	buf := getBuffer()
	defer putBuffer(buf)

	if err := json.NewEncoder(buf).Encode(payload); err != nil {
		slog.Error("Failed to encode JSON response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("Failed to write response buffer", "error", err)
	}
}

// respondError sends a JSON error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Error: message})
}

// respondServiceError logs err, counts the rejection and writes the mapped response
func respondServiceError(w http.ResponseWriter, r *http.Request, operation string, err error) {
	log := logger.FromContext(r.Context())
	metrics.RecordRejection(operation, err)

	var notNeeded *domain.UpkeepNotNeededError
	if errors.As(err, &notNeeded) {
		log.Info("Upkeep not needed", "operation", operation, "error", err)
		respondJSON(w, http.StatusConflict, UpkeepNotNeededResponse{
			Error:           ErrMsgUpkeepNotNeededError,
			Balance:         notNeeded.Balance.String(),
			NumParticipants: notNeeded.NumParticipants,
			State:           string(notNeeded.State),
			ElapsedSeconds:  int64(notNeeded.Elapsed.Seconds()),
			IntervalSeconds: int64(notNeeded.Interval.Seconds()),
		})
		return
	}

	status, msg := mapServiceErrorToUserMessage(err)
	if status >= http.StatusInternalServerError {
		log.Error("Request failed", "operation", operation, "error", err)
	} else {
		log.Warn("Request rejected", "operation", operation, "error", err)
	}
	respondError(w, status, msg)
}

// mapServiceErrorToUserMessage maps domain errors to HTTP status codes and user messages
func mapServiceErrorToUserMessage(err error) (int, string) {
	if err == nil {
		return http.StatusInternalServerError, ErrMsgUnknownError
	}

	switch {
	case errors.Is(err, domain.ErrNotEnoughFunds):
		return http.StatusBadRequest, ErrMsgNotEnoughFundsError
	case errors.Is(err, domain.ErrNotOpen):
		return http.StatusConflict, ErrMsgNotOpenError
	case errors.Is(err, domain.ErrUpkeepNotNeeded):
		return http.StatusConflict, ErrMsgUpkeepNotNeededError
	case errors.Is(err, domain.ErrUnauthorizedCaller):
		return http.StatusForbidden, ErrMsgUnauthorizedCallerErr
	case errors.Is(err, domain.ErrNonexistentRequest):
		return http.StatusNotFound, ErrMsgNonexistentRequestErr
	case errors.Is(err, domain.ErrPayoutTransferFailed):
		return http.StatusConflict, ErrMsgPayoutFailedError
	case errors.Is(err, domain.ErrNoRandomWords):
		return http.StatusBadRequest, ErrMsgNoRandomWordsError
	case errors.Is(err, domain.ErrDrawNotStuck):
		return http.StatusConflict, ErrMsgDrawNotStuckError
	case errors.Is(err, domain.ErrNoParticipants):
		return http.StatusConflict, ErrMsgNoParticipantsError
	case errors.Is(err, domain.ErrShuttingDown):
		return http.StatusServiceUnavailable, ErrMsgShuttingDownError
	case errors.Is(err, domain.ErrPoolNotFound):
		return http.StatusNotFound, ErrMsgPoolNotFoundError
	case errors.Is(err, domain.ErrDrawNotFound):
		return http.StatusNotFound, ErrMsgDrawNotFoundError
	case errors.Is(err, domain.ErrParticipantIndex):
		return http.StatusNotFound, ErrMsgParticipantIndexError
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrInvalidAddress):
		return http.StatusBadRequest, ErrMsgInvalidInputError
	case errors.Is(err, vrf.ErrInsufficientBalance):
		return http.StatusPaymentRequired, ErrMsgSubscriptionError
	case errors.Is(err, vrf.ErrInvalidSubscription),
		errors.Is(err, vrf.ErrInvalidConsumer),
		errors.Is(err, vrf.ErrNumWordsTooBig),
		errors.Is(err, vrf.ErrGasLimitTooBig),
		errors.Is(err, vrf.ErrInvalidConfirmations):
		return http.StatusBadGateway, ErrMsgCoordinatorRejectedErr
	}

	return http.StatusInternalServerError, ErrMsgGenericServerError
}
