package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"github.com/osse101/PrizeKiosk_Go/internal/domain"
	"github.com/osse101/PrizeKiosk_Go/internal/logger"
)

// SuccessResponse represents a simple successful operation message
type SuccessResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// DataResponse represents a response with data payload
type DataResponse struct {
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data"`
}

// encodeBuffers keeps JSON encoding off the heap for the hot /play path
var encodeBuffers = sync.Pool{
	New: func() interface{} {
		return bytes.NewBuffer(make([]byte, 0, 512))
	},
}

// respondJSON sends a JSON response with the given status code and payload
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	buf := encodeBuffers.Get().(*bytes.Buffer)
	defer func() {
		buf.Reset()
		encodeBuffers.Put(buf)
	}()

	if err := json.NewEncoder(buf).Encode(payload); err != nil {
		slog.Error("Failed to encode JSON response", "error", err)
		http.Error(w, ErrMsgGenericServerError, http.StatusInternalServerError)
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

// respondServiceError logs err and writes the user-facing status and message for it
func respondServiceError(w http.ResponseWriter, r *http.Request, opName string, err error) {
	status, msg := mapServiceErrorToUserMessage(err)
	log := logger.FromContext(r.Context())
	if status >= http.StatusInternalServerError {
		log.Error(opName+" failed", "error", err)
	} else {
		log.Warn(opName+" rejected", "error", err)
	}
	respondError(w, status, msg)
}

// User-facing error messages derived from domain errors
const (
	ErrMsgGenericServerError = "Something went wrong"
	ErrMsgUnknownError       = "Unknown error"

	ErrMsgNoCatalogError        = "No reward catalog is loaded"
	ErrMsgInvalidCatalogError   = "The reward catalog is invalid"
	ErrMsgRemoteCatalogError    = "The remote catalog could not be fetched"
	ErrMsgItemNotFoundError     = "Item not found"
	ErrMsgInvalidQuantityError  = "Quantity must be positive"
	ErrMsgOutOfStockError       = "Item is out of stock"
	ErrMsgReservationError      = "Reservation not found or expired"
	ErrMsgReservationUsedError  = "Reservation was already committed"
	ErrMsgStoreUnavailableError = "Stock store is unavailable. Please try again."
	ErrMsgInvalidInputError     = "Invalid request. Please check your inputs."
)

// mapServiceErrorToUserMessage converts engine errors to an HTTP status and a
// message that does not leak internal details
func mapServiceErrorToUserMessage(err error) (int, string) {
	switch {
	case err == nil:
		return http.StatusInternalServerError, ErrMsgUnknownError
	case errors.Is(err, domain.ErrItemNotFound):
		return http.StatusNotFound, ErrMsgItemNotFoundError
	case errors.Is(err, domain.ErrInvalidQuantity):
		return http.StatusBadRequest, ErrMsgInvalidQuantityError
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, ErrMsgInvalidInputError
	case errors.Is(err, domain.ErrOutOfStock):
		return http.StatusConflict, ErrMsgOutOfStockError
	case errors.Is(err, domain.ErrReservationConsumed):
		return http.StatusConflict, ErrMsgReservationUsedError
	case errors.Is(err, domain.ErrReservationUnknown):
		return http.StatusGone, ErrMsgReservationError
	case errors.Is(err, domain.ErrNoCatalog), errors.Is(err, domain.ErrNoCategories):
		return http.StatusServiceUnavailable, ErrMsgNoCatalogError
	case errors.Is(err, domain.ErrInvalidCatalog),
		errors.Is(err, domain.ErrDuplicateItemID),
		errors.Is(err, domain.ErrUnsupportedFormat):
		return http.StatusUnprocessableEntity, ErrMsgInvalidCatalogError
	case errors.Is(err, domain.ErrRemoteCatalog):
		return http.StatusBadGateway, ErrMsgRemoteCatalogError
	case errors.Is(err, domain.ErrStoreUnavailable):
		return http.StatusServiceUnavailable, ErrMsgStoreUnavailableError
	}
	return http.StatusInternalServerError, ErrMsgGenericServerError
}
