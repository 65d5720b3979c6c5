package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/osse101/PrizeKiosk_Go/internal/logger"
)

// MaxItemIDLength bounds the {itemID} route parameter
const MaxItemIDLength = 64

// ValidationErrorResponse defines the response structure for validation errors
type ValidationErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields"`
}

// DecodeAndValidateRequest decodes a JSON request body into req and validates it.
// If it returns an error the response has already been written and the
// handler should return.
//
//	var req TopUpRequest
//	if err := DecodeAndValidateRequest(r, w, &req, OpTopUp); err != nil {
//	    return
//	}
func DecodeAndValidateRequest(r *http.Request, w http.ResponseWriter, req interface{}, actionName string) error {
	log := logger.FromContext(r.Context())

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(req); err != nil {
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

// ItemIDParam reads and validates the {itemID} route parameter.
// If ok is false the response has already been written.
func ItemIDParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := chi.URLParam(r, "itemID")
	if err := GetValidator().ValidateVar(id, "itemid"); err != nil {
		logger.FromContext(r.Context()).Warn("Invalid item id route parameter", "item_id", id)
		respondError(w, http.StatusBadRequest, ErrMsgMissingItemID)
		return "", false
	}
	return id, true
}
