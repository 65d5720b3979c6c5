package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/osse101/PrizeKiosk_Go/internal/domain"
	"github.com/osse101/PrizeKiosk_Go/internal/logger"
	"github.com/osse101/PrizeKiosk_Go/internal/reward"
)

// StockService is the administrative surface of the reward engine
type StockService interface {
	Report() domain.StockReport
	Bands() reward.BandReport
	TopUpToday(ctx context.Context, id string, qty int) error
	SetTodayStock(ctx context.Context, id string, value int) error
	SetCampaignStock(ctx context.Context, id string, value int) error
	ForceResetToday(ctx context.Context) error
	EmitCurrentLowStock(ctx context.Context)
	SetLowStockThreshold(ctx context.Context, threshold int)
	DecrementByItemID(ctx context.Context, id string) bool
}

// TopUpRequest moves units from the campaign pool into today's pool
type TopUpRequest struct {
	Quantity int `json:"quantity" validate:"gt=0,lte=100000"`
}

// SetStockRequest sets a counter to an absolute value
type SetStockRequest struct {
	Value *int `json:"value" validate:"required,gte=0,lte=100000"`
}

// ThresholdRequest changes the low-stock threshold
type ThresholdRequest struct {
	Threshold *int `json:"threshold" validate:"required,gte=0,lte=100000"`
}

// StockMutationResponse reports an item's counters after a change
type StockMutationResponse struct {
	Message string           `json:"message"`
	Item    domain.ItemStock `json:"item"`
}

// StockHandler serves the operator endpoints under /stock and /bands
type StockHandler struct {
	svc StockService
}

// NewStockHandler creates a new StockHandler
func NewStockHandler(svc StockService) *StockHandler {
	return &StockHandler{svc: svc}
}

// HandleReport returns per-item counters, totals and the low-stock state
// GET /api/v1/stock
func (h *StockHandler) HandleReport(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.svc.Report())
}

// HandleBands returns the effective category bands
// GET /api/v1/bands
func (h *StockHandler) HandleBands(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.svc.Bands())
}

// HandleTopUp moves quantity units of an item from campaign to today
// POST /api/v1/stock/{itemID}/topup
func (h *StockHandler) HandleTopUp(w http.ResponseWriter, r *http.Request) {
	itemID, ok := ItemIDParam(w, r)
	if !ok {
		return
	}
	var req TopUpRequest
	if err := DecodeAndValidateRequest(r, w, &req, OpTopUp); err != nil {
		return
	}

	if err := h.svc.TopUpToday(r.Context(), itemID, req.Quantity); err != nil {
		respondServiceError(w, r, OpTopUp, err)
		return
	}
	logger.FromContext(r.Context()).Info(OpTopUp, "item_id", itemID, "quantity", req.Quantity)
	h.respondItem(w, itemID, MsgStockToppedUp)
}

// HandleSetToday sets today's stock, drawing any increase from the campaign pool
// PUT /api/v1/stock/{itemID}/today
func (h *StockHandler) HandleSetToday(w http.ResponseWriter, r *http.Request) {
	itemID, ok := ItemIDParam(w, r)
	if !ok {
		return
	}
	var req SetStockRequest
	if err := DecodeAndValidateRequest(r, w, &req, OpSetToday); err != nil {
		return
	}

	if err := h.svc.SetTodayStock(r.Context(), itemID, *req.Value); err != nil {
		respondServiceError(w, r, OpSetToday, err)
		return
	}
	logger.FromContext(r.Context()).Info(OpSetToday, "item_id", itemID, "value", *req.Value)
	h.respondItem(w, itemID, MsgTodayStockSet)
}

// HandleSetCampaign overwrites an item's campaign counter
// PUT /api/v1/stock/{itemID}/campaign
func (h *StockHandler) HandleSetCampaign(w http.ResponseWriter, r *http.Request) {
	itemID, ok := ItemIDParam(w, r)
	if !ok {
		return
	}
	var req SetStockRequest
	if err := DecodeAndValidateRequest(r, w, &req, OpSetCampaign); err != nil {
		return
	}

	if err := h.svc.SetCampaignStock(r.Context(), itemID, *req.Value); err != nil {
		respondServiceError(w, r, OpSetCampaign, err)
		return
	}
	logger.FromContext(r.Context()).Info(OpSetCampaign, "item_id", itemID, "value", *req.Value)
	h.respondItem(w, itemID, MsgCampaignStockSet)
}

// HandleDecrement hands out one unit of an item without a reservation
// POST /api/v1/stock/{itemID}/decrement
func (h *StockHandler) HandleDecrement(w http.ResponseWriter, r *http.Request) {
	itemID, ok := ItemIDParam(w, r)
	if !ok {
		return
	}
	if !h.svc.DecrementByItemID(r.Context(), itemID) {
		respondError(w, http.StatusConflict, ErrMsgOutOfStockError)
		return
	}
	h.respondItem(w, itemID, MsgStockDecremented)
}

// HandleResetToday rebuilds today's pool from the catalog defaults
// POST /api/v1/stock/reset-today
func (h *StockHandler) HandleResetToday(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.ForceResetToday(r.Context()); err != nil {
		respondServiceError(w, r, OpResetToday, err)
		return
	}
	logger.FromContext(r.Context()).Info(OpResetToday)
	respondJSON(w, http.StatusOK, DataResponse{Message: MsgTodayStockReset, Data: h.svc.Report()})
}

// HandleEmitLowStock republishes the current low-stock state
// POST /api/v1/stock/emit-low
func (h *StockHandler) HandleEmitLowStock(w http.ResponseWriter, r *http.Request) {
	h.svc.EmitCurrentLowStock(r.Context())
	respondJSON(w, http.StatusOK, SuccessResponse{Message: MsgLowStockEmitted})
}

// HandleSetThreshold changes the low-stock threshold
// PUT /api/v1/stock/low-threshold
func (h *StockHandler) HandleSetThreshold(w http.ResponseWriter, r *http.Request) {
	var req ThresholdRequest
	if err := DecodeAndValidateRequest(r, w, &req, OpSetThreshold); err != nil {
		return
	}
	h.svc.SetLowStockThreshold(r.Context(), *req.Threshold)
	respondJSON(w, http.StatusOK, DataResponse{Message: MsgThresholdSet, Data: h.svc.Report()})
}

func (h *StockHandler) respondItem(w http.ResponseWriter, itemID, msg string) {
	resp := StockMutationResponse{Message: msg}
	for _, it := range h.svc.Report().Items {
		if strings.EqualFold(it.ItemID, itemID) {
			resp.Item = it
			break
		}
	}
	respondJSON(w, http.StatusOK, resp)
}
