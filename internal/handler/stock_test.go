package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/osse101/PrizeKiosk_Go/internal/domain"
	"github.com/osse101/PrizeKiosk_Go/internal/reward"
)

func newStockRouter(svc StockService) http.Handler {
	h := NewStockHandler(svc)
	r := chi.NewRouter()
	r.Get("/stock", h.HandleReport)
	r.Post("/stock/reset-today", h.HandleResetToday)
	r.Post("/stock/emit-low", h.HandleEmitLowStock)
	r.Put("/stock/low-threshold", h.HandleSetThreshold)
	r.Post("/stock/{itemID}/topup", h.HandleTopUp)
	r.Post("/stock/{itemID}/decrement", h.HandleDecrement)
	r.Put("/stock/{itemID}/today", h.HandleSetToday)
	r.Put("/stock/{itemID}/campaign", h.HandleSetCampaign)
	r.Get("/bands", h.HandleBands)
	return r
}

func sampleReport() domain.StockReport {
	return domain.StockReport{
		Date: "2026-03-01",
		Items: []domain.ItemStock{
			{ItemID: "labubu", ItemName: "Labubu", Today: 1, Campaign: 9, Total: 10},
			{ItemID: "lapis", ItemName: "Lápis", Today: 17, Campaign: 33, Total: 50},
		},
		TotalToday: 18,
		TotalAll:   60,
		LowStockAt: 10,
	}
}

func serve(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestStockHandler_Report(t *testing.T) {
	svc := new(MockStockService)
	svc.On("Report").Return(sampleReport())

	w := serve(newStockRouter(svc), http.MethodGet, "/stock", "")

	require.Equal(t, http.StatusOK, w.Code)
	var got domain.StockReport
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, 18, got.TotalToday)
	assert.Len(t, got.Items, 2)
	svc.AssertExpectations(t)
}

func TestStockHandler_Bands(t *testing.T) {
	svc := new(MockStockService)
	svc.On("Bands").Return(reward.BandReport{
		Auto:     true,
		MaxScore: 370,
		Bands:    []reward.CategoryBand{{Index: 0, Name: "Top", Min: 82, Max: 100}},
	})

	w := serve(newStockRouter(svc), http.MethodGet, "/bands", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"max_score":370`)
	assert.Contains(t, w.Body.String(), `"name":"Top"`)
}

func TestStockHandler_TopUp(t *testing.T) {
	t.Run("success returns the item's counters", func(t *testing.T) {
		svc := new(MockStockService)
		svc.On("TopUpToday", mock.Anything, "lapis", 5).Return(nil)
		svc.On("Report").Return(sampleReport())

		w := serve(newStockRouter(svc), http.MethodPost, "/stock/lapis/topup", `{"quantity":5}`)

		require.Equal(t, http.StatusOK, w.Code)
		var got StockMutationResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, MsgStockToppedUp, got.Message)
		assert.Equal(t, "lapis", got.Item.ItemID)
		assert.Equal(t, 17, got.Item.Today)
		svc.AssertExpectations(t)
	})

	t.Run("item id matches case-insensitively in the response", func(t *testing.T) {
		svc := new(MockStockService)
		svc.On("TopUpToday", mock.Anything, "LAPIS", 1).Return(nil)
		svc.On("Report").Return(sampleReport())

		w := serve(newStockRouter(svc), http.MethodPost, "/stock/LAPIS/topup", `{"quantity":1}`)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"item_id":"lapis"`)
	})

	t.Run("zero quantity fails validation", func(t *testing.T) {
		svc := new(MockStockService)

		w := serve(newStockRouter(svc), http.MethodPost, "/stock/lapis/topup", `{"quantity":0}`)

		require.Equal(t, http.StatusBadRequest, w.Code)
		var got ValidationErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, ErrMsgInvalidRequestSummary, got.Error)
		assert.Equal(t, "Must be greater than 0", got.Fields["quantity"])
		svc.AssertNotCalled(t, "TopUpToday", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown fields are rejected", func(t *testing.T) {
		svc := new(MockStockService)

		w := serve(newStockRouter(svc), http.MethodPost, "/stock/lapis/topup", `{"qty":3}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), ErrMsgInvalidRequest)
	})

	t.Run("blank item id", func(t *testing.T) {
		svc := new(MockStockService)

		w := serve(newStockRouter(svc), http.MethodPost, "/stock/%20/topup", `{"quantity":3}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), ErrMsgMissingItemID)
	})

	t.Run("unknown item maps to 404", func(t *testing.T) {
		svc := new(MockStockService)
		svc.On("TopUpToday", mock.Anything, "ghost", 2).
			Return(fmt.Errorf("%w: ghost", domain.ErrItemNotFound))

		w := serve(newStockRouter(svc), http.MethodPost, "/stock/ghost/topup", `{"quantity":2}`)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), ErrMsgItemNotFoundError)
		assert.NotContains(t, w.Body.String(), "ghost", "internal details stay in the log")
	})
}

func TestStockHandler_SetToday(t *testing.T) {
	t.Run("zero is a valid value", func(t *testing.T) {
		svc := new(MockStockService)
		svc.On("SetTodayStock", mock.Anything, "labubu", 0).Return(nil)
		svc.On("Report").Return(sampleReport())

		w := serve(newStockRouter(svc), http.MethodPut, "/stock/labubu/today", `{"value":0}`)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), MsgTodayStockSet)
		svc.AssertExpectations(t)
	})

	t.Run("missing value", func(t *testing.T) {
		svc := new(MockStockService)

		w := serve(newStockRouter(svc), http.MethodPut, "/stock/labubu/today", `{}`)

		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "This field is required")
	})

	t.Run("negative value", func(t *testing.T) {
		svc := new(MockStockService)

		w := serve(newStockRouter(svc), http.MethodPut, "/stock/labubu/today", `{"value":-1}`)

		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Must be at least 0")
	})

	t.Run("store failure", func(t *testing.T) {
		svc := new(MockStockService)
		svc.On("SetTodayStock", mock.Anything, "labubu", 3).Return(domain.ErrStoreUnavailable)

		w := serve(newStockRouter(svc), http.MethodPut, "/stock/labubu/today", `{"value":3}`)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Contains(t, w.Body.String(), ErrMsgStoreUnavailableError)
	})
}

func TestStockHandler_SetCampaign(t *testing.T) {
	svc := new(MockStockService)
	svc.On("SetCampaignStock", mock.Anything, "lapis", 40).Return(nil)
	svc.On("Report").Return(sampleReport())

	w := serve(newStockRouter(svc), http.MethodPut, "/stock/lapis/campaign", `{"value":40}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), MsgCampaignStockSet)
	svc.AssertExpectations(t)
}

func TestStockHandler_Decrement(t *testing.T) {
	t.Run("in stock", func(t *testing.T) {
		svc := new(MockStockService)
		svc.On("DecrementByItemID", mock.Anything, "lapis").Return(true)
		svc.On("Report").Return(sampleReport())

		w := serve(newStockRouter(svc), http.MethodPost, "/stock/lapis/decrement", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), MsgStockDecremented)
	})

	t.Run("out of stock", func(t *testing.T) {
		svc := new(MockStockService)
		svc.On("DecrementByItemID", mock.Anything, "labubu").Return(false)

		w := serve(newStockRouter(svc), http.MethodPost, "/stock/labubu/decrement", "")

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), ErrMsgOutOfStockError)
	})
}

func TestStockHandler_ResetToday(t *testing.T) {
	t.Run("success includes the new report", func(t *testing.T) {
		svc := new(MockStockService)
		svc.On("ForceResetToday", mock.Anything).Return(nil)
		svc.On("Report").Return(sampleReport())

		w := serve(newStockRouter(svc), http.MethodPost, "/stock/reset-today", "")

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), MsgTodayStockReset)
		assert.Contains(t, w.Body.String(), `"total_today":18`)
	})

	t.Run("no catalog", func(t *testing.T) {
		svc := new(MockStockService)
		svc.On("ForceResetToday", mock.Anything).Return(domain.ErrNoCatalog)

		w := serve(newStockRouter(svc), http.MethodPost, "/stock/reset-today", "")

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Contains(t, w.Body.String(), ErrMsgNoCatalogError)
	})
}

func TestStockHandler_EmitLowStock(t *testing.T) {
	svc := new(MockStockService)
	svc.On("EmitCurrentLowStock", mock.Anything).Return()

	w := serve(newStockRouter(svc), http.MethodPost, "/stock/emit-low", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), MsgLowStockEmitted)
	svc.AssertExpectations(t)
}

func TestStockHandler_SetThreshold(t *testing.T) {
	svc := new(MockStockService)
	svc.On("SetLowStockThreshold", mock.Anything, 25).Return()
	svc.On("Report").Return(sampleReport())

	w := serve(newStockRouter(svc), http.MethodPut, "/stock/low-threshold", `{"threshold":25}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), MsgThresholdSet)
	svc.AssertExpectations(t)
}
