package handler

import (
	"context"
	"net/http"

	"github.com/osse101/PrizeKiosk_Go/internal/outcome"
	"github.com/osse101/PrizeKiosk_Go/internal/reward"
)

// Evaluator previews scores against the bands without consuming stock
type Evaluator interface {
	Evaluate(ctx context.Context, score int) reward.Result
	Release(ctx context.Context, token string) bool
}

// PlayResolver turns a finished play into a committed outcome
type PlayResolver interface {
	Resolve(ctx context.Context, play outcome.Play) (outcome.Payload, error)
}

// EvaluateRequest is a score to preview
type EvaluateRequest struct {
	Score *int `json:"score" validate:"required,gte=0,lte=1000000"`
}

// PlayRequest is a finished game reported by the kiosk
type PlayRequest struct {
	Score        *int `json:"score" validate:"required,gte=-1000000,lte=1000000"`
	Win          bool `json:"win"`
	PerfectClear bool `json:"perfectClear"`
}

// EvaluateResponse is a preview. The reservation has already been released.
type EvaluateResponse struct {
	Message string        `json:"message"`
	Result  reward.Result `json:"result"`
	Prize   bool          `json:"prize"`
}

// PlayHandler serves /evaluate and /play
type PlayHandler struct {
	evaluator Evaluator
	resolver  PlayResolver
}

// NewPlayHandler creates a new PlayHandler
func NewPlayHandler(evaluator Evaluator, resolver PlayResolver) *PlayHandler {
	return &PlayHandler{evaluator: evaluator, resolver: resolver}
}

// HandleEvaluate previews which item a score would draw
// POST /api/v1/evaluate
func (h *PlayHandler) HandleEvaluate(w http.ResponseWriter, r *http.Request) {
	var req EvaluateRequest
	if err := DecodeAndValidateRequest(r, w, &req, OpEvaluate); err != nil {
		return
	}

	res := h.evaluator.Evaluate(r.Context(), *req.Score)
	if !res.Empty() {
		h.evaluator.Release(r.Context(), res.Token)
		res.Token = ""
	}

	respondJSON(w, http.StatusOK, EvaluateResponse{
		Message: MsgEvaluationReleased,
		Result:  res,
		Prize:   !res.Empty(),
	})
}

// HandlePlay applies the outcome policy to a finished game and commits the prize
// POST /api/v1/play
func (h *PlayHandler) HandlePlay(w http.ResponseWriter, r *http.Request) {
	var req PlayRequest
	if err := DecodeAndValidateRequest(r, w, &req, OpPlay); err != nil {
		return
	}

	payload, err := h.resolver.Resolve(r.Context(), outcome.Play{
		Score:        *req.Score,
		Win:          req.Win,
		PerfectClear: req.PerfectClear,
	})
	if err != nil {
		respondServiceError(w, r, OpPlay, err)
		return
	}

	respondJSON(w, http.StatusOK, payload)
}
