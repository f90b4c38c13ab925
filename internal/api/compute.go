package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/MikeSquared-Agency/Topsis/internal/metrics"
	"github.com/MikeSquared-Agency/Topsis/internal/topsis"
)

// ComputeRequest is a self-contained decision matrix ranked without a session.
type ComputeRequest struct {
	Criteria     []string             `json:"criteria"`
	Alternatives []topsis.Alternative `json:"alternatives" validate:"required,min=1"`
	Weights      []float64            `json:"weights" validate:"required,min=1"`
	Impacts      []string             `json:"impacts" validate:"required,min=1,dive,required"`
}

type ComputeHandler struct {
	metrics  *metrics.Metrics
	validate *validator.Validate
}

func NewComputeHandler(m *metrics.Metrics) *ComputeHandler {
	return &ComputeHandler{metrics: m, validate: newValidator()}
}

// Compute handles POST /api/v1/topsis
func (h *ComputeHandler) Compute(w http.ResponseWriter, r *http.Request) {
	var req ComputeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeInvalidRequest(w, err)
		return
	}

	start := time.Now()
	res, err := topsis.Compute(topsis.DecisionMatrix{
		Criteria:     req.Criteria,
		Alternatives: req.Alternatives,
	}, req.Weights, impactsOf(req.Impacts))
	if err != nil {
		h.metrics.Runs.WithLabelValues(failureKind(err)).Inc()
		writeFailure(w, err)
		return
	}
	h.metrics.Runs.WithLabelValues("ok").Inc()
	h.metrics.RunDuration.Observe(time.Since(start).Seconds())

	writeJSON(w, http.StatusOK, res)
}
