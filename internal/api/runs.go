package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/MikeSquared-Agency/Topsis/internal/config"
	"github.com/MikeSquared-Agency/Topsis/internal/events"
	"github.com/MikeSquared-Agency/Topsis/internal/metrics"
	"github.com/MikeSquared-Agency/Topsis/internal/store"
	"github.com/MikeSquared-Agency/Topsis/internal/topsis"
)

// RunRequest carries one weight and one impact per criterion column.
type RunRequest struct {
	Weights []float64 `json:"weights" validate:"required,min=1"`
	Impacts []string  `json:"impacts" validate:"required,min=1,dive,required"`
}

type RunResponse struct {
	Token           string                     `json:"token"`
	NumAlternatives int                        `json:"num_alternatives"`
	BestID          string                     `json:"best_id"`
	BestScore       float64                    `json:"best_score"`
	DurationMs      float64                    `json:"duration_ms"`
	TotalRows       int                        `json:"total_rows"`
	ShowingRows     int                        `json:"showing_rows"`
	Rows            []topsis.RankedAlternative `json:"rows"`
}

type RunsHandler struct {
	store       store.Store
	events      events.Client
	metrics     *metrics.Metrics
	validate    *validator.Validate
	previewRows int
	logger      *slog.Logger
}

func NewRunsHandler(s store.Store, ev events.Client, m *metrics.Metrics, cfg *config.Config, logger *slog.Logger) *RunsHandler {
	return &RunsHandler{
		store:       s,
		events:      ev,
		metrics:     m,
		validate:    newValidator(),
		previewRows: cfg.Server.PreviewRows,
		logger:      logger,
	}
}

// Run handles POST /api/v1/datasets/{token}/runs
func (h *RunsHandler) Run(w http.ResponseWriter, r *http.Request) {
	sess, ok := loadSession(w, r, h.store)
	if !ok {
		return
	}

	var req RunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeInvalidRequest(w, err)
		return
	}

	token := sess.Token.String()
	fail := func(err error) {
		kind := failureKind(err)
		h.metrics.Runs.WithLabelValues(kind).Inc()
		h.logger.Info("run rejected", "token", token, "kind", kind, "error", err)
		publish(h.events, h.logger, events.SubjectRunFailed(token), events.RunFailedEvent{
			Token:     token,
			Kind:      kind,
			Error:     err.Error(),
			Timestamp: time.Now().UTC(),
		})
		writeFailure(w, err)
	}

	start := time.Now()
	res, err := topsis.Compute(sess.Table.Matrix(), req.Weights, impactsOf(req.Impacts))
	elapsed := time.Since(start)
	if err != nil {
		fail(err)
		return
	}
	h.metrics.Runs.WithLabelValues("ok").Inc()
	h.metrics.RunDuration.Observe(elapsed.Seconds())

	run := &store.Run{
		Result:     res,
		DurationMs: float64(elapsed.Microseconds()) / 1000,
		CreatedAt:  time.Now().UTC(),
	}
	if err := h.store.SaveRun(r.Context(), sess.Token, run); err != nil {
		if errors.Is(err, store.ErrSessionNotFound) {
			writeError(w, http.StatusNotFound, sessionNotFoundMsg)
			return
		}
		h.logger.Error("save run failed", "token", token, "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	best := res.Best()
	h.logger.Info("run completed",
		"token", token,
		"alternatives", len(res.Rows),
		"best", best.ID,
		"duration_ms", run.DurationMs,
	)
	publish(h.events, h.logger, events.SubjectRunCompleted(token), events.RunCompletedEvent{
		Token:           token,
		NumAlternatives: len(res.Rows),
		BestID:          best.ID,
		BestScore:       best.Score,
		DurationMs:      run.DurationMs,
		Timestamp:       run.CreatedAt,
	})

	preview := pageOf(res.Rows, 0, h.previewRows)
	writeJSON(w, http.StatusOK, RunResponse{
		Token:           token,
		NumAlternatives: len(res.Rows),
		BestID:          best.ID,
		BestScore:       best.Score,
		DurationMs:      run.DurationMs,
		TotalRows:       len(res.Rows),
		ShowingRows:     len(preview),
		Rows:            preview,
	})
}

// impactsOf normalizes direction tags. Unrecognized tags pass through
// unchanged so Compute reports them after its dimension checks.
func impactsOf(values []string) []topsis.Impact {
	out := make([]topsis.Impact, len(values))
	for i, v := range values {
		imp, err := topsis.ParseImpact(v)
		if err != nil {
			imp = topsis.Impact(v)
		}
		out[i] = imp
	}
	return out
}

// newValidator reports field errors under their JSON names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func writeInvalidRequest(w http.ResponseWriter, err error) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := fe.Namespace()
		if i := strings.IndexByte(field, '.'); i >= 0 {
			field = field[i+1:]
		}
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", field))
		case "min":
			msgs = append(msgs, fmt.Sprintf("%s needs at least %s entries", field, fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s", field, fe.Tag()))
		}
	}
	writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
		Error: strings.Join(msgs, "; "),
		Kind:  "invalid_request",
	})
}
