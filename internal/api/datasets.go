package api

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/Topsis/internal/config"
	"github.com/MikeSquared-Agency/Topsis/internal/dataset"
	"github.com/MikeSquared-Agency/Topsis/internal/events"
	"github.com/MikeSquared-Agency/Topsis/internal/metrics"
	"github.com/MikeSquared-Agency/Topsis/internal/store"
	"github.com/MikeSquared-Agency/Topsis/internal/topsis"
)

const maxPageRows = 1000

type DatasetsHandler struct {
	store          store.Store
	events         events.Client
	metrics        *metrics.Metrics
	maxUploadBytes int64
	previewRows    int
	precision      int
	logger         *slog.Logger
}

func NewDatasetsHandler(s store.Store, ev events.Client, m *metrics.Metrics, cfg *config.Config, logger *slog.Logger) *DatasetsHandler {
	return &DatasetsHandler{
		store:          s,
		events:         ev,
		metrics:        m,
		maxUploadBytes: cfg.Server.MaxUploadBytes,
		previewRows:    cfg.Server.PreviewRows,
		precision:      cfg.Export.ScorePrecision,
		logger:         logger,
	}
}

type DatasetResponse struct {
	Token           string              `json:"token"`
	Filename        string              `json:"filename"`
	IDColumn        string              `json:"id_column"`
	Criteria        []dataset.Criterion `json:"criteria"`
	NumAlternatives int                 `json:"num_alternatives"`
	HasResult       bool                `json:"has_result"`
	ExpiresAt       time.Time           `json:"expires_at"`
}

func datasetResponse(s *store.Session) DatasetResponse {
	return DatasetResponse{
		Token:           s.Token.String(),
		Filename:        s.Filename,
		IDColumn:        s.Table.IDColumn(),
		Criteria:        s.Table.Criteria(),
		NumAlternatives: s.Table.NumAlternatives(),
		HasResult:       s.Run != nil,
		ExpiresAt:       s.ExpiresAt,
	}
}

// Upload handles POST /api/v1/datasets (multipart field "dataset").
func (h *DatasetsHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if r.ContentLength > h.maxUploadBytes {
		h.rejectTooLarge(w)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.rejectTooLarge(w)
			return
		}
		writeError(w, http.StatusBadRequest, "invalid multipart body")
		return
	}
	file, header, err := r.FormFile("dataset")
	if err != nil {
		writeError(w, http.StatusBadRequest, "dataset file required")
		return
	}
	defer file.Close()

	tbl, err := dataset.Parse(header.Filename, file)
	if err != nil {
		h.metrics.Uploads.WithLabelValues(failureKind(err)).Inc()
		writeFailure(w, err)
		return
	}

	sess := &store.Session{Filename: header.Filename, Table: tbl}
	if err := h.store.CreateSession(r.Context(), sess); err != nil {
		h.logger.Error("create session failed", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	h.metrics.Uploads.WithLabelValues("ok").Inc()
	h.logger.Info("dataset uploaded",
		"token", sess.Token,
		"filename", header.Filename,
		"alternatives", tbl.NumAlternatives(),
		"criteria", len(tbl.Criteria()),
	)

	publish(h.events, h.logger, events.SubjectDatasetUploaded(sess.Token.String()), events.DatasetUploadedEvent{
		Token:           sess.Token.String(),
		Filename:        header.Filename,
		NumAlternatives: tbl.NumAlternatives(),
		NumCriteria:     len(tbl.Criteria()),
		Timestamp:       time.Now().UTC(),
	})

	writeJSON(w, http.StatusCreated, datasetResponse(sess))
}

// Get handles GET /api/v1/datasets/{token}
func (h *DatasetsHandler) Get(w http.ResponseWriter, r *http.Request) {
	sess, ok := loadSession(w, r, h.store)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, datasetResponse(sess))
}

// Delete handles DELETE /api/v1/datasets/{token}
func (h *DatasetsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	token, err := uuid.Parse(chi.URLParam(r, "token"))
	if err != nil {
		writeError(w, http.StatusNotFound, sessionNotFoundMsg)
		return
	}
	if err := h.store.DeleteSession(r.Context(), token); err != nil {
		if errors.Is(err, store.ErrSessionNotFound) {
			writeError(w, http.StatusNotFound, sessionNotFoundMsg)
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	publish(h.events, h.logger, events.SubjectDatasetDeleted(token.String()), map[string]string{"token": token.String()})
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

type ResultPage struct {
	Token     string                     `json:"token"`
	IDColumn  string                     `json:"id_column"`
	Criteria  []string                   `json:"criteria"`
	TotalRows int                        `json:"total_rows"`
	Offset    int                        `json:"offset"`
	Limit     int                        `json:"limit"`
	Rows      []topsis.RankedAlternative `json:"rows"`
}

// Result handles GET /api/v1/datasets/{token}/result?limit=&offset=
func (h *DatasetsHandler) Result(w http.ResponseWriter, r *http.Request) {
	sess, run, ok := loadRun(w, r, h.store)
	if !ok {
		return
	}

	limit := h.previewRows
	if s := r.URL.Query().Get("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			limit = n
		}
	}
	if limit > maxPageRows {
		limit = maxPageRows
	}
	offset := 0
	if s := r.URL.Query().Get("offset"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n >= 0 {
			offset = n
		}
	}

	rows := run.Result.Rows
	page := ResultPage{
		Token:     sess.Token.String(),
		IDColumn:  sess.Table.IDColumn(),
		Criteria:  run.Result.Criteria,
		TotalRows: len(rows),
		Offset:    offset,
		Limit:     limit,
		Rows:      pageOf(rows, offset, limit),
	}
	writeJSON(w, http.StatusOK, page)
}

type ExplainRow struct {
	ID              string  `json:"id"`
	Rank            int     `json:"rank"`
	Score           float64 `json:"score"`
	SeparationBest  float64 `json:"separation_best"`
	SeparationWorst float64 `json:"separation_worst"`
	Dominated       bool    `json:"dominated"`
}

type ExplainResponse struct {
	Token      string          `json:"token"`
	Criteria   []string        `json:"criteria"`
	Impacts    []topsis.Impact `json:"impacts"`
	Weights    []float64       `json:"weights"`
	IdealBest  []float64       `json:"ideal_best"`
	IdealWorst []float64       `json:"ideal_worst"`
	Rows       []ExplainRow    `json:"rows"`
}

// Explain handles GET /api/v1/datasets/{token}/explain
func (h *DatasetsHandler) Explain(w http.ResponseWriter, r *http.Request) {
	sess, run, ok := loadRun(w, r, h.store)
	if !ok {
		return
	}
	res := run.Result
	resp := ExplainResponse{
		Token:      sess.Token.String(),
		Criteria:   res.Criteria,
		Impacts:    res.Impacts,
		Weights:    res.Weights,
		IdealBest:  res.IdealBest,
		IdealWorst: res.IdealWorst,
		Rows:       make([]ExplainRow, len(res.Rows)),
	}
	front := make(map[int]bool)
	for _, i := range topsis.ParetoFront(sess.Table.Matrix(), res.Impacts) {
		front[i] = true
	}
	for i, row := range res.Rows {
		resp.Rows[i] = ExplainRow{
			ID:              row.ID,
			Rank:            row.Rank,
			Score:           row.Score,
			SeparationBest:  row.SeparationBest,
			SeparationWorst: row.SeparationWorst,
			Dominated:       !front[row.Index],
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// Download handles GET /api/v1/datasets/{token}/download
func (h *DatasetsHandler) Download(w http.ResponseWriter, r *http.Request) {
	sess, run, ok := loadRun(w, r, h.store)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := dataset.WriteCSV(&buf, sess.Table, run.Result, h.precision); err != nil {
		h.logger.Error("render export failed", "token", sess.Token, "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename=topsis_result.csv")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func pageOf(rows []topsis.RankedAlternative, offset, limit int) []topsis.RankedAlternative {
	if offset >= len(rows) {
		return []topsis.RankedAlternative{}
	}
	end := offset + limit
	if end > len(rows) {
		end = len(rows)
	}
	return rows[offset:end]
}

func (h *DatasetsHandler) rejectTooLarge(w http.ResponseWriter) {
	h.metrics.Uploads.WithLabelValues("too_large").Inc()
	writeError(w, http.StatusRequestEntityTooLarge, "dataset exceeds upload limit")
}
