package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/MikeSquared-Agency/Topsis/internal/dataset"
	"github.com/MikeSquared-Agency/Topsis/internal/topsis"
)

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Error      string `json:"error"`
	Kind       string `json:"kind,omitempty"`
	Column     *int   `json:"column,omitempty"`
	ColumnName string `json:"column_name,omitempty"`
	Row        *int   `json:"row,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

// writeFailure reports engine and ingestion errors as 422 with their kind and
// location; anything else is a 500.
func writeFailure(w http.ResponseWriter, err error) {
	var te *topsis.Error
	var de *dataset.Error
	switch {
	case errors.As(err, &te):
		resp := ErrorResponse{Error: te.Error(), Kind: te.Code(), ColumnName: te.Name}
		if te.Column >= 0 {
			col := te.Column
			resp.Column = &col
		}
		if te.Row >= 0 {
			row := te.Row
			resp.Row = &row
		}
		writeJSON(w, http.StatusUnprocessableEntity, resp)
	case errors.As(err, &de):
		resp := ErrorResponse{Error: de.Error(), Kind: de.Code(), ColumnName: de.Column}
		if de.Row >= 0 {
			row := de.Row
			resp.Row = &row
		}
		writeJSON(w, http.StatusUnprocessableEntity, resp)
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

// failureKind labels an error for metrics and events.
func failureKind(err error) string {
	var te *topsis.Error
	if errors.As(err, &te) {
		return te.Code()
	}
	var de *dataset.Error
	if errors.As(err, &de) {
		return de.Code()
	}
	return "internal"
}
