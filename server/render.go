package server

import (
	"errors"
	"net/http"

	"github.com/goccy/go-json"
	"github.com/mboyd/playlog/data"
)

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// The response writer is past the point of reporting failures to the
	// client; an encode error here means a broken connection.
	_ = json.NewEncoder(w).Encode(body)
}

// writeError renders any failure as a structured error object. Anything that
// is not a *data.Error is treated as a storage fault: internals stay out of
// the response body.
func writeError(w http.ResponseWriter, err error) {
	var derr *data.Error
	if !errors.As(err, &derr) {
		derr = data.Storage(err)
	}

	status := http.StatusInternalServerError
	switch derr.Code {
	case data.ErrCodeMissingParameter, data.ErrCodeInvalidQuery, data.ErrCodeValidation:
		status = http.StatusBadRequest
	case data.ErrCodeNotFound:
		status = http.StatusNotFound
	}

	writeJSON(w, status, errorBody{Error: errorDetail{
		Kind:    string(derr.Code),
		Message: derr.Message,
		Field:   derr.Field,
	}})
}
