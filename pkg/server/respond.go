package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/haivivi/kgview/pkg/graph"
	"github.com/haivivi/kgview/pkg/record"
	"github.com/haivivi/kgview/pkg/session"
)

// errBadRequest marks request decoding failures.
var errBadRequest = errors.New("bad request")

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// statusOf maps domain errors to HTTP status codes. Table i/o failures
// and anything unrecognised are 500.
func statusOf(err error) int {
	switch {
	case errors.Is(err, graph.ErrUnknownVertex), errors.Is(err, session.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, graph.ErrDuplicateVertex):
		return http.StatusConflict
	case errors.Is(err, graph.ErrInvalidLabel),
		errors.Is(err, record.ErrMalformedRecord),
		errors.Is(err, session.ErrInvalidID),
		errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusOf(err)
	if status >= http.StatusInternalServerError {
		s.log.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
	}
	writeJSON(w, status, errorBody{Error: err.Error()})
}

// decode reads a JSON body into v. Unknown fields are rejected.
func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}
