package http

import (
	"encoding/json"
	"net/http"

	"meetinsight-server/pkg/errors"
	"meetinsight-server/pkg/pipeline"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// analyzeHandler accepts a recording and runs the full analysis pipeline
// synchronously, returning the merged intelligence record.
func (s *Server) analyzeHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, errors.New("method not allowed"))
		return
	}

	var req pipeline.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, errors.NewValidation("invalid request body"))
		return
	}

	if len(req.Words) == 0 && req.Text == "" {
		s.writeError(w, http.StatusBadRequest, errors.NewValidation("either words or text must be provided"))
		return
	}

	record, err := s.processor.Process(r.Context(), req)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.IsErrorType(err, errors.ErrValidation) {
			status = http.StatusBadRequest
		}
		s.writeError(w, status, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(record)
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.logger.WithError(err).Warn("HTTP error response sent")

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorResponse{
		Error: err.Error(),
		Code:  errors.GetErrorCode(err),
	})
}
