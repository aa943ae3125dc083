package api

import (
	"encoding/json"
	"net/http"

	"shareit/internal/failure"
)

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}

// respondError maps err onto its status. Internal errors are logged with their stack and not echoed.
func (s *HTTPServer) respondError(w http.ResponseWriter, r *http.Request, err error) {
	code := failure.GetCode(err)
	if code >= http.StatusInternalServerError {
		s.logger.Error().
			Stack().
			Err(err).
			Str("request_id", requestIDFrom(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("Request failed")
		writeError(w, code, http.StatusText(code))
		return
	}
	writeError(w, code, err.Error())
}
