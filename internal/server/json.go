package server

import (
	"encoding/json"
	"net/http"
)

type errJSONWrapper struct {
	Error string `json:"error"`
}

// respondJSON writes v as the JSON response body with the given
// status code. An encoding failure cannot be reported to the client
// anymore once the header is written, so it is ignored.
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func httpError(w http.ResponseWriter, status int, errString string) {
	if errString == "" {
		errString = http.StatusText(status)
	}
	respondJSON(w, status, errJSONWrapper{Error: errString})
}
