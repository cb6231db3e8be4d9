package httpapi

import (
	"encoding/json"
	"net/http"

	"hallod/pkg/types"
)

// HTTPError is implemented by errors that carry their own response status.
// Worker errors are classified by predicate instead; this is the escape
// hatch for everything else.
type HTTPError interface {
	error
	StatusCode() int
}

// writeJSONError emits the error envelope shared by every failure response.
func writeJSONError(w http.ResponseWriter, status int, msg string) {
	resp := types.ErrorResponse{Error: msg, Code: status}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}
