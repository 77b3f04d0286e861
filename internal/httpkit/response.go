package httpkit

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse is the wire shape of every error the service returns.
// Details is a list of field violations for validation failures and a plain
// string everywhere else.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

func DecodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func WriteJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func WriteErr(w http.ResponseWriter, status int, msg string, details any) {
	WriteJSON(w, status, ErrorResponse{Error: msg, Details: details})
}
