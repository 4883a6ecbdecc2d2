package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/markdave123-py/Appcraft/internal/apperr"
	"github.com/markdave123-py/Appcraft/internal/logger"
)

type errorBody struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Code    string `json:"code"`
	Field   string `json:"field,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps err onto the API error shape. Internal errors are logged
// and their text is not echoed to the client.
func writeError(w http.ResponseWriter, log *logger.Logger, err error) {
	status := apperr.StatusOf(err)
	body := errorBody{Error: err.Error(), Code: codeFor(status)}

	var ae *apperr.Error
	if errors.As(err, &ae) {
		if ae.Code != "" {
			body.Code = ae.Code
		}
		body.Field = ae.Field
	}
	if status >= http.StatusInternalServerError && status != http.StatusServiceUnavailable {
		log.Error("request failed", "error", err)
		body.Error = "internal server error"
	}
	writeJSON(w, status, body)
}

func codeFor(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "invalid_request"
	case http.StatusUnauthorized:
		return "unauthorized"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusConflict:
		return "conflict"
	case http.StatusServiceUnavailable:
		return "service_unavailable"
	default:
		return "internal"
	}
}

// decodeJSON reads a JSON body into v, reporting malformed input as a 400.
func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperr.Invalid("body", "invalid JSON body")
	}
	return nil
}
