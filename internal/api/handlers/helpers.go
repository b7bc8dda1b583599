package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hoanghai1803/adcraft/internal/apperr"
)

// maxBodyBytes bounds every JSON request body.
const maxBodyBytes = 1 << 20

// writeJSON encodes v as JSON and writes it to the response with the given
// HTTP status code. Content-Type is always set to application/json.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// At this point headers are already sent; log but cannot change status.
		slog.Error("failed to encode response", "error", err)
	}
}

// writeError writes a JSON error response with the given HTTP status code.
// The response body is {"error": "message", "kind": "kind"}.
func writeError(w http.ResponseWriter, status int, kind apperr.Kind, message string) {
	writeJSON(w, status, map[string]string{"error": message, "kind": string(kind)})
}

// writeAppError maps err to its status code and user-facing message.
// Untagged errors are logged and reported as internal.
func writeAppError(w http.ResponseWriter, err error) {
	kind := apperr.KindOf(err)
	if kind == apperr.KindInternal {
		slog.Error("request failed", "error", err)
	}
	writeError(w, apperr.HTTPStatus(kind), kind, apperr.Message(err))
}

// decodeJSON reads a JSON body of at most maxBodyBytes into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return apperr.Validation("Request body is too large")
		}
		return apperr.Validation("Invalid JSON body")
	}
	return nil
}

// urlParam extracts a non-empty chi URL parameter.
func urlParam(r *http.Request, param string) (string, error) {
	raw := chi.URLParam(r, param)
	if raw == "" {
		return "", apperr.Validation(fmt.Sprintf("missing URL parameter %q", param))
	}
	return raw, nil
}
