package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrijs2005/urbannest/internal/common"
	"github.com/dmitrijs2005/urbannest/internal/server/auth"
)

const (
	maxJSONBody = 1 << 20

	msgInternal         = "An unexpected error occurred"
	msgNotAuthenticated = "Not authenticated"
)

type errorBody struct {
	Error   string            `json:"error"`
	Details map[string]string `json:"details,omitempty"`
}

// messages are the client-facing texts of one endpoint. Empty fields fall
// back to generic texts.
type messages struct {
	invalid      string
	notFound     string
	unauthorized string
}

func (h *api) respond(w http.ResponseWriter, r *http.Request, status int, v any) {
	writeJSON(w, status, v)
	h.logDone(r, status)
}

// fail maps err to a status and body. Internal detail is logged, never sent.
func (h *api) fail(w http.ResponseWriter, r *http.Request, err error, m messages) {
	status, body := errorResponse(err, m)
	writeJSON(w, status, body)

	if status >= http.StatusInternalServerError {
		h.logDone(r, status, "err", err)
		return
	}
	h.logDone(r, status)
}

func errorResponse(err error, m messages) (int, errorBody) {
	var ve *common.ValidationError
	switch {
	case errors.As(err, &ve):
		if len(ve.Fields) == 0 {
			return http.StatusBadRequest, errorBody{Error: ve.Message}
		}
		return http.StatusBadRequest, errorBody{Error: or(m.invalid, "Invalid request data"), Details: ve.Fields}
	case errors.Is(err, common.ErrDuplicateEmail):
		return http.StatusBadRequest, errorBody{Error: "Email already registered"}
	case errors.Is(err, common.ErrPropertyUnavailable):
		return http.StatusBadRequest, errorBody{Error: "Property not found or not available"}
	case errors.Is(err, common.ErrorUnauthorized):
		return http.StatusUnauthorized, errorBody{Error: or(m.unauthorized, msgNotAuthenticated)}
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound, errorBody{Error: or(m.notFound, "Not found")}
	default:
		return http.StatusInternalServerError, errorBody{Error: msgInternal}
	}
}

// logDone writes the one structured log line of a finished request.
func (h *api) logDone(r *http.Request, status int, args ...any) {
	ctx := r.Context()
	attrs := []any{
		"method", r.Method,
		"path", r.URL.Path,
		"status", status,
		"request_id", middleware.GetReqID(ctx),
	}
	if u := auth.UserFromContext(ctx); u != nil {
		attrs = append(attrs, "user_id", u.ID)
	}
	attrs = append(attrs, args...)

	switch {
	case status >= http.StatusInternalServerError:
		h.log.Error(ctx, "request failed", attrs...)
	case status >= http.StatusBadRequest:
		h.log.Warn(ctx, "request rejected", attrs...)
	default:
		h.log.Info(ctx, "request served", attrs...)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// decodeJSON reads a bounded JSON body into dst. Any decoding problem is
// reported as a validation error on the body.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return common.NewValidationError("body", "is required")
		}
		return common.NewValidationError("body", "must be valid JSON")
	}
	return nil
}

func or(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
