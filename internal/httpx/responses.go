package httpx

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"sync/atomic"

	"bookreview/internal/apperr"
)

// Envelope is the body of every API response.
type Envelope struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Data    any                 `json:"data,omitempty"`
	Errors  []apperr.FieldError `json:"errors,omitempty"`
	Error   string              `json:"error,omitempty"`
}

var exposeInternal atomic.Bool

// ExposeInternalErrors toggles the "error" detail on 500 responses. Only
// development deployments turn it on.
func ExposeInternalErrors(on bool) {
	exposeInternal.Store(on)
}

func writeJSON(w http.ResponseWriter, status int, body Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// JSON writes a success envelope.
func JSON(w http.ResponseWriter, status int, message string, data any) {
	writeJSON(w, status, Envelope{Success: true, Message: message, Data: data})
}

// Fail writes an error envelope without field details.
func Fail(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, Envelope{Success: false, Message: message})
}

// StatusFor maps an error code onto its HTTP status.
func StatusFor(code apperr.Code) int {
	switch code {
	case apperr.CodeValidation, apperr.CodeConflict:
		return http.StatusBadRequest
	case apperr.CodeUnauthorized:
		return http.StatusUnauthorized
	case apperr.CodeForbidden:
		return http.StatusForbidden
	case apperr.CodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// WriteError translates err into an error envelope. Errors without an
// apperr classification are treated as internal.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	e, ok := apperr.As(err)
	if !ok {
		e = apperr.Internal("Internal server error", err)
	}
	status := StatusFor(e.Code)

	body := Envelope{Success: false, Message: e.Message, Errors: e.Fields}
	if status == http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "request failed",
			slog.String("request_id", RequestIDFrom(r)),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
		if exposeInternal.Load() && e.Cause != nil {
			body.Error = e.Cause.Error()
		}
	} else {
		slog.DebugContext(r.Context(), "request rejected",
			slog.String("request_id", RequestIDFrom(r)),
			slog.String("code", string(e.Code)),
			slog.String("error", err.Error()),
		)
	}
	writeJSON(w, status, body)
}

// DecodeJSON reads a JSON request body into dst.
func DecodeJSON(r *http.Request, dst any) error {
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil {
		return nil
	}
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return apperr.Validation("Request body too large")
	case errors.Is(err, io.EOF):
		return apperr.Validation("Request body is required")
	default:
		return apperr.Validation("Invalid request body")
	}
}
