package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"portfolio-cms/internal/middleware"
	"portfolio-cms/internal/service"
)

// maxJSONBody caps request bodies of the JSON API.
const maxJSONBody = 1 << 20

// writeJSON encodes v with the given status code.
func writeJSON(w http.ResponseWriter, code int, v interface{}) *middleware.AppError {
	body, err := json.Marshal(v)
	if err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to encode response", Code: http.StatusInternalServerError}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(append(body, '\n'))
	return nil
}

// decodeJSON reads a single JSON value from the request body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) *middleware.AppError {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return badRequest(err, "Request body is required")
		}
		return badRequest(err, "Invalid JSON body")
	}
	return nil
}

func badRequest(err error, message string) *middleware.AppError {
	return &middleware.AppError{Error: err, Message: message, Code: http.StatusBadRequest}
}

// serviceError maps service failures onto HTTP status codes. Messages of
// service.Error values are safe to show; anything else becomes a 500 with
// the given fallback message.
func serviceError(err error, fallback string) *middleware.AppError {
	var svcErr *service.Error
	if errors.As(err, &svcErr) {
		code := http.StatusInternalServerError
		switch {
		case errors.Is(err, service.ErrValidation):
			code = http.StatusBadRequest
		case errors.Is(err, service.ErrNotFound):
			code = http.StatusNotFound
		case errors.Is(err, service.ErrConflict):
			code = http.StatusConflict
		}
		return &middleware.AppError{Error: err, Message: svcErr.Message, Code: code}
	}
	return &middleware.AppError{Error: err, Message: fallback, Code: http.StatusInternalServerError}
}

// queryTime parses an optional RFC 3339 or YYYY-MM-DD query parameter. A
// date-only upper bound is extended to the end of that day.
func queryTime(r *http.Request, name string, endOfDay bool) (time.Time, *middleware.AppError) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return time.Time{}, badRequest(err, fmt.Sprintf("Invalid %s date", name))
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Second)
	}
	return t, nil
}

// queryBool parses an optional boolean filter.
func queryBool(r *http.Request, name string) *bool {
	switch r.URL.Query().Get(name) {
	case "true", "1":
		v := true
		return &v
	case "false", "0":
		v := false
		return &v
	}
	return nil
}
