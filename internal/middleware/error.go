package middleware

import (
	"fmt"
	"io"
	"net/http"

	"portfolio-cms/internal/logger"
)

// AppError represents a custom error type for the application.
type AppError struct {
	Error   error
	Message string
	Code    int
}

// AppHandler is a custom handler function type that returns an AppError.
type AppHandler func(http.ResponseWriter, *http.Request) *AppError

// Renderer renders a named HTML template.
type Renderer interface {
	Render(w io.Writer, r *http.Request, name string, data map[string]interface{}) error
}

// Error is a middleware that converts handler errors into user-friendly error pages.
func Error(log logger.Logger, view Renderer) func(AppHandler) http.Handler {
	return func(next AppHandler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					log.Error(panicError(rec), "Panic recovered")
					renderError(w, r, log, view, http.StatusInternalServerError, "Internal Server Error")
				}
			}()

			if err := next(w, r); err != nil {
				logAppError(log, r, err)
				renderError(w, r, log, view, err.Code, err.Message)
			}
		})
	}
}

// JSON is the API counterpart of Error: failures are written as
// {"error": message}. Messages of 5xx errors are replaced by a generic text.
func JSON(log logger.Logger) func(AppHandler) http.Handler {
	return func(next AppHandler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					log.Error(panicError(rec), "Panic recovered")
					writeError(w, http.StatusInternalServerError, "Internal server error")
				}
			}()

			if err := next(w, r); err != nil {
				logAppError(log, r, err)
				message := err.Message
				if err.Code >= http.StatusInternalServerError {
					message = "Internal server error"
				}
				writeError(w, err.Code, message)
			}
		})
	}
}

func renderError(w http.ResponseWriter, r *http.Request, log logger.Logger, view Renderer, code int, message string) {
	data := map[string]interface{}{
		"StatusCode": code,
		"StatusText": message,
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(code)
	if err := view.Render(w, r, "error.html", data); err != nil {
		log.Error(err, "Failed to render error page")
	}
}

func logAppError(log logger.Logger, r *http.Request, err *AppError) {
	fields := map[string]interface{}{"method": r.Method, "path": r.URL.Path, "status": err.Code}
	if err.Code >= http.StatusInternalServerError {
		log.With(fields).Error(err.Error, err.Message)
		return
	}
	msg := err.Message
	if err.Error != nil {
		msg = fmt.Sprintf("%s: %v", err.Message, err.Error)
	}
	log.With(fields).Warn(msg)
}

func panicError(rec interface{}) error {
	if err, ok := rec.(error); ok {
		return err
	}
	return fmt.Errorf("%v", rec)
}
