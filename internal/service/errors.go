package service

import (
	"errors"
	"fmt"

	"portfolio-cms/internal/data"
)

var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
)

// Error is a failure whose message can be shown to the caller as is.
// Kind is one of the sentinel errors above.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

func invalid(format string, args ...any) error {
	return &Error{Kind: ErrValidation, Message: fmt.Sprintf(format, args...)}
}

func notFound(format string, args ...any) error {
	return &Error{Kind: ErrNotFound, Message: fmt.Sprintf(format, args...)}
}

func conflict(format string, args ...any) error {
	return &Error{Kind: ErrConflict, Message: fmt.Sprintf(format, args...)}
}

// fromRepo turns repository sentinels into user-facing errors. Anything else
// is returned unchanged and ends up as a 500.
func fromRepo(err error, notFoundMsg, conflictMsg string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, data.ErrNotFound) && notFoundMsg != "":
		return &Error{Kind: ErrNotFound, Message: notFoundMsg}
	case errors.Is(err, data.ErrConflict) && conflictMsg != "":
		return &Error{Kind: ErrConflict, Message: conflictMsg}
	}
	return err
}
