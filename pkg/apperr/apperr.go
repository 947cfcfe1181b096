// Package apperr is the error taxonomy shared by the catalog, the admin gate
// and the HTTP layer.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind string

const (
	// Invalid is a ValidationError: malformed or out of range input.
	Invalid Kind = "invalid"
	// NotFound means the referenced id does not exist.
	NotFound Kind = "not_found"
	// Unauthorized is an AuthenticationError: bad login or missing, invalid
	// or expired token.
	Unauthorized    Kind = "unauthorized"
	TooManyRequests Kind = "too_many_requests"
	Internal        Kind = "internal"
)

const internalMessage = "internal server error"

type AppError struct {
	Kind      Kind
	PublicMsg string            // safe to show to the caller
	Fields    map[string]string // per-field validation messages, optional
	Err       error             // internal cause, logged only
}

func (e *AppError) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	case e.PublicMsg != "":
		return fmt.Sprintf("%s: %s", e.Kind, e.PublicMsg)
	default:
		return string(e.Kind)
	}
}

func (e *AppError) Unwrap() error { return e.Err }

// Is matches on Kind so callers can test errors.Is(err, apperr.ErrNotFound).
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.PublicMsg == "" && t.Err == nil && t.Kind == e.Kind
}

// Sentinels for errors.Is checks.
var (
	ErrInvalid      = &AppError{Kind: Invalid}
	ErrNotFound     = &AppError{Kind: NotFound}
	ErrUnauthorized = &AppError{Kind: Unauthorized}
)

func InvalidErr(publicMsg string, fields map[string]string) *AppError {
	return &AppError{Kind: Invalid, PublicMsg: publicMsg, Fields: fields}
}

func NotFoundErr(publicMsg string) *AppError {
	return &AppError{Kind: NotFound, PublicMsg: publicMsg}
}

func UnauthorizedErr(publicMsg string) *AppError {
	return &AppError{Kind: Unauthorized, PublicMsg: publicMsg}
}

func TooManyRequestsErr(publicMsg string) *AppError {
	return &AppError{Kind: TooManyRequests, PublicMsg: publicMsg}
}

// Wrap hides an internal error behind a generic message
func Wrap(err error) *AppError {
	if err == nil {
		return nil
	}
	if ae, ok := As(err); ok {
		return ae
	}
	return &AppError{Kind: Internal, PublicMsg: internalMessage, Err: err}
}

func As(err error) (*AppError, bool) {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

func HTTPStatus(err error) int {
	if ae, ok := As(err); ok {
		switch ae.Kind {
		case Invalid:
			return http.StatusBadRequest
		case Unauthorized:
			return http.StatusUnauthorized
		case NotFound:
			return http.StatusNotFound
		case TooManyRequests:
			return http.StatusTooManyRequests
		default:
			return http.StatusInternalServerError
		}
	}
	return http.StatusInternalServerError
}

func PublicMessage(err error) string {
	if ae, ok := As(err); ok && ae.PublicMsg != "" && ae.Kind != Internal {
		return ae.PublicMsg
	}
	return internalMessage
}
