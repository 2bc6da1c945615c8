// Package apperr defines the error taxonomy shared by all features.
// Every error that reaches the HTTP boundary carries a stable Kind tag.
package apperr

import (
	"errors"
	"net/http"
)

// Kind is a stable, client-visible error category.
type Kind string

const (
	KindInternal            Kind = "Internal"
	KindUnauthenticated     Kind = "Unauthenticated"
	KindUserNotFound        Kind = "UserNotFound"
	KindPositionNotFound    Kind = "PositionNotFound"
	KindDuplicatePosition   Kind = "DuplicatePosition"
	KindUpstreamUnavailable Kind = "UpstreamUnavailable"
	KindNoDataAvailable     Kind = "NoDataAvailable"
	KindValidation          Kind = "ValidationError"
)

// Error is a categorized error. Sentinels are declared with New and
// compared with errors.Is; wrap them with fmt.Errorf("...: %w", ...).
type Error struct {
	Kind    Kind
	Message string
}

// New creates a categorized error.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func (e *Error) Error() string {
	return e.Message
}

// Generic sentinels, one per kind.
var (
	ErrUnauthenticated     = New(KindUnauthenticated, "unauthenticated")
	ErrUserNotFound        = New(KindUserNotFound, "user not found")
	ErrPositionNotFound    = New(KindPositionNotFound, "position not found")
	ErrDuplicatePosition   = New(KindDuplicatePosition, "position already held")
	ErrUpstreamUnavailable = New(KindUpstreamUnavailable, "market data provider unavailable")
	ErrNoDataAvailable     = New(KindNoDataAvailable, "no data available")
	ErrValidation          = New(KindValidation, "invalid request")
)

// KindOf returns the Kind of the first categorized error in err's chain,
// or KindInternal if there is none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// HTTPStatus maps an error to the status code used at the HTTP boundary.
// DuplicatePosition is a soft failure and deliberately maps to 202.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindUserNotFound, KindPositionNotFound:
		return http.StatusNotFound
	case KindDuplicatePosition:
		return http.StatusAccepted
	case KindUpstreamUnavailable, KindNoDataAvailable:
		return http.StatusBadGateway
	case KindValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
