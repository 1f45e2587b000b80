// Package apperrors defines the tagged error taxonomy of a QR generation attempt.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind tags an AppError.
type Kind string

const (
	KindEmptyInput        Kind = "EMPTY_INPUT"
	KindInvalidURLFormat  Kind = "INVALID_URL_FORMAT"
	KindHTTPError         Kind = "HTTP_ERROR"
	KindMalformedResponse Kind = "MALFORMED_RESPONSE"
	KindNetworkFailure    Kind = "NETWORK_FAILURE"
)

const (
	MessageEmptyInput        = "Please enter a valid URL to generate a QR code."
	MessageInvalidURLFormat  = "The URL format is invalid. Please check it and try again."
	MessageMalformedResponse = "QR code URL not found in response."
	MessageNetworkFailure    = "Could not reach the QR code service. Please check your connection and try again."
)

// AppError is a failure of a single submission. Message is safe to show to the user.
type AppError struct {
	Kind       Kind
	StatusCode int // upstream status, set for KindHTTPError only
	Message    string
	Err        error
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func EmptyInput() *AppError {
	return &AppError{Kind: KindEmptyInput, Message: MessageEmptyInput}
}

func InvalidURLFormat(err error) *AppError {
	return &AppError{Kind: KindInvalidURLFormat, Message: MessageInvalidURLFormat, Err: err}
}

// HTTPError reports a non-success response of the QR service.
func HTTPError(statusCode int, message string) *AppError {
	return &AppError{Kind: KindHTTPError, StatusCode: statusCode, Message: message}
}

func MalformedResponse(err error) *AppError {
	return &AppError{Kind: KindMalformedResponse, Message: MessageMalformedResponse, Err: err}
}

func NetworkFailure(err error) *AppError {
	return &AppError{Kind: KindNetworkFailure, Message: MessageNetworkFailure, Err: err}
}

// KindOf extracts the kind from err, or "" if err is not an AppError.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return ""
}

// IsKind checks if err is an AppError of the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// IsInputError reports whether err was caused by the user's input rather than the QR service.
func IsInputError(err error) bool {
	kind := KindOf(err)
	return kind == KindEmptyInput || kind == KindInvalidURLFormat
}

// HTTPStatus maps err to the status code this service answers with.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindEmptyInput, KindInvalidURLFormat:
		return http.StatusBadRequest
	case KindHTTPError, KindMalformedResponse:
		return http.StatusBadGateway
	case KindNetworkFailure:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
