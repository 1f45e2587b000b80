// Package form implements the request lifecycle of the QR generator form:
// a small state machine built from pure transition functions, and a Controller
// that drives one form instance through it.
package form

import "github.com/MikhailRaia/qr-generator/internal/apperrors"

// Status is the request status of a form instance.
type Status int

const (
	StatusIdle Status = iota
	StatusSubmitting
	StatusReady
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusSubmitting:
		return "submitting"
	case StatusReady:
		return "ready"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ToastVariant selects how a toast is presented.
type ToastVariant string

const (
	ToastDefault     ToastVariant = "default"
	ToastDestructive ToastVariant = "destructive"
)

const (
	TitleSuccess       = "QR Code Generated!"
	DescriptionSuccess = "Your QR code is ready to download."
	TitleInvalidURL    = "Invalid URL"
	TitleFailed        = "QR Generation Failed"
)

// Toast is a transient notification raised on a terminal transition.
type Toast struct {
	Variant     ToastVariant
	Title       string
	Description string
}

// State is a snapshot of one form instance.
// Result is set only in StatusReady and Err only in StatusFailed.
type State struct {
	Status Status
	Input  string
	Result string
	Err    *apperrors.AppError
	Toast  *Toast
}

// Busy reports whether the submit affordance must be disabled.
func (s State) Busy() bool {
	return s.Status == StatusSubmitting
}
