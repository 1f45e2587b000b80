package form

import (
	"errors"

	"github.com/MikhailRaia/qr-generator/internal/apperrors"
)

// ErrSubmitInProgress is returned when a form instance is asked to submit while
// its previous submission has not settled yet.
var ErrSubmitInProgress = errors.New("submission already in progress")

// Edit replaces the input text. The status is left untouched.
func Edit(s State, text string) State {
	s.Input = text
	return s
}

// Begin starts a submission of the current input.
//
// On success the returned state is StatusSubmitting with the previous result
// cleared, and the validated URL must be sent to the QR service. A validation
// failure yields StatusFailed and the *apperrors.AppError; no request may be
// issued then. A state that is already submitting is returned unchanged with
// ErrSubmitInProgress.
func Begin(s State) (State, string, error) {
	if s.Status == StatusSubmitting {
		return s, "", ErrSubmitInProgress
	}

	validated, err := NormalizeURL(s.Input)
	if err != nil {
		var appErr *apperrors.AppError
		if !errors.As(err, &appErr) {
			appErr = apperrors.InvalidURLFormat(err)
		}
		return Fail(s, appErr), "", appErr
	}

	return State{
		Status: StatusSubmitting,
		Input:  s.Input,
	}, validated, nil
}

// Succeed settles a submission with the QR code image address.
// The input is cleared so the form is ready for the next URL.
func Succeed(s State, result string) State {
	return State{
		Status: StatusReady,
		Result: result,
		Toast: &Toast{
			Variant:     ToastDefault,
			Title:       TitleSuccess,
			Description: DescriptionSuccess,
		},
	}
}

// Fail settles a submission (or a rejected validation) with err. The input is kept for correction.
func Fail(s State, err *apperrors.AppError) State {
	title := TitleFailed
	if apperrors.IsInputError(err) {
		title = TitleInvalidURL
	}

	return State{
		Status: StatusFailed,
		Input:  s.Input,
		Err:    err,
		Toast: &Toast{
			Variant:     ToastDestructive,
			Title:       title,
			Description: err.Message,
		},
	}
}

// DismissToast drops a pending notification once it has been shown.
func DismissToast(s State) State {
	s.Toast = nil
	return s
}
