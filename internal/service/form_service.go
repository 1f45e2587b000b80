package service

import (
	"context"
	"time"

	"github.com/MikhailRaia/qr-generator/internal/form"
	"github.com/MikhailRaia/qr-generator/internal/storage"
	"github.com/rs/zerolog/log"
)

// FormService maps form instance IDs to their controllers.
type FormService struct {
	storage   storage.FormStorage
	generator form.Generator
}

// NewFormService constructs a FormService with the given storage and QR generator.
func NewFormService(storage storage.FormStorage, generator form.Generator) *FormService {
	return &FormService{
		storage:   storage,
		generator: generator,
	}
}

func (s *FormService) controller(formID string) *form.Controller {
	return s.storage.GetOrCreate(formID, func() *form.Controller {
		log.Debug().Str("formID", formID).Msg("New form instance")
		return form.NewController(s.generator)
	})
}

// Snapshot returns the current state of a form instance.
func (s *FormService) Snapshot(ctx context.Context, formID string) form.State {
	return s.controller(formID).State()
}

// Edit replaces the input text of a form instance.
func (s *FormService) Edit(ctx context.Context, formID, text string) form.State {
	return s.controller(formID).Edit(text)
}

// Submit sets the input text and submits it. The returned error is the failure
// of the submission or form.ErrSubmitInProgress.
//
// The form instance outlives the request that submitted it, so the call to the
// QR service keeps running when ctx is cancelled.
func (s *FormService) Submit(ctx context.Context, formID, text string) (form.State, error) {
	c := s.controller(formID)

	if c.State().Busy() {
		return c.State(), form.ErrSubmitInProgress
	}

	c.Edit(text)
	state, err := c.Submit(context.WithoutCancel(ctx))
	if err != nil {
		log.Info().
			Err(err).
			Str("formID", formID).
			Str("status", state.Status.String()).
			Msg("Submission rejected")
		return state, err
	}

	log.Info().Str("formID", formID).Str("qrCodeURL", state.Result).Msg("QR code generated")
	return state, nil
}

// SubmitCurrent submits whatever text the form instance currently holds.
func (s *FormService) SubmitCurrent(ctx context.Context, formID string) (form.State, error) {
	return s.controller(formID).Submit(context.WithoutCancel(ctx))
}

// DismissToast marks shown, the notification delivered to the client, as seen.
// A newer notification stays pending.
func (s *FormService) DismissToast(ctx context.Context, formID string, shown *form.Toast) form.State {
	c, found := s.storage.Get(formID)
	if !found {
		return form.State{}
	}
	return c.DismissToast(shown)
}

// IdleForms lists instances not used since cutoff.
func (s *FormService) IdleForms(cutoff time.Time) []string {
	return s.storage.IdleSince(cutoff)
}

// EvictForms destroys the given form instances unless they were used at or
// after cutoff or are submitting.
func (s *FormService) EvictForms(formIDs []string, cutoff time.Time) error {
	deleted := s.storage.DeleteIdle(formIDs, cutoff)
	log.Debug().Int("requested", len(formIDs)).Int("deleted", deleted).Msg("Evicted idle forms")
	return nil
}

// ActiveForms returns the number of live form instances.
func (s *FormService) ActiveForms() int {
	return s.storage.Len()
}
