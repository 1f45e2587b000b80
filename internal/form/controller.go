package form

import (
	"context"
	"errors"
	"sync"

	"github.com/MikhailRaia/qr-generator/internal/apperrors"
	"github.com/rs/zerolog/log"
)

// Generator asks the QR service for a code of validatedURL and returns the image address.
// Failures are reported as *apperrors.AppError.
type Generator interface {
	Generate(ctx context.Context, validatedURL string) (string, error)
}

// Controller drives one form instance. It is safe for concurrent use;
// the lock is never held while waiting for the QR service.
type Controller struct {
	mu        sync.Mutex
	state     State
	generator Generator
}

// NewController creates an idle form instance backed by generator.
func NewController(generator Generator) *Controller {
	return &Controller{
		generator: generator,
	}
}

// State returns the current snapshot.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Edit updates the input text.
func (c *Controller) Edit(text string) State {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = Edit(c.state, text)
	return c.state
}

// DismissToast clears the pending notification if it is still shown.
// A toast raised after shown was delivered is kept.
func (c *Controller) DismissToast(shown *Toast) State {
	c.mu.Lock()
	defer c.mu.Unlock()
	if shown != nil && c.state.Toast == shown {
		c.state = DismissToast(c.state)
	}
	return c.state
}

// Submit validates the input and, if valid, issues exactly one request to the QR service.
// It returns the settled state and the failure, if any. A concurrent call while a
// submission is in flight gets ErrSubmitInProgress and does not reach the service.
func (c *Controller) Submit(ctx context.Context) (State, error) {
	c.mu.Lock()
	next, validated, err := Begin(c.state)
	c.state = next
	c.mu.Unlock()

	if err != nil {
		return next, err
	}

	log.Debug().Str("url", validated).Msg("Submitting URL to QR service")

	result, genErr := c.generator.Generate(ctx, validated)

	c.mu.Lock()
	defer c.mu.Unlock()

	if genErr != nil {
		var appErr *apperrors.AppError
		if !errors.As(genErr, &appErr) {
			appErr = apperrors.NetworkFailure(genErr)
		}
		c.state = Fail(c.state, appErr)
		return c.state, appErr
	}

	c.state = Succeed(c.state, result)
	return c.state, nil
}
