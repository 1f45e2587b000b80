package storage

import (
	"time"

	"github.com/MikhailRaia/qr-generator/internal/form"
)

// FormStorage keeps the live form instances of the process. Nothing is persisted.
type FormStorage interface {
	GetOrCreate(id string, create func() *form.Controller) *form.Controller

	Get(id string) (*form.Controller, bool)

	IdleSince(cutoff time.Time) []string

	// DeleteIdle removes the given instances that are still idle at cutoff.
	DeleteIdle(ids []string, cutoff time.Time) int

	Len() int
}
