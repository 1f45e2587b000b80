package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// IdleLister reports form instances that have not been used since cutoff.
type IdleLister interface {
	IdleForms(cutoff time.Time) []string
}

// Sweeper periodically hands idle form instances to an EvictWorkerPool.
type Sweeper struct {
	lister   IdleLister
	pool     *EvictWorkerPool
	ttl      time.Duration
	interval time.Duration
	now      func() time.Time
}

func NewSweeper(lister IdleLister, pool *EvictWorkerPool, ttl, interval time.Duration) *Sweeper {
	return &Sweeper{
		lister:   lister,
		pool:     pool,
		ttl:      ttl,
		interval: interval,
		now:      time.Now,
	}
}

// Run sweeps every interval until ctx is done. A non-positive ttl or interval
// disables sweeping.
func (s *Sweeper) Run(ctx context.Context) {
	if s.ttl <= 0 || s.interval <= 0 {
		log.Info().Msg("Idle form sweeping disabled")
		return
	}

	log.Info().Dur("ttl", s.ttl).Dur("interval", s.interval).Msg("Starting idle form sweeper")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Debug().Msg("Idle form sweeper stopped")
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}

// Sweep submits every instance idle for longer than ttl and returns how many were found.
func (s *Sweeper) Sweep() int {
	cutoff := s.now().Add(-s.ttl)
	ids := s.lister.IdleForms(cutoff)
	if len(ids) == 0 {
		return 0
	}

	if err := s.pool.Submit(ids, cutoff); err != nil {
		log.Warn().Err(err).Int("formCount", len(ids)).Msg("Failed to queue idle forms")
		return 0
	}

	return len(ids)
}
