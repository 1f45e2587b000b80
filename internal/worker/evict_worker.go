package worker

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// EvictService destroys form instances by ID. Instances used at or after
// cutoff must be kept.
type EvictService interface {
	EvictForms(formIDs []string, cutoff time.Time) error
}

type evictRequest struct {
	formIDs []string
	cutoff  time.Time
}

type EvictWorkerPool struct {
	service      EvictService
	requestChan  chan evictRequest
	batchSize    int
	batchTimeout time.Duration
	workerCount  int
	ctx          context.Context
	cancel       context.CancelFunc
	wg           sync.WaitGroup
	shutdownOnce sync.Once

	mu     sync.RWMutex
	closed bool
}

type Config struct {
	WorkerCount  int
	BufferSize   int
	BatchSize    int           // flush once this many IDs are queued
	BatchTimeout time.Duration // flush a partial batch after this long
}

func DefaultConfig() Config {
	return Config{
		WorkerCount:  2,
		BufferSize:   100,
		BatchSize:    50,
		BatchTimeout: time.Second,
	}
}

func NewEvictWorkerPool(service EvictService, config Config) *EvictWorkerPool {
	ctx, cancel := context.WithCancel(context.Background())

	return &EvictWorkerPool{
		service:      service,
		requestChan:  make(chan evictRequest, config.BufferSize),
		batchSize:    config.BatchSize,
		batchTimeout: config.BatchTimeout,
		workerCount:  config.WorkerCount,
		ctx:          ctx,
		cancel:       cancel,
	}
}

func (p *EvictWorkerPool) Start() {
	log.Info().
		Int("workers", p.workerCount).
		Int("batchSize", p.batchSize).
		Dur("batchTimeout", p.batchTimeout).
		Msg("Starting evict worker pool")

	for i := 0; i < p.workerCount; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
}

func (p *EvictWorkerPool) worker(id int) {
	defer p.wg.Done()

	log.Debug().Int("workerID", id).Msg("Worker started")

	var batch []string
	var cutoff time.Time
	var timer *time.Timer
	var timerC <-chan time.Time

	processBatch := func() {
		if len(batch) == 0 {
			return
		}

		if err := p.service.EvictForms(batch, cutoff); err != nil {
			log.Error().
				Err(err).
				Int("workerID", id).
				Int("formCount", len(batch)).
				Msg("Failed to evict forms")
		} else {
			log.Debug().
				Int("workerID", id).
				Int("formCount", len(batch)).
				Msg("Evicted forms")
		}

		batch = nil
		cutoff = time.Time{}
	}

	startTimer := func() {
		if timer == nil {
			timer = time.NewTimer(p.batchTimeout)
		} else {
			timer.Reset(p.batchTimeout)
		}
		timerC = timer.C
	}

	stopTimer := func() {
		if timer == nil {
			return
		}
		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timerC = nil
	}

	for {
		select {
		case <-p.ctx.Done():
			log.Debug().Int("workerID", id).Msg("Worker shutting down")
			processBatch()
			stopTimer()
			return

		case req, ok := <-p.requestChan:
			if !ok {
				processBatch()
				stopTimer()
				return
			}

			batchWasEmpty := len(batch) == 0
			batch = append(batch, req.formIDs...)
			// A batch is evicted against its earliest cutoff.
			if batchWasEmpty || req.cutoff.Before(cutoff) {
				cutoff = req.cutoff
			}

			if len(batch) >= p.batchSize {
				processBatch()
				stopTimer()
			} else if batchWasEmpty {
				startTimer()
			}

		case <-timerC:
			processBatch()
			timerC = nil
		}
	}
}

// Submit queues form IDs found idle at cutoff for eviction, blocking while
// the queue is full.
func (p *EvictWorkerPool) Submit(formIDs []string, cutoff time.Time) error {
	if len(formIDs) == 0 {
		return nil
	}

	req := evictRequest{formIDs: formIDs, cutoff: cutoff}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return context.Canceled
	}

	select {
	case <-p.ctx.Done():
		return context.Canceled
	case p.requestChan <- req:
		log.Debug().Int("formCount", len(formIDs)).Msg("Evict request submitted")
		return nil
	default:
		log.Warn().Int("formCount", len(formIDs)).Msg("Request channel is full, blocking")

		select {
		case <-p.ctx.Done():
			return context.Canceled
		case p.requestChan <- req:
			return nil
		}
	}
}

func (p *EvictWorkerPool) Shutdown(timeout time.Duration) error {
	var shutdownErr error

	p.shutdownOnce.Do(func() {
		log.Info().Msg("Shutting down evict worker pool")

		p.mu.Lock()
		p.closed = true
		close(p.requestChan)
		p.mu.Unlock()

		done := make(chan struct{})
		go func() {
			p.wg.Wait()
			close(done)
		}()

		select {
		case <-done:
			log.Info().Msg("Evict worker pool shut down gracefully")
		case <-time.After(timeout):
			log.Warn().Msg("Evict worker pool shutdown timeout, forcing shutdown")
			p.cancel()
			<-done
			shutdownErr = context.DeadlineExceeded
		}
		p.cancel()
	})

	return shutdownErr
}

func (p *EvictWorkerPool) Stats() PoolStats {
	return PoolStats{
		QueueSize:   len(p.requestChan),
		QueueCap:    cap(p.requestChan),
		WorkerCount: p.workerCount,
	}
}

type PoolStats struct {
	QueueSize   int
	QueueCap    int
	WorkerCount int
}
