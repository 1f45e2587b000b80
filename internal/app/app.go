package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/MikhailRaia/qr-generator/internal/config"
	"github.com/MikhailRaia/qr-generator/internal/handler"
	"github.com/MikhailRaia/qr-generator/internal/qrapi"
	"github.com/MikhailRaia/qr-generator/internal/service"
	"github.com/MikhailRaia/qr-generator/internal/storage/memory"
	"github.com/MikhailRaia/qr-generator/internal/worker"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

type App struct {
	config      *config.Config
	handler     http.Handler
	formService *service.FormService
	evictPool   *worker.EvictWorkerPool
	sweeper     *worker.Sweeper
}

func NewApp(cfg *config.Config) *App {
	storage := memory.NewStorage()

	qrClient := qrapi.NewClient(cfg.APIBaseURL, &http.Client{})

	formService := service.NewFormService(storage, qrClient)

	evictPool := worker.NewEvictWorkerPool(formService, worker.DefaultConfig())
	sweeper := worker.NewSweeper(formService, evictPool, cfg.FormIdleTTL, cfg.SweepInterval)

	httpHandler := handler.NewHandler(formService, cfg.ToastDuration)

	return &App{
		config:      cfg,
		handler:     httpHandler.RegisterRoutes(),
		formService: formService,
		evictPool:   evictPool,
		sweeper:     sweeper,
	}
}

// Handler returns the HTTP handler serving the page and the API.
func (a *App) Handler() http.Handler {
	return a.handler
}

// Run listens on the configured address and serves until ctx is done.
func (a *App) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", a.config.ServerAddress)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", a.config.ServerAddress, err)
	}
	return a.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is done or the server fails, then
// shuts the server and the eviction workers down within the configured timeout.
func (a *App) Serve(ctx context.Context, ln net.Listener) error {
	server := &http.Server{
		Handler:           a.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	a.evictPool.Start()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.sweeper.Run(gctx)
		return nil
	})

	g.Go(func() error {
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("Stopping the server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.config.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		return nil
	})

	log.Info().
		Str("address", ln.Addr().String()).
		Str("qrAPI", a.config.APIBaseURL).
		Msg("Server started")

	runErr := g.Wait()

	if err := a.evictPool.Shutdown(a.config.ShutdownTimeout); err != nil {
		runErr = errors.Join(runErr, fmt.Errorf("evict worker pool shutdown: %w", err))
	}

	if runErr == nil {
		log.Info().Int("activeForms", a.formService.ActiveForms()).Msg("Stopped the server successfully")
	}

	return runErr
}
