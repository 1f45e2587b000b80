package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/MikhailRaia/qr-generator/internal/form"
	"github.com/MikhailRaia/qr-generator/internal/logger"
	"github.com/MikhailRaia/qr-generator/internal/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/rs/zerolog/log"
)

// FormService drives the form instance bound to a browser.
type FormService interface {
	Snapshot(ctx context.Context, formID string) form.State
	Edit(ctx context.Context, formID, text string) form.State
	Submit(ctx context.Context, formID, text string) (form.State, error)
	SubmitCurrent(ctx context.Context, formID string) (form.State, error)
	DismissToast(ctx context.Context, formID string, shown *form.Toast) form.State
}

type Handler struct {
	formService FormService
	page        *pageRenderer
}

func NewHandler(formService FormService, toastDuration time.Duration) *Handler {
	return &Handler{
		formService: formService,
		page:        newPageRenderer(toastDuration),
	}
}

func (h *Handler) RegisterRoutes() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)

	r.Use(logger.RequestLogger)

	r.Use(middleware.GzipReader)
	r.Use(middleware.GzipMiddleware)

	r.Get("/ping", h.handlePing)

	r.Group(func(r chi.Router) {
		r.Use(middleware.FormSession)

		r.Get("/", h.handlePage)
		r.Post("/", h.handlePageSubmit)

		r.Route("/api/form", func(r chi.Router) {
			r.Get("/", h.handleGetForm)
			r.Put("/input", h.handleEditInput)
			r.Post("/submit", h.handleSubmitJSON)
		})
	})

	return r
}

func (h *Handler) handlePage(w http.ResponseWriter, r *http.Request) {
	formID, ok := middleware.GetFormIDFromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	state := h.formService.Snapshot(r.Context(), formID)
	if err := h.page.render(w, http.StatusOK, state); err != nil {
		log.Error().Err(err).Str("formID", formID).Msg("Failed to render page")
		return
	}

	h.consumeToast(r.Context(), formID, state)
}

func (h *Handler) handlePageSubmit(w http.ResponseWriter, r *http.Request) {
	formID, ok := middleware.GetFormIDFromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	if err := r.ParseForm(); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	state, err := h.formService.Submit(r.Context(), formID, r.PostForm.Get("url"))
	if errors.Is(err, form.ErrSubmitInProgress) {
		if err := h.page.render(w, http.StatusConflict, state); err != nil {
			log.Error().Err(err).Str("formID", formID).Msg("Failed to render page")
		}
		return
	}

	// The outcome travels in the form state; the redirect shows it.
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) handlePing(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, PingResponse{Status: "ok"})
}

// consumeToast dismisses a toast once it has been delivered to the client.
func (h *Handler) consumeToast(ctx context.Context, formID string, state form.State) {
	if state.Toast != nil {
		h.formService.DismissToast(ctx, formID, state.Toast)
	}
}
