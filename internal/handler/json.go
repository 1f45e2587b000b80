package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/MikhailRaia/qr-generator/internal/apperrors"
	"github.com/MikhailRaia/qr-generator/internal/form"
	"github.com/MikhailRaia/qr-generator/internal/middleware"
	"github.com/go-chi/render"
	"github.com/rs/zerolog/log"
)

type InputRequest struct {
	URL *string `json:"url"`
}

type FormResponse struct {
	Status    string         `json:"status"`
	Input     string         `json:"input"`
	QRCodeURL string         `json:"qr_code_url,omitempty"`
	Error     *ErrorResponse `json:"error,omitempty"`
	Toast     *ToastResponse `json:"toast,omitempty"`
}

type ErrorResponse struct {
	Kind       string `json:"kind,omitempty"`
	Message    string `json:"message"`
	StatusCode int    `json:"status_code,omitempty"`
}

type ToastResponse struct {
	Variant     string `json:"variant"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

type PingResponse struct {
	Status string `json:"status"`
}

// NewFormResponse converts a form state into its JSON representation.
func NewFormResponse(state form.State) FormResponse {
	resp := FormResponse{
		Status:    state.Status.String(),
		Input:     state.Input,
		QRCodeURL: state.Result,
	}

	if state.Err != nil {
		resp.Error = &ErrorResponse{
			Kind:       string(state.Err.Kind),
			Message:    state.Err.Message,
			StatusCode: state.Err.StatusCode,
		}
	}

	if state.Toast != nil {
		resp.Toast = &ToastResponse{
			Variant:     string(state.Toast.Variant),
			Title:       state.Toast.Title,
			Description: state.Toast.Description,
		}
	}

	return resp
}

func (h *Handler) handleGetForm(w http.ResponseWriter, r *http.Request) {
	formID, ok := middleware.GetFormIDFromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	state := h.formService.Snapshot(r.Context(), formID)
	render.JSON(w, r, NewFormResponse(state))
	h.consumeToast(r.Context(), formID, state)
}

func (h *Handler) handleEditInput(w http.ResponseWriter, r *http.Request) {
	formID, ok := middleware.GetFormIDFromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	var request InputRequest
	if err := render.DecodeJSON(r.Body, &request); err != nil || request.URL == nil {
		renderBadRequest(w, r, "request body must be a JSON object with a \"url\" string")
		return
	}

	state := h.formService.Edit(r.Context(), formID, *request.URL)
	render.JSON(w, r, NewFormResponse(state))
}

// handleSubmitJSON submits the form. A body with "url" replaces the input
// first; an empty body submits the current input.
func (h *Handler) handleSubmitJSON(w http.ResponseWriter, r *http.Request) {
	formID, ok := middleware.GetFormIDFromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	var request InputRequest
	if err := render.DecodeJSON(r.Body, &request); err != nil && !errors.Is(err, io.EOF) {
		renderBadRequest(w, r, "request body must be a JSON object")
		return
	}

	var (
		state form.State
		err   error
	)
	if request.URL != nil {
		state, err = h.formService.Submit(r.Context(), formID, *request.URL)
	} else {
		state, err = h.formService.SubmitCurrent(r.Context(), formID)
	}

	switch {
	case err == nil:
		render.Status(r, http.StatusOK)
	case errors.Is(err, form.ErrSubmitInProgress):
		render.Status(r, http.StatusConflict)
	default:
		log.Debug().Err(err).Str("formID", formID).Msg("Submission failed")
		render.Status(r, apperrors.HTTPStatus(err))
	}

	render.JSON(w, r, NewFormResponse(state))

	if !errors.Is(err, form.ErrSubmitInProgress) {
		h.consumeToast(r.Context(), formID, state)
	}
}

func renderBadRequest(w http.ResponseWriter, r *http.Request, message string) {
	render.Status(r, http.StatusBadRequest)
	render.JSON(w, r, ErrorResponse{Message: message})
}
