package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type contextKey string

// FormIDKey is the context key used to store the form instance ID.
const FormIDKey contextKey = "formID"

// FormCookieName names the cookie that binds a browser to its form instance.
const FormCookieName = "qr_form_id"

// FormSession binds each browser to one form instance, issuing a cookie with
// a fresh ID when the request carries none or a malformed one.
func FormSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var formID string

		if cookie, err := r.Cookie(FormCookieName); err == nil {
			if _, err := uuid.Parse(cookie.Value); err == nil {
				formID = cookie.Value
			} else {
				log.Debug().Err(err).Msg("Malformed form cookie, issuing a new one")
			}
		}

		if formID == "" {
			formID = uuid.NewString()

			http.SetCookie(w, &http.Cookie{
				Name:     FormCookieName,
				Value:    formID,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})

			log.Debug().Str("formID", formID).Msg("Issued form cookie")
		}

		ctx := context.WithValue(r.Context(), FormIDKey, formID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetFormIDFromContext extracts the form instance ID from context.
func GetFormIDFromContext(ctx context.Context) (string, bool) {
	formID, ok := ctx.Value(FormIDKey).(string)
	return formID, ok && formID != ""
}
