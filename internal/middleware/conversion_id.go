package middleware

import (
	"fmt"
	"net/http"

	"github.com/fhuszti/medias-conversion-ms/internal/api_context"
	"github.com/fhuszti/medias-conversion-ms/internal/handler/api"
	"github.com/fhuszti/medias-conversion-ms/internal/uuid"
	"github.com/go-chi/chi/v5"
)

func WithConversionID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := chi.URLParam(r, "id")
			if id == "" {
				api.WriteError(r.Context(), w, http.StatusBadRequest, "ID is required", nil)
				return
			}
			parsedID, err := uuid.Parse(id)
			if err != nil {
				api.WriteError(r.Context(), w, http.StatusBadRequest, fmt.Sprintf("ID %q is not a valid UUID", id), nil)
				return
			}

			// stash it in context and call the real handler
			next.ServeHTTP(w, r.WithContext(api_context.WithConversionID(r.Context(), parsedID)))
		})
	}
}
