package api

import (
	"fmt"
	"net/http"

	"github.com/fhuszti/medias-conversion-ms/internal/logger"
)

func NotFoundHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger.Warnf(r.Context(), "no route for %s %s", r.Method, r.URL.Path)
		RespondJSON(r.Context(), w, http.StatusNotFound, ErrorResponse{Error: "this endpoint does not exist"})
	}
}

func MethodNotAllowedHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		RespondJSON(r.Context(), w, http.StatusMethodNotAllowed,
			ErrorResponse{Error: fmt.Sprintf("method %s is not allowed on %s", r.Method, r.URL.Path)})
	}
}
