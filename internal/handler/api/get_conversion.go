package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/fhuszti/medias-conversion-ms/internal/api_context"
	"github.com/fhuszti/medias-conversion-ms/internal/logger"
	"github.com/fhuszti/medias-conversion-ms/internal/port"
	"github.com/fhuszti/medias-conversion-ms/internal/usecase/conversion"
)

func GetConversionHandler(renderer port.HTTPRenderer, svc port.ConversionGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		id, ok := api_context.ConversionIDFromContext(ctx)
		if !ok {
			WriteError(ctx, w, http.StatusBadRequest, "ID is required", nil)
			return
		}

		out, err := renderer.RenderConversion(ctx, svc, id)
		if errors.Is(err, conversion.ErrConversionNotFound) {
			WriteError(ctx, w, http.StatusNotFound, fmt.Sprintf("conversion #%s not found", id), nil)
			return
		}
		if err != nil {
			WriteError(ctx, w, http.StatusInternalServerError, fmt.Sprintf("could not get conversion #%s", id), err)
			return
		}

		w.Header().Set("ETag", out.ETag)
		if out.Terminal {
			w.Header().Set("Cache-Control", "public, max-age=300")
		} else {
			w.Header().Set("Cache-Control", "no-store, max-age=0, must-revalidate")
		}
		if match := r.Header.Get("If-None-Match"); match == out.ETag {
			w.WriteHeader(http.StatusNotModified)
			return
		}

		RespondRawJSON(ctx, w, http.StatusOK, out.Raw)
		logger.Infof(ctx, "✅  Returned conversion #%s", id)
	}
}
