package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/fhuszti/medias-conversion-ms/internal/logger"
	"github.com/fhuszti/medias-conversion-ms/internal/validation"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

func WriteError(ctx context.Context, w http.ResponseWriter, status int, msg string, err error) {
	if err != nil {
		logger.Errorf(ctx, "❌  %s: %v", msg, err)
	} else {
		logger.Error(ctx, "❌  "+msg)
	}
	w.Header().Set("Cache-Control", "no-store, max-age=0, must-revalidate")
	RespondJSON(ctx, w, status, ErrorResponse{Error: msg})
}

func RespondJSON(ctx context.Context, w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Errorf(ctx, "❌  Failed to encode JSON response: %v", err)
	}
}

func RespondRawJSON(ctx context.Context, w http.ResponseWriter, status int, raw []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(raw); err != nil {
		logger.Errorf(ctx, "❌  Failed to write JSON payload: %v", err)
	}
}

// decodeAndValidate reads a JSON body into dst and validates it. On failure the
// error response is already written and false is returned.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	ctx := r.Context()
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		WriteError(ctx, w, http.StatusBadRequest, "invalid request payload", err)
		return false
	}

	if errs := validation.ValidateStruct(dst); errs != nil {
		errsJSON, err := validation.ErrorsToJson(errs)
		if err != nil {
			WriteError(ctx, w, http.StatusInternalServerError, "failed to encode validation errors", err)
			return false
		}
		RespondRawJSON(ctx, w, http.StatusBadRequest, []byte(errsJSON))
		logger.Warnf(ctx, "❌  Validation failed: %s", errsJSON)
		return false
	}
	return true
}
