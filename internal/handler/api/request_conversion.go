package api

import (
	"errors"
	"net/http"

	"github.com/fhuszti/medias-conversion-ms/internal/api_context"
	"github.com/fhuszti/medias-conversion-ms/internal/imagecmd"
	"github.com/fhuszti/medias-conversion-ms/internal/logger"
	"github.com/fhuszti/medias-conversion-ms/internal/model"
	"github.com/fhuszti/medias-conversion-ms/internal/port"
	"github.com/fhuszti/medias-conversion-ms/internal/usecase/conversion"
	"github.com/fhuszti/medias-conversion-ms/internal/uuid"
)

type ConvertImagesRequest struct {
	InputFile string         `json:"input_file" validate:"required"`
	ExportDir string         `json:"export_dir" validate:"required"`
	Crop      *imagecmd.Crop `json:"crop,omitempty"`
	Sizes     []string       `json:"sizes" validate:"omitempty,max=32,dive,sizetoken"`
}

type ConvertVideoRequest struct {
	InputFile       string   `json:"input_file" validate:"required"`
	ExportDirImages string   `json:"export_dir_images" validate:"required"`
	ExportFile      string   `json:"export_file" validate:"required"`
	ThumbnailFile   string   `json:"thumbnail_file"`
	Sizes           []string `json:"sizes" validate:"omitempty,max=32,dive,sizetoken"`
}

type ConversionAccepted struct {
	ID     uuid.UUID              `json:"id"`
	Status model.ConversionStatus `json:"status"`
}

func ConvertImagesHandler(svc port.ConversionRequester) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ConvertImagesRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}

		id, err := svc.RequestImages(r.Context(), port.ConvertImagesInput{
			InputFile: req.InputFile,
			ExportDir: req.ExportDir,
			Crop:      req.Crop,
			Sizes:     req.Sizes,
		})
		if err != nil {
			writeRequestError(w, r, err)
			return
		}

		RespondJSON(r.Context(), w, http.StatusAccepted, ConversionAccepted{ID: id, Status: model.ConversionStatusQueued})
		logger.Infof(api_context.WithConversionID(r.Context(), id), "✅  Accepted image conversion of %q", req.InputFile)
	}
}

func ConvertVideoHandler(svc port.ConversionRequester) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ConvertVideoRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}

		id, err := svc.RequestVideo(r.Context(), port.ConvertVideoInput{
			InputFile:       req.InputFile,
			ExportDirImages: req.ExportDirImages,
			ExportFile:      req.ExportFile,
			ThumbnailFile:   req.ThumbnailFile,
			Sizes:           req.Sizes,
		})
		if err != nil {
			writeRequestError(w, r, err)
			return
		}

		RespondJSON(r.Context(), w, http.StatusAccepted, ConversionAccepted{ID: id, Status: model.ConversionStatusQueued})
		logger.Infof(api_context.WithConversionID(r.Context(), id), "✅  Accepted video conversion of %q", req.InputFile)
	}
}

func writeRequestError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, conversion.ErrInvalidRequest):
		WriteError(r.Context(), w, http.StatusUnprocessableEntity, err.Error(), nil)
	case errors.Is(err, conversion.ErrSourceNotFound):
		WriteError(r.Context(), w, http.StatusNotFound, err.Error(), nil)
	default:
		WriteError(r.Context(), w, http.StatusInternalServerError, "could not request conversion", err)
	}
}
