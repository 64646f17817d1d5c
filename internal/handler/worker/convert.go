package worker

import (
	"context"

	"github.com/fhuszti/medias-conversion-ms/internal/api_context"
	"github.com/fhuszti/medias-conversion-ms/internal/logger"
	"github.com/fhuszti/medias-conversion-ms/internal/port"
	"github.com/fhuszti/medias-conversion-ms/internal/validation"
)

// ConvertImagesHandler handles a convert-images task.
// It validates the incoming payload and delegates the call to the service.
func ConvertImagesHandler(ctx context.Context, p port.ConvertImagesInput, svc port.Converter) error {
	ctx = api_context.WithConversionID(ctx, p.ID)
	if err := validation.ValidateStruct(p); err != nil {
		logger.Errorf(ctx, "❌  Payload validation failed: %v", err)
		return err
	}

	if err := svc.ConvertImages(ctx, p); err != nil {
		logger.Errorf(ctx, "❌  Failed to convert images from %q: %v", p.InputFile, err)
		return err
	}

	logger.Infof(ctx, "✅  Successfully converted images from %q", p.InputFile)
	return nil
}

// ConvertVideoHandler handles a convert-video task.
func ConvertVideoHandler(ctx context.Context, p port.ConvertVideoInput, svc port.Converter) error {
	ctx = api_context.WithConversionID(ctx, p.ID)
	if err := validation.ValidateStruct(p); err != nil {
		logger.Errorf(ctx, "❌  Payload validation failed: %v", err)
		return err
	}

	if err := svc.ConvertVideo(ctx, p); err != nil {
		logger.Errorf(ctx, "❌  Failed to convert video %q: %v", p.InputFile, err)
		return err
	}

	logger.Infof(ctx, "✅  Successfully converted video %q", p.InputFile)
	return nil
}
