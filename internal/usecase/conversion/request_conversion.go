package conversion

import (
	"context"
	"fmt"
	"time"

	"github.com/fhuszti/medias-conversion-ms/internal/api_context"
	"github.com/fhuszti/medias-conversion-ms/internal/logger"
	"github.com/fhuszti/medias-conversion-ms/internal/model"
	"github.com/fhuszti/medias-conversion-ms/internal/port"
	"github.com/fhuszti/medias-conversion-ms/internal/uuid"
)

type requesterSrv struct {
	builder      port.GraphBuilder
	strg         port.Storage
	store        port.StatusStore
	tasks        port.TaskDispatcher
	genUUID      port.UUIDGen
	defaultSizes []string
	now          func() time.Time
}

// compile-time check: *requesterSrv must satisfy port.ConversionRequester
var _ port.ConversionRequester = (*requesterSrv)(nil)

// NewRequester validates conversion requests up front and queues them for the worker.
func NewRequester(builder port.GraphBuilder, strg port.Storage, store port.StatusStore, tasks port.TaskDispatcher, genUUID port.UUIDGen, defaultSizes []string) port.ConversionRequester {
	return &requesterSrv{
		builder:      builder,
		strg:         strg,
		store:        store,
		tasks:        tasks,
		genUUID:      genUUID,
		defaultSizes: defaultSizes,
		now:          time.Now,
	}
}

func (s *requesterSrv) RequestImages(ctx context.Context, in port.ConvertImagesInput) (uuid.UUID, error) {
	in.Sizes = resolveSizes(in.Sizes, s.defaultSizes)

	// building the graph is the validation: same parser, same collision rules as the worker
	if _, err := s.builder.BuildImageGraph(in.InputFile, in.ExportDir, in.Crop, in.Sizes); err != nil {
		return uuid.UUID{}, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	if err := s.checkSource(ctx, in.InputFile); err != nil {
		return uuid.UUID{}, err
	}

	in.ID = s.genUUID()
	ctx = api_context.WithConversionID(ctx, in.ID)
	if err := s.queue(ctx, in.ID, model.ConversionKindImage); err != nil {
		return uuid.UUID{}, err
	}
	if err := s.tasks.EnqueueConvertImages(ctx, in); err != nil {
		s.abandon(ctx, in.ID, model.ConversionKindImage, err)
		return uuid.UUID{}, fmt.Errorf("enqueue conversion: %w", err)
	}

	logger.Infof(ctx, "📥 Queued image conversion of %q with %d sizes", in.InputFile, len(in.Sizes))
	return in.ID, nil
}

func (s *requesterSrv) RequestVideo(ctx context.Context, in port.ConvertVideoInput) (uuid.UUID, error) {
	in.Sizes = resolveSizes(in.Sizes, s.defaultSizes)

	if _, err := s.builder.BuildVideoGraph(in.InputFile, in.ExportDirImages, in.ExportFile, in.ThumbnailFile, in.Sizes); err != nil {
		return uuid.UUID{}, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	if err := s.checkSource(ctx, in.InputFile); err != nil {
		return uuid.UUID{}, err
	}

	in.ID = s.genUUID()
	ctx = api_context.WithConversionID(ctx, in.ID)
	if err := s.queue(ctx, in.ID, model.ConversionKindVideo); err != nil {
		return uuid.UUID{}, err
	}
	if err := s.tasks.EnqueueConvertVideo(ctx, in); err != nil {
		s.abandon(ctx, in.ID, model.ConversionKindVideo, err)
		return uuid.UUID{}, fmt.Errorf("enqueue conversion: %w", err)
	}

	logger.Infof(ctx, "📥 Queued video conversion of %q", in.InputFile)
	return in.ID, nil
}

func (s *requesterSrv) checkSource(ctx context.Context, key string) error {
	ok, err := s.strg.ObjectExists(ctx, key)
	if err != nil {
		return fmt.Errorf("check source %q: %w", key, err)
	}
	if !ok {
		return fmt.Errorf("%w: %q", ErrSourceNotFound, key)
	}
	return nil
}

func (s *requesterSrv) queue(ctx context.Context, id uuid.UUID, kind model.ConversionKind) error {
	now := s.now().UTC()
	c := &model.Conversion{
		ID:        id,
		Kind:      kind,
		Status:    model.ConversionStatusQueued,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.Save(ctx, c); err != nil {
		return fmt.Errorf("save conversion status: %w", err)
	}
	return nil
}

func (s *requesterSrv) abandon(ctx context.Context, id uuid.UUID, kind model.ConversionKind, cause error) {
	now := s.now().UTC()
	c := &model.Conversion{
		ID:        id,
		Kind:      kind,
		Status:    model.ConversionStatusFailed,
		Error:     cause.Error(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.Save(context.WithoutCancel(ctx), c); err != nil {
		logger.Errorf(ctx, "❌ Could not mark conversion as failed: %v", err)
	}
}
