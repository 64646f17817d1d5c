package conversion

import (
	"context"
	"fmt"
	"time"

	"github.com/fhuszti/medias-conversion-ms/internal/api_context"
	"github.com/fhuszti/medias-conversion-ms/internal/graph"
	"github.com/fhuszti/medias-conversion-ms/internal/logger"
	"github.com/fhuszti/medias-conversion-ms/internal/model"
	"github.com/fhuszti/medias-conversion-ms/internal/port"
	"github.com/fhuszti/medias-conversion-ms/internal/uuid"
)

type converterSrv struct {
	builder      port.GraphBuilder
	gateway      port.JobGateway
	store        port.StatusStore
	metrics      port.Metrics
	defaultSizes []string
	now          func() time.Time
}

// compile-time check: *converterSrv must satisfy port.Converter
var _ port.Converter = (*converterSrv)(nil)

// NewConverter runs conversions against the remote engine and records their
// progress in the status store. Gateway errors are returned unchanged.
func NewConverter(builder port.GraphBuilder, gateway port.JobGateway, store port.StatusStore, metrics port.Metrics, defaultSizes []string) port.Converter {
	return &converterSrv{
		builder:      builder,
		gateway:      gateway,
		store:        store,
		metrics:      metrics,
		defaultSizes: defaultSizes,
		now:          time.Now,
	}
}

func (s *converterSrv) ConvertImages(ctx context.Context, in port.ConvertImagesInput) error {
	ctx = api_context.WithConversionID(ctx, in.ID)
	g, err := s.builder.BuildImageGraph(in.InputFile, in.ExportDir, in.Crop, resolveSizes(in.Sizes, s.defaultSizes))
	return s.run(ctx, in.ID, model.ConversionKindImage, g, err)
}

func (s *converterSrv) ConvertVideo(ctx context.Context, in port.ConvertVideoInput) error {
	ctx = api_context.WithConversionID(ctx, in.ID)
	g, err := s.builder.BuildVideoGraph(in.InputFile, in.ExportDirImages, in.ExportFile, in.ThumbnailFile, resolveSizes(in.Sizes, s.defaultSizes))
	return s.run(ctx, in.ID, model.ConversionKindVideo, g, err)
}

func (s *converterSrv) run(ctx context.Context, id uuid.UUID, kind model.ConversionKind, g *graph.Graph, buildErr error) error {
	c, err := s.load(ctx, id, kind)
	if err != nil {
		return err
	}
	if buildErr != nil {
		s.fail(ctx, c, buildErr)
		return fmt.Errorf("%w: %w", ErrInvalidRequest, buildErr)
	}

	c.Fingerprint, err = g.Fingerprint()
	if err != nil {
		s.fail(ctx, c, err)
		return err
	}
	c.Status = model.ConversionStatusProcessing
	if err := s.save(ctx, c); err != nil {
		return err
	}
	s.metrics.ObserveGraph(string(kind), g.Len())

	done := s.metrics.StartConversion(string(kind))
	h, err := s.gateway.Submit(ctx, g)
	if err != nil {
		done(false)
		s.fail(ctx, c, err)
		return err
	}

	c.JobID = h.ID
	ctx = logger.WithAttrs(ctx, "job", h.ID)
	if err := s.save(ctx, c); err != nil {
		logger.Warnf(ctx, "⚠️ Could not record job %s: %v", h.ID, err)
	}

	if _, err := s.gateway.Wait(ctx, h); err != nil {
		done(false)
		s.fail(ctx, c, err)
		return err
	}
	done(true)

	c.Status = model.ConversionStatusFinished
	if err := s.save(ctx, c); err != nil {
		return err
	}
	logger.Infof(ctx, "✅  Conversion finished (job %s, %d nodes)", h.ID, g.Len())
	return nil
}

// load returns the record created at request time, or a fresh one when the
// conversion was not requested through the API or its record expired.
func (s *converterSrv) load(ctx context.Context, id uuid.UUID, kind model.ConversionKind) (*model.Conversion, error) {
	c, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load conversion status: %w", err)
	}
	if c == nil {
		now := s.now().UTC()
		c = &model.Conversion{ID: id, Kind: kind, CreatedAt: now}
	}
	return c, nil
}

func (s *converterSrv) save(ctx context.Context, c *model.Conversion) error {
	c.UpdatedAt = s.now().UTC()
	if err := s.store.Save(ctx, c); err != nil {
		return fmt.Errorf("save conversion status: %w", err)
	}
	return nil
}

func (s *converterSrv) fail(ctx context.Context, c *model.Conversion, cause error) {
	logger.Errorf(ctx, "❌ Conversion failed: %v", cause)

	c.Status = model.ConversionStatusFailed
	c.Error = cause.Error()
	if err := s.save(context.WithoutCancel(ctx), c); err != nil {
		logger.Errorf(ctx, "❌ Could not mark conversion as failed: %v", err)
	}
}
