package port

import (
	"context"

	"github.com/fhuszti/medias-conversion-ms/internal/graph"
	"github.com/fhuszti/medias-conversion-ms/internal/imagecmd"
	"github.com/fhuszti/medias-conversion-ms/internal/model"
	"github.com/fhuszti/medias-conversion-ms/internal/uuid"
)

type UUIDGen func() uuid.UUID

type ConvertImagesInput struct {
	ID        uuid.UUID      `json:"id" validate:"required"`
	InputFile string         `json:"input_file" validate:"required"`
	ExportDir string         `json:"export_dir" validate:"required"`
	Crop      *imagecmd.Crop `json:"crop,omitempty"`
	Sizes     []string       `json:"sizes" validate:"omitempty,max=32,dive,sizetoken"`
}

type ConvertVideoInput struct {
	ID              uuid.UUID `json:"id" validate:"required"`
	InputFile       string    `json:"input_file" validate:"required"`
	ExportDirImages string    `json:"export_dir_images" validate:"required"`
	ExportFile      string    `json:"export_file" validate:"required"`
	ThumbnailFile   string    `json:"thumbnail_file"`
	Sizes           []string  `json:"sizes" validate:"omitempty,max=32,dive,sizetoken"`
}

// GraphBuilder turns conversion inputs into graphs for the remote engine.
type GraphBuilder interface {
	BuildImageGraph(inputFile, exportDir string, crop *imagecmd.Crop, sizes []string) (*graph.Graph, error)
	BuildVideoGraph(inputFile, exportDirImages, exportFile, thumbnailFile string, sizes []string) (*graph.Graph, error)
}

// ConversionRequester validates a conversion request and queues it.
type ConversionRequester interface {
	RequestImages(ctx context.Context, in ConvertImagesInput) (uuid.UUID, error)
	RequestVideo(ctx context.Context, in ConvertVideoInput) (uuid.UUID, error)
}

// Converter builds the graph, submits it and blocks until the remote job ends.
type Converter interface {
	ConvertImages(ctx context.Context, in ConvertImagesInput) error
	ConvertVideo(ctx context.Context, in ConvertVideoInput) error
}

// ConversionGetter returns the current state of a conversion.
type ConversionGetter interface {
	GetConversion(ctx context.Context, id uuid.UUID) (*model.Conversion, error)
}
