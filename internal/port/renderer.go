package port

import (
	"context"

	"github.com/fhuszti/medias-conversion-ms/internal/uuid"
)

// RenderedConversion is a conversion encoded for an HTTP response.
type RenderedConversion struct {
	Raw      []byte
	ETag     string
	Terminal bool
}

// HTTPRenderer mediates between HTTP handlers and the conversion getter.
type HTTPRenderer interface {
	RenderConversion(ctx context.Context, getter ConversionGetter, id uuid.UUID) (*RenderedConversion, error)
}
