package renderer

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cespare/xxhash/v2"
	"github.com/fhuszti/medias-conversion-ms/internal/port"
	"github.com/fhuszti/medias-conversion-ms/internal/uuid"
)

type httpRenderer struct{}

// compile-time check: *httpRenderer must satisfy port.HTTPRenderer
var _ port.HTTPRenderer = (*httpRenderer)(nil)

func NewHTTPRenderer() port.HTTPRenderer {
	return &httpRenderer{}
}

// RenderConversion fetches the conversion and returns its JSON encoding with a
// quoted ETag derived from it.
func (r *httpRenderer) RenderConversion(ctx context.Context, getter port.ConversionGetter, id uuid.UUID) (*port.RenderedConversion, error) {
	c, err := getter.GetConversion(ctx, id)
	if err != nil {
		return nil, err
	}

	raw, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("json marshal: %w", err)
	}

	return &port.RenderedConversion{
		Raw:      raw,
		ETag:     fmt.Sprintf("\"%016x\"", xxhash.Sum64(raw)),
		Terminal: c.Terminal(),
	}, nil
}
