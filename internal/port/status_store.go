package port

import (
	"context"

	"github.com/fhuszti/medias-conversion-ms/internal/model"
	"github.com/fhuszti/medias-conversion-ms/internal/uuid"
)

// StatusStore keeps track of conversion requests and their remote jobs.
type StatusStore interface {
	Save(ctx context.Context, c *model.Conversion) error
	Get(ctx context.Context, id uuid.UUID) (*model.Conversion, error)
}
