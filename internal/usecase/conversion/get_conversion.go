package conversion

import (
	"context"

	"github.com/fhuszti/medias-conversion-ms/internal/model"
	"github.com/fhuszti/medias-conversion-ms/internal/port"
	"github.com/fhuszti/medias-conversion-ms/internal/uuid"
)

type getterSrv struct {
	store port.StatusStore
}

// compile-time check: *getterSrv must satisfy port.ConversionGetter
var _ port.ConversionGetter = (*getterSrv)(nil)

func NewGetter(store port.StatusStore) port.ConversionGetter {
	return &getterSrv{store}
}

func (s *getterSrv) GetConversion(ctx context.Context, id uuid.UUID) (*model.Conversion, error) {
	c, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrConversionNotFound
	}
	return c, nil
}
