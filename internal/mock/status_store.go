package mock

import (
	"context"

	"github.com/fhuszti/medias-conversion-ms/internal/model"
	"github.com/fhuszti/medias-conversion-ms/internal/uuid"
)

// StatusStore implements port.StatusStore for tests. Every saved record is
// copied into Saved so status transitions can be asserted.
type StatusStore struct {
	Records map[uuid.UUID]*model.Conversion
	Saved   []model.Conversion

	SaveErr error
	GetErr  error

	GetCalled bool
}

func (s *StatusStore) Save(ctx context.Context, c *model.Conversion) error {
	if s.SaveErr != nil {
		return s.SaveErr
	}
	if s.Records == nil {
		s.Records = make(map[uuid.UUID]*model.Conversion)
	}
	cp := *c
	s.Records[c.ID] = &cp
	s.Saved = append(s.Saved, cp)
	return nil
}

func (s *StatusStore) Get(ctx context.Context, id uuid.UUID) (*model.Conversion, error) {
	s.GetCalled = true
	if s.GetErr != nil {
		return nil, s.GetErr
	}
	c, ok := s.Records[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

// Statuses lists the saved statuses in order.
func (s *StatusStore) Statuses() []model.ConversionStatus {
	out := make([]model.ConversionStatus, 0, len(s.Saved))
	for _, c := range s.Saved {
		out = append(out, c.Status)
	}
	return out
}
