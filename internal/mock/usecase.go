package mock

import (
	"context"

	"github.com/fhuszti/medias-conversion-ms/internal/model"
	"github.com/fhuszti/medias-conversion-ms/internal/port"
	"github.com/fhuszti/medias-conversion-ms/internal/uuid"
)

// MockRequester implements port.ConversionRequester for tests.
type MockRequester struct {
	IDOut uuid.UUID
	Err   error

	ImagesIn *port.ConvertImagesInput
	VideoIn  *port.ConvertVideoInput
}

func (m *MockRequester) RequestImages(ctx context.Context, in port.ConvertImagesInput) (uuid.UUID, error) {
	m.ImagesIn = &in
	return m.IDOut, m.Err
}

func (m *MockRequester) RequestVideo(ctx context.Context, in port.ConvertVideoInput) (uuid.UUID, error) {
	m.VideoIn = &in
	return m.IDOut, m.Err
}

// MockConverter implements port.Converter for tests.
type MockConverter struct {
	Err error

	ImagesIn *port.ConvertImagesInput
	VideoIn  *port.ConvertVideoInput
}

func (m *MockConverter) ConvertImages(ctx context.Context, in port.ConvertImagesInput) error {
	m.ImagesIn = &in
	return m.Err
}

func (m *MockConverter) ConvertVideo(ctx context.Context, in port.ConvertVideoInput) error {
	m.VideoIn = &in
	return m.Err
}

// MockConversionGetter implements port.ConversionGetter for tests.
type MockConversionGetter struct {
	Out    *model.Conversion
	Err    error
	Called bool
	ID     uuid.UUID
}

func (m *MockConversionGetter) GetConversion(ctx context.Context, id uuid.UUID) (*model.Conversion, error) {
	m.Called = true
	m.ID = id
	return m.Out, m.Err
}
