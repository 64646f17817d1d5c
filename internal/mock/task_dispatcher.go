package mock

import (
	"context"

	"github.com/fhuszti/medias-conversion-ms/internal/port"
)

// MockDispatcher implements port.TaskDispatcher for tests.
type MockDispatcher struct {
	ImagesCalled bool
	ImagesInputs []port.ConvertImagesInput
	ImagesErr    error

	VideoCalled bool
	VideoInputs []port.ConvertVideoInput
	VideoErr    error
}

func (m *MockDispatcher) EnqueueConvertImages(ctx context.Context, in port.ConvertImagesInput) error {
	m.ImagesCalled = true
	m.ImagesInputs = append(m.ImagesInputs, in)
	return m.ImagesErr
}

func (m *MockDispatcher) EnqueueConvertVideo(ctx context.Context, in port.ConvertVideoInput) error {
	m.VideoCalled = true
	m.VideoInputs = append(m.VideoInputs, in)
	return m.VideoErr
}
