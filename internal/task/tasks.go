package task

import (
	"encoding/json"
	"fmt"

	"github.com/fhuszti/medias-conversion-ms/internal/port"
	"github.com/hibiken/asynq"
)

const (
	TypeConvertImages = "conversion:images"
	TypeConvertVideo  = "conversion:video"
)

// NewConvertImagesTask creates an Asynq task building and running an image-set graph.
func NewConvertImagesTask(in port.ConvertImagesInput) (*asynq.Task, error) {
	data, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("could not marshal convert-images payload: %w", err)
	}
	return asynq.NewTask(TypeConvertImages, data), nil
}

// ParseConvertImagesPayload parses the task payload to port.ConvertImagesInput.
func ParseConvertImagesPayload(t *asynq.Task) (port.ConvertImagesInput, error) {
	var p port.ConvertImagesInput
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return port.ConvertImagesInput{}, fmt.Errorf("could not unmarshal payload: %w", err)
	}
	return p, nil
}

// NewConvertVideoTask creates an Asynq task building and running a video graph.
func NewConvertVideoTask(in port.ConvertVideoInput) (*asynq.Task, error) {
	data, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("could not marshal convert-video payload: %w", err)
	}
	return asynq.NewTask(TypeConvertVideo, data), nil
}

// ParseConvertVideoPayload parses the task payload to port.ConvertVideoInput.
func ParseConvertVideoPayload(t *asynq.Task) (port.ConvertVideoInput, error) {
	var p port.ConvertVideoInput
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return port.ConvertVideoInput{}, fmt.Errorf("could not unmarshal payload: %w", err)
	}
	return p, nil
}
