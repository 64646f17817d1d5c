package task

import (
	"context"
	"errors"
	"testing"

	"github.com/fhuszti/medias-conversion-ms/internal/imagecmd"
	"github.com/fhuszti/medias-conversion-ms/internal/port"
	"github.com/fhuszti/medias-conversion-ms/internal/uuid"
	"github.com/hibiken/asynq"
)

type mockEnqueuer struct {
	task *asynq.Task
	opts []asynq.Option
	err  error
}

func (m *mockEnqueuer) EnqueueContext(_ context.Context, t *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	m.task = t
	m.opts = opts
	if m.err != nil {
		return nil, m.err
	}
	return &asynq.TaskInfo{ID: "x", Type: t.Type()}, nil
}

func optionValues(opts []asynq.Option) map[asynq.OptionType]interface{} {
	out := make(map[asynq.OptionType]interface{})
	for _, o := range opts {
		out[o.Type()] = o.Value()
	}
	return out
}

func TestEnqueueConvertImages(t *testing.T) {
	m := &mockEnqueuer{}
	d := &Dispatcher{client: m}

	in := port.ConvertImagesInput{
		ID:        uuid.NewUUID(),
		InputFile: "uploads/photo.png",
		ExportDir: "exports/photo",
		Crop:      &imagecmd.Crop{X1: 1, Y1: 2, X2: 30, Y2: 40},
		Sizes:     []string{"100x100", "200xxx"},
	}
	if err := d.EnqueueConvertImages(context.Background(), in); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if m.task.Type() != TypeConvertImages {
		t.Errorf("type = %q; want %q", m.task.Type(), TypeConvertImages)
	}
	got, err := ParseConvertImagesPayload(m.task)
	if err != nil {
		t.Fatalf("parse payload: %v", err)
	}
	if got.ID != in.ID || got.InputFile != in.InputFile || got.ExportDir != in.ExportDir {
		t.Errorf("payload = %+v; want %+v", got, in)
	}
	if got.Crop == nil || *got.Crop != *in.Crop {
		t.Errorf("crop = %+v; want %+v", got.Crop, in.Crop)
	}
	if len(got.Sizes) != 2 || got.Sizes[1] != "200xxx" {
		t.Errorf("sizes = %v", got.Sizes)
	}

	opts := optionValues(m.opts)
	if opts[asynq.MaxRetryOpt] != 0 {
		t.Errorf("MaxRetry = %v; want 0", opts[asynq.MaxRetryOpt])
	}
	if opts[asynq.TaskIDOpt] != in.ID.String() {
		t.Errorf("TaskID = %v; want %s", opts[asynq.TaskIDOpt], in.ID)
	}
	if opts[asynq.TimeoutOpt] != ConversionTimeout {
		t.Errorf("Timeout = %v; want %v", opts[asynq.TimeoutOpt], ConversionTimeout)
	}
}

func TestEnqueueConvertVideo(t *testing.T) {
	m := &mockEnqueuer{}
	d := &Dispatcher{client: m}

	in := port.ConvertVideoInput{
		ID:              uuid.NewUUID(),
		InputFile:       "uploads/clip.mov",
		ExportDirImages: "exports/clip/images",
		ExportFile:      "exports/clip/clip.mp4",
		ThumbnailFile:   "exports/clip/cover.jpg",
	}
	if err := d.EnqueueConvertVideo(context.Background(), in); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.task.Type() != TypeConvertVideo {
		t.Errorf("type = %q; want %q", m.task.Type(), TypeConvertVideo)
	}
	got, err := ParseConvertVideoPayload(m.task)
	if err != nil {
		t.Fatalf("parse payload: %v", err)
	}
	if got.ID != in.ID || got.ExportFile != in.ExportFile || got.ThumbnailFile != in.ThumbnailFile || got.Sizes != nil {
		t.Errorf("payload = %+v; want %+v", got, in)
	}
}

func TestEnqueue_Error(t *testing.T) {
	d := &Dispatcher{client: &mockEnqueuer{err: asynq.ErrTaskIDConflict}}
	err := d.EnqueueConvertImages(context.Background(), port.ConvertImagesInput{ID: uuid.NewUUID()})
	if !errors.Is(err, asynq.ErrTaskIDConflict) {
		t.Fatalf("expected ErrTaskIDConflict, got %v", err)
	}
}

func TestParsePayload_Invalid(t *testing.T) {
	bad := asynq.NewTask(TypeConvertImages, []byte("{"))
	if _, err := ParseConvertImagesPayload(bad); err == nil {
		t.Error("expected error for invalid images payload")
	}
	bad = asynq.NewTask(TypeConvertVideo, []byte("nope"))
	if _, err := ParseConvertVideoPayload(bad); err == nil {
		t.Error("expected error for invalid video payload")
	}
}
