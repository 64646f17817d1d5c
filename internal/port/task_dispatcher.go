package port

import "context"

// TaskDispatcher enqueues conversions for the worker.
type TaskDispatcher interface {
	EnqueueConvertImages(ctx context.Context, in ConvertImagesInput) error
	EnqueueConvertVideo(ctx context.Context, in ConvertVideoInput) error
}
