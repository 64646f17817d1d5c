package port

import "context"

// Storage exposes the object store holding the source files.
type Storage interface {
	InitBucket(ctx context.Context) error
	ObjectExists(ctx context.Context, objectKey string) (bool, error)
}
