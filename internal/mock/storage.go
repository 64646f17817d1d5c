package mock

import "context"

// Storage implements port.Storage for tests.
type Storage struct {
	ExistsOut bool

	// captured inputs
	ObjectKey string

	// errors
	InitBucketErr error
	ExistsErr     error

	// call flags
	InitBucketCalled bool
	ExistsCalled     bool
}

func (s *Storage) InitBucket(ctx context.Context) error {
	s.InitBucketCalled = true
	return s.InitBucketErr
}

func (s *Storage) ObjectExists(ctx context.Context, objectKey string) (bool, error) {
	s.ExistsCalled = true
	s.ObjectKey = objectKey
	if s.ExistsErr != nil {
		return false, s.ExistsErr
	}
	return s.ExistsOut, nil
}
