package storage

import (
	"errors"
	"fmt"

	"github.com/minio/minio-go/v7"
)

var (
	ErrObjectNotFound = errors.New("object not found")
	ErrBucketNotFound = errors.New("bucket not found")
	ErrUnauthorized   = errors.New("storage access denied")
	ErrInternal       = errors.New("storage internal error")
)

func mapMinioErr(err error) error {
	if err == nil {
		return nil
	}
	resp := minio.ToErrorResponse(err)
	switch resp.Code {
	case "NoSuchKey", "NotFound":
		return ErrObjectNotFound
	case "NoSuchBucket":
		return ErrBucketNotFound
	case "AccessDenied", "InvalidAccessKeyId", "SignatureDoesNotMatch":
		return ErrUnauthorized
	default:
		// catch everything else
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}
}
