package storage

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/fhuszti/medias-conversion-ms/internal/logger"
	"github.com/fhuszti/medias-conversion-ms/internal/port"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Options describes the single bucket the conversion graphs import from and
// export to.
type Options struct {
	Endpoint        string
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
}

type MinioStorage struct {
	client     minioClient
	bucketName string
	region     string
}

// compile-time check: *MinioStorage must satisfy port.Storage
var _ port.Storage = (*MinioStorage)(nil)

func NewMinioStorage(o Options) (*MinioStorage, error) {
	host, useSSL, err := SplitEndpoint(o.Endpoint)
	if err != nil {
		return nil, err
	}

	logger.Infof(context.Background(), "initialising minio client for %s...", host)
	client, err := minio.New(host, &minio.Options{
		Creds:  credentials.NewStaticV4(o.AccessKeyID, o.SecretAccessKey, ""),
		Secure: useSSL,
		Region: o.Region,
	})
	if err != nil {
		return nil, mapMinioErr(err)
	}
	return &MinioStorage{client: client, bucketName: o.Bucket, region: o.Region}, nil
}

// SplitEndpoint turns an endpoint URL into the host minio expects and whether
// TLS is used. A bare host defaults to TLS.
func SplitEndpoint(endpoint string) (string, bool, error) {
	if endpoint == "" {
		return "", false, errors.New("storage endpoint is empty")
	}
	if !strings.Contains(endpoint, "://") {
		return strings.TrimSuffix(endpoint, "/"), true, nil
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", false, fmt.Errorf("invalid storage endpoint %q: %w", endpoint, err)
	}
	if u.Host == "" {
		return "", false, fmt.Errorf("invalid storage endpoint %q: missing host", endpoint)
	}
	switch u.Scheme {
	case "https":
		return u.Host, true, nil
	case "http":
		return u.Host, false, nil
	default:
		return "", false, fmt.Errorf("invalid storage endpoint %q: unsupported scheme %q", endpoint, u.Scheme)
	}
}

// InitBucket creates the bucket when it does not exist yet.
func (s *MinioStorage) InitBucket(ctx context.Context) error {
	ok, err := s.client.BucketExists(ctx, s.bucketName)
	if err != nil {
		return mapMinioErr(err)
	}
	if ok {
		return nil
	}
	logger.Warnf(ctx, "bucket %q does not exist, creating it...", s.bucketName)
	if err := s.client.MakeBucket(ctx, s.bucketName, minio.MakeBucketOptions{Region: s.region}); err != nil {
		return mapMinioErr(err)
	}
	return nil
}

func (s *MinioStorage) ObjectExists(ctx context.Context, objectKey string) (bool, error) {
	logger.Debugf(ctx, "checking if object %q exists in bucket %q...", objectKey, s.bucketName)

	_, err := s.client.StatObject(ctx, s.bucketName, objectKey, minio.StatObjectOptions{})
	err = mapMinioErr(err)
	if errors.Is(err, ErrObjectNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
