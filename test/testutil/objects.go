package testutil

import (
	"bytes"
	"context"
	"testing"

	"github.com/minio/minio-go/v7"
)

// PutObject uploads a small placeholder object so source checks pass.
func PutObject(t *testing.T, client *minio.Client, bucket, key string) {
	t.Helper()
	content := []byte("placeholder media content")
	_, err := client.PutObject(context.Background(), bucket, key, bytes.NewReader(content), int64(len(content)),
		minio.PutObjectOptions{ContentType: "application/octet-stream"})
	if err != nil {
		t.Fatalf("put object %s/%s: %v", bucket, key, err)
	}
}

// RemoveBucket empties and drops bucket.
func RemoveBucket(client *minio.Client, bucket string) error {
	ctx := context.Background()
	for obj := range client.ListObjects(ctx, bucket, minio.ListObjectsOptions{Recursive: true}) {
		if obj.Err != nil {
			continue
		}
		_ = client.RemoveObject(ctx, bucket, obj.Key, minio.RemoveObjectOptions{})
	}
	return client.RemoveBucket(ctx, bucket)
}
