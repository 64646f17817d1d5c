package testutil

import (
	"context"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/ory/dockertest/v3"
)

const (
	MinIORootUser     = "minioadmin"
	MinIORootPassword = "minioadmin"
)

type MinIOContainerInfo struct {
	// Endpoint is a full URL, as the service expects it in S3_ENDPOINT.
	Endpoint string
	Client   *minio.Client
	Cleanup  func()
}

func StartMinIOContainer() (*MinIOContainerInfo, error) {
	opts := &dockertest.RunOptions{
		Repository: "minio/minio",
		Tag:        "latest",
		Env: []string{
			"MINIO_ROOT_USER=" + MinIORootUser,
			"MINIO_ROOT_PASSWORD=" + MinIORootPassword,
		},
		Cmd: []string{"server", "/data"},
	}

	var client *minio.Client
	c, err := runContainer("minio", opts, "9000/tcp", func(ctx context.Context, host string) error {
		var err error
		client, err = minio.New(host, &minio.Options{
			Creds: credentials.NewStaticV4(MinIORootUser, MinIORootPassword, ""),
		})
		if err != nil {
			return err
		}
		_, err = client.ListBuckets(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}

	return &MinIOContainerInfo{
		Endpoint: "http://" + c.addr,
		Client:   client,
		Cleanup:  c.purge,
	}, nil
}
