package testutil

import (
	"context"
	"fmt"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	"github.com/fhuszti/medias-conversion-ms/internal/logger"
)

const readyProbeTimeout = 2 * time.Second

// container is a throwaway docker resource reachable on localhost.
type container struct {
	name    string
	addr string
	pool    *dockertest.Pool
	res     *dockertest.Resource
}

func (c *container) purge() {
	if err := c.pool.Purge(c.res); err != nil {
		logger.Warnf(context.Background(), "could not purge %s container: %s", c.name, err)
	}
}

// runContainer starts opts and retries ready with the host:port mapped to
// port until it succeeds or the pool gives up.
func runContainer(name string, opts *dockertest.RunOptions, port string, ready func(ctx context.Context, host string) error) (*container, error) {
	pool, err := dockertest.NewPool("")
	if err != nil {
		return nil, fmt.Errorf("could not connect to docker: %w", err)
	}

	res, err := pool.RunWithOptions(opts, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		return nil, fmt.Errorf("could not start %s container: %w", name, err)
	}

	c := &container{name: name, pool: pool, res: res}
	c.addr = "localhost:" + res.GetPort(port)

	if err := pool.Retry(func() error {
		ctx, cancel := context.WithTimeout(context.Background(), readyProbeTimeout)
		defer cancel()
		return ready(ctx, c.addr)
	}); err != nil {
		c.purge()
		return nil, fmt.Errorf("%s did not become ready: %w", name, err)
	}
	return c, nil
}
