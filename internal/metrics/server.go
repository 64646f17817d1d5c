package metrics

import (
	"context"

	"github.com/fhuszti/medias-conversion-ms/internal/logger"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

// NewServer exposes the instance registry in the Prometheus text format.
func NewServer(m *Instance) *fasthttp.Server {
	registry := m.Registry()
	return &fasthttp.Server{
		Handler: fasthttpadaptor.NewFastHTTPHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{
			Registry:          registry,
			EnableOpenMetrics: true,
		})),
		GetOnly:          true,
		DisableKeepalive: true,
	}
}

// Serve runs the metrics server on bind until ctx is done. The returned
// channel is closed once the server has stopped.
func Serve(ctx context.Context, m *Instance, bind string) <-chan struct{} {
	server := NewServer(m)

	done := make(chan struct{})
	go func() {
		defer close(done)
		logger.Infof(ctx, "📈 Metrics enabled on %s", bind)
		if err := server.ListenAndServe(bind); err != nil {
			logger.Errorf(ctx, "❌ Metrics server failed: %v", err)
		}
	}()

	go func() {
		<-ctx.Done()
		_ = server.Shutdown()
	}()
	return done
}
