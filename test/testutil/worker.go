package testutil

import (
	"context"
	"time"

	"github.com/fhuszti/medias-conversion-ms/internal/cloudconvert"
	workerHandler "github.com/fhuszti/medias-conversion-ms/internal/handler/worker"
	"github.com/fhuszti/medias-conversion-ms/internal/metrics"
	"github.com/fhuszti/medias-conversion-ms/internal/port"
	"github.com/fhuszti/medias-conversion-ms/internal/task"
	conversionSvc "github.com/fhuszti/medias-conversion-ms/internal/usecase/conversion"
	"github.com/hibiken/asynq"

	"github.com/fhuszti/medias-conversion-ms/internal/logger"
)

// StartWorker starts an asynq worker processing conversion tasks against
// the engine at engineURL. It returns a function to gracefully shut down the worker.
func StartWorker(builder port.GraphBuilder, store port.StatusStore, engineURL, redisAddr string, sizes []string) func() {
	gateway := cloudconvert.New(cloudconvert.Options{
		APIKey:       "test",
		BaseURL:      engineURL,
		PollInterval: 50 * time.Millisecond,
	})
	converterSvc := conversionSvc.NewConverter(builder, gateway, store, metrics.New(metrics.Options{}), sizes)

	mux := asynq.NewServeMux()
	mux.HandleFunc(task.TypeConvertImages, func(ctx context.Context, t *asynq.Task) error {
		p, err := task.ParseConvertImagesPayload(t)
		if err != nil {
			return err
		}
		return workerHandler.ConvertImagesHandler(ctx, p, converterSvc)
	})
	mux.HandleFunc(task.TypeConvertVideo, func(ctx context.Context, t *asynq.Task) error {
		p, err := task.ParseConvertVideoPayload(t)
		if err != nil {
			return err
		}
		return workerHandler.ConvertVideoHandler(ctx, p, converterSvc)
	})

	srv := asynq.NewServer(asynq.RedisClientOpt{Addr: redisAddr}, asynq.Config{Concurrency: 2})
	go func() {
		if err := srv.Run(mux); err != nil {
			logger.Errorf(context.Background(), "worker stopped: %v", err)
		}
	}()

	return func() {
		srv.Shutdown()
	}
}
