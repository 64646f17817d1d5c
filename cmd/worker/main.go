package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fhuszti/medias-conversion-ms/internal/cloudconvert"
	"github.com/fhuszti/medias-conversion-ms/internal/config"
	"github.com/fhuszti/medias-conversion-ms/internal/graph"
	workerHandler "github.com/fhuszti/medias-conversion-ms/internal/handler/worker"
	"github.com/fhuszti/medias-conversion-ms/internal/imagecmd"
	"github.com/fhuszti/medias-conversion-ms/internal/metrics"
	"github.com/fhuszti/medias-conversion-ms/internal/sizespec"
	"github.com/fhuszti/medias-conversion-ms/internal/status"
	"github.com/fhuszti/medias-conversion-ms/internal/task"
	"github.com/fhuszti/medias-conversion-ms/internal/taskgraph"
	conversionSvc "github.com/fhuszti/medias-conversion-ms/internal/usecase/conversion"
	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/fhuszti/medias-conversion-ms/internal/logger"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		logger.Errorf(ctx, "❌  Configuration error: %v", err)
		os.Exit(1)
	}

	logger.Init()

	store := status.NewRedisStore(cfg.RedisAddr, cfg.RedisPassword, cfg.StatusTTL)
	defer func() {
		if err := store.Close(); err != nil {
			logger.Warnf(ctx, "Status store close error: %v", err)
		}
	}()

	gateway := cloudconvert.New(cloudconvert.Options{
		APIKey:       cfg.CloudConvertAPIKey,
		Sandbox:      cfg.CloudConvertSandbox,
		PollInterval: cfg.CloudConvertPollInterval,
	})
	if cfg.CloudConvertSandbox {
		logger.Warn(ctx, "⚠️  CloudConvert sandbox is enabled")
	}

	hostname, _ := os.Hostname()
	m := metrics.New(metrics.Options{Labels: prometheus.Labels{"pod": hostname}})

	converterSvc := conversionSvc.NewConverter(initBuilder(cfg), gateway, store, m, defaultSizes(cfg))

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

	runWorker(ctx, mux, cfg, m)
}

func initBuilder(cfg *config.Settings) *taskgraph.Builder {
	s3 := graph.S3{
		Bucket:          cfg.S3.Bucket,
		Endpoint:        cfg.S3.Endpoint,
		Region:          cfg.S3.Region,
		AccessKeyID:     cfg.S3.AccessKeyID,
		SecretAccessKey: cfg.S3.SecretAccessKey,
	}
	limits := sizespec.Limits{MaxWidth: cfg.MaxWidth, MaxHeight: cfg.MaxHeight}
	return taskgraph.NewBuilder(s3, imagecmd.NewCompiler(limits))
}

func defaultSizes(cfg *config.Settings) []string {
	if cfg.ImagesSizes != nil {
		return cfg.ImagesSizes
	}
	return taskgraph.DefaultSizes
}

func runWorker(ctx context.Context, mux *asynq.ServeMux, cfg *config.Settings, m *metrics.Instance) {
	srv := asynq.NewServer(asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}, asynq.Config{
		Concurrency:     cfg.WorkerConcurrency,
		ShutdownTimeout: 30 * time.Second,
	})

	metricsCtx, stopMetrics := context.WithCancel(ctx)
	metricsDone := metrics.Serve(metricsCtx, m, cfg.MetricsBind)

	// Run server in background
	go func() {
		if err := srv.Run(mux); err != nil {
			logger.Errorf(context.Background(), "❌  Worker failed: %v", err)
			os.Exit(1)
		}
	}()
	logger.Infof(ctx, "🚀 Worker started with concurrency %d", cfg.WorkerConcurrency)

	// Wait for interrupt signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh
	logger.Info(ctx, "🛑 Shutdown signal received, exiting…")

	// Give Asynq up to 30 sec to finish tasks
	srv.Shutdown()

	stopMetrics()
	select {
	case <-metricsDone:
	case <-time.After(5 * time.Second):
		logger.Warn(ctx, "metrics server did not stop in time")
	}
	logger.Info(ctx, "✅  Worker gracefully stopped")
}
