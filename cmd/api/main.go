package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/fhuszti/medias-conversion-ms/internal/config"
	"github.com/fhuszti/medias-conversion-ms/internal/graph"
	"github.com/fhuszti/medias-conversion-ms/internal/handler/api"
	"github.com/fhuszti/medias-conversion-ms/internal/imagecmd"
	"github.com/fhuszti/medias-conversion-ms/internal/logger"
	cMiddleware "github.com/fhuszti/medias-conversion-ms/internal/middleware"
	"github.com/fhuszti/medias-conversion-ms/internal/port"
	"github.com/fhuszti/medias-conversion-ms/internal/renderer"
	"github.com/fhuszti/medias-conversion-ms/internal/sizespec"
	"github.com/fhuszti/medias-conversion-ms/internal/status"
	"github.com/fhuszti/medias-conversion-ms/internal/storage"
	"github.com/fhuszti/medias-conversion-ms/internal/task"
	"github.com/fhuszti/medias-conversion-ms/internal/taskgraph"
	conversionSvc "github.com/fhuszti/medias-conversion-ms/internal/usecase/conversion"
	msuuid "github.com/fhuszti/medias-conversion-ms/internal/uuid"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		logger.Errorf(ctx, "❌  Configuration error: %v", err)
		os.Exit(1)
	}

	logger.Init()

	r := initRouter(ctx, cfg.JWTPublicKey)

	strg := initStorage(ctx, cfg)
	store := status.NewRedisStore(cfg.RedisAddr, cfg.RedisPassword, cfg.StatusTTL)
	dispatcher := task.NewDispatcher(cfg.RedisAddr, cfg.RedisPassword)
	builder := initBuilder(cfg)
	sizes := defaultSizes(cfg)

	requesterSvc := conversionSvc.NewRequester(builder, strg, store, dispatcher, msuuid.NewUUID, sizes)
	r.Post("/conversions/images", api.ConvertImagesHandler(requesterSvc))
	r.Post("/conversions/videos", api.ConvertVideoHandler(requesterSvc))

	getterSvc := conversionSvc.NewGetter(store)
	rendererSvc := renderer.NewHTTPRenderer()
	r.With(cMiddleware.WithConversionID()).
		Get("/conversions/{id}", api.GetConversionHandler(rendererSvc, getterSvc))

	listenRouter(ctx, r, cfg, store)
}

func initRouter(ctx context.Context, jwtKey string) *chi.Mux {
	logger.Info(ctx, "initialising router...")

	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(cMiddleware.WithDSTAuth(jwtKey))

	r.NotFound(api.NotFoundHandler())
	r.MethodNotAllowed(api.MethodNotAllowedHandler())

	return r
}

func initStorage(ctx context.Context, cfg *config.Settings) port.Storage {
	strg, err := storage.NewMinioStorage(storage.Options{
		Endpoint:        cfg.S3.Endpoint,
		Region:          cfg.S3.Region,
		Bucket:          cfg.S3.Bucket,
		AccessKeyID:     cfg.S3.AccessKeyID,
		SecretAccessKey: cfg.S3.SecretAccessKey,
	})
	if err != nil {
		logger.Errorf(ctx, "❌  Failed to initialize MinIO client: %v", err)
		os.Exit(1)
	}

	if err := strg.InitBucket(ctx); err != nil {
		logger.Errorf(ctx, "❌  Failed to initialize bucket %q: %v", cfg.S3.Bucket, err)
		os.Exit(1)
	}

	return strg
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

func listenRouter(ctx context.Context, r *chi.Mux, cfg *config.Settings, store *status.RedisStore) {
	srv := &http.Server{Addr: ":" + strconv.Itoa(cfg.ServerPort), Handler: r}

	// start serving
	go func() {
		logger.Infof(ctx, "🚀 API listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			logger.Errorf(ctx, "❌  Listen error: %v", err)
			os.Exit(1)
		}
	}()

	// block until we get SIGINT/SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info(ctx, "🛑 Shutdown signal received, exiting…")

	// graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf(ctx, "❌  Server shutdown failed: %v", err)
		os.Exit(1)
	}
	logger.Info(ctx, "✅  Server gracefully stopped")

	if err := store.Close(); err != nil {
		logger.Errorf(ctx, "Status store close error: %v", err)
		os.Exit(1)
	}
}
