package config

import (
	"os"
	"reflect"
	"testing"
	"time"
)

var requiredEnv = map[string]string{
	"REDIS_ADDR":           "localhost:6379",
	"CLOUDCONVERT_API_KEY": "cc-key",
	"S3_BUCKET":            "media",
	"S3_ENDPOINT":          "https://s3.example.com",
	"S3_REGION":            "eu-west-1",
	"S3_ACCESS_KEY_ID":     "AKID",
	"S3_SECRET_ACCESS_KEY": "secret",
}

// isolate switches to a temp directory to avoid loading a real .env.
func isolate(t *testing.T) {
	t.Helper()
	origDir, err := os.Getwd()
	if err != nil {
		t.Fatalf("could not get working directory: %v", err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatalf("could not chdir to temp dir: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(origDir); err != nil {
			t.Fatalf("could not chdir back to original dir: %v", err)
		}
	})
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)
	for k, v := range requiredEnv {
		t.Setenv(k, v)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.ServerPort != 8080 {
		t.Errorf("ServerPort: expected 8080, got %d", cfg.ServerPort)
	}
	if cfg.RedisAddr != "localhost:6379" {
		t.Errorf("RedisAddr: got %q", cfg.RedisAddr)
	}
	if cfg.CloudConvertAPIKey != "cc-key" || cfg.CloudConvertSandbox {
		t.Errorf("CloudConvert: got key %q sandbox %v", cfg.CloudConvertAPIKey, cfg.CloudConvertSandbox)
	}
	if cfg.CloudConvertPollInterval != 2*time.Second {
		t.Errorf("CloudConvertPollInterval: got %v", cfg.CloudConvertPollInterval)
	}
	want := S3Settings{
		Bucket:          "media",
		Endpoint:        "https://s3.example.com",
		Region:          "eu-west-1",
		AccessKeyID:     "AKID",
		SecretAccessKey: "secret",
	}
	if cfg.S3 != want {
		t.Errorf("S3: got %+v, want %+v", cfg.S3, want)
	}
	if cfg.MaxWidth != 2000 || cfg.MaxHeight != 2000 {
		t.Errorf("limits: got %dx%d", cfg.MaxWidth, cfg.MaxHeight)
	}
	if cfg.ImagesSizes != nil {
		t.Errorf("ImagesSizes: expected nil, got %v", cfg.ImagesSizes)
	}
	if cfg.StatusTTL != 24*time.Hour {
		t.Errorf("StatusTTL: got %v", cfg.StatusTTL)
	}
	if cfg.WorkerConcurrency != 10 {
		t.Errorf("WorkerConcurrency: got %d", cfg.WorkerConcurrency)
	}
	if cfg.MetricsBind != ":9100" {
		t.Errorf("MetricsBind: got %q", cfg.MetricsBind)
	}
}

func TestLoad_Overrides(t *testing.T) {
	isolate(t)
	for k, v := range requiredEnv {
		t.Setenv(k, v)
	}
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("CLOUDCONVERT_SANDBOX", "true")
	t.Setenv("CLOUDCONVERT_POLL_INTERVAL", "5")
	t.Setenv("MAX_WIDTH", "1500")
	t.Setenv("MAX_HEIGHT", "1000")
	t.Setenv("IMAGES_SIZES", "100x100, 200xxx,,max900 ")
	t.Setenv("STATUS_TTL", "60")
	t.Setenv("WORKER_CONCURRENCY", "3")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.ServerPort != 9000 {
		t.Errorf("ServerPort: got %d", cfg.ServerPort)
	}
	if !cfg.CloudConvertSandbox {
		t.Error("expected sandbox mode")
	}
	if cfg.CloudConvertPollInterval != 5*time.Second {
		t.Errorf("CloudConvertPollInterval: got %v", cfg.CloudConvertPollInterval)
	}
	if cfg.MaxWidth != 1500 || cfg.MaxHeight != 1000 {
		t.Errorf("limits: got %dx%d", cfg.MaxWidth, cfg.MaxHeight)
	}
	if want := []string{"100x100", "200xxx", "max900"}; !reflect.DeepEqual(cfg.ImagesSizes, want) {
		t.Errorf("ImagesSizes: got %v, want %v", cfg.ImagesSizes, want)
	}
	if cfg.StatusTTL != time.Minute {
		t.Errorf("StatusTTL: got %v", cfg.StatusTTL)
	}
	if cfg.WorkerConcurrency != 3 {
		t.Errorf("WorkerConcurrency: got %d", cfg.WorkerConcurrency)
	}
}

func TestLoad_MissingRequiredVars(t *testing.T) {
	for missing := range requiredEnv {
		t.Run(missing, func(t *testing.T) {
			isolate(t)
			for k, v := range requiredEnv {
				if k == missing {
					t.Setenv(k, "")
					continue
				}
				t.Setenv(k, v)
			}

			cfg, err := Load()
			if err == nil {
				t.Fatalf("expected error for missing %s, got nil", missing)
			}
			if want := missing + " is required"; err.Error() != want {
				t.Errorf("error = %q; want %q", err.Error(), want)
			}
			if cfg != nil {
				t.Errorf("expected cfg nil on error, got %#v", cfg)
			}
		})
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	cases := map[string]string{
		"MAX_WIDTH":                  "0",
		"CLOUDCONVERT_POLL_INTERVAL": "-1",
		"WORKER_CONCURRENCY":         "0",
	}
	for key, val := range cases {
		t.Run(key, func(t *testing.T) {
			isolate(t)
			for k, v := range requiredEnv {
				t.Setenv(k, v)
			}
			t.Setenv(key, val)

			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%s", key, val)
			}
		})
	}
}
