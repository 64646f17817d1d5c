package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Settings struct {
	ServerPort int

	RedisAddr     string
	RedisPassword string

	// JWTPublicKey is a PEM-encoded RSA key; auth is disabled when empty.
	JWTPublicKey string

	CloudConvertAPIKey       string
	CloudConvertSandbox      bool
	CloudConvertPollInterval time.Duration

	S3 S3Settings

	MaxWidth    int
	MaxHeight   int
	ImagesSizes []string

	StatusTTL         time.Duration
	WorkerConcurrency int
	MetricsBind       string
}

type S3Settings struct {
	Bucket          string
	Endpoint        string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
}

var required = []string{
	"REDIS_ADDR",
	"CLOUDCONVERT_API_KEY",
	"S3_BUCKET",
	"S3_ENDPOINT",
	"S3_REGION",
	"S3_ACCESS_KEY_ID",
	"S3_SECRET_ACCESS_KEY",
}

func Load() (*Settings, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found; proceeding with OS environment variables")
	}

	v := viper.New()
	v.AutomaticEnv()

	v.SetConfigFile(".env")
	v.SetConfigType("env")

	if err := v.ReadInConfig(); err != nil {
		log.Printf("Warning: could not read .env file: %v", err)
	}

	v.SetDefault("SERVER_PORT", 8080)
	v.SetDefault("CLOUDCONVERT_SANDBOX", false)
	v.SetDefault("CLOUDCONVERT_POLL_INTERVAL", 2)
	v.SetDefault("MAX_WIDTH", 2000)
	v.SetDefault("MAX_HEIGHT", 2000)
	v.SetDefault("STATUS_TTL", 86400)
	v.SetDefault("WORKER_CONCURRENCY", 10)
	v.SetDefault("METRICS_BIND", ":9100")

	for _, key := range required {
		if strings.TrimSpace(v.GetString(key)) == "" {
			return nil, fmt.Errorf("%s is required", key)
		}
	}

	s := &Settings{
		ServerPort:               v.GetInt("SERVER_PORT"),
		RedisAddr:                v.GetString("REDIS_ADDR"),
		RedisPassword:            v.GetString("REDIS_PASSWORD"),
		JWTPublicKey:             v.GetString("JWT_PUBLIC_KEY"),
		CloudConvertAPIKey:       v.GetString("CLOUDCONVERT_API_KEY"),
		CloudConvertSandbox:      v.GetBool("CLOUDCONVERT_SANDBOX"),
		CloudConvertPollInterval: time.Duration(v.GetInt("CLOUDCONVERT_POLL_INTERVAL")) * time.Second,
		S3: S3Settings{
			Bucket:          v.GetString("S3_BUCKET"),
			Endpoint:        v.GetString("S3_ENDPOINT"),
			Region:          v.GetString("S3_REGION"),
			AccessKeyID:     v.GetString("S3_ACCESS_KEY_ID"),
			SecretAccessKey: v.GetString("S3_SECRET_ACCESS_KEY"),
		},
		MaxWidth:          v.GetInt("MAX_WIDTH"),
		MaxHeight:         v.GetInt("MAX_HEIGHT"),
		ImagesSizes:       splitList(v.GetString("IMAGES_SIZES")),
		StatusTTL:         time.Duration(v.GetInt("STATUS_TTL")) * time.Second,
		WorkerConcurrency: v.GetInt("WORKER_CONCURRENCY"),
		MetricsBind:       v.GetString("METRICS_BIND"),
	}

	if s.MaxWidth <= 0 || s.MaxHeight <= 0 {
		return nil, fmt.Errorf("MAX_WIDTH and MAX_HEIGHT must be positive")
	}
	if s.CloudConvertPollInterval <= 0 {
		return nil, fmt.Errorf("CLOUDCONVERT_POLL_INTERVAL must be positive")
	}
	if s.WorkerConcurrency <= 0 {
		return nil, fmt.Errorf("WORKER_CONCURRENCY must be positive")
	}

	return s, nil
}

// splitList splits a comma separated list, dropping blanks. An empty input
// gives nil so callers fall back to their defaults.
func splitList(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
