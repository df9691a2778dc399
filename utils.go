package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap/zapcore"
)

const (
	DefaultScratchDir         = "/tmp"
	DefaultFFmpegBinaryFolder = "/opt/bin"
	DefaultLogLevel           = "info"
)

type Config struct {
	ScratchDir         string
	FFmpegBinaryFolder string

	// StorageEndpoint switches object retrieval to an S3-compatible endpoint (MinIO, R2).
	StorageEndpoint        string
	StorageAccessKeyID     string
	StorageSecretAccessKey string
	StorageUseSSL          bool
	Region                 string

	LogLevel string
	LogFile  string

	SentryDSN         string
	SentryEnvironment string
}

func ParseS3URL(url string) (bucket string, prefix string, err error) {
	if !strings.HasPrefix(url, "s3://") {
		return "", "", fmt.Errorf("invalid S3 URL, missing 's3://' prefix")
	}
	trimmedS3URL := strings.TrimPrefix(url, "s3://")
	splitPos := strings.Index(trimmedS3URL, "/")
	if splitPos == -1 {
		return "", "", fmt.Errorf("invalid S3 URL, no '/' found after bucket name")
	}
	bucket = trimmedS3URL[:splitPos]
	if bucket == "" {
		return "", "", fmt.Errorf("invalid S3 URL, empty bucket name")
	}
	prefix = trimmedS3URL[splitPos+1:]
	return bucket, prefix, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func LoadConfigFromEnv() (Config, error) {
	config := Config{
		ScratchDir:             getEnv("SCRATCH_DIR", DefaultScratchDir),
		FFmpegBinaryFolder:     getEnv("FFMPEG_BINARY_FOLDER", DefaultFFmpegBinaryFolder),
		StorageEndpoint:        os.Getenv("STORAGE_ENDPOINT"),
		StorageAccessKeyID:     os.Getenv("STORAGE_ACCESS_KEY_ID"),
		StorageSecretAccessKey: os.Getenv("STORAGE_SECRET_ACCESS_KEY"),
		StorageUseSSL:          true,
		Region:                 os.Getenv("AWS_REGION"),
		LogLevel:               getEnv("LOG_LEVEL", DefaultLogLevel),
		LogFile:                os.Getenv("LOG_FILE"),
		SentryDSN:              os.Getenv("SENTRY_DSN"),
		SentryEnvironment:      os.Getenv("SENTRY_ENVIRONMENT"),
	}

	if !filepath.IsAbs(config.ScratchDir) {
		return Config{}, fmt.Errorf("environment variable SCRATCH_DIR must be an absolute path, got '%s'", config.ScratchDir)
	}

	if v := os.Getenv("STORAGE_USE_SSL"); v != "" {
		useSSL, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid value '%s' for STORAGE_USE_SSL: %w", v, err)
		}
		config.StorageUseSSL = useSSL
	}

	if config.StorageEndpoint != "" && (config.StorageAccessKeyID == "" || config.StorageSecretAccessKey == "") {
		return Config{}, fmt.Errorf("environment variables STORAGE_ACCESS_KEY_ID and STORAGE_SECRET_ACCESS_KEY are required when STORAGE_ENDPOINT is set")
	}

	if _, err := zapcore.ParseLevel(config.LogLevel); err != nil {
		return Config{}, fmt.Errorf("invalid value '%s' for LOG_LEVEL: %w", config.LogLevel, err)
	}

	return config, nil
}
