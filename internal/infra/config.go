package infra

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config represents worker configuration loaded from environment variables.
type Config struct {
	AppEnv      string
	Port        string
	DatabaseURL string

	// Queue
	QueueURL          string
	QueueWaitTime     time.Duration
	VisibilityTimeout time.Duration
	HeartbeatInterval time.Duration

	// AWS / object storage
	AWSRegion      string
	AWSEndpointURL string
	AWSAccessKey   string
	AWSSecretKey   string
	UploadsBucket  string
	ResultsBucket  string
	PresignTTL     time.Duration
	UploadBackend  string

	// Local tooling
	FFmpegPath string

	// Vision services
	LandmarkBaseURL      string
	HeadFitBaseURL       string
	HeadFitTimeout       time.Duration
	RenderBaseURL        string
	ReferenceCatalogPath string

	// Filesystem fallback used when object storage is not configured.
	StoragePath    string
	StorageBaseURL string
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:      getEnv("APP_ENV", "development"),
		Port:        getEnv("PORT", "8081"),
		DatabaseURL: os.Getenv("DATABASE_URL"),

		QueueURL:          os.Getenv("SQS_QUEUE_URL"),
		QueueWaitTime:     time.Second * time.Duration(getEnvInt("QUEUE_WAIT_SECONDS", 20)),
		VisibilityTimeout: time.Second * time.Duration(getEnvInt("VISIBILITY_TIMEOUT_SECONDS", 1800)),
		HeartbeatInterval: time.Second * time.Duration(getEnvInt("HEARTBEAT_INTERVAL_SECONDS", 300)),

		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL: os.Getenv("AWS_ENDPOINT_URL"),
		AWSAccessKey:   os.Getenv("AWS_ACCESS_KEY_ID"),
		AWSSecretKey:   os.Getenv("AWS_SECRET_ACCESS_KEY"),
		UploadsBucket:  getEnv("UPLOADS_BUCKET", "hairstyle-uploads"),
		ResultsBucket:  getEnv("RESULTS_BUCKET", "hairstyle-results"),
		PresignTTL:     time.Second * time.Duration(getEnvInt("PRESIGN_TTL_SECONDS", 86400)),
		UploadBackend:  getEnv("UPLOAD_BACKEND", "s3"),

		FFmpegPath: getEnv("FFMPEG_PATH", "ffmpeg"),

		LandmarkBaseURL:      os.Getenv("LANDMARK_BASE_URL"),
		HeadFitBaseURL:       os.Getenv("HEADFIT_BASE_URL"),
		HeadFitTimeout:       time.Second * time.Duration(getEnvInt("HEADFIT_TIMEOUT_SECONDS", 120)),
		RenderBaseURL:        os.Getenv("RENDER_BASE_URL"),
		ReferenceCatalogPath: os.Getenv("REFERENCE_CATALOG_PATH"),

		StoragePath:    getEnv("STORAGE_PATH", "./storage"),
		StorageBaseURL: getEnv("STORAGE_BASE_URL", "http://localhost:8081/static"),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if cfg.QueueURL == "" {
		return nil, fmt.Errorf("SQS_QUEUE_URL is required")
	}

	if cfg.HeartbeatInterval >= cfg.VisibilityTimeout {
		return nil, fmt.Errorf("HEARTBEAT_INTERVAL_SECONDS must be shorter than VISIBILITY_TIMEOUT_SECONDS")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}
