package storage

import (
	"errors"

	"github.com/ritaorion/district5b-laravel-sub001/internal/pkg/env"
)

// S3Config holds the S3 connection settings
type S3Config struct {
	AccessKeyID     string
	SecretAccessKey string
	Region          string
	BucketName      string
	EndpointURL     string // Optional for S3-compatible services
	Enabled         bool
}

// LoadS3Config loads S3 configuration from environment variables
func LoadS3Config() (*S3Config, error) {
	config := &S3Config{
		AccessKeyID:     env.GetEnv("S3_ACCESS_KEY_ID", ""),
		SecretAccessKey: env.GetEnv("S3_SECRET_ACCESS_KEY", ""),
		Region:          env.GetEnv("S3_REGION", "us-east-1"),
		BucketName:      env.GetEnv("S3_BUCKET_NAME", ""),
		EndpointURL:     env.GetEnv("S3_ENDPOINT_URL", ""),
		Enabled:         env.GetEnvBool("S3_ENABLED", false),
	}

	// Validate required fields if S3 storage is enabled
	if config.Enabled {
		if config.AccessKeyID == "" {
			return nil, errors.New("S3_ACCESS_KEY_ID is required when S3 storage is enabled")
		}
		if config.SecretAccessKey == "" {
			return nil, errors.New("S3_SECRET_ACCESS_KEY is required when S3 storage is enabled")
		}
		if config.BucketName == "" {
			return nil, errors.New("S3_BUCKET_NAME is required when S3 storage is enabled")
		}
	}

	return config, nil
}

// LocalRoot is the directory used when S3 is disabled.
func LocalRoot() string {
	return env.GetEnv("STORAGE_ROOT", "./storage/app")
}

// MaxUploadBytes is the upload size cap (50 MB unless UPLOAD_MAX_BYTES says otherwise).
func MaxUploadBytes() int64 {
	return env.GetEnvInt64("UPLOAD_MAX_BYTES", 50*1024*1024)
}
