package config

import (
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port        string `envconfig:"PORT" default:"8080"`
	Environment string `envconfig:"ENV" default:"development"`

	DBConnectionString string `envconfig:"DATABASE_URL" required:"true"`

	JWTSecret string `envconfig:"JWT_SECRET" required:"true"`

	S3URL           string `envconfig:"S3_URL" required:"true"`
	S3Bucket        string `envconfig:"S3_BUCKET" required:"true"`
	S3Region        string `envconfig:"S3_REGION" required:"true"`
	S3AccessKey     string `envconfig:"S3_ACCESS_KEY" required:"true"`
	S3SecretKey     string `envconfig:"S3_SECRET_KEY" required:"true"`
	S3PublicBaseURL string `envconfig:"S3_PUBLIC_BASE_URL"`

	// Upload limit for course images and banners, in MiB.
	MaxUploadSizeMB int `envconfig:"MAX_UPLOAD_SIZE_MB" default:"5"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if cfg.S3PublicBaseURL == "" {
		cfg.S3PublicBaseURL = cfg.S3URL
	}
	return &cfg, nil
}
