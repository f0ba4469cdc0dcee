package config

import (
	"fmt"
	"time"

	"github.com/hadwinjiang/s3-signed-url/pkg/signedurl"
	s3signer "github.com/hadwinjiang/s3-signed-url/pkg/signedurl/storage/s3"
	"github.com/ilyakaznacheev/cleanenv"
)

// ServerConfig holds every knob the server reads at startup. Values are
// fixed for the lifetime of the process.
type ServerConfig struct {
	Port        string `env:"PORT" env-default:"8080"`
	Environment string `env:"ENVIRONMENT" env-default:"development"`

	// SignedURLExpiry is the lifetime of issued URLs in seconds.
	SignedURLExpiry int `env:"SIGNED_URL_EXPIRY" env-default:"3600"`

	S3 S3Config
}

// S3Config carries the credential pair and connection options for the
// signing backend.
type S3Config struct {
	Region          string `env:"AWS_S3_REGION" env-default:"us-east-1"`
	AccessKeyID     string `env:"AWS_ACCESS_KEY_ID"`
	SecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY"`
	Endpoint        string `env:"AWS_S3_ENDPOINT"`
	UsePathStyle    bool   `env:"AWS_S3_USE_PATH_STYLE" env-default:"false"`
}

// Load reads the server configuration from process environment variables.
func Load() (*ServerConfig, error) {
	var cfg ServerConfig
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration for values that would otherwise fail
// deep inside a request.
func (c *ServerConfig) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("port is required")
	}
	if c.SignedURLExpiry <= 0 {
		return fmt.Errorf("signed URL expiry must be positive, got %d", c.SignedURLExpiry)
	}
	return nil
}

// BuildService constructs the signed-URL service with an S3 presigning
// backend according to this configuration.
func (c *ServerConfig) BuildService() (signedurl.Service, error) {
	signer, err := s3signer.New(s3signer.Config{
		Region:          c.S3.Region,
		AccessKeyID:     c.S3.AccessKeyID,
		SecretAccessKey: c.S3.SecretAccessKey,
		Endpoint:        c.S3.Endpoint,
		UsePathStyle:    c.S3.UsePathStyle,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 signer: %w", err)
	}

	svc, err := signedurl.New(
		signedurl.WithSigner(signer),
		signedurl.WithExpiry(time.Duration(c.SignedURLExpiry)*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build service: %w", err)
	}
	return svc, nil
}
