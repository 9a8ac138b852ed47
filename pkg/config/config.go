package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	defaultConfigPath    = "config.yaml"
	defaultAddr          = ":8080"
	defaultStorageDir    = "./media"
	defaultMediaPrefix   = "videos/"
	defaultCategoryID    = "22"
	defaultPrivacyStatus = "private"

	// Values with this prefix are fetched from Google Secret Manager at load
	// time, e.g. sm://projects/p/secrets/api-key/versions/latest.
	secretPrefix = "sm://"
)

type Config struct {
	APIKey    string
	GCSBucket string

	Server  ServerConfig  `yaml:"server"`
	Storage StorageConfig `yaml:"storage"`
	YouTube YouTubeConfig `yaml:"youtube"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

type StorageConfig struct {
	Provider    string `yaml:"provider"` // "gcs" or "local"
	LocalDir    string `yaml:"local_dir"`
	MediaPrefix string `yaml:"media_prefix"`
}

type YouTubeConfig struct {
	CategoryID    string   `yaml:"category_id"`
	PrivacyStatus string   `yaml:"privacy_status"`
	DefaultTags   []string `yaml:"default_tags"`
}

func Load(ctx context.Context) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Warn("No .env file found, relying on environment variables")
	}

	cfg := &Config{
		APIKey:    os.Getenv("CLIPCAST_API_KEY"),
		GCSBucket: os.Getenv("GCS_BUCKET"),
	}
	loadYAMLConfig(cfg)
	if addr := os.Getenv("CLIPCAST_ADDR"); addr != "" {
		cfg.Server.Addr = addr
	}
	applyDefaults(cfg)

	if err := resolveSecrets(ctx, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func loadYAMLConfig(cfg *Config) {
	data, err := os.ReadFile(defaultConfigPath)
	if err != nil {
		slog.Warn("No config.yaml found, using defaults")
		return
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		slog.Error("Failed to parse config.yaml", "error", err)
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = defaultAddr
	}
	if cfg.Storage.Provider == "" {
		if cfg.GCSBucket != "" {
			cfg.Storage.Provider = "gcs"
		} else {
			cfg.Storage.Provider = "local"
		}
	}
	if cfg.Storage.LocalDir == "" {
		cfg.Storage.LocalDir = defaultStorageDir
	}
	if cfg.Storage.MediaPrefix == "" {
		cfg.Storage.MediaPrefix = defaultMediaPrefix
	}
	if cfg.YouTube.CategoryID == "" {
		cfg.YouTube.CategoryID = defaultCategoryID
	}
	if cfg.YouTube.PrivacyStatus == "" {
		cfg.YouTube.PrivacyStatus = defaultPrivacyStatus
	}
}

func resolveSecrets(ctx context.Context, cfg *Config) error {
	if !strings.HasPrefix(cfg.APIKey, secretPrefix) {
		return nil
	}

	client, err := secretmanager.NewClient(ctx)
	if err != nil {
		return fmt.Errorf("failed to create secret manager client: %w", err)
	}
	defer func() { _ = client.Close() }()

	name := strings.TrimPrefix(cfg.APIKey, secretPrefix)
	resp, err := client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{Name: name})
	if err != nil {
		return fmt.Errorf("failed to access secret %s: %w", name, err)
	}

	cfg.APIKey = string(resp.GetPayload().GetData())
	return nil
}
