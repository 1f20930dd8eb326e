package conf

import (
	"fmt"
	"os"
	"time"

	"github.com/go-kratos/kratos/v2/config"
	"github.com/go-kratos/kratos/v2/config/file"
)

// Environment variables that take precedence over the config file.
const (
	EnvDatabaseURL      = "DATABASE_URL"
	EnvCacheURL         = "CACHE_URL"
	EnvClassifierAPIKey = "CLASSIFIER_API_KEY"
)

// Load reads the config file (or directory) at path, applies defaults and
// environment overrides, and validates the result.
func Load(path string) (*Bootstrap, error) {
	c := config.New(
		config.WithSource(
			file.NewSource(path),
		),
	)
	defer c.Close()

	if err := c.Load(); err != nil {
		return nil, fmt.Errorf("conf: load %s: %w", path, err)
	}

	var bc Bootstrap
	if err := c.Scan(&bc); err != nil {
		return nil, fmt.Errorf("conf: scan %s: %w", path, err)
	}

	bc.applyDefaults()
	bc.applyEnv()

	if err := bc.Validate(); err != nil {
		return nil, err
	}
	return &bc, nil
}

func (b *Bootstrap) applyDefaults() {
	if b.Server == nil {
		b.Server = &Server{}
	}
	if b.Server.HTTP == nil {
		b.Server.HTTP = &Server_HTTP{Addr: "0.0.0.0:8000"}
	}
	if b.Server.HTTP.Timeout == 0 {
		b.Server.HTTP.Timeout = Duration(30 * time.Second)
	}
	if b.Server.GRPC == nil {
		b.Server.GRPC = &Server_GRPC{Addr: "0.0.0.0:9000"}
	}
	if b.Data == nil {
		b.Data = &Data{}
	}
	if b.Data.Database == nil {
		b.Data.Database = &Data_Database{}
	}
	if b.Data.Database.Driver == "" {
		b.Data.Database.Driver = "postgres"
	}
	if b.Data.Database.Pool == nil {
		b.Data.Database.Pool = &Data_Pool{}
	}
	if b.Data.Redis == nil {
		b.Data.Redis = &Data_Redis{}
	}
	if b.Data.Redis.OpTimeout == 0 {
		b.Data.Redis.OpTimeout = Duration(250 * time.Millisecond)
	}
	if b.Classifier == nil {
		b.Classifier = &Classifier{}
	}
	if b.Classifier.TextEndpoint == "" {
		b.Classifier.TextEndpoint = "https://commentanalyzer.googleapis.com"
	}
	if b.Classifier.ImageEndpoint == "" {
		b.Classifier.ImageEndpoint = "https://vision.googleapis.com"
	}
	if b.Classifier.Timeout == 0 {
		b.Classifier.Timeout = Duration(5 * time.Second)
	}
	if b.Moderation == nil {
		b.Moderation = &Moderation{}
	}
	if b.Moderation.VerdictTTL == 0 {
		b.Moderation.VerdictTTL = Duration(time.Hour)
	}
	if b.Moderation.StatsTTL == 0 {
		b.Moderation.StatsTTL = Duration(5 * time.Minute)
	}
	if b.Moderation.ToxicityThreshold == nil {
		threshold := 0.5
		b.Moderation.ToxicityThreshold = &threshold
	}
	if b.Log == nil {
		b.Log = &Log{Level: "info"}
	}
}

func (b *Bootstrap) applyEnv() {
	if v := os.Getenv(EnvDatabaseURL); v != "" {
		b.Data.Database.Source = v
	}
	if v := os.Getenv(EnvCacheURL); v != "" {
		b.Data.Redis.URL = v
	}
	if v := os.Getenv(EnvClassifierAPIKey); v != "" {
		b.Classifier.APIKey = v
	}
}
