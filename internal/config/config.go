package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type HTTPConfig struct {
	Host string
	Port int
}

type MongoConfig struct {
	URL            string
	Database       string
	ConnectTimeout string
}

type OpenAPIConfig struct {
	Endpoint string
	APIKey   string
}

type SyncConfig struct {
	Enabled  bool
	Schedule string
	PageSize int
}

type Config struct {
	Environment string
	HTTP        HTTPConfig
	Mongo       MongoConfig
	OpenAPI     OpenAPIConfig
	Sync        SyncConfig
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("app")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("./deploy")
	v.AddConfigPath("./internal/config")
	v.AutomaticEnv()

	_ = v.ReadInConfig()

	cfg := &Config{
		Environment: v.GetString("APP_ENV"),
		HTTP: HTTPConfig{
			Host: v.GetString("HTTP_HOST"),
			Port: v.GetInt("HTTP_PORT"),
		},
		Mongo: MongoConfig{
			URL:            v.GetString("MONGO_URL"),
			Database:       v.GetString("MONGO_DATABASE"),
			ConnectTimeout: v.GetString("MONGO_CONNECT_TIMEOUT"),
		},
		OpenAPI: OpenAPIConfig{
			Endpoint: v.GetString("OPENAPI_ENDPOINT"),
			APIKey:   v.GetString("OPENAPI_API_KEY"),
		},
		Sync: SyncConfig{
			Enabled:  v.GetBool("SYNC_ENABLED"),
			Schedule: v.GetString("SYNC_SCHEDULE"),
			PageSize: v.GetInt("SYNC_PAGE_SIZE"),
		},
	}

	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.HTTP.Host == "" {
		cfg.HTTP.Host = "0.0.0.0"
	}
	if cfg.HTTP.Port == 0 {
		cfg.HTTP.Port = 7089
	}
	if cfg.Mongo.Database == "" {
		cfg.Mongo.Database = "bid"
	}
	if cfg.Mongo.ConnectTimeout == "" {
		cfg.Mongo.ConnectTimeout = "10s"
	}
	if cfg.Sync.Schedule == "" {
		cfg.Sync.Schedule = "0 6 * * *"
	}
	if cfg.Sync.PageSize == 0 {
		cfg.Sync.PageSize = 100
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.Mongo.URL == "" {
		return fmt.Errorf("MONGO_URL is required")
	}
	if cfg.Sync.Enabled && cfg.OpenAPI.APIKey == "" {
		return fmt.Errorf("OPENAPI_API_KEY is required when SYNC_ENABLED is set")
	}
	return nil
}
