package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Client ClientConfig `mapstructure:"client"`
	Stub   StubConfig   `mapstructure:"stub"`
}

type ClientConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	Token          string `mapstructure:"token"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// Timeout returns the HTTP client timeout.
func (c ClientConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

type StubConfig struct {
	Port          int    `mapstructure:"port"`
	JWTSecret     string `mapstructure:"jwt_secret"`
	DatabasePath  string `mapstructure:"database_path"` // sqlite file, or :memory:
	UploadDir     string `mapstructure:"upload_dir"`
	MaxFileSize   int64  `mapstructure:"max_file_size"`
	AdminEmail    string `mapstructure:"admin_email"`
	AdminPassword string `mapstructure:"admin_password"`
	Seed          bool   `mapstructure:"seed"`
}

func Load() (*Config, error) {
	viper.SetConfigName("admin")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("../..")

	viper.SetDefault("client.base_url", "http://localhost:8090/api")
	viper.SetDefault("client.token", "")
	viper.SetDefault("client.timeout_seconds", 30)
	viper.SetDefault("stub.port", 8090)
	viper.SetDefault("stub.jwt_secret", "changeme-secret")
	viper.SetDefault("stub.database_path", "./data/admin.db")
	viper.SetDefault("stub.upload_dir", "./uploads")
	viper.SetDefault("stub.max_file_size", 10485760)
	viper.SetDefault("stub.admin_email", "admin@example.com")
	viper.SetDefault("stub.admin_password", "admin")
	viper.SetDefault("stub.seed", true)

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		// The defaults form a complete config; only a malformed file is fatal.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}
