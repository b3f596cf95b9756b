package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Redis     RedisConfig
	DutyAPI   DutyAPIConfig
	Geolocate GeolocateConfig
	Push      PushConfig
	Favorites FavoritesConfig
	Log       LogConfig
}

type ServerConfig struct {
	Host string
	Port int
	Env  string
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// DutyAPIConfig points at the pharmacy duty backend (cities, districts,
// pharmacies endpoints).
type DutyAPIConfig struct {
	BaseURL        string
	RequestTimeout time.Duration
}

// GeolocateConfig points at the positioning/reverse-geocode collaborator.
type GeolocateConfig struct {
	BaseURL        string
	RequestTimeout time.Duration
}

type PushConfig struct {
	Enabled        bool
	BaseURL        string
	Token          string
	Platform       string
	RequestTimeout time.Duration
}

type FavoritesConfig struct {
	Key string
}

type LogConfig struct {
	Level string
}

func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: viper.GetString("API_HOST"),
			Port: viper.GetInt("API_PORT"),
			Env:  viper.GetString("API_ENV"),
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetInt("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		DutyAPI: DutyAPIConfig{
			BaseURL:        viper.GetString("DUTY_API_BASE_URL"),
			RequestTimeout: time.Duration(viper.GetInt("DUTY_API_TIMEOUT")) * time.Second,
		},
		Geolocate: GeolocateConfig{
			BaseURL:        viper.GetString("GEOLOCATE_BASE_URL"),
			RequestTimeout: time.Duration(viper.GetInt("GEOLOCATE_TIMEOUT")) * time.Second,
		},
		Push: PushConfig{
			Enabled:        viper.GetBool("PUSH_ENABLED"),
			BaseURL:        viper.GetString("PUSH_BASE_URL"),
			Token:          viper.GetString("PUSH_TOKEN"),
			Platform:       viper.GetString("PUSH_PLATFORM"),
			RequestTimeout: time.Duration(viper.GetInt("PUSH_TIMEOUT")) * time.Second,
		},
		Favorites: FavoritesConfig{
			Key: viper.GetString("FAVORITES_KEY"),
		},
		Log: LogConfig{
			Level: viper.GetString("LOG_LEVEL"),
		},
	}

	// Set default values if not provided
	if cfg.DutyAPI.RequestTimeout == 0 {
		cfg.DutyAPI.RequestTimeout = 15 * time.Second
	}
	if cfg.Geolocate.RequestTimeout == 0 {
		cfg.Geolocate.RequestTimeout = 10 * time.Second
	}
	if cfg.Push.RequestTimeout == 0 {
		cfg.Push.RequestTimeout = 10 * time.Second
	}
	if cfg.Push.Platform == "" {
		cfg.Push.Platform = "android"
	}
	if cfg.Favorites.Key == "" {
		cfg.Favorites.Key = "favorites:pharmacies"
	}

	return cfg, nil
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}
