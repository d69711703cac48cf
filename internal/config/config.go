package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	API     APIConfig
	Cache   CacheConfig
	Feed    FeedConfig
	Company CompanyConfig
	Runtime RuntimeConfig
}

type APIConfig struct {
	BaseURL     string
	BasePath    string
	Token       string
	Timeout     time.Duration
	RenderCache bool
}

type CacheConfig struct {
	Backend   string
	RedisAddr string
	RedisDB   int
	Password  string
	TTL       time.Duration
}

type FeedConfig struct {
	Enabled bool
	WSUrl   string
}

type CompanyConfig struct {
	ID     int64
	Region string
}

type RuntimeConfig struct {
	Log     LogConfig
	Workers int
}

type LogConfig struct {
	Level      string
	Format     string
	File       string
	MaxSize    int
	MaxBackups int
	MaxAge     int
	Compress   bool
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AddConfigPath("configs")
	v.SetConfigName("config")
	v.SetEnvPrefix("DEALDESK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("Не удалось прочитать конфигурацию: %w", err)
		}
	}

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.base_url", "http://localhost:8080")
	v.SetDefault("api.base_path", "/api/v1")
	v.SetDefault("api.timeout", 15*time.Second)
	v.SetDefault("cache.backend", "memory")
	v.SetDefault("cache.ttl", 5*time.Minute)
	v.SetDefault("company.region", "RU")
	v.SetDefault("runtime.workers", 3)
	v.SetDefault("runtime.log.level", "info")
	v.SetDefault("runtime.log.format", "text")
	v.SetDefault("runtime.log.file", "stdout")
	v.SetDefault("runtime.log.max_size", 50)
	v.SetDefault("runtime.log.max_backups", 5)
	v.SetDefault("runtime.log.max_age", 14)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{}

	cfg.API = APIConfig{
		BaseURL:     v.GetString("api.base_url"),
		BasePath:    v.GetString("api.base_path"),
		Token:       envSub(v, "api.token"),
		Timeout:     v.GetDuration("api.timeout"),
		RenderCache: v.GetBool("api.render_cache"),
	}

	cfg.Cache = CacheConfig{
		Backend:   strings.ToLower(v.GetString("cache.backend")),
		RedisAddr: v.GetString("cache.redis_addr"),
		RedisDB:   v.GetInt("cache.redis_db"),
		Password:  envSub(v, "cache.password"),
		TTL:       v.GetDuration("cache.ttl"),
	}

	cfg.Feed = FeedConfig{
		Enabled: v.GetBool("feed.enabled"),
		WSUrl:   v.GetString("feed.ws_url"),
	}

	cfg.Company = CompanyConfig{
		ID:     v.GetInt64("company.id"),
		Region: v.GetString("company.region"),
	}

	cfg.Runtime = RuntimeConfig{
		Workers: v.GetInt("runtime.workers"),
		Log: LogConfig{
			Level:      v.GetString("runtime.log.level"),
			Format:     v.GetString("runtime.log.format"),
			File:       v.GetString("runtime.log.file"),
			MaxSize:    v.GetInt("runtime.log.max_size"),
			MaxBackups: v.GetInt("runtime.log.max_backups"),
			MaxAge:     v.GetInt("runtime.log.max_age"),
			Compress:   v.GetBool("runtime.log.compress"),
		},
	}

	if cfg.API.BaseURL == "" {
		return nil, fmt.Errorf("Не задан api.base_url")
	}
	if cfg.Cache.Backend != "memory" && cfg.Cache.Backend != "redis" {
		return nil, fmt.Errorf("Неизвестный backend кэша: %s", cfg.Cache.Backend)
	}
	if cfg.Feed.Enabled && cfg.Feed.WSUrl == "" {
		cfg.Feed.WSUrl = "ws" + strings.TrimPrefix(strings.TrimRight(cfg.API.BaseURL, "/"), "http") + "/ws/events"
	}
	if cfg.Runtime.Workers <= 0 {
		cfg.Runtime.Workers = 1
	}

	return cfg, nil
}

var envPattern = regexp.MustCompile(`\$\{(\w+)\}`)

func envSub(v *viper.Viper, key string) string {
	val := v.GetString(key)
	if val == "" {
		return ""
	}

	return envPattern.ReplaceAllStringFunc(val, func(match string) string {
		envKey := strings.TrimSuffix(strings.TrimPrefix(match, "${"), "}")
		return os.Getenv(envKey)
	})
}
