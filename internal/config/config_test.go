package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestDefaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)

	cfg, err := fromViper(v)
	if err != nil {
		t.Fatalf("fromViper: %v", err)
	}
	if cfg.API.BasePath != "/api/v1" || cfg.API.Timeout != 15*time.Second {
		t.Fatalf("api = %+v", cfg.API)
	}
	if cfg.Cache.Backend != "memory" || cfg.Runtime.Workers != 3 || cfg.Company.Region != "RU" {
		t.Fatalf("cache=%+v workers=%d region=%s", cfg.Cache, cfg.Runtime.Workers, cfg.Company.Region)
	}
}

func TestEnvSubstitution(t *testing.T) {
	t.Setenv("DEALDESK_TEST_TOKEN", "s3cret")

	v := viper.New()
	setDefaults(v)
	v.Set("api.token", "${DEALDESK_TEST_TOKEN}")
	v.Set("cache.password", "pre-${DEALDESK_TEST_MISSING}")

	cfg, err := fromViper(v)
	if err != nil {
		t.Fatalf("fromViper: %v", err)
	}
	if cfg.API.Token != "s3cret" {
		t.Fatalf("token = %q", cfg.API.Token)
	}
	if cfg.Cache.Password != "pre-" {
		t.Fatalf("password = %q", cfg.Cache.Password)
	}
}

func TestValidation(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("cache.backend", "memcached")
	if _, err := fromViper(v); err == nil {
		t.Fatal("unknown cache backend accepted")
	}

	v = viper.New()
	setDefaults(v)
	v.Set("api.base_url", "")
	if _, err := fromViper(v); err == nil {
		t.Fatal("empty base_url accepted")
	}

	v = viper.New()
	setDefaults(v)
	v.Set("runtime.workers", 0)
	cfg, err := fromViper(v)
	if err != nil {
		t.Fatalf("fromViper: %v", err)
	}
	if cfg.Runtime.Workers != 1 {
		t.Fatalf("workers = %d, want 1", cfg.Runtime.Workers)
	}
}

func TestFeedURLFromBaseURL(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("api.base_url", "https://deals.example.com/")
	v.Set("feed.enabled", true)

	cfg, err := fromViper(v)
	if err != nil {
		t.Fatalf("fromViper: %v", err)
	}
	if cfg.Feed.WSUrl != "wss://deals.example.com/ws/events" {
		t.Fatalf("ws url = %q", cfg.Feed.WSUrl)
	}
}
