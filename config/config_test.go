package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig(t *testing.T) {
	// Test with default values
	config := LoadConfig()
	assert.Equal(t, ":3000", config.ListenAddr)
	assert.Equal(t, "localhost:6379", config.RedisAddr)
	assert.Equal(t, 0, config.RedisDB)
	assert.Equal(t, "deals", config.RedisStream)
	assert.Equal(t, "localhost:11211", config.MemcacheAddr)
	assert.Equal(t, 40.0, config.DefaultThresholdPct)
	assert.Equal(t, 0.6, config.SimilarityThreshold)
	assert.Equal(t, 20*time.Second, config.SourceTimeout)
	assert.Empty(t, config.ProxyURLs)
	assert.Empty(t, config.SearchOptions)

	// Test with environment variables
	os.Setenv("LISTEN_ADDR", ":8080")
	os.Setenv("REDIS_ADDR", "redis.example.com:6379")
	os.Setenv("DEFAULT_THRESHOLD_PCT", "30")
	os.Setenv("SOURCE_TIMEOUT_SECONDS", "5")
	os.Setenv("PROXY_URLS", "http://1.2.3.4:8080, http://5.6.7.8:8080")
	os.Setenv("SEARCH_OPTIONS", "charizard,pikachu")

	config = LoadConfig()
	assert.Equal(t, ":8080", config.ListenAddr)
	assert.Equal(t, "redis.example.com:6379", config.RedisAddr)
	assert.Equal(t, 30.0, config.DefaultThresholdPct)
	assert.Equal(t, 5*time.Second, config.SourceTimeout)
	assert.Equal(t, []string{"http://1.2.3.4:8080", "http://5.6.7.8:8080"}, config.ProxyURLs)
	assert.Equal(t, []string{"charizard", "pikachu"}, config.SearchOptions)

	// Clean up
	os.Unsetenv("LISTEN_ADDR")
	os.Unsetenv("REDIS_ADDR")
	os.Unsetenv("DEFAULT_THRESHOLD_PCT")
	os.Unsetenv("SOURCE_TIMEOUT_SECONDS")
	os.Unsetenv("PROXY_URLS")
	os.Unsetenv("SEARCH_OPTIONS")
}

func TestConfigValidate(t *testing.T) {
	valid := LoadConfig()
	assert.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"threshold zero", func(c *Config) { c.DefaultThresholdPct = 0 }},
		{"threshold above 100", func(c *Config) { c.DefaultThresholdPct = 120 }},
		{"similarity zero", func(c *Config) { c.SimilarityThreshold = 0 }},
		{"similarity above 1", func(c *Config) { c.SimilarityThreshold = 1.5 }},
		{"timeout zero", func(c *Config) { c.SourceTimeout = 0 }},
		{"stagger inverted", func(c *Config) { c.StaggerMin = 3 * time.Second; c.StaggerMax = time.Second }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := LoadConfig()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
