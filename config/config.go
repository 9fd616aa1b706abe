package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config represents the application configuration
type Config struct {
	// HTTP server configuration
	ListenAddr string
	WebDir     string

	// Redis configuration (deal notification stream)
	RedisAddr         string
	RedisDB           int
	RedisStream       string
	RedisStreamMaxLen int

	// Memcache configuration (per-source rate-limit cache)
	MemcacheAddr string

	// SMTP configuration (deal alert mail); mail is disabled when host is empty
	SMTPHost string
	SMTPPort int
	SMTPUser string
	SMTPPass string
	MailFrom string
	MailTo   string

	// Scan configuration
	DefaultThresholdPct float64
	SimilarityThreshold float64
	SourceTimeout       time.Duration
	StaggerMin          time.Duration
	StaggerMax          time.Duration

	// Source URLs
	TCGPlayerSearchURL string
	EbaySearchURL      string
	WalmartSearchURL   string

	// Egress proxies, comma separated; empty means direct connections
	ProxyURLs []string

	// Scheduled re-scan
	CronSpec      string
	SearchOptions []string

	// Environment
	Environment string
}

// LoadConfig loads the configuration from environment variables with defaults
func LoadConfig() Config {
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	redisMaxLen, _ := strconv.Atoi(getEnv("REDIS_STREAM_MAX_LENGTH", "500"))
	smtpPort, _ := strconv.Atoi(getEnv("SMTP_PORT", "587"))
	thresholdPct, _ := strconv.ParseFloat(getEnv("DEFAULT_THRESHOLD_PCT", "40"), 64)
	similarity, _ := strconv.ParseFloat(getEnv("SIMILARITY_THRESHOLD", "0.6"), 64)
	sourceTimeout, _ := strconv.Atoi(getEnv("SOURCE_TIMEOUT_SECONDS", "20"))
	staggerMin, _ := strconv.Atoi(getEnv("STAGGER_MIN_MS", "1000"))
	staggerMax, _ := strconv.Atoi(getEnv("STAGGER_MAX_MS", "3000"))

	return Config{
		ListenAddr:          getEnv("LISTEN_ADDR", ":3000"),
		WebDir:              getEnv("WEB_DIR", "web"),
		RedisAddr:           getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:             redisDB,
		RedisStream:         getEnv("REDIS_STREAM", "deals"),
		RedisStreamMaxLen:   redisMaxLen,
		MemcacheAddr:        getEnv("MEMCACHE_ADDR", "localhost:11211"),
		SMTPHost:            getEnv("SMTP_HOST", ""),
		SMTPPort:            smtpPort,
		SMTPUser:            getEnv("SMTP_USER", ""),
		SMTPPass:            getEnv("SMTP_PASS", ""),
		MailFrom:            getEnv("MAIL_FROM", "dealsniper@localhost"),
		MailTo:              getEnv("MAIL_TO", ""),
		DefaultThresholdPct: thresholdPct,
		SimilarityThreshold: similarity,
		SourceTimeout:       time.Duration(sourceTimeout) * time.Second,
		StaggerMin:          time.Duration(staggerMin) * time.Millisecond,
		StaggerMax:          time.Duration(staggerMax) * time.Millisecond,
		TCGPlayerSearchURL:  getEnv("TCGPLAYER_SEARCH_URL", "https://www.tcgplayer.com/search/all/product"),
		EbaySearchURL:       getEnv("EBAY_SEARCH_URL", "https://www.ebay.com/sch/i.html"),
		WalmartSearchURL:    getEnv("WALMART_SEARCH_URL", "https://www.walmart.com/search"),
		ProxyURLs:           splitList(getEnv("PROXY_URLS", "")),
		CronSpec:            getEnv("SCAN_CRON", "0 */6 * * *"),
		SearchOptions:       splitList(getEnv("SEARCH_OPTIONS", "")),
		Environment:         getEnv("DEALSNIPER_ENVIRONMENT", "development"),
	}
}

// Validate checks the configuration for invalid values
func (c *Config) Validate() error {
	if c.DefaultThresholdPct <= 0 || c.DefaultThresholdPct > 100 {
		return fmt.Errorf("default threshold percent must be in (0,100], got %v", c.DefaultThresholdPct)
	}
	if c.SimilarityThreshold <= 0 || c.SimilarityThreshold > 1 {
		return fmt.Errorf("similarity threshold must be in (0,1], got %v", c.SimilarityThreshold)
	}
	if c.SourceTimeout <= 0 {
		return fmt.Errorf("source timeout must be positive, got %v", c.SourceTimeout)
	}
	if c.StaggerMax < c.StaggerMin {
		return fmt.Errorf("stagger max %v is below stagger min %v", c.StaggerMax, c.StaggerMin)
	}
	return nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// splitList splits a comma separated env value, dropping empty entries
func splitList(value string) []string {
	if value == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
