package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/lueurxax/dc-comment-filter/internal/core/errors"
)

type Config struct {
	AppEnv             string        `env:"APP_ENV" envDefault:"local"`
	UpstreamURL        string        `env:"UPSTREAM_URL" envDefault:"http://127.0.0.1:6100"`
	ProxyPort          int           `env:"PROXY_PORT" envDefault:"8080"`
	HealthPort         int           `env:"HEALTH_PORT" envDefault:"9090"`
	UpstreamTimeout    time.Duration `env:"UPSTREAM_TIMEOUT" envDefault:"20s"`
	MaxBodyBytes       int64         `env:"MAX_BODY_BYTES" envDefault:"8388608"`
	RateLimitRPS       float64       `env:"RATE_LIMIT_RPS" envDefault:"10"`
	RateLimitBurst     int           `env:"RATE_LIMIT_BURST" envDefault:"20"`
	TrustProxyHeaders  bool          `env:"TRUST_PROXY_HEADERS" envDefault:"false"`
	RevealQueryParam   string        `env:"REVEAL_QUERY_PARAM" envDefault:"spam"`
	FilterPathPrefixes []string      `env:"FILTER_PATH_PREFIXES" envSeparator:"," envDefault:"/board/view,/read"`
}

func Load() (*Config, error) {
	_ = godotenv.Load() //nolint:errcheck // .env file is optional, error is expected when not present

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing environment config: %w", err)
	}

	applyAliases(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks values that env parsing cannot.
func (c *Config) Validate() error {
	u, err := url.Parse(c.UpstreamURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: UPSTREAM_URL %q must be an absolute URL", errors.ErrInvalidInput, c.UpstreamURL)
	}

	if c.MaxBodyBytes <= 0 {
		return fmt.Errorf("%w: MAX_BODY_BYTES must be positive", errors.ErrInvalidInput)
	}

	if c.RateLimitRPS <= 0 || c.RateLimitBurst <= 0 {
		return fmt.Errorf("%w: RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive", errors.ErrInvalidInput)
	}

	if strings.TrimSpace(c.RevealQueryParam) == "" {
		return fmt.Errorf("%w: REVEAL_QUERY_PARAM must not be empty", errors.ErrInvalidInput)
	}

	return nil
}

// applyAliases lets platform-provided variables fill in unset settings.
func applyAliases(cfg *Config) {
	if !hasEnv("PROXY_PORT") {
		setIntFromEnv("PORT", &cfg.ProxyPort)
	}

	if !hasEnv("UPSTREAM_URL") {
		setStringFromEnv("MIRROR_URL", &cfg.UpstreamURL)
	}

	prefixes := cfg.FilterPathPrefixes[:0]

	for _, p := range cfg.FilterPathPrefixes {
		if p = strings.TrimSpace(p); p != "" {
			prefixes = append(prefixes, p)
		}
	}

	cfg.FilterPathPrefixes = prefixes
}

func hasEnv(key string) bool {
	_, ok := os.LookupEnv(key)
	return ok
}

func setStringFromEnv(key string, target *string) {
	val, ok := os.LookupEnv(key)
	if !ok {
		return
	}

	val = strings.TrimSpace(val)
	if val == "" {
		return
	}

	*target = val
}

func setIntFromEnv(key string, target *int) {
	val, ok := os.LookupEnv(key)
	if !ok {
		return
	}

	parsed, err := strconv.Atoi(strings.TrimSpace(val))
	if err != nil {
		return
	}

	*target = parsed
}
