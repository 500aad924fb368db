package config

import "time"

// ProxyConfig contains filtering proxy settings.
type ProxyConfig struct {
	UpstreamURL     string
	Port            int
	UpstreamTimeout time.Duration
	MaxBodyBytes    int64
	PathPrefixes    []string
	RevealParam     string
}

// RateLimitConfig contains per-client request limits.
type RateLimitConfig struct {
	RPS               float64
	Burst             int
	// TrustProxyHeaders keys clients by X-Forwarded-For / X-Real-IP instead of the peer address.
	TrustProxyHeaders bool
}

// ProxyCfg returns the filtering proxy configuration.
func (c *Config) ProxyCfg() ProxyConfig {
	return ProxyConfig{
		UpstreamURL:     c.UpstreamURL,
		Port:            c.ProxyPort,
		UpstreamTimeout: c.UpstreamTimeout,
		MaxBodyBytes:    c.MaxBodyBytes,
		PathPrefixes:    c.FilterPathPrefixes,
		RevealParam:     c.RevealQueryParam,
	}
}

// RateLimitCfg returns the per-client rate limit configuration.
func (c *Config) RateLimitCfg() RateLimitConfig {
	return RateLimitConfig{
		RPS:               c.RateLimitRPS,
		Burst:             c.RateLimitBurst,
		TrustProxyHeaders: c.TrustProxyHeaders,
	}
}
