package config

import (
	"errors"
	"testing"
	"time"

	apperrors "github.com/lueurxax/dc-comment-filter/internal/core/errors"
)

// Test environment variable keys.
const (
	testEnvUpstreamURL = "UPSTREAM_URL"
	testEnvProxyPort   = "PROXY_PORT"
	testEnvPrefixes    = "FILTER_PATH_PREFIXES"
	testEnvRPS         = "RATE_LIMIT_RPS"
)

const testErrLoad = "Load() error = %v"

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf(testErrLoad, err)
	}

	if cfg.AppEnv != "local" {
		t.Errorf("AppEnv = %q, want local", cfg.AppEnv)
	}

	if cfg.UpstreamURL != "http://127.0.0.1:6100" {
		t.Errorf("UpstreamURL = %q", cfg.UpstreamURL)
	}

	if cfg.ProxyPort != 8080 || cfg.HealthPort != 9090 {
		t.Errorf("ports = %d/%d, want 8080/9090", cfg.ProxyPort, cfg.HealthPort)
	}

	if cfg.UpstreamTimeout != 20*time.Second {
		t.Errorf("UpstreamTimeout = %v, want 20s", cfg.UpstreamTimeout)
	}

	if cfg.MaxBodyBytes != 8<<20 {
		t.Errorf("MaxBodyBytes = %d, want 8 MiB", cfg.MaxBodyBytes)
	}

	if cfg.RevealQueryParam != "spam" {
		t.Errorf("RevealQueryParam = %q, want spam", cfg.RevealQueryParam)
	}

	if len(cfg.FilterPathPrefixes) != 2 || cfg.FilterPathPrefixes[0] != "/board/view" {
		t.Errorf("FilterPathPrefixes = %v", cfg.FilterPathPrefixes)
	}

	if cfg.TrustProxyHeaders {
		t.Error("TrustProxyHeaders should default to false")
	}
}

func TestLoad_TrustProxyHeaders(t *testing.T) {
	t.Setenv("TRUST_PROXY_HEADERS", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf(testErrLoad, err)
	}

	if !cfg.RateLimitCfg().TrustProxyHeaders {
		t.Error("TRUST_PROXY_HEADERS=true should reach the rate limit config")
	}
}

func TestLoad_PathPrefixes(t *testing.T) {
	t.Setenv(testEnvPrefixes, " /a , ,/b")

	cfg, err := Load()
	if err != nil {
		t.Fatalf(testErrLoad, err)
	}

	if len(cfg.FilterPathPrefixes) != 2 || cfg.FilterPathPrefixes[0] != "/a" || cfg.FilterPathPrefixes[1] != "/b" {
		t.Errorf("FilterPathPrefixes = %v, want [/a /b]", cfg.FilterPathPrefixes)
	}
}

func TestLoad_PortAlias(t *testing.T) {
	t.Setenv("PORT", "7000")

	cfg, err := Load()
	if err != nil {
		t.Fatalf(testErrLoad, err)
	}

	if cfg.ProxyPort != 7000 {
		t.Errorf("ProxyPort = %d, want 7000 from PORT", cfg.ProxyPort)
	}

	t.Setenv(testEnvProxyPort, "7100")

	cfg, err = Load()
	if err != nil {
		t.Fatalf(testErrLoad, err)
	}

	if cfg.ProxyPort != 7100 {
		t.Errorf("ProxyPort = %d, PROXY_PORT should win over PORT", cfg.ProxyPort)
	}
}

func TestLoad_InvalidUpstream(t *testing.T) {
	t.Setenv(testEnvUpstreamURL, "not a url")

	_, err := Load()
	if !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Errorf("Load() error = %v, want ErrInvalidInput", err)
	}
}

func TestLoad_InvalidNumeric(t *testing.T) {
	t.Setenv(testEnvRPS, "fast")

	if _, err := Load(); err == nil {
		t.Error("expected error for non-numeric RATE_LIMIT_RPS")
	}
}

func TestLoad_NonPositiveLimit(t *testing.T) {
	t.Setenv(testEnvRPS, "0")

	_, err := Load()
	if !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Errorf("Load() error = %v, want ErrInvalidInput", err)
	}
}

func TestDomainConfigs(t *testing.T) {
	cfg := &Config{
		UpstreamURL:        "http://upstream",
		ProxyPort:          1,
		MaxBodyBytes:       2,
		FilterPathPrefixes: []string{"/x"},
		RevealQueryParam:   "s",
		RateLimitRPS:       3,
		RateLimitBurst:     4,
		TrustProxyHeaders:  true,
	}

	p := cfg.ProxyCfg()
	if p.UpstreamURL != "http://upstream" || p.Port != 1 || p.MaxBodyBytes != 2 || p.RevealParam != "s" {
		t.Errorf("ProxyCfg() = %+v", p)
	}

	r := cfg.RateLimitCfg()
	if r.RPS != 3 || r.Burst != 4 || !r.TrustProxyHeaders {
		t.Errorf("RateLimitCfg() = %+v", r)
	}
}
