// Package config carrega a configuração do cliente: padrões, depois um arquivo
// YAML opcional, depois variáveis de ambiente com prefixo STRAVAN_.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"stravan-client/client/dispatch/domain"
	"stravan-client/client/logging"
)

const (
	EnvPrefix = "STRAVAN"
	logPrefix = "config:Load"
)

const (
	StatsNone       = "none"
	StatsMemory     = "memory"
	StatsRedis      = "redis"
	StatsPrometheus = "prometheus"
)

// Config guarda a configuração do dispatcher.
//
// As tags envconfig não têm default de propósito: o envconfig só sobrescreve
// o que estiver definido no ambiente, preservando padrões e arquivo.
type Config struct {
	// Tamanho do pool de admissão (chamadas simultâneas).
	PoolSize int `envconfig:"POOL_SIZE" yaml:"pool_size"`

	V1BaseURL       string `envconfig:"V1_BASE_URL" yaml:"-"`
	V1SecureBaseURL string `envconfig:"V1_SECURE_BASE_URL" yaml:"-"`
	V2BaseURL       string `envconfig:"V2_BASE_URL" yaml:"-"`
	V2SecureBaseURL string `envconfig:"V2_SECURE_BASE_URL" yaml:"-"`

	// Versions só existe no arquivo, no formato da seção de configuração original.
	Versions []VersionConfig `ignored:"true" yaml:"versions"`

	// 0 = espera indefinida pela vaga / sem timeout na chamada.
	AcquireTimeout time.Duration `envconfig:"ACQUIRE_TIMEOUT" yaml:"acquire_timeout"`
	RequestTimeout time.Duration `envconfig:"REQUEST_TIMEOUT" yaml:"request_timeout"`
	UserAgent      string        `envconfig:"USER_AGENT" yaml:"user_agent"`

	// Pacing do lado do cliente; RateRPS 0 desliga.
	RateRPS   float64 `envconfig:"RATE_RPS" yaml:"rate_rps"`
	RateBurst int     `envconfig:"RATE_BURST" yaml:"rate_burst"`

	StatsBackend       string        `envconfig:"STATS_BACKEND" yaml:"stats_backend"`
	StatsRedisAddr     string        `envconfig:"STATS_REDIS_ADDR" yaml:"stats_redis_addr"`
	StatsRedisPassword string        `envconfig:"STATS_REDIS_PASSWORD" yaml:"stats_redis_password"`
	StatsRedisDB       int           `envconfig:"STATS_REDIS_DB" yaml:"stats_redis_db"`
	StatsPrefix        string        `envconfig:"STATS_PREFIX" yaml:"stats_prefix"`
	StatsTTL           time.Duration `envconfig:"STATS_TTL" yaml:"stats_ttl"`
	StatsBucket        string        `envconfig:"STATS_BUCKET" yaml:"stats_bucket"`
	StatsTrackActions  bool          `envconfig:"STATS_TRACK_ACTIONS" yaml:"stats_track_actions"`

	LogLevel  string `envconfig:"LOG_LEVEL" yaml:"log_level"`
	LogFormat string `envconfig:"LOG_FORMAT" yaml:"log_format"`
}

// VersionConfig é uma entrada de versão no arquivo YAML.
type VersionConfig struct {
	Name          string `yaml:"name"`
	BaseURL       string `yaml:"base_url"`
	SecureBaseURL string `yaml:"secure_base_url"`
}

func Default() *Config {
	return &Config{
		PoolSize:        10,
		V1BaseURL:       "http://www.strava.com/api/v1/",
		V1SecureBaseURL: "https://www.strava.com/api/v1/",
		V2BaseURL:       "http://www.strava.com/api/v2/",
		V2SecureBaseURL: "https://www.strava.com/api/v2/",
		UserAgent:       "stravan-go/1.0",
		RateBurst:       1,
		StatsBackend:    StatsNone,
		StatsPrefix:     "stravan:dispatch",
		StatsTTL:        24 * time.Hour,
		StatsBucket:     "minute",
		LogLevel:        "info",
		LogFormat:       string(logging.FormatJSON),
	}
}

// Load aplica padrões -> arquivo -> ambiente e valida o resultado.
// Com path vazio usa STRAVAN_CONFIG_FILE; sem nenhum dos dois, não lê arquivo.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv(EnvPrefix + "_CONFIG_FILE")
	}
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("%s - env: %w", logPrefix, err)
	}

	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%s - read %s: %w", logPrefix, path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("%s - parse %s: %w", logPrefix, path, err)
	}
	for _, v := range c.Versions {
		version, err := ParseVersion(v.Name)
		if err != nil {
			return fmt.Errorf("%s - %s: %w", logPrefix, path, err)
		}
		switch version {
		case domain.V1:
			c.V1BaseURL, c.V1SecureBaseURL = v.BaseURL, v.SecureBaseURL
		case domain.V2:
			c.V2BaseURL, c.V2SecureBaseURL = v.BaseURL, v.SecureBaseURL
		}
	}
	return nil
}

// ParseVersion aceita "1", "v2", "2.0" etc; a versão major escolhe V1 ou V2.
func ParseVersion(name string) (domain.APIVersion, error) {
	v, err := semver.NewVersion(strings.TrimSpace(name))
	if err != nil {
		return 0, fmt.Errorf("invalid api version %q: %w", name, err)
	}
	switch v.Major() {
	case 1:
		return domain.V1, nil
	case 2:
		return domain.V2, nil
	default:
		return 0, fmt.Errorf("%w: %q", domain.ErrUnknownVersion, name)
	}
}

// normalize garante a barra final das base URLs, já que a URL final é base + action.
func (c *Config) normalize() {
	for _, u := range []*string{&c.V1BaseURL, &c.V1SecureBaseURL, &c.V2BaseURL, &c.V2SecureBaseURL} {
		*u = strings.TrimSpace(*u)
		if *u != "" && !strings.HasSuffix(*u, "/") {
			*u += "/"
		}
	}
	c.StatsBackend = strings.ToLower(strings.TrimSpace(c.StatsBackend))
	if c.StatsBackend == "" {
		c.StatsBackend = StatsNone
	}
}

func (c *Config) Validate() error {
	if c.PoolSize <= 0 {
		return fmt.Errorf("%s - POOL_SIZE must be > 0", logPrefix)
	}
	urls := []struct{ name, raw string }{
		{"V1_BASE_URL", c.V1BaseURL},
		{"V1_SECURE_BASE_URL", c.V1SecureBaseURL},
		{"V2_BASE_URL", c.V2BaseURL},
		{"V2_SECURE_BASE_URL", c.V2SecureBaseURL},
	}
	for _, e := range urls {
		u, err := url.Parse(e.raw)
		if err != nil || !u.IsAbs() || u.Host == "" {
			return fmt.Errorf("%s - %s must be an absolute url, got %q", logPrefix, e.name, e.raw)
		}
	}
	if c.AcquireTimeout < 0 || c.RequestTimeout < 0 || c.StatsTTL < 0 {
		return fmt.Errorf("%s - timeouts must be >= 0", logPrefix)
	}
	if c.RateRPS < 0 {
		return fmt.Errorf("%s - RATE_RPS must be >= 0", logPrefix)
	}
	if c.RateRPS > 0 && c.RateBurst <= 0 {
		return fmt.Errorf("%s - RATE_BURST must be > 0 when RATE_RPS is set", logPrefix)
	}
	switch c.StatsBackend {
	case StatsNone, StatsMemory, StatsPrometheus:
	case StatsRedis:
		if strings.TrimSpace(c.StatsRedisAddr) == "" {
			return fmt.Errorf("%s - STATS_REDIS_ADDR is required when STATS_BACKEND=redis", logPrefix)
		}
	default:
		return fmt.Errorf("%s - unknown STATS_BACKEND %q", logPrefix, c.StatsBackend)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%s - %w", logPrefix, err)
	}
	switch logging.Format(c.LogFormat) {
	case logging.FormatJSON, logging.FormatText:
	default:
		return fmt.Errorf("%s - unknown LOG_FORMAT %q", logPrefix, c.LogFormat)
	}
	return nil
}

// VersionEntries monta as linhas da VersionRegistry.
func (c *Config) VersionEntries() []domain.VersionEntry {
	return []domain.VersionEntry{
		{Version: domain.V1, BaseURL: c.V1BaseURL, SecureBaseURL: c.V1SecureBaseURL},
		{Version: domain.V2, BaseURL: c.V2BaseURL, SecureBaseURL: c.V2SecureBaseURL},
	}
}
