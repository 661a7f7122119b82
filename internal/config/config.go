package config

import (
	"cmp"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	_endpointDefault          = "https://35dee773a9ec441e9f38d5fc249406ce.api.mockbin.io/"
	_timeoutDefault           = 15 * time.Second
	_requestsPerMinuteDefault = 30
	_cacheSubdirDefault       = "holdings"
	_portDefault              = "8080"
	_logLevelDefault          = "info"
	_dispatchBufferDefault    = 64
)

type ClientConfig struct {
	Endpoint          string        `yaml:"endpoint"`
	Timeout           time.Duration `yaml:"timeout"`
	RequestsPerMinute int           `yaml:"requests_per_minute"` // <= 0 disables pacing
	UserAgent         string        `yaml:"user_agent"`
}

func (c *ClientConfig) Setup() error {
	c.Endpoint = cmp.Or(c.Endpoint, _endpointDefault)
	if _, err := url.Parse(c.Endpoint); err != nil {
		return fmt.Errorf("%w: can't parse endpoint", err)
	}
	if c.Timeout <= 0 {
		c.Timeout = _timeoutDefault
	}
	if c.RequestsPerMinute == 0 {
		c.RequestsPerMinute = _requestsPerMinuteDefault
	}
	c.UserAgent = cmp.Or(c.UserAgent, "holdings/1.0")
	return nil
}

type CacheConfig struct {
	Dir string `yaml:"dir"`
}

func (c *CacheConfig) Setup() {
	if c.Dir != "" {
		return
	}
	base, err := os.UserCacheDir()
	if err != nil {
		base = os.TempDir()
	}
	c.Dir = filepath.Join(base, _cacheSubdirDefault)
}

type ServerConfig struct {
	Port           string `yaml:"port"`
	DispatchBuffer int    `yaml:"dispatch_buffer"`
}

func (c *ServerConfig) Setup() {
	c.Port = cmp.Or(c.Port, _portDefault)
	if _, err := strconv.Atoi(c.Port); err != nil {
		c.Port = _portDefault
	}
	if c.DispatchBuffer <= 0 {
		c.DispatchBuffer = _dispatchBufferDefault
	}
}

type Config struct {
	LogLevel string       `yaml:"log_level"`
	Client   ClientConfig `yaml:"client"`
	Cache    CacheConfig  `yaml:"cache"`
	Server   ServerConfig `yaml:"server"`
}

// ApplyEnv overrides file values with HOLDINGS_* variables when they are set.
func (c *Config) ApplyEnv() {
	c.Client.Endpoint = cmp.Or(os.Getenv("HOLDINGS_ENDPOINT"), c.Client.Endpoint)
	c.Cache.Dir = cmp.Or(os.Getenv("HOLDINGS_CACHE_DIR"), c.Cache.Dir)
	c.Server.Port = cmp.Or(os.Getenv("HOLDINGS_PORT"), c.Server.Port)
	c.LogLevel = cmp.Or(os.Getenv("HOLDINGS_LOG_LEVEL"), c.LogLevel)
}

func (c *Config) ValidateAndSetup() error {
	c.LogLevel = cmp.Or(c.LogLevel, _logLevelDefault)
	if err := c.Client.Setup(); err != nil {
		return fmt.Errorf("%w: can't setup client", err)
	}
	c.Cache.Setup()
	c.Server.Setup()
	return nil
}

// Load reads the yaml file, applies env overrides and fills defaults.
// A missing file is not an error: defaults and env are used instead.
func Load(filename string) (Config, error) {
	var cfg Config
	input, err := os.ReadFile(filename)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return cfg, fmt.Errorf("%w: can't read file", err)
	default:
		if err := yaml.Unmarshal(input, &cfg); err != nil {
			return cfg, fmt.Errorf("%w: can't unmarshal config", err)
		}
	}

	cfg.ApplyEnv()

	if err := cfg.ValidateAndSetup(); err != nil {
		return cfg, fmt.Errorf("%w: can't setup cfg", err)
	}

	return cfg, nil
}
