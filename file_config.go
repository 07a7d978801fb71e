package rawrmemo

import (
	"io"
	"os"
	"strconv"
	"time"

	"github.com/Keksclan/rawrmemo/breaker"
	"github.com/Keksclan/rawrmemo/retry"
	"github.com/Keksclan/rawrmemo/store"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Config is the file form of a memo's options:
//
//	name: thumbnails
//	single_flight: true
//	ttl: 10m
//	l1:
//	  max_cost: 10000
//	l2:
//	  addr: localhost:6379
//	  prefix: thumbs
//	  breaker:
//	    failure_threshold: 5
//	    open_timeout: 10s
//	retry:
//	  max_attempts: 3
//	  base_delay: 50ms
type Config struct {
	Name         string        `yaml:"name"`
	SingleFlight bool          `yaml:"single_flight"`
	TTL          time.Duration `yaml:"ttl"`
	WarmLimit    int           `yaml:"warm_limit"`

	L1    *L1FileConfig    `yaml:"l1"`
	L2    *L2FileConfig    `yaml:"l2"`
	Retry *RetryFileConfig `yaml:"retry"`
}

// L1FileConfig configures the bounded in-process store.
type L1FileConfig struct {
	MaxCost int64 `yaml:"max_cost"`
}

// L2FileConfig configures the Redis store.
type L2FileConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix"`

	Breaker *BreakerFileConfig `yaml:"breaker"`
}

// BreakerFileConfig configures the circuit breaker in front of Redis.
type BreakerFileConfig struct {
	FailureThreshold   int           `yaml:"failure_threshold"`
	OpenTimeout        time.Duration `yaml:"open_timeout"`
	HalfOpenMaxSuccess int           `yaml:"half_open_max_success"`
}

// RetryFileConfig configures recompute retries. Every error is retried.
type RetryFileConfig struct {
	MaxAttempts int           `yaml:"max_attempts"`
	BaseDelay   time.Duration `yaml:"base_delay"`
	MaxDelay    time.Duration `yaml:"max_delay"`
	Jitter      float64       `yaml:"jitter"`
}

// LoadConfig decodes a YAML memo configuration and validates it.
func LoadConfig(r io.Reader) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && err != io.EOF {
		return nil, zerr.Wrap(err, "failed to decode memo config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadConfigFile reads and decodes the YAML file at path.
func LoadConfigFile(path string) (*Config, error) {
	f, err := os.Open(path) //nolint:gosec // Path is controlled by caller
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to open memo config"), "path", path)
	}
	defer f.Close() //nolint:errcheck // Read-only file

	cfg, err := LoadConfig(f)
	if err != nil {
		return nil, zerr.With(err, "path", path)
	}
	return cfg, nil
}

// Validate rejects sizes, durations and attempt counts that cannot describe
// a working memo.
func (c *Config) Validate() error {
	if c.TTL < 0 {
		return zerr.With(ErrInvalidConfig, "ttl", c.TTL.String())
	}
	if c.WarmLimit < 0 {
		return zerr.With(ErrInvalidConfig, "warm_limit", strconv.Itoa(c.WarmLimit))
	}
	if c.L1 != nil && c.L1.MaxCost <= 0 {
		return zerr.With(ErrInvalidConfig, "l1.max_cost", strconv.FormatInt(c.L1.MaxCost, 10))
	}
	if c.L2 != nil {
		if c.L2.Addr == "" {
			return zerr.With(ErrInvalidConfig, "l2.addr", "")
		}
		if b := c.L2.Breaker; b != nil && b.OpenTimeout <= 0 {
			return zerr.With(ErrInvalidConfig, "l2.breaker.open_timeout", b.OpenTimeout.String())
		}
	}
	if r := c.Retry; r != nil {
		if r.MaxAttempts < 0 || r.BaseDelay < 0 || r.MaxDelay < 0 || r.Jitter < 0 {
			return zerr.With(ErrInvalidConfig, "retry", "negative value")
		}
	}
	return nil
}

// Options converts the file configuration into memo options.
func (c *Config) Options() []Option {
	var opts []Option
	if c.Name != "" {
		opts = append(opts, WithName(c.Name))
	}
	if c.SingleFlight {
		opts = append(opts, WithSingleFlight())
	}
	if c.TTL > 0 {
		opts = append(opts, WithTTL(c.TTL))
	}
	if c.WarmLimit > 0 {
		opts = append(opts, WithWarmLimit(c.WarmLimit))
	}
	if c.L1 != nil {
		opts = append(opts, WithCacheL1(c.L1.MaxCost))
	}
	if c.L2 != nil {
		l2 := store.L2Config{
			Addr:     c.L2.Addr,
			Password: c.L2.Password,
			DB:       c.L2.DB,
			Prefix:   c.L2.Prefix,
		}
		if b := c.L2.Breaker; b != nil {
			l2.Breaker = &breaker.Config{
				FailureThreshold:   b.FailureThreshold,
				OpenTimeout:        b.OpenTimeout,
				HalfOpenMaxSuccess: b.HalfOpenMaxSuccess,
			}
		}
		opts = append(opts, WithCacheL2Config(l2))
	}
	if r := c.Retry; r != nil {
		opts = append(opts, WithRetry(retry.Config{
			MaxAttempts: r.MaxAttempts,
			BaseDelay:   r.BaseDelay,
			MaxDelay:    r.MaxDelay,
			Jitter:      r.Jitter,
		}))
	}
	return opts
}
