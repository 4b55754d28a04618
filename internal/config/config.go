// Package config loads folio settings from defaults, a TOML file, an
// optional .env file and the process environment, in that order of
// increasing precedence. Command-line flags are applied by the caller.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	ferrors "github.com/matzehuels/folio/pkg/errors"
)

const appName = "folio"

// Cache backends accepted by [ServerConfig.Cache].
const (
	CacheMemory = "memory"
	CacheFile   = "file"
	CacheRedis  = "redis"
	CacheNone   = "none"
)

// Backends lists the valid cache backends.
var Backends = []string{CacheMemory, CacheFile, CacheRedis, CacheNone}

// Config holds all folio settings.
type Config struct {
	Server ServerConfig `toml:"server"`
	Client ClientConfig `toml:"client"`
}

// ServerConfig configures the proxy.
type ServerConfig struct {
	Addr            string        `toml:"addr"`
	Upstream        string        `toml:"upstream"`
	Token           string        `toml:"token"`
	DefaultUsername string        `toml:"default_username"`
	Cache           string        `toml:"cache"`
	CacheTTL        time.Duration `toml:"cache_ttl"`
	CacheSize       int           `toml:"cache_size"` // memory backend entry bound
	Retries         int           `toml:"retries"`    // upstream attempts per request
	RedisAddr       string        `toml:"redis_addr"`
	RedisPassword   string        `toml:"redis_password"`
	RedisDB         int           `toml:"redis_db"`
}

// ClientConfig configures the fetch orchestrator used by the CLI.
type ClientConfig struct {
	APIURL     string        `toml:"api_url"`
	Username   string        `toml:"username"`
	Expiration time.Duration `toml:"expiration"`
	Debounce   time.Duration `toml:"debounce"`
	MinStars   int           `toml:"min_stars"`
	NoForks    bool          `toml:"exclude_forks"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			Upstream:        "https://api.github.com",
			DefaultUsername: "dacrab",
			Cache:           CacheMemory,
			CacheTTL:        time.Hour,
			CacheSize:       1024,
			Retries:         3,
		},
		Client: ClientConfig{
			APIURL:     "http://localhost:8080",
			Username:   "dacrab",
			Expiration: 15 * time.Minute,
			Debounce:   500 * time.Millisecond,
		},
	}
}

// Options selects where [Load] reads from.
type Options struct {
	// Path is the TOML file. Empty selects [DefaultPath], which may be
	// absent; an explicit path must exist.
	Path string
	// EnvFile is the dotenv file. Empty selects ".env" in the working
	// directory, which may be absent.
	EnvFile string
	// LookupEnv reads the environment. Defaults to os.LookupEnv.
	LookupEnv func(string) (string, bool)
}

// Load builds the configuration.
func Load(opts Options) (*Config, error) {
	cfg := Default()

	path, explicit := opts.Path, opts.Path != ""
	if !explicit {
		path = DefaultPath()
	}
	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			if !errors.Is(err, fs.ErrNotExist) || explicit {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
		}
	}

	envFile, explicitEnv := opts.EnvFile, opts.EnvFile != ""
	if !explicitEnv {
		envFile = ".env"
	}
	dotenv, err := godotenv.Read(envFile)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) || explicitEnv {
			return nil, fmt.Errorf("read env file %s: %w", envFile, err)
		}
		dotenv = nil
	}

	lookup := opts.LookupEnv
	if lookup == nil {
		lookup = os.LookupEnv
	}
	env := func(key string) (string, bool) {
		if v, ok := lookup(key); ok && v != "" {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok && v != ""
	}
	if err := cfg.applyEnv(env); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(env func(string) (string, bool)) error {
	str := func(dst *string, keys ...string) {
		for _, k := range keys {
			if v, ok := env(k); ok {
				*dst = v
				return
			}
		}
	}
	dur := func(dst *time.Duration, key string) error {
		v, ok := env(key)
		if !ok {
			return nil
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = d
		return nil
	}

	str(&c.Server.Token, "GITHUB_TOKEN", "GITHUB_ACCESS_TOKEN")
	str(&c.Server.Addr, "FOLIO_ADDR")
	str(&c.Server.Upstream, "FOLIO_UPSTREAM")
	str(&c.Server.Cache, "FOLIO_CACHE")
	str(&c.Server.RedisAddr, "FOLIO_REDIS_ADDR")
	str(&c.Server.RedisPassword, "FOLIO_REDIS_PASSWORD")
	str(&c.Client.APIURL, "FOLIO_API_URL")
	if v, ok := env("FOLIO_USERNAME"); ok {
		c.Client.Username = v
		c.Server.DefaultUsername = v
	}
	if err := dur(&c.Server.CacheTTL, "FOLIO_CACHE_TTL"); err != nil {
		return err
	}
	return dur(&c.Client.Expiration, "FOLIO_EXPIRATION")
}

// Validate checks settings that cannot be defaulted.
func (c *Config) Validate() error {
	var errs []error
	if err := ferrors.ValidateURL(c.Server.Upstream); err != nil {
		errs = append(errs, fmt.Errorf("upstream: %s", ferrors.UserMessage(err)))
	}
	if err := ferrors.ValidateURL(c.Client.APIURL); err != nil {
		errs = append(errs, fmt.Errorf("api_url: %s", ferrors.UserMessage(err)))
	}
	if !slices.Contains(Backends, c.Server.Cache) {
		errs = append(errs, fmt.Errorf("invalid cache backend %q (valid: %s)", c.Server.Cache, strings.Join(Backends, ", ")))
	}
	if c.Server.Cache == CacheRedis && c.Server.RedisAddr == "" {
		errs = append(errs, errors.New("redis cache requires redis_addr"))
	}
	if c.Server.CacheSize < 0 {
		errs = append(errs, errors.New("cache_size must not be negative"))
	}
	if c.Server.Retries < 1 {
		errs = append(errs, errors.New("retries must be at least 1"))
	}
	if c.Server.CacheTTL < 0 {
		errs = append(errs, errors.New("cache_ttl must not be negative"))
	}
	if c.Client.Expiration <= 0 {
		errs = append(errs, errors.New("expiration must be positive"))
	}
	if c.Client.Debounce < 0 {
		errs = append(errs, errors.New("debounce must not be negative"))
	}
	return errors.Join(errs...)
}

// DefaultPath returns $XDG_CONFIG_HOME/folio/config.toml, falling back to
// ~/.config. It returns "" if no home directory is known.
func DefaultPath() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, "config.toml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", appName, "config.toml")
}

// CacheDir returns $XDG_CACHE_HOME/folio, falling back to ~/.cache/folio.
func CacheDir() (string, error) {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
