// Package config loads bouqlink settings.
//
// Settings come from three layers, later layers winning:
//
//  1. a TOML file, by default $XDG_CONFIG_HOME/bouqlink/config.toml
//  2. BOUQLINK_* environment variables, optionally seeded from .env files
//  3. explicit overrides applied with [Config.Set], which the CLI uses for
//     command-line flags
//
// Every setting has a dotted key (for example "cache.backend") shared by
// the file layout, [Config.Set] and [Config.Get].
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/bouqlink/bouqlink/pkg/cache"
	bqerrors "github.com/bouqlink/bouqlink/pkg/errors"
	"github.com/bouqlink/bouqlink/pkg/layout"
	"github.com/bouqlink/bouqlink/pkg/share"
)

const (
	// AppName names the configuration and cache directories.
	AppName = "bouqlink"

	// EnvPrefix starts every environment override.
	EnvPrefix = "BOUQLINK_"
)

// ErrUnknownKey is returned for keys that name no setting.
var ErrUnknownKey = errors.New("unknown config key")

// Config is the complete settings tree.
type Config struct {
	BaseURL   string    `toml:"base_url"`
	Shortener Shortener `toml:"shortener"`
	Cache     Cache     `toml:"cache"`
	Layout    Layout    `toml:"layout"`
	Server    Server    `toml:"server"`
}

// Shortener configures the optional URL shortening service.
type Shortener struct {
	Enabled  bool     `toml:"enabled"`
	Endpoint string   `toml:"endpoint"`
	Timeout  Duration `toml:"timeout"`
}

// Cache configures where shortened links are remembered.
type Cache struct {
	Backend       string   `toml:"backend"`
	Dir           string   `toml:"dir,omitempty"`
	TTL           Duration `toml:"ttl"`
	RedisAddr     string   `toml:"redis_addr"`
	RedisPassword string   `toml:"redis_password,omitempty"`
	RedisDB       int      `toml:"redis_db"`
}

// Layout holds placement defaults.
type Layout struct {
	Policy string `toml:"policy"`
}

// Server configures the HTTP API.
type Server struct {
	Addr string `toml:"addr"`
}

// Duration is a time.Duration that reads and writes as text such as "10s"
// or "30d".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := parseDuration(string(b))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(formatDuration(d.Duration)), nil
}

func parseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if days, ok := strings.CutSuffix(s, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("invalid duration %q", s)
		}
		return time.Duration(n) * 24 * time.Hour, nil
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if v < 0 {
		return 0, fmt.Errorf("invalid duration %q", s)
	}
	return v, nil
}

func formatDuration(d time.Duration) string {
	const day = 24 * time.Hour
	if d > 0 && d%day == 0 {
		return strconv.Itoa(int(d/day)) + "d"
	}
	return d.String()
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		BaseURL: share.DefaultBase,
		Shortener: Shortener{
			Endpoint: share.DefaultEndpoint,
			Timeout:  Duration{10 * time.Second},
		},
		Cache: Cache{
			Backend:   cache.BackendFile,
			TTL:       Duration{share.DefaultCacheTTL},
			RedisAddr: "localhost:6379",
		},
		Layout: Layout{Policy: layout.PolicyClustered.String()},
		Server: Server{Addr: ":8080"},
	}
}

// DefaultPath returns the config file location, following XDG
// (~/.config/bouqlink/config.toml).
func DefaultPath() (string, error) {
	if home := os.Getenv("XDG_CONFIG_HOME"); home != "" {
		return filepath.Join(home, AppName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", AppName, "config.toml"), nil
}

// CacheDir returns the cache directory using XDG (~/.cache/bouqlink/).
func CacheDir() (string, error) {
	if home := os.Getenv("XDG_CACHE_HOME"); home != "" {
		return filepath.Join(home, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", AppName), nil
}

// Load reads the file at path over the defaults and then applies the
// process environment. An empty path means [DefaultPath]; a missing file
// is not an error unless the path was given explicitly.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	cfg := Default()
	if err := cfg.ReadFile(path); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

// ReadFile decodes a TOML file over c. Keys that name no setting are
// rejected so typos do not pass silently.
func (c *Config) ReadFile(path string) error {
	md, err := toml.DecodeFile(path, c)
	if err != nil {
		return fmt.Errorf("config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("config %s: %w: %s", path, ErrUnknownKey, strings.Join(keys, ", "))
	}
	return nil
}

// LoadDotenv loads variables from the given .env files into the process
// environment without replacing variables that are already set. Missing
// files are skipped.
func LoadDotenv(paths ...string) error {
	for _, p := range paths {
		if _, err := os.Stat(p); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// ApplyEnv applies BOUQLINK_* overrides found by lookup. The variable for
// a key is the prefix plus the key upper-cased with dots replaced by
// underscores, e.g. BOUQLINK_CACHE_BACKEND.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	for _, f := range fields {
		if v, ok := lookup(EnvVar(f.key)); ok {
			if err := f.set(c, v); err != nil {
				return fmt.Errorf("%s: %w", EnvVar(f.key), err)
			}
		}
	}
	return nil
}

// EnvVar returns the environment variable that overrides key.
func EnvVar(key string) string {
	return EnvPrefix + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// Set assigns a single setting from its text form.
func (c *Config) Set(key, value string) error {
	f, ok := lookupField(key)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	if err := f.set(c, value); err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	return nil
}

// Get returns the text form of a setting.
func (c *Config) Get(key string) (string, bool) {
	f, ok := lookupField(key)
	if !ok {
		return "", false
	}
	return f.get(c), true
}

// Keys lists every setting key in file order.
func Keys() []string {
	keys := make([]string, len(fields))
	for i, f := range fields {
		keys[i] = f.key
	}
	return keys
}

// Validate checks values that would otherwise fail later and far from
// their source.
func (c *Config) Validate() error {
	if err := bqerrors.ValidateURL(c.BaseURL); err != nil {
		return fmt.Errorf("base_url: %w", err)
	}
	if c.Shortener.Enabled {
		if err := bqerrors.ValidateURL(c.Shortener.Endpoint); err != nil {
			return fmt.Errorf("shortener.endpoint: %w", err)
		}
	}
	if !slices.Contains(cache.Backends(), strings.ToLower(c.Cache.Backend)) {
		return fmt.Errorf("cache.backend: %w: %q", cache.ErrUnknownBackend, c.Cache.Backend)
	}
	if _, err := layout.ParsePolicy(c.Layout.Policy); err != nil {
		return fmt.Errorf("layout.policy: %w", err)
	}
	return nil
}

// CacheOptions converts the cache settings for [cache.Open]. An empty
// directory falls back to [CacheDir].
func (c *Config) CacheOptions() cache.Options {
	dir := c.Cache.Dir
	if dir == "" {
		dir, _ = CacheDir()
	}
	return cache.Options{
		Backend: c.Cache.Backend,
		Dir:     dir,
		Redis: cache.RedisOptions{
			Addr:     c.Cache.RedisAddr,
			Password: c.Cache.RedisPassword,
			DB:       c.Cache.RedisDB,
		},
	}
}

// Write encodes c as TOML.
func (c *Config) Write(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}
