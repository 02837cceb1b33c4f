// Package config loads loopgrid settings from defaults, an optional
// loopgrid.toml file, LOOPGRID_* environment variables and command flags.
//
// Precedence follows viper: flags override the environment, which overrides
// the config file, which overrides the defaults set by [SetDefaults].
package config

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/viper"

	errs "github.com/matzehuels/loopgrid/pkg/errors"
	"github.com/matzehuels/loopgrid/pkg/pipeline"
)

// EnvPrefix is the prefix of environment overrides, e.g. LOOPGRID_SERVE_ADDR.
const EnvPrefix = "LOOPGRID"

// FileName is the config file name searched for without extension.
const FileName = "loopgrid"

// Config is the full loopgrid configuration.
type Config struct {
	Log    LogConfig    `mapstructure:"log"`
	Render RenderConfig `mapstructure:"render"`
	Cache  CacheConfig  `mapstructure:"cache"`
	Store  StoreConfig  `mapstructure:"store"`
	Serve  ServeConfig  `mapstructure:"serve"`
	Watch  WatchConfig  `mapstructure:"watch"`
}

// LogConfig controls the CLI logger.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// RenderConfig holds the default render options.
type RenderConfig struct {
	Unit      int      `mapstructure:"unit"`
	Formats   []string `mapstructure:"formats"`
	DropZones bool     `mapstructure:"drop_zones"`
	Labels    bool     `mapstructure:"labels"`
}

// CacheConfig selects the layout cache. A non-empty RedisAddr selects Redis,
// otherwise layouts are cached as files under Dir.
type CacheConfig struct {
	Disabled      bool          `mapstructure:"disabled"`
	Dir           string        `mapstructure:"dir"`
	TTL           time.Duration `mapstructure:"ttl"`
	RedisAddr     string        `mapstructure:"redis_addr"`
	RedisPassword string        `mapstructure:"redis_password"`
	RedisDB       int           `mapstructure:"redis_db"`
}

// StoreConfig selects where the HTTP service keeps composed layouts:
// MongoDB when MongoURI is set, JSON files when Dir is set, else memory.
type StoreConfig struct {
	MongoURI   string        `mapstructure:"mongo_uri"`
	Dir        string        `mapstructure:"dir"`
	Database   string        `mapstructure:"database"`
	Collection string        `mapstructure:"collection"`
	TTL        time.Duration `mapstructure:"ttl"`
}

// ServeConfig configures the HTTP service.
type ServeConfig struct {
	Addr            string        `mapstructure:"addr"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	MaxBodyBytes    int64         `mapstructure:"max_body_bytes"`
}

// WatchConfig configures the topology file watcher.
type WatchConfig struct {
	Debounce time.Duration `mapstructure:"debounce"`
}

// SetDefaults registers the default value of every key. Keys without a
// default are invisible to environment overrides during Unmarshal.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")

	v.SetDefault("render.unit", pipeline.DefaultUnit)
	v.SetDefault("render.formats", []string{pipeline.FormatSVG})
	v.SetDefault("render.drop_zones", false)
	v.SetDefault("render.labels", true)

	v.SetDefault("cache.disabled", false)
	v.SetDefault("cache.dir", "")
	v.SetDefault("cache.ttl", 7*24*time.Hour)
	v.SetDefault("cache.redis_addr", "")
	v.SetDefault("cache.redis_password", "")
	v.SetDefault("cache.redis_db", 0)

	v.SetDefault("store.mongo_uri", "")
	v.SetDefault("store.dir", "")
	v.SetDefault("store.database", "loopgrid")
	v.SetDefault("store.collection", "layouts")
	v.SetDefault("store.ttl", 7*24*time.Hour)

	v.SetDefault("serve.addr", ":8080")
	v.SetDefault("serve.read_timeout", 15*time.Second)
	v.SetDefault("serve.write_timeout", 60*time.Second)
	v.SetDefault("serve.shutdown_timeout", 10*time.Second)
	v.SetDefault("serve.max_body_bytes", int64(1<<20))

	v.SetDefault("watch.debounce", 200*time.Millisecond)
}

// Default returns the configuration made of defaults only.
func Default() *Config {
	v := viper.New()
	SetDefaults(v)
	cfg, err := FromViper(v)
	if err != nil {
		panic("config: invalid defaults: " + err.Error())
	}
	return cfg
}

// Setup prepares v to read file, or loopgrid.toml from the working directory
// and the user config dir when file is empty, plus LOOPGRID_* overrides.
func Setup(v *viper.Viper, file string) {
	SetDefaults(v)
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName(FileName)
		v.SetConfigType("toml")
		v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, FileName))
		}
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// Read loads the config file registered by [Setup]. A missing file is not
// an error unless it was named explicitly.
func Read(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return errs.Wrap(errs.ErrCodeInvalidConfig, err, "read config")
	}
	return nil
}

// FromViper decodes and validates the settings held by v.
func FromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidConfig, err, "decode config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that values are in range.
func (c *Config) Validate() error {
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return errs.New(errs.ErrCodeInvalidConfig, "log.level %q is not a log level", c.Log.Level)
	}
	if c.Render.Unit <= 0 {
		return errs.New(errs.ErrCodeInvalidConfig, "render.unit must be positive")
	}
	if err := pipeline.ValidateFormats(c.Render.Formats); err != nil {
		return errs.Wrap(errs.ErrCodeInvalidConfig, err, "render.formats")
	}
	if c.Cache.TTL < 0 {
		return errs.New(errs.ErrCodeInvalidConfig, "cache.ttl must not be negative")
	}
	if c.Store.TTL < 0 {
		return errs.New(errs.ErrCodeInvalidConfig, "store.ttl must not be negative")
	}
	if c.Store.MongoURI != "" && c.Store.Database == "" {
		return errs.New(errs.ErrCodeInvalidConfig, "store.database is required with store.mongo_uri")
	}
	if c.Serve.Addr == "" {
		return errs.New(errs.ErrCodeInvalidConfig, "serve.addr is required")
	}
	if c.Serve.MaxBodyBytes <= 0 {
		return errs.New(errs.ErrCodeInvalidConfig, "serve.max_body_bytes must be positive")
	}
	if c.Watch.Debounce < 0 {
		return errs.New(errs.ErrCodeInvalidConfig, "watch.debounce must not be negative")
	}
	return nil
}

// LogLevel returns the parsed log level, falling back to info.
func (c *Config) LogLevel() log.Level {
	level, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.InfoLevel
	}
	return level
}

// PipelineOptions returns the default pipeline options for this config.
func (c *Config) PipelineOptions() pipeline.Options {
	return pipeline.Options{
		DropZones:  c.Render.DropZones,
		Formats:    slices.Clone(c.Render.Formats),
		Unit:       c.Render.Unit,
		ShowLabels: c.Render.Labels,
	}
}
