package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/matzehuels/loopgrid/pkg/errors"
	"github.com/matzehuels/loopgrid/pkg/pipeline"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, pipeline.DefaultUnit, cfg.Render.Unit)
	assert.Equal(t, []string{pipeline.FormatSVG}, cfg.Render.Formats)
	assert.True(t, cfg.Render.Labels)
	assert.False(t, cfg.Render.DropZones)
	assert.Equal(t, 7*24*time.Hour, cfg.Cache.TTL)
	assert.Empty(t, cfg.Cache.RedisAddr)
	assert.Equal(t, "loopgrid", cfg.Store.Database)
	assert.Equal(t, "layouts", cfg.Store.Collection)
	assert.Equal(t, ":8080", cfg.Serve.Addr)
	assert.Equal(t, 200*time.Millisecond, cfg.Watch.Debounce)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"defaults", func(*Config) {}, ""},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
		{"zero unit", func(c *Config) { c.Render.Unit = 0 }, "render.unit"},
		{"bad format", func(c *Config) { c.Render.Formats = []string{"svg", "gif"} }, "render.formats"},
		{"negative cache ttl", func(c *Config) { c.Cache.TTL = -time.Second }, "cache.ttl"},
		{"mongo without database", func(c *Config) {
			c.Store.MongoURI = "mongodb://localhost:27017"
			c.Store.Database = ""
		}, "store.database"},
		{"empty addr", func(c *Config) { c.Serve.Addr = "" }, "serve.addr"},
		{"zero body limit", func(c *Config) { c.Serve.MaxBodyBytes = 0 }, "serve.max_body_bytes"},
		{"negative debounce", func(c *Config) { c.Watch.Debounce = -time.Millisecond }, "watch.debounce"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.want == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errs.Is(err, errs.ErrCodeInvalidConfig))
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "loopgrid.toml")
	content := `
[render]
unit = 40
formats = ["svg", "pdf"]
drop_zones = true

[watch]
debounce = "1s"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	v := viper.New()
	Setup(v, path)
	require.NoError(t, Read(v))
	cfg, err := FromViper(v)
	require.NoError(t, err)

	assert.Equal(t, 40, cfg.Render.Unit)
	assert.Equal(t, []string{"svg", "pdf"}, cfg.Render.Formats)
	assert.True(t, cfg.Render.DropZones)
	assert.Equal(t, time.Second, cfg.Watch.Debounce)
	assert.Equal(t, ":8080", cfg.Serve.Addr, "unset keys keep defaults")
}

func TestReadMissingSearchedFile(t *testing.T) {
	t.Chdir(t.TempDir())

	v := viper.New()
	Setup(v, "")
	assert.NoError(t, Read(v))
}

func TestReadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "loopgrid.toml")
	require.NoError(t, os.WriteFile(path, []byte("[render\nunit = "), 0o644))

	v := viper.New()
	Setup(v, path)
	err := Read(v)
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.ErrCodeInvalidConfig))
}

func TestEnvironmentOverride(t *testing.T) {
	t.Setenv("LOOPGRID_SERVE_ADDR", "127.0.0.1:9999")
	t.Setenv("LOOPGRID_RENDER_UNIT", "25")
	t.Setenv("LOOPGRID_CACHE_REDIS_ADDR", "localhost:6379")

	v := viper.New()
	Setup(v, "")
	cfg, err := FromViper(v)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9999", cfg.Serve.Addr)
	assert.Equal(t, 25, cfg.Render.Unit)
	assert.Equal(t, "localhost:6379", cfg.Cache.RedisAddr)
}

func TestFlagBinding(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Int("unit", 0, "")
	require.NoError(t, flags.Parse([]string{"--unit", "12"}))

	v := viper.New()
	Setup(v, "")
	require.NoError(t, v.BindPFlag("render.unit", flags.Lookup("unit")))
	cfg, err := FromViper(v)
	require.NoError(t, err)

	assert.Equal(t, 12, cfg.Render.Unit)
}

func TestLogLevel(t *testing.T) {
	cfg := Default()
	assert.Equal(t, log.InfoLevel, cfg.LogLevel())

	cfg.Log.Level = "debug"
	assert.Equal(t, log.DebugLevel, cfg.LogLevel())

	cfg.Log.Level = "nonsense"
	assert.Equal(t, log.InfoLevel, cfg.LogLevel())
}

func TestPipelineOptions(t *testing.T) {
	cfg := Default()
	cfg.Render.DropZones = true
	cfg.Render.Unit = 50

	opts := cfg.PipelineOptions()
	assert.True(t, opts.DropZones)
	assert.Equal(t, 50, opts.Unit)
	assert.True(t, opts.ShowLabels)
	assert.Equal(t, []string{pipeline.FormatSVG}, opts.Formats)

	opts.Formats[0] = pipeline.FormatPDF
	assert.Equal(t, pipeline.FormatSVG, cfg.Render.Formats[0], "options must not alias the config")
}
