// Package config loads lineage settings through viper: defaults, an
// optional config file and LINEAGE_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/spf13/viper"

	"lineage/class"
	"lineage/trace"
)

// DefaultConfigPath is used when no --config flag is given
const DefaultConfigPath = ".lineage/config.yaml"

// TraceConfig controls dispatch tracing
type TraceConfig struct {
	Enabled bool     `mapstructure:"enabled"`
	Filters []string `mapstructure:"filters"` // glob patterns on method names
}

// Config holds all configuration options for lineage.
type Config struct {
	Debug     bool        `mapstructure:"debug"`
	Flags     string      `mapstructure:"flags"` // marker list, e.g. "trace;debug"
	Trace     TraceConfig `mapstructure:"trace"`
	MaxDepth  int         `mapstructure:"max_depth"`
	SuitesDir string      `mapstructure:"suites_dir"`
}

// Defaults returns the built-in configuration
func Defaults() Config {
	return Config{
		MaxDepth:  class.DefaultMaxDepth,
		SuitesDir: "conformance/testdata",
	}
}

// SetDefaults registers the defaults on v
func SetDefaults(v *viper.Viper) {
	d := Defaults()
	v.SetDefault("debug", d.Debug)
	v.SetDefault("flags", d.Flags)
	v.SetDefault("trace.enabled", d.Trace.Enabled)
	v.SetDefault("trace.filters", d.Trace.Filters)
	v.SetDefault("max_depth", d.MaxDepth)
	v.SetDefault("suites_dir", d.SuitesDir)
}

// Load reads configuration into a Config.
// An explicit path must exist; the default path is optional.
func Load(v *viper.Viper, path string) (Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix("LINEAGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	switch {
	case path != "":
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config %s: %w", path, err)
		}
	default:
		if _, err := os.Stat(DefaultConfigPath); err == nil {
			v.SetConfigFile(DefaultConfigPath)
			if err := v.ReadInConfig(); err != nil {
				var notFound viper.ConfigFileNotFoundError
				if !errors.As(err, &notFound) {
					return Config{}, fmt.Errorf("reading config %s: %w", DefaultConfigPath, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	return cfg, nil
}

// debugMarker matches "debug" as a whole entry of a '#', ';' or ','
// separated marker list
var debugMarker = regexp.MustCompile(`(^|[#;,])debug([,;]|$)`)

// HasDebugMarker reports whether flags contains the debug marker
func HasDebugMarker(flags string) bool {
	return debugMarker.MatchString(flags)
}

// DebugEnabled reports whether failed operations write diagnostics
func (c Config) DebugEnabled() bool {
	return c.Debug || HasDebugMarker(c.Flags)
}

// NewTracer builds the diagnostics/trace sink for c
func (c Config) NewTracer(w io.Writer) *trace.Tracer {
	return trace.New(c.Trace.Enabled, c.DebugEnabled(), c.Trace.Filters, w)
}

// RegistryOptions returns the class.Registry options for c
func (c Config) RegistryOptions(w io.Writer) []class.Option {
	return []class.Option{
		class.WithTracer(c.NewTracer(w)),
		class.WithMaxDepth(c.MaxDepth),
	}
}
