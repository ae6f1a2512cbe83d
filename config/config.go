// SPDX-License-Identifier: MIT

// Package config loads the capture and logging policy of dataview tools
// from a YAML file and DATAVIEW_* environment variables.
//
// Example file:
//
//	capture:
//	  codec: zstd
//	log:
//	  level: debug
//	  format: json
package config

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/katalvlaran/dataview/state"
	"github.com/spf13/viper"
)

// EnvPrefix namespaces environment overrides, e.g. DATAVIEW_CAPTURE_CODEC.
const EnvPrefix = "DATAVIEW"

// Config is the decoded policy.
type Config struct {
	Capture struct {
		Codec string `mapstructure:"codec"`
	} `mapstructure:"capture"`

	Log struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"`
	} `mapstructure:"log"`
}

func defaults(v *viper.Viper) {
	v.SetDefault("capture.codec", state.DefaultCodec.String())
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// Load reads path (YAML) over the defaults and applies environment
// overrides. An empty path skips the file.
func Load(path string) (*Config, error) {
	v := viper.New()
	defaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks every enumerated setting.
func (c *Config) Validate() error {
	if _, err := state.ParseCodec(c.Capture.Codec); err != nil {
		return fmt.Errorf("capture.codec: %w", err)
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("log.format: unknown format %q", c.Log.Format)
	}
	return nil
}

// Logger builds the configured slog logger writing to w.
func (c *Config) Logger(w io.Writer) (*slog.Logger, error) {
	lvl, err := parseLevel(c.Log.Level)
	if err != nil {
		return nil, err
	}
	hopts := &slog.HandlerOptions{Level: lvl}
	if strings.EqualFold(c.Log.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, hopts)), nil
	}
	return slog.New(slog.NewTextHandler(w, hopts)), nil
}

// StateOptions returns the capture options for state.Seal and state.Open.
func (c *Config) StateOptions(logger *slog.Logger) ([]state.Option, error) {
	codec, err := state.ParseCodec(c.Capture.Codec)
	if err != nil {
		return nil, err
	}
	opts := []state.Option{state.WithCodec(codec)}
	if logger != nil {
		opts = append(opts, state.WithLogger(logger))
	}
	return opts, nil
}

func parseLevel(s string) (slog.Level, error) {
	var lvl slog.Level
	if s == "" {
		return slog.LevelInfo, nil
	}
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		return 0, err
	}
	return lvl, nil
}
