// Package config loads application settings from a prosody.yaml file, the
// environment, and a local .env, in rising order of precedence over the
// built-in defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/prosodia/prosody-coach/prosody"
)

type Audio struct {
	SampleRate         int     `mapstructure:"sample_rate"`
	Channels           int     `mapstructure:"channels"`
	MaxRecordSeconds   int     `mapstructure:"max_record_seconds"`
	MinDurationSeconds float64 `mapstructure:"min_duration_seconds"`
}

type Coach struct {
	APIKey         string  `mapstructure:"api_key"`
	Model          string  `mapstructure:"model"`
	BaseURL        string  `mapstructure:"base_url"`
	Temperature    float64 `mapstructure:"temperature"`
	MaxTokens      int     `mapstructure:"max_tokens"`
	TimeoutSeconds int     `mapstructure:"timeout_seconds"`
}

func (c Coach) Timeout() time.Duration { return time.Duration(c.TimeoutSeconds) * time.Second }

type Storage struct {
	Path string `mapstructure:"path"`
}

type Paths struct {
	Recordings string `mapstructure:"recordings"`
	Reports    string `mapstructure:"reports"`
}

type Root struct {
	LogLevel string         `mapstructure:"log_level"`
	Audio    Audio          `mapstructure:"audio"`
	Analysis prosody.Config `mapstructure:"analysis"`
	Coach    Coach          `mapstructure:"coach"`
	Storage  Storage        `mapstructure:"storage"`
	Paths    Paths          `mapstructure:"paths"`
}

// Defaults returns the configuration used when no file or environment
// overrides anything. Data lives under ~/.prosody-coach.
func Defaults() Root {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	base := filepath.Join(home, ".prosody-coach")
	return Root{
		LogLevel: "info",
		Audio: Audio{
			SampleRate:         44100,
			Channels:           1,
			MaxRecordSeconds:   300,
			MinDurationSeconds: 1.0,
		},
		Analysis: prosody.DefaultConfig(),
		Coach: Coach{
			Model:          "gemini-2.0-flash",
			BaseURL:        "https://generativelanguage.googleapis.com",
			Temperature:    0.3,
			MaxTokens:      2048,
			TimeoutSeconds: 60,
		},
		Storage: Storage{Path: filepath.Join(base, "sessions.db")},
		Paths: Paths{
			Recordings: filepath.Join(base, "recordings"),
			Reports:    ".",
		},
	}
}

// Load resolves the configuration from the default search path: prosody.yaml
// in the working directory, then in the user config directory.
func Load() (*Root, error) {
	return LoadFrom("")
}

// LoadFrom resolves the configuration, reading the given file instead of
// searching when path is non-empty. A missing file is not an error; a
// malformed one is.
func LoadFrom(path string) (*Root, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("prosody")
		v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "prosody-coach"))
		}
	}

	v.SetEnvPrefix("PROSODY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// Unmarshal only sees env values for bound keys.
	_ = v.BindEnv("log_level")
	_ = v.BindEnv("storage.path")
	_ = v.BindEnv("coach.model")
	_ = v.BindEnv("coach.api_key", "GEMINI_API_KEY", "PROSODY_COACH_API_KEY")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := Defaults()
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.ensureDirs(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Root) ensureDirs() error {
	for _, dir := range []string{filepath.Dir(c.Storage.Path), c.Paths.Recordings} {
		if dir == "" || dir == "." {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	return nil
}
