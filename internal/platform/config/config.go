// Package config resolves settings from defaults, an optional config.yaml,
// an optional .env file, MOODOORO_* environment variables and changed
// command-line flags, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	kyaml "github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

const envPrefix = "MOODOORO_"

type Config struct {
	DataDir    string       `koanf:"data_dir" validate:"required"`
	DBPath     string       `koanf:"db_path" validate:"required"`
	LogPath    string       `koanf:"log_path" validate:"required"`
	LogLevel   string       `koanf:"log_level" validate:"oneof=debug info warn error"`
	JournalDir string       `koanf:"journal_dir" validate:"required"`
	Timer      TimerConfig  `koanf:"timer"`
	Server     ServerConfig `koanf:"server"`
	Cue        CueConfig    `koanf:"cue"`
}

type TimerConfig struct {
	// FocusMinutes of 0 selects the five second demo countdown.
	FocusMinutes int    `koanf:"focus_minutes" validate:"gte=0,lte=240"`
	BreakMinutes int    `koanf:"break_minutes" validate:"gte=1,lte=60"`
	Subject      string `koanf:"subject" validate:"max=120"`
}

type ServerConfig struct {
	Addr string `koanf:"addr" validate:"required,hostname_port"`
}

type CueConfig struct {
	Bell         bool   `koanf:"bell"`
	ManifestPath string `koanf:"manifest_path" validate:"required"`
}

const demoFocus = 5 * time.Second

func (t TimerConfig) FocusDuration() time.Duration {
	if t.FocusMinutes == 0 {
		return demoFocus
	}
	return time.Duration(t.FocusMinutes) * time.Minute
}

func (t TimerConfig) BreakDuration() time.Duration {
	return time.Duration(t.BreakMinutes) * time.Minute
}

// Default returns the configuration rooted at dataDir before any layer is applied.
func Default(dataDir string) Config {
	return Config{
		DataDir:  dataDir,
		LogLevel: "info",
		Timer:    TimerConfig{FocusMinutes: 25, BreakMinutes: 5},
		Server:   ServerConfig{Addr: "127.0.0.1:7425"},
		Cue:      CueConfig{Bell: true},
	}
}

type LoadOptions struct {
	DataDir    string
	ConfigFile string
	Flags      *pflag.FlagSet
}

// flagKeys maps command-line flags onto config keys.
var flagKeys = map[string]string{
	"data-dir":      "data_dir",
	"log-level":     "log_level",
	"focus-minutes": "timer.focus_minutes",
	"break-minutes": "timer.break_minutes",
	"subject":       "timer.subject",
	"addr":          "server.addr",
	"out":           "journal_dir",
	"bell":          "cue.bell",
}

func Load(opts LoadOptions) (Config, error) {
	dataDir, err := resolveDataDir(opts.DataDir)
	if err != nil {
		return Config{}, err
	}
	cfg := Default(dataDir)
	k := koanf.New(".")

	configFile := opts.ConfigFile
	if configFile == "" {
		configFile = filepath.Join(dataDir, "config.yaml")
	}
	if _, err := os.Stat(configFile); err == nil {
		if err := k.Load(file.Provider(configFile), kyaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("load config file: %w", err)
		}
	} else if opts.ConfigFile != "" || !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("stat config file: %w", err)
	}

	// godotenv never overrides variables that are already set.
	if err := godotenv.Load(filepath.Join(dataDir, ".env")); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	if err := k.Load(env.Provider(envPrefix, ".", envKey), nil); err != nil {
		return Config{}, fmt.Errorf("load env: %w", err)
	}

	if opts.Flags != nil {
		provider := posflag.ProviderWithFlag(opts.Flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			key, ok := flagKeys[f.Name]
			if !ok || !f.Changed {
				return "", nil
			}
			return key, posflag.FlagVal(opts.Flags, f)
		})
		if err := k.Load(provider, nil); err != nil {
			return Config{}, fmt.Errorf("load flags: %w", err)
		}
	}

	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.fillPaths()
	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// New is the flag- and file-free configuration rooted at dataDir.
func New(dataDir string) (Config, error) {
	return Load(LoadOptions{DataDir: dataDir})
}

func (c *Config) fillPaths() {
	if c.DBPath == "" {
		c.DBPath = filepath.Join(c.DataDir, "moodooro.db")
	}
	if c.LogPath == "" {
		c.LogPath = filepath.Join(c.DataDir, "logs", "moodooro.log")
	}
	if c.JournalDir == "" {
		c.JournalDir = filepath.Join(c.DataDir, "journal")
	}
	if c.Cue.ManifestPath == "" {
		c.Cue.ManifestPath = filepath.Join(c.DataDir, "plugins", "plugins.json")
	}
}

func resolveDataDir(dataDir string) (string, error) {
	if dataDir != "" {
		return dataDir, nil
	}
	if v := os.Getenv(envPrefix + "DATA_DIR"); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".moodooro"), nil
}

// MOODOORO_TIMER__FOCUS_MINUTES -> timer.focus_minutes
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, envPrefix))
	return strings.ReplaceAll(s, "__", ".")
}
