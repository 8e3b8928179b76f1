package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"spacex-dash/launches"
)

// Default values for the dashboard configuration.
const (
	DefaultAddr         = ":8050"
	DefaultSource       = "https://cf-courses-data.s3.us.cloud-object-storage.appdomain.cloud/IBM-DS0321EN-SkillsNetwork/datasets/dataset_part_2.csv"
	DefaultFetchTimeout = 30 * time.Second
	DefaultCacheTTL     = 10 * time.Minute
	DefaultSliderStep   = 1000
	DefaultChartWidth   = 640
	DefaultChartHeight  = 400
)

// Environment variables that override file values.
const (
	EnvSource  = "SPACEX_DASH_SOURCE"
	EnvAddr    = "SPACEX_DASH_ADDR"
	EnvArchive = "SPACEX_DASH_ARCHIVE"
	EnvLevel   = "SPACEX_DASH_LOG_LEVEL"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Data      DataConfig      `yaml:"data"`
	Engine    EngineConfig    `yaml:"engine"`
	Dashboard DashboardConfig `yaml:"dashboard"`
	Log       LogConfig       `yaml:"log"`
}

type ServerConfig struct {
	Addr           string   `yaml:"addr"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type DataConfig struct {
	// Source is a CSV path, an http(s) URL, or sqlite://<path> to serve the archive only.
	Source string `yaml:"source"`

	// Archive is an optional sqlite file that receives a snapshot of every
	// successful CSV load and is read when the CSV cannot be fetched.
	Archive string `yaml:"archive"`

	// Watch reloads the dataset when a local Source file changes.
	Watch bool `yaml:"watch"`

	FetchTimeout time.Duration `yaml:"fetch_timeout"`

	// CacheTTL keeps a fetched remote CSV for reuse by later reloads. Zero disables it.
	CacheTTL time.Duration `yaml:"cache_ttl"`
}

// ArchivePath returns the sqlite file backing the data source, if any.
func (d DataConfig) ArchivePath() string {
	if strings.HasPrefix(d.Source, launches.SQLitePrefix) {
		return strings.TrimPrefix(d.Source, launches.SQLitePrefix)
	}
	return d.Archive
}

type EngineConfig struct {
	SiteMatch    string `yaml:"site_match"`
	ScatterEmpty string `yaml:"scatter_empty"`
}

// Policy converts the engine settings to a launches.Policy.
func (e EngineConfig) Policy() launches.Policy {
	return launches.Policy{
		SiteMatch:    launches.SiteMatch(e.SiteMatch),
		ScatterEmpty: launches.ScatterEmpty(e.ScatterEmpty),
	}
}

type DashboardConfig struct {
	SliderStep  float64 `yaml:"slider_step"`
	ChartWidth  int     `yaml:"chart_width"`
	ChartHeight int     `yaml:"chart_height"`
}

type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// Load reads the config file at path. A missing file yields the defaults.
// A .env file next to the working directory is loaded first when present.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("config: load .env: %w", err)
	}

	cfg := defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("config: read %q: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("config: parse yaml: %w", err)
			}
		}
	}

	applyEnv(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return defaults()
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:           DefaultAddr,
			AllowedOrigins: []string{"*"},
		},
		Data: DataConfig{
			Source:       DefaultSource,
			FetchTimeout: DefaultFetchTimeout,
			CacheTTL:     DefaultCacheTTL,
		},
		Engine: EngineConfig{
			SiteMatch:    string(launches.MatchContains),
			ScatterEmpty: string(launches.ScatterEmptySeries),
		},
		Dashboard: DashboardConfig{
			SliderStep:  DefaultSliderStep,
			ChartWidth:  DefaultChartWidth,
			ChartHeight: DefaultChartHeight,
		},
		Log: LogConfig{Level: "info"},
	}
}

func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvSource); v != "" {
		cfg.Data.Source = v
	}
	if v := os.Getenv(EnvAddr); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv(EnvArchive); v != "" {
		cfg.Data.Archive = v
	}
	if v := os.Getenv(EnvLevel); v != "" {
		cfg.Log.Level = v
	}
}

func validate(cfg *Config) error {
	if cfg.Server.Addr == "" {
		return fmt.Errorf("server.addr must not be empty")
	}
	if cfg.Data.Source == "" {
		return fmt.Errorf("data.source must not be empty")
	}
	if cfg.Data.Source == launches.SQLitePrefix {
		return fmt.Errorf("data.source %q names no archive file", cfg.Data.Source)
	}
	if cfg.Data.FetchTimeout < 0 {
		return fmt.Errorf("data.fetch_timeout must not be negative")
	}
	if cfg.Data.CacheTTL < 0 {
		return fmt.Errorf("data.cache_ttl must not be negative")
	}
	switch launches.SiteMatch(cfg.Engine.SiteMatch) {
	case launches.MatchContains, launches.MatchExact:
	default:
		return fmt.Errorf("engine.site_match %q unknown: want contains|exact", cfg.Engine.SiteMatch)
	}
	switch launches.ScatterEmpty(cfg.Engine.ScatterEmpty) {
	case launches.ScatterEmptySeries, launches.ScatterEmptyPlaceholder:
	default:
		return fmt.Errorf("engine.scatter_empty %q unknown: want series|placeholder", cfg.Engine.ScatterEmpty)
	}
	if cfg.Dashboard.SliderStep <= 0 {
		return fmt.Errorf("dashboard.slider_step must be positive")
	}
	if cfg.Dashboard.ChartWidth <= 0 || cfg.Dashboard.ChartHeight <= 0 {
		return fmt.Errorf("dashboard chart size must be positive")
	}
	if _, err := zapcore.ParseLevel(cfg.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	return nil
}
