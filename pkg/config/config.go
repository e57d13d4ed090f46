// Package config loads formulastats settings from a YAML file and the
// environment.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"formulastats/pkg/charts"
	"formulastats/pkg/dashboard"
	"formulastats/pkg/palette"
	"formulastats/pkg/roster"
	"formulastats/pkg/scheduler"
	"formulastats/pkg/stats"
	"formulastats/pkg/webserver"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	DefaultDataDir    = "./f1_data"
	DefaultListenAddr = ":8080"
	DefaultDBPath     = "./formulastats.db"
)

// OutlierConfig controls lap filtering for every chart.
type OutlierConfig struct {
	Remove bool   `yaml:"remove"`
	Scope  string `yaml:"scope"` // joint or per_team
}

// RateLimitConfig is the per-client limit of the web UI. Zero RPS disables it.
type RateLimitConfig struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

// Config holds everything the commands need to wire the services.
type Config struct {
	DataDir       string          `yaml:"data_dir"`
	ListenAddr    string          `yaml:"listen_addr"`
	ResourcesDir  string          `yaml:"resources_dir"`
	ChartCacheDir string          `yaml:"chart_cache_dir"`
	DBPath        string          `yaml:"db_path"`
	TelegramToken string          `yaml:"telegram_token"`
	LogLevel      string          `yaml:"log_level"`
	Fallback      string          `yaml:"fallback_color"`
	Scheme        string          `yaml:"scheme"`
	Rotation      float64         `yaml:"rotation"`
	DPI           int             `yaml:"dpi"`
	Watermark     bool            `yaml:"watermark"`
	Outliers      OutlierConfig   `yaml:"outliers"`
	ScrapeCron    string          `yaml:"scrape_cron"`
	Categories    []string        `yaml:"categories"`
	RateLimit     RateLimitConfig `yaml:"rate_limit"`

	// Warnings collects non-fatal problems found while loading. They are
	// logged by the caller once the logger exists.
	Warnings []string `yaml:"-"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		DataDir:    DefaultDataDir,
		ListenAddr: DefaultListenAddr,
		DBPath:     DefaultDBPath,
		LogLevel:   "info",
		Fallback:   palette.DefaultFallback,
		Scheme:     string(palette.SchemeOfficial),
		Rotation:   charts.DefaultRotation,
		DPI:        300,
		Watermark:  true,
		Outliers:   OutlierConfig{Remove: true, Scope: string(stats.ScopeJoint)},
		ScrapeCron: scheduler.DefaultSchedule,
		Categories: []string{string(roster.CategoryF1), string(roster.CategoryF2), string(roster.CategoryF3)},
		RateLimit:  RateLimitConfig{RPS: 20, Burst: 40},
	}
}

// Load reads path (when not empty) over the defaults and then applies the
// environment.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrapf(err, "read config %s", path)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrapf(err, "parse config %s", path)
		}
	}
	cfg.applyEnv()
	cfg.validate()
	return cfg, nil
}

func (c *Config) applyEnv() {
	setString := func(key string, dst *string) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			*dst = v
		}
	}
	setString("FORMULASTATS_DATA_DIR", &c.DataDir)
	setString("WEBSERVER_ADDRESS", &c.ListenAddr)
	setString("FORMULASTATS_RESOURCES_DIR", &c.ResourcesDir)
	setString("FORMULASTATS_CHART_CACHE", &c.ChartCacheDir)
	setString("FORMULASTATS_DB", &c.DBPath)
	setString("TELEGRAM_TOKEN", &c.TelegramToken)
	setString("LOG_LEVEL", &c.LogLevel)
	setString("FORMULASTATS_FALLBACK_COLOR", &c.Fallback)
	setString("FORMULASTATS_SCHEME", &c.Scheme)
	setString("FORMULASTATS_OUTLIER_SCOPE", &c.Outliers.Scope)
	setString("FORMULASTATS_SCRAPE_CRON", &c.ScrapeCron)

	c.Outliers.Remove = parseBoolEnvDefault("FORMULASTATS_REMOVE_OUTLIERS", c.Outliers.Remove)
	c.Watermark = parseBoolEnvDefault("FORMULASTATS_WATERMARK", c.Watermark)

	if v := os.Getenv("FORMULASTATS_DPI"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.DPI = n
		} else {
			c.warnf("FORMULASTATS_DPI=%q is not an integer, keeping %d", v, c.DPI)
		}
	}
	if v := os.Getenv("RATE_LIMIT_RPS"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.RateLimit.RPS = f
		} else {
			c.warnf("RATE_LIMIT_RPS=%q is not a number, keeping %g", v, c.RateLimit.RPS)
		}
	}
	if v := os.Getenv("RATE_LIMIT_BURST"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.RateLimit.Burst = n
		} else {
			c.warnf("RATE_LIMIT_BURST=%q is not an integer, keeping %d", v, c.RateLimit.Burst)
		}
	}
	if v := os.Getenv("FORMULASTATS_CATEGORIES"); v != "" {
		parts := strings.Split(v, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		c.Categories = compactNonEmpty(parts)
	}
}

func (c *Config) validate() {
	switch stats.Scope(c.Outliers.Scope) {
	case stats.ScopeJoint, stats.ScopePerTeam:
	default:
		c.warnf("unknown outlier scope %q, using %s", c.Outliers.Scope, stats.ScopeJoint)
		c.Outliers.Scope = string(stats.ScopeJoint)
	}
	if c.DPI <= 0 {
		c.warnf("dpi %d must be positive, using 300", c.DPI)
		c.DPI = 300
	}
	if c.RateLimit.RPS < 0 {
		c.warnf("rate limit %g is negative, disabling it", c.RateLimit.RPS)
		c.RateLimit.RPS = 0
	}
	if c.RateLimit.RPS > 0 && c.RateLimit.Burst < 1 {
		c.RateLimit.Burst = 1
	}
	known := c.Categories[:0]
	for _, name := range c.Categories {
		if _, ok := roster.ParseCategory(name); ok {
			known = append(known, name)
			continue
		}
		c.warnf("ignoring unknown roster category %q", name)
	}
	c.Categories = known
}

func (c *Config) warnf(format string, args ...any) {
	c.Warnings = append(c.Warnings, fmt.Sprintf(format, args...))
}

// SlogLevel maps the LogLevel string to an slog.Level.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// RosterCategories returns the categories the scheduler refreshes.
func (c *Config) RosterCategories() []roster.Category {
	out := make([]roster.Category, 0, len(c.Categories))
	for _, name := range c.Categories {
		if cat, ok := roster.ParseCategory(name); ok {
			out = append(out, cat)
		}
	}
	return out
}

func (c *Config) DashboardOptions() dashboard.Options {
	return dashboard.Options{
		Fallback:       palette.NormalizeColor(c.Fallback),
		Scheme:         palette.ParseScheme(c.Scheme),
		RemoveOutliers: c.Outliers.Remove,
		OutlierScope:   stats.Scope(c.Outliers.Scope),
		DPI:            c.DPI,
		Watermark:      c.Watermark,
		Rotation:       c.Rotation,
	}
}

func (c *Config) WebConfig() webserver.Config {
	return webserver.Config{
		Address:       c.ListenAddr,
		ResourcesDir:  c.ResourcesDir,
		ChartCacheDir: c.ChartCacheDir,
		RateLimit: webserver.RateLimitConfig{
			RequestsPerSecond: c.RateLimit.RPS,
			Burst:             c.RateLimit.Burst,
		},
	}
}

func parseBoolEnvDefault(key string, defaultVal bool) bool {
	v := strings.TrimSpace(strings.ToLower(os.Getenv(key)))
	if v == "" {
		return defaultVal
	}
	if v == "0" || v == "false" || v == "no" || v == "off" {
		return false
	}
	if v == "1" || v == "true" || v == "yes" || v == "on" {
		return true
	}
	return defaultVal
}

func compactNonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
