package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"datehelper/pkg/calendar"
	"datehelper/pkg/locale"
	"datehelper/pkg/zone"
)

// LogConfig controls the process logger.
type LogConfig struct {
	// Level is one of "debug", "info", "error".
	Level string `yaml:"level" json:"level"`
	// File, if set, receives log output with size-based rotation.
	File       string `yaml:"file,omitempty" json:"file,omitempty"`
	MaxSizeMB  int    `yaml:"max_size_mb" json:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups" json:"max_backups"`
}

// BasicAuthConfig holds HTTP Basic Auth credentials for the JSON API.
type BasicAuthConfig struct {
	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password" json:"password"`
}

// Config is the top-level configuration of the datehelper CLI.
type Config struct {
	// Calendar is a calendar identifier ("gregorian", "iso8601",
	// "islamic-civil", "islamic-tbla").
	Calendar string `yaml:"calendar" json:"calendar"`

	// Timezone is an IANA zone name; "Local" or empty uses the device zone.
	Timezone string `yaml:"timezone" json:"timezone"`

	// Locale is a locale identifier such as "en_US" or "de-DE"; empty uses
	// the environment.
	Locale string `yaml:"locale" json:"locale"`

	// WeekStart overrides the locale's first day of the week. Supported
	// values:
	//   - "" (locale default)
	//   - "monday"
	//   - "sunday"
	//   - "saturday"
	WeekStart string `yaml:"week_start" json:"week_start"`

	// DateFormat is the default pattern for parsing and rendering.
	DateFormat string `yaml:"date_format" json:"date_format"`

	// TimerPrefix is prepended to countdown timers.
	TimerPrefix string `yaml:"timer_prefix" json:"timer_prefix"`

	Log LogConfig `yaml:"log" json:"log"`

	// Listen is the HTTP listen address of the serve command.
	Listen string `yaml:"listen" json:"listen"`

	// BasicAuth, if non-nil, enables HTTP Basic Authentication on all
	// endpoints except /health.
	BasicAuth *BasicAuthConfig `yaml:"basic_auth,omitempty" json:"basic_auth,omitempty"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Calendar:    string(calendar.Gregorian),
		Timezone:    "Local",
		WeekStart:   "",
		DateFormat:  "yyyy/MM/dd HH:mm",
		TimerPrefix: "+",
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
		Listen: "127.0.0.1:8080",
	}
}

var weekStarts = map[string]time.Weekday{
	"monday":   time.Monday,
	"sunday":   time.Sunday,
	"saturday": time.Saturday,
}

// Normalize fills in missing/zero values with defaults so that partially
// filled files still behave correctly.
func (c *Config) Normalize() {
	if c.Calendar == "" {
		c.Calendar = string(calendar.Gregorian)
	}
	if c.Timezone == "" {
		c.Timezone = "Local"
	}
	c.WeekStart = strings.ToLower(strings.TrimSpace(c.WeekStart))
	if _, ok := weekStarts[c.WeekStart]; !ok {
		// Unknown value; use the locale default.
		c.WeekStart = ""
	}
	if c.DateFormat == "" {
		c.DateFormat = "yyyy/MM/dd HH:mm"
	}
	if c.TimerPrefix == "" {
		c.TimerPrefix = "+"
	}
	switch c.Log.Level {
	case "debug", "info", "error":
	default:
		c.Log.Level = "info"
	}
	if c.Log.MaxSizeMB <= 0 {
		c.Log.MaxSizeMB = 10
	}
	if c.Log.MaxBackups < 0 {
		c.Log.MaxBackups = 0
	}
	if c.Listen == "" {
		c.Listen = "127.0.0.1:8080"
	}
}

// Location resolves Timezone.
func (c *Config) Location() (*time.Location, error) {
	return zone.Load(c.Timezone)
}

// LocaleValue resolves Locale, falling back to the environment when empty.
func (c *Config) LocaleValue() (locale.Locale, error) {
	if c.Locale == "" {
		return locale.Current(), nil
	}
	return locale.New(c.Locale)
}

// CalendarValue builds the configured calendar bound to the configured zone and
// locale.
func (c *Config) CalendarValue() (*calendar.Calendar, error) {
	loc, err := c.Location()
	if err != nil {
		return nil, err
	}
	l, err := c.LocaleValue()
	if err != nil {
		return nil, fmt.Errorf("config: locale %q: %w", c.Locale, err)
	}
	opts := []calendar.Option{calendar.WithTimeZone(loc), calendar.WithLocale(l)}
	if wd, ok := weekStarts[c.WeekStart]; ok {
		opts = append(opts, calendar.WithFirstWeekday(wd))
	}
	return calendar.New(calendar.Identifier(c.Calendar), opts...)
}

// Load loads configuration from the given YAML path.
//
// Behavior:
//   - If the file does not exist:
//   - create parent directory if needed
//   - write a default config with 0600 perms
//   - return the default config
//   - If the file exists:
//   - read YAML and unmarshal into Config
//   - normalize defaults
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				// Return cfg with the error so the caller can decide.
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	cfg.Normalize()

	return &cfg, nil
}

// Save writes cfg to path atomically via a temp file + rename, with 0600
// permissions and a 0700 parent directory.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".datehelper-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

func (c *Config) Save(path string) error {
	return Save(path, c)
}
