package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"datehelper/internal/config"
	appLog "datehelper/internal/log"
	"datehelper/pkg/calendar"
	"datehelper/pkg/dates"
	"datehelper/pkg/format"
	"datehelper/pkg/locale"
)

var version = "0.1.0"

// env is the effective configuration shared by all subcommands.
type env struct {
	conf   *config.Config
	cal    *calendar.Calendar
	loc    *time.Location
	locale locale.Locale
	now    func() time.Time
}

func (e *env) context() dates.Context {
	return dates.Context{Calendar: e.cal, Zone: time.Local, Now: e.now}
}

func (e *env) formatOptions() []format.Option {
	return []format.Option{
		format.WithTimeZone(e.loc),
		format.WithCalendar(e.cal),
		format.WithLocale(e.locale),
		format.WithClock(e.now),
	}
}

func defaultConfigPath() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "datehelper", "config.yaml")
	}
	return "datehelper.yaml"
}

func newRootCmd(now func() time.Time) *cobra.Command {
	e := &env{now: now}
	var configPath, calendarFlag, zoneFlag, localeFlag, logLevel string

	root := &cobra.Command{
		Use:   "datehelper",
		Short: "Calendar-aware date arithmetic, queries and formatting",
		Long: `datehelper parses, renders and computes dates through a configurable
calendar (Gregorian, ISO-8601, Islamic), time zone and locale.

Dates on the command line use the configured date_format, RFC 3339,
yyyy-MM-dd, or the word "now".`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			conf, err := config.Load(configPath)
			if err != nil {
				if conf == nil {
					return fmt.Errorf("failed to load config %s: %w", configPath, err)
				}
				appLog.Error("failed to write default config, continuing with defaults", err, "config_path", configPath)
			}
			if calendarFlag != "" {
				conf.Calendar = calendarFlag
			}
			if zoneFlag != "" {
				conf.Timezone = zoneFlag
			}
			if localeFlag != "" {
				conf.Locale = localeFlag
			}
			if logLevel != "" {
				conf.Log.Level = logLevel
			}
			conf.Normalize()

			if conf.Log.File != "" {
				appLog.SetFile(conf.Log.File, conf.Log.MaxSizeMB, conf.Log.MaxBackups)
			}
			appLog.SetLevel(appLog.ParseLevel(conf.Log.Level))

			if e.loc, err = conf.Location(); err != nil {
				return err
			}
			if e.locale, err = conf.LocaleValue(); err != nil {
				return err
			}
			if e.cal, err = conf.CalendarValue(); err != nil {
				return err
			}
			e.conf = conf

			appLog.Debug("effective config",
				"config_path", configPath,
				"calendar", conf.Calendar,
				"timezone", conf.Timezone,
				"locale", e.locale.Identifier(),
				"week_start", e.cal.FirstWeekday().String(),
				"date_format", conf.DateFormat,
			)
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&configPath, "config", defaultConfigPath(), "Path to config file")
	pf.StringVar(&calendarFlag, "calendar", "", "Calendar identifier (overrides config)")
	pf.StringVar(&zoneFlag, "tz", "", "IANA time zone (overrides config)")
	pf.StringVar(&localeFlag, "locale", "", "Locale identifier (overrides config)")
	pf.StringVar(&logLevel, "log-level", "", "debug, info or error (overrides config)")

	root.AddCommand(
		parseCmd(e),
		formatCmd(e),
		infoCmd(e),
		addCmd(e, 1),
		addCmd(e, -1),
		zoneCmd(e),
		localeCmd(e),
		timerCmd(e),
		seriesCmd(e),
		expandCmd(e),
		nextCmd(e),
		icsCmd(e),
		serveCmd(e),
	)
	return root
}

func main() {
	if err := newRootCmd(time.Now).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
