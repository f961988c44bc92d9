package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cast"
	"github.com/spf13/cobra"

	"datehelper/internal/ics"
	"datehelper/internal/model"
	"datehelper/internal/recur"
	"datehelper/pkg/calendar"
	"datehelper/pkg/format"
	"datehelper/pkg/interval"
	"datehelper/pkg/locale"
	"datehelper/pkg/zone"
)

const rfc3339Pattern = "yyyy-MM-dd'T'HH:mm:ssXXX"

// readDate accepts "now", the configured date format, RFC 3339 and
// yyyy-MM-dd, in that order.
func (e *env) readDate(s string) (time.Time, error) {
	if strings.EqualFold(s, "now") {
		return e.now(), nil
	}
	for _, pattern := range []string{e.conf.DateFormat, rfc3339Pattern, "yyyy-MM-dd"} {
		if t, ok := format.Parse(s, pattern, e.formatOptions()...); ok {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse date %q (expected %q, RFC 3339 or yyyy-MM-dd)", s, e.conf.DateFormat)
}

func (e *env) render(t time.Time) string {
	return format.String(t, e.conf.DateFormat, e.formatOptions()...)
}

// readInterval builds an interval from a magnitude and a unit name. With
// scoped set it carries the configured calendar.
func (e *env) readInterval(n, unit string, scoped bool) (interval.Interval, error) {
	value, err := cast.ToIntE(n)
	if err != nil {
		return interval.Interval{}, fmt.Errorf("invalid magnitude %q: %w", n, err)
	}
	u, err := interval.ParseUnit(unit)
	if err != nil {
		return interval.Interval{}, err
	}
	iv := interval.New(u, value)
	if scoped {
		iv = iv.In(e.cal)
	}
	return iv, nil
}

func parseCmd(e *env) *cobra.Command {
	var pattern string
	cmd := &cobra.Command{
		Use:   "parse <text>",
		Short: "Parse text with a date pattern and print it as RFC 3339",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if pattern == "" {
				pattern = e.conf.DateFormat
			}
			t, ok := format.Parse(args[0], pattern, e.formatOptions()...)
			if !ok {
				return fmt.Errorf("%q does not match %q", args[0], pattern)
			}
			fmt.Fprintln(cmd.OutOrStdout(), t.Format(time.RFC3339))
			return nil
		},
	}
	cmd.Flags().StringVarP(&pattern, "pattern", "p", "", "Date pattern (default: config date_format)")
	return cmd
}

func formatCmd(e *env) *cobra.Command {
	var pattern, dateStyle, timeStyle string
	var short bool
	cmd := &cobra.Command{
		Use:   "format <date>",
		Short: "Render a date with a pattern or with date/time styles",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := e.readDate(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			switch {
			case short:
				fmt.Fprintln(out, format.ShortString(t, e.formatOptions()...))
			case dateStyle != "" || timeStyle != "":
				fmt.Fprintln(out, format.Styled(t, format.ParseStyle(dateStyle), format.ParseStyle(timeStyle), e.formatOptions()...))
			case pattern != "":
				fmt.Fprintln(out, format.String(t, pattern, e.formatOptions()...))
			default:
				fmt.Fprintln(out, e.render(t))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&pattern, "pattern", "p", "", "Date pattern")
	cmd.Flags().StringVar(&dateStyle, "date-style", "", "short, medium, long or full")
	cmd.Flags().StringVar(&timeStyle, "time-style", "", "short, medium, long or full")
	cmd.Flags().BoolVar(&short, "short", false, "Render as yyyy-MM-dd")
	return cmd
}

func infoCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "info [date]",
		Short: "Show calendar queries and derived dates for a date",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t := e.now()
			if len(args) == 1 {
				var err error
				if t, err = e.readDate(args[0]); err != nil {
					return err
				}
			}
			ctx := e.context()
			week, weekYear := e.cal.WeekOfYear(t)

			w := cmd.OutOrStdout()
			row := func(k string, v any) { fmt.Fprintf(w, "%-16s %v\n", k, v) }
			row("date", e.render(t))
			row("calendar", e.cal.Identifier())
			row("past", ctx.IsPast(t))
			row("future", ctx.IsFuture(t))
			row("today", ctx.IsToday(t))
			row("yesterday", ctx.IsYesterday(t))
			row("tomorrow", ctx.IsTomorrow(t))
			row("weekday", ctx.IsWeekday(t))
			row("weekend", ctx.IsWeekend(t))
			row("jumuah", ctx.IsJumuah(t))
			row("current week", ctx.IsCurrentWeek(t))
			row("current month", ctx.IsCurrentMonth(t))
			row("current year", ctx.IsCurrentYear(t))
			row("decimal time", ctx.TimeToDecimal(t))
			row("week of year", fmt.Sprintf("%d (%d)", week, weekYear))
			row("day of year", e.cal.DayOfYear(t))
			row("days in month", e.cal.DaysInMonth(t))
			row("start of day", e.render(ctx.StartOfDay(t)))
			row("end of day", e.render(ctx.EndOfDay(t)))
			row("start of month", e.render(ctx.StartOfMonth(t)))
			row("end of month", e.render(ctx.EndOfMonth(t)))
			row("yesterday date", e.render(ctx.Yesterday(t)))
			row("tomorrow date", e.render(ctx.Tomorrow(t)))
			row("islamic", format.Styled(t, format.Long, format.None,
				format.WithCalendar(calendar.Islamic()), format.WithTimeZone(e.loc), format.WithLocale(e.locale)))
			return nil
		},
	}
}

func addCmd(e *env, sign int) *cobra.Command {
	var scoped bool
	use, short := "add <date> <n> <unit>", "Add an interval to a date"
	if sign < 0 {
		use, short = "sub <date> <n> <unit>", "Subtract an interval from a date"
	}
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Long: short + `.

Units: seconds, minutes, hours, days, weeks, months, years. Months and
years clamp to the end of the target month.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := e.readDate(args[0])
			if err != nil {
				return err
			}
			iv, err := e.readInterval(args[1], args[2], scoped)
			if err != nil {
				return err
			}
			ctx := e.context()
			var out time.Time
			if sign < 0 {
				out, err = ctx.TrySubtract(t, iv)
			} else {
				out, err = ctx.TryAdd(t, iv)
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), e.render(out))
			return nil
		},
	}
	cmd.Flags().BoolVar(&scoped, "scoped", false, "Use the configured calendar instead of the device calendar")
	return cmd
}

func zoneCmd(e *env) *cobra.Command {
	var shiftDate string
	cmd := &cobra.Command{
		Use:   "zone [name]",
		Short: "Show a time zone's offset from the device zone",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loc := e.loc
			if len(args) == 1 {
				var err error
				if loc, err = zone.Load(args[0]); err != nil {
					return err
				}
			}
			now := e.now()
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "zone             %s\n", loc)
			fmt.Fprintf(w, "offset           %ds\n", zone.Offset(loc, now))
			fmt.Fprintf(w, "from current     %ds\n", zone.OffsetFrom(loc, time.Local, now))
			fmt.Fprintf(w, "is current       %v\n", zone.IsCurrentAt(loc, time.Local, now))
			if shiftDate != "" {
				t, err := e.readDate(shiftDate)
				if err != nil {
					return err
				}
				shifted, err := e.context().TryShift(t, loc)
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "shifted          %s\n", e.render(shifted))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&shiftDate, "shift", "", "Re-anchor this date's wall clock to the zone")
	return cmd
}

func localeCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "locale [id]",
		Short: "Show a locale's language and character direction",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l := e.locale
			if len(args) == 1 {
				var err error
				if l, err = locale.New(args[0]); err != nil {
					return err
				}
			}
			code, _ := l.LanguageCode()
			name, _ := l.LanguageName()
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "locale           %s\n", l.Identifier())
			fmt.Fprintf(w, "language         %s\n", code)
			fmt.Fprintf(w, "name             %s\n", name)
			fmt.Fprintf(w, "region           %s\n", l.Region())
			fmt.Fprintf(w, "direction        %s\n", l.CharacterDirection())
			return nil
		},
	}
}

func timerCmd(e *env) *cobra.Command {
	var from, prefix string
	cmd := &cobra.Command{
		Use:   "timer <date>",
		Short: "Print the elapsed time between two dates as HH:MM:SS",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := e.readDate(args[0])
			if err != nil {
				return err
			}
			ref := e.now()
			if from != "" {
				if ref, err = e.readDate(from); err != nil {
					return err
				}
			}
			if !cmd.Flags().Changed("prefix") {
				prefix = e.conf.TimerPrefix
			}
			fmt.Fprintln(cmd.OutOrStdout(), format.Timer(t, ref, prefix, e.formatOptions()...))
			return nil
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "Reference date (default: now)")
	cmd.Flags().StringVar(&prefix, "prefix", "", "Countdown prefix (default: config timer_prefix)")
	return cmd
}

func seriesCmd(e *env) *cobra.Command {
	var count int
	cmd := &cobra.Command{
		Use:   "series <date> <n> <unit>",
		Short: "List a date repeated every n units (RFC 5545 rules)",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := e.readDate(args[0])
			if err != nil {
				return err
			}
			iv, err := e.readInterval(args[1], args[2], false)
			if err != nil {
				return err
			}
			times, err := recur.Every(t, iv, count)
			if err != nil {
				return err
			}
			for _, occ := range times {
				fmt.Fprintln(cmd.OutOrStdout(), e.render(occ))
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&count, "count", "n", 5, "Number of occurrences")
	return cmd
}

// expandRange resolves --from/--to, defaulting to the month of start.
func (e *env) expandRange(start time.Time, from, to string) (time.Time, time.Time, error) {
	lo, hi, err := recur.MonthSpan(e.cal, start)
	if err != nil {
		return lo, hi, err
	}
	if from != "" {
		if lo, err = e.readDate(from); err != nil {
			return lo, hi, err
		}
	}
	if to != "" {
		if hi, err = e.readDate(to); err != nil {
			return lo, hi, err
		}
	}
	return lo, hi, nil
}

type eventFlags struct {
	rule, summary, from, to string
	duration                time.Duration
	allDay                  bool
	exdates                 []string
}

func (f *eventFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.rule, "rrule", "", "RFC 5545 rule, e.g. FREQ=WEEKLY;COUNT=4")
	cmd.Flags().StringVar(&f.summary, "summary", "", "Event summary")
	cmd.Flags().StringVar(&f.from, "from", "", "Range start (default: start of the month)")
	cmd.Flags().StringVar(&f.to, "to", "", "Range end (default: end of the month)")
	cmd.Flags().DurationVar(&f.duration, "duration", time.Hour, "Duration of each occurrence")
	cmd.Flags().BoolVar(&f.allDay, "all-day", false, "All-day occurrences")
	cmd.Flags().StringSliceVar(&f.exdates, "exdate", nil, "Excluded occurrence start (repeatable)")
}

func (e *env) expandEvent(start time.Time, f eventFlags) (recur.ExpandResult, error) {
	ev := model.Event{
		UID:     "datehelper-" + ics.FormatValue(start, false),
		Summary: f.summary,
		AllDay:  f.allDay,
		Start:   start,
		End:     start.Add(f.duration),
		RRule:   f.rule,
	}
	if f.allDay {
		ev.Start = e.cal.StartOfDay(start)
		ev.End = ev.Start.AddDate(0, 0, 1)
	}
	for _, s := range f.exdates {
		t, err := e.readDate(s)
		if err != nil {
			return recur.ExpandResult{}, err
		}
		ev.ExDates = append(ev.ExDates, t)
	}
	lo, hi, err := e.expandRange(start, f.from, f.to)
	if err != nil {
		return recur.ExpandResult{}, err
	}
	return recur.Expand([]model.Event{ev}, recur.ExpandConfig{
		DisplayLocation: e.loc,
		RangeStart:      lo,
		RangeEnd:        hi,
	})
}

func expandCmd(e *env) *cobra.Command {
	var f eventFlags
	cmd := &cobra.Command{
		Use:   "expand <start>",
		Short: "Expand an RRULE from a start date within a range",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := e.readDate(args[0])
			if err != nil {
				return err
			}
			res, err := e.expandEvent(start, f)
			if err != nil {
				return err
			}
			for _, occ := range res.Occurrences {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", e.render(occ.Start), e.render(occ.End))
			}
			return nil
		},
	}
	f.register(cmd)
	return cmd
}

func nextCmd(e *env) *cobra.Command {
	var count int
	var from string
	cmd := &cobra.Command{
		Use:   "next <cron-spec>",
		Short: "Show the next activations of a five-field cron spec",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref := e.now()
			if from != "" {
				var err error
				if ref, err = e.readDate(from); err != nil {
					return err
				}
			}
			times, err := recur.Upcoming(args[0], ref, e.loc, count)
			if err != nil {
				return err
			}
			for _, t := range times {
				fmt.Fprintln(cmd.OutOrStdout(), e.render(t))
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&count, "count", "n", 1, "Number of activations")
	cmd.Flags().StringVar(&from, "from", "", "Reference date (default: now)")
	return cmd
}

func icsCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ics",
		Short: "Read or write iCalendar data",
	}

	var f eventFlags
	export := &cobra.Command{
		Use:   "export <start>",
		Short: "Expand an RRULE and write the occurrences as iCalendar",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := e.readDate(args[0])
			if err != nil {
				return err
			}
			res, err := e.expandEvent(start, f)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), ics.Export(res.Occurrences, ics.DefaultProdID, e.now()))
			return nil
		},
	}
	f.register(export)

	var from, to string
	read := &cobra.Command{
		Use:   "read <file|->",
		Short: "List the occurrences of an iCalendar file within a range",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := readInput(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			events, err := ics.Parse(body, e.loc)
			if err != nil {
				return err
			}
			if len(events) == 0 {
				return errors.New("no events found")
			}
			lo, hi, err := e.expandRange(e.now(), from, to)
			if err != nil {
				return err
			}
			res, err := recur.Expand(events, recur.ExpandConfig{
				DisplayLocation: e.loc,
				RangeStart:      lo,
				RangeEnd:        hi,
			})
			if err != nil {
				return err
			}
			for _, occ := range res.Occurrences {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  %s\n", e.render(occ.Start), e.render(occ.End), occ.Summary)
			}
			return nil
		},
	}
	read.Flags().StringVar(&from, "from", "", "Range start (default: start of this month)")
	read.Flags().StringVar(&to, "to", "", "Range end (default: end of this month)")

	cmd.AddCommand(export, read)
	return cmd
}

func readInput(stdin io.Reader, name string) ([]byte, error) {
	if name == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(name)
}
