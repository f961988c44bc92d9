package web

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	lru "github.com/hashicorp/golang-lru"
	"github.com/spf13/cast"

	"datehelper/internal/config"
	"datehelper/internal/ics"
	appLog "datehelper/internal/log"
	"datehelper/internal/model"
	"datehelper/internal/recur"
	"datehelper/pkg/calendar"
	"datehelper/pkg/dates"
	"datehelper/pkg/format"
	"datehelper/pkg/locale"
)

const (
	occurrencesCacheTTL  = 30 * time.Second
	occurrencesCacheSize = 256
)

// Server exposes the date helpers as a small JSON API.
type Server struct {
	cfg    *config.Config
	cal    *calendar.Calendar
	loc    *time.Location
	locale locale.Locale
	now    func() time.Time
	mux    *http.ServeMux

	// Expanded occurrences keyed by raw query, so repeated polling does
	// not re-run RRULE expansion. Bounded, and expired entries are dropped
	// on every store.
	occCache *lru.Cache
}

type occurrencesCache struct {
	resp      occurrencesResponse
	updatedAt time.Time
}

// NewServer constructs a Server from the effective configuration.
func NewServer(cfg *config.Config, now func() time.Time) (*Server, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	l, err := cfg.LocaleValue()
	if err != nil {
		return nil, err
	}
	cal, err := cfg.CalendarValue()
	if err != nil {
		return nil, err
	}
	if now == nil {
		now = time.Now
	}
	occCache, err := lru.New(occurrencesCacheSize)
	if err != nil {
		return nil, err
	}
	s := &Server{
		cfg:      cfg,
		cal:      cal,
		loc:      loc,
		locale:   l,
		now:      now,
		mux:      http.NewServeMux(),
		occCache: occCache,
	}
	s.registerRoutes()
	return s, nil
}

// Handler returns the underlying http.Handler for this server.
func (s *Server) Handler() http.Handler {
	h := http.Handler(s.mux)
	if s.basicAuthEnabled() {
		appLog.Info("HTTP basic auth enabled", "listen", "http://"+s.cfg.Listen)
		return s.basicAuthMiddleware(h)
	}
	return h
}

func (s *Server) basicAuthEnabled() bool {
	if s.cfg == nil || s.cfg.BasicAuth == nil {
		return false
	}
	// An empty username or password disables auth.
	return s.cfg.BasicAuth.Username != "" && s.cfg.BasicAuth.Password != ""
}

// basicAuthMiddleware wraps all handlers except /health with HTTP Basic Auth.
func (s *Server) basicAuthMiddleware(next http.Handler) http.Handler {
	username := s.cfg.BasicAuth.Username
	password := s.cfg.BasicAuth.Password

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}
		u, p, ok := r.BasicAuth()
		if !ok || !secureCompare(u, username) || !secureCompare(p, password) {
			w.Header().Set("WWW-Authenticate", `Basic realm="datehelper", charset="UTF-8"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// secureCompare compares two strings in constant time.
func secureCompare(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// StartServer serves on cfg.Listen until ctx is canceled, then shuts down
// gracefully.
func StartServer(ctx context.Context, cfg *config.Config) error {
	s, err := NewServer(cfg, time.Now)
	if err != nil {
		return err
	}
	srv := &http.Server{
		Addr:              cfg.Listen,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		appLog.Info("starting HTTP server", "listen", "http://"+cfg.Listen)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.HandleFunc("/api/format", s.handleFormat)
	s.mux.HandleFunc("/api/parse", s.handleParse)
	s.mux.HandleFunc("/api/info", s.handleInfo)
	s.mux.HandleFunc("/api/occurrences", s.handleOccurrences)
	s.mux.HandleFunc("/calendar.ics", s.handleICS)
}

func (s *Server) formatOptions() []format.Option {
	return []format.Option{
		format.WithTimeZone(s.loc),
		format.WithCalendar(s.cal),
		format.WithLocale(s.locale),
		format.WithClock(s.now),
	}
}

func (s *Server) context() dates.Context {
	return dates.Context{Calendar: s.cal, Zone: time.Local, Now: s.now}
}

// readDate accepts RFC 3339, the configured date format or "now"; empty is
// "now".
func (s *Server) readDate(v string) (time.Time, error) {
	if v == "" || v == "now" {
		return s.now(), nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	if t, ok := format.Parse(v, s.cfg.DateFormat, s.formatOptions()...); ok {
		return t, nil
	}
	return time.Time{}, errors.New("unparseable date " + v)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok\n"))
}

type formatResponse struct {
	Date   time.Time `json:"date"`
	Text   string    `json:"text"`
	Timer  string    `json:"timer"`
	Short  string    `json:"short"`
	Styled string    `json:"styled,omitempty"`
}

func (s *Server) handleFormat(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	t, err := s.readDate(q.Get("date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	pattern := q.Get("pattern")
	if pattern == "" {
		pattern = s.cfg.DateFormat
	}
	opts := s.formatOptions()
	resp := formatResponse{
		Date:  t,
		Text:  format.String(t, pattern, opts...),
		Timer: format.Timer(t, s.now(), s.cfg.TimerPrefix, opts...),
		Short: format.ShortString(t, opts...),
	}
	if ds, ts := format.ParseStyle(q.Get("date_style")), format.ParseStyle(q.Get("time_style")); ds != format.None || ts != format.None {
		resp.Styled = format.Styled(t, ds, ts, opts...)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	pattern := q.Get("pattern")
	if pattern == "" {
		pattern = s.cfg.DateFormat
	}
	t, ok := format.Parse(q.Get("text"), pattern, s.formatOptions()...)
	if !ok {
		writeError(w, http.StatusUnprocessableEntity, "text does not match pattern")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"date": t, "pattern": pattern})
}

type infoResponse struct {
	Date          time.Time `json:"date"`
	Calendar      string    `json:"calendar"`
	Past          bool      `json:"past"`
	Future        bool      `json:"future"`
	Today         bool      `json:"today"`
	Weekend       bool      `json:"weekend"`
	Jumuah        bool      `json:"jumuah"`
	CurrentWeek   bool      `json:"current_week"`
	CurrentMonth  bool      `json:"current_month"`
	CurrentYear   bool      `json:"current_year"`
	DecimalTime   float64   `json:"decimal_time"`
	StartOfDay    time.Time `json:"start_of_day"`
	EndOfDay      time.Time `json:"end_of_day"`
	StartOfMonth  time.Time `json:"start_of_month"`
	EndOfMonth    time.Time `json:"end_of_month"`
	WeekOfYear    int       `json:"week_of_year"`
	DaysInMonth   int       `json:"days_in_month"`
	WeekStart     string    `json:"week_start"`
	DisplayZone   string    `json:"display_zone"`
	LocaleID      string    `json:"locale"`
	TextDirection string    `json:"text_direction"`
}

func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	t, err := s.readDate(r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	ctx := s.context()
	week, _ := s.cal.WeekOfYear(t)
	writeJSON(w, http.StatusOK, infoResponse{
		Date:          t.In(s.loc),
		Calendar:      string(s.cal.Identifier()),
		Past:          ctx.IsPast(t),
		Future:        ctx.IsFuture(t),
		Today:         ctx.IsToday(t),
		Weekend:       ctx.IsWeekend(t),
		Jumuah:        ctx.IsJumuah(t),
		CurrentWeek:   ctx.IsCurrentWeek(t),
		CurrentMonth:  ctx.IsCurrentMonth(t),
		CurrentYear:   ctx.IsCurrentYear(t),
		DecimalTime:   ctx.TimeToDecimal(t),
		StartOfDay:    ctx.StartOfDay(t),
		EndOfDay:      ctx.EndOfDay(t),
		StartOfMonth:  ctx.StartOfMonth(t),
		EndOfMonth:    ctx.EndOfMonth(t),
		WeekOfYear:    week,
		DaysInMonth:   s.cal.DaysInMonth(t),
		WeekStart:     s.cal.FirstWeekday().String(),
		DisplayZone:   s.loc.String(),
		LocaleID:      s.locale.Identifier(),
		TextDirection: s.locale.CharacterDirection().String(),
	})
}

type occurrenceDTO struct {
	UID         string    `json:"uid"`
	InstanceKey string    `json:"instance_key"`
	Summary     string    `json:"summary"`
	AllDay      bool      `json:"all_day"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
}

type occurrencesResponse struct {
	Occurrences     []occurrenceDTO `json:"occurrences"`
	TruncatedUIDs   []string        `json:"truncated_uids,omitempty"`
	RangeStart      time.Time       `json:"range_start"`
	RangeEnd        time.Time       `json:"range_end"`
	DisplayTimeZone string          `json:"display_time_zone"`
}

// expand builds one event from the query (start, rrule, summary, minutes,
// all_day) and expands it within from/to, defaulting to start's month.
func (s *Server) expand(r *http.Request) (recur.ExpandResult, time.Time, time.Time, error) {
	q := r.URL.Query()
	start, err := s.readDate(q.Get("start"))
	if err != nil {
		return recur.ExpandResult{}, time.Time{}, time.Time{}, err
	}
	rangeStart, rangeEnd, err := recur.MonthSpan(s.cal, start)
	if err != nil {
		return recur.ExpandResult{}, time.Time{}, time.Time{}, err
	}
	if v := q.Get("from"); v != "" {
		if rangeStart, err = s.readDate(v); err != nil {
			return recur.ExpandResult{}, time.Time{}, time.Time{}, err
		}
	}
	if v := q.Get("to"); v != "" {
		if rangeEnd, err = s.readDate(v); err != nil {
			return recur.ExpandResult{}, time.Time{}, time.Time{}, err
		}
	}

	minutes := parseIntDefault(q.Get("minutes"), 60)
	ev := model.Event{
		UID:     "datehelper-" + ics.FormatValue(start, false),
		Summary: q.Get("summary"),
		AllDay:  q.Get("all_day") == "true",
		Start:   start,
		End:     start.Add(time.Duration(minutes) * time.Minute),
		RRule:   q.Get("rrule"),
	}
	if ev.AllDay {
		ev.Start, ev.End, _ = recur.DaySpan(s.cal, start)
		ev.End = ev.End.Add(time.Nanosecond)
	}

	res, err := recur.Expand([]model.Event{ev}, recur.ExpandConfig{
		DisplayLocation: s.loc,
		RangeStart:      rangeStart,
		RangeEnd:        rangeEnd,
	})
	return res, rangeStart, rangeEnd, err
}

// pruneOccurrences removes cached responses older than the TTL.
func (s *Server) pruneOccurrences(now time.Time) {
	for _, k := range s.occCache.Keys() {
		v, ok := s.occCache.Peek(k)
		if !ok {
			continue
		}
		if now.Sub(v.(occurrencesCache).updatedAt) >= occurrencesCacheTTL {
			s.occCache.Remove(k)
		}
	}
}

func (s *Server) handleOccurrences(w http.ResponseWriter, r *http.Request) {
	key := r.URL.RawQuery
	now := s.now()

	if v, ok := s.occCache.Get(key); ok {
		if c := v.(occurrencesCache); now.Sub(c.updatedAt) < occurrencesCacheTTL {
			writeJSON(w, http.StatusOK, c.resp)
			return
		}
	}

	res, rangeStart, rangeEnd, err := s.expand(r)
	if err != nil {
		appLog.Error("api occurrences: expand failed", err, "query", key)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	dtos := make([]occurrenceDTO, 0, len(res.Occurrences))
	for _, occ := range res.Occurrences {
		dtos = append(dtos, occurrenceDTO{
			UID:         occ.UID,
			InstanceKey: occ.InstanceKey,
			Summary:     occ.Summary,
			AllDay:      occ.AllDay,
			Start:       occ.Start,
			End:         occ.End,
		})
	}
	resp := occurrencesResponse{
		Occurrences:     dtos,
		TruncatedUIDs:   res.TruncatedEvents,
		RangeStart:      rangeStart,
		RangeEnd:        rangeEnd,
		DisplayTimeZone: s.loc.String(),
	}

	s.pruneOccurrences(now)
	s.occCache.Add(key, occurrencesCache{resp: resp, updatedAt: now})

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleICS(w http.ResponseWriter, r *http.Request) {
	res, _, _, err := s.expand(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(ics.Export(res.Occurrences, ics.DefaultProdID, s.now())))
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := cast.ToIntE(s)
	if err != nil {
		return def
	}
	return n
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		appLog.Error("failed to write JSON response", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	type errResp struct {
		Error string `json:"error"`
	}
	writeJSON(w, status, errResp{Error: msg})
}
