package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"datehelper/internal/config"
)

var fixedNow = time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)

func newTestServer(t *testing.T, mutate func(*config.Config)) http.Handler {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Timezone = "UTC"
	cfg.Locale = "en_US"
	if mutate != nil {
		mutate(cfg)
	}
	s, err := NewServer(cfg, func() time.Time { return fixedNow })
	require.NoError(t, err)
	return s.Handler()
}

func get(t *testing.T, h http.Handler, path string, q url.Values) *httptest.ResponseRecorder {
	t.Helper()
	target := path
	if q != nil {
		target += "?" + q.Encode()
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}

func TestHealth(t *testing.T) {
	rec := get(t, newTestServer(t, nil), "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok\n", rec.Body.String())
}

func TestFormat(t *testing.T) {
	h := newTestServer(t, nil)
	rec := get(t, h, "/api/format", url.Values{
		"date":       {"2024/01/10 09:30"},
		"pattern":    {"EEEE HH:mm"},
		"date_style": {"medium"},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp formatResponse
	decode(t, rec, &resp)
	assert.Equal(t, "Wednesday 09:30", resp.Text)
	assert.Equal(t, "+02:30:00", resp.Timer)
	assert.Equal(t, "2024-01-10", resp.Short)
	assert.Equal(t, "Jan 10, 2024", resp.Styled)

	rec = get(t, h, "/api/format", url.Values{"date": {"yesterday-ish"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestParse(t *testing.T) {
	h := newTestServer(t, nil)
	rec := get(t, h, "/api/parse", url.Values{"text": {"2016/03/22 09:40"}})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Date    time.Time `json:"date"`
		Pattern string    `json:"pattern"`
	}
	decode(t, rec, &resp)
	assert.True(t, time.Date(2016, 3, 22, 9, 40, 0, 0, time.UTC).Equal(resp.Date))
	assert.Equal(t, "yyyy/MM/dd HH:mm", resp.Pattern)

	rec = get(t, h, "/api/parse", url.Values{"text": {"22.03.2016"}})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestInfo(t *testing.T) {
	h := newTestServer(t, nil)
	rec := get(t, h, "/api/info", url.Values{"date": {"2024-01-05T18:15:00Z"}})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp infoResponse
	decode(t, rec, &resp)
	assert.Equal(t, "gregorian", resp.Calendar)
	assert.True(t, resp.Past)
	assert.False(t, resp.Future)
	assert.False(t, resp.Today)
	assert.True(t, resp.Jumuah)
	assert.False(t, resp.Weekend)
	assert.False(t, resp.CurrentWeek)
	assert.True(t, resp.CurrentMonth)
	assert.True(t, resp.CurrentYear)
	assert.InDelta(t, 18.25, resp.DecimalTime, 1e-9)
	assert.True(t, time.Date(2024, 1, 31, 23, 59, 59, 0, time.UTC).Equal(resp.EndOfMonth))
	assert.Equal(t, 31, resp.DaysInMonth)
	assert.Equal(t, "Sunday", resp.WeekStart)
	assert.Equal(t, "UTC", resp.DisplayZone)
	assert.Equal(t, "en_US", resp.LocaleID)
	assert.Equal(t, "left-to-right", resp.TextDirection)
}

func TestOccurrences(t *testing.T) {
	h := newTestServer(t, nil)
	q := url.Values{
		"start":   {"2024-01-01T09:00:00Z"},
		"rrule":   {"FREQ=WEEKLY;COUNT=3"},
		"summary": {"Standup"},
		"minutes": {"15"},
	}
	rec := get(t, h, "/api/occurrences", q)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp occurrencesResponse
	decode(t, rec, &resp)
	require.Len(t, resp.Occurrences, 3)
	assert.Equal(t, "Standup", resp.Occurrences[0].Summary)
	assert.True(t, time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC).Equal(resp.Occurrences[2].Start))
	assert.Equal(t, 15*time.Minute, resp.Occurrences[2].End.Sub(resp.Occurrences[2].Start))
	assert.True(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).Equal(resp.RangeStart))
	assert.Equal(t, "UTC", resp.DisplayTimeZone)

	// Served from cache.
	again := get(t, h, "/api/occurrences", q)
	assert.Equal(t, rec.Body.String(), again.Body.String())

	rec = get(t, h, "/api/occurrences", url.Values{"start": {"nope"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOccurrencesCacheBounded(t *testing.T) {
	now := fixedNow
	cfg := config.DefaultConfig()
	cfg.Timezone = "UTC"
	cfg.Locale = "en_US"
	s, err := NewServer(cfg, func() time.Time { return now })
	require.NoError(t, err)
	h := s.Handler()

	for i := 0; i < 2*occurrencesCacheSize; i++ {
		rec := get(t, h, "/api/occurrences", url.Values{
			"start":   {"2024-01-01T09:00:00Z"},
			"rrule":   {"FREQ=DAILY;COUNT=2"},
			"summary": {fmt.Sprintf("event-%d", i)},
		})
		require.Equal(t, http.StatusOK, rec.Code)
	}
	assert.Equal(t, occurrencesCacheSize, s.occCache.Len())

	now = now.Add(time.Hour)
	rec := get(t, h, "/api/occurrences", url.Values{"start": {"2024-01-01T09:00:00Z"}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, s.occCache.Len())
}

func TestCalendarICS(t *testing.T) {
	h := newTestServer(t, nil)
	rec := get(t, h, "/calendar.ics", url.Values{
		"start": {"2024-01-01T09:00:00Z"},
		"rrule": {"FREQ=DAILY;COUNT=4"},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/calendar; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, 4, strings.Count(rec.Body.String(), "BEGIN:VEVENT"))
}

func TestBasicAuth(t *testing.T) {
	h := newTestServer(t, func(cfg *config.Config) {
		cfg.BasicAuth = &config.BasicAuthConfig{Username: "admin", Password: "secret"}
	})

	assert.Equal(t, http.StatusOK, get(t, h, "/health", nil).Code)

	rec := get(t, h, "/api/info", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Header().Get("WWW-Authenticate"), "Basic")

	req := httptest.NewRequest(http.MethodGet, "/api/info", nil)
	req.SetBasicAuth("admin", "wrong")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/info", nil)
	req.SetBasicAuth("admin", "secret")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestNewServerRejectsBadConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Timezone = "Nowhere/Special"
	_, err := NewServer(cfg, nil)
	assert.Error(t, err)
}

func TestSecureCompare(t *testing.T) {
	assert.True(t, secureCompare("abc", "abc"))
	assert.False(t, secureCompare("abc", "abd"))
	assert.False(t, secureCompare("abc", "abcd"))
	assert.Equal(t, 7, parseIntDefault("7", 1))
	assert.Equal(t, 1, parseIntDefault("seven", 1))
}
