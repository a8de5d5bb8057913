package capture

import (
	"bytes"
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courtdata/matchprep/internal/logger"
	"github.com/courtdata/matchprep/internal/metrics"
)

func TestEndpointKey(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"https://extranet-lv.bwfbadminton.com/api/tournaments/day-matches?tournamentCode=2DFC&date=2026-01-15", "https://extranet-lv.bwfbadminton.com/api/tournaments/day-matches", false},
		{"HTTPS://User:pw@Example.COM:8443/a/b#frag", "https://example.com/a/b", false},
		{"http://host", "http://host", false},
		{"/relative/path", "", true},
		{"::bad", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := EndpointKey(tt.in)
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrBadURL))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRecorder(t *testing.T) {
	var logs bytes.Buffer
	m := metrics.New()
	r := NewRecorder("test", WithLogger(logger.New(logger.LevelDebug, &logs)), WithMetrics(m))

	assert.True(t, r.Record(Exchange{
		URL:         "https://api.example.com/calendar?year=2026",
		Status:      200,
		ContentType: "application/json; charset=utf-8",
		Body:        []byte(`[{"id":1},{"id":2}]`),
	}))
	assert.True(t, r.Record(Exchange{
		URL:         "https://api.example.com/calendar?year=2027",
		Status:      200,
		ContentType: "application/json",
		Body:        []byte(`[{"id":3}]`),
	}))
	assert.True(t, r.Record(Exchange{
		URL:         "https://api.example.com/profile",
		ContentType: "application/json",
		Body:        []byte(`{"name":"x","rank":4}`),
	}))
	assert.False(t, r.Record(Exchange{URL: "https://api.example.com/page", ContentType: "text/html", Body: []byte("<html>")}))
	assert.False(t, r.Record(Exchange{URL: "https://api.example.com/broken", ContentType: "application/json", Body: []byte("{")}))

	s := r.Session()
	_, err := uuid.Parse(s.ID)
	assert.NoError(t, err)
	assert.Equal(t, "test", s.Source)
	assert.False(t, s.FinishedAt.IsZero())
	assert.Equal(t, []string{"https://api.example.com/calendar", "https://api.example.com/profile"}, s.Endpoints())

	kind, n := s.Records["https://api.example.com/calendar"].Shape()
	assert.Equal(t, "records", kind)
	assert.Equal(t, 1, n, "latest response per endpoint wins")

	kind, n = s.Records["https://api.example.com/profile"].Shape()
	assert.Equal(t, "keys", kind)
	assert.Equal(t, 2, n)

	assert.Contains(t, logs.String(), "Invalid JSON response")

	snap, err := m.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, float64(3), snap["captures_total"])
}

const sampleHAR = `{
  "log": {
    "version": "1.2",
    "entries": [
      {
        "startedDateTime": "2026-01-15T09:30:00.123Z",
        "time": 182.5,
        "_resourceType": "fetch",
        "request": {"method": "GET", "url": "https://extranet-lv.bwfbadminton.com/api/tournaments/day-matches?date=2026-01-15"},
        "response": {"status": 200, "content": {"mimeType": "application/json", "text": "[{\"match\":1}]"}},
        "timings": {"blocked": -1, "dns": -1, "connect": -1, "send": 0.1, "wait": 120.25, "receive": 62.15}
      },
      {
        "startedDateTime": "2026-01-15T09:30:00.000Z",
        "time": 40,
        "_resourceType": "document",
        "request": {"method": "GET", "url": "https://bwfbadminton.com/calendar/"},
        "response": {"status": 200, "content": {"mimeType": "text/html", "text": "<html></html>"}},
        "timings": {"wait": 30, "receive": 10}
      },
      {
        "startedDateTime": "2026-01-15T09:30:01Z",
        "time": 10,
        "request": {"method": "POST", "url": "https://api.example.com/b64"},
        "response": {"status": 201, "content": {"mimeType": "application/json", "text": "B64", "encoding": "base64"}},
        "timings": {"wait": -1, "receive": 5}
      }
    ]
  }
}`

func TestParseHAR(t *testing.T) {
	har := []byte(sampleHAR)
	har = bytes.Replace(har, []byte("B64"), []byte(base64.StdEncoding.EncodeToString([]byte(`{"ok":true}`))), 1)

	exchanges, err := ParseHAR(har)
	require.NoError(t, err)
	require.Len(t, exchanges, 2)

	first := exchanges[0]
	assert.Equal(t, "fetch", first.ResourceType)
	assert.Equal(t, 120.25, first.Timing.TTFBMs)
	assert.Equal(t, 62.15, first.Timing.DownloadMs)
	assert.Equal(t, 182.5, first.Timing.TotalMs)
	assert.Equal(t, time.Date(2026, time.January, 15, 9, 30, 0, 123000000, time.UTC), first.Timing.Start)

	second := exchanges[1]
	assert.Equal(t, "POST", second.Method)
	assert.Equal(t, `{"ok":true}`, string(second.Body))
	assert.Equal(t, float64(-1), second.Timing.TTFBMs)

	r := NewRecorder("har", WithLogger(logger.NewNop()))
	for _, ex := range exchanges {
		r.Record(ex)
	}
	assert.Len(t, r.Session().Records, 2)
}

func TestLoadHAR_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadHAR(filepath.Join(dir, "missing.har"))
	assert.True(t, errors.Is(err, ErrHAR))

	bad := filepath.Join(dir, "bad.har")
	require.NoError(t, os.WriteFile(bad, []byte("not json"), 0644))
	_, err = LoadHAR(bad)
	assert.True(t, errors.Is(err, ErrHAR))
}

func TestFetcher(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "matchprep-test", r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"tournaments":[]}`))
	}))
	defer server.Close()

	f := NewFetcher(nil, 5*time.Second, "matchprep-test")
	ex, err := f.Fetch(context.Background(), server.URL+"/api/calendar?x=1")
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, ex.Status)
	assert.Equal(t, "application/json", ex.ContentType)
	assert.JSONEq(t, `{"tournaments":[]}`, string(ex.Body))
	assert.GreaterOrEqual(t, ex.Timing.TTFBMs, 0.0)
	assert.GreaterOrEqual(t, ex.Timing.DownloadMs, 0.0)
	assert.GreaterOrEqual(t, ex.Timing.TotalMs, ex.Timing.TTFBMs)
	assert.False(t, ex.Timing.Start.IsZero())
}

func TestFetcher_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	_, err := NewFetcher(nil, time.Second, "").Fetch(context.Background(), url)
	assert.Error(t, err)
}
