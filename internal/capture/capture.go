package capture

import (
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"github.com/courtdata/matchprep/internal/logger"
	"github.com/courtdata/matchprep/internal/metrics"
)

// Timing of one exchange. Durations are milliseconds; -1 means unknown.
type Timing struct {
	Start      time.Time `json:"start"`
	TTFBMs     float64   `json:"ttfb_ms"`
	DownloadMs float64   `json:"download_ms"`
	TotalMs    float64   `json:"total_ms"`
}

// Exchange is one observed HTTP response.
type Exchange struct {
	Method       string
	URL          string
	Status       int
	ContentType  string
	ResourceType string
	Body         []byte
	Timing       Timing
}

// Record is the latest JSON payload seen for an endpoint.
type Record struct {
	Endpoint   string    `json:"endpoint"`
	URL        string    `json:"url"`
	Method     string    `json:"method"`
	Status     int       `json:"status"`
	Data       any       `json:"data"`
	Timing     Timing    `json:"timing"`
	CapturedAt time.Time `json:"captured_at"`
}

// Shape describes Data: the number of records for an array, the number of
// keys for an object, zero otherwise.
func (r *Record) Shape() (kind string, n int) {
	switch v := r.Data.(type) {
	case []any:
		return "records", len(v)
	case map[string]any:
		return "keys", len(v)
	default:
		return "scalar", 0
	}
}

// Session is one capture run.
type Session struct {
	ID         string             `json:"id"`
	Source     string             `json:"source"`
	StartedAt  time.Time          `json:"started_at"`
	FinishedAt time.Time          `json:"finished_at"`
	Records    map[string]*Record `json:"records"`
}

// Endpoints returns the recorded endpoint keys, sorted.
func (s *Session) Endpoints() []string {
	out := make([]string, 0, len(s.Records))
	for k := range s.Records {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// EndpointKey reduces a URL to scheme://host/path. User info, port, query
// and fragment are dropped; scheme and host are lowercased.
func EndpointKey(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", errors.Wrapf(ErrBadURL, "%q: %v", raw, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", errors.Wrapf(ErrBadURL, "%q", raw)
	}
	return strings.ToLower(u.Scheme) + "://" + strings.ToLower(u.Hostname()) + u.EscapedPath(), nil
}

// Recorder keeps the JSON responses of one session.
type Recorder struct {
	mu      sync.Mutex
	session *Session
	log     *logger.Logger
	metrics *metrics.Recorder
	now     func() time.Time
}

// Option configures a Recorder.
type Option func(*Recorder)

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) Option {
	return func(r *Recorder) {
		if l != nil {
			r.log = l
		}
	}
}

// WithMetrics counts recorded responses.
func WithMetrics(m *metrics.Recorder) Option {
	return func(r *Recorder) { r.metrics = m }
}

// NewRecorder starts a session with a fresh id. source describes where the
// exchanges come from (a HAR path or a list of URLs).
func NewRecorder(source string, opts ...Option) *Recorder {
	r := &Recorder{
		log: logger.Default(),
		now: func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(r)
	}
	r.session = &Session{
		ID:        uuid.NewString(),
		Source:    source,
		StartedAt: r.now(),
		Records:   make(map[string]*Record),
	}
	return r
}

// Record stores ex if it is a JSON response and reports whether it did.
// A later response for the same endpoint replaces the earlier one.
func (r *Recorder) Record(ex Exchange) bool {
	if !strings.Contains(strings.ToLower(ex.ContentType), "application/json") {
		return false
	}
	endpoint, err := EndpointKey(ex.URL)
	if err != nil {
		r.log.Warn("Skipping response with unusable URL", logger.Fields{"url": ex.URL, "error": err.Error()})
		return false
	}

	var data any
	if err := sonic.Unmarshal(ex.Body, &data); err != nil {
		r.log.Warn("Invalid JSON response", logger.Fields{"endpoint": endpoint, "error": err.Error()})
		return false
	}

	rec := &Record{
		Endpoint:   endpoint,
		URL:        ex.URL,
		Method:     ex.Method,
		Status:     ex.Status,
		Data:       data,
		Timing:     ex.Timing,
		CapturedAt: r.now(),
	}
	r.mu.Lock()
	r.session.Records[endpoint] = rec
	r.mu.Unlock()

	if r.metrics != nil {
		r.metrics.CaptureRecorded()
	}
	kind, n := rec.Shape()
	r.log.Info("Captured JSON", logger.Fields{
		"endpoint":    endpoint,
		"status":      ex.Status,
		kind:          n,
		"ttfb_ms":     ex.Timing.TTFBMs,
		"download_ms": ex.Timing.DownloadMs,
		"total_ms":    ex.Timing.TotalMs,
	})
	return true
}

// Session closes the session and returns it.
func (r *Recorder) Session() *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.session.FinishedAt.IsZero() {
		r.session.FinishedAt = r.now()
	}
	return r.session
}
