package capture

import (
	"context"
	"io"
	"net/http"
	"net/http/httptrace"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
)

// Fetcher issues live GET requests and times them.
type Fetcher struct {
	client    *http.Client
	userAgent string
}

// NewFetcher creates a Fetcher. A nil client means a client with timeout.
func NewFetcher(client *http.Client, timeout time.Duration, userAgent string) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}
	return &Fetcher{client: client, userAgent: userAgent}
}

// Fetch GETs url and returns the exchange with its timing. Non-2xx
// responses are returned too; the Recorder decides what to keep.
func (f *Fetcher) Fetch(ctx context.Context, url string) (Exchange, error) {
	// Trace hooks run on transport goroutines.
	var (
		mu               sync.Mutex
		wrote, firstByte time.Time
	)
	trace := &httptrace.ClientTrace{
		WroteRequest: func(httptrace.WroteRequestInfo) {
			mu.Lock()
			wrote = time.Now()
			mu.Unlock()
		},
		GotFirstResponseByte: func() {
			mu.Lock()
			firstByte = time.Now()
			mu.Unlock()
		},
	}

	req, err := http.NewRequestWithContext(httptrace.WithClientTrace(ctx, trace), http.MethodGet, url, nil)
	if err != nil {
		return Exchange{}, errors.Wrap(err, "creating request")
	}
	req.Header.Set("Accept", "application/json")
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		return Exchange{}, errors.Wrapf(err, "fetching %s", url)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Exchange{}, errors.Wrapf(err, "reading %s", url)
	}
	end := time.Now()

	timing := Timing{Start: start.UTC(), TTFBMs: -1, DownloadMs: -1, TotalMs: ms(end.Sub(start))}
	mu.Lock()
	defer mu.Unlock()
	if !firstByte.IsZero() {
		if wrote.IsZero() {
			wrote = start
		}
		timing.TTFBMs = ms(firstByte.Sub(wrote))
		timing.DownloadMs = ms(end.Sub(firstByte))
	}

	return Exchange{
		Method:      http.MethodGet,
		URL:         url,
		Status:      resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
		Timing:      timing,
	}, nil
}

func ms(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000
}
