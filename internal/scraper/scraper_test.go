package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
)

const metaPage = `
<html>
	<body>
		<table id="nav"><tr><td>Home</td><td>Charting</td></tr></table>
		<table id="meta">
			<thead><tr><th>Rank</th><th>Player</th><th>Matches</th></tr></thead>
			<tbody>
				<tr><td>1</td><td><a href="/p/1">Jannik  Sinner</a></td><td>210</td></tr>
				<tr><td> </td><td></td><td></td></tr>
				<tr><td>2</td><td>Carlos Alcaraz</td><td>198</td></tr>
			</tbody>
		</table>
		<table id="plain">
			<tr><th>Event</th><th>Surface</th></tr>
			<tr><td>Almaty<table><tr><td>nested</td></tr></table></td><td>Hard</td></tr>
		</table>
	</body>
</html>`

func TestParseTable(t *testing.T) {
	tests := []struct {
		name        string
		index       int
		wantHeaders []string
		wantRows    [][]string
	}{
		{
			name:        "thead headers and skipped empty row",
			index:       1,
			wantHeaders: []string{"Rank", "Player", "Matches"},
			wantRows:    [][]string{{"1", "Jannik Sinner", "210"}, {"2", "Carlos Alcaraz", "198"}},
		},
		{
			name:        "first row th headers",
			index:       2,
			wantHeaders: []string{"Event", "Surface"},
			wantRows:    [][]string{{"Almaty nested", "Hard"}},
		},
		{
			name:     "no headers",
			index:    0,
			wantRows: [][]string{{"Home", "Charting"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTable(strings.NewReader(metaPage), tt.index)
			if err != nil {
				t.Fatalf("ParseTable() error = %v", err)
			}
			if !reflect.DeepEqual(got.Headers, tt.wantHeaders) {
				t.Errorf("Headers = %q, want %q", got.Headers, tt.wantHeaders)
			}
			if !reflect.DeepEqual(got.Rows, tt.wantRows) {
				t.Errorf("Rows = %q, want %q", got.Rows, tt.wantRows)
			}
		})
	}
}

func TestParseTable_IndexOutOfRange(t *testing.T) {
	// The nested table counts as a fourth table.
	_, err := ParseTable(strings.NewReader(metaPage), 4)
	if !errors.Is(err, ErrNoTable) {
		t.Errorf("ParseTable() error = %v, want ErrNoTable", err)
	}
	_, err = ParseTable(strings.NewReader(metaPage), -1)
	if !errors.Is(err, ErrNoTable) {
		t.Errorf("ParseTable(-1) error = %v, want ErrNoTable", err)
	}
}

func TestTableRecords(t *testing.T) {
	tbl := &Table{
		Headers: []string{"Rank", ""},
		Rows:    [][]string{{"1", "Sinner", "ITA"}, {"2"}},
	}
	headers, rows := tbl.Records()

	wantHeaders := []string{"Rank", "col_2", "col_3"}
	if !reflect.DeepEqual(headers, wantHeaders) {
		t.Errorf("headers = %q, want %q", headers, wantHeaders)
	}
	wantRows := [][]string{{"1", "Sinner", "ITA"}, {"2", "", ""}}
	if !reflect.DeepEqual(rows, wantRows) {
		t.Errorf("rows = %q, want %q", rows, wantRows)
	}
}

func TestFetchTable(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		statusCode int
		wantError  error
		wantRows   int
	}{
		{
			name:       "successful fetch",
			body:       metaPage,
			statusCode: http.StatusOK,
			wantRows:   2,
		},
		{
			name:       "HTTP error",
			statusCode: http.StatusNotFound,
			wantError:  ErrStatus,
		},
		{
			name:       "page without tables",
			body:       "<html><body><p>No tables</p></body></html>",
			statusCode: http.StatusOK,
			wantError:  ErrNoTable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if ua := r.Header.Get("User-Agent"); ua != "matchprep-test" {
					t.Errorf("User-Agent = %q, want matchprep-test", ua)
				}
				w.WriteHeader(tt.statusCode)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			s := New(WithUserAgent("matchprep-test"), WithTimeout(5*time.Second))
			got, err := s.FetchTable(context.Background(), server.URL, 1)

			if tt.wantError != nil {
				if !errors.Is(err, tt.wantError) {
					t.Fatalf("FetchTable() error = %v, want %v", err, tt.wantError)
				}
				return
			}
			if err != nil {
				t.Fatalf("FetchTable() error = %v", err)
			}
			if len(got.Rows) != tt.wantRows {
				t.Errorf("FetchTable() rows = %d, want %d", len(got.Rows), tt.wantRows)
			}
		})
	}
}

func TestFetchTable_Cancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(metaPage))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := New().FetchTable(ctx, server.URL, 1); err == nil {
		t.Error("FetchTable() with cancelled context should fail")
	}
}
