package scraper

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/cockroachdb/errors"
)

const (
	UserAgent = "matchprep/1.0 (+https://github.com/courtdata/matchprep)"
	Timeout   = 30 * time.Second
)

var (
	// ErrStatus is returned for non-200 responses.
	ErrStatus = errors.New("unexpected status code")

	// ErrNoTable is returned when the page has fewer tables than requested.
	ErrNoTable = errors.New("table not found")
)

// Table is an HTML table flattened to text cells.
type Table struct {
	Headers []string
	Rows    [][]string
}

// Scraper fetches pages and extracts HTML tables.
type Scraper struct {
	client    *http.Client
	userAgent string
}

// Option configures a Scraper.
type Option func(*Scraper)

// WithTimeout sets the request timeout.
func WithTimeout(d time.Duration) Option {
	return func(s *Scraper) {
		if d > 0 {
			s.client.Timeout = d
		}
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(s *Scraper) {
		if ua != "" {
			s.userAgent = ua
		}
	}
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(s *Scraper) {
		if c != nil {
			s.client = c
		}
	}
}

// New creates a new Scraper instance
func New(opts ...Option) *Scraper {
	s := &Scraper{
		client: &http.Client{
			Timeout: Timeout,
		},
		userAgent: UserAgent,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FetchTable downloads url and returns its index-th table, counting from 0
// in document order.
func (s *Scraper) FetchTable(ctx context.Context, url string, index int) (*Table, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(err, "creating request")
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "fetching page")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Wrapf(ErrStatus, "%s: %d", url, resp.StatusCode)
	}

	return ParseTable(resp.Body, index)
}

// ParseTable extracts the index-th table of an HTML document. Headers come
// from the table's thead; without one, a first row made only of th cells
// is used. Empty rows are skipped and cells are whitespace-trimmed.
func ParseTable(r io.Reader, index int) (*Table, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, errors.Wrap(err, "parsing HTML")
	}

	tables := doc.Find("table")
	if index < 0 || index >= tables.Length() {
		return nil, errors.Wrapf(ErrNoTable, "index %d of %d tables", index, tables.Length())
	}
	tbl := tables.Eq(index)

	// Rows of nested tables belong to those tables.
	own := tbl.Find("tr").FilterFunction(func(_ int, tr *goquery.Selection) bool {
		return tr.Closest("table").IsSelection(tbl)
	})

	out := &Table{}
	tbl.ChildrenFiltered("thead").Find("th").Each(func(_ int, th *goquery.Selection) {
		out.Headers = append(out.Headers, cleanText(th))
	})

	own.Each(func(i int, tr *goquery.Selection) {
		if tr.Parent().Is("thead") {
			return
		}
		cells := tr.ChildrenFiltered("td, th")
		if i == 0 && len(out.Headers) == 0 && cells.Length() > 0 && cells.Length() == tr.ChildrenFiltered("th").Length() {
			cells.Each(func(_ int, th *goquery.Selection) {
				out.Headers = append(out.Headers, cleanText(th))
			})
			return
		}

		row := make([]string, 0, cells.Length())
		empty := true
		cells.Each(func(_ int, cell *goquery.Selection) {
			text := cleanText(cell)
			if text != "" {
				empty = false
			}
			row = append(row, text)
		})
		if !empty {
			out.Rows = append(out.Rows, row)
		}
	})
	return out, nil
}

func cleanText(s *goquery.Selection) string {
	return strings.Join(strings.Fields(s.Text()), " ")
}

// Records pads every row to the header width so the table can be written
// as CSV. Without headers, columns are named col_1, col_2, ...
func (t *Table) Records() ([]string, [][]string) {
	width := len(t.Headers)
	for _, r := range t.Rows {
		if len(r) > width {
			width = len(r)
		}
	}

	headers := make([]string, width)
	for i := range headers {
		if i < len(t.Headers) && t.Headers[i] != "" {
			headers[i] = t.Headers[i]
		} else {
			headers[i] = "col_" + strconv.Itoa(i+1)
		}
	}

	rows := make([][]string, len(t.Rows))
	for i, r := range t.Rows {
		padded := make([]string, width)
		copy(padded, r)
		rows[i] = padded
	}
	return headers, rows
}
