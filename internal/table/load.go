package table

import (
	"bytes"
	"encoding/csv"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/cockroachdb/errors"
	"golang.org/x/text/encoding/charmap"
)

// Encoding names, in the order they are tried.
const (
	EncodingUTF8        = "utf-8"
	EncodingWindows1252 = "windows-1252"
	EncodingLatin1      = "iso-8859-1"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Bytes with no mapping in windows-1252. Decoders that follow the WHATWG
// tables pass them through as C1 controls, so they are rejected here.
var undefined1252 = [...]byte{0x81, 0x8D, 0x8F, 0x90, 0x9D}

type decoder struct {
	name   string
	decode func([]byte) (string, bool)
}

var decoders = []decoder{
	{EncodingUTF8, decodeUTF8},
	{EncodingWindows1252, decodeWindows1252},
	{EncodingLatin1, decodeLatin1},
}

func decodeUTF8(data []byte) (string, bool) {
	if !utf8.Valid(data) {
		return "", false
	}
	return string(data), true
}

func decodeWindows1252(data []byte) (string, bool) {
	for _, b := range data {
		for _, u := range undefined1252 {
			if b == u {
				return "", false
			}
		}
	}
	out, err := charmap.Windows1252.NewDecoder().Bytes(data)
	if err != nil {
		return "", false
	}
	return string(out), true
}

func decodeLatin1(data []byte) (string, bool) {
	out, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return "", false
	}
	return string(out), true
}

var nonAlnumRun = regexp.MustCompile(`[^a-z0-9]+`)

// NormalizeColumn lowercases a header name, collapses every run of
// non-alphanumeric characters to "_" and trims leading/trailing "_".
//
//	"Player 1"  -> "player_1"
//	"Pl 1 hand" -> "pl_1_hand"
//	" Date "    -> "date"
func NormalizeColumn(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = nonAlnumRun.ReplaceAllString(s, "_")
	return strings.Trim(s, "_")
}

// Load reads a delimited file fully into memory.
func Load(path string) (*Table, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(ErrNotFound, "%s", path)
		}
		return nil, errors.Wrapf(err, "stat %s", path)
	}
	if info.IsDir() {
		return nil, errors.Wrapf(ErrNotFound, "%s is a directory, not a file", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	return Parse(path, data)
}

// Parse decodes and parses delimited data. The first encoding that decodes
// the bytes and yields a well-formed header row is used.
func Parse(source string, data []byte) (*Table, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.Wrapf(ErrHeader, "%s: file is empty", source)
	}

	for _, dec := range decoders {
		text, ok := dec.decode(data)
		if !ok {
			continue
		}

		delim := SniffDelimiter(text)
		if _, err := readHeader(text, delim); err != nil {
			continue
		}

		t, err := parseText(source, text, delim)
		if err != nil {
			return nil, err
		}
		t.Encoding = dec.name
		return t, nil
	}

	return nil, errors.Wrapf(ErrEncoding, "%s", source)
}

func newReader(r io.Reader, delim rune) *csv.Reader {
	cr := csv.NewReader(r)
	cr.Comma = delim
	// Stray quotes inside unquoted names ("Dan "The Man" Evans") are data.
	cr.LazyQuotes = true
	return cr
}

func readHeader(text string, delim rune) ([]string, error) {
	header, err := newReader(strings.NewReader(text), delim).Read()
	if err != nil {
		return nil, err
	}
	if len(header) == 0 {
		return nil, errors.New("empty header")
	}
	return header, nil
}

func parseText(source, text string, delim rune) (*Table, error) {
	r := newReader(strings.NewReader(text), delim)
	// Short rows (footers, totals) are kept and padded by readers of the
	// table; only rows wider than the header are malformed.
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.Wrapf(ErrHeader, "%s: file is empty", source)
		}
		return nil, errors.Wrapf(ErrMalformed, "%s: header: %v", source, err)
	}

	columns, err := normalizeHeader(header)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", source)
	}

	var rows [][]string
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(ErrMalformed, "%s: %v", source, err)
		}
		if len(rec) > len(header) {
			line, _ := r.FieldPos(0)
			return nil, errors.Wrapf(ErrMalformed, "%s: line %d has %d fields, header has %d", source, line, len(rec), len(header))
		}
		rows = append(rows, rec)
	}

	return &Table{
		Source:    source,
		Delimiter: delim,
		Columns:   columns,
		Rows:      rows,
	}, nil
}

// normalizeHeader applies NormalizeColumn to every header cell. Blank names
// become "unnamed_<n>"; duplicates after normalization are an error.
func normalizeHeader(header []string) ([]string, error) {
	columns := make([]string, len(header))
	seen := make(map[string]int, len(header))

	for i, h := range header {
		name := NormalizeColumn(h)
		if name == "" {
			name = "unnamed_" + strconv.Itoa(i)
		}
		if prev, dup := seen[name]; dup {
			return nil, errors.Wrapf(ErrHeader, "columns %d and %d both normalize to %q", prev+1, i+1, name)
		}
		seen[name] = i
		columns[i] = name
	}
	return columns, nil
}
