package table

import (
	"bufio"
	"bytes"
	"io"
	"os"
	"unicode/utf8"

	"github.com/cockroachdb/errors"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// sniffBytes bounds how much of a file is read to pick encoding and delimiter.
const sniffBytes = 64 * 1024

// Dimensions describes a delimited file without holding it in memory.
type Dimensions struct {
	Path      string   `json:"path"`
	Encoding  string   `json:"encoding"`
	Delimiter string   `json:"delimiter"`
	Rows      int      `json:"rows"` // data rows, header excluded
	Columns   int      `json:"columns"`
	Header    []string `json:"header"`
}

// Measure streams a delimited file and counts its rows and columns. The
// encoding and delimiter are detected from the first chunk of the file.
// Rows with a field count different from the header are still counted.
func Measure(path string) (*Dimensions, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(ErrNotFound, "%s", path)
		}
		return nil, errors.Wrapf(err, "opening %s", path)
	}
	defer f.Close()

	br := bufio.NewReaderSize(f, sniffBytes)
	head, err := br.Peek(sniffBytes)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	head = append([]byte(nil), head...)
	if bytes.HasPrefix(head, utf8BOM) {
		if _, err := br.Discard(len(utf8BOM)); err != nil {
			return nil, errors.Wrapf(err, "reading %s", path)
		}
		head = head[len(utf8BOM):]
	}
	if len(bytes.TrimSpace(head)) == 0 {
		return nil, errors.Wrapf(ErrHeader, "%s: file is empty", path)
	}

	encoding, text := sniffEncoding(head, len(head) < sniffBytes-len(utf8BOM))
	if encoding == "" {
		return nil, errors.Wrapf(ErrEncoding, "%s", path)
	}
	delim := SniffDelimiter(text)

	var src io.Reader = br
	switch encoding {
	case EncodingWindows1252:
		src = transform.NewReader(br, charmap.Windows1252.NewDecoder())
	case EncodingLatin1:
		src = transform.NewReader(br, charmap.ISO8859_1.NewDecoder())
	}

	r := newReader(src, delim)
	r.FieldsPerRecord = -1
	r.ReuseRecord = true

	header, err := r.Read()
	if err != nil {
		return nil, errors.Wrapf(ErrMalformed, "%s: header: %v", path, err)
	}
	d := &Dimensions{
		Path:      path,
		Encoding:  encoding,
		Delimiter: string(delim),
		Columns:   len(header),
		Header:    append([]string(nil), header...),
	}

	for {
		_, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(ErrMalformed, "%s: %v", path, err)
		}
		d.Rows++
	}
	return d, nil
}

// sniffEncoding runs the decoder chain over a leading chunk. When the chunk
// is not the whole file, a rune cut at the chunk boundary is ignored.
func sniffEncoding(head []byte, complete bool) (string, string) {
	if !complete {
		head = trimPartialRune(head)
	}
	for _, dec := range decoders {
		text, ok := dec.decode(head)
		if !ok {
			continue
		}
		if _, err := readHeader(text, SniffDelimiter(text)); err != nil {
			continue
		}
		return dec.name, text
	}
	return "", ""
}

func trimPartialRune(b []byte) []byte {
	for i := 1; i < utf8.UTFMax && i <= len(b); i++ {
		if utf8.RuneStart(b[len(b)-i]) {
			if !utf8.FullRune(b[len(b)-i:]) {
				return b[:len(b)-i]
			}
			break
		}
	}
	return b
}
