package survey

import (
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"

	"github.com/courtdata/matchprep/internal/table"
)

// Records is a decoded JSON array of objects.
type Records struct {
	Keys []string
	Rows []map[string]any
}

// DecodeRecords decodes a JSON array of objects. Keys is the sorted union
// of all object keys.
func DecodeRecords(data []byte) (*Records, error) {
	var rows []map[string]any
	if err := sonic.Unmarshal(data, &rows); err != nil {
		return nil, errors.Wrap(ErrNotRecords, err.Error())
	}

	seen := make(map[string]bool)
	for _, row := range rows {
		for k := range row {
			seen[k] = true
		}
	}
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return &Records{Keys: keys, Rows: rows}, nil
}

// Missing counts absent or null cells across all rows.
func (r *Records) Missing() int {
	n := 0
	for _, row := range r.Rows {
		for _, k := range r.Keys {
			if v, ok := row[k]; !ok || v == nil {
				n++
			}
		}
	}
	return n
}

// Table flattens the records into string cells. Nested values are written
// as compact JSON.
func (r *Records) Table() [][]string {
	out := make([][]string, len(r.Rows))
	for i, row := range r.Rows {
		rec := make([]string, len(r.Keys))
		for j, k := range r.Keys {
			rec[j] = cellText(row[k])
		}
		out[i] = rec
	}
	return out
}

func cellText(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		s, err := sonic.MarshalString(t)
		if err != nil {
			return ""
		}
		return s
	}
}

func inspectJSON(st *FileStat, opts Options) {
	data, err := os.ReadFile(st.Path)
	if err != nil {
		st.Error = err.Error()
		return
	}
	recs, err := DecodeRecords(data)
	if err != nil {
		st.Error = err.Error()
		return
	}
	st.Rows = len(recs.Rows)
	st.Columns = len(recs.Keys)
	st.Missing = recs.Missing()

	if !opts.ExportJSON || opts.ProcessedDir == "" {
		return
	}
	name := strings.TrimSuffix(filepath.Base(st.Path), filepath.Ext(st.Path)) + ".csv"
	paths, err := table.WriteFiles(opts.ProcessedDir, table.File{Name: name, Columns: recs.Keys, Rows: recs.Table()})
	if err != nil {
		st.Error = err.Error()
		return
	}
	st.Exported = paths[0]
}
