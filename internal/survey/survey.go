package survey

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/gabriel-vasile/mimetype"

	"github.com/courtdata/matchprep/internal/logger"
	"github.com/courtdata/matchprep/internal/table"
)

// Kind is the coarse format of a surveyed file.
type Kind string

const (
	KindDelimited   Kind = "delimited"
	KindJSON        Kind = "json"
	KindSpreadsheet Kind = "spreadsheet"
	KindOther       Kind = "other"
)

// FileStat describes one surveyed file.
type FileStat struct {
	Path      string `json:"path"`
	Kind      Kind   `json:"kind"`
	MIME      string `json:"mime"`
	Size      int64  `json:"size"`
	Rows      int    `json:"rows"`
	Columns   int    `json:"columns"`
	Missing   int    `json:"missing"`
	Encoding  string `json:"encoding,omitempty"`
	Delimiter string `json:"delimiter,omitempty"`
	Sheet     string `json:"sheet,omitempty"`
	Exported  string `json:"exported,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Report is the result of one survey.
type Report struct {
	Root  string      `json:"root"`
	Files []*FileStat `json:"files"`
}

// Options configures a survey.
type Options struct {
	// Extensions to include, lowercase with leading dot.
	Extensions []string
	// ExportJSON writes JSON arrays of objects as CSV into ProcessedDir.
	ExportJSON   bool
	ProcessedDir string
	Logger       *logger.Logger
}

// Walk surveys every matching file under root, in lexical order. Files that
// cannot be read are reported with Error set; only a missing root is fatal.
func Walk(ctx context.Context, root string, opts Options) (*Report, error) {
	paths, err := find(ctx, root, opts.Extensions)
	if err != nil {
		return nil, err
	}
	log := opts.Logger
	if log == nil {
		log = logger.Default()
	}

	rep := &Report{Root: root}
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		st := inspect(path, opts)
		if st.Error != "" {
			log.Warn("Could not survey file", logger.Fields{"path": path, "kind": string(st.Kind), "error": st.Error})
		} else {
			log.Debug("Surveyed file", logger.Fields{"path": path, "kind": string(st.Kind), "rows": st.Rows})
		}
		rep.Files = append(rep.Files, st)
	}
	return rep, nil
}

// find lists the regular files under root whose extension is in exts.
// An empty exts matches every file.
func find(ctx context.Context, root string, exts []string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil, errors.Wrapf(ErrNotFound, "%s", root)
	}

	want := make(map[string]bool, len(exts))
	for _, e := range exts {
		want[strings.ToLower(e)] = true
	}

	var paths []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if len(want) > 0 && !want[strings.ToLower(filepath.Ext(path))] {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "walking %s", root)
	}
	sort.Strings(paths)
	return paths, nil
}

func inspect(path string, opts Options) *FileStat {
	st := &FileStat{Path: path, Kind: KindOther}
	if info, err := os.Stat(path); err == nil {
		st.Size = info.Size()
	}

	mt, err := mimetype.DetectFile(path)
	if err != nil {
		st.Error = err.Error()
		return st
	}
	st.MIME = mt.String()
	st.Kind = classify(mt, filepath.Ext(path))

	switch st.Kind {
	case KindDelimited:
		tbl, err := table.Load(path)
		if err != nil {
			st.Error = err.Error()
			return st
		}
		st.Rows = len(tbl.Rows)
		st.Columns = len(tbl.Columns)
		st.Missing = tbl.MissingCells()
		st.Encoding = tbl.Encoding
		st.Delimiter = string(tbl.Delimiter)
	case KindJSON:
		inspectJSON(st, opts)
	case KindSpreadsheet:
		inspectWorkbook(st)
	}
	return st
}

// classify maps a detected MIME type to a Kind. Plain text only counts as
// delimited when the extension says so, since mimetype reports short or
// irregular CSV files as text/plain.
func classify(mt *mimetype.MIME, ext string) Kind {
	ext = strings.ToLower(ext)
	for m := mt; m != nil; m = m.Parent() {
		switch {
		case m.Is("application/json"):
			return KindJSON
		case m.Is("text/csv"), m.Is("text/tab-separated-values"):
			return KindDelimited
		case m.Is("application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"),
			m.Is("application/vnd.ms-excel"),
			m.Is("application/x-ole-storage"):
			return KindSpreadsheet
		case m.Is("text/plain"):
			switch ext {
			case ".csv", ".tsv", ".txt":
				return KindDelimited
			case ".json":
				return KindJSON
			}
			return KindOther
		}
	}
	return KindOther
}
