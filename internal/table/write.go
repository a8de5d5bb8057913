package table

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
)

// File is one output artifact.
type File struct {
	Name    string
	Columns []string
	Rows    [][]string
}

// Encode writes columns and rows as comma-separated values.
func Encode(w io.Writer, columns []string, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(columns); err != nil {
		return err
	}
	if err := cw.WriteAll(rows); err != nil {
		return err
	}
	return cw.Error()
}

// WriteFiles writes every file into dir and returns their final paths.
//
// Each file is first written to a temporary sibling; only when all of them
// were written and closed cleanly are they renamed into place. On failure
// the temporaries are removed and nothing under the final names changes.
func WriteFiles(dir string, files ...File) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrapf(ErrWrite, "creating output directory %s: %v", dir, err)
	}

	temps := make([]string, 0, len(files))
	cleanup := func() {
		for _, t := range temps {
			_ = os.Remove(t)
		}
	}

	for _, f := range files {
		tmp, err := os.CreateTemp(dir, "."+f.Name+".tmp-*")
		if err != nil {
			cleanup()
			return nil, errors.Wrapf(ErrWrite, "creating temp file for %s: %v", f.Name, err)
		}
		temps = append(temps, tmp.Name())

		encErr := Encode(tmp, f.Columns, f.Rows)
		closeErr := tmp.Close()
		if encErr != nil || closeErr != nil {
			cleanup()
			return nil, errors.Wrapf(ErrWrite, "writing %s: %v", f.Name, errors.CombineErrors(encErr, closeErr))
		}
		if err := os.Chmod(tmp.Name(), 0644); err != nil {
			cleanup()
			return nil, errors.Wrapf(ErrWrite, "chmod %s: %v", f.Name, err)
		}
	}

	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = filepath.Join(dir, f.Name)
		if err := os.Rename(temps[i], paths[i]); err != nil {
			cleanup()
			return nil, errors.Wrapf(ErrWrite, "committing %s: %v", f.Name, err)
		}
	}
	return paths, nil
}
