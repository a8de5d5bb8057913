package storage

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"

	"github.com/courtdata/matchprep/internal/capture"
)

const (
	captureDir    = "captures"
	capturePrefix = "capture_"
	captureExt    = ".json"
)

// ErrNotFound is returned when a capture id has no file.
var ErrNotFound = errors.New("capture not found")

// Storage persists capture sessions under a data directory.
type Storage struct {
	dataDir string
}

// New creates a Storage rooted at dataDir, creating it if needed.
func New(dataDir string) (*Storage, error) {
	// Expand ~ to home directory
	if strings.HasPrefix(dataDir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, errors.Wrap(err, "getting home directory")
		}
		dataDir = filepath.Join(home, dataDir[2:])
	}

	if err := os.MkdirAll(filepath.Join(dataDir, captureDir), 0755); err != nil {
		return nil, errors.Wrap(err, "creating data directory")
	}

	return &Storage{dataDir: dataDir}, nil
}

// Dir returns the data directory.
func (s *Storage) Dir() string {
	return s.dataDir
}

func (s *Storage) capturePath(id string) string {
	return filepath.Join(s.dataDir, captureDir, capturePrefix+id+captureExt)
}

// SaveCapture writes a session as indented JSON and returns the file path.
func (s *Storage) SaveCapture(session *capture.Session) (string, error) {
	if session == nil || session.ID == "" {
		return "", errors.New("session has no id")
	}
	path := s.capturePath(session.ID)

	data, err := sonic.ConfigStd.MarshalIndent(session, "", "  ")
	if err != nil {
		return "", errors.Wrap(err, "encoding capture")
	}

	// Replace atomically.
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return "", errors.Wrap(err, "writing capture")
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return "", errors.Wrap(err, "writing capture")
	}
	return path, nil
}

// LoadCapture reads the session with the given id.
func (s *Storage) LoadCapture(id string) (*capture.Session, error) {
	data, err := os.ReadFile(s.capturePath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(ErrNotFound, "%s", id)
		}
		return nil, errors.Wrap(err, "reading capture")
	}

	var session capture.Session
	if err := sonic.Unmarshal(data, &session); err != nil {
		return nil, errors.Wrapf(err, "parsing capture %s", id)
	}
	if session.Records == nil {
		session.Records = make(map[string]*capture.Record)
	}
	return &session, nil
}

// ListCaptures returns all stored sessions, newest first. Files that fail
// to parse are skipped.
func (s *Storage) ListCaptures() ([]*capture.Session, error) {
	entries, err := os.ReadDir(filepath.Join(s.dataDir, captureDir))
	if err != nil {
		return nil, errors.Wrap(err, "listing captures")
	}

	var sessions []*capture.Session
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, capturePrefix) || !strings.HasSuffix(name, captureExt) {
			continue
		}
		id := strings.TrimSuffix(strings.TrimPrefix(name, capturePrefix), captureExt)
		session, err := s.LoadCapture(id)
		if err != nil {
			continue
		}
		sessions = append(sessions, session)
	}

	sort.SliceStable(sessions, func(i, j int) bool {
		return sessions[i].StartedAt.After(sessions[j].StartedAt)
	})
	return sessions, nil
}
