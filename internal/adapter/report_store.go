package adapter

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"

	m "github.com/mouse-blink/sigcov/internal/model"
)

const (
	// IndexFileName is the summary written next to the gcov reports.
	IndexFileName = "index.yaml"

	indexVersion = 1
)

// ErrProfileSchema is returned for merged profiles of another schema.
var ErrProfileSchema = errors.New("unsupported profile schema")

// ReportStore persists report summaries and merged profiles.
type ReportStore interface {
	SaveIndex(dir m.Path, summary m.CoverageSummary) error
	LoadIndex(dir m.Path) (m.CoverageSummary, error)
	SaveProfile(path m.Path, profile m.Profile) error
	LoadProfile(path m.Path) (m.Profile, error)
	CleanReports(dir m.Path) error
}

// LocalReportStore keeps reports on the local disk. All writes go through
// the filesystem adapter's atomic WriteFile.
type LocalReportStore struct {
	fs SourceFSAdapter
}

// NewReportStore constructs a ReportStore implementation.
func NewReportStore(fs SourceFSAdapter) *LocalReportStore {
	return &LocalReportStore{fs: fs}
}

type indexYAML struct {
	Version           int `yaml:"version"`
	m.CoverageSummary `yaml:",inline"`
}

// SaveIndex writes index.yaml into dir.
func (rs *LocalReportStore) SaveIndex(dir m.Path, summary m.CoverageSummary) error {
	if dir == "" {
		return fmt.Errorf("report directory is empty")
	}

	data, err := yaml.Marshal(indexYAML{Version: indexVersion, CoverageSummary: summary})
	if err != nil {
		return fmt.Errorf("encode index: %w", err)
	}

	return rs.fs.WriteFile(rs.fs.JoinPath(string(dir), IndexFileName), data, 0o644)
}

// LoadIndex reads index.yaml from dir.
func (rs *LocalReportStore) LoadIndex(dir m.Path) (m.CoverageSummary, error) {
	data, err := rs.fs.ReadFile(rs.fs.JoinPath(string(dir), IndexFileName))
	if err != nil {
		return m.CoverageSummary{}, fmt.Errorf("read index: %w", err)
	}

	var idx indexYAML
	if err := yaml.Unmarshal(data, &idx); err != nil {
		return m.CoverageSummary{}, fmt.Errorf("decode index: %w", err)
	}

	return idx.CoverageSummary, nil
}

// SaveProfile writes a merged profile stamped with the current schema.
func (rs *LocalReportStore) SaveProfile(path m.Path, profile m.Profile) error {
	profile.Schema = m.ProfileSchema

	var buf bytes.Buffer

	enc := msgpack.NewEncoder(&buf)
	enc.SetSortMapKeys(true)

	if err := enc.Encode(&profile); err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}

	return rs.fs.WriteFile(path, buf.Bytes(), 0o644)
}

// LoadProfile reads a merged profile.
func (rs *LocalReportStore) LoadProfile(path m.Path) (m.Profile, error) {
	data, err := rs.fs.ReadFile(path)
	if err != nil {
		return m.Profile{}, fmt.Errorf("read profile: %w", err)
	}

	var profile m.Profile
	if err := msgpack.NewDecoder(bytes.NewReader(data)).Decode(&profile); err != nil {
		return m.Profile{}, fmt.Errorf("decode profile %s: %w", path, err)
	}

	if profile.Schema != m.ProfileSchema {
		return m.Profile{}, fmt.Errorf("%w: %s has schema %d", ErrProfileSchema, path, profile.Schema)
	}

	if profile.Counts == nil {
		profile.Counts = make(map[m.FileID]map[m.SignalID]uint64)
	}

	return profile, nil
}

// CleanReports removes gcov reports and the index from dir. A missing
// directory is not an error.
func (rs *LocalReportStore) CleanReports(dir m.Path) error {
	if dir == "" {
		return fmt.Errorf("report directory is empty")
	}

	entries, err := os.ReadDir(string(dir))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}

		return err
	}

	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || (name != IndexFileName && !strings.HasSuffix(name, ".gcov")) {
			continue
		}

		if err := os.Remove(filepath.Join(string(dir), name)); err != nil {
			return err
		}
	}

	return nil
}
