// Package config loads sigcov.toml.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/mouse-blink/sigcov/internal/domain"
)

// FileName is the configuration file looked up from the working directory.
const FileName = "sigcov.toml"

// Config is the decoded configuration. Path is empty when no file was found.
type Config struct {
	Path       string           `toml:"-"`
	Instrument InstrumentConfig `toml:"instrument"`
	Jumps      JumpsConfig      `toml:"jumps"`
	Report     ReportConfig     `toml:"report"`
}

// InstrumentConfig is the [instrument] section.
type InstrumentConfig struct {
	Output        string   `toml:"output"`
	Maps          string   `toml:"maps"`
	Exclude       []string `toml:"exclude"`
	IncludePaths  []string `toml:"include_paths"`
	AutoDump      bool     `toml:"auto_dump"`
	OmitSources   bool     `toml:"omit_sources"`
	OmitMaps      bool     `toml:"omit_maps"`
	RuntimeImport string   `toml:"runtime_import"`
	TypeCheck     bool     `toml:"typecheck"`
}

// JumpsConfig is the [jumps] section.
type JumpsConfig struct {
	Calls        string   `toml:"calls"`
	NonReturning []string `toml:"non_returning"`
	Exempt       []string `toml:"exempt"`
}

// ReportConfig is the [report] section.
type ReportConfig struct {
	Output         string `toml:"output"`
	SimpleHitCount bool   `toml:"simple_hitcount"`
	OmitUnexecuted bool   `toml:"omit_unexecuted"`
	PreservePaths  bool   `toml:"preserve_paths"`
	Jobs           int    `toml:"jobs"`
}

// Default returns the configuration used without a file.
func Default() Config {
	return Config{
		Instrument: InstrumentConfig{
			Output:    "sigcov-out",
			TypeCheck: true,
		},
		Jumps: JumpsConfig{
			Calls:        string(domain.CallsNonReturning),
			NonReturning: append([]string(nil), domain.DefaultNonReturning...),
		},
		Report: ReportConfig{
			Output: "sigcov-report",
		},
	}
}

// Find walks up from startDir looking for sigcov.toml.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}

	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}

	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false, nil
		}

		dir = parent
	}
}

// Discover loads the file found from startDir, or the defaults when
// there is none.
func Discover(startDir string) (Config, error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return Config{}, err
	}

	if !ok {
		return Default(), nil
	}

	return Load(path)
}

// Load decodes the file at path over the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("%s: unknown key %s", path, undecoded[0])
	}

	for _, key := range [][]string{{"instrument", "output"}, {"report", "output"}} {
		if meta.IsDefined(key...) && cfg.value(key) == "" {
			return Config{}, fmt.Errorf("%s: [%s].%s must not be empty", path, key[0], key[1])
		}
	}

	if _, err := domain.ParseCallMode(cfg.Jumps.Calls); err != nil {
		return Config{}, fmt.Errorf("%s: [jumps].calls: %w", path, err)
	}

	if cfg.Report.Jobs < 0 {
		return Config{}, fmt.Errorf("%s: [report].jobs must not be negative", path)
	}

	cfg.Path = path

	return cfg, nil
}

func (c Config) value(key []string) string {
	if key[0] == "report" {
		return c.Report.Output
	}

	return c.Instrument.Output
}

// Policy builds the jump policy of the [jumps] section.
func (c Config) Policy() (domain.JumpPolicy, error) {
	mode, err := domain.ParseCallMode(c.Jumps.Calls)
	if err != nil {
		return domain.JumpPolicy{}, err
	}

	return domain.JumpPolicy{
		Calls:        mode,
		NonReturning: c.Jumps.NonReturning,
		Exempt:       c.Jumps.Exempt,
	}, nil
}

// Gcov returns the report formatting options.
func (c Config) Gcov() domain.GcovOptions {
	return domain.GcovOptions{
		SimpleHitCount: c.Report.SimpleHitCount,
		PreservePaths:  c.Report.PreservePaths,
	}
}
