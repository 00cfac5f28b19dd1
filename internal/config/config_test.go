package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mouse-blink/sigcov/internal/domain"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()

	path := filepath.Join(dir, FileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `
[instrument]
output = "out"
exclude = ["_gen\\.go$"]
include_paths = ["include"]
auto_dump = true

[jumps]
calls = "all"
exempt = ["fmt.*"]

[report]
simple_hitcount = true
jobs = 4
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, path, cfg.Path)
	assert.Equal(t, "out", cfg.Instrument.Output)
	assert.Empty(t, cfg.Instrument.Maps)
	assert.Equal(t, []string{`_gen\.go$`}, cfg.Instrument.Exclude)
	assert.Equal(t, []string{"include"}, cfg.Instrument.IncludePaths)
	assert.True(t, cfg.Instrument.AutoDump)
	assert.True(t, cfg.Instrument.TypeCheck, "defaults survive when a key is absent")
	assert.Equal(t, "sigcov-report", cfg.Report.Output)
	assert.Equal(t, 4, cfg.Report.Jobs)

	policy, err := cfg.Policy()
	require.NoError(t, err)
	assert.Equal(t, domain.CallsAll, policy.Calls)
	assert.Equal(t, []string{"fmt.*"}, policy.Exempt)
	assert.Equal(t, domain.DefaultNonReturning, policy.NonReturning)

	assert.Equal(t, domain.GcovOptions{SimpleHitCount: true}, cfg.Gcov())
}

func TestLoadErrors(t *testing.T) {
	tests := map[string]string{
		"syntax":       "[instrument\n",
		"unknown key":  "[report]\ncolour = true\n",
		"call mode":    "[jumps]\ncalls = \"some\"\n",
		"empty output": "[instrument]\noutput = \"\"\n",
		"negative":     "[report]\njobs = -1\n",
	}

	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, t.TempDir(), content))
			require.Error(t, err)
		})
	}
}

func TestDiscover(t *testing.T) {
	t.Run("walks up to the file", func(t *testing.T) {
		root := t.TempDir()
		path := writeConfig(t, root, "[report]\noutput = \"cov\"\n")

		nested := filepath.Join(root, "a", "b")
		require.NoError(t, os.MkdirAll(nested, 0o755))

		found, ok, err := Find(nested)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, path, found)

		cfg, err := Discover(nested)
		require.NoError(t, err)
		assert.Equal(t, "cov", cfg.Report.Output)
	})

	t.Run("defaults without a file", func(t *testing.T) {
		cfg, err := Discover(t.TempDir())
		require.NoError(t, err)

		// A sigcov.toml in a parent of the temp dir would be picked up.
		if cfg.Path != "" {
			t.Skipf("found unrelated %s", cfg.Path)
		}

		assert.Equal(t, Default(), cfg)
	})
}
