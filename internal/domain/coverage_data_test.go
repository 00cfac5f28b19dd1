package domain

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "github.com/mouse-blink/sigcov/internal/model"
)

func readDump(t *testing.T, data *CoverageData, text string) int {
	t.Helper()

	skipped, err := data.Read(strings.NewReader(text), "test.sigd")
	require.NoError(t, err)

	return skipped
}

func TestCoverageData_Read(t *testing.T) {
	data := NewCoverageData(nil)

	skipped := readDump(t, data, "f1\n1 3\n2 01\n;\nf2\nA 1\n;\nf1\n1 2\n;\n")
	assert.Zero(t, skipped)

	assert.Equal(t, uint64(5), data.HitCount("f1", 1), "blocks of one file are summed")
	assert.Equal(t, uint64(16), data.HitCount("f1", 2))
	assert.Equal(t, uint64(1), data.HitCount("f2", 10))
	assert.Zero(t, data.HitCount("f2", 1))
	assert.Zero(t, data.HitCount("nope", 1))
	assert.Equal(t, 2, data.Files())
}

func TestCoverageData_RepeatedIDInBlock(t *testing.T) {
	data := NewCoverageData(nil)
	readDump(t, data, "f1\n1 3\n1 7\n;\n")
	assert.Equal(t, uint64(7), data.HitCount("f1", 1), "the later count of a block wins")
}

func TestCoverageData_SkipsBadBlocks(t *testing.T) {
	var logs bytes.Buffer
	data := NewCoverageData(slog.New(slog.NewTextHandler(&logs, nil)))

	input := "f1\n1 1\n;\n" +
		"f2\n1 zz\n;\n" +
		"f3\n0 1\n;\n" +
		"f4\nnospace\n;\n" +
		"f5\n1 1\n;\n" +
		"f6\n2 2\n"

	skipped := readDump(t, data, input)
	assert.Equal(t, 4, skipped)

	assert.Equal(t, uint64(1), data.HitCount("f1", 1))
	assert.Equal(t, uint64(1), data.HitCount("f5", 1))
	assert.Zero(t, data.HitCount("f2", 1))
	assert.Zero(t, data.HitCount("f6", 2), "truncated trailing block")
	assert.Contains(t, logs.String(), "skipping coverage dump block")
	assert.Contains(t, logs.String(), "truncated")
}

func TestCoverageData_BlankLinesBetweenBlocks(t *testing.T) {
	data := NewCoverageData(nil)
	skipped := readDump(t, data, "\n\nf1\n1 1\n;\n\n\nf1\n1 1\n;\n")
	assert.Zero(t, skipped)
	assert.Equal(t, uint64(2), data.HitCount("f1", 1))
}

// Reading a dump in pieces split at block boundaries gives the same
// counts as reading it whole.
func TestCoverageData_SplitAssociativity(t *testing.T) {
	blocks := []string{
		"f1\n1 1\n2 2\n;\n",
		"f2\n1 5\n;\n",
		"f1\n1 3\n3 1\n;\n",
		"f3\n7 9\n;\n",
		"f2\n1 1\n;\n",
	}

	whole := NewCoverageData(nil)
	readDump(t, whole, strings.Join(blocks, ""))

	for split := range len(blocks) + 1 {
		parts := NewCoverageData(nil)
		readDump(t, parts, strings.Join(blocks[:split], ""))
		readDump(t, parts, strings.Join(blocks[split:], ""))

		assert.Equal(t, whole.Profile(), parts.Profile(), "split at %d", split)
	}
}

func TestCoverageData_ProfileAndMerge(t *testing.T) {
	data := NewCoverageData(nil)
	data.Add("f1", 1, 2)
	data.Add("f1", 1, 3)
	data.Add("f2", 4, 1)

	p := data.Profile()
	assert.Equal(t, m.ProfileSchema, p.Schema)
	assert.Equal(t, map[m.FileID]map[m.SignalID]uint64{
		"f1": {1: 5},
		"f2": {4: 1},
	}, p.Counts)

	p.Counts["f1"][1] = 100
	assert.Equal(t, uint64(5), data.HitCount("f1", 1), "profiles are snapshots")

	merged := NewCoverageData(nil)
	merged.Merge(data.Profile())
	merged.Merge(data.Profile())
	assert.Equal(t, uint64(10), merged.HitCount("f1", 1))
	assert.Equal(t, uint64(2), merged.HitCount("f2", 4))
}
