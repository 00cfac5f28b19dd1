package model

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func loc(line, col int) Location { return Location{Line: line, Column: col} }

func TestLocation(t *testing.T) {
	assert.False(t, Location{}.Valid())
	assert.True(t, loc(1, 1).Valid())
	assert.True(t, loc(1, 9).Less(loc(2, 1)))
	assert.True(t, loc(2, 1).Less(loc(2, 3)))
	assert.Equal(t, 0, loc(4, 2).Compare(loc(4, 2)))
	assert.Equal(t, "4:2", loc(4, 2).String())
}

func TestRange_Compare(t *testing.T) {
	outer := Range{Begin: loc(1, 1), End: loc(10, 1)}
	inner := Range{Begin: loc(1, 1), End: loc(3, 1)}
	nested := Range{Begin: loc(2, 5), End: loc(2, 9)}
	later := Range{Begin: loc(4, 1), End: loc(4, 5)}

	ranges := []Range{later, nested, inner, outer}
	slices.SortFunc(ranges, Range.Compare)

	assert.Equal(t, []Range{outer, inner, nested, later}, ranges)
	assert.True(t, outer.Contains(inner))
	assert.True(t, inner.Contains(nested))
	assert.False(t, inner.Contains(later))
	assert.True(t, later.ContainsLine(4))
	assert.False(t, later.ContainsLine(2))
}

func TestRange_Valid(t *testing.T) {
	assert.True(t, Range{Begin: loc(1, 1), End: loc(1, 1)}.Valid())
	assert.False(t, Range{Begin: loc(2, 1), End: loc(1, 1)}.Valid())
	assert.False(t, Range{End: loc(1, 1)}.Valid())
}

func TestSignalMapping_Compare(t *testing.T) {
	r := Range{Begin: loc(3, 1), End: loc(5, 2)}
	a := SignalMapping{File: "a", ID: 2, Range: r}
	b := SignalMapping{File: "b", ID: 1, Range: r}

	assert.Negative(t, a.Compare(b))
	assert.Positive(t, b.Compare(a))
	assert.Zero(t, a.Compare(a))
}

func TestLanguageOf(t *testing.T) {
	tests := map[Path]Language{
		"main.go":   LanguageGo,
		"lib/x.c":   LanguageC,
		"inc/x.h":   LanguageC,
		"src/a.CPP": LanguageCPP,
		"src/a.hpp": LanguageCPP,
		"README.md": LanguageUnknown,
		"Makefile":  LanguageUnknown,
	}

	for path, want := range tests {
		assert.Equal(t, want, LanguageOf(path), path)
	}
}
