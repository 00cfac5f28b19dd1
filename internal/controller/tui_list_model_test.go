package controller

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	m "github.com/mouse-blink/sigcov/internal/model"
)

func TestListModelIntegration(t *testing.T) {
	model := newListModel()

	cmd := model.Init()
	if cmd == nil {
		t.Fatalf("Init() returned nil")
	}

	if _, ok := cmd().(tickMsg); !ok {
		t.Fatalf("Init() cmd did not return tickMsg")
	}

	if view := model.View(); !strings.Contains(view, "Loading") {
		t.Fatalf("View before data = %q", view)
	}

	updated, _ := model.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	model = updated.(listModel)

	updated, _ = model.Update(newInstrumentationMsg([]m.InstrumentedFile{
		{Source: "b.go", Signals: 3},
		{Source: "a.go", Signals: 4},
	}, nil))
	model = updated.(listModel)

	view := model.View()
	for _, want := range []string{"sigcov instrumentation", "a.go", "b.go", "7"} {
		if !strings.Contains(view, want) {
			t.Fatalf("View missing %q\n%s", want, view)
		}
	}

	updated, cmd = model.Update(tickMsg(time.Now()))
	model = updated.(listModel)
	if cmd == nil {
		t.Fatalf("Update tick did not return cmd")
	}

	if model.animOffset != 1 {
		t.Fatalf("animOffset = %d, want 1", model.animOffset)
	}

	updated, _ = model.Update(tea.KeyMsg{Type: tea.KeyDown})
	model = updated.(listModel)

	if model.lastSelected != 1 || model.animOffset != 0 {
		t.Fatalf("selection change did not reset animation: selected %d offset %d", model.lastSelected, model.animOffset)
	}

	_, cmd = model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatalf("Quit key did not return tea.Quit")
	}
}

func TestListModel_Coverage(t *testing.T) {
	var summary m.CoverageSummary
	summary.Add(m.FileCoverageSummary{Path: "x.c", Lines: 10, Executed: 9})

	updated, _ := newListModel().Update(coverageMsg{summary: summary, err: errSentinel})
	model := updated.(listModel)

	view := model.View()
	for _, want := range []string{"sigcov coverage", "x.c", "90.0%", "boom"} {
		if !strings.Contains(view, want) {
			t.Fatalf("View missing %q\n%s", want, view)
		}
	}
}

func TestTruncateAndScroll(t *testing.T) {
	if got := truncateToWidth("abcdef", 4); got != "abc…" {
		t.Fatalf("truncateToWidth = %q", got)
	}

	if got := truncateToWidth("abc", 0); got != "" {
		t.Fatalf("truncateToWidth zero width = %q", got)
	}

	if got := animateScroll("abc", 5, 10); got != "abc" {
		t.Fatalf("animateScroll short text = %q", got)
	}

	if got := animateScroll("abcdef", 4, 0); got != "abc…" {
		t.Fatalf("animateScroll during pause = %q", got)
	}

	if got := animateScroll("abcdef", 4, 6); got != "bcde" {
		t.Fatalf("animateScroll after pause = %q", got)
	}
}

func TestCoverageColor(t *testing.T) {
	for percent, want := range map[float64]string{95: "2", 80: "2", 60: "3", 10: "1"} {
		if got := string(coverageColor(percent)); got != want {
			t.Errorf("coverageColor(%v) = %s, want %s", percent, got, want)
		}
	}
}
