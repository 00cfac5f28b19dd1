package controller

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	m "github.com/mouse-blink/sigcov/internal/model"
)

func TestTestModelIntegration(t *testing.T) {
	model := newTestModel()

	if cmd := model.Init(); cmd == nil {
		t.Fatalf("Init() returned nil")
	}

	updated, _ := model.Update(tea.WindowSizeMsg{Width: 90, Height: 30})
	model = updated.(testModel)

	if model.results.width != 90 {
		t.Fatalf("results width = %d, want 90", model.results.width)
	}

	updated, _ = model.Update(stageMsg{stage: "running go test", step: 4, total: 5})
	model = updated.(testModel)

	if got := model.percent(); got != 0.8 {
		t.Fatalf("percent = %v, want 0.8", got)
	}

	view := model.View()
	for _, want := range []string{"sigcov test", "running go test", "4"} {
		if !strings.Contains(view, want) {
			t.Fatalf("progress view missing %q\n%s", want, view)
		}
	}

	updated, cmd := model.Update(tickMsg(time.Now()))
	model = updated.(testModel)
	if cmd == nil {
		t.Fatalf("tick while running did not reschedule")
	}

	// Keys other than quit are ignored while running.
	if _, cmd := model.Update(tea.KeyMsg{Type: tea.KeyDown}); cmd != nil {
		t.Fatalf("navigation while running returned a command")
	}

	var summary m.CoverageSummary
	summary.Add(m.FileCoverageSummary{Path: "pkg/a.go", Lines: 3, Executed: 1})

	updated, _ = model.Update(coverageMsg{summary: summary})
	model = updated.(testModel)

	if !model.finished {
		t.Fatalf("coverage did not finish the run")
	}

	view = model.View()
	for _, want := range []string{"sigcov coverage", "pkg/a.go", "33.3%"} {
		if !strings.Contains(view, want) {
			t.Fatalf("result view missing %q\n%s", want, view)
		}
	}

	if _, cmd := model.Update(tea.KeyMsg{Type: tea.KeyCtrlC}); cmd == nil {
		t.Fatalf("ctrl+c did not quit")
	}
}

func TestTestModel_PercentWithoutStages(t *testing.T) {
	if got := newTestModel().percent(); got != 0 {
		t.Fatalf("percent = %v, want 0", got)
	}
}
