package controller

import (
	"io"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	m "github.com/mouse-blink/sigcov/internal/model"
)

// TUI implements UI using Bubble Tea for interactive display.
type TUI struct {
	output io.Writer

	mu      sync.Mutex
	program *tea.Program
	done    chan struct{}
	started bool
}

// NewTUI creates a new TUI.
func NewTUI(output io.Writer) *TUI {
	return &TUI{output: output}
}

// Start runs the Bubble Tea program of the selected mode.
func (t *TUI) Start(options ...StartOption) error {
	cfg := &StartConfig{}
	for _, option := range options {
		option(cfg)
	}

	switch cfg.mode {
	case ModeTest:
		return t.startWithModel(newTestModel())
	case ModeView:
		return t.startWithModel(newViewModel(), tea.WithAltScreen(), tea.WithMouseCellMotion())
	case ModeList:
	}

	return t.startWithModel(newListModel())
}

func (t *TUI) startWithModel(model tea.Model, options ...tea.ProgramOption) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.started {
		return nil
	}

	opts := append([]tea.ProgramOption{tea.WithOutput(t.output)}, options...)
	if !IsTTY(t.output) {
		opts = append(opts, tea.WithInput(nil))
	}

	program := tea.NewProgram(model, opts...)
	done := make(chan struct{})

	go func() {
		defer close(done)

		_, _ = program.Run()
	}()

	t.program = program
	t.done = done
	t.started = true

	return nil
}

// send delivers msg to the running program. It is a no-op before Start.
func (t *TUI) send(msg tea.Msg) {
	t.mu.Lock()
	program, started := t.program, t.started
	t.mu.Unlock()

	if !started || program == nil {
		return
	}

	program.Send(msg)
}

func (t *TUI) ensureStarted() {
	t.mu.Lock()
	started := t.started
	t.mu.Unlock()

	if !started {
		_ = t.Start()
	}
}

// Wait blocks until the user quits the program.
func (t *TUI) Wait() {
	t.mu.Lock()
	done, started := t.done, t.started
	t.mu.Unlock()

	if started && done != nil {
		<-done
	}
}

// Close stops the program, leaving its last frame on screen.
func (t *TUI) Close() {
	t.mu.Lock()
	program, done := t.program, t.done
	t.program, t.done, t.started = nil, nil, false
	t.mu.Unlock()

	if program == nil {
		return
	}

	program.Quit()
	<-done
}

// DisplayInstrumentation shows the signals per instrumented file.
func (t *TUI) DisplayInstrumentation(files []m.InstrumentedFile, err error) error {
	t.ensureStarted()
	t.send(newInstrumentationMsg(files, err))

	return err
}

// DisplayStage advances the progress bar.
func (t *TUI) DisplayStage(stage string, step, total int) {
	t.send(stageMsg{stage: stage, step: step, total: total})
}

// DisplayCoverage shows the coverage of a report run.
func (t *TUI) DisplayCoverage(summary m.CoverageSummary, err error) error {
	t.ensureStarted()
	t.send(coverageMsg{summary: summary, err: err})

	return err
}

// DisplayReport loads a saved report into the browser.
func (t *TUI) DisplayReport(dir m.Path, summary m.CoverageSummary) error {
	t.ensureStarted()
	t.send(reportMsg{dir: dir, summary: summary})

	return nil
}
