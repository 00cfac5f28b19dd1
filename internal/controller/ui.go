// Package controller provides output adapters for displaying instrumentation
// and coverage results.
package controller

import (
	m "github.com/mouse-blink/sigcov/internal/model"
)

// StartMode defines the mode of operation for the UI.
type StartMode int

// Available StartMode values.
const (
	ModeList StartMode = iota
	ModeTest
	ModeView
)

// StartOption is a functional option for Start method.
type StartOption func(*StartConfig)

// StartConfig holds configuration for starting the UI.
type StartConfig struct {
	mode StartMode
}

// WithListMode sets the UI to listing mode.
func WithListMode() StartOption {
	return func(c *StartConfig) {
		c.mode = ModeList
	}
}

// WithTestMode sets the UI to coverage test mode.
func WithTestMode() StartOption {
	return func(c *StartConfig) {
		c.mode = ModeTest
	}
}

// WithViewMode sets the UI to report browsing mode.
func WithViewMode() StartOption {
	return func(c *StartConfig) {
		c.mode = ModeView
	}
}

// UI defines the interface for displaying instrumentation and coverage
// results. Implementations can use different output methods (simple text,
// TUI, etc).
type UI interface {
	Start(options ...StartOption) error
	Close()
	Wait() // Wait for UI to finish (user closes it)
	DisplayInstrumentation(files []m.InstrumentedFile, err error) error
	DisplayStage(stage string, step, total int)
	DisplayCoverage(summary m.CoverageSummary, err error) error
	DisplayReport(dir m.Path, summary m.CoverageSummary) error
}
