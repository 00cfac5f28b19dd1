package controller

import (
	m "github.com/mouse-blink/sigcov/internal/model"
)

// Message types.
type instrumentationMsg struct {
	files   []fileItem
	signals int
	failed  int
	err     error
}

type stageMsg struct {
	stage string
	step  int
	total int
}

type coverageMsg struct {
	summary m.CoverageSummary
	err     error
}

type reportMsg struct {
	dir     m.Path
	summary m.CoverageSummary
}

type reportTextMsg struct {
	path string
	text string
	err  error
}

// List item types.
type fileItem struct {
	path   string
	count  int
	failed bool
}

func (f fileItem) FilterValue() string {
	return f.path
}

type coverageItem struct {
	m.FileCoverageSummary
}

func (c coverageItem) FilterValue() string {
	return string(c.Path)
}

func newInstrumentationMsg(files []m.InstrumentedFile, err error) instrumentationMsg {
	msg := instrumentationMsg{files: make([]fileItem, 0, len(files)), err: err}

	for _, f := range files {
		item := fileItem{path: string(f.Source), count: f.Signals, failed: f.Err != nil}
		if item.failed {
			msg.failed++
		} else {
			msg.signals += f.Signals
		}

		msg.files = append(msg.files, item)
	}

	return msg
}

func coverageItems(summary m.CoverageSummary) []coverageItem {
	items := make([]coverageItem, 0, len(summary.Files))
	for _, f := range summary.Files {
		items = append(items, coverageItem{f})
	}

	return items
}
