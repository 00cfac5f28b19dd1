package controller

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// testModel follows a `sigcov test` run: a progress bar over the run
// stages, then the coverage list once the report is written.
type testModel struct {
	width       int
	height      int
	progressBar progress.Model
	stage       string
	step        int
	total       int
	started     time.Time
	elapsed     time.Duration
	finished    bool
	results     listModel
}

func newTestModel() testModel {
	prog := progress.New(
		progress.WithDefaultGradient(),
		progress.WithWidth(40),
		progress.WithoutPercentage(),
	)

	return testModel{
		width:       defaultWidth,
		height:      defaultHeight,
		progressBar: prog,
		started:     time.Now(),
		results:     newListModel(),
	}
}

func (tm testModel) Init() tea.Cmd {
	return tick(100 * time.Millisecond)
}

func (tm testModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		tm.width = msg.Width
		tm.height = msg.Height
		tm.progressBar.Width = max(msg.Width-8, 10)

		updated, _ := tm.results.Update(msg)
		tm.results, _ = updated.(listModel)

		return tm, nil

	case tickMsg:
		if !tm.finished {
			tm.elapsed = time.Since(tm.started).Truncate(time.Second)

			return tm, tick(100 * time.Millisecond)
		}

	case tea.KeyMsg:
		if msg.String() == "q" || msg.String() == "ctrl+c" {
			return tm, tea.Quit
		}

		if !tm.finished {
			return tm, nil
		}

	case stageMsg:
		tm.stage = msg.stage
		tm.step = msg.step
		tm.total = msg.total

		return tm, nil

	case coverageMsg:
		tm.finished = true
	}

	if !tm.finished {
		return tm, nil
	}

	updated, cmd := tm.results.Update(msg)
	if results, ok := updated.(listModel); ok {
		tm.results = results
	}

	return tm, cmd
}

func (tm testModel) percent() float64 {
	if tm.total == 0 {
		return 0
	}

	return float64(tm.step) / float64(tm.total)
}

func (tm testModel) View() string {
	if tm.finished {
		return tm.results.View()
	}

	title := titleStyle.Render("sigcov test")

	summary := summaryStyle.Render(fmt.Sprintf("Stage: %s / %s  •  Elapsed: %s",
		accent(tm.step), accent(tm.total), accent(tm.elapsed)))

	progressView := lipgloss.NewStyle().Padding(0, 2).Render(tm.progressBar.ViewAs(tm.percent()))

	stage := tm.stage
	if stage == "" {
		stage = "starting"
	}

	stageView := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("6")).
		Padding(0, 1).
		Margin(1, 1, 1, 0).
		Width(max(tm.width-4, 10)).
		Render(lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Render(truncateToWidth(stage, tm.width-8)))

	footer := lipgloss.NewStyle().
		Foreground(lipgloss.Color("8")).
		Align(lipgloss.Center).
		Width(tm.width).
		Render("Press q to quit")

	return lipgloss.JoinVertical(lipgloss.Left, title, summary, progressView, stageView, footer)
}
