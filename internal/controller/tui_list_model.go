package controller

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	m "github.com/mouse-blink/sigcov/internal/model"
)

type tickMsg time.Time

const (
	defaultWidth  = 80
	defaultHeight = 24
	countWidth    = 8
)

var selectedStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("0")).
	Background(lipgloss.Color("6")).
	Bold(true)

// fileDelegate renders instrumented files and coverage rows.
type fileDelegate struct {
	offset int
}

func (d fileDelegate) Height() int  { return 1 }
func (d fileDelegate) Spacing() int { return 0 }
func (d fileDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

func (d fileDelegate) Render(w io.Writer, l list.Model, index int, item list.Item) {
	isSelected := index == l.Index()
	width := l.Width() - countWidth - 2

	var count, path string

	var countStyle lipgloss.Style

	switch it := item.(type) {
	case fileItem:
		path = it.path
		count = fmt.Sprintf("%d", it.count)
		countStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)

		if it.failed {
			count = "failed"
			countStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
		}
	case coverageItem:
		path = string(it.Path)
		count = fmt.Sprintf("%.1f%%", it.Percent())
		countStyle = lipgloss.NewStyle().Foreground(coverageColor(it.Percent())).Bold(true)
	default:
		return
	}

	countStyle = countStyle.Width(countWidth).Align(lipgloss.Right)
	pathStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	displayPath := truncateToWidth(path, width)

	if isSelected {
		countStyle = countStyle.Inherit(selectedStyle).Foreground(lipgloss.Color("0"))
		pathStyle = selectedStyle
		displayPath = animateScroll(path, width, d.offset)
	}

	_, _ = fmt.Fprintf(w, "%s  %s", countStyle.Render(count), pathStyle.Render(displayPath))
}

func coverageColor(percent float64) lipgloss.Color {
	switch {
	case percent >= 80:
		return lipgloss.Color("2")
	case percent >= 50:
		return lipgloss.Color("3")
	default:
		return lipgloss.Color("1")
	}
}

func animateScroll(text string, width int, offset int) string {
	if width <= 0 {
		return ""
	}

	if runewidth.StringWidth(text) <= width {
		return text
	}

	// Gap between repeats
	gap := "   "

	// Initial pause before scrolling starts (in ticks)
	pause := 5

	if offset < pause {
		return truncateToWidth(text, width)
	}

	runes := []rune(text + gap)
	n := len(runes)
	start := (offset - pause) % n

	res := make([]rune, 0, width)
	for i := range width {
		res = append(res, runes[(start+i)%n])
	}

	return runewidth.Truncate(string(res), width, "")
}

func truncateToWidth(text string, width int) string {
	if width <= 0 {
		return ""
	}

	return runewidth.Truncate(text, width, "…")
}

func newFileList(placeholder string) list.Model {
	fileList := list.New([]list.Item{}, fileDelegate{}, defaultWidth, defaultHeight)
	fileList.SetShowPagination(false)
	fileList.SetShowFilter(true)
	fileList.SetShowHelp(false)
	fileList.SetShowTitle(false)
	fileList.SetShowStatusBar(false)
	fileList.FilterInput.Placeholder = placeholder

	return fileList
}

func tick(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// listModel shows the result of an instrumentation or report run.
type listModel struct {
	width        int
	height       int
	fileList     list.Model
	delegate     fileDelegate
	title        string
	summary      string
	err          error
	rendered     bool
	animOffset   int
	lastSelected int
}

func newListModel() listModel {
	return listModel{
		width:        defaultWidth,
		height:       defaultHeight,
		fileList:     newFileList("Filter by path…"),
		lastSelected: -1,
	}
}

func (lm listModel) Init() tea.Cmd {
	return tick(time.Second / 2)
}

func (lm listModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		lm.width = msg.Width
		lm.height = msg.Height
		lm.fileList.SetWidth(lm.width)

	case tickMsg:
		if lm.fileList.FilterState() != list.Filtering && lm.rendered {
			lm.animOffset++
			lm.delegate.offset = lm.animOffset
			lm.fileList.SetDelegate(lm.delegate)

			return lm, tick(150 * time.Millisecond)
		}

		return lm, tick(time.Second / 2)

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return lm, tea.Quit
		default:
			lm.fileList, cmd = lm.fileList.Update(msg)

			if lm.fileList.Index() != lm.lastSelected {
				lm.lastSelected = lm.fileList.Index()
				lm.animOffset = 0
				lm.delegate.offset = 0
				lm.fileList.SetDelegate(lm.delegate)
			}

			return lm, cmd
		}

	case instrumentationMsg:
		lm = lm.handleInstrumentationMsg(msg)

	case coverageMsg:
		lm = lm.handleCoverage(msg.summary, msg.err)
	}

	return lm, cmd
}

func (lm listModel) handleInstrumentationMsg(msg instrumentationMsg) listModel {
	files := append([]fileItem(nil), msg.files...)
	sort.SliceStable(files, func(i, j int) bool { return files[i].path < files[j].path })

	items := make([]list.Item, 0, len(files))
	for _, f := range files {
		items = append(items, f)
	}

	lm.title = "sigcov instrumentation"
	lm.summary = fmt.Sprintf("Signals: %s   Files: %s   Failed: %s",
		accent(msg.signals), accent(len(files)-msg.failed), accent(msg.failed))

	return lm.setItems(items, msg.err)
}

func (lm listModel) handleCoverage(summary m.CoverageSummary, err error) listModel {
	items := make([]list.Item, 0, len(summary.Files))
	for _, item := range coverageItems(summary) {
		items = append(items, item)
	}

	lm.title = "sigcov coverage"
	lm.summary = coverageSummaryLine(summary)

	return lm.setItems(items, err)
}

func (lm listModel) setItems(items []list.Item, err error) listModel {
	lm.fileList.SetItems(items)
	lm.err = err
	lm.rendered = true

	if len(items) > 0 && lm.lastSelected == -1 {
		lm.lastSelected = 0
	}

	return lm
}

func accent(v any) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Render(fmt.Sprint(v))
}

func coverageSummaryLine(summary m.CoverageSummary) string {
	totals := summary.Totals

	return fmt.Sprintf("Coverage: %s   Lines: %s / %s   Signals hit: %s / %s   Files: %s",
		lipgloss.NewStyle().Foreground(coverageColor(totals.Percent())).Render(fmt.Sprintf("%.1f%%", totals.Percent())),
		accent(totals.Executed), accent(totals.Lines),
		accent(totals.Hit), accent(totals.Signals),
		accent(len(summary.Files)))
}

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			Padding(1, 0, 0, 2)

	summaryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Padding(0, 0, 1, 2)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("1")).
			Padding(0, 0, 1, 2)
)

func (lm listModel) View() string {
	if !lm.rendered {
		return "Loading…\n"
	}

	parts := []string{
		titleStyle.Render(lm.title),
		summaryStyle.Render(lm.summary),
	}

	if lm.err != nil {
		parts = append(parts, errorStyle.Render(lm.err.Error()))
	}

	footer := lipgloss.NewStyle().
		Foreground(lipgloss.Color("8")).
		Align(lipgloss.Center).
		Width(lm.width).
		Render("↑/k up • ↓/j down • / filter • q quit")

	parts = append(parts, renderListBox(lm.fileList, lm.width, lm.height, "Count"), footer)

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// renderListBox draws a file list inside a rounded border with a column
// header. The list is sized to the window.
func renderListBox(fileList list.Model, width, height int, countHeader string) string {
	// Title (2) + summary (2) + footer (1) + border (2) + header (2)
	listHeight := max(height-9, 5)
	listWidth := width - 6

	fileList.SetHeight(listHeight)
	fileList.SetWidth(listWidth)

	headerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("8")).
		Bold(true).
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("8")).
		Width(listWidth)

	headers := headerStyle.Render(fmt.Sprintf("%*s  %s", countWidth, countHeader, "File Path"))

	tableContainer := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("6")).
		Margin(0, 1).
		Padding(0, 1)

	return tableContainer.Render(lipgloss.JoinVertical(lipgloss.Left, headers, fileList.View()))
}
