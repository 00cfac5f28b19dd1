package controller

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	unexecutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	executedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	plainStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// viewModel browses a saved report: the file list, and the annotated
// source of the selected file.
type viewModel struct {
	files   listModel
	dir     string
	source  viewport.Model
	showing string
	err     error
}

func newViewModel() viewModel {
	return viewModel{
		files:  newListModel(),
		source: viewport.New(defaultWidth, defaultHeight-4),
	}
}

func (vm viewModel) Init() tea.Cmd {
	return vm.files.Init()
}

func (vm viewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		vm.source.Width = msg.Width
		vm.source.Height = max(msg.Height-4, 3)

	case reportMsg:
		vm.dir = string(msg.dir)

		return vm.forward(coverageMsg{summary: msg.summary})

	case reportTextMsg:
		vm.showing = msg.path
		vm.err = msg.err
		vm.source.SetContent(annotate(msg.text))
		vm.source.GotoTop()

		return vm, nil

	case tickMsg:
		if vm.showing != "" {
			return vm, tick(time.Second / 2)
		}

	case tea.KeyMsg:
		if vm.showing != "" {
			return vm.handleSourceKey(msg)
		}

		if msg.String() == "enter" && vm.files.fileList.FilterState() != list.Filtering {
			if item, ok := vm.files.fileList.SelectedItem().(coverageItem); ok {
				return vm, loadReport(filepath.Join(vm.dir, item.Report), string(item.Path))
			}

			return vm, nil
		}
	}

	return vm.forward(msg)
}

func (vm viewModel) handleSourceKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return vm, tea.Quit
	case "esc", "backspace", "left", "h":
		vm.showing = ""
		vm.err = nil

		return vm, nil
	}

	var cmd tea.Cmd

	vm.source, cmd = vm.source.Update(msg)

	return vm, cmd
}

func (vm viewModel) forward(msg tea.Msg) (tea.Model, tea.Cmd) {
	updated, cmd := vm.files.Update(msg)
	if files, ok := updated.(listModel); ok {
		vm.files = files
	}

	return vm, cmd
}

func loadReport(path, source string) tea.Cmd {
	return func() tea.Msg {
		data, err := os.ReadFile(path)

		return reportTextMsg{path: source, text: string(data), err: err}
	}
}

// annotate colors report lines by their count column.
func annotate(text string) string {
	lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")

	for i, line := range lines {
		count, _, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}

		switch strings.TrimSpace(count) {
		case "#####", "0":
			lines[i] = unexecutedStyle.Render(line)
		case "-":
			lines[i] = plainStyle.Render(line)
		default:
			lines[i] = executedStyle.Render(line)
		}
	}

	return strings.Join(lines, "\n")
}

func (vm viewModel) View() string {
	if vm.showing == "" {
		return vm.files.View()
	}

	title := titleStyle.Render(truncateToWidth(vm.showing, vm.source.Width-2))

	body := vm.source.View()
	if vm.err != nil {
		body = errorStyle.Render(vm.err.Error())
	}

	footer := lipgloss.NewStyle().
		Foreground(lipgloss.Color("8")).
		Align(lipgloss.Center).
		Width(vm.source.Width).
		Render("↑/k up • ↓/j down • esc back • q quit")

	return lipgloss.JoinVertical(lipgloss.Left, title, body, footer)
}
