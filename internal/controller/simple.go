package controller

import (
	"bytes"
	"fmt"
	"slices"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	m "github.com/mouse-blink/sigcov/internal/model"
)

// minPathWidth keeps paths readable on narrow terminals.
const minPathWidth = 24

var (
	goodCoverage = color.New(color.FgGreen)
	fairCoverage = color.New(color.FgYellow)
	poorCoverage = color.New(color.FgRed)
	failed       = color.New(color.FgRed, color.Bold)
)

// SimpleUI implements UI using cobra Command's Println.
type SimpleUI struct {
	cmd *cobra.Command
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{cmd: cmd}
}

// Start initializes the UI. Plain output looks the same in every mode.
func (s *SimpleUI) Start(_ ...StartOption) error {
	return nil
}

// Close finalizes the UI.
func (s *SimpleUI) Close() {}

// Wait returns immediately; there is nothing to interact with.
func (s *SimpleUI) Wait() {}

// DisplayInstrumentation prints the signals per instrumented file.
func (s *SimpleUI) DisplayInstrumentation(files []m.InstrumentedFile, err error) error {
	if len(files) > 0 {
		s.printInstrumentation(files)
	}

	if err != nil {
		s.errorf("instrumentation error: %v\n", err)

		return err
	}

	return nil
}

func (s *SimpleUI) printInstrumentation(files []m.InstrumentedFile) {
	files = slices.Clone(files)
	slices.SortStableFunc(files, func(a, b m.InstrumentedFile) int { return strings.Compare(string(a.Source), string(b.Source)) })

	var tableBuffer bytes.Buffer

	table := newTable(&tableBuffer)
	table.SetHeader([]string{"Path", "Signals", "Implicit", "Declined"})
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT,
	})

	width := s.pathWidth()

	var signals, implicit, declined, written int

	for _, f := range files {
		path := shortenPath(string(f.Source), width)
		if f.Err != nil {
			table.Append([]string{path, failed.Sprint("failed"), "", ""})
			s.errorf("%s: %v\n", f.Source, f.Err)

			continue
		}

		table.Append([]string{path, fmt.Sprint(f.Signals), fmt.Sprint(f.Implicit), fmt.Sprint(f.Declined)})

		signals += f.Signals
		implicit += f.Implicit
		declined += f.Declined
		written++
	}

	table.SetFooter([]string{
		fmt.Sprintf("Total Files %d", written),
		fmt.Sprint(signals),
		fmt.Sprint(implicit),
		fmt.Sprint(declined),
	})

	table.Render()
	s.printf("\n%s", tableBuffer.String())
}

// DisplayStage prints one line per stage.
func (s *SimpleUI) DisplayStage(stage string, step, total int) {
	s.printf("[%d/%d] %s\n", step, total, stage)
}

// DisplayCoverage prints the per-file coverage table or the error.
func (s *SimpleUI) DisplayCoverage(summary m.CoverageSummary, err error) error {
	if len(summary.Files) > 0 {
		s.printCoverage(summary)
	}

	if err != nil {
		s.errorf("coverage error: %v\n", err)

		return err
	}

	if len(summary.Files) == 0 {
		s.printf("No coverage data\n")
	}

	return nil
}

// DisplayReport prints a saved report summary.
func (s *SimpleUI) DisplayReport(dir m.Path, summary m.CoverageSummary) error {
	s.printf("Report %s\n", dir)

	return s.DisplayCoverage(summary, nil)
}

func (s *SimpleUI) printCoverage(summary m.CoverageSummary) {
	var tableBuffer bytes.Buffer

	table := newTable(&tableBuffer)
	table.SetHeader([]string{"Path", "Lines", "Executed", "Coverage", "Signals Hit"})
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT,
	})

	width := s.pathWidth()

	for _, f := range summary.Files {
		table.Append([]string{
			shortenPath(string(f.Path), width),
			fmt.Sprint(f.Lines),
			fmt.Sprint(f.Executed),
			formatPercent(f.Percent()),
			fmt.Sprintf("%d/%d", f.Hit, f.Signals),
		})
	}

	totals := summary.Totals
	table.SetFooter([]string{
		fmt.Sprintf("Total Files %d", len(summary.Files)),
		fmt.Sprint(totals.Lines),
		fmt.Sprint(totals.Executed),
		fmt.Sprintf("%.1f%%", totals.Percent()),
		fmt.Sprintf("%d/%d", totals.Hit, totals.Signals),
	})

	table.Render()
	s.printf("\n%s", tableBuffer.String())
}

func newTable(buf *bytes.Buffer) *tablewriter.Table {
	table := tablewriter.NewWriter(buf)
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)

	return table
}

// pathWidth is the path column budget on a terminal, 0 elsewhere.
func (s *SimpleUI) pathWidth() int {
	width := terminalWidth(s.cmd.OutOrStdout())
	if width == 0 {
		return 0
	}

	return max(width-48, minPathWidth)
}

func formatPercent(p float64) string {
	text := fmt.Sprintf("%.1f%%", p)

	switch {
	case p >= 80:
		return goodCoverage.Sprint(text)
	case p >= 50:
		return fairCoverage.Sprint(text)
	default:
		return poorCoverage.Sprint(text)
	}
}

// shortenPath keeps the tail of path within width display columns.
func shortenPath(path string, width int) string {
	if width <= 0 || runewidth.StringWidth(path) <= width {
		return path
	}

	const ellipsis = "…"

	budget := width - runewidth.StringWidth(ellipsis)
	runes := []rune(path)
	used := 0
	start := len(runes)

	for start > 0 {
		w := runewidth.RuneWidth(runes[start-1])
		if used+w > budget {
			break
		}

		used += w
		start--
	}

	return ellipsis + string(runes[start:])
}

func (s *SimpleUI) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}

func (s *SimpleUI) errorf(format string, args ...any) {
	_, _ = fmt.Fprintf(s.cmd.ErrOrStderr(), format, args...)
}
