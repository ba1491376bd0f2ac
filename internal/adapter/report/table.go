// Package report renders a run summary for the terminal.
package report

import (
	"io"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"leetcode-anki/internal/domain/model"
)

const maxSkippedShown = 10

// Render writes report to w as a rounded two-column table.
func Render(w io.Writer, report model.RunReport) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Metric", "Value"})

	t.AppendRows([]table.Row{
		{"Output", report.OutputFile},
		{"Listed", report.Listed},
		{"Selected", report.Selected},
		{"Cards", report.Cards},
		{"Cache hits", report.CacheHits},
		{"Fetched", report.Fetched},
		{"Skipped", len(report.Skipped)},
		{"Duration", report.Duration.Round(time.Millisecond)},
	})
	if len(report.Skipped) > 0 {
		t.AppendSeparator()
		t.AppendRow(table.Row{"Skipped slugs", skippedList(report.Skipped)})
	}
	t.Render()
}

func skippedList(slugs []string) string {
	if len(slugs) <= maxSkippedShown {
		return strings.Join(slugs, "\n")
	}
	shown := append([]string(nil), slugs[:maxSkippedShown]...)
	shown = append(shown, "...")
	return strings.Join(shown, "\n")
}
