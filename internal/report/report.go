// Package report aggregates per-file move results into a run summary.
package report

import (
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/mydehq/vidmove/internal/mover"
)

// Failure pairs a source path with the error that stopped its move.
type Failure struct {
	Source string
	Err    error
}

// Summary counts the outcomes of one run.
type Summary struct {
	Moved    int
	Renamed  int
	Skipped  int
	Failed   int
	Failures []Failure
	DryRun   bool
}

// Record folds one move result into the summary.
func (s *Summary) Record(r mover.Result) {
	switch r.Outcome {
	case mover.OutcomeMoved:
		s.Moved++
	case mover.OutcomeRenamed:
		s.Renamed++
	case mover.OutcomeSkipped:
		s.Skipped++
	case mover.OutcomeFailed:
		s.Failed++
		s.Failures = append(s.Failures, Failure{Source: r.Source, Err: r.Err})
	}
}

// Total returns the number of candidates the run attempted.
func (s *Summary) Total() int {
	return s.Moved + s.Renamed + s.Skipped + s.Failed
}

// Render returns the summary as a rounded table, counts right-aligned.
func (s *Summary) Render() string {
	verb := "Moved"
	if s.DryRun {
		verb = "Would move"
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Outcome", "Files"})
	tw.AppendRows([]table.Row{
		{verb, strconv.Itoa(s.Moved)},
		{"Renamed", strconv.Itoa(s.Renamed)},
		{"Skipped", strconv.Itoa(s.Skipped)},
		{"Failed", strconv.Itoa(s.Failed)},
	})
	tw.AppendFooter(table.Row{"Total", strconv.Itoa(s.Total())})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft, AlignHeader: text.AlignLeft, AlignFooter: text.AlignLeft},
		{Number: 2, Align: text.AlignRight, AlignHeader: text.AlignLeft, AlignFooter: text.AlignRight},
	})
	return tw.Render()
}
