package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/Taco-Comovilla/cattywampus/internal/dispatch"
	"github.com/Taco-Comovilla/cattywampus/internal/logging"
)

// reportSummary logs per-run totals and, when the output is a terminal,
// renders a per-file results table.
func reportSummary(cmd *cobra.Command, logger *slog.Logger, summary dispatch.Summary) {
	mutated, skipped, failed := summary.Counts()
	logger.Info("run summary",
		logging.Int("files", len(summary.Results)),
		logging.Int("mutated", mutated),
		logging.Int("skipped", skipped),
		logging.Int("failed", failed),
	)
	for _, path := range summary.FailedPaths() {
		logger.Error("file failed", logging.String(logging.FieldFile, path))
	}

	out := cmd.OutOrStdout()
	if !isTerminal(out) || len(summary.Results) == 0 {
		return
	}

	tw := newTable("File", "Type", "Result", "Changes")
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 4, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})
	for _, r := range summary.Results {
		tw.AppendRow(table.Row{r.Path, r.Container.String(), resultLabel(r), strconv.Itoa(r.Mutations)})
	}
	fmt.Fprintln(out, tw.Render())
	fmt.Fprintf(out, "%d file(s): %d changed, %d skipped, %d failed in %s\n",
		len(summary.Results), mutated, skipped, failed, summary.Elapsed.Round(timeRounding))
}

func resultLabel(r dispatch.Result) string {
	switch r.Outcome {
	case dispatch.OutcomeSkipped:
		return r.Reason.String()
	case dispatch.OutcomeFailed:
		if r.Err != nil {
			return "failed: " + r.Err.Error()
		}
		return "failed"
	default:
		if r.Mutations == 0 {
			return "clean"
		}
		return "changed"
	}
}

func isTerminal(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

const timeRounding = 10 * time.Millisecond

func newTable(headers ...string) table.Writer {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	header := make(table.Row, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	tw.AppendHeader(header)
	return tw
}
