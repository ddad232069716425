package formatter

import (
	"fmt"
	"strings"

	"github.com/akarlsen/rollcall/internal/history"
	"github.com/akarlsen/rollcall/internal/report"
)

// FormatRuns renders the run journal as an aligned table, newest first.
func FormatRuns(runs []*history.Run) string {
	var b strings.Builder

	b.WriteString(StyleHeader.Render("Recent runs"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "  %s\n", Dim(fmt.Sprintf("%-16s  %-9s  %5s  %5s  %5s  %s",
		"started", "status", "in", "out", "fail", "output dir")))

	for _, r := range runs {
		status := StatusIndicator(report.Status(r.Status))
		fmt.Fprintf(&b, "  %-16s  %s  %5d  %5d  %5d  %s\n",
			r.StartedAt.Local().Format("2006-01-02 15:04"),
			status,
			r.InputCount,
			r.WrittenCount,
			r.FailedCount,
			Dim(r.OutputDir),
		)
	}

	return b.String()
}
