// Package formatter renders pipeline output for the terminal. The report's
// own Format stays plain text; everything color lives here.
package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/akarlsen/rollcall/internal/report"
	"github.com/akarlsen/rollcall/internal/validate"
)

// StatusIndicator returns a colored marker such as "● success".
func StatusIndicator(status report.Status) string {
	switch status {
	case report.StatusSuccess:
		return StyleGreen.Render("● success")
	case report.StatusPartial:
		return StyleYellow.Render("● partial")
	case report.StatusFailure:
		return StyleRed.Render("● failure")
	default:
		return StyleDim.Render("● unknown")
	}
}

// FormatReport renders a run report with the terminal palette.
func FormatReport(rep *report.Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s %s\n", StyleHeader.Render("Conversion run:"), StatusIndicator(rep.Status))
	fmt.Fprintf(&b, "  %s %d input, %d records, %s written, %s failed\n",
		Dim("files:"),
		rep.Summary.InputCount,
		rep.Summary.GeneratedCount,
		countStyle(rep.Summary.WrittenFileCount, StyleGreen),
		countStyle(rep.Summary.FailedFileCount, StyleRed),
	)

	if len(rep.Issues) > 0 {
		fmt.Fprintf(&b, "  %s\n", StyleBold.Render(fmt.Sprintf("issues (%d):", len(rep.Issues))))
		for _, iss := range rep.Issues {
			fmt.Fprintf(&b, "    %s %s\n", severityTag(iss.Severity), issueLine(iss))
		}
	}

	for _, f := range rep.FileResults {
		if !f.OK {
			fmt.Fprintf(&b, "    %s %s: %s\n", StyleRed.Render("✗"), f.Path, f.Err)
		}
	}

	return b.String()
}

func countStyle(n int, style lipgloss.Style) string {
	if n == 0 {
		return Dim("0")
	}
	return style.Render(fmt.Sprintf("%d", n))
}

func severityTag(sev validate.Severity) string {
	if sev == validate.SeverityError {
		return StyleRed.Render("[error]")
	}
	return StyleYellow.Render("[warn] ")
}

func issueLine(iss validate.Issue) string {
	var loc string
	switch {
	case iss.File != "" && iss.Field != "":
		loc = iss.File + " " + iss.Field
	case iss.File != "":
		loc = iss.File
	case iss.Field != "":
		loc = iss.Field
	}
	if loc == "" {
		return iss.Message
	}
	return Dim(loc+":") + " " + iss.Message
}
