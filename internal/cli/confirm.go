package cli

import (
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/akarlsen/rollcall/internal/cli/formatter"
)

// rollcallHuhTheme styles huh forms with the formatter palette.
func rollcallHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// confirmReplace asks before an existing published dataset is replaced.
func confirmReplace(outputDir string) (bool, error) {
	var confirmed bool

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Replace the dataset in %s?", outputDir)).
				Description("The current index and records will be superseded by this run.").
				Affirmative("Replace").
				Negative("Abort").
				Value(&confirmed),
		),
	).WithTheme(rollcallHuhTheme()).WithShowHelp(false)

	if err := form.Run(); err != nil {
		return false, fmt.Errorf("running confirmation prompt: %w", err)
	}
	return confirmed, nil
}
