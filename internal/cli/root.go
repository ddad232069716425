package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/akarlsen/rollcall/internal/config"
	"github.com/akarlsen/rollcall/internal/history"
)

// App holds everything the CLI commands need.
type App struct {
	Config  config.Config
	History *history.RunStore // nil when the journal is disabled

	// IsInteractive reports whether stdin/stdout are a terminal; it gates
	// confirmation prompts and the watch TUI.
	IsInteractive func() bool
}

// NewRootCmd creates the top-level "rollcall" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "rollcall",
		Short:         "Convert attendance reports into a published dataset",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Accept underscored flag spellings from older scripts.
	root.SetGlobalNormalizationFunc(func(f *pflag.FlagSet, name string) pflag.NormalizedName {
		switch name {
		case "input_dir":
			name = "input"
		case "output_dir":
			name = "output"
		}
		return pflag.NormalizedName(name)
	})

	root.AddCommand(
		newRunCmd(app),
		newCheckCmd(app),
		newWatchCmd(app),
		newHistoryCmd(app),
	)

	return root
}
