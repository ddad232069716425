package main

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/akarlsen/rollcall/internal/cli"
	"github.com/akarlsen/rollcall/internal/config"
	"github.com/akarlsen/rollcall/internal/history"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(os.Getenv("ROLLCALL_CONFIG"))
	if err != nil {
		return err
	}

	app := &cli.App{Config: cfg}

	// The journal is best-effort: a broken history database downgrades the
	// tool, it does not stop conversions.
	db, err := history.Open(cfg.HistoryDB)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: opening run history: %v\n", err)
	} else {
		defer db.Close()
		app.History = history.NewRunStore(db)
	}

	app.IsInteractive = func() bool {
		return (isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())) &&
			(isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()))
	}

	rootCmd := cli.NewRootCmd(app)
	return rootCmd.Execute()
}
