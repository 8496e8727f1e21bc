// cmd/habitchart/main.go
//
// Entry point for the habit chart.
//
// Flow:
// 1. Resolve the document path (argument, or the config default)
// 2. Write a starter document if none exists yet
// 3. Load it once; a broken document at startup is fatal
// 4. Run the TUI, which polls the file for outside edits

package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/kingrea/habit-chart/internal/chart"
	"github.com/kingrea/habit-chart/internal/config"
	"github.com/kingrea/habit-chart/internal/cue"
	"github.com/kingrea/habit-chart/internal/logbook"
	"github.com/kingrea/habit-chart/internal/tui"
	"github.com/kingrea/habit-chart/internal/watch"
)

const version = "0.1.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "habitchart: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "habitchart [path]",
		Short: "Daily habit checklist backed by a YAML file",
		Long: "habitchart shows today's habits from a YAML document, records each toggle\n" +
			"in the document's log, and follows edits made to the file while it runs.\n\n" +
			"Without a path it uses $XDG_CONFIG_HOME/" + config.DocumentFile + ".",
		Version:       version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			var path string
			if len(args) == 1 {
				path = args[0]
			}
			return run(path)
		},
	}
}

func run(path string) error {
	cfg, err := config.Resolve(path)
	if err != nil {
		return err
	}
	lb, err := logbook.New(cfg.LogPath)
	if err != nil {
		return err
	}
	created, err := config.EnsureDocument(cfg.DocumentPath)
	if err != nil {
		return err
	}
	if created {
		lb.Info("Created starter document %s", cfg.DocumentPath)
	}

	ctrl := chart.New(cfg.DocumentPath,
		chart.WithLogger(lb),
		chart.WithCuePlayer(cue.NewBell(os.Stderr)),
		chart.WithObserver(func(st chart.State) {
			lb.Info("Title · %s", st.Heading())
		}),
	)
	watcher := watch.New(ctrl, watch.WithInterval(cfg.PollInterval))
	if err := watcher.Prime(); err != nil {
		return err
	}
	if err := ctrl.Reload(); err != nil {
		return fmt.Errorf("load %s: %w", cfg.DocumentPath, err)
	}

	p := tea.NewProgram(
		tui.NewApp(ctrl, tui.WithPoller(watcher), tui.WithLogbook(lb)),
		tea.WithAltScreen(),
	)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run TUI: %w", err)
	}
	lb.Info("Session closed")
	return nil
}
