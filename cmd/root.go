package cmd

import (
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/electr1fy0/smartnotes/model"
)

type rootOptions struct {
	cfgFile string
	app     *app
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "smartnotes",
		Short: "A notes workspace with folders, sharing and an AI assistant.",
		Long: `Smart Notes keeps your notes in folders, lets you search, reorder,
share and back them up, and answers questions about them with Gemini.

Run without a subcommand to open the workspace.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(opts.cfgFile)
			if err != nil {
				return err
			}
			opts.app = a
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if opts.app == nil {
				return nil
			}
			return opts.app.Close()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(opts.app)
		},
	}

	root.PersistentFlags().StringVar(&opts.cfgFile, "config", "", "config file (default is $HOME/.config/smartnotes/config.yaml)")

	root.AddCommand(
		newListCmd(opts),
		newBackupCmd(opts),
		newImportCmd(opts),
		newAskCmd(opts),
	)
	return root
}

func runTUI(a *app) error {
	snap := a.store.Load(time.Now())
	m := model.New(snap, model.Deps{
		Saver:        a.store,
		Asker:        a.asker,
		Exporter:     a.exporter,
		Log:          a.log,
		StatusTTL:    a.cfg.StatusTTL,
		ContextNotes: a.cfg.AI.ContextNotes,
	})

	a.log.Info().Int("notes", len(snap.Library.Notes)).Msg("workspace opened")
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
	return err
}

func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
