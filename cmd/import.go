package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/electr1fy0/smartnotes/share"
)

func newImportCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Merge notes from a JSON backup; existing ids are kept",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			incoming, err := share.ReadImport(args[0])
			if err != nil {
				opts.app.log.Warn().Err(err).Str("file", args[0]).Msg("import rejected")
				return fmt.Errorf("%s: %w", share.StatusInvalid, err)
			}

			snap := opts.app.store.Load(time.Now())
			lib, added := snap.Library.Import(incoming)
			snap.Library = lib
			if err := opts.app.store.Save(snap); err != nil {
				return fmt.Errorf("save imported notes: %w", err)
			}
			opts.app.log.Info().Int("added", added).Int("read", len(incoming)).Msg("import merged")
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%d new notes)\n", share.StatusImported, added)
			return nil
		},
	}
}
