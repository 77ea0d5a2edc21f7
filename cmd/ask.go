package cmd

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/electr1fy0/smartnotes/chat"
)

func newAskCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask the AI assistant a question about your notes",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			question := strings.Join(args, " ")
			lib := opts.app.store.Load(time.Now()).Library
			noteContext := chat.BuildContext(lib.Notes, opts.app.cfg.AI.ContextNotes)

			res := opts.app.asker.Ask(cmd.Context(), question, noteContext)
			if !res.OK() {
				return errors.New(res.Text())
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.Text())
			return nil
		},
	}
}
