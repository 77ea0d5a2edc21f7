package cmd

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/muesli/reflow/truncate"
	"github.com/spf13/cobra"

	"github.com/electr1fy0/smartnotes/markup"
	"github.com/electr1fy0/smartnotes/notes"
)

func newListCmd(opts *rootOptions) *cobra.Command {
	var folder, search string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print notes, optionally narrowed by folder and search text",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			lib := opts.app.store.Load(time.Now()).Library
			if folder == "" {
				folder = notes.AllFolders
			}
			vis := lib.Filter(folder, search)
			if len(vis) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No notes found.")
				return nil
			}

			rows := make([][]string, len(vis))
			for i, n := range vis {
				title := n.Title
				if title == "" {
					title = "Untitled"
				}
				preview := truncate.StringWithTail(markup.OneLine(markup.Preview(n.Content)), 48, "…")
				rows[i] = []string{n.ID, title, lib.FolderName(n.FolderID), n.Time().Format("1/2/2006"), preview}
			}
			t := table.New().
				Border(lipgloss.NormalBorder()).
				Headers("ID", "TITLE", "FOLDER", "DATE", "PREVIEW").
				Rows(rows...)
			fmt.Fprintln(cmd.OutOrStdout(), t.Render())
			return nil
		},
	}
	cmd.Flags().StringVarP(&folder, "folder", "f", "", "folder id to show (default all)")
	cmd.Flags().StringVarP(&search, "search", "s", "", "case-insensitive text to match in title or content")
	return cmd
}
