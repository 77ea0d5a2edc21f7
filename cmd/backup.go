package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/electr1fy0/smartnotes/share"
)

func newBackupCmd(opts *rootOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Write a full backup of the workspace to the export directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := share.BackupFormat(format)
			if f != share.BackupJSONFormat && f != share.BackupTextFormat {
				return fmt.Errorf("unknown format %q (want json or text)", format)
			}
			now := time.Now()
			lib := opts.app.store.Load(now).Library
			status, path, err := opts.app.exporter.Backup(f, lib, now)
			if err != nil {
				return fmt.Errorf("%s: %w", status, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", status, path)
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", string(share.BackupJSONFormat), "backup format: json or text")
	return cmd
}
