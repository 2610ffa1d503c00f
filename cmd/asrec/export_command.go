package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/asrecorded/asrec/internal/ui"
)

func newExportCommand(ctx *commandContext) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export <chapterID>",
		Short: "Download a chapter's Excel export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			chapterID, err := parseID(args[0], "chapter")
			if err != nil {
				return err
			}
			client, err := ctx.client()
			if err != nil {
				return err
			}

			dir, name := ctx.configValue().ExportPath(), ""
			if output != "" {
				dir, name = filepath.Dir(output), filepath.Base(output)
			}
			path, n, err := ui.SaveExport(cmd.Context(), client, chapterID, dir, name)
			if err != nil {
				return fmt.Errorf("export chapter %d: %w", chapterID, notLoggedIn(err))
			}
			ctx.logger().Info("chapter exported", "chapter", chapterID, "path", path, "bytes", n)
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d bytes)\n", path, n)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default: server filename in the export dir)")
	return cmd
}
