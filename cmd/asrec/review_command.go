package main

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/asrecorded/asrec/internal/config"
	"github.com/asrecorded/asrec/internal/store"
	"github.com/asrecorded/asrec/internal/ui"
	"github.com/asrecorded/asrec/internal/watcher"
)

func newReviewCommand(ctx *commandContext) *cobra.Command {
	var noJournal bool

	cmd := &cobra.Command{
		Use:   "review <chapterID>",
		Short: "Open the take review screen for a chapter",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			chapterID, err := parseID(args[0], "chapter")
			if err != nil {
				return err
			}
			if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
				return errors.New("review needs an interactive terminal")
			}

			client, err := ctx.client()
			if err != nil {
				return err
			}
			logger := ctx.logger()
			cfg := ctx.configValue()

			opts := ui.Options{
				ChapterID: chapterID,
				Backend:   client,
				Logger:    logger,
				Config:    cfg,
				OnReload: func(next config.Config) {
					if ctx.log != nil {
						ctx.log.SetLevel(next.LogLevel)
					}
				},
			}

			if !noJournal {
				db, err := store.Open(store.DBPath())
				if err != nil {
					// Edits still work without the journal.
					logger.Warn("journal unavailable", "error", err)
				} else {
					defer db.Close()
					opts.Journal = db
				}
			}

			w, err := watcher.New(config.Path())
			if err != nil {
				logger.Warn("config watch unavailable", "error", err)
			} else {
				defer w.Close()
				opts.Watcher = w
			}

			nudgeWindowSize()

			logger.Info("review started", "chapter", chapterID, "api", client.BaseURL())
			p := tea.NewProgram(ui.NewModel(opts), tea.WithAltScreen(), tea.WithContext(cmd.Context()))
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("review: %w", err)
			}
			logger.Info("review ended", "chapter", chapterID)
			return nil
		},
	}
	cmd.Flags().BoolVar(&noJournal, "no-journal", false, "Do not record edits or the last viewed take")
	return cmd
}

// nudgeWindowSize asks the terminal to grow when it is smaller than the
// review layout needs. Terminals that ignore the request are left alone.
func nudgeWindowSize() {
	const minCols, minRows = 100, 30
	w, h, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || (w >= minCols && h >= minRows) {
		return
	}
	fmt.Fprintf(os.Stdout, "\x1b[8;%d;%dt", max(h, minRows), max(w, minCols))
}
