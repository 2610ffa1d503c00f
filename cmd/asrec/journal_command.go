package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/asrecorded/asrec/internal/store"
)

func newJournalCommand(ctx *commandContext) *cobra.Command {
	var (
		chapterID int64
		limit     int
		failed    bool
		reset     bool
	)

	cmd := &cobra.Command{
		Use:   "journal [query]",
		Short: "List recently submitted edits",
		Long: `List recently submitted edits, newest first.

The optional query combines free text, matched against the submitted value
and the error, with filters:

  field:dialogue|status|timecode   state:pending|confirmed|failed
  chapter:7   intervention:>700   age:<2h   age:>1d`,
		Example: `  asrec journal state:failed age:<1d
  asrec journal --chapter 7 field:dialogue "Ahora"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := store.Open(store.DBPath())
			if err != nil {
				return err
			}
			defer db.Close()

			out := cmd.OutOrStdout()
			if reset {
				if err := db.Reset(); err != nil {
					return fmt.Errorf("clear journal: %w", err)
				}
				ctx.logger().Info("journal cleared")
				fmt.Fprintln(out, "Journal cleared")
				return nil
			}

			var entries []store.Entry
			switch {
			case len(args) == 0 && failed:
				entries, err = db.Failed(chapterID)
			case len(args) == 0:
				entries, err = db.Recent(chapterID, limit)
			default:
				fs := store.Parse(strings.Join(args, " "))
				if chapterID > 0 {
					fs.Filters = append(fs.Filters, store.Filter{Field: store.FilterChapter, Value: strconv.FormatInt(chapterID, 10)})
				}
				if failed {
					fs.Filters = append(fs.Filters, store.Filter{Field: store.FilterState, Value: store.StateFailed})
				}
				entries, err = db.Query(fs, limit)
			}
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Fprintln(out, "No journal entries")
				return nil
			}

			rows := make([][]string, 0, len(entries))
			for _, e := range entries {
				rows = append(rows, []string{
					formatJournalTime(e.CreatedAt),
					strconv.FormatInt(e.ChapterID, 10),
					strconv.FormatInt(e.InterventionID, 10),
					e.Field,
					clip(e.Value, 40),
					e.State,
					clip(e.Error, 30),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"When", "Chapter", "Intervention", "Field", "Value", "State", "Error"},
				rows,
				[]columnAlignment{alignLeft, alignRight, alignRight},
			))
			return nil
		},
	}
	cmd.Flags().Int64Var(&chapterID, "chapter", 0, "Only show edits of this chapter")
	cmd.Flags().IntVarP(&limit, "limit", "n", 50, "Maximum entries to show")
	cmd.Flags().BoolVar(&failed, "failed", false, "Only show edits the backend rejected")
	cmd.Flags().BoolVar(&reset, "clear", false, "Delete all journal entries and saved positions")
	return cmd
}

func formatJournalTime(s string) string {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return s
	}
	return t.Local().Format("2006-01-02 15:04:05")
}
