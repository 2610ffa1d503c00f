package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/asrecorded/asrec/internal/api"
)

func notLoggedIn(err error) error {
	if errors.Is(err, api.ErrUnauthenticated) {
		return errors.New("not logged in; run `asrec login` first")
	}
	return errors.New(api.Message(err))
}

func newSeriesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "series",
		Short: "List series",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client()
			if err != nil {
				return err
			}
			series, err := client.ListSeries(cmd.Context())
			if err != nil {
				return notLoggedIn(err)
			}
			out := cmd.OutOrStdout()
			if len(series) == 0 {
				fmt.Fprintln(out, "No series")
				return nil
			}
			rows := make([][]string, 0, len(series))
			for _, s := range series {
				rows = append(rows, []string{
					strconv.FormatInt(s.ID, 10),
					clip(s.Name, 48),
					strconv.Itoa(s.ChapterCount),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"ID", "Name", "Chapters"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignRight},
			))
			return nil
		},
	}
}

func newChaptersCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "chapters <seriesID>",
		Short: "List the chapters of a series",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			seriesID, err := parseID(args[0], "series")
			if err != nil {
				return err
			}
			client, err := ctx.client()
			if err != nil {
				return err
			}
			chapters, err := client.ListChapters(cmd.Context(), seriesID)
			if err != nil {
				return notLoggedIn(err)
			}
			out := cmd.OutOrStdout()
			if len(chapters) == 0 {
				fmt.Fprintln(out, "No chapters")
				return nil
			}
			rows := make([][]string, 0, len(chapters))
			for _, ch := range chapters {
				rows = append(rows, []string{
					strconv.FormatInt(ch.ID, 10),
					strconv.Itoa(ch.Number),
					clip(deref(ch.Title, "-"), 48),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"ID", "Number", "Title"},
				rows,
				[]columnAlignment{alignRight, alignRight, alignLeft},
			))
			fmt.Fprintln(out, "Review one with: asrec review <ID>")
			return nil
		},
	}
}
