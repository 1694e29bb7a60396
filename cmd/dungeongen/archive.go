package main

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/lawnchairsociety/dungeongen/internal/config"
)

func listCmd(opts *options) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List archived layouts, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := opts.openArchive()
			if err != nil {
				return err
			}
			defer db.Close()

			summaries, err := db.ListLayouts(limit)
			if err != nil {
				return err
			}
			if len(summaries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No archived layouts.")
				return nil
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tSEED\tSIZE\tROOMS\tCREATED")
			for _, s := range summaries {
				name := s.Name
				if name == "" {
					name = "-"
				}
				rooms := fmt.Sprintf("%d/%d", s.Rooms, s.Requested)
				if !s.Complete {
					rooms += "*"
				}
				fmt.Fprintf(tw, "%d\t%s\t%d\t%dx%d\t%s\t%s\n",
					s.ID, name, s.Seed, s.Width, s.Height, rooms, s.CreatedAt.Format("2006-01-02 15:04"))
			}
			return tw.Flush()
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Maximum layouts to list (default 50)")
	return cmd
}

func showCmd(opts *options) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Print an archived layout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseLayoutID(args[0])
			if err != nil {
				return err
			}
			if format != "" {
				if !config.ValidFormat(format) {
					return fmt.Errorf("unknown format %q", format)
				}
				opts.cfg.Output.Format = strings.ToLower(format)
			}

			db, err := opts.openArchive()
			if err != nil {
				return err
			}
			defer db.Close()

			layout, err := db.LoadLayout(id)
			if err != nil {
				return err
			}
			return writeLayout(cmd.OutOrStdout(), opts.cfg.Output, layout, nil, id, "")
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format: ascii, yaml or json (default: from config)")
	return cmd
}

func deleteCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an archived layout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseLayoutID(args[0])
			if err != nil {
				return err
			}

			db, err := opts.openArchive()
			if err != nil {
				return err
			}
			defer db.Close()

			if err := db.DeleteLayout(id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted layout #%d\n", id)
			return nil
		},
	}
}

func parseLayoutID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid layout id %q", s)
	}
	return id, nil
}
