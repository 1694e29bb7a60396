package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lawnchairsociety/dungeongen/internal/database"
	"github.com/lawnchairsociety/dungeongen/internal/logger"
)

func migrateCmd(opts *options) *cobra.Command {
	var (
		from   string
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Copy layouts from a SQLite archive into the configured archive",
		Long: "Copies every layout from the SQLite file given by --from into the archive selected\n" +
			"by the config database section (typically PostgreSQL). Named layouts that already\n" +
			"exist in the destination are skipped, so the command can be re-run.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if from == "" {
				return fmt.Errorf("--from is required")
			}
			if opts.cfg.Database.Driver == string(database.DialectSQLite) && opts.cfg.Database.SQLitePath == from {
				return fmt.Errorf("source and destination are the same archive")
			}

			src, err := database.Open(database.DefaultConfig(from))
			if err != nil {
				return fmt.Errorf("failed to open source archive: %w", err)
			}
			defer src.Close()

			dst, err := opts.openArchive()
			if err != nil {
				return err
			}
			defer dst.Close()

			logger.Info("Migrating layouts", "from", from, "to", opts.cfg.Database.Driver, "dry_run", dryRun)

			result, err := database.CopyLayouts(src, dst, dryRun)
			if err != nil {
				return err
			}

			verb := "Copied"
			if dryRun {
				verb = "Would copy"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %d layouts (%d skipped)\n", verb, result.Copied, result.Skipped)
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "Source SQLite archive")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show what would be copied without writing")
	return cmd
}
