package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lawnchairsociety/dungeongen/internal/config"
	"github.com/lawnchairsociety/dungeongen/internal/database"
	"github.com/lawnchairsociety/dungeongen/internal/logger"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// options carries the persistent flags and the loaded configuration.
type options struct {
	configPath string
	dbPath     string
	cfg        *config.Config
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:          "dungeongen",
		Short:        "Procedural dungeon layout generator",
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return opts.load()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "data/dungeongen.yaml", "Path to config YAML file")
	rootCmd.PersistentFlags().StringVar(&opts.dbPath, "db", "", "Path to SQLite layout archive (overrides the config database section)")

	rootCmd.AddCommand(generateCmd(opts))
	rootCmd.AddCommand(serveCmd(opts))
	rootCmd.AddCommand(listCmd(opts))
	rootCmd.AddCommand(showCmd(opts))
	rootCmd.AddCommand(deleteCmd(opts))
	rootCmd.AddCommand(migrateCmd(opts))
	rootCmd.AddCommand(streamCmd(opts))

	return rootCmd
}

// load initializes logging and reads the config file. A missing file means defaults.
func (o *options) load() error {
	logConfig, _ := logger.LoadConfig(o.configPath)
	if err := logger.Initialize(logConfig); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}

	cfg, err := config.LoadConfig(o.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg.Output.Format = strings.ToLower(cfg.Output.Format)
	if o.dbPath != "" {
		cfg.Database.Driver = string(database.DialectSQLite)
		cfg.Database.SQLitePath = o.dbPath
	}

	o.cfg = cfg
	return nil
}

func (o *options) openArchive() (*database.Database, error) {
	db, err := database.Open(o.cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to open layout archive: %w", err)
	}
	return db, nil
}
