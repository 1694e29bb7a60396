package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lawnchairsociety/dungeongen/internal/config"
	"github.com/lawnchairsociety/dungeongen/internal/dungeon"
	"github.com/lawnchairsociety/dungeongen/internal/export"
	"github.com/lawnchairsociety/dungeongen/internal/furnish"
	"github.com/lawnchairsociety/dungeongen/internal/logger"
	"github.com/lawnchairsociety/dungeongen/internal/seed"
)

type generateFlags struct {
	seed       int64
	seedPhrase string
	rooms      int
	format     string
	out        string
	save       bool
	name       string
	noFurnish  bool
	noLegend   bool
}

func generateCmd(opts *options) *cobra.Command {
	var f generateFlags

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a dungeon layout and print or save it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGenerate(cmd, opts, f)
		},
	}

	cmd.Flags().Int64VarP(&f.seed, "seed", "s", 0, "Generation seed (default: random based on current time)")
	cmd.Flags().StringVar(&f.seedPhrase, "seed-phrase", "", "Derive the seed from a phrase (overrides --seed)")
	cmd.Flags().IntVarP(&f.rooms, "rooms", "r", -1, "Number of rooms (default: from config)")
	cmd.Flags().StringVarP(&f.format, "format", "f", "", "Output format: ascii, yaml or json (default: from config)")
	cmd.Flags().StringVarP(&f.out, "out", "o", "", "Output file (empty for stdout)")
	cmd.Flags().BoolVar(&f.save, "save", false, "Store the layout in the archive")
	cmd.Flags().StringVar(&f.name, "name", "", "Archive name for --save")
	cmd.Flags().BoolVar(&f.noFurnish, "no-furnish", false, "Skip doors, decorations and enemies")
	cmd.Flags().BoolVar(&f.noLegend, "no-legend", false, "Omit the ASCII legend")

	return cmd
}

func runGenerate(cmd *cobra.Command, opts *options, f generateFlags) error {
	cfg := opts.cfg
	if f.rooms >= 0 {
		cfg.Generation.NumberOfRooms = f.rooms
	}
	if f.format != "" {
		cfg.Output.Format = f.format
	}
	cfg.Output.Format = strings.ToLower(cfg.Output.Format)
	if f.noLegend {
		cfg.Output.Legend = false
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	worldSeed := seed.Resolve(f.seed, f.seedPhrase)
	if worldSeed == 0 && strings.TrimSpace(f.seedPhrase) == "" {
		worldSeed = seed.Random()
		logger.Info("Seed selected", "seed", worldSeed, "random", true)
	} else {
		logger.Info("Seed selected", "seed", worldSeed, "random", false)
	}

	g := dungeon.NewGenerator(cfg.Generation, worldSeed)
	layout := g.Generate()

	var furnishing *furnish.Furnishing
	if !f.noFurnish {
		furnishing = furnish.Furnish(layout, g.Rand())
	}

	if !layout.Complete {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: only %d of %d rooms could be placed\n",
			len(layout.Rooms), cfg.Generation.NumberOfRooms)
	}

	var id int64
	if f.save {
		db, err := opts.openArchive()
		if err != nil {
			return err
		}
		defer db.Close()

		if id, err = db.SaveLayout(layout, f.name); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Saved layout #%d\n", id)
	}

	w := cmd.OutOrStdout()
	if f.out != "" {
		if err := os.MkdirAll(filepath.Dir(f.out), 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
		file, err := os.Create(f.out)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer file.Close()
		w = file
	}

	if err := writeLayout(w, cfg.Output, layout, furnishing, id, f.name); err != nil {
		return err
	}

	if f.out != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "Layout written to %s\n", f.out)
	}
	return nil
}

// writeLayout renders layout in the configured output format.
func writeLayout(w io.Writer, out config.OutputConfig, layout *dungeon.Layout, f *furnish.Furnishing, id int64, name string) error {
	switch out.Format {
	case config.FormatYAML:
		return export.WriteYAML(w, layout, f)
	case config.FormatJSON:
		doc := export.ToJSON(layout, f)
		doc.ID = id
		doc.Name = name
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	default:
		_, err := io.WriteString(w, export.RenderASCII(layout, out.Legend))
		return err
	}
}
