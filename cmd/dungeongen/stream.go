package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/lawnchairsociety/dungeongen/internal/dungeon"
	"github.com/lawnchairsociety/dungeongen/internal/streamclient"
)

func streamCmd(_ *options) *cobra.Command {
	var (
		url        string
		seed       int64
		seedPhrase string
		rooms      int
		noFurnish  bool
		timeout    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "stream",
		Short: "Generate a layout on a running server and follow its stages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			c, err := streamclient.Dial(ctx, url, nil)
			if err != nil {
				return err
			}
			defer c.Close()

			req := streamclient.Request{SeedPhrase: seedPhrase, NoFurnish: noFurnish}
			if cmd.Flags().Changed("seed") {
				req.Seed = &seed
			}
			if rooms >= 0 {
				req.Config = map[string]any{"number_of_rooms": rooms}
			}

			stderr := cmd.ErrOrStderr()
			layout, err := c.Generate(ctx, req, func(ev dungeon.StageEvent) {
				fmt.Fprintf(stderr, "%-10s rooms=%d corridors=%d floor=%d\n",
					ev.Stage, ev.Rooms, ev.Corridors, ev.Floor)
			})
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(layout)
		},
	}

	cmd.Flags().StringVarP(&url, "url", "u", "ws://localhost:8080/ws", "Websocket URL of a dungeongen server")
	cmd.Flags().Int64VarP(&seed, "seed", "s", 0, "Generation seed (default: chosen by the server)")
	cmd.Flags().StringVar(&seedPhrase, "seed-phrase", "", "Derive the seed from a phrase (overrides --seed)")
	cmd.Flags().IntVarP(&rooms, "rooms", "r", -1, "Number of rooms (default: server config)")
	cmd.Flags().BoolVar(&noFurnish, "no-furnish", false, "Skip doors, decorations and enemies")
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "Overall request timeout")
	return cmd
}
