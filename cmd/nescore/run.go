package main

import (
	"context"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spf13/cobra"

	"github.com/nescore/nescore/console"
)

var runCmd = &cobra.Command{
	Use:   "run <rom>",
	Short: "Run a ROM interactively in a window",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cart, err := loadCartridge(args[0])
		if err != nil {
			return err
		}

		bus := console.New(cart)
		bus.SetLogger(newLogger())

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		go bus.Run(ctx)

		if err := ebiten.RunGame(bus); err != nil {
			return fmt.Errorf("running game: %w", err)
		}
		return nil
	},
}
