package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nescore/nescore/mappers"
)

var infoCmd = &cobra.Command{
	Use:   "info <rom>",
	Short: "Print a ROM's parsed iNES header without running it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cart, err := loadCartridge(args[0])
		if err != nil {
			return err
		}

		fmt.Printf("mapper:     %d\n", cart.MapperID())
		fmt.Printf("prg-rom:    %d x 16KiB\n", cart.PRGUnits())
		fmt.Printf("chr-rom:    %d x 8KiB\n", cart.CHRUnits())
		fmt.Printf("mirroring:  %s\n", mirroringName(cart.Mirroring()))
		return nil
	},
}

func mirroringName(m mappers.Mirroring) string {
	switch m {
	case mappers.MirrorHorizontal:
		return "horizontal"
	case mappers.MirrorVertical:
		return "vertical"
	case mappers.MirrorFourScreen:
		return "four-screen"
	case mappers.MirrorSingleScreen:
		return "single-screen"
	default:
		return "unknown"
	}
}
